// Package corpus reads and writes the persisted disaster corpus: a JSON
// envelope of metadata plus the full record array.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// Load reads a corpus envelope from disk.
func Load(path string) (domain.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("load corpus: %w", err)
	}
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Envelope{}, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return env, nil
}

// Build assembles a writeable envelope from a record set. Every record's
// time-varying fields are recomputed against today, curated (STATE/HHS)
// records get their lastVerified refreshed to today, and the array is sorted
// by state then declaration date so repeated runs over unchanged input are
// byte-identical apart from the timestamps.
func Build(records []domain.DisasterRecord, generatedBy string, today domain.Date, now time.Time) (domain.Envelope, error) {
	out := make([]domain.DisasterRecord, len(records))
	copy(out, records)

	for i := range out {
		out[i] = domain.Recompute(out[i], today, now)
		if domain.CuratedSources[out[i].Source] {
			verified := today
			out[i].LastVerified = &verified
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		if !out[i].DeclarationDate.Equal(out[j].DeclarationDate) {
			return out[i].DeclarationDate.Before(out[j].DeclarationDate)
		}
		return out[i].ID < out[j].ID
	})

	hash, err := domain.ContentHash(out)
	if err != nil {
		return domain.Envelope{}, err
	}

	sourceCounts := make(map[string]int)
	for _, rec := range out {
		sourceCounts[string(rec.Source)]++
	}

	return domain.Envelope{
		Metadata: domain.Metadata{
			LastUpdated:  now.UTC().Truncate(time.Second),
			RecordCount:  len(out),
			GeneratedBy:  generatedBy,
			ContentHash:  hash,
			SourceCounts: sourceCounts,
		},
		Disasters: out,
	}, nil
}

// Write persists an envelope as indented JSON, replacing the file atomically
// via a same-directory rename.
func Write(path string, env domain.Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write corpus %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write corpus %s: %w", path, err)
	}
	return nil
}
