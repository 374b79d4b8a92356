package corpus

import (
	"sync"
	"time"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// Store accumulates compiled records across pipeline batches and persists
// two envelopes: the curated corpus (non-FEMA, backward compatible) and the
// all-sources corpus (FEMA merged in, single source of truth).
//
// Upsert applies the merge policy incrementally: an authoritative (FEMA)
// record replaces a curated record with the same ID, a curated record never
// replaces an authoritative one, and among equal-priority sources the first
// record seen wins.
type Store struct {
	mu      sync.Mutex
	byID    map[string]domain.DisasterRecord
	order   []string // insertion order, for deterministic pre-sort iteration
	path    string
	allPath string
}

// NewStore creates a Store persisting the curated corpus at path and the
// FEMA-inclusive corpus at allPath.
func NewStore(path, allPath string) *Store {
	return &Store{
		byID:    make(map[string]domain.DisasterRecord),
		path:    path,
		allPath: allPath,
	}
}

// Upsert merges one compiled record into the store, honoring source
// priority. Returns true when the record was kept (inserted or replaced a
// lower-priority duplicate).
func (s *Store) Upsert(rec domain.DisasterRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[rec.ID]
	if !ok {
		s.byID[rec.ID] = rec
		s.order = append(s.order, rec.ID)
		return true
	}
	if domain.SourcePriority(rec.Source) > domain.SourcePriority(existing.Source) {
		s.byID[rec.ID] = rec
		return true
	}
	return false
}

// Records returns the current record set in insertion order.
func (s *Store) Records() []domain.DisasterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DisasterRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len reports the number of distinct records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Flush writes both corpus files from the current record set: the curated
// envelope without FEMA records, and the all-sources envelope with them.
func (s *Store) Flush(generatedBy string, today domain.Date, now time.Time) error {
	all := s.Records()

	curated := make([]domain.DisasterRecord, 0, len(all))
	for _, rec := range all {
		if rec.Source != domain.SourceFEMA {
			curated = append(curated, rec)
		}
	}

	curatedEnv, err := Build(curated, generatedBy, today, now)
	if err != nil {
		return err
	}
	if err := Write(s.path, curatedEnv); err != nil {
		return err
	}

	allEnv, err := Build(all, generatedBy, today, now)
	if err != nil {
		return err
	}
	return Write(s.allPath, allEnv)
}
