package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// FederalPolicy states whether a corpus is supposed to contain FEMA records.
// The curated corpus excludes the federal provider entirely; the merged
// all-sources corpus expects it.
type FederalPolicy struct {
	// Allowed permits FEMA records. When false, check 20 requires zero.
	Allowed bool
	// ExpectedCount is the exact FEMA record count check 20 requires when
	// Allowed. Zero means "at least one": an allowed corpus with no FEMA
	// records indicates the authoritative feed silently dropped out.
	ExpectedCount int
}

// AuditCorpus runs the cross-record checks (19–21) over a persisted
// envelope. These are the structural gates a release pipeline blocks on.
func AuditCorpus(env domain.Envelope, policy FederalPolicy) []Finding {
	c := &recorder{entityID: "CROSS-RECORD"}

	// Check 19: no two records share an ID.
	counts := make(map[string]int, len(env.Disasters))
	for _, rec := range env.Disasters {
		counts[rec.ID]++
	}
	var dupes []string
	for id, n := range counts {
		if n > 1 {
			dupes = append(dupes, fmt.Sprintf("%s×%d", id, n))
		}
	}
	sort.Strings(dupes)
	actual := "All unique"
	if len(dupes) > 0 {
		actual = "Duplicates: " + strings.Join(dupes, ", ")
	}
	c.check(19, "No duplicate IDs", "All unique", actual, len(dupes) == 0)

	// Check 20: federal provider policy.
	femaCount := 0
	for _, rec := range env.Disasters {
		if rec.Source == domain.SourceFEMA {
			femaCount++
		}
	}
	switch {
	case !policy.Allowed:
		c.check(20, "No FEMA records present",
			"0 FEMA records", fmt.Sprintf("%d FEMA records", femaCount),
			femaCount == 0)
	case policy.ExpectedCount > 0:
		c.check(20, "FEMA record count matches expected",
			fmt.Sprintf("%d FEMA records", policy.ExpectedCount),
			fmt.Sprintf("%d FEMA records", femaCount),
			femaCount == policy.ExpectedCount)
	default:
		c.check(20, "FEMA records present in all-sources corpus",
			">= 1 FEMA record", fmt.Sprintf("%d FEMA records", femaCount),
			femaCount > 0)
	}

	// Check 21: the asserted record count matches reality.
	c.check(21, "Metadata recordCount matches actual count",
		env.Metadata.RecordCount, len(env.Disasters),
		env.Metadata.RecordCount == len(env.Disasters))

	// Check 25: the content hash matches a recompute over the record array.
	// A mismatch means the records were edited after the envelope was
	// written: hand edits bypassing the compiler.
	recomputed, err := domain.ContentHash(env.Disasters)
	switch {
	case err != nil:
		c.warn(25, "Content hash recomputable", "hashable record array", err.Error(), false)
	case env.Metadata.ContentHash == "":
		c.na(25, "Content hash check: N/A (no hash in metadata)")
	default:
		c.check(25, "Metadata contentHash matches record array",
			recomputed, env.Metadata.ContentHash,
			env.Metadata.ContentHash == recomputed)
	}

	return c.findings
}
