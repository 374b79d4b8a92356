package domain

import (
	"fmt"
	"sort"
)

// SourcePriority ranks providers for merge precedence. FEMA is the
// authoritative machine-readable source: its record always wins over a
// curated record sharing the same ID.
func SourcePriority(s Source) int {
	if s == SourceFEMA {
		return 1
	}
	return 0
}

// Deduplicate removes records with duplicate IDs, keeping the first
// occurrence of each. Relative order is preserved.
func Deduplicate(records []DisasterRecord) []DisasterRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]DisasterRecord, 0, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		unique = append(unique, rec)
	}
	return unique
}

// MergePreferring combines two record lists keyed by ID, preferring the
// authoritative list's full record for any shared ID. No field-by-field
// merging: the higher-priority record wins whole. Within each list the
// first occurrence of an ID wins. The result length is the number of
// distinct IDs across both lists.
func MergePreferring(authoritative, curated []DisasterRecord) []DisasterRecord {
	merged := make([]DisasterRecord, 0, len(authoritative)+len(curated))
	seen := make(map[string]bool, len(authoritative)+len(curated))

	for _, rec := range authoritative {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		merged = append(merged, rec)
	}
	for _, rec := range curated {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		merged = append(merged, rec)
	}
	return merged
}

// CoverageGap flags a state with federal disaster coverage but no curated
// governor declaration. Informational only: a signal for human follow-up,
// never an audit failure.
type CoverageGap struct {
	State       string
	Source      Source // the federal provider that covers the state
	Count       int    // records from that provider
	LatestTitle string
}

func (g CoverageGap) String() string {
	return fmt.Sprintf("%s→STATE gap: %s has %d %s record(s) but no governor declaration. Latest: %s",
		g.Source, g.State, g.Count, g.Source, g.LatestTitle)
}

// CoverageGaps cross-references providers to find missing governor
// declarations: states with FEMA records but no STATE record, and states
// with FMCSA records but neither a STATE nor a FEMA record (FMCSA regional
// emergencies almost always follow a governor declaration).
func CoverageGaps(records []DisasterRecord) []CoverageGap {
	stateCovered := make(map[string]bool)
	femaByState := make(map[string][]DisasterRecord)
	fmcsaByState := make(map[string][]DisasterRecord)

	for _, rec := range records {
		switch rec.Source {
		case SourceState:
			stateCovered[rec.State] = true
		case SourceFEMA:
			femaByState[rec.State] = append(femaByState[rec.State], rec)
		case SourceFMCSA:
			fmcsaByState[rec.State] = append(fmcsaByState[rec.State], rec)
		}
	}

	var gaps []CoverageGap
	for state, recs := range femaByState {
		if stateCovered[state] {
			continue
		}
		gaps = append(gaps, CoverageGap{
			State:       state,
			Source:      SourceFEMA,
			Count:       len(recs),
			LatestTitle: truncateTitle(recs[0].Title),
		})
	}
	for state, recs := range fmcsaByState {
		if stateCovered[state] || len(femaByState[state]) > 0 {
			continue
		}
		gaps = append(gaps, CoverageGap{
			State:       state,
			Source:      SourceFMCSA,
			Count:       len(recs),
			LatestTitle: truncateTitle(recs[0].Title),
		})
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].State < gaps[j].State })
	return gaps
}

func truncateTitle(title string) string {
	if len(title) > 60 {
		return title[:60]
	}
	return title
}
