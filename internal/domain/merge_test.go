package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, source Source, state string) DisasterRecord {
	return DisasterRecord{ID: id, Source: source, State: state, Title: "Test " + id}
}

func TestSourcePriority(t *testing.T) {
	assert.Equal(t, 1, SourcePriority(SourceFEMA))
	assert.Equal(t, 0, SourcePriority(SourceState))
	assert.Equal(t, 0, SourcePriority(SourceHHS))
}

func TestDeduplicate_FirstSeenWins(t *testing.T) {
	a := rec("DUP-1", SourceState, "CA")
	a.Title = "first"
	b := rec("DUP-1", SourceState, "CA")
	b.Title = "second"

	out := Deduplicate([]DisasterRecord{a, b, rec("OTHER-1", SourceHHS, "NY")})
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "OTHER-1", out[1].ID)
}

func TestMergePreferring_AuthoritativeWinsWhole(t *testing.T) {
	fema := rec("SHARED-1", SourceFEMA, "TX")
	fema.Title = "federal version"
	curated := rec("SHARED-1", SourceState, "TX")
	curated.Title = "curated version"

	out := MergePreferring(
		[]DisasterRecord{fema},
		[]DisasterRecord{curated, rec("STATE-ONLY-1", SourceState, "LA")},
	)
	require.Len(t, out, 2)
	assert.Equal(t, "federal version", out[0].Title)
	assert.Equal(t, SourceFEMA, out[0].Source)
	assert.Equal(t, "STATE-ONLY-1", out[1].ID)
}

func TestCoverageGaps(t *testing.T) {
	records := []DisasterRecord{
		rec("FEMA-DR-4781-TX", SourceFEMA, "TX"),   // no STATE record: gap
		rec("FEMA-DR-4790-CA", SourceFEMA, "CA"),   // covered by STATE
		rec("STATE-WILDFIRE-CA", SourceState, "CA"),
		rec("FMCSA-ESC-OK", SourceFMCSA, "OK"),     // no STATE, no FEMA: gap
		rec("FMCSA-ESC-TX", SourceFMCSA, "TX"),     // FEMA already covers TX
		rec("HHS-PHE-NY", SourceHHS, "NY"),         // HHS never creates gaps
	}

	gaps := CoverageGaps(records)
	require.Len(t, gaps, 2)

	// Sorted by state.
	assert.Equal(t, "OK", gaps[0].State)
	assert.Equal(t, SourceFMCSA, gaps[0].Source)
	assert.Equal(t, "TX", gaps[1].State)
	assert.Equal(t, SourceFEMA, gaps[1].Source)
	assert.Equal(t, 1, gaps[1].Count)
	assert.Contains(t, gaps[1].String(), "FEMA→STATE gap")
}

func TestCoverageGaps_TruncatesLongTitles(t *testing.T) {
	long := rec("FEMA-DR-1-WA", SourceFEMA, "WA")
	long.Title = strings.Repeat("x", 100)

	gaps := CoverageGaps([]DisasterRecord{long})
	require.Len(t, gaps, 1)
	assert.Len(t, gaps[0].LatestTitle, 60)
}
