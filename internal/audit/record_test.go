package audit_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathcoverage/dst-compiler/internal/audit"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

var (
	auditToday = domain.NewDate(2026, time.February, 14)
	auditNow   = time.Date(2026, time.February, 14, 6, 0, 0, 0, time.UTC)
)

// compliantRecord builds a record through the real compiler so the audit's
// rederivation has a known-good subject.
func compliantRecord(t *testing.T) domain.DisasterRecord {
	t.Helper()
	rec, err := domain.BuildRecord(domain.RawProviderRecord{
		ID:              "FEMA-DR-4781-TX",
		Source:          "FEMA",
		State:           "TX",
		Title:           "Severe Storms and Flooding",
		IncidentType:    "Flood",
		DeclarationDate: "2026-01-12",
		IncidentStart:   "2026-01-08",
		IncidentEnd:     "2026-01-29",
		Counties:        []string{"Harris", "Galveston"},
		OfficialURL:     "https://www.fema.gov/disaster/4781",
	}, auditToday, auditNow)
	require.NoError(t, err)
	return rec
}

func compliantStateRecord(t *testing.T) domain.DisasterRecord {
	t.Helper()
	rec, err := domain.BuildRecord(domain.RawProviderRecord{
		ID:              "STATE-WILDFIRE-2026-CA",
		Source:          "STATE",
		State:           "CA",
		Title:           "Wildfire State of Emergency",
		IncidentType:    "Fire",
		DeclarationDate: "2025-11-03",
		IncidentStart:   "2025-10-28",
		RenewalDates:    []string{"2025-12-30"},
		Counties:        []string{"Los Angeles", "Ventura"},
		OfficialURL:     "https://www.gov.ca.gov/emergency/wildfire-2026",
		LastVerified:    "2026-02-01",
	}, auditToday, auditNow)
	require.NoError(t, err)
	return rec
}

func failedChecks(findings []audit.Finding) []int {
	var out []int
	for _, f := range findings {
		if !f.Passed && f.Severity == audit.SeverityFail {
			out = append(out, f.Check)
		}
	}
	return out
}

func TestValidateRecord_CompliantFEMA(t *testing.T) {
	findings := audit.ValidateRecord(compliantRecord(t), auditToday, audit.DefaultURLPolicy())

	require.Len(t, findings, audit.FindingsPerRecord)
	for _, f := range findings {
		assert.True(t, f.Passed, "check %d: %s (expected %s, got %s)", f.Check, f.Description, f.Expected, f.Actual)
	}
}

func TestValidateRecord_CompliantState(t *testing.T) {
	findings := audit.ValidateRecord(compliantStateRecord(t), auditToday, audit.DefaultURLPolicy())

	require.Len(t, findings, audit.FindingsPerRecord)
	assert.Empty(t, failedChecks(findings))
}

func TestValidateRecord_Deterministic(t *testing.T) {
	rec := compliantStateRecord(t)
	urls := audit.DefaultURLPolicy()

	first := audit.ValidateRecord(rec, auditToday, urls)
	second := audit.ValidateRecord(rec, auditToday, urls)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("audit output not deterministic (-first +second):\n%s", diff)
	}
}

func TestValidateRecord_TamperedWindowEnd(t *testing.T) {
	rec := compliantRecord(t)
	rec.SEPWindowEnd = domain.NewDate(2026, time.June, 30)
	rec = domain.Recompute(rec, auditToday, auditNow)

	findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
	assert.Equal(t, []int{11}, failedChecks(findings))
}

func TestValidateRecord_TamperedWindowStart(t *testing.T) {
	rec := compliantRecord(t)
	rec.SEPWindowStart = rec.DeclarationDate // should be the earlier incidentStart

	findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
	assert.Equal(t, []int{10}, failedChecks(findings))
}

func TestValidateRecord_IDFormats(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"fema major disaster", "FEMA-DR-4781-TX", true},
		{"fema emergency", "FEMA-EM-3601-LA", true},
		{"fema bad program", "FEMA-XX-4781-TX", false},
		{"fema non-numeric", "FEMA-DR-47a1-TX", false},
		{"fema bad state", "FEMA-DR-4781-ZZ", false},
		{"fema too few parts", "FEMA-DR-4781", false},
		{"generic", "SBA-18999-FL", true},
		{"generic multi-part", "STATE-WILDFIRE-2026-CA", true},
		{"generic bad source", "NOAA-STORM-2026-TX", false},
		{"generic bad state", "SBA-18999-FLX", false},
		{"generic too short", "SBA-FL", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := compliantRecord(t)
			rec.ID = tt.id

			findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
			failed := failedChecks(findings)
			if tt.ok {
				assert.NotContains(t, failed, 2)
			} else {
				assert.Contains(t, failed, 2)
			}
		})
	}
}

func TestValidateRecord_StatusMismatch(t *testing.T) {
	rec := compliantStateRecord(t) // ongoing, far-future window
	rec.Status = domain.StatusActive

	findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
	assert.Contains(t, failedChecks(findings), 14)
}

func TestValidateRecord_PersistedExpired(t *testing.T) {
	rec := compliantRecord(t)
	rec.Status = domain.StatusExpired

	findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
	assert.Contains(t, failedChecks(findings), 18)
}

func TestValidateRecord_WindowClosedBeforeToday(t *testing.T) {
	rec := compliantRecord(t)
	later := domain.NewDate(2026, time.May, 1) // past the 2026-03-31 window end

	findings := audit.ValidateRecord(rec, later, audit.DefaultURLPolicy())
	assert.Contains(t, failedChecks(findings), 13)
}

func TestValidateRecord_IncidentStartOutsideLookback(t *testing.T) {
	rec := compliantStateRecord(t)
	old := domain.NewDate(2023, time.June, 1)
	rec.IncidentStart = old
	rec.DeclarationDate = old
	rec.SEPWindowStart = old

	findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
	assert.Contains(t, failedChecks(findings), 8)
}

func TestValidateRecord_LastVerified(t *testing.T) {
	t.Run("missing for curated source fails both", func(t *testing.T) {
		rec := compliantStateRecord(t)
		rec.LastVerified = nil

		failed := failedChecks(audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy()))
		assert.Contains(t, failed, 22)
		assert.Contains(t, failed, 23)
	})

	t.Run("stale fails only staleness", func(t *testing.T) {
		rec := compliantStateRecord(t)
		stale := domain.NewDate(2025, time.December, 1) // 75 days old
		rec.LastVerified = &stale

		failed := failedChecks(audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy()))
		assert.NotContains(t, failed, 22)
		assert.Contains(t, failed, 23)
	})

	t.Run("future-dated fails staleness", func(t *testing.T) {
		rec := compliantStateRecord(t)
		future := domain.NewDate(2026, time.March, 1)
		rec.LastVerified = &future

		failed := failedChecks(audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy()))
		assert.Contains(t, failed, 23)
	})

	t.Run("not applicable to api-sourced records", func(t *testing.T) {
		rec := compliantRecord(t) // FEMA
		findings := audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy())
		for _, f := range findings {
			if f.Check == 22 || f.Check == 23 {
				assert.Equal(t, audit.SeverityNA, f.Severity)
				assert.True(t, f.Passed)
			}
		}
	})
}

func TestValidateRecord_URLPolicy(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{"expected domain", "https://www.fema.gov/disaster/4781", true},
		{"http rejected", "http://www.fema.gov/disaster/4781", false},
		{"wrong domain", "https://www.example.com/disaster/4781", false},
		{"domain suffix trick rejected", "https://fema.gov.evil.example/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := compliantRecord(t)
			rec.OfficialURL = tt.url

			failed := failedChecks(audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy()))
			if tt.ok {
				assert.NotContains(t, failed, 24)
			} else {
				assert.Contains(t, failed, 24)
			}
		})
	}

	t.Run("state sources only need https", func(t *testing.T) {
		rec := compliantStateRecord(t)
		rec.OfficialURL = "https://governor.alabama.gov/proclamations/x"

		failed := failedChecks(audit.ValidateRecord(rec, auditToday, audit.DefaultURLPolicy()))
		assert.NotContains(t, failed, 24)
	})
}
