package audit_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathcoverage/dst-compiler/internal/audit"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	path := writeFile(t, "registry.json", `{
		"declarations": [
			{
				"id": "STATE-WILDFIRE-2026-CA",
				"state": "CA",
				"declarationDate": "2025-11-03",
				"incidentEnd": null,
				"renewalDates": ["2025-12-30"],
				"endDateDetermination": {"method": "still_active", "note": "confirmed"},
				"verification": {"lastHumanReview": "2026-02-01", "needsReview": false}
			}
		]
	}`)

	registry, err := audit.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, registry, 1)

	decl := registry[0]
	assert.Equal(t, "STATE-WILDFIRE-2026-CA", decl.ID)
	assert.Equal(t, "CA", decl.State)
	assert.Nil(t, decl.IncidentEnd)
	require.Len(t, decl.RenewalDates, 1)
	assert.Equal(t, "2025-12-30", decl.RenewalDates[0].String())
	assert.Equal(t, audit.MethodStillActive, decl.EndDateDetermination.Method)
	require.NotNil(t, decl.Verification.LastHumanReview)
	assert.Equal(t, time.February, decl.Verification.LastHumanReview.Month())
	assert.False(t, decl.Verification.NeedsReview)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := audit.LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadLawTable(t *testing.T) {
	path := writeFile(t, "laws.json", `{
		"laws": [
			{"stateCode": "OK", "autoTerminates": true, "defaultDurationDays": 30},
			{"stateCode": "CA", "autoTerminates": false, "defaultDurationDays": null}
		]
	}`)

	laws, err := audit.LoadLawTable(path)
	require.NoError(t, err)
	require.Len(t, laws, 2)

	ok := laws["OK"]
	assert.True(t, ok.AutoTerminates)
	require.NotNil(t, ok.DefaultDurationDays)
	assert.Equal(t, 30, *ok.DefaultDurationDays)

	ca := laws["CA"]
	assert.False(t, ca.AutoTerminates)
	assert.Nil(t, ca.DefaultDurationDays)
}

func TestLoadLawTable_BadJSON(t *testing.T) {
	path := writeFile(t, "laws.json", `{"laws": [`)
	_, err := audit.LoadLawTable(path)
	assert.Error(t, err)
}
