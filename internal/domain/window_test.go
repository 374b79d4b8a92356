package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEPWindowStart(t *testing.T) {
	decl := NewDate(2026, time.January, 12)
	start := NewDate(2026, time.January, 8)

	// Incident start precedes the declaration, as is typical.
	assert.True(t, SEPWindowStart(decl, start).Equal(start))

	// Pre-emptive declarations open the window on the declaration date.
	pre := NewDate(2026, time.January, 5)
	assert.True(t, SEPWindowStart(pre, start).Equal(pre))
}

func TestComputeWindow_EndedIncident(t *testing.T) {
	decl := NewDate(2026, time.January, 12)
	start := NewDate(2026, time.January, 8)
	end := NewDate(2026, time.January, 29)

	w, err := ComputeWindow(decl, start, &end, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-08", w.Start.String())
	assert.Equal(t, "2026-03-31", w.End.String())
}

func TestComputeWindow_OngoingNoRenewals(t *testing.T) {
	decl := NewDate(2025, time.January, 20)
	start := NewDate(2025, time.January, 18)

	w, err := ComputeWindow(decl, start, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-18", w.Start.String())
	assert.Equal(t, "2026-03-31", w.End.String())
}

func TestComputeWindow_RenewalsExtendOngoing(t *testing.T) {
	decl := NewDate(2025, time.November, 3)
	start := NewDate(2025, time.October, 28)
	renewals := []Date{
		NewDate(2025, time.December, 30),
		NewDate(2025, time.November, 15),
	}

	w, err := ComputeWindow(decl, start, nil, renewals)
	require.NoError(t, err)

	// Anchor is the latest renewal, not the last element.
	assert.Equal(t, "2027-02-28", w.End.String())
}

func TestComputeWindow_RenewalBeforeStartIgnored(t *testing.T) {
	decl := NewDate(2025, time.June, 10)
	start := NewDate(2025, time.June, 8)
	renewals := []Date{NewDate(2025, time.June, 1)}

	w, err := ComputeWindow(decl, start, nil, renewals)
	require.NoError(t, err)

	// A renewal earlier than the window start never shortens the window.
	assert.Equal(t, "2026-08-31", w.End.String())
}

func TestComputeWindow_RenewalsIgnoredWhenEnded(t *testing.T) {
	decl := NewDate(2025, time.June, 10)
	start := NewDate(2025, time.June, 8)
	end := NewDate(2025, time.July, 2)
	renewals := []Date{NewDate(2026, time.January, 1)}

	w, err := ComputeWindow(decl, start, &end, renewals)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-30", w.End.String())
}

func TestComputeWindow_MissingDates(t *testing.T) {
	start := NewDate(2025, time.June, 8)

	_, err := ComputeWindow(Date{}, start, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "declarationDate", inputErr.Field)

	_, err = ComputeWindow(start, Date{}, nil, nil)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "incidentStart", inputErr.Field)
}
