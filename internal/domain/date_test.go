package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastDayOfMonthPlus(t *testing.T) {
	tests := []struct {
		name   string
		base   Date
		months int
		want   Date
	}{
		{"year rollover", NewDate(2025, time.November, 30), 2, NewDate(2026, time.January, 31)},
		{"into february non-leap", NewDate(2025, time.December, 31), 2, NewDate(2026, time.February, 28)},
		{"leap day base", NewDate(2024, time.February, 29), 2, NewDate(2024, time.April, 30)},
		{"into february leap", NewDate(2023, time.December, 15), 2, NewDate(2024, time.February, 29)},
		{"fourteen months", NewDate(2025, time.January, 18), 14, NewDate(2026, time.March, 31)},
		{"zero months", NewDate(2026, time.February, 1), 0, NewDate(2026, time.February, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastDayOfMonthPlus(tt.base, tt.months)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestAddMonths_ClampsDay(t *testing.T) {
	// Jan 31 minus 24 months must not spill into February.
	got := AddMonths(NewDate(2026, time.January, 31), -24)
	assert.Equal(t, "2024-01-31", got.String())

	got = AddMonths(NewDate(2026, time.March, 31), -1)
	assert.Equal(t, "2026-02-28", got.String())
}

func TestDaysUntil(t *testing.T) {
	a := NewDate(2026, time.February, 14)
	b := NewDate(2026, time.February, 28)
	assert.Equal(t, 14, a.DaysUntil(b))
	assert.Equal(t, -14, b.DaysUntil(a))
	assert.Equal(t, 0, a.DaysUntil(a))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-29")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-29", d.String())

	_, err = ParseDate("01/29/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Day  Date  `json:"day"`
		Ptr  *Date `json:"ptr"`
		Null *Date `json:"null"`
	}

	d := NewDate(2025, time.October, 28)
	data, err := json.Marshal(wrapper{Day: d, Ptr: &d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-10-28","ptr":"2025-10-28","null":null}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Day.Equal(d))
	require.NotNil(t, out.Ptr)
	assert.True(t, out.Ptr.Equal(d))
	assert.Nil(t, out.Null)
}

func TestMinMaxDate(t *testing.T) {
	early := NewDate(2025, time.January, 1)
	late := NewDate(2025, time.June, 1)
	assert.True(t, MinDate(early, late).Equal(early))
	assert.True(t, MinDate(late, early).Equal(early))
	assert.True(t, MaxDate(early, late).Equal(late))
	assert.True(t, MaxDate(late, early).Equal(late))
}
