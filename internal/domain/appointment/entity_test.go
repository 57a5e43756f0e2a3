package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
)

func TestValidateWindow(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateWindow(start, start.Add(time.Minute)))
	assert.True(t, httperr.IsBusiness(ValidateWindow(start, start), "invalid_window"))
	assert.True(t, httperr.IsBusiness(ValidateWindow(start, start.Add(-time.Hour)), "invalid_window"))
	assert.True(t, httperr.IsBusiness(ValidateWindow(time.Time{}, start), "invalid_window"))
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 03:00 UTC on the 2nd is still the 1st in Chicago
	start, end := DayBounds(time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), end)
}

func TestWorkedHours(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	h, err := WorkedHours(in, in.Add(7*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7.5, h)

	h, err = WorkedHours(in, in.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0.33, h)

	_, err = WorkedHours(in, in.Add(-time.Minute))
	assert.True(t, httperr.IsBusiness(err, "invalid_time_out"))
}
