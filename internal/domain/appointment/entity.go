package appointment

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
)

// ===============================
// Validations
// ===============================

// ValidateWindow requires departure strictly after arrival.
func ValidateWindow(arrival, departure time.Time) error {
	if arrival.IsZero() || departure.IsZero() {
		return httperr.ErrBusinessMsg("invalid_window", "arrival_datetime and departure_datetime are required")
	}
	if !departure.After(arrival) {
		return httperr.ErrBusinessMsg("invalid_window", "departure_datetime must be after arrival_datetime")
	}
	return nil
}

// DayBounds returns [start, end) of the calendar day of date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WorkedHours is the rounded duration between clock in and clock out.
func WorkedHours(in, out time.Time) (float64, error) {
	if out.Before(in) {
		return 0, httperr.ErrBusinessMsg("invalid_time_out", "time_out must not be before time_in")
	}
	hours := out.Sub(in).Hours()
	return float64(int64(hours*100+0.5)) / 100, nil
}
