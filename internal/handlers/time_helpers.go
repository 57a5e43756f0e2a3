package handlers

import (
	"time"
)

const (
	dateLayout = "2006-01-02"
)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateIn reads a YYYY-MM-DD date as midnight in loc.
func parseDateIn(loc *time.Location, s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

// parseDatetimeIn accepts RFC3339 or a naive datetime, which is read in loc.
// The result is always UTC.
func parseDatetimeIn(loc *time.Location, s string) (time.Time, error) {
	var err error
	for _, layout := range datetimeLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// parseDateOrDatetime accepts YYYY-MM-DD or any datetime layout.
func parseDateOrDatetime(loc *time.Location, s string) (time.Time, error) {
	if t, err := parseDateIn(loc, s); err == nil {
		return t.UTC(), nil
	}
	return parseDatetimeIn(loc, s)
}
