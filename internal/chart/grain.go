package chart

import (
	"fmt"
	"time"
)

// Grain is the bucket width of a time series.
type Grain string

const (
	Day     Grain = "day"
	Week    Grain = "week"
	Month   Grain = "month"
	Quarter Grain = "quarter"
	Year    Grain = "year"
)

// Valid reports whether g is a known grain.
func (g Grain) Valid() bool {
	switch g {
	case Day, Week, Month, Quarter, Year:
		return true
	}
	return false
}

// Truncate maps t to the first instant of the period containing it, in t's location.
// Weeks start on Monday.
func (g Grain) Truncate(t time.Time) (time.Time, error) {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), nil
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	case Quarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, loc), nil
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unsupported time grain %q", g)
}
