// Package streaks holds the date arithmetic behind habit streaks:
// calendar-day normalization, streak derivation from completion history,
// milestone classification and dashboard summaries. All functions are
// pure so callers decide what to persist.
package streaks

import (
	"fmt"
	"time"
)

// DayKey identifies a calendar day in the application timezone. Two
// timestamps map to the same DayKey iff they fall on the same local day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDayKey normalizes a timestamp to its calendar day in loc. A nil
// location means time.Local.
func NewDayKey(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// Time returns midnight of the day in loc.
func (k DayKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the day n calendar days after k (negative n goes
// backward). Uses time.Date normalization so month and year boundaries
// carry correctly.
func (k DayKey) AddDays(n int) DayKey {
	t := time.Date(k.Year, k.Month, k.Day+n, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// Before reports whether k is an earlier calendar day than other.
func (k DayKey) Before(other DayKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// String formats the day as YYYY-MM-DD, matching how completion days are
// stored in Postgres DATE columns.
func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// ParseDayKey parses a YYYY-MM-DD string.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DayKey{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}, nil
}
