// Package temporal holds the timezone-aware instant helpers shared by the
// environment, worker, and engine packages. Every function here is a direct
// port of mobius/helpers.py, kept free of any state so it can be reused
// without an Environment in scope.
package temporal

import (
	"fmt"
	"time"
)

// ErrInvalidDay is returned by WeekDayRange when given an unrecognized day
// name.
var ErrInvalidDay = fmt.Errorf("invalid day name")

// DaysOfWeek is the canonical Monday-first ordering, mirroring
// mobius.constants.DAYS_OF_WEEK.
var DaysOfWeek = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Local interprets t as UTC when it carries no zone offset, then projects it
// into loc. This is the Go analogue of
// Environment.datetime_utc_to_local: a naive instant is assumed UTC.
func Local(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// DayOf returns the lowercase English day name of t, e.g. "monday".
func DayOf(t time.Time) string {
	return DaysOfWeek[(int(t.Weekday())+6)%7]
}

// Overlap reports whether half-open interval [aStart, aStop) intersects
// [bStart, bStop), preserving the legacy inclusive-endpoint behavior of
// mobius.helpers.dt_overlaps: two intervals that only touch at a single
// endpoint overlap only when one is degenerate (zero-width) at that point.
func Overlap(aStart, aStop, bStart, bStop time.Time) bool {
	// case 1: a completely within b
	if !aStart.Before(bStart) && !aStop.After(bStop) {
		return true
	}
	// case 2: a overlaps beginning of b
	if !aStart.After(bStart) && aStop.After(bStart) {
		return true
	}
	// case 3: a overlaps end of b
	if aStart.Before(bStop) && !aStop.Before(bStop) {
		return true
	}
	return false
}

// WeekDayRange returns the seven day names starting at startDay, wrapping
// around the week. An unrecognized day name returns ErrInvalidDay.
func WeekDayRange(startDay string) ([]string, error) {
	idx := -1
	for i, d := range DaysOfWeek {
		if d == startDay {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, startDay)
	}

	out := make([]string, 0, 7)
	out = append(out, DaysOfWeek[idx:]...)
	out = append(out, DaysOfWeek[:idx]...)
	return out, nil
}

// MustWeekDayRange is WeekDayRange defaulting to "monday" and panicking on
// error, for call sites (the engine's per-day variable iteration) that
// only ever ask for the canonical Monday-first order used internally by
// Assign._calculate's helper loops (week_day_range() with no argument in the
// Python original never fails).
func MustWeekDayRange() []string {
	days, err := WeekDayRange("monday")
	if err != nil {
		panic(err)
	}
	return days
}

// NormalizeToMidnight rounds t down to local midnight, preserving its date
// and zone. Mirrors mobius.helpers.normalize_to_midnight.
func NormalizeToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseInstant parses an ISO-8601 timestamp. A timestamp with no UTC offset
// is treated as UTC, mirroring mobius.helpers.str_to_dt.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	// Fall back to a naive (offset-less) layout, treated as UTC.
	t, err = time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing instant %q: %w", s, err)
	}
	return t, nil
}

// FormatQueryInstant renders t in UTC as an RFC3339 string, the wire format
// used when querying external collaborators (mobius.helpers.dt_to_query_str).
func FormatQueryInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
