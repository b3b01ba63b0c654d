package nba

import (
	"fmt"
	"time"
)

// DateLayout is the canonical slate-date format used everywhere a date
// keys a row: schedule, matchups, baselines, projections.
const DateLayout = "2006-01-02"

// Today returns the current slate date in the given location.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

// ParseDate validates a slate date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slate date %q: %w", s, err)
	}
	return t, nil
}

// DayWindowUTC returns the UTC instants that bound the given slate date
// in the given location, for querying event feeds that filter by UTC
// commence time.
func DayWindowUTC(date string, loc *time.Location) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slate date %q: %w", date, err)
	}
	start := t.UTC()
	end := t.Add(24*time.Hour - time.Second).UTC()
	return start, end, nil
}
