package commands

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDueHour is the hour used when a due date has no time of day.
const DefaultDueHour = 9

// ParseDue parses a --due value relative to now. Accepted forms:
//
//	2026-10-19T18:30:00+02:00  RFC3339
//	2026-10-19 18:30           date and time in loc
//	2026-10-19                 date in loc, at DefaultDueHour
//	18:30                      today in loc
//	+90m                       now plus a Go duration
func ParseDue(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date required")
	}

	if rest, ok := strings.CutPrefix(s, "+"); ok {
		d, err := time.ParseDuration(rest)
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("invalid due date: %s", s)
		}
		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t.Add(DefaultDueHour * time.Hour), nil
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		today := now.In(loc)
		return time.Date(today.Year(), today.Month(), today.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date: %s", s)
}
