// Package schedule turns the loosely formatted date and time strings that
// bookings carry ("2025-03-14", "4:00pm", "4:00 PM - 5:00 PM", "16:30")
// into concrete start instants.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadDate = errors.New("schedule: unrecognised date")
	ErrBadTime = errors.New("schedule: unrecognised time")
)

// leading "h", "h:mm", optionally followed by am/pm; anything after
// (a range end, a timezone label) is ignored.
var clockRe = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{2}))?\s*([aApP]\.?[mM]\.?)?`)

// Clock parses the first time-of-day in s and returns hour and minute on a
// 24-hour clock.
func Clock(s string) (hour, minute int, err error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}

	period := strings.ToLower(strings.ReplaceAll(m[3], ".", ""))
	switch period {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadTime, s)
		}
		if period == "pm" && hour != 12 {
			hour += 12
		}
		if period == "am" && hour == 12 {
			hour = 0
		}
	default:
		if m[2] == "" || hour > 23 {
			// a bare number without am/pm is ambiguous
			return 0, 0, fmt.Errorf("%w: %q", ErrBadTime, s)
		}
	}
	return hour, minute, nil
}

// Date parses the calendar date at the start of s. Full ISO timestamps are
// accepted; only their first ten characters are read.
func Date(s string) (year int, month time.Month, day int, err error) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	t, perr := time.Parse("2006-01-02", s[:10])
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

// Start combines date and clock strings into an instant in loc.
// A nil loc means UTC.
func Start(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d, err := Date(date)
	if err != nil {
		return time.Time{}, err
	}
	h, mi, err := Clock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, mo, d, h, mi, 0, 0, loc), nil
}
