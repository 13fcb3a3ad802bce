package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidTZ        = errors.New("invalid timezone")
)

// TimeOfDay is a wall-clock time in minutes since midnight (0..1439).
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String returns HH:MM.
func (t TimeOfDay) String() string {
	return FormatMinutes(int(t))
}

// Kitchen renders the time as "7:30 PM", the form used in reminder headings.
func (t TimeOfDay) Kitchen() string {
	return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC).Format("3:04 PM")
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m, err := parseHHMM(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeOfDay, s, err)
	}
	return TimeOfDay(m), nil
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, errors.New("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, errors.New("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.New("invalid minute")
	}
	return h*60 + m, nil
}

// LoadLocation checks that tz is a valid IANA location and loads it.
func LoadLocation(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTZ, tz, err)
	}
	return loc, nil
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatClock renders t in loc as a zero-padded 12-hour clock, e.g. "07:05 PM".
// This is the form stored in dose records.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("03:04 PM")
}
