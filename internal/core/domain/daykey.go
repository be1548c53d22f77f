package domain

import (
	"errors"
	"time"
)

var ErrInvalidDayKey = errors.New("invalid day key (must be YYYY-MM-DD)")

const dayKeyLayout = "2006-01-02"

// DayKey identifies one calendar date with no time-of-day or timezone
// component. All streak and window arithmetic operates on day keys, never on
// timestamps, so that entries logged near midnight or across DST transitions
// land on the day the user actually saw.
type DayKey string

// NewDayKey formats t using its own calendar fields. A time in any location
// maps to the date a clock in that location would show.
func NewDayKey(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// ParseDayKey validates canonical YYYY-MM-DD form, rejecting both malformed
// strings and non-canonical spellings of real dates (e.g. "2024-6-01").
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil || t.Format(dayKeyLayout) != s {
		return "", ErrInvalidDayKey
	}
	return DayKey(s), nil
}

func Today() DayKey {
	return NewDayKey(time.Now())
}

// DaysAgo returns the day key n days before today. DaysAgo(0) == Today().
func DaysAgo(n int) DayKey {
	return NewDayKey(time.Now().AddDate(0, 0, -n))
}

// Time reconstructs the key as midnight UTC. Reconstructing in UTC keeps day
// arithmetic exact: UTC has no DST, so every day is exactly 24 hours.
func (d DayKey) Time() time.Time {
	t, err := time.Parse(dayKeyLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d DayKey) IsZero() bool {
	return d == ""
}

func (d DayKey) AddDays(n int) DayKey {
	return DayKey(d.Time().AddDate(0, 0, n).Format(dayKeyLayout))
}

// Diff returns the whole-day difference d - other, positive when d is later.
func (d DayKey) Diff(other DayKey) int {
	return int(d.Time().Sub(other.Time()) / (24 * time.Hour))
}

// Before reports whether d denotes an earlier calendar date. Lexicographic
// order matches chronological order for canonical keys.
func (d DayKey) Before(other DayKey) bool {
	return d < other
}

func (d DayKey) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Week start conventions for ResolveDateForWeekday.
const (
	WeekStartSunday = 0
	WeekStartMonday = 1
)

// ResolveDateForWeekday maps an abstract weekday index (0=Sunday, 1=Monday,
// as used by weekly schedule blocks) to the concrete date within the week
// containing now, under the given week-start convention.
func ResolveDateForWeekday(weekday int, weekStart int, now time.Time) DayKey {
	currentDay := int(now.Weekday())

	if weekStart == WeekStartMonday {
		if currentDay == 0 {
			currentDay = 6
		} else {
			currentDay--
		}
	}

	targetDay := weekday - weekStart
	if weekStart == WeekStartMonday && weekday == 0 {
		targetDay = 6
	}

	distance := targetDay - currentDay
	return NewDayKey(now.AddDate(0, 0, distance))
}
