// Package domain holds the entities and value objects of the weekly
// schedule generation pipeline: employees, store days, staffing
// requirements, availability, and the composed schedules and violations
// that fall out of a run.
package domain

import (
	"fmt"
	"time"
)

// PeriodMinutes is the fixed width of a single schedule period.
const PeriodMinutes = 30

// Period is a half-hour slice of a store day, indexed from 0 at open.
type Period int

// ClockTime renders the wall-clock start time of a period relative to a
// store's open time, as "HH:MM".
func ClockTime(openMinutesFromMidnight int, p Period) string {
	total := (openMinutesFromMidnight + int(p)*PeriodMinutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseClock parses an "HH:MM" wall-clock string into minutes since
// midnight. Returns an error if the string is malformed.
func ParseClock(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// PeriodCount returns the number of periods between open and close,
// wall-clock minutes since midnight. If close <= open, close is treated as
// the following midnight (24:00).
func PeriodCount(openMinutes, closeMinutes int) int {
	span := closeMinutes - openMinutes
	if span <= 0 {
		span += 24 * 60
	}
	return span / PeriodMinutes
}

// DayOfWeek mirrors the calendar week, Monday-first, matching the order the
// original staffing defaults are keyed by.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayOfWeekOrder = [...]DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOfWeekFromTime converts a time.Time's weekday into our Monday-first
// DayOfWeek.
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// IsWeekend reports whether a day falls on Saturday or Sunday.
func (d DayOfWeek) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// WeekDates walks a start/end date range (inclusive) day by day.
func WeekDates(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	dates := make([]time.Time, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
