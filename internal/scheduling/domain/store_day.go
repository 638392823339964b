package domain

import "errors"

// ErrInvalidStoreDay is returned when a StoreDay's own invariants fail.
var ErrInvalidStoreDay = errors.New("invalid store day")

// DayType classes a StoreDay for staffing-requirement matching.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

// DayTypeOf classifies a DayOfWeek into the weekday/weekend bucket that
// StaffingRequirement intervals are keyed by.
func DayTypeOf(d DayOfWeek) DayType {
	if d.IsWeekend() {
		return Weekend
	}
	return Weekday
}

// StaffingRequirement is a [start,end) wall-clock interval with a minimum
// staff count, scoped to a day type. Intervals within a day-type may not
// overlap; the union need not cover the day — a default floor applies to
// gaps.
type StaffingRequirement struct {
	DayType     DayType
	StartMin    int
	EndMin      int
	MinimumStaff int
}

// StoreDay is one day's operating window and jurisdiction tag.
type StoreDay struct {
	DayOfWeek    DayOfWeek
	OpenMin      int // minutes since midnight
	CloseMin     int // minutes since midnight; <= OpenMin means "next midnight"
	Jurisdiction string
}

// NewStoreDay constructs a StoreDay, defaulting an empty jurisdiction to
// "DEFAULT". It performs no other checks and never returns an error.
func NewStoreDay(day DayOfWeek, openMin, closeMin int, jurisdiction string) (*StoreDay, error) {
	if jurisdiction == "" {
		jurisdiction = "DEFAULT"
	}
	sd := &StoreDay{DayOfWeek: day, OpenMin: openMin, CloseMin: closeMin, Jurisdiction: jurisdiction}
	return sd, nil
}

// PeriodCount returns the number of half-hour periods in this store day.
func (s *StoreDay) PeriodCount() int {
	return PeriodCount(s.OpenMin, s.CloseMin)
}

// DefaultStaffingFloor is applied to any period not covered by a configured
// StaffingRequirement interval.
const DefaultStaffingFloor = 2

// StaffingFloor computes the minimum staff for period p given the
// requirement intervals in force for this day's day-type. The first
// interval containing the period's start time supplies the floor; if none
// matches, DefaultStaffingFloor applies.
func StaffingFloor(requirements []StaffingRequirement, dayType DayType, openMin int, p Period) int {
	periodStart := (openMin + int(p)*PeriodMinutes) % (24 * 60)
	for _, req := range requirements {
		if req.DayType != dayType {
			continue
		}
		if periodStart >= req.StartMin && periodStart < req.EndMin {
			return req.MinimumStaff
		}
	}
	return DefaultStaffingFloor
}

// DefaultStaffingWeekday and DefaultStaffingWeekend are the fallback
// half-hourly staffing arrays carried over from the original system's
// model_run defaults, used when a store has not configured explicit
// StaffingRequirement intervals for a day-type. Each entry is the minimum
// staff for one half-hour period starting at store open.
var (
	DefaultStaffingWeekday = []int{2, 2, 3, 3, 4, 4, 3, 3, 2, 2, 2, 2, 2, 2}
	DefaultStaffingWeekend = []int{2, 3, 3, 4, 4, 5, 5, 4, 4, 3, 3, 3, 2, 2}
)

// StaffingFloorFromDefaults mirrors StaffingFloor but falls back to the
// period-indexed default array (rather than DefaultStaffingFloor) when no
// explicit requirement interval covers the period and a default array is
// supplied for the day type.
func StaffingFloorFromDefaults(requirements []StaffingRequirement, dayType DayType, openMin int, p Period, defaults []int) int {
	periodStart := (openMin + int(p)*PeriodMinutes) % (24 * 60)
	for _, req := range requirements {
		if req.DayType != dayType {
			continue
		}
		if periodStart >= req.StartMin && periodStart < req.EndMin {
			return req.MinimumStaff
		}
	}
	if int(p) < len(defaults) {
		return defaults[p]
	}
	return DefaultStaffingFloor
}
