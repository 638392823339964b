package domain

import "errors"

// ErrInvalidComplianceRules is returned when a ComplianceRules record fails
// its own invariants.
var ErrInvalidComplianceRules = errors.New("invalid compliance rules")

// ComplianceRules is the jurisdictional parameter set consulted by both the
// Availability Mask Builder (pre-filter) and the Compliance Validation
// Engine (post-validate). DailyOvertimeThreshold may be absent (no daily
// OT rule); a nil pointer represents absence.
type ComplianceRules struct {
	Jurisdiction string

	MinRestHours float64

	MinorMaxDailyHours  float64
	MinorMaxWeeklyHours float64
	MinorCurfewEndMin   int // minutes since midnight
	MinorEarliestMin    int // minutes since midnight
	MinorAgeThreshold   int

	DailyOvertimeThreshold  *float64
	WeeklyOvertimeThreshold float64

	MealBreakAfterHours      float64
	MealBreakDurationMinutes int
	RestBreakIntervalHours   *float64
	RestBreakDurationMinutes int

	AdvanceNoticeDays int
}

// DefaultComplianceRules is the "DEFAULT" jurisdiction fallback documented in
// the external interface boundary.
func DefaultComplianceRules() ComplianceRules {
	return ComplianceRules{
		Jurisdiction:             "DEFAULT",
		MinRestHours:             8.0,
		MinorMaxDailyHours:       8.0,
		MinorMaxWeeklyHours:      40.0,
		MinorCurfewEndMin:        22 * 60,
		MinorEarliestMin:         6 * 60,
		MinorAgeThreshold:        18,
		WeeklyOvertimeThreshold:  40.0,
		MealBreakAfterHours:      5.0,
		MealBreakDurationMinutes: 30,
		AdvanceNoticeDays:        14,
	}
}

// Validate checks the non-negativity and well-formedness invariants named in
// the data model: all hour values >= 0.
func (r ComplianceRules) Validate() error {
	if r.MinRestHours < 0 || r.MinorMaxDailyHours < 0 || r.MinorMaxWeeklyHours < 0 ||
		r.WeeklyOvertimeThreshold < 0 || r.MealBreakAfterHours < 0 {
		return errors.Join(ErrInvalidComplianceRules, errors.New("hour values must be >= 0"))
	}
	if r.DailyOvertimeThreshold != nil && *r.DailyOvertimeThreshold < 0 {
		return errors.Join(ErrInvalidComplianceRules, errors.New("daily overtime threshold must be >= 0"))
	}
	if r.RestBreakIntervalHours != nil && *r.RestBreakIntervalHours < 0 {
		return errors.Join(ErrInvalidComplianceRules, errors.New("rest break interval must be >= 0"))
	}
	return nil
}

// LockedAssignment forces a set of periods to assignment=1 for one employee
// on one date, overriding availability.
type LockedAssignment struct {
	EmployeeName string
	Date         string // ISO YYYY-MM-DD
	Periods      map[Period]bool
}
