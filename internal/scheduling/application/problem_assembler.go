// Package application holds the orchestration layer that turns a roster,
// a store's operating calendar, and staffing requirements into a solved,
// composed, and compliance-validated WeeklyResult: the Problem Assembler,
// the Day Result Composer, and the Weekly Assembler that drives both across
// a date range.
package application

import (
	"fmt"
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/compliance"
	"github.com/retailops/shiftsched/internal/scheduling/domain"
)

// ProblemAssembler builds one day's ScheduleProblem from the roster and the
// store's operating window, running each employee's raw availability
// through the compliance engine's pre-filter before it ever reaches a
// solver backend.
type ProblemAssembler struct {
	Rules domain.ComplianceRules
	Mode  compliance.Mode
}

// NewProblemAssembler constructs a ProblemAssembler for the given
// jurisdiction rules and compliance mode.
func NewProblemAssembler(rules domain.ComplianceRules, mode compliance.Mode) *ProblemAssembler {
	return &ProblemAssembler{Rules: rules, Mode: mode}
}

// Assemble builds the ScheduleProblem for a single date. previousShiftEnd
// carries forward, per employee name, the wall-clock end of their most
// recent prior scheduled shift (nil if they have none yet this run), which
// the rest filter needs to exclude periods too close to it.
func (a *ProblemAssembler) Assemble(
	date string,
	day domain.StoreDay,
	requirements []domain.StaffingRequirement,
	employees []domain.Employee,
	locked []domain.LockedAssignment,
	previousShiftEnd map[string]*time.Time,
	asOf time.Time,
) (*domain.ScheduleProblem, error) {
	periodCount := day.PeriodCount()
	dayType := domain.DayTypeOf(day.DayOfWeek)
	defaults := defaultStaffingFor(dayType)

	problem := &domain.ScheduleProblem{
		Date:          date,
		PeriodCount:   periodCount,
		Employees:     make([]string, 0, len(employees)),
		Availability:  make(map[string][]bool, len(employees)),
		Rate:          make(map[string]float64, len(employees)),
		MinStaff:      make([]int, periodCount),
		Locked:        make(map[string]map[domain.Period]bool),
		Minor:         make(map[string]bool),
		ShiftMinHours: make(map[string]float64, len(employees)),
		ShiftMaxHours: make(map[string]float64, len(employees)),

		MealBreakEnabled:         true,
		MealBreakAfterHours:      a.Rules.MealBreakAfterHours,
		MealBreakDurationMinutes: a.Rules.MealBreakDurationMinutes,
	}

	for p := 0; p < periodCount; p++ {
		problem.MinStaff[p] = domain.StaffingFloorFromDefaults(requirements, dayType, day.OpenMin, domain.Period(p), defaults)
	}

	lockedByEmployee := make(map[string]domain.LockedAssignment, len(locked))
	for _, l := range locked {
		if l.Date == date {
			lockedByEmployee[l.EmployeeName] = l
		}
	}

	for i := range employees {
		emp := &employees[i]
		problem.Employees = append(problem.Employees, emp.Name)
		problem.Rate[emp.Name] = emp.HourlyRate
		problem.ShiftMinHours[emp.Name] = emp.ShiftMinHours
		problem.ShiftMaxHours[emp.Name] = emp.ShiftMaxHours

		isMinor := emp.IsMinor(asOf, a.Rules.MinorAgeThreshold)
		problem.Minor[emp.Name] = isMinor

		raw := make([]bool, periodCount)
		for p := 0; p < periodCount; p++ {
			raw[p] = emp.AvailableAt(day.DayOfWeek, day.OpenMin, domain.Period(p))
		}

		mask := compliance.BuildAvailabilityMask(raw, day.OpenMin, isMinor, a.Rules, previousShiftEnd[emp.Name], asOf, a.Mode)

		if l, ok := lockedByEmployee[emp.Name]; ok {
			periods := make(map[domain.Period]bool, len(l.Periods))
			for p, on := range l.Periods {
				if on && int(p) < periodCount {
					mask[p] = true
					periods[p] = true
				}
			}
			problem.Locked[emp.Name] = periods
		}

		problem.Availability[emp.Name] = mask
	}

	if offset := a.Rules.MinorCurfewEndMin - day.OpenMin; a.Rules.MinorCurfewEndMin > 0 && offset >= 0 && offset/domain.PeriodMinutes < periodCount {
		cp := domain.Period(offset / domain.PeriodMinutes)
		problem.CurfewPeriod = &cp
	}
	if offset := a.Rules.MinorEarliestMin - day.OpenMin; a.Rules.MinorEarliestMin > 0 && offset >= 0 && offset/domain.PeriodMinutes < periodCount {
		ep := domain.Period(offset / domain.PeriodMinutes)
		problem.EarliestPeriod = &ep
	}

	if err := problem.Validate(); err != nil {
		return nil, fmt.Errorf("assembling problem for %s: %w", date, err)
	}

	return problem, nil
}

func defaultStaffingFor(dayType domain.DayType) []int {
	if dayType == domain.Weekend {
		return domain.DefaultStaffingWeekend
	}
	return domain.DefaultStaffingWeekday
}
