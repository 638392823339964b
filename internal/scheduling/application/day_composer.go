package application

import "github.com/retailops/shiftsched/internal/scheduling/domain"

// DayComposer turns a solver backend's raw SolverResult into the
// per-employee, per-period DaySchedule view that the rest of the pipeline
// (compliance validation, reporting) consumes.
type DayComposer struct {
	DummyCost float64
}

// NewDayComposer constructs a DayComposer with the dummy-worker cost weight
// used to price unfilled periods.
func NewDayComposer(dummyCost float64) *DayComposer {
	return &DayComposer{DummyCost: dummyCost}
}

// Compose builds the DaySchedule for one date from the ScheduleProblem that
// was solved and the SolverResult it produced.
func (c *DayComposer) Compose(date string, openMinutes int, problem *domain.ScheduleProblem, result *domain.SolverResult) domain.DaySchedule {
	day := domain.DaySchedule{
		Date:      date,
		Employees: make([]domain.EmployeeDaySchedule, 0, len(problem.Employees)),
		Objective: result.Objective,
	}

	for _, name := range problem.Employees {
		assigned := result.Assign[name]
		breaks := result.Break[name]
		locked := problem.Locked[name]

		periods := make([]domain.PeriodRecord, problem.PeriodCount)
		var first, last = -1, -1
		hours := 0.0
		for p := 0; p < problem.PeriodCount; p++ {
			scheduled := assigned != nil && assigned[p]
			isBreak := breaks != nil && breaks[domain.Period(p)]
			periods[p] = domain.PeriodRecord{
				Period:    domain.Period(p),
				Scheduled: scheduled,
				IsBreak:   isBreak,
				IsLocked:  locked != nil && locked[domain.Period(p)],
			}
			if scheduled {
				if first < 0 {
					first = p
				}
				last = p
				hours += float64(domain.PeriodMinutes) / 60.0
			}
		}

		emp := domain.EmployeeDaySchedule{
			Employee:   name,
			Periods:    periods,
			TotalHours: hours,
		}
		if first >= 0 {
			emp.ShiftStart = domain.ClockTime(openMinutes, domain.Period(first))
			emp.ShiftEnd = domain.ClockTime(openMinutes, domain.Period(last+1))
			day.EmployeesScheduled++
		}
		if deficit, ok := result.ShortShift[name]; ok && deficit > 0 {
			emp.IsShortShift = true
		}

		day.Employees = append(day.Employees, emp)
		day.TotalLaborHours += hours
	}

	for p, shortfall := range result.Dummy {
		if shortfall > 0 {
			day.UnfilledPeriods = append(day.UnfilledPeriods, domain.UnfilledPeriod{
				Period:        domain.Period(p),
				WorkersNeeded: int(shortfall),
			})
			day.DummyWorkerCost += shortfall * c.DummyCost
		}
	}

	return day
}
