package compliance

import (
	"fmt"
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
)

// EmployeeContext is the subset of employee facts the post-validators need
// that aren't already present on a WeeklyResult: minor status and store
// open offset per day.
type EmployeeContext struct {
	Name        string
	IsMinor     bool
	OpenMinutes map[string]int // date -> store open minutes, keyed by DaySchedule.Date
}

// Engine runs the five post-validators against a composed WeeklyResult and
// folds their findings in, honoring Mode for severity and the IsCompliant
// flip.
type Engine struct {
	Rules            domain.ComplianceRules
	Employees        map[string]EmployeeContext
	Mode             Mode
	SchedulePublished time.Time
}

// NewEngine constructs a compliance validation engine.
func NewEngine(rules domain.ComplianceRules, employees map[string]EmployeeContext, mode Mode, published time.Time) *Engine {
	return &Engine{Rules: rules, Employees: employees, Mode: mode, SchedulePublished: published}
}

// Validate runs all five validators and mutates result.Violations and
// result.IsCompliant in place.
func (e *Engine) Validate(result *domain.WeeklyResult) {
	if e.Mode == ModeOff {
		result.IsCompliant = true
		return
	}

	var violations []domain.Violation
	violations = append(violations, e.validateMinorRestrictions(result)...)
	violations = append(violations, e.validateRestBetweenShifts(result)...)
	violations = append(violations, e.validateOvertime(result)...)
	violations = append(violations, e.validateBreaks(result)...)
	violations = append(violations, e.validatePredictiveNotice(result)...)

	if e.Mode == ModeWarn {
		for i := range violations {
			violations[i].Severity = domain.SeverityWarning
		}
	}

	result.Violations = append(result.Violations, violations...)

	compliant := true
	for _, v := range result.Violations {
		if v.Severity == domain.SeverityError {
			compliant = false
			break
		}
	}
	result.IsCompliant = compliant
}

// shiftBounds returns the first and last scheduled period index for an
// employee's day, plus whether the employee worked at all.
func shiftBounds(day domain.EmployeeDaySchedule) (first, last int, worked bool) {
	first, last = -1, -1
	for _, rec := range day.Periods {
		if rec.Scheduled {
			if first < 0 {
				first = int(rec.Period)
			}
			last = int(rec.Period)
		}
	}
	return first, last, first >= 0
}

// validateMinorRestrictions checks every scheduled minor shift against
// curfew, earliest-start, and minor daily-hours bounds — a backstop for
// schedules assembled with compliance mode off or with a locked assignment
// that overrode the availability mask.
func (e *Engine) validateMinorRestrictions(result *domain.WeeklyResult) []domain.Violation {
	var violations []domain.Violation

	for _, day := range result.Days {
		openMinutes := 0
		for _, emp := range day.Employees {
			ctx, ok := e.Employees[emp.Employee]
			if !ok || !ctx.IsMinor {
				continue
			}
			if om, ok := ctx.OpenMinutes[day.Date]; ok {
				openMinutes = om
			}

			first, last, worked := shiftBounds(emp)
			if !worked {
				continue
			}

			startMin := (openMinutes + first*domain.PeriodMinutes) % (24 * 60)
			endMin := openMinutes + (last+1)*domain.PeriodMinutes

			if startMin < e.Rules.MinorEarliestMin {
				violations = append(violations, domain.Violation{
					RuleType: domain.ViolationMinorEarlyStart,
					Severity: domain.SeverityError,
					Employee: emp.Employee,
					Date:     day.Date,
					Message:  fmt.Sprintf("minor %s scheduled to start before earliest allowed time", emp.Employee),
				})
			}
			if endMin > e.Rules.MinorCurfewEndMin {
				violations = append(violations, domain.Violation{
					RuleType: domain.ViolationMinorCurfew,
					Severity: domain.SeverityError,
					Employee: emp.Employee,
					Date:     day.Date,
					Message:  fmt.Sprintf("minor %s scheduled past curfew", emp.Employee),
				})
			}
			if emp.TotalHours > e.Rules.MinorMaxDailyHours {
				violations = append(violations, domain.Violation{
					RuleType: domain.ViolationMinorDailyHours,
					Severity: domain.SeverityError,
					Employee: emp.Employee,
					Date:     day.Date,
					Message:  fmt.Sprintf("minor %s scheduled %.2f hours, exceeding daily maximum of %.2f", emp.Employee, emp.TotalHours, e.Rules.MinorMaxDailyHours),
				})
			}
		}
	}

	weeklyMinorHours := make(map[string]float64)
	for _, day := range result.Days {
		for _, emp := range day.Employees {
			if ctx, ok := e.Employees[emp.Employee]; ok && ctx.IsMinor {
				weeklyMinorHours[emp.Employee] += emp.TotalHours
			}
		}
	}
	for name, hours := range weeklyMinorHours {
		if hours > e.Rules.MinorMaxWeeklyHours {
			violations = append(violations, domain.Violation{
				RuleType: domain.ViolationMinorWeeklyHours,
				Severity: domain.SeverityError,
				Employee: name,
				Message:  fmt.Sprintf("minor %s scheduled %.2f hours this week, exceeding weekly maximum of %.2f", name, hours, e.Rules.MinorMaxWeeklyHours),
			})
		}
	}

	return violations
}

// validateRestBetweenShifts walks each employee's scheduled days in order
// and flags any gap between a shift's end and the next day's shift start
// shorter than MinRestHours.
func (e *Engine) validateRestBetweenShifts(result *domain.WeeklyResult) []domain.Violation {
	var violations []domain.Violation

	type shiftSpan struct {
		date  string
		end   time.Time
		start time.Time
	}
	byEmployee := make(map[string][]shiftSpan)

	for _, day := range result.Days {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		openMinutes := 0
		for _, emp := range day.Employees {
			if ctx, ok := e.Employees[emp.Employee]; ok {
				if om, ok := ctx.OpenMinutes[day.Date]; ok {
					openMinutes = om
				}
			}
			first, last, worked := shiftBounds(emp)
			if !worked {
				continue
			}
			start := date.Add(time.Duration(openMinutes+first*domain.PeriodMinutes) * time.Minute)
			end := date.Add(time.Duration(openMinutes+(last+1)*domain.PeriodMinutes) * time.Minute)
			byEmployee[emp.Employee] = append(byEmployee[emp.Employee], shiftSpan{date: day.Date, start: start, end: end})
		}
	}

	for name, spans := range byEmployee {
		for i := 1; i < len(spans); i++ {
			gap := spans[i].start.Sub(spans[i-1].end).Hours()
			if gap < e.Rules.MinRestHours {
				violations = append(violations, domain.Violation{
					RuleType: domain.ViolationRest,
					Severity: domain.SeverityError,
					Employee: name,
					Date:     spans[i].date,
					Message:  fmt.Sprintf("%s had only %.2f hours of rest before this shift, below the required %.2f", name, gap, e.Rules.MinRestHours),
					Details:  map[string]any{"rest_hours": gap},
				})
			}
		}
	}

	return violations
}

// validateOvertime checks the optional daily overtime threshold and the
// mandatory weekly overtime threshold.
func (e *Engine) validateOvertime(result *domain.WeeklyResult) []domain.Violation {
	var violations []domain.Violation

	if e.Rules.DailyOvertimeThreshold != nil {
		for _, day := range result.Days {
			for _, emp := range day.Employees {
				if emp.TotalHours > *e.Rules.DailyOvertimeThreshold {
					violations = append(violations, domain.Violation{
						RuleType: domain.ViolationDailyOvertime,
						Severity: domain.SeverityWarning,
						Employee: emp.Employee,
						Date:     day.Date,
						Message:  fmt.Sprintf("%s scheduled %.2f hours, above the daily overtime threshold of %.2f", emp.Employee, emp.TotalHours, *e.Rules.DailyOvertimeThreshold),
					})
				}
			}
		}
	}

	weeklyHours := make(map[string]float64)
	for _, day := range result.Days {
		for _, emp := range day.Employees {
			weeklyHours[emp.Employee] += emp.TotalHours
		}
	}
	for name, hours := range weeklyHours {
		if hours > e.Rules.WeeklyOvertimeThreshold {
			violations = append(violations, domain.Violation{
				RuleType: domain.ViolationWeeklyOvertime,
				Severity: domain.SeverityWarning,
				Employee: name,
				Message:  fmt.Sprintf("%s scheduled %.2f hours this week, above the weekly overtime threshold of %.2f", name, hours, e.Rules.WeeklyOvertimeThreshold),
			})
		}
	}

	return violations
}

// validateBreaks checks that any shift longer than MealBreakAfterHours has
// a recorded break period, and, when a rest-break interval is configured,
// that no run of working periods exceeds it without one.
func (e *Engine) validateBreaks(result *domain.WeeklyResult) []domain.Violation {
	var violations []domain.Violation

	for _, day := range result.Days {
		for _, emp := range day.Employees {
			_, _, worked := shiftBounds(emp)
			if !worked {
				continue
			}
			hasBreak := false
			for _, rec := range emp.Periods {
				if rec.IsBreak {
					hasBreak = true
					break
				}
			}
			if !hasBreak && emp.TotalHours > e.Rules.MealBreakAfterHours {
				violations = append(violations, domain.Violation{
					RuleType: domain.ViolationMealBreakRequired,
					Severity: domain.SeverityWarning,
					Employee: emp.Employee,
					Date:     day.Date,
					Message:  fmt.Sprintf("%s worked %.2f hours without a recorded meal break", emp.Employee, emp.TotalHours),
				})
			}

			if e.Rules.RestBreakIntervalHours == nil {
				continue
			}
			run := 0.0
			for _, rec := range emp.Periods {
				if !rec.Scheduled || rec.IsBreak {
					run = 0
					continue
				}
				run += float64(domain.PeriodMinutes) / 60.0
				if run > *e.Rules.RestBreakIntervalHours {
					violations = append(violations, domain.Violation{
						RuleType: domain.ViolationRestBreakRequired,
						Severity: domain.SeverityWarning,
						Employee: emp.Employee,
						Date:     day.Date,
						Message:  fmt.Sprintf("%s worked more than %.2f continuous hours without a rest break", emp.Employee, *e.Rules.RestBreakIntervalHours),
					})
					run = 0
				}
			}
		}
	}

	return violations
}

// validatePredictiveNotice flags the whole run if it was published fewer
// than AdvanceNoticeDays before its first scheduled day.
func (e *Engine) validatePredictiveNotice(result *domain.WeeklyResult) []domain.Violation {
	if e.Rules.AdvanceNoticeDays <= 0 || e.SchedulePublished.IsZero() {
		return nil
	}

	start, err := time.Parse("2006-01-02", result.StartDate)
	if err != nil {
		return nil
	}

	notice := start.Sub(e.SchedulePublished).Hours() / 24
	if notice < float64(e.Rules.AdvanceNoticeDays) {
		return []domain.Violation{{
			RuleType: domain.ViolationPredictiveNotice,
			Severity: domain.SeverityWarning,
			Employee: domain.AllEmployees,
			Date:     result.StartDate,
			Message:  fmt.Sprintf("schedule published %.1f days before start, below the required %d days notice", notice, e.Rules.AdvanceNoticeDays),
			Details: map[string]any{
				"actual_notice_days": notice,
				"days_short":         float64(e.Rules.AdvanceNoticeDays) - notice,
			},
		}}
	}
	return nil
}
