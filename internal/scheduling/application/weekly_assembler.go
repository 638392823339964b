package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/compliance"
	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/eventbus"
	"github.com/retailops/shiftsched/internal/solver/sdk"
	"github.com/google/uuid"
)

// WeekInput is the full set of facts the Weekly Assembler needs to run one
// store's week: its operating calendar, staffing requirements per day
// type, the employee roster, any manager-placed locked assignments, and
// when the schedule is being published (for the predictive-notice check).
type WeekInput struct {
	StartDate    string
	EndDate      string
	Store        string
	Days         map[string]domain.StoreDay
	Requirements map[domain.DayType][]domain.StaffingRequirement
	Employees    []domain.Employee
	Locked       []domain.LockedAssignment
	PublishedAt  time.Time
}

// WeeklyAssembler drives the Problem Assembler and Day Result Composer
// across a date range against a single solver backend, then hands the
// accumulated WeeklyResult to the Compliance Validation Engine.
type WeeklyAssembler struct {
	Backend      sdk.Backend
	SolverConfig domain.SolverConfig
	Rules        domain.ComplianceRules
	Mode         compliance.Mode
}

// NewWeeklyAssembler constructs a WeeklyAssembler bound to a concrete
// solver backend and the jurisdiction rules/compliance mode to apply.
func NewWeeklyAssembler(backend sdk.Backend, solverConfig domain.SolverConfig, rules domain.ComplianceRules, mode compliance.Mode) *WeeklyAssembler {
	return &WeeklyAssembler{Backend: backend, SolverConfig: solverConfig, Rules: rules, Mode: mode}
}

// Run solves and composes every operating day in the range, carrying each
// employee's previous shift end forward into the next day's rest filter,
// then validates the whole result for compliance.
func (a *WeeklyAssembler) Run(ctx context.Context, input WeekInput) (*domain.WeeklyResult, error) {
	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", input.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", input.EndDate, err)
	}

	assembler := NewProblemAssembler(a.Rules, a.Mode)
	composer := NewDayComposer(a.SolverConfig.DummyCost)
	previousShiftEnd := make(map[string]*time.Time, len(input.Employees))

	result := &domain.WeeklyResult{StartDate: input.StartDate, EndDate: input.EndDate, Store: input.Store}

	for _, d := range domain.WeekDates(start, end) {
		dateStr := d.Format("2006-01-02")
		storeDay, open := input.Days[dateStr]
		if !open {
			continue
		}

		requirements := input.Requirements[domain.DayTypeOf(storeDay.DayOfWeek)]
		dayLocked := lockedForDate(input.Locked, dateStr)

		problem, err := assembler.Assemble(dateStr, storeDay, requirements, input.Employees, dayLocked, previousShiftEnd, d)
		if err != nil {
			return nil, err
		}

		solverResult, err := a.Backend.Solve(ctx, problem, a.SolverConfig)
		if err != nil {
			return nil, fmt.Errorf("solving %s: %w", dateStr, err)
		}
		if solverResult.Status == domain.StatusInfeasible || solverResult.Status == domain.StatusError {
			return nil, fmt.Errorf("solver reported %s for %s", solverResult.Status, dateStr)
		}

		daySchedule := composer.Compose(dateStr, storeDay.OpenMin, problem, solverResult)
		result.Days = append(result.Days, daySchedule)
		result.DailySummaries = append(result.DailySummaries, domain.DailySummary{
			Date:               dateStr,
			EmployeesScheduled: daySchedule.EmployeesScheduled,
			TotalLaborHours:    daySchedule.TotalLaborHours,
			DummyWorkerCost:    daySchedule.DummyWorkerCost,
			Objective:          daySchedule.Objective,
		})
		result.TotalLaborHours += daySchedule.TotalLaborHours
		result.TotalDummyCost += daySchedule.DummyWorkerCost

		carryForwardShiftEnds(previousShiftEnd, daySchedule, d, storeDay.OpenMin)
	}

	engine := compliance.NewEngine(a.Rules, buildEmployeeContexts(input.Employees, input.Days, a.Rules.MinorAgeThreshold, start), a.Mode, input.PublishedAt)
	engine.Validate(result)
	result.ComputeHasWarnings()

	return result, nil
}

// RunAndPublish runs the week and, on success, publishes
// WeeklyResultGenerated and, if compliance mode is enforce and the result
// came back non-compliant, ComplianceConflictRaised.
func (a *WeeklyAssembler) RunAndPublish(ctx context.Context, input WeekInput, publisher eventbus.Publisher) (*domain.WeeklyResult, error) {
	result, err := a.Run(ctx, input)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	generated := domain.NewWeeklyResultGenerated(runID, result)
	if err := publishEvent(ctx, publisher, "scheduling.weekly_result.generated", generated); err != nil {
		return result, fmt.Errorf("publishing weekly result event: %w", err)
	}

	if a.Mode == compliance.ModeEnforce && !result.IsCompliant {
		errorCount := 0
		for _, v := range result.Violations {
			if v.Severity == domain.SeverityError {
				errorCount++
			}
		}
		conflict := domain.NewComplianceConflictRaised(runID, errorCount)
		if err := publishEvent(ctx, publisher, "scheduling.compliance_conflict.raised", conflict); err != nil {
			return result, fmt.Errorf("publishing compliance conflict event: %w", err)
		}
	}

	return result, nil
}

func publishEvent(ctx context.Context, publisher eventbus.Publisher, routingKey string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, routingKey, payload)
}

func lockedForDate(locked []domain.LockedAssignment, date string) []domain.LockedAssignment {
	out := make([]domain.LockedAssignment, 0)
	for _, l := range locked {
		if l.Date == date {
			out = append(out, l)
		}
	}
	return out
}

// carryForwardShiftEnds records the wall-clock end of each employee's last
// scheduled period today, so tomorrow's rest filter can see it.
func carryForwardShiftEnds(previousShiftEnd map[string]*time.Time, day domain.DaySchedule, date time.Time, openMinutes int) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	for _, emp := range day.Employees {
		last := -1
		for _, rec := range emp.Periods {
			if rec.Scheduled {
				last = int(rec.Period)
			}
		}
		if last < 0 {
			continue
		}
		end := dayStart.Add(time.Duration(openMinutes+(last+1)*domain.PeriodMinutes) * time.Minute)
		previousShiftEnd[emp.Employee] = &end
	}
}

// buildEmployeeContexts derives the EmployeeContext set the compliance
// engine's post-validators need: minor status as of the week's start date,
// and each operating day's store-open offset.
func buildEmployeeContexts(employees []domain.Employee, days map[string]domain.StoreDay, ageThreshold int, asOf time.Time) map[string]compliance.EmployeeContext {
	openMinutesByDate := make(map[string]int, len(days))
	for date, day := range days {
		openMinutesByDate[date] = day.OpenMin
	}

	contexts := make(map[string]compliance.EmployeeContext, len(employees))
	for i := range employees {
		emp := &employees[i]
		contexts[emp.Name] = compliance.EmployeeContext{
			Name:        emp.Name,
			IsMinor:     emp.IsMinor(asOf, ageThreshold),
			OpenMinutes: openMinutesByDate,
		}
	}
	return contexts
}
