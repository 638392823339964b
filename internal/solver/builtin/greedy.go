// Package builtin provides the solver backends that ship with this module:
// a deterministic greedy heuristic, a local-search refinement over it, and a
// small exact backtracking solver for test-sized instances.
package builtin

import (
	"context"
	"sort"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/solver/sdk"
)

// GreedyBackend assigns shifts period by period, always plugging the
// largest current staffing shortfall with the cheapest available employee
// whose availability window can cover a shift through that period.
type GreedyBackend struct {
	config sdk.BackendConfig
}

// NewGreedyBackend creates a new greedy solver backend.
func NewGreedyBackend() *GreedyBackend {
	return &GreedyBackend{}
}

// Metadata returns backend identification and capabilities.
func (b *GreedyBackend) Metadata() sdk.BackendMetadata {
	return sdk.BackendMetadata{
		ID:            "shiftsched.solver.greedy",
		Name:          "Greedy Staffing Backend",
		Version:       "1.0.0",
		Author:        "shiftsched",
		Description:   "Deterministic priority-based greedy solver that fills the largest staffing shortfall first",
		License:       "Proprietary",
		Homepage:      "https://github.com/retailops/shiftsched",
		Tags:          []string{"solver", "builtin", "greedy"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"solve", "write_model"},
	}
}

// Kind returns the backend family.
func (b *GreedyBackend) Kind() sdk.BackendKind {
	return sdk.BackendKindGreedy
}

// ConfigSchema returns the configuration schema for the greedy backend.
func (b *GreedyBackend) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("Greedy Backend", "Tuning for the deterministic greedy solver")
	schema.AddProperty("default_shift_hours", sdk.PropertySchema{
		Type:        "number",
		Title:       "Default Shift Length (hours)",
		Description: "Length assigned when a shortfall run exceeds an employee's minimum shift length",
		Default:     6.0,
		Minimum:     sdk.FloatPtr(1),
		Maximum:     sdk.FloatPtr(12),
	})
	return schema
}

// Initialize initializes the backend with configuration.
func (b *GreedyBackend) Initialize(ctx context.Context, config sdk.BackendConfig) error {
	b.config = config
	return nil
}

// HealthCheck returns the backend health status.
func (b *GreedyBackend) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true, Message: "greedy backend is healthy"}
}

// Shutdown gracefully shuts down the backend.
func (b *GreedyBackend) Shutdown(ctx context.Context) error {
	return nil
}

func (b *GreedyBackend) defaultShiftHours() float64 {
	if b.config.Has("default_shift_hours") {
		return b.config.GetFloat("default_shift_hours")
	}
	return 6.0
}

// shiftWindow is a candidate contiguous block [Start, Start+Length) for one
// employee on the day being solved.
type shiftWindow struct {
	employee string
	start    domain.Period
	length   int
}

// Solve fills staffing shortfalls period by period. It never backtracks: once
// an employee is placed, their window is fixed for the remainder of the run.
func (b *GreedyBackend) Solve(ctx context.Context, problem *domain.ScheduleProblem, config domain.SolverConfig) (*domain.SolverResult, error) {
	if err := problem.Validate(); err != nil {
		return &domain.SolverResult{Status: domain.StatusError}, err
	}

	T := problem.PeriodCount
	assign := make(map[string][]bool, len(problem.Employees))
	for _, e := range problem.Employees {
		assign[e] = make([]bool, T)
	}
	placed := make(map[string]bool, len(problem.Employees))

	coverage := make([]int, T)
	applyLocked := func() {
		for e, periods := range problem.Locked {
			for p, on := range periods {
				if on && int(p) < T {
					assign[e][p] = true
					coverage[p]++
				}
			}
			if len(periods) > 0 {
				placed[e] = true
			}
		}
	}
	applyLocked()

	remaining := make([]string, 0, len(problem.Employees))
	for _, e := range problem.Employees {
		if !placed[e] {
			remaining = append(remaining, e)
		}
	}
	// Cheapest employees first keeps the objective low when several
	// candidates can equally plug a shortfall.
	sort.SliceStable(remaining, func(i, j int) bool {
		return problem.Rate[remaining[i]] < problem.Rate[remaining[j]]
	})

	shiftHours := b.defaultShiftHours()
	defaultLen := int(shiftHours * 60 / float64(domain.PeriodMinutes))
	if defaultLen < 1 {
		defaultLen = 1
	}

	// Period 0 of every day is exempt from the staffing floor (opening
	// minutes absorb the first arrivals before the floor applies).
	givenUp := make(map[int]bool)
	for {
		shortfallPeriod := -1
		shortfall := 0
		for t := 1; t < T; t++ {
			if givenUp[t] {
				continue
			}
			if d := problem.MinStaff[t] - coverage[t]; d > shortfall {
				shortfall = d
				shortfallPeriod = t
			}
		}
		if shortfallPeriod < 0 {
			break
		}

		candidate, win := b.bestCandidate(problem, remaining, domain.Period(shortfallPeriod), defaultLen)
		if candidate == "" {
			// No remaining employee can cover this period; stop retrying
			// it so we don't loop forever on an uncoverable period, but
			// leave problem.MinStaff untouched so buildResult still charges
			// the true shortfall against the dummy cost.
			givenUp[shortfallPeriod] = true
			continue
		}

		for p := win.start; int(p) < int(win.start)+win.length && int(p) < T; p++ {
			assign[candidate][p] = true
			coverage[p]++
		}
		placed[candidate] = true
		remaining = removeEmployee(remaining, candidate)
	}

	return b.buildResult(problem, config, assign, coverage), nil
}

// bestCandidate finds the cheapest remaining employee available at period p
// whose availability window admits a contiguous shift of at least the
// employee's own minimum shift length covering p.
func (b *GreedyBackend) bestCandidate(problem *domain.ScheduleProblem, remaining []string, p domain.Period, defaultLen int) (string, shiftWindow) {
	T := problem.PeriodCount
	for _, e := range remaining {
		avail := problem.Availability[e]
		if !avail[p] {
			continue
		}
		minHours := problem.ShiftMinHours[e]
		maxHours := problem.ShiftMaxHours[e]
		minLen := int(minHours * 60 / float64(domain.PeriodMinutes))
		if minLen < 1 {
			minLen = 1
		}
		maxLen := int(maxHours * 60 / float64(domain.PeriodMinutes))
		if maxLen < minLen {
			maxLen = minLen
		}

		length := defaultLen
		if length < minLen {
			length = minLen
		}
		if length > maxLen {
			length = maxLen
		}
		if length > T {
			length = T
		}
		if length < minLen {
			continue
		}

		start := int(p) - length/2
		if start < 0 {
			start = 0
		}
		if start+length > T {
			start = T - length
		}
		if start < 0 {
			continue
		}

		ok := true
		for t := start; t < start+length; t++ {
			if !avail[domain.Period(t)] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		return e, shiftWindow{employee: e, start: domain.Period(start), length: length}
	}
	return "", shiftWindow{}
}

func removeEmployee(list []string, target string) []string {
	out := list[:0]
	for _, e := range list {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

func (b *GreedyBackend) buildResult(problem *domain.ScheduleProblem, config domain.SolverConfig, assign map[string][]bool, coverage []int) *domain.SolverResult {
	T := problem.PeriodCount
	dummy := make([]float64, T)
	var objective float64

	for t := 1; t < T; t++ {
		if d := problem.MinStaff[t] - coverage[t]; d > 0 {
			dummy[t] = float64(d)
			objective += float64(d) * config.DummyCost
		}
	}

	shortShift := make(map[string]float64, len(problem.Employees))
	breaks := make(map[string]map[domain.Period]bool, len(problem.Employees))

	for _, e := range problem.Employees {
		periods := assign[e]
		hours := 0.0
		var first, last int = -1, -1
		for t := 0; t < T; t++ {
			if periods[t] {
				if first < 0 {
					first = t
				}
				last = t
				hours += float64(domain.PeriodMinutes) / 60.0
			}
		}
		if first < 0 {
			continue
		}
		objective += hours * problem.Rate[e]

		if config.MinShiftHours > 0 && hours < config.MinShiftHours {
			deficit := config.MinShiftHours - hours
			shortShift[e] = deficit
			objective += deficit * config.ShortShiftPenalty
		}

		if problem.MealBreakEnabled && hours > problem.MealBreakAfterHours {
			mid := (first + last) / 2
			breaks[e] = map[domain.Period]bool{domain.Period(mid): true}
		}
	}

	return &domain.SolverResult{
		Status:     domain.StatusOptimal,
		Objective:  objective,
		Assign:     assign,
		Dummy:      dummy,
		ShortShift: shortShift,
		Break:      breaks,
		SolveTime:  0,
	}
}

// WriteModel dumps a plain-text description of the problem for debugging.
// The greedy backend has no underlying MILP model, so this records the
// staffing floor and availability shape instead.
func (b *GreedyBackend) WriteModel(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return writeTextModel(path, problem)
}

// ComputeIIS is a no-op for the greedy backend: it has no infeasibility
// concept beyond unmet staffing floors, which already surface as dummy cost.
func (b *GreedyBackend) ComputeIIS(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return nil
}

var _ sdk.Backend = (*GreedyBackend)(nil)
