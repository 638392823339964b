package builtin

import (
	"context"
	"sort"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/solver/sdk"
)

// ExactBackend finds the minimum-cost assignment by backtracking over each
// employee's candidate (start, length) shift windows — tractable only
// because every employee works at most one contiguous block per day, which
// collapses the search space from per-period booleans to one choice per
// employee.
type ExactBackend struct {
	config sdk.BackendConfig
}

// NewExactBackend creates a new exact backtracking solver backend.
func NewExactBackend() *ExactBackend {
	return &ExactBackend{}
}

// Metadata returns backend identification and capabilities.
func (b *ExactBackend) Metadata() sdk.BackendMetadata {
	return sdk.BackendMetadata{
		ID:            "shiftsched.solver.exact",
		Name:          "Exact Backtracking Backend",
		Version:       "1.0.0",
		Author:        "shiftsched",
		Description:   "Branch-and-bound search over per-employee contiguous shift windows, for test-sized instances",
		License:       "Proprietary",
		Homepage:      "https://github.com/retailops/shiftsched",
		Tags:          []string{"solver", "builtin", "exact", "backtracking"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"solve", "write_model", "compute_iis"},
	}
}

// Kind returns the backend family.
func (b *ExactBackend) Kind() sdk.BackendKind {
	return sdk.BackendKindExact
}

// ConfigSchema returns the configuration schema for the exact backend.
func (b *ExactBackend) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("Exact Backend", "Branch-and-bound search limits")
	schema.AddProperty("max_candidates_per_employee", sdk.PropertySchema{
		Type:        "integer",
		Title:       "Max Candidates Per Employee",
		Description: "Caps the enumerated (start,length) windows per employee; above the cap, a subset spread evenly across start times is kept",
		Default:     256,
		Minimum:     sdk.FloatPtr(1),
	})
	return schema
}

// Initialize initializes the backend with configuration.
func (b *ExactBackend) Initialize(ctx context.Context, config sdk.BackendConfig) error {
	b.config = config
	return nil
}

// HealthCheck returns the backend health status.
func (b *ExactBackend) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true, Message: "exact backend is healthy"}
}

// Shutdown gracefully shuts down the backend.
func (b *ExactBackend) Shutdown(ctx context.Context) error {
	return nil
}

// candidate is one viable (start,length) window, or the "not working" option
// when start < 0.
type candidate struct {
	start, length int
	hours         float64
}

func (b *ExactBackend) maxCandidates() int {
	if b.config.Has("max_candidates_per_employee") {
		return int(b.config.GetFloat("max_candidates_per_employee"))
	}
	return 256
}

// candidatesFor enumerates every (start,length) window for employee e that
// fits entirely within available periods and the employee's own shift-hour
// bounds, plus the not-working option.
func (b *ExactBackend) candidatesFor(problem *domain.ScheduleProblem, e string) []candidate {
	T := problem.PeriodCount
	avail := problem.Availability[e]

	if locked, ok := problem.Locked[e]; ok && len(locked) > 0 {
		start, end := T, -1
		for p, on := range locked {
			if !on {
				continue
			}
			if int(p) < start {
				start = int(p)
			}
			if int(p) > end {
				end = int(p)
			}
		}
		length := end - start + 1
		hours := float64(length) * float64(domain.PeriodMinutes) / 60.0
		return []candidate{{start: start, length: length, hours: hours}}
	}

	minLen := int(problem.ShiftMinHours[e] * 60 / float64(domain.PeriodMinutes))
	if minLen < 1 {
		minLen = 1
	}
	maxLen := int(problem.ShiftMaxHours[e] * 60 / float64(domain.PeriodMinutes))
	if maxLen < minLen {
		maxLen = minLen
	}

	candidates := []candidate{{start: -1, length: 0, hours: 0}} // not working
	for length := minLen; length <= maxLen; length++ {
		for start := 0; start+length <= T; start++ {
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
			hours := float64(length) * float64(domain.PeriodMinutes) / 60.0
			candidates = append(candidates, candidate{start: start, length: length, hours: hours})
		}
	}

	limit := b.maxCandidates()
	if len(candidates) > limit {
		// Keep the not-working option plus the widest spread of starts so
		// the truncated set still covers the whole day.
		rest := candidates[1:]
		sort.Slice(rest, func(i, j int) bool {
			return rest[i].start < rest[j].start
		})
		kept := []candidate{candidates[0]}
		for i := 0; i < limit-1; i++ {
			kept = append(kept, rest[i*len(rest)/(limit-1)])
		}
		candidates = kept
	}

	return candidates
}

// searchState carries the mutable coverage/assignment accumulator through
// the recursion.
type searchState struct {
	problem  *domain.ScheduleProblem
	config   domain.SolverConfig
	coverage []int
	assign   map[string][]bool
	best     *domain.SolverResult
	bestCost float64
}

// Solve runs branch-and-bound backtracking over each employee's candidate
// windows in turn, pruning any partial assignment whose cost already meets
// or exceeds the best complete assignment found so far.
func (b *ExactBackend) Solve(ctx context.Context, problem *domain.ScheduleProblem, config domain.SolverConfig) (*domain.SolverResult, error) {
	if err := problem.Validate(); err != nil {
		return &domain.SolverResult{Status: domain.StatusError}, err
	}

	T := problem.PeriodCount
	candidatesByEmployee := make([][]candidate, len(problem.Employees))
	for i, e := range problem.Employees {
		candidatesByEmployee[i] = b.candidatesFor(problem, e)
	}

	state := &searchState{
		problem:  problem,
		config:   config,
		coverage: make([]int, T),
		assign:   make(map[string][]bool, len(problem.Employees)),
		bestCost: -1,
	}
	for _, e := range problem.Employees {
		state.assign[e] = make([]bool, T)
	}

	b.search(state, candidatesByEmployee, 0, 0)

	if state.best == nil {
		return &domain.SolverResult{Status: domain.StatusInfeasible}, nil
	}
	return state.best, nil
}

func (b *ExactBackend) search(state *searchState, candidates [][]candidate, employeeIdx int, partialCost float64) {
	if state.bestCost >= 0 && partialCost >= state.bestCost {
		return
	}

	problem := state.problem
	if employeeIdx == len(problem.Employees) {
		finalCost := partialCost
		dummy := make([]float64, problem.PeriodCount)
		// Period 0 is exempt from the staffing floor.
		for t := 1; t < problem.PeriodCount; t++ {
			if d := problem.MinStaff[t] - state.coverage[t]; d > 0 {
				dummy[t] = float64(d)
				finalCost += float64(d) * state.config.DummyCost
			}
		}
		if state.bestCost < 0 || finalCost < state.bestCost {
			assignCopy := make(map[string][]bool, len(state.assign))
			for e, periods := range state.assign {
				cp := make([]bool, len(periods))
				copy(cp, periods)
				assignCopy[e] = cp
			}
			state.bestCost = finalCost
			state.best = &domain.SolverResult{
				Status:     domain.StatusOptimal,
				Objective:  finalCost,
				Assign:     assignCopy,
				Dummy:      dummy,
				ShortShift: shortShiftFor(problem, state.config, assignCopy),
				Break:      breaksFor(problem, assignCopy),
			}
		}
		return
	}

	e := problem.Employees[employeeIdx]
	for _, c := range candidates[employeeIdx] {
		cost := partialCost
		if c.start >= 0 {
			cost += c.hours * problem.Rate[e]
			if state.config.MinShiftHours > 0 && c.hours < state.config.MinShiftHours {
				cost += (state.config.MinShiftHours - c.hours) * state.config.ShortShiftPenalty
			}
		}
		if state.bestCost >= 0 && cost >= state.bestCost {
			continue
		}

		if c.start >= 0 {
			for t := c.start; t < c.start+c.length; t++ {
				state.assign[e][t] = true
				state.coverage[t]++
			}
		}

		b.search(state, candidates, employeeIdx+1, cost)

		if c.start >= 0 {
			for t := c.start; t < c.start+c.length; t++ {
				state.assign[e][t] = false
				state.coverage[t]--
			}
		}
	}
}

// shortShiftFor reports, per employee, how far their assigned hours fall
// short of config.MinShiftHours, matching the penalty already priced into
// the search's cost function.
func shortShiftFor(problem *domain.ScheduleProblem, config domain.SolverConfig, assign map[string][]bool) map[string]float64 {
	shortShift := make(map[string]float64, len(problem.Employees))
	if config.MinShiftHours <= 0 {
		return shortShift
	}
	for _, e := range problem.Employees {
		hours := 0.0
		for _, on := range assign[e] {
			if on {
				hours += float64(domain.PeriodMinutes) / 60.0
			}
		}
		if hours > 0 && hours < config.MinShiftHours {
			shortShift[e] = config.MinShiftHours - hours
		}
	}
	return shortShift
}

// breaksFor places one interior meal-break period per employee whose shift
// exceeds problem.MealBreakAfterHours, when meal breaks are enabled.
func breaksFor(problem *domain.ScheduleProblem, assign map[string][]bool) map[string]map[domain.Period]bool {
	breaks := make(map[string]map[domain.Period]bool, len(problem.Employees))
	if !problem.MealBreakEnabled {
		return breaks
	}
	for _, e := range problem.Employees {
		periods := assign[e]
		var first, last = -1, -1
		hours := 0.0
		for t, on := range periods {
			if on {
				if first < 0 {
					first = t
				}
				last = t
				hours += float64(domain.PeriodMinutes) / 60.0
			}
		}
		if first < 0 || hours <= problem.MealBreakAfterHours {
			continue
		}
		mid := (first + last) / 2
		breaks[e] = map[domain.Period]bool{domain.Period(mid): true}
	}
	return breaks
}

// WriteModel dumps a plain-text description of the problem for debugging.
func (b *ExactBackend) WriteModel(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return writeTextModel(path, problem)
}

// ComputeIIS writes the set of periods whose staffing floor cannot be met by
// any employee's availability, the exact backend's infeasibility witness.
func (b *ExactBackend) ComputeIIS(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	T := problem.PeriodCount
	uncoverable := make([]domain.Period, 0)
	for t := 1; t < T; t++ {
		coverable := 0
		for _, e := range problem.Employees {
			if problem.Availability[e][t] {
				coverable++
			}
		}
		if coverable < problem.MinStaff[t] {
			uncoverable = append(uncoverable, domain.Period(t))
		}
	}
	return writeIISReport(path, uncoverable)
}

var _ sdk.Backend = (*ExactBackend)(nil)
