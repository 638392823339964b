package builtin

import (
	"context"
	"math"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/solver/sdk"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// LocalSearchBackend refines a greedy starting solution with simulated
// annealing: it repeatedly proposes moving one employee's shift window and
// accepts the move if it lowers the objective, or with decaying probability
// if it doesn't, escaping the local optima the greedy fill gets stuck in.
type LocalSearchBackend struct {
	config sdk.BackendConfig
	greedy *GreedyBackend
}

// NewLocalSearchBackend creates a new local-search solver backend.
func NewLocalSearchBackend() *LocalSearchBackend {
	return &LocalSearchBackend{greedy: NewGreedyBackend()}
}

// Metadata returns backend identification and capabilities.
func (b *LocalSearchBackend) Metadata() sdk.BackendMetadata {
	return sdk.BackendMetadata{
		ID:            "shiftsched.solver.localsearch",
		Name:          "Local Search Backend",
		Version:       "1.0.0",
		Author:        "shiftsched",
		Description:   "Simulated-annealing refinement over a greedy starting solution",
		License:       "Proprietary",
		Homepage:      "https://github.com/retailops/shiftsched",
		Tags:          []string{"solver", "builtin", "localsearch", "annealing"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"solve", "write_model"},
	}
}

// Kind returns the backend family.
func (b *LocalSearchBackend) Kind() sdk.BackendKind {
	return sdk.BackendKindLocalSearch
}

// ConfigSchema returns the configuration schema for the local-search backend.
func (b *LocalSearchBackend) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("Local Search Backend", "Annealing schedule tuning")
	schema.AddProperty("iterations", sdk.PropertySchema{
		Type:        "integer",
		Title:       "Iterations",
		Description: "Number of annealing proposals to evaluate",
		Default:     500,
		Minimum:     sdk.FloatPtr(1),
		Maximum:     sdk.FloatPtr(100000),
	})
	schema.AddProperty("initial_temperature", sdk.PropertySchema{
		Type:        "number",
		Title:       "Initial Temperature",
		Description: "Starting annealing temperature",
		Default:     10.0,
		Minimum:     sdk.FloatPtr(0.01),
	})
	schema.AddProperty("cooling_rate", sdk.PropertySchema{
		Type:        "number",
		Title:       "Cooling Rate",
		Description: "Multiplicative temperature decay per iteration",
		Default:     0.995,
		Minimum:     sdk.FloatPtr(0.5),
		Maximum:     sdk.FloatPtr(0.9999),
	})
	schema.AddProperty("seed", sdk.PropertySchema{
		Type:        "integer",
		Title:       "RNG Seed",
		Description: "Deterministic seed for the annealing proposal stream",
		Default:     1,
	})
	return schema
}

// Initialize initializes the backend with configuration.
func (b *LocalSearchBackend) Initialize(ctx context.Context, config sdk.BackendConfig) error {
	b.config = config
	return nil
}

// HealthCheck returns the backend health status.
func (b *LocalSearchBackend) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true, Message: "local search backend is healthy"}
}

// Shutdown gracefully shuts down the backend.
func (b *LocalSearchBackend) Shutdown(ctx context.Context) error {
	return nil
}

func (b *LocalSearchBackend) intParam(key string, def int) int {
	if b.config.Has(key) {
		return int(b.config.GetFloat(key))
	}
	return def
}

func (b *LocalSearchBackend) floatParam(key string, def float64) float64 {
	if b.config.Has(key) {
		return b.config.GetFloat(key)
	}
	return def
}

// Solve seeds the search from the greedy solution, then anneals by
// relocating one employee's shift window per iteration.
func (b *LocalSearchBackend) Solve(ctx context.Context, problem *domain.ScheduleProblem, config domain.SolverConfig) (*domain.SolverResult, error) {
	if err := problem.Validate(); err != nil {
		return &domain.SolverResult{Status: domain.StatusError}, err
	}

	seed := uint64(b.intParam("seed", 1))
	iterations := b.intParam("iterations", 500)
	temperature := b.floatParam("initial_temperature", 10.0)
	cooling := b.floatParam("cooling_rate", 0.995)

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}

	best, err := b.greedy.Solve(ctx, problem, config)
	if err != nil {
		return best, err
	}
	if best.Status != domain.StatusOptimal {
		return best, nil
	}

	current := cloneResult(best)
	bestObjective := best.Objective
	currentObjective := current.Objective

	T := problem.PeriodCount
	employees := problem.Employees

	for i := 0; i < iterations && len(employees) > 0; i++ {
		idx := int(uniform.Rand() * float64(len(employees)))
		if idx >= len(employees) {
			idx = len(employees) - 1
		}
		e := employees[idx]
		if problem.Locked[e] != nil && len(problem.Locked[e]) > 0 {
			continue // locked employees are not subject to relocation
		}

		proposal := cloneResult(current)
		if !relocateShift(problem, proposal, e, uniform, T) {
			continue
		}
		rescoreResult(problem, config, proposal)

		delta := proposal.Objective - currentObjective
		accept := delta < 0
		if !accept && temperature > 1e-9 {
			accept = uniform.Rand() < math.Exp(-delta/temperature)
		}
		if accept {
			current = proposal
			currentObjective = current.Objective
			if currentObjective < bestObjective {
				best = cloneResult(current)
				bestObjective = currentObjective
			}
		}

		temperature *= cooling
	}

	return best, nil
}

// relocateShift moves employee e's existing contiguous block to one randomly
// drawn start within the period grid, preserving its length. It returns
// false, leaving the result unchanged, when e has no shift or the block at
// the drawn start would cover an unavailable period; no other start is tried.
func relocateShift(problem *domain.ScheduleProblem, result *domain.SolverResult, e string, uniform distuv.Uniform, T int) bool {
	periods := result.Assign[e]
	length := 0
	for _, on := range periods {
		if on {
			length++
		}
	}
	if length == 0 {
		return false
	}

	avail := problem.Availability[e]
	newStart := int(uniform.Rand() * float64(T))
	if newStart+length > T {
		newStart = T - length
	}
	if newStart < 0 {
		return false
	}
	for t := newStart; t < newStart+length; t++ {
		if !avail[domain.Period(t)] {
			return false
		}
	}

	for t := 0; t < T; t++ {
		periods[t] = false
	}
	for t := newStart; t < newStart+length; t++ {
		periods[t] = true
	}
	return true
}

// cloneResult deep-copies the mutable parts of a SolverResult so a proposal
// can be scored and discarded without disturbing the incumbent.
func cloneResult(r *domain.SolverResult) *domain.SolverResult {
	assign := make(map[string][]bool, len(r.Assign))
	for e, periods := range r.Assign {
		cp := make([]bool, len(periods))
		copy(cp, periods)
		assign[e] = cp
	}
	dummy := make([]float64, len(r.Dummy))
	copy(dummy, r.Dummy)

	shortShift := make(map[string]float64, len(r.ShortShift))
	for e, deficit := range r.ShortShift {
		shortShift[e] = deficit
	}
	breaks := make(map[string]map[domain.Period]bool, len(r.Break))
	for e, periods := range r.Break {
		cp := make(map[domain.Period]bool, len(periods))
		for p, on := range periods {
			cp[p] = on
		}
		breaks[e] = cp
	}

	return &domain.SolverResult{
		Status:     r.Status,
		Objective:  r.Objective,
		Assign:     assign,
		Dummy:      dummy,
		ShortShift: shortShift,
		Break:      breaks,
		SolveTime:  r.SolveTime,
	}
}

// rescoreResult recomputes coverage, dummy shortfall, hours cost, and
// short-shift penalty from an Assign matrix, mutating the result in place.
func rescoreResult(problem *domain.ScheduleProblem, config domain.SolverConfig, result *domain.SolverResult) {
	T := problem.PeriodCount
	coverage := make([]int, T)
	for _, periods := range result.Assign {
		for t, on := range periods {
			if on {
				coverage[t]++
			}
		}
	}

	var objective float64
	dummy := make([]float64, T)
	// Period 0 is exempt from the staffing floor.
	for t := 1; t < T; t++ {
		if d := problem.MinStaff[t] - coverage[t]; d > 0 {
			dummy[t] = float64(d)
			objective += float64(d) * config.DummyCost
		}
	}

	shortShift := make(map[string]float64, len(problem.Employees))
	breaks := make(map[string]map[domain.Period]bool, len(problem.Employees))

	for _, e := range problem.Employees {
		periods := result.Assign[e]
		hours := 0.0
		var first, last = -1, -1
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

	result.Dummy = dummy
	result.ShortShift = shortShift
	result.Break = breaks
	result.Objective = objective
}

// WriteModel dumps a plain-text description of the problem for debugging.
func (b *LocalSearchBackend) WriteModel(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return writeTextModel(path, problem)
}

// ComputeIIS is a no-op: infeasibility in this formulation only ever shows up
// as unmet staffing floors, already reflected in the dummy vector.
func (b *LocalSearchBackend) ComputeIIS(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return nil
}

var _ sdk.Backend = (*LocalSearchBackend)(nil)
