package builtin

import (
	"context"
	"testing"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/solver/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSearchBackend_Metadata(t *testing.T) {
	b := NewLocalSearchBackend()
	meta := b.Metadata()
	assert.Equal(t, "shiftsched.solver.localsearch", meta.ID)
	assert.Equal(t, sdk.BackendKindLocalSearch, b.Kind())
}

func TestLocalSearchBackend_Solve_NeverWorsensGreedy(t *testing.T) {
	greedy := NewGreedyBackend()
	require.NoError(t, greedy.Initialize(context.Background(), sdk.NewBackendConfig("shiftsched.solver.greedy", nil)))

	ls := NewLocalSearchBackend()
	cfg := sdk.NewBackendConfig("shiftsched.solver.localsearch", map[string]any{
		"iterations":          50,
		"initial_temperature": 2.0,
		"cooling_rate":        0.9,
		"seed":                7,
	})
	require.NoError(t, ls.Initialize(context.Background(), cfg))

	problem := simpleProblem()
	solverConfig := domain.SolverConfig{DummyCost: 1000, ShortShiftPenalty: 50, MinShiftHours: 3}

	greedyResult, err := greedy.Solve(context.Background(), problem, solverConfig)
	require.NoError(t, err)

	lsResult, err := ls.Solve(context.Background(), problem, solverConfig)
	require.NoError(t, err)

	assert.LessOrEqual(t, lsResult.Objective, greedyResult.Objective+1e-9)
}

func TestLocalSearchBackend_Solve_MeetsStaffingFloor(t *testing.T) {
	ls := NewLocalSearchBackend()
	cfg := sdk.NewBackendConfig("shiftsched.solver.localsearch", map[string]any{"iterations": 20})
	require.NoError(t, ls.Initialize(context.Background(), cfg))

	problem := simpleProblem()
	result, err := ls.Solve(context.Background(), problem, domain.SolverConfig{DummyCost: 1000})
	require.NoError(t, err)

	for t := 0; t < problem.PeriodCount; t++ {
		covered := 0
		for _, e := range problem.Employees {
			if result.Assign[e][t] {
				covered++
			}
		}
		assert.GreaterOrEqualf(t, covered, 1, "period %d understaffed", t)
	}
}

func TestLocalSearchBackend_HealthCheck(t *testing.T) {
	b := NewLocalSearchBackend()
	status := b.HealthCheck(context.Background())
	assert.True(t, status.Healthy)
}
