package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/solver/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend is a minimal solver backend for registry tests.
type mockBackend struct {
	metadata sdk.BackendMetadata
	kind     sdk.BackendKind
	healthy  bool
}

func (m *mockBackend) Metadata() sdk.BackendMetadata { return m.metadata }
func (m *mockBackend) Kind() sdk.BackendKind          { return m.kind }
func (m *mockBackend) Initialize(ctx context.Context, config sdk.BackendConfig) error {
	return nil
}
func (m *mockBackend) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: m.healthy, Message: "mock backend"}
}
func (m *mockBackend) Shutdown(ctx context.Context) error { return nil }
func (m *mockBackend) Solve(ctx context.Context, problem *domain.ScheduleProblem, config domain.SolverConfig) (*domain.SolverResult, error) {
	return &domain.SolverResult{Status: domain.StatusOptimal}, nil
}
func (m *mockBackend) WriteModel(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return nil
}
func (m *mockBackend) ComputeIIS(ctx context.Context, problem *domain.ScheduleProblem, path string) error {
	return nil
}

func newMockBackend(id, name string, kind sdk.BackendKind) *mockBackend {
	return &mockBackend{
		metadata: sdk.BackendMetadata{ID: id, Name: name, Version: "1.0.0"},
		kind:     kind,
		healthy:  true,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(testLogger())
	assert.NotNil(t, reg)
	assert.Equal(t, 0, reg.Count())
}

func TestRegisterBuiltin(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("test.backend", "Test Backend", sdk.BackendKindGreedy)
	err := reg.RegisterBuiltin(backend)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Count())
	assert.True(t, reg.Has("test.backend"))
}

func TestRegisterBuiltinDuplicate(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend1 := newMockBackend("test.backend", "Test Backend 1", sdk.BackendKindGreedy)
	backend2 := newMockBackend("test.backend", "Test Backend 2", sdk.BackendKindGreedy)

	require.NoError(t, reg.RegisterBuiltin(backend1))

	err := reg.RegisterBuiltin(backend2)
	assert.ErrorIs(t, err, sdk.ErrBackendAlreadyExists)
}

func TestRegisterBuiltinEmptyID(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("", "No ID Backend", sdk.BackendKindGreedy)
	err := reg.RegisterBuiltin(backend)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend ID is required")
}

func TestGet(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("test.backend", "Test Backend", sdk.BackendKindGreedy)
	require.NoError(t, reg.RegisterBuiltin(backend))

	ctx := context.Background()
	retrieved, err := reg.Get(ctx, "test.backend")
	require.NoError(t, err)
	assert.Equal(t, backend.Metadata().ID, retrieved.Metadata().ID)
}

func TestGetNotFound(t *testing.T) {
	reg := NewRegistry(testLogger())

	ctx := context.Background()
	_, err := reg.Get(ctx, "nonexistent.backend")
	assert.ErrorIs(t, err, sdk.ErrBackendNotFound)
}

func TestList(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend1 := newMockBackend("test.backend1", "Test Backend 1", sdk.BackendKindGreedy)
	backend2 := newMockBackend("test.backend2", "Test Backend 2", sdk.BackendKindExact)

	require.NoError(t, reg.RegisterBuiltin(backend1))
	require.NoError(t, reg.RegisterBuiltin(backend2))

	entries := reg.List()
	assert.Len(t, entries, 2)
}

func TestListByKind(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend1 := newMockBackend("test.greedy1", "Greedy 1", sdk.BackendKindGreedy)
	backend2 := newMockBackend("test.greedy2", "Greedy 2", sdk.BackendKindGreedy)
	backend3 := newMockBackend("test.exact", "Exact", sdk.BackendKindExact)

	require.NoError(t, reg.RegisterBuiltin(backend1))
	require.NoError(t, reg.RegisterBuiltin(backend2))
	require.NoError(t, reg.RegisterBuiltin(backend3))

	greedyEntries := reg.ListByKind(sdk.BackendKindGreedy)
	assert.Len(t, greedyEntries, 2)

	exactEntries := reg.ListByKind(sdk.BackendKindExact)
	assert.Len(t, exactEntries, 1)
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry(testLogger())

	factory := func() (sdk.Backend, error) {
		return newMockBackend("test.plugin", "Plugin Backend", sdk.BackendKindExternal), nil
	}
	manifest := &Manifest{
		ID:      "test.plugin",
		Name:    "Plugin Backend",
		Version: "1.0.0",
		Kind:    "external",
	}

	require.NoError(t, reg.RegisterFactory("test.plugin", factory, manifest))
	assert.True(t, reg.Has("test.plugin"))

	require.NoError(t, reg.Unregister("test.plugin"))
	assert.False(t, reg.Has("test.plugin"))
}

func TestUnregisterBuiltin(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("test.builtin", "Built-in Backend", sdk.BackendKindGreedy)
	require.NoError(t, reg.RegisterBuiltin(backend))

	err := reg.Unregister("test.builtin")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot unregister built-in backend")
}

func TestStatus(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("test.backend", "Test Backend", sdk.BackendKindGreedy)
	require.NoError(t, reg.RegisterBuiltin(backend))

	status, err := reg.Status("test.backend")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
}

func TestShutdownAll(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend1 := newMockBackend("test.backend1", "Test Backend 1", sdk.BackendKindGreedy)
	backend2 := newMockBackend("test.backend2", "Test Backend 2", sdk.BackendKindExact)

	require.NoError(t, reg.RegisterBuiltin(backend1))
	require.NoError(t, reg.RegisterBuiltin(backend2))

	ctx := context.Background()
	require.NoError(t, reg.ShutdownAll(ctx))

	status1, _ := reg.Status("test.backend1")
	status2, _ := reg.Status("test.backend2")
	assert.Equal(t, StatusShutdown, status1)
	assert.Equal(t, StatusShutdown, status2)
}

func TestGetMetadata(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend := newMockBackend("test.backend", "Test Backend", sdk.BackendKindGreedy)
	require.NoError(t, reg.RegisterBuiltin(backend))

	meta, err := reg.GetMetadata("test.backend")
	require.NoError(t, err)
	assert.Equal(t, "test.backend", meta.ID)
	assert.Equal(t, "Test Backend", meta.Name)
	assert.Equal(t, "1.0.0", meta.Version)
}

func TestRegisterFactory(t *testing.T) {
	reg := NewRegistry(testLogger())

	called := false
	factory := func() (sdk.Backend, error) {
		called = true
		return newMockBackend("test.lazy", "Lazy Backend", sdk.BackendKindExternal), nil
	}
	manifest := &Manifest{
		ID:      "test.lazy",
		Name:    "Lazy Backend",
		Version: "1.0.0",
		Kind:    "external",
	}

	require.NoError(t, reg.RegisterFactory("test.lazy", factory, manifest))
	assert.False(t, called, "factory should not be called on registration")

	status, _ := reg.Status("test.lazy")
	assert.Equal(t, StatusUnloaded, status)

	ctx := context.Background()
	backend, err := reg.Get(ctx, "test.lazy")
	require.NoError(t, err)
	assert.True(t, called, "factory should be called on first Get")
	assert.NotNil(t, backend)

	status, _ = reg.Status("test.lazy")
	assert.Equal(t, StatusReady, status)
}

func TestHealthCheckAll(t *testing.T) {
	reg := NewRegistry(testLogger())

	backend1 := newMockBackend("test.backend1", "Test Backend 1", sdk.BackendKindGreedy)
	backend2 := newMockBackend("test.backend2", "Test Backend 2", sdk.BackendKindExact)
	require.NoError(t, reg.RegisterBuiltin(backend1))
	require.NoError(t, reg.RegisterBuiltin(backend2))

	results := reg.HealthCheckAll(context.Background())
	assert.Len(t, results, 2)
	assert.True(t, results["test.backend1"].Healthy)
	assert.True(t, results["test.backend2"].Healthy)
}
