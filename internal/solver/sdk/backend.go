// Package sdk provides the pluggable solver backend contract: the facade
// the core formulates a ScheduleProblem against and consumes a SolverResult
// from, independent of which concrete MILP/CP/heuristic engine answers the
// call.
package sdk

import (
	"context"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
)

// BackendKind identifies the family of solver backend.
type BackendKind string

const (
	BackendKindGreedy     BackendKind = "greedy"
	BackendKindLocalSearch BackendKind = "localsearch"
	BackendKindExact      BackendKind = "exact"
	BackendKindExternal   BackendKind = "external"
)

// IsValid reports whether the backend kind is one this SDK recognizes.
func (k BackendKind) IsValid() bool {
	switch k {
	case BackendKindGreedy, BackendKindLocalSearch, BackendKindExact, BackendKindExternal:
		return true
	default:
		return false
	}
}

// Backend is the solver backend facade named in the external interface
// boundary: a single solve operation plus two debugging operations.
type Backend interface {
	// Metadata returns backend identification and capabilities.
	Metadata() BackendMetadata

	// Kind returns the backend family.
	Kind() BackendKind

	// Initialize sets up the backend with the provided configuration.
	Initialize(ctx context.Context, config BackendConfig) error

	// HealthCheck returns the current health status of the backend.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown gracefully stops the backend and releases resources.
	Shutdown(ctx context.Context) error

	// Solve accepts a ScheduleProblem and SolverConfig and returns a
	// SolverResult.
	Solve(ctx context.Context, problem *domain.ScheduleProblem, config domain.SolverConfig) (*domain.SolverResult, error)

	// WriteModel dumps the formulated model to path for debugging.
	WriteModel(ctx context.Context, problem *domain.ScheduleProblem, path string) error

	// ComputeIIS writes an Irreducibly Inconsistent Subsystem diagnostic to
	// path when the backend last reported infeasible. Backends without IIS
	// support may no-op.
	ComputeIIS(ctx context.Context, problem *domain.ScheduleProblem, path string) error
}

// BackendFactory creates backend instances. Used by the registry to defer
// backend instantiation until a solve is actually requested.
type BackendFactory func() (Backend, error)
