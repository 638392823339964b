// Package registry provides solver backend registration, discovery, and
// lifecycle management — the home for the three builtin backends and any
// pluggable external backend dispensed over the grpc scaffold.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/retailops/shiftsched/internal/solver/sdk"
	"golang.org/x/sync/errgroup"
)

// Registry manages solver backend registration and lookup.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]BackendEntry
	logger   *slog.Logger
}

// BackendEntry holds a registered backend and its metadata.
type BackendEntry struct {
	Backend  sdk.Backend
	Factory  sdk.BackendFactory
	Manifest *Manifest
	Status   BackendStatus
	Error    error
	Builtin  bool
}

// BackendStatus represents the current state of a backend.
type BackendStatus string

const (
	StatusUnloaded BackendStatus = "unloaded"
	StatusLoading  BackendStatus = "loading"
	StatusReady    BackendStatus = "ready"
	StatusFailed   BackendStatus = "failed"
	StatusShutdown BackendStatus = "shutdown"
)

// NewRegistry creates a new solver backend registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backends: make(map[string]BackendEntry),
		logger:   logger,
	}
}

// RegisterBuiltin registers a built-in backend.
func (r *Registry) RegisterBuiltin(backend sdk.Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadata := backend.Metadata()
	if metadata.ID == "" {
		return fmt.Errorf("backend ID is required")
	}

	if _, exists := r.backends[metadata.ID]; exists {
		return sdk.ErrBackendAlreadyExists
	}

	r.backends[metadata.ID] = BackendEntry{
		Backend: backend,
		Status:  StatusReady,
		Builtin: true,
		Manifest: &Manifest{
			ID:            metadata.ID,
			Name:          metadata.Name,
			Version:       metadata.Version,
			Kind:          string(backend.Kind()),
			Author:        metadata.Author,
			Description:   metadata.Description,
			License:       metadata.License,
			Homepage:      metadata.Homepage,
			MinAPIVersion: metadata.MinAPIVersion,
		},
	}

	r.logger.Info("registered built-in solver backend",
		"backend_id", metadata.ID,
		"kind", backend.Kind(),
	)

	return nil
}

// RegisterFactory registers a backend factory for lazy loading (used for
// the pluggable external backend dispensed over grpc).
func (r *Registry) RegisterFactory(id string, factory sdk.BackendFactory, manifest *Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		return fmt.Errorf("backend ID is required")
	}

	if _, exists := r.backends[id]; exists {
		return sdk.ErrBackendAlreadyExists
	}

	r.backends[id] = BackendEntry{
		Factory:  factory,
		Manifest: manifest,
		Status:   StatusUnloaded,
	}

	r.logger.Info("registered solver backend factory", "backend_id", id)

	return nil
}

// Get returns a backend by ID, loading it via its factory if necessary.
func (r *Registry) Get(ctx context.Context, id string) (sdk.Backend, error) {
	r.mu.RLock()
	entry, exists := r.backends[id]
	r.mu.RUnlock()

	if !exists {
		return nil, sdk.ErrBackendNotFound
	}

	if entry.Status == StatusReady && entry.Backend != nil {
		return entry.Backend, nil
	}

	if entry.Status == StatusFailed {
		return nil, entry.Error
	}

	if entry.Status == StatusUnloaded && entry.Factory != nil {
		return r.loadBackend(ctx, id)
	}

	return nil, fmt.Errorf("backend %s is in unexpected state: %s", id, entry.Status)
}

func (r *Registry) loadBackend(ctx context.Context, id string) (sdk.Backend, error) {
	r.mu.Lock()
	entry := r.backends[id]
	entry.Status = StatusLoading
	r.backends[id] = entry
	r.mu.Unlock()

	r.logger.Info("loading solver backend", "backend_id", id)

	backend, err := entry.Factory()
	if err != nil {
		r.mu.Lock()
		entry.Status = StatusFailed
		entry.Error = err
		r.backends[id] = entry
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to create backend %s: %w", id, err)
	}

	r.mu.Lock()
	entry.Backend = backend
	entry.Status = StatusReady
	entry.Error = nil
	r.backends[id] = entry
	r.mu.Unlock()

	r.logger.Info("solver backend loaded", "backend_id", id, "kind", backend.Kind())

	return backend, nil
}

// Unregister removes a backend from the registry. Builtin backends cannot
// be unregistered.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.backends[id]
	if !exists {
		return sdk.ErrBackendNotFound
	}

	if entry.Builtin {
		return fmt.Errorf("cannot unregister built-in backend %s", id)
	}

	delete(r.backends, id)
	r.logger.Info("unregistered solver backend", "backend_id", id)

	return nil
}

// List returns all registered backends.
func (r *Registry) List() []BackendEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]BackendEntry, 0, len(r.backends))
	for _, entry := range r.backends {
		entries = append(entries, entry)
	}
	return entries
}

// ListByKind returns all backends of a specific kind.
func (r *Registry) ListByKind(kind sdk.BackendKind) []BackendEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []BackendEntry
	for _, entry := range r.backends {
		if entry.Manifest != nil && entry.Manifest.Kind == string(kind) {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Has checks if a backend is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.backends[id]
	return exists
}

// Status returns the status of a backend.
func (r *Registry) Status(id string) (BackendStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.backends[id]
	if !exists {
		return "", sdk.ErrBackendNotFound
	}
	return entry.Status, nil
}

// ShutdownAll shuts down all loaded backends.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, entry := range r.backends {
		if entry.Backend != nil && entry.Status == StatusReady {
			r.logger.Info("shutting down solver backend", "backend_id", id)
			if err := entry.Backend.Shutdown(ctx); err != nil {
				r.logger.Error("failed to shutdown solver backend",
					"backend_id", id,
					"error", err,
				)
				errs = append(errs, fmt.Errorf("backend %s: %w", id, err))
			}
			entry.Status = StatusShutdown
			r.backends[id] = entry
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors shutting down backends: %v", errs)
	}
	return nil
}

// Count returns the number of registered backends.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.backends)
}

// GetMetadata returns metadata for a backend.
func (r *Registry) GetMetadata(id string) (*sdk.BackendMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.backends[id]
	if !exists {
		return nil, sdk.ErrBackendNotFound
	}

	if entry.Backend != nil {
		metadata := entry.Backend.Metadata()
		return &metadata, nil
	}

	if entry.Manifest != nil {
		return &sdk.BackendMetadata{
			ID:            entry.Manifest.ID,
			Name:          entry.Manifest.Name,
			Version:       entry.Manifest.Version,
			Author:        entry.Manifest.Author,
			Description:   entry.Manifest.Description,
			License:       entry.Manifest.License,
			Homepage:      entry.Manifest.Homepage,
			MinAPIVersion: entry.Manifest.MinAPIVersion,
		}, nil
	}

	return nil, fmt.Errorf("no metadata available for backend %s", id)
}

// HealthCheckAll runs health checks against every loaded backend
// concurrently, using errgroup for fan-out as the registry does not need
// to serialize independent backend health probes.
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]sdk.HealthStatus {
	r.mu.RLock()
	ids := make([]string, 0, len(r.backends))
	backends := make(map[string]sdk.Backend, len(r.backends))
	for id, entry := range r.backends {
		if entry.Backend != nil && entry.Status == StatusReady {
			ids = append(ids, id)
			backends[id] = entry.Backend
		}
	}
	r.mu.RUnlock()

	results := make(map[string]sdk.HealthStatus, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id, b := id, backends[id]
		g.Go(func() error {
			status := b.HealthCheck(gctx)
			mu.Lock()
			results[id] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
