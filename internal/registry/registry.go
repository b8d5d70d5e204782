// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package registry keeps the catalog of named database configurations and
// the history of migration runs. It owns the single "active" pointer: the
// at-most-one-active invariant is enforced here and nowhere else.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/toeirei/fintrack/internal/logging"
	"github.com/toeirei/fintrack/internal/model"
	"github.com/toeirei/fintrack/internal/probe"
)

// ProbeFunc performs a liveness check for a config. Defaults to probe.Test;
// tests substitute instrumented fakes.
type ProbeFunc func(model.DatabaseConfig) probe.Result

// Registry is the in-memory catalog of database configs and migration logs.
// All access goes through its mutex; the active pointer is flipped as a
// single clear-all-then-set-one step under that lock.
type Registry struct {
	mu      sync.RWMutex
	configs map[int64]*model.DatabaseConfig
	logs    map[int64]*model.MigrationLog

	nextConfigID int64
	nextLogID    int64

	probe ProbeFunc
	now   func() time.Time
}

// New returns an empty registry probing through probeFn. A nil probeFn
// falls back to probe.Test.
func New(probeFn ProbeFunc) *Registry {
	if probeFn == nil {
		probeFn = probe.Test
	}
	return &Registry{
		configs: make(map[int64]*model.DatabaseConfig),
		logs:    make(map[int64]*model.MigrationLog),
		probe:   probeFn,
		now:     time.Now,
	}
}

// ConfigPatch carries partial updates for a config. Nil fields are left
// untouched.
type ConfigPatch struct {
	Name             *string
	Provider         *model.Provider
	ConnectionString *string
	Host             *string
	Port             *int
	Username         *string
	Password         *string
	Database         *string
}

// Add registers a new config. The connection is probed best-effort: a config
// whose target is momentarily unreachable is still stored, with
// IsConnected=false and a warning. New configs are never active.
func (r *Registry) Add(cfg model.DatabaseConfig) (model.DatabaseConfig, error) {
	if !cfg.Provider.Valid() {
		return model.DatabaseConfig{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	res := r.probe(cfg)
	now := r.now()
	cfg.IsConnected = res.Success
	cfg.LastConnectionTest = now
	if !res.Success {
		logging.Warnf("registry: config %q registered but unreachable: %s", cfg.Name, res.Error)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextConfigID++
	cfg.ID = r.nextConfigID
	cfg.IsActive = false
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	stored := cfg
	r.configs[cfg.ID] = &stored
	return cfg, nil
}

// Update applies a patch to an existing config. If the patch changes the
// effective connection string, the new target is probed synchronously and
// the update is rejected when the probe fails: changing a working config
// must not silently leave it broken. (Add is deliberately laxer.)
func (r *Registry) Update(id int64, patch ConfigPatch) (model.DatabaseConfig, error) {
	r.mu.Lock()
	current, ok := r.configs[id]
	if !ok {
		r.mu.Unlock()
		return model.DatabaseConfig{}, fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	updated := *current
	r.mu.Unlock()

	applyPatch(&updated, patch)

	if updated.DSN() != current.DSN() {
		res := r.probe(updated)
		if !res.Success {
			return model.DatabaseConfig{}, fmt.Errorf("connection test failed for %q: %s", updated.Name, res.Error)
		}
		updated.IsConnected = true
		updated.LastConnectionTest = r.now()
	}
	updated.UpdatedAt = r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[id]; !ok {
		return model.DatabaseConfig{}, fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	stored := updated
	r.configs[id] = &stored
	return updated, nil
}

func applyPatch(cfg *model.DatabaseConfig, patch ConfigPatch) {
	if patch.Name != nil {
		cfg.Name = *patch.Name
	}
	if patch.Provider != nil {
		cfg.Provider = *patch.Provider
	}
	if patch.ConnectionString != nil {
		cfg.ConnectionString = *patch.ConnectionString
	}
	if patch.Host != nil {
		cfg.Host = *patch.Host
	}
	if patch.Port != nil {
		cfg.Port = *patch.Port
	}
	if patch.Username != nil {
		cfg.Username = *patch.Username
	}
	if patch.Password != nil {
		cfg.Password = *patch.Password
	}
	if patch.Database != nil {
		cfg.Database = *patch.Database
	}
}

// Remove deletes a config. The active config cannot be removed.
func (r *Registry) Remove(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok {
		return fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	if cfg.IsActive {
		return fmt.Errorf("config %q: %w", cfg.Name, ErrActiveConfigInUse)
	}
	delete(r.configs, id)
	return nil
}

// List returns all configs ordered by id.
func (r *Registry) List() []model.DatabaseConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.DatabaseConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		out = append(out, *cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the config with the given id.
func (r *Registry) Get(id int64) (model.DatabaseConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	if !ok {
		return model.DatabaseConfig{}, fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	return *cfg, nil
}

// SetActive makes the given config the active one. A target that is not
// known-connected is re-probed first; a failing probe fails the whole
// operation and leaves the previous active pointer untouched.
func (r *Registry) SetActive(id int64) (model.DatabaseConfig, error) {
	r.mu.RLock()
	current, ok := r.configs[id]
	if !ok {
		r.mu.RUnlock()
		return model.DatabaseConfig{}, fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	candidate := *current
	r.mu.RUnlock()

	probed := false
	if !candidate.IsConnected {
		res := r.probe(candidate)
		if !res.Success {
			return model.DatabaseConfig{}, fmt.Errorf("%w: %s", ErrCannotActivate, res.Error)
		}
		probed = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.configs[id]
	if !ok {
		return model.DatabaseConfig{}, fmt.Errorf("config %d: %w", id, ErrNotFound)
	}
	for _, cfg := range r.configs {
		cfg.IsActive = false
	}
	target.IsActive = true
	if probed {
		target.IsConnected = true
		target.LastConnectionTest = r.now()
	}
	target.UpdatedAt = r.now()
	return *target, nil
}

// ActiveConfig returns a copy of the active config, or nil when none is
// active. Implements db.ActiveConfigSource.
func (r *Registry) ActiveConfig() *model.DatabaseConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cfg := range r.configs {
		if cfg.IsActive {
			c := *cfg
			return &c
		}
	}
	return nil
}
