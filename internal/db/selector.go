// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/toeirei/fintrack/internal/model"
)

// ActiveConfigSource yields the currently active database config, if any.
// The registry implements this; tests substitute fakes.
type ActiveConfigSource interface {
	ActiveConfig() *model.DatabaseConfig
}

var memorySeq atomic.Int64

// Selector resolves the concrete backend behind the Store contract. The
// resolution happens lazily, once, on first access, and is cached until an
// explicit Reset (which a successful activation triggers). Passing the
// selector around as an explicit handle keeps the active backend out of
// process-global state and testable in isolation.
//
// Resolution order: a force-in-memory override, then a forced config from a
// one-time setup flow, then the registry's active config (unless it is the
// excluded default provider), then an ephemeral in-memory fallback.
type Selector struct {
	mu     sync.Mutex
	source ActiveConfigSource
	store  Store

	forceMemory bool
	forced      *model.DatabaseConfig
	// exclude marks the provider treated as "not configured yet" when it
	// shows up as the active config: the built-in local file default.
	exclude model.Provider
}

// NewSelector returns a selector reading the active config from source.
// source may be nil when no registry exists yet.
func NewSelector(source ActiveConfigSource) *Selector {
	return &Selector{source: source, exclude: model.ProviderLocalFile}
}

// ForceMemory pins the selector to an ephemeral in-memory backend. Used by
// tests and by the setup flow before any config exists.
func (s *Selector) ForceMemory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceMemory = true
	s.closeLocked()
}

// ForceConfig pins the selector to a specific config, bypassing the
// registry's active pointer. Used by the one-time setup flow.
func (s *Selector) ForceConfig(cfg model.DatabaseConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = &cfg
	s.closeLocked()
}

// Store returns the resolved backend, resolving it on first call.
func (s *Selector) Store() (Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	st, err := s.resolve()
	if err != nil {
		return nil, err
	}
	s.store = st
	return st, nil
}

// Reset drops the cached backend so the next access re-resolves. Called
// after a successful activation.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Selector) closeLocked() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
}

func (s *Selector) resolve() (Store, error) {
	if s.forceMemory {
		return s.openMemory()
	}
	if s.forced != nil {
		return s.openConfig(*s.forced)
	}
	if s.source != nil {
		if cfg := s.source.ActiveConfig(); cfg != nil && cfg.Provider != s.exclude {
			return s.openConfig(*cfg)
		}
	}
	return s.openMemory()
}

func (s *Selector) openConfig(cfg model.DatabaseConfig) (Store, error) {
	dialect, ok := cfg.Provider.Dialect()
	if !ok {
		return nil, fmt.Errorf("provider %q does not expose a SQL backend", cfg.Provider)
	}
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("config %q has no usable connection parameters", cfg.Name)
	}
	dbLogf("db: selector resolving %s (%s)", cfg.Name, dialect)
	return NewStoreFromDSN(dialect, dsn)
}

func (s *Selector) openMemory() (Store, error) {
	// A unique shared-cache name per resolution keeps ephemeral datasets
	// isolated from each other.
	dsn := fmt.Sprintf("file:fintrack_mem_%d?mode=memory&cache=shared", memorySeq.Add(1))
	dbLogf("db: selector falling back to in-memory backend (%s)", dsn)
	return NewStoreFromDSN(model.DialectSQLite, dsn)
}
