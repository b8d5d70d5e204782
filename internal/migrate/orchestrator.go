// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package migrate moves a complete dataset from one storage backend to
// another. A run probes the target, ensures its schema, extracts the source
// into a canonical snapshot and inserts it in foreign-key order, recording
// progress in the registry's migration log. Runs are best-effort, not
// two-phase: a failure leaves the target partially written but always leaves
// the log in a terminal state.
package migrate

import (
	"fmt"
	"sync"

	"github.com/toeirei/fintrack/internal/db"
	"github.com/toeirei/fintrack/internal/logging"
	"github.com/toeirei/fintrack/internal/model"
	"github.com/toeirei/fintrack/internal/probe"
	"github.com/toeirei/fintrack/internal/registry"
)

// Migrator coordinates migration runs. Concurrent runs against the same
// target config are serialized per target id; runs against different targets
// proceed in parallel.
type Migrator struct {
	reg       *registry.Registry
	extractor *Extractor

	probeFn registry.ProbeFunc

	mu      sync.Mutex
	targets map[int64]*sync.Mutex
}

// NewMigrator returns a migrator using reg for config lookup and run logs and
// selector for in-process extraction. A nil probeFn falls back to probe.Test.
func NewMigrator(reg *registry.Registry, selector *db.Selector, probeFn registry.ProbeFunc) *Migrator {
	if probeFn == nil {
		probeFn = probe.Test
	}
	return &Migrator{
		reg:       reg,
		extractor: NewExtractor(reg, selector),
		probeFn:   probeFn,
		targets:   make(map[int64]*sync.Mutex),
	}
}

// Migrate runs a full migration from the given source into the target config.
// fromConfigID nil means the in-process active backend. It returns the id of
// the migration log created for the run; the log is guaranteed to be in a
// terminal state when Migrate returns, whatever the outcome.
func (m *Migrator) Migrate(fromConfigID *int64, toConfigID int64) (int64, error) {
	to, err := m.reg.Get(toConfigID)
	if err != nil {
		return 0, err
	}
	if to.Provider == model.ProviderManagedREST {
		return 0, fmt.Errorf("%w: %q has no SQL write path", ErrMigrationTarget, to.Name)
	}
	dialect, ok := to.Provider.Dialect()
	if !ok {
		return 0, fmt.Errorf("%w: provider %q does not expose a SQL backend", ErrMigrationTarget, to.Provider)
	}

	log, err := m.reg.CreateMigrationLog(fromConfigID, toConfigID)
	if err != nil {
		return 0, err
	}

	lock := m.targetLock(toConfigID)
	lock.Lock()
	defer lock.Unlock()

	runErr := m.run(log.ID, to, dialect, fromConfigID)
	if runErr != nil {
		logging.Errorf("migrate: run %d failed: %v", log.ID, runErr)
		if err := m.reg.FailMigration(log.ID, runErr.Error()); err != nil {
			logging.Errorf("migrate: run %d could not be marked failed: %v", log.ID, err)
		}
		return log.ID, runErr
	}
	return log.ID, nil
}

func (m *Migrator) run(logID int64, to model.DatabaseConfig, dialect model.Dialect, fromConfigID *int64) error {
	if err := m.reg.MarkMigrationInProgress(logID); err != nil {
		return err
	}

	if res := m.probeFn(to); !res.Success {
		return fmt.Errorf("connection test failed for %q: %s", to.Name, res.Error)
	}

	dsn := to.DSN()
	if dsn == "" {
		return fmt.Errorf("%w: config %q has no usable connection parameters", ErrMigrationTarget, to.Name)
	}
	target, err := db.OpenSQL(dialect, dsn)
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer func() { _ = target.Close() }()

	if err := EnsureSchema(target, dialect); err != nil {
		return err
	}

	snap, err := m.extractor.Extract(fromConfigID)
	if err != nil {
		return err
	}
	logging.Infof("migrate: run %d extracted %d records for %q", logID, snap.TotalRecords(), to.Name)

	total, err := InsertSnapshot(target, dialect, snap)
	if err != nil {
		return err
	}
	if err := m.reg.CompleteMigration(logID, total); err != nil {
		return err
	}
	logging.Infof("migrate: run %d completed, %d records migrated", logID, total)
	return nil
}

func (m *Migrator) targetLock(id int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.targets[id]
	if !ok {
		l = &sync.Mutex{}
		m.targets[id] = l
	}
	return l
}
