// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"fmt"
	"sort"

	"github.com/toeirei/fintrack/internal/model"
)

// Migration logs are created when a run starts and retained indefinitely.
// Only the orchestrator that owns a run mutates its log, and only through
// the methods below; a log in a terminal state is immutable.

// CreateMigrationLog records the start of a migration run. fromConfigID nil
// means the source is the in-process dataset.
func (r *Registry) CreateMigrationLog(fromConfigID *int64, toConfigID int64) (model.MigrationLog, error) {
	var fromProvider *model.Provider
	if fromConfigID != nil {
		from, err := r.Get(*fromConfigID)
		if err != nil {
			return model.MigrationLog{}, err
		}
		p := from.Provider
		fromProvider = &p
	}
	to, err := r.Get(toConfigID)
	if err != nil {
		return model.MigrationLog{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLogID++
	log := &model.MigrationLog{
		ID:           r.nextLogID,
		FromProvider: fromProvider,
		FromConfigID: fromConfigID,
		ToProvider:   to.Provider,
		ToConfigID:   toConfigID,
		Status:       model.MigrationPending,
		StartedAt:    r.now(),
	}
	r.logs[log.ID] = log
	return *log, nil
}

// MarkMigrationInProgress transitions a pending run to in_progress.
func (r *Registry) MarkMigrationInProgress(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("migration %d: %w", id, ErrNotFound)
	}
	if log.Status != model.MigrationPending {
		return fmt.Errorf("migration %d: cannot start from state %q", id, log.Status)
	}
	log.Status = model.MigrationInProgress
	return nil
}

// AddMigrationRecords increases the migrated-record counter. The count only
// ever grows.
func (r *Registry) AddMigrationRecords(id int64, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("migration %d: %w", id, ErrNotFound)
	}
	if log.Status.Terminal() {
		return fmt.Errorf("migration %d: already %s", id, log.Status)
	}
	if n > 0 {
		log.RecordsMigrated += n
	}
	return nil
}

// CompleteMigration marks a run as completed with its final record total.
func (r *Registry) CompleteMigration(id int64, records int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("migration %d: %w", id, ErrNotFound)
	}
	if log.Status.Terminal() {
		return fmt.Errorf("migration %d: already %s", id, log.Status)
	}
	now := r.now()
	log.Status = model.MigrationCompleted
	log.RecordsMigrated = records
	log.CompletedAt = &now
	return nil
}

// FailMigration marks a run as failed with the underlying cause. Failed
// runs report no partial record count.
func (r *Registry) FailMigration(id int64, cause string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return fmt.Errorf("migration %d: %w", id, ErrNotFound)
	}
	if log.Status.Terminal() {
		return fmt.Errorf("migration %d: already %s", id, log.Status)
	}
	now := r.now()
	log.Status = model.MigrationFailed
	log.ErrorMessage = cause
	log.RecordsMigrated = 0
	log.CompletedAt = &now
	return nil
}

// ListMigrations returns all recorded runs ordered by id.
func (r *Registry) ListMigrations() []model.MigrationLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.MigrationLog, 0, len(r.logs))
	for _, log := range r.logs {
		out = append(out, *log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetMigration returns the run with the given id.
func (r *Registry) GetMigration(id int64) (model.MigrationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	log, ok := r.logs[id]
	if !ok {
		return model.MigrationLog{}, fmt.Errorf("migration %d: %w", id, ErrNotFound)
	}
	return *log, nil
}
