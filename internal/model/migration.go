// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "time"

// MigrationStatus is the lifecycle state of one migration run.
// Transitions: pending -> in_progress -> completed | failed.
type MigrationStatus string

const (
	MigrationPending    MigrationStatus = "pending"
	MigrationInProgress MigrationStatus = "in_progress"
	MigrationCompleted  MigrationStatus = "completed"
	MigrationFailed     MigrationStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s MigrationStatus) Terminal() bool {
	return s == MigrationCompleted || s == MigrationFailed
}

// MigrationLog is the audit record of one migration run. It is created when
// the run starts, mutated only by the orchestrator that owns it, and retained
// in the registry indefinitely for later inspection.
type MigrationLog struct {
	ID int64

	// FromProvider is nil when the source is the application's current
	// in-process dataset rather than a registered config.
	FromProvider *Provider
	FromConfigID *int64
	ToProvider   Provider
	ToConfigID   int64

	Status      MigrationStatus
	StartedAt   time.Time
	CompletedAt *time.Time

	// RecordsMigrated is only meaningful as a final total once Status is
	// completed.
	RecordsMigrated int
	// ErrorMessage is set only when Status is failed.
	ErrorMessage string
}
