// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"errors"
	"testing"

	"github.com/toeirei/fintrack/internal/model"
)

func TestMigrationLifecycle(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	from, _ := r.Add(pgConfig("source"))
	to, _ := r.Add(pgConfig("target"))

	log, err := r.CreateMigrationLog(&from.ID, to.ID)
	if err != nil {
		t.Fatalf("CreateMigrationLog failed: %v", err)
	}
	if log.Status != model.MigrationPending {
		t.Fatalf("new runs start pending, got %s", log.Status)
	}
	if log.FromProvider == nil || *log.FromProvider != from.Provider {
		t.Fatalf("source provider not recorded: %+v", log)
	}
	if log.StartedAt.IsZero() {
		t.Fatalf("StartedAt not set")
	}

	if err := r.MarkMigrationInProgress(log.ID); err != nil {
		t.Fatalf("MarkMigrationInProgress failed: %v", err)
	}
	if err := r.AddMigrationRecords(log.ID, 5); err != nil {
		t.Fatalf("AddMigrationRecords failed: %v", err)
	}
	if err := r.CompleteMigration(log.ID, 8); err != nil {
		t.Fatalf("CompleteMigration failed: %v", err)
	}

	final, err := r.GetMigration(log.ID)
	if err != nil {
		t.Fatalf("GetMigration failed: %v", err)
	}
	if final.Status != model.MigrationCompleted || final.RecordsMigrated != 8 {
		t.Fatalf("unexpected final state: %+v", final)
	}
	if final.CompletedAt == nil {
		t.Fatalf("CompletedAt not set on completion")
	}
}

func TestMigrationFromActiveBackendHasNoSourceConfig(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	to, _ := r.Add(pgConfig("target"))

	log, err := r.CreateMigrationLog(nil, to.ID)
	if err != nil {
		t.Fatalf("CreateMigrationLog failed: %v", err)
	}
	if log.FromProvider != nil || log.FromConfigID != nil {
		t.Fatalf("in-process source must have nil provenance: %+v", log)
	}
}

func TestFailMigrationClearsRecordCount(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	to, _ := r.Add(pgConfig("target"))
	log, _ := r.CreateMigrationLog(nil, to.ID)
	_ = r.MarkMigrationInProgress(log.ID)
	_ = r.AddMigrationRecords(log.ID, 3)

	if err := r.FailMigration(log.ID, "insert failed for accounts: disk full"); err != nil {
		t.Fatalf("FailMigration failed: %v", err)
	}
	final, _ := r.GetMigration(log.ID)
	if final.Status != model.MigrationFailed {
		t.Fatalf("expected failed status, got %s", final.Status)
	}
	if final.RecordsMigrated != 0 {
		t.Fatalf("failed runs report no partial counts, got %d", final.RecordsMigrated)
	}
	if final.ErrorMessage == "" || final.CompletedAt == nil {
		t.Fatalf("failure details missing: %+v", final)
	}
}

func TestTerminalRunsAreImmutable(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	to, _ := r.Add(pgConfig("target"))
	log, _ := r.CreateMigrationLog(nil, to.ID)
	_ = r.MarkMigrationInProgress(log.ID)
	_ = r.CompleteMigration(log.ID, 10)

	if err := r.FailMigration(log.ID, "late failure"); err == nil {
		t.Fatalf("completed runs must not transition to failed")
	}
	if err := r.AddMigrationRecords(log.ID, 1); err == nil {
		t.Fatalf("completed runs must not accept record updates")
	}
	final, _ := r.GetMigration(log.ID)
	if final.Status != model.MigrationCompleted || final.RecordsMigrated != 10 {
		t.Fatalf("terminal state mutated: %+v", final)
	}
}

func TestMarkInProgressRequiresPending(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	to, _ := r.Add(pgConfig("target"))
	log, _ := r.CreateMigrationLog(nil, to.ID)
	_ = r.MarkMigrationInProgress(log.ID)

	if err := r.MarkMigrationInProgress(log.ID); err == nil {
		t.Fatalf("double start must fail")
	}
}

func TestCreateMigrationLogUnknownTarget(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	if _, err := r.CreateMigrationLog(nil, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMigrationsOrdered(t *testing.T) {
	fp := &fakeProbe{}
	r := newTestRegistry(fp)
	to, _ := r.Add(pgConfig("target"))
	for i := 0; i < 3; i++ {
		if _, err := r.CreateMigrationLog(nil, to.ID); err != nil {
			t.Fatalf("CreateMigrationLog failed: %v", err)
		}
	}
	logs := r.ListMigrations()
	if len(logs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i-1].ID >= logs[i].ID {
			t.Fatalf("runs not ordered by id: %+v", logs)
		}
	}
}
