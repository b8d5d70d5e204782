// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"strings"
	"testing"
	"time"
)

func TestProviderDialect(t *testing.T) {
	cases := []struct {
		provider Provider
		dialect  Dialect
		ok       bool
	}{
		{ProviderLocalFile, DialectSQLite, true},
		{ProviderPostgres, DialectPostgres, true},
		{ProviderManagedPostgres, DialectPostgres, true},
		{ProviderMySQL, DialectMySQL, true},
		{ProviderManagedMySQL, DialectMySQL, true},
		{ProviderManagedREST, "", false},
	}
	for _, c := range cases {
		d, ok := c.provider.Dialect()
		if d != c.dialect || ok != c.ok {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", c.provider, d, ok, c.dialect, c.ok)
		}
	}
}

func TestProviderValid(t *testing.T) {
	for _, p := range AllProviders {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if Provider("mongodb").Valid() {
		t.Errorf("expected unknown provider to be invalid")
	}
}

func TestDSNConnectionStringWins(t *testing.T) {
	cfg := DatabaseConfig{
		Provider:         ProviderPostgres,
		ConnectionString: "postgres://u:p@example:5432/money",
		Host:             "other-host",
	}
	if got := cfg.DSN(); got != "postgres://u:p@example:5432/money" {
		t.Fatalf("expected explicit connection string to win, got %q", got)
	}
}

func TestDSNPostgresAssembly(t *testing.T) {
	cfg := DatabaseConfig{
		Provider: ProviderPostgres,
		Host:     "db.internal",
		Username: "fin",
		Password: "s3cret",
		Database: "fintrack",
	}
	dsn := cfg.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Fatalf("unexpected scheme in %q", dsn)
	}
	if !strings.Contains(dsn, "db.internal:5432") {
		t.Fatalf("expected default port 5432 in %q", dsn)
	}
	if !strings.Contains(dsn, "/fintrack") {
		t.Fatalf("expected database path in %q", dsn)
	}
}

func TestDSNMySQLAssembly(t *testing.T) {
	cfg := DatabaseConfig{
		Provider: ProviderMySQL,
		Host:     "mysql.internal",
		Port:     3307,
		Username: "fin",
		Password: "pw",
		Database: "fintrack",
	}
	want := "fin:pw@tcp(mysql.internal:3307)/fintrack?parseTime=true"
	if got := cfg.DSN(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDSNEmptyWithoutHost(t *testing.T) {
	cfg := DatabaseConfig{Provider: ProviderPostgres, Username: "fin"}
	if got := cfg.DSN(); got != "" {
		t.Fatalf("expected empty DSN without host, got %q", got)
	}
}

func TestDSNRESTProviderEmpty(t *testing.T) {
	cfg := DatabaseConfig{Provider: ProviderManagedREST, Host: "api.example"}
	if got := cfg.DSN(); got != "" {
		t.Fatalf("REST providers have no SQL DSN, got %q", got)
	}
}

func TestSnapshotTotalRecords(t *testing.T) {
	snap := &Snapshot{
		Users:      []User{{}, {}},
		Categories: []Category{{}},
		Bills:      []Bill{{}, {}, {}},
	}
	if got := snap.TotalRecords(); got != 6 {
		t.Fatalf("got %d, want 6", got)
	}
}

func TestMigrationStatusTerminal(t *testing.T) {
	if MigrationPending.Terminal() || MigrationInProgress.Terminal() {
		t.Fatalf("pending/in_progress must not be terminal")
	}
	if !MigrationCompleted.Terminal() || !MigrationFailed.Terminal() {
		t.Fatalf("completed/failed must be terminal")
	}
}

func TestGoalDeadlineOptional(t *testing.T) {
	g := Goal{Name: "vacation"}
	if g.Deadline != nil {
		t.Fatalf("zero goal should have no deadline")
	}
	d := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	g.Deadline = &d
	if g.Deadline.IsZero() {
		t.Fatalf("deadline should round-trip")
	}
}
