// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"testing"

	"github.com/toeirei/fintrack/internal/model"
)

func TestStoredDatabaseRoundTrip(t *testing.T) {
	cfg := model.DatabaseConfig{
		Name:     "primary",
		Provider: model.ProviderPostgres,
		Host:     "db.internal",
		Port:     5433,
		Username: "fin",
		Password: "pw",
		Database: "fintrack",
		IsActive: true,
	}

	stored := StoredFromModel(cfg)
	if !stored.Active {
		t.Fatalf("active flag lost")
	}

	back := stored.ToModel()
	if back.Name != cfg.Name || back.Provider != cfg.Provider || back.Port != cfg.Port {
		t.Fatalf("round trip mangled config: %+v", back)
	}
	if back.DSN() != cfg.DSN() {
		t.Fatalf("DSN drifted: %q vs %q", back.DSN(), cfg.DSN())
	}
	// Ids are session-scoped and must not survive persistence.
	if back.ID != 0 {
		t.Fatalf("id must not be persisted, got %d", back.ID)
	}
}

func TestStoredDatabaseUnknownProviderSurfaces(t *testing.T) {
	stored := StoredDatabase{Name: "odd", Provider: "mongodb"}
	back := stored.ToModel()
	if back.Provider.Valid() {
		t.Fatalf("expected invalid provider to stay invalid for the registry to reject")
	}
}
