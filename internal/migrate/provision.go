// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/toeirei/fintrack/internal/db"
	"github.com/toeirei/fintrack/internal/model"
)

// EnsureSchema makes sure the target can receive the entity tables before any
// data flows. For the local-file dialect the embedded migrations are applied
// (idempotent, so re-running against a provisioned file is a no-op). Server
// dialects are verification-only: managed providers provision schema through
// their own tooling and often withhold DDL rights from the credentials used
// here, so we check information_schema for the expected tables and fail with
// the missing ones listed. All failures wrap ErrProvisioningFailed.
func EnsureSchema(sqlDB *sql.DB, dialect model.Dialect) error {
	if dialect == model.DialectSQLite {
		if err := db.RunMigrations(sqlDB, dialect); err != nil {
			return fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
		}
		return nil
	}
	if err := verifyTables(sqlDB, dialect); err != nil {
		return fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}
	return nil
}

func verifyTables(sqlDB *sql.DB, dialect model.Dialect) error {
	var query string
	switch dialect {
	case model.DialectPostgres:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`
	case model.DialectMySQL:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()`
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	rows, err := sqlDB.Query(query)
	if err != nil {
		return fmt.Errorf("read information_schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range insertOrder {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}
