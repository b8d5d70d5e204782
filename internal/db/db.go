// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"context"

	"github.com/toeirei/fintrack/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	// SQL drivers required for integration tests and runtime.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	//go:embed migrations
	embeddedMigrations embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// DriverName maps a dialect to the registered database/sql driver name.
// The pgx stdlib wrapper registers itself as "pgx".
func DriverName(dialect model.Dialect) string {
	if dialect == model.DialectPostgres {
		return "pgx"
	}
	return string(dialect)
}

// OpenSQL opens a raw *sql.DB for the given dialect and DSN without pool
// tuning or schema setup. Used for short-lived connections (probes,
// maintenance, migration sources).
func OpenSQL(dialect model.Dialect, dsn string) (*sql.DB, error) {
	return sqlOpenFunc(DriverName(dialect), dsn)
}

// NewStoreFromDSN opens a connection pool for the given dialect and DSN, runs
// any pending schema migrations, and returns a Store backed by a long-lived
// *bun.DB. This hides *sql.DB usage from higher-level callers.
func NewStoreFromDSN(dialect model.Dialect, dsn string) (*SQLStore, error) {
	start := time.Now()
	sqlDB, err := sqlOpenFunc(DriverName(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Conservative pool defaults for small deployments; overridable via
	// environment variables for CI or production tuning.
	const (
		defaultMaxOpenConns    = 25
		defaultMaxIdleConns    = 25
		defaultConnMaxLifetime = 5 * time.Minute
	)

	maxOpen := defaultMaxOpenConns
	if v := os.Getenv("FINTRACK_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxOpen = n
		}
	}
	maxIdle := defaultMaxIdleConns
	if v := os.Getenv("FINTRACK_DB_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxIdle = n
		}
	}

	// In-memory SQLite databases are per-connection unless shared-cache is
	// used; force a single connection so schema changes stay visible.
	if dialect == model.DialectSQLite && strings.Contains(dsn, "memory") {
		maxOpen = 1
		maxIdle = 1
	}
	connMax := defaultConnMaxLifetime
	if v := os.Getenv("FINTRACK_DB_CONN_MAX_LIFETIME_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			connMax = time.Duration(n) * time.Second
		}
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)

	openDur := time.Since(start)
	dbLogf("db: opened %s driver in %s (conn max open=%d, maxLifetime=%s)", DriverName(dialect), openDur, maxOpen, connMax)

	migStart := time.Now()
	if err := RunMigrations(sqlDB, dialect); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	dbLogf("db: migrations for %s completed in %s", dialect, time.Since(migStart))

	return &SQLStore{db: sqlDB, bun: createBunDB(sqlDB, dialect), dialect: dialect}, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dialect.
// Centralizing construction keeps options consistent across stores.
func createBunDB(sqlDB *sql.DB, dialect model.Dialect) *bun.DB {
	switch dialect {
	case model.DialectPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case model.DialectMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// RunMigrations applies the embedded schema migrations for a dialect. Only
// the sqlite dialect ships migrations; server dialects are expected to have
// their schema provisioned out of band (managed providers often restrict DDL
// for the credentials available here), so a missing migrations directory is
// not an error.
func RunMigrations(db *sql.DB, dialect model.Dialect) error {
	start := time.Now()
	dbLogf("db: starting migrations for %s", dialect)
	migrationsPath := fmt.Sprintf("migrations/%s", dialect)

	entries, err := fs.ReadDir(embeddedMigrations, migrationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			dbLogf("db: no embedded migrations for %s", dialect)
			return nil
		}
		return fmt.Errorf("failed to read embedded migrations (%s): %w", migrationsPath, err)
	}

	var ups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if err := ensureSchemaMigrationsTable(db, dialect); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	for _, fname := range ups {
		version := strings.TrimSuffix(fname, ".up.sql")

		var exists int
		query := "SELECT 1 FROM schema_migrations WHERE version = ?"
		if dialect == model.DialectPostgres {
			query = "SELECT 1 FROM schema_migrations WHERE version = $1"
		}
		err := db.QueryRow(query, version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check migration version %s: %w", version, err)
		}

		data, err := embeddedMigrations.ReadFile(path.Join(migrationsPath, fname))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", fname, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", version, err)
		}
		if _, err := tx.Exec(string(data)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", version, err)
		}

		insertQuery := "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)"
		if dialect == model.DialectPostgres {
			insertQuery = "INSERT INTO schema_migrations(version, applied_at) VALUES($1, $2)"
		}
		if _, err := tx.Exec(insertQuery, version, time.Now()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to commit migration %s: %w", version, err)
		}
	}

	dbLogf("db: applied migrations for %s in %s", dialect, time.Since(start))
	return nil
}

// ensureSchemaMigrationsTable creates schema_migrations if missing. MySQL
// does not permit TEXT columns in a primary key without a length, so it gets
// a VARCHAR there.
func ensureSchemaMigrationsTable(db *sql.DB, dialect model.Dialect) error {
	ddl := `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP)`
	if dialect == model.DialectMySQL {
		ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) PRIMARY KEY, applied_at TIMESTAMP)`
	}
	_, err := db.Exec(ddl)
	return err
}

// RunDBMaintenance performs engine-specific maintenance tasks for the given
// dialect and DSN. For SQLite this runs PRAGMA optimize, VACUUM and a WAL
// checkpoint plus an integrity check. For Postgres it runs VACUUM ANALYZE.
// For MySQL it runs OPTIMIZE TABLE for all tables.
func RunDBMaintenance(dialect model.Dialect, dsn string) error {
	sqlDB, err := sqlOpenFunc(DriverName(dialect), dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for maintenance: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	// Small timeout so maintenance never blocks CI.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch dialect {
	case model.DialectSQLite:
		// PRAGMA optimize may be unsupported in some environments; non-fatal.
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			dbLogf("db: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := sqlDB.ExecContext(ctx, "VACUUM;"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = sqlDB.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
		var res string
		if row := sqlDB.QueryRowContext(ctx, "PRAGMA integrity_check;"); row != nil {
			_ = row.Scan(&res)
			if res != "ok" {
				return fmt.Errorf("sqlite integrity_check failed: %s", res)
			}
		}
	case model.DialectPostgres:
		if _, err := sqlDB.ExecContext(ctx, "VACUUM ANALYZE;"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case model.DialectMySQL:
		rows, err := sqlDB.QueryContext(ctx, "SHOW TABLES")
		if err != nil {
			return fmt.Errorf("mysql show tables failed: %w", err)
		}
		defer func() { _ = rows.Close() }()
		var table string
		var lastErr error
		for rows.Next() {
			if err := rows.Scan(&table); err != nil {
				return fmt.Errorf("mysql read table name failed: %w", err)
			}
			if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("OPTIMIZE TABLE %s", table)); err != nil {
				// Non-fatal per-table: remember last error and continue.
				dbLogf("db: mysql optimize table %s failed: %v", table, err)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
		}
	default:
		return fmt.Errorf("unsupported dialect for maintenance: %s", dialect)
	}
	return nil
}
