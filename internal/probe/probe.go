// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package probe checks liveness of configured database backends. A probe
// opens a short-lived connection, runs a no-op query and always releases the
// connection, whatever the outcome. Failure messages are normalized into a
// small taxonomy for display; callers must not branch on them.
package probe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/fintrack/internal/db"
	"github.com/toeirei/fintrack/internal/model"
)

// probeTimeout bounds the liveness check. It does not apply to bulk
// migration phases.
const probeTimeout = 5 * time.Second

const (
	// retryBaseDelay doubles each attempt up to retryMaxDelay.
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second
)

// Injection points for tests.
var (
	openFunc  = func(dialect model.Dialect, dsn string) (*sql.DB, error) { return db.OpenSQL(dialect, dsn) }
	sleepFunc = time.Sleep
)

// Result describes the outcome of a single liveness probe.
type Result struct {
	Success   bool
	Error     string
	LatencyMs int64
}

// Test probes the backend described by cfg. A config without connection
// parameters fails validation immediately, before any network I/O.
func Test(cfg model.DatabaseConfig) Result {
	if !cfg.Provider.Valid() {
		return Result{Error: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}

	if cfg.Provider == model.ProviderManagedREST {
		return testExternal(cfg)
	}

	dsn := cfg.DSN()
	if dsn == "" {
		return Result{Error: "Connection string is required"}
	}

	dialect, ok := cfg.Provider.Dialect()
	if !ok {
		return Result{Error: fmt.Sprintf("provider %q has no SQL dialect", cfg.Provider)}
	}

	start := time.Now()
	conn, err := openFunc(dialect, dsn)
	if err != nil {
		return Result{Error: classify(err)}
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return Result{Error: classify(err)}
	}
	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Result{Error: classify(err)}
	}

	return Result{Success: true, LatencyMs: time.Since(start).Milliseconds()}
}

// testExternal probes a managed REST backend through its registered client.
func testExternal(cfg model.DatabaseConfig) Result {
	backend, ok := db.ExternalBackendFor(cfg.ID)
	if !ok {
		return Result{Error: fmt.Sprintf("no client registered for %q", cfg.Name)}
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	start := time.Now()
	if err := backend.Ping(ctx); err != nil {
		return Result{Error: classify(err)}
	}
	return Result{Success: true, LatencyMs: time.Since(start).Milliseconds()}
}

// TestWithRetry probes with exponential backoff until one attempt succeeds
// or maxAttempts are exhausted, returning the last result. Validation
// failures are not retried; waiting will not make a missing connection
// string appear.
func TestWithRetry(cfg model.DatabaseConfig, maxAttempts int) Result {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var res Result
	delay := retryBaseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res = Test(cfg)
		if res.Success || res.Error == "Connection string is required" {
			return res
		}
		if attempt < maxAttempts {
			sleepFunc(delay)
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}
	}
	return res
}

// classify normalizes driver error text into a small taxonomy. Advisory
// only: the message quality matters, the category is never used for control
// flow.
func classify(err error) string {
	le := strings.ToLower(err.Error())
	switch {
	case strings.Contains(le, "password") || strings.Contains(le, "authentication") ||
		strings.Contains(le, "access denied") || strings.Contains(le, "28p01"):
		return fmt.Sprintf("authentication failed: %v", err)
	case strings.Contains(le, "no such host") || strings.Contains(le, "connection refused") ||
		strings.Contains(le, "unreachable") || strings.Contains(le, "name resolution"):
		return fmt.Sprintf("host unreachable: %v", err)
	case strings.Contains(le, "timeout") || strings.Contains(le, "deadline exceeded") ||
		strings.Contains(le, "i/o timeout"):
		return fmt.Sprintf("timeout: %v", err)
	default:
		return fmt.Sprintf("connection failed: %v", err)
	}
}
