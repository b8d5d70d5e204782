// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/toeirei/fintrack/internal/logging"
	"github.com/toeirei/fintrack/internal/model"
	"github.com/toeirei/fintrack/util/slicest"
)

// InsertSnapshot writes a snapshot into the target in foreign-key order:
// users, categories, accounts, transactions, then the remaining collections.
// Source ids are preserved verbatim so references stay intact. Empty
// collections are skipped. A failure on any collection aborts before the
// remaining ones are touched and reports the collection through InsertError.
// Returns the number of records written.
func InsertSnapshot(sqlDB *sql.DB, dialect model.Dialect, snap *model.Snapshot) (int, error) {
	batches := map[string][][]any{
		"users":        valueRows(dialect, snap.Users, userValues),
		"categories":   valueRows(dialect, snap.Categories, categoryValues),
		"accounts":     valueRows(dialect, snap.Accounts, accountValues),
		"transactions": valueRows(dialect, snap.Transactions, transactionValues),
		"budgets":      valueRows(dialect, snap.Budgets, budgetValues),
		"goals":        valueRows(dialect, snap.Goals, goalValues),
		"bills":        valueRows(dialect, snap.Bills, billValues),
		"products":     valueRows(dialect, snap.Products, productValues),
	}

	total := 0
	for _, table := range insertOrder {
		rows := batches[table]
		if len(rows) == 0 {
			continue
		}
		n, err := insertCollection(sqlDB, dialect, table, rows)
		total += n
		if err != nil {
			return total, &InsertError{Collection: table, Err: err}
		}
		logging.Debugf("migrate: inserted %d rows into %s", n, table)
	}
	return total, nil
}

func valueRows[T any](dialect model.Dialect, items []T, build func(model.Dialect, T) []any) [][]any {
	return slicest.Map(items, func(it T) []any { return build(dialect, it) })
}

// insertCollection writes one table's rows. Server dialects get a single
// multi-row statement; the local-file dialect reuses one prepared single-row
// statement, which is just as fast there and keeps statements small.
func insertCollection(sqlDB *sql.DB, dialect model.Dialect, table string, rows [][]any) (int, error) {
	cols := tableColumns[table]

	if dialect == model.DialectSQLite {
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table, strings.Join(cols, ", "), placeholderRow(dialect, len(cols), 0))
		stmt, err := sqlDB.Prepare(query)
		if err != nil {
			return 0, err
		}
		defer func() { _ = stmt.Close() }()
		for i, row := range rows {
			if _, err := stmt.Exec(row...); err != nil {
				return i, err
			}
		}
		return len(rows), nil
	}

	groups := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		groups[i] = placeholderRow(dialect, len(cols), i*len(cols))
		args = append(args, row...)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(cols, ", "), strings.Join(groups, ", "))
	if _, err := sqlDB.Exec(query, args...); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// placeholderRow renders one parenthesized placeholder group. offset is the
// number of placeholders already emitted, which only matters for the
// positional Postgres style.
func placeholderRow(dialect model.Dialect, ncols, offset int) string {
	parts := make([]string, ncols)
	for i := 0; i < ncols; i++ {
		if dialect == model.DialectPostgres {
			parts[i] = fmt.Sprintf("$%d", offset+i+1)
		} else {
			parts[i] = "?"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
