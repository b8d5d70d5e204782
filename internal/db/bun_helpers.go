// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// ExecRaw executes a raw SQL statement using the provided Bun DB or transaction.
func ExecRaw(ctx context.Context, idb bun.IDB, query string, args ...interface{}) (sql.Result, error) {
	return idb.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the result into dest using Bun's RawQuery.Scan.
func QueryRawInto(ctx context.Context, idb bun.IDB, dest interface{}, query string, args ...interface{}) error {
	return idb.NewRaw(query, args...).Scan(ctx, dest)
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on error.
func WithTx(ctx context.Context, bdb *bun.DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	return bdb.RunInTx(ctx, nil, fn)
}

// Generic CRUD helpers shared by every entity. Each row type R carries the
// bun table mapping; conv translates between rows and the plain model type.

func listRows[R any, M any](idb bun.IDB, conv func(R) M) ([]M, error) {
	ctx := context.Background()
	var rows []R
	if err := idb.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(rows))
	for _, r := range rows {
		out = append(out, conv(r))
	}
	return out, nil
}

func getRow[R any, M any](idb bun.IDB, id int64, conv func(R) M) (*M, error) {
	ctx := context.Background()
	var row R
	err := idb.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := conv(row)
	return &m, nil
}

func insertRow[R any](idb bun.IDB, row *R) error {
	ctx := context.Background()
	_, err := idb.NewInsert().Model(row).Exec(ctx)
	return MapDBError(err)
}

func updateRow[R any](idb bun.IDB, row *R) error {
	ctx := context.Background()
	_, err := idb.NewUpdate().Model(row).WherePK().Exec(ctx)
	return MapDBError(err)
}

func deleteRow[R any](idb bun.IDB, id int64) error {
	ctx := context.Background()
	_, err := idb.NewDelete().Model((*R)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
