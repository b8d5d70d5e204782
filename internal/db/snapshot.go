// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/toeirei/fintrack/internal/model"
	"github.com/uptrace/bun"
)

// ExportSnapshot reads every entity collection into a canonical snapshot.
// A single transaction guarantees a consistent view of the dataset.
func (s *SQLStore) ExportSnapshot() (*model.Snapshot, error) {
	ctx := context.Background()
	var snap *model.Snapshot
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		snap = &model.Snapshot{SchemaVersion: model.SnapshotSchemaVersion}
		var err error
		if snap.Users, err = listRows(tx, userToModel); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if snap.Categories, err = listRows(tx, categoryToModel); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if snap.Accounts, err = listRows(tx, accountToModel); err != nil {
			return fmt.Errorf("accounts: %w", err)
		}
		if snap.Transactions, err = listRows(tx, transactionToModel); err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		if snap.Budgets, err = listRows(tx, budgetToModel); err != nil {
			return fmt.Errorf("budgets: %w", err)
		}
		if snap.Goals, err = listRows(tx, goalToModel); err != nil {
			return fmt.Errorf("goals: %w", err)
		}
		if snap.Bills, err = listRows(tx, billToModel); err != nil {
			return fmt.Errorf("bills: %w", err)
		}
		if snap.Products, err = listRows(tx, productToModel); err != nil {
			return fmt.Errorf("products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ImportSnapshot performs a full wipe-and-replace restore of the dataset
// within a single transaction. Source-side ids are preserved so foreign keys
// stay intact. Tables are cleared child-first and repopulated parent-first.
func (s *SQLStore) ImportSnapshot(snap *model.Snapshot) error {
	ctx := context.Background()
	return WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		tables := []string{"products", "bills", "goals", "budgets", "transactions", "accounts", "categories", "users"}
		for _, t := range tables {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}

		for _, u := range snap.Users {
			row := userToRow(u)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("users: %w", err)
			}
		}
		for _, c := range snap.Categories {
			row := categoryToRow(c)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("categories: %w", err)
			}
		}
		for _, a := range snap.Accounts {
			row := accountToRow(a)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("accounts: %w", err)
			}
		}
		for _, t := range snap.Transactions {
			row := transactionToRow(t)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("transactions: %w", err)
			}
		}
		for _, b := range snap.Budgets {
			row := budgetToRow(b)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("budgets: %w", err)
			}
		}
		for _, g := range snap.Goals {
			row := goalToRow(g)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("goals: %w", err)
			}
		}
		for _, b := range snap.Bills {
			row := billToRow(b)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("bills: %w", err)
			}
		}
		for _, p := range snap.Products {
			row := productToRow(p)
			if err := insertRow(tx, &row); err != nil {
				return fmt.Errorf("products: %w", err)
			}
		}
		return nil
	})
}
