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
	"github.com/toeirei/fintrack/internal/registry"
)

// Extractor reads the full dataset from a migration source into a snapshot.
// Three source kinds exist: nil (the in-process active backend), a SQL config
// (read over a fresh short-lived connection) and a managed REST config (read
// through its registered external backend). Extraction never writes.
type Extractor struct {
	reg      *registry.Registry
	selector *db.Selector
}

// NewExtractor returns an extractor resolving configs through reg and the
// in-process source through selector.
func NewExtractor(reg *registry.Registry, selector *db.Selector) *Extractor {
	return &Extractor{reg: reg, selector: selector}
}

// Extract reads the source dataset. fromConfigID nil means the in-process
// active backend. All failures wrap ErrExtractionFailed.
func (e *Extractor) Extract(fromConfigID *int64) (*model.Snapshot, error) {
	snap, err := e.extract(fromConfigID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return snap, nil
}

func (e *Extractor) extract(fromConfigID *int64) (*model.Snapshot, error) {
	if fromConfigID == nil {
		st, err := e.selector.Store()
		if err != nil {
			return nil, err
		}
		return st.ExportSnapshot()
	}

	cfg, err := e.reg.Get(*fromConfigID)
	if err != nil {
		return nil, err
	}

	if cfg.Provider == model.ProviderManagedREST {
		backend, ok := db.ExternalBackendFor(cfg.ID)
		if !ok {
			return nil, fmt.Errorf("no external backend registered for config %q", cfg.Name)
		}
		return backend.ExportSnapshot()
	}

	dialect, ok := cfg.Provider.Dialect()
	if !ok {
		return nil, fmt.Errorf("provider %q does not expose a SQL backend", cfg.Provider)
	}
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("config %q has no usable connection parameters", cfg.Name)
	}
	sqlDB, err := db.OpenSQL(dialect, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sqlDB.Close() }()

	return readSnapshot(sqlDB)
}

// readSnapshot pulls every entity table in full over a raw connection. Row
// values are decoded liberally so the same code serves all three dialects.
func readSnapshot(sqlDB *sql.DB) (*model.Snapshot, error) {
	snap := &model.Snapshot{SchemaVersion: model.SnapshotSchemaVersion}

	if err := scanTable(sqlDB, "users", func(v []any) error {
		createdAt, err := decodeTime(v[4])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		snap.Users = append(snap.Users, model.User{
			ID:           id,
			Email:        decodeString(v[1]),
			Name:         decodeString(v[2]),
			PasswordHash: decodeString(v[3]),
			CreatedAt:    createdAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "categories", func(v []any) error {
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		snap.Categories = append(snap.Categories, model.Category{
			ID:     id,
			UserID: userID,
			Name:   decodeString(v[2]),
			Kind:   decodeString(v[3]),
			Color:  decodeString(v[4]),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "accounts", func(v []any) error {
		createdAt, err := decodeTime(v[6])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		balance, _ := decodeInt64(v[5])
		snap.Accounts = append(snap.Accounts, model.Account{
			ID:        id,
			UserID:    userID,
			Name:      decodeString(v[2]),
			Type:      decodeString(v[3]),
			Currency:  decodeString(v[4]),
			Balance:   balance,
			CreatedAt: createdAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "transactions", func(v []any) error {
		occurredAt, err := decodeTime(v[6])
		if err != nil {
			return err
		}
		createdAt, err := decodeTime(v[7])
		if err != nil {
			return err
		}
		categoryID, err := decodeNullInt64(v[3])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		accountID, _ := decodeInt64(v[2])
		amount, _ := decodeInt64(v[4])
		snap.Transactions = append(snap.Transactions, model.Transaction{
			ID:         id,
			UserID:     userID,
			AccountID:  accountID,
			CategoryID: categoryID,
			Amount:     amount,
			Note:       decodeString(v[5]),
			OccurredAt: occurredAt,
			CreatedAt:  createdAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "budgets", func(v []any) error {
		startsAt, err := decodeTime(v[6])
		if err != nil {
			return err
		}
		accountID, err := decodeNullInt64(v[3])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		categoryID, _ := decodeInt64(v[2])
		amount, _ := decodeInt64(v[4])
		snap.Budgets = append(snap.Budgets, model.Budget{
			ID:         id,
			UserID:     userID,
			CategoryID: categoryID,
			AccountID:  accountID,
			Amount:     amount,
			Period:     decodeString(v[5]),
			StartsAt:   startsAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "goals", func(v []any) error {
		deadline, err := decodeNullTime(v[5])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		target, _ := decodeInt64(v[3])
		saved, _ := decodeInt64(v[4])
		snap.Goals = append(snap.Goals, model.Goal{
			ID:           id,
			UserID:       userID,
			Name:         decodeString(v[2]),
			TargetAmount: target,
			SavedAmount:  saved,
			Deadline:     deadline,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "bills", func(v []any) error {
		dueDate, err := decodeTime(v[6])
		if err != nil {
			return err
		}
		isPaid, err := decodeBool(v[7])
		if err != nil {
			return err
		}
		categoryID, err := decodeNullInt64(v[2])
		if err != nil {
			return err
		}
		accountID, err := decodeNullInt64(v[3])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		amount, _ := decodeInt64(v[5])
		snap.Bills = append(snap.Bills, model.Bill{
			ID:         id,
			UserID:     userID,
			CategoryID: categoryID,
			AccountID:  accountID,
			Name:       decodeString(v[4]),
			Amount:     amount,
			DueDate:    dueDate,
			IsPaid:     isPaid,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanTable(sqlDB, "products", func(v []any) error {
		createdAt, err := decodeTime(v[6])
		if err != nil {
			return err
		}
		purchased, err := decodeBool(v[5])
		if err != nil {
			return err
		}
		id, _ := decodeInt64(v[0])
		userID, _ := decodeInt64(v[1])
		price, _ := decodeInt64(v[3])
		snap.Products = append(snap.Products, model.Product{
			ID:        id,
			UserID:    userID,
			Name:      decodeString(v[2]),
			Price:     price,
			URL:       decodeString(v[4]),
			Purchased: purchased,
			CreatedAt: createdAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// scanTable reads every row of a table with the fixed column list and hands
// the raw values to fn.
func scanTable(sqlDB *sql.DB, table string, fn func(vals []any) error) error {
	cols := tableColumns[table]
	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + table
	rows, err := sqlDB.Query(query)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		if err := fn(vals); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	return nil
}
