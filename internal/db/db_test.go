// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"testing"
	"time"

	"github.com/toeirei/fintrack/internal/model"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	st, err := NewStoreFromDSN(model.DialectSQLite, dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st *SQLStore, email string) model.User {
	t.Helper()
	u := model.User{Email: email, Name: "Test User", CreatedAt: time.Now().UTC()}
	if err := st.CreateUser(&u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected assigned id after create")
	}
	return u
}

func TestMigrationsCreateEntityTables(t *testing.T) {
	st := newTestStore(t)

	for _, table := range []string{"users", "categories", "accounts", "transactions", "budgets", "goals", "bills", "products"} {
		var name string
		err := st.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	st := newTestStore(t)
	if err := RunMigrations(st.DB(), model.DialectSQLite); err != nil {
		t.Fatalf("re-running migrations should be a no-op: %v", err)
	}
}

func TestUserCRUD(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice@example.com")

	got, err := st.GetUser(u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got == nil || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	got.Name = "Alice"
	if err := st.UpdateUser(got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	again, err := st.GetUser(u.ID)
	if err != nil || again == nil || again.Name != "Alice" {
		t.Fatalf("update did not persist: %+v (%v)", again, err)
	}

	if err := st.DeleteUser(u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	gone, err := st.GetUser(u.ID)
	if err != nil {
		t.Fatalf("GetUser after delete failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected user to be deleted, still present: %+v", gone)
	}
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	st := newTestStore(t)
	u, err := st.GetUser(9999)
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil for missing user, got %+v", u)
	}
}

func TestDuplicateEmailMapped(t *testing.T) {
	st := newTestStore(t)
	seedUser(t, st, "dup@example.com")

	u := model.User{Email: "dup@example.com"}
	err := st.CreateUser(&u)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestTransactionOptionalCategory(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "tx@example.com")

	acc := model.Account{UserID: u.ID, Name: "Checking", Type: "checking", Currency: "EUR", Balance: 100_00, CreatedAt: time.Now().UTC()}
	if err := st.CreateAccount(&acc); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	tx := model.Transaction{
		UserID:     u.ID,
		AccountID:  acc.ID,
		Amount:     -42_50,
		Note:       "groceries",
		OccurredAt: time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := st.CreateTransaction(&tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	got, err := st.GetTransaction(tx.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTransaction failed: %+v (%v)", got, err)
	}
	if got.CategoryID != nil {
		t.Fatalf("expected nil category, got %v", *got.CategoryID)
	}
	if got.Amount != -42_50 {
		t.Fatalf("amount mismatch: %d", got.Amount)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestStore(t)
	u := seedUser(t, src, "snap@example.com")

	cat := model.Category{UserID: u.ID, Name: "Food", Kind: "expense", Color: "#aa0000"}
	if err := src.CreateCategory(&cat); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	acc := model.Account{UserID: u.ID, Name: "Main", Type: "checking", Currency: "EUR", CreatedAt: time.Now().UTC()}
	if err := src.CreateAccount(&acc); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	tx := model.Transaction{UserID: u.ID, AccountID: acc.ID, CategoryID: &cat.ID, Amount: 1234, OccurredAt: time.Now().UTC(), CreatedAt: time.Now().UTC()}
	if err := src.CreateTransaction(&tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	snap, err := src.ExportSnapshot()
	if err != nil {
		t.Fatalf("ExportSnapshot failed: %v", err)
	}
	if snap.TotalRecords() != 4 {
		t.Fatalf("expected 4 records in snapshot, got %d", snap.TotalRecords())
	}
	if snap.SchemaVersion != model.SnapshotSchemaVersion {
		t.Fatalf("unexpected schema version %d", snap.SchemaVersion)
	}

	dst := newTestStore(t)
	if err := dst.ImportSnapshot(snap); err != nil {
		t.Fatalf("ImportSnapshot failed: %v", err)
	}

	gotTx, err := dst.GetTransaction(tx.ID)
	if err != nil || gotTx == nil {
		t.Fatalf("transaction missing after import: %+v (%v)", gotTx, err)
	}
	if gotTx.CategoryID == nil || *gotTx.CategoryID != cat.ID {
		t.Fatalf("category reference lost: %+v", gotTx)
	}

	// Import wipes before writing: a second import must not duplicate.
	if err := dst.ImportSnapshot(snap); err != nil {
		t.Fatalf("second ImportSnapshot failed: %v", err)
	}
	users, err := dst.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user after re-import, got %d", len(users))
	}
}

func TestMapDBError(t *testing.T) {
	cases := []struct {
		msg  string
		dup  bool
	}{
		{"UNIQUE constraint failed: users.email", true},
		{"Error 1062: Duplicate entry", true},
		{"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)", true},
		{"connection refused", false},
	}
	for _, c := range cases {
		err := MapDBError(errors.New(c.msg))
		if got := errors.Is(err, ErrDuplicate); got != c.dup {
			t.Errorf("%q: duplicate=%v, want %v", c.msg, got, c.dup)
		}
	}
}
