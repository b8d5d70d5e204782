// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"time"

	"github.com/toeirei/fintrack/internal/model"
	"github.com/uptrace/bun"
)

// Row models map the entity tables for Bun queries. They are kept separate
// from the model package so the plain structs stay free of database tags.

// UserRow maps the users table.
type UserRow struct {
	bun.BaseModel `bun:"table:users"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Email         string    `bun:"email"`
	Name          string    `bun:"name"`
	PasswordHash  string    `bun:"password_hash"`
	CreatedAt     time.Time `bun:"created_at"`
}

// CategoryRow maps the categories table.
type CategoryRow struct {
	bun.BaseModel `bun:"table:categories"`
	ID            int64  `bun:"id,pk,autoincrement"`
	UserID        int64  `bun:"user_id"`
	Name          string `bun:"name"`
	Kind          string `bun:"kind"`
	Color         string `bun:"color"`
}

// AccountRow maps the accounts table.
type AccountRow struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id"`
	Name          string    `bun:"name"`
	Type          string    `bun:"type"`
	Currency      string    `bun:"currency"`
	Balance       int64     `bun:"balance"`
	CreatedAt     time.Time `bun:"created_at"`
}

// TransactionRow maps the transactions table.
type TransactionRow struct {
	bun.BaseModel `bun:"table:transactions"`
	ID            int64         `bun:"id,pk,autoincrement"`
	UserID        int64         `bun:"user_id"`
	AccountID     int64         `bun:"account_id"`
	CategoryID    sql.NullInt64 `bun:"category_id"`
	Amount        int64         `bun:"amount"`
	Note          string        `bun:"note"`
	OccurredAt    time.Time     `bun:"occurred_at"`
	CreatedAt     time.Time     `bun:"created_at"`
}

// BudgetRow maps the budgets table.
type BudgetRow struct {
	bun.BaseModel `bun:"table:budgets"`
	ID            int64         `bun:"id,pk,autoincrement"`
	UserID        int64         `bun:"user_id"`
	CategoryID    int64         `bun:"category_id"`
	AccountID     sql.NullInt64 `bun:"account_id"`
	Amount        int64         `bun:"amount"`
	Period        string        `bun:"period"`
	StartsAt      time.Time     `bun:"starts_at"`
}

// GoalRow maps the goals table.
type GoalRow struct {
	bun.BaseModel `bun:"table:goals"`
	ID            int64        `bun:"id,pk,autoincrement"`
	UserID        int64        `bun:"user_id"`
	Name          string       `bun:"name"`
	TargetAmount  int64        `bun:"target_amount"`
	SavedAmount   int64        `bun:"saved_amount"`
	Deadline      sql.NullTime `bun:"deadline"`
}

// BillRow maps the bills table.
type BillRow struct {
	bun.BaseModel `bun:"table:bills"`
	ID            int64         `bun:"id,pk,autoincrement"`
	UserID        int64         `bun:"user_id"`
	CategoryID    sql.NullInt64 `bun:"category_id"`
	AccountID     sql.NullInt64 `bun:"account_id"`
	Name          string        `bun:"name"`
	Amount        int64         `bun:"amount"`
	DueDate       time.Time     `bun:"due_date"`
	IsPaid        bool          `bun:"is_paid"`
}

// ProductRow maps the products table.
type ProductRow struct {
	bun.BaseModel `bun:"table:products"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id"`
	Name          string    `bun:"name"`
	Price         int64     `bun:"price"`
	URL           string    `bun:"url"`
	Purchased     bool      `bun:"purchased"`
	CreatedAt     time.Time `bun:"created_at"`
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func userToRow(u model.User) UserRow {
	return UserRow{ID: u.ID, Email: u.Email, Name: u.Name, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
}

func userToModel(r UserRow) model.User {
	return model.User{ID: r.ID, Email: r.Email, Name: r.Name, PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt}
}

func categoryToRow(c model.Category) CategoryRow {
	return CategoryRow{ID: c.ID, UserID: c.UserID, Name: c.Name, Kind: c.Kind, Color: c.Color}
}

func categoryToModel(r CategoryRow) model.Category {
	return model.Category{ID: r.ID, UserID: r.UserID, Name: r.Name, Kind: r.Kind, Color: r.Color}
}

func accountToRow(a model.Account) AccountRow {
	return AccountRow{ID: a.ID, UserID: a.UserID, Name: a.Name, Type: a.Type, Currency: a.Currency, Balance: a.Balance, CreatedAt: a.CreatedAt}
}

func accountToModel(r AccountRow) model.Account {
	return model.Account{ID: r.ID, UserID: r.UserID, Name: r.Name, Type: r.Type, Currency: r.Currency, Balance: r.Balance, CreatedAt: r.CreatedAt}
}

func transactionToRow(t model.Transaction) TransactionRow {
	return TransactionRow{ID: t.ID, UserID: t.UserID, AccountID: t.AccountID, CategoryID: nullInt64(t.CategoryID), Amount: t.Amount, Note: t.Note, OccurredAt: t.OccurredAt, CreatedAt: t.CreatedAt}
}

func transactionToModel(r TransactionRow) model.Transaction {
	return model.Transaction{ID: r.ID, UserID: r.UserID, AccountID: r.AccountID, CategoryID: int64Ptr(r.CategoryID), Amount: r.Amount, Note: r.Note, OccurredAt: r.OccurredAt, CreatedAt: r.CreatedAt}
}

func budgetToRow(b model.Budget) BudgetRow {
	return BudgetRow{ID: b.ID, UserID: b.UserID, CategoryID: b.CategoryID, AccountID: nullInt64(b.AccountID), Amount: b.Amount, Period: b.Period, StartsAt: b.StartsAt}
}

func budgetToModel(r BudgetRow) model.Budget {
	return model.Budget{ID: r.ID, UserID: r.UserID, CategoryID: r.CategoryID, AccountID: int64Ptr(r.AccountID), Amount: r.Amount, Period: r.Period, StartsAt: r.StartsAt}
}

func goalToRow(g model.Goal) GoalRow {
	return GoalRow{ID: g.ID, UserID: g.UserID, Name: g.Name, TargetAmount: g.TargetAmount, SavedAmount: g.SavedAmount, Deadline: nullTime(g.Deadline)}
}

func goalToModel(r GoalRow) model.Goal {
	return model.Goal{ID: r.ID, UserID: r.UserID, Name: r.Name, TargetAmount: r.TargetAmount, SavedAmount: r.SavedAmount, Deadline: timePtr(r.Deadline)}
}

func billToRow(b model.Bill) BillRow {
	return BillRow{ID: b.ID, UserID: b.UserID, CategoryID: nullInt64(b.CategoryID), AccountID: nullInt64(b.AccountID), Name: b.Name, Amount: b.Amount, DueDate: b.DueDate, IsPaid: b.IsPaid}
}

func billToModel(r BillRow) model.Bill {
	return model.Bill{ID: r.ID, UserID: r.UserID, CategoryID: int64Ptr(r.CategoryID), AccountID: int64Ptr(r.AccountID), Name: r.Name, Amount: r.Amount, DueDate: r.DueDate, IsPaid: r.IsPaid}
}

func productToRow(p model.Product) ProductRow {
	return ProductRow{ID: p.ID, UserID: p.UserID, Name: p.Name, Price: p.Price, URL: p.URL, Purchased: p.Purchased, CreatedAt: p.CreatedAt}
}

func productToModel(r ProductRow) model.Product {
	return model.Product{ID: r.ID, UserID: r.UserID, Name: r.Name, Price: r.Price, URL: r.URL, Purchased: r.Purchased, CreatedAt: r.CreatedAt}
}
