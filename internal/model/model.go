// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures for Fintrack. These are
// plain structs shared across the storage and migration layers; database
// mapping lives in the db package.
package model

import (
	"fmt"
	"time"
)

// User is the owner of every other record. All entity collections reference
// a user by id.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// String returns the name <email> representation.
func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Category groups transactions, budgets and bills. Kind is "income" or
// "expense".
type Category struct {
	ID     int64
	UserID int64
	Name   string
	Kind   string
	Color  string
}

// Account is a money container (checking, savings, cash, credit...).
// Balance is in minor currency units.
type Account struct {
	ID        int64
	UserID    int64
	Name      string
	Type      string
	Currency  string
	Balance   int64
	CreatedAt time.Time
}

// Transaction is a single money movement on an account. CategoryID is
// optional; uncategorized transactions carry nil.
type Transaction struct {
	ID         int64
	UserID     int64
	AccountID  int64
	CategoryID *int64
	Amount     int64
	Note       string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Budget caps spending for a category over a period ("monthly", "yearly").
// AccountID optionally scopes the budget to a single account.
type Budget struct {
	ID         int64
	UserID     int64
	CategoryID int64
	AccountID  *int64
	Amount     int64
	Period     string
	StartsAt   time.Time
}

// Goal is a savings target. Deadline is optional.
type Goal struct {
	ID           int64
	UserID       int64
	Name         string
	TargetAmount int64
	SavedAmount  int64
	Deadline     *time.Time
}

// Bill is a recurring payment. Category and account references are both
// optional.
type Bill struct {
	ID         int64
	UserID     int64
	CategoryID *int64
	AccountID  *int64
	Name       string
	Amount     int64
	DueDate    time.Time
	IsPaid     bool
}

// Product is a wishlist item tracked for purchase planning.
type Product struct {
	ID        int64
	UserID    int64
	Name      string
	Price     int64
	URL       string
	Purchased bool
	CreatedAt time.Time
}
