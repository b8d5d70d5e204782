// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/fintrack/internal/model"
)

// Store defines the uniform storage contract for all Fintrack entities.
// Callers never branch on the active provider; every operation is forwarded
// to whichever concrete backend the Selector resolved.
//
// Lookup methods return (nil, nil) when no record exists; absence is a state,
// not an error.
type Store interface {
	// User methods
	CreateUser(u *model.User) error
	GetUser(id int64) (*model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUser(u *model.User) error
	DeleteUser(id int64) error

	// Category methods
	CreateCategory(c *model.Category) error
	GetCategory(id int64) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	UpdateCategory(c *model.Category) error
	DeleteCategory(id int64) error

	// Account methods
	CreateAccount(a *model.Account) error
	GetAccount(id int64) (*model.Account, error)
	ListAccounts() ([]model.Account, error)
	UpdateAccount(a *model.Account) error
	DeleteAccount(id int64) error

	// Transaction methods
	CreateTransaction(t *model.Transaction) error
	GetTransaction(id int64) (*model.Transaction, error)
	ListTransactions() ([]model.Transaction, error)
	UpdateTransaction(t *model.Transaction) error
	DeleteTransaction(id int64) error

	// Budget methods
	CreateBudget(b *model.Budget) error
	GetBudget(id int64) (*model.Budget, error)
	ListBudgets() ([]model.Budget, error)
	UpdateBudget(b *model.Budget) error
	DeleteBudget(id int64) error

	// Goal methods
	CreateGoal(g *model.Goal) error
	GetGoal(id int64) (*model.Goal, error)
	ListGoals() ([]model.Goal, error)
	UpdateGoal(g *model.Goal) error
	DeleteGoal(id int64) error

	// Bill methods
	CreateBill(b *model.Bill) error
	GetBill(id int64) (*model.Bill, error)
	ListBills() ([]model.Bill, error)
	UpdateBill(b *model.Bill) error
	DeleteBill(id int64) error

	// Product methods
	CreateProduct(p *model.Product) error
	GetProduct(id int64) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	UpdateProduct(p *model.Product) error
	DeleteProduct(id int64) error

	// Whole-dataset operations used by extraction and restore.
	ExportSnapshot() (*model.Snapshot, error)
	ImportSnapshot(snap *model.Snapshot) error

	Close() error
}
