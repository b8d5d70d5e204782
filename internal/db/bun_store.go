// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"

	"github.com/toeirei/fintrack/internal/model"
	"github.com/uptrace/bun"
)

// SQLStore is the bun-backed implementation of the Store interface. One type
// serves all SQL dialects; dialect-specific behavior lives in the bun dialect
// chosen at construction and in the migration engine's codecs.
type SQLStore struct {
	db      *sql.DB
	bun     *bun.DB
	dialect model.Dialect
}

// Dialect returns the SQL dialect the store was opened with.
func (s *SQLStore) Dialect() model.Dialect { return s.dialect }

// DB exposes the underlying sql.DB for schema provisioning and maintenance.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Bun exposes the underlying bun.DB for whole-dataset operations.
func (s *SQLStore) Bun() *bun.DB { return s.bun }

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error { return s.bun.Close() }

// User methods

func (s *SQLStore) CreateUser(u *model.User) error {
	row := userToRow(*u)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	u.ID = row.ID
	return nil
}

func (s *SQLStore) GetUser(id int64) (*model.User, error) {
	return getRow(s.bun, id, userToModel)
}

func (s *SQLStore) ListUsers() ([]model.User, error) {
	return listRows(s.bun, userToModel)
}

func (s *SQLStore) UpdateUser(u *model.User) error {
	row := userToRow(*u)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteUser(id int64) error {
	return deleteRow[UserRow](s.bun, id)
}

// Category methods

func (s *SQLStore) CreateCategory(c *model.Category) error {
	row := categoryToRow(*c)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	c.ID = row.ID
	return nil
}

func (s *SQLStore) GetCategory(id int64) (*model.Category, error) {
	return getRow(s.bun, id, categoryToModel)
}

func (s *SQLStore) ListCategories() ([]model.Category, error) {
	return listRows(s.bun, categoryToModel)
}

func (s *SQLStore) UpdateCategory(c *model.Category) error {
	row := categoryToRow(*c)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteCategory(id int64) error {
	return deleteRow[CategoryRow](s.bun, id)
}

// Account methods

func (s *SQLStore) CreateAccount(a *model.Account) error {
	row := accountToRow(*a)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

func (s *SQLStore) GetAccount(id int64) (*model.Account, error) {
	return getRow(s.bun, id, accountToModel)
}

func (s *SQLStore) ListAccounts() ([]model.Account, error) {
	return listRows(s.bun, accountToModel)
}

func (s *SQLStore) UpdateAccount(a *model.Account) error {
	row := accountToRow(*a)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteAccount(id int64) error {
	return deleteRow[AccountRow](s.bun, id)
}

// Transaction methods

func (s *SQLStore) CreateTransaction(t *model.Transaction) error {
	row := transactionToRow(*t)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

func (s *SQLStore) GetTransaction(id int64) (*model.Transaction, error) {
	return getRow(s.bun, id, transactionToModel)
}

func (s *SQLStore) ListTransactions() ([]model.Transaction, error) {
	return listRows(s.bun, transactionToModel)
}

func (s *SQLStore) UpdateTransaction(t *model.Transaction) error {
	row := transactionToRow(*t)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteTransaction(id int64) error {
	return deleteRow[TransactionRow](s.bun, id)
}

// Budget methods

func (s *SQLStore) CreateBudget(b *model.Budget) error {
	row := budgetToRow(*b)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	b.ID = row.ID
	return nil
}

func (s *SQLStore) GetBudget(id int64) (*model.Budget, error) {
	return getRow(s.bun, id, budgetToModel)
}

func (s *SQLStore) ListBudgets() ([]model.Budget, error) {
	return listRows(s.bun, budgetToModel)
}

func (s *SQLStore) UpdateBudget(b *model.Budget) error {
	row := budgetToRow(*b)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteBudget(id int64) error {
	return deleteRow[BudgetRow](s.bun, id)
}

// Goal methods

func (s *SQLStore) CreateGoal(g *model.Goal) error {
	row := goalToRow(*g)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	g.ID = row.ID
	return nil
}

func (s *SQLStore) GetGoal(id int64) (*model.Goal, error) {
	return getRow(s.bun, id, goalToModel)
}

func (s *SQLStore) ListGoals() ([]model.Goal, error) {
	return listRows(s.bun, goalToModel)
}

func (s *SQLStore) UpdateGoal(g *model.Goal) error {
	row := goalToRow(*g)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteGoal(id int64) error {
	return deleteRow[GoalRow](s.bun, id)
}

// Bill methods

func (s *SQLStore) CreateBill(b *model.Bill) error {
	row := billToRow(*b)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	b.ID = row.ID
	return nil
}

func (s *SQLStore) GetBill(id int64) (*model.Bill, error) {
	return getRow(s.bun, id, billToModel)
}

func (s *SQLStore) ListBills() ([]model.Bill, error) {
	return listRows(s.bun, billToModel)
}

func (s *SQLStore) UpdateBill(b *model.Bill) error {
	row := billToRow(*b)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteBill(id int64) error {
	return deleteRow[BillRow](s.bun, id)
}

// Product methods

func (s *SQLStore) CreateProduct(p *model.Product) error {
	row := productToRow(*p)
	if err := insertRow(s.bun, &row); err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (s *SQLStore) GetProduct(id int64) (*model.Product, error) {
	return getRow(s.bun, id, productToModel)
}

func (s *SQLStore) ListProducts() ([]model.Product, error) {
	return listRows(s.bun, productToModel)
}

func (s *SQLStore) UpdateProduct(p *model.Product) error {
	row := productToRow(*p)
	return updateRow(s.bun, &row)
}

func (s *SQLStore) DeleteProduct(id int64) error {
	return deleteRow[ProductRow](s.bun, id)
}
