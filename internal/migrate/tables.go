// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

// insertOrder lists the entity tables in foreign-key precedence: users first,
// then categories and accounts, then transactions, then the remaining
// per-user collections. Insertion walks forward; wipes walk backward.
var insertOrder = []string{
	"users",
	"categories",
	"accounts",
	"transactions",
	"budgets",
	"goals",
	"bills",
	"products",
}

// tableColumns fixes the column list and order per table. Extraction selects
// and insertion binds exactly these, so both sides stay in lockstep.
var tableColumns = map[string][]string{
	"users":        {"id", "email", "name", "password_hash", "created_at"},
	"categories":   {"id", "user_id", "name", "kind", "color"},
	"accounts":     {"id", "user_id", "name", "type", "currency", "balance", "created_at"},
	"transactions": {"id", "user_id", "account_id", "category_id", "amount", "note", "occurred_at", "created_at"},
	"budgets":      {"id", "user_id", "category_id", "account_id", "amount", "period", "starts_at"},
	"goals":        {"id", "user_id", "name", "target_amount", "saved_amount", "deadline"},
	"bills":        {"id", "user_id", "category_id", "account_id", "name", "amount", "due_date", "is_paid"},
	"products":     {"id", "user_id", "name", "price", "url", "purchased", "created_at"},
}
