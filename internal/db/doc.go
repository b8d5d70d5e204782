// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Fintrack. It abstracts the
// underlying database (SQLite, PostgreSQL, MySQL) behind a consistent Store
// interface, allowing the rest of the application to interact with whichever
// backend is active in a uniform way. Backend selection is handled by the
// Selector type; the concrete dialect is chosen once at store construction.
package db // import "github.com/toeirei/fintrack/internal/db"
