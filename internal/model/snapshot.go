// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// SnapshotSchemaVersion is bumped whenever the canonical snapshot layout
// changes incompatibly.
const SnapshotSchemaVersion = 1

// Snapshot is the canonical, backend-agnostic copy of an entire dataset.
// It is produced by extraction, consumed by ordered insertion, and lives only
// for the duration of a single migration run.
type Snapshot struct {
	// SchemaVersion helps detect incompatible snapshots across releases.
	SchemaVersion int `json:"schema_version"`

	Users        []User        `json:"users"`
	Categories   []Category    `json:"categories"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
	Goals        []Goal        `json:"goals"`
	Bills        []Bill        `json:"bills"`
	Products     []Product     `json:"products"`
}

// TotalRecords returns the number of records across all collections.
func (s *Snapshot) TotalRecords() int {
	return len(s.Users) + len(s.Categories) + len(s.Accounts) +
		len(s.Transactions) + len(s.Budgets) + len(s.Goals) +
		len(s.Bills) + len(s.Products)
}
