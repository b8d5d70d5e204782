// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"errors"
	"fmt"
)

// ErrExtractionFailed marks a failure while reading the source dataset. No
// writes have happened when this is returned.
var ErrExtractionFailed = errors.New("extraction failed")

// ErrProvisioningFailed marks a failure while ensuring or verifying the
// target schema.
var ErrProvisioningFailed = errors.New("schema provisioning failed")

// ErrMigrationTarget marks a target config that cannot receive a migration.
var ErrMigrationTarget = errors.New("invalid migration target")

// InsertError reports which entity collection failed during ordered
// insertion. Collections after the failing one are never attempted.
type InsertError struct {
	Collection string
	Err        error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert failed for %s: %v", e.Collection, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }
