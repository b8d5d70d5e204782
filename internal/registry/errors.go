// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import "errors"

// ErrNotFound is returned for unknown config or migration ids.
var ErrNotFound = errors.New("not found")

// ErrActiveConfigInUse blocks deletion of the currently active config.
var ErrActiveConfigInUse = errors.New("config is active and cannot be removed")

// ErrCannotActivate is returned when the activation target fails its
// liveness probe.
var ErrCannotActivate = errors.New("cannot activate config")
