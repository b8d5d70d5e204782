// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/toeirei/fintrack/internal/model"
)

// ExternalBackend is the read path for managed REST providers, which are
// reached through their service's own client rather than a SQL driver. The
// initialization subsystem registers one per config id; the probe and the
// migration extractor delegate to it.
type ExternalBackend interface {
	// Ping checks service liveness.
	Ping(ctx context.Context) error
	// ExportSnapshot reads the full dataset through the service API.
	ExportSnapshot() (*model.Snapshot, error)
}

var (
	externalMu       sync.RWMutex
	externalBackends = map[int64]ExternalBackend{}
)

// RegisterExternalBackend binds an external backend to a config id,
// replacing any previous binding.
func RegisterExternalBackend(configID int64, b ExternalBackend) {
	externalMu.Lock()
	defer externalMu.Unlock()
	externalBackends[configID] = b
}

// UnregisterExternalBackend removes the binding for a config id.
func UnregisterExternalBackend(configID int64) {
	externalMu.Lock()
	defer externalMu.Unlock()
	delete(externalBackends, configID)
}

// ExternalBackendFor returns the external backend bound to a config id.
func ExternalBackendFor(configID int64) (ExternalBackend, bool) {
	externalMu.RLock()
	defer externalMu.RUnlock()
	b, ok := externalBackends[configID]
	return b, ok
}
