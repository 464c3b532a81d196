// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/nmoralez/moviedealer/internal/logging"
)

// GarbageCollector is the slice of the Badger ledger store the GC loop
// needs. The in-memory store has nothing to collect and is never
// wrapped in this service.
type GarbageCollector interface {
	RunGC() error
}

// LedgerGCService periodically triggers Badger value-log garbage
// collection so the seen-history ledger does not grow without bound.
type LedgerGCService struct {
	store    GarbageCollector
	interval time.Duration
	name     string
}

// NewLedgerGCService creates the GC loop with the given interval.
func NewLedgerGCService(store GarbageCollector, interval time.Duration) *LedgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &LedgerGCService{
		store:    store,
		interval: interval,
		name:     "ledger-gc",
	}
}

// Serve implements suture.Service. badger.ErrNoRewrite means no value
// log needed collecting this pass and is not a failure.
func (s *LedgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Ledger garbage collection failed")
			}
		}
	}
}

// String identifies the service in suture log events.
func (s *LedgerGCService) String() string {
	return s.name
}
