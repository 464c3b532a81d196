// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/game"
	"github.com/nmoralez/moviedealer/internal/ledger"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/metrics"
)

// defaultMaxSessions bounds registry growth so an unauthenticated client
// cannot exhaust memory by spamming session creation.
const defaultMaxSessions = 1024

// SessionRegistry owns the mapping from session UUID to game engine.
// Every session gets its own engine and its own rand source; the shared
// dependencies (candidate source, availability checker, ledger) are
// safe for concurrent use.
type SessionRegistry struct {
	cfg     *config.GameConfig
	source  game.CandidateSource
	checker game.AvailabilityChecker
	store   ledger.Store

	maxSessions int
	seedSalt    atomic.Int64

	mu       sync.RWMutex
	sessions map[string]*game.Engine
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(cfg *config.GameConfig, source game.CandidateSource, checker game.AvailabilityChecker, store ledger.Store) *SessionRegistry {
	return &SessionRegistry{
		cfg:         cfg,
		source:      source,
		checker:     checker,
		store:       store,
		maxSessions: defaultMaxSessions,
		sessions:    make(map[string]*game.Engine),
	}
}

// Create allocates a new session and returns its ID and engine.
func (sr *SessionRegistry) Create(ctx context.Context) (string, *game.Engine, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if len(sr.sessions) >= sr.maxSessions {
		return "", nil, ErrTooManySessions
	}

	id := uuid.New().String()
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + sr.seedSalt.Add(1)))
	engine := game.New(ctx, sr.cfg, sr.source, sr.checker, sr.store, rng)

	sr.sessions[id] = engine
	metrics.ActiveSessions.Set(float64(len(sr.sessions)))
	logging.Info().Str("session_id", id).Int("sessions", len(sr.sessions)).Msg("Session created")

	return id, engine, nil
}

// Get returns the engine for the given session ID.
func (sr *SessionRegistry) Get(id string) (*game.Engine, error) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	engine, ok := sr.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return engine, nil
}

// Delete removes a session. Missing IDs are not an error.
func (sr *SessionRegistry) Delete(id string) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if _, ok := sr.sessions[id]; !ok {
		return
	}
	delete(sr.sessions, id)
	metrics.ActiveSessions.Set(float64(len(sr.sessions)))
	logging.Info().Str("session_id", id).Int("sessions", len(sr.sessions)).Msg("Session deleted")
}

// Count returns the number of live sessions.
func (sr *SessionRegistry) Count() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.sessions)
}
