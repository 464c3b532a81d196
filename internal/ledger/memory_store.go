// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package ledger

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory. Used for tests and for
// deployments with no ledger path configured.
type MemoryStore struct {
	mu         sync.Mutex
	seen       []int64
	winGenres  map[string]int
	streak     int
	lastPlayed string
	seenCap    int
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore(seenCap int) *MemoryStore {
	return &MemoryStore{
		winGenres: make(map[string]int),
		seenCap:   seenCap,
	}
}

func (s *MemoryStore) SeenIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.seen))
	copy(out, s.seen)
	return out, nil
}

func (s *MemoryStore) AppendSeen(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = appendBounded(s.seen, ids, s.seenCap)
	return nil
}

func (s *MemoryStore) ClearSeen(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = nil
	return nil
}

func (s *MemoryStore) WinGenres(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.winGenres))
	for g, n := range s.winGenres {
		out[g] = n
	}
	return out, nil
}

func (s *MemoryStore) RecordWin(_ context.Context, genres []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range genres {
		s.winGenres[g]++
	}
	return nil
}

func (s *MemoryStore) Streak(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak, nil
}

func (s *MemoryStore) BumpStreak(_ context.Context, today string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPlayed != today {
		s.streak++
		s.lastPlayed = today
	}
	return s.streak, nil
}

func (s *MemoryStore) Close() error { return nil }
