// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package ledger provides the cross-session persistence contract: the
// bounded seen-ids history, the long-term win-genre statistics, and the
// daily win streak. Entries are opaque JSON blobs under fixed keys.
//
// Two implementations exist: a BadgerDB store for production and an
// in-memory store for tests and ephemeral deployments.
package ledger

import "context"

// Fixed storage keys. No schema versioning; blobs are self-describing JSON.
const (
	keySeenIDs    = "ledger:seen_ids"
	keyWinGenres  = "ledger:win_genres"
	keyStreak     = "ledger:streak"
	keyLastPlayed = "ledger:last_played"
)

// Store is the read/write contract consumed by the game engine.
//
// Seen-ids semantics: bounded FIFO (oldest evicted past the cap),
// append-only during play, cleared wholesale when filter criteria change
// in a way that invalidates prior exclusions.
type Store interface {
	// SeenIDs returns the recorded ids, oldest first.
	SeenIDs(ctx context.Context) ([]int64, error)

	// AppendSeen records ids, evicting the oldest past the cap.
	// Duplicates of already-recorded ids are ignored.
	AppendSeen(ctx context.Context, ids []int64) error

	// ClearSeen drops the whole seen history.
	ClearSeen(ctx context.Context) error

	// WinGenres returns the per-genre win counts.
	WinGenres(ctx context.Context) (map[string]int, error)

	// RecordWin increments the count for every given genre.
	RecordWin(ctx context.Context, genres []string) error

	// Streak returns the current daily win streak.
	Streak(ctx context.Context) (int, error)

	// BumpStreak increments the streak if today differs from the stored
	// last-played date marker, and returns the resulting streak.
	BumpStreak(ctx context.Context, today string) (int, error)

	// Close releases underlying resources.
	Close() error
}

// SeenSet builds a lookup set from a store's seen ids.
func SeenSet(ctx context.Context, s Store) (map[int64]struct{}, error) {
	ids, err := s.SeenIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// appendBounded merges new ids into existing, skipping duplicates and
// evicting from the front past the limit.
func appendBounded(existing, added []int64, limit int) []int64 {
	known := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range added {
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		existing = append(existing, id)
	}
	if limit > 0 && len(existing) > limit {
		existing = existing[len(existing)-limit:]
	}
	return existing
}
