// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// BadgerStore implements Store on BadgerDB for durable cross-session
// history.
type BadgerStore struct {
	db      *badger.DB
	seenCap int
}

// OpenBadger opens (or creates) the ledger database at path.
func OpenBadger(path string, seenCap int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	return &BadgerStore{db: db, seenCap: seenCap}, nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB, seenCap int) *BadgerStore {
	return &BadgerStore{db: db, seenCap: seenCap}
}

// SeenIDs returns the recorded ids, oldest first.
func (s *BadgerStore) SeenIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, keySeenIDs, &ids)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AppendSeen records ids, evicting the oldest past the cap.
func (s *BadgerStore) AppendSeen(_ context.Context, added []int64) error {
	if len(added) == 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		var ids []int64
		if err := readJSON(txn, keySeenIDs, &ids); err != nil {
			return err
		}
		ids = appendBounded(ids, added, s.seenCap)
		return writeJSON(txn, keySeenIDs, ids)
	})
}

// ClearSeen drops the whole seen history.
func (s *BadgerStore) ClearSeen(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keySeenIDs))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// WinGenres returns the per-genre win counts.
func (s *BadgerStore) WinGenres(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := s.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, keyWinGenres, &counts)
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// RecordWin increments the count for every given genre.
func (s *BadgerStore) RecordWin(_ context.Context, genres []string) error {
	if len(genres) == 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		counts := make(map[string]int)
		if err := readJSON(txn, keyWinGenres, &counts); err != nil {
			return err
		}
		for _, g := range genres {
			counts[g]++
		}
		return writeJSON(txn, keyWinGenres, counts)
	})
}

// Streak returns the current daily win streak.
func (s *BadgerStore) Streak(_ context.Context) (int, error) {
	var streak int
	err := s.db.View(func(txn *badger.Txn) error {
		v, err := readString(txn, keyStreak)
		if err != nil || v == "" {
			return err
		}
		streak, err = strconv.Atoi(v)
		return err
	})
	return streak, err
}

// BumpStreak increments the streak when today differs from the stored
// last-played marker.
func (s *BadgerStore) BumpStreak(_ context.Context, today string) (int, error) {
	var streak int
	err := s.db.Update(func(txn *badger.Txn) error {
		last, err := readString(txn, keyLastPlayed)
		if err != nil {
			return err
		}
		cur, err := readString(txn, keyStreak)
		if err != nil {
			return err
		}
		if cur != "" {
			if streak, err = strconv.Atoi(cur); err != nil {
				return err
			}
		}
		if last == today {
			return nil
		}
		streak++
		if err := txn.Set([]byte(keyStreak), []byte(strconv.Itoa(streak))); err != nil {
			return err
		}
		return txn.Set([]byte(keyLastPlayed), []byte(today))
	})
	return streak, err
}

// RunGC triggers one Badger value-log garbage collection pass. Returns
// badger.ErrNoRewrite when nothing was collected, which callers may
// ignore.
func (s *BadgerStore) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// readJSON loads the JSON blob at key into out; a missing key leaves out
// untouched.
func readJSON(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func writeJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func readString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	var out string
	err = item.Value(func(val []byte) error {
		out = string(val)
		return nil
	})
	return out, err
}
