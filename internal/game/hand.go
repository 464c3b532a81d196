// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"math/rand"

	"github.com/nmoralez/moviedealer/internal/models"
)

// assembleHand builds an initial hand from a candidate pool.
//
// The pool is shuffled, then a greedy pass enforces genre diversity by
// capping how many cards may share a primary genre. A fill pass ignores
// the cap if the greedy pass came up short, and mystery placeholders
// cover any remaining shortfall, so the returned hand always has exactly
// size cards. Candidates in the seen set are never selected.
//
// The second return value is the overflow: shuffled candidates that were
// fetched but not placed in the hand, kept for later replacements.
func (e *Engine) assembleHand(pool []models.Movie, seen map[int64]struct{}, size, genreCap int, rng *rand.Rand) (models.Hand, []models.Movie) {
	shuffled := make([]models.Movie, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	hand := make(models.Hand, 0, size)
	picked := make(map[int64]struct{}, size)
	genreCount := make(map[string]int)

	selectable := func(m models.Movie) bool {
		if _, ok := picked[m.ID]; ok {
			return false
		}
		_, wasSeen := seen[m.ID]
		return !wasSeen
	}

	// Greedy diversity pass keyed by the primary genre.
	for _, m := range shuffled {
		if len(hand) >= size {
			break
		}
		if !selectable(m) {
			continue
		}
		g := m.PrimaryGenre()
		if g != "" && genreCount[g] >= genreCap {
			continue
		}
		hand = append(hand, m)
		picked[m.ID] = struct{}{}
		if g != "" {
			genreCount[g]++
		}
	}

	// Fill pass without the genre cap.
	for _, m := range shuffled {
		if len(hand) >= size {
			break
		}
		if !selectable(m) {
			continue
		}
		hand = append(hand, m)
		picked[m.ID] = struct{}{}
	}

	// Placeholder pass when the pool is exhausted.
	for len(hand) < size {
		hand = append(hand, e.newMysteryCard())
	}

	overflow := make([]models.Movie, 0, len(shuffled))
	for _, m := range shuffled {
		if _, ok := picked[m.ID]; !ok {
			overflow = append(overflow, m)
		}
	}
	return hand, overflow
}

// nonMysteryIDs returns the provider ids in the given cards, skipping
// synthesized placeholders.
func nonMysteryIDs(cards []models.Movie) []int64 {
	ids := make([]int64, 0, len(cards))
	for _, m := range cards {
		if !m.IsMystery {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
