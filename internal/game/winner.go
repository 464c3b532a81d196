// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"context"
	"sort"
	"sync"

	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/models"
)

// AvailabilityChecker reports whether a title can be streamed on a
// subscription provider in the configured region. Used only at the
// winner tie-break step.
type AvailabilityChecker interface {
	Available(ctx context.Context, movieID int64) (bool, error)
}

// resolveWinner picks the round's outcome from the final hand.
//
// Cards are sorted by rating descending; every card within epsilon of
// the top forms the tie set. A multi-member tie is broken by streaming
// availability, checked for all tied cards in parallel with per-card
// failures tolerated as "unavailable". The first tied card in sorted
// order that is available wins; when none is, the top-rated card wins.
func resolveWinner(ctx context.Context, hand models.Hand, epsilon float64, checker AvailabilityChecker) models.Movie {
	sorted := make([]models.Movie, len(hand))
	copy(sorted, hand)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	top := sorted[0]
	tie := sorted[:1]
	for _, m := range sorted[1:] {
		if top.Rating-m.Rating <= epsilon {
			tie = append(tie, m)
		} else {
			break
		}
	}
	if len(tie) == 1 || checker == nil {
		return top
	}

	available := make([]bool, len(tie))
	var wg sync.WaitGroup
	for i, m := range tie {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			ok, err := checker.Available(ctx, id)
			if err != nil {
				logging.Debug().Err(err).Int64("movie_id", id).Msg("availability check failed, treating as unavailable")
				return
			}
			available[i] = ok
		}(i, m.ID)
	}
	wg.Wait()

	for i, m := range tie {
		if available[i] {
			return m
		}
	}
	return top
}

// topWinGenres ranks the long-term win statistics and returns the
// strongest genres, used to bias the initial deal only.
func topWinGenres(stats map[string]int, limit int) []string {
	if len(stats) == 0 {
		return nil
	}
	genres := make([]string, 0, len(stats))
	for g := range stats {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if stats[genres[i]] != stats[genres[j]] {
			return stats[genres[i]] > stats[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > limit {
		genres = genres[:limit]
	}
	return genres
}
