// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"context"

	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/metrics"
	"github.com/nmoralez/moviedealer/internal/models"
)

// Replacement cascade tiers, in priority order. Adapter failures inside
// a tier are absorbed and the cascade moves on; total exhaustion degrades
// to placeholder cards instead of raising.
const (
	tierOverflowMatched = "overflow_matched"
	tierOverflowAny     = "overflow_any"
	tierFreshBiased     = "fresh_biased"
	tierFreshRelaxed    = "fresh_relaxed"
	tierMystery         = "mystery"
)

// keptGenres returns the union of genres across the kept non-mystery
// cards, in first-seen order.
func keptGenres(kept []models.Movie) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range kept {
		if m.IsMystery {
			continue
		}
		for _, g := range m.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// dominantDecade returns the decade of the highest-rated kept card, or 0
// when no kept card carries a usable year.
func dominantDecade(kept []models.Movie) int {
	best := models.Movie{Rating: -1}
	for _, m := range kept {
		if m.IsMystery || m.Decade() == 0 {
			continue
		}
		if m.Rating > best.Rating {
			best = m
		}
	}
	return best.Decade()
}

// takeFromOverflow removes and returns up to need candidates from the
// overflow pool that are unseen and satisfy pred. Caller holds the
// engine lock.
func (e *Engine) takeFromOverflow(need int, seen map[int64]struct{}, pred func(models.Movie) bool) []models.Movie {
	var taken []models.Movie
	remaining := e.overflow[:0]
	for _, m := range e.overflow {
		_, wasSeen := seen[m.ID]
		if len(taken) < need && !wasSeen && pred(m) {
			taken = append(taken, m)
			continue
		}
		remaining = append(remaining, m)
	}
	e.overflow = remaining
	return taken
}

// replacementsFromOverflow runs the two overflow tiers of the cascade:
// first candidates matching the kept cards' genres and dominant decade,
// then any overflow candidate not carrying a vetoed genre. Caller holds
// the engine lock.
func (e *Engine) replacementsFromOverflow(kept []models.Movie, need int, seen map[int64]struct{}) []models.Movie {
	genres := keptGenres(kept)
	decade := dominantDecade(kept)
	vetoed := e.prefs.VetoedGenres()

	picks := e.takeFromOverflow(need, seen, func(m models.Movie) bool {
		if decade != 0 && m.Decade() != decade {
			return false
		}
		return len(genres) == 0 || m.HasAnyGenre(genres)
	})
	if len(picks) > 0 {
		metrics.RecordReplacementTier(tierOverflowMatched, len(picks))
	}
	if len(picks) < need {
		more := e.takeFromOverflow(need-len(picks), seen, func(m models.Movie) bool {
			return !m.HasAnyGenre(vetoed)
		})
		if len(more) > 0 {
			metrics.RecordReplacementTier(tierOverflowAny, len(more))
		}
		picks = append(picks, more...)
	}
	return picks
}

// replacementsFromFetch runs the two fresh-fetch tiers: a bias-driven
// fetch, then one with the decade constraint relaxed entirely. Runs
// without the engine lock; fetch failures are absorbed and the shortfall
// passes to the placeholder tier.
func (e *Engine) replacementsFromFetch(ctx context.Context, need int, level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias, seen map[int64]struct{}, exclude map[int64]struct{}) []models.Movie {
	picks := e.fetchTier(ctx, tierFreshBiased, need, level, manual, bias, seen, exclude)
	if len(picks) < need {
		relaxed := manual
		relaxed.Decades = nil
		for _, m := range picks {
			exclude[m.ID] = struct{}{}
		}
		more := e.fetchTier(ctx, tierFreshRelaxed, need-len(picks), level, relaxed, bias, seen, exclude)
		picks = append(picks, more...)
	}
	return picks
}

func (e *Engine) fetchTier(ctx context.Context, tier string, need int, level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias, seen map[int64]struct{}, exclude map[int64]struct{}) []models.Movie {
	pool, err := e.source.FetchCandidates(ctx, level, manual, bias)
	if err != nil {
		logging.Warn().Err(err).Str("tier", tier).Msg("replacement fetch failed, cascading")
		return nil
	}
	var picks []models.Movie
	for _, m := range pool {
		if len(picks) >= need {
			break
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		if _, ok := exclude[m.ID]; ok {
			continue
		}
		picks = append(picks, m)
	}
	if len(picks) > 0 {
		metrics.RecordReplacementTier(tier, len(picks))
	}
	return picks
}

// burnReplacement picks the card replacing a dealer-burned slot: an
// unseen overflow candidate when one exists, otherwise the comodín.
// Caller holds the engine lock.
func (e *Engine) burnReplacement(seen map[int64]struct{}) models.Movie {
	picks := e.takeFromOverflow(1, seen, func(models.Movie) bool { return true })
	if len(picks) == 1 {
		return picks[0]
	}
	return e.newBurnWildcard()
}
