// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"sort"

	"github.com/nmoralez/moviedealer/internal/models"
)

// SessionPreferences accumulates the player's revealed taste within one
// game session: genre keep/discard counters and running means over the
// kept cards. It is reset on game reset and is never persisted; the
// cross-session ledger is a separate store.
//
// Mystery cards carry no usable signal and are excluded from every
// aggregation.
type SessionPreferences struct {
	desired map[string]int
	vetoed  map[string]int

	keptTotal      int
	discardedTotal int

	// Incremental means over kept cards. Year keeps its own counter
	// because "N/A" years are excluded from the mean.
	avgRating float64
	ratedKept int
	avgYear   float64
	datedKept int

	vetoThreshold int
	topDesired    int
}

// NewSessionPreferences creates an empty accumulator.
func NewSessionPreferences(vetoThreshold, topDesired int) *SessionPreferences {
	return &SessionPreferences{
		desired:       make(map[string]int),
		vetoed:        make(map[string]int),
		vetoThreshold: vetoThreshold,
		topDesired:    topDesired,
	}
}

// RecordOutcome folds one swap action into the model: every genre on a
// kept card raises its desire count, every genre on a discarded card
// raises its veto count, and the kept-rating/kept-year means advance
// incrementally.
func (p *SessionPreferences) RecordOutcome(kept, discarded []models.Movie) {
	for _, m := range kept {
		if m.IsMystery {
			continue
		}
		p.keptTotal++
		for _, g := range m.Genres {
			p.desired[g]++
		}
		p.ratedKept++
		p.avgRating += (m.Rating - p.avgRating) / float64(p.ratedKept)
		if y := m.ReleaseYear(); y > 0 {
			p.datedKept++
			p.avgYear += (float64(y) - p.avgYear) / float64(p.datedKept)
		}
	}
	for _, m := range discarded {
		if m.IsMystery {
			continue
		}
		p.discardedTotal++
		for _, g := range m.Genres {
			p.vetoed[g]++
		}
	}
}

// TopDesired returns the highest-counted kept genres, strongest first,
// capped at the configured top size. Equal counts order alphabetically
// so the result is deterministic.
func (p *SessionPreferences) TopDesired() []string {
	if len(p.desired) == 0 {
		return nil
	}
	genres := make([]string, 0, len(p.desired))
	for g := range p.desired {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if p.desired[genres[i]] != p.desired[genres[j]] {
			return p.desired[genres[i]] > p.desired[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > p.topDesired {
		genres = genres[:p.topDesired]
	}
	return genres
}

// VetoedGenres returns the genres whose discard count has reached the
// veto threshold. A genre that is simultaneously a top desired genre is
// never vetoed: desire overrides veto.
func (p *SessionPreferences) VetoedGenres() []string {
	if len(p.vetoed) == 0 {
		return nil
	}
	top := make(map[string]struct{}, p.topDesired)
	for _, g := range p.TopDesired() {
		top[g] = struct{}{}
	}
	var out []string
	for g, n := range p.vetoed {
		if n < p.vetoThreshold {
			continue
		}
		if _, desired := top[g]; desired {
			continue
		}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Bias snapshots the model as the fetch bias consumed by the adapter.
func (p *SessionPreferences) Bias() models.LearnedBias {
	return models.LearnedBias{
		DesiredGenres: p.TopDesired(),
		VetoedGenres:  p.VetoedGenres(),
		AvgRating:     p.avgRating,
		AvgYear:       p.avgYear,
	}
}

// DesiredCount returns the keep count for a genre.
func (p *SessionPreferences) DesiredCount(genre string) int { return p.desired[genre] }

// VetoedCount returns the discard count for a genre.
func (p *SessionPreferences) VetoedCount(genre string) int { return p.vetoed[genre] }

// KeptTotal returns the number of kept non-mystery cards recorded.
func (p *SessionPreferences) KeptTotal() int { return p.keptTotal }

// DiscardedTotal returns the number of discarded non-mystery cards recorded.
func (p *SessionPreferences) DiscardedTotal() int { return p.discardedTotal }

// Reset restores the empty state.
func (p *SessionPreferences) Reset() {
	p.desired = make(map[string]int)
	p.vetoed = make(map[string]int)
	p.keptTotal = 0
	p.discardedTotal = 0
	p.avgRating = 0
	p.ratedKept = 0
	p.avgYear = 0
	p.datedKept = 0
}
