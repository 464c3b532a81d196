// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package models

// DifficultyLevel selects the query strategy used when building a pool.
// Low tiers deal mainstream hits, mid tiers overlooked quality, high tiers
// canon classics.
type DifficultyLevel int

const (
	DifficultyMin DifficultyLevel = 1
	DifficultyMax DifficultyLevel = 6
)

// Valid reports whether the level is within the supported range.
func (d DifficultyLevel) Valid() bool {
	return d >= DifficultyMin && d <= DifficultyMax
}

// PersonFilter restricts candidates to titles associated with a person.
type PersonFilter struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name"`
	Role string `json:"role" validate:"omitempty,oneof=actor director"`
}

// ManualFilters holds the player-entered filter criteria. These always
// take precedence over learned bias at query-construction time.
type ManualFilters struct {
	Genres    []string      `json:"genres" validate:"max=8,dive,min=1"`
	Decades   []int         `json:"decades" validate:"max=10,dive,gte=1900,lte=2090"`
	Person    *PersonFilter `json:"person,omitempty"`
	MinRating float64       `json:"min_rating" validate:"gte=0,lte=10"`
}

// IsZero reports whether no manual criteria are set.
func (f ManualFilters) IsZero() bool {
	return len(f.Genres) == 0 && len(f.Decades) == 0 && f.Person == nil && f.MinRating == 0
}

// DecadeRange returns the inclusive [min decade start, max decade end]
// year span covered by the selected decades. ok is false when no decades
// are selected.
func (f ManualFilters) DecadeRange() (from, to int, ok bool) {
	if len(f.Decades) == 0 {
		return 0, 0, false
	}
	from, to = f.Decades[0], f.Decades[0]
	for _, d := range f.Decades[1:] {
		if d < from {
			from = d
		}
		if d > to {
			to = d
		}
	}
	return from, to + 9, true
}

// LearnedBias is the session-derived fetch bias. It is merged into a query
// only when the corresponding manual criterion is absent.
type LearnedBias struct {
	// DesiredGenres are the top kept genres, strongest first.
	DesiredGenres []string
	// VetoedGenres are genres past the veto threshold, applied as hard
	// exclusions unless also desired.
	VetoedGenres []string
	// AvgRating and AvgYear summarize the kept cards so far.
	AvgRating float64
	AvgYear   float64
}

// IsZero reports whether the bias carries no signal.
func (b LearnedBias) IsZero() bool {
	return len(b.DesiredGenres) == 0 && len(b.VetoedGenres) == 0
}
