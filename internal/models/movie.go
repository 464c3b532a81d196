// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package models defines the shared data shapes used across the engine:
// the normalized Movie record, the player's Hand, and the filter/bias
// value objects consumed by the candidate source adapter.
package models

import (
	"strconv"
	"strings"
)

// Movie is the normalized candidate record produced by the source adapter.
//
// IDs from the provider are stable positive integers. Mystery cards carry
// synthesized negative IDs so they can never collide with provider IDs.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Year        string   `json:"year"` // release year, "N/A" when unknown
	Rating      float64  `json:"rating"`
	Popularity  float64  `json:"popularity"`
	VoteCount   int      `json:"vote_count"`
	Poster      string   `json:"poster"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	IsMystery   bool     `json:"is_mystery,omitempty"`
	MysteryText string   `json:"mystery_text,omitempty"`
}

// PrimaryGenre returns the first-listed genre, or empty string for
// genre-less cards (mystery cards always return empty).
func (m Movie) PrimaryGenre() string {
	if len(m.Genres) == 0 {
		return ""
	}
	return m.Genres[0]
}

// ReleaseYear parses Year as an integer. Returns 0 for "N/A" or
// unparseable values.
func (m Movie) ReleaseYear() int {
	y, err := strconv.Atoi(strings.TrimSpace(m.Year))
	if err != nil {
		return 0
	}
	return y
}

// Decade returns the decade start year of the release (e.g. 1994 -> 1990),
// or 0 when the year is unknown.
func (m Movie) Decade() int {
	y := m.ReleaseYear()
	if y == 0 {
		return 0
	}
	return y - y%10
}

// HasGenre reports whether the movie carries the given genre.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// HasAnyGenre reports whether the movie carries at least one of the
// given genres. An empty set matches nothing.
func (m Movie) HasAnyGenre(genres []string) bool {
	for _, g := range genres {
		if m.HasGenre(g) {
			return true
		}
	}
	return false
}

// Hand is the player's current ordered set of cards.
type Hand []Movie

// IDs returns the card IDs in hand order.
func (h Hand) IDs() []int64 {
	ids := make([]int64, len(h))
	for i, m := range h {
		ids[i] = m.ID
	}
	return ids
}

// Contains reports whether a card with the given ID is in the hand.
func (h Hand) Contains(id int64) bool {
	for _, m := range h {
		if m.ID == id {
			return true
		}
	}
	return false
}

// HasDuplicates reports whether any ID appears more than once.
func (h Hand) HasDuplicates() bool {
	seen := make(map[int64]struct{}, len(h))
	for _, m := range h {
		if _, ok := seen[m.ID]; ok {
			return true
		}
		seen[m.ID] = struct{}{}
	}
	return false
}
