// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package models

import "testing"

func TestMovieReleaseYear(t *testing.T) {
	tests := []struct {
		name string
		year string
		want int
	}{
		{"plain year", "1994", 1994},
		{"whitespace", " 2010 ", 2010},
		{"not available", "N/A", 0},
		{"empty", "", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Movie{Year: tt.year}
			if got := m.ReleaseYear(); got != tt.want {
				t.Errorf("ReleaseYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMovieDecade(t *testing.T) {
	if got := (Movie{Year: "1994"}).Decade(); got != 1990 {
		t.Errorf("Decade() = %d, want 1990", got)
	}
	if got := (Movie{Year: "2000"}).Decade(); got != 2000 {
		t.Errorf("Decade() = %d, want 2000", got)
	}
	if got := (Movie{Year: "N/A"}).Decade(); got != 0 {
		t.Errorf("Decade() for unknown year = %d, want 0", got)
	}
}

func TestMoviePrimaryGenre(t *testing.T) {
	m := Movie{Genres: []string{"Drama", "Crime"}}
	if got := m.PrimaryGenre(); got != "Drama" {
		t.Errorf("PrimaryGenre() = %q, want Drama", got)
	}
	if got := (Movie{IsMystery: true}).PrimaryGenre(); got != "" {
		t.Errorf("PrimaryGenre() for mystery card = %q, want empty", got)
	}
}

func TestMovieGenreMatching(t *testing.T) {
	m := Movie{Genres: []string{"Drama", "Crime"}}

	if !m.HasGenre("Crime") {
		t.Error("HasGenre(Crime) = false")
	}
	if m.HasGenre("Comedy") {
		t.Error("HasGenre(Comedy) = true")
	}
	if !m.HasAnyGenre([]string{"Comedy", "Drama"}) {
		t.Error("HasAnyGenre with one match = false")
	}
	if m.HasAnyGenre(nil) {
		t.Error("HasAnyGenre(nil) = true, empty set must match nothing")
	}
}

func TestHandIDsAndContains(t *testing.T) {
	h := Hand{{ID: 3}, {ID: 1}, {ID: 2}}

	ids := h.IDs()
	want := []int64{3, 1, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}

	if !h.Contains(1) {
		t.Error("Contains(1) = false")
	}
	if h.Contains(99) {
		t.Error("Contains(99) = true")
	}
}

func TestHandHasDuplicates(t *testing.T) {
	if (Hand{{ID: 1}, {ID: 2}}).HasDuplicates() {
		t.Error("distinct hand reported duplicates")
	}
	if !(Hand{{ID: 1}, {ID: 2}, {ID: 1}}).HasDuplicates() {
		t.Error("duplicate hand not detected")
	}
}

func TestDifficultyLevelValid(t *testing.T) {
	for level := DifficultyMin; level <= DifficultyMax; level++ {
		if !level.Valid() {
			t.Errorf("level %d reported invalid", level)
		}
	}
	for _, level := range []DifficultyLevel{0, -1, 7} {
		if level.Valid() {
			t.Errorf("level %d reported valid", level)
		}
	}
}

func TestManualFiltersIsZero(t *testing.T) {
	if !(ManualFilters{}).IsZero() {
		t.Error("empty filters not zero")
	}
	if (ManualFilters{MinRating: 7}).IsZero() {
		t.Error("min-rating filter reported zero")
	}
	if (ManualFilters{Person: &PersonFilter{ID: 500}}).IsZero() {
		t.Error("person filter reported zero")
	}
}

func TestManualFiltersDecadeRange(t *testing.T) {
	if _, _, ok := (ManualFilters{}).DecadeRange(); ok {
		t.Error("DecadeRange ok = true for no decades")
	}

	from, to, ok := (ManualFilters{Decades: []int{1990, 1970, 2000}}).DecadeRange()
	if !ok {
		t.Fatal("DecadeRange ok = false")
	}
	if from != 1970 || to != 2009 {
		t.Errorf("DecadeRange = [%d, %d], want [1970, 2009]", from, to)
	}
}

func TestLearnedBiasIsZero(t *testing.T) {
	// Averages alone carry no actionable signal for query construction.
	if !(LearnedBias{AvgRating: 7.5, AvgYear: 1998}).IsZero() {
		t.Error("bias with only averages not zero")
	}
	if (LearnedBias{DesiredGenres: []string{"Drama"}}).IsZero() {
		t.Error("bias with desired genre reported zero")
	}
}
