// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package pool

// TMDB movie genre taxonomy. The engine works with genre names; queries
// need the numeric ids.
var genreIDs = map[string]int{
	"Action":          28,
	"Adventure":       12,
	"Animation":       16,
	"Comedy":          35,
	"Crime":           80,
	"Documentary":     99,
	"Drama":           18,
	"Family":          10751,
	"Fantasy":         14,
	"History":         36,
	"Horror":          27,
	"Music":           10402,
	"Mystery":         9648,
	"Romance":         10749,
	"Science Fiction": 878,
	"TV Movie":        10770,
	"Thriller":        53,
	"War":             10752,
	"Western":         37,
}

var genreNames = func() map[int]string {
	m := make(map[int]string, len(genreIDs))
	for name, id := range genreIDs {
		m[id] = name
	}
	return m
}()

// GenreID resolves a genre name to its provider id.
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[name]
	return id, ok
}

// genreIDList maps genre names to ids, dropping unknown names.
func genreIDList(names []string) []int {
	ids := make([]int, 0, len(names))
	for _, n := range names {
		if id, ok := genreIDs[n]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// genreNameList maps provider genre ids to names, dropping unknown ids.
func genreNameList(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
