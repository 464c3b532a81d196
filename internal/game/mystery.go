// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"github.com/nmoralez/moviedealer/internal/metrics"
	"github.com/nmoralez/moviedealer/internal/models"
)

// Mystery ids descend from this base so they occupy their own namespace:
// provider ids are positive, the built-in fallback catalog stays above
// -1000, and synthesized cards live below it.
const mysteryIDBase int64 = -1000

// nextMysteryID returns a fresh id from the engine's descending sequence.
// Caller holds the engine lock.
func (e *Engine) nextMysteryID() int64 {
	e.mysterySeq++
	return mysteryIDBase - e.mysterySeq
}

// newMysteryCard synthesizes a placeholder card for a hand slot no real
// candidate could fill. It carries no genre or rating signal.
func (e *Engine) newMysteryCard() models.Movie {
	metrics.MysteryCardsDealt.Inc()
	return models.Movie{
		ID:          e.nextMysteryID(),
		Title:       "Carta Misteriosa",
		Year:        "N/A",
		Poster:      "",
		Overview:    "Una película sorpresa del mazo del dealer.",
		IsMystery:   true,
		MysteryText: "¿Te atreves?",
	}
}

// newBurnWildcard synthesizes the dealer-burn comodín. It keeps the fixed
// high rating of the original game, so it can itself win the round.
func (e *Engine) newBurnWildcard() models.Movie {
	metrics.MysteryCardsDealt.Inc()
	return models.Movie{
		ID:          e.nextMysteryID(),
		Title:       "Comodín del Dealer",
		Year:        "N/A",
		Rating:      e.cfg.MysteryRating,
		Overview:    "El dealer reemplazó tu carta más débil con un comodín.",
		IsMystery:   true,
		MysteryText: "Comodín",
	}
}
