// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import (
	"net/http"
	"time"
)

// healthResponse is the payload for GET /api/v1/health.
type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Sessions      int    `json:"sessions"`
}

// Health handles GET /api/v1/health. The process serving the request is
// the only dependency a game session strictly needs (the catalog
// provider degrades to the fallback deck), so reachable means healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(healthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Sessions:      h.sessions.Count(),
	})
}
