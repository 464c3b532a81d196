// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package api exposes the game engine over HTTP: a Chi router, one
// handler per game action, a session registry keyed by UUID, and the
// websocket state feed. All responses use the standardized APIResponse
// envelope.
package api
