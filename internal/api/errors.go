// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import "errors"

var (
	// ErrSessionNotFound indicates the session ID does not exist or has
	// already been evicted.
	ErrSessionNotFound = errors.New("api: session not found")

	// ErrTooManySessions indicates the registry is at capacity.
	ErrTooManySessions = errors.New("api: session limit reached")
)
