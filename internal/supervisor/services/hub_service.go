// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package services

import (
	"context"

	"github.com/nmoralez/moviedealer/internal/websocket"
)

// HubService supervises the websocket state feed hub. The hub's
// RunWithContext already blocks until cancellation, so the wrapper is a
// thin adapter that gives suture a named service.
type HubService struct {
	hub  *websocket.Hub
	name string
}

// NewHubService creates the wrapper.
func NewHubService(hub *websocket.Hub) *HubService {
	return &HubService{
		hub:  hub,
		name: "state-feed-hub",
	}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String identifies the service in suture log events.
func (s *HubService) String() string {
	return s.name
}
