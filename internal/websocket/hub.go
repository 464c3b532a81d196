// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package websocket implements the state feed: a hub broadcasting game
// state snapshots to the browser clients watching each session.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/nmoralez/moviedealer/internal/logging"
)

// Message types pushed over the state feed.
const (
	MessageTypeState = "state"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// Message is one state-feed frame. SessionID scopes game state messages
// to the clients watching that session; an empty SessionID goes to all.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

// Hub maintains the set of connected state-feed clients and routes game
// snapshots to the clients watching each session.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub event loop until the context is canceled,
// then closes every client and returns ctx.Err(). Designed for suture
// supervision: a restart never leaves orphaned connections.
//
// Lifecycle events take priority over broadcasts so client state is
// consistent before messages are routed.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	logging.Debug().Str("session_id", client.sessionID).Int("total_clients", total).Msg("state feed client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Debug().Str("session_id", client.sessionID).Int("total_clients", total).Msg("state feed client disconnected")
}

// BroadcastState pushes a game state snapshot to every client watching
// the session. Non-blocking: the frame is dropped when the hub's queue
// is full.
func (h *Hub) BroadcastState(sessionID string, state interface{}) {
	msg := Message{Type: MessageTypeState, SessionID: sessionID, Data: state}
	select {
	case h.broadcast <- msg:
	default:
		logging.Warn().Str("session_id", sessionID).Msg("state feed queue full, dropping snapshot")
	}
}

// broadcastToClients delivers a message to the matching clients in a
// deterministic order. Slow clients are skipped rather than blocking
// the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if message.SessionID == "" || client.sessionID == message.SessionID {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	for _, client := range targets {
		select {
		case client.send <- message:
		default:
			logging.Warn().Uint64("client_id", client.id).Msg("client send queue full, dropping message")
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "state-feed-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("state feed hub stopped")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
