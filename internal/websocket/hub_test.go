// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan Message, 64),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := newTestClient(hub, "s1")
	hub.Register <- client
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister <- client
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// Unregistering closes the send channel.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel closed")
		}
	case <-time.After(time.Second):
		t.Error("send channel not closed after unregister")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext() = %v, want context.Canceled", err)
	}
}

func TestHubBroadcastScopedToSession(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	watcher := newTestClient(hub, "s1")
	other := newTestClient(hub, "s2")
	hub.Register <- watcher
	hub.Register <- other
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.BroadcastState("s1", map[string]string{"phase": "playing"})

	select {
	case msg := <-watcher.send:
		if msg.Type != MessageTypeState || msg.SessionID != "s1" {
			t.Errorf("got message %+v, want state frame for s1", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("watching client received nothing")
	}

	select {
	case msg := <-other.send:
		t.Errorf("client for another session received %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := newTestClient(hub, "s1")
	hub.Register <- client
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-done

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d after shutdown, want 0", got)
	}
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel closed on shutdown")
		}
	case <-time.After(time.Second):
		t.Error("send channel not closed on shutdown")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not reached in time")
		case <-time.After(2 * time.Millisecond):
		}
	}
}
