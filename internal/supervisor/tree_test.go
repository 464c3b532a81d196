// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package supervisor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type blockingService struct {
	started atomic.Int32
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func newTestTree(t *testing.T) *Tree {
	t.Helper()

	tree, err := NewTree(slog.Default(), DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

func TestTreeRunsServicesInAllLayers(t *testing.T) {
	tree := newTestTree(t)

	data := &blockingService{}
	messaging := &blockingService{}
	api := &blockingService{}
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for data.started.Load() == 0 || messaging.started.Load() == 0 || api.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("services not started: data=%d messaging=%d api=%d",
				data.started.Load(), messaging.started.Load(), api.started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}
}

func TestTreeConfigDefaultsApplied(t *testing.T) {
	tree, err := NewTree(slog.Default(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
}
