// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/metrics"
)

// CircuitBreakerClient wraps Client with circuit breaker protection so a
// flapping provider cannot stall every deal and swap.
//
// The breaker uses real time for its interval and timeout calculations;
// tests should mock the wrapped client rather than the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a TMDB client guarded by a breaker that
// opens at a 60% failure rate over at least 10 requests, stays open for
// two minutes, and admits 3 probe requests when half-open.
func NewCircuitBreakerClient(cfg *config.TMDBConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: cbName}
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.TMDBRequestsTotal.WithLabelValues("breaker", "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			// Rejections surface as transport failures to callers.
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil, err
	}
	return result, nil
}

// castResult type-casts the breaker result with error checking.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// DiscoverMovies runs a discovery query with circuit breaker protection.
func (cbc *CircuitBreakerClient) DiscoverMovies(ctx context.Context, q DiscoverQuery) (*DiscoverResponse, error) {
	return castResult[DiscoverResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.DiscoverMovies(ctx, q)
	}))
}

// WatchProviders fetches availability data with circuit breaker protection.
func (cbc *CircuitBreakerClient) WatchProviders(ctx context.Context, movieID int64) (*WatchProvidersResponse, error) {
	return castResult[WatchProvidersResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.WatchProviders(ctx, movieID)
	}))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
