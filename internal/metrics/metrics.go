// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package metrics provides Prometheus instrumentation for the game engine,
// the TMDB adapter, and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// TMDB provider metrics
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of TMDB API requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, failure, rejected
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "TMDB request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Game engine metrics
	GamesDealt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "games_dealt_total",
			Help: "Total hands dealt, by difficulty tier",
		},
		[]string{"difficulty"},
	)

	SwapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swaps_total",
			Help: "Total successful swap actions",
		},
	)

	DealerBurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dealer_burns_total",
			Help: "Total automatic dealer burn events",
		},
	)

	MysteryCardsDealt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mystery_cards_dealt_total",
			Help: "Total placeholder mystery cards synthesized",
		},
	)

	GamesWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "games_won_total",
			Help: "Total games resolved to a winner",
		},
	)

	ReplacementTierUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replacement_tier_used_total",
			Help: "Replacement cards drawn, by cascade tier",
		},
		[]string{"tier"},
	)

	PoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "candidate_pool_size",
			Help: "Candidates in the most recently built pool",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_game_sessions",
			Help: "Current number of live game sessions",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight API request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTMDBRequest records one provider call.
func RecordTMDBRequest(endpoint, outcome string, duration time.Duration) {
	TMDBRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDeal records a dealt hand for the given difficulty tier.
func RecordDeal(difficulty int) {
	GamesDealt.WithLabelValues(strconv.Itoa(difficulty)).Inc()
}

// RecordReplacementTier records that a cascade tier supplied n cards.
func RecordReplacementTier(tier string, n int) {
	if n > 0 {
		ReplacementTierUsed.WithLabelValues(tier).Add(float64(n))
	}
}
