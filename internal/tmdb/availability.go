// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package tmdb

import "context"

// WatchProviderSource is the subset of the client used for availability
// lookups. Satisfied by both Client and CircuitBreakerClient.
type WatchProviderSource interface {
	WatchProviders(ctx context.Context, movieID int64) (*WatchProvidersResponse, error)
}

// AvailabilityChecker answers "is this movie streamable in the configured
// region" for winner resolution. Catalog fallback cards carry negative IDs
// and are always reported available without a network call.
type AvailabilityChecker struct {
	source WatchProviderSource
	region string
}

// NewAvailabilityChecker builds a checker for the given region code
// (ISO 3166-1, e.g. "AR").
func NewAvailabilityChecker(source WatchProviderSource, region string) *AvailabilityChecker {
	return &AvailabilityChecker{source: source, region: region}
}

// Available reports whether the movie has at least one flatrate provider
// in the checker's region.
func (a *AvailabilityChecker) Available(ctx context.Context, movieID int64) (bool, error) {
	if movieID < 0 {
		return true, nil
	}
	resp, err := a.source.WatchProviders(ctx, movieID)
	if err != nil {
		return false, err
	}
	return resp.HasFlatrate(a.region), nil
}
