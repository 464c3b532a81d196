// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/nmoralez/moviedealer/internal/config"
)

func testConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Language:          "es-ES",
		Region:            "AR",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}
}

func TestDiscoverMovies(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":2,"total_pages":10,"total_results":200,"results":[
			{"id":603,"title":"The Matrix","release_date":"1999-03-31","vote_average":8.2,"vote_count":24000,"popularity":85.1,"poster_path":"/matrix.jpg","overview":"hacker","genre_ids":[28,878]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	resp, err := c.DiscoverMovies(context.Background(), DiscoverQuery{
		Page:           2,
		VoteCountGTE:   5000,
		PopularityGTE:  500,
		WithGenres:     []int{28, 878},
		WithoutGenres:  []int{27},
		ReleaseDateGTE: "1990-01-01",
		ReleaseDateLTE: "1999-12-31",
	})
	if err != nil {
		t.Fatalf("DiscoverMovies error: %v", err)
	}

	if len(resp.Results) != 1 || resp.Results[0].ID != 603 {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	if resp.Results[0].GenreIDs[1] != 878 {
		t.Errorf("genre ids not decoded: %v", resp.Results[0].GenreIDs)
	}

	checks := map[string]string{
		"api_key":                  "test-key",
		"language":                 "es-ES",
		"include_adult":            "false",
		"sort_by":                  "popularity.desc",
		"page":                     "2",
		"vote_count.gte":           "5000",
		"popularity.gte":           "500",
		"with_genres":              "28|878",
		"without_genres":           "27",
		"primary_release_date.gte": "1990-01-01",
		"primary_release_date.lte": "1999-12-31",
	}
	for k, want := range checks {
		if got := gotQuery.Get(k); got != want {
			t.Errorf("query %s = %q, want %q", k, got, want)
		}
	}
}

func TestDiscoverMoviesEmptyResultIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"total_pages":0,"total_results":0,"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	resp, err := c.DiscoverMovies(context.Background(), DiscoverQuery{})
	if err != nil {
		t.Fatalf("empty result set must not error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
}

func TestDiscoverMoviesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.DiscoverMovies(context.Background(), DiscoverQuery{})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestDiscoverMoviesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.DiscoverMovies(context.Background(), DiscoverQuery{})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestDiscoverMoviesRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	c.retryBaseDelay = time.Millisecond

	if _, err := c.DiscoverMovies(context.Background(), DiscoverQuery{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestWatchProvidersFlatrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/watch/providers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":603,"results":{
			"AR":{"flatrate":[{"provider_id":8,"provider_name":"Netflix","logo_path":"/n.jpg"}]},
			"US":{"rent":[{"provider_id":2,"provider_name":"Apple TV","logo_path":"/a.jpg"}]}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	resp, err := c.WatchProviders(context.Background(), 603)
	if err != nil {
		t.Fatalf("WatchProviders error: %v", err)
	}

	if !resp.HasFlatrate("AR") {
		t.Error("expected flatrate availability in AR")
	}
	if resp.HasFlatrate("US") {
		t.Error("rent-only region must not count as available")
	}
	if resp.HasFlatrate("DE") {
		t.Error("absent region must not count as available")
	}
}

func TestHasFlatrateNilReceiver(t *testing.T) {
	var resp *WatchProvidersResponse
	if resp.HasFlatrate("AR") {
		t.Error("nil response must report unavailable")
	}
}
