// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package tmdb implements the movie catalog provider client.
//
// The client pairs a token-bucket rate limiter with automatic HTTP 429
// backoff, distinguishes auth failures from transport failures, and never
// treats an empty result page as an error. CircuitBreakerClient wraps it
// with sony/gobreaker protection for use by the candidate source adapter.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/metrics"
)

// Sentinel errors. ErrAuth and ErrTransport are the distinguishable
// failure classes the engine surfaces to the player; an empty result set
// is returned as an empty response, never as an error.
var (
	// ErrAuth indicates rejected credentials (HTTP 401).
	ErrAuth = errors.New("tmdb: invalid or missing API key")

	// ErrTransport indicates the provider was unreachable or returned an
	// unexpected status.
	ErrTransport = errors.New("tmdb: transport failure")
)

// maxErrorBodySize bounds how much of an error response body is read back
// for diagnostics.
const maxErrorBodySize = 64 * 1024

// Client talks to the TMDB HTTP API.
//
// Thread safety: safe for concurrent use; each request builds its own
// http.Request and the limiter is internally synchronized.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a TMDB client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:     5,
		retryBaseDelay: time.Second,
	}
}

// DiscoverMovies runs a discovery query and returns one result page.
func (c *Client) DiscoverMovies(ctx context.Context, q DiscoverQuery) (*DiscoverResponse, error) {
	params := discoverParams(q)
	start := time.Now()

	var resp DiscoverResponse
	err := c.get(ctx, "/discover/movie", params, &resp)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordTMDBRequest("discover", outcome, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// WatchProviders fetches per-region streaming availability for a movie.
func (c *Client) WatchProviders(ctx context.Context, movieID int64) (*WatchProvidersResponse, error) {
	start := time.Now()

	var resp WatchProvidersResponse
	err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), url.Values{}, &resp)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordTMDBRequest("watch_providers", outcome, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a rate-limited GET with 429 backoff, decodes the JSON body
// into result, and maps error statuses onto the sentinel errors.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	params.Set("api_key", c.apiKey)
	if c.language != "" && !params.Has("language") {
		params.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.doWithBackoff(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", ErrTransport, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrAuth, readStatusMessage(resp.Body))
	default:
		return fmt.Errorf("%w: %s returned status %d: %s", ErrTransport, path, resp.StatusCode, readStatusMessage(resp.Body))
	}
}

// doWithBackoff waits for the rate limiter, then retries HTTP 429
// responses with exponential backoff (1s, 2s, 4s, 8s, 16s), honoring
// Retry-After when present.
func (c *Client) doWithBackoff(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("%w: creating request: %v", ErrTransport, err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			return nil, fmt.Errorf("%w: rate limit exceeded after %d retries", ErrTransport, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// discoverParams translates a DiscoverQuery into URL parameters. Unset
// fields are omitted.
func discoverParams(q DiscoverQuery) url.Values {
	params := url.Values{}
	params.Set("include_adult", "false")

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params.Set("sort_by", sortBy)

	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.VoteCountGTE > 0 {
		params.Set("vote_count.gte", strconv.Itoa(q.VoteCountGTE))
	}
	if q.VoteCountLTE > 0 {
		params.Set("vote_count.lte", strconv.Itoa(q.VoteCountLTE))
	}
	if q.VoteAverageGTE > 0 {
		params.Set("vote_average.gte", formatFloat(q.VoteAverageGTE))
	}
	if q.PopularityGTE > 0 {
		params.Set("popularity.gte", formatFloat(q.PopularityGTE))
	}
	if q.PopularityLTE > 0 {
		params.Set("popularity.lte", formatFloat(q.PopularityLTE))
	}
	if len(q.WithGenres) > 0 {
		params.Set("with_genres", joinIDs(q.WithGenres, "|"))
	}
	if len(q.WithoutGenres) > 0 {
		params.Set("without_genres", joinIDs(q.WithoutGenres, ","))
	}
	if q.ReleaseDateGTE != "" {
		params.Set("primary_release_date.gte", q.ReleaseDateGTE)
	}
	if q.ReleaseDateLTE != "" {
		params.Set("primary_release_date.lte", q.ReleaseDateLTE)
	}
	if q.WithPeople > 0 {
		params.Set("with_people", strconv.FormatInt(q.WithPeople, 10))
	}

	return params
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// joinIDs joins genre IDs with sep; pipe means OR, comma means AND on the
// provider side.
func joinIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

// readStatusMessage extracts the provider's status_message from an error
// body, falling back to the raw (truncated) body.
func readStatusMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	var se statusError
	if err := json.Unmarshal(body, &se); err == nil && se.StatusMessage != "" {
		return se.StatusMessage
	}
	return string(body)
}
