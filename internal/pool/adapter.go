// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package pool implements the candidate source adapter: it translates the
// player's filters and the session's learned bias into provider discovery
// queries, fans out several page fetches in parallel, and normalizes the
// raw records into the internal Movie shape.
package pool

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/metrics"
	"github.com/nmoralez/moviedealer/internal/models"
	"github.com/nmoralez/moviedealer/internal/tmdb"
)

// PosterPlaceholder is used when the provider carries no poster reference.
const PosterPlaceholder = "https://via.placeholder.com/500x750?text=No+Poster"

// Floors that the highest difficulty tier never relaxes, even in the
// fallback batch. They preserve the classics-only semantics of the tier.
const (
	classicsMinRating    = 7.5
	classicsMinVoteCount = 1000
)

// classicsTierMin is the lowest difficulty level treated as the classics
// tier.
const classicsTierMin = 5

// Provider is the slice of the TMDB client the adapter consumes.
type Provider interface {
	DiscoverMovies(ctx context.Context, q tmdb.DiscoverQuery) (*tmdb.DiscoverResponse, error)
}

// Adapter builds candidate pools from the provider.
//
// The random source is injected for test reproducibility; it only picks
// the starting page offset.
type Adapter struct {
	provider     Provider
	game         *config.GameConfig
	imageBaseURL string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewAdapter creates a candidate source adapter.
func NewAdapter(provider Provider, game *config.GameConfig, imageBaseURL string, rng *rand.Rand) *Adapter {
	return &Adapter{
		provider:     provider,
		game:         game,
		imageBaseURL: imageBaseURL,
		rng:          rng,
	}
}

// FetchCandidates builds a candidate pool for the given difficulty level,
// manual filters, and learned bias. Manual criteria always override the
// learned bias; vetoed genres are applied as hard exclusions.
//
// Several pages are fetched in parallel from a randomized offset; any
// single page failure fails the whole batch. When the combined pool is
// below the minimum and decade/person filters were active, one broadened
// secondary batch runs with those constraints loosened (never below the
// classics floors at the highest tier).
//
// An empty pool is a valid result, not an error.
func (a *Adapter) FetchCandidates(ctx context.Context, level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias) ([]models.Movie, error) {
	query := a.baseQuery(level, manual, bias)

	movies, err := a.fetchBatch(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(movies) < a.game.PoolMinSize && (len(manual.Decades) > 0 || manual.Person != nil) {
		logging.Debug().
			Int("pool_size", len(movies)).
			Int("min", a.game.PoolMinSize).
			Msg("pool underfilled, broadening constraints")

		broadened, err := a.fetchBatch(ctx, a.broadenQuery(query, level))
		if err != nil {
			return nil, err
		}
		movies = append(movies, broadened...)
	}

	metrics.PoolSize.Set(float64(len(movies)))
	return dedupeByID(movies), nil
}

// baseQuery merges the tier strategy, manual filters, and learned bias
// into one discovery query (without a page number).
func (a *Adapter) baseQuery(level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias) tmdb.DiscoverQuery {
	q := tierQuery(level)

	if manual.MinRating > q.VoteAverageGTE {
		q.VoteAverageGTE = manual.MinRating
	}
	if from, to, ok := manual.DecadeRange(); ok {
		q.ReleaseDateGTE = fmt.Sprintf("%d-01-01", from)
		q.ReleaseDateLTE = fmt.Sprintf("%d-12-31", to)
	}
	if manual.Person != nil {
		q.WithPeople = manual.Person.ID
	}

	switch {
	case len(manual.Genres) > 0:
		// Explicit filters always win over the implicit bias.
		q.WithGenres = genreIDList(manual.Genres)
	case len(bias.DesiredGenres) > 0:
		top := bias.DesiredGenres
		if len(top) > a.game.TopDesired {
			top = top[:a.game.TopDesired]
		}
		q.WithGenres = genreIDList(top)
	}

	if len(bias.VetoedGenres) > 0 {
		q.WithoutGenres = genreIDList(bias.VetoedGenres)
	}

	return q
}

// broadenQuery relaxes decade and person constraints for the fallback
// batch. The classics tier keeps its rating and vote-count floors.
func (a *Adapter) broadenQuery(q tmdb.DiscoverQuery, level models.DifficultyLevel) tmdb.DiscoverQuery {
	q.ReleaseDateGTE = ""
	q.ReleaseDateLTE = ""
	q.WithPeople = 0
	q.VoteCountGTE = q.VoteCountGTE / 2

	if level >= classicsTierMin {
		if q.VoteAverageGTE < classicsMinRating {
			q.VoteAverageGTE = classicsMinRating
		}
		if q.VoteCountGTE < classicsMinVoteCount {
			q.VoteCountGTE = classicsMinVoteCount
		}
	}
	return q
}

// fetchBatch fans out the configured number of page requests in parallel
// from a randomized starting page and concatenates the results. One page
// failure fails the batch.
func (a *Adapter) fetchBatch(ctx context.Context, query tmdb.DiscoverQuery) ([]models.Movie, error) {
	startPage := a.randStartPage()
	pages := make([][]models.Movie, a.game.PoolPages)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < a.game.PoolPages; i++ {
		q := query
		q.Page = startPage + i
		slot := i
		g.Go(func() error {
			resp, err := a.provider.DiscoverMovies(gctx, q)
			if err != nil {
				return fmt.Errorf("pool page %d: %w", q.Page, err)
			}
			pages[slot] = a.normalize(resp.Results)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var movies []models.Movie
	for _, page := range pages {
		movies = append(movies, page...)
	}
	return movies, nil
}

func (a *Adapter) randStartPage() int {
	span := a.game.PoolStartPageSpan
	if span < 1 {
		span = 1
	}
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	return a.rng.Intn(span) + 1
}

// normalize converts raw provider records into the internal Movie shape.
func (a *Adapter) normalize(raw []tmdb.RawMovie) []models.Movie {
	movies := make([]models.Movie, 0, len(raw))
	for _, r := range raw {
		movies = append(movies, models.Movie{
			ID:         r.ID,
			Title:      r.Title,
			Year:       yearOf(r.ReleaseDate),
			Rating:     r.VoteAverage,
			Popularity: r.Popularity,
			VoteCount:  r.VoteCount,
			Poster:     a.posterURL(r.PosterPath),
			Overview:   r.Overview,
			Genres:     genreNameList(r.GenreIDs),
		})
	}
	return movies
}

func (a *Adapter) posterURL(path string) string {
	if path == "" {
		return PosterPlaceholder
	}
	return a.imageBaseURL + path
}

// tierQuery maps a difficulty level to its query strategy: mainstream
// hits, overlooked quality, or canon classics.
func tierQuery(level models.DifficultyLevel) tmdb.DiscoverQuery {
	switch {
	case level <= 2:
		return tmdb.DiscoverQuery{
			VoteCountGTE:  5000,
			PopularityGTE: 500,
		}
	case level <= 4:
		return tmdb.DiscoverQuery{
			VoteAverageGTE: 7.0,
			PopularityGTE:  100,
			PopularityLTE:  500,
		}
	default:
		return tmdb.DiscoverQuery{
			VoteAverageGTE: 7.8,
			VoteCountGTE:   2000,
			ReleaseDateLTE: "2009-12-31",
			SortBy:         "vote_average.desc",
		}
	}
}

func yearOf(releaseDate string) string {
	if len(releaseDate) < 4 {
		return "N/A"
	}
	year := releaseDate[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return "N/A"
	}
	return year
}

func dedupeByID(movies []models.Movie) []models.Movie {
	seen := make(map[int64]struct{}, len(movies))
	out := movies[:0]
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
