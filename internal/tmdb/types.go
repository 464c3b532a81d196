// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package tmdb

// DiscoverQuery carries the filter parameters for a /discover/movie call.
// Zero values mean "not set" and are omitted from the request.
type DiscoverQuery struct {
	Page           int
	SortBy         string // defaults to popularity.desc
	VoteCountGTE   int
	VoteCountLTE   int
	VoteAverageGTE float64
	PopularityGTE  float64
	PopularityLTE  float64
	// WithGenres is OR-joined (TMDB pipe separator).
	WithGenres    []int
	WithoutGenres []int
	// ReleaseDateGTE/LTE are YYYY-MM-DD bounds on primary_release_date.
	ReleaseDateGTE string
	ReleaseDateLTE string
	WithPeople     int64
}

// RawMovie is one record of a discover response, as the provider ships it.
type RawMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
}

// DiscoverResponse is the paged discover payload.
type DiscoverResponse struct {
	Page         int        `json:"page"`
	Results      []RawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// WatchProvider is one streaming provider entry.
type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// RegionProviders groups the provider lists for one country code.
type RegionProviders struct {
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
}

// WatchProvidersResponse is the /movie/{id}/watch/providers payload.
type WatchProvidersResponse struct {
	ID      int64                      `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// HasFlatrate reports whether at least one subscription provider serves
// the title in the given region.
func (r *WatchProvidersResponse) HasFlatrate(region string) bool {
	if r == nil {
		return false
	}
	rp, ok := r.Results[region]
	return ok && len(rp.Flatrate) > 0
}

// statusError is the provider's JSON error envelope.
type statusError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
