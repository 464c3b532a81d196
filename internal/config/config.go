// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package config provides layered configuration loading for MovieDealer
// using Koanf v2: built-in defaults, an optional YAML file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the MovieDealer server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Game    GameConfig    `koanf:"game"`
	Ledger  LedgerConfig  `koanf:"ledger"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// TMDBConfig holds the movie catalog provider settings.
type TMDBConfig struct {
	BaseURL      string        `koanf:"base_url"`
	ImageBaseURL string        `koanf:"image_base_url"`
	APIKey       string        `koanf:"api_key"`
	Language     string        `koanf:"language"`
	// Region is the country code used for streaming availability lookups.
	Region       string        `koanf:"region"`
	Timeout      time.Duration `koanf:"timeout"`
	// RequestsPerSecond paces outbound discover/availability calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// GameConfig holds the tunable rules of the card game. The shipped
// values are representative defaults, not hard-coded law.
type GameConfig struct {
	// HandSize is the number of cards dealt and maintained.
	HandSize int `koanf:"hand_size"`
	// GenreCap limits cards sharing a primary genre in the initial hand.
	GenreCap int `koanf:"genre_cap"`
	// DiscardCaps is the per-round discard allowance; rounds beyond the
	// slice allow zero discards.
	DiscardCaps []int `koanf:"discard_caps"`
	// BurnRound is the round value at which the one-time dealer burn fires.
	BurnRound int `koanf:"burn_round"`
	// VetoThreshold is the discard count at which a genre becomes vetoed.
	VetoThreshold int `koanf:"veto_threshold"`
	// TopDesired is how many top kept genres feed the fetch bias.
	TopDesired int `koanf:"top_desired"`
	// TieEpsilon is the rating window for the winner tie set.
	TieEpsilon float64 `koanf:"tie_epsilon"`
	// PoolPages is the number of provider pages fetched per pool build.
	PoolPages int `koanf:"pool_pages"`
	// PoolStartPageSpan randomizes the first page in [1, span].
	PoolStartPageSpan int `koanf:"pool_start_page_span"`
	// PoolMinSize triggers the fallback-broadening batch when underfilled.
	PoolMinSize int `koanf:"pool_min_size"`
	// SeenCap bounds the cross-session seen-ids ledger.
	SeenCap int `koanf:"seen_cap"`
	// RevealDelay is the fixed revealing-phase duration before won.
	RevealDelay time.Duration `koanf:"reveal_delay"`
	// MysteryRating is the rating carried by the dealer-burn mystery
	// fallback card.
	MysteryRating float64 `koanf:"mystery_rating"`
}

// LedgerConfig holds cross-session persistence settings.
type LedgerConfig struct {
	// Path is the BadgerDB directory. Empty selects the in-memory store.
	Path string `koanf:"path"`
	// GCInterval is how often Badger value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would leave the engine
// in an unplayable state.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("tmdb.requests_per_second must be positive")
	}
	if c.Game.HandSize < 2 {
		return fmt.Errorf("game.hand_size %d too small, need at least 2", c.Game.HandSize)
	}
	if c.Game.GenreCap < 1 {
		return fmt.Errorf("game.genre_cap must be at least 1")
	}
	if len(c.Game.DiscardCaps) == 0 {
		return fmt.Errorf("game.discard_caps must name at least one round")
	}
	for i, allowance := range c.Game.DiscardCaps {
		if allowance < 0 || allowance > c.Game.HandSize {
			return fmt.Errorf("game.discard_caps[%d] = %d out of range for hand size %d", i, allowance, c.Game.HandSize)
		}
	}
	if c.Game.BurnRound < 2 {
		return fmt.Errorf("game.burn_round must be at least 2")
	}
	if c.Game.VetoThreshold < 1 {
		return fmt.Errorf("game.veto_threshold must be at least 1")
	}
	if c.Game.TieEpsilon < 0 {
		return fmt.Errorf("game.tie_epsilon must not be negative")
	}
	if c.Game.PoolPages < 1 {
		return fmt.Errorf("game.pool_pages must be at least 1")
	}
	if c.Game.SeenCap < c.Game.HandSize {
		return fmt.Errorf("game.seen_cap %d smaller than hand size %d", c.Game.SeenCap, c.Game.HandSize)
	}
	return nil
}

// Default returns a Config with all defaults applied. Defaults are
// layered first and overridden by file and environment sources.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
			APIKey:            "",
			Language:          "es-ES",
			Region:            "AR",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 4,
			Burst:             8,
		},
		Game: GameConfig{
			HandSize:          5,
			GenreCap:          2,
			DiscardCaps:       []int{4, 3, 2},
			BurnRound:         2,
			VetoThreshold:     3,
			TopDesired:        3,
			TieEpsilon:        0.2,
			PoolPages:         5,
			PoolStartPageSpan: 5,
			PoolMinSize:       10,
			SeenCap:           500,
			RevealDelay:       1200 * time.Millisecond,
			MysteryRating:     9.9,
		},
		Ledger: LedgerConfig{
			Path:       "/data/moviedealer",
			GCInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
