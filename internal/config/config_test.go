// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultGameRules(t *testing.T) {
	cfg := Default()

	t.Run("discard schedule", func(t *testing.T) {
		want := []int{4, 3, 2}
		if len(cfg.Game.DiscardCaps) != len(want) {
			t.Fatalf("discard caps = %v, want %v", cfg.Game.DiscardCaps, want)
		}
		for i, w := range want {
			if cfg.Game.DiscardCaps[i] != w {
				t.Errorf("discard cap round %d = %d, want %d", i+1, cfg.Game.DiscardCaps[i], w)
			}
		}
	})

	t.Run("hand size", func(t *testing.T) {
		if cfg.Game.HandSize != 5 {
			t.Errorf("hand size = %d, want 5", cfg.Game.HandSize)
		}
	})

	t.Run("tie epsilon", func(t *testing.T) {
		if cfg.Game.TieEpsilon != 0.2 {
			t.Errorf("tie epsilon = %f, want 0.2", cfg.Game.TieEpsilon)
		}
	})
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"empty base url", func(c *Config) { c.TMDB.BaseURL = "" }},
		{"tiny hand", func(c *Config) { c.Game.HandSize = 1 }},
		{"no discard caps", func(c *Config) { c.Game.DiscardCaps = nil }},
		{"discard cap above hand size", func(c *Config) { c.Game.DiscardCaps = []int{9} }},
		{"burn round one", func(c *Config) { c.Game.BurnRound = 1 }},
		{"negative epsilon", func(c *Config) { c.Game.TieEpsilon = -0.1 }},
		{"seen cap below hand", func(c *Config) { c.Game.SeenCap = 2 }},
		{"zero rps", func(c *Config) { c.TMDB.RequestsPerSecond = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("GAME_HAND_SIZE", "6")
	t.Setenv("TMDB_REGION", "ES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Game.HandSize != 6 {
		t.Errorf("hand size = %d, want 6", cfg.Game.HandSize)
	}
	if cfg.TMDB.Region != "ES" {
		t.Errorf("region = %q, want ES", cfg.TMDB.Region)
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	t.Setenv("RANDOM_UNRELATED_VAR", "value")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error with unrelated env: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  port: 7777\ngame:\n  veto_threshold: 5\n  reveal_delay: 500ms\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Game.VetoThreshold != 5 {
		t.Errorf("veto threshold = %d, want 5", cfg.Game.VetoThreshold)
	}
	if cfg.Game.RevealDelay != 500*time.Millisecond {
		t.Errorf("reveal delay = %v, want 500ms", cfg.Game.RevealDelay)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("TMDB_API_KEY"); got != "tmdb.api_key" {
		t.Errorf("TMDB_API_KEY -> %q", got)
	}
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("PATH should be dropped, got %q", got)
	}
}
