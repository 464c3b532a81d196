// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nmoralez/moviedealer/internal/config"
)

func TestMiddlewareConfigFromServer(t *testing.T) {
	cfg := &config.ServerConfig{
		CORSOrigins:     []string{"https://play.example.com"},
		RateLimitReqs:   30,
		RateLimitWindow: 30 * time.Second,
	}

	mc := MiddlewareConfigFromServer(cfg)
	if len(mc.CORSAllowedOrigins) != 1 || mc.CORSAllowedOrigins[0] != "https://play.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", mc.CORSAllowedOrigins)
	}
	if mc.RateLimitRequests != 30 {
		t.Errorf("RateLimitRequests = %d, want 30", mc.RateLimitRequests)
	}
	if mc.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", mc.RateLimitWindow)
	}
}

func TestMiddlewareConfigKeepsDefaultsForZeroValues(t *testing.T) {
	mc := MiddlewareConfigFromServer(&config.ServerConfig{})
	if mc.RateLimitRequests != 120 {
		t.Errorf("RateLimitRequests = %d, want default 120", mc.RateLimitRequests)
	}
	if mc.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want default 1m", mc.RateLimitWindow)
	}
}

func TestRateLimitWritesEnvelopeOn429(t *testing.T) {
	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitRequests = 1
	mc.RateLimitWindow = time.Minute
	mw := NewChiMiddleware(mc)

	handler := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("first request status = %d, want 200", rec.Code)
		}
		if i == 1 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("second request status = %d, want 429", rec.Code)
			}
			env := decodeEnvelope(t, rec, nil)
			if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
				t.Errorf("error envelope = %+v, want code %s", env.Error, ErrCodeTooManyRequests)
			}
		}
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitRequests = 1
	mc.RateLimitDisabled = true
	mw := NewChiMiddleware(mc)

	handler := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}
