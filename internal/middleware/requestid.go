// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package middleware provides the HTTP middleware stack: request ID
// propagation, Prometheus instrumentation, and security headers. CORS
// and rate limiting come from the chi ecosystem and are wired in the
// router.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nmoralez/moviedealer/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID tags every request with a unique ID, honoring an upstream
// X-Request-ID header when present. The ID lands in the response header
// and in the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
