// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// maxRequestBody bounds request body size for all JSON endpoints.
const maxRequestBody = 1 << 20 // 1 MiB

// CreateGameRequest is the optional body for session creation.
type CreateGameRequest struct {
	// Difficulty preselects a tier; omit to start at the default.
	Difficulty *int `json:"difficulty" validate:"omitempty,gte=1,lte=6"`
}

// ConfigRequest is the optional body for entering the configuration
// phase, optionally switching difficulty in the same call.
type ConfigRequest struct {
	Difficulty *int `json:"difficulty" validate:"omitempty,gte=1,lte=6"`
}

// SwapRequest names the cards the player keeps; everything else in the
// hand is discarded and replaced.
type SwapRequest struct {
	KeepIDs []int64 `json:"keep_ids"`
}

// decodeJSON decodes a bounded JSON body into dst. An empty body is
// reported via errEmptyBody so handlers with optional bodies can treat
// it as defaults.
var errEmptyBody = errors.New("api: empty request body")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return errEmptyBody
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// fieldError is a single validation failure in a client-friendly shape.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

// validationDetails flattens validator errors for the response envelope.
func validationDetails(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Rule: err.Error()}}
	}

	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Value: fmt.Sprintf("%v", fe.Value()),
		})
	}
	return details
}
