// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	gorillaws "github.com/gorilla/websocket"

	"github.com/nmoralez/moviedealer/internal/game"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/models"
	"github.com/nmoralez/moviedealer/internal/tmdb"
	"github.com/nmoralez/moviedealer/internal/websocket"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	sessions  *SessionRegistry
	hub       *websocket.Hub
	validate  *validator.Validate
	upgrader  gorillaws.Upgrader
	startTime time.Time
	version   string
}

// NewHandler creates the handler set.
func NewHandler(sessions *SessionRegistry, hub *websocket.Hub, version string) *Handler {
	return &Handler{
		sessions: sessions,
		hub:      hub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game state carries no credentials and sessions are
			// unauthenticated UUIDs, so cross-origin reads are harmless.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		startTime: time.Now(),
		version:   version,
	}
}

// createGameResponse pairs the issued session ID with the initial state.
type createGameResponse struct {
	SessionID string     `json:"session_id"`
	State     game.State `json:"state"`
}

// CreateGame handles POST /api/v1/games.
// The body is optional; when present it may preselect a difficulty.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CreateGameRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest(err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		rw.ValidationError("Invalid request body", validationDetails(err))
		return
	}

	id, engine, err := h.sessions.Create(r.Context())
	if err != nil {
		if errors.Is(err, ErrTooManySessions) {
			rw.ServiceUnavailable("Session limit reached, try again later")
			return
		}
		rw.InternalError("Failed to create session")
		return
	}

	if req.Difficulty != nil {
		if err := engine.SetDifficulty(models.DifficultyLevel(*req.Difficulty)); err != nil {
			h.writeGameError(rw, err)
			return
		}
	}

	rw.Created(createGameResponse{SessionID: id, State: engine.Snapshot()})
}

// GameState handles GET /api/v1/games/{id}.
func (h *Handler) GameState(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}
	rw.Success(engine.Snapshot())
}

// DealHand handles POST /api/v1/games/{id}/deal.
func (h *Handler) DealHand(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	if err := engine.DealHand(r.Context()); err != nil {
		h.writeGameError(rw, err)
		return
	}

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(engine.Snapshot())
}

// EnterConfig handles POST /api/v1/games/{id}/config.
// An optional body switches difficulty in the same call.
func (h *Handler) EnterConfig(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	var req ConfigRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest(err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		rw.ValidationError("Invalid request body", validationDetails(err))
		return
	}

	if err := engine.GoToConfig(); err != nil {
		h.writeGameError(rw, err)
		return
	}
	if req.Difficulty != nil {
		if err := engine.SetDifficulty(models.DifficultyLevel(*req.Difficulty)); err != nil {
			h.writeGameError(rw, err)
			return
		}
	}

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(engine.Snapshot())
}

// UpdateFilters handles PUT /api/v1/games/{id}/filters.
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	var filters models.ManualFilters
	if err := decodeJSON(w, r, &filters); err != nil {
		if errors.Is(err, errEmptyBody) {
			rw.BadRequest("Request body is required")
			return
		}
		rw.BadRequest(err.Error())
		return
	}
	if err := h.validate.Struct(filters); err != nil {
		rw.ValidationError("Invalid filter criteria", validationDetails(err))
		return
	}

	if err := engine.SetFilters(r.Context(), filters); err != nil {
		h.writeGameError(rw, err)
		return
	}

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(engine.Snapshot())
}

// SwapCards handles POST /api/v1/games/{id}/swap.
func (h *Handler) SwapCards(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	var req SwapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			rw.BadRequest("Request body is required")
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	if err := engine.SwapCards(r.Context(), req.KeepIDs); err != nil {
		h.writeGameError(rw, err)
		return
	}

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(engine.Snapshot())
}

// standResponse carries the resolved winner alongside the state.
type standResponse struct {
	Winner models.Movie `json:"winner"`
	State  game.State   `json:"state"`
}

// Stand handles POST /api/v1/games/{id}/stand.
func (h *Handler) Stand(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	winner, err := engine.Stand(r.Context())
	if err != nil {
		h.writeGameError(rw, err)
		return
	}

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(standResponse{Winner: winner, State: engine.Snapshot()})
}

// ResetGame handles POST /api/v1/games/{id}/reset.
func (h *Handler) ResetGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engine, ok := h.engineFor(rw, r)
	if !ok {
		return
	}

	engine.Reset()

	h.publish(chi.URLParam(r, "id"), engine)
	rw.Success(engine.Snapshot())
}

// WebSocket handles GET /api/v1/games/{id}/ws, upgrading the connection
// and attaching it to the state feed hub scoped to the session.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	engine, err := h.sessions.Get(sessionID)
	if err != nil {
		NewResponseWriter(w, r).NotFound("Unknown session")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		logging.Warn().Err(err).Str("session_id", sessionID).Msg("Websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, sessionID)
	client.Start()

	// Prime the new subscriber so it does not wait for the next action.
	h.hub.BroadcastState(sessionID, engine.Snapshot())
}

// engineFor resolves {id} to an engine, writing a 404 when absent.
func (h *Handler) engineFor(rw *ResponseWriter, r *http.Request) (*game.Engine, bool) {
	engine, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		rw.NotFound("Unknown session")
		return nil, false
	}
	return engine, true
}

// publish pushes the current snapshot to the session's websocket feed.
func (h *Handler) publish(sessionID string, engine *game.Engine) {
	h.hub.BroadcastState(sessionID, engine.Snapshot())
}

// writeGameError maps engine errors onto HTTP status codes.
func (h *Handler) writeGameError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrBusy):
		rw.Conflict("Another operation is already in flight")
	case errors.Is(err, game.ErrPhase):
		rw.Conflict(err.Error())
	case errors.Is(err, game.ErrSuperseded):
		rw.Conflict("Operation superseded by a reset")
	case errors.Is(err, game.ErrInvalidDifficulty):
		rw.BadRequest(err.Error())
	case errors.Is(err, game.ErrNoCandidates):
		rw.ServiceUnavailable("No candidates available for the current criteria")
	case errors.Is(err, tmdb.ErrAuth), errors.Is(err, tmdb.ErrTransport):
		rw.ExternalServiceError("tmdb", err)
	default:
		logging.Error().Err(err).Msg("Unhandled game error")
		rw.InternalError("Internal server error")
	}
}
