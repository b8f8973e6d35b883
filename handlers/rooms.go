// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/cliparse"
	"github.com/storyvote/storyvote/middleware"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
)

type RoomHandler struct {
	store    *store.Store
	cfg      cliparse.Config
	notifier notify.Notifier
}

func NewRoomHandler(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *RoomHandler {
	return &RoomHandler{store: st, cfg: cfg, notifier: notifier}
}

// EnsureRoom handles POST /rooms
// Creates the room on first reference; an existing room is a no-op apart
// from the first-admin-wins passcode backfill.
func (h *RoomHandler) EnsureRoom(w http.ResponseWriter, r *http.Request) {
	var req models.EnsureRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	slug := auth.NormalizeSlug(req.Slug)
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if err := h.store.EnsureRoom(slug, req.AdminPasscode); err != nil {
		slog.Error("failed to ensure room", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("room ensured", "room", slug)

	middleware.JSONResponse(w, http.StatusOK, models.EnsureRoomResponse{Slug: slug})
}

// GetRoomState handles GET /rooms/{slug}
// Returns the consolidated snapshot the display layer consumes. This is
// also the polling fallback for clients without a websocket.
func (h *RoomHandler) GetRoomState(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	state, err := h.store.GetRoomState(slug)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to read room state", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// GetRoomHistory handles GET /rooms/{slug}/history?limit=N
// Closed rounds, most recent first, bounded.
func (h *RoomHandler) GetRoomHistory(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	history, err := h.store.GetRoomHistory(slug, limit)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to read room history", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}
