// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/cliparse"
	"github.com/storyvote/storyvote/middleware"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
)

type PresenceHandler struct {
	store    *store.Store
	cfg      cliparse.Config
	notifier notify.Notifier
}

func NewPresenceHandler(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *PresenceHandler {
	return &PresenceHandler{store: st, cfg: cfg, notifier: notifier}
}

// UpsertPresence handles POST /rooms/{slug}/presence
// Heartbeat endpoint: refreshes the participant's last-active timestamp
// and active flag. Clients call it every minute while active, with
// is_active=false on hide/unload. Unload beacons are best effort; a
// missed one is absorbed by the read-time inactivity window.
func (h *PresenceHandler) UpsertPresence(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.PresenceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if req.VoterKey == "" || displayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_key and display_name are required")
		return
	}

	err := h.store.UpsertPresence(slug, req.VoterKey, displayName, req.IsActive)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to upsert presence", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update presence")
		return
	}

	h.notifier.Publish(slug)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
