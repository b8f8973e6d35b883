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

type AdminHandler struct {
	store    *store.Store
	cfg      cliparse.Config
	notifier notify.Notifier
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *AdminHandler {
	return &AdminHandler{store: st, cfg: cfg, notifier: notifier}
}

// authorized checks the per-room session cookie. Fails closed on a
// missing cookie, malformed token, wrong room, expiry, or bad signature.
func (h *AdminHandler) authorized(r *http.Request, slug string) bool {
	cookie, err := r.Cookie(auth.AdminCookieName(slug))
	if err != nil {
		return false
	}
	return auth.VerifySessionToken(cookie.Value, slug, h.cfg.SessionSecret)
}

func (h *AdminHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, slug, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AdminCookieName(slug),
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// GetSession handles GET /rooms/{slug}/admin/session
// Reports whether the caller currently holds a valid admin session.
func (h *AdminHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionStatusResponse{
		Authorized: h.authorized(r, slug),
	})
}

// Login handles POST /rooms/{slug}/admin/session
// Verifies the passcode against the room's stored hash and issues the
// signed session cookie. An open room (no hash) accepts any passcode, so
// mutation endpoints stay uniformly token-gated.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	room, err := h.store.GetRoomBySlug(slug)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room for login", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPasscode(room.AdminPasscodeHash, req.Passcode); err != nil {
		slog.Info("admin login rejected", "room", slug)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid passcode")
		return
	}

	token := auth.CreateSessionToken(slug, h.cfg.SessionSecret)
	h.setSessionCookie(w, r, slug, token, int(auth.SessionTTL.Seconds()))

	slog.Info("admin login", "room", slug)
	middleware.JSONResponse(w, http.StatusOK, models.SessionStatusResponse{Authorized: true})
}

// Logout handles DELETE /rooms/{slug}/admin/session
// Clears the session cookie. Always succeeds; fired best-effort on page
// unload as well as by an explicit logout.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	h.setSessionCookie(w, r, slug, "", -1)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// StartRound handles POST /rooms/{slug}/admin/round/start
// Atomic swap: any active round is closed and a fresh one opened in a
// single transaction, so the room never has two actives and never gets
// stuck without the caller having to end the old round first.
func (h *AdminHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if !h.authorized(r, slug) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin session required")
		return
	}

	var req models.StartRoundRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	roundID, err := h.store.StartRound(slug, strings.TrimSpace(req.Story))
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to start round", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start round")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("round started", "room", slug, "round_id", roundID)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// EndRound handles POST /rooms/{slug}/admin/round/end
// Idempotent: ending with no active round still succeeds.
func (h *AdminHandler) EndRound(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if !h.authorized(r, slug) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin session required")
		return
	}

	err := h.store.EndRound(slug)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to end round", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to end round")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("round ended", "room", slug)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// ResetVotes handles POST /rooms/{slug}/admin/reset
// Clears the active round's votes, leaving the round open and its story
// intact.
func (h *AdminHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if !h.authorized(r, slug) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin session required")
		return
	}

	deleted, err := h.store.ResetActiveRoundVotes(slug)
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	case errors.Is(err, store.ErrNoActiveRound):
		middleware.ErrorResponse(w, http.StatusConflict, "No active round")
		return
	case err != nil:
		slog.Error("failed to reset votes", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("votes reset", "room", slug, "deleted", deleted)

	middleware.JSONResponse(w, http.StatusOK, models.ResetVotesResponse{DeletedCount: deleted})
}

// UpdateStory handles POST /rooms/{slug}/admin/story
// Updates the active round's story in place, or opens a fresh active round
// carrying the story when none is active.
func (h *AdminHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if !h.authorized(r, slug) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin session required")
		return
	}

	var req models.UpdateStoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	story := strings.TrimSpace(req.Story)
	if story == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "story is required")
		return
	}

	err := h.store.UpdateStory(slug, story)
	if errors.Is(err, store.ErrRoomNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to update story", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update story")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("story updated", "room", slug)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
