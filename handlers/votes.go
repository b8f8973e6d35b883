// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/cliparse"
	"github.com/storyvote/storyvote/middleware"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
)

type VoteHandler struct {
	store    *store.Store
	cfg      cliparse.Config
	notifier notify.Notifier
}

func NewVoteHandler(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *VoteHandler {
	return &VoteHandler{store: st, cfg: cfg, notifier: notifier}
}

// CastVote handles POST /rooms/{slug}/votes
// One vote per (round, voter key): first cast inserts, the same card again
// withdraws, a different card replaces. The response carries the whole
// recomputed histogram so the caller needs no follow-up read.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterKey == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_key is required")
		return
	}

	result, err := h.store.CastVote(slug, req.VoterKey, req.CardIndex)
	switch {
	case errors.Is(err, store.ErrInvalidCardIndex):
		middleware.ErrorResponse(w, http.StatusBadRequest, "card_index must be between 0 and 7")
		return
	case errors.Is(err, store.ErrNoActiveRound):
		middleware.ErrorResponse(w, http.StatusConflict, "No active round")
		return
	case err != nil:
		slog.Error("failed to cast vote", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	h.notifier.Publish(slug)
	slog.Info("vote cast", "room", slug, "round_id", result.RoundID, "withdrawn", result.SelectedVoteIndex == nil)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		RoundID:           result.RoundID,
		SelectedVoteIndex: result.SelectedVoteIndex,
		Votes:             result.Votes,
	})
}
