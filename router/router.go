// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/storyvote/storyvote/cliparse"
	"github.com/storyvote/storyvote/handlers"
	"github.com/storyvote/storyvote/middleware"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
)

func NewRouter(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(st, cfg, notifier)
	voteHandler := handlers.NewVoteHandler(st, cfg, notifier)
	adminHandler := handlers.NewAdminHandler(st, cfg, notifier)
	presenceHandler := handlers.NewPresenceHandler(st, cfg, notifier)
	subscribeHandler := handlers.NewSubscribeHandler(st, cfg, notifier)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Estimation deck; fixed, so clients never hard-code the card faces
	mux.HandleFunc("GET /cards", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.CardLabels)
	})

	// Rooms (public)
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.EnsureRoom))
	mux.HandleFunc("GET /rooms/{slug}", middleware.WithLogging(roomHandler.GetRoomState))
	mux.HandleFunc("GET /rooms/{slug}/history", middleware.WithLogging(roomHandler.GetRoomHistory))

	// Voting and presence (public)
	mux.HandleFunc("POST /rooms/{slug}/votes", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("POST /rooms/{slug}/presence", middleware.WithLogging(presenceHandler.UpsertPresence))

	// Change notifications (websocket; polling GET /rooms/{slug} is the fallback)
	mux.HandleFunc("GET /rooms/{slug}/subscribe", subscribeHandler.Subscribe)

	// Admin session and mutations (cookie-gated)
	mux.HandleFunc("GET /rooms/{slug}/admin/session", middleware.WithLogging(adminHandler.GetSession))
	mux.HandleFunc("POST /rooms/{slug}/admin/session", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("DELETE /rooms/{slug}/admin/session", middleware.WithLogging(adminHandler.Logout))
	mux.HandleFunc("POST /rooms/{slug}/admin/round/start", middleware.WithLogging(adminHandler.StartRound))
	mux.HandleFunc("POST /rooms/{slug}/admin/round/end", middleware.WithLogging(adminHandler.EndRound))
	mux.HandleFunc("POST /rooms/{slug}/admin/reset", middleware.WithLogging(adminHandler.ResetVotes))
	mux.HandleFunc("POST /rooms/{slug}/admin/story", middleware.WithLogging(adminHandler.UpdateStory))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("storyvote API v1"))
	})

	return mux
}
