// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/cliparse"
	"github.com/storyvote/storyvote/middleware"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS layer; the socket itself
	// carries no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type SubscribeHandler struct {
	store    *store.Store
	cfg      cliparse.Config
	notifier notify.Notifier
}

func NewSubscribeHandler(st *store.Store, cfg cliparse.Config, notifier notify.Notifier) *SubscribeHandler {
	return &SubscribeHandler{store: st, cfg: cfg, notifier: notifier}
}

// Subscribe handles GET /rooms/{slug}/subscribe
// Upgrades to a websocket and pushes a room_changed event whenever the
// room's state may have changed; the client re-fetches the snapshot and
// history on each signal. Clients that cannot hold a socket simply poll
// GET /rooms/{slug} instead.
//
// An optional voter_key query parameter lets the server mark the
// participant inactive when the socket drops - the same best-effort
// semantics as the page-unload presence beacon.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	slug := auth.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if _, err := h.store.GetRoomBySlug(slug); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
			return
		}
		slog.Error("failed to query room for subscribe", "error", err, "room", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voterKey := r.URL.Query().Get("voter_key")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "room", slug)
		return
	}

	// Coalescing buffer: a burst of publishes collapses into one signal,
	// since the client re-fetches full state anyway.
	signal := make(chan struct{}, 1)
	cancel := h.notifier.Subscribe(slug, func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go h.writePump(conn, slug, signal, done)

	h.readPump(conn)
	close(done)
	cancel()

	if voterKey != "" {
		// Best effort, same contract as the unload beacon.
		if err := h.store.MarkLeft(slug, voterKey); err != nil {
			slog.Warn("failed to mark participant left on disconnect", "error", err, "room", slug)
		} else {
			h.notifier.Publish(slug)
		}
	}
}

// readPump consumes control frames and detects the peer going away. The
// subscribe channel is one-way; inbound data frames are ignored.
func (h *SubscribeHandler) readPump(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *SubscribeHandler) writePump(conn *websocket.Conn, slug string, signal <-chan struct{}, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-signal:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteJSON(models.RoomChangedEvent{Type: "room_changed", Room: slug})
			if err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
