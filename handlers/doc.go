// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the storyvote API.

# Handler Types

Each handler is a struct with store, config, and notifier dependencies:

  - RoomHandler: room creation and snapshot/history reads
  - VoteHandler: vote casting
  - AdminHandler: session login/logout and round/story/reset mutations
  - PresenceHandler: heartbeat upserts
  - SubscribeHandler: websocket change notifications

Handlers are created via constructor functions:

	roomHandler := handlers.NewRoomHandler(st, cfg, notifier)

# Room Flow

	POST /rooms                       → EnsureRoom (get-or-create by slug)
	GET  /rooms/{slug}                → GetRoomState (consolidated snapshot)
	GET  /rooms/{slug}/history        → GetRoomHistory (closed rounds, bounded)
	POST /rooms/{slug}/votes          → CastVote (toggle / replace / insert)
	POST /rooms/{slug}/presence       → UpsertPresence (heartbeat)
	GET  /rooms/{slug}/subscribe      → Subscribe (websocket push)

# Admin Flow

All round/story/reset mutations require the per-room session cookie minted
by Login; verification fails closed.

	GET    /rooms/{slug}/admin/session     → GetSession (authorized?)
	POST   /rooms/{slug}/admin/session     → Login (passcode → cookie)
	DELETE /rooms/{slug}/admin/session     → Logout
	POST   /rooms/{slug}/admin/round/start → StartRound (atomic swap)
	POST   /rooms/{slug}/admin/round/end   → EndRound (idempotent)
	POST   /rooms/{slug}/admin/reset       → ResetVotes
	POST   /rooms/{slug}/admin/story       → UpdateStory

# Error Mapping

Store sentinels map onto HTTP status codes: ErrRoomNotFound → 404,
ErrNoActiveRound → 409, ErrInvalidCardIndex → 400. A failed session check
or passcode → 401. Everything else → 500 with the cause logged, never
echoed.

# Change Notification

Every successful mutation publishes the room slug on the notifier;
websocket subscribers receive {"type":"room_changed","room":...} and
re-fetch. Polling GET of the snapshot is the supported fallback.
*/
package handlers
