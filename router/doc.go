// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the storyvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg, notifier)

# Endpoints

Health and deck:

	GET /health
	GET /cards - The fixed estimation deck

Rooms (public):

	POST /rooms                - Get-or-create room by slug
	GET  /rooms/{slug}         - Consolidated room snapshot
	GET  /rooms/{slug}/history - Closed rounds, most recent first

Voting and presence (public):

	POST /rooms/{slug}/votes    - Cast / replace / withdraw a vote
	POST /rooms/{slug}/presence - Heartbeat upsert

Change notifications:

	GET /rooms/{slug}/subscribe - Websocket push; polling the snapshot
	                              is the supported fallback

Admin (gated by the per-room session cookie):

	GET    /rooms/{slug}/admin/session     - Session status
	POST   /rooms/{slug}/admin/session     - Login with passcode
	DELETE /rooms/{slug}/admin/session     - Logout
	POST   /rooms/{slug}/admin/round/start - Start round (atomic swap)
	POST   /rooms/{slug}/admin/round/end   - End round
	POST   /rooms/{slug}/admin/reset       - Clear active round's votes
	POST   /rooms/{slug}/admin/story       - Update the story under estimation

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(st, cfg, notifier)

All handlers share the store, configuration, and notifier.
*/
package router
