// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the storyvote API server.

Storyvote is a realtime planning-poker backend: participants join a named
room, a moderator posts a user story, everyone casts one card from the
fixed deck {1, 2, 3, 5, 8, 13, 20, ∞}, and the room shows live tallies.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... ADMIN_SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3000 -d "postgres://..." --session-secret "..."

A local .env file is loaded first (godotenv), so development secrets can
live there.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_SESSION_SECRET (--session-secret): Secret for admin session HMAC

Optional settings:

  - PORT (-p): Server port (default: 3000)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - store: room/round/vote/presence consistency core over *sql.DB
  - handlers: HTTP request handlers (rooms, votes, admin, presence, subscribe)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and the card set
  - auth: Admin session tokens, passcode hashing, voter keys
  - notify: subscribe-by-room change notifications (Postgres LISTEN/NOTIFY)
  - db: Schema creation and the change-feed triggers
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
