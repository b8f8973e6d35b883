// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - rooms: room metadata, story, optional admin passcode hash
  - rounds: one voting cycle per row, active or closed
  - votes: one vote per (round, voter key)
  - presence: heartbeat timestamps per (room, voter key)

# Relationships

	rooms 1──* rounds
	rounds 1──* votes
	rooms 1──* presence

All foreign keys use ON DELETE CASCADE. Presence belongs to the room, not
to any round, so it outlives individual rounds.

# Constraints

The consistency invariants are enforced by the schema, not just by
application code:

  - idx_rounds_one_active: partial unique index, at most one
    status='active' round per room
  - votes primary key (round_id, voter_key): at most one vote row per
    voter per round
  - vote_index CHECK 0..7: the fixed 8-card deck

# Change Feed

Triggers on every table raise NOTIFY on the room_changed channel with the
room slug as payload. The notify package listens on this channel and fans
the signal out to websocket subscribers. Subscribers re-fetch state; the
feed never carries a diff.
*/
package db
