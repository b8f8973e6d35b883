// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// RoomChangeChannel is the Postgres NOTIFY channel carrying room slugs
// whose state may have changed.
const RoomChangeChannel = "room_changed"

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS rooms (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    story TEXT NOT NULL DEFAULT '',
    admin_passcode_hash TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Rounds
CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    room_slug TEXT NOT NULL REFERENCES rooms(slug) ON DELETE CASCADE,
    story TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    closed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rounds_room_slug ON rounds(room_slug);
CREATE INDEX IF NOT EXISTS idx_rounds_closed ON rounds(room_slug, closed_at DESC) WHERE status = 'closed';

-- At most one active round per room, even under concurrent starters.
CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_one_active ON rounds(room_slug) WHERE status = 'active';

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    vote_index INTEGER NOT NULL CHECK (vote_index >= 0 AND vote_index <= 7),
    cast_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (round_id, voter_key)
);

CREATE INDEX IF NOT EXISTS idx_votes_round_id ON votes(round_id);

-- Presence
CREATE TABLE IF NOT EXISTS presence (
    room_slug TEXT NOT NULL REFERENCES rooms(slug) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    display_name TEXT NOT NULL,
    last_active_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (room_slug, voter_key)
);

CREATE INDEX IF NOT EXISTS idx_presence_room_slug ON presence(room_slug);

-- Change feed: every write to a room's state raises a NOTIFY with the room
-- slug as payload. Listeners re-fetch; no diff is delivered.
CREATE OR REPLACE FUNCTION notify_room_changed() RETURNS trigger AS $fn$
DECLARE
    slug TEXT;
BEGIN
    IF TG_TABLE_NAME = 'rooms' THEN
        slug := COALESCE(NEW.slug, OLD.slug);
    ELSIF TG_TABLE_NAME = 'votes' THEN
        SELECT r.room_slug INTO slug FROM rounds r WHERE r.id = COALESCE(NEW.round_id, OLD.round_id);
    ELSE
        slug := COALESCE(NEW.room_slug, OLD.room_slug);
    END IF;

    IF slug IS NOT NULL THEN
        PERFORM pg_notify('room_changed', slug);
    END IF;
    RETURN NULL;
END;
$fn$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_rooms_changed ON rooms;
CREATE TRIGGER trg_rooms_changed AFTER INSERT OR UPDATE OR DELETE ON rooms
    FOR EACH ROW EXECUTE FUNCTION notify_room_changed();

DROP TRIGGER IF EXISTS trg_rounds_changed ON rounds;
CREATE TRIGGER trg_rounds_changed AFTER INSERT OR UPDATE OR DELETE ON rounds
    FOR EACH ROW EXECUTE FUNCTION notify_room_changed();

DROP TRIGGER IF EXISTS trg_votes_changed ON votes;
CREATE TRIGGER trg_votes_changed AFTER INSERT OR UPDATE OR DELETE ON votes
    FOR EACH ROW EXECUTE FUNCTION notify_room_changed();

DROP TRIGGER IF EXISTS trg_presence_changed ON presence;
CREATE TRIGGER trg_presence_changed AFTER INSERT OR UPDATE OR DELETE ON presence
    FOR EACH ROW EXECUTE FUNCTION notify_room_changed();
`
