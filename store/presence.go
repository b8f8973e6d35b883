// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/storyvote/storyvote/models"
)

// UpsertPresence records a heartbeat for one participant in a room. Keyed
// by (room, voter key); refreshes the last-active timestamp and stores the
// current display name, so a typo fix in the name shows up on the next
// beat. Idempotent.
func (s *Store) UpsertPresence(slug, voterKey, displayName string, isActive bool) error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM rooms WHERE slug = $1`, slug).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query room: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO presence (room_slug, voter_key, display_name, last_active_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_slug, voter_key)
		DO UPDATE SET display_name = EXCLUDED.display_name,
		              last_active_at = EXCLUDED.last_active_at,
		              is_active = EXCLUDED.is_active
	`, slug, voterKey, displayName, time.Now(), isActive)
	if err != nil {
		return fmt.Errorf("failed to upsert presence: %w", err)
	}
	return nil
}

// MarkLeft flips a participant inactive without touching the heartbeat
// timestamp. Used on teardown paths (page unload, websocket drop) where
// delivery is best effort; a missed call is covered by the read-time
// inactivity window.
func (s *Store) MarkLeft(slug, voterKey string) error {
	_, err := s.db.Exec(`
		UPDATE presence SET is_active = FALSE
		WHERE room_slug = $1 AND voter_key = $2
	`, slug, voterKey)
	if err != nil {
		return fmt.Errorf("failed to mark participant left: %w", err)
	}
	return nil
}

// ConnectedUsers derives the "currently connected" list at read time: the
// active flag must be set and the last heartbeat must fall inside the
// inactivity window. No background sweeper is involved.
func (s *Store) ConnectedUsers(slug string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT display_name FROM presence
		WHERE room_slug = $1 AND is_active = TRUE AND last_active_at > $2
		ORDER BY display_name
	`, slug, time.Now().Add(-models.PresenceWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to query presence: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan presence: %w", err)
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}
	return users, nil
}
