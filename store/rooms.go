// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/models"
)

// EnsureRoom creates the room on first reference to an unknown slug; for an
// existing room it is a no-op except for the first-admin-wins backfill: a
// newly supplied passcode is adopted when the room has none yet. A brand-new
// room immediately gets its first active round so voting works before any
// admin shows up.
func (s *Store) EnsureRoom(slug, adminPasscode string) error {
	var hash *string
	if adminPasscode != "" {
		h := auth.HashPasscode(adminPasscode)
		hash = &h
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO rooms (slug, name, story, admin_passcode_hash)
		VALUES ($1, $1, '', $2)
		ON CONFLICT (slug) DO NOTHING
	`, slug, hash)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", err)
	}

	if inserted == 1 {
		_, err = tx.Exec(`
			INSERT INTO rounds (id, room_slug, story, status)
			VALUES ($1, $2, '', $3)
		`, uuid.NewString(), slug, models.RoundActive)
		if err != nil {
			return fmt.Errorf("failed to open first round: %w", err)
		}
	} else if hash != nil {
		// First admin wins: only a missing hash is backfilled, never an
		// existing one.
		_, err = tx.Exec(`
			UPDATE rooms SET admin_passcode_hash = $1
			WHERE slug = $2 AND admin_passcode_hash IS NULL
		`, *hash, slug)
		if err != nil {
			return fmt.Errorf("failed to backfill passcode hash: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRoomBySlug returns the room row or ErrRoomNotFound.
func (s *Store) GetRoomBySlug(slug string) (*models.Room, error) {
	var room models.Room
	err := s.db.QueryRow(`
		SELECT slug, name, story, admin_passcode_hash, created_at
		FROM rooms
		WHERE slug = $1
	`, slug).Scan(&room.Slug, &room.Name, &room.Story, &room.AdminPasscodeHash, &room.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	return &room, nil
}
