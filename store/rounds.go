// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storyvote/storyvote/models"
)

// StartRound opens a new active round for the room, atomically closing any
// round that is still active (swap policy: the two states never coexist,
// and callers never see a conflict). A non-empty story is also written to
// the room so it survives the round.
func (s *Store) StartRound(slug, story string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(tx, slug); err != nil {
		return "", err
	}

	_, err = tx.Exec(`
		UPDATE rounds SET status = $1, closed_at = $2
		WHERE room_slug = $3 AND status = $4
	`, models.RoundClosed, time.Now(), slug, models.RoundActive)
	if err != nil {
		return "", fmt.Errorf("failed to close active round: %w", err)
	}

	roundID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO rounds (id, room_slug, story, status)
		VALUES ($1, $2, $3, $4)
	`, roundID, slug, story, models.RoundActive)
	if err != nil {
		return "", fmt.Errorf("failed to insert round: %w", err)
	}

	if story != "" {
		if _, err := tx.Exec(`UPDATE rooms SET story = $1 WHERE slug = $2`, story, slug); err != nil {
			return "", fmt.Errorf("failed to update room story: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return roundID, nil
}

// EndRound closes the currently active round with the current timestamp.
// Idempotent: ending a room with no active round succeeds as a no-op.
func (s *Store) EndRound(slug string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(tx, slug); err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE rounds SET status = $1, closed_at = $2
		WHERE room_slug = $3 AND status = $4
	`, models.RoundClosed, time.Now(), slug, models.RoundActive)
	if err != nil {
		return fmt.Errorf("failed to close round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetActiveRoundVotes clears all votes of the active round, leaving the
// round itself active with its story intact. Returns how many votes were
// removed.
func (s *Store) ResetActiveRoundVotes(slug string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	roundID, err := activeRoundIDTx(tx, slug, true)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`DELETE FROM votes WHERE round_id = $1`, roundID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(deleted), nil
}

// UpdateStory sets the story under estimation. With an active round the
// story is updated in place; without one a fresh active round is opened
// carrying the story. The room's story column follows in the same
// transaction.
func (s *Store) UpdateStory(slug, story string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(tx, slug); err != nil {
		return err
	}

	roundID, err := activeRoundIDTx(tx, slug, true)
	if err == nil {
		_, err = tx.Exec(`UPDATE rounds SET story = $1 WHERE id = $2`, story, roundID)
		if err != nil {
			return fmt.Errorf("failed to update round story: %w", err)
		}
	} else if err == ErrNoActiveRound {
		_, err = tx.Exec(`
			INSERT INTO rounds (id, room_slug, story, status)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), slug, story, models.RoundActive)
		if err != nil {
			return fmt.Errorf("failed to insert round: %w", err)
		}
	} else {
		return err
	}

	if _, err := tx.Exec(`UPDATE rooms SET story = $1 WHERE slug = $2`, story, slug); err != nil {
		return fmt.Errorf("failed to update room story: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func roomExistsTx(tx *sql.Tx, slug string) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM rooms WHERE slug = $1`, slug).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query room: %w", err)
	}
	return nil
}

// activeRoundIDTx returns the active round's id. With forUpdate the round
// row is locked so a concurrent close cannot slip between the read and the
// caller's write.
func activeRoundIDTx(tx *sql.Tx, slug string, forUpdate bool) (string, error) {
	query := `SELECT id FROM rounds WHERE room_slug = $1 AND status = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var roundID string
	err := tx.QueryRow(query, slug, models.RoundActive).Scan(&roundID)
	if err == sql.ErrNoRows {
		return "", ErrNoActiveRound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query active round: %w", err)
	}
	return roundID, nil
}
