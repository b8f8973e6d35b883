// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/storyvote/storyvote/models"
)

// CastVoteResult is the single round-trip aggregate returned by CastVote:
// the round voted in, the voter's resulting selection (nil when the vote
// was withdrawn), and the recomputed histogram for the whole round.
type CastVoteResult struct {
	RoundID           string
	SelectedVoteIndex *int
	Votes             []int
}

// CastVote records one participant's card choice in the room's active
// round. Semantics per (round, voter key):
//
//   - no existing vote: insert cardIndex
//   - same cardIndex again: withdraw (toggle off)
//   - different cardIndex: replace in place
//
// The vote row count per voter never exceeds one; the primary key on
// (round_id, voter_key) guarantees that even under races. The active round
// row is share-locked for the duration of the transaction, so a concurrent
// EndRound/StartRound cannot close the round a vote is attaching to.
func (s *Store) CastVote(slug, voterKey string, cardIndex int) (*CastVoteResult, error) {
	if cardIndex < 0 || cardIndex >= models.CardCount {
		return nil, ErrInvalidCardIndex
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// FOR SHARE: concurrent casts by different voters proceed in parallel,
	// but the exclusive lock taken by a round close has to wait.
	var roundID string
	err = tx.QueryRow(`
		SELECT id FROM rounds
		WHERE room_slug = $1 AND status = $2
		FOR SHARE
	`, slug, models.RoundActive).Scan(&roundID)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveRound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active round: %w", err)
	}

	var existing int
	var selected *int
	err = tx.QueryRow(`
		SELECT vote_index FROM votes
		WHERE round_id = $1 AND voter_key = $2
	`, roundID, voterKey).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO votes (round_id, voter_key, vote_index, cast_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (round_id, voter_key)
			DO UPDATE SET vote_index = EXCLUDED.vote_index, cast_at = EXCLUDED.cast_at
		`, roundID, voterKey, cardIndex, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}
		selected = &cardIndex
	case err != nil:
		return nil, fmt.Errorf("failed to query vote: %w", err)
	case existing == cardIndex:
		// Toggle: the same card again withdraws the vote.
		_, err = tx.Exec(`
			DELETE FROM votes WHERE round_id = $1 AND voter_key = $2
		`, roundID, voterKey)
		if err != nil {
			return nil, fmt.Errorf("failed to withdraw vote: %w", err)
		}
	default:
		_, err = tx.Exec(`
			UPDATE votes SET vote_index = $1, cast_at = $2
			WHERE round_id = $3 AND voter_key = $4
		`, cardIndex, time.Now(), roundID, voterKey)
		if err != nil {
			return nil, fmt.Errorf("failed to replace vote: %w", err)
		}
		selected = &cardIndex
	}

	counts, err := voteCountsTx(tx, roundID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &CastVoteResult{
		RoundID:           roundID,
		SelectedVoteIndex: selected,
		Votes:             counts,
	}, nil
}

type rowQuerier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// voteCountsTx builds the 8-bucket histogram for one round.
func voteCountsTx(q rowQuerier, roundID string) ([]int, error) {
	rows, err := q.Query(`
		SELECT vote_index, COUNT(*) FROM votes
		WHERE round_id = $1
		GROUP BY vote_index
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}
	defer rows.Close()

	counts := make([]int, models.CardCount)
	for rows.Next() {
		var idx, n int
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		if idx >= 0 && idx < models.CardCount {
			counts[idx] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote counts: %w", err)
	}
	return counts, nil
}
