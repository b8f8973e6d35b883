// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/storyvote/storyvote/models"
)

// GetRoomState composes the one consistent view the display layer
// consumes: active round id and flag, current story, connected users,
// which of them already voted, and the histogram of the active round
// (all zeros when none is active). Everything is read inside a single
// transaction so the histogram can never mix rounds.
func (s *Store) GetRoomState(slug string) (*models.RoomState, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	state := &models.RoomState{
		Users:      []string{},
		VotedUsers: []string{},
		Votes:      make([]int, models.CardCount),
	}

	err = tx.QueryRow(`SELECT story FROM rooms WHERE slug = $1`, slug).Scan(&state.Story)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room: %w", err)
	}

	var roundID string
	err = tx.QueryRow(`
		SELECT id FROM rounds WHERE room_slug = $1 AND status = $2
	`, slug, models.RoundActive).Scan(&roundID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query active round: %w", err)
	}
	if err == nil {
		state.RoundID = &roundID
		state.RoundActive = true
	}

	state.Users, err = connectedUsersTx(tx, slug)
	if err != nil {
		return nil, err
	}

	if state.RoundActive {
		state.Votes, err = voteCountsTx(tx, roundID)
		if err != nil {
			return nil, err
		}

		state.VotedUsers, err = votedUsersTx(tx, slug, roundID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, nil
}

// GetRoomHistory returns closed rounds most-recent first, each annotated
// with its vote histogram, total, and the explicitly tied set of most
// popular cards. Bounded by limit (DefaultHistoryLimit when <= 0).
func (s *Store) GetRoomHistory(slug string, limit int) ([]models.HistoryRound, error) {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}

	if _, err := s.GetRoomBySlug(slug); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT r.id, r.story, r.status, r.created_at, r.closed_at, v.vote_index
		FROM (
			SELECT id, story, status, created_at, closed_at
			FROM rounds
			WHERE room_slug = $1 AND status = $2
			ORDER BY closed_at DESC
			LIMIT $3
		) r
		LEFT JOIN votes v ON v.round_id = r.id
		ORDER BY r.closed_at DESC, r.id
	`, slug, models.RoundClosed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	history := []models.HistoryRound{}
	index := map[string]int{}
	for rows.Next() {
		var (
			id, story, status string
			createdAt         time.Time
			closedAt          *time.Time
			voteIndex         sql.NullInt64
		)
		if err := rows.Scan(&id, &story, &status, &createdAt, &closedAt, &voteIndex); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		pos, seen := index[id]
		if !seen {
			pos = len(history)
			index[id] = pos
			history = append(history, models.HistoryRound{
				ID:             id,
				Story:          story,
				Status:         status,
				CreatedAt:      createdAt,
				ClosedAt:       closedAt,
				VoteCounts:     make([]int, models.CardCount),
				TopCardIndexes: []int{},
			})
		}

		if voteIndex.Valid {
			idx := int(voteIndex.Int64)
			if idx >= 0 && idx < models.CardCount {
				history[pos].VoteCounts[idx]++
				history[pos].TotalVotes++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	for i := range history {
		history[i].TopCardIndexes = topCardIndexes(history[i].VoteCounts)
	}
	return history, nil
}

// topCardIndexes reports every card index tied for the highest count; a
// tie stays a tie. Empty when the round had no votes.
func topCardIndexes(counts []int) []int {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return []int{}
	}

	top := []int{}
	for i, n := range counts {
		if n == max {
			top = append(top, i)
		}
	}
	return top
}

func connectedUsersTx(tx *sql.Tx, slug string) ([]string, error) {
	rows, err := tx.Query(`
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

// votedUsersTx resolves display names for voters in the given round via
// the room's presence records.
func votedUsersTx(tx *sql.Tx, slug, roundID string) ([]string, error) {
	rows, err := tx.Query(`
		SELECT p.display_name
		FROM votes v
		JOIN presence p ON p.room_slug = $1 AND p.voter_key = v.voter_key
		WHERE v.round_id = $2
		ORDER BY p.display_name
	`, slug, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voted users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan voted user: %w", err)
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voted users: %w", err)
	}
	return users, nil
}
