package models

import "time"

// Round status constants
const (
	RoundActive = "active"
	RoundClosed = "closed"
)

// CardCount is the number of cards in the fixed estimation deck.
const CardCount = 8

// CardLabels is the fixed, ordered estimation deck. Vote indexes 0..7 map
// onto this slice for both live display and history.
var CardLabels = []string{"1", "2", "3", "5", "8", "13", "20", "∞"}

// DefaultHistoryLimit bounds GetRoomHistory when the caller gives no limit.
const DefaultHistoryLimit = 12

// PresenceWindow is how long after its last heartbeat a presence record
// still counts as connected.
const PresenceWindow = 5 * time.Minute

// Request types

type EnsureRoomRequest struct {
	Slug          string `json:"slug"`
	AdminPasscode string `json:"admin_passcode,omitempty"`
}

type CastVoteRequest struct {
	VoterKey  string `json:"voter_key"`
	CardIndex int    `json:"card_index"`
}

type StartRoundRequest struct {
	Story string `json:"story,omitempty"`
}

type UpdateStoryRequest struct {
	Story string `json:"story"`
}

type LoginRequest struct {
	Passcode string `json:"passcode"`
}

type PresenceRequest struct {
	VoterKey    string `json:"voter_key"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// Response types

type EnsureRoomResponse struct {
	Slug string `json:"slug"`
}

type CastVoteResponse struct {
	RoundID           string `json:"round_id"`
	SelectedVoteIndex *int   `json:"selected_vote_index"`
	Votes             []int  `json:"votes"`
}

type ResetVotesResponse struct {
	DeletedCount int `json:"deleted_count"`
}

type SessionStatusResponse struct {
	Authorized bool `json:"authorized"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// Domain types

type Room struct {
	Slug              string    `json:"slug"`
	Name              string    `json:"name"`
	Story             string    `json:"story"`
	AdminPasscodeHash *string   `json:"-"` // Never expose in JSON
	CreatedAt         time.Time `json:"created_at"`
}

// RoomState is the one consolidated view the display layer consumes.
type RoomState struct {
	RoundID     *string  `json:"round_id"`
	RoundActive bool     `json:"round_active"`
	Story       string   `json:"story"`
	Users       []string `json:"users"`
	VotedUsers  []string `json:"voted_users"`
	Votes       []int    `json:"votes"`
}

// HistoryRound is one closed round in the bounded history feed.
// TopCardIndexes lists every card index tied for the highest count, so a
// tie is reported explicitly rather than broken arbitrarily; it is empty
// when the round received no votes.
type HistoryRound struct {
	ID             string     `json:"id"`
	Story          string     `json:"story"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	VoteCounts     []int      `json:"vote_counts"`
	TotalVotes     int        `json:"total_votes"`
	TopCardIndexes []int      `json:"top_card_indexes"`
}

// RoomChangedEvent is pushed over the subscribe websocket. It carries no
// diff, only the hint that subscribers should re-fetch.
type RoomChangedEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
