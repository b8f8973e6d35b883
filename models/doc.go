// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - EnsureRoomRequest: slug, admin_passcode (optional)
  - CastVoteRequest: voter_key, card_index (0..7)
  - StartRoundRequest: story (optional)
  - UpdateStoryRequest: story
  - LoginRequest: passcode
  - PresenceRequest: voter_key, display_name, is_active

# Response Types

Types for JSON responses:

  - EnsureRoomResponse: slug
  - CastVoteResponse: round_id, selected_vote_index (nullable), votes[8]
  - ResetVotesResponse: deleted_count
  - SessionStatusResponse: authorized
  - OKResponse: ok
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Room: slug-identified voting space
  - RoomState: the consolidated snapshot read by the display layer
  - HistoryRound: closed round with its vote histogram

# Constants

Round status values:

	RoundActive = "active"
	RoundClosed = "closed"

The estimation deck:

	CardLabels = {1, 2, 3, 5, 8, 13, 20, ∞}
	CardCount  = 8

Read-side tuning:

	DefaultHistoryLimit = 12
	PresenceWindow      = 5 minutes
*/
package models
