// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the room/round/vote consistency core over an
injected *sql.DB.

# Construction

	st := store.NewStore(dbConn)

One Store per process; all handlers share it. There is no package-level
connection state.

# Components

  - Room registry: EnsureRoom (get-or-create, first-admin-wins passcode
    backfill), GetRoomBySlug
  - Round manager: StartRound (atomic swap), EndRound (idempotent),
    ResetActiveRoundVotes, UpdateStory
  - Vote ledger: CastVote (insert / replace / toggle-withdraw, one row per
    voter per round)
  - Presence tracker: UpsertPresence, MarkLeft, ConnectedUsers
  - Snapshot assembler: GetRoomState, GetRoomHistory

# Concurrency

Every mutation runs in its own transaction. The invariants that matter -
one active round per room, one vote per (round, voter) - are hard schema
constraints, so racing callers cannot jointly violate them. CastVote takes
a share lock on the active round row: casts by different voters run in
parallel, while a concurrent round close waits, so a vote can never attach
to a round that closed under it.

Presence writes are deliberately lighter: they tolerate eventual
consistency, and a missed "left" signal is absorbed by the read-time
five-minute window in ConnectedUsers.

# Errors

Sentinel errors cross the package boundary:

	ErrRoomNotFound
	ErrNoActiveRound
	ErrInvalidCardIndex

Anything else is a wrapped storage failure, treated as transient by
callers. The store never produces user-facing text.
*/
package store
