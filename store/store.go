// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNoActiveRound    = errors.New("no active round")
	ErrInvalidCardIndex = errors.New("card index out of range")
)

// Store holds the consistency core: room registry, round lifecycle, vote
// ledger, presence tracking, and snapshot assembly. It is constructed once
// per process around an injected connection pool; there is no package-level
// client state.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
