// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/storyvote/storyvote/db"
)

const (
	listenMinReconnect = 10 * time.Second
	listenMaxReconnect = time.Minute
)

// PostgresNotifier consumes the store's change feed (NOTIFY on the
// room_changed channel, raised by schema triggers) and fans each signal
// out to local subscribers. Mutations made by any process reach every
// process's subscribers this way; the handler-side Publish calls cover the
// local process even if the listener connection is down.
type PostgresNotifier struct {
	local    *LocalNotifier
	listener *pq.Listener
	done     chan struct{}
}

func NewPostgresNotifier(databaseURL string) (*PostgresNotifier, error) {
	listener := pq.NewListener(databaseURL, listenMinReconnect, listenMaxReconnect,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				slog.Warn("change feed listener event", "event", int(event), "error", err)
			}
		})

	if err := listener.Listen(db.RoomChangeChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on change feed: %w", err)
	}

	n := &PostgresNotifier{
		local:    NewLocalNotifier(),
		listener: listener,
		done:     make(chan struct{}),
	}
	go n.run()
	return n, nil
}

func (n *PostgresNotifier) run() {
	for {
		select {
		case <-n.done:
			return
		case notification := <-n.listener.Notify:
			// A nil notification marks a reconnect; anything missed in
			// between is covered by the clients' poll fallback.
			if notification == nil {
				continue
			}
			n.local.Publish(notification.Extra)
		}
	}
}

func (n *PostgresNotifier) Subscribe(room string, fn func()) func() {
	return n.local.Subscribe(room, fn)
}

func (n *PostgresNotifier) Publish(room string) {
	n.local.Publish(room)
}

func (n *PostgresNotifier) Close() error {
	close(n.done)
	if err := n.listener.Close(); err != nil {
		return fmt.Errorf("failed to close change feed listener: %w", err)
	}
	return n.local.Close()
}
