// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify provides the subscribe-by-room change notification
capability.

# Interface

	type Notifier interface {
		Subscribe(room string, fn func()) (cancel func())
		Publish(room string)
		Close() error
	}

A publish for a room invokes every callback subscribed to that room. The
signal never carries a diff - subscribers re-fetch via the snapshot and
history reads. A duplicate signal is harmless for the same reason.

# Implementations

Two interchangeable implementations:

  - LocalNotifier: in-process fanout. Sufficient for a single server
    process; also the delivery stage of the Postgres implementation.
  - PostgresNotifier: LISTEN on the room_changed channel that the schema
    triggers NOTIFY on, so writes from any process reach subscribers in
    every process. Reconnects with backoff; gaps during a reconnect are
    covered by the clients' polling fallback.

Handlers publish after each mutation regardless of implementation, so the
local process stays live even when the listener connection is down.
*/
package notify
