// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "sync"

// Notifier is the subscribe-by-room capability: a Publish for room X
// eventually invokes every callback subscribed to X. The signal carries no
// diff; subscribers re-fetch the snapshot. Core logic never depends on
// which implementation is active.
type Notifier interface {
	// Subscribe registers fn for a room and returns a cancel func. fn may
	// be called from any goroutine and must not block.
	Subscribe(room string, fn func()) (cancel func())

	// Publish signals that the room's state may have changed.
	Publish(room string)

	Close() error
}

// LocalNotifier fans publishes out to in-process subscribers. It is both
// the standalone polling-era implementation and the delivery stage of the
// Postgres-backed one.
type LocalNotifier struct {
	mu     sync.RWMutex
	nextID int
	rooms  map[string]map[int]func()
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{rooms: make(map[string]map[int]func())}
}

func (n *LocalNotifier) Subscribe(room string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	subs, ok := n.rooms[room]
	if !ok {
		subs = make(map[int]func())
		n.rooms[room] = subs
	}
	subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if subs, ok := n.rooms[room]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(n.rooms, room)
			}
		}
	}
}

func (n *LocalNotifier) Publish(room string) {
	n.mu.RLock()
	fns := make([]func(), 0, len(n.rooms[room]))
	for _, fn := range n.rooms[room] {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	// Callbacks run outside the lock so a subscriber can cancel itself.
	for _, fn := range fns {
		fn()
	}
}

func (n *LocalNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = make(map[string]map[int]func())
	return nil
}
