// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"log/slog"
	"sync"

	"github.com/holomush/holosit/internal/seat"
)

// eventBuffer is the per-subscriber channel capacity.
const eventBuffer = 100

// Broadcaster distributes host events to subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []chan seat.Event
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe creates a channel for receiving events.
func (b *Broadcaster) Subscribe() chan seat.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan seat.Event, eventBuffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes and closes a channel.
func (b *Broadcaster) Unsubscribe(ch chan seat.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Broadcast sends an event to all subscribers without blocking.
func (b *Broadcaster) Broadcast(ev seat.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// The actor may stay seated until the next sweep.
			slog.Warn("event dropped: subscriber buffer full",
				"kind", string(ev.Kind),
				"actor_id", ev.Actor.String(),
			)
		}
	}
}
