// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
)

// EventKind identifies a host event that may force an actor to stand.
type EventKind string

// Host event kinds.
const (
	EventQuit        EventKind = "quit"
	EventWorldChange EventKind = "world_change"
	EventTeleport    EventKind = "teleport"
	EventSneak       EventKind = "sneak"
)

// Event is a host notification about one actor.
type Event struct {
	Kind  EventKind
	Actor ulid.ULID
	// Sneaking is the new sneak state for EventSneak.
	Sneaking bool
}

// HandleEvent routes a host event to its hook.
func (m *Manager) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventQuit:
		m.OnQuit(ctx, ev.Actor)
	case EventWorldChange:
		m.OnWorldChange(ctx, ev.Actor)
	case EventTeleport:
		m.OnTeleport(ctx, ev.Actor)
	case EventSneak:
		m.OnSneak(ctx, ev.Actor, ev.Sneaking)
	default:
		m.logger.DebugContext(ctx, "ignoring unknown host event", "kind", string(ev.Kind))
	}
}

// OnQuit stands a disconnecting actor up if auto-unsit.on-quit is set.
func (m *Manager) OnQuit(ctx context.Context, actor ulid.ULID) {
	if m.config.Snapshot().AutoUnsit.OnQuit {
		m.Unseat(ctx, actor, CauseQuit, false)
	}
}

// OnWorldChange stands the actor up if auto-unsit.on-world-change is set.
func (m *Manager) OnWorldChange(ctx context.Context, actor ulid.ULID) {
	if m.config.Snapshot().AutoUnsit.OnWorldChange {
		m.Unseat(ctx, actor, CauseWorldChange, false)
	}
}

// OnTeleport stands a seated actor up if auto-unsit.on-teleport is set.
func (m *Manager) OnTeleport(ctx context.Context, actor ulid.ULID) {
	if !m.config.Snapshot().AutoUnsit.OnTeleport {
		return
	}
	if m.IsSeated(ctx, actor) {
		m.Unseat(ctx, actor, CauseTeleport, false)
	}
}

// OnSneak stands a seated actor up when they start sneaking, if
// auto-unsit.on-sneak is set. The actor is told.
func (m *Manager) OnSneak(ctx context.Context, actor ulid.ULID, sneaking bool) {
	if !sneaking || !m.config.Snapshot().AutoUnsit.OnSneak {
		return
	}
	if m.IsSeated(ctx, actor) {
		m.Unseat(ctx, actor, CauseSneak, true)
	}
}

// Subscriber feeds host events into a Manager.
type Subscriber struct {
	manager *Manager
	wg      sync.WaitGroup
}

// NewSubscriber creates an event subscriber for m.
func NewSubscriber(m *Manager) *Subscriber {
	return &Subscriber{manager: m}
}

// Start processes events in order until ctx is done or events is closed.
func (s *Subscriber) Start(ctx context.Context, events <-chan Event) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.manager.HandleEvent(ctx, ev)
			}
		}
	}()
}

// Stop waits for the subscriber goroutine to exit.
func (s *Subscriber) Stop() {
	s.wg.Wait()
}
