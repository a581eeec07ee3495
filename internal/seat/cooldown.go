// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holosit/internal/config"
)

type cooldownShard struct {
	mu   sync.RWMutex
	last map[ulid.ULID]time.Time
}

// CooldownTracker records when each actor last sat down.
// It is safe for concurrent use; actors in different stripes never contend.
//
// Entries are never evicted. The map is bounded by the actor population.
type CooldownTracker struct {
	shards [shardCount]cooldownShard
	now    func() time.Time
}

// NewCooldownTracker creates a tracker using the wall clock.
func NewCooldownTracker() *CooldownTracker {
	return NewCooldownTrackerWithClock(time.Now)
}

// NewCooldownTrackerWithClock creates a tracker using the given clock.
func NewCooldownTrackerWithClock(now func() time.Time) *CooldownTracker {
	t := &CooldownTracker{now: now}
	for i := range t.shards {
		t.shards[i].last = make(map[ulid.ULID]time.Time)
	}
	return t
}

// OnCooldown reports whether the actor's last seat action is still inside
// the quiet period. Bypass or a non-positive period always returns false.
func (t *CooldownTracker) OnCooldown(actor ulid.ULID, bypass bool, cooldownSeconds int) bool {
	return t.Remaining(actor, bypass, cooldownSeconds) > 0
}

// Remaining returns how long the actor still has to wait, or zero. Periods
// above config.MaxCooldownSeconds are capped.
func (t *CooldownTracker) Remaining(actor ulid.ULID, bypass bool, cooldownSeconds int) time.Duration {
	if bypass || cooldownSeconds <= 0 {
		return 0
	}

	shard := &t.shards[shardIndex(actor)]
	shard.mu.RLock()
	last, ok := shard.last[actor]
	shard.mu.RUnlock()
	if !ok {
		return 0
	}

	cooldownSeconds = min(cooldownSeconds, config.MaxCooldownSeconds)
	window := time.Duration(cooldownSeconds) * time.Second
	elapsed := t.now().Sub(last)
	if elapsed >= window {
		return 0
	}
	return window - elapsed
}

// MarkUsed records a seat action now. Timestamps never move backwards.
func (t *CooldownTracker) MarkUsed(actor ulid.ULID) {
	now := t.now()

	shard := &t.shards[shardIndex(actor)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if prev, ok := shard.last[actor]; ok && prev.After(now) {
		return
	}
	shard.last[actor] = now
}

// LastUsed returns the recorded timestamp for the actor.
func (t *CooldownTracker) LastUsed(actor ulid.ULID) (time.Time, bool) {
	shard := &t.shards[shardIndex(actor)]
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	last, ok := shard.last[actor]
	return last, ok
}
