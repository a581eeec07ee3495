// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// Reservation marks a seat creation in flight for one actor.
// It is created by Registry.Reserve and resolved by Confirm, Release or Cancel.
type Reservation struct {
	actor ulid.ULID
	seat  ulid.ULID
}

// Actor returns the reserving actor.
func (r *Reservation) Actor() ulid.ULID { return r.actor }

type registryShard struct {
	mu      sync.Mutex
	seated  map[ulid.ULID]ulid.ULID // actor -> seat
	pending map[ulid.ULID]*Reservation
}

// Registry is the authoritative actor -> seat mapping.
//
// An actor is in at most one of three states: absent, pending (a
// Reservation is held) or seated (an entry exists). All operations are
// atomic per actor key and actors in different stripes never contend.
type Registry struct {
	shards [shardCount]registryShard
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].seated = make(map[ulid.ULID]ulid.ULID)
		r.shards[i].pending = make(map[ulid.ULID]*Reservation)
	}
	return r
}

func (r *Registry) shard(actor ulid.ULID) *registryShard {
	return &r.shards[shardIndex(actor)]
}

// Get returns the actor's seat.
func (r *Registry) Get(actor ulid.ULID) (ulid.ULID, bool) {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seated[actor]
	return seat, ok
}

// Put records the actor's seat, replacing any previous entry.
func (r *Registry) Put(actor, seat ulid.ULID) {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seated[actor] = seat
}

// Remove deletes and returns the actor's seat.
func (r *Registry) Remove(actor ulid.ULID) (ulid.ULID, bool) {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seated[actor]
	if ok {
		delete(s.seated, actor)
	}
	return seat, ok
}

// RemoveIf deletes the actor's entry only if it still points at seat.
func (r *Registry) RemoveIf(actor, seat ulid.ULID) bool {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.seated[actor]; ok && current == seat {
		delete(s.seated, actor)
		return true
	}
	return false
}

// SeatedActors returns a snapshot of every seated actor.
func (r *Registry) SeatedActors() []ulid.ULID {
	var out []ulid.ULID
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for actor := range s.seated {
			out = append(out, actor)
		}
		s.mu.Unlock()
	}
	return out
}

// Len returns the number of seated actors.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.seated)
		s.mu.Unlock()
	}
	return n
}

// Reserve marks a creation in flight. It fails if the actor is already
// seated or has another reservation.
func (r *Registry) Reserve(actor ulid.ULID) (*Reservation, bool) {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seated[actor]; ok {
		return nil, false
	}
	if _, ok := s.pending[actor]; ok {
		return nil, false
	}
	res := &Reservation{actor: actor}
	s.pending[actor] = res
	return res, true
}

// Bind attaches the spawned seat to a current reservation.
func (r *Registry) Bind(res *Reservation, seat ulid.ULID) bool {
	s := r.shard(res.actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[res.actor] != res {
		return false
	}
	res.seat = seat
	return true
}

// Current reports whether res is still the actor's reservation.
func (r *Registry) Current(res *Reservation) bool {
	s := r.shard(res.actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[res.actor] == res
}

// Confirm turns a current, bound reservation into a seated entry.
func (r *Registry) Confirm(res *Reservation) bool {
	s := r.shard(res.actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[res.actor] != res || res.seat.IsZero() {
		return false
	}
	delete(s.pending, res.actor)
	s.seated[res.actor] = res.seat
	return true
}

// Release drops res if it is still current.
func (r *Registry) Release(res *Reservation) {
	s := r.shard(res.actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[res.actor] == res {
		delete(s.pending, res.actor)
	}
}

// Cancel drops whatever reservation the actor holds.
func (r *Registry) Cancel(actor ulid.ULID) bool {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[actor]; !ok {
		return false
	}
	delete(s.pending, actor)
	return true
}

// CancelAll drops every reservation and returns how many were held.
func (r *Registry) CancelAll() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.pending)
		clear(s.pending)
		s.mu.Unlock()
	}
	return n
}

// Pending reports whether the actor has a creation in flight.
func (r *Registry) Pending(actor ulid.ULID) bool {
	s := r.shard(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[actor]
	return ok
}

// PendingSeats returns the seats bound to current reservations.
func (r *Registry) PendingSeats() map[ulid.ULID]struct{} {
	out := make(map[ulid.ULID]struct{})
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for _, res := range s.pending {
			if !res.seat.IsZero() {
				out[res.seat] = struct{}{}
			}
		}
		s.mu.Unlock()
	}
	return out
}

// PendingLen returns the number of reservations held.
func (r *Registry) PendingLen() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.pending)
		s.mu.Unlock()
	}
	return n
}
