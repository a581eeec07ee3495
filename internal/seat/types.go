// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package seat manages the seated relation between actors and the invisible
// proxy entities they rest on.
//
// The Manager is the only writer of the Registry. A seat entity carries its
// owner's id in the OwnerTag, so orphans left by a crash can be found and
// removed without the in-memory registry.
package seat

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oklog/ulid/v2"
)

// OwnerTag is the entity tag holding the seated actor's id.
const OwnerTag = "seat-owner"

// SafeLift is how far above the seat an actor is placed on standing up.
const SafeLift = 0.35

// Host-reported failures. World implementations wrap these.
var (
	ErrActorOffline = errors.New("actor is not online")
	ErrSeatNotFound = errors.New("seat entity not found")
	ErrSeatOccupied = errors.New("seat entity already has an occupant")
)

// Placement locates something in a world.
type Placement struct {
	WorldID  string
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Surface describes one block as seen by the eligibility checks.
type Surface struct {
	Type   string
	Solid  bool
	Liquid bool
}

// ActorState is a point-in-time view of an actor's physical situation.
type ActorState struct {
	Placement    Placement
	InVehicle    bool
	Sleeping     bool
	Gliding      bool
	Swimming     bool
	FallDistance float64
	Feet         Surface // block at the actor's position
	Below        Surface // block directly beneath the actor
}

// Traits configure how a seat entity behaves in the world.
type Traits struct {
	NoGravity     bool
	Invisible     bool
	Marker        bool
	Small         bool
	Invulnerable  bool
	Silent        bool
	NonCollidable bool
	HideName      bool
}

// SeatTraits returns the traits every seat is spawned with.
func SeatTraits() Traits {
	return Traits{
		NoGravity:     true,
		Invisible:     true,
		Marker:        true,
		Small:         true,
		Invulnerable:  true,
		Silent:        true,
		NonCollidable: true,
		HideName:      true,
	}
}

// SeatSpec describes a seat entity to spawn.
type SeatSpec struct {
	Placement Placement
	Traits    Traits
	Tags      map[string]string
}

// SeatInfo describes a live seat entity.
type SeatInfo struct {
	ID        ulid.ULID
	Placement Placement
	Tags      map[string]string
	Occupant  *ulid.ULID
}

// Owner returns the actor recorded in the seat's OwnerTag.
func (s SeatInfo) Owner() (ulid.ULID, bool) {
	raw, ok := s.Tags[OwnerTag]
	if !ok {
		return ulid.ULID{}, false
	}
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

// World is the set of host primitives the Manager drives.
// Implementations must be safe for concurrent use.
type World interface {
	// ActorState reports an online actor's state, or ErrActorOffline.
	ActorState(ctx context.Context, actor ulid.ULID) (ActorState, error)
	// Online reports whether the actor is connected.
	Online(actor ulid.ULID) bool
	// SpawnSeat creates a seat entity and returns its id.
	SpawnSeat(ctx context.Context, spec SeatSpec) (ulid.ULID, error)
	// Seat returns a live seat entity; false once it is gone.
	Seat(ctx context.Context, id ulid.ULID) (SeatInfo, bool)
	// RemoveSeat destroys a seat entity, or returns ErrSeatNotFound.
	RemoveSeat(ctx context.Context, id ulid.ULID) error
	// Vehicle returns the entity the actor currently rides.
	Vehicle(ctx context.Context, actor ulid.ULID) (ulid.ULID, bool)
	// Attach mounts the actor on the entity. Returns ErrSeatOccupied on conflict.
	Attach(ctx context.Context, actor, vehicle ulid.ULID) error
	// Detach dismounts the actor from the entity.
	Detach(ctx context.Context, actor, vehicle ulid.ULID) error
	// Teleport moves the actor.
	Teleport(ctx context.Context, actor ulid.ULID, to Placement) error
	// TaggedSeats lists seat entities carrying tag in every loaded world.
	TaggedSeats(ctx context.Context, tag string) []SeatInfo
}

// Scheduler defers work to the host's next simulation tick.
type Scheduler interface {
	NextTick(fn func())
}

// Notifier receives outcomes that resolve outside the caller's request,
// such as a mount confirmed on the next tick.
type Notifier interface {
	Notify(ctx context.Context, actor ulid.ULID, outcome Outcome)
}
