// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"context"
	"maps"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/holosit/internal/seat"
)

var _ seat.World = (*Host)(nil)

func surface(m Material) seat.Surface {
	return seat.Surface{Type: m.Name, Solid: m.Solid, Liquid: m.Liquid}
}

// ActorState implements seat.World.
func (h *Host) ActorState(_ context.Context, actor ulid.ULID) (seat.ActorState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.players[actor]
	if !ok || !p.Online {
		return seat.ActorState{}, oops.In("sim").
			With("actor_id", actor.String()).
			Wrap(seat.ErrActorOffline)
	}
	w, ok := h.worlds[p.Placement.WorldID]
	if !ok {
		return seat.ActorState{}, errUnknownWorld(p.Placement.WorldID)
	}

	feet := BlockAt(p.Placement.Position)
	return seat.ActorState{
		Placement:    p.Placement,
		InVehicle:    !p.Vehicle.IsZero(),
		Sleeping:     p.Sleeping,
		Gliding:      p.Gliding,
		Swimming:     p.Swimming,
		FallDistance: p.FallDistance,
		Feet:         surface(w.block(feet)),
		Below:        surface(w.block(feet.Down())),
	}, nil
}

// Online implements seat.World.
func (h *Host) Online(actor ulid.ULID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	return ok && p.Online
}

// SpawnSeat implements seat.World.
func (h *Host) SpawnSeat(_ context.Context, spec seat.SeatSpec) (ulid.ULID, error) {
	if hook := h.currentHooks().BeforeSpawn; hook != nil {
		if err := hook(spec); err != nil {
			return ulid.ULID{}, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.worlds[spec.Placement.WorldID]; !ok {
		return ulid.ULID{}, errUnknownWorld(spec.Placement.WorldID)
	}
	id := ulid.Make()
	h.entities[id] = &Entity{
		ID:        id,
		Kind:      KindSeat,
		Placement: spec.Placement,
		Traits:    spec.Traits,
		Tags:      maps.Clone(spec.Tags),
	}
	return id, nil
}

// Seat implements seat.World.
func (h *Host) Seat(_ context.Context, id ulid.ULID) (seat.SeatInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[id]
	if !ok || e.Kind != KindSeat {
		return seat.SeatInfo{}, false
	}
	return seatInfo(e), true
}

func seatInfo(e *Entity) seat.SeatInfo {
	info := seat.SeatInfo{
		ID:        e.ID,
		Placement: e.Placement,
		Tags:      maps.Clone(e.Tags),
	}
	if !e.Occupant.IsZero() {
		occupant := e.Occupant
		info.Occupant = &occupant
	}
	return info
}

// RemoveSeat implements seat.World. An occupant is ejected.
func (h *Host) RemoveSeat(_ context.Context, id ulid.ULID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[id]
	if !ok || e.Kind != KindSeat {
		return oops.In("sim").With("seat_id", id.String()).Wrap(seat.ErrSeatNotFound)
	}
	if p, ok := h.players[e.Occupant]; ok && p.Vehicle == id {
		p.Vehicle = ulid.ULID{}
	}
	delete(h.entities, id)
	return nil
}

// Vehicle implements seat.World.
func (h *Host) Vehicle(_ context.Context, actor ulid.ULID) (ulid.ULID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok || p.Vehicle.IsZero() {
		return ulid.ULID{}, false
	}
	return p.Vehicle, true
}

// Attach implements seat.World. Any entity kind can be ridden.
func (h *Host) Attach(_ context.Context, actor, vehicle ulid.ULID) error {
	if hook := h.currentHooks().BeforeAttach; hook != nil {
		if err := hook(actor, vehicle); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok || !p.Online {
		return oops.In("sim").With("actor_id", actor.String()).Wrap(seat.ErrActorOffline)
	}
	e, ok := h.entities[vehicle]
	if !ok {
		return oops.In("sim").With("seat_id", vehicle.String()).Wrap(seat.ErrSeatNotFound)
	}
	if !e.Occupant.IsZero() && e.Occupant != actor {
		return oops.In("sim").
			With("seat_id", vehicle.String()).
			With("occupant_id", e.Occupant.String()).
			Wrap(seat.ErrSeatOccupied)
	}
	h.eject(p)
	e.Occupant = actor
	p.Vehicle = vehicle
	return nil
}

// Detach implements seat.World. Detaching a non-occupant is a no-op.
func (h *Host) Detach(_ context.Context, actor, vehicle ulid.ULID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entities[vehicle]; ok && e.Occupant == actor {
		e.Occupant = ulid.ULID{}
	}
	if p, ok := h.players[actor]; ok && p.Vehicle == vehicle {
		p.Vehicle = ulid.ULID{}
	}
	return nil
}

// Teleport implements seat.World. Unlike TeleportPlayer it publishes no
// events, as a plugin-initiated move would not.
func (h *Host) Teleport(_ context.Context, actor ulid.ULID, to seat.Placement) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok || !p.Online {
		return oops.In("sim").With("actor_id", actor.String()).Wrap(seat.ErrActorOffline)
	}
	if _, ok := h.worlds[to.WorldID]; !ok {
		return errUnknownWorld(to.WorldID)
	}
	p.Placement = to
	return nil
}

// TaggedSeats implements seat.World.
func (h *Host) TaggedSeats(_ context.Context, tag string) []seat.SeatInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []seat.SeatInfo
	for _, e := range h.entities {
		if e.Kind != KindSeat {
			continue
		}
		if _, ok := e.Tags[tag]; ok {
			out = append(out, seatInfo(e))
		}
	}
	return out
}
