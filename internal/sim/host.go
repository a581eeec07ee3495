// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package sim is an in-memory world host for driving the seat manager.
//
// A Host owns worlds made of blocks, players and entities, and runs queued
// work once per tick. It implements seat.World and seat.Scheduler. Player
// actions that real servers report as events (quit, teleport, world change,
// sneak) are published on the Host's Broadcaster.
package sim

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/holosit/internal/seat"
)

// Entity kinds.
const (
	KindSeat = "seat"
	KindBoat = "boat"
)

// Player is a snapshot of one player.
type Player struct {
	ID           ulid.ULID
	Name         string
	Online       bool
	Placement    seat.Placement
	Sleeping     bool
	Gliding      bool
	Swimming     bool
	Sneaking     bool
	FallDistance float64
	Vehicle      ulid.ULID // zero when not riding
}

// Entity is a snapshot of one non-player entity.
type Entity struct {
	ID        ulid.ULID
	Kind      string
	Placement seat.Placement
	Traits    seat.Traits
	Tags      map[string]string
	Occupant  ulid.ULID // zero when empty
}

// Hooks let tests inject host failures. Hooks run without the host lock.
type Hooks struct {
	// BeforeSpawn may fail or panic a seat spawn.
	BeforeSpawn func(spec seat.SeatSpec) error
	// BeforeAttach may fail an attach.
	BeforeAttach func(actor, vehicle ulid.ULID) error
}

// Host is an in-memory world host. All methods are safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	worlds   map[string]*world
	players  map[ulid.ULID]*Player
	entities map[ulid.ULID]*Entity
	messages map[ulid.ULID][]string
	hooks    Hooks

	tasksMu sync.Mutex
	tasks   []func()
	tick    uint64

	events *Broadcaster
	logger *slog.Logger
}

// NewHost creates an empty host. A nil logger uses slog.Default.
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		worlds:   make(map[string]*world),
		players:  make(map[ulid.ULID]*Player),
		entities: make(map[ulid.ULID]*Entity),
		messages: make(map[ulid.ULID][]string),
		events:   NewBroadcaster(),
		logger:   logger,
	}
}

// Events returns the host's event broadcaster.
func (h *Host) Events() *Broadcaster {
	return h.events
}

// SetHooks replaces the failure injection hooks.
func (h *Host) SetHooks(hooks Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = hooks
}

func (h *Host) currentHooks() Hooks {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks
}

// AddWorld creates a world if it does not exist.
func (h *Host) AddWorld(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.worlds[id]; !ok {
		h.worlds[id] = newWorld(id)
	}
}

// Worlds lists loaded world ids.
func (h *Host) Worlds() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.worlds))
	for id := range h.worlds {
		ids = append(ids, id)
	}
	return ids
}

// SetBlock places a material by name.
func (h *Host) SetBlock(worldID string, pos BlockPos, material string) error {
	m, ok := LookupMaterial(material)
	if !ok {
		return oops.In("sim").Code("UNKNOWN_MATERIAL").With("material", material).Errorf("unknown material")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.worlds[worldID]
	if !ok {
		return errUnknownWorld(worldID)
	}
	w.setBlock(pos, m)
	return nil
}

// Block returns the material at pos.
func (h *Host) Block(worldID string, pos BlockPos) (Material, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.worlds[worldID]
	if !ok {
		return Material{}, errUnknownWorld(worldID)
	}
	return w.block(pos), nil
}

// Join connects a new player at the given placement.
func (h *Host) Join(name string, at seat.Placement) (ulid.ULID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.worlds[at.WorldID]; !ok {
		return ulid.ULID{}, errUnknownWorld(at.WorldID)
	}
	id := ulid.Make()
	h.players[id] = &Player{ID: id, Name: name, Online: true, Placement: at}
	return id, nil
}

// Rejoin reconnects an offline player at their last placement.
func (h *Host) Rejoin(actor ulid.ULID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok {
		return errUnknownPlayer(actor)
	}
	p.Online = true
	return nil
}

// FindPlayer looks a player up by name.
func (h *Host) FindPlayer(name string) (ulid.ULID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, p := range h.players {
		if p.Name == name {
			return id, true
		}
	}
	return ulid.ULID{}, false
}

// Player returns a snapshot of a player.
func (h *Host) Player(actor ulid.ULID) (Player, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// UpdatePlayer mutates a player's state in place. Changes made here
// publish no events.
func (h *Host) UpdatePlayer(actor ulid.ULID, fn func(p *Player)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.players[actor]
	if !ok {
		return errUnknownPlayer(actor)
	}
	fn(p)
	return nil
}

// Quit disconnects a player. The player leaves any vehicle first.
func (h *Host) Quit(actor ulid.ULID) error {
	h.mu.Lock()
	p, ok := h.players[actor]
	if !ok {
		h.mu.Unlock()
		return errUnknownPlayer(actor)
	}
	h.eject(p)
	p.Online = false
	h.mu.Unlock()

	h.events.Broadcast(seat.Event{Kind: seat.EventQuit, Actor: actor})
	return nil
}

// TeleportPlayer moves a player as a player-initiated teleport would.
// The player leaves any vehicle, and a teleport event is published,
// followed by a world change event when the world differs.
func (h *Host) TeleportPlayer(actor ulid.ULID, to seat.Placement) error {
	h.mu.Lock()
	p, ok := h.players[actor]
	if !ok {
		h.mu.Unlock()
		return errUnknownPlayer(actor)
	}
	if _, ok := h.worlds[to.WorldID]; !ok {
		h.mu.Unlock()
		return errUnknownWorld(to.WorldID)
	}
	changed := p.Placement.WorldID != to.WorldID
	h.eject(p)
	p.Placement = to
	h.mu.Unlock()

	h.events.Broadcast(seat.Event{Kind: seat.EventTeleport, Actor: actor})
	if changed {
		h.events.Broadcast(seat.Event{Kind: seat.EventWorldChange, Actor: actor})
	}
	return nil
}

// SetSneaking changes a player's sneak state and publishes it.
func (h *Host) SetSneaking(actor ulid.ULID, sneaking bool) error {
	h.mu.Lock()
	p, ok := h.players[actor]
	if !ok {
		h.mu.Unlock()
		return errUnknownPlayer(actor)
	}
	changed := p.Sneaking != sneaking
	p.Sneaking = sneaking
	h.mu.Unlock()

	if changed {
		h.events.Broadcast(seat.Event{Kind: seat.EventSneak, Actor: actor, Sneaking: sneaking})
	}
	return nil
}

// SpawnVehicle creates a rideable boat.
func (h *Host) SpawnVehicle(at seat.Placement) (ulid.ULID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.worlds[at.WorldID]; !ok {
		return ulid.ULID{}, errUnknownWorld(at.WorldID)
	}
	id := ulid.Make()
	h.entities[id] = &Entity{ID: id, Kind: KindBoat, Placement: at}
	return id, nil
}

// Entity returns a snapshot of an entity.
func (h *Host) Entity(id ulid.ULID) (Entity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[id]
	if !ok {
		return Entity{}, false
	}
	out := *e
	out.Tags = maps.Clone(e.Tags)
	return out, true
}

// CountEntities returns how many entities of kind exist.
func (h *Host) CountEntities(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// SendMessage delivers a chat line to a player.
func (h *Host) SendMessage(actor ulid.ULID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages[actor] = append(h.messages[actor], text)
}

// Messages returns every line delivered to a player.
func (h *Host) Messages(actor ulid.ULID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages[actor]...)
}

// LastMessage returns the most recent line delivered to a player.
func (h *Host) LastMessage(actor ulid.ULID) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := h.messages[actor]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// eject removes p from its vehicle. Callers hold h.mu.
func (h *Host) eject(p *Player) {
	if p.Vehicle.IsZero() {
		return
	}
	if e, ok := h.entities[p.Vehicle]; ok && e.Occupant == p.ID {
		e.Occupant = ulid.ULID{}
	}
	p.Vehicle = ulid.ULID{}
}

func errUnknownWorld(id string) error {
	return oops.In("sim").Code("UNKNOWN_WORLD").With("world_id", id).Errorf("world not loaded")
}

func errUnknownPlayer(actor ulid.ULID) error {
	return oops.In("sim").Code("UNKNOWN_PLAYER").With("actor_id", actor.String()).Errorf("unknown player")
}
