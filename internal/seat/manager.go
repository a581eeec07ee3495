// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/holosit/internal/access"
	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/internal/logging"
	"github.com/holomush/holosit/pkg/errutil"
)

var tracer = otel.Tracer("holosit/seat")

// Cause names what triggered an unseat.
type Cause string

// Unseat causes.
const (
	CauseToggle      Cause = "toggle"
	CauseQuit        Cause = "quit"
	CauseWorldChange Cause = "world_change"
	CauseTeleport    Cause = "teleport"
	CauseSneak       Cause = "sneak"
	CauseShutdown    Cause = "shutdown"
)

// ConfigSource supplies configuration snapshots.
type ConfigSource interface {
	Snapshot() *config.Snapshot
	Reload() (*config.Snapshot, error)
}

// ManagerConfig holds dependencies for a Manager.
type ManagerConfig struct {
	World     World
	Scheduler Scheduler
	Config    ConfigSource
	Access    access.Checker // optional; nil means nobody bypasses the cooldown
	Notifier  Notifier       // optional
	Cooldowns *CooldownTracker
	Registry  *Registry
	Logger    *slog.Logger
}

// Manager owns the seat lifecycle of every actor.
// All methods are safe for concurrent use.
type Manager struct {
	world     World
	scheduler Scheduler
	config    ConfigSource
	access    access.Checker
	notifier  Notifier
	cooldowns *CooldownTracker
	registry  *Registry
	logger    *slog.Logger
}

// NewManager creates a Manager. World, Scheduler and Config are required.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.World == nil || cfg.Scheduler == nil || cfg.Config == nil {
		return nil, oops.In("seat").
			Code(CodeInvalidManager).
			With("world_set", cfg.World != nil).
			With("scheduler_set", cfg.Scheduler != nil).
			With("config_set", cfg.Config != nil).
			Errorf("world, scheduler and config are required")
	}
	m := &Manager{
		world:     cfg.World,
		scheduler: cfg.Scheduler,
		config:    cfg.Config,
		access:    cfg.Access,
		notifier:  cfg.Notifier,
		cooldowns: cfg.Cooldowns,
		registry:  cfg.Registry,
		logger:    cfg.Logger,
	}
	if m.cooldowns == nil {
		m.cooldowns = NewCooldownTracker()
	}
	if m.registry == nil {
		m.registry = NewRegistry()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m, nil
}

// Registry exposes the manager's registry for inspection.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsSeated reports whether the actor has a registry entry whose seat still
// exists. A stale entry is dropped.
func (m *Manager) IsSeated(ctx context.Context, actor ulid.ULID) bool {
	seatID, ok := m.registry.Get(actor)
	if !ok {
		return false
	}
	if _, ok := m.world.Seat(ctx, seatID); ok {
		return true
	}
	if m.registry.RemoveIf(actor, seatID) {
		m.logger.DebugContext(ctx, "dropped stale seat entry",
			"actor_id", actor.String(),
			"seat_id", seatID.String(),
		)
	}
	return false
}

// Toggle sits the actor down or stands them up.
//
// Sitting down is two-phase: the seat is spawned and reserved now, and the
// actor is mounted on the next tick. Toggle returns OutcomeSeating for that
// case; the final result reaches the Notifier. An error is returned only
// for TransientCreationFailure and unreadable actor state.
func (m *Manager) Toggle(ctx context.Context, actor ulid.ULID) (out Outcome, err error) {
	ctx = logging.WithActor(ctx, actor)
	ctx, span := tracer.Start(ctx, "seat.toggle",
		trace.WithAttributes(attribute.String("actor.id", actor.String())),
	)
	defer func() {
		if err != nil {
			out.Kind = OutcomeFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("seat.outcome", out.Kind.String()))
		span.End()
		TogglesTotal.WithLabelValues(out.Kind.String()).Inc()
	}()

	if m.registry.Pending(actor) {
		return Outcome{Kind: OutcomeBusy}, nil
	}

	if m.IsSeated(ctx, actor) {
		// A concurrent toggle may have stood the actor up first.
		if !m.unseat(ctx, actor, CauseToggle, false) {
			return Outcome{Kind: OutcomeNone}, nil
		}
		return Outcome{Kind: OutcomeUnseated}, nil
	}

	snap := m.config.Snapshot()
	bypass := m.access != nil && m.access.Check(ctx, actor, access.CapabilityBypassCooldown)
	if remaining := m.cooldowns.Remaining(actor, bypass, snap.CooldownSeconds); remaining > 0 {
		return Outcome{Kind: OutcomeCooldown, Remaining: remaining}, nil
	}

	state, err := m.world.ActorState(ctx, actor)
	if err != nil {
		return Outcome{}, errActorUnavailable(actor, err)
	}

	if denial := Evaluate(state, snap); denial != nil {
		span.SetAttributes(attribute.String("seat.denial", denial.Reason.String()))
		return Outcome{Kind: OutcomeDenied, Denial: denial}, nil
	}

	res, ok := m.registry.Reserve(actor)
	if !ok {
		return Outcome{Kind: OutcomeBusy}, nil
	}

	if err := m.createSeat(ctx, actor, state.Placement, res); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeSeating}, nil
}

// createSeat spawns the seat and schedules the mount. Any failure before
// the mount is scheduled destroys the seat and drops the reservation. A
// panic from the world is reported as a spawn failure.
func (m *Manager) createSeat(ctx context.Context, actor ulid.ULID, at Placement, res *Reservation) (err error) {
	var seatID ulid.ULID
	scheduled := false
	defer func() {
		if r := recover(); r != nil {
			scheduled = false
			err = errSpawnFailed(actor, oops.With("panic", fmt.Sprint(r)).Errorf("world panicked while creating seat"))
			errutil.LogError(ctx, m.logger, "seat creation panicked", err)
		}
		if scheduled {
			return
		}
		m.registry.Release(res)
		if !seatID.IsZero() {
			m.destroySeat(ctx, seatID)
		}
	}()

	spec := SeatSpec{
		Placement: Placement{
			WorldID:  at.WorldID,
			Position: at.Position,
			Yaw:      at.Yaw,
			Pitch:    0,
		},
		Traits: SeatTraits(),
		Tags:   map[string]string{OwnerTag: actor.String()},
	}

	seatID, err = m.world.SpawnSeat(ctx, spec)
	if err != nil {
		return errSpawnFailed(actor, err)
	}
	if _, ok := m.world.Seat(ctx, seatID); !ok {
		return errNotMaterialized(actor, seatID)
	}
	if !m.registry.Bind(res, seatID) {
		return errNotMaterialized(actor, seatID)
	}

	mountCtx := context.WithoutCancel(ctx)
	m.scheduler.NextTick(func() {
		m.mount(mountCtx, actor, seatID, res)
	})
	scheduled = true

	m.logger.DebugContext(ctx, "seat spawned, mount scheduled",
		"seat_id", seatID.String(),
		"world_id", at.WorldID,
	)
	return nil
}

// mount runs on the tick after createSeat. Unless the reservation is
// confirmed, the seat is destroyed on the way out.
func (m *Manager) mount(ctx context.Context, actor, seatID ulid.ULID, res *Reservation) {
	confirmed := false
	defer func() {
		if confirmed {
			return
		}
		m.registry.Release(res)
		m.destroySeat(ctx, seatID)
	}()

	if !m.world.Online(actor) || !m.registry.Current(res) {
		MountsTotal.WithLabelValues(mountCancelled).Inc()
		m.logger.DebugContext(ctx, "seat mount cancelled",
			"seat_id", seatID.String(),
		)
		return
	}
	if _, ok := m.world.Seat(ctx, seatID); !ok {
		MountsTotal.WithLabelValues(mountConflict).Inc()
		errutil.LogWarn(ctx, m.logger, "seat mount failed",
			errMountFailed(actor, seatID, ErrSeatNotFound))
		m.notify(ctx, actor, Outcome{Kind: OutcomeMountFailed})
		return
	}

	if vehicle, ok := m.world.Vehicle(ctx, actor); ok {
		if err := m.world.Detach(ctx, actor, vehicle); err != nil {
			m.logger.DebugContext(ctx, "failed to clear previous vehicle",
				"vehicle_id", vehicle.String(),
				"error", err,
			)
		}
	}

	if err := m.world.Attach(ctx, actor, seatID); err != nil {
		MountsTotal.WithLabelValues(mountConflict).Inc()
		errutil.LogWarn(ctx, m.logger, "seat mount failed", errMountFailed(actor, seatID, err))
		m.notify(ctx, actor, Outcome{Kind: OutcomeMountFailed})
		return
	}

	if !m.registry.Confirm(res) {
		// Cancelled while attaching.
		if err := m.world.Detach(ctx, actor, seatID); err != nil {
			m.logger.DebugContext(ctx, "failed to detach cancelled mount", "error", err)
		}
		MountsTotal.WithLabelValues(mountCancelled).Inc()
		return
	}
	confirmed = true

	m.cooldowns.MarkUsed(actor)
	MountsTotal.WithLabelValues(mountConfirmed).Inc()
	m.logger.InfoContext(ctx, "actor seated", "seat_id", seatID.String())
	m.notify(ctx, actor, Outcome{Kind: OutcomeSeated})
}

// Unseat stands the actor up. It also cancels a creation in flight.
// Returns true if there was anything to undo.
func (m *Manager) Unseat(ctx context.Context, actor ulid.ULID, cause Cause, notify bool) bool {
	ctx = logging.WithActor(ctx, actor)
	return m.unseat(ctx, actor, cause, notify)
}

func (m *Manager) unseat(ctx context.Context, actor ulid.ULID, cause Cause, notify bool) bool {
	ctx, span := tracer.Start(ctx, "seat.unseat",
		trace.WithAttributes(
			attribute.String("actor.id", actor.String()),
			attribute.String("seat.cause", string(cause)),
		),
	)
	defer span.End()

	cancelled := m.registry.Cancel(actor)

	// Deregister first so concurrent toggles see the actor standing.
	seatID, ok := m.registry.Remove(actor)
	if !ok {
		return cancelled
	}

	m.dismount(ctx, actor, seatID)

	if cause != CauseToggle {
		ForcedUnseatsTotal.WithLabelValues(string(cause)).Inc()
	}
	m.logger.InfoContext(ctx, "actor unseated",
		"seat_id", seatID.String(),
		"cause", string(cause),
	)
	if notify {
		m.notify(ctx, actor, Outcome{Kind: OutcomeUnseated})
	}
	return true
}

// dismount detaches the actor, lifts them clear of the block and destroys
// the seat. An actor the host already ejected (teleport, quit) stays where
// they are. A seat that no longer exists is already clean.
func (m *Manager) dismount(ctx context.Context, actor, seatID ulid.ULID) {
	info, ok := m.world.Seat(ctx, seatID)
	if !ok {
		m.logger.DebugContext(ctx, "seat already gone", "seat_id", seatID.String())
		return
	}

	riding := info.Occupant != nil && *info.Occupant == actor
	if riding {
		if err := m.world.Detach(ctx, actor, seatID); err != nil {
			m.logger.WarnContext(ctx, "failed to detach actor from seat",
				"seat_id", seatID.String(),
				"error", err,
			)
		}
	}

	if riding && m.world.Online(actor) {
		safe := info.Placement
		safe.Position = safe.Position.Add(mgl64.Vec3{0, SafeLift, 0})
		if err := m.world.Teleport(ctx, actor, safe); err != nil {
			m.logger.DebugContext(ctx, "failed to lift actor off seat", "error", err)
		}
	}

	m.destroySeat(ctx, seatID)
}

func (m *Manager) destroySeat(ctx context.Context, seatID ulid.ULID) {
	err := m.world.RemoveSeat(ctx, seatID)
	if err != nil && !errors.Is(err, ErrSeatNotFound) {
		m.logger.WarnContext(ctx, "failed to remove seat entity",
			"seat_id", seatID.String(),
			"error", err,
		)
	}
}

func (m *Manager) notify(ctx context.Context, actor ulid.ULID, out Outcome) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ctx, actor, out)
}

// CleanupOrphans destroys every tagged seat without an occupant, except
// seats whose owner has a creation in flight. A registry entry pointing at
// a destroyed seat is dropped. Returns the number of seats destroyed.
func (m *Manager) CleanupOrphans(ctx context.Context) int {
	pending := m.registry.PendingSeats()
	removed := 0

	for _, info := range m.world.TaggedSeats(ctx, OwnerTag) {
		if info.Occupant != nil {
			continue
		}
		if _, ok := pending[info.ID]; ok {
			continue
		}
		// The owner is reserved from before the spawn until the mount
		// resolves, so an unbound seat of a pending owner is in creation.
		owner, hasOwner := info.Owner()
		if hasOwner && m.registry.Pending(owner) {
			continue
		}
		if current, ok := m.world.Seat(ctx, info.ID); !ok || current.Occupant != nil {
			continue
		}
		if err := m.world.RemoveSeat(ctx, info.ID); err != nil {
			if !errors.Is(err, ErrSeatNotFound) {
				m.logger.WarnContext(ctx, "failed to remove orphan seat",
					"seat_id", info.ID.String(),
					"error", err,
				)
			}
			continue
		}
		removed++
		if hasOwner {
			m.registry.RemoveIf(owner, info.ID)
		}
	}

	if removed > 0 {
		OrphansRemovedTotal.Add(float64(removed))
		m.logger.InfoContext(ctx, "removed orphan seats", "count", removed)
	}
	return removed
}

// ForceUnseatAll stands every actor up, cancels creations in flight and
// sweeps orphans. Returns the number of actors unseated.
func (m *Manager) ForceUnseatAll(ctx context.Context) int {
	cancelled := m.registry.CancelAll()

	unseated := 0
	for _, actor := range m.registry.SeatedActors() {
		if m.Unseat(ctx, actor, CauseShutdown, false) {
			unseated++
		}
	}

	orphans := m.CleanupOrphans(ctx)
	m.logger.InfoContext(ctx, "forced all actors to stand",
		"unseated", unseated,
		"cancelled", cancelled,
		"orphans", orphans,
	)
	return unseated
}

// Reload re-reads the configuration. The previous snapshot stays in effect
// on failure.
func (m *Manager) Reload(ctx context.Context) error {
	snap, err := m.config.Reload()
	if err != nil {
		wrapped := oops.In("seat").Code(CodeReloadFailed).Wrap(err)
		errutil.LogError(ctx, m.logger, "configuration reload failed", wrapped)
		return wrapped
	}
	m.logger.InfoContext(ctx, "configuration reloaded",
		"cooldown_seconds", snap.CooldownSeconds,
		"blacklist_entries", snap.Blacklist().Len(),
	)
	return nil
}

// RunSweeper runs CleanupOrphans on the host's tick every interval until
// ctx is cancelled. A non-positive interval returns immediately.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scheduler.NextTick(func() {
				m.CleanupOrphans(context.WithoutCancel(ctx))
			})
		}
	}
}
