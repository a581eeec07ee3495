// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"github.com/holomush/holosit/internal/config"
)

// DenialReason identifies why an actor may not sit down.
type DenialReason int

// Denial reasons in evaluation order.
const (
	DenialVehicle DenialReason = iota + 1
	DenialSleeping
	DenialGliding
	DenialSwimming
	DenialFalling
	DenialLiquid
	DenialBlacklisted
	DenialNonSolid
	DenialNoHeadroom
)

var denialNames = map[DenialReason]string{
	DenialVehicle:     "vehicle",
	DenialSleeping:    "sleeping",
	DenialGliding:     "gliding",
	DenialSwimming:    "swimming",
	DenialFalling:     "falling",
	DenialLiquid:      "liquid",
	DenialBlacklisted: "blacklisted",
	DenialNonSolid:    "non_solid",
	DenialNoHeadroom:  "no_headroom",
}

// String returns a stable identifier suitable for logs and metric labels.
func (r DenialReason) String() string {
	if name, ok := denialNames[r]; ok {
		return name
	}
	return "unknown"
}

// Denial is a refused seat attempt.
type Denial struct {
	Reason DenialReason
	// Surface is the offending block type for DenialBlacklisted.
	Surface string
}

// Evaluate decides whether an actor in the given state may sit down.
// It returns nil when sitting is allowed. The first failing check wins,
// so the reason reported is deterministic for a given state.
func Evaluate(state ActorState, snap *config.Snapshot) *Denial {
	switch {
	case state.InVehicle:
		return &Denial{Reason: DenialVehicle}
	case state.Sleeping:
		return &Denial{Reason: DenialSleeping}
	case state.Gliding && snap.PreventWhileGliding:
		return &Denial{Reason: DenialGliding}
	case state.Swimming && snap.PreventWhileSwimming:
		return &Denial{Reason: DenialSwimming}
	case state.FallDistance > 0 && snap.PreventWhileFalling:
		return &Denial{Reason: DenialFalling}
	case state.Feet.Liquid && snap.PreventInLiquid:
		return &Denial{Reason: DenialLiquid}
	case snap.Blacklist().Match(state.Below.Type):
		return &Denial{Reason: DenialBlacklisted, Surface: state.Below.Type}
	case !state.Below.Solid:
		return &Denial{Reason: DenialNonSolid}
	case state.Feet.Solid:
		return &Denial{Reason: DenialNoHeadroom}
	}
	return nil
}
