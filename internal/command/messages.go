// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holosit/internal/seat"
)

// Player-facing messages.
const (
	MsgSitDown       = "You sit down."
	MsgStandUp       = "You stand up."
	MsgCooldown      = "Please wait before using /sit again."
	MsgMountConflict = "Unable to mount (entity conflict)."
	MsgCreateFailed  = "An error occurred while creating the seat."
	MsgBusy          = "Your seat is still being prepared."
	MsgReloaded      = "Configuration reloaded."
	MsgReloadFailed  = "Configuration reload failed; previous settings kept."
)

var denialText = map[seat.DenialReason]string{
	seat.DenialVehicle:    "you are in a vehicle.",
	seat.DenialSleeping:   "you are sleeping.",
	seat.DenialGliding:    "you are gliding (elytra).",
	seat.DenialSwimming:   "you are swimming.",
	seat.DenialFalling:    "you are falling.",
	seat.DenialLiquid:     "you are in a liquid.",
	seat.DenialNonSolid:   "no solid block under your feet.",
	seat.DenialNoHeadroom: "not enough space at your current location.",
}

// DenialMessage renders why an actor cannot sit.
func DenialMessage(d *seat.Denial) string {
	if d == nil {
		return ""
	}
	if d.Reason == seat.DenialBlacklisted {
		return fmt.Sprintf("Cannot sit: the block under your feet is dangerous (%s).", d.Surface)
	}
	if text, ok := denialText[d.Reason]; ok {
		return "Cannot sit: " + text
	}
	return "Cannot sit here."
}

// CooldownMessage renders a cooldown refusal, rounding the wait up to
// whole seconds.
func CooldownMessage(remaining time.Duration) string {
	secs := int(math.Ceil(remaining.Seconds()))
	if secs <= 0 {
		return MsgCooldown
	}
	return fmt.Sprintf("Please wait %ds before using /sit again.", secs)
}

// OutcomeMessage renders a seat outcome. Outcomes with nothing to say
// render as "".
func OutcomeMessage(out seat.Outcome) string {
	switch out.Kind {
	case seat.OutcomeSeated:
		return MsgSitDown
	case seat.OutcomeUnseated:
		return MsgStandUp
	case seat.OutcomeCooldown:
		return CooldownMessage(out.Remaining)
	case seat.OutcomeDenied:
		return DenialMessage(out.Denial)
	case seat.OutcomeBusy:
		return MsgBusy
	case seat.OutcomeMountFailed:
		return MsgMountConflict
	case seat.OutcomeFailed:
		return MsgCreateFailed
	default:
		return ""
	}
}

// Notifier renders outcomes reported by the seat manager as chat lines.
type Notifier struct {
	messenger Messenger
}

var _ seat.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier that writes through m.
func NewNotifier(m Messenger) *Notifier {
	return &Notifier{messenger: m}
}

// Notify implements seat.Notifier.
func (n *Notifier) Notify(_ context.Context, actor ulid.ULID, out seat.Outcome) {
	if msg := OutcomeMessage(out); msg != "" {
		n.messenger.SendMessage(actor, msg)
	}
}
