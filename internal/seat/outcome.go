// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import "time"

// OutcomeKind classifies the result of a seat request.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeNone        OutcomeKind = iota
	OutcomeSeating                 // seat spawned, mount scheduled for the next tick
	OutcomeSeated                  // mount confirmed
	OutcomeUnseated                // actor stood up
	OutcomeCooldown                // refused, cooldown still running
	OutcomeDenied                  // refused by an eligibility check
	OutcomeBusy                    // refused, a creation is already in flight
	OutcomeMountFailed             // seat spawned but mounting failed
	OutcomeFailed                  // seat could not be created
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeNone:        "none",
	OutcomeSeating:     "seating",
	OutcomeSeated:      "seated",
	OutcomeUnseated:    "unseated",
	OutcomeCooldown:    "cooldown",
	OutcomeDenied:      "denied",
	OutcomeBusy:        "busy",
	OutcomeMountFailed: "mount_failed",
	OutcomeFailed:      "failed",
}

// String returns a stable identifier suitable for metric labels.
func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the plain result signal handed to the presentation layer.
type Outcome struct {
	Kind OutcomeKind
	// Denial is set for OutcomeDenied.
	Denial *Denial
	// Remaining is set for OutcomeCooldown.
	Remaining time.Duration
}
