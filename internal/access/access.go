// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package access provides capability checks for seat commands.
//
// Capabilities are dot-separated strings ("sit.use"). Roles grant
// capability patterns, where '*' matches within one segment:
//   - "sit.*" grants sit.use, sit.reload and sit.bypasscooldown
//   - "*.use" grants sit.use
package access

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Capabilities consumed by the seat core and the /sit command.
const (
	CapabilityUse            = "sit.use"
	CapabilityBypassCooldown = "sit.bypasscooldown"
	CapabilityReload         = "sit.reload"
)

// Checker answers whether an actor holds a capability.
type Checker interface {
	// Check returns true if actor holds capability. Unknown actors are denied.
	Check(ctx context.Context, actor ulid.ULID, capability string) bool
}
