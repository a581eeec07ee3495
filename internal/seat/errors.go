// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Error codes for seat failures.
const (
	CodeSpawnFailed      = "SEAT_SPAWN_FAILED"
	CodeMountFailed      = "SEAT_MOUNT_FAILED"
	CodeActorUnavailable = "SEAT_ACTOR_UNAVAILABLE"
	CodeReloadFailed     = "SEAT_RELOAD_FAILED"
	CodeInvalidManager   = "SEAT_INVALID_MANAGER"
)

func errSpawnFailed(actor ulid.ULID, cause error) error {
	return oops.In("seat").
		Code(CodeSpawnFailed).
		With("actor_id", actor.String()).
		Wrapf(cause, "spawn seat")
}

func errNotMaterialized(actor, seat ulid.ULID) error {
	return oops.In("seat").
		Code(CodeSpawnFailed).
		With("actor_id", actor.String()).
		With("seat_id", seat.String()).
		Errorf("seat entity did not materialize")
}

func errMountFailed(actor, seat ulid.ULID, cause error) error {
	return oops.In("seat").
		Code(CodeMountFailed).
		With("actor_id", actor.String()).
		With("seat_id", seat.String()).
		Wrapf(cause, "mount actor")
}

func errActorUnavailable(actor ulid.ULID, cause error) error {
	return oops.In("seat").
		Code(CodeActorUnavailable).
		With("actor_id", actor.String()).
		Wrapf(cause, "read actor state")
}
