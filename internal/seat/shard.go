// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat

import (
	"encoding/binary"

	"github.com/oklog/ulid/v2"
)

// shardCount is the number of lock stripes used by per-actor stores.
const shardCount = 32

// shardIndex picks a stripe from the random tail of a ULID.
func shardIndex(id ulid.ULID) int {
	return int(binary.BigEndian.Uint32(id[12:]) % shardCount)
}
