// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/holomush/holosit/pkg/errutil"
)

func TestAssertErrorCode_InnermostCodeWins(t *testing.T) {
	inner := oops.Code("CONFIG_INVALID").Errorf("bad cooldown")
	err := oops.In("seat").Code("SEAT_RELOAD_FAILED").Wrap(inner)

	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorDomain(t, err, "seat")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("actor_id", "01J0000000000000000000ACTR").Errorf("test error")
	errutil.AssertErrorContext(t, err, "actor_id", "01J0000000000000000000ACTR")
}
