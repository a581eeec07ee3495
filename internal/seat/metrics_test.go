// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package seat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holosit/internal/seat"
	"github.com/holomush/holosit/internal/sim"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	seat.RegisterMetrics(reg)
	assert.Panics(t, func() { seat.RegisterMetrics(reg) }, "double registration panics")
}

func TestMetrics_CountOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	denied := testutil.ToFloat64(seat.TogglesTotal.WithLabelValues("denied"))
	confirmed := testutil.ToFloat64(seat.MountsTotal.WithLabelValues("confirmed"))
	conflict := testutil.ToFloat64(seat.MountsTotal.WithLabelValues("conflict"))
	sneaks := testutil.ToFloat64(seat.ForcedUnseatsTotal.WithLabelValues("sneak"))
	orphans := testutil.ToFloat64(seat.OrphansRemovedTotal)

	_, err := f.mgr.Toggle(ctx, f.join(t, "magma"))
	require.NoError(t, err)
	assert.InDelta(t, denied+1, testutil.ToFloat64(seat.TogglesTotal.WithLabelValues("denied")), 0)

	sitter := f.join(t, "spawn")
	f.sit(t, sitter)
	assert.InDelta(t, confirmed+1, testutil.ToFloat64(seat.MountsTotal.WithLabelValues("confirmed")), 0)

	f.mgr.OnSneak(ctx, sitter, true)
	assert.InDelta(t, sneaks+1, testutil.ToFloat64(seat.ForcedUnseatsTotal.WithLabelValues("sneak")), 0)

	f.host.SetHooks(sim.Hooks{BeforeAttach: func(_, _ ulid.ULID) error { return seat.ErrSeatOccupied }})
	_, err = f.mgr.Toggle(ctx, f.join(t, "bench"))
	require.NoError(t, err)
	f.host.Step()
	assert.InDelta(t, conflict+1, testutil.ToFloat64(seat.MountsTotal.WithLabelValues("conflict")), 0)

	_, err = f.host.SpawnSeat(ctx, seat.SeatSpec{
		Placement: sim.Spawn(sim.Overworld),
		Tags:      map[string]string{seat.OwnerTag: ulid.Make().String()},
	})
	require.NoError(t, err)
	f.mgr.CleanupOrphans(ctx)
	assert.InDelta(t, orphans+1, testutil.ToFloat64(seat.OrphansRemovedTotal), 0)
}

func TestRegisterGauges(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	f.mgr.RegisterGauges(reg)

	f.sit(t, f.join(t, "spawn"))
	_, err := f.mgr.Toggle(context.Background(), f.join(t, "bench"))
	require.NoError(t, err)

	expected := `
# HELP holosit_seats_active Current number of seated actors
# TYPE holosit_seats_active gauge
holosit_seats_active 1
# HELP holosit_seats_pending Current number of seat creations awaiting their mount tick
# TYPE holosit_seats_pending gauge
holosit_seats_pending 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"holosit_seats_active", "holosit_seats_pending"))
}
