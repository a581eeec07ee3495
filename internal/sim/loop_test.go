// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHost_StepRunsQueuedTasks(t *testing.T) {
	h := NewHost(nil)
	var ran []string

	h.NextTick(func() {
		ran = append(ran, "first")
		h.NextTick(func() { ran = append(ran, "deferred") })
	})
	h.NextTick(func() { ran = append(ran, "second") })
	assert.Equal(t, 2, h.PendingTasks())

	assert.Equal(t, uint64(1), h.Step())
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Equal(t, 1, h.PendingTasks())

	h.Step()
	assert.Equal(t, []string{"first", "second", "deferred"}, ran)
	assert.Equal(t, uint64(2), h.Tick())
}

func TestHost_StepRecoversPanics(t *testing.T) {
	h := NewHost(nil)
	ran := false

	h.NextTick(func() { panic("seat exploded") })
	h.NextTick(func() { ran = true })

	assert.NotPanics(t, func() { h.Step() })
	assert.True(t, ran)
}

func TestHost_RunStepsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHost(nil)
	var count atomic.Int32
	h.NextTick(func() { count.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, 200) }()

	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
