// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/holomush/holosit/internal/seat"
)

// DefaultTickRate is the tick frequency in Hz.
const DefaultTickRate = 20

var _ seat.Scheduler = (*Host)(nil)

// NextTick implements seat.Scheduler. fn runs during the next Step.
func (h *Host) NextTick(fn func()) {
	h.tasksMu.Lock()
	defer h.tasksMu.Unlock()
	h.tasks = append(h.tasks, fn)
}

// PendingTasks returns the number of tasks queued for the next tick.
func (h *Host) PendingTasks() int {
	h.tasksMu.Lock()
	defer h.tasksMu.Unlock()
	return len(h.tasks)
}

// Tick returns the number of completed steps.
func (h *Host) Tick() uint64 {
	h.tasksMu.Lock()
	defer h.tasksMu.Unlock()
	return h.tick
}

// Step advances one tick, running the tasks queued before it started.
// Tasks queued while stepping run on the following tick. A panicking task
// is logged and does not stop the others.
func (h *Host) Step() uint64 {
	h.tasksMu.Lock()
	tasks := h.tasks
	h.tasks = nil
	h.tick++
	tick := h.tick
	h.tasksMu.Unlock()

	for _, fn := range tasks {
		h.runTask(tick, fn)
	}
	return tick
}

func (h *Host) runTask(tick uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("tick task panicked",
				"tick", tick,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	fn()
}

// Run steps the host at tickRate Hz until ctx is cancelled.
// A non-positive tickRate uses DefaultTickRate.
func (h *Host) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Step()
		}
	}
}
