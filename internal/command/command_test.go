// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/holosit/internal/seat"
)

// mockSeats is a testify mock of Seats.
type mockSeats struct {
	mock.Mock
}

func (m *mockSeats) Toggle(ctx context.Context, actor ulid.ULID) (seat.Outcome, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(seat.Outcome), args.Error(1)
}

func (m *mockSeats) Reload(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingMessenger captures chat lines per actor.
type recordingMessenger struct {
	mu    sync.Mutex
	lines map[ulid.ULID][]string
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{lines: make(map[ulid.ULID][]string)}
}

func (r *recordingMessenger) SendMessage(actor ulid.ULID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[actor] = append(r.lines[actor], text)
}

func (r *recordingMessenger) Lines(actor ulid.ULID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines[actor]...)
}
