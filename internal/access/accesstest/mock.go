// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package accesstest provides test helpers for access control.
package accesstest

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holosit/internal/access"
)

// AllowAll is a Checker that allows everything.
type AllowAll struct{}

// Check always returns true.
func (AllowAll) Check(_ context.Context, _ ulid.ULID, _ string) bool {
	return true
}

// DenyAll is a Checker that denies everything.
type DenyAll struct{}

// Check always returns false.
func (DenyAll) Check(_ context.Context, _ ulid.ULID, _ string) bool {
	return false
}

// MockAccessControl is a Checker for testing with selective grants.
type MockAccessControl struct {
	mu     sync.RWMutex
	grants map[ulid.ULID]map[string]bool
}

// NewMockAccessControl creates a new MockAccessControl.
func NewMockAccessControl() *MockAccessControl {
	return &MockAccessControl{
		grants: make(map[ulid.ULID]map[string]bool),
	}
}

// Grant gives an actor a capability.
func (m *MockAccessControl) Grant(actor ulid.ULID, capability string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grants[actor] == nil {
		m.grants[actor] = make(map[string]bool)
	}
	m.grants[actor][capability] = true
}

// Check implements access.Checker.
func (m *MockAccessControl) Check(_ context.Context, actor ulid.ULID, capability string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[actor][capability]
}

// Verify interfaces are satisfied.
var (
	_ access.Checker = AllowAll{}
	_ access.Checker = DenyAll{}
	_ access.Checker = (*MockAccessControl)(nil)
)
