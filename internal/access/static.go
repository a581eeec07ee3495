// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Built-in role names.
const (
	RolePlayer    = "player"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// DefaultRoles returns the built-in role definitions.
func DefaultRoles() map[string][]string {
	return map[string][]string{
		RolePlayer:    {CapabilityUse},
		RoleModerator: {CapabilityUse, CapabilityBypassCooldown},
		RoleAdmin:     {"sit.*"},
	}
}

// StaticAccessControl implements Checker with static role definitions.
//
// Thread-safety: roles is immutable after construction and requires no synchronization.
// Only subjects and defaultRole are mutable and protected by mu.
type StaticAccessControl struct {
	roles       map[string][]compiledPermission // roleName → compiled capability patterns (immutable)
	subjects    map[ulid.ULID]string            // actor → roleName
	defaultRole string                          // role for actors without an assignment
	mu          sync.RWMutex
}

// compiledPermission holds a capability pattern and its compiled glob.
type compiledPermission struct {
	pattern string
	glob    glob.Glob
}

// NewStaticAccessControl creates an access controller with DefaultRoles.
//
// Panics if the default roles contain invalid patterns (code bug).
func NewStaticAccessControl() *StaticAccessControl {
	ac, err := NewStaticAccessControlWithRoles(DefaultRoles())
	if err != nil {
		panic("invalid capability pattern in DefaultRoles: " + err.Error())
	}
	return ac
}

// NewStaticAccessControlWithRoles creates an access controller with custom roles.
// Returns error if any pattern fails to compile.
func NewStaticAccessControlWithRoles(roles map[string][]string) (*StaticAccessControl, error) {
	compiledRoles := make(map[string][]compiledPermission, len(roles))
	for role, perms := range roles {
		compiled := make([]compiledPermission, 0, len(perms))
		for _, p := range perms {
			g, err := glob.Compile(p, '.')
			if err != nil {
				return nil, oops.In("access").
					Code("INVALID_PERMISSION_PATTERN").
					With("role", role).
					With("pattern", p).
					Wrap(err)
			}
			compiled = append(compiled, compiledPermission{pattern: p, glob: g})
		}
		compiledRoles[role] = compiled
	}

	return &StaticAccessControl{
		roles:    compiledRoles,
		subjects: make(map[ulid.ULID]string),
	}, nil
}

// Check implements Checker.
func (s *StaticAccessControl) Check(ctx context.Context, actor ulid.ULID, capability string) bool {
	if actor.IsZero() || capability == "" {
		return false
	}

	s.mu.RLock()
	role, ok := s.subjects[actor]
	if !ok {
		role = s.defaultRole
	}
	s.mu.RUnlock()

	if role == "" {
		return false
	}

	for _, perm := range s.roles[role] {
		if perm.glob.Match(capability) {
			return true
		}
	}

	slog.DebugContext(ctx, "capability denied",
		"actor_id", actor.String(),
		"role", role,
		"capability", capability,
	)
	return false
}

// AssignRole sets the role for an actor.
// Returns error if the actor is zero or the role is unknown.
func (s *StaticAccessControl) AssignRole(actor ulid.ULID, role string) error {
	if actor.IsZero() {
		return oops.In("access").Code("INVALID_SUBJECT").New("actor cannot be empty")
	}
	if _, ok := s.roles[role]; !ok {
		return oops.In("access").Code("UNKNOWN_ROLE").With("role", role).New("unknown role")
	}

	s.mu.Lock()
	s.subjects[actor] = role
	s.mu.Unlock()

	return nil
}

// RevokeRole removes an actor's role assignment.
func (s *StaticAccessControl) RevokeRole(actor ulid.ULID) {
	s.mu.Lock()
	delete(s.subjects, actor)
	s.mu.Unlock()
}

// GetRole returns the role assigned to an actor, or empty string if none.
func (s *StaticAccessControl) GetRole(actor ulid.ULID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects[actor]
}

// SetDefaultRole sets the role used for actors without an assignment.
// An empty role denies unassigned actors everything.
func (s *StaticAccessControl) SetDefaultRole(role string) error {
	if role != "" {
		if _, ok := s.roles[role]; !ok {
			return oops.In("access").Code("UNKNOWN_ROLE").With("role", role).New("unknown role")
		}
	}

	s.mu.Lock()
	s.defaultRole = role
	s.mu.Unlock()

	return nil
}
