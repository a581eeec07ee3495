// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// Registry manages command registration and lookup.
// It is thread-safe for concurrent access.
type Registry struct {
	commands map[string]CommandEntry
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandEntry),
	}
}

// Register adds a command to the registry. Names are stored lower-cased.
// If a command with the same name exists, it is overwritten and a warning is logged.
func (r *Registry) Register(entry CommandEntry) error {
	entry.Name = strings.ToLower(strings.TrimSpace(entry.Name))
	if entry.Name == "" || entry.Handler == nil {
		return oops.Code("INVALID_COMMAND").
			With("command", entry.Name).
			Errorf("command needs a name and a handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[entry.Name]; ok {
		slog.Warn("command conflict: overwriting existing command", "command", entry.Name)
	}

	r.commands[entry.Name] = entry
	return nil
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (CommandEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.commands[name]
	return entry, ok
}

// Names returns every registered command name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
