// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Load builds a snapshot from the YAML file at path and any changed flags.
// An empty path yields the defaults (plus flag overrides).
// Flags are matched to keys by name, e.g. --cooldown-seconds.
func Load(path string, flags *pflag.FlagSet) (*Snapshot, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return nil, oops.Code(CodeLoadFailed).With("path", path).Wrap(err)
		}
		if err := ValidateSchema(data); err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeLoadFailed).With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code(CodeLoadFailed).With("source", "flags").Wrap(err)
		}
	}

	snap := defaultSnapshot()
	// Decoding a list into a non-empty slice merges element-wise, so the
	// default blacklist only applies when no source set the key.
	snap.BlacklistBlocks = nil
	if err := k.Unmarshal("", snap); err != nil {
		return nil, oops.Code(CodeInvalid).With("path", path).Wrap(err)
	}
	if !k.Exists("blacklist-blocks") {
		snap.BlacklistBlocks = defaultSnapshot().BlacklistBlocks
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	bl, errs := CompileBlacklist(snap.BlacklistBlocks)
	for _, err := range errs {
		slog.Debug("ignoring blacklist entry", "error", err)
	}
	snap.blacklist = bl

	return snap, nil
}

// Store holds the current snapshot and reloads it on demand.
// It is safe for concurrent use.
type Store struct {
	path    string
	flags   *pflag.FlagSet
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes reloads
}

// NewStore loads the initial snapshot from path and flags.
func NewStore(path string, flags *pflag.FlagSet) (*Store, error) {
	snap, err := Load(path, flags)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, flags: flags}
	s.current.Store(snap)
	return s, nil
}

// NewStaticStore wraps a fixed snapshot. Reload keeps it unchanged.
func NewStaticStore(snap *Snapshot) *Store {
	if snap == nil {
		snap = Defaults()
	}
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the configuration. On failure the previous snapshot stays
// in effect and the error is returned.
func (s *Store) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" && s.flags == nil {
		return s.current.Load(), nil
	}

	snap, err := Load(s.path, s.flags)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}

// Path returns the file the store reads from, if any.
func (s *Store) Path() string {
	return s.path
}
