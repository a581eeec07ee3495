// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads the seat configuration snapshot.
//
// A Snapshot is immutable once built. Reloading produces a new Snapshot and
// swaps it into a Store, so readers never observe a half-applied reload.
package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
)

// Error codes for configuration failures.
const (
	CodeLoadFailed         = "CONFIG_LOAD_FAILED"
	CodeInvalid            = "CONFIG_INVALID"
	CodeVersionUnsupported = "CONFIG_VERSION_UNSUPPORTED"
)

// Defaults applied when a key is absent from the file.
const (
	DefaultConfigVersion   = "1.0.0"
	DefaultCooldownSeconds = 3

	// MaxCooldownSeconds caps cooldown-seconds at one day.
	MaxCooldownSeconds = 86400

	// SupportedVersions is the config-version range this build understands.
	SupportedVersions = ">= 1.0.0, < 2.0.0"
)

// DefaultBlacklist lists surfaces nobody should sit on.
var DefaultBlacklist = []string{
	"MAGMA_BLOCK",
	"CAMPFIRE",
	"SOUL_CAMPFIRE",
	"CACTUS",
	"SWEET_BERRY_BUSH",
}

// AutoUnsit selects which world events force an actor to stand up.
type AutoUnsit struct {
	OnQuit        bool `koanf:"on-quit" json:"on-quit,omitempty" jsonschema:"description=Stand up when the actor disconnects"`
	OnWorldChange bool `koanf:"on-world-change" json:"on-world-change,omitempty" jsonschema:"description=Stand up when the actor changes world"`
	OnTeleport    bool `koanf:"on-teleport" json:"on-teleport,omitempty" jsonschema:"description=Stand up when a seated actor is teleported"`
	OnSneak       bool `koanf:"on-sneak" json:"on-sneak,omitempty" jsonschema:"description=Stand up when a seated actor starts sneaking"`
}

// Snapshot is one consistent view of the seat configuration.
type Snapshot struct {
	ConfigVersion        string    `koanf:"config-version" json:"config-version,omitempty" jsonschema:"description=Configuration format version"`
	CooldownSeconds      int       `koanf:"cooldown-seconds" json:"cooldown-seconds,omitempty" jsonschema:"minimum=0,maximum=86400,description=Quiet period between seat actions"`
	PreventWhileGliding  bool      `koanf:"prevent-while-gliding" json:"prevent-while-gliding,omitempty"`
	PreventWhileSwimming bool      `koanf:"prevent-while-swimming" json:"prevent-while-swimming,omitempty"`
	PreventWhileFalling  bool      `koanf:"prevent-while-falling" json:"prevent-while-falling,omitempty"`
	PreventInLiquid      bool      `koanf:"prevent-in-liquid" json:"prevent-in-liquid,omitempty"`
	BlacklistBlocks      []string  `koanf:"blacklist-blocks" json:"blacklist-blocks,omitempty" jsonschema:"description=Surface names or glob patterns nobody may sit on"`
	AutoUnsit            AutoUnsit `koanf:"auto-unsit" json:"auto-unsit,omitempty"`
	OrphanSweepSeconds   int       `koanf:"orphan-sweep-seconds" json:"orphan-sweep-seconds,omitempty" jsonschema:"minimum=0,description=Interval of the periodic orphan sweep (0 disables it)"`

	blacklist *Blacklist
}

// Defaults returns a snapshot holding the built-in defaults.
func Defaults() *Snapshot {
	snap := defaultSnapshot()
	snap.blacklist, _ = CompileBlacklist(snap.BlacklistBlocks)
	return snap
}

func defaultSnapshot() *Snapshot {
	blacklist := make([]string, len(DefaultBlacklist))
	copy(blacklist, DefaultBlacklist)
	return &Snapshot{
		ConfigVersion:        DefaultConfigVersion,
		CooldownSeconds:      DefaultCooldownSeconds,
		PreventWhileGliding:  true,
		PreventWhileSwimming: true,
		PreventWhileFalling:  true,
		PreventInLiquid:      true,
		BlacklistBlocks:      blacklist,
		AutoUnsit: AutoUnsit{
			OnQuit:        true,
			OnWorldChange: true,
			OnTeleport:    true,
			OnSneak:       true,
		},
	}
}

// Blacklist returns the compiled blacklist. It is never nil.
func (s *Snapshot) Blacklist() *Blacklist {
	if s.blacklist == nil {
		return emptyBlacklist
	}
	return s.blacklist
}

// Validate checks value ranges and the config-version.
func (s *Snapshot) Validate() error {
	if s.CooldownSeconds < 0 || s.CooldownSeconds > MaxCooldownSeconds {
		return oops.Code(CodeInvalid).
			With("key", "cooldown-seconds").
			With("value", s.CooldownSeconds).
			Errorf("cooldown-seconds must be between 0 and %d", MaxCooldownSeconds)
	}
	if s.OrphanSweepSeconds < 0 {
		return oops.Code(CodeInvalid).
			With("key", "orphan-sweep-seconds").
			With("value", s.OrphanSweepSeconds).
			Errorf("orphan-sweep-seconds must be >= 0")
	}
	return checkVersion(s.ConfigVersion)
}

func checkVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return oops.Code(CodeInvalid).
			With("key", "config-version").
			With("value", raw).
			Wrapf(err, "config-version is not a semantic version")
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "invalid supported version range")
	}
	if !constraint.Check(v) {
		return oops.Code(CodeVersionUnsupported).
			With("version", raw).
			With("supported", SupportedVersions).
			Errorf("config-version %s is not supported", raw)
	}
	return nil
}
