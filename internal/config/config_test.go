// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/pkg/errutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	snap := config.Defaults()

	assert.Equal(t, config.DefaultConfigVersion, snap.ConfigVersion)
	assert.Equal(t, 3, snap.CooldownSeconds)
	assert.True(t, snap.PreventWhileGliding)
	assert.True(t, snap.PreventWhileSwimming)
	assert.True(t, snap.PreventWhileFalling)
	assert.True(t, snap.PreventInLiquid)
	assert.True(t, snap.AutoUnsit.OnQuit)
	assert.True(t, snap.AutoUnsit.OnWorldChange)
	assert.True(t, snap.AutoUnsit.OnTeleport)
	assert.True(t, snap.AutoUnsit.OnSneak)
	assert.Zero(t, snap.OrphanSweepSeconds)
	assert.ElementsMatch(t, config.DefaultBlacklist, snap.BlacklistBlocks)
	assert.True(t, snap.Blacklist().Match("magma_block"))
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	snap, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().CooldownSeconds, snap.CooldownSeconds)
	assert.ElementsMatch(t, config.DefaultBlacklist, snap.BlacklistBlocks)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
config-version: "1.2.0"
cooldown-seconds: 10
prevent-in-liquid: false
blacklist-blocks:
  - "*_CARPET"
auto-unsit:
  on-sneak: false
`)

	snap, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", snap.ConfigVersion)
	assert.Equal(t, 10, snap.CooldownSeconds)
	assert.False(t, snap.PreventInLiquid)
	assert.True(t, snap.PreventWhileGliding, "absent keys keep their defaults")
	assert.Equal(t, []string{"*_CARPET"}, snap.BlacklistBlocks)
	assert.False(t, snap.AutoUnsit.OnSneak)
	assert.True(t, snap.AutoUnsit.OnQuit)

	assert.True(t, snap.Blacklist().Match("WHITE_CARPET"))
	assert.False(t, snap.Blacklist().Match("MAGMA_BLOCK"), "file list replaces the default list")
}

func TestLoad_EmptyBlacklistDisablesIt(t *testing.T) {
	path := writeConfig(t, "blacklist-blocks: []\n")

	snap, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Empty(t, snap.BlacklistBlocks)
	assert.Zero(t, snap.Blacklist().Len())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown key", "bogus: 1\n", config.CodeInvalid},
		{"negative cooldown", "cooldown-seconds: -1\n", config.CodeInvalid},
		{"cooldown above a day", "cooldown-seconds: 86401\n", config.CodeInvalid},
		{"cooldown overflowing a duration", "cooldown-seconds: 9300000000\n", config.CodeInvalid},
		{"wrong type", "cooldown-seconds: soon\n", config.CodeInvalid},
		{"malformed version", "config-version: banana\n", config.CodeInvalid},
		{"unsupported version", "config-version: \"2.0.0\"\n", config.CodeVersionUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body), nil)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, config.CodeLoadFailed)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "cooldown-seconds: 5\nprevent-in-liquid: false\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--cooldown-seconds=7", "--auto-unsit.on-teleport=false"}))

	snap, err := config.Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 7, snap.CooldownSeconds, "changed flag wins")
	assert.False(t, snap.PreventInLiquid, "unchanged flag keeps file value")
	assert.False(t, snap.AutoUnsit.OnTeleport)
	assert.True(t, snap.AutoUnsit.OnQuit)
	assert.ElementsMatch(t, config.DefaultBlacklist, snap.BlacklistBlocks)
}

func TestRegisterFlags_DefaultsMatchBuiltins(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)

	snap, err := config.Load("", fs)
	require.NoError(t, err)

	want := config.Defaults()
	assert.Equal(t, want.CooldownSeconds, snap.CooldownSeconds)
	assert.Equal(t, want.AutoUnsit, snap.AutoUnsit)
	assert.Equal(t, want.PreventInLiquid, snap.PreventInLiquid)
	assert.ElementsMatch(t, want.BlacklistBlocks, snap.BlacklistBlocks)
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	path := writeConfig(t, "cooldown-seconds: 4\n")

	store, err := config.NewStore(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, store.Snapshot().CooldownSeconds)
	assert.Equal(t, path, store.Path())

	require.NoError(t, os.WriteFile(path, []byte("cooldown-seconds: -5\n"), 0o600))
	_, err = store.Reload()
	require.Error(t, err)
	assert.Equal(t, 4, store.Snapshot().CooldownSeconds)

	require.NoError(t, os.WriteFile(path, []byte("cooldown-seconds: 9\n"), 0o600))
	snap, err := store.Reload()
	require.NoError(t, err)
	assert.Equal(t, 9, snap.CooldownSeconds)
	assert.Same(t, snap, store.Snapshot())
}

func TestStaticStore(t *testing.T) {
	store := config.NewStaticStore(nil)
	before := store.Snapshot()
	require.NotNil(t, before)

	after, err := store.Reload()
	require.NoError(t, err)
	assert.Same(t, before, after)
}
