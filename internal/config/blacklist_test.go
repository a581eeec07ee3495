// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/pkg/errutil"
)

func TestBlacklist_Match(t *testing.T) {
	bl, errs := config.CompileBlacklist([]string{"magma_block", "*_CARPET", "  ", "SOUL_?AMPFIRE"})
	require.Empty(t, errs)
	assert.Equal(t, 3, bl.Len())

	tests := []struct {
		surface string
		want    bool
	}{
		{"MAGMA_BLOCK", true},
		{"magma_block", true},
		{"WHITE_CARPET", true},
		{"SOUL_CAMPFIRE", true},
		{"CAMPFIRE", false},
		{"STONE", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			assert.Equal(t, tt.want, bl.Match(tt.surface))
		})
	}
}

func TestBlacklist_InvalidPatternSkipped(t *testing.T) {
	bl, errs := config.CompileBlacklist([]string{"CACTUS", "[BROKEN"})
	require.Len(t, errs, 1)
	errutil.AssertErrorCode(t, errs[0], config.CodeInvalid)
	errutil.AssertErrorContext(t, errs[0], "pattern", "[BROKEN")

	assert.True(t, bl.Match("CACTUS"))
	assert.Equal(t, 1, bl.Len())
}

func TestSnapshot_ZeroValueBlacklist(t *testing.T) {
	var snap config.Snapshot
	assert.NotNil(t, snap.Blacklist())
	assert.False(t, snap.Blacklist().Match("MAGMA_BLOCK"))
}
