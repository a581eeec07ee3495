// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOut string
		wantErr string
	}{
		{
			name:    "valid file",
			body:    "config-version: \"1.0.0\"\ncooldown-seconds: 5\nblacklist-blocks: [LAVA, \"*_CARPET\"]\n",
			wantOut: "is valid (config-version 1.0.0, cooldown 5s, 2 blacklist entries)",
		},
		{
			name:    "bad pattern only warns",
			body:    "blacklist-blocks: [\"[MAGMA\"]\n",
			wantOut: "warning:",
		},
		{
			name:    "unknown key",
			body:    "cooldown: 5\n",
			wantErr: "config.yaml",
		},
		{
			name:    "unsupported version",
			body:    "config-version: \"2.0.0\"\n",
			wantErr: "config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateXDG(t)
			path := writeConfig(t, tt.body)

			out, err := executeRoot(t, "", "validate", path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestValidateCommand_UsesConfigFlag(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "cooldown-seconds: 1\n")

	out, err := executeRoot(t, "", "--config", path, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, path+" is valid")
}

func TestValidateCommand_NoFile(t *testing.T) {
	isolateXDG(t)

	_, err := executeRoot(t, "", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no configuration file found")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	isolateXDG(t)

	_, err := executeRoot(t, "", "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
