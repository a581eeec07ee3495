// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/holomush/holosit/internal/config"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file without starting the server",
		Long: `Validate a configuration file against the schema, then load it
the way the server would (version check, value ranges, blacklist
patterns). The file defaults to --config or the XDG config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := configFile
			if len(args) == 1 {
				explicit = args[0]
			}
			path, err := resolveConfigPath(explicit)
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			if path == "" {
				return errors.New("no configuration file found; pass a path or --config")
			}
			return validateConfigFile(cmd, path)
		},
	}
}

func validateConfigFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := config.ValidateSchema(data); err != nil {
		return fmt.Errorf("%s: %s", path, config.FormatSchemaError(err))
	}

	snap, err := config.Load(path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	_, patternErrs := config.CompileBlacklist(snap.BlacklistBlocks)
	for _, perr := range patternErrs {
		cmd.PrintErrf("warning: %v\n", perr)
	}

	cmd.Printf("%s is valid (config-version %s, cooldown %ds, %d blacklist entries)\n",
		path, snap.ConfigVersion, snap.CooldownSeconds, snap.Blacklist().Len())
	return nil
}
