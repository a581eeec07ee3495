// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/holosit/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the HoloSit CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holosit",
		Short: "HoloSit - seat lifecycle server",
		Long: `HoloSit lets actors sit down where they stand. It manages the
invisible seat entities, cooldowns, safety checks and cleanup sweeps
against an in-memory world host.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (default: XDG_CONFIG_HOME/holosit/config.yaml if it exists)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewConsoleCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}

// resolveConfigPath returns the explicit path, or the XDG default when it
// exists, or "" to run on built-in defaults.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return xdg.DefaultConfigFile()
}
