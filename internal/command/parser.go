// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// ParsedCommand represents a parsed command input.
type ParsedCommand struct {
	Name string   // lower-cased command name without the leading slash
	Args []string // whitespace-separated arguments
	Raw  string   // original input
}

// Parse splits raw input into command name and arguments.
// A leading '/' is optional and command names are case-insensitive.
func Parse(input string) (*ParsedCommand, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if name == "" {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	return &ParsedCommand{
		Name: name,
		Args: fields[1:],
		Raw:  input,
	}, nil
}
