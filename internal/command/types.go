// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package command provides the /sit command, its player-facing messages,
// and the dispatcher that parses input, checks capabilities and runs it.
package command

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Messenger delivers chat lines to actors.
type Messenger interface {
	SendMessage(actor ulid.ULID, text string)
}

// CommandHandler is the function signature for command handlers.
//
//nolint:revive // stutter kept for parity with CommandEntry
type CommandHandler func(ctx context.Context, exec *CommandExecution) error

// CompleteFunc returns completions for the argument being typed.
type CompleteFunc func(ctx context.Context, actor ulid.ULID, args []string) []string

// CommandEntry represents a registered command.
//
//nolint:revive // command.CommandEntry reads better at call sites than command.Entry
type CommandEntry struct {
	Name         string         // canonical name (e.g., "sit")
	Handler      CommandHandler // executes the command
	Capabilities []string       // ALL required before the handler runs (AND logic)
	Usage        string         // usage pattern (e.g., "/sit [reload]")
	Help         string         // short description (one line)
	Complete     CompleteFunc   // optional tab completion
}

// CommandExecution provides context for command execution.
//
//nolint:revive // stutter kept for parity with CommandEntry
type CommandExecution struct {
	Actor  ulid.ULID
	Args   []string
	Output Messenger
}

// Reply sends a line to the executing actor.
func (e *CommandExecution) Reply(text string) {
	if e.Output == nil || text == "" {
		return
	}
	e.Output.SendMessage(e.Actor, text)
}
