// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"fmt"

	"github.com/samber/oops"
)

// Error codes for command dispatch failures.
const (
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeInvalidArgs      = "INVALID_ARGS"
	CodePlayerOnly       = "PLAYER_ONLY"
	CodeSeatError        = "SEAT_ERROR"
	CodeHandlerPanic     = "HANDLER_PANIC"
)

// ErrUnknownCommand creates an error for an unknown command.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrPermissionDenied creates an error for permission denial.
func ErrPermissionDenied(cmd, capability string) error {
	return oops.Code(CodePermissionDenied).
		With("command", cmd).
		With("capability", capability).
		Errorf("permission denied for command %s", cmd)
}

// ErrInvalidArgs creates an error for invalid arguments.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments")
}

// ErrPlayerOnly creates an error for a command run without an actor.
func ErrPlayerOnly(cmd string) error {
	return oops.Code(CodePlayerOnly).
		With("command", cmd).
		Errorf("only players can use %s", cmd)
}

// ErrHandlerPanic creates an error for a handler that panicked.
func ErrHandlerPanic(cmd string, recovered any) error {
	return oops.Code(CodeHandlerPanic).
		With("command", cmd).
		With("panic", fmt.Sprint(recovered)).
		Errorf("command %s panicked", cmd)
}

// SeatError creates an error for seat failures with a player-facing message.
// The cause is kept as text: oops reports the innermost code of a chain,
// which would hide CodeSeatError.
func SeatError(message string, cause error) error {
	builder := oops.Code(CodeSeatError).With("message", message)
	if cause != nil {
		builder = builder.With("cause", cause.Error())
	}
	return builder.Errorf("%s", message)
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "Something went wrong. Try again."
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return "Unknown command."
	case CodePermissionDenied:
		return "Permission denied."
	case CodeInvalidArgs:
		if usage, ok := oopsErr.Context()["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Invalid arguments."
	case CodePlayerOnly:
		return "Only players can use this command."
	case CodeSeatError:
		if msg, ok := oopsErr.Context()["message"].(string); ok {
			return msg
		}
		return "Something went wrong. Try again."
	default:
		return "Something went wrong. Try again."
	}
}
