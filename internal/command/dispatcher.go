// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/holosit/internal/access"
	"github.com/holomush/holosit/internal/logging"
)

var tracer = otel.Tracer("holosit/command")

// Dispatcher handles command parsing, capability checks, and execution.
type Dispatcher struct {
	registry  *Registry
	access    access.Checker
	messenger Messenger
}

// NewDispatcher creates a new command dispatcher.
// Returns an error if any dependency is nil.
func NewDispatcher(registry *Registry, ac access.Checker, messenger Messenger) (*Dispatcher, error) {
	if registry == nil || ac == nil || messenger == nil {
		return nil, oops.Code("INVALID_DISPATCHER").
			With("registry_set", registry != nil).
			With("access_set", ac != nil).
			With("messenger_set", messenger != nil).
			Errorf("registry, access control and messenger are required")
	}
	return &Dispatcher{registry: registry, access: ac, messenger: messenger}, nil
}

// Dispatch parses and executes a command for actor. A zero actor stands
// for the server console. Failures are reported to the actor as a chat
// line and returned.
func (d *Dispatcher) Dispatch(ctx context.Context, actor ulid.ULID, input string) (err error) {
	parsed, err := Parse(input)
	if err != nil {
		return err
	}

	if !actor.IsZero() {
		ctx = logging.WithActor(ctx, actor)
	}
	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.name", parsed.Name),
			attribute.String("actor.id", actor.String()),
		),
	)
	start := time.Now()
	status := StatusSuccess
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if !actor.IsZero() {
				d.messenger.SendMessage(actor, PlayerMessage(err))
			}
		}
		span.End()
		RecordCommandExecution(parsed.Name, status)
		RecordCommandDuration(parsed.Name, time.Since(start))
	}()

	entry, ok := d.registry.Get(parsed.Name)
	if !ok {
		status = StatusNotFound
		return ErrUnknownCommand(parsed.Name)
	}

	if actor.IsZero() {
		status = StatusError
		return ErrPlayerOnly(parsed.Name)
	}

	for _, capability := range entry.Capabilities {
		if !d.access.Check(ctx, actor, capability) {
			status = StatusPermissionDenied
			return ErrPermissionDenied(parsed.Name, capability)
		}
	}

	err = runHandler(ctx, entry, &CommandExecution{
		Actor:  actor,
		Args:   parsed.Args,
		Output: d.messenger,
	})
	if err != nil {
		status = statusFor(err)
		if status == StatusError {
			slog.WarnContext(ctx, "command execution failed",
				"command", parsed.Name,
				"error", err,
			)
		}
	}
	return err
}

// Complete returns tab completions for the last word of a partially typed
// command line. Trailing whitespace starts a new, empty word.
func (d *Dispatcher) Complete(ctx context.Context, actor ulid.ULID, input string) []string {
	parsed, err := Parse(input)
	if err != nil {
		return nil
	}
	args := parsed.Args
	if strings.TrimRight(input, " \t") != input {
		args = append(args, "")
	}
	if len(args) == 0 {
		return nil
	}
	entry, ok := d.registry.Get(parsed.Name)
	if !ok || entry.Complete == nil {
		return nil
	}
	return entry.Complete(ctx, actor, args)
}

func statusFor(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return StatusError
	}
	switch oopsErr.Code() {
	case CodePermissionDenied:
		return StatusPermissionDenied
	case CodeInvalidArgs:
		return StatusInvalidArgs
	default:
		return StatusError
	}
}

// runHandler calls the entry's handler, turning a panic into an error.
func runHandler(ctx context.Context, entry CommandEntry, exec *CommandExecution) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrHandlerPanic(entry.Name, r)
		}
	}()
	return entry.Handler(ctx, exec)
}
