// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holosit/internal/access"
	"github.com/holomush/holosit/internal/seat"
)

// Sit command identifiers.
const (
	SitName      = "sit"
	SitUsage     = "/sit [reload]"
	reloadSubcmd = "reload"
)

// Seats is the part of the seat manager the /sit command drives.
type Seats interface {
	Toggle(ctx context.Context, actor ulid.ULID) (seat.Outcome, error)
	Reload(ctx context.Context) error
}

// SitCommand implements /sit and /sit reload.
type SitCommand struct {
	seats  Seats
	access access.Checker
}

// NewSitCommand creates the /sit command.
func NewSitCommand(seats Seats, ac access.Checker) *SitCommand {
	return &SitCommand{seats: seats, access: ac}
}

// Entry returns the registry entry for /sit. Capabilities differ per
// subcommand, so the handler checks them itself.
func (c *SitCommand) Entry() CommandEntry {
	return CommandEntry{
		Name:     SitName,
		Handler:  c.execute,
		Usage:    SitUsage,
		Help:     "Sit down where you stand, or stand back up",
		Complete: c.complete,
	}
}

func (c *SitCommand) execute(ctx context.Context, exec *CommandExecution) error {
	switch {
	case len(exec.Args) == 0:
		return c.toggle(ctx, exec)
	case len(exec.Args) == 1 && strings.EqualFold(exec.Args[0], reloadSubcmd):
		return c.reload(ctx, exec)
	default:
		return ErrInvalidArgs(SitName, SitUsage)
	}
}

func (c *SitCommand) toggle(ctx context.Context, exec *CommandExecution) error {
	if !c.access.Check(ctx, exec.Actor, access.CapabilityUse) {
		return ErrPermissionDenied(SitName, access.CapabilityUse)
	}
	out, err := c.seats.Toggle(ctx, exec.Actor)
	if err != nil {
		return SeatError(MsgCreateFailed, err)
	}
	exec.Reply(OutcomeMessage(out))
	return nil
}

func (c *SitCommand) reload(ctx context.Context, exec *CommandExecution) error {
	if !c.access.Check(ctx, exec.Actor, access.CapabilityReload) {
		return ErrPermissionDenied(SitName+" "+reloadSubcmd, access.CapabilityReload)
	}
	if err := c.seats.Reload(ctx); err != nil {
		return SeatError(MsgReloadFailed, err)
	}
	exec.Reply(MsgReloaded)
	return nil
}

func (c *SitCommand) complete(ctx context.Context, actor ulid.ULID, args []string) []string {
	if len(args) != 1 {
		return nil
	}
	prefix := strings.ToLower(args[0])
	if strings.HasPrefix(reloadSubcmd, prefix) && c.access.Check(ctx, actor, access.CapabilityReload) {
		return []string{reloadSubcmd}
	}
	return nil
}
