// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holomush/holosit/internal/access"
	"github.com/holomush/holosit/internal/command"
	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/internal/seat"
	"github.com/holomush/holosit/internal/sim"
)

// app wires the seat manager, the /sit command and the world host.
type app struct {
	host       *sim.Host
	store      *config.Store
	access     *access.StaticAccessControl
	manager    *seat.Manager
	registry   *command.Registry
	dispatcher *command.Dispatcher
}

// newApp builds the runtime around host. Player-facing lines go to
// messenger; defaultRole is granted to actors without an assignment.
func newApp(host *sim.Host, store *config.Store, messenger command.Messenger, defaultRole string, logger *slog.Logger) (*app, error) {
	ac := access.NewStaticAccessControl()
	if err := ac.SetDefaultRole(defaultRole); err != nil {
		return nil, fmt.Errorf("invalid default role: %w", err)
	}

	manager, err := seat.NewManager(seat.ManagerConfig{
		World:     host,
		Scheduler: host,
		Config:    store,
		Access:    ac,
		Notifier:  command.NewNotifier(messenger),
		Logger:    logger.With("component", "seat"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seat manager: %w", err)
	}

	registry := command.NewRegistry()
	if err := registry.Register(command.NewSitCommand(manager, ac).Entry()); err != nil {
		return nil, fmt.Errorf("failed to register /sit: %w", err)
	}
	dispatcher, err := command.NewDispatcher(registry, ac, messenger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return &app{
		host:       host,
		store:      store,
		access:     ac,
		manager:    manager,
		registry:   registry,
		dispatcher: dispatcher,
	}, nil
}

// seatStatus is the /statusz body and the console status line.
type seatStatus struct {
	Tick    uint64 `json:"tick"`
	Seated  int    `json:"seated"`
	Pending int    `json:"pending"`
	Seats   int    `json:"seats"`
}

func (a *app) status() seatStatus {
	reg := a.manager.Registry()
	return seatStatus{
		Tick:    a.host.Tick(),
		Seated:  reg.Len(),
		Pending: reg.PendingLen(),
		Seats:   a.host.CountEntities(sim.KindSeat),
	}
}

// scheduleStartupSweep removes seats left by a previous run one tick after
// start, once the host has loaded its worlds.
func (a *app) scheduleStartupSweep() {
	a.host.NextTick(func() {
		if n := a.manager.CleanupOrphans(context.Background()); n > 0 {
			slog.Info("startup sweep removed orphan seats", "count", n)
		}
	})
}

// shutdown stands everyone up and sweeps what is left.
func (a *app) shutdown(ctx context.Context) {
	n := a.manager.ForceUnseatAll(ctx)
	slog.Info("seats released", "unseated", n)
}
