// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/holosit/internal/command"
	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/internal/logging"
	"github.com/holomush/holosit/internal/seat"
	"github.com/holomush/holosit/internal/sim"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	metricsAddr string
	logFormat   string
	logLevel    string
	tickRate    int
	defaultRole string
	console     bool
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.logFormat != "json" && cfg.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.logFormat)
	}
	if cfg.tickRate <= 0 {
		return fmt.Errorf("tick-rate must be positive, got %d", cfg.tickRate)
	}
	return nil
}

// Default values for serve command flags.
const (
	defaultMetricsAddr = "127.0.0.1:9110"
	defaultLogFormat   = "json"
	defaultLogLevel    = "info"
	defaultRole        = "player"
	shutdownTimeout    = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the seat manager against the demo world host",
		Long: `Run the world host tick loop with the seat manager attached,
serving metrics and health probes until interrupted. Seats left over from
a previous run are swept one tick after start; every seat is released on
shutdown.

Without --console nothing joins the demo world, so serve only exposes
metrics and probes for the idle host. With --console the console
commands are read from stdin while the host ticks in real time; "exit"
or end of input shuts the server down.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().StringVar(&cfg.logLevel, "log-level", defaultLogLevel, "minimum log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&cfg.tickRate, "tick-rate", sim.DefaultTickRate, "host ticks per second")
	cmd.Flags().StringVar(&cfg.defaultRole, "default-role", defaultRole, "role for actors without an assignment (empty = none)")
	cmd.Flags().BoolVar(&cfg.console, "console", false, "read console commands from stdin")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runServeWithDeps runs the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *serveConfig, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.SetDefault("holosit", version, cfg.logFormat, logging.ParseLevel(cfg.logLevel))

	path, err := deps.ConfigPathResolver(configFile)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	store, err := config.NewStore(path, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	snap := store.Snapshot()

	slog.Info("starting seat server",
		"config", path,
		"tick_rate", cfg.tickRate,
		"cooldown_seconds", snap.CooldownSeconds,
	)

	host := sim.NewHost(logger.With("component", "host"))
	sim.PopulateDemo(host)

	var messenger command.Messenger = host
	var out *consoleOutput
	if cfg.console {
		out = &consoleOutput{w: cmd.OutOrStdout(), host: host}
		messenger = out
	}

	a, err := newApp(host, store, messenger, cfg.defaultRole, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ready atomic.Bool

	var obsServer ObservabilityServer
	if cfg.metricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.metricsAddr, ready.Load,
			seat.RegisterMetrics,
			command.RegisterMetrics,
			a.manager.RegisterGauges,
		)
		obsServer.SetStatus(func() any { return a.status() })
		obsErrChan, startErr := obsServer.Start()
		if startErr != nil {
			return fmt.Errorf("failed to start observability server: %w", startErr)
		}
		// Monitor observability server errors - cancel context on error
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	events := host.Events().Subscribe()
	subscriber := seat.NewSubscriber(a.manager)
	subscriber.Start(ctx, events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if runErr := host.Run(ctx, cfg.tickRate); runErr != nil && ctx.Err() == nil {
			slog.Error("host loop stopped", "error", runErr)
			cancel()
		}
	}()

	a.scheduleStartupSweep()

	if snap.OrphanSweepSeconds > 0 {
		interval := time.Duration(snap.OrphanSweepSeconds) * time.Second
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.manager.RunSweeper(ctx, interval)
		}()
		slog.Info("periodic orphan sweep enabled", "interval", interval)
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ready.Store(true)
	cmd.Println("HoloSit server started")
	slog.Info("seat server ready")

	if cfg.console {
		// Not tracked by wg: a blocked stdin read must not hold up shutdown.
		go serveConsole(ctx, cancel, &console{app: a, out: out}, cmd.InOrStdin())
	}

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")
	ready.Store(false)
	cancel()
	wg.Wait()
	subscriber.Stop()
	host.Events().Unsubscribe(events)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	a.shutdown(shutdownCtx)

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// serveConsole executes console lines until exit, end of input or
// cancellation, then cancels the server. Host events are left to the
// subscriber, so the console has no event channel of its own.
func serveConsole(ctx context.Context, cancel context.CancelFunc, c *console, in io.Reader) {
	defer cancel()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := c.exec(ctx, scanner.Text()); errors.Is(err, errConsoleExit) {
			slog.Info("console exit requested")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("console input failed", "error", err)
		return
	}
	slog.Info("console input closed")
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
