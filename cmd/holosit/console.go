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
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/holomush/holosit/internal/config"
	"github.com/holomush/holosit/internal/logging"
	"github.com/holomush/holosit/internal/seat"
	"github.com/holomush/holosit/internal/sim"
)

// consoleConfig holds configuration for the console command.
type consoleConfig struct {
	logFormat   string
	logLevel    string
	tickRate    int
	defaultRole string
}

// Validate checks that the configuration is valid.
func (cfg *consoleConfig) Validate() error {
	if cfg.logFormat != "json" && cfg.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.logFormat)
	}
	if cfg.tickRate < 0 {
		return fmt.Errorf("tick-rate must not be negative, got %d", cfg.tickRate)
	}
	return nil
}

const consoleHelp = `commands:
  join <name> [landmark]     connect a player (landmarks: %s)
  rejoin <name>              reconnect an offline player
  sit <name> [args]          run /sit as the player
  complete <name> [partial]  tab-complete /sit arguments
  sneak <name> [on|off]      change sneak state
  tp <name> <landmark>       teleport within the overworld
  world <name> <world>       move to another world's spawn
  quit <name>                disconnect a player
  reload                     reload the configuration
  status [name]              show seat counts or one player
  tick [n]                   advance the host n ticks
  exit                       release every seat and leave
`

var errConsoleExit = errors.New("console exit")

// NewConsoleCmd creates the console subcommand.
func NewConsoleCmd() *cobra.Command {
	cfg := &consoleConfig{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Drive the demo world interactively",
		Long: `Read console lines from stdin to join players, run /sit as them
and trigger world events. With --tick-rate 0 the host only advances on
"tick", which makes scripted sessions deterministic.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.logFormat, "log-format", "text", "log format (json or text)")
	cmd.Flags().StringVar(&cfg.logLevel, "log-level", "warn", "minimum log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&cfg.tickRate, "tick-rate", sim.DefaultTickRate, "host ticks per second (0 = manual ticks)")
	cmd.Flags().StringVar(&cfg.defaultRole, "default-role", defaultRole, "role for actors without an assignment (empty = none)")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runConsole(ctx context.Context, cfg *consoleConfig, cmd *cobra.Command) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.SetDefault("holosit-console", version, cfg.logFormat, logging.ParseLevel(cfg.logLevel))

	path, err := resolveConfigPath(configFile)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	store, err := config.NewStore(path, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	host := sim.NewHost(logger.With("component", "host"))
	sim.PopulateDemo(host)

	out := &consoleOutput{w: cmd.OutOrStdout(), host: host}
	a, err := newApp(host, store, out, cfg.defaultRole, logger)
	if err != nil {
		return err
	}

	events := host.Events().Subscribe()
	defer host.Events().Unsubscribe(events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if cfg.tickRate > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = host.Run(ctx, cfg.tickRate)
		}()
	}

	a.scheduleStartupSweep()

	c := &console{app: a, out: out, events: events}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if err := c.exec(ctx, scanner.Text()); errors.Is(err, errConsoleExit) {
			break
		}
		c.drainEvents(ctx)
	}

	cancel()
	wg.Wait()
	a.shutdown(context.Background())
	out.printf("released all seats\n")

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read console input: %w", err)
	}
	return nil
}

// consoleOutput prints player messages next to REPL output. Writes from
// the tick goroutine and the REPL are serialized.
type consoleOutput struct {
	mu   sync.Mutex
	w    io.Writer
	host *sim.Host
}

// SendMessage implements command.Messenger.
func (o *consoleOutput) SendMessage(actor ulid.ULID, text string) {
	o.host.SendMessage(actor, text)
	name := actor.String()
	if p, ok := o.host.Player(actor); ok {
		name = p.Name
	}
	o.printf("[%s] %s\n", name, text)
}

func (o *consoleOutput) printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.w, format, args...)
}

type console struct {
	app    *app
	out    *consoleOutput
	events <-chan seat.Event
}

// drainEvents hands every queued host event to the seat manager, so each
// console line observes the effects of the previous one.
func (c *console) drainEvents(ctx context.Context) {
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			c.app.manager.HandleEvent(ctx, ev)
		default:
			return
		}
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch verb {
	case "help":
		c.out.printf(consoleHelp, strings.Join(landmarkNames(), ", "))
	case "exit":
		return errConsoleExit
	case "join":
		err = c.join(args)
	case "rejoin":
		err = c.withActor(args, 1, func(actor ulid.ULID) error { return c.app.host.Rejoin(actor) })
	case "sit":
		err = c.sit(ctx, args)
	case "complete":
		err = c.complete(ctx, args)
	case "sneak":
		err = c.sneak(args)
	case "tp":
		err = c.teleport(args)
	case "world":
		err = c.world(args)
	case "quit":
		err = c.withActor(args, 1, func(actor ulid.ULID) error { return c.app.host.Quit(actor) })
	case "reload":
		c.reload(ctx)
	case "status":
		err = c.status(ctx, args)
	case "tick":
		err = c.tick(args)
	default:
		err = fmt.Errorf("unknown console command %q (try help)", verb)
	}

	if err != nil {
		c.out.printf("error: %v\n", err)
	}
	return nil
}

func (c *console) actor(name string) (ulid.ULID, error) {
	id, ok := c.app.host.FindPlayer(name)
	if !ok {
		return ulid.ULID{}, fmt.Errorf("no player named %q", name)
	}
	return id, nil
}

func (c *console) withActor(args []string, minArgs int, fn func(actor ulid.ULID) error) error {
	if len(args) < minArgs {
		return errors.New("player name required")
	}
	actor, err := c.actor(args[0])
	if err != nil {
		return err
	}
	return fn(actor)
}

func (c *console) join(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: join <name> [landmark]")
	}
	name, landmark := args[0], "spawn"
	if len(args) > 1 {
		landmark = args[1]
	}
	if _, exists := c.app.host.FindPlayer(name); exists {
		return fmt.Errorf("player %q already exists (use rejoin)", name)
	}
	at, ok := sim.LandmarkPlacement(landmark)
	if !ok {
		return fmt.Errorf("unknown landmark %q", landmark)
	}
	if _, err := c.app.host.Join(name, at); err != nil {
		return err
	}
	c.out.printf("%s joined %s at %s\n", name, at.WorldID, landmark)
	return nil
}

func (c *console) sit(ctx context.Context, args []string) error {
	return c.withActor(args, 1, func(actor ulid.ULID) error {
		input := strings.TrimSpace("/sit " + strings.Join(args[1:], " "))
		if err := c.app.dispatcher.Dispatch(ctx, actor, input); err != nil {
			// Already reported to the player.
			slog.DebugContext(ctx, "console /sit failed", "error", err)
		}
		return nil
	})
}

func (c *console) complete(ctx context.Context, args []string) error {
	return c.withActor(args, 1, func(actor ulid.ULID) error {
		input := "/sit " + strings.Join(args[1:], " ")
		suggestions := c.app.dispatcher.Complete(ctx, actor, input)
		if len(suggestions) == 0 {
			c.out.printf("(no completions)\n")
			return nil
		}
		c.out.printf("%s\n", strings.Join(suggestions, " "))
		return nil
	})
}

func (c *console) sneak(args []string) error {
	return c.withActor(args, 1, func(actor ulid.ULID) error {
		sneaking := true
		if len(args) > 1 {
			switch strings.ToLower(args[1]) {
			case "on":
			case "off":
				sneaking = false
			default:
				return fmt.Errorf("sneak state must be on or off, got %q", args[1])
			}
		}
		return c.app.host.SetSneaking(actor, sneaking)
	})
}

func (c *console) teleport(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: tp <name> <landmark>")
	}
	return c.withActor(args, 2, func(actor ulid.ULID) error {
		to, ok := sim.LandmarkPlacement(args[1])
		if !ok {
			return fmt.Errorf("unknown landmark %q", args[1])
		}
		return c.app.host.TeleportPlayer(actor, to)
	})
}

func (c *console) world(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: world <name> <world>")
	}
	return c.withActor(args, 2, func(actor ulid.ULID) error {
		return c.app.host.TeleportPlayer(actor, sim.Spawn(args[1]))
	})
}

func (c *console) reload(ctx context.Context) {
	if err := c.app.manager.Reload(ctx); err != nil {
		c.out.printf("reload failed, previous settings kept: %v\n", err)
		return
	}
	c.out.printf("configuration reloaded\n")
}

func (c *console) status(ctx context.Context, args []string) error {
	if len(args) == 0 {
		st := c.app.status()
		c.out.printf("tick=%d seated=%d pending=%d seats=%d\n", st.Tick, st.Seated, st.Pending, st.Seats)
		return nil
	}
	return c.withActor(args, 1, func(actor ulid.ULID) error {
		p, _ := c.app.host.Player(actor)
		pos := p.Placement.Position
		c.out.printf("%s: online=%t seated=%t world=%s pos=(%.2f, %.2f, %.2f)\n",
			p.Name, p.Online, c.app.manager.IsSeated(ctx, actor), p.Placement.WorldID, pos.X(), pos.Y(), pos.Z())
		return nil
	})
}

func (c *console) tick(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("tick count must be a positive integer, got %q", args[0])
		}
		n = v
	}
	for range n {
		c.app.host.Step()
	}
	return nil
}

func landmarkNames() []string {
	names := make([]string, 0, len(sim.Landmarks))
	for name := range sim.Landmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
