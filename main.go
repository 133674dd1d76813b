package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logText := flag.Bool("log-text", false, "Log as text instead of JSON")
	debug := flag.Bool("debug", false, "Enable debug logging")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", 0, "World seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	restore := flag.String("restore", "", "Resume from a snapshot file")
	asciiEvery := flag.Int("ascii-every", 0, "Headless: dump an ASCII map every N ticks (0 = off)")
	asciiSize := flag.Int("ascii-size", 48, "Headless: ASCII map width in tiles (height is half)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	if *logText {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		RestorePath:    *restore,
	}

	if *headless {
		if err := runHeadless(ctx, opts, *maxTicks, *asciiEvery, *asciiSize); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Fogland")
	defer rl.CloseWindow()
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape clears the selection instead of quitting.
	rl.SetExitKey(rl.KeyNull)

	g, err := game.NewGame(ctx, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if err := g.Update(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("update failed", "error", err)
			break
		}
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation without raylib until maxTicks or ctx
// cancellation.
func runHeadless(ctx context.Context, opts game.Options, maxTicks, asciiEvery, asciiSize int) error {
	g, err := game.NewGame(ctx, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"restore", opts.RestorePath,
	)

	for {
		if err := g.UpdateHeadless(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted", "tick", g.Tick())
				return nil
			}
			return err
		}

		if asciiEvery > 0 && int(g.Tick())%asciiEvery < max(1, opts.StepsPerUpdate) {
			if err := g.LogWorldState(asciiSize, asciiSize/2); err != nil {
				return err
			}
		}

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			if opts.OutputDir != "" {
				if _, err := g.SaveSnapshot(); err != nil {
					slog.Error("failed to save final snapshot", "error", err)
				}
			}
			return nil
		}
		if ctx.Err() != nil {
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		}
	}
}
