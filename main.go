package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/game"
	"github.com/pthm-cable/aipop/persist"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	statePath := flag.String("state", "", "Snapshot file (empty = use config)")
	archivePath := flag.String("archive", "", "SQLite snapshot archive (empty = use config)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Every line, including config errors, is JSON on stdout.
	initLogging(os.Stdout)
	cfg, ok := loadConfig(*configPath)
	if !ok {
		os.Exit(1)
	}

	if *statePath != "" {
		cfg.Persist.Path = *statePath
	}
	if *archivePath != "" {
		cfg.Persist.ArchivePath = *archivePath
	}
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.World.Seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, *headless, game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		MaxTicks:  *maxTicks,
	})
	stop()
	os.Exit(code)
}

func initLogging(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
}

// loadConfig initializes the global config, logging any failure.
func loadConfig(path string) (*config.Config, bool) {
	if err := config.Init(path); err != nil {
		slog.Error("failed to load config", "path", path, "error", err)
		return nil, false
	}
	return config.Cfg(), true
}

// run returns the process exit code.
func run(ctx context.Context, cfg *config.Config, headless bool, opts game.Options) int {
	store, closeStore := openStore(ctx, cfg.Persist)
	defer closeStore()
	opts.Store = store

	g, err := game.New(ctx, cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}

	slog.Info("starting simulation",
		"headless", headless,
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
		"state", cfg.Persist.Path,
		"archive", cfg.Persist.ArchivePath,
	)

	if headless {
		err = g.Run(ctx)
	} else {
		err = runWindow(ctx, cfg, g)
	}

	code := 0
	if err != nil {
		if errors.Is(err, entity.ErrNumericCorruption) {
			slog.Error("numeric_corruption", "tick", g.Tick(), "error", err)
		} else {
			slog.Error("simulation failed", "error", err)
		}
		code = 1
	}

	// Signal context may already be cancelled; the final save still runs.
	if err := g.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown failed", "error", err)
		code = 1
	}
	slog.Info("simulation stopped", "tick", g.Tick())
	return code
}

// runWindow drives the game from the raylib frame loop until the window is
// closed, ctx is done or MaxTicks is reached.
func runWindow(ctx context.Context, cfg *config.Config, g *game.Game) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "aipop")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g.InitWindow()
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil && !g.Done() {
		g.HandleInput()
		if err := g.Update(ctx); err != nil {
			return err
		}
		g.Draw()
	}
	return nil
}

// openStore combines the snapshot file with the optional SQLite archive. The
// file is loaded first. An archive that cannot be opened is logged and left
// out, so the run continues on the file alone or on a fresh world.
func openStore(ctx context.Context, pc config.PersistConfig) (persist.Store, func()) {
	var stores persist.Multi
	if pc.Path != "" {
		stores = append(stores, persist.NewFileStore(pc.Path))
	}
	closeFn := func() {}
	if pc.ArchivePath != "" {
		archive := persist.NewSQLiteStore(pc.ArchivePath)
		if err := archive.Init(ctx); err != nil {
			slog.Error("snapshot_archive_unavailable", "path", pc.ArchivePath, "error", err)
		} else {
			stores = append(stores, archive)
			closeFn = func() {
				if err := archive.Close(); err != nil {
					slog.Error("failed to close snapshot archive", "error", err)
				}
			}
		}
	}
	if len(stores) == 0 {
		return nil, closeFn
	}
	return stores, closeFn
}
