// Package game drives a world: it paces ticks, applies user commands, feeds
// telemetry and persists the world on shutdown.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pthm-cable/aipop/camera"
	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/inspector"
	"github.com/pthm-cable/aipop/persist"
	"github.com/pthm-cable/aipop/renderer"
	"github.com/pthm-cable/aipop/telemetry"
	"github.com/pthm-cable/aipop/ui"
	"github.com/pthm-cable/aipop/world"
)

// Options configures a Game.
type Options struct {
	Seed      uint64        // 0 = time based; ignored when a snapshot is restored
	Store     persist.Store // nil = no persistence
	OutputDir string        // CSV telemetry directory (empty = disabled)
	LogStats  bool          // log every telemetry window
	MaxTicks  int64         // Run stops after this tick (0 = unlimited)
}

// overlays holds the display toggles.
type overlays struct {
	best          bool
	oldest        bool
	generation    bool
	maxGeneration bool
}

// Game owns a world and everything that drives or observes it.
type Game struct {
	mu sync.Mutex

	cfg   *config.Config
	world *world.World
	store persist.Store

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	maxTicks    int64
	paused      bool
	fastForward bool
	failed      bool
	show        overlays

	// Window mode only, see InitWindow
	camera    *camera.Camera
	surface   *renderer.Surface
	keymap    *ui.Keymap
	hud       *ui.HUD
	inspector *inspector.Inspector
}

// New loads the world from opts.Store, falling back to a freshly seeded one.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Game, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("telemetry output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("telemetry output: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		store:     opts.Store,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewPerfCollector(cfg.Driver.TicksPerSecond),
		output:    output,
		logStats:  opts.LogStats,
		maxTicks:  opts.MaxTicks,
		show:      overlays{generation: true, maxGeneration: true},
	}

	wopts := world.Options{Seed: opts.Seed, Events: g.collector}
	if g.store != nil {
		wopts.Saver = timedSaver{store: g.store, perf: g.perf}
	}
	g.world = loadWorld(ctx, cfg, g.store, wopts)
	g.collector.Flush(g.world.Status(), nil) // start the first window at the current tick

	return g, nil
}

// Update advances the world by one tick, or by driver.fast_forward_ticks when
// fast-forwarding. A paused game does nothing. An error means the world is
// corrupt and must not be updated again.
func (g *Game) Update(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.update(ctx)
}

func (g *Game) update(ctx context.Context) error {
	if g.paused || g.failed {
		return nil
	}
	n := 1
	if g.fastForward {
		n = g.cfg.Driver.FastForwardTicks
	}

	g.perf.StartUpdate()
	ticks := 0
	defer func() { g.perf.EndUpdate(ticks) }()

	for range n {
		g.perf.StartPhase(telemetry.PhaseSimulate)
		if err := g.world.Tick(ctx); err != nil {
			g.failed = true
			return err
		}
		ticks++
		g.flushTelemetry()
	}
	return nil
}

// Apply executes a user command.
func (g *Game) Apply(cmd ui.Command) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apply(cmd)
}

func (g *Game) apply(cmd ui.Command) {
	switch cmd {
	case ui.TogglePause:
		g.paused = !g.paused
	case ui.ToggleFastForward:
		g.fastForward = !g.fastForward
	case ui.ToggleBest:
		g.show.best = !g.show.best
	case ui.ToggleOldest:
		g.show.oldest = !g.show.oldest
	case ui.ToggleGeneration:
		g.show.generation = !g.show.generation
	case ui.ToggleMaxGeneration:
		g.show.maxGeneration = !g.show.maxGeneration
	default:
		slog.Warn("unknown_command", "command", string(cmd))
		return
	}
	slog.Debug("command_applied", "command", string(cmd))
}

// Tick returns the world's tick counter.
func (g *Game) Tick() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.TickCount()
}

// Done reports whether MaxTicks has been reached.
func (g *Game) Done() bool {
	return g.maxTicks > 0 && g.Tick() >= g.maxTicks
}

// Status returns the world summary.
func (g *Game) Status() world.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.Status()
}

// Shutdown persists the world while holding the game lock, so no tick runs
// during the save, then closes telemetry output. A corrupt world is not saved.
func (g *Game) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var saveErr error
	switch {
	case g.store == nil:
	case g.failed:
		slog.Warn("snapshot_skipped", "reason", "numeric corruption", "tick", g.world.TickCount())
	default:
		if saveErr = g.store.Save(ctx, g.world.Snapshot()); saveErr == nil {
			slog.Info("snapshot_saved", "tick", g.world.TickCount(), "run_id", g.world.RunID().String())
		}
	}
	if err := g.output.Close(); err != nil && saveErr == nil {
		return fmt.Errorf("closing telemetry output: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("saving snapshot: %w", saveErr)
	}
	return nil
}

// timedSaver attributes periodic saves to the persist phase.
type timedSaver struct {
	store persist.Store
	perf  *telemetry.PerfCollector
}

func (s timedSaver) Save(ctx context.Context, snap *world.Snapshot) error {
	s.perf.StartPhase(telemetry.PhasePersist)
	defer s.perf.StartPhase(telemetry.PhaseSimulate)
	return s.store.Save(ctx, snap)
}
