package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/persist"
	"github.com/pthm-cable/aipop/ui"
	"github.com/pthm-cable/aipop/world"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Persist.Interval = 0
	cfg.Driver.TickRate = 0
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	g, err := New(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestUpdateModes(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, testConfig(), Options{})

	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 1 {
		t.Fatalf("normal update: got tick %d, want 1", g.Tick())
	}

	g.Apply(ui.ToggleFastForward)
	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 61 {
		t.Fatalf("fast-forward update: got tick %d, want 61", g.Tick())
	}

	g.Apply(ui.TogglePause)
	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 61 {
		t.Errorf("paused update: got tick %d, want 61", g.Tick())
	}
}

func TestApplyToggles(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{})

	if g.show.best || g.show.oldest || !g.show.generation || !g.show.maxGeneration {
		t.Fatalf("unexpected initial overlays: %+v", g.show)
	}

	for _, cmd := range []ui.Command{ui.ToggleBest, ui.ToggleOldest, ui.ToggleGeneration, ui.ToggleMaxGeneration} {
		g.Apply(cmd)
	}
	if !g.show.best || !g.show.oldest || g.show.generation || g.show.maxGeneration {
		t.Errorf("overlays not toggled: %+v", g.show)
	}

	g.Apply(ui.Command("nope"))
	if g.paused || g.fastForward {
		t.Error("unknown command changed state")
	}
}

func TestLoadWorld(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	saved := world.New(testConfig(), world.Options{Seed: 5})
	saved.Seed()
	for i := 0; i < 25; i++ {
		if err := saved.Tick(ctx); err != nil {
			t.Fatal(err)
		}
	}
	valid := persist.NewFileStore(filepath.Join(dir, "valid.json"))
	if err := valid.Save(ctx, saved.Snapshot()); err != nil {
		t.Fatal(err)
	}

	corruptPath := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corruptPath, []byte(`{"version": 1`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		store    persist.Store
		wantTick int64
		wantRun  string
	}{
		{"no store", nil, 0, ""},
		{"missing", persist.NewFileStore(filepath.Join(dir, "missing.json")), 0, ""},
		{"corrupt", persist.NewFileStore(corruptPath), 0, ""},
		{"valid", valid, 25, saved.RunID().String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := loadWorld(ctx, testConfig(), tt.store, world.Options{Seed: 9})
			if w.TickCount() != tt.wantTick {
				t.Errorf("tick: got %d, want %d", w.TickCount(), tt.wantTick)
			}
			if tt.wantRun != "" && w.RunID().String() != tt.wantRun {
				t.Errorf("run id: got %s, want %s", w.RunID(), tt.wantRun)
			}
			if w.Individuals().Len() == 0 {
				t.Error("loaded world should be populated")
			}
		})
	}
}

func TestShutdownPersists(t *testing.T) {
	ctx := context.Background()
	store := persist.NewFileStore(filepath.Join(t.TempDir(), "world.json"))

	g := newTestGame(t, testConfig(), Options{Store: store})
	for i := 0; i < 5; i++ {
		if err := g.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	resumed := newTestGame(t, testConfig(), Options{Store: store})
	if resumed.Tick() != 5 {
		t.Errorf("resumed at tick %d, want 5", resumed.Tick())
	}
	if resumed.world.RunID() != g.world.RunID() {
		t.Error("run id changed across restart")
	}
}

func TestShutdownSkipsCorruptWorld(t *testing.T) {
	ctx := context.Background()
	store := persist.NewFileStore(filepath.Join(t.TempDir(), "world.json"))

	g := newTestGame(t, testConfig(), Options{Store: store})
	g.failed = true
	if err := g.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("got %v, want nothing saved", err)
	}
}

type failingStore struct{ persist.Store }

func (failingStore) Save(context.Context, *world.Snapshot) error { return errors.New("read-only") }
func (failingStore) Load(context.Context) (*world.Snapshot, error) {
	return nil, persist.ErrNotFound
}

func TestShutdownReportsSaveError(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{Store: failingStore{}})
	if err := g.Shutdown(context.Background()); err == nil {
		t.Error("expected save error")
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{MaxTicks: 10})

	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 10 {
		t.Errorf("got tick %d, want 10", g.Tick())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Driver.TickRate = 1000
	g := newTestGame(t, cfg, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 0 {
		t.Errorf("got tick %d, want 0", g.Tick())
	}
}

func TestTelemetryOutput(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Telemetry.StatsWindow = 5
	dir := filepath.Join(t.TempDir(), "out")

	g := newTestGame(t, cfg, Options{OutputDir: dir})
	for i := 0; i < 12; i++ {
		if err := g.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 windows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "5,") || !strings.HasPrefix(lines[2], "10,") {
		t.Errorf("unexpected windows: %q, %q", lines[1], lines[2])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Error(err)
	}
}

func TestDrawOverlays(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{})
	g.Apply(ui.ToggleBest)
	g.Apply(ui.ToggleOldest)

	var r canvas.Recorder
	g.drawOverlays(&r)

	if n := r.Count("stroke_circle"); n != 3 {
		t.Errorf("got %d highlight circles, want 3", n)
	}

	w, h := g.world.Width(), g.world.Height()
	var labels []string
	for _, op := range r.Ops {
		if op.Kind != "text" {
			continue
		}
		labels = append(labels, op.Text)
		if strings.HasPrefix(op.Text, "Generation") {
			continue
		}
		at := op.Shape.Bounds().Center()
		if at.X < 50 || at.X > w-200 || at.Y < 50 || at.Y > h-50 {
			t.Errorf("label %q at %v outside the label area", op.Text, at)
		}
	}
	want := []string{"Energy: 100", "Age: 0:00", "Generation 0"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Errorf("got labels %q, want %q", labels, want)
	}

	g.Apply(ui.ToggleMaxGeneration)
	r.Reset()
	g.drawOverlays(&r)
	if r.Count("text") != 2 {
		t.Errorf("title should be hidden, got %v", r.Ops)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ticks int64
		want  string
	}{
		{0, "0:00"},
		{59 * 60, "0:59"},
		{61 * 60, "1:01"},
		{3600 * 60, "1:00:00"},
		{3661*60 + 59, "1:01:01"},
		{36000 * 60, "10:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ticks, 60); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ticks, got, tt.want)
		}
	}
	if got := formatDuration(120, 0); got != "0:02" {
		t.Errorf("zero rate should default to 60 ticks/s, got %q", got)
	}
}
