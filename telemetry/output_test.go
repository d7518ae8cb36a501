package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/aipop/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("got %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for tick := int64(100); tick <= 300; tick += 100 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick, Population: 50}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{TicksPerSecond: 60}, 300); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,population,food,births") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "300,50,") {
		t.Errorf("unexpected row %q", lines[3])
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Error(err)
	}
}
