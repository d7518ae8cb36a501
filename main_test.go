package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/game"
	"github.com/pthm-cable/aipop/persist"
)

func corruptArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database, just some bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenStoreSkipsCorruptArchive(t *testing.T) {
	ctx := context.Background()
	pc := config.PersistConfig{
		Path:        filepath.Join(t.TempDir(), "world.json"),
		ArchivePath: corruptArchive(t),
	}

	store, closeStore := openStore(ctx, pc)
	defer closeStore()

	multi, ok := store.(persist.Multi)
	if !ok || len(multi) != 1 {
		t.Fatalf("got %#v, want the file store alone", store)
	}
	if _, ok := multi[0].(*persist.FileStore); !ok {
		t.Errorf("got %T, want *persist.FileStore", multi[0])
	}

	store, closeStore = openStore(ctx, config.PersistConfig{ArchivePath: pc.ArchivePath})
	defer closeStore()
	if store != nil {
		t.Errorf("got %#v, want no store", store)
	}
}

func TestRunWithCorruptArchive(t *testing.T) {
	cfg := config.Default()
	cfg.Driver.TickRate = 0
	cfg.Persist.Interval = 0
	cfg.Persist.Path = filepath.Join(t.TempDir(), "world.json")
	cfg.Persist.ArchivePath = corruptArchive(t)

	code := run(context.Background(), cfg, true, game.Options{Seed: 7, MaxTicks: 5})
	if code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}

	snap, err := persist.NewFileStore(cfg.Persist.Path).Load(context.Background())
	if err != nil {
		t.Fatalf("load saved state: %v", err)
	}
	if snap.Tick < 5 {
		t.Errorf("tick: got %d, want at least 5", snap.Tick)
	}
	if len(snap.Individuals) == 0 {
		t.Error("expected a seeded population")
	}
}

func TestConfigErrorIsLoggedAsJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	initLogging(&buf)
	if _, ok := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); ok {
		t.Fatal("expected the missing config to fail")
	}

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v: %q", err, buf.String())
	}
	if line["msg"] != "failed to load config" || line["level"] != "ERROR" {
		t.Errorf("got %v", line)
	}
}
