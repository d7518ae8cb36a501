// Command snapshots inspects the SQLite snapshot archive and rolls a world
// back to an archived snapshot.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pthm-cable/aipop/persist"
	"github.com/pthm-cable/aipop/world"
)

const defaultArchive = "archive.db"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "list":
		return runList(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	case "restore":
		return runRestore(ctx, args[1:], stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runList(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	dbPath := fs.String("db-path", defaultArchive, "sqlite archive path")
	runID := fs.String("run-id", "", "only list snapshots of this run")
	jsonOut := fs.Bool("json", false, "emit list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	archive, err := openArchive(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	entries, err := archive.List(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		type listItem struct {
			ID         int64  `json:"id"`
			RunID      string `json:"run_id"`
			Tick       int64  `json:"tick"`
			SavedAtUTC string `json:"saved_at_utc"`
			Population int    `json:"population"`
			Food       int    `json:"food"`
			Bytes      int    `json:"bytes"`
		}
		items := make([]listItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, listItem{
				ID:         e.ID,
				RunID:      e.RunID,
				Tick:       e.Tick,
				SavedAtUTC: e.SavedAt.UTC().Format(time.RFC3339),
				Population: e.Population,
				Food:       e.Food,
				Bytes:      e.PayloadSize,
			})
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "no snapshots found")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "id=%d run_id=%s tick=%d saved_at=%s pop=%d food=%d bytes=%d\n",
			e.ID,
			e.RunID,
			e.Tick,
			e.SavedAt.UTC().Format(time.RFC3339),
			e.Population,
			e.Food,
			e.PayloadSize,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dbPath := fs.String("db-path", defaultArchive, "sqlite archive path")
	id := fs.Int64("id", 0, "snapshot id (0 = latest)")
	out := fs.String("out", "", "output file (empty = stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	archive, err := openArchive(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	snap, err := fetch(ctx, archive, *id)
	if err != nil {
		return err
	}

	if *out == "" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	// Same format the simulation reads with -state.
	if err := persist.NewFileStore(*out).Save(ctx, snap); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported run_id=%s tick=%d to=%s\n", snap.RunID, snap.Tick, *out)
	return nil
}

func runRestore(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	dbPath := fs.String("db-path", defaultArchive, "sqlite archive path")
	id := fs.Int64("id", 0, "snapshot id")
	state := fs.String("state", "world.json", "snapshot file the simulation loads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("restore requires --id")
	}

	archive, err := openArchive(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	snap, err := fetch(ctx, archive, *id)
	if err != nil {
		return err
	}
	if err := persist.NewFileStore(*state).Save(ctx, snap); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "restored id=%d run_id=%s tick=%d to=%s\n", *id, snap.RunID, snap.Tick, *state)
	return nil
}

func openArchive(ctx context.Context, path string) (*persist.SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	archive := persist.NewSQLiteStore(path)
	if err := archive.Init(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

func fetch(ctx context.Context, archive *persist.SQLiteStore, id int64) (*world.Snapshot, error) {
	var (
		snap *world.Snapshot
		err  error
	)
	if id > 0 {
		snap, err = archive.Get(ctx, id)
	} else {
		snap, err = archive.Load(ctx)
	}
	if errors.Is(err, persist.ErrNotFound) {
		if id == 0 {
			return nil, fmt.Errorf("archive is empty: %w", err)
		}
		return nil, fmt.Errorf("snapshot %d: %w", id, err)
	}
	return snap, err
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: snapshots <list|export|restore> [flags]", msg)
}
