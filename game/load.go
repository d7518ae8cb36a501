package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/persist"
	"github.com/pthm-cable/aipop/world"
)

// loadWorld restores the latest snapshot from store. A missing or unusable
// snapshot is logged and replaced by a fresh world. Either way the world is
// seeded if it has no individuals.
func loadWorld(ctx context.Context, cfg *config.Config, store persist.Store, opts world.Options) *world.World {
	if store != nil {
		if w, err := restore(ctx, cfg, store, opts); err == nil {
			slog.Info("snapshot_loaded",
				"tick", w.TickCount(),
				"run_id", w.RunID().String(),
				"population", w.Individuals().Len(),
			)
			w.Seed()
			return w
		} else if errors.Is(err, persist.ErrNotFound) {
			slog.Info("snapshot_not_found")
		} else {
			slog.Error("snapshot_load_failed", "error", err)
		}
	}

	w := world.New(cfg, opts)
	w.Seed()
	slog.Info("world_created", "run_id", w.RunID().String(), "width", w.Width(), "height", w.Height())
	return w
}

func restore(ctx context.Context, cfg *config.Config, store persist.Store, opts world.Options) (*world.World, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return world.Restore(cfg, snap, opts)
}
