// Package world owns the arena: its individuals and food, the tick policy
// that keeps the population between its bounds, and snapshots.
//
// A World is driven by a single goroutine. Only its entity sets may be read
// concurrently with a tick.
package world

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/entityset"
	"github.com/pthm-cable/aipop/geom"
	"github.com/pthm-cable/aipop/neural"
)

// Events receives world-level happenings for telemetry.
type Events interface {
	entity.Events
	RecordCulls(n int)
	RecordFoodSpawned()
}

// Saver persists periodic snapshots.
type Saver interface {
	Save(ctx context.Context, snap *Snapshot) error
}

// Options configures a World.
type Options struct {
	Seed   uint64 // 0 = time based
	Events Events // nil = discard
	Saver  Saver  // nil = no periodic saves
}

// World is the arena and everything in it.
type World struct {
	cfg           *config.Config
	width, height float64
	minPop        int
	maxPop        int
	baseColor     entity.Color

	pcg    *rand.PCG
	rng    *rand.Rand
	tick   int64
	nextID uint64
	runID  uuid.UUID

	individuals *entityset.Set[*entity.Individual]
	food        *entityset.Set[*entity.Food]

	events Events
	saver  Saver
}

// New creates an empty world sized per cfg. Call Seed to populate it.
func New(cfg *config.Config, opts Options) *World {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	w := &World{
		cfg:         cfg,
		width:       cfg.Derived.ArenaW,
		height:      cfg.Derived.ArenaH,
		minPop:      cfg.World.MinPopulation,
		maxPop:      cfg.World.MaxPopulation,
		pcg:         pcg,
		rng:         rand.New(pcg),
		runID:       uuid.New(),
		individuals: entityset.New[*entity.Individual](),
		food:        entityset.New[*entity.Food](),
	}
	w.setOptions(opts)
	return w
}

func (w *World) setOptions(opts Options) {
	w.events = opts.Events
	if w.events == nil {
		w.events = nopEvents{}
	}
	w.saver = opts.Saver

	// Validated by config.Load.
	rgb, err := config.ParseHexColor(w.cfg.Individual.Color)
	if err != nil {
		rgb = [3]uint8{0x00, 0x80, 0xFF}
	}
	w.baseColor = entity.FromRGB(rgb[0], rgb[1], rgb[2])
}

// Env implementation.

func (w *World) Config() *config.Config                          { return w.cfg }
func (w *World) Rand() *rand.Rand                                { return w.rng }
func (w *World) TickCount() int64                                { return w.tick }
func (w *World) Width() float64                                  { return w.width }
func (w *World) Height() float64                                 { return w.height }
func (w *World) Food() *entityset.Set[*entity.Food]              { return w.food }
func (w *World) Individuals() *entityset.Set[*entity.Individual] { return w.individuals }
func (w *World) Events() entity.Events                           { return w.events }

// NextID returns a fresh entity ID.
func (w *World) NextID() uint64 {
	w.nextID++
	return w.nextID
}

// RunID identifies the lineage of this world across restarts.
func (w *World) RunID() uuid.UUID { return w.runID }

// MinPopulation returns the lower population bound.
func (w *World) MinPopulation() int { return w.minPop }

// MaxPopulation returns the upper population bound.
func (w *World) MaxPopulation() int { return w.maxPop }

// Seed populates an empty world with ⌊(min+max)/2⌋ random individuals and one
// food item per individual. It does nothing if individuals already exist.
func (w *World) Seed() {
	if w.individuals.Len() > 0 {
		return
	}
	n := (w.minPop + w.maxPop) / 2
	for i := 0; i < n; i++ {
		w.SpawnRandomIndividual()
	}
	for i := 0; i < n; i++ {
		w.spawnFood()
	}
	slog.Info("world_seeded", "individuals", n, "food", n, "run_id", w.runID.String())
}

// SpawnRandomIndividual adds a generation-0 individual at a random integer
// position, keeping its whole body inside the arena.
func (w *World) SpawnRandomIndividual() *entity.Individual {
	ic := w.cfg.Individual
	border := int(ic.Radius + ic.HalfLength)
	x := border + w.rng.IntN(max(1, int(w.width)-2*border))
	y := border + w.rng.IntN(max(1, int(w.height)-2*border))

	brain, err := neural.New(w.rng, w.cfg.Neural.MaxWeight, w.cfg.Derived.BrainSizes...)
	if err != nil {
		// Layer sizes are validated by config.Load.
		panic(fmt.Sprintf("world: creating brain: %v", err))
	}

	ind := entity.NewIndividual(w.NextID(), geom.V(float64(x), float64(y)),
		geom.NormRot(w.rng.Float64()), w.baseColor, brain, w.cfg)
	w.individuals.Add(ind)
	return ind
}

func (w *World) spawnFood() {
	pos := geom.V(w.rng.Float64()*w.width, w.rng.Float64()*w.height)
	w.food.Add(entity.NewFood(pos, w.cfg.Food.Radius))
	w.events.RecordFoodSpawned()
}

// Tick advances the world by one tick. The only error is a wrapped
// entity.ErrNumericCorruption, after which the world must not be ticked again.
func (w *World) Tick(ctx context.Context) error {
	w.tick++

	if iv := w.cfg.Persist.Interval; iv > 0 && w.tick%iv == 0 {
		w.logStatus()
		w.save(ctx)
	}

	if w.tick%w.cfg.World.FoodInterval == 0 && w.individuals.Len() < w.maxPop {
		w.spawnFood()
	}

	for ind := range w.individuals.All() {
		if ind.Dead() {
			continue
		}
		if err := ind.Step(w); err != nil {
			return fmt.Errorf("tick %d: %w", w.tick, err)
		}
	}

	threshold := w.cfg.World.ReproduceEnergy
	ready := w.individuals.Filter(func(ind *entity.Individual) bool {
		return ind.Energy() >= threshold
	}, true)
	for _, ind := range ready {
		ind.Reproduce(w, w.cfg.World.LitterSize, false)
	}

	if n := w.individuals.Len(); n > w.maxPop {
		w.cull(n - w.maxPop)
	} else if n < w.minPop {
		w.forceReproduction(w.minPop - n)
	}
	return nil
}

// cull removes the n individuals with the least energy.
func (w *World) cull(n int) {
	victims := slices.Clone(w.individuals.Snapshot())
	slices.SortStableFunc(victims, func(a, b *entity.Individual) int {
		return cmp.Compare(a.Energy(), b.Energy())
	})
	w.events.RecordCulls(entity.KillAll(w, victims[:n]...))
}

// forceReproduction makes the fittest individual produce the missing
// individuals. An empty world is reseeded with random individuals instead.
func (w *World) forceReproduction(deficit int) {
	best := w.Best()
	if best == nil {
		for i := 0; i < deficit; i++ {
			w.SpawnRandomIndividual()
		}
		return
	}
	best.Reproduce(w, deficit, true)
}

func (w *World) save(ctx context.Context) {
	if w.saver == nil {
		return
	}
	if err := w.saver.Save(ctx, w.Snapshot()); err != nil {
		slog.Error("snapshot_save_failed", "tick", w.tick, "error", err)
		return
	}
	slog.Info("snapshot_saved", "tick", w.tick)
}

func (w *World) logStatus() {
	st := w.Status()
	minutes := int64(0)
	if tps := w.cfg.Driver.TicksPerSecond; tps > 0 {
		minutes = w.tick / int64(tps*60)
	}
	slog.Info("world_status",
		"tick", st.Tick,
		"minutes", minutes,
		"max_generation", st.MaxGeneration,
		"population", st.Population,
		"food", st.Food,
		"mean_energy", st.MeanEnergy,
	)
}

type nopEvents struct{}

func (nopEvents) RecordBirths(int)    {}
func (nopEvents) RecordStarvation()   {}
func (nopEvents) RecordFoodEaten(int) {}
func (nopEvents) RecordBite(float64)  {}
func (nopEvents) RecordCulls(int)     {}
func (nopEvents) RecordFoodSpawned()  {}
