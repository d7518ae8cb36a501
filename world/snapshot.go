package world

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/entityset"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// ErrBadSnapshot is returned by Restore for snapshots it cannot use.
var ErrBadSnapshot = errors.New("bad snapshot")

// Snapshot is the complete persisted state of a world.
type Snapshot struct {
	Version       int                      `json:"version"`
	RunID         string                   `json:"run_id"`
	SavedAt       time.Time                `json:"saved_at"`
	Width         float64                  `json:"width"`
	Height        float64                  `json:"height"`
	MinPopulation int                      `json:"min_population"`
	MaxPopulation int                      `json:"max_population"`
	Tick          int64                    `json:"tick"`
	NextID        uint64                   `json:"next_id"`
	RNG           []byte                   `json:"rng"`
	Individuals   []entity.IndividualState `json:"individuals"`
	Food          []entity.FoodState       `json:"food"`
}

// Snapshot captures the world. It must not run concurrently with Tick.
func (w *World) Snapshot() *Snapshot {
	rng, err := w.pcg.MarshalBinary()
	if err != nil {
		// PCG.MarshalBinary never fails.
		panic(fmt.Sprintf("world: marshaling rng: %v", err))
	}

	snap := &Snapshot{
		Version:       SnapshotVersion,
		RunID:         w.runID.String(),
		SavedAt:       time.Now().UTC(),
		Width:         w.width,
		Height:        w.height,
		MinPopulation: w.minPop,
		MaxPopulation: w.maxPop,
		Tick:          w.tick,
		NextID:        w.nextID,
		RNG:           rng,
	}
	for ind := range w.individuals.All() {
		if !ind.Dead() {
			snap.Individuals = append(snap.Individuals, ind.State())
		}
	}
	for f := range w.food.All() {
		snap.Food = append(snap.Food, f.State())
	}
	return snap
}

// Restore rebuilds a world from a snapshot. Arena size, population bounds and
// the random generator come from the snapshot; everything else from cfg.
func Restore(cfg *config.Config, snap *Snapshot, opts Options) (*World, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil", ErrBadSnapshot)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadSnapshot, snap.Version, SnapshotVersion)
	}
	if snap.Width <= 0 || snap.Height <= 0 {
		return nil, fmt.Errorf("%w: arena %vx%v", ErrBadSnapshot, snap.Width, snap.Height)
	}
	if snap.MinPopulation < 1 || snap.MinPopulation > snap.MaxPopulation {
		return nil, fmt.Errorf("%w: population bounds %d..%d", ErrBadSnapshot, snap.MinPopulation, snap.MaxPopulation)
	}
	runID, err := uuid.Parse(snap.RunID)
	if err != nil {
		return nil, fmt.Errorf("%w: run id: %v", ErrBadSnapshot, err)
	}
	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(snap.RNG); err != nil {
		return nil, fmt.Errorf("%w: rng: %v", ErrBadSnapshot, err)
	}

	w := &World{
		cfg:         cfg,
		width:       snap.Width,
		height:      snap.Height,
		minPop:      snap.MinPopulation,
		maxPop:      snap.MaxPopulation,
		pcg:         pcg,
		rng:         rand.New(pcg),
		tick:        snap.Tick,
		nextID:      snap.NextID,
		runID:       runID,
		individuals: entityset.New[*entity.Individual](),
		food:        entityset.New[*entity.Food](),
	}
	w.setOptions(opts)

	inds := make([]*entity.Individual, 0, len(snap.Individuals))
	for _, s := range snap.Individuals {
		ind, err := entity.IndividualFromState(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		if s.ID > w.nextID {
			w.nextID = s.ID
		}
		inds = append(inds, ind)
	}
	w.individuals.AddAll(inds...)

	food := make([]*entity.Food, 0, len(snap.Food))
	for _, s := range snap.Food {
		food = append(food, entity.FoodFromState(s))
	}
	w.food.AddAll(food...)

	return w, nil
}
