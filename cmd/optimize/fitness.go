package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/telemetry"
	"github.com/pthm-cable/aipop/world"
)

// FitnessEvaluator runs headless worlds and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []uint64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the telemetry windows of the best seed of the best
// evaluation so far.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	ticks         int64 // ticks completed before corruption (or maxTicks)
	maxGeneration int64
	windows       []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better). An
// evaluation that fails scores 0, the fitness of a run without generations.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fitness, err := fe.EvaluateContext(context.Background(), x)
	if err != nil {
		slog.Error("evaluation_failed", "error", err)
		return 0
	}
	return fitness
}

// EvaluateContext runs every seed concurrently. The first failing seed
// cancels the others and its error is returned.
func (fe *FitnessEvaluator) EvaluateContext(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := fe.runSimulation(ctx, cfg, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			quality := computeQuality(r.windows, cfg.World.ReproduceEnergy)
			results[i] = seedResult{
				fitness: fe.computeFitness(r, quality),
				quality: quality,
				windows: r.windows,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var totalFitness, totalQuality float64
	best := results[0]
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < best.fitness {
			best = r
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = best.windows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness, nil
}

// runSimulation executes a single headless run of maxTicks ticks. A run that
// hits numeric corruption ends early and keeps what it had; that is a result,
// not an error.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, cfg *config.Config, seed uint64) (*runResult, error) {
	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	w := world.New(cfg, world.Options{Seed: seed, Events: collector})
	w.Seed()

	result := &runResult{}
	for w.TickCount() < fe.maxTicks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.Tick(ctx); err != nil {
			if !errors.Is(err, entity.ErrNumericCorruption) {
				return nil, err
			}
			break
		}
		if collector.ShouldFlush(w.TickCount()) {
			result.windows = append(result.windows, collector.Flush(w.Status(), w.Energies()))
		}
	}

	result.ticks = w.TickCount()
	result.maxGeneration = w.MaxGeneration()
	return result, nil
}

// copyConfig creates a deep copy of the base config with periodic saving off.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Neural.HiddenLayers = slices.Clone(fe.baseConfig.Neural.HiddenLayers)
	cfg.Derived.BrainSizes = slices.Clone(fe.baseConfig.Derived.BrainSizes)
	cfg.Persist.Interval = 0
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(generations × completion × (1.0 + 0.5 × quality))
// Evolutionary progress dominates; runs cut short by corruption are scaled
// down by the fraction of ticks they completed.
func (fe *FitnessEvaluator) computeFitness(r *runResult, quality float64) float64 {
	completion := float64(r.ticks) / float64(fe.maxTicks)
	return -(float64(r.maxGeneration) * completion * (1.0 + 0.5*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.35
	qualityWeightEnergy    = 0.35
	qualityWeightForaging  = 0.30

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
// reproduceEnergy is the voluntary reproduction threshold; a healthy median
// energy sits at half of it.
func computeQuality(windows []telemetry.WindowStats, reproduceEnergy float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	pops := make([]float64, 0, len(valid))
	var energySum, forageSum float64
	var forageCount int
	for _, w := range valid {
		pops = append(pops, float64(w.Population))

		target := reproduceEnergy / 2
		energySum += math.Exp(-math.Pow((w.EnergyP50-target)/(target/2), 2))

		if w.FoodSpawned > 0 {
			ratio := float64(w.FoodEaten) / float64(w.FoodSpawned)
			forageSum += 1 - math.Exp(-3*ratio)
			forageCount++
		}
	}

	stabilityScore := 0.0
	if len(pops) >= 2 {
		c := cv(pops)
		stabilityScore = math.Exp(-c * c)
	}
	energyScore := energySum / float64(len(valid))
	forageScore := 0.0
	if forageCount > 0 {
		forageScore = forageSum / float64(forageCount)
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energyScore +
		qualityWeightForaging*forageScore

	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
