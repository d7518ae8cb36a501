package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Counts at window end
	Population int `csv:"population"`
	Food       int `csv:"food"`

	// Events during window
	Births       int     `csv:"births"`
	Starvations  int     `csv:"starvations"`
	Culls        int     `csv:"culls"`
	FoodEaten    int     `csv:"food_eaten"`
	FoodSpawned  int     `csv:"food_spawned"`
	Bites        int     `csv:"bites"`
	EnergyBitten float64 `csv:"energy_bitten"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Evolution
	MaxGeneration    int64   `csv:"max_generation"`
	MeanMutationRate float64 `csv:"mean_mutation_rate"`
}

// ComputeEnergyStats returns the mean, population standard deviation and
// empirical 10th/50th/90th percentiles of values. All zero when empty.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("starvations", s.Starvations),
		slog.Int("culls", s.Culls),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Int("bites", s.Bites),
		slog.Float64("energy_bitten", s.EnergyBitten),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Int64("max_generation", s.MaxGeneration),
		slog.Float64("mean_mutation_rate", s.MeanMutationRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
