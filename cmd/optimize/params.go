// Package main provides CMA-ES optimization for aipop simulation parameters.
package main

import (
	"github.com/pthm-cable/aipop/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy
			{Name: "moving_cost", Path: "energy.moving_cost", Min: 0.0002, Max: 0.005, Default: 0.001},
			{Name: "upkeep_cost", Path: "energy.upkeep_cost", Min: 0.0005, Max: 0.01, Default: 0.002},
			{Name: "eat_rate", Path: "energy.eat_rate", Min: 0.001, Max: 0.02, Default: 0.005},
			{Name: "eat_efficiency", Path: "energy.eat_efficiency", Min: 0.1, Max: 1.0, Default: 0.5},
			{Name: "food_energy", Path: "energy.food_energy", Min: 20, Max: 200, Default: 100},
			// World
			{Name: "food_interval", Path: "world.food_interval", Min: 30, Max: 900, Default: 300},
			{Name: "reproduce_energy", Path: "world.reproduce_energy", Min: 60, Max: 190, Default: 100},
			// Genome
			{Name: "mutation_rate", Path: "individual.mutation_rate", Min: 0.001, Max: 0.1, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Energy.MovingCost = c[0]
	cfg.Energy.UpkeepCost = c[1]
	cfg.Energy.EatRate = c[2]
	cfg.Energy.EatEfficiency = c[3]
	cfg.Energy.FoodEnergy = c[4]

	cfg.World.FoodInterval = max(1, int64(c[5]))
	cfg.World.ReproduceEnergy = c[6]

	// Children never mutate below the floor, so keep the start above it.
	cfg.Individual.MutationRate = max(c[7], cfg.Individual.MinMutationRate)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Energy.MovingCost,
		cfg.Energy.UpkeepCost,
		cfg.Energy.EatRate,
		cfg.Energy.EatEfficiency,
		cfg.Energy.FoodEnergy,
		float64(cfg.World.FoodInterval),
		cfg.World.ReproduceEnergy,
		cfg.Individual.MutationRate,
	}
}
