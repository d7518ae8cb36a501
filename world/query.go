package world

import (
	"github.com/pthm-cable/aipop/entity"
)

// Status summarizes the world for logs and the HUD.
type Status struct {
	Tick             int64
	Population       int
	Food             int
	MaxGeneration    int64
	MeanEnergy       float64
	MeanMutationRate float64
}

// Status computes a summary over the current snapshot.
func (w *World) Status() Status {
	st := Status{Tick: w.tick, Food: w.food.Len()}
	for ind := range w.individuals.All() {
		st.Population++
		st.MaxGeneration = max(st.MaxGeneration, ind.Generation())
		st.MeanEnergy += ind.Energy()
		st.MeanMutationRate += ind.MutationRate()
	}
	if st.Population > 0 {
		st.MeanEnergy /= float64(st.Population)
		st.MeanMutationRate /= float64(st.Population)
	}
	return st
}

// Energies returns the energy of every individual.
func (w *World) Energies() []float64 {
	snap := w.individuals.Snapshot()
	out := make([]float64, len(snap))
	for i, ind := range snap {
		out[i] = ind.Energy()
	}
	return out
}

// Best returns the individual with the most energy, or nil if there is none.
func (w *World) Best() *entity.Individual {
	return w.maxBy(func(ind *entity.Individual) float64 { return ind.Energy() })
}

// Oldest returns the individual with the highest age, or nil if there is none.
func (w *World) Oldest() *entity.Individual {
	return w.maxBy(func(ind *entity.Individual) float64 { return float64(ind.Age()) })
}

// MostEvolved returns the individual with the highest generation, or nil if
// there is none.
func (w *World) MostEvolved() *entity.Individual {
	return w.maxBy(func(ind *entity.Individual) float64 { return float64(ind.Generation()) })
}

// MaxGeneration returns the highest generation alive, 0 if empty.
func (w *World) MaxGeneration() int64 {
	if ind := w.MostEvolved(); ind != nil {
		return ind.Generation()
	}
	return 0
}

// maxBy returns the live individual maximizing key, preferring the lowest ID
// on ties.
func (w *World) maxBy(key func(*entity.Individual) float64) *entity.Individual {
	var best *entity.Individual
	var bestKey float64
	for ind := range w.individuals.All() {
		if ind.Dead() {
			continue
		}
		k := key(ind)
		if best == nil || k > bestKey || (k == bestKey && ind.ID() < best.ID()) {
			best, bestKey = ind, k
		}
	}
	return best
}
