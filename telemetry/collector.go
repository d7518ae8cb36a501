// Package telemetry counts population events per window of ticks and writes
// the aggregates as CSV.
package telemetry

import "github.com/pthm-cable/aipop/world"

// Collector accumulates world events within tick windows and produces
// WindowStats. It implements world.Events and must be used from the goroutine
// that ticks the world.
type Collector struct {
	windowTicks int64

	windowStartTick int64

	// Event counters for the current window
	births      int
	starvations int
	culls       int
	foodEaten   int
	foodSpawned int
	bites       int
	bitten      float64
}

var _ world.Events = (*Collector)(nil)

// NewCollector creates a collector whose windows last windowTicks ticks.
func NewCollector(windowTicks int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

func (c *Collector) RecordBirths(n int)    { c.births += n }
func (c *Collector) RecordStarvation()     { c.starvations++ }
func (c *Collector) RecordCulls(n int)     { c.culls += n }
func (c *Collector) RecordFoodEaten(n int) { c.foodEaten += n }
func (c *Collector) RecordFoodSpawned()    { c.foodSpawned++ }

func (c *Collector) RecordBite(amount float64) {
	c.bites++
	c.bitten += amount
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces the stats of the window ending at st.Tick and resets the
// counters. energies is the energy of every individual alive at st.Tick.
func (c *Collector) Flush(st world.Status, energies []float64) WindowStats {
	mean, std, p10, p50, p90 := ComputeEnergyStats(energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   st.Tick,

		Population: st.Population,
		Food:       st.Food,

		Births:       c.births,
		Starvations:  c.starvations,
		Culls:        c.culls,
		FoodEaten:    c.foodEaten,
		FoodSpawned:  c.foodSpawned,
		Bites:        c.bites,
		EnergyBitten: c.bitten,

		EnergyMean: mean,
		EnergyStd:  std,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		MaxGeneration:    st.MaxGeneration,
		MeanMutationRate: st.MeanMutationRate,
	}

	c.windowStartTick = st.Tick
	c.births = 0
	c.starvations = 0
	c.culls = 0
	c.foodEaten = 0
	c.foodSpawned = 0
	c.bites = 0
	c.bitten = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
