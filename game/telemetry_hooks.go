package game

import (
	"log/slog"

	"github.com/pthm-cable/aipop/telemetry"
)

// flushTelemetry closes the stats window when it is complete.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.world.TickCount()) {
		return
	}
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	defer g.perf.StartPhase(telemetry.PhaseSimulate)

	stats := g.collector.Flush(g.world.Status(), g.world.Energies())
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry_write_failed", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("perf_write_failed", "error", err)
	}
}
