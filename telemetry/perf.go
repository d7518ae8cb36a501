package telemetry

import (
	"log/slog"
	"time"
)

// Phase names a part of one driver update.
type Phase int

const (
	PhaseSimulate Phase = iota
	PhaseTelemetry
	PhasePersist
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseSimulate:
		return "simulate"
	case PhaseTelemetry:
		return "telemetry"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

type phaseTimes [numPhases]time.Duration

type perfSample struct {
	total  time.Duration
	ticks  int
	phases phaseTimes
}

// PerfCollector times driver updates over a ring of the last n updates. An
// update may advance several ticks when fast-forwarding, or none when paused.
type PerfCollector struct {
	now func() time.Time

	ring  []perfSample
	next  int
	count int

	cur        perfSample
	started    time.Time
	phase      Phase
	inPhase    bool
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector over the last n updates.
func NewPerfCollector(n int) *PerfCollector {
	if n < 1 {
		n = 60
	}
	return &PerfCollector{now: time.Now, ring: make([]perfSample, n)}
}

// StartUpdate begins timing an update.
func (p *PerfCollector) StartUpdate() {
	p.cur = perfSample{}
	p.inPhase = false
	p.started = p.now()
}

// StartPhase closes the running phase and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase, p.inPhase, p.phaseStart = phase, true, now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndUpdate stores the update, which advanced ticks ticks, in the ring.
func (p *PerfCollector) EndUpdate(ticks int) {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.started)
	p.cur.ticks = ticks

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a rendered frame in window mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the ring. Tick durations are per tick.
type PerfStats struct {
	AvgTick        time.Duration
	MinTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64
	PhasePct       [numPhases]float64
	Frame          time.Duration
	FPS            float64
}

// Stats aggregates the updates in the ring. Updates without ticks add to
// phase shares but not to tick timings.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Frame: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}

	var total time.Duration
	var phases phaseTimes
	ticks := 0
	for _, smp := range p.ring[:p.count] {
		total += smp.total
		for i, d := range smp.phases {
			phases[i] += d
		}
		if smp.ticks == 0 {
			continue
		}
		per := smp.total / time.Duration(smp.ticks)
		if ticks == 0 || per < s.MinTick {
			s.MinTick = per
		}
		s.MaxTick = max(s.MaxTick, per)
		ticks += smp.ticks
	}
	if ticks == 0 || total <= 0 {
		return s
	}

	s.AvgTick = total / time.Duration(ticks)
	s.TicksPerSecond = float64(ticks) * float64(time.Second) / float64(total)
	for i, d := range phases {
		s.PhasePct[i] = 100 * float64(d) / float64(total)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph := range numPhases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the stats as a "perf" event.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfRecord is one perf.csv row.
type PerfRecord struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SimulatePct  float64 `csv:"simulate_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	PersistPct   float64 `csv:"persist_pct"`
}

// Record flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) Record(windowEnd int64) PerfRecord {
	return PerfRecord{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SimulatePct:  s.PhasePct[PhaseSimulate],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		PersistPct:   s.PhasePct[PhasePersist],
	}
}
