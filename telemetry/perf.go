package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step, in execution order.
const (
	PhaseTerrainGen  = "terrain_gen"
	PhaseWindow      = "window"
	PhaseLOS         = "los"
	PhasePathfinding = "pathfinding"
	PhaseMovement    = "movement"
	PhaseTelemetry   = "telemetry"
)

// Phases lists every phase the tick records.
var Phases = [...]string{
	PhaseTerrainGen, PhaseWindow, PhaseLOS,
	PhasePathfinding, PhaseMovement, PhaseTelemetry,
}

const numPhases = len(Phases)

// phaseSlot maps a phase name to its slot in a sample.
func phaseSlot(name string) int {
	return slices.Index(Phases[:], name)
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	Tick   time.Duration
	Phases [numPhases]time.Duration
}

// PerfCollector keeps per-phase tick timings in a ring of the last
// windowSize ticks. Phases not listed in Phases are ignored.
type PerfCollector struct {
	ring  []PerfSample
	next  int
	count int

	cur        PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // current slot, -1 outside a phase

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]PerfSample, windowSize),
		phase: -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = PerfSample{}
	p.phase = -1
}

// StartPhase closes the running phase, if any, and starts timing name.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseSlot(name)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.Tick = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P50TickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of the average tick, keyed by phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, numPhases),
		PhasePct:      make(map[string]float64, numPhases),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, sample := range p.ring[:p.count] {
		ticks[i] = float64(sample.Tick)
		total += sample.Tick
		for k, d := range sample.Phases {
			phaseSum[k] += d
		}
	}
	slices.Sort(ticks)

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P50TickDuration = time.Duration(stat.Quantile(0.5, stat.Empirical, ticks, nil))
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	for k, name := range Phases {
		if phaseSum[k] == 0 {
			continue
		}
		avg := phaseSum[k] / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the statistics at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% of the tick are
// omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P50TickUS      int64   `csv:"p50_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	TerrainGenPct  float64 `csv:"terrain_gen_pct"`
	WindowPct      float64 `csv:"window_pct"`
	LOSPct         float64 `csv:"los_pct"`
	PathfindingPct float64 `csv:"pathfinding_pct"`
	MovementPct    float64 `csv:"movement_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P50TickUS:      s.P50TickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		TerrainGenPct:  s.PhasePct[PhaseTerrainGen],
		WindowPct:      s.PhasePct[PhaseWindow],
		LOSPct:         s.PhasePct[PhaseLOS],
		PathfindingPct: s.PhasePct[PhasePathfinding],
		MovementPct:    s.PhasePct[PhaseMovement],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
