package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorTracksPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for range 5 {
		pc.StartTick()
		pc.StartPhase(PhaseTerrainGen)
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase(PhaseLOS)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseTerrainGen, PhaseLOS} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseMovement]; ok {
		t.Error("idle phase should be absent")
	}
	if stats.PhasePct[PhaseLOS] <= stats.PhasePct[PhaseTerrainGen] {
		t.Errorf("los %.1f%% should exceed terrain_gen %.1f%%",
			stats.PhasePct[PhaseLOS], stats.PhasePct[PhaseTerrainGen])
	}
}

func TestPerfCollectorIgnoresUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase("flood_fill")
	time.Sleep(50 * time.Microsecond)
	pc.EndTick()

	stats := pc.Stats()
	if len(stats.PhaseAvg) != 0 {
		t.Errorf("unexpected phases: %v", stats.PhaseAvg)
	}
	if stats.AvgTickDuration <= 0 {
		t.Error("tick still counts")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for range 12 {
		pc.StartTick()
		pc.StartPhase(PhaseMovement)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.P50TickDuration ||
		stats.P50TickDuration > stats.P95TickDuration ||
		stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("quantiles out of order: min %v p50 %v p95 %v max %v",
			stats.MinTickDuration, stats.P50TickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.P95TickDuration != 0 {
		t.Error("expected zero durations for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want (0, 70]", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		P95TickDuration: 2100 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseTerrainGen: 40,
			PhaseLOS:        35,
			PhaseMovement:   25,
		},
	}

	rec := s.ToCSV(600)
	if rec.WindowEnd != 600 || rec.AvgTickUS != 1500 || rec.P95TickUS != 2100 {
		t.Errorf("unexpected timing fields: %+v", rec)
	}
	if rec.TerrainGenPct != 40 || rec.LOSPct != 35 || rec.MovementPct != 25 {
		t.Errorf("phase columns not mapped: %+v", rec)
	}
	if rec.WindowPct != 0 || rec.PathfindingPct != 0 {
		t.Errorf("missing phases should be zero: %+v", rec)
	}
}
