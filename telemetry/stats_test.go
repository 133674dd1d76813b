package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistribution(t *testing.T) {
	tests := []struct {
		name                string
		values              []float64
		mean, p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0},
		{"single", []float64{4}, 4, 4, 4, 4},
		{"unsorted", []float64{5, 1, 4, 2, 3}, 3, 1, 3, 5},
		{"ties", []float64{2, 2, 2, 8}, 3.5, 2, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p10, p50, p90 := ComputeDistribution(tt.values)
			got := []float64{mean, p10, p50, p90}
			want := []float64{tt.mean, tt.p10, tt.p50, tt.p90}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("got %v, want %v", got, want)
					break
				}
			}
		})
	}
}

func TestComputeDistributionKeepsInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeDistribution(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10, 0.5)

	if c.ShouldFlush(9) {
		t.Error("window should not be complete at tick 9")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should be complete at tick 10")
	}

	c.RecordChunksGenerated(9)
	c.RecordTilesPainted(120)
	c.RecordTilesPainted(30)
	c.RecordPathsPlanned(2)

	stats := c.Flush(10, Sample{
		Chunks:    9,
		Fresh:     50,
		Settled:   150,
		Unseen:    800,
		Units:     3,
		GoalDists: []float64{1, 2, 3},
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.SimTimeSec != 5 {
		t.Errorf("sim time = %v, want 5", stats.SimTimeSec)
	}
	if stats.ChunksGenerated != 9 || stats.TilesPainted != 150 || stats.PathsPlanned != 2 {
		t.Errorf("event counters = %d/%d/%d", stats.ChunksGenerated, stats.TilesPainted, stats.PathsPlanned)
	}
	if math.Abs(stats.ExploredFrac-0.2) > 1e-12 {
		t.Errorf("explored = %v, want 0.2", stats.ExploredFrac)
	}
	if stats.GoalDistMean != 2 || stats.GoalDistP50 != 2 {
		t.Errorf("goal distance mean/p50 = %v/%v, want 2/2", stats.GoalDistMean, stats.GoalDistP50)
	}

	// Counters reset, window advances
	next := c.Flush(20, Sample{})
	if next.WindowStartTick != 10 {
		t.Errorf("next window start = %d, want 10", next.WindowStartTick)
	}
	if next.ChunksGenerated != 0 || next.TilesPainted != 0 || next.ExploredFrac != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	c := NewCollector(0, 1)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d, want 1", c.WindowDurationTicks())
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(10, 0.5)
	c.RecordChunksGenerated(4)
	c.Reset(500)

	if c.ShouldFlush(505) {
		t.Error("window should restart at the reset tick")
	}
	if !c.ShouldFlush(510) {
		t.Error("expected flush one window after reset")
	}
	stats := c.Flush(510, Sample{})
	if stats.WindowStartTick != 500 || stats.ChunksGenerated != 0 {
		t.Errorf("start=%d generated=%d, want 500/0", stats.WindowStartTick, stats.ChunksGenerated)
	}
}
