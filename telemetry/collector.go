// Package telemetry provides tick statistics, performance timing, CSV output and
// exploration snapshots.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	chunksGenerated int
	tilesPainted    int
	pathsPlanned    int
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordChunksGenerated adds n newly created chunks.
func (c *Collector) RecordChunksGenerated(n int) {
	c.chunksGenerated += n
}

// RecordTilesPainted adds n tiles marked fresh by line of sight.
func (c *Collector) RecordTilesPainted(n int) {
	c.tilesPainted += n
}

// RecordPathsPlanned adds n completed path searches.
func (c *Collector) RecordPathsPlanned(n int) {
	c.pathsPlanned += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the world state the caller reads at flush time.
type Sample struct {
	Chunks       int
	Fresh        int
	Settled      int
	Unseen       int
	Units        int
	UnitsBlocked int
	GoalDists    []float64 // Remaining distance for units with an active target
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	var explored float64
	if total := s.Fresh + s.Settled + s.Unseen; total > 0 {
		explored = float64(s.Fresh+s.Settled) / float64(total)
	}
	mean, p10, p50, p90 := ComputeDistribution(s.GoalDists)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Chunks:       s.Chunks,
		TilesFresh:   s.Fresh,
		TilesSettled: s.Settled,
		TilesUnseen:  s.Unseen,
		ExploredFrac: explored,

		ChunksGenerated: c.chunksGenerated,
		TilesPainted:    c.tilesPainted,
		PathsPlanned:    c.pathsPlanned,

		Units:        s.Units,
		UnitsBlocked: s.UnitsBlocked,

		GoalDistMean: mean,
		GoalDistP10:  p10,
		GoalDistP50:  p50,
		GoalDistP90:  p90,
	}

	c.windowStartTick = currentTick
	c.chunksGenerated = 0
	c.tilesPainted = 0
	c.pathsPlanned = 0

	return stats
}

// Reset drops pending counters and starts a new window at tick. Used when a
// run resumes from a snapshot.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.chunksGenerated = 0
	c.tilesPainted = 0
	c.pathsPlanned = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
