package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Terrain at window end
	Chunks       int     `csv:"chunks"`
	TilesFresh   int     `csv:"tiles_fresh"`
	TilesSettled int     `csv:"tiles_settled"`
	TilesUnseen  int     `csv:"tiles_unseen"`
	ExploredFrac float64 `csv:"explored_frac"` // (fresh+settled) / generated tiles

	// Events during window
	ChunksGenerated int `csv:"chunks_generated"`
	TilesPainted    int `csv:"tiles_painted"`
	PathsPlanned    int `csv:"paths_planned"`

	// Units at window end
	Units        int `csv:"units"`
	UnitsBlocked int `csv:"units_blocked"`

	// Remaining distance to target (sampled at window end)
	GoalDistMean float64 `csv:"goal_dist_mean"`
	GoalDistP10  float64 `csv:"goal_dist_p10"`
	GoalDistP50  float64 `csv:"goal_dist_p50"`
	GoalDistP90  float64 `csv:"goal_dist_p90"`
}

// ComputeDistribution returns the mean and the empirical 10th, 50th and
// 90th percentiles of values, or zeros when values is empty. values is not
// modified.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, sorted, nil) }
	return stat.Mean(sorted, nil), q(0.10), q(0.50), q(0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("chunks", s.Chunks),
		slog.Int("tiles_fresh", s.TilesFresh),
		slog.Int("tiles_settled", s.TilesSettled),
		slog.Int("tiles_unseen", s.TilesUnseen),
		slog.Float64("explored_frac", s.ExploredFrac),
		slog.Int("chunks_generated", s.ChunksGenerated),
		slog.Int("tiles_painted", s.TilesPainted),
		slog.Int("paths_planned", s.PathsPlanned),
		slog.Int("units", s.Units),
		slog.Int("units_blocked", s.UnitsBlocked),
		slog.Float64("goal_dist_mean", s.GoalDistMean),
		slog.Float64("goal_dist_p50", s.GoalDistP50),
	)
}

// LogStats logs the window stats at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
