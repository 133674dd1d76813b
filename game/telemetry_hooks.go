package game

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/telemetry"
	"github.com/pthm-cable/fogland/terrain"
)

// ErrSnapshotMismatch is returned when a snapshot was taken with a
// different world layout than the running game.
var ErrSnapshotMismatch = errors.New("snapshot does not match world layout")

// flushTelemetry writes window stats and perf records at window boundaries.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sample reads the world state recorded at a flush.
func (g *Game) sample() telemetry.Sample {
	vis := g.grid.VisibilityStats()
	s := telemetry.Sample{
		Chunks:  g.grid.Len(),
		Fresh:   vis.Fresh,
		Settled: vis.Settled,
		Unseen:  vis.Unseen,
	}

	query := g.unitFilter.Query()
	for query.Next() {
		pos, target, _, unit := query.Get()
		s.Units++
		if unit.Blocked > 0 {
			s.UnitsBlocked++
		}
		if target.Active {
			s.GoalDists = append(s.GoalDists, geom.Dist(pos.Vec(), target.Pos()))
		}
	}
	return s
}

// Snapshot captures the explored state of the run.
func (g *Game) Snapshot() *telemetry.Snapshot {
	p := g.grid.Params()
	snap := &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		Seed:         p.Seed,
		ChunkSize:    p.ChunkSize,
		TilesPerSide: p.TilesPerSide,
		Tick:         g.tick,
		CameraX:      g.camera.Pos[0],
		CameraY:      g.camera.Pos[1],
		CameraZoom:   g.camera.Zoom,
	}

	for coord, c := range g.grid.Chunks() {
		snap.Chunks = append(snap.Chunks, telemetry.ChunkState{
			X:          coord.X,
			Y:          coord.Y,
			Visibility: slices.Clone(c.Visibility),
		})
	}
	slices.SortFunc(snap.Chunks, func(a, b telemetry.ChunkState) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})

	query := g.stateFilter.Query()
	for query.Next() {
		pos, speed, los, target, unit := query.Get()
		snap.Units = append(snap.Units, telemetry.UnitState{
			ID:      unit.ID,
			X:       pos.X,
			Y:       pos.Y,
			Speed:   speed.Speed,
			LOS:     los.Radius,
			TargetX: target.X,
			TargetY: target.Y,
			Active:  target.Active,
		})
	}
	slices.SortFunc(snap.Units, func(a, b telemetry.UnitState) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return snap
}

// SaveSnapshot writes a snapshot to the output directory, or to
// ./snapshots when output is disabled.
func (g *Game) SaveSnapshot() (string, error) {
	snap := g.Snapshot()
	var (
		path string
		err  error
	)
	if g.outputManager != nil {
		path, err = g.outputManager.WriteSnapshot(snap)
	} else {
		path, err = telemetry.SaveSnapshot(snap, "snapshots")
	}
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", snap.Tick, "chunks", len(snap.Chunks))
	return path, nil
}

// Restore replaces the explored state with snap. Chunks are regenerated from
// the seed and their visibility copied back; tiles that were fresh come back
// settled.
func (g *Game) Restore(ctx context.Context, snap *telemetry.Snapshot) error {
	p := g.grid.Params()
	if snap.Seed != p.Seed || snap.ChunkSize != p.ChunkSize || snap.TilesPerSide != p.TilesPerSide {
		return fmt.Errorf("%w: snapshot seed=%d size=%v tiles=%d, world seed=%d size=%v tiles=%d",
			ErrSnapshotMismatch, snap.Seed, snap.ChunkSize, snap.TilesPerSide, p.Seed, p.ChunkSize, p.TilesPerSide)
	}
	for _, cs := range snap.Chunks {
		if len(cs.Visibility) != p.TilesPerArea() {
			return fmt.Errorf("%w: chunk (%d,%d) has %d tiles, want %d",
				ErrSnapshotMismatch, cs.X, cs.Y, len(cs.Visibility), p.TilesPerArea())
		}
	}

	g.ClearTerrain()
	g.removeUnits()

	positions := make([]geom.Vec2, 0, len(snap.Chunks))
	half := geom.V2(p.ChunkSize/2, p.ChunkSize/2)
	for _, cs := range snap.Chunks {
		coord := terrain.ChunkCoord{X: cs.X, Y: cs.Y}
		positions = append(positions, coord.Origin(p.ChunkSize).Add(half))
	}
	if _, err := g.grid.GenerateBatch(ctx, positions); err != nil {
		return fmt.Errorf("regenerating chunks: %w", err)
	}

	for _, cs := range snap.Chunks {
		c, ok := g.grid.ChunkAt(terrain.ChunkCoord{X: cs.X, Y: cs.Y})
		if !ok {
			return fmt.Errorf("chunk (%d,%d) missing after regeneration", cs.X, cs.Y)
		}
		for i, v := range cs.Visibility {
			if v == terrain.Fresh {
				v = terrain.Settled
			}
			c.Visibility[i] = v
		}
	}

	for _, u := range snap.Units {
		g.spawnUnit(u)
	}

	g.camera.Pos = geom.V2(snap.CameraX, snap.CameraY)
	if snap.CameraZoom > 0 {
		g.camera.SetZoom(snap.CameraZoom)
	}
	g.tick = snap.Tick
	g.collector.Reset(snap.Tick)
	g.window = g.grid.Window(g.Focus())

	slog.Info("snapshot restored", "tick", snap.Tick, "chunks", len(snap.Chunks), "units", len(snap.Units))
	return nil
}

// removeUnits deletes every unit entity.
func (g *Game) removeUnits() {
	var units []ecs.Entity
	query := g.unitFilter.Query()
	for query.Next() {
		units = append(units, query.Entity())
	}
	for _, e := range units {
		g.world.RemoveEntity(e)
	}
	g.nextUnitID = 1
}
