package game

import (
	"context"
	"fmt"

	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/telemetry"
)

// Update runs one frame's worth of simulation steps and handles input.
// Must be called from the raylib main loop.
func (g *Game) Update(ctx context.Context) error {
	if g.headless {
		return g.UpdateHeadless(ctx)
	}
	g.handleInput()
	if g.paused {
		return nil
	}
	for range g.stepsPerUpdate {
		if err := g.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// UpdateHeadless runs one frame's worth of simulation steps without input.
func (g *Game) UpdateHeadless(ctx context.Context) error {
	for range g.stepsPerUpdate {
		if err := g.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the simulation by one tick:
//
//  1. generate chunks around the focus and every unit
//  2. snapshot the 3x3 window around the focus
//  3. demote last tick's fresh tiles, then paint the focus and unit sight
//  4. plan routes for units whose target changed
//  5. move units, retargeting those that arrived or got stuck
//  6. flush telemetry at window boundaries
func (g *Game) Step(ctx context.Context) error {
	g.perf.StartTick()
	defer g.perf.EndTick()

	if g.following {
		if c, ok := g.unitCentroid(); ok {
			g.SetFocus(c)
		}
	}
	focus := g.Focus()

	g.perf.StartPhase(telemetry.PhaseTerrainGen)
	created, err := g.ensureTerrain(ctx, focus)
	g.collector.RecordChunksGenerated(created)
	if err != nil {
		return fmt.Errorf("generating terrain: %w", err)
	}

	g.perf.StartPhase(telemetry.PhaseWindow)
	g.window = g.grid.Window(focus)

	g.perf.StartPhase(telemetry.PhaseLOS)
	g.painter.BeginTick()
	g.painter.UpdateLOS(focus, g.losRadius)
	g.losSystem.Update()
	g.collector.RecordTilesPainted(g.painter.Painted())

	g.perf.StartPhase(telemetry.PhasePathfinding)
	g.movement.Plan()
	g.collector.RecordPathsPlanned(g.movement.Planned)

	g.perf.StartPhase(telemetry.PhaseMovement)
	g.movement.Move(g.cfg.Sim.DT)
	g.retargetIdle()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()
	return nil
}

// ensureTerrain generates the 3x3 chunk blocks around focus and every unit
// in one parallel batch.
func (g *Game) ensureTerrain(ctx context.Context, focus geom.Vec2) (int, error) {
	g.positions = g.neighborhood(g.positions[:0], focus)
	query := g.unitFilter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		g.positions = g.neighborhood(g.positions, pos.Vec())
	}
	return g.grid.GenerateBatch(ctx, g.positions)
}

// retargetIdle gives a new goal to units that reached theirs or have been
// stuck for too long.
func (g *Game) retargetIdle() {
	query := g.unitFilter.Query()
	for query.Next() {
		pos, target, path, unit := query.Get()
		if target.Active && unit.Blocked < maxBlockedTicks {
			continue
		}
		t := g.pickTarget(pos.Vec())
		target.X, target.Y, target.Active = t[0], t[1], true
		path.Reset()
		unit.Blocked = 0
	}
}

// unitCentroid returns the mean unit position.
func (g *Game) unitCentroid() (geom.Vec2, bool) {
	var sum geom.Vec2
	n := 0
	query := g.unitFilter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		sum = sum.Add(pos.Vec())
		n++
	}
	if n == 0 {
		return geom.Vec2{}, false
	}
	return sum.Mul(1 / float64(n)), true
}
