// Package game wires the terrain grid, the visibility painter and the unit
// systems into a fixed-step simulation with an optional raylib front end.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/camera"
	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/inspector"
	"github.com/pthm-cable/fogland/renderer"
	"github.com/pthm-cable/fogland/systems"
	"github.com/pthm-cable/fogland/telemetry"
	"github.com/pthm-cable/fogland/terrain"
	"github.com/pthm-cable/fogland/ui"
)

// maxBlockedTicks is how long a unit may stay stuck before it gives up on
// its target.
const maxBlockedTicks = 30

// spawnAttempts bounds the search for a navigable spawn position.
const spawnAttempts = 16

// Options configures game creation.
type Options struct {
	Seed           int64  // Overrides world.seed when non-zero
	LogStats       bool   // Log window stats via slog
	OutputDir      string // CSV and snapshot output directory (empty = disabled)
	Headless       bool   // No raylib window, textures or input
	StepsPerUpdate int    // Simulation steps per Update call
	RestorePath    string // Snapshot to resume from (empty = fresh run)

	// Config overrides the global configuration when non-nil.
	Config *config.Config

	// StatsCallback is called on every telemetry flush.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the simulation state.
type Game struct {
	world *ecs.World
	cfg   *config.Config
	rng   *rand.Rand

	grid    *terrain.Grid
	painter *terrain.Painter
	window  terrain.Window

	losSystem *systems.LOSSystem
	movement  *systems.MovementSystem

	unitMapper *ecs.Map6[components.Position, components.MoveSpeed, components.LineOfSight,
		components.Target, components.Path, components.Unit]
	unitFilter  ecs.Filter4[components.Position, components.Target, components.Path, components.Unit]
	stateFilter ecs.Filter5[components.Position, components.MoveSpeed, components.LineOfSight,
		components.Target, components.Unit]
	nextUnitID uint32

	camera    *camera.Camera
	losRadius float64
	following bool

	tick           int32
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Telemetry
	logStats      bool
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	registry      *systems.SystemRegistry

	// Graphics (nil when headless)
	terrainRenderer *renderer.TerrainRenderer
	hud             *ui.HUD
	perfPanel       *ui.PerfPanel
	controls        *ui.ControlsPanel
	overlays        *ui.OverlayRegistry
	inspector       *inspector.Inspector
	showPerf        bool
	hudVis          *terrain.VisibilityStats
	hudVisTick      int32
	screenWidth     float32
	screenHeight    float32

	positions []geom.Vec2
}

// NewGame creates a game from the global configuration, or opts.Config
// when set.
func NewGame(ctx context.Context, opts Options) (*Game, error) {
	base := opts.Config
	if base == nil {
		base = config.Cfg()
	}
	cfg := *base
	if opts.Seed != 0 {
		cfg.World.Seed = uint32(opts.Seed)
	}

	var snap *telemetry.Snapshot
	if opts.RestorePath != "" {
		var err error
		snap, err = telemetry.LoadSnapshot(opts.RestorePath)
		if err != nil {
			return nil, err
		}
		cfg.World.Seed = snap.Seed
	}

	grid, err := terrain.NewGridFromConfig(&cfg)
	if err != nil {
		return nil, fmt.Errorf("creating terrain grid: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	painter := terrain.NewPainter(grid)
	seed := uint64(cfg.World.Seed)

	g := &Game{
		world:   world,
		cfg:     &cfg,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		grid:    grid,
		painter: painter,

		losSystem: systems.NewLOSSystem(world, painter),
		movement:  systems.NewMovementSystem(world, grid),

		unitMapper: ecs.NewMap6[components.Position, components.MoveSpeed, components.LineOfSight,
			components.Target, components.Path, components.Unit](world),
		unitFilter: *ecs.NewFilter4[components.Position, components.Target, components.Path, components.Unit](world),
		stateFilter: *ecs.NewFilter5[components.Position, components.MoveSpeed, components.LineOfSight,
			components.Target, components.Unit](world),
		nextUnitID: 1,

		camera:    camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height)),
		losRadius: cfg.LOS.DefaultRadius,
		following: opts.Headless,

		stepsPerUpdate: steps,
		headless:       opts.Headless,

		logStats:      opts.LogStats,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Sim.DT),
		statsCallback: opts.StatsCallback,
		registry:      systems.NewSystemRegistry(),

		screenWidth:  float32(cfg.Screen.Width),
		screenHeight: float32(cfg.Screen.Height),
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(g.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.terrainRenderer = renderer.NewTerrainRenderer(grid.Params())
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 125)
		g.controls = ui.NewControlsPanel(10, 125, 260)
		g.overlays = ui.NewOverlayRegistry()
		g.inspector = inspector.NewInspector(world, int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	}

	if snap != nil {
		if err := g.Restore(ctx, snap); err != nil {
			return nil, err
		}
	} else if err := g.spawnUnits(ctx, cfg.Sim.Units); err != nil {
		return nil, err
	}

	slog.Info("game created",
		"seed", cfg.World.Seed,
		"chunk_size", cfg.World.ChunkSize,
		"tiles_per_side", cfg.World.TilesPerSide,
		"units", cfg.Sim.Units,
		"headless", opts.Headless,
		"restored", snap != nil,
	)
	return g, nil
}

// spawnUnits places n units uniformly in the spawn disc around the origin,
// preferring navigable tiles.
func (g *Game) spawnUnits(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if _, err := g.grid.GenerateBatch(ctx, g.neighborhood(g.positions[:0], geom.V2(0, 0))); err != nil {
		return err
	}

	for range n {
		var pos geom.Vec2
		for range spawnAttempts {
			pos = g.randomInDisc(geom.V2(0, 0), g.cfg.Sim.SpawnRadius)
			if g.grid.Navigable(pos) {
				break
			}
		}
		target := g.pickTarget(pos)
		g.spawnUnit(telemetry.UnitState{
			ID:      g.nextUnitID,
			X:       pos[0],
			Y:       pos[1],
			Speed:   g.cfg.Sim.UnitSpeed,
			LOS:     g.cfg.Sim.UnitLOS,
			TargetX: target[0],
			TargetY: target[1],
			Active:  true,
		})
	}
	return nil
}

// spawnUnit creates a unit entity from its saved state.
func (g *Game) spawnUnit(s telemetry.UnitState) ecs.Entity {
	z, _ := g.grid.HeightAt(geom.V2(s.X, s.Y))
	e := g.unitMapper.NewEntity(
		&components.Position{X: s.X, Y: s.Y, Z: z},
		&components.MoveSpeed{Speed: s.Speed},
		&components.LineOfSight{Radius: s.LOS},
		&components.Target{X: s.TargetX, Y: s.TargetY, Active: s.Active},
		&components.Path{},
		&components.Unit{ID: s.ID},
	)
	g.nextUnitID = max(g.nextUnitID, s.ID+1)
	return e
}

// randomInDisc draws a uniform point within radius of center.
func (g *Game) randomInDisc(center geom.Vec2, radius float64) geom.Vec2 {
	angle := g.rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(g.rng.Float64())
	return center.Add(geom.V2(r*math.Cos(angle), r*math.Sin(angle)))
}

// pickTarget draws a new goal for a unit at from. Goals stay within one
// chunk so they land in terrain the unit's neighborhood keeps generated.
func (g *Game) pickTarget(from geom.Vec2) geom.Vec2 {
	roam := math.Min(2*g.cfg.Sim.SpawnRadius, g.cfg.World.ChunkSize)
	return g.randomInDisc(from, roam)
}

// neighborhood appends one position per chunk of the 3x3 block around p.
func (g *Game) neighborhood(dst []geom.Vec2, p geom.Vec2) []geom.Vec2 {
	cs := g.cfg.World.ChunkSize
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			dst = append(dst, p.Add(geom.V2(float64(dx)*cs, float64(dy)*cs)))
		}
	}
	return dst
}

// ClearTerrain drops every chunk, all explored state and every planned
// route. Units keep their positions and targets; terrain regenerates
// around them on the next step.
func (g *Game) ClearTerrain() {
	g.grid.Clear()
	g.painter.BeginTick()
	g.window = terrain.Window{}
	g.hudVis = nil
	if g.terrainRenderer != nil {
		g.terrainRenderer.Reset()
	}

	query := g.unitFilter.Query()
	for query.Next() {
		_, _, path, unit := query.Get()
		path.Reset()
		unit.Blocked = 0
	}
}

// RetargetAll gives every unit a fresh goal.
func (g *Game) RetargetAll() {
	query := g.unitFilter.Query()
	for query.Next() {
		pos, target, path, _ := query.Get()
		t := g.pickTarget(pos.Vec())
		target.X, target.Y, target.Active = t[0], t[1], true
		path.Reset()
	}
}

// SetGroupTarget sends every unit toward p.
func (g *Game) SetGroupTarget(p geom.Vec2) {
	query := g.unitFilter.Query()
	for query.Next() {
		_, target, path, _ := query.Get()
		target.X, target.Y, target.Active = p[0], p[1], true
		path.Reset()
	}
}

// Focus returns the point the window and camera line of sight follow.
func (g *Game) Focus() geom.Vec2 { return g.camera.Pos }

// SetFocus moves the camera to p.
func (g *Game) SetFocus(p geom.Vec2) { g.camera.Pos = p }

// SetFollowing makes the focus track the unit centroid.
func (g *Game) SetFollowing(on bool) { g.following = on }

// SetLOSRadius sets the camera line-of-sight radius. Negative values clamp
// to zero.
func (g *Game) SetLOSRadius(r float64) { g.losRadius = math.Max(r, 0) }

// LOSRadius returns the camera line-of-sight radius.
func (g *Game) LOSRadius() float64 { return g.losRadius }

// Grid exposes the terrain grid.
func (g *Game) Grid() *terrain.Grid { return g.grid }

// Window returns the 3x3 window snapshotted by the last step.
func (g *Game) Window() terrain.Window { return g.window }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Units returns the number of units.
func (g *Game) Units() int {
	n := 0
	query := g.unitFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Unload releases graphics resources and closes output files.
func (g *Game) Unload() {
	if g.terrainRenderer != nil {
		g.terrainRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
