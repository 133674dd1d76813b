package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/inspector"
	"github.com/pthm-cable/fogland/renderer"
	"github.com/pthm-cable/fogland/terrain"
	"github.com/pthm-cable/fogland/ui"
)

const controlsLegend = "Space pause | ,/. speed | [/] LOS | F follow | C clear | R retarget | F5 snapshot | Tab panel | F3 perf | LMB select | RMB target"

// hudRefreshTicks is how often the HUD rescans tile visibility.
const hudRefreshTicks = 10

// biomePointsShown bounds the biome point overlay.
const biomePointsShown = 64

var (
	colorUnit        = rl.Color{R: 240, G: 240, B: 240, A: 255}
	colorUnitBlocked = rl.Color{R: 255, G: 140, B: 60, A: 255}
	colorFocus       = rl.Color{R: 120, G: 200, B: 255, A: 160}
	colorSightRing   = rl.Color{R: 255, G: 255, B: 180, A: 70}
	colorPath        = rl.Color{R: 255, G: 220, B: 90, A: 120}
	colorChunkBorder = rl.Color{R: 255, G: 255, B: 255, A: 90}
	colorTileGrid    = rl.Color{R: 255, G: 255, B: 255, A: 30}
	colorSteep       = rl.Color{R: 220, G: 40, B: 40, A: 90}
)

// Draw renders the frame. Must be called from the raylib main loop.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.terrainRenderer.Draw(g.window, g.camera)
	g.drawOverlays()
	g.drawUnits()
	g.inspector.DrawSelectionHighlight(g.camera.WorldToScreen, g.camera.Zoom)

	fx, fy := g.camera.WorldToScreen(g.Focus())
	rl.DrawCircleLines(int32(fx), int32(fy), float32(g.losRadius*g.camera.Zoom), colorFocus)

	g.drawUI()

	rl.EndDrawing()
	g.perf.RecordFrame()
}

// drawUnits draws every unit as a dot, orange while stuck.
func (g *Game) drawUnits() {
	query := g.unitFilter.Query()
	for query.Next() {
		pos, _, _, unit := query.Get()
		sx, sy := g.camera.WorldToScreen(pos.Vec())
		color := colorUnit
		if unit.Blocked > 0 {
			color = colorUnitBlocked
		}
		rl.DrawCircle(int32(sx), int32(sy), 4, color)
	}
}

// drawOverlays draws the enabled debug overlays.
func (g *Game) drawOverlays() {
	if g.overlays.IsEnabled(ui.OverlayNavigability) {
		g.drawNavigability()
	}
	if g.overlays.IsEnabled(ui.OverlayTileGrid) {
		g.drawTileGrid()
	}
	if g.overlays.IsEnabled(ui.OverlayChunkBorders) {
		g.drawChunkBorders()
	}
	if g.overlays.IsEnabled(ui.OverlayBiomePoints) {
		g.drawBiomePoints()
	}
	if g.overlays.IsEnabled(ui.OverlaySightRings) || g.overlays.IsEnabled(ui.OverlayPaths) {
		g.drawUnitOverlays()
	}
}

func (g *Game) drawChunkBorders() {
	size := float32(g.cfg.World.ChunkSize * g.camera.Zoom)
	for _, c := range g.window.Chunks {
		if c == nil {
			continue
		}
		x, y := g.camera.WorldToScreen(c.Origin)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 1, colorChunkBorder)
	}
}

func (g *Game) drawTileGrid() {
	c := g.window.Chunks[terrain.Slot(0, 0)]
	if c == nil {
		return
	}
	t := c.TilesPerSide()
	w := float32(g.grid.Params().TileWidth() * g.camera.Zoom)
	x0, y0 := g.camera.WorldToScreen(c.Origin)
	end := w * float32(t)
	for i := 0; i <= t; i++ {
		off := w * float32(i)
		rl.DrawLineV(rl.Vector2{X: x0 + off, Y: y0}, rl.Vector2{X: x0 + off, Y: y0 + end}, colorTileGrid)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0 + off}, rl.Vector2{X: x0 + end, Y: y0 + off}, colorTileGrid)
	}
}

func (g *Game) drawNavigability() {
	p := g.grid.Params()
	w := float32(p.TileWidth() * g.camera.Zoom)
	for _, c := range g.window.Chunks {
		if c == nil {
			continue
		}
		for idx, ok := range c.Navigable {
			if ok {
				continue
			}
			sx, sy := g.camera.WorldToScreen(g.grid.TileCenter(c.Coord, idx))
			rl.DrawRectangleV(rl.Vector2{X: sx - w/2, Y: sy - w/2}, rl.Vector2{X: w, Y: w}, colorSteep)
		}
	}
}

func (g *Game) drawBiomePoints() {
	mpb := g.cfg.Biome.MaterialsPerBiome
	for _, pt := range g.grid.Biomes().Nearest(g.Focus(), biomePointsShown) {
		sx, sy := g.camera.WorldToScreen(pt.Pos)
		c := renderer.MaterialColor(uint8(int(pt.Label)*mpb), mpb)
		rl.DrawCircle(int32(sx), int32(sy), 5, rl.Color{R: c.R, G: c.G, B: c.B, A: 255})
		rl.DrawCircleLines(int32(sx), int32(sy), 5, rl.White)
	}
}

func (g *Game) drawUnitOverlays() {
	rings := g.overlays.IsEnabled(ui.OverlaySightRings)
	paths := g.overlays.IsEnabled(ui.OverlayPaths)

	query := g.stateFilter.Query()
	for query.Next() {
		pos, _, los, _, _ := query.Get()
		if rings {
			sx, sy := g.camera.WorldToScreen(pos.Vec())
			rl.DrawCircleLines(int32(sx), int32(sy), float32(los.Radius*g.camera.Zoom), colorSightRing)
		}
	}
	if !paths {
		return
	}
	pq := g.unitFilter.Query()
	for pq.Next() {
		pos, _, path, _ := pq.Get()
		g.drawPath(pos, path)
	}
}

func (g *Game) drawPath(pos *components.Position, path *components.Path) {
	px, py := g.camera.WorldToScreen(pos.Vec())
	for i := path.Index; i < len(path.Waypoints); i++ {
		wx, wy := g.camera.WorldToScreen(path.Waypoints[i])
		rl.DrawLineV(rl.Vector2{X: px, Y: py}, rl.Vector2{X: wx, Y: wy}, colorPath)
		px, py = wx, wy
	}
}

// drawUI draws the HUD and panels and applies panel actions.
func (g *Game) drawUI() {
	if g.hudVis == nil || g.tick-g.hudVisTick >= hudRefreshTicks {
		vis := g.grid.VisibilityStats()
		g.hudVis, g.hudVisTick = &vis, g.tick
	}
	vis := *g.hudVis
	s := g.sample()
	mouse := rl.GetMousePosition()
	cursor := g.camera.ScreenToWorld(mouse.X, mouse.Y)

	g.hud.Draw(ui.HUDData{
		Title:        "Fogland",
		Tick:         g.tick,
		Chunks:       g.grid.Len(),
		Fresh:        vis.Fresh,
		Settled:      vis.Settled,
		Unseen:       vis.Unseen,
		Units:        s.Units,
		Blocked:      s.UnitsBlocked,
		LOSRadius:    g.losRadius,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Following:    g.following,
		CursorX:      cursor[0],
		CursorY:      cursor[1],
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	state := ui.ControlState{
		LOSRadius:      float32(g.losRadius),
		MaxLOSRadius:   float32(g.cfg.World.ChunkSize),
		StepsPerUpdate: g.stepsPerUpdate,
		Paused:         g.paused,
		Following:      g.following,
	}
	actions := g.controls.Draw(g.overlays, &state)
	if g.controls.IsVisible() {
		if state.LOSRadius != float32(g.losRadius) {
			g.SetLOSRadius(float64(state.LOSRadius))
		}
		g.stepsPerUpdate = state.StepsPerUpdate
		g.paused = state.Paused
		g.following = state.Following
	}
	g.applyActions(actions)

	if g.showPerf {
		y := int32(125)
		if g.controls.IsVisible() {
			y += g.controls.Height(g.overlays) + 10
		}
		g.perfPanel.SetPosition(10, y)
		g.perfPanel.Draw(g.perf.Stats(), g.registry)
	}

	g.inspector.Draw()
	if tile, ok := g.grid.TileAt(cursor); ok {
		g.inspector.DrawTile(inspector.NewTileReport(tile, g.cfg.Biome.MaterialsPerBiome))
	}
}

func (g *Game) applyActions(a ui.ControlActions) {
	if a.ClearTerrain {
		g.ClearTerrain()
	}
	if a.Retarget {
		g.RetargetAll()
	}
	if a.SaveSnapshot {
		if _, err := g.SaveSnapshot(); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
}
