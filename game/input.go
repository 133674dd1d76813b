package game

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/geom"
)

const (
	maxStepsPerUpdate = 16
	losStep           = 1.0
	pickPixels        = 10.0
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	// LOS radius with [ and ]
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.SetLOSRadius(g.losRadius - losStep)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.SetLOSRadius(g.losRadius + losStep)
	}

	if rl.IsKeyPressed(rl.KeyF) {
		g.following = !g.following
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.ClearTerrain()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.RetargetAll()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if _, err := g.SaveSnapshot(); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()
	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
}

// handleCameraInput processes camera pan/zoom controls. Panning by hand
// stops following the units.
func (g *Game) handleCameraInput() {
	// Pan speed in screen pixels per frame
	const panSpeed = float32(8.0)

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyRight) {
		dx += panSpeed
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += panSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= panSpeed
	}
	if dx != 0 || dy != 0 {
		g.following = false
		g.camera.Pan(dx, dy)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyDown(rl.KeyEqual) || rl.IsKeyDown(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.02)
	}
	if rl.IsKeyDown(rl.KeyMinus) || rl.IsKeyDown(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1 / 1.02)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouse selects units with the left button and sets targets with
// the right button. Clicks over panels are left to the panels.
func (g *Game) handleMouse() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		g.inspector.Deselect()
	}

	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse.X, mouse.Y, g.controls.Height(g.overlays)) {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if g.inspector.HandleClose(mouse.X, mouse.Y) || g.inspector.Contains(mouse.X, mouse.Y) {
			return
		}
		p := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		if !g.inspector.Pick(p, pickPixels/g.camera.Zoom) {
			g.inspector.Deselect()
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		p := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		if e, ok := g.inspector.Selected(); ok {
			g.setUnitTarget(e, p)
		} else {
			g.SetGroupTarget(p)
		}
	}
}

// setUnitTarget sends one unit toward p.
func (g *Game) setUnitTarget(e ecs.Entity, p geom.Vec2) {
	if !g.world.Alive(e) || math.IsNaN(p[0]) || math.IsNaN(p[1]) {
		return
	}
	_, _, _, target, path, _ := g.unitMapper.Get(e)
	target.X, target.Y, target.Active = p[0], p[1], true
	path.Reset()
}
