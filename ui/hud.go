package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fogland/systems"
	"github.com/pthm-cable/fogland/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	Chunks       int
	Fresh        int
	Settled      int
	Unseen       int
	Units        int
	Blocked      int
	LOSRadius    float64
	Speed        int
	FPS          int32
	Paused       bool
	Following    bool
	CursorX      float64
	CursorY      float64
	ScreenWidth  int32
	ScreenHeight int32
}

// Explored returns the fraction of generated tiles that have been seen.
func (d HUDData) Explored() float32 {
	total := d.Fresh + d.Settled + d.Unseen
	if total == 0 {
		return 0
	}
	return float32(d.Fresh+d.Settled) / float32(total)
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Chunks: %d | Units: %d (%d blocked) | LOS: %.1f", data.Chunks, data.Units, data.Blocked, data.LOSRadius),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Cursor: (%.1f, %.1f)", data.Tick, data.Speed, data.FPS, data.CursorX, data.CursorY),
		10, 55, 16, rl.LightGray,
	)
	h.renderer.DrawFractionBar(10, 77, "Explored", data.Explored(), 260)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Following {
		status += " | following units"
	}
	rl.DrawText(status, 10, 97, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel in registry order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, reg *systems.SystemRegistry) {
	r := p.renderer
	lines := int32(len(reg.All()) + 2)
	r.DrawPanel(p.x, p.y, 260, lines*14+36)

	x := p.x + r.Theme.Padding
	y := p.y + 8

	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %s avg | %.0f tps | %.0f fps", stats.AvgTickDuration, stats.TicksPerSecond, stats.FPS),
		x, y, 12, rl.Yellow,
	)
	y += 16

	for _, info := range reg.All() {
		pct := stats.PhasePct[info.ID]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", info.Name, stats.PhaseAvg[info.ID], pct),
			x, y, 12, color,
		)
		y += 14
	}
}
