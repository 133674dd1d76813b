package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggles and the simulation controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// ControlState is the simulation state the panel edits in place.
type ControlState struct {
	LOSRadius      float32
	MaxLOSRadius   float32
	StepsPerUpdate int
	Paused         bool
	Following      bool
}

// ControlActions reports one-shot buttons pressed this frame.
type ControlActions struct {
	ClearTerrain bool
	SaveSnapshot bool
	Retarget     bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether the screen point is over the visible panel.
func (c *ControlsPanel) Contains(mx, my float32, height int32) bool {
	return c.visible &&
		int32(mx) >= c.x && int32(mx) <= c.x+c.width &&
		int32(my) >= c.y && int32(my) <= c.y+height
}

// Height returns the panel height for the given overlays.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(len(overlays.All()) + len(overlays.Categories()))
	return rows*t.LineHeight + t.Padding*3 + t.LineHeight + 4*int32(len(overlays.Categories())) + controlsHeight
}

const controlsHeight = 8 + 24 + 8 + 3*36

// Draw renders the panel and returns the buttons pressed this frame.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, state *ControlState) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	y += 8
	fx := float32(c.x + padding)
	fw := float32(c.width - padding*2)
	state.LOSRadius = gui.SliderBar(
		rl.Rectangle{X: fx + 40, Y: float32(y), Width: fw - 90, Height: 20},
		"LOS",
		fmt.Sprintf("%.1f", state.LOSRadius),
		state.LOSRadius, 0, state.MaxLOSRadius,
	)
	y += 24 + 8

	half := (fw - 8) / 2
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: half, Height: 28}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: fx + half + 8, Y: float32(y), Width: half, Height: 28}, toggleText(state.Following, "Free Camera", "Follow Units")) {
		state.Following = !state.Following
	}
	y += 36
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: half, Height: 28}, "Clear Terrain") {
		actions.ClearTerrain = true
	}
	if gui.Button(rl.Rectangle{X: fx + half + 8, Y: float32(y), Width: half, Height: 28}, "Save Snapshot") {
		actions.SaveSnapshot = true
	}
	y += 36
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: half, Height: 28}, "Retarget Units") {
		actions.Retarget = true
	}
	steps := gui.SliderBar(
		rl.Rectangle{X: fx + half + 48, Y: float32(y + 4), Width: half - 80, Height: 20},
		"Speed",
		fmt.Sprintf("%dx", state.StepsPerUpdate),
		float32(state.StepsPerUpdate), 1, 16,
	)
	state.StepsPerUpdate = max(1, int(steps+0.5))

	return actions
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if label := desc.KeyLabel(); label != "" {
		keyText := fmt.Sprintf("[%s]", label)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "terrain":
		return "Terrain"
	case "units":
		return "Units"
	default:
		return cat
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
