// Package inspector renders the selected unit's components and the tile
// under the cursor, driven by `inspect` struct tags.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/terrain"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// TileReport is the inspectable view of a terrain tile.
type TileReport struct {
	Chunk      string  `inspect:"label"`
	Tile       int     `inspect:"label"`
	Biome      string  `inspect:"label"`
	Band       int     `inspect:"label"`
	Visibility string  `inspect:"label"`
	Height     float64 `inspect:"label,fmt:%.2f"`
	Navigable  bool    `inspect:"bool"`
}

// NewTileReport describes t for display.
func NewTileReport(t terrain.Tile, materialsPerBiome int) TileReport {
	return TileReport{
		Chunk:      t.Coord.String(),
		Tile:       t.Index,
		Biome:      biome.Label(int(t.Material) / materialsPerBiome).String(),
		Band:       int(t.Material) % materialsPerBiome,
		Visibility: VisibilityName(t.Visibility),
		Height:     t.Height,
		Navigable:  t.Navigable,
	}
}

// VisibilityName returns a display name for a visibility byte.
func VisibilityName(v uint8) string {
	switch v {
	case terrain.Unseen:
		return "unseen"
	case terrain.Settled:
		return "settled"
	case terrain.Fresh:
		return "fresh"
	default:
		return fmt.Sprintf("invalid(%d)", v)
	}
}

// Inspector manages unit selection and panel rendering.
type Inspector struct {
	world       *ecs.World
	selected    ecs.Entity
	hasSelected bool

	panelX, panelY int32
	screenWidth    int32
	screenHeight   int32

	units  ecs.Filter2[components.Position, components.Unit]
	posMap *ecs.Map1[components.Position]
	unit   *ecs.Map1[components.Unit]
	speed  *ecs.Map1[components.MoveSpeed]
	los    *ecs.Map1[components.LineOfSight]
	target *ecs.Map1[components.Target]
	path   *ecs.Map1[components.Path]
}

// NewInspector creates a new inspector over the units of w.
func NewInspector(w *ecs.World, screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{
		world:  w,
		units:  *ecs.NewFilter2[components.Position, components.Unit](w),
		posMap: ecs.NewMap1[components.Position](w),
		unit:   ecs.NewMap1[components.Unit](w),
		speed:  ecs.NewMap1[components.MoveSpeed](w),
		los:    ecs.NewMap1[components.LineOfSight](w),
		target: ecs.NewMap1[components.Target](w),
		path:   ecs.NewMap1[components.Path](w),
	}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize repositions the panel for a new screen size.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Pick selects the unit nearest to p within radius world units and reports
// whether one was found. A miss leaves the current selection untouched.
func (ins *Inspector) Pick(p geom.Vec2, radius float64) bool {
	var closest ecs.Entity
	best := radius * radius
	found := false

	query := ins.units.Query()
	for query.Next() {
		pos, _ := query.Get()
		if d := geom.DistSq(pos.Vec(), p); d <= best {
			closest = query.Entity()
			best = d
			found = true
		}
	}

	if found {
		ins.selected = closest
		ins.hasSelected = true
	}
	return found
}

// Select selects e directly.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity, dropping selections whose
// entity has been removed.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	if ins.hasSelected && !ins.world.Alive(ins.selected) {
		ins.hasSelected = false
	}
	return ins.selected, ins.hasSelected
}

// Contains reports whether the screen point is over the open panel.
func (ins *Inspector) Contains(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
		int32(mouseY) >= ins.panelY && int32(mouseY) <= ins.panelY+ins.panelHeight()
}

// HandleClose deselects when the close button is clicked and reports
// whether the click was consumed.
func (ins *Inspector) HandleClose(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
		int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
		ins.Deselect()
		return true
	}
	return false
}

// components returns the selected unit's components in display order.
func (ins *Inspector) components() []any {
	e := ins.selected
	return []any{
		ins.unit.Get(e),
		ins.posMap.Get(e),
		ins.speed.Get(e),
		ins.los.Get(e),
		ins.target.Get(e),
		ins.path.Get(e),
	}
}

func (ins *Inspector) panelHeight() int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, c := range ins.components() {
		h += 20 + fieldsHeight(ExtractFields(c)) + 4
	}
	return h + PanelPadding
}

// Draw renders the unit panel if a unit is selected.
func (ins *Inspector) Draw() {
	if _, ok := ins.Selected(); !ok {
		return
	}

	height := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("UNIT", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	names := []string{"UNIT", "POSITION", "SPEED", "SIGHT", "TARGET", "PATH"}
	for i, c := range ins.components() {
		ins.drawSectionHeader(x, y, names[i])
		y += 20
		for _, f := range ExtractFields(c) {
			y += DrawField(x, y, f)
		}
		y += 4
	}
}

// DrawTile renders a compact tile readout in the bottom-right corner.
func (ins *Inspector) DrawTile(report TileReport) {
	fields := ExtractFields(report)
	height := fieldsHeight(fields) + 2*PanelPadding + 20
	x := ins.screenWidth - PanelWidth - 10
	y := ins.screenHeight - height - 10

	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, height, ColorPanelBorder)
	y += PanelPadding
	ins.drawSectionHeader(x+PanelPadding, y, "TILE")
	y += 20
	for _, f := range fields {
		y += DrawField(x+PanelPadding, y, f)
	}
}

// DrawSelectionHighlight circles the selected unit and draws its route.
// toScreen maps world positions to screen pixels; zoom is pixels per unit.
func (ins *Inspector) DrawSelectionHighlight(toScreen func(geom.Vec2) (float32, float32), zoom float64) {
	e, ok := ins.Selected()
	if !ok {
		return
	}
	pos := ins.posMap.Get(e)
	if pos == nil {
		return
	}

	sx, sy := toScreen(pos.Vec())
	rl.DrawCircleLines(int32(sx), int32(sy), 10, rl.Yellow)

	if los := ins.los.Get(e); los != nil {
		rl.DrawCircleLines(int32(sx), int32(sy), float32(los.Radius*zoom), rl.Color{R: 255, G: 255, B: 180, A: 90})
	}

	path := ins.path.Get(e)
	if path == nil {
		return
	}
	px, py := sx, sy
	for i := path.Index; i < len(path.Waypoints); i++ {
		wx, wy := toScreen(path.Waypoints[i])
		rl.DrawLineEx(rl.Vector2{X: px, Y: py}, rl.Vector2{X: wx, Y: wy}, 2, rl.Color{R: 255, G: 220, B: 90, A: 200})
		px, py = wx, wy
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}
