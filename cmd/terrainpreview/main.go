// Terrain preview tool - regenerates the 3x3 chunks around the origin as
// synthesis sliders move.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/renderer"
	"github.com/pthm-cable/fogland/terrain"
)

const (
	windowWidth  = 1040
	windowHeight = 720
	previewSize  = 576
	panelWidth   = windowWidth - previewSize - 30
)

var colorSteep = color.RGBA{R: 220, G: 40, B: 40, A: 255}

// preview holds the generated window and its summary.
type preview struct {
	pixels    []color.RGBA
	steep     []bool
	side      int
	navigable float64
	minHeight float64
	maxHeight float64
}

// exportYAML is the subset of the config the sliders change.
type exportYAML struct {
	World struct {
		Seed uint32 `yaml:"seed"`
	} `yaml:"world"`
	Height     config.HeightConfig     `yaml:"height"`
	Material   config.MaterialConfig   `yaml:"material"`
	Navigation config.NavigationConfig `yaml:"navigation"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := *base

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	side := 3 * cfg.World.TilesPerSide
	img := rl.GenImageColor(side, side, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var pv preview
	showSteep := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			next, err := generate(&cfg)
			if err != nil {
				slog.Warn("preview rejected", "error", err)
				cfg = *base
				continue
			}
			pv = next
			rl.UpdateTexture(texture, pv.pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(pv.side), Height: float32(pv.side)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		if showSteep {
			drawSteep(&pv)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Navigable: %.1f%%  Height: %.2f .. %.2f", pv.navigable*100, pv.minHeight, pv.maxHeight),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Seed: %d  Tiles per side: %d", cfg.World.Seed, cfg.World.TilesPerSide), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		f := func(label string, v *float64, lo, hi float64, format string) {
			if slider(panelX, &panelY, label, v, lo, hi, format) {
				needsRegen = true
			}
		}
		f("Height noise scale (amplitude)", &cfg.Height.NoiseScale, 1, 40, "%.1f")
		f("Height perlin scale (frequency)", &cfg.Height.PerlinScale, 0.001, 0.03, "%.4f")
		f("Material perlin scale", &cfg.Material.PerlinScale, 0.001, 0.05, "%.4f")
		f("Material noise scale", &cfg.Material.NoiseScale, 1, 40, "%.1f")
		f("Material height bias", &cfg.Material.HeightBias, 0, 1, "%.2f")
		f("Max slope (degrees)", &cfg.Navigation.MaxSlopeDeg, 10, 80, "%.0f")

		seed := float64(cfg.World.Seed)
		if slider(panelX, &panelY, "Seed", &seed, 0, 99999, "%.0f") {
			cfg.World.Seed = uint32(seed)
			needsRegen = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(cfg.Height.Square, "Squared", "Linear")) {
			cfg.Height.Square = !cfg.Height.Square
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showSteep, "Hide Steep", "Show Steep")) {
			showSteep = !showSteep
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			cfg.World.Seed = uint32(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cfg = *base
			needsRegen = true
		}
		panelY += 50

		out, err := exportConfig(&cfg)
		if err != nil {
			out = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(out, int32(panelX), int32(panelY), 12, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider for v and advances y. It reports whether
// v changed.
func slider(x float32, y *float32, label string, v *float64, lo, hi float64, format string) bool {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(*v), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(next) == float64(float32(*v)) {
		return false
	}
	*v = float64(next)
	return true
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generate builds a fresh grid from cfg and rasterizes the 3x3 chunks
// around the origin, one pixel per tile, fully lit.
func generate(cfg *config.Config) (preview, error) {
	if err := cfg.Finalize(); err != nil {
		return preview{}, err
	}
	grid, err := terrain.NewGridFromConfig(cfg)
	if err != nil {
		return preview{}, err
	}
	grid.EnsureWindow(geom.V2(0, 0))
	win := grid.Window(geom.V2(0, 0))

	t := cfg.World.TilesPerSide
	side := 3 * t
	mpb := cfg.Biome.MaterialsPerBiome
	pv := preview{
		pixels:    make([]color.RGBA, side*side),
		steep:     make([]bool, side*side),
		side:      side,
		minHeight: math.Inf(1),
		maxHeight: math.Inf(-1),
	}
	var navigable int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := win.Chunks[terrain.Slot(dx, dy)]
			if c == nil {
				continue
			}
			shades := renderer.TileShades(c.Mesh)
			for j := 0; j < t; j++ {
				for i := 0; i < t; i++ {
					idx := j*t + i
					px := (dx+1)*t + i
					py := (dy+1)*t + j
					pv.pixels[py*side+px] = renderer.TileColor(c.Materials[idx], terrain.Fresh, shades[idx], mpb)
					if c.Navigable[idx] {
						navigable++
					} else {
						pv.steep[py*side+px] = true
					}
				}
			}
			for _, h := range c.Heights {
				pv.minHeight = math.Min(pv.minHeight, h)
				pv.maxHeight = math.Max(pv.maxHeight, h)
			}
		}
	}
	pv.navigable = float64(navigable) / float64(side*side)
	return pv, nil
}

// drawSteep shades the preview tiles that are not navigable.
func drawSteep(pv *preview) {
	if pv.side == 0 {
		return
	}
	px := float32(previewSize) / float32(pv.side)
	tint := rl.Color{R: colorSteep.R, G: colorSteep.G, B: colorSteep.B, A: 110}
	for k, steep := range pv.steep {
		if !steep {
			continue
		}
		x := 10 + float32(k%pv.side)*px
		y := 10 + float32(k/pv.side)*px
		rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: px, Y: px}, tint)
	}
}

// exportConfig renders the slider-controlled subset of cfg as YAML.
func exportConfig(cfg *config.Config) (string, error) {
	var out exportYAML
	out.World.Seed = cfg.World.Seed
	out.Height = cfg.Height
	out.Material = cfg.Material
	out.Navigation = cfg.Navigation
	data, err := yaml.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
