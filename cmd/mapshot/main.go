// Map snapshot tool - renders the explored 3x3 window of a run to a PNG.
//
// Usage: go run ./cmd/mapshot -restore snapshots/snapshot_000600.json -out map.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fogland/camera"
	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/game"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/renderer"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	restore := flag.String("restore", "", "Snapshot to render (empty = fresh world)")
	seed := flag.Int64("seed", 0, "World seed for a fresh world (0 = use config)")
	ticks := flag.Int("ticks", 0, "Ticks to simulate before rendering")
	outPath := flag.String("out", "map.png", "Output PNG path")
	size := flag.Int("size", 768, "Image side in pixels")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	g, err := game.NewGame(ctx, game.Options{
		Seed:           *seed,
		Headless:       true,
		StepsPerUpdate: 1,
		RestorePath:    *restore,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	// A fresh world has no window until its first step
	if *restore == "" && *ticks < 1 {
		*ticks = 1
	}
	start := g.Tick()
	for int(g.Tick()-start) < *ticks {
		if err := g.UpdateHeadless(ctx); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
	}

	win := g.Window()
	if win.Present() == 0 {
		slog.Error("nothing to render: the window around the focus is empty")
		os.Exit(1)
	}
	params := g.Grid().Params()

	// Hidden window: raylib needs a GL context for render textures
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*size), int32(*size), "Map Snapshot")
	defer rl.CloseWindow()

	tr := renderer.NewTerrainRenderer(params)
	defer tr.Unload()

	cam := camera.New(float32(*size), float32(*size))
	cam.Pos = win.Center.Origin(params.ChunkSize).Add(geom.V2(params.ChunkSize/2, params.ChunkSize/2))
	cam.MinZoom = 0
	cam.SetZoom(float64(*size) / (3 * params.ChunkSize))

	target := rl.LoadRenderTexture(int32(*size), int32(*size))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	tr.Draw(win, cam)
	rl.EndTextureMode()

	// OpenGL render textures are bottom-up
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Tick %d rendered to: %s (%dx%d, %d chunks)\n", g.Tick(), *outPath, *size, *size, win.Present())
}
