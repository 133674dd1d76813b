// Package terrain generates an unbounded, chunked terrain surface and keeps
// the per-tile visibility state painted by line-of-sight queries.
//
// Chunks are created on demand by a Grid, filled by a Generator from
// coherent noise and a biome index, and painted by a Painter every tick.
// Nothing here touches the GPU: meshes and uniforms are handed to a
// Renderer supplied by the caller.
package terrain

import (
	"fmt"
	"math"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/config"
)

// Params fixes the chunk layout and synthesis parameters of a grid.
type Params struct {
	ChunkSize         float64
	TilesPerSide      int
	Seed              uint32
	MaterialsPerBiome int
	MinNormalZ        float64 // tiles whose mean normal Z falls below this are not navigable

	Height   HeightParams
	Material MaterialParams
}

// HeightParams controls corner height synthesis.
type HeightParams struct {
	NoiseScale  float64
	PerlinScale float64
	Octaves     int
	Square      bool
}

// MaterialParams controls the per-tile material noise.
type MaterialParams struct {
	Seed        uint32
	Octaves     int
	PerlinScale float64
	NoiseScale  float64
	HeightBias  float64
}

// ParamsFromConfig extracts grid parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		ChunkSize:         cfg.World.ChunkSize,
		TilesPerSide:      cfg.World.TilesPerSide,
		Seed:              cfg.World.Seed,
		MaterialsPerBiome: cfg.Biome.MaterialsPerBiome,
		MinNormalZ:        cfg.Derived.MinNormalZ,
		Height: HeightParams{
			NoiseScale:  cfg.Height.NoiseScale,
			PerlinScale: cfg.Height.PerlinScale,
			Octaves:     cfg.Height.Octaves,
			Square:      cfg.Height.Square,
		},
		Material: MaterialParams{
			Seed:        cfg.Material.Seed,
			Octaves:     cfg.Material.Octaves,
			PerlinScale: cfg.Material.PerlinScale,
			NoiseScale:  cfg.Material.NoiseScale,
			HeightBias:  cfg.Material.HeightBias,
		},
	}
}

// Validate reports parameters that would break tile addressing or
// overflow the material byte.
func (p Params) Validate() error {
	if !(p.ChunkSize > 0) || math.IsInf(p.ChunkSize, 0) {
		return fmt.Errorf("%w: chunk size must be positive and finite, got %v", config.ErrInvalidConfig, p.ChunkSize)
	}
	if p.TilesPerSide <= 0 || p.TilesPerSide > 1024 {
		return fmt.Errorf("%w: tiles per side must be in [1, 1024], got %d", config.ErrInvalidConfig, p.TilesPerSide)
	}
	if p.MaterialsPerBiome < config.MaterialBands {
		return fmt.Errorf("%w: materials per biome must be at least %d, got %d",
			config.ErrInvalidConfig, config.MaterialBands, p.MaterialsPerBiome)
	}
	if p.MaterialsPerBiome*biome.NumLabels > 256 {
		return fmt.Errorf("%w: %d biomes x %d materials does not fit a byte",
			config.ErrInvalidConfig, biome.NumLabels, p.MaterialsPerBiome)
	}
	return nil
}

// TileWidth is the world-space side length of one tile.
func (p Params) TileWidth() float64 {
	return p.ChunkSize / float64(p.TilesPerSide)
}

// TilesPerArea is the number of tiles in one chunk.
func (p Params) TilesPerArea() int {
	return p.TilesPerSide * p.TilesPerSide
}
