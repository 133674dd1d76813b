package terrain

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"math"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/noise"
)

// Grid is the sparse map of generated chunks. It is not safe for
// concurrent mutation; GenerateBatch is the only parallel entry point.
type Grid struct {
	params Params
	chunks map[ChunkCoord]*Chunk
	gen    *Generator
}

// NewGrid validates params and creates an empty grid.
func NewGrid(p Params, biomes biome.Index, sampler noise.Sampler) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if biomes == nil || len(biomes.Points()) == 0 {
		return nil, fmt.Errorf("%w: biome index has no points", config.ErrInvalidConfig)
	}
	return &Grid{
		params: p,
		chunks: make(map[ChunkCoord]*Chunk),
		gen:    NewGenerator(p, biomes, sampler),
	}, nil
}

// NewGridFromConfig scatters biome points and builds the index and noise
// sampler named by cfg.
func NewGridFromConfig(cfg *config.Config) (*Grid, error) {
	points := biome.Scatter(biome.ScatterConfig{
		WorldSize: cfg.Biome.WorldSize,
		StartArea: cfg.Biome.StartArea,
		Points:    cfg.Biome.Points,
	}, uint64(cfg.World.Seed))
	idx := biome.NewIndex(cfg.Biome.Index, points, biome.Weighting{
		Scale:   cfg.Biome.WeightScale,
		Epsilon: cfg.Biome.WeightEpsilon,
	})
	return NewGrid(ParamsFromConfig(cfg), idx, noise.New(cfg.Noise.Kind))
}

// Params returns the grid's layout.
func (g *Grid) Params() Params { return g.params }

// Biomes returns the biome index chunks are generated from.
func (g *Grid) Biomes() biome.Index { return g.gen.biomes }

// CoordOf returns the coordinate of the chunk containing pos.
func (g *Grid) CoordOf(pos geom.Vec2) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(pos[0] / g.params.ChunkSize)),
		Y: int(math.Floor(pos[1] / g.params.ChunkSize)),
	}
}

// OriginOf returns the min corner of the chunk containing pos.
// OriginOf(OriginOf(p)) == OriginOf(p).
func (g *Grid) OriginOf(pos geom.Vec2) geom.Vec2 {
	return g.CoordOf(pos).Origin(g.params.ChunkSize)
}

// CreateChunk returns the chunk containing pos, generating it if needed.
// The second result is true when the chunk was generated by this call.
func (g *Grid) CreateChunk(pos geom.Vec2) (*Chunk, bool) {
	coord := g.CoordOf(pos)
	if c, ok := g.chunks[coord]; ok {
		return c, false
	}
	c := g.gen.Generate(coord)
	g.chunks[coord] = c
	slog.Debug("chunk generated", "chunk", coord)
	return c, true
}

// Chunk returns the chunk containing pos, if it has been generated.
func (g *Grid) Chunk(pos geom.Vec2) (*Chunk, bool) {
	c, ok := g.chunks[g.CoordOf(pos)]
	return c, ok
}

// ChunkAt returns the chunk at coord, if it has been generated.
func (g *Grid) ChunkAt(coord ChunkCoord) (*Chunk, bool) {
	c, ok := g.chunks[coord]
	return c, ok
}

// TileIndexOf returns the flattened index j*T + i of the tile containing
// pos within its chunk. The result is always in [0, T^2).
func (g *Grid) TileIndexOf(pos geom.Vec2) int {
	i, j := g.tileOf(pos)
	return j*g.params.TilesPerSide + i
}

func (g *Grid) tileOf(pos geom.Vec2) (int, int) {
	w := g.params.TileWidth()
	return g.localTile(floorMod(pos[0], g.params.ChunkSize), w),
		g.localTile(floorMod(pos[1], g.params.ChunkSize), w)
}

func (g *Grid) localTile(local, w float64) int {
	i := int(local / w)
	// floorMod can return exactly ChunkSize after rounding.
	return max(0, min(i, g.params.TilesPerSide-1))
}

// floorMod is x mod m with the sign of m, as GLSL mod.
func floorMod(x, m float64) float64 {
	return x - m*math.Floor(x/m)
}

// TileCenter returns the world position of a tile's center.
func (g *Grid) TileCenter(coord ChunkCoord, idx int) geom.Vec2 {
	t := g.params.TilesPerSide
	w := g.params.TileWidth()
	i, j := idx%t, idx/t
	return geom.V2(
		(float64(coord.X*t+i)+0.5)*w,
		(float64(coord.Y*t+j)+0.5)*w,
	)
}

// Window snapshots the 3x3 block of chunks centered on the chunk
// containing focus. Ungenerated chunks leave nil slots.
func (g *Grid) Window(focus geom.Vec2) Window {
	center := g.CoordOf(focus)
	win := Window{Center: center, tiles: g.params.TilesPerSide}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			win.Chunks[Slot(dx, dy)] = g.chunks[center.Offset(dx, dy)]
		}
	}
	return win
}

// EnsureWindow generates any missing chunk of the 3x3 block around focus
// and returns how many were created.
func (g *Grid) EnsureWindow(focus geom.Vec2) int {
	center := g.CoordOf(focus)
	created := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			coord := center.Offset(dx, dy)
			if _, ok := g.chunks[coord]; ok {
				continue
			}
			g.chunks[coord] = g.gen.Generate(coord)
			created++
		}
	}
	if created > 0 {
		slog.Debug("window generated", "center", center, "created", created)
	}
	return created
}

// Clear drops every chunk.
func (g *Grid) Clear() {
	n := len(g.chunks)
	clear(g.chunks)
	slog.Info("terrain cleared", "chunks", n)
}

// Len returns the number of generated chunks.
func (g *Grid) Len() int { return len(g.chunks) }

// Chunks iterates generated chunks in no particular order.
func (g *Grid) Chunks() iter.Seq2[ChunkCoord, *Chunk] {
	return maps.All(g.chunks)
}

// HeightAt returns the bilinearly interpolated terrain height at pos, or
// false when the chunk has not been generated.
func (g *Grid) HeightAt(pos geom.Vec2) (float64, bool) {
	c, ok := g.Chunk(pos)
	if !ok {
		return 0, false
	}
	t := g.params.TilesPerSide
	w := g.params.TileWidth()
	lx := (pos[0] - c.Origin[0]) / w
	ly := (pos[1] - c.Origin[1]) / w
	i := max(0, min(int(lx), t-1))
	j := max(0, min(int(ly), t-1))
	fx := math.Max(0, math.Min(lx-float64(i), 1))
	fy := math.Max(0, math.Min(ly-float64(j), 1))

	m := t + 1
	h00 := c.Heights[j*m+i]
	h10 := c.Heights[j*m+i+1]
	h01 := c.Heights[(j+1)*m+i]
	h11 := c.Heights[(j+1)*m+i+1]
	top := h00 + (h10-h00)*fx
	bot := h01 + (h11-h01)*fx
	return top + (bot-top)*fy, true
}

// Navigable reports whether the tile at pos can be walked on. Ungenerated
// terrain is never navigable.
func (g *Grid) Navigable(pos geom.Vec2) bool {
	if !geom.Finite(pos) {
		return false
	}
	c, ok := g.Chunk(pos)
	if !ok {
		return false
	}
	return c.Navigable[g.TileIndexOf(pos)]
}

// Tile describes the tile under a world position.
type Tile struct {
	Coord      ChunkCoord
	Index      int
	Material   uint8
	Visibility uint8
	Navigable  bool
	Height     float64
}

// TileAt looks up the tile containing pos, or false when its chunk has not
// been generated.
func (g *Grid) TileAt(pos geom.Vec2) (Tile, bool) {
	if !geom.Finite(pos) {
		return Tile{}, false
	}
	c, ok := g.Chunk(pos)
	if !ok {
		return Tile{}, false
	}
	idx := g.TileIndexOf(pos)
	h, _ := g.HeightAt(pos)
	return Tile{
		Coord:      c.Coord,
		Index:      idx,
		Material:   c.Materials[idx],
		Visibility: c.Visibility[idx],
		Navigable:  c.Navigable[idx],
		Height:     h,
	}, true
}
