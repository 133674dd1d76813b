package terrain

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/noise"
)

var (
	axisX = geom.Vec3{1, 0, 0}
	axisY = geom.Vec3{0, 1, 0}
	axisZ = geom.Vec3{0, 0, 1}
)

// Generator builds chunks. It holds no mutable state, so one Generator can
// serve many goroutines as long as the biome index and sampler are
// read-only.
type Generator struct {
	params Params
	biomes biome.Index
	noise  noise.Sampler
}

// NewGenerator creates a generator. Params are assumed to be validated.
func NewGenerator(p Params, biomes biome.Index, sampler noise.Sampler) *Generator {
	return &Generator{params: p, biomes: biomes, noise: sampler}
}

// Generate builds the chunk at coord. The result depends only on the
// params, the biome points, the sampler and coord.
func (g *Generator) Generate(coord ChunkCoord) *Chunk {
	t := g.params.TilesPerSide
	w := g.params.TileWidth()

	c := &Chunk{
		Coord:      coord,
		Origin:     coord.Origin(g.params.ChunkSize),
		Materials:  make([]uint8, t*t),
		Visibility: make([]uint8, t*t),
		Navigable:  make([]bool, t*t),
		tiles:      t,
	}

	halo := g.haloHeights(coord)
	c.Heights = cropLattice(halo, t)
	c.Normals = g.latticeNormals(halo, t, w)
	g.fillTiles(c, w)
	c.Mesh = g.buildMesh(c, w)
	return c
}

// height returns the terrain height at a world position.
func (g *Generator) height(x, y float64) float64 {
	hp := g.params.Height
	s := g.noise.Sample(x*hp.PerlinScale, y*hp.PerlinScale, g.params.Seed, hp.Octaves)
	if hp.Square {
		s *= s
	}
	return hp.NoiseScale * s
}

// latticeWorld maps a global corner index to world space. Using the global
// index keeps shared corners bit-identical between neighbouring chunks.
func (g *Generator) latticeWorld(n int) float64 {
	return float64(n) * g.params.TileWidth()
}

// haloHeights samples the (T+3)^2 corner lattice covering the chunk plus
// one tile on every side, indexed (j+1)*(T+3) + (i+1).
func (g *Generator) haloHeights(coord ChunkCoord) []float64 {
	t := g.params.TilesPerSide
	n := t + 3
	out := make([]float64, n*n)
	baseX, baseY := coord.X*t-1, coord.Y*t-1
	for j := 0; j < n; j++ {
		y := g.latticeWorld(baseY + j)
		for i := 0; i < n; i++ {
			out[j*n+i] = g.height(g.latticeWorld(baseX+i), y)
		}
	}
	return out
}

func cropLattice(halo []float64, t int) []float64 {
	n, m := t+3, t+1
	out := make([]float64, m*m)
	for j := 0; j < m; j++ {
		copy(out[j*m:(j+1)*m], halo[(j+1)*n+1:(j+1)*n+1+m])
	}
	return out
}

// latticeNormals accumulates the two face normals of every tile touching
// each corner, including the halo tiles, then normalizes.
func (g *Generator) latticeNormals(halo []float64, t int, w float64) []geom.Vec3 {
	n, m := t+3, t+1
	acc := make([]geom.Vec3, n*n)
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			h0 := halo[j*n+i]         // (i, j)
			h1 := halo[(j+1)*n+i]     // (i, j+1)
			h2 := halo[(j+1)*n+i+1]   // (i+1, j+1)
			h3 := halo[j*n+i+1]       // (i+1, j)
			e1 := geom.Vec3{0, w, h1 - h0}
			e2 := geom.Vec3{w, w, h2 - h0}
			e3 := geom.Vec3{w, 0, h3 - h0}
			// Corners wind clockwise seen from +Z; swap the operands so
			// faces point up.
			face := e2.Cross(e1).Add(e3.Cross(e2))
			for _, k := range [4]int{j*n + i, (j+1)*n + i, (j+1)*n + i + 1, j*n + i + 1} {
				acc[k] = acc[k].Add(face)
			}
		}
	}

	out := make([]geom.Vec3, m*m)
	for j := 0; j < m; j++ {
		for i := 0; i < m; i++ {
			v := acc[(j+1)*n+i+1]
			if v.Len() == 0 {
				out[j*m+i] = axisZ
				continue
			}
			out[j*m+i] = v.Normalize()
		}
	}
	return out
}

// tangentFrame returns the tangent and bitangent for a unit normal.
func tangentFrame(n geom.Vec3) (geom.Vec3, geom.Vec3) {
	a := n.Cross(axisZ)
	b := n.Cross(axisY)
	t := a
	if b.Len() > a.Len() {
		t = b
	}
	if t.Len() == 0 {
		t = axisX
	} else {
		t = t.Normalize()
	}
	return t, t.Cross(n)
}

// fillTiles assigns materials and navigability. Each tile draws from its
// own RNG stream so the result does not depend on generation order.
func (g *Generator) fillTiles(c *Chunk, w float64) {
	t := c.tiles
	m := t + 1
	mp := g.params.Material
	src := rand.NewPCG(0, 0)
	rng := rand.New(src)
	weights := make([]float64, biome.NumLabels)

	for j := 0; j < t; j++ {
		for i := 0; i < t; i++ {
			idx := j*t + i
			reseed(src, g.params.Seed, c.Coord, idx)

			corners := [4]int{j*m + i, (j+1)*m + i, (j+1)*m + i + 1, j*m + i + 1}
			var meanH, meanNZ float64
			for _, k := range corners {
				meanH += c.Heights[k]
				meanNZ += c.Normals[k][2]
			}
			meanH /= 4
			meanNZ /= 4

			cx := (float64(c.Coord.X*t+i) + 0.5) * w
			cy := (float64(c.Coord.Y*t+j) + 0.5) * w
			v := mp.NoiseScale*g.noise.Sample(cx*mp.PerlinScale, cy*mp.PerlinScale, mp.Seed, mp.Octaves) +
				meanH*mp.HeightBias

			band := materialBand(v, rng)
			label := biome.Draw(g.biomes, geom.V2(cx, cy), rng, weights)
			c.Materials[idx] = band + uint8(label)*uint8(g.params.MaterialsPerBiome)
			c.Navigable[idx] = meanNZ >= g.params.MinNormalZ
		}
	}
}

// materialBand buckets a material noise value into one of seven bands.
// The two outer bands blend with their neighbour by coin flip.
func materialBand(v float64, rng *rand.Rand) uint8 {
	switch {
	case v <= -4.5:
		return uint8(rng.IntN(2))
	case v <= -3.5:
		return 1
	case v <= -2:
		return 2
	case v <= 2:
		return 3
	case v <= 4:
		return 4
	case v <= 6.5:
		return 5
	default:
		return 6 - uint8(rng.IntN(2))
	}
}

// reseed points src at the stream for one tile.
func reseed(src *rand.PCG, seed uint32, c ChunkCoord, idx int) {
	h := mix64(uint64(seed)<<32 | uint64(uint32(int32(c.X))))
	h = mix64(h ^ uint64(uint32(int32(c.Y)))<<32 ^ uint64(idx))
	src.Seed(h, mix64(h))
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// buildMesh lays out four vertices per tile in chunk-local space.
func (g *Generator) buildMesh(c *Chunk, w float64) MeshData {
	t := c.tiles
	m := t + 1
	verts := make([]Vertex, 0, 4*t*t)
	indices := make([]uint32, 0, 6*t*t)
	inv := 1 / float32(t)

	for j := 0; j < t; j++ {
		for i := 0; i < t; i++ {
			base := uint32(len(verts))
			for _, corner := range [4][2]int{{i, j}, {i, j + 1}, {i + 1, j + 1}, {i + 1, j}} {
				ci, cj := corner[0], corner[1]
				k := cj*m + ci
				n := c.Normals[k]
				tan, bit := tangentFrame(n)
				verts = append(verts, Vertex{
					Position:  mgl32.Vec3{float32(float64(ci) * w), float32(float64(cj) * w), float32(c.Heights[k])},
					Normal:    vec32(n),
					Tangent:   vec32(tan),
					Bitangent: vec32(bit),
					Color:     mgl32.Vec4{1, 1, 1, 1},
					UV:        mgl32.Vec2{float32(ci) * inv, float32(cj) * inv},
				})
			}
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
	return MeshData{Vertices: verts, Indices: indices, Primitive: PrimitiveTriangles}
}

func vec32(v geom.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
