// Package renderer draws terrain chunks and their fog with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fogland/camera"
	"github.com/pthm-cable/fogland/terrain"
)

// meshEntry is one registered chunk mesh. The texture is created lazily on
// first draw so meshes can be registered before a window exists.
type meshEntry struct {
	shades []float32
	tex    rl.Texture2D
	loaded bool
}

// TerrainRenderer implements terrain.Renderer. Each chunk mesh becomes a
// T x T texture whose pixels combine hillshade, material color and
// visibility from the packed window buffer.
type TerrainRenderer struct {
	tiles             int
	chunkSize         float64
	materialsPerBiome int

	meshes  []meshEntry
	buffers [][]byte

	packBuf terrain.BufferHandle
	scratch []byte
	pixels  []color.RGBA
}

// NewTerrainRenderer creates a renderer for chunks laid out by p.
func NewTerrainRenderer(p terrain.Params) *TerrainRenderer {
	r := &TerrainRenderer{
		tiles:             p.TilesPerSide,
		chunkSize:         p.ChunkSize,
		materialsPerBiome: p.MaterialsPerBiome,
	}
	r.packBuf = r.CreateBuffer(2 * terrain.WindowSlots * p.TilesPerArea())
	return r
}

// CreateMesh registers a chunk mesh. Handles start at 1.
func (r *TerrainRenderer) CreateMesh(m terrain.MeshData) terrain.MeshHandle {
	r.meshes = append(r.meshes, meshEntry{shades: TileShades(m)})
	return terrain.MeshHandle(len(r.meshes))
}

// CreateBuffer allocates a CPU-side buffer. Handles start at 1.
func (r *TerrainRenderer) CreateBuffer(size int) terrain.BufferHandle {
	r.buffers = append(r.buffers, make([]byte, size))
	return terrain.BufferHandle(len(r.buffers))
}

// SetBuffer replaces the contents of a buffer.
func (r *TerrainRenderer) SetBuffer(h terrain.BufferHandle, data []byte) {
	if h == 0 || int(h) > len(r.buffers) {
		return
	}
	r.buffers[h-1] = append(r.buffers[h-1][:0], data...)
}

// Buffer returns the current contents of a buffer.
func (r *TerrainRenderer) Buffer(h terrain.BufferHandle) []byte {
	if h == 0 || int(h) > len(r.buffers) {
		return nil
	}
	return r.buffers[h-1]
}

// Meshes returns the number of registered meshes.
func (r *TerrainRenderer) Meshes() int { return len(r.meshes) }

// ChunkPixels composes the pixels of the chunk in window slot using the
// last packed window upload. dst is reused when large enough.
func (r *TerrainRenderer) ChunkPixels(h terrain.MeshHandle, slot int, dst []color.RGBA) []color.RGBA {
	area := r.tiles * r.tiles
	packed := r.Buffer(r.packBuf)
	if h == 0 || int(h) > len(r.meshes) || len(packed) < 2*terrain.WindowSlots*area {
		return dst[:0]
	}
	if cap(dst) < area {
		dst = make([]color.RGBA, area)
	}
	dst = dst[:area]

	mats := packed[slot*area : (slot+1)*area]
	vis := packed[(terrain.WindowSlots+slot)*area : (terrain.WindowSlots+slot+1)*area]
	shades := r.meshes[h-1].shades
	for i := range dst {
		dst[i] = TileColor(mats[i], vis[i], shades[i], r.materialsPerBiome)
	}
	return dst
}

// Draw uploads the window and draws each present chunk through cam.
// Must be called between rl.BeginDrawing and rl.EndDrawing.
func (r *TerrainRenderer) Draw(w terrain.Window, cam *camera.Camera) {
	var handles [terrain.WindowSlots]terrain.MeshHandle
	handles, r.scratch = w.Sync(r, r.packBuf, r.scratch)

	t := int32(r.tiles)
	src := rl.Rectangle{Width: float32(t), Height: float32(t)}
	size := float32(r.chunkSize * cam.Zoom)

	for s, c := range w.Chunks {
		if c == nil {
			continue
		}
		e := &r.meshes[handles[s]-1]
		if !e.loaded {
			img := rl.GenImageColor(int(t), int(t), rl.Black)
			e.tex = rl.LoadTextureFromImage(img)
			rl.SetTextureFilter(e.tex, rl.FilterPoint)
			rl.UnloadImage(img)
			e.loaded = true
		}

		r.pixels = r.ChunkPixels(handles[s], s, r.pixels)
		rl.UpdateTexture(e.tex, r.pixels)

		x, y := cam.WorldToScreen(c.Origin)
		dst := rl.Rectangle{X: x, Y: y, Width: size, Height: size}
		rl.DrawTexturePro(e.tex, src, dst, rl.Vector2{}, 0, rl.White)
	}
}

// Reset drops every registered mesh. Call it after the grid is cleared;
// the window buffer survives.
func (r *TerrainRenderer) Reset() {
	r.Unload()
	r.meshes = r.meshes[:0]
	r.buffers = r.buffers[:r.packBuf]
}

// Unload frees GPU resources.
func (r *TerrainRenderer) Unload() {
	for i := range r.meshes {
		if r.meshes[i].loaded {
			rl.UnloadTexture(r.meshes[i].tex)
			r.meshes[i].loaded = false
		}
	}
}
