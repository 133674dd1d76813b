package terrain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/fogland/geom"
)

// ChunkCoord addresses a chunk by its integer position in the chunk lattice.
// The chunk covers [X*size, (X+1)*size) x [Y*size, (Y+1)*size).
type ChunkCoord struct {
	X, Y int
}

// Origin returns the world position of the chunk's min corner.
func (c ChunkCoord) Origin(chunkSize float64) geom.Vec2 {
	return geom.V2(float64(c.X)*chunkSize, float64(c.Y)*chunkSize)
}

// Offset returns the coordinate dx, dy chunks away.
func (c ChunkCoord) Offset(dx, dy int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Visibility states of a tile.
const (
	Unseen  uint8 = 0 // never observed
	Settled uint8 = 1 // observed in an earlier tick
	Fresh   uint8 = 2 // observed this tick
)

// Chunk is one generated square of terrain. Everything except Visibility
// is immutable after generation.
type Chunk struct {
	Coord  ChunkCoord
	Origin geom.Vec2

	// Per-tile arrays, indexed j*T + i.
	Materials  []uint8
	Visibility []uint8
	Navigable  []bool

	// Corner lattice arrays, (T+1)^2 entries indexed j*(T+1) + i.
	Heights []float64
	Normals []geom.Vec3

	Mesh MeshData

	tiles      int
	registered bool
	meshHandle MeshHandle
	uniform    BufferHandle
}

// TilesPerSide returns T for this chunk.
func (c *Chunk) TilesPerSide() int { return c.tiles }

// Bounds returns the chunk's world-space rectangle.
func (c *Chunk) Bounds(chunkSize float64) geom.Rect {
	return geom.NewRect(c.Origin, geom.V2(chunkSize, chunkSize))
}

// Model returns the chunk's local-to-world transform.
func (c *Chunk) Model() mgl32.Mat4 {
	return mgl32.Translate3D(float32(c.Origin[0]), float32(c.Origin[1]), 0)
}

// UniformSize is the byte size of a chunk uniform: a column-major mat4
// followed by the chunk's window slot as int32.
const UniformSize = 16*4 + 4

// Sync registers the chunk mesh with r on first use and uploads the chunk
// uniform for the given window slot. It returns the mesh handle.
func (c *Chunk) Sync(r Renderer, slot int) MeshHandle {
	if !c.registered {
		c.meshHandle = r.CreateMesh(c.Mesh)
		c.uniform = r.CreateBuffer(UniformSize)
		c.registered = true
	}

	var buf [UniformSize]byte
	m := c.Model()
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[64:], uint32(int32(slot)))
	r.SetBuffer(c.uniform, buf[:])
	return c.meshHandle
}

// Registered reports whether the mesh has been handed to a renderer.
func (c *Chunk) Registered() bool { return c.registered }

// Vertex is one mesh corner in chunk-local space.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	Color     mgl32.Vec4
	UV        mgl32.Vec2
}

// Primitive selects how mesh indices are assembled.
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveLines
)

// MeshData is an opaque mesh description for a Renderer.
type MeshData struct {
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive
}

// MeshHandle and BufferHandle are issued by a Renderer and only passed back to it.
type (
	MeshHandle   uint32
	BufferHandle uint32
)

// Renderer is the GPU-side collaborator. Implementations own every device
// object; the terrain only keeps the handles.
type Renderer interface {
	CreateMesh(MeshData) MeshHandle
	CreateBuffer(size int) BufferHandle
	SetBuffer(BufferHandle, []byte)
}
