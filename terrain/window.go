package terrain

// WindowSlots is the number of chunks in a window.
const WindowSlots = 9

// Slot returns the window slot of the chunk at offset (dx, dy) from the
// center, each in {-1, 0, 1}.
func Slot(dx, dy int) int {
	return (dy+1)*3 + (dx + 1)
}

// Window is an immutable snapshot of the 3x3 chunks around a focus chunk.
// Slots of ungenerated chunks are nil.
type Window struct {
	Center ChunkCoord
	Chunks [WindowSlots]*Chunk
	tiles  int
}

// Present returns the number of non-nil slots.
func (w Window) Present() int {
	n := 0
	for _, c := range w.Chunks {
		if c != nil {
			n++
		}
	}
	return n
}

// PackedSize is the byte length Pack produces.
func (w Window) PackedSize() int {
	return 2 * WindowSlots * w.tiles * w.tiles
}

// Pack appends the window's material bytes for all nine slots followed by
// its visibility bytes for all nine slots. Nil slots pack as zeros.
func (w Window) Pack(dst []byte) []byte {
	area := w.tiles * w.tiles
	dst = grow(dst, w.PackedSize())
	base := len(dst) - w.PackedSize()
	mats := dst[base : base+WindowSlots*area]
	vis := dst[base+WindowSlots*area:]
	for s, c := range w.Chunks {
		m := mats[s*area : (s+1)*area]
		v := vis[s*area : (s+1)*area]
		if c == nil {
			clear(m)
			clear(v)
			continue
		}
		copy(m, c.Materials)
		copy(v, c.Visibility)
	}
	return dst
}

func grow(b []byte, n int) []byte {
	if cap(b)-len(b) < n {
		nb := make([]byte, len(b), len(b)+n)
		copy(nb, b)
		b = nb
	}
	return b[:len(b)+n]
}

// Sync uploads per-chunk uniforms for every present slot and the packed
// tile data into buf. It returns the mesh handle per slot (zero for empty
// slots) and scratch, which is reused for packing.
func (w Window) Sync(r Renderer, buf BufferHandle, scratch []byte) ([WindowSlots]MeshHandle, []byte) {
	var meshes [WindowSlots]MeshHandle
	for s, c := range w.Chunks {
		if c != nil {
			meshes[s] = c.Sync(r, s)
		}
	}
	scratch = w.Pack(scratch[:0])
	r.SetBuffer(buf, scratch)
	return meshes, scratch
}
