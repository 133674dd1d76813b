package terrain

import (
	"testing"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/config"
)

func init() {
	config.MustInit("")
}

// testConfig returns a copy of the defaults with a smaller biome point set.
func testConfig() *config.Config {
	cfg := *config.Cfg()
	cfg.Biome.Points = 256
	return &cfg
}

func newTestGrid(tb testing.TB) *Grid {
	tb.Helper()
	g, err := NewGridFromConfig(testConfig())
	if err != nil {
		tb.Fatalf("creating grid: %v", err)
	}
	return g
}

// constNoise is a sampler that returns the same value everywhere.
type constNoise float64

func (c constNoise) Sample(x, y float64, seed uint32, octaves int) float64 {
	return float64(c)
}

// newFlatGrid builds a grid over perfectly flat terrain.
func newFlatGrid(tb testing.TB) *Grid {
	tb.Helper()
	cfg := testConfig()
	points := []biome.Point{{Label: biome.Default}}
	idx := biome.NewScan(points, biome.Weighting{Scale: cfg.Biome.WeightScale, Epsilon: cfg.Biome.WeightEpsilon})
	g, err := NewGrid(ParamsFromConfig(cfg), idx, constNoise(0))
	if err != nil {
		tb.Fatalf("creating flat grid: %v", err)
	}
	return g
}

// recordingRenderer is a Renderer that keeps every upload in memory.
type recordingRenderer struct {
	meshes  []MeshData
	sizes   map[BufferHandle]int
	buffers map[BufferHandle][]byte
	writes  int
	next    uint32
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		sizes:   make(map[BufferHandle]int),
		buffers: make(map[BufferHandle][]byte),
	}
}

func (r *recordingRenderer) CreateMesh(m MeshData) MeshHandle {
	r.meshes = append(r.meshes, m)
	r.next++
	return MeshHandle(r.next)
}

func (r *recordingRenderer) CreateBuffer(size int) BufferHandle {
	r.next++
	h := BufferHandle(r.next)
	r.sizes[h] = size
	return h
}

func (r *recordingRenderer) SetBuffer(h BufferHandle, data []byte) {
	r.buffers[h] = append([]byte(nil), data...)
	r.writes++
}
