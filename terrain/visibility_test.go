package terrain

import (
	"math"
	"testing"

	"github.com/pthm-cable/fogland/geom"
)

func TestUpdateLOSScenario(t *testing.T) {
	g := newTestGrid(t)
	c, _ := g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)

	p.UpdateLOS(geom.V2(0, 0), 10)

	if g.Len() != 1 {
		t.Fatalf("painting generated chunks: grid has %d", g.Len())
	}
	n := g.Params().TilesPerSide
	if c.Visibility[32*n+32] != Unseen {
		t.Error("chunk center tile should not be visible")
	}
	if c.Visibility[0] != Fresh {
		t.Error("tile adjacent to focus should be fresh")
	}
	for idx, v := range c.Visibility {
		inside := geom.DistSq(g.TileCenter(c.Coord, idx), geom.V2(0, 0)) <= 100
		if inside != (v == Fresh) {
			t.Fatalf("tile %d: inside=%v visibility=%d", idx, inside, v)
		}
	}
}

func TestUpdateLOSAcrossChunks(t *testing.T) {
	g := newTestGrid(t)
	g.EnsureWindow(geom.V2(0, 0))
	p := NewPainter(g)
	focus := geom.V2(0.3, -0.2)
	const radius = 12.0

	got := p.UpdateLOS(focus, radius)

	want := 0
	for coord, c := range g.Chunks() {
		for idx, v := range c.Visibility {
			inside := geom.DistSq(g.TileCenter(coord, idx), focus) <= radius*radius
			if inside {
				want++
			}
			if inside != (v == Fresh) {
				t.Fatalf("chunk %v tile %d: inside=%v visibility=%d", coord, idx, inside, v)
			}
		}
	}
	if got != want || want == 0 {
		t.Errorf("painted %d tiles, brute force finds %d", got, want)
	}
}

func freshSet(g *Grid) map[ChunkCoord]map[int]bool {
	out := make(map[ChunkCoord]map[int]bool)
	for coord, c := range g.Chunks() {
		for idx, v := range c.Visibility {
			if v == Fresh {
				if out[coord] == nil {
					out[coord] = make(map[int]bool)
				}
				out[coord][idx] = true
			}
		}
	}
	return out
}

func TestUpdateLOSMonotonic(t *testing.T) {
	focus := geom.V2(37.3, 81.9)
	var prev map[ChunkCoord]map[int]bool
	for _, r := range []float64{0.5, 3, 7, 15, 40} {
		g := newFlatGrid(t)
		g.EnsureWindow(focus)
		NewPainter(g).UpdateLOS(focus, r)
		cur := freshSet(g)
		for coord, tiles := range prev {
			for idx := range tiles {
				if !cur[coord][idx] {
					t.Fatalf("radius %v lost tile %d of chunk %v", r, idx, coord)
				}
			}
		}
		prev = cur
	}
}

func TestVisibilityDecay(t *testing.T) {
	g := newFlatGrid(t)
	c, _ := g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)
	focus := geom.V2(50, 50)
	idx := g.TileIndexOf(focus)

	p.BeginTick()
	p.UpdateLOS(focus, 5)
	if c.Visibility[idx] != Fresh {
		t.Fatalf("painted tile = %d, want Fresh", c.Visibility[idx])
	}

	for tick := 0; tick < 5; tick++ {
		p.BeginTick()
		if c.Visibility[idx] != Settled {
			t.Fatalf("tick %d: tile = %d, want Settled", tick, c.Visibility[idx])
		}
	}

	p.BeginTick()
	p.UpdateLOS(focus, 5)
	if c.Visibility[idx] != Fresh {
		t.Errorf("repainted tile = %d, want Fresh", c.Visibility[idx])
	}
	if far := g.TileIndexOf(geom.V2(90, 10)); c.Visibility[far] != Unseen {
		t.Errorf("untouched tile = %d, want Unseen", c.Visibility[far])
	}
}

func TestBeginTickKeepsCurrentPaint(t *testing.T) {
	g := newFlatGrid(t)
	c, _ := g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)
	a, b := geom.V2(20, 20), geom.V2(70, 70)

	p.UpdateLOS(a, 3)
	p.BeginTick()
	p.UpdateLOS(b, 3)

	if v := c.Visibility[g.TileIndexOf(a)]; v != Settled {
		t.Errorf("previous circle tile = %d, want Settled", v)
	}
	if v := c.Visibility[g.TileIndexOf(b)]; v != Fresh {
		t.Errorf("current circle tile = %d, want Fresh", v)
	}
}

func TestUpdateLOSDegenerate(t *testing.T) {
	g := newFlatGrid(t)
	g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)

	tests := []struct {
		name   string
		focus  geom.Vec2
		radius float64
	}{
		{"negative radius", geom.V2(50, 50), -5},
		{"nan focus", geom.V2(math.NaN(), 50), 5},
		{"infinite focus", geom.V2(math.Inf(-1), 50), 5},
		{"nan radius", geom.V2(50, 50), math.NaN()},
		{"infinite radius", geom.V2(50, 50), math.Inf(1)},
		{"ungenerated area", geom.V2(5000, 5000), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := p.UpdateLOS(tt.focus, tt.radius); n != 0 {
				t.Errorf("painted %d tiles, want 0", n)
			}
		})
	}
	if g.Len() != 1 {
		t.Errorf("painting changed the chunk count to %d", g.Len())
	}
	if s := g.VisibilityStats(); s.Fresh != 0 || s.Settled != 0 {
		t.Errorf("stats = %+v, want nothing seen", s)
	}
}

func TestBeginTickAfterClear(t *testing.T) {
	g := newFlatGrid(t)
	g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)
	p.UpdateLOS(geom.V2(10, 10), 5)
	g.Clear()
	p.BeginTick()

	c, _ := g.CreateChunk(geom.V2(0, 0))
	for idx, v := range c.Visibility {
		if v != Unseen {
			t.Fatalf("regenerated tile %d = %d, want Unseen", idx, v)
		}
	}
}

func TestVisibilityStats(t *testing.T) {
	g := newFlatGrid(t)
	g.CreateChunk(geom.V2(0, 0))
	p := NewPainter(g)
	n := p.UpdateLOS(geom.V2(50, 50), 6)
	if p.Painted() != n {
		t.Errorf("Painted() = %d, want %d", p.Painted(), n)
	}

	s := g.VisibilityStats()
	if s.Fresh != n || s.Settled != 0 || s.Unseen != g.Params().TilesPerArea()-n {
		t.Errorf("stats after paint = %+v (painted %d)", s, n)
	}
	p.BeginTick()
	if s := g.VisibilityStats(); s.Fresh != 0 || s.Settled != n {
		t.Errorf("stats after tick = %+v", s)
	}
}

func BenchmarkUpdateLOS(b *testing.B) {
	g := newFlatGrid(b)
	g.EnsureWindow(geom.V2(0, 0))
	p := NewPainter(g)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.BeginTick()
		p.UpdateLOS(geom.V2(float64(i%80)-40, 12), 14)
	}
}
