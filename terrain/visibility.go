package terrain

import (
	"math"

	"github.com/pthm-cable/fogland/geom"
)

// Painter marks tiles seen by line-of-sight circles. A tile painted this
// tick is Fresh; BeginTick demotes last tick's Fresh tiles to Settled.
// Settled tiles never return to Unseen.
type Painter struct {
	grid    *Grid
	touched map[ChunkCoord]struct{}
	painted int
}

// NewPainter creates a painter over grid.
func NewPainter(grid *Grid) *Painter {
	return &Painter{grid: grid, touched: make(map[ChunkCoord]struct{})}
}

// BeginTick demotes every Fresh tile painted since the previous call.
// Chunks dropped by Grid.Clear in between are skipped.
func (p *Painter) BeginTick() {
	for coord := range p.touched {
		c, ok := p.grid.ChunkAt(coord)
		if !ok {
			continue
		}
		for i, v := range c.Visibility {
			if v == Fresh {
				c.Visibility[i] = Settled
			}
		}
	}
	clear(p.touched)
	p.painted = 0
}

// UpdateLOS marks every tile of the 3x3 chunks around focus whose center
// lies within radius of focus as Fresh, and returns how many tiles it
// marked. Negative radii are treated as zero, non-finite input paints
// nothing, and ungenerated chunks are skipped.
func (p *Painter) UpdateLOS(focus geom.Vec2, radius float64) int {
	if !geom.Finite(focus) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0
	}
	radius = math.Max(radius, 0)

	g := p.grid
	cs := g.params.ChunkSize
	t := g.params.TilesPerSide
	w := g.params.TileWidth()
	circle := geom.Circle{Center: focus, Radius: radius}
	bounds := circle.Bounds()
	rSq := radius * radius
	center := g.CoordOf(focus)

	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			coord := center.Offset(dx, dy)
			origin := coord.Origin(cs)
			rect := geom.NewRect(origin, geom.V2(cs, cs))
			if !rect.CollidesWith(circle) {
				continue
			}
			area, ok := rect.Intersect(bounds)
			if !ok {
				continue
			}
			c, ok := g.chunks[coord]
			if !ok {
				continue
			}

			before := n
			i0, i1 := tileSpan(area.Min[0]-origin[0], area.Max[0]-origin[0], w, t)
			j0, j1 := tileSpan(area.Min[1]-origin[1], area.Max[1]-origin[1], w, t)
			for j := j0; j < j1; j++ {
				for i := i0; i < i1; i++ {
					idx := j*t + i
					if geom.DistSq(g.TileCenter(coord, idx), focus) <= rSq {
						c.Visibility[idx] = Fresh
						n++
					}
				}
			}
			if n > before {
				p.touched[coord] = struct{}{}
			}
		}
	}
	p.painted += n
	return n
}

// tileSpan returns the half-open tile range covering [lo, hi] in
// chunk-local units.
func tileSpan(lo, hi, w float64, t int) (int, int) {
	a := int(math.Floor(lo / w))
	b := int(math.Ceil(hi / w))
	return max(0, min(a, t)), max(0, min(b, t))
}

// Painted returns the number of tile paints since the last BeginTick.
// A tile covered by two circles counts twice.
func (p *Painter) Painted() int { return p.painted }

// VisibilityStats counts tiles by visibility state across the grid.
type VisibilityStats struct {
	Unseen  int
	Settled int
	Fresh   int
}

// VisibilityStats scans every generated chunk. It is linear in the generated area
// and meant for periodic telemetry, not per-tick use.
func (g *Grid) VisibilityStats() VisibilityStats {
	var s VisibilityStats
	for _, c := range g.chunks {
		for _, v := range c.Visibility {
			switch v {
			case Unseen:
				s.Unseen++
			case Settled:
				s.Settled++
			case Fresh:
				s.Fresh++
			}
		}
	}
	return s
}
