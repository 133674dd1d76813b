package biome

import (
	"cmp"
	"math"
	"slices"

	"github.com/pthm-cable/fogland/geom"
)

// Scan answers queries by visiting every point. It is the reference the
// tree is checked against and is fast enough for small point sets.
type Scan struct {
	points    []Point
	weighting Weighting
}

// NewScan wraps points without copying them.
func NewScan(points []Point, w Weighting) *Scan {
	return &Scan{points: points, weighting: w}
}

func (s *Scan) Points() []Point { return s.points }

func (s *Scan) Weights(pos geom.Vec2, dst []float64) Label {
	clear(dst)
	best, bestD := -1, math.Inf(1)
	for i, p := range s.points {
		d := geom.DistSq(pos, p.Pos)
		if d < bestD {
			best, bestD = i, d
		}
		dst[p.Label] += s.weighting.Weight(d)
	}
	if best < 0 {
		return Default
	}
	return s.points[best].Label
}

func (s *Scan) Nearest(pos geom.Vec2, k int) []Point {
	if k <= 0 || len(s.points) == 0 {
		return nil
	}
	cands := make([]candidate, len(s.points))
	for i, p := range s.points {
		cands[i] = candidate{idx: int32(i), d: geom.DistSq(pos, p.Pos)}
	}
	slices.SortFunc(cands, compareCandidates)
	k = min(k, len(cands))
	out := make([]Point, k)
	for i := range out {
		out[i] = s.points[cands[i].idx]
	}
	return out
}

// candidate is a point index with its squared distance to the query.
type candidate struct {
	idx int32
	d   float64
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.d, b.d); c != 0 {
		return c
	}
	return cmp.Compare(a.idx, b.idx)
}
