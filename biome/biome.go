// Package biome scatters labeled biome points over a bounded world square
// and answers the inverse-distance weighted queries that softly assign a
// biome to any world position.
package biome

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/fogland/geom"
)

// Label identifies a biome.
type Label uint8

const (
	Default Label = iota
	Rainforest
	Coldlands
	Sandlands
	Gravelands
	Meatlands
	Badlands

	NumLabels = int(Badlands) + 1
)

var labelNames = [NumLabels]string{
	"default", "rainforest", "coldlands", "sandlands", "gravelands", "meatlands", "badlands",
}

func (l Label) String() string {
	if int(l) < NumLabels {
		return labelNames[l]
	}
	return "unknown"
}

// Point is an immutable labeled biome seed.
type Point struct {
	Pos   geom.Vec2
	Label Label
}

// Weighting controls the inverse-square influence of each point.
type Weighting struct {
	Scale   float64 // C in w = C / d^2
	Epsilon float64 // weights below this contribute nothing
}

// Weight returns the influence of a point at squared distance distSq.
// Coincident points get +Inf, which the draw treats as certain.
func (w Weighting) Weight(distSq float64) float64 {
	v := w.Scale / distSq
	if v < w.Epsilon {
		return 0
	}
	return v
}

// Cutoff is the distance beyond which Weight is always zero.
func (w Weighting) Cutoff() float64 {
	return math.Sqrt(w.Scale / w.Epsilon)
}

// Index answers biome queries over a fixed point set. Results depend only
// on the point set and the query position.
type Index interface {
	// Weights accumulates per-label weights into dst (len NumLabels, zeroed
	// by the callee) and returns the label of the nearest point.
	Weights(pos geom.Vec2, dst []float64) Label
	// Nearest returns the k closest points ordered by distance, ties broken
	// by point order.
	Nearest(pos geom.Vec2, k int) []Point
	// Points returns the underlying point set. Callers must not modify it.
	Points() []Point
}

// Draw picks a biome for pos. When any point has non-zero weight the label
// is drawn with probability proportional to its accumulated weight;
// otherwise the nearest point's label is returned. scratch may be nil.
func Draw(idx Index, pos geom.Vec2, rng *rand.Rand, scratch []float64) Label {
	if cap(scratch) < NumLabels {
		scratch = make([]float64, NumLabels)
	}
	weights := scratch[:NumLabels]
	nearest := idx.Weights(pos, weights)
	return pick(weights, nearest, rng)
}

func pick(weights []float64, nearest Label, rng *rand.Rand) Label {
	for i, w := range weights {
		if math.IsInf(w, 1) {
			return Label(i)
		}
	}

	var cum [NumLabels]float64
	floats.CumSum(cum[:], weights)
	total := cum[NumLabels-1]
	if total == 0 {
		return nearest
	}

	u := rng.Float64() * total
	i := sort.SearchFloat64s(cum[:], u)
	if i >= NumLabels {
		i = NumLabels - 1
	}
	// A zero-weight label shares its cumulative value with the previous
	// one; move to the next label that actually owns the interval.
	for i < NumLabels-1 && weights[i] == 0 {
		i++
	}
	for i > 0 && weights[i] == 0 {
		i--
	}
	return Label(i)
}

// NewIndex builds the index named by kind ("tree" or "scan"). Unknown
// kinds fall back to the tree.
func NewIndex(kind string, points []Point, w Weighting) Index {
	if kind == "scan" {
		return NewScan(points, w)
	}
	return NewTree(points, w)
}
