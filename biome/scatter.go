package biome

import (
	"math/rand/v2"

	"github.com/pthm-cable/fogland/geom"
)

// ScatterConfig controls how biome points are laid out.
type ScatterConfig struct {
	WorldSize int     // points land in [-WorldSize/2, WorldSize/2)
	StartArea float64 // radius of the default-labeled start area
	Points    int     // total point count, including the origin point
}

// Scatter generates the biome point set. Point 0 is the world origin,
// labeled Default; the rest are uniform integer coordinates labeled by
// Classify. The same seed always yields the same set.
func Scatter(cfg ScatterConfig, seed uint64) []Point {
	n := cfg.Points
	if n < 1 {
		n = 1
	}
	points := make([]Point, n)
	points[0] = Point{Pos: geom.V2(0, 0), Label: Default}

	size := cfg.WorldSize
	if size < 1 {
		size = 1
	}
	rng := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	for i := 1; i < n; i++ {
		pos := geom.V2(
			float64(rng.IntN(size)-size/2),
			float64(rng.IntN(size)-size/2),
		)
		points[i] = Point{Pos: pos, Label: Classify(pos, cfg.StartArea)}
	}
	return points
}

// Classify assigns a label from concentric and quadrant bands around the
// origin. The far bands are checked last and override a quadrant label.
func Classify(pos geom.Vec2, startArea float64) Label {
	x, y := pos[0], pos[1]
	s := startArea

	label := Default
	switch {
	case pos.Len() < s:
		label = Default
	case x > s && y < s:
		label = Rainforest
	case x > s && y > s:
		label = Coldlands
	case x < s && y < s:
		label = Sandlands
	case x < s && y > s:
		label = Gravelands
	}

	switch {
	case x > 2*s && y < 2*s:
		label = Meatlands
	case x < 2*s && y > 2*s:
		label = Badlands
	}
	return label
}
