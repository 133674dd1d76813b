package biome

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/pthm-cable/fogland/geom"
)

var testWeighting = Weighting{Scale: 8, Epsilon: 0.001}

func testPoints(n int) []Point {
	return Scatter(ScatterConfig{WorldSize: 2000, StartArea: 200, Points: n}, 42)
}

func TestScatterDeterministic(t *testing.T) {
	a := testPoints(256)
	b := testPoints(256)
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different point sets")
	}
	c := Scatter(ScatterConfig{WorldSize: 2000, StartArea: 200, Points: 256}, 43)
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical point sets")
	}
}

func TestScatterOriginAndRange(t *testing.T) {
	points := testPoints(512)
	if points[0].Pos != geom.V2(0, 0) || points[0].Label != Default {
		t.Errorf("point 0 = %+v, want origin default", points[0])
	}
	for i, p := range points[1:] {
		for axis := 0; axis < 2; axis++ {
			v := p.Pos[axis]
			if v < -1000 || v >= 1000 || v != math.Trunc(v) {
				t.Fatalf("point %d coordinate %v outside [-1000, 1000) or not integral", i+1, v)
			}
		}
		if p.Label != Classify(p.Pos, 200) {
			t.Fatalf("point %d label %v does not match Classify", i+1, p.Label)
		}
	}
}

func TestClassify(t *testing.T) {
	const s = 100.0
	tests := []struct {
		pos  geom.Vec2
		want Label
	}{
		{geom.V2(0, 0), Default},
		{geom.V2(50, -50), Default},
		{geom.V2(150, 0), Rainforest},
		{geom.V2(150, 150), Coldlands},
		{geom.V2(-150, -150), Sandlands},
		{geom.V2(-150, 150), Gravelands},
		{geom.V2(250, 0), Meatlands},
		{geom.V2(250, -500), Meatlands},
		{geom.V2(0, 250), Badlands},
		{geom.V2(-500, 250), Badlands},
		{geom.V2(250, 250), Coldlands},
	}
	for _, tt := range tests {
		if got := Classify(tt.pos, s); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestTreeNearestMatchesScan(t *testing.T) {
	points := testPoints(1024)
	tree := NewTree(points, testWeighting)
	scan := NewScan(points, testWeighting)

	rng := rand.New(rand.NewPCG(1, 2))
	for q := 0; q < 200; q++ {
		pos := geom.V2(rng.Float64()*2400-1200, rng.Float64()*2400-1200)
		for _, k := range []int{1, 3, 8} {
			got := tree.Nearest(pos, k)
			want := scan.Nearest(pos, k)
			if !slices.Equal(got, want) {
				t.Fatalf("Nearest(%v, %d): tree %v, scan %v", pos, k, got, want)
			}
		}
	}
}

func TestTreeWeightsMatchScan(t *testing.T) {
	points := testPoints(1024)
	tree := NewTree(points, testWeighting)
	scan := NewScan(points, testWeighting)

	rng := rand.New(rand.NewPCG(3, 4))
	gotW := make([]float64, NumLabels)
	wantW := make([]float64, NumLabels)
	for q := 0; q < 500; q++ {
		pos := geom.V2(rng.Float64()*2400-1200, rng.Float64()*2400-1200)
		gotL := tree.Weights(pos, gotW)
		wantL := scan.Weights(pos, wantW)
		if gotL != wantL {
			t.Fatalf("nearest label at %v: tree %v, scan %v", pos, gotL, wantL)
		}
		if !slices.Equal(gotW, wantW) {
			t.Fatalf("weights at %v: tree %v, scan %v", pos, gotW, wantW)
		}
	}
}

func TestTreeNearestMatchesGonum(t *testing.T) {
	points := testPoints(1024)
	tree := NewTree(points, testWeighting)

	oracle := make(kdtree.Points, len(points))
	for i, p := range points {
		oracle[i] = kdtree.Point{p.Pos[0], p.Pos[1]}
	}
	ref := kdtree.New(oracle, false)

	rng := rand.New(rand.NewPCG(5, 6))
	for q := 0; q < 200; q++ {
		pos := geom.V2(rng.Float64()*2400-1200, rng.Float64()*2400-1200)
		_, wantD := ref.Nearest(kdtree.Point{pos[0], pos[1]})
		got := tree.Nearest(pos, 1)
		if gotD := geom.DistSq(pos, got[0].Pos); math.Abs(gotD-wantD) > 1e-9*math.Max(1, wantD) {
			t.Fatalf("nearest distance at %v: got %v, gonum %v", pos, gotD, wantD)
		}
	}
}

func TestTreeShape(t *testing.T) {
	tree := NewTree(testPoints(1023), testWeighting)
	if tree.Len() != 1023 {
		t.Errorf("arena holds %d nodes, want 1023", tree.Len())
	}
	// A median split over 2^10-1 points is perfectly balanced.
	if d := tree.Depth(); d != 10 {
		t.Errorf("depth = %d, want 10", d)
	}
}

func TestEmptyAndSingle(t *testing.T) {
	empty := NewTree(nil, testWeighting)
	if got := empty.Nearest(geom.V2(1, 1), 3); got != nil {
		t.Errorf("empty tree Nearest = %v", got)
	}
	w := make([]float64, NumLabels)
	if got := empty.Weights(geom.V2(1, 1), w); got != Default {
		t.Errorf("empty tree nearest label = %v", got)
	}

	single := []Point{{Pos: geom.V2(5, 5), Label: Badlands}}
	for _, idx := range []Index{NewTree(single, testWeighting), NewScan(single, testWeighting)} {
		if got := idx.Nearest(geom.V2(-100, 40), 4); len(got) != 1 || got[0] != single[0] {
			t.Errorf("%T Nearest = %v", idx, got)
		}
	}
}

func TestWeighting(t *testing.T) {
	if got := testWeighting.Weight(4); got != 2 {
		t.Errorf("Weight(4) = %v, want 2", got)
	}
	if got := testWeighting.Weight(1e6); got != 0 {
		t.Errorf("Weight beyond cutoff = %v, want 0", got)
	}
	if !math.IsInf(testWeighting.Weight(0), 1) {
		t.Error("coincident point should have infinite weight")
	}
	c := testWeighting.Cutoff()
	if got := testWeighting.Weight(c * c * 1.01); got != 0 {
		t.Errorf("Weight just past cutoff = %v, want 0", got)
	}
}

func TestDrawFallsBackToNearest(t *testing.T) {
	points := []Point{
		{Pos: geom.V2(0, 0), Label: Default},
		{Pos: geom.V2(10000, 0), Label: Coldlands},
	}
	idx := NewTree(points, testWeighting)
	rng := rand.New(rand.NewPCG(7, 8))
	// Both points are far beyond the cutoff, so no label carries weight.
	if got := Draw(idx, geom.V2(9000, 5000), rng, nil); got != Coldlands {
		t.Errorf("Draw = %v, want nearest Coldlands", got)
	}
}

func TestDrawCoincidentPointWins(t *testing.T) {
	points := []Point{
		{Pos: geom.V2(0, 0), Label: Default},
		{Pos: geom.V2(3, 0), Label: Sandlands},
	}
	idx := NewScan(points, testWeighting)
	rng := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 50; i++ {
		if got := Draw(idx, geom.V2(3, 0), rng, nil); got != Sandlands {
			t.Fatalf("Draw on a point = %v, want Sandlands", got)
		}
	}
}

func TestDrawProportional(t *testing.T) {
	// Equidistant points with weights 2:1 by label multiplicity.
	points := []Point{
		{Pos: geom.V2(1, 0), Label: Rainforest},
		{Pos: geom.V2(-1, 0), Label: Rainforest},
		{Pos: geom.V2(0, 1), Label: Meatlands},
	}
	idx := NewScan(points, testWeighting)
	rng := rand.New(rand.NewPCG(11, 12))

	const draws = 30000
	counts := make([]int, NumLabels)
	scratch := make([]float64, NumLabels)
	for i := 0; i < draws; i++ {
		counts[Draw(idx, geom.V2(0, 0), rng, scratch)]++
	}
	frac := float64(counts[Rainforest]) / draws
	if math.Abs(frac-2.0/3.0) > 0.02 {
		t.Errorf("rainforest fraction = %.3f, want ~0.667", frac)
	}
	for l, c := range counts {
		if Label(l) != Rainforest && Label(l) != Meatlands && c != 0 {
			t.Errorf("label %v drawn %d times with zero weight", Label(l), c)
		}
	}
}

func TestPickSkipsZeroWeightLabels(t *testing.T) {
	weights := make([]float64, NumLabels)
	weights[Gravelands] = 1
	rng := rand.New(rand.NewPCG(13, 14))
	for i := 0; i < 100; i++ {
		if got := pick(weights, Default, rng); got != Gravelands {
			t.Fatalf("pick = %v, want Gravelands", got)
		}
	}
}

func BenchmarkTreeWeights(b *testing.B) {
	idx := NewTree(testPoints(2048), testWeighting)
	w := make([]float64, NumLabels)
	rng := rand.New(rand.NewPCG(1, 1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Weights(geom.V2(rng.Float64()*2000-1000, rng.Float64()*2000-1000), w)
	}
}

func BenchmarkScanWeights(b *testing.B) {
	idx := NewScan(testPoints(2048), testWeighting)
	w := make([]float64, NumLabels)
	rng := rand.New(rand.NewPCG(1, 1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Weights(geom.V2(rng.Float64()*2000-1000, rng.Float64()*2000-1000), w)
	}
}
