package noise

import (
	"math"
	"sync"
	"testing"
)

func samplers() map[string]Sampler {
	return map[string]Sampler{
		"simplex": NewField(),
		"perlin":  NewPerlinField(),
	}
}

func TestSampleDeterministic(t *testing.T) {
	for name, s := range samplers() {
		t.Run(name, func(t *testing.T) {
			fresh := New(name)
			for i := 0; i < 50; i++ {
				x := float64(i)*0.37 - 5
				y := float64(i)*-0.21 + 3
				a := s.Sample(x, y, 616, 9)
				b := s.Sample(x, y, 616, 9)
				c := fresh.Sample(x, y, 616, 9)
				if a != b || a != c {
					t.Fatalf("sample at (%v,%v) not deterministic: %v %v %v", x, y, a, b, c)
				}
			}
		})
	}
}

func TestSampleRange(t *testing.T) {
	for name, s := range samplers() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 2000; i++ {
				x := float64(i%50)*0.173 - 4
				y := float64(i/50)*0.291 - 6
				v := s.Sample(x, y, 7, 6)
				if math.IsNaN(v) || v < -1.05 || v > 1.05 {
					t.Fatalf("sample (%v,%v) = %v outside [-1, 1]", x, y, v)
				}
			}
		})
	}
}

func TestSeedsDiffer(t *testing.T) {
	for name, s := range samplers() {
		t.Run(name, func(t *testing.T) {
			same := 0
			for i := 0; i < 100; i++ {
				x := float64(i)*0.61 + 0.13
				y := float64(i)*0.47 + 0.29
				if s.Sample(x, y, 1, 4) == s.Sample(x, y, 2, 4) {
					same++
				}
			}
			if same > 10 {
				t.Errorf("seeds 1 and 2 agree on %d/100 samples", same)
			}
		})
	}
}

func TestContinuity(t *testing.T) {
	for name, s := range samplers() {
		t.Run(name, func(t *testing.T) {
			const eps = 1e-6
			for i := 0; i < 100; i++ {
				x := float64(i)*0.77 - 30
				y := float64(i)*0.31 + 12
				a := s.Sample(x, y, 3, 5)
				b := s.Sample(x+eps, y+eps, 3, 5)
				if math.Abs(a-b) > 1e-3 {
					t.Fatalf("discontinuity at (%v,%v): %v vs %v", x, y, a, b)
				}
			}
		})
	}
}

func TestZeroOctavesTreatedAsOne(t *testing.T) {
	f := NewField()
	if f.Sample(1.5, 2.5, 9, 0) != f.Sample(1.5, 2.5, 9, 1) {
		t.Error("octaves=0 should behave like octaves=1")
	}
}

func TestConcurrentSampling(t *testing.T) {
	f := NewField()
	want := f.Sample(0.5, 0.5, 42, 4)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed uint32) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				f.Sample(float64(i), float64(i), seed, 3)
			}
		}(uint32(w))
	}
	wg.Wait()

	if got := f.Sample(0.5, 0.5, 42, 4); got != want {
		t.Errorf("sample changed after concurrent use: %v vs %v", got, want)
	}
}

func BenchmarkFieldSample(b *testing.B) {
	f := NewField()
	for i := 0; i < b.N; i++ {
		f.Sample(float64(i)*0.01, float64(i)*0.02, 616, 9)
	}
}
