// Package noise provides the deterministic coherent-noise samplers used for
// height and material synthesis.
package noise

import (
	"sync"

	"github.com/ojrac/opensimplex-go"
)

// Sampler is a seeded multi-octave 2-D noise function. Implementations are
// pure: the same inputs always yield the same output, in roughly [-1, 1].
type Sampler interface {
	Sample(x, y float64, seed uint32, octaves int) float64
}

const (
	lacunarity = 2.0
	gain       = 0.5
)

// New returns the sampler for the given kind ("simplex" or "perlin").
// Unknown kinds fall back to simplex.
func New(kind string) Sampler {
	if kind == "perlin" {
		return NewPerlinField()
	}
	return NewField()
}

// Field samples fractal OpenSimplex noise. Generators are built lazily per
// seed and cached, so a single Field can be shared by concurrent chunk
// generation.
type Field struct {
	mu   sync.RWMutex
	gens map[uint32]opensimplex.Noise
}

// NewField creates an empty simplex field.
func NewField() *Field {
	return &Field{gens: make(map[uint32]opensimplex.Noise)}
}

func (f *Field) generator(seed uint32) opensimplex.Noise {
	f.mu.RLock()
	g, ok := f.gens[seed]
	f.mu.RUnlock()
	if ok {
		return g
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.gens[seed]; ok {
		return g
	}
	g = opensimplex.New(int64(seed))
	f.gens[seed] = g
	return g
}

// Sample returns the octave sum at (x, y), normalized by the total amplitude.
func (f *Field) Sample(x, y float64, seed uint32, octaves int) float64 {
	return fbm(f.generator(seed).Eval2, x, y, octaves)
}

// fbm sums octaves of a base noise function. Octaves below 1 count as 1.
func fbm(eval func(x, y float64) float64, x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}

	var sum, norm float64
	amp := 1.0
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * eval(x*freq, y*freq)
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}
