package noise

import (
	"math"
	"math/rand"
	"sync"
)

// PerlinNoise generates classic gradient noise from a seeded permutation table.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashes never need wrapping
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise2D returns a noise value for 2D coordinates.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	xf := math.Floor(x)
	yf := math.Floor(y)
	X := int(xf) & 255
	Y := int(yf) & 255

	x -= xf
	y -= yf

	u := fade(x)
	v := fade(y)

	A := p.perm[X] + Y
	B := p.perm[X+1] + Y

	return lerp(v,
		lerp(u, grad2D(p.perm[A], x, y), grad2D(p.perm[B], x-1, y)),
		lerp(u, grad2D(p.perm[A+1], x, y-1), grad2D(p.perm[B+1], x-1, y-1)))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad2D picks one of 8 gradient directions. The diagonal gradients reach
// magnitude sqrt(2)/2 at cell centers, so outputs stay within [-1, 1].
func grad2D(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x
	case 1:
		return -x
	case 2:
		return y
	case 3:
		return -y
	case 4:
		return (x + y) * math.Sqrt2 / 2
	case 5:
		return (-x + y) * math.Sqrt2 / 2
	case 6:
		return (x - y) * math.Sqrt2 / 2
	default:
		return (-x - y) * math.Sqrt2 / 2
	}
}

// PerlinField is the Perlin counterpart of Field.
type PerlinField struct {
	mu   sync.RWMutex
	gens map[uint32]*PerlinNoise
}

// NewPerlinField creates an empty Perlin field.
func NewPerlinField() *PerlinField {
	return &PerlinField{gens: make(map[uint32]*PerlinNoise)}
}

func (f *PerlinField) generator(seed uint32) *PerlinNoise {
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
	g = NewPerlinNoise(int64(seed))
	f.gens[seed] = g
	return g
}

// Sample returns the octave sum at (x, y), normalized by the total amplitude.
func (f *PerlinField) Sample(x, y float64, seed uint32, octaves int) float64 {
	return fbm(f.generator(seed).Noise2D, x, y, octaves)
}
