package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/fogland/biome"
	"github.com/pthm-cable/fogland/terrain"
)

// biomeColors are the base tints per biome label, brightest band first.
var biomeColors = [biome.NumLabels]color.RGBA{
	biome.Default:    {R: 118, G: 150, B: 92, A: 255},
	biome.Rainforest: {R: 46, G: 122, B: 58, A: 255},
	biome.Coldlands:  {R: 196, G: 214, B: 228, A: 255},
	biome.Sandlands:  {R: 222, G: 196, B: 128, A: 255},
	biome.Gravelands: {R: 132, G: 128, B: 122, A: 255},
	biome.Meatlands:  {R: 170, G: 72, B: 78, A: 255},
	biome.Badlands:   {R: 150, G: 96, B: 54, A: 255},
}

// sunDir is the normalized light direction used for hillshading.
var sunDir = mgl32.Vec3{-0.5, -0.5, 0.7071}.Normalize()

// ambient is the minimum light a tile facing away from the sun receives.
const ambient = 0.35

// settledDim scales tiles seen in an earlier tick.
const settledDim = 0.45

// MaterialColor returns the tint for an encoded material byte. Higher bands
// are darker variants of the biome color.
func MaterialColor(material uint8, materialsPerBiome int) color.RGBA {
	if materialsPerBiome <= 0 {
		return color.RGBA{A: 255}
	}
	label := int(material) / materialsPerBiome
	band := int(material) % materialsPerBiome
	if label >= biome.NumLabels {
		return color.RGBA{R: 255, B: 255, A: 255}
	}
	base := biomeColors[label]
	f := 1 - 0.07*float32(band)
	return scale(base, f)
}

// Hillshade returns the Lambert term for a surface normal, floored at the
// ambient level.
func Hillshade(n mgl32.Vec3) float32 {
	l := n.Dot(sunDir)
	if l < 0 {
		l = 0
	}
	return ambient + (1-ambient)*l
}

// TileShades averages the four corner normals of every tile in a mesh
// laid out four vertices per tile and returns one shade per tile.
func TileShades(m terrain.MeshData) []float32 {
	n := len(m.Vertices) / 4
	out := make([]float32, n)
	for k := range out {
		v := m.Vertices[4*k : 4*k+4]
		sum := v[0].Normal.Add(v[1].Normal).Add(v[2].Normal).Add(v[3].Normal)
		if sum.Len() == 0 {
			out[k] = ambient
			continue
		}
		out[k] = Hillshade(sum.Normalize())
	}
	return out
}

// TileColor combines material, lighting and visibility into a pixel.
// Unseen tiles are opaque black.
func TileColor(material, visibility uint8, shade float32, materialsPerBiome int) color.RGBA {
	switch visibility {
	case terrain.Fresh:
		return scale(MaterialColor(material, materialsPerBiome), shade)
	case terrain.Settled:
		return scale(MaterialColor(material, materialsPerBiome), shade*settledDim)
	default:
		return color.RGBA{A: 255}
	}
}

func scale(c color.RGBA, f float32) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return color.RGBA{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
		A: c.A,
	}
}
