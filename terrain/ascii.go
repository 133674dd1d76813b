package terrain

import (
	"bufio"
	"io"
	"math"

	"github.com/pthm-cable/fogland/geom"
)

// Glyph ramps indexed by material band, low to high.
const (
	settledGlyphs = ".,:;=+#"
	freshGlyphs   = "oO0QXW@"
	fogGlyph      = '~'
	voidGlyph     = ' '
)

// RenderASCII writes a cols x rows character map of the tiles around
// center, one character per tile, rows running toward +Y. Ungenerated
// tiles are blank, unseen tiles are fog, and seen tiles show their
// material band.
func RenderASCII(w io.Writer, g *Grid, center geom.Vec2, cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	tw := g.params.TileWidth()
	mpb := g.params.MaterialsPerBiome
	cx := int(math.Floor(center[0] / tw))
	cy := int(math.Floor(center[1] / tw))
	line := make([]byte, cols+1)
	line[cols] = '\n'

	for r := 0; r < rows; r++ {
		ty := cy - rows/2 + r
		for c := 0; c < cols; c++ {
			tx := cx - cols/2 + c
			pos := geom.V2((float64(tx)+0.5)*tw, (float64(ty)+0.5)*tw)
			line[c] = glyphAt(g, pos, mpb)
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func glyphAt(g *Grid, pos geom.Vec2, mpb int) byte {
	ch, ok := g.Chunk(pos)
	if !ok {
		return voidGlyph
	}
	idx := g.TileIndexOf(pos)
	band := min(int(ch.Materials[idx])%mpb, len(settledGlyphs)-1)
	switch ch.Visibility[idx] {
	case Fresh:
		return freshGlyphs[band]
	case Settled:
		return settledGlyphs[band]
	default:
		return fogGlyph
	}
}
