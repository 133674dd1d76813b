package terrain

import (
	"bytes"
	"testing"

	"github.com/pthm-cable/fogland/geom"
)

func TestRenderASCII(t *testing.T) {
	g := newFlatGrid(t)
	g.CreateChunk(geom.V2(0, 0))

	var buf bytes.Buffer
	if err := RenderASCII(&buf, g, geom.V2(1, 1), 4, 2); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "    \n  ~~\n"; got != want {
		t.Errorf("before paint:\n%q\nwant\n%q", got, want)
	}

	// Flat terrain has material value 0, band 3.
	p := NewPainter(g)
	p.UpdateLOS(geom.V2(0, 0), 2)
	buf.Reset()
	RenderASCII(&buf, g, geom.V2(1, 1), 4, 2)
	if got, want := buf.String(), "    \n  Q~\n"; got != want {
		t.Errorf("after paint:\n%q\nwant\n%q", got, want)
	}

	p.BeginTick()
	buf.Reset()
	RenderASCII(&buf, g, geom.V2(1, 1), 4, 2)
	if got, want := buf.String(), "    \n  ;~\n"; got != want {
		t.Errorf("after decay:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderASCIIEmptyArea(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderASCII(&buf, newFlatGrid(t), geom.V2(0, 0), 0, 5); err != nil || buf.Len() != 0 {
		t.Errorf("zero columns wrote %q, err %v", buf.String(), err)
	}
}
