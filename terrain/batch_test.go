package terrain

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/pthm-cable/fogland/geom"
)

func TestGenerateBatchMatchesSequential(t *testing.T) {
	positions := []geom.Vec2{
		geom.V2(0, 0),
		geom.V2(50, 50), // same chunk as (0,0)
		geom.V2(-1, -1),
		geom.V2(250, -30),
		geom.V2(-310, 420),
		geom.V2(0, 199),
		geom.V2(-1, -99), // same chunk as (-1,-1)
	}

	par := newTestGrid(t)
	par.CreateChunk(geom.V2(250, -30))
	n, err := par.GenerateBatch(context.Background(), positions)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if n != 4 {
		t.Errorf("inserted %d chunks, want 4", n)
	}
	if par.Len() != 5 {
		t.Errorf("grid has %d chunks, want 5", par.Len())
	}

	seq := newTestGrid(t)
	for _, p := range positions {
		seq.CreateChunk(p)
	}
	for coord, want := range seq.Chunks() {
		got, ok := par.ChunkAt(coord)
		if !ok {
			t.Fatalf("chunk %v missing from batch grid", coord)
		}
		if !slices.Equal(got.Heights, want.Heights) || !slices.Equal(got.Materials, want.Materials) {
			t.Errorf("chunk %v differs between batch and sequential generation", coord)
		}
	}
}

func TestGenerateBatchKeepsExisting(t *testing.T) {
	g := newTestGrid(t)
	c, _ := g.CreateChunk(geom.V2(10, 10))
	n, err := g.GenerateBatch(context.Background(), []geom.Vec2{geom.V2(20, 20)})
	if err != nil || n != 0 {
		t.Fatalf("GenerateBatch = %d, %v; want 0, nil", n, err)
	}
	if got, _ := g.Chunk(geom.V2(10, 10)); got != c {
		t.Error("existing chunk was replaced")
	}
}

func TestGenerateBatchCancelled(t *testing.T) {
	g := newTestGrid(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := g.GenerateBatch(ctx, []geom.Vec2{geom.V2(0, 0), geom.V2(500, 500)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if n != 0 || g.Len() != 0 {
		t.Errorf("cancelled batch inserted %d chunks (grid %d)", n, g.Len())
	}
}
