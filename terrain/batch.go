package terrain

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/pthm-cable/fogland/geom"
)

// GenerateBatch generates the chunks containing positions that do not exist
// yet. Generation runs on a worker pool sized by GOMAXPROCS; insertion
// happens on the calling goroutine in first-seen order. Cancelling ctx stops
// new work from being scheduled, and the chunks finished so far are still
// inserted. It returns the number of chunks inserted.
func (g *Grid) GenerateBatch(ctx context.Context, positions []geom.Vec2) (int, error) {
	var todo []ChunkCoord
	seen := make(map[ChunkCoord]struct{}, len(positions))
	for _, p := range positions {
		coord := g.CoordOf(p)
		if _, ok := seen[coord]; ok {
			continue
		}
		seen[coord] = struct{}{}
		if _, ok := g.chunks[coord]; ok {
			continue
		}
		todo = append(todo, coord)
	}
	if len(todo) == 0 {
		return 0, ctx.Err()
	}

	results := make([]*Chunk, len(todo))
	work := make(chan int)
	var wg sync.WaitGroup

	numWorkers := min(runtime.GOMAXPROCS(0), len(todo))
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = g.gen.Generate(todo[i])
			}
		}()
	}

	var err error
schedule:
	for i := range todo {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break schedule
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	inserted := 0
	for i, c := range results {
		if c == nil {
			continue
		}
		g.chunks[todo[i]] = c
		inserted++
	}
	slog.Debug("batch generated", "requested", len(positions), "generated", inserted)
	return inserted, err
}
