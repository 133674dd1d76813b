package game

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pthm-cable/fogland/terrain"
)

// logWriter is the destination for human-readable dumps.
var logWriter io.Writer = os.Stdout

// SetLogWriter sets the dump output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted line to the dump writer.
func Logf(format string, args ...any) {
	fmt.Fprintf(logWriter, format+"\n", args...)
}

// LogWorldState dumps a text summary of the run and an ASCII view of the
// terrain around the focus.
func (g *Game) LogWorldState(cols, rows int) error {
	vis := g.grid.VisibilityStats()
	focus := g.Focus()
	Logf("=== World @ Tick %d | focus (%.1f, %.1f) | LOS %.1f ===", g.tick, focus[0], focus[1], g.losRadius)
	Logf("Chunks: %d | window %d/%d present | tiles fresh=%d settled=%d unseen=%d",
		g.grid.Len(), g.window.Present(), terrain.WindowSlots, vis.Fresh, vis.Settled, vis.Unseen)

	s := g.sample()
	Logf("Units: %d (%d blocked)", s.Units, s.UnitsBlocked)
	return terrain.RenderASCII(logWriter, g.grid, focus, cols, rows)
}

// LogPerfStats dumps the per-phase timing breakdown.
func (g *Game) LogPerfStats() {
	stats := g.perf.Stats()
	Logf("=== Perf @ Tick %d (speed %dx) ===", g.tick, g.stepsPerUpdate)
	Logf("Avg tick: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond)
	for _, info := range g.registry.All() {
		Logf("  %-16s %10s  %5.1f%%", info.Name, stats.PhaseAvg[info.ID].Round(time.Microsecond), stats.PhasePct[info.ID])
	}
}
