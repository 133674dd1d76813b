package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/terrain"
)

// LOSSystem paints the line of sight of every entity that has one.
type LOSSystem struct {
	filter  ecs.Filter2[components.Position, components.LineOfSight]
	painter *terrain.Painter
}

// NewLOSSystem creates a LOS system painting through painter.
func NewLOSSystem(w *ecs.World, painter *terrain.Painter) *LOSSystem {
	return &LOSSystem{
		filter:  *ecs.NewFilter2[components.Position, components.LineOfSight](w),
		painter: painter,
	}
}

// Update paints every observer and returns the number of tiles marked.
// The caller is responsible for starting the tick on the painter first.
func (s *LOSSystem) Update() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		pos, los := query.Get()
		n += s.painter.UpdateLOS(pos.Vec(), los.Radius)
	}
	return n
}
