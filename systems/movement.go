package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/terrain"
)

// replanDistance is how far a target may move, in tiles, before the
// planned route is thrown away.
const replanDistance = 2.0

// MovementSystem walks units along planned routes toward their targets.
// Units follow the terrain height and never step onto tiles that are not
// navigable or not yet generated.
type MovementSystem struct {
	filter  ecs.Filter5[components.Position, components.MoveSpeed, components.Target, components.Path, components.Unit]
	grid    *terrain.Grid
	planner *AStarPlanner

	// Planned counts routes planned during the last Update.
	Planned int
}

// NewMovementSystem creates a movement system over grid.
func NewMovementSystem(w *ecs.World, grid *terrain.Grid) *MovementSystem {
	return &MovementSystem{
		filter:  *ecs.NewFilter5[components.Position, components.MoveSpeed, components.Target, components.Path, components.Unit](w),
		grid:    grid,
		planner: NewAStarPlanner(grid),
	}
}

// Planner exposes the route planner.
func (s *MovementSystem) Planner() *AStarPlanner { return s.planner }

// Update plans then moves every unit with an active target by dt seconds.
func (s *MovementSystem) Update(dt float64) {
	s.Plan()
	s.Move(dt)
}

// Plan (re)plans routes for units whose route is missing or whose target
// has drifted. Units with no route count as blocked.
func (s *MovementSystem) Plan() {
	s.Planned = 0
	tw := s.grid.Params().TileWidth()

	query := s.filter.Query()
	for query.Next() {
		pos, _, target, path, unit := query.Get()
		if !target.Active {
			continue
		}

		goal := target.Pos()
		if len(path.Waypoints) > 0 && geom.Dist(goal, geom.V2(path.GoalX, path.GoalY)) <= replanDistance*tw {
			continue
		}
		path.Reset()
		path.Waypoints = append(path.Waypoints, s.planner.FindPath(pos.Vec(), goal)...)
		path.GoalX, path.GoalY = goal[0], goal[1]
		s.Planned++
		if len(path.Waypoints) == 0 {
			unit.Blocked++
		}
	}
}

// Move steps every routed unit toward its next waypoint.
func (s *MovementSystem) Move(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, speed, target, path, unit := query.Get()
		if !target.Active || len(path.Waypoints) == 0 {
			continue
		}

		wp, ok := path.Next()
		if !ok {
			target.Active = false
			path.Reset()
			continue
		}

		step := speed.Speed * dt
		d := wp.Sub(pos.Vec())
		dist := d.Len()
		next := wp
		arrived := dist <= step
		if !arrived {
			next = pos.Vec().Add(d.Mul(step / dist))
		}

		// A unit stranded on steep ground may still walk off it.
		if !s.grid.Navigable(next) && s.grid.Navigable(pos.Vec()) {
			unit.Blocked++
			path.Reset()
			continue
		}

		pos.Set(next)
		if h, ok := s.grid.HeightAt(next); ok {
			pos.Z = h
		}
		unit.Blocked = 0
		if arrived {
			path.Index++
			if path.Index >= len(path.Waypoints) {
				target.Active = false
				path.Reset()
			}
		}
	}
}
