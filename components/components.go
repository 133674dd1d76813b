// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/fogland/geom"

// Unit identifies a mobile observer.
type Unit struct {
	ID      uint32 `inspect:"label"`
	Blocked int32  `inspect:"label"` // consecutive ticks the unit could not move
}

// MoveSpeed is a unit's ground speed in world units per second.
type MoveSpeed struct {
	Speed float64 `inspect:"bar,max:20,unit:u/s"`
}

// LineOfSight is the radius a unit reveals around itself every tick.
type LineOfSight struct {
	Radius float64 `inspect:"bar,max:50,unit:u"`
}

// Target is where a unit is heading. Inactive targets are ignored.
type Target struct {
	X, Y   float64 `inspect:"label,fmt:%.1f"`
	Active bool    `inspect:"bool"`
}

// Pos returns the target as a vector.
func (t Target) Pos() geom.Vec2 { return geom.V2(t.X, t.Y) }

// Path is a planned route of world waypoints toward the current target.
type Path struct {
	Waypoints []geom.Vec2 `inspect:"skip"`
	Index     int         `inspect:"label"`
	GoalX     float64     `inspect:"skip"` // target position when the path was planned
	GoalY     float64     `inspect:"skip"`
}

// Next returns the current waypoint, if any remain.
func (p *Path) Next() (geom.Vec2, bool) {
	if p.Index >= len(p.Waypoints) {
		return geom.Vec2{}, false
	}
	return p.Waypoints[p.Index], true
}

// Reset drops the planned route.
func (p *Path) Reset() {
	p.Waypoints = p.Waypoints[:0]
	p.Index = 0
}
