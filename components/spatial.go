package components

import "github.com/pthm-cable/fogland/geom"

// Position represents an entity's world position. Z follows the terrain.
type Position struct {
	X, Y float64 `inspect:"label,fmt:%.1f"`
	Z    float64 `inspect:"label,fmt:%.2f"`
}

// Vec returns the ground-plane position.
func (p Position) Vec() geom.Vec2 { return geom.V2(p.X, p.Y) }

// Set moves the entity on the ground plane.
func (p *Position) Set(v geom.Vec2) {
	p.X, p.Y = v[0], v[1]
}
