// Package geom provides the 2-D primitives used for chunk lookup and
// visibility painting: vectors, axis-aligned rectangles and circles.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a world-space position or offset.
type Vec2 = mgl64.Vec2

// Vec3 is a world-space position with height in Z.
type Vec3 = mgl64.Vec3

// V2 is shorthand for building a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// DistSq returns the squared Euclidean distance between a and b.
// Prefer this over Dist when only comparing distances.
func DistSq(a, b Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return math.Sqrt(DistSq(a, b))
}

// Finite reports whether both components are finite.
func Finite(v Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) &&
		!math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}

// Rect is an axis-aligned rectangle in canonical form: Min holds the
// smaller coordinate on each axis.
type Rect struct {
	Min, Max Vec2
}

// NewRect builds a rectangle from one corner and a dimension. The sign of
// dim is irrelevant: pos and pos+dim are treated as opposite corners.
func NewRect(pos, dim Vec2) Rect {
	return FromCorners(pos, pos.Add(dim))
}

// FromCorners builds a rectangle from any two opposite corners.
func FromCorners(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
		Max: Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
	}
}

// Pos returns the min corner.
func (r Rect) Pos() Vec2 { return r.Min }

// Dim returns the (non-negative) extent.
func (r Rect) Dim() Vec2 { return r.Max.Sub(r.Min) }

// Center returns the rectangle midpoint.
func (r Rect) Center() Vec2 {
	return Vec2{(r.Min[0] + r.Max[0]) / 2, (r.Min[1] + r.Max[1]) / 2}
}

// Area returns width * height.
func (r Rect) Area() float64 {
	d := r.Dim()
	return d[0] * d[1]
}

// Empty reports whether the rectangle has no interior.
func (r Rect) Empty() bool {
	return r.Max[0] <= r.Min[0] || r.Max[1] <= r.Min[1]
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.Min[0] && p[0] <= r.Max[0] &&
		p[1] >= r.Min[1] && p[1] <= r.Max[1]
}

// Intersect returns the overlap of r and other. The second result is false
// when the overlap has zero or negative width or height.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	out := Rect{
		Min: Vec2{math.Max(r.Min[0], other.Min[0]), math.Max(r.Min[1], other.Min[1])},
		Max: Vec2{math.Min(r.Max[0], other.Max[0]), math.Min(r.Max[1], other.Max[1])},
	}
	if out.Empty() {
		return Rect{}, false
	}
	return out, true
}

// Extend grows r just enough to contain p.
func (r Rect) Extend(p Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min[0], p[0]), math.Min(r.Min[1], p[1])},
		Max: Vec2{math.Max(r.Max[0], p[0]), math.Max(r.Max[1], p[1])},
	}
}

// ClosestPoint returns the point of r nearest to p (p itself when inside).
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		clamp(p[0], r.Min[0], r.Max[0]),
		clamp(p[1], r.Min[1], r.Max[1]),
	}
}

// CollidesWith reports whether the circle touches r: either its center is
// inside, or the closest point of r to the center lies within the radius.
func (r Rect) CollidesWith(c Circle) bool {
	if r.Contains(c.Center) {
		return true
	}
	return DistSq(r.ClosestPoint(c.Center), c.Center) <= c.Radius*c.Radius
}

// Circle is a disc in world space.
type Circle struct {
	Center Vec2
	Radius float64
}

// Bounds returns the circle's axis-aligned bounding square.
func (c Circle) Bounds() Rect {
	r := Vec2{c.Radius, c.Radius}
	return Rect{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

// ContainsPoint reports whether p is within the radius of the center.
func (c Circle) ContainsPoint(p Vec2) bool {
	return DistSq(c.Center, p) <= c.Radius*c.Radius
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
