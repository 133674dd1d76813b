// Package camera provides a 2D camera for viewing the unbounded terrain.
package camera

import (
	"github.com/pthm-cable/fogland/geom"
)

const (
	defaultZoom = 4.0
	minZoom     = 0.25
	maxZoom     = 64.0
)

// Camera controls the viewport into the world. The world has no edges, so
// the camera never wraps.
type Camera struct {
	// Pos is the camera center in world coordinates
	Pos geom.Vec2

	// Zoom is screen pixels per world unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world origin.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		Zoom:      defaultZoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
	}
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Vec2) (sx, sy float32) {
	d := p.Sub(c.Pos).Mul(c.Zoom)
	return c.ViewportW/2 + float32(d[0]), c.ViewportH/2 + float32(d[1])
}

// ScreenToWorld converts screen coordinates to a world position.
func (c *Camera) ScreenToWorld(sx, sy float32) geom.Vec2 {
	dx := float64(sx-c.ViewportW/2) / c.Zoom
	dy := float64(sy-c.ViewportH/2) / c.Zoom
	return c.Pos.Add(geom.V2(dx, dy))
}

// VisibleBounds returns the world rectangle covered by the viewport.
func (c *Camera) VisibleBounds() geom.Rect {
	half := geom.V2(float64(c.ViewportW)/(2*c.Zoom), float64(c.ViewportH)/(2*c.Zoom))
	return geom.Rect{Min: c.Pos.Sub(half), Max: c.Pos.Add(half)}
}

// IsVisible reports whether a circle at p could be on screen
// (conservative check for culling).
func (c *Camera) IsVisible(p geom.Vec2, radius float64) bool {
	return c.VisibleBounds().CollidesWith(geom.Circle{Center: p, Radius: radius})
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.Pos = c.Pos.Add(geom.V2(float64(dx)/c.Zoom, float64(dy)/c.Zoom))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = max(c.MinZoom, min(zoom, c.MaxZoom))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at the default zoom.
func (c *Camera) Reset() {
	c.Pos = geom.Vec2{}
	c.Zoom = defaultZoom
}
