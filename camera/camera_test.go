package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/fogland/geom"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.Pos != (geom.Vec2{}) {
		t.Errorf("expected camera at origin, got %v", cam.Pos)
	}
	if cam.Zoom != defaultZoom {
		t.Errorf("expected zoom %v, got %v", defaultZoom, cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720)
	cam.Pos = geom.V2(-350, 12)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(cam.Pos)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.Pos = geom.V2(-2000.5, 731)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(w)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
		}
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(2)
	cam.Pan(-200, 50)

	if cam.Pos != geom.V2(-100, 25) {
		t.Errorf("expected (-100, 25), got %v", cam.Pos)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", cam.MinZoom, cam.Zoom)
	}
	cam.SetZoom(1e6)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(2)
	cam.ZoomBy(1.5)
	if cam.Zoom != 3 {
		t.Errorf("expected zoom 3, got %v", cam.Zoom)
	}
}

func TestVisibleBounds(t *testing.T) {
	cam := New(800, 400)
	cam.Pos = geom.V2(100, 100)
	cam.SetZoom(2)

	b := cam.VisibleBounds()
	if b.Min != geom.V2(-100, 0) || b.Max != geom.V2(300, 200) {
		t.Errorf("bounds = %v", b)
	}
	if !cam.IsVisible(geom.V2(305, 100), 10) {
		t.Error("circle overlapping right edge should be visible")
	}
	if cam.IsVisible(geom.V2(400, 100), 10) {
		t.Error("circle far right should not be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.Pan(500, 500)
	cam.SetZoom(10)
	cam.Reset()
	if cam.Pos != (geom.Vec2{}) || cam.Zoom != defaultZoom {
		t.Errorf("reset left camera at %v zoom %v", cam.Pos, cam.Zoom)
	}
}
