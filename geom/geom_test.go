package geom

import (
	"math"
	"testing"
)

func TestNewRectNormalizesNegativeDim(t *testing.T) {
	r := NewRect(V2(10, 10), V2(-4, -6))
	if r.Min != V2(6, 4) || r.Max != V2(10, 10) {
		t.Errorf("expected min (6,4) max (10,10), got %v %v", r.Min, r.Max)
	}
	if d := r.Dim(); d[0] != 4 || d[1] != 6 {
		t.Errorf("expected dim (4,6), got %v", d)
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		want   Rect
		wantOK bool
	}{
		{
			name:   "overlap",
			a:      NewRect(V2(0, 0), V2(10, 10)),
			b:      NewRect(V2(5, 5), V2(10, 10)),
			want:   NewRect(V2(5, 5), V2(5, 5)),
			wantOK: true,
		},
		{
			name:   "contained",
			a:      NewRect(V2(0, 0), V2(100, 100)),
			b:      NewRect(V2(20, 30), V2(5, 5)),
			want:   NewRect(V2(20, 30), V2(5, 5)),
			wantOK: true,
		},
		{
			name:   "touching edge is empty",
			a:      NewRect(V2(0, 0), V2(10, 10)),
			b:      NewRect(V2(10, 0), V2(10, 10)),
			wantOK: false,
		},
		{
			name:   "disjoint",
			a:      NewRect(V2(0, 0), V2(1, 1)),
			b:      NewRect(V2(5, 5), V2(1, 1)),
			wantOK: false,
		},
		{
			name:   "negative dims",
			a:      NewRect(V2(10, 10), V2(-10, -10)),
			b:      NewRect(V2(5, 5), V2(10, 10)),
			want:   NewRect(V2(5, 5), V2(5, 5)),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}

			// Symmetry
			rev, revOK := tt.b.Intersect(tt.a)
			if revOK != ok || rev != got {
				t.Errorf("intersection not symmetric: %v/%v vs %v/%v", got, ok, rev, revOK)
			}
		})
	}
}

func TestIntersectSelf(t *testing.T) {
	rects := []Rect{
		NewRect(V2(0, 0), V2(1, 1)),
		NewRect(V2(-100, -100), V2(100, 100)),
		NewRect(V2(3.5, -2.25), V2(0.5, 7)),
	}
	for _, r := range rects {
		got, ok := r.Intersect(r)
		if !ok || got != r {
			t.Errorf("Intersect(%v, self) = %v, %v", r, got, ok)
		}
	}
}

func TestCollidesWith(t *testing.T) {
	rect := NewRect(V2(0, 0), V2(100, 100))

	tests := []struct {
		name   string
		circle Circle
		want   bool
	}{
		{"center zero radius", Circle{Center: rect.Center(), Radius: 0}, true},
		{"inside corner", Circle{Center: V2(1, 1), Radius: 0.5}, true},
		{"overlapping edge", Circle{Center: V2(-5, 50), Radius: 6}, true},
		{"exactly touching edge", Circle{Center: V2(-5, 50), Radius: 5}, true},
		{"near corner outside", Circle{Center: V2(-3, -4), Radius: 4.9}, false},
		{"near corner inside reach", Circle{Center: V2(-3, -4), Radius: 5.1}, true},
		{"far away", Circle{Center: V2(500, 500), Radius: 10}, false},
		{"bounds fully outside", Circle{Center: V2(-50, -50), Radius: 20}, false},
		{"large circle containing rect", Circle{Center: V2(50, 50), Radius: 1000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rect.CollidesWith(tt.circle); got != tt.want {
				t.Errorf("CollidesWith(%v) = %v, want %v", tt.circle, got, tt.want)
			}
		})
	}
}

func TestDistances(t *testing.T) {
	a := V2(1, 2)
	b := V2(4, 6)
	if got := DistSq(a, b); got != 25 {
		t.Errorf("DistSq = %v, want 25", got)
	}
	if got := Dist(a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestCircleBounds(t *testing.T) {
	c := Circle{Center: V2(10, -10), Radius: 3}
	b := c.Bounds()
	if b.Min != V2(7, -13) || b.Max != V2(13, -7) {
		t.Errorf("bounds = %v", b)
	}
	if !c.ContainsPoint(V2(12, -10)) || c.ContainsPoint(V2(14, -10)) {
		t.Error("ContainsPoint mismatch")
	}
}

func TestFinite(t *testing.T) {
	if !Finite(V2(1, -1)) {
		t.Error("expected finite")
	}
	if Finite(V2(math.NaN(), 0)) || Finite(V2(0, math.Inf(1))) {
		t.Error("expected non-finite")
	}
}
