package inspector

import (
	"testing"

	"github.com/pthm-cable/fogland/components"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/terrain"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		opts   Options
	}{
		{"", WidgetAuto, Options{}},
		{"bar", WidgetBar, Options{}},
		{"bar,max:50", WidgetBar, Options{Max: 50}},
		{"bar,max:-3", WidgetBar, Options{}},
		{"bar, max:20 ,unit:u/s", WidgetBar, Options{Max: 20, Unit: "u/s"}},
		{"label,fmt:%.1f", WidgetLabel, Options{Format: "%.1f"}},
		{"label,color:red", WidgetLabel, Options{}},
		{"skip", WidgetSkip, Options{}},
		{"unknown", WidgetAuto, Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if opts != tt.opts {
				t.Errorf("options = %+v, want %+v", opts, tt.opts)
			}
		})
	}
}

func TestExtractFieldsSkipsAndOrders(t *testing.T) {
	path := &components.Path{Waypoints: []geom.Vec2{{1, 2}}, Index: 1}
	fields := ExtractFields(path)
	if len(fields) != 1 || fields[0].Name != "Index" {
		t.Fatalf("expected only Index, got %+v", fields)
	}

	target := components.Target{X: 3, Y: 4, Active: true}
	fields = ExtractFields(target)
	names := []string{"X", "Y", "Active"}
	if len(fields) != len(names) {
		t.Fatalf("got %d fields, want %d", len(fields), len(names))
	}
	for i, n := range names {
		if fields[i].Name != n {
			t.Errorf("field %d = %s, want %s", i, fields[i].Name, n)
		}
	}
	if fields[2].Widget != WidgetBool {
		t.Errorf("Active widget = %v, want bool", fields[2].Widget)
	}
}

func TestExtractFieldsRejectsNonStruct(t *testing.T) {
	if f := ExtractFields(42); f != nil {
		t.Errorf("expected nil for int, got %v", f)
	}
	var nilPos *components.Position
	if f := ExtractFields(nilPos); f != nil {
		t.Errorf("expected nil for nil pointer, got %v", f)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		opts  Options
		want  string
	}{
		{1.23456, Options{}, "1.23"},
		{float32(2.5), Options{}, "2.50"},
		{7, Options{}, "7"},
		{3.14159, Options{Format: "%.1f"}, "3.1"},
		{6.0, Options{Unit: "u/s"}, "6.00 u/s"},
		{geom.V2(1, -2.26), Options{}, "(1.0, -2.3)"},
		{"fresh", Options{}, "fresh"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.opts); got != tt.want {
			t.Errorf("FormatValue(%v, %+v) = %q, want %q", tt.value, tt.opts, got, tt.want)
		}
	}
}

func TestFloatValue(t *testing.T) {
	tests := []struct {
		value any
		want  float32
		ok    bool
	}{
		{float64(1.5), 1.5, true},
		{int32(-4), -4, true},
		{uint8(200), 200, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := FloatValue(tt.value)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FloatValue(%v) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
	if (Options{}).BarMax() != 1 || (Options{Max: 50}).BarMax() != 50 {
		t.Error("unexpected bar scale")
	}
}

func TestNewTileReport(t *testing.T) {
	tile := terrain.Tile{
		Coord:      terrain.ChunkCoord{X: -1, Y: 2},
		Index:      17,
		Material:   3*7 + 5,
		Visibility: terrain.Settled,
		Navigable:  true,
		Height:     1.5,
	}
	r := NewTileReport(tile, 7)
	if r.Chunk != "(-1,2)" || r.Tile != 17 {
		t.Errorf("location = %s/%d", r.Chunk, r.Tile)
	}
	if r.Band != 5 {
		t.Errorf("band = %d, want 5", r.Band)
	}
	if r.Visibility != "settled" {
		t.Errorf("visibility = %q", r.Visibility)
	}
	if VisibilityName(9) != "invalid(9)" {
		t.Errorf("unexpected name for invalid byte: %q", VisibilityName(9))
	}
}
