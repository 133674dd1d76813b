package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pthm-cable/fogland/geom"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Options are the parsed key:value pairs of an inspect tag.
type Options struct {
	Max    float32 // bar full scale, 0 = unset
	Format string  // fmt verb for labels
	Unit   string  // suffix appended to the value
}

// Field is one exported struct field ready to draw.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options Options
}

// ParseTag parses an inspect struct tag of the form
// `inspect:"widget[,key:value...]"` with keys max, fmt and unit, e.g.
//
//	`inspect:"bar,max:50,unit:u"`
//	`inspect:"label,fmt:%.1f"`
//
// Unknown widgets fall back to WidgetAuto; unknown keys are ignored.
func ParseTag(tag string) (Widget, Options) {
	var opts Options
	if tag == "" {
		return WidgetAuto, opts
	}
	head, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(head)]

	for part := range strings.SplitSeq(rest, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch key {
		case "max":
			if m, err := strconv.ParseFloat(value, 32); err == nil && m > 0 {
				opts.Max = float32(m)
			}
		case "fmt":
			opts.Format = value
		case "unit":
			opts.Unit = value
		}
	}
	return widget, opts
}

// ExtractFields lists the exported fields of a struct or struct pointer in
// declaration order, dropping those tagged skip. Anything else yields nil.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, opts := ParseTag(sf.Tag.Get("inspect"))
		switch widget {
		case WidgetSkip:
			continue
		case WidgetAuto:
			widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				widget = WidgetBool
			}
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Widget: widget, Options: opts})
	}
	return fields
}

// FormatValue renders a field value. Floats default to two decimals and
// vectors to one decimal per component.
func FormatValue(value any, opts Options) string {
	f := opts.Format
	var s string
	switch v := value.(type) {
	case geom.Vec2:
		if f == "" {
			f = "%.1f"
		}
		s = "(" + fmt.Sprintf(f, v[0]) + ", " + fmt.Sprintf(f, v[1]) + ")"
	case float32, float64:
		if f == "" {
			f = "%.2f"
		}
		s = fmt.Sprintf(f, v)
	default:
		if f == "" {
			f = "%v"
		}
		s = fmt.Sprintf(f, v)
	}
	if opts.Unit != "" {
		s += " " + opts.Unit
	}
	return s
}

// BarMax returns the bar full scale, 1 when unset.
func (o Options) BarMax() float32 {
	if o.Max > 0 {
		return o.Max
	}
	return 1
}

// FloatValue converts any numeric kind to float32.
func FloatValue(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return 0, false
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}
