// Package ui draws the heads-up display, the overlay and control panels and
// the performance readout on top of the terrain view.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds panel colors and metrics.
type Theme struct {
	PanelBg, PanelBorder   rl.Color
	SectionHeader          rl.Color
	LabelColor, ValueColor rl.Color

	// Fraction bars shade from Low through Medium to High
	BarBg, BarFillLow, BarFillMedium, BarFillHigh rl.Color

	Padding, LineHeight, LabelWidth, BarHeight int32
	FontSize, HeaderFontSize                   int32
}

// DefaultTheme is a dim blue-grey palette that stays readable over fog.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 14, G: 18, B: 26, A: 230},
		PanelBorder:   rl.Color{R: 70, G: 84, B: 104, A: 255},
		SectionHeader: rl.Color{R: 150, G: 200, B: 255, A: 255},
		LabelColor:    rl.Color{R: 170, G: 178, B: 190, A: 255},
		ValueColor:    rl.Color{R: 230, G: 232, B: 236, A: 255},

		BarBg:         rl.Color{R: 34, G: 38, B: 46, A: 255},
		BarFillLow:    rl.Color{R: 90, G: 110, B: 150, A: 255},
		BarFillMedium: rl.Color{R: 120, G: 170, B: 210, A: 255},
		BarFillHigh:   rl.Color{R: 170, G: 220, B: 240, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     76,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
