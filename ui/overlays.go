package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Overlay IDs drawn by the game.
const (
	OverlayChunkBorders OverlayID = "chunk_borders"
	OverlayTileGrid     OverlayID = "tile_grid"
	OverlayNavigability OverlayID = "navigability"
	OverlayBiomePoints  OverlayID = "biome_points"
	OverlaySightRings   OverlayID = "sight_rings"
	OverlayPaths        OverlayID = "paths"
)

// OverlayDescriptor describes a toggleable debug overlay.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // raylib letter key, 0 = none
	Category    string // "terrain" or "units"

	// Exclusive overlays are switched off when this one is switched on.
	// The relation is kept symmetric by Register.
	Exclusive []OverlayID
}

// KeyLabel is the toggle key as shown in the panel.
func (d OverlayDescriptor) KeyLabel() string {
	if d.Key >= rl.KeyA && d.Key <= rl.KeyZ {
		return string(rune(d.Key))
	}
	return ""
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayChunkBorders, Name: "Chunk Borders", Description: "Outline the 3x3 chunk window", Key: rl.KeyB, Category: "terrain"},
	{ID: OverlayTileGrid, Name: "Tile Grid", Description: "Draw tile boundaries of the center chunk", Key: rl.KeyG, Category: "terrain"},
	{ID: OverlayNavigability, Name: "Navigability", Description: "Tint tiles too steep to walk on", Key: rl.KeyN, Category: "terrain",
		Exclusive: []OverlayID{OverlayTileGrid}},
	{ID: OverlayBiomePoints, Name: "Biome Points", Description: "Mark biome seed points near the focus", Key: rl.KeyI, Category: "terrain"},
	{ID: OverlaySightRings, Name: "Sight Rings", Description: "Show every unit's line-of-sight radius", Key: rl.KeyV, Category: "units"},
	{ID: OverlayPaths, Name: "Paths", Description: "Show every unit's planned route", Key: rl.KeyP, Category: "units"},
}

// OverlayRegistry holds overlay descriptors and which ones are on.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with every overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register adds an overlay, switched off, and mirrors its exclusions onto
// overlays already registered.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	desc.Exclusive = slices.Clone(desc.Exclusive)
	for i := range r.descriptors {
		other := &r.descriptors[i]
		switch {
		case slices.Contains(desc.Exclusive, other.ID):
			if !slices.Contains(other.Exclusive, desc.ID) {
				other.Exclusive = append(other.Exclusive, desc.ID)
			}
		case slices.Contains(other.Exclusive, desc.ID):
			desc.Exclusive = append(desc.Exclusive, other.ID)
		}
	}
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

func (r *OverlayRegistry) find(id OverlayID) (OverlayDescriptor, bool) {
	i := slices.IndexFunc(r.descriptors, func(d OverlayDescriptor) bool { return d.ID == id })
	if i < 0 {
		return OverlayDescriptor{}, false
	}
	return r.descriptors[i], true
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return r.enabled[id]
}

// SetEnabled sets an overlay's state. Switching one on switches off its
// exclusive partners.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	desc, ok := r.find(id)
	if !ok {
		return
	}
	r.enabled[id] = on
	if on {
		for _, other := range desc.Exclusive {
			r.enabled[other] = false
		}
	}
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns every overlay in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns the overlays of one category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It returns the overlay,
// its new state, and whether any overlay matched.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, d := range r.descriptors {
		if key != 0 && d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}
