package main

import (
	"github.com/pthm-cable/fogland/config"
)

// ParamSpec defines a single tunable terrain parameter.
type ParamSpec struct {
	Name    string  // Column name in the eval log
	Path    string  // Config path
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of terrain parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Height
			{Name: "height_noise_scale", Path: "height.noise_scale", Min: 2, Max: 40, Default: 16},
			{Name: "height_perlin_scale", Path: "height.perlin_scale", Min: 0.001, Max: 0.03, Default: 0.005},
			// Material
			{Name: "material_perlin_scale", Path: "material.perlin_scale", Min: 0.001, Max: 0.05, Default: 0.005},
			{Name: "material_noise_scale", Path: "material.noise_scale", Min: 2, Max: 40, Default: 16},
			{Name: "material_height_bias", Path: "material.height_bias", Min: 0, Max: 1, Default: 0.25},
			// Navigation
			{Name: "max_slope_deg", Path: "navigation.max_slope_deg", Min: 20, Max: 70, Default: 50},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize maps raw values into [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize maps [0,1] values back to raw values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp keeps every value within its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg and recomputes its derived
// values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	c := pv.Clamp(values)
	cfg.Height.NoiseScale = c[0]
	cfg.Height.PerlinScale = c[1]
	cfg.Material.PerlinScale = c[2]
	cfg.Material.NoiseScale = c[3]
	cfg.Material.HeightBias = c[4]
	cfg.Navigation.MaxSlopeDeg = c[5]
	return cfg.Finalize()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Height.NoiseScale,
		cfg.Height.PerlinScale,
		cfg.Material.PerlinScale,
		cfg.Material.NoiseScale,
		cfg.Material.HeightBias,
		cfg.Navigation.MaxSlopeDeg,
	}
}
