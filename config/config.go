// Package config provides configuration loading and access for the terrain simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// NumBiomes is the number of biome labels the generator knows about.
// Kept here so validation can check the material encoding fits a byte.
const NumBiomes = 7

// MaterialBands is the number of material bands produced per biome.
const MaterialBands = 7

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Biome      BiomeConfig      `yaml:"biome"`
	Height     HeightConfig     `yaml:"height"`
	Material   MaterialConfig   `yaml:"material"`
	Noise      NoiseConfig      `yaml:"noise"`
	LOS        LOSConfig        `yaml:"los"`
	Navigation NavigationConfig `yaml:"navigation"`
	Sim        SimConfig        `yaml:"sim"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the chunk layout of the world.
type WorldConfig struct {
	ChunkSize    float64 `yaml:"chunk_size"`     // World units per chunk side
	TilesPerSide int     `yaml:"tiles_per_side"` // Tiles per chunk side (T)
	Seed         uint32  `yaml:"seed"`           // Height noise and per-tile RNG seed
}

// BiomeConfig holds biome point scattering and weighting parameters.
type BiomeConfig struct {
	WorldSize         int     `yaml:"world_size"`          // Side of the square biome points are scattered over
	StartArea         float64 `yaml:"start_area"`          // Radius of the default-biome start area
	Points            int     `yaml:"points"`              // Number of biome points (N)
	MaterialsPerBiome int     `yaml:"materials_per_biome"` // Material slots reserved per biome
	WeightScale       float64 `yaml:"weight_scale"`        // C in w = C / d^2
	WeightEpsilon     float64 `yaml:"weight_epsilon"`      // Weights below this are dropped
	Index             string  `yaml:"index"`               // "tree" or "scan"
}

// HeightConfig holds height synthesis parameters.
type HeightConfig struct {
	NoiseScale  float64 `yaml:"noise_scale"`  // Amplitude applied to the noise sample
	PerlinScale float64 `yaml:"perlin_scale"` // Frequency applied to world coordinates
	Octaves     int     `yaml:"octaves"`
	Square      bool    `yaml:"square"` // Square the sample to flatten low terrain
}

// MaterialConfig holds material noise parameters.
type MaterialConfig struct {
	Seed        uint32  `yaml:"seed"`
	Octaves     int     `yaml:"octaves"`
	PerlinScale float64 `yaml:"perlin_scale"`
	NoiseScale  float64 `yaml:"noise_scale"`
	HeightBias  float64 `yaml:"height_bias"` // Mean tile height is multiplied by this and added
}

// NoiseConfig selects the coherent noise primitive.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // "simplex" or "perlin"
}

// LOSConfig holds line-of-sight defaults.
type LOSConfig struct {
	DefaultRadius float64 `yaml:"default_radius"`
}

// NavigationConfig holds navigability parameters.
type NavigationConfig struct {
	MaxSlopeDeg float64 `yaml:"max_slope_deg"`
}

// SimConfig holds the tick loop and unit spawning parameters.
type SimConfig struct {
	DT          float64 `yaml:"dt"`
	Units       int     `yaml:"units"`
	UnitSpeed   float64 `yaml:"unit_speed"`
	UnitLOS     float64 `yaml:"unit_los"`
	SpawnRadius float64 `yaml:"spawn_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per CSV record
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TileWidth    float64 // World.ChunkSize / World.TilesPerSide
	TilesPerArea int     // TilesPerSide^2
	WeightCutoff float64 // Distance beyond which a biome point has zero weight
	MinNormalZ   float64 // cos(MaxSlopeDeg)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates c and recomputes its derived values. Call it after
// changing fields of a loaded config.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate rejects configurations that would otherwise surface as
// divisions by zero or overflowing material bytes deep in generation.
func (c *Config) Validate() error {
	w := c.World
	if !(w.ChunkSize > 0) || math.IsInf(w.ChunkSize, 0) {
		return fmt.Errorf("%w: world.chunk_size must be positive and finite, got %v", ErrInvalidConfig, w.ChunkSize)
	}
	if w.TilesPerSide <= 0 || w.TilesPerSide > 1024 {
		return fmt.Errorf("%w: world.tiles_per_side must be in [1, 1024], got %d", ErrInvalidConfig, w.TilesPerSide)
	}

	b := c.Biome
	if b.Points < 1 {
		return fmt.Errorf("%w: biome.points must be at least 1, got %d", ErrInvalidConfig, b.Points)
	}
	if b.WorldSize <= 0 {
		return fmt.Errorf("%w: biome.world_size must be positive, got %d", ErrInvalidConfig, b.WorldSize)
	}
	if b.MaterialsPerBiome < MaterialBands {
		return fmt.Errorf("%w: biome.materials_per_biome must be at least %d, got %d",
			ErrInvalidConfig, MaterialBands, b.MaterialsPerBiome)
	}
	if b.MaterialsPerBiome*NumBiomes > 256 {
		return fmt.Errorf("%w: %d biomes x %d materials does not fit a byte",
			ErrInvalidConfig, NumBiomes, b.MaterialsPerBiome)
	}
	if !(b.WeightScale > 0) || !(b.WeightEpsilon > 0) {
		return fmt.Errorf("%w: biome.weight_scale and biome.weight_epsilon must be positive", ErrInvalidConfig)
	}
	switch b.Index {
	case "tree", "scan":
	default:
		return fmt.Errorf("%w: biome.index must be \"tree\" or \"scan\", got %q", ErrInvalidConfig, b.Index)
	}

	switch c.Noise.Kind {
	case "simplex", "perlin":
	default:
		return fmt.Errorf("%w: noise.kind must be \"simplex\" or \"perlin\", got %q", ErrInvalidConfig, c.Noise.Kind)
	}

	if c.Height.Octaves < 1 || c.Material.Octaves < 1 {
		return fmt.Errorf("%w: noise octaves must be at least 1", ErrInvalidConfig)
	}
	if c.Sim.DT <= 0 {
		return fmt.Errorf("%w: sim.dt must be positive, got %v", ErrInvalidConfig, c.Sim.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TileWidth = c.World.ChunkSize / float64(c.World.TilesPerSide)
	c.Derived.TilesPerArea = c.World.TilesPerSide * c.World.TilesPerSide
	c.Derived.WeightCutoff = math.Sqrt(c.Biome.WeightScale / c.Biome.WeightEpsilon)
	c.Derived.MinNormalZ = math.Cos(c.Navigation.MaxSlopeDeg * math.Pi / 180)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
