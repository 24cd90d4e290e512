package config

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// ErrTypeInvalidConfig is the error type of every validation failure.
	ErrTypeInvalidConfig = "invalid_config"

	// ErrTypeLoadConfig is the error type of file read and decode failures.
	ErrTypeLoadConfig = "load_config"

	// MaxLODLimit keeps 2^lod cell sizes well inside int range.
	MaxLODLimit = 30
)

// Layer describes one fractal noise field.
type Layer struct {
	Seed      int64   `toml:"seed"      json:"seed"`
	Scale     float64 `toml:"scale"     json:"scale"` // wavelength of the first octave in world units
	Octaves   int     `toml:"octaves"   json:"octaves"`
	Amplitude float64 `toml:"amplitude" json:"amplitude"`
}

// Frequency returns the first octave frequency.
func (l Layer) Frequency() float64 {
	return 1.0 / l.Scale
}

// Terrain holds the surface height layers.
type Terrain struct {
	BaseHeight float64 `toml:"base_height" json:"base_height"`
	Mountains  Layer   `toml:"mountains"   json:"mountains"`
	Hills      Layer   `toml:"hills"       json:"hills"`
	Bumps      Layer   `toml:"bumps"       json:"bumps"`
}

// Soil holds the depth bands of the surface layers.
type Soil struct {
	GrassDepth float64 `toml:"grass_depth" json:"grass_depth"`
	DirtDepth  float64 `toml:"dirt_depth"  json:"dirt_depth"`
}

// Caves holds the cave carving field. Its octave count is Config.TotalOctaves.
type Caves struct {
	Seed      int64   `toml:"seed"      json:"seed"`
	Scale     float64 `toml:"scale"     json:"scale"`
	Amplitude float64 `toml:"amplitude" json:"amplitude"`
	Threshold float64 `toml:"threshold" json:"threshold"`
}

// Ore is one ore rule. Rules are checked in slice order.
type Ore struct {
	Material  string  `toml:"material"  json:"material"`
	Seed      int64   `toml:"seed"      json:"seed"`
	Scale     float64 `toml:"scale"     json:"scale"`
	Octaves   int     `toml:"octaves"   json:"octaves"`
	Threshold float64 `toml:"threshold" json:"threshold"`
	MinDepth  float64 `toml:"min_depth" json:"min_depth"`
	MaxDepth  float64 `toml:"max_depth" json:"max_depth"` // <= 0 leaves the band open below min_depth
}

// OpenEnded reports whether the ore band has no maximum depth.
func (o Ore) OpenEnded() bool {
	return o.MaxDepth <= 0
}

// Config is the immutable world and traversal configuration shared by all rays.
type Config struct {
	ThresholdDensity float64 `toml:"threshold_density" json:"threshold_density"`
	MaxLOD           int     `toml:"max_lod"           json:"max_lod"`
	TotalOctaves     int     `toml:"total_octaves"     json:"total_octaves"`
	MaxSteps         int     `toml:"max_steps"         json:"max_steps"`
	MaxDistance      float64 `toml:"max_distance"      json:"max_distance"`
	AscendMargin     float64 `toml:"ascend_margin"     json:"ascend_margin"`
	WaterLevel       float64 `toml:"water_level"       json:"water_level"`
	Terrain          Terrain `toml:"terrain"           json:"terrain"`
	Soil             Soil    `toml:"soil"              json:"soil"`
	Caves            Caves   `toml:"caves"             json:"caves"`
	Ores             []Ore   `toml:"ores"              json:"ores"`
}

// Default returns the standard world.
func Default() Config {
	return Config{
		ThresholdDensity: 0,
		MaxLOD:           8,
		TotalOctaves:     4,
		MaxSteps:         1024,
		MaxDistance:      16384,
		AscendMargin:     0.05,
		WaterLevel:       60,
		Terrain: Terrain{
			BaseHeight: 64,
			Mountains:  Layer{Seed: 1, Scale: 1024, Octaves: 4, Amplitude: 40},
			Hills:      Layer{Seed: 2, Scale: 128, Octaves: 3, Amplitude: 8},
			Bumps:      Layer{Seed: 3, Scale: 16, Octaves: 2, Amplitude: 1.5},
		},
		Soil: Soil{GrassDepth: 1, DirtDepth: 4},
		Caves: Caves{
			Seed:      7,
			Scale:     48,
			Amplitude: 1,
			Threshold: 0.6,
		},
		Ores: DefaultOres(),
	}
}

// DefaultOres returns the standard ore rules in priority order.
func DefaultOres() []Ore {
	return []Ore{
		{Material: "coal", Seed: 101, Scale: 8, Octaves: 2, Threshold: 0.55, MinDepth: 4, MaxDepth: 64},
		{Material: "iron", Seed: 102, Scale: 6, Octaves: 2, Threshold: 0.6, MinDepth: 12, MaxDepth: 128},
		{Material: "gold", Seed: 103, Scale: 5, Octaves: 2, Threshold: 0.68, MinDepth: 32},
		{Material: "diamond", Seed: 104, Scale: 4, Octaves: 2, Threshold: 0.72, MinDepth: 64},
	}
}

// Validate rejects configurations the traversal cannot run with.
func (c Config) Validate() error {
	if c.MaxLOD < 0 || c.MaxLOD > MaxLODLimit {
		return errors.New("max_lod out of range").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_lod", c.MaxLOD).
			WithTag("limit", MaxLODLimit)
	}
	if c.TotalOctaves <= 0 {
		return errors.New("total_octaves must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("total_octaves", c.TotalOctaves)
	}
	if c.MaxSteps <= 0 {
		return errors.New("max_steps must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_steps", c.MaxSteps)
	}
	if !(c.MaxDistance > 0) {
		return errors.New("max_distance must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_distance", c.MaxDistance)
	}
	if c.AscendMargin < 0 || c.AscendMargin >= 0.5 {
		return errors.New("ascend_margin must be in [0, 0.5)").
			WithType(ErrTypeInvalidConfig).
			WithTag("ascend_margin", c.AscendMargin)
	}

	layers := []struct {
		name  string
		layer Layer
	}{
		{"terrain.mountains", c.Terrain.Mountains},
		{"terrain.hills", c.Terrain.Hills},
		{"terrain.bumps", c.Terrain.Bumps},
	}
	for _, l := range layers {
		if err := validateLayer(l.name, l.layer); err != nil {
			return err
		}
	}

	if c.Soil.GrassDepth < 0 || c.Soil.DirtDepth < c.Soil.GrassDepth {
		return errors.New("soil depths must satisfy 0 <= grass_depth <= dirt_depth").
			WithType(ErrTypeInvalidConfig).
			WithTag("grass_depth", c.Soil.GrassDepth).
			WithTag("dirt_depth", c.Soil.DirtDepth)
	}

	if err := validateLayer("caves", Layer{
		Seed:      c.Caves.Seed,
		Scale:     c.Caves.Scale,
		Octaves:   c.TotalOctaves,
		Amplitude: c.Caves.Amplitude,
	}); err != nil {
		return err
	}

	for i, o := range c.Ores {
		if o.Material == "" {
			return errors.New("ore material is empty").
				WithType(ErrTypeInvalidConfig).
				WithTag("ore", i)
		}
		if err := validateLayer("ores."+o.Material, Layer{
			Seed:      o.Seed,
			Scale:     o.Scale,
			Octaves:   o.Octaves,
			Amplitude: 1,
		}); err != nil {
			return err
		}
		if o.MinDepth < 0 {
			return errors.New("ore min_depth must not be negative").
				WithType(ErrTypeInvalidConfig).
				WithTag("material", o.Material).
				WithTag("min_depth", o.MinDepth)
		}
		if !o.OpenEnded() && o.MaxDepth <= o.MinDepth {
			return errors.New("ore depth band is inverted").
				WithType(ErrTypeInvalidConfig).
				WithTag("material", o.Material).
				WithTag("min_depth", o.MinDepth).
				WithTag("max_depth", o.MaxDepth)
		}
	}
	return nil
}

func validateLayer(name string, l Layer) error {
	if !(l.Scale > 0) {
		return errors.New("noise scale must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("layer", name).
			WithTag("scale", l.Scale)
	}
	if l.Octaves <= 0 {
		return errors.New("noise octaves must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("layer", name).
			WithTag("octaves", l.Octaves)
	}
	if !(l.Amplitude > 0) {
		return errors.New("noise amplitude must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("layer", name).
			WithTag("amplitude", l.Amplitude)
	}
	return nil
}
