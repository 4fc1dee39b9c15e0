// Package config provides configuration loading and access for the noise tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/latnoise/noise"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Kinds lists the field kinds accepted in field.kind, in the order of
// field.kindNames. field.TestParseKindCoversConfigKinds keeps the two in step.
var Kinds = []string{
	"gradient",
	"gradient_hq",
	"gradient_3d",
	"cellular_f1",
	"cellular_f2",
	"cellular_edge",
	"cellular_id",
}

// Config holds all tool configuration parameters.
type Config struct {
	Field     FieldConfig     `yaml:"field"`
	Grid      GridConfig      `yaml:"grid"`
	Output    OutputConfig    `yaml:"output"`
	Preview   PreviewConfig   `yaml:"preview"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// FieldConfig describes which noise function to sample and how.
type FieldConfig struct {
	Kind      string  `yaml:"kind"`
	Frequency float64 `yaml:"frequency"` // Lattice cells per unit of tile space
	Seed      int32   `yaml:"seed"`
	Tileable  bool    `yaml:"tileable"` // Wrap x and y at the frequency when periods are unset
	PeriodX   int32   `yaml:"period_x"` // Lattice cells, 0 = no wrap
	PeriodY   int32   `yaml:"period_y"`
	PeriodZ   int32   `yaml:"period_z"`
	Z         float64 `yaml:"z"` // Slice through the 3D kinds
	OffsetX   float64 `yaml:"offset_x"`
	OffsetY   float64 `yaml:"offset_y"`
}

// GridConfig holds the sample grid dimensions.
type GridConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig controls what the headless run writes.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	Samples       bool   `yaml:"samples"`
	SampleStride  int    `yaml:"sample_stride"` // Write every Nth row and column
	Stats         bool   `yaml:"stats"`
	HistogramBins int    `yaml:"histogram_bins"` // 0 = no histogram
}

// PreviewConfig holds previewer window settings.
type PreviewConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	TargetFPS   int `yaml:"target_fps"`
	TextureSize int `yaml:"texture_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int  `yaml:"perf_collector_window"`
	CorrelateSeeds      bool `yaml:"correlate_seeds"` // Compare against seed+1
}

// ServerConfig holds tile server settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	CacheDir      string `yaml:"cache_dir"` // Empty = memory cache only
	TileSize      int    `yaml:"tile_size"`
	MaxTileSize   int    `yaml:"max_tile_size"`
	MemoryCacheMB int    `yaml:"memory_cache_mb"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Period      noise.Period // Built from the period fields, or the frequency when tileable
	Frequency32 float32
	Z32         float32
	OffsetX32   float32
	OffsetY32   float32
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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and recomputes derived values.
// Call it again after changing fields in code.
func (c *Config) Validate() error {
	known := false
	for _, k := range Kinds {
		if c.Field.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown field kind %q", ErrInvalidConfig, c.Field.Kind)
	}
	// gradient_hq samples a rotated lattice, which has no axis-aligned period.
	if c.Field.Kind == "gradient_hq" &&
		(c.Field.Tileable || c.Field.PeriodX != 0 || c.Field.PeriodY != 0 || c.Field.PeriodZ != 0) {
		return fmt.Errorf("%w: gradient_hq cannot tile or wrap", ErrInvalidConfig)
	}
	if c.Field.Frequency <= 0 || math.IsNaN(c.Field.Frequency) || math.IsInf(c.Field.Frequency, 0) {
		return fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidConfig, c.Field.Frequency)
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Grid.Workers)
	}
	if c.Output.HistogramBins < 0 {
		return fmt.Errorf("%w: negative histogram bins %d", ErrInvalidConfig, c.Output.HistogramBins)
	}
	if c.Output.SampleStride < 1 {
		c.Output.SampleStride = 1
	}
	if c.Server.TileSize <= 0 || c.Server.TileSize > c.Server.MaxTileSize {
		return fmt.Errorf("%w: tile size %d outside 1..%d", ErrInvalidConfig, c.Server.TileSize, c.Server.MaxTileSize)
	}
	if c.Server.MemoryCacheMB < 0 {
		return fmt.Errorf("%w: negative memory cache size %d", ErrInvalidConfig, c.Server.MemoryCacheMB)
	}
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Frequency32 = float32(c.Field.Frequency)
	c.Derived.Z32 = float32(c.Field.Z)
	c.Derived.OffsetX32 = float32(c.Field.OffsetX)
	c.Derived.OffsetY32 = float32(c.Field.OffsetY)

	px, py := c.Field.PeriodX, c.Field.PeriodY
	if c.Field.Tileable && px == 0 && py == 0 {
		// A unit tile spans exactly frequency lattice cells.
		cells := math.Round(c.Field.Frequency)
		if cells != c.Field.Frequency || cells < 2 || cells > math.MaxInt32 {
			return fmt.Errorf("%w: tileable fields need an integer frequency >= 2, got %v",
				ErrInvalidConfig, c.Field.Frequency)
		}
		px, py = int32(cells), int32(cells)
	}

	period, err := noise.NewPeriod3D(px, py, c.Field.PeriodZ)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Derived.Period = period
	return nil
}

// TileExtent returns the size of one period in tile space, or 0 on axes that
// do not wrap.
func (c *Config) TileExtent() (w, h float32) {
	p := c.Derived.Period
	if p.XPeriod() > 0 {
		w = float32(p.XPeriod()) / c.Derived.Frequency32
	}
	if p.YPeriod() > 0 {
		h = float32(p.YPeriod()) / c.Derived.Frequency32
	}
	return w, h
}

// ServerAddr returns the tile server address with priority config -> env -> default.
func (c *Config) ServerAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	if env := os.Getenv("LATNOISE_ADDR"); env != "" {
		return env
	}
	return ":8090"
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
