package fow

import (
	"fmt"

	"github.com/banshee-data/fogofwar/internal/config"
	"github.com/banshee-data/fogofwar/internal/timeutil"
)

// Config holds the engine tuning. Build one with DefaultConfig or
// ConfigFromTuning and adjust it with the With* methods.
type Config struct {
	HorizontalCellSize float64 // Grid cell edge in world units (default: 64)
	VerticalCellSize   float64 // Height of each vertical band; 0 disables bands (default: 0)
	NumTeams           int     // Team grids to allocate (default: 1)

	FadeRate  float64 // Seconds for the degree to move by 1.0 (default: 1.0)
	FadeDelay float64 // Seconds a cell holds its degree after leaving view (default: 2.0)

	Workers              int  // Concurrent viewer tasks; 0 means GOMAXPROCS (default: 0)
	QueryLimit           int  // Results per spatial query; 0 means unbounded (default: 256)
	SafetyChecks         bool // Validate locations and radii on every update (default: false)
	ExactRadiusOcclusion bool // Clip radius occluder shadows on the grid (default: false)

	SliceBias       float64 // Offset above a band centre used to section triangles (default: 0.1)
	RadiusBiasScale float64 // Cell size multiple pushed into radius occluder shadows (default: 1.1)

	// Clock times each solve. Nil uses the wall clock.
	Clock timeutil.Clock
}

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file (config/tuning.defaults.json). Panics if the file cannot be found;
// intended for tests and binaries.
func DefaultConfig() *Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) *Config {
	return &Config{
		HorizontalCellSize:   cfg.GetHorizontalCellSize(),
		VerticalCellSize:     cfg.GetVerticalCellSize(),
		NumTeams:             cfg.GetNumTeams(),
		FadeRate:             cfg.GetFadeRateSeconds(),
		FadeDelay:            cfg.GetFadeDelaySeconds(),
		Workers:              cfg.GetWorkers(),
		QueryLimit:           cfg.GetQueryLimit(),
		SafetyChecks:         cfg.GetSafetyChecks(),
		ExactRadiusOcclusion: cfg.GetExactRadiusOcclusion(),
		SliceBias:            cfg.GetSliceBias(),
		RadiusBiasScale:      cfg.GetRadiusBiasScale(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.HorizontalCellSize > 0) {
		return fmt.Errorf("HorizontalCellSize must be positive, got %f", c.HorizontalCellSize)
	}
	if c.VerticalCellSize < 0 {
		return fmt.Errorf("VerticalCellSize must be non-negative, got %f", c.VerticalCellSize)
	}
	if c.NumTeams < 1 || c.NumTeams > MaxTeams {
		return fmt.Errorf("NumTeams must be in [1, %d], got %d", MaxTeams, c.NumTeams)
	}
	if !(c.FadeRate > 0) {
		return fmt.Errorf("FadeRate must be positive, got %f", c.FadeRate)
	}
	if c.FadeDelay < 0 {
		return fmt.Errorf("FadeDelay must be non-negative, got %f", c.FadeDelay)
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers must be non-negative, got %d", c.Workers)
	}
	if c.QueryLimit < 0 {
		return fmt.Errorf("QueryLimit must be non-negative, got %d", c.QueryLimit)
	}
	if c.SliceBias < 0 {
		return fmt.Errorf("SliceBias must be non-negative, got %f", c.SliceBias)
	}
	if c.RadiusBiasScale < 0 {
		return fmt.Errorf("RadiusBiasScale must be non-negative, got %f", c.RadiusBiasScale)
	}
	return nil
}

// WithCellSize sets the horizontal cell size.
func (c *Config) WithCellSize(size float64) *Config {
	c.HorizontalCellSize = size
	return c
}

// WithVerticalCellSize sets the vertical band height.
func (c *Config) WithVerticalCellSize(size float64) *Config {
	c.VerticalCellSize = size
	return c
}

// WithTeams sets the number of team grids.
func (c *Config) WithTeams(n int) *Config {
	c.NumTeams = n
	return c
}

// WithFade sets the fade rate and fade delay, both in seconds.
func (c *Config) WithFade(rate, delay float64) *Config {
	c.FadeRate = rate
	c.FadeDelay = delay
	return c
}

// WithWorkers sets the solve concurrency.
func (c *Config) WithWorkers(n int) *Config {
	c.Workers = n
	return c
}

// WithQueryLimit sets the per-query result cap.
func (c *Config) WithQueryLimit(n int) *Config {
	c.QueryLimit = n
	return c
}

// WithSafetyChecks enables or disables runtime argument checks.
func (c *Config) WithSafetyChecks(enabled bool) *Config {
	c.SafetyChecks = enabled
	return c
}

// WithClock sets the clock used to time solves.
func (c *Config) WithClock(clock timeutil.Clock) *Config {
	c.Clock = clock
	return c
}

// WithExactRadiusOcclusion selects grid clipping for radius occluders.
func (c *Config) WithExactRadiusOcclusion(enabled bool) *Config {
	c.ExactRadiusOcclusion = enabled
	return c
}
