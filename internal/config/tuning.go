// Package config loads the visibility engine tuning file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root tuning document. Every field is optional; the
// Get* accessors fall back to built-in defaults for omitted fields, so
// partial files are safe.
type TuningConfig struct {
	// Grid
	HorizontalCellSize *float64 `json:"horizontal_cell_size,omitempty" yaml:"horizontal_cell_size,omitempty"`
	VerticalCellSize   *float64 `json:"vertical_cell_size,omitempty" yaml:"vertical_cell_size,omitempty"`
	NumTeams           *int     `json:"num_teams,omitempty" yaml:"num_teams,omitempty"`

	// Fading
	FadeRateSeconds  *float64 `json:"fade_rate_seconds,omitempty" yaml:"fade_rate_seconds,omitempty"`
	FadeDelaySeconds *float64 `json:"fade_delay_seconds,omitempty" yaml:"fade_delay_seconds,omitempty"`

	// Solve
	Workers              *int  `json:"workers,omitempty" yaml:"workers,omitempty"`
	QueryLimit           *int  `json:"query_limit,omitempty" yaml:"query_limit,omitempty"`
	SafetyChecks         *bool `json:"safety_checks,omitempty" yaml:"safety_checks,omitempty"`
	ExactRadiusOcclusion *bool `json:"exact_radius_occlusion,omitempty" yaml:"exact_radius_occlusion,omitempty"`

	// Occluder geometry
	SliceBias       *float64 `json:"slice_bias,omitempty" yaml:"slice_bias,omitempty"`
	RadiusBiasScale *float64 `json:"radius_bias_scale,omitempty" yaml:"radius_bias_scale,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset, so all
// accessors report defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a .json, .yaml or .yml file of
// at most 1MB and validates it.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics when the
// file cannot be found, so it is intended for tests and tool start-up.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks the fields that are set.
func (c *TuningConfig) Validate() error {
	if c.HorizontalCellSize != nil && *c.HorizontalCellSize <= 0 {
		return fmt.Errorf("horizontal_cell_size must be positive, got %f", *c.HorizontalCellSize)
	}
	if c.VerticalCellSize != nil && *c.VerticalCellSize < 0 {
		return fmt.Errorf("vertical_cell_size must be non-negative, got %f", *c.VerticalCellSize)
	}
	if c.NumTeams != nil && (*c.NumTeams < 1 || *c.NumTeams > 8) {
		return fmt.Errorf("num_teams must be in [1, 8], got %d", *c.NumTeams)
	}
	if c.FadeRateSeconds != nil && *c.FadeRateSeconds <= 0 {
		return fmt.Errorf("fade_rate_seconds must be positive, got %f", *c.FadeRateSeconds)
	}
	if c.FadeDelaySeconds != nil && *c.FadeDelaySeconds < 0 {
		return fmt.Errorf("fade_delay_seconds must be non-negative, got %f", *c.FadeDelaySeconds)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.QueryLimit != nil && *c.QueryLimit < 0 {
		return fmt.Errorf("query_limit must be non-negative, got %d", *c.QueryLimit)
	}
	if c.SliceBias != nil && *c.SliceBias < 0 {
		return fmt.Errorf("slice_bias must be non-negative, got %f", *c.SliceBias)
	}
	if c.RadiusBiasScale != nil && *c.RadiusBiasScale < 0 {
		return fmt.Errorf("radius_bias_scale must be non-negative, got %f", *c.RadiusBiasScale)
	}
	return nil
}

// GetHorizontalCellSize returns the horizontal_cell_size value or the default.
func (c *TuningConfig) GetHorizontalCellSize() float64 {
	if c.HorizontalCellSize == nil {
		return 64
	}
	return *c.HorizontalCellSize
}

// GetVerticalCellSize returns the vertical_cell_size value or the default
// (0, no vertical bands).
func (c *TuningConfig) GetVerticalCellSize() float64 {
	if c.VerticalCellSize == nil {
		return 0
	}
	return *c.VerticalCellSize
}

// GetNumTeams returns the num_teams value or the default.
func (c *TuningConfig) GetNumTeams() int {
	if c.NumTeams == nil {
		return 1
	}
	return *c.NumTeams
}

// GetFadeRateSeconds returns the fade_rate_seconds value or the default.
func (c *TuningConfig) GetFadeRateSeconds() float64 {
	if c.FadeRateSeconds == nil {
		return 1.0
	}
	return *c.FadeRateSeconds
}

// GetFadeDelaySeconds returns the fade_delay_seconds value or the default.
func (c *TuningConfig) GetFadeDelaySeconds() float64 {
	if c.FadeDelaySeconds == nil {
		return 2.0
	}
	return *c.FadeDelaySeconds
}

// GetWorkers returns the workers value or the default (0, one per CPU).
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetQueryLimit returns the query_limit value or the default.
func (c *TuningConfig) GetQueryLimit() int {
	if c.QueryLimit == nil {
		return 256
	}
	return *c.QueryLimit
}

// GetSafetyChecks returns the safety_checks value or the default.
func (c *TuningConfig) GetSafetyChecks() bool {
	if c.SafetyChecks == nil {
		return false
	}
	return *c.SafetyChecks
}

// GetExactRadiusOcclusion returns the exact_radius_occlusion value or the default.
func (c *TuningConfig) GetExactRadiusOcclusion() bool {
	if c.ExactRadiusOcclusion == nil {
		return false
	}
	return *c.ExactRadiusOcclusion
}

// GetSliceBias returns the slice_bias value or the default.
func (c *TuningConfig) GetSliceBias() float64 {
	if c.SliceBias == nil {
		return 0.1
	}
	return *c.SliceBias
}

// GetRadiusBiasScale returns the radius_bias_scale value or the default.
func (c *TuningConfig) GetRadiusBiasScale() float64 {
	if c.RadiusBiasScale == nil {
		return 1.1
	}
	return *c.RadiusBiasScale
}
