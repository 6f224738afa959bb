package fow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/fogofwar/internal/config"
)

func TestConfigFromTuning_Defaults(t *testing.T) {
	cfg := ConfigFromTuning(config.EmptyTuningConfig())

	assert.Equal(t, 64.0, cfg.HorizontalCellSize)
	assert.Equal(t, 0.0, cfg.VerticalCellSize)
	assert.Equal(t, 1, cfg.NumTeams)
	assert.Equal(t, 1.0, cfg.FadeRate)
	assert.Equal(t, 2.0, cfg.FadeDelay)
	assert.Equal(t, 256, cfg.QueryLimit)
	assert.False(t, cfg.SafetyChecks)
	assert.False(t, cfg.ExactRadiusOcclusion)
	assert.Equal(t, 0.1, cfg.SliceBias)
	assert.Equal(t, 1.1, cfg.RadiusBiasScale)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfig_MatchesBuiltins(t *testing.T) {
	assert.Equal(t, ConfigFromTuning(config.EmptyTuningConfig()), DefaultConfig())
}

func TestConfig_Builders(t *testing.T) {
	cfg := DefaultConfig().
		WithCellSize(32).
		WithVerticalCellSize(16).
		WithTeams(4).
		WithFade(0.5, 3).
		WithWorkers(2).
		WithQueryLimit(8).
		WithSafetyChecks(true).
		WithExactRadiusOcclusion(true)

	assert.Equal(t, 32.0, cfg.HorizontalCellSize)
	assert.Equal(t, 16.0, cfg.VerticalCellSize)
	assert.Equal(t, 4, cfg.NumTeams)
	assert.Equal(t, 0.5, cfg.FadeRate)
	assert.Equal(t, 3.0, cfg.FadeDelay)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 8, cfg.QueryLimit)
	assert.True(t, cfg.SafetyChecks)
	assert.True(t, cfg.ExactRadiusOcclusion)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero cell", func(c *Config) { c.HorizontalCellSize = 0 }},
		{"negative vertical", func(c *Config) { c.VerticalCellSize = -1 }},
		{"no teams", func(c *Config) { c.NumTeams = 0 }},
		{"too many teams", func(c *Config) { c.NumTeams = MaxTeams + 1 }},
		{"zero fade rate", func(c *Config) { c.FadeRate = 0 }},
		{"negative fade delay", func(c *Config) { c.FadeDelay = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative query limit", func(c *Config) { c.QueryLimit = -1 }},
		{"negative slice bias", func(c *Config) { c.SliceBias = -0.1 }},
		{"negative radius bias", func(c *Config) { c.RadiusBiasScale = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			assert.Error(t, cfg.Validate())

			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestHeightGroupFlags(t *testing.T) {
	fl := withHeightGroup(FlagVisible|FlagWasVisible, 5)
	assert.Equal(t, 5, HeightGroupFromFlags(fl))
	assert.Equal(t, FlagVisible|FlagWasVisible, fl&(FlagVisible|FlagWasVisible))

	fl = withHeightGroup(fl, 2)
	assert.Equal(t, 2, HeightGroupFromFlags(fl))
	assert.Equal(t, MaxHeightGroup, HeightGroupFromFlags(withHeightGroup(0, MaxHeightGroup)))
}

func TestOccludesHeightRule(t *testing.T) {
	tests := []struct {
		viewer, occluder int
		want             bool
	}{
		{0, 0, true},
		{0, 5, true},
		{5, 0, true},
		{1, 2, true},
		{2, 2, true},
		{2, 1, false},
		{7, 6, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, occludes(tt.viewer, tt.occluder), "viewer %d occluder %d", tt.viewer, tt.occluder)
	}
}
