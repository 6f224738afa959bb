package fow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// heightField answers box casts from a fixed table of column heights keyed
// by cell centre.
type heightField struct {
	heights map[[2]float64]float64
	casts   int
	box     r3.Vec
}

func (h *heightField) TraceBox(start, end, mins, maxs r3.Vec) TraceResult {
	h.casts++
	h.box = maxs
	z, ok := h.heights[[2]float64{start.X, start.Y}]
	if !ok {
		return TraceResult{Fraction: 1, EndPos: end}
	}
	frac := (start.Z - z) / (start.Z - end.Z)
	return TraceResult{Hit: true, Fraction: frac, EndPos: r3.Vec{X: start.X, Y: start.Y, Z: z}}
}

func TestSeedOccludersFromWorld(t *testing.T) {
	logs := captureLogs(t)
	f := newTestFoW(t, nil)
	field := &heightField{heights: map[[2]float64]float64{
		{160, 32}:   200,
		{-224, -224}: 8,
		{-96, 288}:  40,
	}}

	n, err := f.SeedOccludersFromWorld(field, SeedOptions{MinBlockHeight: 16})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "the 8 unit bump is below the block height")
	assert.Equal(t, 16*16, field.casts)
	assert.Equal(t, r3.Vec{X: 16, Y: 16}, field.box)
	assert.NotEmpty(t, logs())

	byX := map[float64]OccluderInfo{}
	for _, id := range f.Occluders() {
		info, err := f.Occluder(id)
		require.NoError(t, err)
		byX[info.Location.X] = info
	}
	tall := byX[160]
	assert.Equal(t, r3.Vec{X: 160, Y: 32, Z: 200}, tall.Location)
	assert.Equal(t, 32.0, tall.Radius)
	assert.Equal(t, 6, tall.HeightGroup)
	assert.True(t, tall.Enabled)
	assert.Equal(t, 1, byX[-96].HeightGroup)
}

func TestSeedOccludersFromWorld_RadiusScale(t *testing.T) {
	f := newTestFoW(t, nil)
	field := &heightField{heights: map[[2]float64]float64{{32, 32}: 100}}
	n, err := f.SeedOccludersFromWorld(field, SeedOptions{RadiusScale: 0.5})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	info, err := f.Occluder(f.Occluders()[0])
	require.NoError(t, err)
	assert.Equal(t, 16.0, info.Radius)
}

func TestSeedOccludersFromWorld_NotSized(t *testing.T) {
	f, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = f.SeedOccludersFromWorld(&heightField{}, SeedOptions{})
	assert.ErrorIs(t, err, ErrNotSized)
}

func TestHeightGroupForZ(t *testing.T) {
	f := newTestFoW(t, nil)
	assert.Equal(t, 0, f.heightGroupForZ(-10))
	assert.Equal(t, 0, f.heightGroupForZ(0))
	assert.Equal(t, 4, f.heightGroupForZ(128))
	assert.Equal(t, MaxHeightGroup, f.heightGroupForZ(256))
	assert.Equal(t, MaxHeightGroup, f.heightGroupForZ(1000))
}
