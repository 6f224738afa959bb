package fow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
)

var (
	testMins = r3.Vec{X: -512, Y: -512, Z: 0}
	testMaxs = r3.Vec{X: 512, Y: 512, Z: 256}
)

const testCell = 64.0

// newTestFoW returns a 1024x1024 world with 64 unit cells.
func newTestFoW(t *testing.T, cfg *Config) *FoW {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	f, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, f.SetSize(testMins, testMaxs, testCell))
	return f
}

func internalViewer(t *testing.T, f *FoW, id ViewerID) *Viewer {
	t.Helper()
	v, ok := f.viewers.Get(arena.ID(id))
	require.True(t, ok, "viewer %s", id)
	return v
}

func internalOccluder(t *testing.T, f *FoW, id OccluderID) *RadiusOccluder {
	t.Helper()
	o, ok := f.occluders.Get(arena.ID(id))
	require.True(t, ok, "occluder %s", id)
	return o
}

// at returns a point on the ground.
func at(x, y float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: 10} }

func rawDegrees(f *FoW, team int) []float64 {
	return append([]float64(nil), f.teams[team].degree...)
}
