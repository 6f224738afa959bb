package fow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/fogofwar/internal/fow/debug"
)

func drawFrame(f *FoW) *debug.DebugFrame {
	c := debug.NewDebugCollector()
	c.SetEnabled(true)
	c.BeginFrame(1)
	f.DrawDebug(c)
	return c.Emit()
}

func TestDrawDebug(t *testing.T) {
	f := newTestFoW(t, nil)
	require.NoError(t, f.SetVerticalGridSize(64))
	vid, err := f.AddViewer(0, at(32, 32), 320)
	require.NoError(t, err)
	oid, err := f.AddOccluder(at(-160, 32), 40, 0)
	require.NoError(t, err)
	addWall(t, f, 160, -100, 164)
	f.SolveVisibility(0.1)

	assert.Empty(t, drawFrame(f).Lines, "drawing is off by default")

	f.SetDebugVisibility(DebugOccluders | DebugViewers)
	frame := drawFrame(f)
	require.Len(t, frame.Spheres, 2)
	assert.Equal(t, colorOccluder, frame.Spheres[0].Color)
	assert.Equal(t, 40.0, frame.Spheres[0].Radius)
	assert.Equal(t, colorViewer, frame.Spheres[1].Color)
	assert.Empty(t, frame.Lines)
	assert.Empty(t, frame.Boxes)

	require.NoError(t, f.EnableOccluder(oid, false))
	assert.Equal(t, colorDisabled, drawFrame(f).Spheres[0].Color)

	f.SetDebugVisibility(DebugTriSoup)
	assert.Len(t, drawFrame(f).Lines, 2*8, "segment and normal tick per line occluder")

	f.SetDebugVisibility(DebugRadial)
	v := internalViewer(t, f, vid)
	assert.Len(t, drawFrame(f).Lines, v.table.Buckets)

	f.SetDebugVisibility(DebugGrid)
	snap, err := f.TeamGrid(0)
	require.NoError(t, err)
	marked := 0
	for _, fl := range snap.Flags {
		if fl&(FlagVisible|FlagWasVisible) != 0 {
			marked++
		}
	}
	require.Positive(t, marked)
	frame = drawFrame(f)
	assert.Len(t, frame.Boxes, marked)
	for _, b := range frame.Boxes {
		assert.Equal(t, testCell, b.Maxs.X-b.Mins.X)
	}
}

func TestSetDebugTeam(t *testing.T) {
	f := newTestFoW(t, nil)
	require.NoError(t, f.SetNumberOfTeams(2))
	assert.NoError(t, f.SetDebugTeam(1))
	assert.ErrorIs(t, f.SetDebugTeam(2), ErrTeamOutOfRange)
}
