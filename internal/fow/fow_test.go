package fow

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
)

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), f.Config())
	assert.Equal(t, 1, f.GetNumberOfTeams())
}

func TestFoW_RequiresSize(t *testing.T) {
	f, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = f.AddViewer(0, at(0, 0), 100)
	assert.ErrorIs(t, err, ErrNotSized)
	_, err = f.AddOccluder(at(0, 0), 10, 0)
	assert.ErrorIs(t, err, ErrNotSized)
	_, err = f.AddTriSoupOccluder()
	assert.ErrorIs(t, err, ErrNotSized)
	_, err = f.GetLocationInfo(0, at(0, 0))
	assert.ErrorIs(t, err, ErrNotSized)
	assert.ErrorIs(t, f.SetVerticalGridSize(64), ErrNotSized)
	assert.Equal(t, SolveStats{}, f.SolveVisibility(1))
}

func TestSetSize(t *testing.T) {
	f := newTestFoW(t, nil)

	x, y := f.GetGridUnits()
	assert.Equal(t, 16, x)
	assert.Equal(t, 16, y)
	assert.Equal(t, testMins, f.GetLowerBoundCoordinates())
	assert.Equal(t, testMaxs, f.GetUpperBoundCoordinates())
	assert.Equal(t, 64.0, f.GetHorizontalCellSize())

	// Partial cells round up.
	require.NoError(t, f.SetSize(r3.Vec{}, r3.Vec{X: 100, Y: 65}, 64))
	x, y = f.GetGridUnits()
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)

	// Non-positive cell size keeps the configured one.
	require.NoError(t, f.SetSize(r3.Vec{}, r3.Vec{X: 640, Y: 640}, 0))
	assert.Equal(t, DefaultConfig().HorizontalCellSize, f.GetHorizontalCellSize())

	assert.Error(t, f.SetSize(r3.Vec{X: 10}, r3.Vec{X: 10, Y: 10}, 64), "empty extent")
}

func TestSetSize_RejectsNonFiniteInput(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name       string
		mins, maxs r3.Vec
		cell       float64
	}{
		{"NaN cell size", testMins, testMaxs, math.NaN()},
		{"Inf cell size", testMins, testMaxs, inf},
		{"Inf max bound", testMins, r3.Vec{X: inf, Y: 1024, Z: 256}, 64},
		{"Inf min bound", r3.Vec{X: -inf}, testMaxs, 64},
		{"NaN bound", r3.Vec{Z: math.NaN()}, testMaxs, 64},
		{"too many cells", r3.Vec{}, r3.Vec{X: 1e6, Y: 1e6}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(DefaultConfig())
			require.NoError(t, err)
			assert.Error(t, f.SetSize(tt.mins, tt.maxs, tt.cell))

			_, err = f.GetLocationInfo(0, r3.Vec{})
			assert.ErrorIs(t, err, ErrNotSized)
		})
	}
}

func TestSetSize_RejectedOncePopulated(t *testing.T) {
	f := newTestFoW(t, nil)
	_, err := f.AddOccluder(at(0, 0), 10, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, f.SetSize(testMins, testMaxs, 32), ErrAlreadySized)
}

func TestCenterCoordinates(t *testing.T) {
	f := newTestFoW(t, nil)

	assert.Equal(t, r3.Vec{X: 32, Y: 32, Z: 7}, f.CenterCoordinates(r3.Vec{X: 1, Y: 63.9, Z: 7}))
	assert.Equal(t, r3.Vec{X: -32, Y: -480}, f.CenterCoordinates(r3.Vec{X: -0.5, Y: -511}))
	// Outside the world clamps to the edge cell.
	assert.Equal(t, r3.Vec{X: 480, Y: -480}, f.CenterCoordinates(r3.Vec{X: 5000, Y: -5000}))
}

func TestViewerAtWorldMaxClampsToLastColumn(t *testing.T) {
	f := newTestFoW(t, nil)

	id, err := f.AddViewer(0, at(testMaxs.X, 0), 128)
	require.NoError(t, err)

	info, err := f.Viewer(id)
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 480, Y: 32}, info.GridLocation)

	v := internalViewer(t, f, id)
	assert.Equal(t, 15, v.cellX)

	f.SolveVisibility(0.1)

	loc, err := f.GetLocationInfo(0, at(testMaxs.X, 0))
	require.NoError(t, err)
	assert.Equal(t, 15, loc.CellX)
	assert.True(t, loc.Visible())
}

func TestTeams(t *testing.T) {
	f := newTestFoW(t, nil)

	_, err := f.AddViewer(1, at(0, 0), 100)
	assert.ErrorIs(t, err, ErrTeamOutOfRange)
	_, err = f.AddViewer(-1, at(0, 0), 100)
	assert.ErrorIs(t, err, ErrTeamOutOfRange)

	assert.ErrorIs(t, f.SetNumberOfTeams(0), ErrTeamOutOfRange)
	assert.ErrorIs(t, f.SetNumberOfTeams(MaxTeams+1), ErrTeamOutOfRange)

	require.NoError(t, f.SetNumberOfTeams(3))
	assert.Equal(t, 3, f.GetNumberOfTeams())
	_, err = f.AddViewer(2, at(0, 0), 100)
	require.NoError(t, err)

	assert.ErrorIs(t, f.SetNumberOfTeams(2), ErrTeamOutOfRange, "team 2 still has a viewer")

	f.SolveVisibility(0.5)
	assert.True(t, f.IsLocationVisible(2, at(0, 0)))
	assert.False(t, f.IsLocationVisible(0, at(0, 0)), "teams are independent")
	assert.False(t, f.IsLocationVisible(7, at(0, 0)), "invalid team reports false")
	assert.Equal(t, 0.0, f.GetLocationVisibilityDegree(7, at(0, 0)))

	_, err = f.TeamGrid(3)
	assert.ErrorIs(t, err, ErrTeamOutOfRange)
}

func TestStaleIDs(t *testing.T) {
	f := newTestFoW(t, nil)

	v1, err := f.AddViewer(0, at(0, 0), 100)
	require.NoError(t, err)
	require.NoError(t, f.RemoveViewer(v1))

	err = f.RemoveViewer(v1)
	assert.ErrorIs(t, err, arena.ErrStaleID)

	// The slot is reused with a new generation.
	v2, err := f.AddViewer(0, at(100, 0), 100)
	require.NoError(t, err)
	assert.Equal(t, v1.Index, v2.Index)
	assert.NotEqual(t, v1, v2)

	assert.ErrorIs(t, f.UpdateViewerLocation(v1, at(0, 0)), arena.ErrStaleID)
	assert.ErrorIs(t, f.UpdateViewerSize(v1, 50), arena.ErrStaleID)
	assert.ErrorIs(t, f.UpdateViewerHeightGroup(v1, 1), arena.ErrStaleID)
	_, err = f.Viewer(v1)
	assert.ErrorIs(t, err, arena.ErrStaleID)

	info, err := f.Viewer(v2)
	require.NoError(t, err)
	assert.Equal(t, at(100, 0), info.Location)

	o, err := f.AddOccluder(at(0, 0), 10, 0)
	require.NoError(t, err)
	require.NoError(t, f.RemoveOccluder(o))
	assert.ErrorIs(t, f.RemoveOccluder(o), arena.ErrStaleID)
	assert.ErrorIs(t, f.EnableOccluder(o, false), arena.ErrStaleID)
	assert.ErrorIs(t, f.UpdateOccluderLocation(o, at(1, 1)), arena.ErrStaleID)
	assert.ErrorIs(t, f.UpdateOccluderSize(o, 5), arena.ErrStaleID)
	assert.ErrorIs(t, f.UpdateOccluderHeightGroup(o, 1), arena.ErrStaleID)

	s, err := f.AddTriSoupOccluder()
	require.NoError(t, err)
	require.NoError(t, f.RemoveTriSoupOccluder(s))
	_, err = f.AddTri(s, at(0, 0), at(1, 0), at(0, 1))
	assert.ErrorIs(t, err, arena.ErrStaleID)
	assert.ErrorIs(t, f.RemoveTriSoupOccluder(s), arena.ErrStaleID)
}

func TestRadiusAndHeightGroupValidation(t *testing.T) {
	f := newTestFoW(t, nil)

	_, err := f.AddViewer(0, at(0, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidRadius)
	_, err = f.AddOccluder(at(0, 0), -5, 0)
	assert.ErrorIs(t, err, ErrInvalidRadius)
	_, err = f.AddOccluder(at(0, 0), 5, MaxHeightGroup+1)
	assert.ErrorIs(t, err, ErrInvalidHeightGroup)

	id, err := f.AddViewer(0, at(0, 0), 100)
	require.NoError(t, err)
	assert.ErrorIs(t, f.UpdateViewerHeightGroup(id, -1), ErrInvalidHeightGroup)
	assert.ErrorIs(t, f.UpdateViewerSize(id, 0), ErrInvalidRadius)

	// Without safety checks tiny radii and out of bounds locations are used
	// as given, clamped into the grid.
	out, err := f.AddViewer(0, at(9000, 9000), 0.001)
	require.NoError(t, err)
	info, err := f.Viewer(out)
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 480, Y: 480}, info.GridLocation)
}

func TestSafetyChecks(t *testing.T) {
	f := newTestFoW(t, DefaultConfig().WithSafetyChecks(true))

	_, err := f.AddViewer(0, at(9000, 0), 100)
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = f.AddViewer(0, at(0, 0), 0.001)
	assert.ErrorIs(t, err, ErrInvalidRadius)
	_, err = f.AddOccluder(r3.Vec{Z: -1}, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	id, err := f.AddViewer(0, at(0, 0), 100)
	require.NoError(t, err)
	assert.ErrorIs(t, f.UpdateViewerLocation(id, at(0, 600)), ErrInvalidLocation)

	info, err := f.Viewer(id)
	require.NoError(t, err)
	assert.Equal(t, at(0, 0), info.Location, "rejected update leaves state untouched")
	assert.Equal(t, 1, f.Stats().Viewers)
}

func TestVerticalBands(t *testing.T) {
	f := newTestFoW(t, nil)
	assert.Equal(t, 0, f.GetVerticalGridInfo().Bands)
	assert.Equal(t, -1, f.bandFor(10))

	require.NoError(t, f.SetVerticalGridSize(64))
	info := f.GetVerticalGridInfo()
	assert.Equal(t, []float64{0, 64, 128, 192, 256}, info.Levels)
	assert.Equal(t, 4, info.Bands)

	tests := []struct {
		z    float64
		want int
	}{
		{-1, -1},
		{0, 0},
		{63.9, 0},
		{64, 1},
		{200, 3},
		{256, 3},
		{256.1, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.bandFor(tt.z), "z=%v", tt.z)
	}

	// Uneven heights keep the top boundary.
	require.NoError(t, f.SetVerticalGridSize(100))
	assert.Equal(t, []float64{0, 100, 200, 256}, f.GetVerticalGridInfo().Levels)

	require.NoError(t, f.SetCustomVerticalLevels([]float64{0, 16, 200}))
	assert.Equal(t, 2, f.GetVerticalGridInfo().Bands)
	assert.Error(t, f.SetCustomVerticalLevels([]float64{0, 10, 5}))
	assert.Error(t, f.SetCustomVerticalLevels([]float64{0}))

	require.NoError(t, f.SetVerticalGridSize(0))
	assert.Equal(t, 0, f.GetVerticalGridInfo().Bands)
}

func TestConfiguredVerticalCellSize(t *testing.T) {
	f := newTestFoW(t, DefaultConfig().WithVerticalCellSize(128))
	assert.Equal(t, []float64{0, 128, 256}, f.GetVerticalGridInfo().Levels)
}

func TestReset(t *testing.T) {
	f := newTestFoW(t, nil)
	v, err := f.AddViewer(0, at(0, 0), 200)
	require.NoError(t, err)
	_, err = f.AddOccluder(at(100, 0), 20, 0)
	require.NoError(t, err)
	_, err = f.AddTriSoupOccluder()
	require.NoError(t, err)
	f.SolveVisibility(1)

	f.Reset()

	assert.Equal(t, 0, f.RadiusTableCount())
	assert.Equal(t, Stats{Teams: 1}, f.Stats())
	_, err = f.Viewer(v)
	assert.True(t, errors.Is(err, arena.ErrStaleID))
	_, err = f.AddViewer(0, at(0, 0), 200)
	assert.ErrorIs(t, err, ErrNotSized)

	require.NoError(t, f.SetSize(testMins, testMaxs, testCell))
	_, err = f.AddViewer(0, at(0, 0), 200)
	require.NoError(t, err)
	assert.False(t, f.IsLocationVisible(0, at(0, 0)), "grids start unseen")
}

func TestViewerAndOccluderListing(t *testing.T) {
	f := newTestFoW(t, nil)
	v1, _ := f.AddViewer(0, at(0, 0), 100)
	v2, _ := f.AddViewer(0, at(64, 0), 100)
	o1, _ := f.AddOccluder(at(100, 100), 10, 3)
	s1, _ := f.AddTriSoupOccluder()

	assert.Equal(t, []ViewerID{v1, v2}, f.Viewers())
	assert.Equal(t, []OccluderID{o1}, f.Occluders())
	assert.Equal(t, []TriSoupID{s1}, f.TriSoups())

	info, err := f.Occluder(o1)
	require.NoError(t, err)
	assert.Equal(t, OccluderInfo{ID: o1, Location: at(100, 100), Radius: 10, HeightGroup: 3, Enabled: true}, info)
	assert.Contains(t, v1.String(), "viewer")
	assert.Contains(t, o1.String(), "occluder")
	assert.Contains(t, s1.String(), "trisoup")
}
