package fow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRadiusTable_Memoized(t *testing.T) {
	f := newTestFoW(t, nil)

	a := f.FindRadiusTable(256)
	b := f.FindRadiusTable(256)
	require.Same(t, a, b, "same radius must return the cached table")
	assert.Equal(t, 1, f.RadiusTableCount())

	c := f.FindRadiusTable(128)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, f.RadiusTableCount())
}

func TestFindRadiusTable_SharedByViewers(t *testing.T) {
	f := newTestFoW(t, nil)

	v1, err := f.AddViewer(0, at(0, 0), 256)
	require.NoError(t, err)
	v2, err := f.AddViewer(0, at(200, 200), 256)
	require.NoError(t, err)

	assert.Same(t, internalViewer(t, f, v1).table, internalViewer(t, f, v2).table)
	assert.Equal(t, 1, f.RadiusTableCount())
}

func TestRadiusTable_Shape(t *testing.T) {
	tbl := newRadiusTable(256, 64)

	// 2*256/64 = 8, forced odd.
	assert.Equal(t, 9, tbl.Size)
	// ceil(2*pi*256/64) = 26, forced odd.
	assert.Equal(t, 27, tbl.Buckets)
	assert.Len(t, tbl.Cells, 81)
	assert.Len(t, tbl.Directions, 27)

	assert.Equal(t, int32(0), tbl.Bucket(0, 0), "centre cell")
	assert.Equal(t, 0.0, tbl.Dist2[4*9+4])

	assert.Equal(t, OutsideCircle, tbl.Bucket(-4, -4), "corner lies outside the circle")
	assert.Equal(t, int32(0), tbl.Bucket(4, 0), "cell on the radius is inside")
	assert.Equal(t, int32(6), tbl.Bucket(0, 4), "quarter turn")
	assert.Equal(t, OutsideCircle, tbl.Bucket(5, 0), "beyond the table")
}

func TestRadiusTable_TinyRadius(t *testing.T) {
	tbl := newRadiusTable(10, 64)

	assert.Equal(t, 1, tbl.Size)
	assert.Equal(t, 1, tbl.Buckets)
	assert.Equal(t, int32(0), tbl.Bucket(0, 0))
}

func TestRadiusTable_Symmetric(t *testing.T) {
	tbl := newRadiusTable(300, 64)
	half := tbl.Size / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			inside := tbl.Bucket(dx, dy) != OutsideCircle
			assert.Equal(t, inside, tbl.Bucket(-dx, -dy) != OutsideCircle, "offset %d,%d", dx, dy)
			assert.Equal(t, inside, tbl.Bucket(dy, dx) != OutsideCircle, "offset %d,%d", dx, dy)
		}
	}
}
