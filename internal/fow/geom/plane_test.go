package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

const eps = 1e-9

func TestNewPlaneFromPoints_NormalIsLeftPerpendicular(t *testing.T) {
	t.Parallel()

	pl := NewPlaneFromPoints(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0})
	assert.InDelta(t, 0, pl.Normal.X, eps)
	assert.InDelta(t, 1, pl.Normal.Y, eps)
	assert.InDelta(t, 0, pl.Distance, eps)

	assert.True(t, pl.PointInFront(r2.Vec{X: 5, Y: 1}))
	assert.False(t, pl.PointInFront(r2.Vec{X: 5, Y: -1}))
	assert.True(t, pl.PointInFront(r2.Vec{X: 5, Y: 0}), "points on the plane count as in front")
}

func TestPlane2D_DistanceFrom(t *testing.T) {
	t.Parallel()

	pl := NewPlaneFromPointNormal(r2.Vec{X: 3, Y: 0}, r2.Vec{X: 1, Y: 0})
	assert.InDelta(t, 3, pl.Distance, eps)
	assert.InDelta(t, 2, pl.DistanceFrom(r2.Vec{X: 5, Y: 7}), eps)
	assert.InDelta(t, -3, pl.DistanceFrom(r2.Vec{}), eps)

	same := NewPlane(3, r2.Vec{X: 1, Y: 0})
	assert.Equal(t, pl, same)
}

func TestPlane2D_RayAndLineParameters(t *testing.T) {
	t.Parallel()

	pl := NewPlaneFromPointNormal(r2.Vec{X: 4, Y: 0}, r2.Vec{X: 1, Y: 0})

	tRay := pl.DistanceFromRay(r2.Vec{}, r2.Vec{X: 1, Y: 0})
	assert.InDelta(t, 4, tRay, eps)

	diag := r2.Unit(r2.Vec{X: 1, Y: 1})
	assert.InDelta(t, 4*math.Sqrt2, pl.DistanceFromRay(r2.Vec{}, diag), 1e-9)

	tLine := pl.DistanceFromLineStart(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 8, Y: 8})
	assert.InDelta(t, 0.5, tLine, eps)
}

func TestPlane2D_ParallelRayIsUnguarded(t *testing.T) {
	t.Parallel()

	pl := NewPlaneFromPointNormal(r2.Vec{X: 4, Y: 0}, r2.Vec{X: 1, Y: 0})
	got := pl.DistanceFromRay(r2.Vec{}, r2.Vec{X: 0, Y: 1})
	assert.True(t, math.IsInf(got, 1), "parallel ray divides by zero, got %v", got)
}

func TestNewPlaneFromPoints_DegenerateSegmentIsNaN(t *testing.T) {
	t.Parallel()

	p := r2.Vec{X: 2, Y: 2}
	pl := NewPlaneFromPoints(p, p)
	assert.True(t, math.IsNaN(pl.Normal.X))
	assert.True(t, math.IsNaN(pl.Normal.Y))
	assert.True(t, math.IsNaN(pl.DistanceFrom(r2.Vec{})))
}

func TestInsideConvex(t *testing.T) {
	t.Parallel()

	square := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	planes := ConvexPlanes(square, nil)
	assert.Len(t, planes, 4)

	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{"centre", r2.Vec{X: 1, Y: 1}, true},
		{"edge", r2.Vec{X: 2, Y: 1}, true},
		{"outside right", r2.Vec{X: 3, Y: 1}, false},
		{"outside below", r2.Vec{X: 1, Y: -0.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsideConvex(planes, tt.p))
		})
	}
}

func TestConvexPlanes_SkipsCoincidentVertices(t *testing.T) {
	t.Parallel()

	tri := []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	planes := ConvexPlanes(tri, nil)
	assert.Len(t, planes, 3)
	for _, pl := range planes {
		assert.False(t, math.IsNaN(pl.Distance))
	}
}
