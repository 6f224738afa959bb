package fow

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/fogofwar/internal/fow/geom"
)

// OutsideCircle marks radius table cells that lie beyond the radius.
const OutsideCircle int32 = -1

// RadiusTable maps the cells of a viewer's local grid onto angular buckets
// for one radius. It also defines how the vision circle is rasterised.
// Tables are immutable once built and shared by every viewer of the same
// radius.
type RadiusTable struct {
	Radius  float64
	Size    int // local grid side, always odd
	Buckets int // angular buckets, always odd

	// Cells holds the bucket of each local cell, row-major with the centre
	// cell at (Size/2, Size/2), or OutsideCircle.
	Cells []int32
	// Dist2 is the squared distance of each local cell centre from the
	// centre cell.
	Dist2 []float64
	// Directions is the unit ray through the middle of each bucket.
	Directions []r2.Vec
}

func newRadiusTable(radius, cellSize float64) *RadiusTable {
	size := int(2 * radius / cellSize)
	if size%2 == 0 {
		size++
	}
	buckets := int(math.Ceil(2 * math.Pi * radius / cellSize))
	if buckets%2 == 0 {
		buckets++
	}

	t := &RadiusTable{
		Radius:     radius,
		Size:       size,
		Buckets:    buckets,
		Cells:      make([]int32, size*size),
		Dist2:      make([]float64, size*size),
		Directions: geom.BucketDirections(buckets),
	}

	half := size / 2
	r2max := radius * radius
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			off := r2.Vec{X: float64(i-half) * cellSize, Y: float64(j-half) * cellSize}
			idx := j*size + i
			d2 := r2.Norm2(off)
			t.Dist2[idx] = d2
			if d2 > r2max {
				t.Cells[idx] = OutsideCircle
				continue
			}
			t.Cells[idx] = int32(geom.BucketForBearing(geom.Bearing(off), buckets))
		}
	}
	return t
}

// Bucket returns the bucket for the cell offset (dx, dy) from the centre,
// or OutsideCircle for offsets beyond the table.
func (t *RadiusTable) Bucket(dx, dy int) int32 {
	half := t.Size / 2
	i, j := dx+half, dy+half
	if i < 0 || j < 0 || i >= t.Size || j >= t.Size {
		return OutsideCircle
	}
	return t.Cells[j*t.Size+i]
}

// FindRadiusTable returns the table for radius, building it on first use.
// Repeated calls with the same radius return the same table.
func (f *FoW) FindRadiusTable(radius float64) *RadiusTable {
	if t, ok := f.radiusTables[radius]; ok {
		return t
	}
	t := newRadiusTable(radius, f.cellSize)
	f.radiusTables[radius] = t
	return t
}

// RadiusTableCount returns the number of cached radius tables.
func (f *FoW) RadiusTableCount() int { return len(f.radiusTables) }
