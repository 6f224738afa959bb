package fow

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/fogofwar/internal/fow/geom"
	"github.com/banshee-data/fogofwar/internal/fow/spatial"
)

const (
	// normalTolerance is the per-component difference above which a
	// supplied normal is treated as pointing the other way.
	normalTolerance = 0.1
	// colinearDot rejects segments subtending a negligible angle.
	colinearDot = 0.99995
)

// LineOccluder is a one-sided wall segment. Only viewers in front of its
// plane are obstructed.
type LineOccluder struct {
	Start r2.Vec
	End   r2.Vec
	Plane geom.Plane2D
	Slice int
}

// NewLineOccluder builds the occluder for the segment start-end facing
// normal. When the plane computed from the points faces away from normal,
// the endpoints are swapped so the stored orientation matches it.
func NewLineOccluder(start, end, normal r2.Vec, slice int) *LineOccluder {
	pl := geom.NewPlaneFromPoints(start, end)
	if math.Abs(pl.Normal.X-normal.X) > normalTolerance || math.Abs(pl.Normal.Y-normal.Y) > normalTolerance {
		start, end = end, start
		pl = geom.NewPlaneFromPoints(start, end)
	}
	return &LineOccluder{Start: start, End: end, Plane: pl, Slice: slice}
}

// BoundingSphere returns the circle through both endpoints centred on the
// segment midpoint.
func (l *LineOccluder) BoundingSphere() spatial.Sphere {
	mid := r2.Scale(0.5, r2.Add(l.Start, l.End))
	return spatial.Sphere{Center: mid, Radius: 0.5 * r2.Norm(r2.Sub(l.End, l.Start))}
}

// ObstructViewer tightens the viewer's radial depth buffer along every
// bucket between the two endpoint bearings. It reports whether the buffer
// was touched.
func (l *LineOccluder) ObstructViewer(v *Viewer) bool {
	if l.Plane.DistanceFrom(v.location2D()) < 0 {
		return false
	}

	origin := v.center
	a := r2.Sub(l.Start, origin)
	b := r2.Sub(l.End, origin)
	la, lb := r2.Norm(a), r2.Norm(b)
	if la == 0 || lb == 0 {
		return false
	}
	if math.Abs(r2.Dot(a, b)/(la*lb)) > colinearDot {
		return false
	}

	dirs := v.table.Directions
	geom.SweepBuckets(geom.Bearing(a), geom.Bearing(b), len(dirs), func(bucket int) {
		t := l.Plane.DistanceFromRay(origin, dirs[bucket])
		if !(t > 0) || math.IsInf(t, 0) {
			return
		}
		if d2 := t * t; d2 < v.depth[bucket] {
			v.depth[bucket] = d2
		}
	})
	return true
}
