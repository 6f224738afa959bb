package geom

import "gonum.org/v1/gonum/spatial/r2"

// Plane2D is an oriented line in the XY plane: the set of points p with
// dot(Normal, p) == Distance. Points with a non-negative signed distance lie
// in front of the plane.
type Plane2D struct {
	Normal   r2.Vec
	Distance float64
}

// NewPlaneFromPoints builds the plane through a and b. The normal is the
// left-hand perpendicular of the direction a->b, so the interior of a
// counter-clockwise polygon lies in front of each of its edge planes.
//
// A zero-length segment yields NaN components.
func NewPlaneFromPoints(a, b r2.Vec) Plane2D {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	n := r2.Vec{X: -d.Y / l, Y: d.X / l}
	return Plane2D{Normal: n, Distance: r2.Dot(n, a)}
}

// NewPlaneFromPointNormal builds the plane through p with the given normal.
// The normal is used as supplied.
func NewPlaneFromPointNormal(p, normal r2.Vec) Plane2D {
	return Plane2D{Normal: normal, Distance: r2.Dot(normal, p)}
}

// NewPlane builds a plane from its distance to the origin and its normal.
func NewPlane(distance float64, normal r2.Vec) Plane2D {
	return Plane2D{Normal: normal, Distance: distance}
}

// DistanceFrom returns the signed distance of p from the plane.
func (pl Plane2D) DistanceFrom(p r2.Vec) float64 {
	return r2.Dot(pl.Normal, p) - pl.Distance
}

// PointInFront reports whether p lies on or in front of the plane.
func (pl Plane2D) PointInFront(p r2.Vec) bool {
	return pl.DistanceFrom(p) >= 0
}

// DistanceFromLineStart returns t such that start + t*(end-start) lies on
// the plane. A segment parallel to the plane divides by zero.
func (pl Plane2D) DistanceFromLineStart(start, end r2.Vec) float64 {
	return (pl.Distance - r2.Dot(pl.Normal, start)) / r2.Dot(pl.Normal, r2.Sub(end, start))
}

// DistanceFromRay returns t such that origin + t*dir lies on the plane. With
// a unit dir, t is the travelled distance. A ray parallel to the plane
// divides by zero.
func (pl Plane2D) DistanceFromRay(origin, dir r2.Vec) float64 {
	return (pl.Distance - r2.Dot(pl.Normal, origin)) / r2.Dot(pl.Normal, dir)
}

// InsideConvex reports whether p lies in front of every plane.
func InsideConvex(planes []Plane2D, p r2.Vec) bool {
	for _, pl := range planes {
		if !pl.PointInFront(p) {
			return false
		}
	}
	return true
}

// ConvexPlanes returns the edge planes of a counter-clockwise polygon.
// Coincident consecutive vertices are skipped.
func ConvexPlanes(poly []r2.Vec, dst []Plane2D) []Plane2D {
	dst = dst[:0]
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		if r2.Norm2(r2.Sub(b, a)) == 0 {
			continue
		}
		dst = append(dst, NewPlaneFromPoints(a, b))
	}
	return dst
}
