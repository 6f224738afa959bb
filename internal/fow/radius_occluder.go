package fow

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/geom"
	"github.com/banshee-data/fogofwar/internal/fow/spatial"
)

// RadiusOccluder is a circular obstacle.
type RadiusOccluder struct {
	id          OccluderID
	location    r3.Vec
	radius      float64
	heightGroup int
	enabled     bool
}

// OccluderInfo is a read-only copy of a radius occluder's state.
type OccluderInfo struct {
	ID          OccluderID
	Location    r3.Vec
	Radius      float64
	HeightGroup int
	Enabled     bool
}

func (o *RadiusOccluder) info() OccluderInfo {
	return OccluderInfo{
		ID:          o.id,
		Location:    o.location,
		Radius:      o.radius,
		HeightGroup: o.heightGroup,
		Enabled:     o.enabled,
	}
}

func (o *RadiusOccluder) center() r2.Vec { return r2.Vec{X: o.location.X, Y: o.location.Y} }

func (o *RadiusOccluder) sphere() spatial.Sphere {
	return spatial.Sphere{Center: o.center(), Radius: o.radius}
}

// IsInRange reports whether the occluder circle overlaps the viewer's vision
// circle. Touching circles are in range. Disabled occluders never are.
func (o *RadiusOccluder) IsInRange(v *Viewer) bool {
	if !o.enabled {
		return false
	}
	r := o.radius + v.radius
	return r2.Norm2(r2.Sub(o.center(), v.location2D())) <= r*r
}

// tangents describes the shadow wedge an occluder casts from a viewer.
type tangents struct {
	origin   r2.Vec
	axis     r2.Vec  // unit, origin to occluder centre
	dist     float64 // origin to occluder centre
	alpha    float64 // half-angle of the wedge
	bearing1 float64 // clockwise tangent
	bearing2 float64 // counter-clockwise tangent
	t1, t2   r2.Vec  // tangent points on the circle
}

// tangentsFrom returns the shadow wedge seen from origin, or false when
// origin lies on or inside the circle.
func (o *RadiusOccluder) tangentsFrom(origin r2.Vec) (tangents, bool) {
	d := r2.Sub(o.center(), origin)
	dist := r2.Norm(d)
	if dist <= o.radius {
		return tangents{}, false
	}
	alpha := math.Asin(o.radius / dist)
	base := geom.Bearing(d)
	tl := math.Sqrt(dist*dist - o.radius*o.radius)

	tg := tangents{
		origin:   origin,
		axis:     r2.Scale(1/dist, d),
		dist:     dist,
		alpha:    alpha,
		bearing1: base - alpha,
		bearing2: base + alpha,
	}
	tg.t1 = r2.Add(origin, r2.Vec{X: tl * math.Cos(tg.bearing1), Y: tl * math.Sin(tg.bearing1)})
	tg.t2 = r2.Add(origin, r2.Vec{X: tl * math.Cos(tg.bearing2), Y: tl * math.Sin(tg.bearing2)})
	return tg, true
}

// ObstructViewerRadius tightens the viewer's radial depth buffer with the
// occluder's shadow. The chord through both tangent points bounds the
// shadow; bias pushes it away from the viewer so the silhouette cells stay
// lit. It reports whether the buffer was touched.
func (o *RadiusOccluder) ObstructViewerRadius(v *Viewer, bias float64) bool {
	if !occludes(v.heightGroup, o.heightGroup) {
		return false
	}
	tg, ok := o.tangentsFrom(v.center)
	if !ok {
		return false
	}
	chord := geom.NewPlaneFromPoints(tg.t1, tg.t2)
	dirs := v.table.Directions
	geom.SweepBuckets(tg.bearing1, tg.bearing2, len(dirs), func(b int) {
		t := chord.DistanceFromRay(tg.origin, dirs[b])
		if !(t > 0) || math.IsInf(t, 0) {
			return
		}
		t += bias
		if d2 := t * t; d2 < v.depth[b] {
			v.depth[b] = d2
		}
	})
	return true
}

// ObstructViewerGrid clears every local grid cell inside the occluder's
// shadow hexagon: the near face (pushed back by bias), the two tangent
// points, and the tangent rays extended past the viewer radius. It runs
// after resolveRadius and reports whether any cell was cleared.
func (o *RadiusOccluder) ObstructViewerGrid(v *Viewer, cellSize, bias float64) bool {
	if !occludes(v.heightGroup, o.heightGroup) {
		return false
	}
	tg, ok := o.tangentsFrom(v.center)
	if !ok {
		return false
	}

	hexagon := o.shadowHexagon(tg, v.radius, cellSize, bias)
	planes := geom.ConvexPlanes(hexagon[:], make([]geom.Plane2D, 0, len(hexagon)))

	t := v.table
	half := t.Size / 2
	cleared := false
	for j := 0; j < t.Size; j++ {
		for i := 0; i < t.Size; i++ {
			idx := j*t.Size + i
			if t.Cells[idx] == OutsideCircle || v.local[idx] == 0 {
				continue
			}
			p := r2.Vec{
				X: v.center.X + float64(i-half)*cellSize,
				Y: v.center.Y + float64(j-half)*cellSize,
			}
			if geom.InsideConvex(planes, p) {
				v.local[idx] = 0
				cleared = true
			}
		}
	}
	return cleared
}

// shadowHexagon returns the shadow polygon in counter-clockwise order.
func (o *RadiusOccluder) shadowHexagon(tg tangents, viewRadius, cellSize, bias float64) [6]r2.Vec {
	u := tg.axis
	w := r2.Vec{X: -u.Y, Y: u.X}

	chordDist := (tg.dist*tg.dist - o.radius*o.radius) / tg.dist
	near := math.Min(tg.dist-o.radius+bias, chordDist)
	off := near - tg.dist
	halfWidth := math.Sqrt(math.Max(o.radius*o.radius-off*off, 0))
	f1 := r2.Add(tg.origin, r2.Add(r2.Scale(near, u), r2.Scale(-halfWidth, w)))
	f2 := r2.Add(tg.origin, r2.Add(r2.Scale(near, u), r2.Scale(halfWidth, w)))
	if chordDist-near < 1e-9*tg.dist {
		// Collapse onto the tangent points so no sliver edge is emitted.
		f1, f2 = tg.t1, tg.t2
	}

	far := math.Max(viewRadius, chordDist) + cellSize
	reach := far / math.Cos(tg.alpha)
	e1 := r2.Add(tg.origin, r2.Scale(reach, r2.Unit(r2.Sub(tg.t1, tg.origin))))
	e2 := r2.Add(tg.origin, r2.Scale(reach, r2.Unit(r2.Sub(tg.t2, tg.origin))))

	return [6]r2.Vec{f1, tg.t1, e1, e2, tg.t2, f2}
}
