package geom

import "gonum.org/v1/gonum/spatial/r3"

// Plane3 is an oriented plane in 3D: dot(Normal, p) == Distance.
type Plane3 struct {
	Normal   r3.Vec
	Distance float64
}

// HorizontalPlane returns the plane z == height facing +Z.
func HorizontalPlane(height float64) Plane3 {
	return Plane3{Normal: r3.Vec{Z: 1}, Distance: height}
}

// DistanceFrom returns the signed distance of p from the plane.
func (pl Plane3) DistanceFrom(p r3.Vec) float64 {
	return r3.Dot(pl.Normal, p) - pl.Distance
}

// ClipPolygon clips a convex polygon against pl, Sutherland-Hodgman style,
// keeping the front side. It returns the clipped polygon and the section:
// the vertices lying on the plane, either original vertices touching it or
// points generated where an edge crosses it. A triangle straddling the plane
// produces a two-point section.
func ClipPolygon(poly []r3.Vec, pl Plane3) (front, section []r3.Vec) {
	n := len(poly)
	if n == 0 {
		return nil, nil
	}
	front = make([]r3.Vec, 0, n+1)
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		dc := pl.DistanceFrom(cur)
		dn := pl.DistanceFrom(next)

		if dc >= 0 {
			front = append(front, cur)
			if dc == 0 {
				section = append(section, cur)
			}
		}
		if (dc > 0 && dn < 0) || (dc < 0 && dn > 0) {
			t := dc / (dc - dn)
			p := r3.Add(cur, r3.Scale(t, r3.Sub(next, cur)))
			front = append(front, p)
			section = append(section, p)
		}
	}
	return front, section
}
