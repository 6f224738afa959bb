package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const twoPi = 2 * math.Pi

// Bearing returns the angle of v measured counter-clockwise from +X, in
// [0, 2π). The zero vector has bearing 0.
func Bearing(v r2.Vec) float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

// BucketForBearing maps an angle in radians onto one of n equal angular
// buckets. Angles outside [0, 2π) wrap.
func BucketForBearing(angle float64, n int) int {
	b := int(math.Floor(angle*float64(n)/twoPi)) % n
	if b < 0 {
		b += n
	}
	return b
}

// BucketDirections returns the unit direction through the centre of each of
// n buckets.
func BucketDirections(n int) []r2.Vec {
	dirs := make([]r2.Vec, n)
	step := twoPi / float64(n)
	for b := range dirs {
		a := (float64(b) + 0.5) * step
		dirs[b] = r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
	}
	return dirs
}

// SweepBuckets calls fn for every bucket spanned by the shorter arc between
// bearings a and b (the arc is at most π wide), walking counter-clockwise.
func SweepBuckets(a, b float64, n int, fn func(bucket int)) {
	d := math.Mod(b-a, twoPi)
	if d < 0 {
		d += twoPi
	}
	start := a
	if d > math.Pi {
		start = b
		d = twoPi - d
	}
	first := int(math.Floor(start * float64(n) / twoPi))
	last := int(math.Floor((start + d) * float64(n) / twoPi))
	for i := first; i <= last; i++ {
		bucket := i % n
		if bucket < 0 {
			bucket += n
		}
		fn(bucket)
	}
}
