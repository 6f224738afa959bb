// Package geom holds the 2D and 3D primitives used by the visibility engine:
// oriented 2D planes, bearing-to-bucket mapping for radial buffers, and
// convex polygon clipping for tri-soup cross sections.
//
// Vectors are gonum spatial/r2 and spatial/r3 values.
package geom
