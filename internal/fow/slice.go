package fow

import "github.com/banshee-data/fogofwar/internal/fow/spatial"

// HorizontalSlice indexes the line occluders of one vertical band.
type HorizontalSlice struct {
	Index int
	MinZ  float64
	MaxZ  float64

	tree *spatial.SphereTree[*LineOccluder]
}

func newHorizontalSlice(index int, minZ, maxZ, cellSize float64) *HorizontalSlice {
	return &HorizontalSlice{
		Index: index,
		MinZ:  minZ,
		MaxZ:  maxZ,
		tree:  spatial.NewSphereTree[*LineOccluder](cellSize * 4),
	}
}

// Center returns the band's mid height.
func (s *HorizontalSlice) Center() float64 { return 0.5 * (s.MinZ + s.MaxZ) }

// Insert indexes l by its bounding sphere.
func (s *HorizontalSlice) Insert(l *LineOccluder) { s.tree.Insert(l, l.BoundingSphere()) }

// Remove drops l from the index.
func (s *HorizontalSlice) Remove(l *LineOccluder) bool { return s.tree.Remove(l) }

// Len returns the number of indexed line occluders.
func (s *HorizontalSlice) Len() int { return s.tree.Len() }

// Clear drops every line occluder.
func (s *HorizontalSlice) Clear() { s.tree.Clear() }

// Each calls fn for every indexed line occluder.
func (s *HorizontalSlice) Each(fn func(*LineOccluder)) {
	s.tree.Each(func(l *LineOccluder, _ spatial.Sphere) { fn(l) })
}

// ObstructViewer applies every line occluder near the viewer. hits is
// scratch space owned by the caller. It reports whether the query was
// truncated.
func (s *HorizontalSlice) ObstructViewer(v *Viewer, hits *spatial.Collector[*LineOccluder]) bool {
	s.tree.Query(v.sphere(), hits)
	for _, l := range hits.Items() {
		l.ObstructViewer(v)
	}
	return hits.Truncated()
}
