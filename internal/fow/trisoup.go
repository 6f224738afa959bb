package fow

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/geom"
)

// Triangle is one face of a tri-soup.
type Triangle [3]r3.Vec

// Normal returns the unnormalised face normal, (B-A) x (C-A).
func (t Triangle) Normal() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// TriSoupCollection owns a set of triangles and the line occluders cut from
// them, one per triangle per band it crosses.
type TriSoupCollection struct {
	id    TriSoupID
	tris  []Triangle
	lines []*LineOccluder
}

// Triangles returns the stored triangles.
func (c *TriSoupCollection) Triangles() []Triangle { return c.tris }

// Lines returns the line occluders currently derived from the triangles.
func (c *TriSoupCollection) Lines() []*LineOccluder { return c.lines }

// addTri stores tri and sections it into slices. It returns the new line
// occluders.
func (c *TriSoupCollection) addTri(tri Triangle, slices []*HorizontalSlice, bias float64) []*LineOccluder {
	c.tris = append(c.tris, tri)
	return c.section(tri, slices, bias)
}

// section cuts tri with a horizontal plane just above each band centre and
// keeps every cut that yields exactly two points.
func (c *TriSoupCollection) section(tri Triangle, slices []*HorizontalSlice, bias float64) []*LineOccluder {
	n3 := tri.Normal()
	flat := r2.Vec{X: n3.X, Y: n3.Y}
	if r2.Norm2(flat) == 0 {
		// Horizontal faces cannot block horizontal sight lines.
		return nil
	}
	flat = r2.Unit(flat)

	var added []*LineOccluder
	for _, s := range slices {
		_, cut := geom.ClipPolygon(tri[:], geom.HorizontalPlane(s.Center()+bias))
		if len(cut) != 2 {
			continue
		}
		start := r2.Vec{X: cut[0].X, Y: cut[0].Y}
		end := r2.Vec{X: cut[1].X, Y: cut[1].Y}
		if start == end {
			continue
		}
		l := NewLineOccluder(start, end, flat, s.Index)
		c.lines = append(c.lines, l)
		s.Insert(l)
		added = append(added, l)
	}
	return added
}

// rebuild discards the derived line occluders and sections every stored
// triangle again into slices.
func (c *TriSoupCollection) rebuild(slices []*HorizontalSlice, bias float64) {
	c.lines = c.lines[:0]
	for _, tri := range c.tris {
		c.section(tri, slices, bias)
	}
}

// removeFrom drops the collection's line occluders from slices.
func (c *TriSoupCollection) removeFrom(slices []*HorizontalSlice) {
	for _, l := range c.lines {
		if l.Slice >= 0 && l.Slice < len(slices) {
			slices[l.Slice].Remove(l)
		}
	}
}
