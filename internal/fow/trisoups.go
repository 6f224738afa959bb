package fow

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
	"github.com/banshee-data/fogofwar/internal/monitoring"
)

// AddTriSoupOccluder creates an empty tri-soup collection.
func (f *FoW) AddTriSoupOccluder() (TriSoupID, error) {
	if !f.sized {
		return TriSoupID{}, ErrNotSized
	}
	c := &TriSoupCollection{}
	id := TriSoupID(f.soups.Insert(c))
	c.id = id
	return id, nil
}

func (f *FoW) soup(op string, id TriSoupID) (*TriSoupCollection, error) {
	c, ok := f.soups.Get(arena.ID(id))
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, id, arena.ErrStaleID)
	}
	return c, nil
}

// TriSoups returns the ids of all live tri-soup collections in slot order.
func (f *FoW) TriSoups() []TriSoupID {
	ids := make([]TriSoupID, 0, f.soups.Len())
	f.soups.Each(func(id arena.ID, _ *TriSoupCollection) { ids = append(ids, TriSoupID(id)) })
	return ids
}

// TriSoupLines returns the line occluders currently derived from a
// collection.
func (f *FoW) TriSoupLines(id TriSoupID) ([]LineOccluder, error) {
	c, err := f.soup("trisoup lines", id)
	if err != nil {
		return nil, err
	}
	out := make([]LineOccluder, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out, nil
}

// AddTri adds a triangle to a collection, sectioning it into every vertical
// band. It returns the number of line occluders produced.
func (f *FoW) AddTri(id TriSoupID, a, b, c r3.Vec) (int, error) {
	soup, err := f.soup("add tri", id)
	if err != nil {
		return 0, err
	}
	added := soup.addTri(Triangle{a, b, c}, f.slices, f.cfg.SliceBias)
	for _, l := range added {
		f.notifyViewers(l.BoundingSphere())
	}
	return len(added), nil
}

// RemoveTriSoupOccluder deletes a collection and its line occluders.
func (f *FoW) RemoveTriSoupOccluder(id TriSoupID) error {
	c, err := f.soups.Remove(arena.ID(id))
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	c.removeFrom(f.slices)
	for _, l := range c.lines {
		f.notifyViewers(l.BoundingSphere())
	}
	return nil
}

// ClearTriSoup empties every slice and resections all stored triangles. It
// costs O(total triangles); use it for editor-time changes, not per frame.
func (f *FoW) ClearTriSoup() {
	for _, s := range f.slices {
		s.Clear()
	}
	lines := 0
	f.soups.Each(func(_ arena.ID, c *TriSoupCollection) {
		c.rebuild(f.slices, f.cfg.SliceBias)
		lines += len(c.lines)
	})
	f.markAllViewersDirty()
	monitoring.Logf("[fow] tri-soup rebuilt: %d collections, %d line occluders", f.soups.Len(), lines)
}
