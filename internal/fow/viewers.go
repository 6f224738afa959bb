package fow

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
)

// AddViewer creates a dirty viewer for team at loc with the given vision
// radius and height group 0.
func (f *FoW) AddViewer(team int, loc r3.Vec, radius float64) (ViewerID, error) {
	if !f.sized {
		return ViewerID{}, ErrNotSized
	}
	if err := f.checkTeam(team); err != nil {
		return ViewerID{}, fmt.Errorf("add viewer: %w", err)
	}
	if err := f.checkLocation("add viewer", loc); err != nil {
		return ViewerID{}, err
	}
	if err := f.checkRadius("add viewer", radius); err != nil {
		return ViewerID{}, err
	}

	v := newViewer(team, loc, radius, f.FindRadiusTable(radius), f.cfg.QueryLimit)
	f.snapViewer(v)
	id := ViewerID(f.viewers.Insert(v))
	v.id = id
	f.viewerTree.Insert(id, v.sphere())
	f.notifyViewers(v.sphere())
	return id, nil
}

// snapViewer updates the viewer's grid cell and reports whether it changed.
func (f *FoW) snapViewer(v *Viewer) bool {
	x, y := f.cellFor(r2.Vec{X: v.location.X, Y: v.location.Y})
	changed := x != v.cellX || y != v.cellY
	v.cellX, v.cellY = x, y
	v.center = f.cellCenter(x, y)
	return changed
}

func (f *FoW) viewer(op string, id ViewerID) (*Viewer, error) {
	v, ok := f.viewers.Get(arena.ID(id))
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, id, arena.ErrStaleID)
	}
	return v, nil
}

// Viewer returns a copy of a viewer's state.
func (f *FoW) Viewer(id ViewerID) (ViewerInfo, error) {
	v, err := f.viewer("viewer", id)
	if err != nil {
		return ViewerInfo{}, err
	}
	return v.info(), nil
}

// Viewers returns the ids of all live viewers in slot order.
func (f *FoW) Viewers() []ViewerID {
	ids := make([]ViewerID, 0, f.viewers.Len())
	f.viewers.Each(func(id arena.ID, _ *Viewer) { ids = append(ids, ViewerID(id)) })
	return ids
}

// RemoveViewer deletes a viewer. Its footprint fades out over the
// following solves.
func (f *FoW) RemoveViewer(id ViewerID) error {
	v, err := f.viewers.Remove(arena.ID(id))
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	f.viewerTree.Remove(id)
	f.notifyViewers(v.sphere())
	return nil
}

// UpdateViewerLocation moves a viewer. It becomes dirty only when it moves
// into a different grid cell.
func (f *FoW) UpdateViewerLocation(id ViewerID, loc r3.Vec) error {
	v, err := f.viewer("update viewer location", id)
	if err != nil {
		return err
	}
	if err := f.checkLocation("update viewer location", loc); err != nil {
		return err
	}
	old := v.sphere()
	oldBand := f.bandFor(v.location.Z)
	v.location = loc
	moved := f.snapViewer(v)
	f.viewerTree.Update(id, v.sphere())
	if moved || f.bandFor(loc.Z) != oldBand {
		v.dirty = true
		f.notifyViewers(old)
		f.notifyViewers(v.sphere())
	}
	return nil
}

// UpdateViewerSize changes a viewer's vision radius.
func (f *FoW) UpdateViewerSize(id ViewerID, radius float64) error {
	v, err := f.viewer("update viewer size", id)
	if err != nil {
		return err
	}
	if err := f.checkRadius("update viewer size", radius); err != nil {
		return err
	}
	if radius == v.radius {
		return nil
	}
	old := v.sphere()
	v.radius = radius
	v.setTable(f.FindRadiusTable(radius))
	v.dirty = true
	f.viewerTree.Update(id, v.sphere())
	f.notifyViewers(old)
	f.notifyViewers(v.sphere())
	return nil
}

// UpdateViewerHeightGroup changes a viewer's height group.
func (f *FoW) UpdateViewerHeightGroup(id ViewerID, group int) error {
	v, err := f.viewer("update viewer height group", id)
	if err != nil {
		return err
	}
	if err := checkHeightGroup("update viewer height group", group); err != nil {
		return err
	}
	if group == v.heightGroup {
		return nil
	}
	v.heightGroup = group
	v.dirty = true
	f.notifyViewers(v.sphere())
	return nil
}
