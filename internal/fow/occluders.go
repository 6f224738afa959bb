package fow

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
)

// AddOccluder creates an enabled radius occluder.
func (f *FoW) AddOccluder(loc r3.Vec, radius float64, heightGroup int) (OccluderID, error) {
	if !f.sized {
		return OccluderID{}, ErrNotSized
	}
	if err := f.checkLocation("add occluder", loc); err != nil {
		return OccluderID{}, err
	}
	if err := f.checkRadius("add occluder", radius); err != nil {
		return OccluderID{}, err
	}
	if err := checkHeightGroup("add occluder", heightGroup); err != nil {
		return OccluderID{}, err
	}

	o := &RadiusOccluder{location: loc, radius: radius, heightGroup: heightGroup, enabled: true}
	id := OccluderID(f.occluders.Insert(o))
	o.id = id
	f.occluderTree.Insert(id, o.sphere())
	f.notifyViewers(o.sphere())
	return id, nil
}

func (f *FoW) occluder(op string, id OccluderID) (*RadiusOccluder, error) {
	o, ok := f.occluders.Get(arena.ID(id))
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, id, arena.ErrStaleID)
	}
	return o, nil
}

// Occluder returns a copy of a radius occluder's state.
func (f *FoW) Occluder(id OccluderID) (OccluderInfo, error) {
	o, err := f.occluder("occluder", id)
	if err != nil {
		return OccluderInfo{}, err
	}
	return o.info(), nil
}

// Occluders returns the ids of all live radius occluders in slot order.
func (f *FoW) Occluders() []OccluderID {
	ids := make([]OccluderID, 0, f.occluders.Len())
	f.occluders.Each(func(id arena.ID, _ *RadiusOccluder) { ids = append(ids, OccluderID(id)) })
	return ids
}

// RemoveOccluder deletes a radius occluder.
func (f *FoW) RemoveOccluder(id OccluderID) error {
	o, err := f.occluders.Remove(arena.ID(id))
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	f.occluderTree.Remove(id)
	f.notifyViewers(o.sphere())
	return nil
}

// EnableOccluder switches an occluder on or off without removing it.
func (f *FoW) EnableOccluder(id OccluderID, enabled bool) error {
	o, err := f.occluder("enable occluder", id)
	if err != nil {
		return err
	}
	if o.enabled == enabled {
		return nil
	}
	o.enabled = enabled
	f.notifyViewers(o.sphere())
	return nil
}

// UpdateOccluderLocation moves an occluder.
func (f *FoW) UpdateOccluderLocation(id OccluderID, loc r3.Vec) error {
	o, err := f.occluder("update occluder location", id)
	if err != nil {
		return err
	}
	if err := f.checkLocation("update occluder location", loc); err != nil {
		return err
	}
	old := o.sphere()
	o.location = loc
	f.occluderTree.Update(id, o.sphere())
	f.notifyViewers(old)
	f.notifyViewers(o.sphere())
	return nil
}

// UpdateOccluderSize changes an occluder's radius.
func (f *FoW) UpdateOccluderSize(id OccluderID, radius float64) error {
	o, err := f.occluder("update occluder size", id)
	if err != nil {
		return err
	}
	if err := f.checkRadius("update occluder size", radius); err != nil {
		return err
	}
	old := o.sphere()
	o.radius = radius
	f.occluderTree.Update(id, o.sphere())
	f.notifyViewers(old)
	f.notifyViewers(o.sphere())
	return nil
}

// UpdateOccluderHeightGroup changes an occluder's height group.
func (f *FoW) UpdateOccluderHeightGroup(id OccluderID, group int) error {
	o, err := f.occluder("update occluder height group", id)
	if err != nil {
		return err
	}
	if err := checkHeightGroup("update occluder height group", group); err != nil {
		return err
	}
	if o.heightGroup == group {
		return nil
	}
	o.heightGroup = group
	f.notifyViewers(o.sphere())
	return nil
}
