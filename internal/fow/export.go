package fow

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
	"github.com/banshee-data/fogofwar/internal/fow/scene"
)

// ExportScene writes the world settings, viewers, radius occluders and
// tri-soups to w.
func (f *FoW) ExportScene(w scene.Writer) error {
	if !f.sized {
		return ErrNotSized
	}
	w.BeginBlock("fow")

	w.BeginBlock("world")
	w.SetString("mins", scene.FormatVec(f.worldMins))
	w.SetString("maxs", scene.FormatVec(f.worldMaxs))
	w.SetString("cell_size", scene.FormatFloat(f.cellSize))
	w.SetString("teams", strconv.Itoa(f.numTeams))
	for _, z := range f.levels {
		w.SetString("vertical_level", scene.FormatFloat(z))
	}
	w.EndBlock()

	f.viewers.Each(func(_ arena.ID, v *Viewer) {
		w.BeginBlock("viewer")
		w.SetString("id", v.id.String())
		w.SetString("team", strconv.Itoa(v.team))
		w.SetString("location", scene.FormatVec(v.location))
		w.SetString("radius", scene.FormatFloat(v.radius))
		w.SetString("height_group", strconv.Itoa(v.heightGroup))
		w.EndBlock()
	})

	f.occluders.Each(func(_ arena.ID, o *RadiusOccluder) {
		w.BeginBlock("occluder")
		w.SetString("id", o.id.String())
		w.SetString("location", scene.FormatVec(o.location))
		w.SetString("radius", scene.FormatFloat(o.radius))
		w.SetString("height_group", strconv.Itoa(o.heightGroup))
		w.SetString("enabled", strconv.FormatBool(o.enabled))
		w.EndBlock()
	})

	f.soups.Each(func(_ arena.ID, c *TriSoupCollection) {
		w.BeginBlock("trisoup")
		w.SetString("id", c.id.String())
		for _, tri := range c.tris {
			w.BeginBlock("tri")
			w.SetString("a", scene.FormatVec(tri[0]))
			w.SetString("b", scene.FormatVec(tri[1]))
			w.SetString("c", scene.FormatVec(tri[2]))
			w.EndBlock()
		}
		for _, l := range c.lines {
			w.BeginBlock("line")
			w.SetString("start", scene.FormatVec(flat3(l.Start)))
			w.SetString("end", scene.FormatVec(flat3(l.End)))
			w.SetString("normal", scene.FormatVec(flat3(l.Plane.Normal)))
			w.SetString("slice", strconv.Itoa(l.Slice))
			w.EndBlock()
		}
		w.EndBlock()
	})

	w.EndBlock()
	return nil
}

func flat3(v r2.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y} }

// LoadScene rebuilds the engine from a tree produced by ExportScene. The
// scene is loaded into a fresh engine with the same configuration and
// swapped in only on success, so an error leaves the current state
// untouched. Line blocks are ignored; line occluders are derived again
// from the stored triangles.
func (f *FoW) LoadScene(root *scene.Node) error {
	staged, err := New(&f.cfg)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	staged.clock = f.clock
	if err := staged.loadScene(root); err != nil {
		return err
	}
	staged.debugFlags = f.debugFlags
	if f.debugTeam < staged.numTeams {
		staged.debugTeam = f.debugTeam
	}
	*f = *staged
	return nil
}

func (f *FoW) loadScene(root *scene.Node) error {
	fowNode := root.Child("fow")
	if fowNode == nil {
		return fmt.Errorf("load scene: missing fow block")
	}
	world := fowNode.Child("world")
	if world == nil {
		return fmt.Errorf("load scene: missing world block")
	}

	mins, err := vecField(world, "mins")
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	maxs, err := vecField(world, "maxs")
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	cell, err := world.Float("cell_size")
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	teams, err := world.Int("teams")
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	var levels []float64
	for _, fl := range world.Fields {
		if fl.Key != "vertical_level" {
			continue
		}
		z, err := strconv.ParseFloat(fl.Value, 64)
		if err != nil {
			return fmt.Errorf("load scene: vertical_level: %w", err)
		}
		levels = append(levels, z)
	}

	if err := f.SetNumberOfTeams(teams); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if err := f.SetSize(mins, maxs, cell); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if len(levels) > 0 {
		if err := f.SetCustomVerticalLevels(levels); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	} else if err := f.SetVerticalGridSize(0); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	for _, n := range fowNode.ChildrenNamed("viewer") {
		if err := f.loadViewer(n); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	for _, n := range fowNode.ChildrenNamed("occluder") {
		if err := f.loadOccluder(n); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	for _, n := range fowNode.ChildrenNamed("trisoup") {
		if err := f.loadTriSoup(n); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}
	return nil
}

func vecField(n *scene.Node, key string) (r3.Vec, error) {
	s, ok := n.Get(key)
	if !ok {
		return r3.Vec{}, fmt.Errorf("%s: missing %q", n.Name, key)
	}
	return scene.ParseVec(s)
}

func (f *FoW) loadViewer(n *scene.Node) error {
	team, err := n.Int("team")
	if err != nil {
		return err
	}
	loc, err := vecField(n, "location")
	if err != nil {
		return err
	}
	radius, err := n.Float("radius")
	if err != nil {
		return err
	}
	group, err := n.Int("height_group")
	if err != nil {
		return err
	}
	id, err := f.AddViewer(team, loc, radius)
	if err != nil {
		return err
	}
	return f.UpdateViewerHeightGroup(id, group)
}

func (f *FoW) loadOccluder(n *scene.Node) error {
	loc, err := vecField(n, "location")
	if err != nil {
		return err
	}
	radius, err := n.Float("radius")
	if err != nil {
		return err
	}
	group, err := n.Int("height_group")
	if err != nil {
		return err
	}
	id, err := f.AddOccluder(loc, radius, group)
	if err != nil {
		return err
	}
	if s, ok := n.Get("enabled"); ok {
		enabled, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("occluder.enabled: %w", err)
		}
		return f.EnableOccluder(id, enabled)
	}
	return nil
}

func (f *FoW) loadTriSoup(n *scene.Node) error {
	id, err := f.AddTriSoupOccluder()
	if err != nil {
		return err
	}
	for _, t := range n.ChildrenNamed("tri") {
		var tri Triangle
		for i, key := range []string{"a", "b", "c"} {
			if tri[i], err = vecField(t, key); err != nil {
				return err
			}
		}
		if _, err := f.AddTri(id, tri[0], tri[1], tri[2]); err != nil {
			return err
		}
	}
	return nil
}
