package fow

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
)

// DebugDrawer receives overlay primitives from DrawDebug.
type DebugDrawer interface {
	Line(a, b r3.Vec, c color.RGBA)
	Box(mins, maxs r3.Vec, c color.RGBA)
	Sphere(center r3.Vec, radius float64, c color.RGBA)
}

// DebugFlags selects what DrawDebug emits.
type DebugFlags uint8

const (
	DebugViewers   DebugFlags = 1 << iota // vision circles
	DebugOccluders                        // radius occluders
	DebugTriSoup                          // line occluders
	DebugRadial                           // radial depth buffers
	DebugGrid                             // visible cells of the debug team

	DebugAll = DebugViewers | DebugOccluders | DebugTriSoup | DebugRadial | DebugGrid
)

var (
	colorViewer         = color.RGBA{R: 40, G: 200, B: 60, A: 255}
	colorOccluder       = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	colorDisabled       = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	colorLine           = color.RGBA{R: 230, G: 160, B: 20, A: 255}
	colorLineNormal     = color.RGBA{R: 230, G: 230, B: 20, A: 255}
	colorRadial         = color.RGBA{R: 60, G: 120, B: 240, A: 255}
	colorVisibleCell    = color.RGBA{R: 255, G: 255, B: 255, A: 96}
	colorWasVisibleCell = color.RGBA{R: 80, G: 80, B: 80, A: 96}
)

// SetDebugVisibility selects which overlays DrawDebug emits. Zero disables
// drawing.
func (f *FoW) SetDebugVisibility(flags DebugFlags) { f.debugFlags = flags }

// SetDebugTeam selects the team grid drawn with DebugGrid.
func (f *FoW) SetDebugTeam(team int) error {
	if err := f.checkTeam(team); err != nil {
		return err
	}
	f.debugTeam = team
	return nil
}

// DrawDebug emits the enabled overlays to d. It does not change any state.
func (f *FoW) DrawDebug(d DebugDrawer) {
	if f.debugFlags == 0 || !f.sized {
		return
	}
	if f.debugFlags&DebugGrid != 0 && f.debugTeam < len(f.teams) {
		f.drawGrid(d)
	}
	if f.debugFlags&DebugOccluders != 0 {
		f.occluders.Each(func(_ arena.ID, o *RadiusOccluder) {
			c := colorOccluder
			if !o.enabled {
				c = colorDisabled
			}
			d.Sphere(o.location, o.radius, c)
		})
	}
	if f.debugFlags&DebugTriSoup != 0 {
		for _, s := range f.slices {
			z := s.Center()
			s.Each(func(l *LineOccluder) {
				a := r3.Vec{X: l.Start.X, Y: l.Start.Y, Z: z}
				b := r3.Vec{X: l.End.X, Y: l.End.Y, Z: z}
				d.Line(a, b, colorLine)
				mid := r3.Scale(0.5, r3.Add(a, b))
				tip := r3.Add(mid, r3.Vec{X: l.Plane.Normal.X * f.cellSize * 0.25, Y: l.Plane.Normal.Y * f.cellSize * 0.25})
				d.Line(mid, tip, colorLineNormal)
			})
		}
	}
	if f.debugFlags&(DebugViewers|DebugRadial) != 0 {
		f.viewers.Each(func(_ arena.ID, v *Viewer) {
			if f.debugFlags&DebugViewers != 0 {
				d.Sphere(v.location, v.radius, colorViewer)
			}
			if f.debugFlags&DebugRadial != 0 {
				f.drawRadial(d, v)
			}
		})
	}
}

// drawRadial draws the outline of a viewer's radial depth buffer.
func (f *FoW) drawRadial(d DebugDrawer, v *Viewer) {
	n := len(v.depth)
	if n == 0 {
		return
	}
	step := 2 * math.Pi / float64(n)
	point := func(b int) r3.Vec {
		a := (float64(b) + 0.5) * step
		r := math.Sqrt(v.depth[b])
		return r3.Vec{X: v.center.X + r*math.Cos(a), Y: v.center.Y + r*math.Sin(a), Z: v.location.Z}
	}
	prev := point(n - 1)
	for b := 0; b < n; b++ {
		p := point(b)
		d.Line(prev, p, colorRadial)
		prev = p
	}
}

func (f *FoW) drawGrid(d DebugDrawer) {
	g := f.teams[f.debugTeam]
	for y := 0; y < f.unitsY; y++ {
		for x := 0; x < f.unitsX; x++ {
			fl := g.flags[y*f.unitsX+x]
			var c color.RGBA
			switch {
			case fl&FlagVisible != 0:
				c = colorVisibleCell
			case fl&FlagWasVisible != 0:
				c = colorWasVisibleCell
			default:
				continue
			}
			mins := r3.Vec{
				X: f.worldMins.X + float64(x)*f.cellSize,
				Y: f.worldMins.Y + float64(y)*f.cellSize,
				Z: f.worldMins.Z,
			}
			maxs := r3.Vec{X: mins.X + f.cellSize, Y: mins.Y + f.cellSize, Z: f.worldMins.Z}
			d.Box(mins, maxs, c)
		}
	}
}
