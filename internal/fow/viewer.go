package fow

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/spatial"
)

// Viewer is a vision source. It is clean or dirty; only dirty viewers are
// recomputed by a solve.
type Viewer struct {
	id          ViewerID
	team        int
	location    r3.Vec
	center      r2.Vec // centre of the cell holding location
	cellX       int
	cellY       int
	radius      float64
	heightGroup int
	dirty       bool

	table *RadiusTable
	local []uint8   // table.Size squared, FlagVisible per cell
	depth []float64 // squared distance per bucket

	occluderHits *spatial.Collector[OccluderID]
	lineHits     *spatial.Collector[*LineOccluder]
}

// ViewerInfo is a read-only copy of a viewer's state.
type ViewerInfo struct {
	ID           ViewerID
	Team         int
	Location     r3.Vec
	GridLocation r2.Vec
	Radius       float64
	HeightGroup  int
	Dirty        bool
}

func newViewer(team int, loc r3.Vec, radius float64, table *RadiusTable, queryLimit int) *Viewer {
	v := &Viewer{
		team:         team,
		location:     loc,
		radius:       radius,
		dirty:        true,
		occluderHits: spatial.NewCollector[OccluderID](queryLimit),
		lineHits:     spatial.NewCollector[*LineOccluder](queryLimit),
	}
	v.setTable(table)
	return v
}

func (v *Viewer) setTable(t *RadiusTable) {
	v.table = t
	v.local = make([]uint8, t.Size*t.Size)
	v.depth = make([]float64, t.Buckets)
}

func (v *Viewer) info() ViewerInfo {
	return ViewerInfo{
		ID:           v.id,
		Team:         v.team,
		Location:     v.location,
		GridLocation: v.center,
		Radius:       v.radius,
		HeightGroup:  v.heightGroup,
		Dirty:        v.dirty,
	}
}

func (v *Viewer) location2D() r2.Vec { return r2.Vec{X: v.location.X, Y: v.location.Y} }

func (v *Viewer) sphere() spatial.Sphere {
	return spatial.Sphere{Center: v.location2D(), Radius: v.radius}
}

// calcLocalizedVisibility rebuilds the radial depth buffer and local grid.
// It reads the shared indices and writes only to v. It returns the number
// of spatial queries that hit the result limit.
func (v *Viewer) calcLocalizedVisibility(f *FoW) int {
	if !v.dirty {
		return 0
	}
	truncated := 0

	r2max := v.radius * v.radius
	for i := range v.depth {
		v.depth[i] = r2max
	}

	v.occluderHits.Reset()
	f.occluderTree.Query(v.sphere(), v.occluderHits)
	if v.occluderHits.Truncated() {
		truncated++
	}
	for _, id := range v.occluderHits.Items() {
		o := f.occluderByID(id)
		if o == nil || !o.IsInRange(v) {
			continue
		}
		o.ObstructViewerRadius(v, f.cellSize*f.cfg.RadiusBiasScale)
	}

	if band := f.bandFor(v.location.Z); band >= 0 {
		v.lineHits.Reset()
		if f.slices[band].ObstructViewer(v, v.lineHits) {
			truncated++
		}
	}

	v.resolveRadius()

	if f.cfg.ExactRadiusOcclusion {
		bias := f.cellSize * f.cfg.RadiusBiasScale
		for _, id := range v.occluderHits.Items() {
			o := f.occluderByID(id)
			if o == nil || !o.IsInRange(v) {
				continue
			}
			o.ObstructViewerGrid(v, f.cellSize, bias)
		}
	}

	v.dirty = false
	return truncated
}

// resolveRadius rasterises the radial depth buffer into the local grid.
func (v *Viewer) resolveRadius() {
	t := v.table
	for i, b := range t.Cells {
		if b == OutsideCircle || t.Dist2[i] > v.depth[b] {
			v.local[i] = 0
			continue
		}
		v.local[i] = FlagVisible
	}
}

// localCell returns the local grid value at offset (dx, dy) from the
// viewer's cell.
func (v *Viewer) localCell(dx, dy int) uint8 {
	half := v.table.Size / 2
	i, j := dx+half, dy+half
	if i < 0 || j < 0 || i >= v.table.Size || j >= v.table.Size {
		return 0
	}
	return v.local[j*v.table.Size+i]
}
