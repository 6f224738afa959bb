package fow

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
	"github.com/banshee-data/fogofwar/internal/fow/spatial"
	"github.com/banshee-data/fogofwar/internal/monitoring"
	"github.com/banshee-data/fogofwar/internal/timeutil"
)

// FoW is the visibility engine. Construct with New, then call SetSize
// before adding anything.
type FoW struct {
	cfg Config

	sized     bool
	worldMins r3.Vec
	worldMaxs r3.Vec
	cellSize  float64
	unitsX    int
	unitsY    int

	numTeams int
	teams    []*teamGrid

	levels []float64 // vertical band boundaries, ascending; empty means no bands
	slices []*HorizontalSlice

	viewers   arena.SlotMap[*Viewer]
	occluders arena.SlotMap[*RadiusOccluder]
	soups     arena.SlotMap[*TriSoupCollection]

	viewerTree   *spatial.SphereTree[ViewerID]
	occluderTree *spatial.SphereTree[OccluderID]

	radiusTables map[float64]*RadiusTable

	clock timeutil.Clock

	debugFlags DebugFlags
	debugTeam  int
	lastSolve  SolveStats
}

// New creates an engine with the given configuration. A nil cfg uses
// DefaultConfig.
func New(cfg *Config) (*FoW, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fow config: %w", err)
	}
	f := &FoW{
		cfg:          *cfg,
		cellSize:     cfg.HorizontalCellSize,
		numTeams:     cfg.NumTeams,
		radiusTables: make(map[float64]*RadiusTable),
		clock:        cfg.Clock,
	}
	if f.clock == nil {
		f.clock = timeutil.RealClock{}
	}
	f.resetIndices()
	return f, nil
}

// Config returns a copy of the engine configuration.
func (f *FoW) Config() Config { return f.cfg }

func (f *FoW) resetIndices() {
	f.viewerTree = spatial.NewSphereTree[ViewerID](f.cellSize * 4)
	f.occluderTree = spatial.NewSphereTree[OccluderID](f.cellSize * 4)
}

func (f *FoW) populated() bool {
	return f.viewers.Len() > 0 || f.occluders.Len() > 0 || f.soups.Len() > 0
}

// SetSize defines the world bounds and horizontal cell size and allocates
// the team grids. A non-positive cellSize keeps the configured size. It
// fails with ErrAlreadySized once viewers, occluders or tri-soups exist.
func (f *FoW) SetSize(mins, maxs r3.Vec, cellSize float64) error {
	if f.populated() {
		return ErrAlreadySized
	}
	if cellSize <= 0 {
		cellSize = f.cfg.HorizontalCellSize
	}
	if !finite(cellSize) {
		return fmt.Errorf("set size: invalid cell size %f", cellSize)
	}
	if !finiteVec(mins) || !finiteVec(maxs) || !(maxs.X > mins.X) || !(maxs.Y > mins.Y) || maxs.Z < mins.Z {
		return fmt.Errorf("set size: invalid bounds %v..%v", mins, maxs)
	}
	ux := math.Ceil((maxs.X - mins.X) / cellSize)
	uy := math.Ceil((maxs.Y - mins.Y) / cellSize)
	if ux*uy > MaxGridCells {
		return fmt.Errorf("set size: %.0fx%.0f cells exceeds %d", ux, uy, MaxGridCells)
	}

	f.worldMins, f.worldMaxs = mins, maxs
	f.cellSize = cellSize
	f.unitsX = int(ux)
	f.unitsY = int(uy)
	f.sized = true

	clear(f.radiusTables)
	f.resetIndices()
	f.allocTeams()

	f.levels = nil
	if f.cfg.VerticalCellSize > 0 && maxs.Z > mins.Z {
		f.levels = uniformLevels(mins.Z, maxs.Z, f.cfg.VerticalCellSize)
	}
	f.rebuildSlices()
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteVec(v r3.Vec) bool { return finite(v.X) && finite(v.Y) && finite(v.Z) }

func (f *FoW) allocTeams() {
	cells := f.unitsX * f.unitsY
	f.teams = make([]*teamGrid, f.numTeams)
	for i := range f.teams {
		f.teams[i] = newTeamGrid(cells)
	}
}

// SetNumberOfTeams changes the number of team grids. Existing grids are
// kept; new ones start unseen.
func (f *FoW) SetNumberOfTeams(n int) error {
	if n < 1 || n > MaxTeams {
		return fmt.Errorf("set teams %d: %w", n, ErrTeamOutOfRange)
	}
	var inUse error
	f.viewers.Each(func(_ arena.ID, v *Viewer) {
		if v.team >= n && inUse == nil {
			inUse = fmt.Errorf("set teams %d: %s uses team %d: %w", n, v.id, v.team, ErrTeamOutOfRange)
		}
	})
	if inUse != nil {
		return inUse
	}
	f.numTeams = n
	if !f.sized {
		return nil
	}
	cells := f.unitsX * f.unitsY
	for len(f.teams) < n {
		f.teams = append(f.teams, newTeamGrid(cells))
	}
	f.teams = f.teams[:n]
	return nil
}

// GetNumberOfTeams returns the number of team grids.
func (f *FoW) GetNumberOfTeams() int { return f.numTeams }

func (f *FoW) checkTeam(team int) error {
	if team < 0 || team >= f.numTeams {
		return fmt.Errorf("team %d of %d: %w", team, f.numTeams, ErrTeamOutOfRange)
	}
	return nil
}

// VerticalGridInfo describes the vertical bands.
type VerticalGridInfo struct {
	Levels []float64 // band boundaries, ascending
	Bands  int
}

func uniformLevels(minZ, maxZ, size float64) []float64 {
	levels := []float64{minZ}
	for z := minZ + size; z < maxZ; z += size {
		levels = append(levels, z)
	}
	return append(levels, maxZ)
}

// SetVerticalGridSize splits the world height into bands of size. A
// non-positive size removes all bands. Line occluders are rebuilt from the
// stored triangles.
func (f *FoW) SetVerticalGridSize(size float64) error {
	if !f.sized {
		return ErrNotSized
	}
	f.cfg.VerticalCellSize = math.Max(size, 0)
	f.levels = nil
	if size > 0 && f.worldMaxs.Z > f.worldMins.Z {
		f.levels = uniformLevels(f.worldMins.Z, f.worldMaxs.Z, size)
	}
	f.rebuildSlices()
	return nil
}

// SetCustomVerticalLevels sets explicit band boundaries. levels must be
// strictly ascending with at least two entries.
func (f *FoW) SetCustomVerticalLevels(levels []float64) error {
	if !f.sized {
		return ErrNotSized
	}
	if len(levels) < 2 {
		return fmt.Errorf("vertical levels: need at least 2 boundaries, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if !(levels[i] > levels[i-1]) {
			return fmt.Errorf("vertical levels: not strictly ascending at %d (%f <= %f)", i, levels[i], levels[i-1])
		}
	}
	f.levels = append([]float64(nil), levels...)
	f.rebuildSlices()
	return nil
}

// GetVerticalGridInfo returns a copy of the band boundaries.
func (f *FoW) GetVerticalGridInfo() VerticalGridInfo {
	return VerticalGridInfo{
		Levels: append([]float64(nil), f.levels...),
		Bands:  len(f.slices),
	}
}

// bandFor returns the band holding z, or -1 when z is outside all bands.
func (f *FoW) bandFor(z float64) int {
	n := len(f.levels)
	if n < 2 || z < f.levels[0] || z > f.levels[n-1] {
		return -1
	}
	i := sort.SearchFloat64s(f.levels, z)
	if i < n && f.levels[i] == z {
		// On a boundary: belongs to the band above, except the top one.
		if i == n-1 {
			return n - 2
		}
		return i
	}
	return i - 1
}

// rebuildSlices recreates one slice per band and sections every tri-soup
// into them. All viewers become dirty.
func (f *FoW) rebuildSlices() {
	f.slices = f.slices[:0]
	for i := 0; i+1 < len(f.levels); i++ {
		f.slices = append(f.slices, newHorizontalSlice(i, f.levels[i], f.levels[i+1], f.cellSize))
	}
	lines := 0
	f.soups.Each(func(_ arena.ID, c *TriSoupCollection) {
		c.rebuild(f.slices, f.cfg.SliceBias)
		lines += len(c.lines)
	})
	f.markAllViewersDirty()
	if f.soups.Len() > 0 {
		monitoring.Logf("[fow] rebuilt %d slices from %d tri-soups (%d line occluders)", len(f.slices), f.soups.Len(), lines)
	}
}

// notifyViewers marks every viewer whose vision circle overlaps s dirty.
func (f *FoW) notifyViewers(s spatial.Sphere) {
	hits := spatial.NewCollector[ViewerID](0)
	f.viewerTree.Query(s, hits)
	for _, id := range hits.Items() {
		if v, ok := f.viewers.Get(arena.ID(id)); ok {
			v.dirty = true
		}
	}
}

func (f *FoW) markAllViewersDirty() {
	f.viewers.Each(func(_ arena.ID, v *Viewer) { v.dirty = true })
}

func (f *FoW) occluderByID(id OccluderID) *RadiusOccluder {
	o, _ := f.occluders.Get(arena.ID(id))
	return o
}

// checkLocation applies the safety checks to a location.
func (f *FoW) checkLocation(op string, loc r3.Vec) error {
	if !f.cfg.SafetyChecks || f.inBounds(loc) {
		return nil
	}
	monitoring.Warnf("%s: location %v outside world %v..%v", op, loc, f.worldMins, f.worldMaxs)
	return fmt.Errorf("%s: %w", op, ErrInvalidLocation)
}

// checkRadius rejects non-positive radii, and near-zero ones in safety mode.
func (f *FoW) checkRadius(op string, radius float64) error {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("%s: radius %f: %w", op, radius, ErrInvalidRadius)
	}
	if f.cfg.SafetyChecks && radius < minSafeRadius {
		monitoring.Warnf("%s: radius %f below %f", op, radius, minSafeRadius)
		return fmt.Errorf("%s: radius %f: %w", op, radius, ErrInvalidRadius)
	}
	return nil
}

func checkHeightGroup(op string, group int) error {
	if group < 0 || group > MaxHeightGroup {
		return fmt.Errorf("%s: height group %d: %w", op, group, ErrInvalidHeightGroup)
	}
	return nil
}

// Reset tears everything down: viewers, occluders, tri-soups, radius
// tables, bands and team grids. SetSize must be called again.
func (f *FoW) Reset() {
	f.viewers.Clear()
	f.occluders.Clear()
	f.soups.Clear()
	f.resetIndices()
	clear(f.radiusTables)
	f.levels = nil
	f.slices = nil
	f.teams = nil
	f.sized = false
	f.unitsX, f.unitsY = 0, 0
	f.lastSolve = SolveStats{}
}
