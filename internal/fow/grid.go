package fow

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// teamGrid is the global visibility state of one team.
type teamGrid struct {
	flags  []uint8
	degree []float64
	fade   []float64 // seconds left before the degree starts decaying
}

func newTeamGrid(cells int) *teamGrid {
	return &teamGrid{
		flags:  make([]uint8, cells),
		degree: make([]float64, cells),
		fade:   make([]float64, cells),
	}
}

// GridSnapshot is a copy of one team grid, row-major from the lower bound.
type GridSnapshot struct {
	Team   int
	Width  int
	Height int
	Flags  []uint8
	// Degree holds reported degrees, capped at ReportedMaxDegree.
	Degree []float64
}

// At returns the flags and degree of cell (x, y).
func (s GridSnapshot) At(x, y int) (uint8, float64) {
	i := y*s.Width + x
	return s.Flags[i], s.Degree[i]
}

// LocationInfo is the state of the team grid cell holding a location.
type LocationInfo struct {
	CellX     int
	CellY     int
	Flags     uint8
	Degree    float64 // capped at ReportedMaxDegree
	RawDegree float64 // in [0, MaxDegree]
}

// Visible reports whether the cell was visible in the last solve.
func (i LocationInfo) Visible() bool { return i.Flags&FlagVisible != 0 }

// WasVisible reports whether the cell has been visible before the last solve.
func (i LocationInfo) WasVisible() bool { return i.Flags&FlagWasVisible != 0 }

// HeightGroup returns the highest height group that saw the cell.
func (i LocationInfo) HeightGroup() int { return HeightGroupFromFlags(i.Flags) }

func reportedDegree(d float64) float64 { return math.Min(d, ReportedMaxDegree) }

// cellFor returns the grid cell holding p, clamped into the grid.
func (f *FoW) cellFor(p r2.Vec) (int, int) {
	x := int(math.Floor((p.X - f.worldMins.X) / f.cellSize))
	y := int(math.Floor((p.Y - f.worldMins.Y) / f.cellSize))
	return clampInt(x, 0, f.unitsX-1), clampInt(y, 0, f.unitsY-1)
}

// cellCenter returns the world position of the centre of cell (x, y).
func (f *FoW) cellCenter(x, y int) r2.Vec {
	return r2.Vec{
		X: f.worldMins.X + (float64(x)+0.5)*f.cellSize,
		Y: f.worldMins.Y + (float64(y)+0.5)*f.cellSize,
	}
}

func (f *FoW) inBounds(loc r3.Vec) bool {
	return loc.X >= f.worldMins.X && loc.X <= f.worldMaxs.X &&
		loc.Y >= f.worldMins.Y && loc.Y <= f.worldMaxs.Y &&
		loc.Z >= f.worldMins.Z && loc.Z <= f.worldMaxs.Z
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetGridUnits returns the grid width and height in cells.
func (f *FoW) GetGridUnits() (int, int) { return f.unitsX, f.unitsY }

// GetLowerBoundCoordinates returns the world minimum corner.
func (f *FoW) GetLowerBoundCoordinates() r3.Vec { return f.worldMins }

// GetUpperBoundCoordinates returns the world maximum corner.
func (f *FoW) GetUpperBoundCoordinates() r3.Vec { return f.worldMaxs }

// GetHorizontalCellSize returns the grid cell edge length.
func (f *FoW) GetHorizontalCellSize() float64 { return f.cellSize }

// CenterCoordinates snaps loc to the centre of its grid cell. Z is kept.
func (f *FoW) CenterCoordinates(loc r3.Vec) r3.Vec {
	c := f.cellCenter(f.cellFor(r2.Vec{X: loc.X, Y: loc.Y}))
	return r3.Vec{X: c.X, Y: c.Y, Z: loc.Z}
}

// GetLocationInfo returns the team grid state of the cell holding loc.
func (f *FoW) GetLocationInfo(team int, loc r3.Vec) (LocationInfo, error) {
	if !f.sized {
		return LocationInfo{}, ErrNotSized
	}
	if err := f.checkTeam(team); err != nil {
		return LocationInfo{}, err
	}
	x, y := f.cellFor(r2.Vec{X: loc.X, Y: loc.Y})
	g := f.teams[team]
	i := y*f.unitsX + x
	return LocationInfo{
		CellX:     x,
		CellY:     y,
		Flags:     g.flags[i],
		Degree:    reportedDegree(g.degree[i]),
		RawDegree: g.degree[i],
	}, nil
}

// IsLocationVisible reports whether team currently sees loc. Invalid
// arguments report false.
func (f *FoW) IsLocationVisible(team int, loc r3.Vec) bool {
	info, err := f.GetLocationInfo(team, loc)
	return err == nil && info.Visible()
}

// GetLocationVisibilityDegree returns the reported degree of loc for team.
// Invalid arguments report 0.
func (f *FoW) GetLocationVisibilityDegree(team int, loc r3.Vec) float64 {
	info, err := f.GetLocationInfo(team, loc)
	if err != nil {
		return 0
	}
	return info.Degree
}

// TeamGrid returns a copy of a team grid.
func (f *FoW) TeamGrid(team int) (GridSnapshot, error) {
	if !f.sized {
		return GridSnapshot{}, ErrNotSized
	}
	if err := f.checkTeam(team); err != nil {
		return GridSnapshot{}, err
	}
	g := f.teams[team]
	snap := GridSnapshot{
		Team:   team,
		Width:  f.unitsX,
		Height: f.unitsY,
		Flags:  append([]uint8(nil), g.flags...),
		Degree: make([]float64, len(g.degree)),
	}
	for i, d := range g.degree {
		snap.Degree[i] = reportedDegree(d)
	}
	return snap, nil
}
