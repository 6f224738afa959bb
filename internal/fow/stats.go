package fow

import (
	"github.com/banshee-data/fogofwar/internal/fow/arena"
	"github.com/banshee-data/fogofwar/internal/monitoring"
)

// Stats summarises the engine contents.
type Stats struct {
	Viewers       int        `json:"viewers"`
	DirtyViewers  int        `json:"dirty_viewers"`
	Occluders     int        `json:"occluders"`
	TriSoups      int        `json:"trisoups"`
	LineOccluders int        `json:"line_occluders"`
	RadiusTables  int        `json:"radius_tables"`
	Teams         int        `json:"teams"`
	GridX         int        `json:"grid_x"`
	GridY         int        `json:"grid_y"`
	Bands         int        `json:"bands"`
	LastSolve     SolveStats `json:"last_solve"`
}

// Stats returns the current counts.
func (f *FoW) Stats() Stats {
	s := Stats{
		Viewers:      f.viewers.Len(),
		Occluders:    f.occluders.Len(),
		TriSoups:     f.soups.Len(),
		RadiusTables: len(f.radiusTables),
		Teams:        f.numTeams,
		GridX:        f.unitsX,
		GridY:        f.unitsY,
		Bands:        len(f.slices),
		LastSolve:    f.lastSolve,
	}
	f.viewers.Each(func(_ arena.ID, v *Viewer) {
		if v.dirty {
			s.DirtyViewers++
		}
	})
	for _, sl := range f.slices {
		s.LineOccluders += sl.Len()
	}
	return s
}

// PrintStats logs the current counts.
func (f *FoW) PrintStats() {
	s := f.Stats()
	monitoring.Logf("[fow] grid=%dx%d cell=%.2f teams=%d bands=%d", s.GridX, s.GridY, f.cellSize, s.Teams, s.Bands)
	monitoring.Logf("[fow] viewers=%d (dirty %d) occluders=%d trisoups=%d lines=%d radius_tables=%d",
		s.Viewers, s.DirtyViewers, s.Occluders, s.TriSoups, s.LineOccluders, s.RadiusTables)
	monitoring.Logf("[fow] last solve: dirty=%d truncated=%d took=%v",
		s.LastSolve.DirtyViewers, s.LastSolve.TruncatedQueries, s.LastSolve.Duration)
}
