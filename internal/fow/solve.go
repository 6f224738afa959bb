package fow

import (
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/fogofwar/internal/fow/arena"
	"github.com/banshee-data/fogofwar/internal/monitoring"
)

// SolveStats reports what one SolveVisibility call did.
type SolveStats struct {
	DirtyViewers     int           `json:"dirty_viewers"`
	TruncatedQueries int           `json:"truncated_queries"`
	Duration         time.Duration `json:"duration_ns"`
}

// SolveVisibility advances the team grids by dt seconds.
//
// The prep pass and one task per dirty viewer run concurrently; they touch
// disjoint state. Once all have finished, viewer grids are merged into the
// team grids and degrees are faded on the calling goroutine.
func (f *FoW) SolveVisibility(dt float64) SolveStats {
	if !f.sized {
		return SolveStats{}
	}
	start := f.clock.Now()

	var dirty []*Viewer
	f.viewers.Each(func(_ arena.ID, v *Viewer) {
		if v.dirty {
			dirty = append(dirty, v)
		}
	})

	workers := f.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var truncated atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)
	g.Go(func() error {
		f.prepVisibility()
		return nil
	})
	for _, v := range dirty {
		g.Go(func() error {
			if n := v.calcLocalizedVisibility(f); n > 0 {
				truncated.Add(int64(n))
			}
			return nil
		})
	}
	_ = g.Wait()

	f.mergeViewerVisibility()
	f.updateVisibleAmounts(dt)

	stats := SolveStats{
		DirtyViewers:     len(dirty),
		TruncatedQueries: int(truncated.Load()),
		Duration:         f.clock.Since(start),
	}
	if stats.TruncatedQueries > 0 {
		monitoring.Warnf("solve: %d spatial queries truncated at %d results", stats.TruncatedQueries, f.cfg.QueryLimit)
	}
	f.lastSolve = stats
	return stats
}

// prepVisibility promotes visible to was-visible and clears the visible
// bit and height group of every cell.
func (f *FoW) prepVisibility() {
	for _, g := range f.teams {
		for i, fl := range g.flags {
			g.flags[i] = (fl & FlagWasVisible) | (fl&FlagVisible)<<1
		}
	}
}

// mergeViewerVisibility ORs every viewer's local grid into its team grid,
// keeping the highest height group that sees each cell.
func (f *FoW) mergeViewerVisibility() {
	f.viewers.Each(func(_ arena.ID, v *Viewer) {
		g := f.teams[v.team]
		size := v.table.Size
		half := size / 2
		for j := 0; j < size; j++ {
			gy := v.cellY + j - half
			if gy < 0 || gy >= f.unitsY {
				continue
			}
			row := v.local[j*size : (j+1)*size]
			for i, fl := range row {
				if fl&FlagVisible == 0 {
					continue
				}
				gx := v.cellX + i - half
				if gx < 0 || gx >= f.unitsX {
					continue
				}
				idx := gy*f.unitsX + gx
				cell := g.flags[idx] | FlagVisible
				if v.heightGroup > HeightGroupFromFlags(cell) {
					cell = withHeightGroup(cell, v.heightGroup)
				}
				g.flags[idx] = cell
			}
		}
	})
}

// updateVisibleAmounts ramps the degree of visible cells up by dt/FadeRate
// and refreshes their fade timer. Other cells hold until the timer runs
// out, then decay at the same rate.
func (f *FoW) updateVisibleAmounts(dt float64) {
	step := dt / f.cfg.FadeRate
	delay := f.cfg.FadeDelay
	for _, g := range f.teams {
		for i, fl := range g.flags {
			if fl&FlagVisible != 0 {
				g.degree[i] = min(g.degree[i]+step, MaxDegree)
				g.fade[i] = delay
				continue
			}
			if g.fade[i] > 0 {
				g.fade[i] -= dt
				if g.fade[i] > 0 {
					continue
				}
				g.fade[i] = 0
			}
			if g.degree[i] > 0 {
				g.degree[i] = max(g.degree[i]-step, 0)
			}
		}
	}
}

// LastSolve returns the stats of the most recent solve.
func (f *FoW) LastSolve() SolveStats { return f.lastSolve }
