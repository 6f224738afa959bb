package fow

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/monitoring"
)

// TraceResult is the outcome of a box cast.
type TraceResult struct {
	Hit      bool
	Fraction float64 // of the way from start to end where the box stopped
	EndPos   r3.Vec
}

// CollisionCaster sweeps an axis-aligned box through static world geometry.
// mins and maxs are relative to the box centre.
type CollisionCaster interface {
	TraceBox(start, end, mins, maxs r3.Vec) TraceResult
}

// SeedOptions controls SeedOccludersFromWorld.
type SeedOptions struct {
	// MinBlockHeight is the height above the world floor a hit must reach
	// before it becomes an occluder.
	MinBlockHeight float64
	// RadiusScale multiplies half the cell size to give the occluder
	// radius. Zero means 1.
	RadiusScale float64
}

// SeedOccludersFromWorld casts a box down the centre of every grid cell and
// adds a static radius occluder wherever geometry rises at least
// MinBlockHeight above the world floor. The height group comes from the hit
// height. It returns the number of occluders added.
func (f *FoW) SeedOccludersFromWorld(caster CollisionCaster, opts SeedOptions) (int, error) {
	if !f.sized {
		return 0, ErrNotSized
	}
	scale := opts.RadiusScale
	if scale <= 0 {
		scale = 1
	}
	radius := 0.5 * f.cellSize * scale
	half := 0.25 * f.cellSize
	boxMins := r3.Vec{X: -half, Y: -half}
	boxMaxs := r3.Vec{X: half, Y: half}

	added := 0
	for y := 0; y < f.unitsY; y++ {
		for x := 0; x < f.unitsX; x++ {
			c := f.cellCenter(x, y)
			start := r3.Vec{X: c.X, Y: c.Y, Z: f.worldMaxs.Z}
			end := r3.Vec{X: c.X, Y: c.Y, Z: f.worldMins.Z}
			tr := caster.TraceBox(start, end, boxMins, boxMaxs)
			if !tr.Hit || tr.EndPos.Z-f.worldMins.Z < opts.MinBlockHeight {
				continue
			}
			loc := r3.Vec{X: c.X, Y: c.Y, Z: tr.EndPos.Z}
			if _, err := f.AddOccluder(loc, radius, f.heightGroupForZ(tr.EndPos.Z)); err != nil {
				return added, fmt.Errorf("seed occluder at cell %d,%d: %w", x, y, err)
			}
			added++
		}
	}
	monitoring.Logf("[fow] seeded %d occluders from world geometry (%dx%d cells)", added, f.unitsX, f.unitsY)
	return added, nil
}

// heightGroupForZ maps a world height onto [0, MaxHeightGroup].
func (f *FoW) heightGroupForZ(z float64) int {
	span := f.worldMaxs.Z - f.worldMins.Z
	if span <= 0 {
		return 0
	}
	g := int((z - f.worldMins.Z) / span * (MaxHeightGroup + 1))
	return clampInt(g, 0, MaxHeightGroup)
}
