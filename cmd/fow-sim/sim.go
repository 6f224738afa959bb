package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/fogofwar/internal/fow"
)

// scenarioConfig describes a randomly generated skirmish map.
type scenarioConfig struct {
	WorldSize  float64 // square world edge length, centred on the origin
	WorldTop   float64
	Teams      int
	Viewers    int // per team
	Occluders  int
	Walls      int
	ViewRadius float64
	Speed      float64 // viewer speed in world units per second
	Seed       uint64
}

func defaultScenario() scenarioConfig {
	return scenarioConfig{
		WorldSize:  2048,
		WorldTop:   256,
		Teams:      2,
		Viewers:    4,
		Occluders:  24,
		Walls:      4,
		ViewRadius: 384,
		Speed:      96,
		Seed:       1,
	}
}

// mover is a viewer walking in a straight line, bouncing off the world edge.
type mover struct {
	id  fow.ViewerID
	pos r3.Vec
	vel r3.Vec
}

type simulation struct {
	mins, maxs r3.Vec
	movers     []*mover
	frame      int
}

// populate sizes f and fills it with the scenario's viewers, occluders and
// walls.
func populate(f *fow.FoW, sc scenarioConfig) (*simulation, error) {
	rng := rand.New(rand.NewPCG(sc.Seed, sc.Seed^0x9e3779b97f4a7c15))
	half := sc.WorldSize / 2
	sim := &simulation{
		mins: r3.Vec{X: -half, Y: -half},
		maxs: r3.Vec{X: half, Y: half, Z: sc.WorldTop},
	}

	if err := f.SetNumberOfTeams(sc.Teams); err != nil {
		return nil, err
	}
	if err := f.SetSize(sim.mins, sim.maxs, 0); err != nil {
		return nil, err
	}

	randPoint := func(margin float64) r3.Vec {
		return r3.Vec{
			X: sim.mins.X + margin + rng.Float64()*(sc.WorldSize-2*margin),
			Y: sim.mins.Y + margin + rng.Float64()*(sc.WorldSize-2*margin),
			Z: 16,
		}
	}

	for team := 0; team < sc.Teams; team++ {
		for i := 0; i < sc.Viewers; i++ {
			pos := randPoint(32)
			id, err := f.AddViewer(team, pos, sc.ViewRadius)
			if err != nil {
				return nil, fmt.Errorf("add viewer: %w", err)
			}
			heading := rng.Float64() * 2 * math.Pi
			sim.movers = append(sim.movers, &mover{
				id:  id,
				pos: pos,
				vel: r3.Vec{X: sc.Speed * math.Cos(heading), Y: sc.Speed * math.Sin(heading)},
			})
		}
	}

	cell := f.GetHorizontalCellSize()
	for i := 0; i < sc.Occluders; i++ {
		radius := cell * (0.5 + rng.Float64()*1.5)
		if _, err := f.AddOccluder(randPoint(radius), radius, rng.IntN(fow.MaxHeightGroup+1)); err != nil {
			return nil, fmt.Errorf("add occluder: %w", err)
		}
	}

	if sc.Walls > 0 {
		if f.GetVerticalGridInfo().Bands == 0 {
			if err := f.SetVerticalGridSize(sc.WorldTop / 4); err != nil {
				return nil, err
			}
		}
		soup, err := f.AddTriSoupOccluder()
		if err != nil {
			return nil, err
		}
		for i := 0; i < sc.Walls; i++ {
			a := randPoint(64)
			length := 2 * cell * (1 + rng.Float64()*3)
			heading := rng.Float64() * 2 * math.Pi
			b := r3.Vec{X: a.X + length*math.Cos(heading), Y: a.Y + length*math.Sin(heading)}
			if err := addWall(f, soup, a, b, sim.mins.Z, sim.maxs.Z); err != nil {
				return nil, err
			}
		}
	}
	return sim, nil
}

// addWall adds a double-sided vertical wall between a and b.
func addWall(f *fow.FoW, soup fow.TriSoupID, a, b r3.Vec, bottom, top float64) error {
	a0 := r3.Vec{X: a.X, Y: a.Y, Z: bottom}
	a1 := r3.Vec{X: a.X, Y: a.Y, Z: top}
	b0 := r3.Vec{X: b.X, Y: b.Y, Z: bottom}
	b1 := r3.Vec{X: b.X, Y: b.Y, Z: top}
	for _, tri := range [][3]r3.Vec{
		{a0, b1, b0}, {a0, a1, b1}, // one face
		{b0, a1, a0}, {b0, b1, a1}, // the other
	} {
		if _, err := f.AddTri(soup, tri[0], tri[1], tri[2]); err != nil {
			return fmt.Errorf("add wall: %w", err)
		}
	}
	return nil
}

// step moves every viewer dt seconds along its heading.
func (s *simulation) step(f *fow.FoW, dt float64) error {
	for _, m := range s.movers {
		m.pos = r3.Add(m.pos, r3.Scale(dt, m.vel))
		if m.pos.X < s.mins.X || m.pos.X > s.maxs.X {
			m.vel.X = -m.vel.X
			m.pos.X = clamp(m.pos.X, s.mins.X, s.maxs.X)
		}
		if m.pos.Y < s.mins.Y || m.pos.Y > s.maxs.Y {
			m.vel.Y = -m.vel.Y
			m.pos.Y = clamp(m.pos.Y, s.mins.Y, s.maxs.Y)
		}
		if err := f.UpdateViewerLocation(m.id, m.pos); err != nil {
			return err
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
