package fow

import "github.com/banshee-data/fogofwar/internal/fow/arena"

// ViewerID identifies a viewer. IDs of removed viewers go stale and are
// rejected even after their slot is reused.
type ViewerID arena.ID

func (id ViewerID) String() string { return "viewer " + arena.ID(id).String() }

// OccluderID identifies a radius occluder.
type OccluderID arena.ID

func (id OccluderID) String() string { return "occluder " + arena.ID(id).String() }

// TriSoupID identifies a tri-soup collection.
type TriSoupID arena.ID

func (id TriSoupID) String() string { return "trisoup " + arena.ID(id).String() }
