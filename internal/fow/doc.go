// Package fow is the fog-of-war visibility engine.
//
// A FoW owns one visibility grid per team covering the world bounds given to
// SetSize. Viewers are vision sources with a radius and a height group.
// Each viewer keeps a local square grid plus a radial depth buffer: one
// squared distance per angular bucket, tightened by every occluder the
// viewer can see. Radius occluders are circular obstacles; line occluders
// are segments produced by cross-sectioning triangle soup against the
// vertical bands of the world.
//
// SolveVisibility runs once per frame:
//
//	prep    visible -> was-visible, clear visible, for every team
//	calc    one task per dirty viewer, in parallel
//	merge   OR every viewer's local grid into its team grid
//	fade    ramp the per-cell degree up while visible, hold, then decay
//
// A FoW is not safe for concurrent use. All Add/Remove/Update calls and
// SolveVisibility must come from one goroutine; the solve parallelises
// internally.
package fow
