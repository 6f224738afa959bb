// Package debug records the debug overlay emitted by the visibility engine.
// The DebugCollector implements the engine's drawer interface and keeps the
// lines, boxes and spheres of one frame so tools can render them later.
package debug

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pre-allocation capacities for debug frame slices.
// Based on a typical skirmish map:
//   - ~50 viewers and ~100 occluders drawn as spheres
//   - a few hundred tri-soup line occluders
const (
	defaultLineCapacity   = 256
	defaultBoxCapacity    = 64
	defaultSphereCapacity = 160
)

// DebugCollector accumulates draw calls for a single frame.
//
// The collector is stateful: call BeginFrame, pass it to the engine's
// DrawDebug, then Emit to take the frame. Reset drops a pending frame.
type DebugCollector struct {
	enabled bool
	current *DebugFrame
}

// DebugFrame contains every primitive drawn during one frame.
type DebugFrame struct {
	FrameID uint64
	Lines   []Line
	Boxes   []Box
	Spheres []Sphere
}

// Line is a segment between two world points.
type Line struct {
	A     r3.Vec
	B     r3.Vec
	Color color.RGBA
}

// Box is an axis-aligned box.
type Box struct {
	Mins  r3.Vec
	Maxs  r3.Vec
	Color color.RGBA
}

// Sphere is a sphere, drawn as a circle in the XY plane by the monitor.
type Sphere struct {
	Center r3.Vec
	Radius float64
	Color  color.RGBA
}

// NewDebugCollector creates a collector that's initially disabled.
// Call SetEnabled(true) to begin collecting.
func NewDebugCollector() *DebugCollector {
	return &DebugCollector{}
}

// SetEnabled controls whether the collector records primitives.
func (c *DebugCollector) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// IsEnabled returns true if the collector is actively recording.
func (c *DebugCollector) IsEnabled() bool {
	return c.enabled
}

// BeginFrame starts a new frame. Draw calls before the first BeginFrame are
// dropped.
func (c *DebugCollector) BeginFrame(frameID uint64) {
	if !c.enabled {
		return
	}
	c.current = &DebugFrame{
		FrameID: frameID,
		Lines:   make([]Line, 0, defaultLineCapacity),
		Boxes:   make([]Box, 0, defaultBoxCapacity),
		Spheres: make([]Sphere, 0, defaultSphereCapacity),
	}
}

// Line records a segment.
func (c *DebugCollector) Line(a, b r3.Vec, col color.RGBA) {
	if !c.enabled || c.current == nil {
		return
	}
	c.current.Lines = append(c.current.Lines, Line{A: a, B: b, Color: col})
}

// Box records an axis-aligned box.
func (c *DebugCollector) Box(mins, maxs r3.Vec, col color.RGBA) {
	if !c.enabled || c.current == nil {
		return
	}
	c.current.Boxes = append(c.current.Boxes, Box{Mins: mins, Maxs: maxs, Color: col})
}

// Sphere records a sphere.
func (c *DebugCollector) Sphere(center r3.Vec, radius float64, col color.RGBA) {
	if !c.enabled || c.current == nil {
		return
	}
	c.current.Spheres = append(c.current.Spheres, Sphere{Center: center, Radius: radius, Color: col})
}

// Emit returns the accumulated frame and prepares for the next one.
// Returns nil if collection is disabled or no frame was begun.
func (c *DebugCollector) Emit() *DebugFrame {
	if !c.enabled || c.current == nil {
		return nil
	}
	frame := c.current
	c.current = nil
	return frame
}

// Reset clears any pending primitives without emitting them.
func (c *DebugCollector) Reset() {
	c.current = nil
}
