// Package monitor renders engine state for humans: PNG debug overlays,
// HTML visibility heatmaps and a small HTTP API serving both.
package monitor

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/fogofwar/internal/fow/debug"
)

// circleSegments is the number of chords used to draw a sphere outline.
const circleSegments = 32

// RenderDebugFrame draws a top-down view of frame as a PNG of the given
// size. Boxes are filled, spheres are drawn as circles in the XY plane and
// lines are projected onto it.
func RenderDebugFrame(w io.Writer, frame *debug.DebugFrame, width, height vg.Length) error {
	if frame == nil {
		return fmt.Errorf("render debug frame: nil frame")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("frame %d", frame.FrameID)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.BackgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}

	for _, b := range frame.Boxes {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: b.Mins.X, Y: b.Mins.Y},
			{X: b.Maxs.X, Y: b.Mins.Y},
			{X: b.Maxs.X, Y: b.Maxs.Y},
			{X: b.Mins.X, Y: b.Maxs.Y},
		})
		if err != nil {
			return fmt.Errorf("render box: %w", err)
		}
		poly.Color = b.Color
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for _, s := range frame.Spheres {
		pts := make(plotter.XYs, circleSegments+1)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts[i] = plotter.XY{X: s.Center.X + s.Radius*math.Cos(a), Y: s.Center.Y + s.Radius*math.Sin(a)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render sphere: %w", err)
		}
		line.Color = s.Color
		line.Width = vg.Points(1)
		p.Add(line)
	}

	for _, l := range frame.Lines {
		line, err := plotter.NewLine(plotter.XYs{{X: l.A.X, Y: l.A.Y}, {X: l.B.X, Y: l.B.Y}})
		if err != nil {
			return fmt.Errorf("render line: %w", err)
		}
		line.Color = l.Color
		line.Width = vg.Points(1)
		p.Add(line)
	}

	squareAxes(p)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render debug frame: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write debug frame: %w", err)
	}
	return nil
}

// squareAxes gives both axes the same span so circles stay round.
func squareAxes(p *plot.Plot) {
	if p.X.Max <= p.X.Min || p.Y.Max <= p.Y.Min {
		p.X.Min, p.X.Max = -1, 1
		p.Y.Min, p.Y.Max = -1, 1
		return
	}
	span := math.Max(p.X.Max-p.X.Min, p.Y.Max-p.Y.Min) / 2
	cx := (p.X.Min + p.X.Max) / 2
	cy := (p.Y.Min + p.Y.Max) / 2
	p.X.Min, p.X.Max = cx-span, cx+span
	p.Y.Min, p.Y.Max = cy-span, cy+span
	p.X.Padding = vg.Length(0)
	p.Y.Padding = vg.Length(0)
}
