// Package chart draws static snapshots of rendered trajectories.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"bustrack-visualizer/trajectory"
)

var (
	pathColor   = color.RGBA{R: 0x49, G: 0xa8, B: 0xde, A: 0xff}
	latestColor = color.RGBA{R: 0xe0, G: 0x2f, B: 0x44, A: 0xff}
	labelColor  = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// arrowScale sizes the arrow barbs relative to the path's bounding box.
const arrowScale = 0.03

// WritePathPNG draws path as a PNG of the given size: the line, every
// point labelled with its passenger count, the latest point highlighted and
// a barbed arrow on every segment midpoint.
func WritePathPNG(w io.Writer, path trajectory.Path, title string, width, height vg.Length) error {
	if len(path.Points) == 0 {
		return fmt.Errorf("empty path")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	if path.Line != nil && len(path.Line.Coords) > 1 {
		xys := make(plotter.XYs, len(path.Line.Coords))
		for i, c := range path.Line.Coords {
			xys[i] = plotter.XY{X: c.X(), Y: c.Y()}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = pathColor
		l.Width = vg.Points(2)
		p.Add(l)
	}

	pts := make(plotter.XYs, 0, len(path.Points))
	labels := make([]string, 0, len(path.Points))
	var latest plotter.XYs
	for _, pt := range path.Points {
		xy := plotter.XY{X: pt.Coord.X(), Y: pt.Coord.Y()}
		if pt.Latest {
			latest = append(latest, xy)
		} else {
			pts = append(pts, xy)
		}
		labels = append(labels, pt.Label)
	}
	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Color = pathColor
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
	}
	if len(latest) > 0 {
		s, err := plotter.NewScatter(latest)
		if err != nil {
			return err
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Color = latestColor
		s.GlyphStyle.Radius = vg.Points(5)
		p.Add(s)
		p.Legend.Add("latest", s)
	}

	all := make(plotter.XYs, 0, len(path.Points))
	for _, pt := range path.Points {
		all = append(all, plotter.XY{X: pt.Coord.X(), Y: pt.Coord.Y()})
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: all, Labels: labels})
	if err != nil {
		return err
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].Color = labelColor
	}
	lbl.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
	p.Add(lbl)

	size := arrowScale * extent(all)
	for _, a := range path.Arrows {
		l, err := plotter.NewLine(arrowBarbs(a, size))
		if err != nil {
			return err
		}
		l.Color = pathColor
		l.Width = vg.Points(1.5)
		p.Add(l)
	}

	p.Legend.Top = true
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// arrowBarbs returns a three-vertex polyline, barb to tip to barb, with the
// tip on the arrow coordinate pointing along the segment.
func arrowBarbs(a trajectory.ArrowFeature, size float64) plotter.XYs {
	tip := plotter.XY{X: a.Coord.X(), Y: a.Coord.Y()}
	back := a.Angle + math.Pi
	spread := math.Pi / 6
	return plotter.XYs{
		{X: tip.X + size*math.Cos(back-spread), Y: tip.Y + size*math.Sin(back-spread)},
		tip,
		{X: tip.X + size*math.Cos(back+spread), Y: tip.Y + size*math.Sin(back+spread)},
	}
}

func extent(xys plotter.XYs) float64 {
	if len(xys) == 0 {
		return 0
	}
	minX, maxX := xys[0].X, xys[0].X
	minY, maxY := xys[0].Y, xys[0].Y
	for _, xy := range xys[1:] {
		minX = math.Min(minX, xy.X)
		maxX = math.Max(maxX, xy.X)
		minY = math.Min(minY, xy.Y)
		maxY = math.Max(maxY, xy.Y)
	}
	return math.Hypot(maxX-minX, maxY-minY)
}
