package trajectory

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind tags a rendered feature.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindArrow
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindArrow:
		return "arrow"
	}
	return "unknown"
}

// Feature is a single renderable element of a Path.
type Feature interface {
	Kind() Kind
	Geometry() orb.Geometry
}

// PointFeature marks one trajectory sample.
type PointFeature struct {
	Coord  orb.Point
	Label  string
	Latest bool
}

func (PointFeature) Kind() Kind               { return KindPoint }
func (f PointFeature) Geometry() orb.Geometry { return f.Coord }

// LineFeature threads through every trajectory point in order.
type LineFeature struct {
	Coords orb.LineString
}

func (LineFeature) Kind() Kind               { return KindLine }
func (f LineFeature) Geometry() orb.Geometry { return f.Coords }

// ArrowFeature is a direction marker placed at a segment midpoint.
// Angle is atan2(dy, dx) of the segment; Rotation is the clockwise icon
// rotation, which is -Angle.
type ArrowFeature struct {
	Coord    orb.Point
	Angle    float64
	Rotation float64
}

func (ArrowFeature) Kind() Kind               { return KindArrow }
func (f ArrowFeature) Geometry() orb.Geometry { return f.Coord }

// Path is the rendered form of one trajectory.
type Path struct {
	Points []PointFeature
	Line   *LineFeature
	Arrows []ArrowFeature
}

// Features flattens the path into a single collection: points, then the
// line, then arrows. Consumers must not rely on the order.
func (p Path) Features() []Feature {
	out := make([]Feature, 0, len(p.Points)+len(p.Arrows)+1)
	for _, f := range p.Points {
		out = append(out, f)
	}
	if p.Line != nil {
		out = append(out, *p.Line)
	}
	for _, f := range p.Arrows {
		out = append(out, f)
	}
	return out
}

// Surface describes the plane a path is displayed on relative to the
// trajectory's coordinates. Forward maps trajectory coordinates onto the
// surface and Inverse maps them back. A zero Surface means the trajectory
// is already in surface coordinates.
type Surface struct {
	Forward orb.Projection
	Inverse orb.Projection
}

func (s Surface) forward(p orb.Point) orb.Point {
	if s.Forward == nil {
		return p
	}
	return s.Forward(p)
}

func (s Surface) inverse(p orb.Point) orb.Point {
	if s.Inverse == nil {
		return p
	}
	return s.Inverse(p)
}

// Render builds the points, the connecting line and one arrow per segment
// for t, with arrow angles taken in t's own coordinates. A single point
// gives a one-vertex line and no arrows; an empty trajectory gives an empty
// Path.
func Render(t Trajectory) Path {
	return RenderOn(t, Surface{})
}

// RenderOn is Render with arrow angles and midpoints computed on surface s,
// so arrows line up with the segments as displayed. Feature coordinates
// stay in t's coordinates.
func RenderOn(t Trajectory, s Surface) Path {
	if len(t) == 0 {
		return Path{}
	}
	return Path{
		Points: RenderPoints(t),
		Line:   &LineFeature{Coords: t.LineString()},
		Arrows: renderArrows(t, s),
	}
}

// RenderPoints returns one point feature per trajectory point. Only the
// last point in array order is flagged Latest.
func RenderPoints(t Trajectory) []PointFeature {
	out := make([]PointFeature, len(t))
	for i, p := range t {
		out[i] = PointFeature{
			Coord:  p.Coord,
			Label:  p.Label,
			Latest: i == len(t)-1,
		}
	}
	return out
}

func renderArrows(t Trajectory, s Surface) []ArrowFeature {
	if len(t) < 2 {
		return nil
	}
	out := make([]ArrowFeature, 0, len(t)-1)
	for i := 1; i < len(t); i++ {
		start := vec(s.forward(t[i-1].Coord))
		end := vec(s.forward(t[i].Coord))
		d := r2.Sub(end, start)
		mid := r2.Scale(0.5, r2.Add(start, end))
		angle := math.Atan2(d.Y, d.X)
		out = append(out, ArrowFeature{
			Coord:    s.inverse(orb.Point{mid.X, mid.Y}),
			Angle:    angle,
			Rotation: -angle,
		})
	}
	return out
}

func vec(p orb.Point) r2.Vec {
	return r2.Vec{X: p.X(), Y: p.Y()}
}
