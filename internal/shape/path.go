package shape

import (
	"errors"
	"math"
)

// PathKind tags how a pen path was created and how its handles behave.
type PathKind uint8

const (
	PathPen PathKind = iota
	PathRectangle
	PathCircle
)

func (k PathKind) String() string {
	switch k {
	case PathRectangle:
		return "rectangle"
	case PathCircle:
		return "circle"
	default:
		return "pen"
	}
}

// CirclePoints is the number of ring vertices used to approximate a circle.
const CirclePoints = 32

// ErrPathClosed is returned when a point is appended to a closed path.
var ErrPathClosed = errors.New("path is closed")

// PenPath is a polygon. Closed paths are filled when rendered.
type PenPath struct {
	Kind   PathKind
	Points []Point
	Color  Color
	Closed bool
}

// NewPenPath starts an open lasso path at p.
func NewPenPath(p Point, c Color) PenPath {
	return PenPath{Kind: PathPen, Points: []Point{p}, Color: c}
}

// Append adds p to an open path.
func (pp *PenPath) Append(p Point) error {
	if pp.Closed {
		return ErrPathClosed
	}
	pp.Points = append(pp.Points, p)
	return nil
}

// Close marks the path closed. It needs at least three points.
func (pp *PenPath) Close() bool {
	if len(pp.Points) < 3 {
		return false
	}
	pp.Closed = true
	return true
}

func (pp PenPath) Clone() PenPath {
	pp.Points = clonePoints(pp.Points)
	return pp
}

// Rectangle returns a closed rectangle path with corners in the order
// start, (end.X,start.Y), end, (start.X,end.Y).
func Rectangle(start, end Point, c Color) PenPath {
	return PenPath{
		Kind: PathRectangle,
		Points: []Point{
			start,
			{X: end.X, Y: start.Y},
			end,
			{X: start.X, Y: end.Y},
		},
		Color:  c,
		Closed: true,
	}
}

// Circle returns a closed ring of CirclePoints vertices where vertex i sits
// at angle i/CirclePoints of a full turn.
func Circle(center Point, radius float64, c Color) PenPath {
	return PenPath{Kind: PathCircle, Points: ring(center, radius), Color: c, Closed: true}
}

func ring(center Point, radius float64) []Point {
	pts := make([]Point, CirclePoints)
	for i := range pts {
		a := float64(i) / CirclePoints * 2 * math.Pi
		pts[i] = Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return pts
}

// CircleGeometry derives the center and radius of a circle path from its
// ring vertices 0, 8, 16 and 24.
func (pp PenPath) CircleGeometry() (Point, float64) {
	if len(pp.Points) < CirclePoints {
		return Point{}, 0
	}
	p := pp.Points
	c := Point{
		X: p[0].X + (p[16].X-p[0].X)/2,
		Y: p[8].Y + (p[24].Y-p[8].Y)/2,
	}
	return c, p[0].Dist(c)
}

// Anchors returns the editable handles of the path. Circles expose their
// four cardinal points (top, right, bottom, left); other paths expose every
// vertex.
func (pp PenPath) Anchors() []Point {
	if pp.Kind != PathCircle {
		return pp.Points
	}
	c, r := pp.CircleGeometry()
	return []Point{
		{X: c.X, Y: c.Y - r},
		{X: c.X + r, Y: c.Y},
		{X: c.X, Y: c.Y + r},
		{X: c.X - r, Y: c.Y},
	}
}

// MoveAnchor drags handle i to p. For circles the radius follows the
// handle's axis: top and bottom use the vertical distance to the center,
// left and right the horizontal one.
func (pp *PenPath) MoveAnchor(i int, p Point) {
	if pp.Kind != PathCircle {
		if i >= 0 && i < len(pp.Points) {
			pp.Points[i] = p
		}
		return
	}
	c, _ := pp.CircleGeometry()
	var r float64
	switch i {
	case 0, 2:
		r = math.Abs(p.Y - c.Y)
	case 1, 3:
		r = math.Abs(p.X - c.X)
	default:
		return
	}
	pp.Points = ring(c, r)
}
