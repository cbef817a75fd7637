// Package shape holds the vector marks a user places over the base image:
// freehand brush strokes, pen paths (lasso, rectangle, circle) and two-point
// line strokes. All coordinates are canvas pixels.
package shape

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Color is the paint of a mark. Black marks areas for removal, white marks
// areas that are kept or added.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Contrast returns the opposite paint, used for handle outlines.
func (c Color) Contrast() Color {
	if c == White {
		return Black
	}
	return White
}

// ParseColor accepts "black" or "white" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	}
	return Black, fmt.Errorf("unknown color %q", s)
}

// StrokeKind distinguishes the three brush stroke records.
type StrokeKind uint8

const (
	// KindSegment is a single dab at one point.
	KindSegment StrokeKind = iota
	// KindLine is a straight stroke between two points.
	KindLine
	// KindPath is a freehand polyline.
	KindPath
)

func (k StrokeKind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindLine:
		return "line"
	default:
		return "path"
	}
}

// BrushStroke is a committed freehand mark. Segment strokes hold one point,
// line strokes hold start and end, path strokes hold two or more points.
type BrushStroke struct {
	Kind   StrokeKind
	Points []Point
	Color  Color
	Size   float64
}

// Segment returns a dab stroke at p.
func Segment(p Point, c Color, size float64) BrushStroke {
	return BrushStroke{Kind: KindSegment, Points: []Point{p}, Color: c, Size: size}
}

// StraightStroke returns a line stroke from start to end.
func StraightStroke(start, end Point, c Color, size float64) BrushStroke {
	return BrushStroke{Kind: KindLine, Points: []Point{start, end}, Color: c, Size: size}
}

// FreehandStroke returns a path stroke through pts. The slice is copied.
func FreehandStroke(pts []Point, c Color, size float64) BrushStroke {
	return BrushStroke{Kind: KindPath, Points: clonePoints(pts), Color: c, Size: size}
}

// Clone returns a copy that shares no memory with s.
func (s BrushStroke) Clone() BrushStroke {
	s.Points = clonePoints(s.Points)
	return s
}

// LineStroke is a thin two-point line placed by two clicks. While the second
// click is pending it holds a single point.
type LineStroke struct {
	Points []Point
	Color  Color
}

// Complete reports whether both endpoints are placed.
func (l LineStroke) Complete() bool { return len(l.Points) >= 2 }

func (l LineStroke) Clone() LineStroke {
	l.Points = clonePoints(l.Points)
	return l
}

func clonePoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}
