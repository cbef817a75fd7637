package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/roomedit/internal/shape"
)

// Tool is the active pointer tool.
type Tool uint8

const (
	Brush Tool = iota
	Grab
	Lasso
	Rectangle
	Circle
	Line
)

var toolNames = [...]string{"brush", "grab", "lasso", "rectangle", "circle", "line"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", t)
}

// Tools lists every tool in toolbar order.
func Tools() []Tool { return []Tool{Brush, Grab, Lasso, Rectangle, Circle, Line} }

// ParseTool maps a name to a Tool. "pen" and "anchor" are accepted for the
// lasso.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "pen", "anchor":
		return Lasso, nil
	case "rect":
		return Rectangle, nil
	}
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return Brush, fmt.Errorf("unknown tool %q", s)
}

const (
	DefaultBrushSize = 20
	MinBrushSize     = 1
	MaxBrushSize     = 100

	// EditTolerance is how close a press must land to a handle to grab it.
	EditTolerance = 10
	// CloseTolerance is how close a lasso click must land to the first
	// point to close the path.
	CloseTolerance = 40
	// MinShapeDrag is the drag distance a rectangle or circle must exceed.
	MinShapeDrag = 5
)

// Session is the user's current drawing settings.
type Session struct {
	Tool      Tool
	Color     shape.Color
	BrushSize float64
	// Straight is the straight-line modifier (Shift).
	Straight bool
}

// DefaultSession returns brush, black, size 20.
func DefaultSession() Session {
	return Session{Tool: Brush, Color: shape.Black, BrushSize: DefaultBrushSize}
}

// ClampBrushSize limits n to [MinBrushSize, MaxBrushSize]. NaN becomes
// MinBrushSize.
func ClampBrushSize(n float64) float64 {
	if n < MinBrushSize || math.IsNaN(n) {
		return MinBrushSize
	}
	if n > MaxBrushSize {
		return MaxBrushSize
	}
	return n
}
