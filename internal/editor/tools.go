package editor

import (
	"fmt"
	"math"

	"github.com/example/roomedit/internal/shape"
	"github.com/example/roomedit/internal/viewport"
)

// Handle feeds one pointer event through the active tool. Events are
// ignored until an image is loaded, and positional events with a NaN or
// infinite coordinate are dropped.
func (e *Editor) Handle(ev Pointer) {
	if e.img == nil {
		return
	}
	if ev.Kind != PointerLeave && !finite(ev.X, ev.Y) {
		Logger().Warn("non-finite pointer dropped", "kind", ev.Kind, "x", ev.X, "y", ev.Y)
		return
	}
	switch ev.Kind {
	case PointerDown:
		e.down(ev.X, ev.Y)
	case PointerMove:
		e.move(ev.X, ev.Y)
	case PointerUp:
		e.up(ev.X, ev.Y)
	case PointerLeave:
		if e.pressed {
			e.up(e.clientX, e.clientY)
		}
		e.hasPointer = false
		e.render()
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (e *Editor) track(x, y float64) shape.Point {
	p := e.view.ToCanvas(x, y)
	e.pointer = p
	e.hasPointer = true
	e.clientX, e.clientY = x, y
	return p
}

func (e *Editor) down(x, y float64) {
	p := e.track(x, y)
	e.pressed = true
	if hit, ok := e.marks.HitAnchor(p, EditTolerance); ok {
		e.edit = &hit
		Logger().Debug("point edit", "path", hit.Path, "anchor", hit.Anchor)
		e.render()
		return
	}
	switch e.session.Tool {
	case Brush:
		e.start = &p
		e.stroke = nil
		e.straight = false
	case Grab:
		if e.view.CanPan() {
			e.grab = &grabState{pressX: x, pressY: y, pan: e.view.Pan}
		}
	case Rectangle, Circle:
		e.start = &p
	case Line:
		e.placeLinePoint(p)
	}
	e.render()
}

func (e *Editor) move(x, y float64) {
	p := e.track(x, y)
	if e.edit != nil {
		e.marks.PenPaths[e.edit.Path].MoveAnchor(e.edit.Anchor, p)
		e.render()
		return
	}
	switch e.session.Tool {
	case Brush:
		if !e.pressed {
			return
		}
		switch {
		case e.session.Straight && e.start != nil:
			s := shape.StraightStroke(*e.start, p, e.session.Color, e.session.BrushSize)
			e.marks.BrushStrokes = append(e.marks.BrushStrokes, s)
			e.straight = true
		case e.stroke == nil && e.start != nil:
			s := shape.FreehandStroke([]shape.Point{*e.start, p}, e.session.Color, e.session.BrushSize)
			e.stroke = &s
		case e.stroke != nil:
			e.stroke.Points = append(e.stroke.Points, p)
		default:
			return
		}
	case Grab:
		if e.grab == nil {
			return
		}
		e.view.SetPan(viewport.Offset{
			X: e.grab.pan.X + (x - e.grab.pressX),
			Y: e.grab.pan.Y + (y - e.grab.pressY),
		})
	case Rectangle, Circle:
		if !e.pressed {
			return
		}
	}
	e.render()
}

func (e *Editor) up(x, y float64) {
	p := e.track(x, y)
	if !e.pressed {
		return
	}
	e.pressed = false
	if e.edit != nil {
		e.edit = nil
		e.save()
		e.render()
		return
	}
	switch e.session.Tool {
	case Brush:
		e.commitStroke()
	case Grab:
		e.grab = nil
	case Lasso:
		e.placeLassoPoint(p)
	case Rectangle, Circle:
		e.commitShape(p)
	}
	e.render()
}

// commitStroke moves an in-progress freehand stroke into the marks. Paths
// with a single point are dropped.
func (e *Editor) commitStroke() {
	committed := e.straight
	if e.stroke != nil && len(e.stroke.Points) > 1 {
		e.marks.BrushStrokes = append(e.marks.BrushStrokes, *e.stroke)
		committed = true
		Logger().Debug("brush stroke", "points", len(e.stroke.Points), "color", e.stroke.Color)
	}
	if committed {
		e.save()
	}
	e.stroke = nil
	e.start = nil
	e.straight = false
}

func (e *Editor) commitShape(end shape.Point) {
	start := e.start
	e.start = nil
	if start == nil || start.Dist(end) <= MinShapeDrag {
		return
	}
	var p shape.PenPath
	if e.session.Tool == Rectangle {
		p = shape.Rectangle(*start, end, e.session.Color)
	} else {
		p = shape.Circle(*start, start.Dist(end), e.session.Color)
	}
	e.marks.PenPaths = append(e.marks.PenPaths, p)
	Logger().Debug("shape", "kind", p.Kind, "color", p.Color)
	e.save()
}

func (e *Editor) placeLassoPoint(p shape.Point) {
	switch {
	case e.path != nil && len(e.path.Points) >= 3 && p.Dist(e.path.Points[0]) <= CloseTolerance:
		e.path.Close()
		e.marks.PenPaths = append(e.marks.PenPaths, *e.path)
		Logger().Debug("lasso closed", "points", len(e.path.Points))
		e.path = nil
		e.save()
	case e.path == nil:
		np := shape.NewPenPath(p, e.session.Color)
		e.path = &np
	default:
		_ = e.path.Append(p)
	}
}

func (e *Editor) placeLinePoint(p shape.Point) {
	if e.line == nil {
		e.line = &shape.LineStroke{Points: []shape.Point{p}, Color: e.session.Color}
		return
	}
	e.line.Points = append(e.line.Points, p)
	e.marks.LineStrokes = append(e.marks.LineStrokes, *e.line)
	e.line = nil
	e.save()
}

// finishGesture settles whatever the pointer was doing before a tool
// switch: a point edit or brush stroke is committed, everything else is
// dropped.
func (e *Editor) finishGesture() {
	if e.edit != nil {
		e.edit = nil
		e.save()
	}
	e.commitStroke()
	e.path = nil
	e.line = nil
	e.cancelGesture()
}

// SetTool switches tools. Grab needs zoom above 1.
func (e *Editor) SetTool(t Tool) error {
	if int(t) >= len(toolNames) {
		return fmt.Errorf("unknown tool %d", t)
	}
	if t == Grab && !e.view.CanPan() {
		return ErrToolUnavailable
	}
	e.finishGesture()
	e.session.Tool = t
	Logger().Debug("tool", "tool", t)
	e.render()
	return nil
}

// SetColor changes the paint for new marks.
func (e *Editor) SetColor(c shape.Color) {
	e.session.Color = c
	e.render()
}

// SetBrushSize changes the brush width, clamped to the allowed range.
func (e *Editor) SetBrushSize(n float64) {
	e.session.BrushSize = ClampBrushSize(n)
}

// SetStraight toggles the straight-line modifier. Turning it off ends the
// current straight-line anchor.
func (e *Editor) SetStraight(on bool) {
	e.session.Straight = on
	if !on {
		e.start = nil
	}
}

// ZoomIn raises zoom by one step.
func (e *Editor) ZoomIn() {
	if e.view.ZoomIn() {
		e.render()
	}
}

// ZoomOut lowers zoom by one step. Leaving the range where panning is
// possible switches the grab tool back to the brush.
func (e *Editor) ZoomOut() {
	changed := e.view.ZoomOut()
	if !e.view.CanPan() && e.session.Tool == Grab {
		e.grab = nil
		e.session.Tool = Brush
		changed = true
	}
	if changed {
		e.render()
	}
}

// ResetView returns to zoom 1 without pan.
func (e *Editor) ResetView() {
	e.view.Reset()
	if e.session.Tool == Grab {
		e.grab = nil
		e.session.Tool = Brush
	}
	e.render()
}
