// Package script parses and replays pointer-event scripts. A script is a
// plain text log of what a user did on the canvas, one directive per line:
//
//	# comments and blank lines are ignored
//	viewport 512 384 10 20   # display size, optional box origin
//	tool rectangle
//	color black
//	size 30
//	shift on
//	down 100 100
//	move 150 150
//	up 200 100
//	leave
//	zoom in          # or out, reset
//	undo
//	redo
//	clear
//
// Coordinates are client coordinates, mapped through the editor's viewport
// like real pointer events.
package script

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/shape"
	"github.com/example/roomedit/internal/viewport"
)

// Op is a script directive.
type Op string

const (
	OpViewport Op = "viewport"
	OpTool     Op = "tool"
	OpColor    Op = "color"
	OpSize     Op = "size"
	OpShift    Op = "shift"
	OpDown     Op = "down"
	OpMove     Op = "move"
	OpUp       Op = "up"
	OpLeave    Op = "leave"
	OpZoom     Op = "zoom"
	OpUndo     Op = "undo"
	OpRedo     Op = "redo"
	OpClear    Op = "clear"
)

// Step is one parsed directive.
type Step struct {
	Line int
	Op   Op
	// X and Y hold coordinates for pointer steps and the box origin for
	// viewport. W and H hold the viewport display size.
	X, Y, W, H float64
	HasPos     bool
	Tool       editor.Tool
	Color      shape.Color
	Size       float64
	On         bool
	// Zoom is "in", "out" or "reset".
	Zoom string
}

// ParseError points at the offending line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a whole script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		line := text
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		st, err := parseStep(fields)
		if err != nil {
			return nil, &ParseError{Line: n, Text: strings.TrimSpace(text), Err: err}
		}
		st.Line = n
		steps = append(steps, st)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseStep(f []string) (Step, error) {
	st := Step{Op: Op(strings.ToLower(f[0]))}
	args := f[1:]
	var err error
	switch st.Op {
	case OpViewport:
		if len(args) != 2 && len(args) != 4 {
			return st, fmt.Errorf("viewport takes W H [X Y]")
		}
		nums, err := floats(args)
		if err != nil {
			return st, err
		}
		st.W, st.H = nums[0], nums[1]
		if st.W <= 0 || st.H <= 0 {
			return st, fmt.Errorf("viewport size must be positive")
		}
		if len(nums) == 4 {
			st.X, st.Y = nums[2], nums[3]
		}
	case OpTool:
		if len(args) != 1 {
			return st, fmt.Errorf("tool takes a name")
		}
		st.Tool, err = editor.ParseTool(args[0])
	case OpColor:
		if len(args) != 1 {
			return st, fmt.Errorf("color takes black or white")
		}
		st.Color, err = shape.ParseColor(args[0])
	case OpSize:
		if len(args) != 1 {
			return st, fmt.Errorf("size takes a number")
		}
		st.Size, err = number(args[0])
	case OpShift:
		if len(args) != 1 {
			return st, fmt.Errorf("shift takes on or off")
		}
		st.On, err = onOff(args[0])
	case OpDown, OpMove:
		if len(args) != 2 {
			return st, fmt.Errorf("%s takes X Y", st.Op)
		}
		err = st.setPos(args)
	case OpUp:
		switch len(args) {
		case 0:
		case 2:
			err = st.setPos(args)
		default:
			return st, fmt.Errorf("up takes [X Y]")
		}
	case OpZoom:
		if len(args) != 1 || (args[0] != "in" && args[0] != "out" && args[0] != "reset") {
			return st, fmt.Errorf("zoom takes in, out or reset")
		}
		st.Zoom = args[0]
	case OpLeave, OpUndo, OpRedo, OpClear:
		if len(args) != 0 {
			return st, fmt.Errorf("%s takes no arguments", st.Op)
		}
	default:
		return st, fmt.Errorf("unknown directive")
	}
	return st, err
}

func (st *Step) setPos(args []string) error {
	nums, err := floats(args)
	if err != nil {
		return err
	}
	st.X, st.Y, st.HasPos = nums[0], nums[1], true
	return nil
}

// number parses a finite float. ParseFloat accepts NaN and Inf, which
// would slip past every range check downstream.
func number(a string) (float64, error) {
	v, err := strconv.ParseFloat(a, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bad number %q", a)
	}
	return v, nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := number(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func onOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// Play applies steps to e in order. An "up" without coordinates releases
// at the last pointer position. Tool errors stop playback.
func Play(e *editor.Editor, steps []Step) error {
	var lastX, lastY float64
	for _, st := range steps {
		switch st.Op {
		case OpViewport:
			e.Viewport().SetBox(viewport.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H})
		case OpTool:
			if err := e.SetTool(st.Tool); err != nil {
				return fmt.Errorf("line %d: %w", st.Line, err)
			}
		case OpColor:
			e.SetColor(st.Color)
		case OpSize:
			e.SetBrushSize(st.Size)
		case OpShift:
			e.SetStraight(st.On)
		case OpDown:
			lastX, lastY = st.X, st.Y
			e.Handle(editor.Pointer{Kind: editor.PointerDown, X: st.X, Y: st.Y})
		case OpMove:
			lastX, lastY = st.X, st.Y
			e.Handle(editor.Pointer{Kind: editor.PointerMove, X: st.X, Y: st.Y})
		case OpUp:
			if st.HasPos {
				lastX, lastY = st.X, st.Y
			}
			e.Handle(editor.Pointer{Kind: editor.PointerUp, X: lastX, Y: lastY})
		case OpLeave:
			e.Handle(editor.Pointer{Kind: editor.PointerLeave})
		case OpZoom:
			switch st.Zoom {
			case "in":
				e.ZoomIn()
			case "out":
				e.ZoomOut()
			default:
				e.ResetView()
			}
		case OpUndo:
			e.Undo()
		case OpRedo:
			e.Redo()
		case OpClear:
			e.Clear()
		}
	}
	return nil
}

// Run parses r and plays it on e.
func Run(e *editor.Editor, r io.Reader) error {
	steps, err := Parse(r)
	if err != nil {
		return err
	}
	return Play(e, steps)
}
