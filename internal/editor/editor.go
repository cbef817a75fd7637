// Package editor is the canvas editing core: it turns pointer input into
// vector marks over a base photo, keeps undo history and produces the
// inpainting submission.
//
// An Editor is driven from a single goroutine. None of its methods are safe
// for concurrent use.
package editor

import (
	"image"
	"image/draw"

	"github.com/example/roomedit/internal/history"
	"github.com/example/roomedit/internal/imagesource"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/render"
	"github.com/example/roomedit/internal/shape"
	"github.com/example/roomedit/internal/viewport"
)

// PointerKind is the phase of a pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

// Pointer is a pointer event in client (viewport) coordinates. Leave events
// ignore X and Y.
type Pointer struct {
	Kind PointerKind
	X, Y float64
}

type grabState struct {
	pressX, pressY float64
	pan            viewport.Offset
}

// Editor owns the marks, history, view and renderer for one base image.
type Editor struct {
	session  Session
	maskOpts mask.Options

	img      *imagesource.Image
	view     *viewport.Viewport
	marks    shape.Marks
	hist     *history.History
	renderer *render.Renderer
	frame    *image.RGBA
	onRender func(*image.RGBA)

	pressed  bool
	start    *shape.Point
	stroke   *shape.BrushStroke
	straight bool
	path     *shape.PenPath
	line     *shape.LineStroke
	edit     *shape.Hit
	grab     *grabState

	pointer    shape.Point
	hasPointer bool
	clientX    float64
	clientY    float64
}

// Option configures an Editor.
type Option func(*Editor)

// WithSession sets the initial tool, colour and brush size.
func WithSession(s Session) Option {
	return func(e *Editor) {
		s.BrushSize = ClampBrushSize(s.BrushSize)
		if s.Tool == Grab {
			s.Tool = Brush
		}
		e.session = s
	}
}

// WithMaskOptions sets the mask thresholds used by Submit.
func WithMaskOptions(o mask.Options) Option {
	return func(e *Editor) { e.maskOpts = o }
}

// WithRenderHook registers fn to receive every repainted frame. The frame
// is reused by the next repaint.
func WithRenderHook(fn func(*image.RGBA)) Option {
	return func(e *Editor) { e.onRender = fn }
}

// New returns an Editor with no image loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		session:  DefaultSession(),
		maskOpts: mask.DefaultOptions(),
		hist:     history.New(),
		view:     viewport.New(0, 0),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetImage replaces the base image. All marks and history are discarded and
// the view is reset.
func (e *Editor) SetImage(img *imagesource.Image) {
	e.img = img
	size := img.Size()
	e.view.Resize(size.X, size.Y)
	e.renderer = render.New(size.X, size.Y)
	e.discard()
	Logger().Info("image set", "ref", img.Ref, "size", size, "tainted", img.Tainted)
	e.render()
}

// Image returns the loaded base image, or nil.
func (e *Editor) Image() *imagesource.Image { return e.img }

// Session returns the current drawing settings.
func (e *Editor) Session() Session { return e.session }

// Viewport exposes the view transform so the host can report where the
// canvas element is displayed.
func (e *Editor) Viewport() *viewport.Viewport { return e.view }

// Marks returns a copy of the committed marks.
func (e *Editor) Marks() shape.Marks { return e.marks.Clone() }

// History exposes the undo list for inspection.
func (e *Editor) History() *history.History { return e.hist }

// OpenPath returns a copy of the lasso path under construction.
func (e *Editor) OpenPath() *shape.PenPath {
	if e.path == nil {
		return nil
	}
	p := e.path.Clone()
	return &p
}

// PendingLine returns a copy of the half-placed line.
func (e *Editor) PendingLine() *shape.LineStroke {
	if e.line == nil {
		return nil
	}
	l := e.line.Clone()
	return &l
}

// Editing reports whether a handle is being dragged.
func (e *Editor) Editing() bool { return e.edit != nil }

// Drawn reports whether any mark has been committed.
func (e *Editor) Drawn() bool { return !e.marks.Empty() }

// Reset discards all marks and history, keeping the image and view.
func (e *Editor) Reset() {
	e.discard()
	Logger().Debug("reset")
	e.render()
}

// Clear is the user-facing form of Reset.
func (e *Editor) Clear() { e.Reset() }

func (e *Editor) discard() {
	e.marks = shape.Marks{}
	e.hist.Reset()
	e.cancelGesture()
	e.path = nil
	e.line = nil
}

func (e *Editor) cancelGesture() {
	e.pressed = false
	e.start = nil
	e.stroke = nil
	e.straight = false
	e.edit = nil
	e.grab = nil
}

// save pushes the live marks as a snapshot.
func (e *Editor) save() {
	e.hist.Save(e.marks)
	Logger().Debug("snapshot", "index", e.hist.Index(), "len", e.hist.Len())
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() bool {
	m, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.restore(m)
	return true
}

// Redo restores the next snapshot.
func (e *Editor) Redo() bool {
	m, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.restore(m)
	return true
}

func (e *Editor) restore(m shape.Marks) {
	e.marks = m
	e.path = nil
	e.line = nil
	e.cancelGesture()
	Logger().Debug("history moved", "index", e.hist.Index())
	e.render()
}

// scene is the interactive scene: committed marks plus the stroke being
// dragged, the open path, the pending line and the guide.
func (e *Editor) scene() render.Scene {
	sc := e.maskScene()
	if e.stroke != nil {
		n := len(sc.Marks.BrushStrokes)
		sc.Marks.BrushStrokes = append(sc.Marks.BrushStrokes[:n:n], *e.stroke)
	}
	sc.OpenPath = e.path
	sc.PendingLine = e.line
	sc.Guide = e.guide()
	return sc
}

// maskScene holds only the base image and committed marks.
func (e *Editor) maskScene() render.Scene {
	var base image.Image
	if e.img != nil {
		base = e.img.Pixels
	}
	return render.Scene{Base: base, Marks: e.marks}
}

func (e *Editor) guide() render.Guide {
	if !e.hasPointer || e.edit != nil {
		return render.Guide{}
	}
	g := render.Guide{To: e.pointer, Color: e.session.Color}
	switch e.session.Tool {
	case Lasso:
		if e.path != nil && len(e.path.Points) > 0 {
			g.Kind = render.GuideLasso
			g.From = e.path.Points[len(e.path.Points)-1]
		}
	case Line:
		if e.line != nil && len(e.line.Points) == 1 {
			g.Kind = render.GuideLine
			g.From = e.line.Points[0]
		}
	case Rectangle, Circle:
		if e.pressed && e.start != nil {
			g.Kind = render.GuideRectangle
			if e.session.Tool == Circle {
				g.Kind = render.GuideCircle
			}
			g.From = *e.start
		}
	}
	return g
}

// render repaints the interactive frame.
func (e *Editor) render() {
	if e.renderer == nil {
		return
	}
	e.frame = e.renderer.Render(e.scene(), render.Interactive)
	if e.onRender != nil {
		e.onRender(e.frame)
	}
}

// Frame returns a copy of the interactive frame including handles and
// previews, or nil before an image is loaded.
func (e *Editor) Frame() *image.RGBA {
	if e.frame == nil {
		return nil
	}
	return cloneRGBA(e.frame)
}

// Canvas returns the composited base and marks without handles or
// previews. This is what mask rasterisation reads.
func (e *Editor) Canvas() (*image.RGBA, error) {
	if e.img == nil {
		return nil, ErrNoImage
	}
	if e.img.Tainted {
		return nil, &CanvasAccessError{Reason: "image " + e.img.Ref + " was loaded without cross-origin permission"}
	}
	out := cloneRGBA(e.renderer.Render(e.maskScene(), render.MaskSource))
	// The renderer buffer is shared with the interactive frame.
	e.frame = e.renderer.Render(e.scene(), render.Interactive)
	return out, nil
}

// Flatten returns Canvas composited over opaque white, ready for export.
func (e *Editor) Flatten() (*image.RGBA, error) {
	c, err := e.Canvas()
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(c.Bounds())
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), c, image.Point{}, draw.Over)
	return out, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
