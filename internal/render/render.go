// Package render rasterises the editor's marks over the base image. Every
// call to Render repaints the whole frame from scratch so the output depends
// only on the scene passed in.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/example/roomedit/internal/shape"
)

// Mode selects which layers are painted.
type Mode uint8

const (
	// Interactive paints marks plus handles, open paths and guides.
	Interactive Mode = iota
	// MaskSource paints only the base image and committed marks. Mask
	// rasterisation reads this variant.
	MaskSource
)

// GuideKind is the dashed preview drawn while a gesture is in progress.
type GuideKind uint8

const (
	GuideNone GuideKind = iota
	GuideLasso
	GuideLine
	GuideRectangle
	GuideCircle
)

// Guide is a transient dashed preview between From and To.
type Guide struct {
	Kind     GuideKind
	From, To shape.Point
	Color    shape.Color
}

// Scene is everything needed to paint one frame.
type Scene struct {
	Base        image.Image
	Marks       shape.Marks
	OpenPath    *shape.PenPath
	PendingLine *shape.LineStroke
	Guide       Guide
}

const (
	handleRadius  = 6
	handleOutline = 2
	lineWidth     = 2
	pathWidth     = 2
)

var handleFill = color.RGBA{R: 0x0d, G: 0x99, B: 0xff, A: 0xff}

// Paint returns the opaque colour for c scaled to alpha a in [0,1].
func Paint(c shape.Color, a float64) color.NRGBA {
	v := uint8(0)
	if c == shape.White {
		v = 0xff
	}
	return color.NRGBA{R: v, G: v, B: v, A: uint8(math.Round(a * 255))}
}

// Renderer owns a frame buffer of the canvas size.
type Renderer struct {
	img    *image.RGBA
	dasher *rasterx.Dasher
}

// New allocates a renderer for a w×h canvas.
func New(w, h int) *Renderer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Renderer{img: img, dasher: rasterx.NewDasher(w, h, scanner)}
}

// Bounds returns the frame rectangle.
func (r *Renderer) Bounds() image.Rectangle { return r.img.Bounds() }

// Render repaints the frame for s and returns the renderer's buffer. The
// buffer is reused by the next call; callers that keep it must copy.
func (r *Renderer) Render(s Scene, mode Mode) *image.RGBA {
	r.paintBase(s.Base)
	r.brushStrokes(s.Marks.BrushStrokes)
	for _, l := range s.Marks.LineStrokes {
		r.lineStroke(l, mode)
	}
	for _, p := range s.Marks.PenPaths {
		r.penPath(p, mode)
	}
	if mode == MaskSource {
		return r.img
	}
	if s.OpenPath != nil && len(s.OpenPath.Points) > 0 {
		r.penPath(*s.OpenPath, mode)
	}
	if s.PendingLine != nil && len(s.PendingLine.Points) > 0 {
		r.lineStroke(*s.PendingLine, mode)
	}
	r.guide(s.Guide)
	return r.img
}

func (r *Renderer) paintBase(base image.Image) {
	b := r.img.Bounds()
	draw.Draw(r.img, b, image.Transparent, image.Point{}, draw.Src)
	if base == nil {
		return
	}
	if base.Bounds().Size() == b.Size() {
		draw.Draw(r.img, b, base, base.Bounds().Min, draw.Src)
		return
	}
	xdraw.CatmullRom.Scale(r.img, b, base, base.Bounds(), draw.Src, nil)
}

// brushStrokes batches consecutive strokes that share colour and size into a
// single rasteriser pass. Order across batches is preserved so overlapping
// black and white strokes still compose in draw order.
func (r *Renderer) brushStrokes(strokes []shape.BrushStroke) {
	for i := 0; i < len(strokes); {
		j := i + 1
		for j < len(strokes) && strokes[j].Color == strokes[i].Color && strokes[j].Size == strokes[i].Size {
			j++
		}
		r.strokeBatch(strokes[i:j])
		i = j
	}
}

func (r *Renderer) strokeBatch(batch []shape.BrushStroke) {
	first := batch[0]
	col := Paint(first.Color, 1)
	var dots []shape.Point
	r.setStroke(first.Size, nil)
	drew := false
	for _, s := range batch {
		if len(s.Points) < 2 || s.Kind == shape.KindSegment {
			if len(s.Points) > 0 {
				dots = append(dots, s.Points[0])
			}
			continue
		}
		r.addPolyline(s.Points, false)
		drew = true
	}
	if drew {
		r.flushStroke(col)
	}
	for _, d := range dots {
		r.fillDisc(d, first.Size/2, col)
	}
}

func (r *Renderer) lineStroke(l shape.LineStroke, mode Mode) {
	if l.Complete() {
		r.setStroke(lineWidth, nil)
		r.addPolyline(l.Points[:2], false)
		r.flushStroke(Paint(l.Color, 1))
	}
	if mode == Interactive {
		for _, p := range l.Points {
			r.handle(p)
		}
	}
}

func (r *Renderer) penPath(p shape.PenPath, mode Mode) {
	if len(p.Points) > 1 {
		if p.Closed {
			r.fillPolygon(p.Points, Paint(p.Color, 1))
		} else {
			r.setStroke(pathWidth, nil)
			r.addPolyline(p.Points, false)
			r.flushStroke(Paint(p.Color, 0.8))
		}
	}
	if mode != Interactive {
		return
	}
	if p.Closed {
		for _, a := range p.Anchors() {
			r.handle(a)
		}
		return
	}
	fill := Paint(p.Color, 1)
	outline := Paint(p.Color.Contrast(), 1)
	for i, pt := range p.Points {
		radius, width := 4.0, 1.0
		if i == 0 && len(p.Points) >= 3 {
			radius, width = 8, 3
		}
		r.fillDisc(pt, radius, fill)
		r.ring(pt, radius, width, outline)
	}
}

func (r *Renderer) guide(g Guide) {
	switch g.Kind {
	case GuideLasso:
		r.setStroke(2, []float64{5, 5})
		r.addPolyline([]shape.Point{g.From, g.To}, false)
		r.flushStroke(Paint(g.Color, 0.7))
	case GuideLine:
		r.setStroke(2, []float64{5, 5})
		r.addPolyline([]shape.Point{g.From, g.To}, false)
		r.flushStroke(Paint(g.Color, 0.5))
	case GuideRectangle:
		rect := shape.Rectangle(g.From, g.To, g.Color)
		r.setStroke(2, []float64{8, 4})
		r.addPolyline(rect.Points, true)
		r.flushStroke(Paint(g.Color, 0.8))
	case GuideCircle:
		r.setStroke(2, []float64{8, 4})
		r.addPolyline(circlePolygon(g.From, g.From.Dist(g.To)), true)
		r.flushStroke(Paint(g.Color, 0.8))
	}
}

func (r *Renderer) handle(p shape.Point) {
	r.fillDisc(p, handleRadius, handleFill)
	r.ring(p, handleRadius, handleOutline, color.White)
}

func (r *Renderer) setStroke(width float64, dash []float64) {
	r.dasher.SetStroke(fixed.Int26_6(width*64), 4<<6, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, dash, 0)
}

func (r *Renderer) addPolyline(pts []shape.Point, closed bool) {
	r.dasher.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		r.dasher.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	r.dasher.Stop(closed)
}

func (r *Renderer) flushStroke(c color.Color) {
	r.dasher.SetColor(c)
	r.dasher.Draw()
	r.dasher.Clear()
}

func (r *Renderer) fillPolygon(pts []shape.Point, c color.Color) {
	f := &r.dasher.Filler
	f.Clear()
	f.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		f.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	f.Stop(true)
	f.SetColor(c)
	f.Draw()
	f.Clear()
}

func (r *Renderer) fillDisc(c shape.Point, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	r.fillPolygon(circlePolygon(c, radius), col)
}

func (r *Renderer) ring(c shape.Point, radius, width float64, col color.Color) {
	r.setStroke(width, nil)
	r.addPolyline(circlePolygon(c, radius), true)
	r.flushStroke(col)
}

func circlePolygon(c shape.Point, radius float64) []shape.Point {
	n := int(math.Ceil(radius * 2))
	if n < 16 {
		n = 16
	}
	if n > 256 {
		n = 256
	}
	pts := make([]shape.Point, n)
	for i := range pts {
		a := float64(i) / float64(n) * 2 * math.Pi
		pts[i] = shape.Point{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
	}
	return pts
}
