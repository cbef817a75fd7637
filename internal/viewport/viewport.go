// Package viewport maps pointer positions on the displayed canvas element to
// canvas pixel coordinates under the current zoom and pan.
package viewport

import (
	"math"

	"github.com/example/roomedit/internal/shape"
)

const (
	MinZoom  = 0.25
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// Offset is a pan translation in backing pixels.
type Offset struct {
	X, Y float64
}

// Viewport describes the on-screen box of the canvas element and the view
// transform applied to it. Canvas is the backing pixel size, Box the
// bounding box of the element in client coordinates.
type Viewport struct {
	Zoom   float64
	Pan    Offset
	Canvas Size
	Box    Rect
}

// Size is a pixel extent.
type Size struct {
	W, H int
}

// Rect is a box in client coordinates.
type Rect struct {
	X, Y, W, H float64
}

// New returns an identity viewport for a canvas of w×h pixels displayed at
// its natural size at the client origin.
func New(w, h int) *Viewport {
	return &Viewport{
		Zoom:   1,
		Canvas: Size{W: w, H: h},
		Box:    Rect{W: float64(w), H: float64(h)},
	}
}

// Size returns the backing canvas size.
func (v *Viewport) Size() (int, int) { return v.Canvas.W, v.Canvas.H }

// Resize changes the backing size and resets the view.
func (v *Viewport) Resize(w, h int) {
	v.Canvas = Size{W: w, H: h}
	v.Box.W, v.Box.H = float64(w), float64(h)
	v.Reset()
}

// SetBox updates where the canvas element is displayed.
func (v *Viewport) SetBox(r Rect) { v.Box = r }

func (v *Viewport) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if v.Box.W > 0 {
		sx = float64(v.Canvas.W) / v.Box.W
	}
	if v.Box.H > 0 {
		sy = float64(v.Canvas.H) / v.Box.H
	}
	return sx, sy
}

// Raw converts a client position to backing pixels without undoing the view
// transform.
func (v *Viewport) Raw(clientX, clientY float64) (float64, float64) {
	sx, sy := v.scale()
	return (clientX - v.Box.X) * sx, (clientY - v.Box.Y) * sy
}

// Unclamped maps a client position to canvas coordinates.
func (v *Viewport) Unclamped(clientX, clientY float64) shape.Point {
	rx, ry := v.Raw(clientX, clientY)
	return shape.Point{X: (rx - v.Pan.X) / v.Zoom, Y: (ry - v.Pan.Y) / v.Zoom}
}

// ToCanvas maps a client position to canvas coordinates clamped to
// [0,W]×[0,H].
func (v *Viewport) ToCanvas(clientX, clientY float64) shape.Point {
	p := v.Unclamped(clientX, clientY)
	p.X = clamp(p.X, 0, float64(v.Canvas.W))
	p.Y = clamp(p.Y, 0, float64(v.Canvas.H))
	return p
}

// ToClient is the forward transform of Unclamped.
func (v *Viewport) ToClient(p shape.Point) (float64, float64) {
	sx, sy := v.scale()
	rx := p.X*v.Zoom + v.Pan.X
	ry := p.Y*v.Zoom + v.Pan.Y
	return rx/sx + v.Box.X, ry/sy + v.Box.Y
}

// CanPan reports whether the grab tool may be used.
func (v *Viewport) CanPan() bool { return v.Zoom > 1 }

// ZoomIn raises zoom by one step up to MaxZoom.
func (v *Viewport) ZoomIn() bool {
	z := math.Min(v.Zoom+ZoomStep, MaxZoom)
	changed := z != v.Zoom
	v.Zoom = z
	return changed
}

// ZoomOut lowers zoom by one step down to MinZoom. Landing exactly on 1
// recenters the view.
func (v *Viewport) ZoomOut() bool {
	z := math.Max(v.Zoom-ZoomStep, MinZoom)
	changed := z != v.Zoom
	v.Zoom = z
	if z == 1 && (v.Pan.X != 0 || v.Pan.Y != 0) {
		v.Pan = Offset{}
		changed = true
	}
	return changed
}

// Reset returns to zoom 1 with no pan.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.Pan = Offset{}
}

// Centered reports whether the view is at its reset state.
func (v *Viewport) Centered() bool {
	return v.Zoom == 1 && v.Pan == Offset{}
}

// SetPan replaces the pan offset.
func (v *Viewport) SetPan(o Offset) { v.Pan = o }

// clamp maps NaN to lo.
func clamp(f, lo, hi float64) float64 {
	if f < lo || math.IsNaN(f) {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
