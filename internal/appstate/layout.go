package appstate

import (
	"image"
	"math"

	"github.com/example/roomedit/internal/shape"
	"github.com/example/roomedit/internal/viewport"
)

// canvasArea is the part of the window left for the canvas once the header,
// toolbar and status bar are drawn.
func canvasArea(winW, winH int) image.Rectangle {
	r := image.Rect(toolbarWidth, tabHeight, winW, winH-bottomHeight)
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

// fitBox places a cw×ch canvas inside area, preserving aspect ratio and
// centring it. The canvas is never scaled above its backing size.
func fitBox(cw, ch int, area image.Rectangle) viewport.Rect {
	if cw < 1 || ch < 1 {
		return viewport.Rect{X: float64(area.Min.X), Y: float64(area.Min.Y), W: float64(area.Dx()), H: float64(area.Dy())}
	}
	scale := math.Min(float64(area.Dx())/float64(cw), float64(area.Dy())/float64(ch))
	if scale > 1 {
		scale = 1
	}
	w := float64(cw) * scale
	h := float64(ch) * scale
	return viewport.Rect{
		X: float64(area.Min.X) + (float64(area.Dx())-w)/2,
		Y: float64(area.Min.Y) + (float64(area.Dy())-h)/2,
		W: w,
		H: h,
	}
}

func boxRect(r viewport.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// displayRect is where the full backing canvas lands in window pixels after
// zoom and pan. At zoom above 1 it extends past the box and must be clipped.
func displayRect(v *viewport.Viewport) image.Rectangle {
	w, h := v.Size()
	x0, y0 := v.ToClient(shape.Point{})
	x1, y1 := v.ToClient(shape.Point{X: float64(w), Y: float64(h)})
	return image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
	)
}

// toolIndexAt returns the toolbar button under y, or -1.
func toolIndexAt(y, count int) int {
	if y < tabHeight {
		return -1
	}
	idx := (y - tabHeight) / buttonHeight
	if idx >= count {
		return -1
	}
	return idx
}
