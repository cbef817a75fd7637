package render

import (
	"image"
	"image/color"
	"image/draw"
)

// OverlayOptions configures how a mask is tinted over the image it was
// derived from.
type OverlayOptions struct {
	Tint    color.RGBA
	Opacity float64
	// Feather softens the mask edge by a box blur of this radius.
	Feather int
}

// DefaultOverlayOptions returns a translucent red tint with a slight
// feather.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		Tint:    color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff},
		Opacity: 0.5,
		Feather: 2,
	}
}

// Overlay composites the tinted mask m over a copy of img. Masked pixels
// (255 in m) receive the full tint opacity. The result is zero-based and
// has img's size; m is aligned to img's top-left corner.
func Overlay(img image.Image, m *image.Gray, opts OverlayOptions) *image.RGBA {
	if img == nil {
		return nil
	}
	srcBounds := img.Bounds()
	dst := image.NewRGBA(srcBounds.Sub(srcBounds.Min))
	draw.Draw(dst, dst.Bounds(), img, srcBounds.Min, draw.Src)
	if m == nil || m.Bounds().Empty() || opts.Opacity <= 0 {
		return dst
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Feather
	if radius < 0 {
		radius = 0
	}

	zeroed := m
	if m.Bounds().Min != (image.Point{}) {
		zeroed = image.NewGray(m.Bounds().Sub(m.Bounds().Min))
		draw.Draw(zeroed, zeroed.Bounds(), m, m.Bounds().Min, draw.Src)
	}
	soft := blurGray(zeroed, radius)

	tint := opts.Tint
	tint.A = uint8(opacity*255 + 0.5)
	if tint.A == 0 {
		return dst
	}
	// color.RGBA is premultiplied.
	scale := func(v uint8) uint8 { return uint8(uint32(v) * uint32(tint.A) / 255) }
	tint.R, tint.G, tint.B = scale(tint.R), scale(tint.G), scale(tint.B)
	draw.DrawMask(dst, soft.Bounds(), image.NewUniform(tint), image.Point{}, soft, image.Point{}, draw.Over)
	return dst
}

func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			sum := prefix[x1+1] - prefix[x0]
			count := x1 - x0 + 1
			tmp.Pix[tmpStart+x] = uint8(sum / count)
		}
	}

	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			sum := prefix[y1+1] - prefix[y0]
			count := y1 - y0 + 1
			dst.Pix[y*dst.Stride+x] = uint8(sum / count)
		}
	}

	return dst
}
