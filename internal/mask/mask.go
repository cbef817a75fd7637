// Package mask turns a flattened canvas into the binary inpainting mask and
// decides which edit workflow a submission uses.
package mask

import (
	"image"
	"image/color"
)

const (
	// DefaultThreshold is the exclusive upper bound a pixel's R, G and B
	// channels must all stay under to count as masked.
	DefaultThreshold = 30
	// DefaultMinPercent is the share of masked pixels a mask must exceed to
	// be used.
	DefaultMinPercent = 1.0
)

// Options tunes mask detection.
type Options struct {
	Threshold  uint8
	MinPercent float64
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MinPercent: DefaultMinPercent}
}

func (o Options) normalized() Options {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinPercent < 0 {
		o.MinPercent = 0
	}
	return o
}

// Stats counts masked pixels.
type Stats struct {
	Masked int
	Total  int
}

// Percent is the masked share in [0,100].
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Masked) / float64(s.Total) * 100
}

// Exists reports whether the masked share exceeds opts.MinPercent.
func (s Stats) Exists(opts Options) bool {
	return s.Percent() > opts.normalized().MinPercent
}

// Masked reports whether a pixel qualifies as masked.
func Masked(r, g, b uint8, threshold uint8) bool {
	return r < threshold && g < threshold && b < threshold
}

// Count measures img without producing a mask.
func Count(img image.Image, opts Options) Stats {
	_, st := scan(img, opts, false)
	return st
}

// Rasterize returns a mask the size of img where masked pixels are 255 and
// all others 0, along with the pixel counts. Detection and generation use
// the same rule so the two can never disagree.
func Rasterize(img image.Image, opts Options) (*image.Gray, Stats) {
	return scan(img, opts, true)
}

func scan(img image.Image, opts Options, emit bool) (*image.Gray, Stats) {
	opts = opts.normalized()
	b := img.Bounds()
	var out *image.Gray
	if emit {
		out = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	st := Stats{Total: b.Dx() * b.Dy()}
	mark := func(x, y int) {
		st.Masked++
		if out != nil {
			out.Pix[y*out.Stride+x] = 0xff
		}
	}
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			for x := 0; x < b.Dx(); x++ {
				p := row[x*4 : x*4+3 : x*4+3]
				if Masked(p[0], p[1], p[2], opts.Threshold) {
					mark(x, y)
				}
			}
		}
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			for x := 0; x < b.Dx(); x++ {
				p := row[x*4 : x*4+3 : x*4+3]
				if Masked(p[0], p[1], p[2], opts.Threshold) {
					mark(x, y)
				}
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				if Masked(c.R, c.G, c.B, opts.Threshold) {
					mark(x, y)
				}
			}
		}
	}
	return out, st
}

// ToNRGBA expands a mask into the opaque black and white form the edit
// service expects.
func ToNRGBA(m *image.Gray) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := m.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = v, v, v, 0xff
		}
	}
	return out
}
