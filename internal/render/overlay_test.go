package render

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestOverlayTintsMaskedPixels(t *testing.T) {
	img := solid(8, 8, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	m := image.NewGray(image.Rect(0, 0, 8, 8))
	m.SetGray(2, 2, color.Gray{Y: 255})

	out := Overlay(img, m, OverlayOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 1})
	if got := out.RGBAAt(2, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("masked pixel %+v", got)
	}
	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unmasked pixel changed to %+v", got)
	}
	if img.RGBAAt(2, 2).G != 255 {
		t.Fatal("overlay modified its input")
	}
}

func TestOverlayNoTintWhenOpacityZero(t *testing.T) {
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	img := solid(4, 4, fill)
	m := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	out := Overlay(img, m, OverlayOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 0, Feather: 3})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestOverlayFeatherSpreadsEdge(t *testing.T) {
	img := solid(9, 1, color.RGBA{A: 255})
	m := image.NewGray(image.Rect(0, 0, 9, 1))
	m.SetGray(4, 0, color.Gray{Y: 255})
	out := Overlay(img, m, OverlayOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 1, Feather: 2})
	if out.RGBAAt(2, 0).R == 0 {
		t.Fatal("expected feathered tint two pixels from the mask")
	}
	if out.RGBAAt(0, 0).R != 0 {
		t.Fatal("feather reached beyond its radius")
	}
}

func TestBlurGrayZeroRadiusCopies(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	src.SetGray(1, 1, color.Gray{Y: 90})
	out := blurGray(src, 0)
	if out.GrayAt(1, 1).Y != 90 {
		t.Fatalf("got %d", out.GrayAt(1, 1).Y)
	}
	out.SetGray(1, 1, color.Gray{})
	if src.GrayAt(1, 1).Y != 90 {
		t.Fatal("zero radius blur aliased its input")
	}
}
