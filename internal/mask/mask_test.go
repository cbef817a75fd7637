package mask

import (
	"image"
	"image/color"
	"testing"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func paintBlack(img *image.RGBA, n int) {
	w := img.Bounds().Dx()
	for i := 0; i < n; i++ {
		img.SetRGBA(i%w, i/w, color.RGBA{A: 0xff})
	}
}

func TestThresholdBoundary(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		c    color.RGBA
		want bool
	}{
		{color.RGBA{R: 29, G: 29, B: 29, A: 255}, true},
		{color.RGBA{R: 30, G: 0, B: 0, A: 255}, false},
		{color.RGBA{R: 0, G: 30, B: 0, A: 255}, false},
		{color.RGBA{R: 0, G: 0, B: 30, A: 255}, false},
		{color.RGBA{A: 255}, true},
	}
	for _, tc := range cases {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, tc.c)
		m, st := Rasterize(img, opts)
		if got := st.Masked == 1; got != tc.want {
			t.Errorf("%+v: masked=%v want %v", tc.c, got, tc.want)
		}
		if got := m.GrayAt(0, 0).Y == 0xff; got != tc.want {
			t.Errorf("%+v: mask pixel=%v want %v", tc.c, got, tc.want)
		}
	}
}

func TestExistenceThreshold(t *testing.T) {
	img := whiteImage(1000, 1000)
	paintBlack(img, 9999)
	if st := Count(img, DefaultOptions()); st.Exists(DefaultOptions()) {
		t.Fatalf("%.4f%% should not count as a mask", st.Percent())
	}
	paintBlack(img, 10001)
	st := Count(img, DefaultOptions())
	if !st.Exists(DefaultOptions()) {
		t.Fatalf("%.4f%% should count as a mask", st.Percent())
	}
	if st.Masked != 10001 || st.Total != 1000000 {
		t.Fatalf("stats %+v", st)
	}
}

func TestExactlyOnePercentIsNotEnough(t *testing.T) {
	img := whiteImage(100, 100)
	paintBlack(img, 100)
	if Count(img, DefaultOptions()).Exists(DefaultOptions()) {
		t.Fatal("exactly 1% must not exceed the threshold")
	}
}

func TestDetectionAndGenerationAgree(t *testing.T) {
	img := whiteImage(40, 30)
	paintBlack(img, 333)
	img.SetRGBA(39, 29, color.RGBA{R: 10, G: 12, B: 29, A: 255})
	m, st := Rasterize(img, DefaultOptions())
	count := 0
	for _, v := range m.Pix {
		switch v {
		case 0xff:
			count++
		case 0:
		default:
			t.Fatalf("mask holds non-binary value %d", v)
		}
	}
	if count != st.Masked || st.Masked != Count(img, DefaultOptions()).Masked {
		t.Fatalf("mask has %d white pixels, stats say %d", count, st.Masked)
	}
}

func TestGenericImagePath(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.SetGray(0, 0, color.Gray{Y: 5})
	img.SetGray(1, 0, color.Gray{Y: 200})
	if st := Count(img, DefaultOptions()); st.Masked != 1 {
		t.Fatalf("masked %d", st.Masked)
	}
}

func TestSubImageOffsets(t *testing.T) {
	img := whiteImage(10, 10)
	img.SetRGBA(5, 5, color.RGBA{A: 255})
	sub := img.SubImage(image.Rect(5, 5, 10, 10)).(*image.RGBA)
	m, st := Rasterize(sub, DefaultOptions())
	if st.Masked != 1 || m.GrayAt(0, 0).Y != 0xff {
		t.Fatalf("sub image mask wrong: %+v", st)
	}
}

func TestToNRGBAIsOpaque(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 1))
	m.Pix[1] = 0xff
	out := ToNRGBA(m)
	if out.NRGBAAt(0, 0) != (color.NRGBA{A: 0xff}) || out.NRGBAAt(1, 0) != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("unexpected pixels %v %v", out.NRGBAAt(0, 0), out.NRGBAAt(1, 0))
	}
}

func TestDecide(t *testing.T) {
	opts := DefaultOptions()
	big := Stats{Masked: 50, Total: 100}
	tiny := Stats{Masked: 1, Total: 1000}
	if Decide(false, big, opts) != Edit {
		t.Error("no drawing should edit")
	}
	if Decide(true, tiny, opts) != Edit {
		t.Error("too small a mask should fall back to edit")
	}
	if Decide(true, big, opts) != Inpaint {
		t.Error("drawing with a mask should inpaint")
	}
}
