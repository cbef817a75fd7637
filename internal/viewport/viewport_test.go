package viewport

import (
	"math"
	"testing"

	"github.com/example/roomedit/internal/shape"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToCanvasIdentity(t *testing.T) {
	v := New(800, 600)
	p := v.ToCanvas(120, 45)
	if p != shape.Pt(120, 45) {
		t.Fatalf("identity mapping gave %v", p)
	}
}

func TestToCanvasZoomAndPan(t *testing.T) {
	v := New(800, 600)
	v.Zoom = 2
	v.Pan = Offset{X: -100, Y: -50}
	p := v.ToCanvas(300, 250)
	if !near(p.X, 200) || !near(p.Y, 150) {
		t.Fatalf("got %v, want (200,150)", p)
	}
}

func TestToCanvasDisplayScale(t *testing.T) {
	v := New(1024, 768)
	v.SetBox(Rect{X: 10, Y: 20, W: 512, H: 384})
	p := v.ToCanvas(10+256, 20+192)
	if !near(p.X, 512) || !near(p.Y, 384) {
		t.Fatalf("got %v, want (512,384)", p)
	}
}

func TestToCanvasClamps(t *testing.T) {
	v := New(100, 50)
	if p := v.ToCanvas(-20, 500); p != shape.Pt(0, 50) {
		t.Fatalf("clamp gave %v", p)
	}
	if p := v.Unclamped(-20, 500); p != shape.Pt(-20, 500) {
		t.Fatalf("unclamped gave %v", p)
	}
}

func TestToCanvasClampsNaN(t *testing.T) {
	v := New(100, 50)
	p := v.ToCanvas(math.NaN(), 10)
	if math.IsNaN(p.X) || p.X < 0 || p.X > 100 {
		t.Fatalf("NaN escaped the clamp: %v", p)
	}
	p = v.ToCanvas(math.Inf(1), math.Inf(-1))
	if p != shape.Pt(100, 0) {
		t.Fatalf("infinities gave %v", p)
	}
}

func TestToClientRoundTrip(t *testing.T) {
	v := New(1000, 800)
	v.SetBox(Rect{X: 33, Y: 7, W: 500, H: 400})
	for _, z := range []float64{0.25, 0.5, 1, 1.75, 3} {
		v.Zoom = z
		v.Pan = Offset{X: 37.5, Y: -12}
		for _, pt := range []shape.Point{{X: 0, Y: 0}, {X: 10, Y: 799}, {X: 512.25, Y: 300.5}} {
			cx, cy := v.ToClient(pt)
			got := v.Unclamped(cx, cy)
			if !near(got.X, pt.X) || !near(got.Y, pt.Y) {
				t.Fatalf("zoom %v: round trip %v -> %v", z, pt, got)
			}
		}
	}
}

func TestZoomBounds(t *testing.T) {
	v := New(10, 10)
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Fatalf("zoom in saturates at %v, got %v", MaxZoom, v.Zoom)
	}
	if v.ZoomIn() {
		t.Fatal("zoom in at max should report no change")
	}
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	if v.Zoom != MinZoom {
		t.Fatalf("zoom out saturates at %v, got %v", MinZoom, v.Zoom)
	}
}

func TestZoomOutToOneRecenters(t *testing.T) {
	v := New(10, 10)
	v.ZoomIn()
	v.SetPan(Offset{X: 40, Y: -5})
	v.ZoomOut()
	if v.Zoom != 1 || v.Pan != (Offset{}) {
		t.Fatalf("expected reset view, got zoom=%v pan=%v", v.Zoom, v.Pan)
	}
	if !v.Centered() {
		t.Fatal("expected centered")
	}
}

func TestZoomOutBelowOneKeepsPan(t *testing.T) {
	v := New(10, 10)
	v.SetPan(Offset{X: 4})
	v.ZoomOut()
	if v.Zoom != 0.75 || v.Pan.X != 4 {
		t.Fatalf("got zoom=%v pan=%v", v.Zoom, v.Pan)
	}
}

func TestCanPan(t *testing.T) {
	v := New(10, 10)
	if v.CanPan() {
		t.Fatal("pan should be disabled at zoom 1")
	}
	v.ZoomIn()
	if !v.CanPan() {
		t.Fatal("pan should be enabled above zoom 1")
	}
}
