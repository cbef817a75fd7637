package imagesource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestCanvasSize(t *testing.T) {
	cases := []struct{ w, h, wantW, wantH int }{
		{2048, 1024, 1024, 512},
		{1024, 2048, 512, 1024},
		{800, 600, 800, 600},
		{1500, 1500, 1024, 1024},
		{3000, 1, 1024, 1},
	}
	for _, tc := range cases {
		w, h := CanvasSize(tc.w, tc.h, DefaultMaxDimension)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("CanvasSize(%d,%d) = %dx%d, want %dx%d", tc.w, tc.h, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestLoadFileCapsLongEdge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.png")
	if err := os.WriteFile(path, encodePNG(t, 1200, 600), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Size() != image.Pt(1024, 512) {
		t.Fatalf("canvas size %v", img.Size())
	}
	if img.Natural != image.Pt(1200, 600) || img.Format != "png" || img.Tainted {
		t.Fatalf("unexpected metadata %+v", img)
	}
}

func TestLoadRetriesOnceThenFails(t *testing.T) {
	var opens int32
	l := NewLoader()
	l.openFile = func(string) (io.ReadCloser, error) {
		atomic.AddInt32(&opens, 1)
		return io.NopCloser(bytes.NewReader([]byte("not an image"))), nil
	}
	_, err := l.Load(context.Background(), "broken.png")
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	var derr *ImageDecodeError
	if !errors.As(err, &derr) || derr.Ref != "broken.png" {
		t.Fatalf("expected *ImageDecodeError for broken.png, got %#v", err)
	}
	if opens != 2 {
		t.Fatalf("expected exactly one retry, got %d attempts", opens)
	}
}

func TestLoadHTTPWithCORS(t *testing.T) {
	data := encodePNG(t, 10, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := NewLoader(WithOrigin("https://editor.example")).Load(context.Background(), srv.URL+"/room.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Tainted {
		t.Fatal("CORS enabled image must not be tainted")
	}
	if img.Size() != image.Pt(10, 20) {
		t.Fatalf("size %v", img.Size())
	}
}

func TestLoadHTTPWithoutCORSFallsBackTainted(t *testing.T) {
	var hits int32
	data := encodePNG(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := NewLoader(WithOrigin("https://editor.example")).Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !img.Tainted {
		t.Fatal("fallback image should be tainted")
	}
	if hits != 2 {
		t.Fatalf("expected two requests, got %d", hits)
	}
}

func TestLoadHTTPSameOriginNotTainted(t *testing.T) {
	data := encodePNG(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := NewLoader(WithOrigin(srv.URL)).Load(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Tainted {
		t.Fatal("same-origin image should not be tainted")
	}
}

func TestLoadHTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := NewLoader().Load(context.Background(), srv.URL); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
}

func TestLoadHTTPRejectsOversizedBody(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(bytes.Repeat([]byte{0xff}, 4096))
	}))
	defer srv.Close()

	_, err := NewLoader(WithMaxBytes(1024)).Load(context.Background(), srv.URL)
	if !errors.Is(err, ErrImageDecode) || !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected two requests, got %d", hits)
	}
}

func TestLoadFileSizeLimit(t *testing.T) {
	data := encodePNG(t, 8, 8)
	path := filepath.Join(t.TempDir(), "room.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(WithMaxBytes(int64(len(data)))).Load(context.Background(), path); err != nil {
		t.Fatalf("image at the limit should load: %v", err)
	}
	_, err := NewLoader(WithMaxBytes(int64(len(data)-1))).Load(context.Background(), path)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoadClipboard(t *testing.T) {
	data := encodePNG(t, 6, 3)
	l := NewLoader(WithClipboard(func() ([]byte, error) { return data, nil }))
	img, err := l.Load(context.Background(), ClipboardRef)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Size() != image.Pt(6, 3) {
		t.Fatalf("size %v", img.Size())
	}
}

func TestLoadHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(WithClipboard(func() ([]byte, error) {
		t.Fatal("clipboard read after cancellation")
		return nil, nil
	}))
	if _, err := l.Load(ctx, ClipboardRef); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFitPreservesPixelsWhenSmall(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.NRGBA{R: 9, A: 255})
	out := Fit(src, 1024)
	if out.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got.R != 9 || got.A != 255 {
		t.Fatalf("pixel %+v", got)
	}
}
