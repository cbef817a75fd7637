package export

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/mask"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func testSubmission(withMask bool) *editor.Submission {
	sub := &editor.Submission{
		ID:       "3f1c8a8e-0000-4000-8000-000000000001",
		ImageRef: "living-room.jpg",
		Prompt:   "replace the sofa with a green velvet one",
		Workflow: mask.Edit,
		Created:  time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
	}
	if withMask {
		m := image.NewGray(image.Rect(0, 0, 20, 10))
		for i := 0; i < 50; i++ {
			m.Pix[i] = 0xff
		}
		sub.Mask = m
		sub.Workflow = mask.Inpaint
		sub.Stats = mask.Stats{Masked: 50, Total: 200}
	}
	return sub
}

func TestWriteBundleWithMask(t *testing.T) {
	dir := t.TempDir()
	files, err := WriteBundle(dir, testSubmission(true), testImage(20, 10))
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("wrote %v", files)
	}
	data, err := os.ReadFile(filepath.Join(dir, RequestFile))
	if err != nil {
		t.Fatal(err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("request.json: %v", err)
	}
	if req.Workflow != mask.Inpaint || req.Mask == nil || *req.Mask != MaskFile {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Stats.Percent != 25 {
		t.Fatalf("percent %v", req.Stats.Percent)
	}

	f, err := os.Open(filepath.Join(dir, MaskFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, a := m.At(0, 0).RGBA(); r != 0xffff || a != 0xffff {
		t.Fatalf("masked pixel not opaque white: %v", m.At(0, 0))
	}
	if r, _, _, a := m.At(19, 9).RGBA(); r != 0 || a != 0xffff {
		t.Fatalf("unmasked pixel not opaque black: %v", m.At(19, 9))
	}
}

func TestWriteBundleWithoutMask(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteBundle(dir, testSubmission(false), testImage(4, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, MaskFile)); !os.IsNotExist(err) {
		t.Fatalf("mask.png should not exist for edits, stat err %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, RequestFile))
	if !strings.Contains(string(data), `"mask": null`) {
		t.Fatalf("expected null mask in %s", data)
	}
}

func TestWriteImageByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.jpg")
	if err := WriteImage(path, testImage(8, 8)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Fatalf("expected jpeg: %v", err)
	}
	if err := WriteImage(filepath.Join(dir, "out.gifx"), testImage(1, 1)); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestWritePDF(t *testing.T) {
	img := testImage(20, 10)
	img.Set(0, 0, color.RGBA{A: 255})
	var buf bytes.Buffer
	if err := WritePDF(&buf, testSubmission(true), img); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestFit(t *testing.T) {
	w, h := fit(1000, 500, 180, 120)
	if w != 180 || h != 90 {
		t.Fatalf("got %vx%v", w, h)
	}
	w, h = fit(500, 1000, 180, 120)
	if w != 60 || h != 120 {
		t.Fatalf("got %vx%v", w, h)
	}
}
