package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/roomedit/internal/config"
	"github.com/example/roomedit/internal/export"
)

func newTestRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	cfg := config.New()
	cfg.SaveDir = t.TempDir()
	return &root{
		program: "roomedit",
		config:  cfg,
		stdout:  &out,
		stderr:  &errOut,
		stdin:   strings.NewReader(""),
	}, &out
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(dir, "room.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "gestures.txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

const boxScript = `viewport 200 100
tool rectangle
down 10 10
move 100 80
up 100 80
`

func TestReplayWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	r, out := newTestRoot(t)
	var copied image.Image
	original := writeClipboardFn
	writeClipboardFn = func(img image.Image) error { copied = img; return nil }
	t.Cleanup(func() { writeClipboardFn = original })

	flat := filepath.Join(dir, "flat.png")
	maskPath := filepath.Join(dir, "mask.png")
	err := r.dispatch("replay", []string{
		"-image", writePNG(t, dir, 200, 100),
		"-script", writeScript(t, dir, boxScript),
		"-flatten", flat,
		"-mask", maskPath,
		"-to-clipboard",
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, p := range []string{flat, maskPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	if copied == nil {
		t.Errorf("flattened image was not copied")
	}
	if !strings.Contains(out.String(), "marks: 1") {
		t.Errorf("unexpected summary %q", out.String())
	}
}

func TestReplayRequiresScript(t *testing.T) {
	r, _ := newTestRoot(t)
	err := r.dispatch("replay", []string{"-image", "room.png"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "replay -image") {
		t.Errorf("help not rendered: %q", uerr.Error())
	}
}

func TestReplayReportsScriptLine(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRoot(t)
	err := r.dispatch("replay", []string{
		"-image", writePNG(t, dir, 200, 100),
		"-script", writeScript(t, dir, "tool brush\ndown 1\n"),
	})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 in error, got %v", err)
	}
}

func TestSubmitWritesBundle(t *testing.T) {
	dir := t.TempDir()
	r, out := newTestRoot(t)
	outDir := filepath.Join(dir, "out")
	pdf := filepath.Join(dir, "proof.pdf")
	err := r.dispatch("submit", []string{
		"-image", writePNG(t, dir, 200, 100),
		"-script", writeScript(t, dir, boxScript),
		"-prompt", "replace the sofa",
		"-out", outDir,
		"-pdf", pdf,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out.String(), "workflow: inpaint") {
		t.Fatalf("unexpected output %q", out.String())
	}
	entries, err := os.ReadDir(outDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one submission folder, got %v %v", entries, err)
	}
	sub := filepath.Join(outDir, entries[0].Name())
	data, err := os.ReadFile(filepath.Join(sub, export.RequestFile))
	if err != nil {
		t.Fatalf("read request: %v", err)
	}
	var req export.Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.ID != entries[0].Name() || req.Prompt != "replace the sofa" || req.Mask == nil {
		t.Errorf("unexpected request %+v", req)
	}
	if _, err := os.Stat(filepath.Join(sub, export.MaskFile)); err != nil {
		t.Errorf("mask missing: %v", err)
	}
	if _, err := os.Stat(pdf); err != nil {
		t.Errorf("pdf missing: %v", err)
	}
}

func TestSubmitWithoutMarksIsAnEdit(t *testing.T) {
	dir := t.TempDir()
	r, out := newTestRoot(t)
	err := r.dispatch("submit", []string{
		"-image", writePNG(t, dir, 50, 50),
		"-prompt", "warmer lighting",
		"-out", dir,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out.String(), "workflow: edit") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSubmitRejectsEmptyPrompt(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRoot(t)
	err := r.dispatch("submit", []string{"-image", writePNG(t, dir, 50, 50), "-prompt", "  ", "-out", dir})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestMaskReportsStats(t *testing.T) {
	dir := t.TempDir()
	layer := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(layer.Pix); i += 4 {
		// first row black, rest white
		v := uint8(0xff)
		if i < 10*4 {
			v = 0
		}
		layer.Pix[i], layer.Pix[i+1], layer.Pix[i+2], layer.Pix[i+3] = v, v, v, 0xff
	}
	path := filepath.Join(dir, "layer.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, layer); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, out := newTestRoot(t)
	maskPath := filepath.Join(dir, "mask.png")
	if err := r.dispatch("mask", []string{"-output", maskPath, path}); err != nil {
		t.Fatalf("mask: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "masked: 10/100") || !strings.Contains(got, "workflow: inpaint") {
		t.Errorf("unexpected output %q", got)
	}
	if _, err := os.Stat(maskPath); err != nil {
		t.Errorf("mask not written: %v", err)
	}
}

func TestMaskRejectsThreshold(t *testing.T) {
	r, _ := newTestRoot(t)
	if _, err := parseMaskCmd([]string{"-threshold", "300", "layer.png"}, r); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestConfigPrint(t *testing.T) {
	r, out := newTestRoot(t)
	if err := r.dispatch("config", []string{"print"}); err != nil {
		t.Fatalf("config print: %v", err)
	}
	if !strings.Contains(out.String(), "max_dimension = 1024") {
		t.Errorf("unexpected config %q", out.String())
	}
}

func TestConfigRequiresSubcommand(t *testing.T) {
	r, _ := newTestRoot(t)
	var uerr *UsageError
	if err := r.dispatch("config", nil); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	r, out := newTestRoot(t)
	if err := r.dispatch("version", nil); err != nil {
		t.Fatalf("version: %v", err)
	}
	if want := "roomedit version " + version; !strings.Contains(out.String(), want) {
		t.Errorf("expected %q in %q", want, out.String())
	}
}

func TestUnknownCommandShowsUsage(t *testing.T) {
	r, _ := newTestRoot(t)
	r.fs = flag.NewFlagSet("roomedit", flag.ContinueOnError)
	err := r.dispatch("paint", nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "Commands:") {
		t.Errorf("root help not rendered: %q", uerr.Error())
	}
}

func TestInteractiveCommands(t *testing.T) {
	dir := t.TempDir()
	r, out := newTestRoot(t)
	flat := filepath.Join(dir, "flat.png")
	err := r.dispatch("interactive", []string{
		"-image", writePNG(t, dir, 200, 100),
		"-out", dir,
		"-e", "viewport 200 100",
		"-e", "tool rect",
		"-e", "down 10 10",
		"-e", "up 120 90",
		"-e", "status",
		"-e", "flatten " + flat,
		"-e", `submit "paint the wall green"`,
		"-e", "exit",
		"-e", "undo",
	})
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	got := out.String()
	for _, want := range []string{"opened", "1 path", "wrote " + flat, "submitted", "inpaint"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestInteractiveNeedsImage(t *testing.T) {
	r, _ := newTestRoot(t)
	cmd, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.executeLine("tool brush"); !errors.Is(err, errNoEditor) {
		t.Fatalf("expected errNoEditor, got %v", err)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"down 1 2", []string{"down", "1", "2"}},
		{`submit "a b"  c`, []string{"submit", "a b", "c"}},
		{`open 'my room.png'`, []string{"open", "my room.png"}},
		{`submit ""`, []string{"submit", ""}},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("%q: got %q want %q", tt.in, got, tt.want)
		}
	}
	if _, err := splitArgs(`submit "open`); err == nil {
		t.Errorf("expected unterminated quote error")
	}
}
