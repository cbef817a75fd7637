package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/roomedit/internal/shape"
)

func TestParse(t *testing.T) {
	input := `
save_dir = /tmp/edits
max_dimension: 2048

[editor]
brush_size = 35
brush_color = White
tool = lasso

[mask]
threshold = 40
min_percent = 0.5

[overlay]
tint = teal
opacity = 0.25

[notify]
save = false
copy = true
submit = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/edits" {
		t.Errorf("Expected save_dir '/tmp/edits', got '%s'", cfg.SaveDir)
	}
	if cfg.MaxDimension != 2048 {
		t.Errorf("Expected max_dimension 2048, got %d", cfg.MaxDimension)
	}
	if cfg.Editor.BrushSize != 35 || cfg.Editor.BrushColor != shape.White || cfg.Editor.Tool != "lasso" {
		t.Errorf("Unexpected editor section %+v", cfg.Editor)
	}
	if cfg.Mask.Threshold != 40 || cfg.Mask.MinPercent != 0.5 {
		t.Errorf("Unexpected mask section %+v", cfg.Mask)
	}
	if cfg.Overlay.Tint != (color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}) || cfg.Overlay.Opacity != 0.25 {
		t.Errorf("Unexpected overlay section %+v", cfg.Overlay)
	}
	if cfg.Overlay.Feather != 2 {
		t.Errorf("Expected default feather to survive, got %d", cfg.Overlay.Feather)
	}
	if cfg.Notify.Save || !cfg.Notify.Copy || !cfg.Notify.Submit {
		t.Errorf("Unexpected notify section %+v", cfg.Notify)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, input := range []string{
		"[mask]\nthreshold = 0",
		"[mask]\nthreshold = 300",
		"[editor]\nbrush_size = 101",
		"[editor]\nbrush_color = red",
		"[notify]\nsave = maybe",
		"max_dimension = -1",
		"[overlay]\ntint = #12",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/edits
origin = https://editor.example

[editor]
brush_size = 12.5
brush_color = white
tool = circle

[mask]
threshold = 25
min_percent = 2

[overlay]
tint = #10203040

[notify]
save = true
copy = false
submit = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if *cfg != *cfg2 {
		t.Errorf("Config mismatch after round trip:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	env := map[string]string{
		"ROOMEDIT_SAVE_DIR":       "/srv/out",
		"ROOMEDIT_MASK_THRESHOLD": "50",
		"ROOMEDIT_BRUSH_SIZE":     "8",
	}
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.SaveDir != "/srv/out" || cfg.Mask.Threshold != 50 || cfg.Editor.BrushSize != 8 {
		t.Errorf("env not applied: %+v", cfg)
	}
	env["ROOMEDIT_MAX_DIMENSION"] = "huge"
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err == nil {
		t.Error("expected error for bad ROOMEDIT_MAX_DIMENSION")
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("[mask]\nthreshold = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROOMEDIT_MASK_THRESHOLD", "")
	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mask.Threshold != 12 {
		t.Errorf("expected threshold from override file, got %d", cfg.Mask.Threshold)
	}
}
