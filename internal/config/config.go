package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/roomedit/internal/shape"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Submit bool
}

// Editor holds the initial drawing session.
type Editor struct {
	BrushSize  float64
	BrushColor shape.Color
	Tool       string
}

// Mask holds the mask detection thresholds.
type Mask struct {
	Threshold  int
	MinPercent float64
}

// Overlay controls the tinted mask preview.
type Overlay struct {
	Tint    color.RGBA
	Opacity float64
	Feather int
}

// Config holds the application configuration.
type Config struct {
	SaveDir      string
	MaxDimension int
	// Origin is presented on cross-origin image requests.
	Origin  string
	Editor  Editor
	Mask    Mask
	Overlay Overlay
	Notify  Notify
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		MaxDimension: 1024,
		Editor: Editor{
			BrushSize:  20,
			BrushColor: shape.Black,
			Tool:       "brush",
		},
		Mask: Mask{
			Threshold:  30,
			MinPercent: 1.0,
		},
		Overlay: Overlay{
			Tint:    color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff},
			Opacity: 0.5,
			Feather: 2,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "max_dimension = %d\n", c.MaxDimension)
	if c.Origin != "" {
		fmt.Fprintf(&sb, "origin = %s\n", c.Origin)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "brush_size = %g\n", c.Editor.BrushSize)
	fmt.Fprintf(&sb, "brush_color = %s\n", c.Editor.BrushColor)
	fmt.Fprintf(&sb, "tool = %s\n", c.Editor.Tool)
	sb.WriteString("\n")

	sb.WriteString("[mask]\n")
	fmt.Fprintf(&sb, "threshold = %d\n", c.Mask.Threshold)
	fmt.Fprintf(&sb, "min_percent = %g\n", c.Mask.MinPercent)
	sb.WriteString("\n")

	sb.WriteString("[overlay]\n")
	fmt.Fprintf(&sb, "tint = %s\n", toHex(c.Overlay.Tint))
	fmt.Fprintf(&sb, "opacity = %g\n", c.Overlay.Opacity)
	fmt.Fprintf(&sb, "feather = %d\n", c.Overlay.Feather)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "submit = %v\n", c.Notify.Submit)

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
