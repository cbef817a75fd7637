package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/roomedit/internal/shape"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case "mask":
			err = setMaskField(&cfg.Mask, key, value)
		case "overlay":
			err = setOverlayField(&cfg.Overlay, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := "root section"
			if section != "" {
				name = "section [" + section + "]"
			}
			return nil, fmt.Errorf("error in %s: %w", name, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "origin":
		cfg.Origin = strings.TrimSuffix(value, "/")
	case "max_dimension":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid max_dimension %q", value)
		}
		cfg.MaxDimension = n
	}
	return nil
}

func setEditorField(e *Editor, key, value string) error {
	switch key {
	case "brush_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 1 || f > 100 {
			return fmt.Errorf("brush_size must be between 1 and 100, got %q", value)
		}
		e.BrushSize = f
	case "brush_color":
		c, err := shape.ParseColor(value)
		if err != nil {
			return err
		}
		e.BrushColor = c
	case "tool":
		e.Tool = strings.ToLower(value)
	}
	return nil
}

func setMaskField(m *Mask, key, value string) error {
	switch key {
	case "threshold":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 255 {
			return fmt.Errorf("threshold must be between 1 and 255, got %q", value)
		}
		m.Threshold = n
	case "min_percent":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f >= 100 {
			return fmt.Errorf("min_percent must be in [0,100), got %q", value)
		}
		m.MinPercent = f
	}
	return nil
}

func setOverlayField(o *Overlay, key, value string) error {
	switch key {
	case "tint":
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		o.Tint = c
	case "opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("opacity must be in [0,1], got %q", value)
		}
		o.Opacity = f
	case "feather":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid feather %q", value)
		}
		o.Feather = n
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "submit":
		n.Submit = b
	}
	return nil
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must be a name or start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
