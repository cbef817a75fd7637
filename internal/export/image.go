// Package export writes editor output to disk: flattened images, masks,
// submission bundles and PDF proof sheets.
package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// JPEGQuality is used for .jpg and .jpeg outputs.
const JPEGQuality = 92

// Encode writes img to w in the format implied by name's extension. PNG is
// the default.
func Encode(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case "", ".png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(name))
	}
}

// WriteImage saves img to path, creating parent directories.
func WriteImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("write %s: no image", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, path, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
