//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return initErr
}

func put(f clipboard.Format, data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(f, data)
	return nil
}

func get(f clipboard.Format) ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data := clipboard.Read(f)
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return put(clipboard.FmtImage, buf.Bytes())
}

// ReadImageData returns the raw image bytes on the clipboard. Decoding is
// left to the caller so clipboard images go through the same decoders as
// files and URLs.
func ReadImageData() ([]byte, error) { return get(clipboard.FmtImage) }

// WriteText places a prompt on the clipboard.
func WriteText(text string) error { return put(clipboard.FmtText, []byte(text)) }

// ReadText returns the clipboard text, used for pasting prompts.
func ReadText() (string, error) {
	data, err := get(clipboard.FmtText)
	return string(data), err
}
