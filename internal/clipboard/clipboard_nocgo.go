//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"image"
	"sync"
)

var (
	initOnce sync.Once
	initErr  error
)

// Without cgo there is no X11 or Wayland binding, so every call reports why
// the clipboard cannot be reached.
func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = fmt.Errorf("%w: built without cgo", ErrUnavailable)
	})
	return initErr
}

func WriteImage(image.Image) error { return ensureInit() }

func ReadImageData() ([]byte, error) { return nil, ensureInit() }

func WriteText(string) error { return ensureInit() }

func ReadText() (string, error) { return "", ensureInit() }
