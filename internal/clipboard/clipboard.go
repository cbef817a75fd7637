// Package clipboard reads base images from, and writes masks and prompts
// to, the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrEmpty is returned when the clipboard holds no data of the
	// requested kind.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
	// ErrUnavailable wraps every failure to reach a clipboard at all.
	ErrUnavailable = errors.New("clipboard unavailable")

	errNoDisplay = fmt.Errorf("%w: DISPLAY or WAYLAND_DISPLAY is not set", ErrUnavailable)
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
