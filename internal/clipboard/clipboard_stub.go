//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
	"runtime"
)

var errPlatform = fmt.Errorf("%w on %s", ErrUnavailable, runtime.GOOS)

func WriteImage(image.Image) error { return errPlatform }

func ReadImageData() ([]byte, error) { return nil, errPlatform }

func WriteText(string) error { return errPlatform }

func ReadText() (string, error) { return "", errPlatform }
