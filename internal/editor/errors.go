package editor

import (
	"errors"
	"fmt"

	"github.com/example/roomedit/internal/imagesource"
)

var (
	// ErrImageDecode is re-exported so callers only need this package.
	ErrImageDecode = imagesource.ErrImageDecode
	// ErrEmptyPrompt is returned by Submit for a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrCanvasAccess means the canvas pixels cannot be read back.
	ErrCanvasAccess = errors.New("canvas pixels are not readable")
	// ErrNoImage is returned when an operation needs a base image and none
	// is loaded.
	ErrNoImage = errors.New("no image loaded")
	// ErrToolUnavailable is returned when selecting grab at zoom ≤ 1.
	ErrToolUnavailable = errors.New("tool unavailable at current zoom")
)

// ImageDecodeError is the typed form of ErrImageDecode.
type ImageDecodeError = imagesource.ImageDecodeError

// CanvasAccessError explains why the canvas could not be read.
type CanvasAccessError struct {
	Reason string
}

func (e *CanvasAccessError) Error() string {
	return fmt.Sprintf("canvas access: %s", e.Reason)
}

func (e *CanvasAccessError) Is(target error) bool { return target == ErrCanvasAccess }
