package imagesource

import (
	"errors"
	"fmt"
)

// ErrImageDecode reports that a reference could not be turned into pixels,
// even after the relaxed retry.
var ErrImageDecode = errors.New("image decode failed")

// ImageDecodeError carries the reference that failed and the last cause.
type ImageDecodeError struct {
	Ref string
	Err error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Ref, e.Err)
}

func (e *ImageDecodeError) Is(target error) bool { return target == ErrImageDecode }

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// errNoCORS means a cross-origin response did not grant access to its
// pixels.
var errNoCORS = errors.New("response does not allow cross-origin pixel access")

// ErrTooLarge means the encoded image exceeded the loader's byte limit.
var ErrTooLarge = errors.New("image data too large")
