package export

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/mask"
)

const (
	RequestFile = "request.json"
	ImageFile   = "image.png"
	MaskFile    = "mask.png"
)

// Request is the JSON description of a submission.
type Request struct {
	ID       string        `json:"id"`
	ImageRef string        `json:"image_ref"`
	Prompt   string        `json:"prompt"`
	Workflow mask.Workflow `json:"workflow"`
	Image    string        `json:"image"`
	Mask     *string       `json:"mask"`
	Stats    RequestStats  `json:"mask_stats"`
	Created  time.Time     `json:"created"`
}

// RequestStats mirrors mask.Stats.
type RequestStats struct {
	Masked  int     `json:"masked"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// NewRequest describes sub.
func NewRequest(sub *editor.Submission) Request {
	r := Request{
		ID:       sub.ID,
		ImageRef: sub.ImageRef,
		Prompt:   sub.Prompt,
		Workflow: sub.Workflow,
		Image:    ImageFile,
		Stats: RequestStats{
			Masked:  sub.Stats.Masked,
			Total:   sub.Stats.Total,
			Percent: sub.Stats.Percent(),
		},
		Created: sub.Created,
	}
	if sub.Mask != nil {
		name := MaskFile
		r.Mask = &name
	}
	return r
}

// WriteBundle writes request.json, the base image and, for inpainting, the
// mask into dir. It returns the paths written.
func WriteBundle(dir string, sub *editor.Submission, base image.Image) ([]string, error) {
	if sub == nil {
		return nil, fmt.Errorf("write bundle: no submission")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	imgPath := filepath.Join(dir, ImageFile)
	if err := WriteImage(imgPath, base); err != nil {
		return written, err
	}
	written = append(written, imgPath)
	if sub.Mask != nil {
		maskPath := filepath.Join(dir, MaskFile)
		if err := WriteImage(maskPath, mask.ToNRGBA(sub.Mask)); err != nil {
			return written, err
		}
		written = append(written, maskPath)
	}
	data, err := json.MarshalIndent(NewRequest(sub), "", "  ")
	if err != nil {
		return written, err
	}
	reqPath := filepath.Join(dir, RequestFile)
	if err := os.WriteFile(reqPath, append(data, '\n'), 0o644); err != nil {
		return written, err
	}
	return append(written, reqPath), nil
}
