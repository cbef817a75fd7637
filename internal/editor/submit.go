package editor

import (
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/roomedit/internal/mask"
)

// Submission is what the editor hands to the edit service.
type Submission struct {
	ID       string
	ImageRef string
	// Mask is nil for whole-image edits.
	Mask     *image.Gray
	Prompt   string
	Workflow mask.Workflow
	Stats    mask.Stats
	Created  time.Time
}

// Submit validates the prompt and builds the submission. With marks on the
// canvas the mask is rasterised; it is attached only if enough pixels
// qualify, otherwise the request falls back to a whole-image edit. Submit
// does not modify the marks or history.
func (e *Editor) Submit(prompt string) (*Submission, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if e.img == nil {
		return nil, ErrNoImage
	}
	sub := &Submission{
		ID:       uuid.NewString(),
		ImageRef: e.img.Ref,
		Prompt:   prompt,
		Workflow: mask.Edit,
		Created:  time.Now(),
	}
	drawn := e.Drawn()
	if drawn {
		c, err := e.Canvas()
		if err != nil {
			return nil, err
		}
		m, st := mask.Rasterize(c, e.maskOpts)
		sub.Stats = st
		sub.Workflow = mask.Decide(drawn, st, e.maskOpts)
		if sub.Workflow == mask.Inpaint {
			sub.Mask = m
		}
	}
	Logger().Info("submission", "id", sub.ID, "workflow", sub.Workflow,
		"masked", sub.Stats.Masked, "percent", sub.Stats.Percent())
	return sub, nil
}

// MaskOptions returns the thresholds Submit uses.
func (e *Editor) MaskOptions() mask.Options { return e.maskOpts }
