package appstate

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/example/roomedit/internal/clipboard"
	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/export"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/render"
)

const (
	actionPrompt       = "prompt"
	actionPromptDone   = "promptdone"
	actionPromptCancel = "promptcancel"
	actionSubmit       = "submit"
	actionUndo         = "undo"
	actionRedo         = "redo"
	actionZoomIn       = "zoomin"
	actionZoomOut      = "zoomout"
	actionZoomReset    = "zoomreset"
	actionMaskPreview  = "maskpreview"
	actionClear        = "clear"
	actionCopy         = "copy"
	actionSave         = "save"
	actionPaste        = "paste"
	actionQuit         = "quit"
	actionBlack        = "black"
	actionWhite        = "white"
	actionSizeUp       = "sizeup"
	actionSizeDown     = "sizedown"
	toolActionPrefix   = "tool:"
)

// brushStep is how far one size key moves the brush width.
const brushStep = 5

// Clipboard access is swapped out in tests.
var (
	writeClipboard     = clipboard.WriteImage
	writeClipboardText = clipboard.WriteText
	readClipboardText  = clipboard.ReadText
)

func toolAction(t editor.Tool) string { return toolActionPrefix + t.String() }

// saveMask rasterises the current canvas and writes the mask to path.
func saveMask(ed *editor.Editor, path string) (mask.Stats, error) {
	c, err := ed.Canvas()
	if err != nil {
		return mask.Stats{}, err
	}
	m, st := mask.Rasterize(c, ed.MaskOptions())
	if err := export.WriteImage(path, mask.ToNRGBA(m)); err != nil {
		return st, fmt.Errorf("write mask: %w", err)
	}
	return st, nil
}

// copyFlattened places the flattened canvas on the clipboard.
func copyFlattened(ed *editor.Editor) error {
	flat, err := ed.Flatten()
	if err != nil {
		return err
	}
	return writeClipboard(flat)
}

// submitBundle builds a submission and writes its bundle into a directory
// named after the submission ID under dir.
func submitBundle(ed *editor.Editor, prompt, dir string) (*editor.Submission, []string, error) {
	sub, err := ed.Submit(prompt)
	if err != nil {
		return nil, nil, err
	}
	paths, err := export.WriteBundle(filepath.Join(dir, sub.ID), sub, ed.Image().Pixels)
	if err != nil {
		return sub, paths, fmt.Errorf("write bundle: %w", err)
	}
	return sub, paths, nil
}

// maskPreview tints the base image where the current marks would be
// inpainted.
func maskPreview(ed *editor.Editor, opts render.OverlayOptions) (*image.RGBA, mask.Stats, error) {
	c, err := ed.Canvas()
	if err != nil {
		return nil, mask.Stats{}, err
	}
	m, st := mask.Rasterize(c, ed.MaskOptions())
	return render.Overlay(ed.Image().Pixels, m, opts), st, nil
}
