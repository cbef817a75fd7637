package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/render"
)

const (
	pageW  = 210.0
	pageH  = 297.0
	margin = 15.0
)

// WritePDF writes a one page proof sheet for sub: the prompt, the flattened
// canvas and, when a mask is attached, the mask tinted over the canvas.
func WritePDF(w io.Writer, sub *editor.Submission, flattened image.Image) error {
	if sub == nil || flattened == nil {
		return fmt.Errorf("write pdf: nothing to export")
	}
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Edit request "+sub.ID, true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 14)
	p.CellFormat(0, 8, "Edit request", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 5, fmt.Sprintf("%s  %s  workflow: %s", sub.ID, sub.Created.Format("2006-01-02 15:04"), sub.Workflow), "", 1, "L", false, 0, "")
	p.Ln(2)
	p.SetFont("Helvetica", "", 11)
	p.MultiCell(0, 5, sub.Prompt, "", "L", false)
	p.Ln(4)

	imgs := []image.Image{flattened}
	if sub.Mask != nil {
		imgs = append(imgs, render.Overlay(flattened, sub.Mask, render.DefaultOverlayOptions()))
	}
	slotH := (pageH - p.GetY() - margin - 4*float64(len(imgs)-1)) / float64(len(imgs))
	for i, img := range imgs {
		name := fmt.Sprintf("img%d", i)
		if err := registerPNG(p, name, img); err != nil {
			return err
		}
		b := img.Bounds()
		wmm, hmm := fit(float64(b.Dx()), float64(b.Dy()), pageW-2*margin, slotH)
		x := (pageW - wmm) / 2
		p.ImageOptions(name, x, p.GetY(), wmm, hmm, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		p.SetY(p.GetY() + hmm + 4)
	}
	if sub.Mask != nil {
		p.SetFont("Helvetica", "I", 9)
		p.CellFormat(0, 5, fmt.Sprintf("masked %d of %d pixels (%.2f%%)", sub.Stats.Masked, sub.Stats.Total, sub.Stats.Percent()), "", 1, "L", false, 0, "")
	}
	return p.Output(w)
}

func registerPNG(p *gofpdf.Fpdf, name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	p.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	return p.Error()
}

// fit scales w×h to fit inside maxW×maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	s := maxW / w
	if h*s > maxH {
		s = maxH / h
	}
	return w * s, h * s
}
