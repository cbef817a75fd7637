// Package appstate runs the desktop editing window: a shiny event loop that
// feeds pointer and key input into an editor.Editor and paints its frame
// with toolbar, header and status chrome.
package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/render"
	"github.com/example/roomedit/internal/shape"
)

const (
	tabHeight    = 24
	bottomHeight = 24
	buttonHeight = 24
	swatchSize   = 16
)

var toolbarWidth = 48

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	chromeBg     = color.RGBA{220, 220, 220, 255}
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}
	selectedEdge = color.RGBA{0x0d, 0x99, 0xff, 0xff}
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element. Action names what the
// button triggers when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Action() string
}

// CacheButton wraps another Button and caches its rendered states.
// It delegates all interface methods to the wrapped Button while
// caching the result of Draw for each state.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.invalidate()
	}
}

func (cb *CacheButton) invalidate() { cb.cache = [3]*image.RGBA{} }

func buttonFill(state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return color.RGBA{180, 180, 180, 255}
	case StatePressed:
		return color.RGBA{150, 150, 150, 255}
	}
	return color.RGBA{200, 200, 200, 255}
}

// Shortcut is a clickable label in the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, color.Black, 1)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle     { return s.rect }
func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }
func (s *Shortcut) Action() string            { return s.action }

// ToolButton selects an editor tool.
type ToolButton struct {
	label    string
	tool     editor.Tool
	rect     image.Rectangle
	disabled bool
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, tb.rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
	src := image.Black
	if tb.disabled {
		src = image.NewUniform(color.RGBA{130, 130, 130, 255})
	}
	d := &font.Drawer{Dst: dst, Src: src, Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle     { return tb.rect }
func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }
func (tb *ToolButton) Action() string            { return toolAction(tb.tool) }

var toolLabels = map[editor.Tool]string{
	editor.Brush:     "B:Brush",
	editor.Grab:      "G:Grab",
	editor.Lasso:     "P:Pen",
	editor.Rectangle: "X:Rect",
	editor.Circle:    "O:Circle",
	editor.Line:      "L:Line",
}

func newToolButtons() []*CacheButton {
	var out []*CacheButton
	for _, t := range editor.Tools() {
		out = append(out, &CacheButton{Button: &ToolButton{label: toolLabels[t], tool: t}})
	}
	return out
}

var swatchColors = []shape.Color{shape.Black, shape.White}

// swatchRects lays out the colour swatches below the tool buttons.
func swatchRects() []image.Rectangle {
	y := tabHeight + len(editor.Tools())*buttonHeight + 4
	x := 4
	out := make([]image.Rectangle, 0, len(swatchColors))
	for range swatchColors {
		out = append(out, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 4
	}
	return out
}

// toolbarMinWidth fits the title and every tool label.
func toolbarMinWidth(title string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(title).Ceil() + 8
	for _, lbl := range toolLabels {
		if lw := d.MeasureString(lbl).Ceil() + 8; lw > w {
			w = lw
		}
	}
	return w
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdropCache holds a cached checkerboard backdrop.
var backdropCache *image.RGBA

// drawBackdrop fills dst with a cached checkerboard pattern.
func drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	if backdropCache == nil || backdropCache.Bounds() != b {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, backdropCache.Bounds(), 8, checkerLight, checkerDark)
	}
	draw.Draw(dst, b, backdropCache, image.Point{}, draw.Src)
}

func drawHeader(dst *image.RGBA, title, ref string, loading bool) {
	w := dst.Bounds().Dx()
	draw.Draw(dst, image.Rect(0, 0, w, tabHeight), &image.Uniform{chromeBg}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(4, 16)}
	d.DrawString(title)
	label := ref
	if loading {
		label = "loading " + ref
	}
	d.Dot = fixed.P(toolbarWidth+4, 16)
	d.DrawString(label)
}

func drawToolbar(dst *image.RGBA, tools []*CacheButton, hover int, s editor.Session, canPan bool) {
	draw.Draw(dst, image.Rect(0, tabHeight, toolbarWidth, dst.Bounds().Dy()-bottomHeight),
		&image.Uniform{chromeBg}, image.Point{}, draw.Src)
	y := tabHeight
	for i, cb := range tools {
		cb.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		tb := cb.Button.(*ToolButton)
		if disabled := tb.tool == editor.Grab && !canPan; tb.disabled != disabled {
			tb.disabled = disabled
			cb.invalidate()
		}
		state := StateDefault
		if tb.tool == s.Tool {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		cb.Draw(dst, state)
		y += buttonHeight
	}

	rects := swatchRects()
	for i, c := range swatchColors {
		draw.Draw(dst, rects[i], &image.Uniform{render.Paint(c, 1)}, image.Point{}, draw.Src)
		border := color.Color(color.RGBA{128, 128, 128, 255})
		if c == s.Color {
			border = selectedEdge
		}
		drawRect(dst, rects[i], border, 2)
	}
	y = rects[0].Max.Y + 4

	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(4, y+12)}
	d.DrawString(fmt.Sprintf("%.0fpx", s.BrushSize))
	y += 16
	r := int(math.Min(s.BrushSize/2, float64(toolbarWidth/2-4)))
	if r < 1 {
		r = 1
	}
	drawFilledCircle(dst, toolbarWidth/2, y+r+2, r, render.Paint(s.Color, 1))
	drawCircleOutline(dst, toolbarWidth/2, y+r+2, r, color.RGBA{128, 128, 128, 255})
	if s.Straight {
		d.Dot = fixed.P(4, y+2*r+18)
		d.DrawString("shift")
	}
}

type shortcutSpec struct {
	label  string
	action string
}

func shortcutSpecs(promptActive bool, zoom float64) []shortcutSpec {
	if promptActive {
		return []shortcutSpec{
			{"Enter:done", actionPromptDone},
			{"Esc:cancel", actionPromptCancel},
		}
	}
	return []shortcutSpec{
		{"T:prompt", actionPrompt},
		{"Enter:submit", actionSubmit},
		{"^Z:undo", actionUndo},
		{"^Y:redo", actionRedo},
		{fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), actionZoomIn},
		{"M:mask", actionMaskPreview},
		{"^D:clear", actionClear},
		{"^C:copy", actionCopy},
		{"^S:save", actionSave},
		{"Q:quit", actionQuit},
	}
}

// layoutShortcuts places the status bar labels for a window of the given
// height.
func layoutShortcuts(promptActive bool, zoom float64, height int) []Shortcut {
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	var out []Shortcut
	for _, spec := range shortcutSpecs(promptActive, zoom) {
		sc := Shortcut{label: spec.label, action: spec.action}
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		out = append(out, sc)
		x = sc.rect.Max.X + 8
	}
	return out
}

func drawShortcuts(dst *image.RGBA, shortcuts []Shortcut, hover, width, height int) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{chromeBg}, image.Point{}, draw.Src)
	for i := range shortcuts {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		shortcuts[i].Draw(dst, state)
	}
}

// drawPrompt shows the prompt along the bottom edge of the canvas box.
func drawPrompt(dst *image.RGBA, box image.Rectangle, prompt string, active bool) {
	if prompt == "" && !active {
		return
	}
	text := prompt
	if active {
		text += "|"
	}
	rect := image.Rect(box.Min.X+8, box.Max.Y-28, box.Max.X-8, box.Max.Y-6)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 235}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 1)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(rect.Min.X+4, rect.Min.Y+15)}
	d.DrawString(text)
}

func drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawCircleOutline(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}
