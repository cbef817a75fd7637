package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/imagesource"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/shape"
)

const messageDuration = 2 * time.Second

// loadResult is posted back to the event loop when an image load finishes.
type loadResult struct {
	// seq identifies the load call; only the latest is installed.
	seq uint64
	ref string
	img *imagesource.Image
	err error
}

// ui is the window-independent half of the event loop. It is only touched
// from the loop goroutine.
type ui struct {
	a    *AppState
	ed   *editor.Editor
	post func(any)
	now  func() time.Time

	width, height int
	keys          map[KeyShortcut]string
	hoverTool     int
	hoverKey      int

	ref          string
	prompt       string
	promptActive bool
	promptSaved  string

	message      string
	messageUntil time.Time
	confirmClear bool

	loading    bool
	loadSeq    uint64
	cancelLoad context.CancelFunc
	preview    *image.RGBA
	inside     bool
}

func newUI(a *AppState, post func(any)) *ui {
	u := &ui{
		a:         a,
		ed:        a.editor,
		post:      post,
		now:       time.Now,
		width:     a.width,
		height:    a.height,
		keys:      defaultKeymap(),
		hoverTool: -1,
		hoverKey:  -1,
		ref:       a.ImageRef,
		prompt:    a.Prompt,
	}
	u.layout()
	return u
}

func defaultKeymap() map[KeyShortcut]string {
	m := map[KeyShortcut]string{}
	bind := func(action string, r rune, code key.Code, mods key.Modifiers) {
		if r != 0 {
			m[KeyShortcut{Rune: r, Modifiers: mods}] = action
		}
		if code != key.CodeUnknown {
			m[KeyShortcut{Code: code, Modifiers: mods}] = action
		}
	}
	bind(toolAction(editor.Brush), 'b', key.CodeB, 0)
	bind(toolAction(editor.Grab), 'g', key.CodeG, 0)
	bind(toolAction(editor.Lasso), 'p', key.CodeP, 0)
	bind(toolAction(editor.Rectangle), 'x', key.CodeX, 0)
	bind(toolAction(editor.Circle), 'o', key.CodeO, 0)
	bind(toolAction(editor.Line), 'l', key.CodeL, 0)
	bind(actionBlack, 'k', key.CodeK, 0)
	bind(actionWhite, 'w', key.CodeW, 0)
	bind(actionSizeDown, '[', key.CodeLeftSquareBracket, 0)
	bind(actionSizeUp, ']', key.CodeRightSquareBracket, 0)
	bind(actionZoomIn, '+', key.CodeKeypadPlusSign, 0)
	bind(actionZoomIn, '=', key.CodeEqualSign, 0)
	bind(actionZoomOut, '-', key.CodeHyphenMinus, 0)
	bind(actionZoomOut, 0, key.CodeKeypadHyphenMinus, 0)
	bind(actionZoomReset, '0', key.Code0, 0)
	bind(actionPrompt, 't', key.CodeT, 0)
	bind(actionMaskPreview, 'm', key.CodeM, 0)
	bind(actionSubmit, 0, key.CodeReturnEnter, 0)
	bind(actionUndo, 'z', key.CodeZ, key.ModControl)
	bind(actionRedo, 'y', key.CodeY, key.ModControl)
	bind(actionRedo, 'z', key.CodeZ, key.ModControl|key.ModShift)
	bind(actionClear, 'd', key.CodeD, key.ModControl)
	bind(actionCopy, 'c', key.CodeC, key.ModControl)
	bind(actionSave, 's', key.CodeS, key.ModControl)
	bind(actionPaste, 'v', key.CodeV, key.ModControl)
	bind(actionQuit, 'q', key.CodeQ, 0)
	return m
}

// lookupKey tries the exact modifiers first and then without shift so that
// shifted punctuation such as '+' still matches.
func (u *ui) lookupKey(e key.Event) (string, bool) {
	for _, mods := range []key.Modifiers{e.Modifiers, e.Modifiers &^ key.ModShift} {
		if e.Code != key.CodeUnknown {
			if a, ok := u.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
				return a, true
			}
		}
		if e.Rune > 0 {
			if a, ok := u.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
				return a, true
			}
		}
	}
	return "", false
}

func (u *ui) flash(msg string) {
	u.message = msg
	u.messageUntil = u.now().Add(messageDuration)
	log.Print(msg)
	if post := u.post; post != nil {
		time.AfterFunc(messageDuration, func() { post(paint.Event{}) })
	}
}

func (u *ui) messageVisible() bool {
	return u.message != "" && u.now().Before(u.messageUntil)
}

func (u *ui) layout() {
	if u.ed.Image() == nil {
		return
	}
	w, h := u.ed.Viewport().Size()
	u.ed.Viewport().SetBox(fitBox(w, h, canvasArea(u.width, u.height)))
}

func (u *ui) resize(w, h int) {
	u.width, u.height = w, h
	u.layout()
}

func (u *ui) shortcuts() []Shortcut {
	return layoutShortcuts(u.promptActive, u.ed.Viewport().Zoom, u.height)
}

func (u *ui) load(ref string) {
	if u.cancelLoad != nil {
		u.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	u.cancelLoad = cancel
	u.loading = true
	u.ref = ref
	u.loadSeq++
	seq := u.loadSeq
	loader := u.a.loader
	post := u.post
	go func() {
		img, err := loader.Load(ctx, ref)
		post(loadResult{seq: seq, ref: ref, img: img, err: err})
	}()
}

// loaded installs a finished load. Results of any superseded load are
// dropped, including an earlier load of the same reference.
func (u *ui) loaded(r loadResult) bool {
	if !u.loading || r.seq != u.loadSeq || r.ref != u.ref {
		return false
	}
	u.loading = false
	if u.cancelLoad != nil {
		u.cancelLoad()
		u.cancelLoad = nil
	}
	if r.err != nil {
		log.Printf("load %s: %v", r.ref, r.err)
		u.flash("could not load image")
		return true
	}
	u.ed.SetImage(r.img)
	u.preview = nil
	u.layout()
	if r.img.Tainted {
		u.flash("view only: mask export unavailable")
	}
	return true
}

func (u *ui) stop() {
	if u.cancelLoad != nil {
		u.cancelLoad()
		u.cancelLoad = nil
	}
}

// handleKey reports whether the frame needs repainting and whether the
// window should close.
func (u *ui) handleKey(e key.Event) (redraw, quit bool) {
	if e.Code == key.CodeLeftShift || e.Code == key.CodeRightShift {
		switch e.Direction {
		case key.DirPress:
			if !u.ed.Session().Straight {
				u.ed.SetStraight(true)
				return true, false
			}
		case key.DirRelease:
			u.ed.SetStraight(false)
			return true, false
		}
		return false, false
	}
	if e.Direction == key.DirRelease {
		return false, false
	}
	if u.promptActive {
		return u.promptKey(e), false
	}
	action, ok := u.lookupKey(e)
	if !ok {
		u.confirmClear = false
		return false, false
	}
	return u.trigger(action)
}

func (u *ui) promptKey(e key.Event) bool {
	switch e.Code {
	case key.CodeReturnEnter:
		r, _ := u.trigger(actionPromptDone)
		return r
	case key.CodeEscape:
		r, _ := u.trigger(actionPromptCancel)
		return r
	case key.CodeC, key.CodeV:
		if e.Modifiers&key.ModControl != 0 {
			return u.promptClipboard(e.Code == key.CodeV)
		}
	case key.CodeDeleteBackspace:
		runes := []rune(u.prompt)
		if len(runes) == 0 {
			return false
		}
		u.prompt = string(runes[:len(runes)-1])
		return true
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) && e.Modifiers&key.ModControl == 0 {
		u.prompt += string(e.Rune)
		return true
	}
	return false
}

// promptClipboard pastes clipboard text into the prompt, or copies the
// prompt out.
func (u *ui) promptClipboard(paste bool) bool {
	if !paste {
		if err := writeClipboardText(u.prompt); err != nil {
			u.flash(fmt.Sprintf("copy failed: %v", err))
		}
		return true
	}
	text, err := readClipboardText()
	if err != nil {
		u.flash(fmt.Sprintf("paste failed: %v", err))
		return true
	}
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, text)
	u.prompt += text
	return true
}

// trigger runs a named action.
func (u *ui) trigger(action string) (redraw, quit bool) {
	if action != actionClear {
		u.confirmClear = false
	}
	if action != actionMaskPreview {
		u.preview = nil
	}
	if name, ok := strings.CutPrefix(action, toolActionPrefix); ok {
		t, err := editor.ParseTool(name)
		if err == nil {
			err = u.ed.SetTool(t)
		}
		switch {
		case errors.Is(err, editor.ErrToolUnavailable):
			u.flash("zoom in to use grab")
		case err != nil:
			log.Printf("tool: %v", err)
		}
		return true, false
	}
	switch action {
	case actionBlack:
		u.ed.SetColor(shape.Black)
	case actionWhite:
		u.ed.SetColor(shape.White)
	case actionSizeUp:
		u.ed.SetBrushSize(u.ed.Session().BrushSize + brushStep)
	case actionSizeDown:
		u.ed.SetBrushSize(u.ed.Session().BrushSize - brushStep)
	case actionZoomIn:
		u.ed.ZoomIn()
	case actionZoomOut:
		u.ed.ZoomOut()
	case actionZoomReset:
		u.ed.ResetView()
	case actionUndo:
		return u.ed.Undo(), false
	case actionRedo:
		return u.ed.Redo(), false
	case actionClear:
		if !u.confirmClear {
			u.confirmClear = true
			u.flash("press ^D again to clear")
			return true, false
		}
		u.confirmClear = false
		u.ed.Clear()
		u.flash("cleared")
	case actionPrompt:
		u.promptActive = true
		u.promptSaved = u.prompt
	case actionPromptDone:
		u.promptActive = false
		u.prompt = strings.TrimSpace(u.prompt)
	case actionPromptCancel:
		u.promptActive = false
		u.prompt = u.promptSaved
	case actionSubmit:
		u.submit()
	case actionSave:
		u.save()
	case actionCopy:
		u.copy()
	case actionPaste:
		u.load(imagesource.ClipboardRef)
	case actionMaskPreview:
		u.togglePreview()
	case actionQuit:
		return false, true
	default:
		return false, false
	}
	return true, false
}

func (u *ui) submit() {
	sub, paths, err := submitBundle(u.ed, u.prompt, u.a.SaveDir)
	if err != nil {
		log.Printf("submit: %v", err)
		switch {
		case errors.Is(err, editor.ErrEmptyPrompt):
			u.flash("press T to write a prompt")
		case errors.Is(err, editor.ErrCanvasAccess):
			u.flash("mask unavailable for this image")
		case errors.Is(err, editor.ErrNoImage):
			u.flash("no image loaded")
		default:
			u.flash("submit failed")
		}
		return
	}
	u.flash(fmt.Sprintf("submitted %s request", sub.Workflow))
	var preview image.Image
	if sub.Mask != nil {
		preview = mask.ToNRGBA(sub.Mask)
	}
	u.a.notifier.Submit(fmt.Sprintf("%s request %s", sub.Workflow, sub.ID), preview)
	if u.a.onSubmit != nil {
		u.a.onSubmit(sub, paths)
	}
}

func (u *ui) save() {
	st, err := saveMask(u.ed, u.a.Output)
	if err != nil {
		log.Printf("save: %v", err)
		u.flash("save failed")
		return
	}
	u.flash(fmt.Sprintf("saved %s (%.1f%% masked)", u.a.Output, st.Percent()))
	u.a.notifier.Save(u.a.Output)
}

func (u *ui) copy() {
	if err := copyFlattened(u.ed); err != nil {
		log.Printf("copy: %v", err)
		u.flash("copy failed")
		return
	}
	u.flash("image copied to clipboard")
	u.a.notifier.Copy("image")
}

func (u *ui) togglePreview() {
	if u.preview != nil {
		u.preview = nil
		return
	}
	img, st, err := maskPreview(u.ed, u.a.overlay)
	if err != nil {
		log.Printf("mask preview: %v", err)
		u.flash("mask unavailable")
		return
	}
	u.preview = img
	u.flash(fmt.Sprintf("%.1f%% masked", st.Percent()))
}

// handleMouse routes a mouse event to the chrome or, inside the canvas box,
// to the editor as a pointer event.
func (u *ui) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	if press && u.messageVisible() {
		u.messageUntil = time.Time{}
		return true
	}

	redraw := false
	inCanvas := u.ed.Image() != nil && !u.loading && p.In(boxRect(u.ed.Viewport().Box))
	if u.inside && !inCanvas {
		u.inside = false
		u.ed.Handle(editor.Pointer{Kind: editor.PointerLeave})
		redraw = true
	}
	if inCanvas {
		u.inside = true
		return u.canvasMouse(e) || redraw
	}

	switch {
	case p.Y >= u.height-bottomHeight:
		hover := -1
		for i, sc := range u.shortcuts() {
			if p.In(sc.rect) {
				hover = i
				if press {
					r, quit := u.trigger(sc.action)
					if quit {
						u.post(quitEvent{})
					}
					redraw = redraw || r
				}
				break
			}
		}
		if hover != u.hoverKey {
			u.hoverKey = hover
			redraw = true
		}
	case p.X < toolbarWidth && p.Y >= tabHeight:
		idx := toolIndexAt(p.Y, len(editor.Tools()))
		if idx != u.hoverTool {
			u.hoverTool = idx
			redraw = true
		}
		if !press {
			break
		}
		if idx >= 0 {
			r, _ := u.trigger(toolAction(editor.Tools()[idx]))
			return r || redraw
		}
		for i, rect := range swatchRects() {
			if p.In(rect) {
				u.preview = nil
				u.ed.SetColor(swatchColors[i])
				return true
			}
		}
	default:
		if u.hoverTool != -1 || u.hoverKey != -1 {
			u.hoverTool, u.hoverKey = -1, -1
			redraw = true
		}
	}
	return redraw
}

func (u *ui) canvasMouse(e mouse.Event) bool {
	ev := editor.Pointer{X: float64(e.X), Y: float64(e.Y)}
	switch {
	case e.Button == mouse.ButtonWheelUp && e.Direction == mouse.DirStep:
		r, _ := u.trigger(actionZoomIn)
		return r
	case e.Button == mouse.ButtonWheelDown && e.Direction == mouse.DirStep:
		r, _ := u.trigger(actionZoomOut)
		return r
	case e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonNone:
		return false
	case e.Direction == mouse.DirPress:
		u.preview = nil
		ev.Kind = editor.PointerDown
	case e.Direction == mouse.DirRelease:
		ev.Kind = editor.PointerUp
	case e.Direction == mouse.DirNone:
		ev.Kind = editor.PointerMove
	default:
		return false
	}
	u.ed.Handle(ev)
	return true
}

// quitEvent asks the event loop to close the window.
type quitEvent struct{}
