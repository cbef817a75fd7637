package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/imagesource"
	"github.com/example/roomedit/internal/notify"
	"github.com/example/roomedit/internal/platform"
	"github.com/example/roomedit/internal/render"
)

// AppState holds the window configuration and the editor it drives.
type AppState struct {
	ImageRef string
	Output   string
	SaveDir  string
	Prompt   string
	Title    string

	editor   *editor.Editor
	loader   *imagesource.Loader
	notifier *notify.Notifier
	overlay  render.OverlayOptions
	width    int
	height   int

	onSubmit  func(*editor.Submission, []string)
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEditor sets the editor driven by the window.
func WithEditor(ed *editor.Editor) Option { return func(a *AppState) { a.editor = ed } }

// WithLoader sets the loader used for the initial image and clipboard paste.
func WithLoader(l *imagesource.Loader) Option { return func(a *AppState) { a.loader = l } }

// WithImageRef sets the image loaded when the window opens.
func WithImageRef(ref string) Option { return func(a *AppState) { a.ImageRef = ref } }

// WithOutput sets the path the mask is saved to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory submission bundles are written under.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithPrompt sets the initial prompt text.
func WithPrompt(p string) Option { return func(a *AppState) { a.Prompt = p } }

// WithNotifier sets the desktop notifier for save, copy and submit.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOverlay sets the tint used by the mask preview.
func WithOverlay(o render.OverlayOptions) Option { return func(a *AppState) { a.overlay = o } }

// WithWindowSize sets the initial window size in pixels.
func WithWindowSize(w, h int) Option {
	return func(a *AppState) {
		if w > 0 && h > 0 {
			a.width, a.height = w, h
		}
	}
}

// WithOnSubmit registers a callback invoked after a bundle is written.
func WithOnSubmit(fn func(*editor.Submission, []string)) Option {
	return func(a *AppState) { a.onSubmit = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output:  "mask.png",
		SaveDir: ".",
		Title:   platform.AppName,
		overlay: render.DefaultOverlayOptions(),
		width:   1024,
		height:  800,
	}
	for _, o := range opts {
		o(a)
	}
	if a.editor == nil {
		a.editor = editor.New()
	}
	if a.loader == nil {
		a.loader = imagesource.NewLoader()
	}
	return a
}

// Editor returns the editor driven by the window.
func (a *AppState) Editor() *editor.Editor { return a.editor }

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

type paintState struct {
	width, height int
	title, ref    string
	loading       bool
	frame         *image.RGBA
	box, dst      image.Rectangle
	session       editor.Session
	canPan        bool
	shortcuts     []Shortcut
	hoverTool     int
	hoverKey      int
	prompt        string
	promptActive  bool
	message       string
}

func (u *ui) snapshot() paintState {
	v := u.ed.Viewport()
	st := paintState{
		width:        u.width,
		height:       u.height,
		title:        u.a.Title,
		ref:          u.ref,
		loading:      u.loading,
		session:      u.ed.Session(),
		canPan:       v.CanPan(),
		shortcuts:    u.shortcuts(),
		hoverTool:    u.hoverTool,
		hoverKey:     u.hoverKey,
		prompt:       u.prompt,
		promptActive: u.promptActive,
	}
	if u.messageVisible() {
		st.message = u.message
	}
	if u.ed.Image() != nil {
		st.box = boxRect(v.Box)
		st.dst = displayRect(v)
		st.frame = u.preview
		if st.frame == nil {
			st.frame = u.ed.Frame()
		}
	}
	return st
}

func (a *AppState) Main(s screen.Screen) {
	if w := toolbarMinWidth(a.Title); w > toolbarWidth {
		toolbarWidth = w
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.width, Height: a.height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	u := newUI(a, func(ev any) { w.Send(ev) })
	defer u.stop()
	if a.ImageRef != "" && a.editor.Image() == nil {
		u.load(a.ImageRef)
	}

	tools := newToolButtons()
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, tools, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		redraw := false
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			u.resize(e.WidthPx, e.HeightPx)
			redraw = true
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := u.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case loadResult:
			redraw = u.loaded(e)
		case quitEvent:
			stopPaint()
			return
		case mouse.Event:
			redraw = u.handleMouse(e)
		case key.Event:
			var quit bool
			redraw, quit = u.handleKey(e)
			if quit {
				stopPaint()
				return
			}
		}
		if redraw {
			w.Send(paint.Event{})
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, tools []*CacheButton, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	drawBackdrop(dst)
	if ctx.Err() != nil {
		return
	}

	if st.frame != nil {
		clip, ok := dst.SubImage(st.box).(*image.RGBA)
		if ok {
			xdraw.ApproxBiLinear.Scale(clip, st.dst, st.frame, st.frame.Bounds(), draw.Over, nil)
		}
		drawRect(dst, st.box.Inset(-1), color.Black, 1)
	}
	if ctx.Err() != nil {
		return
	}

	drawHeader(dst, st.title, st.ref, st.loading)
	drawToolbar(dst, tools, st.hoverTool, st.session, st.canPan)
	drawShortcuts(dst, st.shortcuts, st.hoverKey, st.width, st.height)
	if st.frame != nil {
		drawPrompt(dst, st.box, st.prompt, st.promptActive)
	}
	if st.message != "" {
		drawMessage(dst, st.width, st.height, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
