package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/roomedit/internal/clipboard"
	"github.com/example/roomedit/internal/config"
	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/imagesource"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/notify"
	"github.com/example/roomedit/internal/render"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// writeClipboardFn is swapped out in tests.
var writeClipboardFn = clipboard.WriteImage

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	verbose      bool
	saveAlerts   bool
	copyAlerts   bool
	submitAlerts bool
	stdout       io.Writer
	stderr       io.Writer
	stdin        io.Reader
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r := &root{
		fs:       flag.NewFlagSet("roomedit", flag.ExitOnError),
		program:  "roomedit",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    os.Stdin,
	}
	r.fs.BoolVar(&r.verbose, "v", false, "log editor activity to stderr")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.submitAlerts, "notify-submit", cfg.Notify.Submit, "show a desktop notification after writing a submission")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventSubmit, r.submitAlerts)
	}
	if r.verbose {
		editor.SetLogger(slog.Default())
	}
	return r.dispatch(r.fs.Arg(0), r.fs.Args()[1:])
}

func (r *root) dispatch(cmdName string, subArgs []string) error {
	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "submit":
		cmd, err = parseSubmitCmd(subArgs, r)
	case "mask":
		cmd, err = parseMaskCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) session() editor.Session {
	s := editor.DefaultSession()
	if r.config == nil {
		return s
	}
	s.BrushSize = r.config.Editor.BrushSize
	s.Color = r.config.Editor.BrushColor
	if t, err := editor.ParseTool(r.config.Editor.Tool); err == nil {
		s.Tool = t
	}
	return s
}

func (r *root) maskOptions() mask.Options {
	if r.config == nil {
		return mask.DefaultOptions()
	}
	return mask.Options{Threshold: uint8(r.config.Mask.Threshold), MinPercent: r.config.Mask.MinPercent}
}

func (r *root) overlayOptions() render.OverlayOptions {
	if r.config == nil {
		return render.DefaultOverlayOptions()
	}
	o := r.config.Overlay
	return render.OverlayOptions{Tint: o.Tint, Opacity: o.Opacity, Feather: o.Feather}
}

func (r *root) saveDir() string {
	if r.config != nil && strings.TrimSpace(r.config.SaveDir) != "" {
		return r.config.SaveDir
	}
	return "."
}

func (r *root) imageLoader() *imagesource.Loader {
	opts := []imagesource.Option{imagesource.WithClipboard(clipboard.ReadImageData)}
	if r.config != nil {
		opts = append(opts,
			imagesource.WithMaxDimension(r.config.MaxDimension),
			imagesource.WithOrigin(r.config.Origin),
		)
	}
	return imagesource.NewLoader(opts...)
}

func (r *root) newEditor() *editor.Editor {
	return editor.New(editor.WithSession(r.session()), editor.WithMaskOptions(r.maskOptions()))
}

// openEditor loads ref and returns an editor with it as the base image.
func (r *root) openEditor(ctx context.Context, ref string) (*editor.Editor, error) {
	img, err := r.imageLoader().Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	ed := r.newEditor()
	ed.SetImage(img)
	return ed, nil
}

func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

func (r *root) notifySubmit(detail string, preview image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Submit(detail, preview)
}
