package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/export"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/script"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type interactiveCmd struct {
	r      *root
	fs     *flag.FlagSet
	execs  commandList
	image  string
	outDir string
	ed     *editor.Editor
}

func (i *interactiveCmd) Program() string {
	return i.r.Program()
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{r: r, fs: fs}
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	fs.StringVar(&i.image, "image", "", "image to open before reading commands")
	fs.StringVar(&i.outDir, "out", r.saveDir(), "directory submissions are written to")
	fs.Usage = usageFunc(i)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	if i.image != "" {
		if err := i.open(i.image); err != nil {
			return err
		}
	}
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	out := i.r.out()
	fmt.Fprintln(out, "Enter commands (type 'exit' to quit)")
	in := i.r.stdin
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.r.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

var errNoEditor = errors.New("no image open; use: open <image>")

// executeLine runs one command. done reports that the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}
	out := i.r.out()
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(out, interactiveHelp)
		return false, nil
	case "open":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: open <image>")
		}
		return false, i.open(args[1])
	case "replay", "submit", "mask", "config", "version":
		return false, i.r.dispatch(args[0], args[1:])
	case "interactive":
		return false, fmt.Errorf("already in interactive mode")
	}
	if i.ed == nil {
		return false, errNoEditor
	}
	switch args[0] {
	case "status":
		i.status(out)
	case "submit":
		return false, i.submit(strings.Join(args[1:], " "))
	case "save", "flatten", "mask":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: %s <file>", args[0])
		}
		return false, i.write(args[0], args[1])
	case "copy":
		img, err := i.ed.Flatten()
		if err != nil {
			return false, err
		}
		if err := writeClipboardFn(img); err != nil {
			return false, fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, "copied to clipboard")
		i.r.notifyCopy("flattened image")
	default:
		steps, err := script.Parse(strings.NewReader(line))
		if err != nil {
			return false, err
		}
		return false, script.Play(i.ed, steps)
	}
	return false, nil
}

const interactiveHelp = `commands:
  open <image>         load an image and start a new session
  status               show tool, zoom and mark counts
  submit <prompt>      write a submission bundle
  save <file>          write the drawing layer
  flatten <file>       write the marks over the image
  mask <file>          write the rasterised mask
  copy                 copy the flattened image to the clipboard
  replay|submit|mask|config|version [args]
                       run a command as from the shell
  exit                 leave the shell
any gesture script directive (tool, down, move, up, undo, zoom, ...) is
applied to the open image`

func (i *interactiveCmd) open(ref string) error {
	ed, err := i.r.openEditor(context.Background(), ref)
	if err != nil {
		return err
	}
	i.ed = ed
	sz := ed.Image().Size()
	fmt.Fprintf(i.r.out(), "opened %s (%dx%d)\n", ref, sz.X, sz.Y)
	return nil
}

func (i *interactiveCmd) status(w io.Writer) {
	s := i.ed.Session()
	m := i.ed.Marks()
	fmt.Fprintf(w, "image: %s\n", i.ed.Image().Ref)
	fmt.Fprintf(w, "tool: %s size: %g color: %s straight: %t\n", s.Tool, s.BrushSize, s.Color, s.Straight)
	fmt.Fprintf(w, "zoom: %g\n", i.ed.Viewport().Zoom)
	fmt.Fprintf(w, "marks: %d brush, %d path, %d line\n", len(m.BrushStrokes), len(m.PenPaths), len(m.LineStrokes))
	h := i.ed.History()
	fmt.Fprintf(w, "history: %d/%d\n", h.Index()+1, h.Len())
}

func (i *interactiveCmd) submit(prompt string) error {
	sub, err := i.ed.Submit(prompt)
	if err != nil {
		return err
	}
	paths, err := export.WriteBundle(filepath.Join(i.outDir, sub.ID), sub, i.ed.Image().Pixels)
	if err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	out := i.r.out()
	fmt.Fprintf(out, "submitted %s (%s, %.1f%% masked)\n", sub.ID, sub.Workflow, sub.Stats.Percent())
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	i.r.notifySubmit(sub.ID, i.ed.Image().Pixels)
	return nil
}

func (i *interactiveCmd) write(kind, path string) error {
	var img image.Image
	switch kind {
	case "save":
		c, err := i.ed.Canvas()
		if err != nil {
			return err
		}
		img = c
	case "flatten":
		f, err := i.ed.Flatten()
		if err != nil {
			return err
		}
		img = f
	case "mask":
		c, err := i.ed.Canvas()
		if err != nil {
			return err
		}
		m, _ := mask.Rasterize(c, i.ed.MaskOptions())
		img = mask.ToNRGBA(m)
	}
	if err := export.WriteImage(path, img); err != nil {
		return err
	}
	fmt.Fprintf(i.r.out(), "wrote %s\n", path)
	i.r.notifySave(path)
	return nil
}

// splitArgs splits on whitespace, keeping single or double quoted runs
// together.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
