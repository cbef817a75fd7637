package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/export"
	"github.com/example/roomedit/internal/mask"
	"github.com/example/roomedit/internal/script"
)

type replayCmd struct {
	*root
	fs          *flag.FlagSet
	image       string
	script      string
	canvas      string
	flatten     string
	mask        string
	toClipboard bool
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	c := &replayCmd{root: r, fs: fs}
	fs.StringVar(&c.image, "image", "", "image file, http(s) URL or \"clipboard:\"")
	fs.StringVar(&c.script, "script", "", "gesture script to replay (- for stdin)")
	fs.StringVar(&c.canvas, "canvas", "", "write the drawing layer to this file")
	fs.StringVar(&c.flatten, "flatten", "", "write the marks composited over the image to this file")
	fs.StringVar(&c.mask, "mask", "", "write the rasterised mask to this file")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the flattened image to the clipboard")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.image == "" || c.script == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	ed, err := c.root.openEditor(context.Background(), c.image)
	if err != nil {
		return err
	}
	if err := runScript(ed, c.script, c.root.stdin); err != nil {
		return err
	}
	out := c.root.out()
	fmt.Fprintf(out, "marks: %d\n", ed.Marks().Len())
	if c.canvas != "" {
		img, err := ed.Canvas()
		if err != nil {
			return err
		}
		if err := export.WriteImage(c.canvas, img); err != nil {
			return err
		}
		fmt.Fprintf(out, "canvas: %s\n", c.canvas)
		c.root.notifySave(c.canvas)
	}
	if c.flatten != "" || c.toClipboard {
		img, err := ed.Flatten()
		if err != nil {
			return err
		}
		if c.flatten != "" {
			if err := export.WriteImage(c.flatten, img); err != nil {
				return err
			}
			fmt.Fprintf(out, "flattened: %s\n", c.flatten)
			c.root.notifySave(c.flatten)
		}
		if c.toClipboard {
			if err := writeClipboardFn(img); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(out, "copied to clipboard")
			c.root.notifyCopy("flattened image")
		}
	}
	if c.mask != "" {
		canvas, err := ed.Canvas()
		if err != nil {
			return err
		}
		m, st := mask.Rasterize(canvas, ed.MaskOptions())
		if err := export.WriteImage(c.mask, mask.ToNRGBA(m)); err != nil {
			return err
		}
		fmt.Fprintf(out, "mask: %s (%.1f%% masked)\n", c.mask, st.Percent())
		c.root.notifySave(c.mask)
	}
	return nil
}

// runScript plays the script at path, or stdin for "-", against ed.
func runScript(ed *editor.Editor, path string, stdin io.Reader) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	if r == nil {
		r = os.Stdin
	}
	if err := script.Run(ed, r); err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	return nil
}
