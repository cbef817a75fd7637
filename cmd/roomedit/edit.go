package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/example/roomedit/internal/appstate"
	"github.com/example/roomedit/internal/editor"
)

type editCmd struct {
	*root
	fs     *flag.FlagSet
	image  string
	output string
	prompt string
	outDir string
	width  int
	height int
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.StringVar(&e.image, "image", "", "image file, http(s) URL or \"clipboard:\" to edit")
	fs.StringVar(&e.output, "output", "mask.png", "file written by the save shortcut")
	fs.StringVar(&e.prompt, "prompt", "", "initial edit prompt")
	fs.StringVar(&e.outDir, "out", r.saveDir(), "directory submissions are written to")
	fs.IntVar(&e.width, "width", 1024, "window width")
	fs.IntVar(&e.height, "height", 800, "window height")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.image == "" && fs.NArg() > 0 {
		e.image = fs.Arg(0)
	}
	return e, nil
}

func (e *editCmd) Run() error {
	st := appstate.New(
		appstate.WithEditor(e.root.newEditor()),
		appstate.WithLoader(e.root.imageLoader()),
		appstate.WithImageRef(strings.TrimSpace(e.image)),
		appstate.WithOutput(e.output),
		appstate.WithSaveDir(e.outDir),
		appstate.WithPrompt(e.prompt),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithOverlay(e.root.overlayOptions()),
		appstate.WithWindowSize(e.width, e.height),
		appstate.WithOnSubmit(func(sub *editor.Submission, paths []string) {
			fmt.Fprintf(e.root.out(), "%s %s %s\n", sub.ID, sub.Workflow, strings.Join(paths, " "))
		}),
	)
	st.Run()
	return nil
}
