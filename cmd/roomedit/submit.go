package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/example/roomedit/internal/editor"
	"github.com/example/roomedit/internal/export"
)

type submitCmd struct {
	*root
	fs     *flag.FlagSet
	image  string
	script string
	prompt string
	outDir string
	pdf    string
}

func (s *submitCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSubmitCmd(args []string, r *root) (*submitCmd, error) {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	s := &submitCmd{root: r, fs: fs}
	fs.StringVar(&s.image, "image", "", "image file, http(s) URL or \"clipboard:\"")
	fs.StringVar(&s.script, "script", "", "gesture script drawn before submitting (- for stdin)")
	fs.StringVar(&s.prompt, "prompt", "", "edit instruction")
	fs.StringVar(&s.outDir, "out", r.saveDir(), "directory the submission folder is created in")
	fs.StringVar(&s.pdf, "pdf", "", "also write a proof sheet PDF to this file")
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.image == "" {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *submitCmd) Run() error {
	ed, err := s.root.openEditor(context.Background(), s.image)
	if err != nil {
		return err
	}
	if s.script != "" {
		if err := runScript(ed, s.script, s.root.stdin); err != nil {
			return err
		}
	}
	sub, err := ed.Submit(s.prompt)
	if err != nil {
		return err
	}
	dir := filepath.Join(s.outDir, sub.ID)
	paths, err := export.WriteBundle(dir, sub, ed.Image().Pixels)
	if err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	flat := ed.Image().Pixels
	if s.pdf != "" {
		flat, err = ed.Flatten()
		if err != nil {
			return err
		}
		if err := writePDF(s.pdf, sub, flat); err != nil {
			return err
		}
		paths = append(paths, s.pdf)
	}
	out := s.root.out()
	fmt.Fprintf(out, "id: %s\n", sub.ID)
	fmt.Fprintf(out, "workflow: %s\n", sub.Workflow)
	fmt.Fprintf(out, "masked: %.1f%%\n", sub.Stats.Percent())
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	s.root.notifySubmit(sub.ID, flat)
	return nil
}

func writePDF(path string, sub *editor.Submission, flattened image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WritePDF(f, sub, flattened); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
