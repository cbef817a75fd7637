package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/roomedit/internal/export"
	"github.com/example/roomedit/internal/imagesource"
	"github.com/example/roomedit/internal/mask"
)

const maxLayerDimension = 1 << 14

type maskCmd struct {
	*root
	fs         *flag.FlagSet
	file       string
	output     string
	threshold  int
	minPercent float64
}

func (m *maskCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	fs := flag.NewFlagSet("mask", flag.ContinueOnError)
	opts := r.maskOptions()
	m := &maskCmd{root: r, fs: fs}
	fs.StringVar(&m.file, "file", "", "drawing layer image to rasterise")
	fs.StringVar(&m.output, "output", "", "write the mask to this file")
	fs.IntVar(&m.threshold, "threshold", int(opts.Threshold), "channel value below which a pixel counts as drawn")
	fs.Float64Var(&m.minPercent, "min-percent", opts.MinPercent, "percentage of drawn pixels required for inpainting")
	fs.Usage = usageFunc(m)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if m.file == "" && fs.NArg() > 0 {
		m.file = fs.Arg(0)
	}
	if m.file == "" {
		return nil, &UsageError{of: m}
	}
	if m.threshold < 0 || m.threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 0-255", m.threshold)
	}
	return m, nil
}

func (m *maskCmd) Run() error {
	// Resampling would soften stroke edges, so the layer keeps its own size.
	loader := imagesource.NewLoader(imagesource.WithMaxDimension(maxLayerDimension))
	img, err := loader.Load(context.Background(), m.file)
	if err != nil {
		return fmt.Errorf("load %s: %w", m.file, err)
	}
	opts := mask.Options{Threshold: uint8(m.threshold), MinPercent: m.minPercent}
	g, st := mask.Rasterize(img.Pixels, opts)
	out := m.root.out()
	fmt.Fprintf(out, "masked: %d/%d (%.1f%%)\n", st.Masked, st.Total, st.Percent())
	fmt.Fprintf(out, "workflow: %s\n", mask.Decide(true, st, opts))
	if m.output != "" {
		if err := export.WriteImage(m.output, mask.ToNRGBA(g)); err != nil {
			return err
		}
		fmt.Fprintf(out, "mask: %s\n", m.output)
		m.root.notifySave(m.output)
	}
	return nil
}
