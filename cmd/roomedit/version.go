package main

import (
	"flag"
	"fmt"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Program() string { return v.r.program }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	out := v.r.out()
	fmt.Fprintf(out, "%s version %s\n", v.r.program, version)
	if commit != "" {
		fmt.Fprintf(out, "commit: %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(out, "built: %s\n", date)
	}
	return nil
}
