package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/patch"
)

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	paths, err := resolveMods(cfg.Mods, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: list requires mod paths, via arguments or -m", cli.ErrUsage)
	}

	tw := tabwriter.NewWriter(cc.Out, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tVERSION\tFILES\tPATH")
	for _, path := range paths {
		m, err := patch.OpenMod(path)
		if err != nil {
			return err
		}
		files, err := patch.Files(m)
		m.Close()
		if err != nil {
			return err
		}
		version := ""
		if m.Meta != nil {
			version = m.Meta.Version
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.Title(), version, len(files), path)
	}
	return tw.Flush()
}
