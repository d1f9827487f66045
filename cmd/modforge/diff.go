package main

import (
	"context"
	"fmt"
	"os"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/patch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: diff requires a base directory", cli.ErrUsage)
	}
	baseDir := args[0]
	paths, err := resolveMods(cfg.Mods, args[1:])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: diff requires at least one mod, via arguments or -m", cli.ErrUsage)
	}

	bases, err := loadBases(baseDir)
	if err != nil {
		return err
	}
	mods, closeAll, err := openMods(paths)
	if err != nil {
		return err
	}
	defer closeAll()

	results, err := patch.Apply(context.Background(), bases, mods, cfg.patchOpts())
	if err != nil {
		printErr(cfg.printer(os.Stderr), err)
		return cli.ExitCodeErr(1)
	}

	dmp := diffpatch.New()
	changed := 0
	for _, path := range sortedPaths(bases) {
		before, after := string(bases[path]), string(results[path])
		if before == after {
			continue
		}
		changed++
		diffs := dmp.DiffMain(before, after, true)
		if cfg.Semantic {
			diffs = dmp.DiffCleanupSemantic(diffs)
		}
		fmt.Fprintf(cc.Out, "--- %s\n", path)
		if err := writeDiffs(cfg, cc, diffs); err != nil {
			return err
		}
	}
	if changed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func writeDiffs(cfg *DiffConfig, cc *cli.Context, diffs []diffpatch.Diff) error {
	if useColor(cfg.MainConfig, cc) {
		dmp := diffpatch.New()
		_, err := fmt.Fprintln(cc.Out, dmp.DiffPrettyText(diffs))
		return err
	}
	for _, d := range diffs {
		var err error
		switch d.Type {
		case diffpatch.DiffInsert:
			_, err = fmt.Fprintf(cc.Out, "{+%s+}", d.Text)
		case diffpatch.DiffDelete:
			_, err = fmt.Fprintf(cc.Out, "[-%s-]", d.Text)
		case diffpatch.DiffEqual:
			_, err = fmt.Fprint(cc.Out, d.Text)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(cc.Out)
	return err
}
