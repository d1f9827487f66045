package main

import (
	"context"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/patch"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: apply requires a base directory", cli.ErrUsage)
	}
	baseDir := args[0]
	paths, err := resolveMods(cfg.Mods, args[1:])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: apply requires at least one mod, via arguments or -m", cli.ErrUsage)
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

	dest := cfg.Dest
	if dest == "" {
		dest = baseDir
	}
	if err := writeResults(dest, results); err != nil {
		return err
	}
	theLog.Info("patched", "documents", len(results), "mods", len(mods), "dest", dest)
	return nil
}
