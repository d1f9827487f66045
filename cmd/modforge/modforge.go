package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/diag"
	"github.com/modforge/modforge/patch"
)

func mfMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// openMods opens each path as a mod source, in order. The returned
// closer releases every mod that was opened, even on partial failure.
func openMods(paths []string) ([]*patch.Mod, func(), error) {
	mods := make([]*patch.Mod, 0, len(paths))
	closeAll := func() {
		for _, m := range mods {
			m.Close()
		}
	}
	for _, path := range paths {
		m, err := patch.OpenMod(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("error opening mod %s: %w", path, err)
		}
		mods = append(mods, m)
	}
	return mods, closeAll, nil
}

// printErr routes an error through the diagnostic printer, pulling the
// mod and file context out of patch errors so it is not repeated in the
// message body.
func printErr(p *diag.Printer, err error) {
	var perr *patch.Error
	if errors.As(err, &perr) {
		p.Print(perr.Mod+":"+perr.File, perr.Err)
		return
	}
	p.Print("", err)
}
