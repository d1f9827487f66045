package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/patch"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: validate requires at least one mod path", cli.ErrUsage)
	}
	p := cfg.printer(cc.Out)
	broken := 0
	for _, path := range args {
		m, err := patch.OpenMod(path)
		if err != nil {
			return err
		}
		errs := patch.Validate(m)
		m.Close()
		if len(errs) == 0 {
			fmt.Fprintf(cc.Out, "%s: ok\n", m.Title())
			continue
		}
		broken += len(errs)
		for _, e := range errs {
			printErr(p, e)
		}
	}
	if broken > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
