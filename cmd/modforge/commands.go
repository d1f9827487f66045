package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "modforge").
		WithSynopsis("modforge [opts] command [opts]").
		WithDescription("modforge applies mods to a directory of XML documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mfMain(cfg, cc, args)
		}).
		WithSubs(
			ApplyCommand(cfg),
			ValidateCommand(cfg),
			ListCommand(cfg),
			DiffCommand(cfg))
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Apply, "apply").
		WithAliases("a", "ap").
		WithSynopsis("apply [opts] <basedir> [modpath...]").
		WithDescription("apply mods, in order, to the documents under basedir").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v", "val").
		WithSynopsis("validate <modpath> [modpath...]").
		WithDescription("check that a mod's patch files parse and its scripts compile").
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func ListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ListConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l", "ls").
		WithSynopsis("list [opts] [modpath...]").
		WithDescription("list mods with their manifest metadata and patch file counts").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [opts] <basedir> [modpath...]").
		WithDescription("show what applying the mods would change, without writing").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}
