package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/modforge/modforge/diag"
	"github.com/modforge/modforge/patch"
)

type MainConfig struct {
	Wrap  string `cli:"name=wrap desc='synthetic wrapper tag stripped and restored around base documents, e.g. FTL'"`
	Jobs  int    `cli:"name=jobs desc='max documents patched in parallel'"`
	Color bool   `cli:"name=color desc='force colored diagnostics'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) patchOpts() patch.Options {
	return patch.Options{WrapperTag: cfg.Wrap, Workers: cfg.Jobs}
}

func (cfg *MainConfig) printer(w io.Writer) *diag.Printer {
	if cfg.Color {
		return diag.NewWithColors(w, diag.NewColors())
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return diag.NewWithColors(w, diag.NewColors())
	}
	return diag.NewWithColors(w, diag.NoColors())
}

func useColor(cfg *MainConfig, cc *cli.Context) bool {
	if cfg.Color {
		return true
	}
	f, ok := cc.Out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type ApplyConfig struct {
	*MainConfig

	Mods string `cli:"name=m aliases=mods desc='modlist file selecting and ordering mods'"`
	Dest string `cli:"name=d aliases=dest desc='output directory (default: patch in place)'"`

	Apply *cli.Command
}

type ValidateConfig struct {
	*MainConfig

	Validate *cli.Command
}

type ListConfig struct {
	*MainConfig

	Mods string `cli:"name=m aliases=mods desc='modlist file selecting and ordering mods'"`

	List *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Mods     string `cli:"name=m aliases=mods desc='modlist file selecting and ordering mods'"`
	Semantic bool   `cli:"name=s desc='semantic cleanup of the diffs'"`

	Diff *cli.Command
}
