package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/skyarc-format/skyarc"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='force colored output'"`
	Schemas string `cli:"name=schemas desc='schema search path, defaults to $SKYARC_SCHEMA_PATH'"`

	Main *cli.Command

	reg *registry.Registry
}

// registry builds the registry once per invocation, from -schemas when
// given and from the environment search path otherwise.
func (cfg *MainConfig) registry() (*registry.Registry, error) {
	if cfg.reg != nil {
		return cfg.reg, nil
	}
	if cfg.Schemas == "" {
		r, err := skyarc.Default()
		if err != nil {
			return nil, err
		}
		cfg.reg = r
		return r, nil
	}
	r, err := skyarc.NewRegistry(schema.NewLibrary())
	if err != nil {
		return nil, err
	}
	for _, dir := range filepath.SplitList(cfg.Schemas) {
		if err := skyarc.LoadDir(r, dir); err != nil {
			return nil, err
		}
	}
	if err := skyarc.RegisterManifestTypes(r); err != nil {
		return nil, err
	}
	cfg.reg = r
	return r, nil
}

// palette is the per-writer color set; all funcs degrade to plain
// formatting when color is off.
type palette struct {
	tag  func(a ...any) string
	path func(a ...any) string
	add  func(a ...any) string
	del  func(a ...any) string
	bad  func(a ...any) string
}

func (cfg *MainConfig) palette(w io.Writer) *palette {
	on := cfg.Color
	if !on {
		if f, ok := w.(*os.File); ok {
			on = isatty.IsTerminal(f.Fd())
		}
	}
	mk := func(c *color.Color) func(a ...any) string {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &palette{
		tag:  mk(color.New(color.FgCyan)),
		path: mk(color.New(color.FgYellow)),
		add:  mk(color.New(color.FgGreen)),
		del:  mk(color.New(color.FgRed)),
		bad:  mk(color.New(color.FgRed, color.Bold)),
	}
}

type InfoConfig struct {
	*MainConfig
	Flat  bool `cli:"name=f desc='print every terminal value with its dotted path'"`
	Lists bool `cli:"name=l desc='with -f, flatten list indices into paths'"`

	Info *cli.Command
}

type MakeConfig struct {
	*MainConfig
	Out   string `cli:"name=o desc='output file, defaults to <type>.skyarc'"`
	Fake  bool   `cli:"name=fake desc='fill with seeded random values instead of sentinels'"`
	Seed  int    `cli:"name=seed desc='random seed for -fake'"`
	Shape string `cli:"name=shape desc='array shape as comma-separated dims'"`

	sets map[string]any

	Make *cli.Command
}

type ValidateConfig struct {
	*MainConfig

	Validate *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Lists bool `cli:"name=l desc='flatten list indices when comparing'"`

	Diff *cli.Command
}
