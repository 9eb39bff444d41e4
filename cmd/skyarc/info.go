package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/skyarc-format/skyarc/model"
)

func info(cfg *InfoConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Info.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: info requires at least one file", cli.ErrUsage)
	}
	reg, err := cfg.registry()
	if err != nil {
		return err
	}
	pal := cfg.palette(cc.Out)
	for i, file := range args {
		if i > 0 {
			fmt.Fprintln(cc.Out)
		}
		m, err := model.Open(reg, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		err = infoModel(cfg, cc.Out, pal, file, m)
		m.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

func infoModel(cfg *InfoConfig, w io.Writer, pal *palette, file string, m *model.Model) error {
	fmt.Fprintf(w, "%s  %s\n", file, pal.tag(m.Tag()))
	if !cfg.Flat {
		fmt.Fprintf(w, "  fields: %s\n", strings.Join(m.Object().Keys(), ", "))
		return nil
	}
	items, err := m.FlatItems(cfg.Lists)
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Fprintf(w, "  %s = %s\n", pal.path(it.Path), renderValue(it.Value))
	}
	return nil
}
