package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/skyarc-format/skyarc/model"
	"github.com/skyarc-format/skyarc/registry"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	reg, err := cfg.registry()
	if err != nil {
		return err
	}
	a, err := flatFile(cfg, reg, args[0])
	if err != nil {
		return err
	}
	b, err := flatFile(cfg, reg, args[1])
	if err != nil {
		return err
	}

	pal := cfg.palette(cc.Out)
	paths := map[string]bool{}
	for p := range a {
		paths[p] = true
	}
	for p := range b {
		paths[p] = true
	}
	ordered := make([]string, 0, len(paths))
	for p := range paths {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	differs := false
	for _, p := range ordered {
		av, inA := a[p]
		bv, inB := b[p]
		switch {
		case !inB:
			differs = true
			fmt.Fprintf(cc.Out, "%s %s = %s\n", pal.del("-"), pal.path(p), av)
		case !inA:
			differs = true
			fmt.Fprintf(cc.Out, "%s %s = %s\n", pal.add("+"), pal.path(p), bv)
		case av != bv:
			differs = true
			printChange(cc, pal, p, av, bv)
		}
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// flatFile opens a container and renders its flattened terminals to
// comparable strings.
func flatFile(cfg *DiffConfig, reg *registry.Registry, file string) (map[string]string, error) {
	m, err := model.Open(reg, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	defer m.Close()
	items, err := m.FlatItems(cfg.Lists)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	res := make(map[string]string, len(items))
	for _, it := range items {
		res[it.Path] = renderValue(it.Value)
	}
	return res, nil
}

// printChange shows an in-place edit; long string values get a character
// diff instead of two full lines.
func printChange(cc *cli.Context, pal *palette, path, av, bv string) {
	if len(av) > 40 && len(bv) > 40 {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(av, bv, false)
		var b strings.Builder
		for _, d := range diffs {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				b.WriteString(pal.del(d.Text))
			case diffmatchpatch.DiffInsert:
				b.WriteString(pal.add(d.Text))
			default:
				b.WriteString(d.Text)
			}
		}
		fmt.Fprintf(cc.Out, "~ %s = %s\n", pal.path(path), b.String())
		return
	}
	fmt.Fprintf(cc.Out, "%s %s = %s\n", pal.del("-"), pal.path(path), av)
	fmt.Fprintf(cc.Out, "%s %s = %s\n", pal.add("+"), pal.path(path), bv)
}
