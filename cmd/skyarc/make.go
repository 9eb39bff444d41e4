package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/skyarc-format/skyarc/maker"
	"github.com/skyarc-format/skyarc/model"
)

func mk(cfg *MakeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Make.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: make requires exactly one type name, got %v", cli.ErrUsage, args)
	}
	typeName := args[0]
	reg, err := cfg.registry()
	if err != nil {
		return err
	}
	var opts []model.MakeOption
	if cfg.Fake {
		opts = append(opts, model.WithFake(int64(cfg.Seed)))
	}
	if cfg.Shape != "" {
		shape, err := parseShape(cfg.Shape)
		if err != nil {
			return fmt.Errorf("%w: %v", cli.ErrUsage, err)
		}
		opts = append(opts, model.WithShape(shape...))
	}
	m, err := model.MakeDefault(reg, typeName, cfg.sets, opts...)
	if err != nil {
		return err
	}
	out := cfg.Out
	if out == "" {
		out = strings.ToLower(typeName) + ".skyarc"
	}
	if err := m.Save(out); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "wrote %s (%s)\n", out, m.Tag())
	return nil
}

// setOpt accumulates -set dotted.path=value overrides; the value side is
// parsed as a YAML scalar and each flag stacks onto the previous ones as
// its own override layer.
func (cfg *MakeConfig) setOpt(cc *cli.Context, a string) (any, error) {
	eq := strings.IndexByte(a, '=')
	if eq <= 0 {
		return nil, fmt.Errorf("%w: -set wants path=value, got %q", cli.ErrUsage, a)
	}
	var v any
	if err := yaml.Unmarshal([]byte(a[eq+1:]), &v); err != nil {
		return nil, fmt.Errorf("%w: bad -set value %q: %v", cli.ErrUsage, a[eq+1:], err)
	}
	layer := v
	path := strings.Split(a[:eq], ".")
	for i := len(path) - 1; i > 0; i-- {
		layer = map[string]any{path[i]: layer}
	}
	merged, err := maker.MergeOverrides(cfg.sets, map[string]any{path[0]: layer})
	if err != nil {
		return nil, fmt.Errorf("%w: -set %q: %v", cli.ErrUsage, a, err)
	}
	cfg.sets = merged
	return v, nil
}

func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	res := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad shape %q", s)
		}
		res = append(res, n)
	}
	return res, nil
}
