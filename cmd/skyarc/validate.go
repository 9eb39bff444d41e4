package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/skyarc-format/skyarc/model"
	"github.com/skyarc-format/skyarc/validate"
)

func validateCmd(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: validate requires at least one file", cli.ErrUsage)
	}
	reg, err := cfg.registry()
	if err != nil {
		return err
	}
	pal := cfg.palette(cc.Out)
	bad := 0
	for _, file := range args {
		m, err := model.Open(reg, file)
		if err != nil {
			fmt.Fprintf(cc.Out, "%s: %s\n", file, pal.bad(err.Error()))
			bad++
			continue
		}
		err = m.Validate()
		m.Close()
		if err == nil {
			fmt.Fprintf(cc.Out, "%s: ok\n", file)
			continue
		}
		bad++
		issues, ok := validate.AsIssues(err)
		if !ok {
			fmt.Fprintf(cc.Out, "%s: %s\n", file, pal.bad(err.Error()))
			continue
		}
		fmt.Fprintf(cc.Out, "%s: %s\n", file, pal.bad(fmt.Sprintf("%d finding(s)", len(issues))))
		for _, is := range issues {
			fmt.Fprintf(cc.Out, "  %s: %s (%s)\n", pal.path(is.Path), is.Message, is.Code)
		}
	}
	if bad > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
