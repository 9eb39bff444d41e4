package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "skyarc").
		WithSynopsis("skyarc [opts] command [opts]").
		WithDescription("skyarc is a tool for working with typed data-model containers.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			cfg.Main.Usage(cc, nil)
			return cli.ExitCodeErr(1)
		}).
		WithSubs(
			InfoCommand(cfg),
			MakeCommand(cfg),
			ValidateCommand(cfg),
			DiffCommand(cfg))
}

func InfoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InfoConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("info").
		WithAliases("i").
		WithSynopsis("info [-f [-l]] <files>").
		WithDescription("show the tag and contents of container files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return info(cfg, cc, args)
		})
	cfg.Info = cmd
	return cmd
}

func MakeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MakeConfig{MainConfig: mainCfg, sets: map[string]any{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "set",
		Description: "override a field, as dotted.path=value",
		Type:        cli.NamedFuncOpt(cfg.setOpt, "(path=value)"),
	})
	cmd := cli.NewCommand("make").
		WithAliases("m", "mk").
		WithSynopsis("make [opts] <type>").
		WithDescription("synthesize a minimal valid model and write it to a container").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mk(cfg, cc, args)
		})
	cfg.Make = cmd
	return cmd
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("validate").
		WithAliases("v", "val").
		WithSynopsis("validate <files>").
		WithDescription("validate container files against their schemas").
		WithRun(func(cc *cli.Context, args []string) error {
			return validateCmd(cfg, cc, args)
		})
	cfg.Validate = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithOpts(opts...).
		WithSynopsis("diff a b").
		WithDescription("diff two container files field by field").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
