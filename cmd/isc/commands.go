package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := newMainConfig()
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "isc").
		WithSynopsis("isc [opts] command [opts]").
		WithDescription("isc converts ISIS bibliographic data between mst, iso and jsonl.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return iscMain(cfg, cc, args)
		}).
		WithSubs(
			Mst2JsonlCommand(cfg),
			Iso2JsonlCommand(cfg),
			Jsonl2IsoCommand(cfg),
			FilterCommand(cfg),
			PatchCommand(cfg),
			DiffCommand(cfg))
}

func iscMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
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

func Mst2JsonlCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &Mst2JsonlConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "mst2jsonl").
		WithAliases("m2j").
		WithSynopsis("mst2jsonl [opts] <file.mst>").
		WithDescription("read a master file and write its records as jsonl").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mst2jsonl(cfg, cc, args)
		})
}

func Iso2JsonlCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &Iso2JsonlConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "iso2jsonl").
		WithAliases("i2j").
		WithSynopsis("iso2jsonl [opts] [files]").
		WithDescription("read iso2709 records and write them as jsonl").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return iso2jsonl(cfg, cc, args)
		})
}

func Jsonl2IsoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &Jsonl2IsoConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "jsonl2iso").
		WithAliases("j2i").
		WithSynopsis("jsonl2iso [opts] [files]").
		WithDescription("read jsonl records and write them as iso2709").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jsonl2iso(cfg, cc, args)
		})
}

func FilterCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FilterConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "filter").
		WithAliases("f").
		WithSynopsis("filter [opts] <expression> [files]").
		WithDescription("keep the jsonl records matching an expression over tags, mfn and active").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return filter(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "patch").
		WithAliases("p").
		WithSynopsis("patch [opts] <mergepatch> [files]").
		WithDescription("apply an RFC 7386 merge patch to every jsonl record").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Cmd, "diff").
		WithAliases("d").
		WithSynopsis("diff <file1> <file2>").
		WithDescription("compare two jsonl files line by line").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}
