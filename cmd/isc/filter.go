package main

import (
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"

	"github.com/scieloorg/isis-format/go-isis/jsonl"
)

// filter evaluates an expr expression against each record's map view
// (tag -> occurrences, plus mfn and active) and keeps the matches.
func filter(cfg *FilterConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: filter requires an expression", cli.ErrUsage)
	}
	prog, err := expr.Compile(args[0], expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return fmt.Errorf("%w: bad expression: %w", cli.ErrUsage, err)
	}
	out, jopts, err := cfg.jsonlOut(cc)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := jsonl.NewEncoder(out, jopts...)
	return eachInput(cc, args[1:], func(r io.Reader, name string) error {
		jr, dopts, err := cfg.jsonlIn(r)
		if err != nil {
			return err
		}
		dec := jsonl.NewDecoder(jr, dopts...)
		for {
			rec, err := dec.Decode()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			out, err := expr.Run(prog, rec.Map())
			if err != nil {
				return fmt.Errorf("expression failed on mfn %d: %w", rec.MFN, err)
			}
			keep, _ := out.(bool)
			if keep != cfg.Invert {
				if err := enc.Encode(rec); err != nil {
					return pipeErr(err)
				}
			}
		}
	})
}
