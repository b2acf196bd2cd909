package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diff compares two record files line by line and exits nonzero when
// they differ.
func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(a), string(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
		return nil
	}

	color := cfg.Color
	if f, ok := cc.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		color = true
	}
	if color {
		fmt.Fprint(cc.Out, dmp.DiffPrettyText(diffs))
	} else {
		for _, d := range diffs {
			prefix := " "
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				prefix = "-"
			case diffmatchpatch.DiffInsert:
				prefix = "+"
			}
			for _, line := range splitKeepNonEmpty(d.Text) {
				fmt.Fprintf(cc.Out, "%s %s\n", prefix, line)
			}
		}
	}
	return cli.ExitCodeErr(1)
}

func splitKeepNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
