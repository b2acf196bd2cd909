package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

// patch applies an RFC 7386 merge patch to every record line. Merge
// patching goes through a generic JSON document, so key order within a
// line is not preserved.
func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: patch requires a merge patch argument", cli.ErrUsage)
	}
	patchData := []byte(args[0])
	if cfg.File {
		patchData, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("could not read patch %q: %w", args[0], err)
		}
	}
	return eachInput(cc, args[1:], func(r io.Reader, name string) error {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			last := err == io.EOF
			if err != nil && !last {
				return err
			}
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				patched, err := jsonpatch.MergePatch(trimmed, patchData)
				if err != nil {
					return fmt.Errorf("merge patch failed: %w", err)
				}
				if _, err := cc.Out.Write(append(patched, '\n')); err != nil {
					return pipeErr(err)
				}
			}
			if last {
				return nil
			}
		}
	})
}
