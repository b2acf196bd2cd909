package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/scott-cotton/cli"

	"github.com/scieloorg/isis-format/go-isis/iso"
	"github.com/scieloorg/isis-format/go-isis/jsonl"
	"github.com/scieloorg/isis-format/go-isis/mst"
)

func mst2jsonl(cfg *Mst2JsonlConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: mst2jsonl takes one master file, got %d args", cli.ErrUsage, len(args))
	}
	cs, err := cfg.mstCharset()
	if err != nil {
		return err
	}
	mopts := []mst.Option{mst.IncludeDeleted(cfg.Deleted)}
	if cfg.Swap {
		mopts = append(mopts, mst.BigEndian())
	}
	f, err := mst.Open(args[0], cs, mopts...)
	if err != nil {
		return err
	}
	defer f.Close()

	out, jopts, err := cfg.jsonlOut(cc)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := jsonl.NewEncoder(out, jopts...)
	dec := f.Decoder()
	n := 0
	for {
		rec, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return pipeErr(err)
		}
		n++
	}
	theLog.Debug("converted", "records", n, "from", args[0])
	return nil
}

func iso2jsonl(cfg *Iso2JsonlConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	cs, err := cfg.isoCharset()
	if err != nil {
		return err
	}
	iopts, err := cfg.isoOpts()
	if err != nil {
		return err
	}
	out, jopts, err := cfg.jsonlOut(cc)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := jsonl.NewEncoder(out, jopts...)
	return eachInput(cc, args, func(r io.Reader, name string) error {
		dec := iso.NewDecoder(r, cs, iopts...)
		for {
			rec, err := dec.Decode()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := enc.Encode(rec); err != nil {
				return pipeErr(err)
			}
		}
	})
}

func jsonl2iso(cfg *Jsonl2IsoConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	cs, err := cfg.isoCharset()
	if err != nil {
		return err
	}
	iopts, err := cfg.isoOpts()
	if err != nil {
		return err
	}
	enc := iso.NewEncoder(cc.Out, cs, iopts...)
	return eachInput(cc, args, func(r io.Reader, name string) error {
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
			if err := enc.Encode(rec); err != nil {
				return pipeErr(err)
			}
		}
	})
}

// eachInput runs fn over every input file, or over stdin when no file
// was named; "-" also means stdin.
func eachInput(cc *cli.Context, args []string, fn func(r io.Reader, name string) error) error {
	if len(args) == 0 {
		return fn(cc.In, "-")
	}
	for _, path := range args {
		if path == "-" {
			if err := fn(cc.In, path); err != nil {
				return err
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", path, err)
		}
		err = fn(f, path)
		f.Close()
		if err != nil {
			return fmt.Errorf("error processing %s: %w", path, err)
		}
	}
	return nil
}

// pipeErr turns a broken pipe into a clean stop, so piping into head
// does not report a failure.
func pipeErr(err error) error {
	if errors.Is(err, syscall.EPIPE) {
		return nil
	}
	return err
}
