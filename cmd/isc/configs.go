package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/scieloorg/isis-format/go-isis/charset"
	"github.com/scieloorg/isis-format/go-isis/iso"
	"github.com/scieloorg/isis-format/go-isis/jsonl"
	"github.com/scieloorg/isis-format/go-isis/subfield"
)

type MainConfig struct {
	Jenc  string `cli:"name=jenc desc='character encoding for jsonl i/o (default utf-8)'"`
	Ienc  string `cli:"name=ienc desc='character encoding for iso i/o (default cp1252)'"`
	Menc  string `cli:"name=menc desc='character encoding for mst i/o (default cp1252)'"`
	Color bool   `cli:"name=color desc='force colored jsonl output'"`
	Debug bool   `cli:"name=debug desc='enable debug logging'"`

	FT   string `cli:"name=ft desc='iso field terminator'"`
	RT   string `cli:"name=rt desc='iso record terminator'"`
	Line int    `cli:"name=line desc='iso line length, 0 disables wrapping'"`
	EOL  string `cli:"name=eol desc='iso end of line, escapes allowed'"`

	Subfields bool   `cli:"name=sf aliases=subfields desc='explode fields into subfield objects'"`
	Prefix    string `cli:"name=prefix desc='subfield marker'"`
	KeyLen    int    `cli:"name=sflen desc='subfield key length'"`
	Lower     bool   `cli:"name=lower desc='lowercase subfield keys'"`
	First     string `cli:"name=first desc='key for leading content without a marker'"`
	Empty     bool   `cli:"name=empty desc='keep empty subfield values'"`
	NoNumber  bool   `cli:"name=nonumber desc='do not number repeated subfield keys'"`
	Zero      bool   `cli:"name=zero desc='number repeated subfield keys from zero'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// envConfig carries the defaults an .env file or the environment can
// set without repeating flags on every call.
type envConfig struct {
	Jenc  string `env:"ISC_JENC"`
	Ienc  string `env:"ISC_IENC"`
	Menc  string `env:"ISC_MENC"`
	Color bool   `env:"ISC_COLOR"`
}

func newMainConfig() *MainConfig {
	cfg := &MainConfig{
		FT:     "#",
		RT:     "#",
		Line:   iso.DefaultLineLength,
		EOL:    "\n",
		Prefix: "^",
		KeyLen: 1,
	}
	_ = godotenv.Load()
	var ec envConfig
	if err := env.Parse(&ec); err == nil {
		cfg.Jenc = ec.Jenc
		cfg.Ienc = ec.Ienc
		cfg.Menc = ec.Menc
		cfg.Color = cfg.Color || ec.Color
	}
	return cfg
}

func (cfg *MainConfig) charsetFor(name, fallback string) (*charset.Charset, error) {
	if name == "" {
		name = fallback
	}
	cs, err := charset.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return cs, nil
}

func (cfg *MainConfig) jsonlCharset() (*charset.Charset, error) {
	return cfg.charsetFor(cfg.Jenc, "utf-8")
}

func (cfg *MainConfig) isoCharset() (*charset.Charset, error) {
	return cfg.charsetFor(cfg.Ienc, "cp1252")
}

func (cfg *MainConfig) mstCharset() (*charset.Charset, error) {
	return cfg.charsetFor(cfg.Menc, "cp1252")
}

func (cfg *MainConfig) isoOpts() ([]iso.Option, error) {
	ft, err := unescape(cfg.FT)
	if err != nil {
		return nil, fmt.Errorf("%w: ft: %w", cli.ErrUsage, err)
	}
	rt, err := unescape(cfg.RT)
	if err != nil {
		return nil, fmt.Errorf("%w: rt: %w", cli.ErrUsage, err)
	}
	eol, err := unescape(cfg.EOL)
	if err != nil {
		return nil, fmt.Errorf("%w: eol: %w", cli.ErrUsage, err)
	}
	return []iso.Option{
		iso.FieldTerminator([]byte(ft)),
		iso.RecordTerminator([]byte(rt)),
		iso.LineLength(cfg.Line),
		iso.Newline([]byte(eol)),
	}, nil
}

// subfieldParser builds the parser shared by the jsonl encoder and
// decoder, or nil when -sf was not given.
func (cfg *MainConfig) subfieldParser() (*subfield.Parser[string], error) {
	if !cfg.Subfields {
		return nil, nil
	}
	opts := []subfield.Option[string]{
		subfield.KeyLength[string](cfg.KeyLen),
		subfield.Lower[string](cfg.Lower),
		subfield.KeepEmpty[string](cfg.Empty),
		subfield.Number[string](!cfg.NoNumber),
		subfield.Zero[string](cfg.Zero),
	}
	if cfg.First != "" {
		opts = append(opts, subfield.First(cfg.First))
	}
	p, err := subfield.New(cfg.Prefix, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

// jsonlOut resolves the jsonl encoding and wraps cc.Out so output is
// emitted in it; the caller must close the returned writer to flush.
func (cfg *MainConfig) jsonlOut(cc *cli.Context) (io.WriteCloser, []jsonl.Option, error) {
	cs, err := cfg.jsonlCharset()
	if err != nil {
		return nil, nil, err
	}
	sf, err := cfg.subfieldParser()
	if err != nil {
		return nil, nil, err
	}
	var opts []jsonl.Option
	if cs.IsASCII() {
		opts = append(opts, jsonl.ASCII(true))
	}
	if sf != nil {
		opts = append(opts, jsonl.Subfields(sf))
	}
	if cfg.Color {
		opts = append(opts, jsonl.WithColors(jsonl.NewColors()))
	} else if f, ok := cc.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		opts = append(opts, jsonl.WithColors(jsonl.NewColors()))
	}
	return cs.Writer(cc.Out), opts, nil
}

// jsonlIn wraps r so jsonl input in the configured encoding reads back
// as utf-8 text.
func (cfg *MainConfig) jsonlIn(r io.Reader) (io.Reader, []jsonl.Option, error) {
	cs, err := cfg.jsonlCharset()
	if err != nil {
		return nil, nil, err
	}
	sf, err := cfg.subfieldParser()
	if err != nil {
		return nil, nil, err
	}
	var opts []jsonl.Option
	if sf != nil {
		opts = append(opts, jsonl.Subfields(sf))
	}
	return cs.Reader(r), opts, nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// unescape decodes \n \r \t \\ and \xHH sequences in terminator and
// newline flags.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			return "", fmt.Errorf("dangling backslash in %q", s)
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("truncated \\x escape in %q", s)
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape in %q: %v", s, err)
			}
			b.WriteByte(byte(n))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}

type Mst2JsonlConfig struct {
	*MainConfig

	Deleted bool `cli:"name=deleted desc='include logically deleted records'"`
	Swap    bool `cli:"name=swap desc='read big-endian master files'"`

	Cmd *cli.Command
}

type Iso2JsonlConfig struct {
	*MainConfig

	Cmd *cli.Command
}

type Jsonl2IsoConfig struct {
	*MainConfig

	Cmd *cli.Command
}

type FilterConfig struct {
	*MainConfig

	Invert bool `cli:"name=v desc='keep records not matching the expression'"`

	Cmd *cli.Command
}

type PatchConfig struct {
	*MainConfig

	File bool `cli:"name=f desc='read the merge patch from a file'"`

	Cmd *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Cmd *cli.Command
}
