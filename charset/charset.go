// Package charset converts between raw record bytes and text for the
// character sets found in legacy ISIS data (cp1252 by default, cp850,
// the ISO-8859 family) plus utf-8 and ascii.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var ErrUnknown = errors.New("unknown encoding")

// Charset decodes bytes to text and encodes text back to bytes for one
// named character set. Immutable and safe for concurrent use.
type Charset struct {
	name  string
	enc   encoding.Encoding // nil for utf-8 and ascii passthrough
	ascii bool
}

var byName = map[string]encoding.Encoding{
	"cp437":       charmap.CodePage437,
	"cp850":       charmap.CodePage850,
	"cp852":       charmap.CodePage852,
	"cp1252":      charmap.Windows1252,
	"windows1252": charmap.Windows1252,
	"latin1":      charmap.ISO8859_1,
	"iso88591":    charmap.ISO8859_1,
	"iso885915":   charmap.ISO8859_15,
}

// Lookup resolves an encoding name, accepting the spellings the
// original tool took on the command line (cp1252, latin-1, utf-8, ...).
// Names outside the built-in table fall back to the IANA index.
func Lookup(name string) (*Charset, error) {
	norm := strings.ToLower(name)
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "utf8":
		return &Charset{name: name}, nil
	case "ascii", "usascii":
		return &Charset{name: name, ascii: true}, nil
	}
	if enc, ok := byName[norm]; ok {
		return &Charset{name: name, enc: enc}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return &Charset{name: name, enc: enc}, nil
}

func (c *Charset) Name() string { return c.name }

// IsASCII reports whether the charset only admits 7-bit output, which
// makes the JSON Lines encoder escape all non-ASCII runes.
func (c *Charset) IsASCII() bool { return c.ascii }

// Decode converts raw record bytes to text.
func (c *Charset) Decode(b []byte) (string, error) {
	if c.enc == nil {
		if c.ascii {
			for i := range b {
				if b[i] >= 0x80 {
					return "", fmt.Errorf("byte 0x%02x at %d is not ascii", b[i], i)
				}
			}
		}
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Reader wraps r so bytes in this charset read back as utf-8 text.
// Passthrough charsets return r unchanged.
func (c *Charset) Reader(r io.Reader) io.Reader {
	if c.enc == nil {
		return r
	}
	return transform.NewReader(r, c.enc.NewDecoder())
}

// Writer wraps w so utf-8 text written to it comes out in this charset.
// Closing flushes the transformer; passthrough charsets wrap w with a
// no-op Close.
func (c *Charset) Writer(w io.Writer) io.WriteCloser {
	if c.enc == nil {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, c.enc.NewEncoder())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Encode converts text back to raw record bytes.
func (c *Charset) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		if c.ascii {
			for i := range len(s) {
				if s[i] >= 0x80 {
					return nil, fmt.Errorf("rune at byte %d is not ascii", i)
				}
			}
		}
		return []byte(s), nil
	}
	return c.enc.NewEncoder().Bytes([]byte(s))
}
