package jsonl

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/segmentio/encoding/json"

	"github.com/scieloorg/isis-format/go-isis/record"
)

// Encoder writes one record per line.
type Encoder struct {
	w   io.Writer
	opt opts
	buf []byte
}

func NewEncoder(w io.Writer, options ...Option) *Encoder {
	opt := opts{}
	for _, o := range options {
		o(&opt)
	}
	if opt.colors == nil {
		opt.colors = &Colors{}
	}
	return &Encoder{w: w, opt: opt}
}

// Encode writes rec as one JSON line.
func (e *Encoder) Encode(rec *record.Record) error {
	e.buf = e.buf[:0]
	e.punct('{')
	comma := false
	if rec.Meta {
		e.key("active")
		e.colored(e.opt.colors.boolean, strconv.FormatBool(rec.Active))
		e.punct(',')
		e.key("mfn")
		e.colored(e.opt.colors.number, strconv.Itoa(rec.MFN))
		comma = true
	}
	for _, tag := range rec.Tags() {
		if comma {
			e.punct(',')
		}
		comma = true
		e.key(tag)
		e.punct('[')
		for i, v := range rec.Values(tag) {
			if i > 0 {
				e.punct(',')
			}
			e.value(v)
		}
		e.punct(']')
	}
	e.punct('}')
	e.buf = append(e.buf, '\n')
	_, err := e.w.Write(e.buf)
	return err
}

// value writes one field occurrence: a string, or a subfield object
// when a parser is configured.
func (e *Encoder) value(v string) {
	if e.opt.sf == nil {
		e.str(v, e.opt.colors.str)
		return
	}
	e.punct('{')
	for i, pair := range e.opt.sf.Parse(v) {
		if i > 0 {
			e.punct(',')
		}
		e.str(pair.Key, e.opt.colors.key)
		e.punct(':')
		e.str(pair.Value, e.opt.colors.str)
	}
	e.punct('}')
}

func (e *Encoder) key(k string) {
	e.str(k, e.opt.colors.key)
	e.punct(':')
}

// str writes s as a JSON string. Marshaling a string cannot fail; a
// marshaler error here would be a bug.
func (e *Encoder) str(s string, paint painter) {
	d, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrEncode, err))
	}
	if e.opt.ascii {
		d = escapeNonASCII(d)
	}
	e.colored(paint, string(d))
}

func (e *Encoder) punct(c byte) {
	e.colored(e.opt.colors.punct, string(c))
}

func (e *Encoder) colored(paint painter, s string) {
	if paint == nil {
		e.buf = append(e.buf, s...)
		return
	}
	e.buf = append(e.buf, paint(s)...)
}

// escapeNonASCII rewrites every rune >= 0x80 in a marshaled JSON value
// as \uXXXX escapes (surrogate pairs above the BMP).
func escapeNonASCII(d []byte) []byte {
	ascii := true
	for _, b := range d {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return d
	}
	out := make([]byte, 0, len(d)+8)
	for i := 0; i < len(d); {
		r, sz := utf8.DecodeRune(d[i:])
		if r < 0x80 {
			out = append(out, d[i])
			i++
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
		} else {
			out = fmt.Appendf(out, `\u%04x`, r)
		}
		i += sz
	}
	return out
}
