package iso

import (
	"fmt"
	"io"
	"strings"

	"github.com/scieloorg/isis-format/go-isis/charset"
	"github.com/scieloorg/isis-format/go-isis/record"
)

// Encoder writes records as ISO2709, rebuilding the label and directory
// from the field contents and optionally wrapping output lines.
type Encoder struct {
	w   io.Writer
	cs  *charset.Charset
	opt opts
}

// NewEncoder builds an Encoder on w; field text is encoded to bytes
// with cs.
func NewEncoder(w io.Writer, cs *charset.Charset, options ...Option) *Encoder {
	opt := defaultOpts()
	for _, o := range options {
		o(&opt)
	}
	return &Encoder{w: w, cs: cs, opt: opt}
}

// Encode writes one record. Master file metadata (mfn, active) has no
// ISO2709 representation and is ignored.
func (e *Encoder) Encode(rec *record.Record) error {
	ft := e.opt.fieldTerminator
	rt := e.opt.recordTerminator

	var dir, data []byte
	for i := range rec.Fields {
		f := &rec.Fields[i]
		tag, err := encodeTag(f.Tag)
		if err != nil {
			return err
		}
		raw, err := e.cs.Encode(f.Value)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrEncode, f.Tag, err)
		}
		fieldLen := len(raw) + len(ft)
		entry, err := dirEntryBytes(tag, fieldLen, len(data))
		if err != nil {
			return err
		}
		dir = append(dir, entry...)
		data = append(data, raw...)
		data = append(data, ft...)
	}

	base := labelLen + len(dir) + len(ft)
	total := base + len(data) + len(rt)
	if total > 99999 || base > 99999 {
		return fmt.Errorf("%w: record of %d bytes exceeds the format limit", ErrEncode, total)
	}

	out := make([]byte, 0, total)
	out = fmt.Appendf(out, "%05d", total)
	out = append(out, "0000"...) // status, type, custom
	out = append(out, "000"...)  // coding, indicator count, identifier length
	out = fmt.Appendf(out, "%05d", base)
	out = append(out, "000"...) // custom
	out = fmt.Appendf(out, "%d%d0", defaultLenLen, defaultPosLen)
	out = append(out, '0') // reserved
	out = append(out, dir...)
	out = append(out, ft...)
	out = append(out, data...)
	out = append(out, rt...)

	return e.write(out)
}

func encodeTag(tag string) ([]byte, error) {
	if len(tag) > 3 {
		return nil, fmt.Errorf("%w: tag %q longer than 3 bytes", ErrEncode, tag)
	}
	return []byte(strings.Repeat("0", 3-len(tag)) + tag), nil
}

func dirEntryBytes(tag []byte, fieldLen, pos int) ([]byte, error) {
	if fieldLen >= 10000 || pos >= 100000 {
		return nil, fmt.Errorf("%w: field of %d bytes at %d overflows the directory", ErrEncode, fieldLen, pos)
	}
	return fmt.Appendf(tag, "%04d%05d", fieldLen, pos), nil
}

// write emits b wrapped at the configured line length; the last,
// possibly partial, line is newline-terminated too.
func (e *Encoder) write(b []byte) error {
	if e.opt.lineLength <= 0 {
		_, err := e.w.Write(b)
		return err
	}
	nl := e.opt.newline
	for len(b) > 0 {
		n := min(len(b), e.opt.lineLength)
		if _, err := e.w.Write(b[:n]); err != nil {
			return err
		}
		if _, err := e.w.Write(nl); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
