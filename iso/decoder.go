package iso

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scieloorg/isis-format/go-isis/charset"
	"github.com/scieloorg/isis-format/go-isis/record"
)

// Decoder reads ISO2709 records sequentially from a stream. Decode
// returns io.EOF after the last record.
type Decoder struct {
	r   io.Reader
	cs  *charset.Charset
	opt opts
}

// NewDecoder builds a Decoder over r; field content is decoded to text
// with cs.
func NewDecoder(r io.Reader, cs *charset.Charset, options ...Option) *Decoder {
	opt := defaultOpts()
	for _, o := range options {
		o(&opt)
	}
	return &Decoder{r: &crlfFilter{r: r}, cs: cs, opt: opt}
}

type dirEntry struct {
	tag      string
	fieldLen int
	pos      int
}

// Decode reads the next record.
func (d *Decoder) Decode() (*record.Record, error) {
	label := make([]byte, labelLen)
	if _, err := io.ReadFull(d.r, label); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: label: %v", ErrDecode, err)
	}

	base, err := asciiInt(label[12:17])
	if err != nil {
		return nil, fmt.Errorf("%w: base address: %v", ErrDecode, err)
	}
	lenLen, err := asciiInt(label[20:21])
	if err != nil {
		return nil, fmt.Errorf("%w: length-of-length: %v", ErrDecode, err)
	}
	posLen, err := asciiInt(label[21:22])
	if err != nil {
		return nil, fmt.Errorf("%w: length-of-position: %v", ErrDecode, err)
	}
	customLen, err := asciiInt(label[22:23])
	if err != nil {
		return nil, fmt.Errorf("%w: custom length: %v", ErrDecode, err)
	}

	ft := d.opt.fieldTerminator
	entrySize := 3 + lenLen + posLen + customLen
	dirSize := base - labelLen - len(ft)
	if dirSize < 0 || entrySize <= 3 || dirSize%entrySize != 0 {
		return nil, fmt.Errorf("%w: base address %d does not fit a directory of %d-byte entries",
			ErrDecode, base, entrySize)
	}
	numFields := dirSize / entrySize

	dir := make([]byte, dirSize)
	if _, err := io.ReadFull(d.r, dir); err != nil {
		return nil, fmt.Errorf("%w: directory: %v", ErrDecode, err)
	}
	entries := make([]dirEntry, numFields)
	for i := range entries {
		raw := dir[i*entrySize : (i+1)*entrySize]
		e := dirEntry{tag: string(raw[:3])}
		if e.fieldLen, err = asciiInt(raw[3 : 3+lenLen]); err != nil {
			return nil, fmt.Errorf("%w: directory entry %d length: %v", ErrDecode, i, err)
		}
		if e.pos, err = asciiInt(raw[3+lenLen : 3+lenLen+posLen]); err != nil {
			return nil, fmt.Errorf("%w: directory entry %d position: %v", ErrDecode, i, err)
		}
		entries[i] = e
	}

	// Entries must cover the field data area contiguously from zero.
	want := 0
	for i, e := range entries {
		if e.pos != want {
			return nil, fmt.Errorf("%w: directory entry %d at position %d, want %d",
				ErrDecode, i, e.pos, want)
		}
		want += e.fieldLen
	}

	if err := d.expect(ft, "field terminator after directory"); err != nil {
		return nil, err
	}

	rec := &record.Record{}
	for i, e := range entries {
		data := make([]byte, e.fieldLen)
		if _, err := io.ReadFull(d.r, data); err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrDecode, i, err)
		}
		if !bytes.HasSuffix(data, ft) {
			return nil, fmt.Errorf("%w: field %d misses the %q suffix", ErrDecode, i, ft)
		}
		value, err := d.cs.Decode(data[:len(data)-len(ft)])
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrDecode, i, err)
		}
		rec.Add(normalizeTag(e.tag), value)
	}

	if err := d.expect(d.opt.recordTerminator, "record terminator"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *Decoder) expect(want []byte, what string) error {
	got := make([]byte, len(want))
	if _, err := io.ReadFull(d.r, got); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, what, err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: %s: got %q, want %q", ErrDecode, what, got, want)
	}
	return nil
}

// normalizeTag strips leading zeros; an all-zero tag becomes "0".
func normalizeTag(tag string) string {
	t := strings.TrimLeft(tag, "0")
	if t == "" {
		return "0"
	}
	return t
}

func asciiInt(b []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad ascii integer %q", b)
	}
	return n, nil
}

// crlfFilter drops CR and LF bytes from the stream, so wrapped and
// unwrapped files read the same.
type crlfFilter struct {
	r io.Reader
}

func (f *crlfFilter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := f.r.Read(p)
		kept := 0
		for i := range n {
			if p[i] == '\r' || p[i] == '\n' {
				continue
			}
			p[kept] = p[i]
			kept++
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}
