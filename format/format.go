// Package format names the record representations the module converts
// between: the legacy MST+XRF master file, the ISO2709 exchange format,
// and line-delimited JSON.
package format

import (
	"errors"
	"fmt"
	"strings"
)

type Format int

const (
	MSTFormat Format = iota
	ISOFormat
	JSONLFormat
)

var ErrBadFormat = errors.New("bad format")

// ParseFormat resolves a format name or its one-letter shorthand,
// case-insensitively.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(v) {
	case "m", "mst":
		return MSTFormat, nil
	case "i", "iso":
		return ISOFormat, nil
	case "j", "jsonl":
		return JSONLFormat, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case MSTFormat:
		return []byte("mst"), nil
	case ISOFormat:
		return []byte("iso"), nil
	case JSONLFormat:
		return []byte("jsonl"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsMST() bool   { return f == MSTFormat }
func (f Format) IsISO() bool   { return f == ISOFormat }
func (f Format) IsJSONL() bool { return f == JSONLFormat }

// Suffix returns the conventional file extension, including the dot.
// MST names the .mst half of a master file pair; its .xrf sibling is
// derived from it.
func (f Format) Suffix() string {
	switch f {
	case MSTFormat:
		return ".mst"
	case ISOFormat:
		return ".iso"
	case JSONLFormat:
		return ".jsonl"
	default:
		return ""
	}
}

// DefaultEncoding returns the character encoding conventionally carried
// by files in this format: utf-8 for JSON Lines, cp1252 for the legacy
// binary formats.
func (f Format) DefaultEncoding() string {
	if f == JSONLFormat {
		return "utf-8"
	}
	return "cp1252"
}

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{MSTFormat, ISOFormat, JSONLFormat}
}
