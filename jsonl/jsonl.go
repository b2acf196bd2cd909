// Package jsonl streams records as JSON Lines: one compact JSON object
// per line, field tags in insertion order, master file metadata as
// "mfn" and "active" entries.
//
// Field values are plain strings by default. With a subfield parser
// configured, every field is exploded into an object of subfield keys
// on encode, and such objects are joined back into raw field content on
// decode; key numbering keeps repeated subfield keys unique within one
// field object.
package jsonl

import (
	"errors"

	"github.com/scieloorg/isis-format/go-isis/subfield"
)

var (
	ErrDecode = errors.New("jsonl decode")
	ErrEncode = errors.New("jsonl encode")
)

// Option configures an Encoder or Decoder.
type Option func(*opts)

type opts struct {
	ascii  bool
	colors *Colors
	sf     *subfield.Parser[string]
}

// ASCII escapes every non-ASCII rune in the output, for ascii-encoded
// sinks.
func ASCII(v bool) Option {
	return func(o *opts) { o.ascii = v }
}

// WithColors renders ANSI-colored output, for terminals.
func WithColors(c *Colors) Option {
	return func(o *opts) { o.colors = c }
}

// Subfields sets the parser used to explode field values into subfield
// objects on encode and to join them back on decode. Lossless round
// trips need the parser built with subfield.KeepEmpty.
func Subfields(p *subfield.Parser[string]) Option {
	return func(o *opts) { o.sf = p }
}
