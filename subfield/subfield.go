// Package subfield splits raw field content into ordered (key, value)
// subfield pairs around a literal delimiter marker, and joins such pairs
// back into raw content.
//
// A Parser is built once per field convention and reused; it is immutable
// and safe for concurrent use. The same algorithm runs over text and over
// raw octets: Parser is generic over string | []byte, and the marker,
// keys and values all share that one representation. A content unit is a
// rune for string and a byte for []byte.
package subfield

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Content is the representation a Parser instantiation operates on.
type Content interface {
	string | []byte
}

// Pair is one subfield. Emission order is significant; keys may repeat.
type Pair[C Content] struct {
	Key   C
	Value C
}

// Parser locates marker occurrences in field content and produces
// subfield pairs. Zero value is not usable; construct with New.
type Parser[C Content] struct {
	marker  C
	markerS string // marker as string, for strings.Index
	markerB []byte // marker as bytes, for bytes.Index

	keyLen   int
	lower    bool
	first    C
	hasFirst bool
	empty    bool
	number   bool
	zero     bool
}

// New builds a Parser for the given marker. Defaults: key length 1,
// repeated keys numbered, empty values dropped, no lowercasing, no
// leading key substitution.
//
// The marker is always matched literally. Construction fails when the
// marker is empty or the key length is negative; these are the only
// configuration errors, since the type parameter already pins marker,
// first key and field content to one representation.
func New[C Content](marker C, opts ...Option[C]) (*Parser[C], error) {
	if len(marker) == 0 {
		return nil, fmt.Errorf("%w: empty marker", ErrConfig)
	}
	cfg := config[C]{keyLen: 1, number: true}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.keyLen < 0 {
		return nil, fmt.Errorf("%w: negative key length %d", ErrConfig, cfg.keyLen)
	}
	return &Parser[C]{
		marker:   marker,
		markerS:  string(marker),
		markerB:  []byte(marker),
		keyLen:   cfg.keyLen,
		lower:    cfg.lower,
		first:    cfg.first,
		hasFirst: cfg.hasFirst,
		empty:    cfg.empty,
		number:   cfg.number,
		zero:     cfg.zero,
	}, nil
}

// Parse splits field into subfield pairs, in order of appearance.
//
// The content before the first marker occurrence is the leading segment;
// its key is empty unless First was configured. Each marker occurrence
// followed by at least the configured key length of units starts a new
// segment: the units after the marker form the key, the rest up to the
// next such occurrence (or end of content) forms the value. A marker
// occurrence without enough trailing units for a key is not a boundary;
// its units stay inside the enclosing value.
//
// Parse never fails: content with no marker at all yields at most the
// leading segment, and every call returns a fresh, independent result.
func (p *Parser[C]) Parse(field C) []Pair[C] {
	var pairs []Pair[C]
	var counts map[string]int
	if p.number {
		counts = make(map[string]int)
	}

	emit := func(key, value C, leading bool) {
		if !p.empty && len(value) == 0 {
			return
		}
		if leading && p.hasFirst && len(key) == 0 {
			key = p.first
		}
		if p.lower {
			key = toLower(key)
		}
		if p.number {
			n := counts[string(key)]
			counts[string(key)] = n + 1
			if p.zero || n > 0 {
				key = appendInt(key, n)
			}
		}
		pairs = append(pairs, Pair[C]{Key: key, Value: value})
	}

	mlen := len(p.marker)
	start := 0 // value start of the pending segment
	var key C  // key of the pending segment; zero for the leading one
	leading := true
	i := 0
	for {
		loc := p.find(field, i)
		if loc < 0 {
			break
		}
		keyEnd, ok := step(field, loc+mlen, p.keyLen)
		if !ok {
			// Partial match at the trailing edge: fewer than keyLen
			// units follow the marker, so it starts no subfield.
			i, _ = step(field, loc, 1)
			continue
		}
		emit(key, field[start:loc], leading)
		leading = false
		key = field[loc+mlen : keyEnd]
		start = keyEnd
		i = keyEnd
	}
	emit(key, field[start:], leading)
	return pairs
}

// find returns the byte offset of the first marker occurrence at or
// after from, or -1.
func (p *Parser[C]) find(field C, from int) int {
	var off int
	switch f := any(field).(type) {
	case string:
		off = strings.Index(f[from:], p.markerS)
	case []byte:
		off = bytes.Index(f[from:], p.markerB)
	}
	if off < 0 {
		return -1
	}
	return from + off
}

// step advances n content units from byte offset i; reports whether n
// full units were available.
func step[C Content](c C, i, n int) (int, bool) {
	switch v := any(c).(type) {
	case string:
		for range n {
			if i >= len(v) {
				return len(v), false
			}
			_, sz := utf8.DecodeRuneInString(v[i:])
			i += sz
		}
		return i, true
	case []byte:
		if i+n > len(v) {
			return len(v), false
		}
		return i + n, true
	}
	return i, false
}

// units counts content units in c.
func units[C Content](c C) int {
	switch v := any(c).(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []byte:
		return len(v)
	}
	return 0
}

func toLower[C Content](c C) C {
	switch v := any(c).(type) {
	case string:
		return any(strings.ToLower(v)).(C)
	case []byte:
		return any(bytes.ToLower(v)).(C)
	}
	return c
}

func appendInt[C Content](c C, n int) C {
	s := strconv.Itoa(n)
	switch v := any(c).(type) {
	case string:
		return any(v + s).(C)
	case []byte:
		b := make([]byte, 0, len(v)+len(s))
		b = append(b, v...)
		b = append(b, s...)
		return any(b).(C)
	}
	return c
}
