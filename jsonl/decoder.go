package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/scieloorg/isis-format/go-isis/record"
	"github.com/scieloorg/isis-format/go-isis/subfield"
)

// Decoder reads one record per line, preserving field order. Decode
// returns io.EOF after the last line.
type Decoder struct {
	r    *bufio.Reader
	opt  opts
	line int
	done bool
}

func NewDecoder(r io.Reader, options ...Option) *Decoder {
	opt := opts{}
	for _, o := range options {
		o(&opt)
	}
	return &Decoder{r: bufio.NewReader(r), opt: opt}
}

// Decode reads the next record, skipping blank lines.
func (d *Decoder) Decode() (*record.Record, error) {
	for {
		if d.done {
			return nil, io.EOF
		}
		line, err := d.r.ReadBytes('\n')
		if err == io.EOF {
			d.done = true
		} else if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		d.line++
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		rec, err := d.decodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDecode, d.line, err)
		}
		return rec, nil
	}
}

// decodeLine scans one JSON object with the stdlib token decoder, which
// is what keeps the document's field order.
func (d *Decoder) decodeLine(line []byte) (*record.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	rec := &record.Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T", tok)
		}
		switch key {
		case "mfn":
			n, err := numberField(dec)
			if err != nil {
				return nil, fmt.Errorf("mfn: %v", err)
			}
			rec.MFN = n
			rec.Meta = true
		case "active":
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			b, ok := tok.(bool)
			if !ok {
				return nil, fmt.Errorf("active is %T, want bool", tok)
			}
			rec.Active = b
			rec.Meta = true
		default:
			if err := d.addValues(rec, key, dec); err != nil {
				return nil, fmt.Errorf("field %q: %v", key, err)
			}
		}
	}
	return rec, expectDelim(dec, '}')
}

// addValues accepts the three field value shapes: a bare string, an
// array of occurrences, or a subfield object.
func (d *Decoder) addValues(rec *record.Record, tag string, dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case string:
		rec.Add(tag, v)
		return nil
	case json.Delim:
		switch v {
		case '[':
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					return err
				}
				switch elt := tok.(type) {
				case string:
					rec.Add(tag, elt)
				case json.Delim:
					if elt != '{' {
						return fmt.Errorf("unexpected %v in field array", elt)
					}
					s, err := d.joinObject(dec)
					if err != nil {
						return err
					}
					rec.Add(tag, s)
				default:
					return fmt.Errorf("field occurrence is %T, want string or object", tok)
				}
			}
			return expectDelim(dec, ']')
		case '{':
			s, err := d.joinObject(dec)
			if err != nil {
				return err
			}
			rec.Add(tag, s)
			return nil
		}
	}
	return fmt.Errorf("field value is %T, want string, array or object", tok)
}

// joinObject turns a subfield object back into raw field content. The
// opening brace has already been consumed.
func (d *Decoder) joinObject(dec *json.Decoder) (string, error) {
	if d.opt.sf == nil {
		return "", fmt.Errorf("%w: subfield object without a parser", subfield.ErrReconstruct)
	}
	var pairs []subfield.Pair[string]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", err
		}
		key, ok := keyTok.(string)
		if !ok {
			return "", fmt.Errorf("subfield key is %T", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return "", err
		}
		val, ok := valTok.(string)
		if !ok {
			return "", fmt.Errorf("%w: subfield %q is %T, want string", subfield.ErrReconstruct, key, valTok)
		}
		pairs = append(pairs, subfield.Pair[string]{Key: key, Value: val})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return "", err
	}
	content, err := d.opt.sf.Join(pairs)
	if err != nil && !errors.Is(err, subfield.ErrLossyKeyCase) {
		return "", err
	}
	return content, nil
}

func numberField(dec *json.Decoder) (int, error) {
	tok, err := dec.Token()
	if err != nil {
		return 0, err
	}
	num, ok := tok.(json.Number)
	if !ok {
		return 0, fmt.Errorf("got %T, want number", tok)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("got %v, want %v", tok, want)
	}
	return nil
}
