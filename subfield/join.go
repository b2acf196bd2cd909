package subfield

import "fmt"

// Join is the inverse of Parse for lossless tokenizations (KeepEmpty
// on): it reconstructs raw field content from an ordered pair sequence.
//
// The first pair's value is emitted bare, its key discarded, since the
// leading segment never carries a marker. Every later pair is emitted
// as marker + key + value, with the key first stripped of any numbering
// suffix (by truncation to the configured key length) and padded with
// spaces if shorter than the key length.
//
// When the Parser lowercases keys, Join still returns the joined
// content but signals the non-fatal ErrLossyKeyCase, since the original
// key case is gone; exact round trips require Lower off.
func (p *Parser[C]) Join(pairs []Pair[C]) (C, error) {
	var out []byte
	for i := range pairs {
		if i > 0 {
			out = append(out, p.markerB...)
			out = p.appendKey(out, pairs[i].Key)
		}
		out = append(out, []byte(pairs[i].Value)...)
	}
	res := C(out)
	if p.lower && len(pairs) > 1 {
		return res, fmt.Errorf("%w (%d keys)", ErrLossyKeyCase, len(pairs)-1)
	}
	return res, nil
}

// appendKey writes key truncated or space-padded to exactly keyLen
// content units.
func (p *Parser[C]) appendKey(out []byte, key C) []byte {
	end, ok := step(key, 0, p.keyLen)
	out = append(out, []byte(key[:end])...)
	if !ok {
		for n := units(key); n < p.keyLen; n++ {
			out = append(out, ' ')
		}
	}
	return out
}
