// Package iso reads and writes ISIS ISO2709 record files: a 24-byte
// label of ASCII integers, a directory of tag/length/position entries,
// then terminator-delimited field data. The format specification is at
// https://wiki.bireme.org/pt/img_auth.php/5/5f/2709BR.pdf
//
// Reading ignores CR and LF wherever they occur, so line-wrapped files
// decode transparently; writing can wrap records at a fixed width.
package iso

const (
	DefaultFieldTerminator  = "#"
	DefaultRecordTerminator = "#"
	DefaultLineLength       = 80
	DefaultNewline          = "\n"

	labelLen      = 24
	defaultLenLen = 4
	defaultPosLen = 5
)

// Option configures a Decoder or Encoder.
type Option func(*opts)

type opts struct {
	fieldTerminator  []byte
	recordTerminator []byte
	lineLength       int
	newline          []byte
}

func defaultOpts() opts {
	return opts{
		fieldTerminator:  []byte(DefaultFieldTerminator),
		recordTerminator: []byte(DefaultRecordTerminator),
		lineLength:       DefaultLineLength,
		newline:          []byte(DefaultNewline),
	}
}

// FieldTerminator sets the byte sequence ending every field.
func FieldTerminator(b []byte) Option {
	return func(o *opts) { o.fieldTerminator = b }
}

// RecordTerminator sets the byte sequence ending every record.
func RecordTerminator(b []byte) Option {
	return func(o *opts) { o.recordTerminator = b }
}

// LineLength sets the width records are wrapped to on output. Zero
// disables wrapping.
func LineLength(n int) Option {
	return func(o *opts) { o.lineLength = n }
}

// Newline sets the end-of-line sequence used when wrapping output.
func Newline(b []byte) Option {
	return func(o *opts) { o.newline = b }
}
