package subfield

// Option configures a Parser at construction time.
type Option[C Content] func(*config[C])

type config[C Content] struct {
	keyLen   int
	lower    bool
	first    C
	hasFirst bool
	empty    bool
	number   bool
	zero     bool
}

// KeyLength sets how many content units after a marker form the
// subfield key. Zero is valid: every key is empty before numbering.
func KeyLength[C Content](n int) Option[C] {
	return func(c *config[C]) { c.keyLen = n }
}

// Lower normalizes keys to lowercase, making them case insensitive.
func Lower[C Content](v bool) Option[C] {
	return func(c *config[C]) { c.lower = v }
}

// First sets the key substituted for the leading segment, whose key
// slot is otherwise empty.
func First[C Content](key C) Option[C] {
	return func(c *config[C]) {
		c.first = key
		c.hasFirst = true
	}
}

// KeepEmpty keeps pairs whose value is empty.
func KeepEmpty[C Content](v bool) Option[C] {
	return func(c *config[C]) { c.empty = v }
}

// Number appends a decimal suffix to repeated keys: the second retained
// occurrence of a key gets "1", the third "2", and so on. On by default.
func Number[C Content](v bool) Option[C] {
	return func(c *config[C]) { c.number = v }
}

// Zero also suffixes the first occurrence of every key with "0", so all
// keys carry a suffix. No effect unless numbering is on.
func Zero[C Content](v bool) Option[C] {
	return func(c *config[C]) { c.zero = v }
}
