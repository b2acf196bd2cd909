// Package record holds the in-memory record model shared by the MST,
// ISO2709 and JSON Lines codecs: an insertion-ordered multi-map from
// field tag to raw field occurrences, plus the master file metadata
// (mfn, active status) that only MST records carry.
package record

// Field is one occurrence of a tagged field. Value is the field's raw
// content after character set decoding; splitting it into subfields is
// the subfield package's job.
type Field struct {
	Tag   string
	Value string
}

// Record is one bibliographic record. Fields keeps occurrence order;
// tags repeat freely.
type Record struct {
	Fields []Field

	// Master file metadata, serialized only when Meta is set.
	MFN    int
	Active bool
	Meta   bool
}

// Add appends a field occurrence.
func (r *Record) Add(tag, value string) {
	r.Fields = append(r.Fields, Field{Tag: tag, Value: value})
}

// Tags returns the distinct tags in first-appearance order.
func (r *Record) Tags() []string {
	var tags []string
	seen := map[string]bool{}
	for i := range r.Fields {
		if t := r.Fields[i].Tag; !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// Values returns every occurrence of tag, in order.
func (r *Record) Values(tag string) []string {
	var vs []string
	for i := range r.Fields {
		if r.Fields[i].Tag == tag {
			vs = append(vs, r.Fields[i].Value)
		}
	}
	return vs
}

// Len returns the number of field occurrences.
func (r *Record) Len() int { return len(r.Fields) }

// Map projects the record onto a plain map, one entry per tag with all
// occurrences, plus "mfn" and "active" entries when Meta is set. Used
// by expression filters; field order is not preserved.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+2)
	if r.Meta {
		m["mfn"] = r.MFN
		m["active"] = r.Active
	}
	for _, tag := range r.Tags() {
		vs := r.Values(tag)
		anys := make([]any, len(vs))
		for i, v := range vs {
			anys[i] = v
		}
		m[tag] = anys
	}
	return m
}
