package subfield

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// parseCase settings mirror the Parser options; length and number carry
// their non-zero defaults explicitly so every case reads complete.
type parseCase struct {
	name   string
	field  string
	marker string
	length int
	lower  bool
	first  string
	subst  bool // whether first is configured at all
	empty  bool
	number bool
	zero   bool
	want   [][2]string
}

var parseCases = []parseCase{
	// Empty input
	{name: "empty_false", field: "", marker: "x", length: 1, number: true,
		want: nil},
	{name: "empty_true", field: "", marker: "x", length: 1, number: true, empty: true,
		want: [][2]string{{"", ""}}},

	// Single non-empty subfield (and perhaps some empty subfield)
	{name: "single_nonempty_subfield_first", field: "data", marker: "^", length: 1, number: true,
		want: [][2]string{{"", "data"}}},
	{name: "single_nonempty_subfield_no_first", field: "data", marker: "d", length: 1, number: true,
		want: [][2]string{{"a", "ta"}}},
	{name: "single_nonempty_subfield_empty_first", field: "data", marker: "d", length: 1, number: true, empty: true,
		want: [][2]string{{"", ""}, {"a", "ta"}}},

	// Non-subfield marker (trailing marker and leading value)
	{name: "non_subfield_marker", field: "data", marker: "a", length: 1, number: true,
		want: [][2]string{{"", "d"}, {"t", "a"}}},

	// Multi-unit markers
	{name: "utf8_marker", field: "dátá", marker: "á", length: 1, number: true,
		want: [][2]string{{"", "d"}, {"t", "á"}}},
	{name: "multibyte_ascii_marker", field: "#-#ak0#-ak-#", marker: "#-", length: 1, number: true,
		want: [][2]string{{"#", "ak0"}, {"a", "k-#"}}},

	// Length, number and zero
	{name: "length_2_ignore_empty", field: "data", marker: "a", length: 2, number: true,
		want: [][2]string{{"", "d"}}},
	{name: "length_2_keep_empty", field: "data", marker: "a", length: 2, number: true, empty: true,
		want: [][2]string{{"", "d"}, {"ta", ""}}},
	{name: "length_0_ignore_empty", field: "data", marker: "a", length: 0, number: true,
		want: [][2]string{{"", "d"}, {"1", "t"}}},
	{name: "length_0_ignore_empty_no_number", field: "data", marker: "a", length: 0,
		want: [][2]string{{"", "d"}, {"", "t"}}},
	{name: "length_0_keep_empty", field: "data", marker: "a", length: 0, number: true, empty: true,
		want: [][2]string{{"", "d"}, {"1", "t"}, {"2", ""}}},
	{name: "length_0_keep_empty_no_number", field: "ðata", marker: "a", length: 0, empty: true,
		want: [][2]string{{"", "ð"}, {"", "t"}, {"", ""}}},
	{name: "length_0_keep_empty_zero", field: "data", marker: "a", length: 0, number: true, empty: true, zero: true,
		want: [][2]string{{"0", "d"}, {"1", "t"}, {"2", ""}}},

	// First, number and zero
	{name: "first_unused", field: "ioisis test", marker: "i", length: 1, number: true, first: "1", subst: true,
		want: [][2]string{{"s", " test"}}},
	{name: "first_empty", field: "ioisis test", marker: "i", length: 1, number: true, first: "1", subst: true, empty: true,
		want: [][2]string{{"1", ""}, {"o", ""}, {"s", ""}, {"s1", " test"}}},
	{name: "first_empty_no_number", field: "ioisis test", marker: "i", length: 1, first: "1", subst: true, empty: true,
		want: [][2]string{{"1", ""}, {"o", ""}, {"s", ""}, {"s", " test"}}},
	{name: "first_empty_zero", field: "ioisis test", marker: "i", length: 1, number: true, zero: true, first: "_", subst: true, empty: true,
		want: [][2]string{{"_0", ""}, {"o0", ""}, {"s0", ""}, {"s1", " test"}}},
	{name: "first_with_3_units", field: "ioisis test", marker: "is", length: 1, number: true, first: "1st", subst: true,
		want: [][2]string{{"1st", "io"}, {"i", "s test"}}},
	{name: "first_with_3_units_and_length_2", field: "ioisis test", marker: "is", length: 2, number: true, first: "1st", subst: true,
		want: [][2]string{{"1st", "io"}, {"is", " test"}}},
	{name: "first_with_3_units_and_length_2_number", field: "ioisis test isis numbered", marker: "is", length: 2, number: true, first: "1st", subst: true,
		want: [][2]string{{"1st", "io"}, {"is", " test "}, {"is1", " numbered"}}},
	{name: "first_with_3_units_and_length_2_number_zero", field: "ioisis të§t isis numbered", marker: "is", length: 2, number: true, zero: true, first: "1st", subst: true,
		want: [][2]string{{"1st0", "io"}, {"is0", " të§t "}, {"is1", " numbered"}}},
	{name: "first_with_3_units_and_length_2_no_number", field: "ioisis test isisnt numbered", marker: "is", length: 2, first: "1st", subst: true,
		want: [][2]string{{"1st", "io"}, {"is", " test "}, {"is", "nt numbered"}}},

	// Lower
	{name: "lower_no_number_length_2", field: "7Asuiñ¼suidn7AIDjqoiw7siojAipoo7Aidosijd", marker: "7A", length: 2, lower: true,
		want: [][2]string{{"su", "iñ¼suidn"}, {"id", "jqoiw7siojAipoo"}, {"id", "osijd"}}},
	{name: "number_no_lower_length_2", field: "7Asuiñ¼suidn7AIDjqoiw7siojAipoo7Aidosijd", marker: "7A", length: 2, number: true,
		want: [][2]string{{"su", "iñ¼suidn"}, {"ID", "jqoiw7siojAipoo"}, {"id", "osijd"}}},
	{name: "lower_number_zero_length_2", field: "7Asuiñ¼suidn7AIDjqoiw7siojAipoo7Aidosijd", marker: "7A", length: 2, lower: true, number: true, zero: true,
		want: [][2]string{{"su0", "iñ¼suidn"}, {"id0", "jqoiw7siojAipoo"}, {"id1", "osijd"}}},
	{name: "lower_first_empty", field: "", marker: "^", length: 1, number: true, lower: true, first: "FIRST", subst: true, empty: true,
		want: [][2]string{{"first", ""}}},
}

func (tc *parseCase) options() []Option[string] {
	opts := []Option[string]{
		KeyLength[string](tc.length),
		Lower[string](tc.lower),
		KeepEmpty[string](tc.empty),
		Number[string](tc.number),
		Zero[string](tc.zero),
	}
	if tc.subst {
		opts = append(opts, First(tc.first))
	}
	return opts
}

func (tc *parseCase) byteOptions() []Option[[]byte] {
	opts := []Option[[]byte]{
		KeyLength[[]byte](tc.length),
		Lower[[]byte](tc.lower),
		KeepEmpty[[]byte](tc.empty),
		Number[[]byte](tc.number),
		Zero[[]byte](tc.zero),
	}
	if tc.subst {
		opts = append(opts, First([]byte(tc.first)))
	}
	return opts
}

func TestParseText(t *testing.T) {
	for _, tc := range parseCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.marker, tc.options()...)
			if err != nil {
				t.Fatal(err)
			}
			var want []Pair[string]
			for _, kv := range tc.want {
				want = append(want, Pair[string]{Key: kv[0], Value: kv[1]})
			}
			got := p.Parse(tc.field)
			if d := cmp.Diff(want, got); d != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.field, d)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	for _, tc := range parseCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New([]byte(tc.marker), tc.byteOptions()...)
			if err != nil {
				t.Fatal(err)
			}
			var want []Pair[[]byte]
			for _, kv := range tc.want {
				want = append(want, Pair[[]byte]{Key: []byte(kv[0]), Value: []byte(kv[1])})
			}
			got := p.Parse([]byte(tc.field))
			if d := cmp.Diff(want, got, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.field, d)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	p, err := New("^", First("_"))
	if err != nil {
		t.Fatal(err)
	}
	got := p.Parse("data^ttext^len^tTrail")
	want := []Pair[string]{
		{Key: "_", Value: "data"},
		{Key: "t", Value: "text"},
		{Key: "l", Value: "en"},
		{Key: "t1", Value: "Trail"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestParseIndependentCalls(t *testing.T) {
	p, err := New("^", KeepEmpty[string](true), Zero[string](true))
	if err != nil {
		t.Fatal(err)
	}
	field := "a^xb^xc^yd"
	first := p.Parse(field)
	second := p.Parse(field)
	if d := cmp.Diff(first, second); d != "" {
		t.Errorf("calls differ (-first +second):\n%s", d)
	}
	// Numbering restarts per call, no cross-call counter leakage.
	want := []Pair[string]{
		{Key: "0", Value: "a"},
		{Key: "x0", Value: "b"},
		{Key: "x1", Value: "c"},
		{Key: "y0", Value: "d"},
	}
	if d := cmp.Diff(want, second); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestNumberingSequence(t *testing.T) {
	// For n retained occurrences of one key the suffixes must be
	// exactly none, "1", ..., "n-1".
	p, err := New("^", KeepEmpty[string](true))
	if err != nil {
		t.Fatal(err)
	}
	got := p.Parse("lead^tv0^tv1^tv2^tv3")
	want := []Pair[string]{
		{Key: "", Value: "lead"},
		{Key: "t", Value: "v0"},
		{Key: "t1", Value: "v1"},
		{Key: "t2", Value: "v2"},
		{Key: "t3", Value: "v3"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestNumberingCountsRetainedOnly(t *testing.T) {
	// Occurrences dropped for empty values do not advance the counter.
	p, err := New("^")
	if err != nil {
		t.Fatal(err)
	}
	got := p.Parse("^t^tkept^talso")
	want := []Pair[string]{
		{Key: "t", Value: "kept"},
		{Key: "t1", Value: "also"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestPairCountBound(t *testing.T) {
	// Emitted pairs never exceed marker occurrences plus one.
	p, err := New("^", KeepEmpty[string](true))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"", "^", "^^", "a^b^c", "^a^^b^", "no marker here"} {
		occurrences := 0
		for i := range field {
			if field[i] == '^' {
				occurrences++
			}
		}
		if got := len(p.Parse(field)); got > occurrences+1 {
			t.Errorf("Parse(%q): %d pairs for %d occurrences", field, got, occurrences)
		}
	}
}

func TestNewConfigErrors(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrConfig) {
		t.Errorf("empty marker: got %v, want ErrConfig", err)
	}
	if _, err := New([]byte(nil)); !errors.Is(err, ErrConfig) {
		t.Errorf("nil marker: got %v, want ErrConfig", err)
	}
	if _, err := New("^", KeyLength[string](-1)); !errors.Is(err, ErrConfig) {
		t.Errorf("negative key length: got %v, want ErrConfig", err)
	}
}
