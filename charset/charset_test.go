package charset

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestLookupSpellings(t *testing.T) {
	for _, name := range []string{
		"cp1252", "CP1252", "windows-1252", "Windows_1252",
		"latin1", "latin-1", "iso-8859-1", "cp850",
		"utf-8", "UTF8", "ascii", "US-ASCII",
	} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}
	if _, err := Lookup("no-such-charset"); !errors.Is(err, ErrUnknown) {
		t.Errorf("unknown charset error = %v, want ErrUnknown", err)
	}
}

func TestCP1252RoundTrip(t *testing.T) {
	cs, err := Lookup("cp1252")
	if err != nil {
		t.Fatal(err)
	}
	raw := []byte("t\xedtulo \x93a\x94")
	text, err := cs.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if text != "título “a”" {
		t.Errorf("Decode = %q", text)
	}
	back, err := cs.Encode(text)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != string(raw) {
		t.Errorf("Encode = %q, want %q", back, raw)
	}
}

func TestStreamTranscoding(t *testing.T) {
	cs, err := Lookup("cp1252")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := cs.Writer(&buf)
	if _, err := io.WriteString(w, "título\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "t\xedtulo\n" {
		t.Errorf("written bytes = %q", got)
	}

	back, err := io.ReadAll(cs.Reader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != "título\n" {
		t.Errorf("read back = %q", back)
	}

	utf8cs, err := Lookup("utf-8")
	if err != nil {
		t.Fatal(err)
	}
	var raw bytes.Buffer
	if utf8cs.Reader(&raw) != &raw {
		t.Error("utf-8 Reader should pass through")
	}
}

func TestUTF8Passthrough(t *testing.T) {
	cs, err := Lookup("utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if cs.IsASCII() {
		t.Error("utf-8 should not report ascii")
	}
	text, err := cs.Decode([]byte("ação"))
	if err != nil || text != "ação" {
		t.Errorf("Decode = %q, %v", text, err)
	}
}

func TestASCIIRejectsHighBytes(t *testing.T) {
	cs, err := Lookup("ascii")
	if err != nil {
		t.Fatal(err)
	}
	if !cs.IsASCII() {
		t.Error("ascii should report ascii")
	}
	if _, err := cs.Decode([]byte("a\xe7")); err == nil {
		t.Error("Decode should reject non-ascii bytes")
	}
	if _, err := cs.Encode("ação"); err == nil {
		t.Error("Encode should reject non-ascii text")
	}
}
