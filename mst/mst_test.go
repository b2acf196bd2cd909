package mst

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scieloorg/isis-format/go-isis/charset"
	"github.com/scieloorg/isis-format/go-isis/record"
)

type fixtureField struct {
	tag  int16
	data []byte
}

// writeRecord lays out leader + directory + data at off and returns the
// XRF pointer value for that position.
func writeRecord(mst []byte, off int, mfn int32, status int16, fields []fixtureField) int32 {
	o := binary.LittleEndian
	base := leaderSize + dirEntrySize*len(fields)
	var data []byte
	dir := make([]byte, 0, dirEntrySize*len(fields))
	for _, f := range fields {
		var e [dirEntrySize]byte
		o.PutUint16(e[0:2], uint16(f.tag))
		o.PutUint16(e[2:4], uint16(len(data)))
		o.PutUint16(e[4:6], uint16(len(f.data)))
		dir = append(dir, e[:]...)
		data = append(data, f.data...)
	}
	mfrl := base + len(data)

	b := mst[off:]
	o.PutUint32(b[0:4], uint32(mfn))
	o.PutUint16(b[4:6], uint16(int16(mfrl)))
	o.PutUint32(b[6:10], 0)
	o.PutUint16(b[10:12], 0)
	o.PutUint16(b[12:14], uint16(int16(base)))
	o.PutUint16(b[14:16], uint16(int16(len(fields))))
	o.PutUint16(b[16:18], uint16(status))
	copy(b[leaderSize:], dir)
	copy(b[base:], data)

	block := int32(off/blockSize + 1)
	return 2048*block + int32(off%blockSize)
}

// fixture builds a three-record master file: mfn 1 and 3 active, mfn 2
// logically deleted. Values use cp1252 bytes.
func fixture(t *testing.T) (mstFile, xrfFile []byte) {
	t.Helper()
	o := binary.LittleEndian
	mstFile = make([]byte, 3*blockSize)

	// control record
	o.PutUint32(mstFile[4:8], 4)  // nxtmfn
	o.PutUint32(mstFile[8:12], 2) // nxtmfb
	o.PutUint32(mstFile[16:20], 3)

	p1 := writeRecord(mstFile, blockSize, 1, 0, []fixtureField{
		{1, []byte("data")},
		{70, []byte("author")},
	})
	p2 := -writeRecord(mstFile, blockSize+64, 2, 1, nil)
	p3 := writeRecord(mstFile, blockSize+128, 3, 0, []fixtureField{
		{24, []byte("t\xedtulo")},
	})

	xrfFile = make([]byte, blockSize)
	lastBlock := int32(-1)
	o.PutUint32(xrfFile[0:4], uint32(lastBlock))
	o.PutUint32(xrfFile[4:8], uint32(p1))
	o.PutUint32(xrfFile[8:12], uint32(p2))
	o.PutUint32(xrfFile[12:16], uint32(p3))
	return mstFile, xrfFile
}

func open(t *testing.T, options ...Option) *File {
	t.Helper()
	mstFile, xrfFile := fixture(t)
	cs, err := charset.Lookup("cp1252")
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFile(bytes.NewReader(mstFile), bytes.NewReader(xrfFile), cs, options...)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestControl(t *testing.T) {
	f := open(t)
	ctl := f.Control()
	if ctl.NextMFN != 4 || ctl.NextBlock != 2 || ctl.RecCount != 3 {
		t.Errorf("control = %+v", ctl)
	}
}

func TestDecodeSkipsDeleted(t *testing.T) {
	f := open(t)
	d := f.Decoder()

	var got []*record.Record
	for {
		rec, err := d.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, rec)
	}

	want := []*record.Record{
		{
			Fields: []record.Field{{Tag: "1", Value: "data"}, {Tag: "70", Value: "author"}},
			MFN:    1, Active: true, Meta: true,
		},
		{
			Fields: []record.Field{{Tag: "24", Value: "título"}},
			MFN:    3, Active: true, Meta: true,
		},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("records differ (-want +got):\n%s", d)
	}
}

func TestDecodeIncludeDeleted(t *testing.T) {
	f := open(t, IncludeDeleted(true))
	d := f.Decoder()

	var mfns []int
	var actives []bool
	for {
		rec, err := d.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		mfns = append(mfns, rec.MFN)
		actives = append(actives, rec.Active)
	}
	if d := cmp.Diff([]int{1, 2, 3}, mfns); d != "" {
		t.Errorf("mfns differ (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]bool{true, false, true}, actives); d != "" {
		t.Errorf("active flags differ (-want +got):\n%s", d)
	}
}

func TestRecordByMFN(t *testing.T) {
	f := open(t)

	rec, err := f.Record(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Fields) != 1 || rec.Fields[0].Value != "título" {
		t.Errorf("record 3 = %+v", rec)
	}

	rec, err = f.Record(2)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Active {
		t.Error("record 2 should not be active")
	}

	if _, err := f.Record(5); err == nil {
		t.Error("mfn 5 should be out of range")
	}
	if _, err := f.Record(0); err == nil {
		t.Error("mfn 0 should be out of range")
	}
}

func TestBigEndian(t *testing.T) {
	// Rebuild the control record big-endian and check it round-trips
	// through the option.
	mstFile := make([]byte, blockSize)
	binary.BigEndian.PutUint32(mstFile[4:8], 2)
	xrfFile := make([]byte, blockSize)
	cs, err := charset.Lookup("cp1252")
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFile(bytes.NewReader(mstFile), bytes.NewReader(xrfFile), cs, BigEndian())
	if err != nil {
		t.Fatal(err)
	}
	if f.Control().NextMFN != 2 {
		t.Errorf("NextMFN = %d, want 2", f.Control().NextMFN)
	}
}
