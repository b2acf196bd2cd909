package mst

import (
	"fmt"
	"io"
	"strconv"

	"github.com/scieloorg/isis-format/go-isis/record"
)

// Decoder iterates the master file in MFN order.
type Decoder struct {
	f   *File
	mfn int
}

// Decoder returns a fresh iterator starting at MFN 1.
func (f *File) Decoder() *Decoder {
	return &Decoder{f: f, mfn: 1}
}

// Decode returns the next record, or io.EOF past the last assigned
// MFN. Inexistent entries are skipped; logically deleted ones are
// skipped too unless IncludeDeleted was set.
func (d *Decoder) Decode() (*record.Record, error) {
	for ; d.mfn < int(d.f.control.NextMFN); d.mfn++ {
		off, deleted, ok, err := d.f.pointer(d.mfn)
		if err != nil {
			return nil, err
		}
		if !ok || (deleted && !d.f.opt.includeDeleted) {
			continue
		}
		rec, err := d.f.readAt(off, d.mfn, deleted)
		if err != nil {
			return nil, err
		}
		d.mfn++
		return rec, nil
	}
	return nil, io.EOF
}

// Record reads a single record by MFN.
func (f *File) Record(mfn int) (*record.Record, error) {
	if mfn < 1 || mfn >= int(f.control.NextMFN) {
		return nil, fmt.Errorf("%w: mfn %d out of range", ErrRead, mfn)
	}
	off, deleted, ok, err := f.pointer(mfn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: mfn %d does not exist", ErrRead, mfn)
	}
	return f.readAt(off, mfn, deleted)
}

type leader struct {
	mfn    int32
	mfrl   int16
	mfbwb  int32
	mfbwp  int16
	base   int16
	nvf    int16
	status int16
}

func (f *File) readAt(off int64, mfn int, deleted bool) (*record.Record, error) {
	o := f.opt.order
	lb := make([]byte, leaderSize)
	if _, err := f.mst.ReadAt(lb, off); err != nil {
		return nil, fmt.Errorf("%w: leader of mfn %d: %v", ErrRead, mfn, err)
	}
	l := leader{
		mfn:    int32(o.Uint32(lb[0:4])),
		mfrl:   int16(o.Uint16(lb[4:6])),
		mfbwb:  int32(o.Uint32(lb[6:10])),
		mfbwp:  int16(o.Uint16(lb[10:12])),
		base:   int16(o.Uint16(lb[12:14])),
		nvf:    int16(o.Uint16(lb[14:16])),
		status: int16(o.Uint16(lb[16:18])),
	}
	if int(l.mfn) != mfn {
		return nil, fmt.Errorf("%w: mfn %d points at record %d", ErrRead, mfn, l.mfn)
	}
	mfrl := int(l.mfrl)
	if mfrl < 0 {
		mfrl, deleted = -mfrl, true
	}
	if mfrl < leaderSize || int(l.nvf) < 0 || int(l.base) < leaderSize {
		return nil, fmt.Errorf("%w: bad leader for mfn %d", ErrRead, mfn)
	}
	if int(l.base) != leaderSize+dirEntrySize*int(l.nvf) {
		return nil, fmt.Errorf("%w: mfn %d: base %d does not match %d fields",
			ErrRead, mfn, l.base, l.nvf)
	}

	body := make([]byte, mfrl-leaderSize)
	if _, err := f.mst.ReadAt(body, off+leaderSize); err != nil {
		return nil, fmt.Errorf("%w: body of mfn %d: %v", ErrRead, mfn, err)
	}
	dir := body[:dirEntrySize*int(l.nvf)]
	data := body[int(l.base)-leaderSize:]

	rec := &record.Record{
		MFN:    mfn,
		Active: !deleted && l.status == 0,
		Meta:   true,
	}
	for i := 0; i < int(l.nvf); i++ {
		e := dir[i*dirEntrySize:]
		tag := int16(o.Uint16(e[0:2]))
		pos := int(int16(o.Uint16(e[2:4])))
		size := int(int16(o.Uint16(e[4:6])))
		if pos < 0 || size < 0 || pos+size > len(data) {
			return nil, fmt.Errorf("%w: mfn %d: field %d outside record data",
				ErrRead, mfn, tag)
		}
		value, err := f.cs.Decode(data[pos : pos+size])
		if err != nil {
			return nil, fmt.Errorf("%w: mfn %d: field %d: %v", ErrRead, mfn, tag, err)
		}
		rec.Add(strconv.Itoa(int(tag)), value)
	}
	return rec, nil
}
