// Package mst reads legacy ISIS master files: the .mst record file and
// its .xrf cross-reference file of record pointers. The layout is the
// classic CISIS one: 512-byte blocks, a control record in the first
// block, records of leader + directory + field data located through XRF
// pointers.
//
// Only reading is supported; converting into a master file goes through
// the ISO2709 encoder instead, like the original tooling.
package mst

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scieloorg/isis-format/go-isis/charset"
)

const (
	blockSize = 512

	// XRF blocks carry one int32 header plus this many pointers.
	xrfPerBlock = 127

	leaderSize   = 18
	dirEntrySize = 6
)

var ErrRead = errors.New("mst read")

// Option configures a File.
type Option func(*opts)

type opts struct {
	order          binary.ByteOrder
	includeDeleted bool
}

// BigEndian reads master files written on big-endian platforms.
func BigEndian() Option {
	return func(o *opts) { o.order = binary.BigEndian }
}

// IncludeDeleted also yields logically deleted records, with their
// active flag off.
func IncludeDeleted(v bool) Option {
	return func(o *opts) { o.includeDeleted = v }
}

// Control is the master file control record.
type Control struct {
	CtlMFN     int32
	NextMFN    int32
	NextBlock  int32
	NextOffset int16
	Type       int16
	RecCount   int32
	MFCXX1     int32
	MFCXX2     int32
	MFCXX3     int32
}

// File is an open master file pair.
type File struct {
	mst     io.ReaderAt
	xrf     io.ReaderAt
	cs      *charset.Charset
	opt     opts
	control Control
	closers []io.Closer
}

// Open opens path (the .mst) and its sibling .xrf; field content is
// decoded to text with cs.
func Open(path string, cs *charset.Charset, options ...Option) (*File, error) {
	mstF, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	xrfF, err := os.Open(xrfPath(path))
	if err != nil {
		mstF.Close()
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	f, err := NewFile(mstF, xrfF, cs, options...)
	if err != nil {
		mstF.Close()
		xrfF.Close()
		return nil, err
	}
	f.closers = []io.Closer{mstF, xrfF}
	return f, nil
}

// NewFile builds a File over already-open readers and loads the control
// record.
func NewFile(mst, xrf io.ReaderAt, cs *charset.Charset, options ...Option) (*File, error) {
	opt := opts{order: binary.LittleEndian}
	for _, o := range options {
		o(&opt)
	}
	f := &File{mst: mst, xrf: xrf, cs: cs, opt: opt}
	if err := f.readControl(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) Control() Control { return f.control }

func (f *File) Close() error {
	var err error
	for _, c := range f.closers {
		if e := c.Close(); err == nil {
			err = e
		}
	}
	return err
}

func (f *File) readControl() error {
	b := make([]byte, 32)
	if _, err := f.mst.ReadAt(b, 0); err != nil {
		return fmt.Errorf("%w: control record: %v", ErrRead, err)
	}
	o := f.opt.order
	f.control = Control{
		CtlMFN:     int32(o.Uint32(b[0:4])),
		NextMFN:    int32(o.Uint32(b[4:8])),
		NextBlock:  int32(o.Uint32(b[8:12])),
		NextOffset: int16(o.Uint16(b[12:14])),
		Type:       int16(o.Uint16(b[14:16])),
		RecCount:   int32(o.Uint32(b[16:20])),
		MFCXX1:     int32(o.Uint32(b[20:24])),
		MFCXX2:     int32(o.Uint32(b[24:28])),
		MFCXX3:     int32(o.Uint32(b[28:32])),
	}
	if f.control.NextMFN <= 0 {
		return fmt.Errorf("%w: control record: next mfn %d", ErrRead, f.control.NextMFN)
	}
	return nil
}

// pointer reads the XRF entry for mfn and returns the record's absolute
// offset in the master file. Entries <= 0 mark inexistent records;
// negative blocks mark logically deleted ones.
func (f *File) pointer(mfn int) (offset int64, deleted bool, ok bool, err error) {
	blockIdx := (mfn - 1) / xrfPerBlock
	entry := (mfn - 1) % xrfPerBlock
	b := make([]byte, 4)
	at := int64(blockIdx)*blockSize + 4 + int64(entry)*4
	if _, err := f.xrf.ReadAt(b, at); err != nil {
		return 0, false, false, fmt.Errorf("%w: xrf entry for mfn %d: %v", ErrRead, mfn, err)
	}
	pv := int32(f.opt.order.Uint32(b))
	if pv == 0 {
		return 0, false, false, nil
	}
	if pv < 0 {
		pv, deleted = -pv, true
	}
	block := int64(pv / 2048)
	off := int64(pv % 2048)
	if block < 1 {
		return 0, false, false, nil
	}
	return (block-1)*blockSize + off, deleted, true, nil
}

func xrfPath(mstPath string) string {
	for _, ext := range []string{".mst", ".MST"} {
		if strings.HasSuffix(mstPath, ext) {
			base := mstPath[:len(mstPath)-len(ext)]
			if ext == ".MST" {
				return base + ".XRF"
			}
			return base + ".xrf"
		}
	}
	return mstPath + ".xrf"
}
