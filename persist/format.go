package persist

import (
	"encoding/binary"
	"io"
)

// magic identifies an indexa snapshot file. It is checked byte-for-byte
// before anything else in the header is trusted.
var magic = [4]byte{'I', 'X', 'A', '1'}

// foldPresentBit is set in the on-disk flags word when a case-fold
// interner block follows the primary interner block.
const foldPresentBit uint32 = 1 << 8

// encoder accumulates the first error it hits and ignores every write
// after that, so callers can chain a long sequence of field writes and
// check err once at the end instead of after every call.
type encoder struct {
	w   io.Writer
	err error
}

func newEncoder(w io.Writer) *encoder { return &encoder{w: w} }

func (e *encoder) raw(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) u8(v uint8)   { e.raw([]byte{v}) }
func (e *encoder) u32(v uint32) { e.write(v) }
func (e *encoder) u64(v uint64) { e.write(v) }
func (e *encoder) s32(v int32)  { e.write(v) }
func (e *encoder) s64(v int64)  { e.write(v) }

func (e *encoder) write(v any) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

// str writes a length-prefixed byte string. Paths are stored as raw bytes,
// preserving the host's native path encoding rather than forcing UTF-8.
func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.raw([]byte(s))
}

// decoder is the read-side counterpart of encoder: the first error is
// sticky, and every subsequent read is a no-op returning the zero value.
type decoder struct {
	r   io.Reader
	err error
}

func newDecoder(r io.Reader) *decoder { return &decoder{r: r} }

func (d *decoder) raw(b []byte) {
	if d.err != nil {
		return
	}
	_, d.err = io.ReadFull(d.r, b)
}

func (d *decoder) u8() uint8 {
	var b [1]byte
	d.raw(b[:])
	return b[0]
}

func (d *decoder) u32() uint32 {
	var v uint32
	d.read(&v)
	return v
}

func (d *decoder) u64() uint64 {
	var v uint64
	d.read(&v)
	return v
}

func (d *decoder) s32() int32 {
	var v int32
	d.read(&v)
	return v
}

func (d *decoder) s64() int64 {
	var v int64
	d.read(&v)
	return v
}

func (d *decoder) read(v any) {
	if d.err != nil {
		return
	}
	d.err = binary.Read(d.r, binary.LittleEndian, v)
}

func (d *decoder) bool() bool { return d.u8() != 0 }

func (d *decoder) str() string {
	n := d.u32()
	if d.err != nil || n == 0 {
		return ""
	}
	b := make([]byte, n)
	d.raw(b)
	return string(b)
}
