package primitives

import (
	"bytes"
	"encoding/binary"
)

// Encoder accumulates encoded segments in strict schema order and yields
// the concatenated bytes. Encoding never fails: every value that was
// successfully decoded is, by construction, encodable.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the freshly materialized encoded byte string.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteBytes appends raw bytes verbatim.
func (e *Encoder) WriteBytes(b []byte) {
	e.buf.Write(b)
}

// WriteUint8 appends an 8-bit unsigned integer.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf.WriteByte(v)
}

// WriteUint16 appends a little-endian 16-bit unsigned integer.
func (e *Encoder) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

// WriteUint32 appends a little-endian 32-bit unsigned integer.
func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// WriteUint64 appends a little-endian 64-bit unsigned integer.
func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteInt32 appends a little-endian signed 32-bit integer. Zcash's
// overwintered header bit is written through the unsigned path: per
// spec.md §9, a signed write of a value with the high bit set produces
// the identical byte pattern to an unsigned write, so both sides treat it
// as unsigned.
func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

// WriteInt64 appends a little-endian signed 64-bit integer.
func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

// WriteCompactSize appends the CompactSize variable-length prefix.
func (e *Encoder) WriteCompactSize(n uint64) {
	switch {
	case n < 0xfd:
		e.WriteUint8(uint8(n))
	case n <= 0xffff:
		e.WriteUint8(0xfd)
		e.WriteUint16(uint16(n))
	case n <= 0xffffffff:
		e.WriteUint8(0xfe)
		e.WriteUint32(uint32(n))
	default:
		e.WriteUint8(0xff)
		e.WriteUint64(n)
	}
}

// WriteVarBytes appends a CompactSize length prefix followed by b.
func (e *Encoder) WriteVarBytes(b []byte) {
	e.WriteCompactSize(uint64(len(b)))
	e.WriteBytes(b)
}

// WriteHash appends a fixed 32-byte hash field.
func (e *Encoder) WriteHash(h Hash) {
	e.buf.Write(h[:])
}

// CompactSizeLen returns the number of bytes a CompactSize prefix for n
// occupies, without writing anything.
func CompactSizeLen(n int) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVector writes a CompactSize-prefixed vector, invoking write once
// per element. The mirror of ReadVector on the encode side.
func WriteVector[T any](e *Encoder, items []T, write func(*Encoder, T)) {
	e.WriteCompactSize(uint64(len(items)))
	for _, item := range items {
		write(e, item)
	}
}

// WriteArray writes a fixed-count array<T, N> with no length prefix.
func WriteArray[T any](e *Encoder, items []T, write func(*Encoder, T)) {
	for _, item := range items {
		write(e, item)
	}
}
