// Package primitives implements the Bitcoin-lineage binary codec building
// blocks that the Zcash block and transaction schemas are built from:
// little-endian integers, compact-size length prefixes, fixed-width byte
// fields, double-SHA-256, byte-range capture for hashing, and the
// doubled-last-node Merkle root construction. No hash-160
// (RIPEMD-160 of SHA-256) helper is provided.
package primitives

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Cursor reads sequentially from an immutable byte slice. Every Read method
// advances the cursor's position monotonically; none copy the underlying
// slice except where the caller explicitly asks for a materialized copy.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps data for sequential decoding.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current absolute read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the number of unread bytes remaining.
func (c *Cursor) Len() int {
	return len(c.data) - c.pos
}

// Remaining returns a zero-copy view of the unread tail.
func (c *Cursor) Remaining() []byte {
	return c.data[c.pos:]
}

// Bookmark records the current position for a later Slice call.
func (c *Cursor) Bookmark() int {
	return c.pos
}

// Slice returns the zero-copy span of bytes from bookmark through the
// current position. Used to capture the exact byte range that feeds a
// hash (block header hash, transaction id).
func (c *Cursor) Slice(bookmark int) []byte {
	return c.data[bookmark:c.pos]
}

func (c *Cursor) require(n int) error {
	if n < 0 || c.Len() < n {
		return errors.Errorf("truncated input: need %d bytes, have %d at offset %d", n, c.Len(), c.pos)
	}
	return nil
}

// ReadBytes returns a zero-copy view of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUint8 reads an 8-bit unsigned integer.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, errors.Wrap(err, "uint8")
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian 16-bit unsigned integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, errors.Wrap(err, "uint16")
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian 32-bit unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, errors.Wrap(err, "uint32")
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian 64-bit unsigned integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, errors.Wrap(err, "uint64")
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian signed 64-bit integer.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

// ReadCompactSize reads the Bitcoin-lineage CompactSize variable-length
// integer prefix: < 0xFD is a single byte, 0xFD a 2-byte LE, 0xFE a 4-byte
// LE, 0xFF an 8-byte LE.
func (c *Cursor) ReadCompactSize() (uint64, error) {
	tag, err := c.ReadUint8()
	if err != nil {
		return 0, errors.Wrap(err, "compact-size tag")
	}
	switch tag {
	case 0xfd:
		v, err := c.ReadUint16()
		if err != nil {
			return 0, errors.Wrap(err, "compact-size u16")
		}
		return uint64(v), nil
	case 0xfe:
		v, err := c.ReadUint32()
		if err != nil {
			return 0, errors.Wrap(err, "compact-size u32")
		}
		return uint64(v), nil
	case 0xff:
		v, err := c.ReadUint64()
		if err != nil {
			return 0, errors.Wrap(err, "compact-size u64")
		}
		return v, nil
	default:
		return uint64(tag), nil
	}
}

// ReadVarBytes reads a CompactSize length prefix followed by that many
// bytes, returning a zero-copy view of the payload.
func (c *Cursor) ReadVarBytes() ([]byte, error) {
	n, err := c.ReadCompactSize()
	if err != nil {
		return nil, errors.Wrap(err, "var-bytes length")
	}
	b, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, errors.Wrap(err, "var-bytes payload")
	}
	return b, nil
}

// ReadHash reads a fixed 32-byte hash field.
func (c *Cursor) ReadHash() (Hash, error) {
	b, err := c.ReadBytes(32)
	if err != nil {
		return Hash{}, errors.Wrap(err, "hash")
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// Finish returns an error if any bytes remain unread. Used by strict-mode
// decoders that require the whole input to be consumed.
func (c *Cursor) Finish() error {
	if c.Len() != 0 {
		return errors.Errorf("strict decode: %d trailing byte(s) at offset %d", c.Len(), c.pos)
	}
	return nil
}

// ReadVector reads a CompactSize-prefixed vector of T, invoking parse once
// per element. This is the schema engine's one recursion point: every
// nested `vector<T>` in the block/transaction schema goes through it.
func ReadVector[T any](c *Cursor, parse func(*Cursor) (T, error)) ([]T, error) {
	n, err := c.ReadCompactSize()
	if err != nil {
		return nil, errors.Wrap(err, "vector length")
	}
	out := make([]T, n)
	for i := range out {
		v, err := parse(c)
		if err != nil {
			return nil, errors.Wrapf(err, "vector element %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// ReadArray reads a fixed-count array<T, N> with no length prefix.
func ReadArray[T any](c *Cursor, n int, parse func(*Cursor) (T, error)) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := parse(c)
		if err != nil {
			return nil, errors.Wrapf(err, "array element %d", i)
		}
		out[i] = v
	}
	return out, nil
}
