package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactSizeRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 252, 253, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1344}
	for _, n := range cases {
		e := NewEncoder()
		e.WriteCompactSize(n)
		c := NewCursor(e.Bytes())
		got, err := c.ReadCompactSize()
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, len(e.Bytes()), CompactSizeLen(int(n)))
		assert.NoError(t, c.Finish())
	}
}

func TestCompactSizeWireForm(t *testing.T) {
	// 1344-byte Equihash solution length prefix must be the literal
	// 0xfd4005 spec.md calls out.
	e := NewEncoder()
	e.WriteCompactSize(1344)
	assert.Equal(t, []byte{0xfd, 0x40, 0x05}, e.Bytes())
}

func TestCursorTruncated(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	_, err := c.ReadUint32()
	assert.Error(t, err)
}

func TestCursorStrictTrailingBytes(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})
	_, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Error(t, c.Finish())
}

func TestBookmarkSliceCapture(t *testing.T) {
	c := NewCursor([]byte{0xde, 0xad, 0xbe, 0xef, 0xff})
	start := c.Bookmark()
	_, err := c.ReadBytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, c.Slice(start))
}

func TestReadVectorAndArray(t *testing.T) {
	e := NewEncoder()
	WriteVector(e, []uint32{1, 2, 3}, func(e *Encoder, v uint32) { e.WriteUint32(v) })
	c := NewCursor(e.Bytes())
	got, err := ReadVector(c, func(c *Cursor) (uint32, error) { return c.ReadUint32() })
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, got)

	e2 := NewEncoder()
	WriteArray(e2, []uint32{9, 8}, func(e *Encoder, v uint32) { e.WriteUint32(v) })
	c2 := NewCursor(e2.Bytes())
	got2, err := ReadArray(c2, 2, func(c *Cursor) (uint32, error) { return c.ReadUint32() })
	require.NoError(t, err)
	assert.Equal(t, []uint32{9, 8}, got2)
}

func TestDoubleSHA256(t *testing.T) {
	h := DoubleSHA256([]byte("hello"))
	assert.Len(t, h[:], 32)
}

func TestHashHexRoundTrip(t *testing.T) {
	h := DoubleSHA256([]byte("zcash"))
	s := ToHex(h)
	back, err := HashFromHex(s)
	require.NoError(t, err)
	assert.Equal(t, h, back)
}
