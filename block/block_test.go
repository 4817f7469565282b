package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zcash-block/primitives"
	"zcash-block/tx"
)

func buildCoinbaseTx() []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(1)
	e.WriteCompactSize(1)
	e.WriteHash(primitives.Hash{})
	e.WriteUint32(0xFFFFFFFF)
	e.WriteVarBytes([]byte{0x03, 0x01, 0x00, 0x00})
	e.WriteUint32(0xFFFFFFFF)
	e.WriteCompactSize(1)
	e.WriteInt64(625000000)
	e.WriteVarBytes([]byte{0x76, 0xa9, 0x14})
	e.WriteUint32(0)
	return e.Bytes()
}

func buildHeaderBytes(merkleRoot primitives.Hash) []byte {
	e := primitives.NewEncoder()
	e.WriteInt32(4)
	e.WriteHash(primitives.Hash{}) // previousblockhash
	e.WriteHash(merkleRoot)
	e.WriteHash(primitives.Hash{}) // finalsaplingroot
	e.WriteUint32(1600000000)      // time
	e.WriteUint32(0x1f07ffff)      // bits
	e.WriteBytes(make([]byte, 32)) // nonce
	e.WriteVarBytes(make([]byte, SolutionSize))
	return e.Bytes()
}

func buildBlockBytes(t *testing.T) ([]byte, primitives.Hash) {
	t.Helper()
	coinbase := buildCoinbaseTx()
	txn, err := tx.Decode(coinbase, true)
	require.NoError(t, err)
	root, err := primitives.MerkleRoot([]primitives.Hash{txn.TxID()})
	require.NoError(t, err)

	header := buildHeaderBytes(root)
	e := primitives.NewEncoder()
	e.WriteBytes(header)
	e.WriteCompactSize(1)
	e.WriteBytes(coinbase)
	return e.Bytes(), root
}

func TestDecodeEncodeBlockRoundTrip(t *testing.T) {
	raw, root := buildBlockBytes(t)
	b, err := Decode(raw, true)
	require.NoError(t, err)
	require.Len(t, b.Tx, 1)
	assert.Equal(t, root, b.MerkleRoot)
	assert.Equal(t, raw, b.Encode())
	assert.Equal(t, len(raw), b.Size())
}

func TestBlockMerkleRootMatchesHeader(t *testing.T) {
	raw, _ := buildBlockBytes(t)
	b, err := Decode(raw, true)
	require.NoError(t, err)
	computed, err := b.CalculateMerkleRoot()
	require.NoError(t, err)
	assert.Equal(t, b.MerkleRoot, computed)
}

func TestTxRawBytesIsSubstringOfBlockBytes(t *testing.T) {
	raw, _ := buildBlockBytes(t)
	b, err := Decode(raw, true)
	require.NoError(t, err)
	txBytes := b.Tx[0].RawBytes()
	assert.Contains(t, string(raw), string(txBytes))
}

func TestDecodeHeaderOnlyOmitsTxAndSize(t *testing.T) {
	raw, root := buildBlockBytes(t)
	header := raw[:HEADER_BYTES]

	b, err := DecodeHeaderOnly(header, true)
	require.NoError(t, err)
	assert.Nil(t, b.Tx)
	assert.Equal(t, 0, b.Size())
	assert.Equal(t, root, b.MerkleRoot)
	assert.Equal(t, header, b.Encode())
}

func TestHeaderSpanMustBeExact(t *testing.T) {
	raw, _ := buildBlockBytes(t)
	_, err := DecodeHeaderOnly(raw[:HEADER_BYTES-1], false)
	assert.Error(t, err)
}

func TestStrictModeRejectsTrailingBytesAfterBlock(t *testing.T) {
	raw, _ := buildBlockBytes(t)
	raw = append(raw, 0x00)
	_, err := Decode(raw, true)
	assert.Error(t, err)
}

func TestDifficultyAtGenesisBitsIsOne(t *testing.T) {
	raw, _ := buildBlockBytes(t)
	b, err := Decode(raw, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, b.Difficulty(), 0.005)
}

func TestCalculateMerkleRootFailsWithNoTransactions(t *testing.T) {
	b := &Block{Header: &Header{}}
	_, err := b.CalculateMerkleRoot()
	assert.Error(t, err)
}
