package porcelain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zcash-block/block"
	"zcash-block/primitives"
	"zcash-block/tx"
)

func buildCoinbaseTxBytes() []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(1)
	e.WriteCompactSize(1)
	e.WriteHash(primitives.Hash{})
	e.WriteUint32(0xFFFFFFFF)
	e.WriteVarBytes([]byte{0x03, 0x01, 0x00, 0x00})
	e.WriteUint32(0xFFFFFFFF)
	e.WriteCompactSize(1)
	e.WriteInt64(625000000)
	e.WriteVarBytes(append([]byte{0x76, 0xa9, 0x14}, append(make([]byte, 20), 0x88, 0xac)...))
	e.WriteUint32(0)
	return e.Bytes()
}

func buildTestBlock(t *testing.T) *block.Block {
	t.Helper()
	coinbase := buildCoinbaseTxBytes()
	txn, err := tx.Decode(coinbase, true)
	require.NoError(t, err)
	root, err := primitives.MerkleRoot([]primitives.Hash{txn.TxID()})
	require.NoError(t, err)

	e := primitives.NewEncoder()
	e.WriteInt32(4)
	e.WriteHash(primitives.Hash{})
	e.WriteHash(root)
	e.WriteHash(primitives.Hash{})
	e.WriteUint32(1600000000)
	e.WriteUint32(0x1f07ffff)
	e.WriteBytes(make([]byte, 32))
	e.WriteVarBytes(make([]byte, block.SolutionSize))
	e.WriteCompactSize(1)
	e.WriteBytes(coinbase)

	b, err := block.Decode(e.Bytes(), true)
	require.NoError(t, err)
	return b
}

func TestBlockToPorcelainOmitsGenesisPreviousBlockHash(t *testing.T) {
	b := buildTestBlock(t)
	v := BlockToPorcelain(b, ModeDefault)
	_, has := v["previousblockhash"]
	assert.False(t, has)
}

func TestBlockToPorcelainDefaultModeHasFullTx(t *testing.T) {
	b := buildTestBlock(t)
	v := BlockToPorcelain(b, ModeDefault)
	txs, ok := v["tx"].([]V)
	require.True(t, ok)
	require.Len(t, txs, 1)
	assert.Contains(t, txs[0]["vin"].([]V)[0], "coinbase")
	assert.Equal(t, len(b.Encode()), v["size"])
}

func TestBlockToPorcelainMinModeHasTxids(t *testing.T) {
	b := buildTestBlock(t)
	v := BlockToPorcelain(b, ModeMin)
	txids, ok := v["tx"].([]string)
	require.True(t, ok)
	require.Len(t, txids, 1)
	assert.Equal(t, primitives.ToHex(b.Tx[0].TxID()), txids[0])
}

func TestBlockToPorcelainHeaderModeOmitsTxAndSize(t *testing.T) {
	b := buildTestBlock(t)
	v := BlockToPorcelain(b, ModeHeader)
	_, hasTx := v["tx"]
	_, hasSize := v["size"]
	assert.False(t, hasTx)
	assert.False(t, hasSize)
}

func TestBlockPorcelainRoundTrip(t *testing.T) {
	b := buildTestBlock(t)
	raw := b.Encode()
	v := BlockToPorcelain(b, ModeDefault)
	reconstructed, err := BlockFromPorcelain(v)
	require.NoError(t, err)
	assert.Equal(t, raw, reconstructed.Encode())
}

func TestBlockFromPorcelainRejectsMinMode(t *testing.T) {
	b := buildTestBlock(t)
	v := BlockToPorcelain(b, ModeMin)
	_, err := BlockFromPorcelain(v)
	assert.Error(t, err)
}

func TestBlockFromPorcelainMissingFieldFails(t *testing.T) {
	v := V{"version": 4.0}
	_, err := BlockFromPorcelain(v)
	assert.Error(t, err)
}

func TestTransactionPorcelainCoinbaseVin(t *testing.T) {
	txn, err := tx.Decode(buildCoinbaseTxBytes(), true)
	require.NoError(t, err)
	v := TransactionToPorcelain(txn)
	vin, ok := v["vin"].([]V)
	require.True(t, ok)
	require.Len(t, vin, 1)
	assert.Contains(t, vin[0], "coinbase")
	assert.NotContains(t, vin[0], "txid")
}

func TestTransactionPorcelainRoundTrip(t *testing.T) {
	raw := buildCoinbaseTxBytes()
	txn, err := tx.Decode(raw, true)
	require.NoError(t, err)
	v := TransactionToPorcelain(txn)
	reconstructed, err := TransactionFromPorcelain(v)
	require.NoError(t, err)
	assert.Equal(t, raw, reconstructed.Encode())
}

func TestTransactionPorcelainValueIsInCoins(t *testing.T) {
	txn, err := tx.Decode(buildCoinbaseTxBytes(), true)
	require.NoError(t, err)
	v := TransactionToPorcelain(txn)
	vout := v["vout"].([]V)
	assert.Equal(t, 6.25, vout[0]["value"])
}

func TestVoutAddressesForP2PKH(t *testing.T) {
	txn, err := tx.Decode(buildCoinbaseTxBytes(), true)
	require.NoError(t, err)
	v := TransactionToPorcelain(txn)
	vout := v["vout"].([]V)
	spk := vout[0]["scriptPubKey"].(V)
	assert.Equal(t, "pubkeyhash", spk["type"])
	assert.Equal(t, 1, spk["reqSigs"])
	addrs := spk["addresses"].([]string)
	require.Len(t, addrs, 1)
	assert.Equal(t, byte('t'), addrs[0][0])
}
