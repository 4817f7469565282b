package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zcash-block/primitives"
)

// buildLegacyV1 returns a minimal, valid legacy v1 coinbase transaction:
// version=1, one input (coinbase), one output, no joinsplits.
func buildLegacyV1() []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(1) // version, not overwintered
	// vin: 1 coinbase input
	e.WriteCompactSize(1)
	e.WriteHash(primitives.Hash{}) // prevout hash: all zero
	e.WriteUint32(0xFFFFFFFF)      // prevout n
	e.WriteVarBytes([]byte{0x03, 0x01, 0x02, 0x03})
	e.WriteUint32(0xFFFFFFFF) // sequence
	// vout: 1 output
	e.WriteCompactSize(1)
	e.WriteInt64(5000000000)
	e.WriteVarBytes([]byte{0x76, 0xa9, 0x14})
	e.WriteUint32(0) // locktime
	return e.Bytes()
}

func buildLegacyV2WithJoinSplit() []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(2) // version 2, not overwintered
	e.WriteCompactSize(0)
	e.WriteCompactSize(0)
	e.WriteUint32(0) // locktime

	js := &JoinSplitDescription{
		VpubOldZat: 1,
		VpubNewZat: 2,
		Proof:      make([]byte, PHGRProofSize),
	}
	e.WriteCompactSize(1)
	encodeJoinSplitDescription(e, js)
	e.WriteHash(primitives.Hash{})
	e.WriteBytes(make([]byte, 64))
	return e.Bytes()
}

func TestDecodeEncodeLegacyV1RoundTrip(t *testing.T) {
	raw := buildLegacyV1()
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	assert.False(t, txn.Overwintered)
	assert.Equal(t, uint32(1), txn.Version)
	assert.True(t, txn.IsCoinbase())
	assert.Equal(t, raw, txn.Encode())
	assert.Equal(t, raw, txn.RawBytes())
	assert.Equal(t, primitives.DoubleSHA256(raw), txn.TxID())
}

func TestLegacyV1HasNoJoinSplitSection(t *testing.T) {
	raw := buildLegacyV1()
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	assert.Nil(t, txn.JoinSplits)
	assert.Nil(t, txn.JoinSplitPubKey)
}

func TestLegacyV2JoinSplitRoundTrip(t *testing.T) {
	raw := buildLegacyV2WithJoinSplit()
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	require.Len(t, txn.JoinSplits, 1)
	assert.False(t, txn.JoinSplits[0].UsesGroth())
	assert.Equal(t, PHGRProofSize, len(txn.JoinSplits[0].Proof))
	assert.NotNil(t, txn.JoinSplitPubKey)
	assert.NotNil(t, txn.JoinSplitSig)
	assert.Nil(t, txn.BindingSig)
	assert.Equal(t, raw, txn.Encode())
}

func buildOverwinterV3() []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(uint32(1<<31) | OverwinterTxVersion)
	e.WriteUint32(OverwinterVersionGroupID)
	e.WriteCompactSize(0)
	e.WriteCompactSize(0)
	e.WriteUint32(0)          // locktime
	e.WriteUint32(1_900_000)  // expiryheight
	e.WriteCompactSize(0)     // empty joinsplit vector
	return e.Bytes()
}

func TestOverwinterV3RoundTrip(t *testing.T) {
	raw := buildOverwinterV3()
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	assert.True(t, txn.Overwintered)
	assert.Equal(t, uint32(3), txn.Version)
	assert.Equal(t, uint32(1_900_000), txn.ExpiryHeight)
	assert.Nil(t, txn.BindingSig)
	assert.Equal(t, raw, txn.Encode())
}

func buildSaplingV4(withShielded bool) []byte {
	e := primitives.NewEncoder()
	e.WriteUint32(uint32(1<<31) | SaplingTxVersion)
	e.WriteUint32(SaplingVersionGroupID)
	e.WriteCompactSize(0)
	e.WriteCompactSize(0)
	e.WriteUint32(0) // locktime
	e.WriteUint32(0) // expiryheight
	e.WriteInt64(0)  // valueBalance

	if withShielded {
		e.WriteCompactSize(1)
		encodeSpendDescription(e, &SpendDescription{})
		e.WriteCompactSize(0)
	} else {
		e.WriteCompactSize(0)
		e.WriteCompactSize(0)
	}
	e.WriteCompactSize(0) // empty joinsplit vector
	if withShielded {
		e.WriteBytes(make([]byte, 64)) // bindingSig
	}
	return e.Bytes()
}

func TestSaplingV4NoShieldedNoBindingSig(t *testing.T) {
	raw := buildSaplingV4(false)
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	assert.Nil(t, txn.BindingSig)
	assert.Equal(t, int64(0), txn.ValueBalanceZat)
	assert.Equal(t, raw, txn.Encode())
}

func TestSaplingV4WithShieldedHasBindingSig(t *testing.T) {
	raw := buildSaplingV4(true)
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	require.Len(t, txn.ShieldedSpends, 1)
	assert.NotNil(t, txn.BindingSig)
	assert.True(t, txn.JoinSplits != nil || len(txn.JoinSplits) == 0)
	assert.Equal(t, raw, txn.Encode())
}

func TestUnknownOverwinteredShapeFails(t *testing.T) {
	e := primitives.NewEncoder()
	e.WriteUint32(uint32(1<<31) | 5) // bogus version 5 with overwinter bit
	e.WriteUint32(0xAABBCCDD)        // bogus group id
	_, err := Decode(e.Bytes(), false)
	assert.Error(t, err)
}

func TestStrictModeRejectsTrailingBytes(t *testing.T) {
	raw := buildLegacyV1()
	raw = append(raw, 0xAA)
	_, err := Decode(raw, true)
	assert.Error(t, err)

	txn, err := Decode(raw, false)
	require.NoError(t, err)
	assert.NotEqual(t, raw, txn.RawBytes())
}

func TestTruncatedInputFails(t *testing.T) {
	raw := buildLegacyV1()
	_, err := Decode(raw[:len(raw)-5], true)
	assert.Error(t, err)
}

func TestCoinbaseHeight(t *testing.T) {
	raw := buildLegacyV1()
	txn, err := Decode(raw, true)
	require.NoError(t, err)
	h, ok := txn.CoinbaseHeight()
	require.True(t, ok)
	assert.Equal(t, int64(0x030201), h)
}
