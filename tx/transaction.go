// Package tx implements the Zcash transaction schema: the variant-heavy
// transparent/Overwinter/Sapling shapes, the Sapling shielded spend and
// output descriptions, and Sprout JoinSplits, decoded and encoded
// byte-for-byte from/to the consensus wire form.
package tx

import (
	"github.com/pkg/errors"

	"zcash-block/primitives"
)

// Version-group identifiers and the versions they're legal with
// (spec.md §3, §4.4). These are the only two overwintered shapes this
// decoder accepts; v5/Orchard (NU5) is out of scope — see DESIGN.md.
const (
	OverwinterVersionGroupID uint32 = 0x03C48270
	OverwinterTxVersion      uint32 = 3

	SaplingVersionGroupID uint32 = 0x892F2085
	SaplingTxVersion      uint32 = 4
)

// coinbasePrevOutIndex is the sentinel previous-output index (n) that,
// combined with an all-zero previous-outpoint hash, marks a coinbase
// input.
const coinbasePrevOutIndex uint32 = 0xFFFFFFFF

// TxIn is a transparent transaction input.
type TxIn struct {
	PrevTxHash     primitives.Hash
	PrevTxOutIndex uint32
	ScriptSig      []byte
	Sequence       uint32
}

// IsCoinbasePrevOut reports whether this input's previous outpoint is the
// all-zero coinbase sentinel.
func (in *TxIn) IsCoinbasePrevOut() bool {
	return in.PrevTxHash == (primitives.Hash{}) && in.PrevTxOutIndex == coinbasePrevOutIndex
}

func decodeTxIn(c *primitives.Cursor) (*TxIn, error) {
	in := &TxIn{}
	var err error
	if in.PrevTxHash, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "prevout hash")
	}
	if in.PrevTxOutIndex, err = c.ReadUint32(); err != nil {
		return nil, errors.Wrap(err, "prevout n")
	}
	script, err := c.ReadVarBytes()
	if err != nil {
		return nil, errors.Wrap(err, "scriptSig")
	}
	in.ScriptSig = append([]byte(nil), script...)
	if in.Sequence, err = c.ReadUint32(); err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	return in, nil
}

func encodeTxIn(e *primitives.Encoder, in *TxIn) {
	e.WriteHash(in.PrevTxHash)
	e.WriteUint32(in.PrevTxOutIndex)
	e.WriteVarBytes(in.ScriptSig)
	e.WriteUint32(in.Sequence)
}

// TxOut is a transparent transaction output.
type TxOut struct {
	ValueZat     int64
	ScriptPubKey []byte
}

func decodeTxOut(c *primitives.Cursor) (*TxOut, error) {
	out := &TxOut{}
	v, err := c.ReadInt64()
	if err != nil {
		return nil, errors.Wrap(err, "value")
	}
	out.ValueZat = v
	script, err := c.ReadVarBytes()
	if err != nil {
		return nil, errors.Wrap(err, "scriptPubKey")
	}
	out.ScriptPubKey = append([]byte(nil), script...)
	return out, nil
}

func encodeTxOut(e *primitives.Encoder, out *TxOut) {
	e.WriteInt64(out.ValueZat)
	e.WriteVarBytes(out.ScriptPubKey)
}

// Transaction is a fully decoded Zcash transaction in any of its four
// on-wire shapes (legacy v1/v2, Overwinter v3, Sapling v4). Fields that
// don't apply to a given shape are left at their zero value, matching
// spec.md §3's "logically stored as 0 / null" framing.
type Transaction struct {
	Overwintered   bool
	Version        uint32
	VersionGroupID uint32

	Vin      []*TxIn
	Vout     []*TxOut
	LockTime uint32

	ExpiryHeight uint32 // v3/v4 only

	ValueBalanceZat int64                 // v4 only
	ShieldedSpends  []*SpendDescription   // v4 only
	ShieldedOutputs []*OutputDescription  // v4 only
	JoinSplits      []*JoinSplitDescription // version >= 2

	JoinSplitPubKey *primitives.Hash // present iff len(JoinSplits) > 0
	JoinSplitSig    *[64]byte        // present iff len(JoinSplits) > 0

	BindingSig *[64]byte // present iff v4 and shielded spends+outputs non-empty

	rawBytes []byte
	txid     *primitives.Hash
}

// isOverwinterV3 reports whether this transaction is shaped as Overwinter v3.
func (t *Transaction) isOverwinterV3() bool {
	return t.Overwintered && t.Version == OverwinterTxVersion
}

// isSaplingV4 reports whether this transaction is shaped as Sapling v4.
func (t *Transaction) isSaplingV4() bool {
	return t.Overwintered && t.Version == SaplingTxVersion
}

// hasExpiry reports whether this shape carries an expiryheight field.
func (t *Transaction) hasExpiry() bool {
	return t.isOverwinterV3() || t.isSaplingV4()
}

// hasJoinSplitSection reports whether this shape carries a (possibly
// empty) vjoinsplit vector.
func (t *Transaction) hasJoinSplitSection() bool {
	return t.Version >= 2
}

// hasBindingSig reports whether this transaction's shielded vectors are
// non-empty and therefore carry a bindingSig.
func (t *Transaction) hasBindingSig() bool {
	return t.isSaplingV4() && (len(t.ShieldedSpends)+len(t.ShieldedOutputs) > 0)
}

// IsCoinbase reports whether this transaction has exactly one input whose
// previous outpoint is the coinbase sentinel: an all-zero hash and an
// index of 0xFFFFFFFF.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Vin) == 1 && t.Vin[0].IsCoinbasePrevOut()
}

// CoinbaseHeight extracts the block height BIP34-encoded in the first
// push of a coinbase input's scriptSig. ok is false if this isn't a
// coinbase transaction or the push doesn't decode to a valid height.
func (t *Transaction) CoinbaseHeight() (height int64, ok bool) {
	if !t.IsCoinbase() {
		return 0, false
	}
	script := t.Vin[0].ScriptSig
	if len(script) < 2 {
		return 0, false
	}
	pushLen := int(script[0])
	if pushLen < 1 || pushLen > 8 || 1+pushLen > len(script) {
		return 0, false
	}
	var h int64
	for i, b := range script[1 : 1+pushLen] {
		h |= int64(b) << (8 * i)
	}
	return h, true
}

// TxID returns the double-SHA-256 of the transaction's exact byte span,
// in wire order; primitives.ToHex renders it in display (byte-reversed)
// form.
func (t *Transaction) TxID() primitives.Hash {
	if t.txid != nil {
		return *t.txid
	}
	h := primitives.DoubleSHA256(t.rawBytes)
	t.txid = &h
	return h
}

// RawBytes returns the transaction's exact consensus-serialized byte span.
func (t *Transaction) RawBytes() []byte {
	return t.rawBytes
}

// Decode parses a single transaction from data. If strict, trailing bytes
// after the transaction are a decode error.
func Decode(data []byte, strict bool) (*Transaction, error) {
	c := primitives.NewCursor(data)
	t, err := decodeFromCursor(c)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := c.Finish(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DecodeFromCursor parses one transaction starting at the cursor's
// current position, leaving the cursor positioned just past it. Exported
// for block decoding, where a block's whole transaction vector shares one
// cursor with the header that precedes it.
func DecodeFromCursor(c *primitives.Cursor) (*Transaction, error) {
	return decodeFromCursor(c)
}

func decodeFromCursor(c *primitives.Cursor) (*Transaction, error) {
	start := c.Bookmark()
	t := &Transaction{}

	header, err := c.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(err, "version/overwintered header")
	}
	t.Overwintered = header>>31 != 0
	t.Version = header & 0x7FFFFFFF

	if t.Overwintered {
		if t.VersionGroupID, err = c.ReadUint32(); err != nil {
			return nil, errors.Wrap(err, "versiongroupid")
		}
		switch {
		case t.VersionGroupID == OverwinterVersionGroupID && t.Version == OverwinterTxVersion:
		case t.VersionGroupID == SaplingVersionGroupID && t.Version == SaplingTxVersion:
		default:
			return nil, errors.Errorf(
				"unknown transaction shape: overwintered=true version=%d versiongroupid=%#x",
				t.Version, t.VersionGroupID)
		}
	}

	if t.Vin, err = primitives.ReadVector(c, decodeTxIn); err != nil {
		return nil, errors.Wrap(err, "vin")
	}
	if t.Vout, err = primitives.ReadVector(c, decodeTxOut); err != nil {
		return nil, errors.Wrap(err, "vout")
	}
	if t.LockTime, err = c.ReadUint32(); err != nil {
		return nil, errors.Wrap(err, "locktime")
	}

	if t.hasExpiry() {
		if t.ExpiryHeight, err = c.ReadUint32(); err != nil {
			return nil, errors.Wrap(err, "expiryheight")
		}
	}

	if t.isSaplingV4() {
		if t.ValueBalanceZat, err = c.ReadInt64(); err != nil {
			return nil, errors.Wrap(err, "valueBalance")
		}
		if t.ShieldedSpends, err = primitives.ReadVector(c, decodeSpendDescription); err != nil {
			return nil, errors.Wrap(err, "vShieldedSpend")
		}
		if t.ShieldedOutputs, err = primitives.ReadVector(c, decodeOutputDescription); err != nil {
			return nil, errors.Wrap(err, "vShieldedOutput")
		}
	}

	if t.hasJoinSplitSection() {
		useGroth := t.isSaplingV4()
		t.JoinSplits, err = primitives.ReadVector(c, func(c *primitives.Cursor) (*JoinSplitDescription, error) {
			return decodeJoinSplitDescription(c, useGroth)
		})
		if err != nil {
			return nil, errors.Wrap(err, "vjoinsplit")
		}
		if len(t.JoinSplits) > 0 {
			pubKey, err := c.ReadHash()
			if err != nil {
				return nil, errors.Wrap(err, "joinSplitPubKey")
			}
			t.JoinSplitPubKey = &pubKey
			sigBytes, err := c.ReadBytes(64)
			if err != nil {
				return nil, errors.Wrap(err, "joinSplitSig")
			}
			var sig [64]byte
			copy(sig[:], sigBytes)
			t.JoinSplitSig = &sig
		}
	}

	if t.hasBindingSig() {
		sigBytes, err := c.ReadBytes(64)
		if err != nil {
			return nil, errors.Wrap(err, "bindingSig")
		}
		var sig [64]byte
		copy(sig[:], sigBytes)
		t.BindingSig = &sig
	}

	t.rawBytes = c.Slice(start)
	return t, nil
}

// Encode re-serializes the transaction to its exact consensus byte form.
func (t *Transaction) Encode() []byte {
	e := primitives.NewEncoder()
	encodeInto(e, t)
	return e.Bytes()
}

func encodeInto(e *primitives.Encoder, t *Transaction) {
	var header uint32 = t.Version & 0x7FFFFFFF
	if t.Overwintered {
		header |= 1 << 31
	}
	e.WriteUint32(header)
	if t.Overwintered {
		e.WriteUint32(t.VersionGroupID)
	}

	primitives.WriteVector(e, t.Vin, encodeTxIn)
	primitives.WriteVector(e, t.Vout, encodeTxOut)
	e.WriteUint32(t.LockTime)

	if t.hasExpiry() {
		e.WriteUint32(t.ExpiryHeight)
	}

	if t.isSaplingV4() {
		e.WriteInt64(t.ValueBalanceZat)
		primitives.WriteVector(e, t.ShieldedSpends, encodeSpendDescription)
		primitives.WriteVector(e, t.ShieldedOutputs, encodeOutputDescription)
	}

	if t.hasJoinSplitSection() {
		primitives.WriteVector(e, t.JoinSplits, encodeJoinSplitDescription)
		if len(t.JoinSplits) > 0 {
			e.WriteHash(*t.JoinSplitPubKey)
			e.WriteBytes(t.JoinSplitSig[:])
		}
	}

	if t.hasBindingSig() {
		e.WriteBytes(t.BindingSig[:])
	}
}

// Finalize recomputes rawBytes and the cached txid from the transaction's
// current field values. Used after constructing a Transaction from
// porcelain, where rawBytes doesn't exist yet.
func (t *Transaction) Finalize() {
	t.rawBytes = t.Encode()
	t.txid = nil
}
