package tx

import (
	"github.com/pkg/errors"

	"zcash-block/primitives"
)

// Proof byte widths for the two Sprout proof encodings a JoinSplit may
// carry. GrothProof replaces PHGRProof from Sapling onward (spec.md §4.5,
// §9 "Proof-type ambiguity").
const (
	GrothProofSize = 192
	PHGRProofSize  = 296
)

// JoinSplitDescription is a JoinSplit description (Zcash protocol spec
// §7.2): a Sprout-era shielded transfer. Its proof is PHGRProof
// pre-Sapling and GrothProof from Sapling onward; this type stores the
// proof as opaque bytes (its length tells the two apart) since the core
// only needs a lossless round trip, never proof verification.
type JoinSplitDescription struct {
	VpubOldZat    int64
	VpubNewZat    int64
	Anchor        primitives.Hash
	Nullifiers    [2]primitives.Hash
	Commitments   [2]primitives.Hash
	OnetimePubKey primitives.Hash
	RandomSeed    primitives.Hash
	Macs          [2]primitives.Hash
	Proof         []byte // GrothProofSize or PHGRProofSize bytes, opaque
	Ciphertexts   [2][601]byte
}

// UsesGroth reports whether this description's proof is the 192-byte
// Groth16 encoding, as opposed to the 296-byte PHGR encoding.
func (j *JoinSplitDescription) UsesGroth() bool {
	return len(j.Proof) == GrothProofSize
}

func decodeJoinSplitDescription(c *primitives.Cursor, useGroth bool) (*JoinSplitDescription, error) {
	j := &JoinSplitDescription{}
	var err error

	vOld, err := c.ReadUint64()
	if err != nil {
		return nil, errors.Wrap(err, "vpub_old")
	}
	j.VpubOldZat = int64(vOld)

	vNew, err := c.ReadUint64()
	if err != nil {
		return nil, errors.Wrap(err, "vpub_new")
	}
	j.VpubNewZat = int64(vNew)

	if j.Anchor, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "anchor")
	}
	for i := range j.Nullifiers {
		if j.Nullifiers[i], err = c.ReadHash(); err != nil {
			return nil, errors.Wrapf(err, "nullifier %d", i)
		}
	}
	for i := range j.Commitments {
		if j.Commitments[i], err = c.ReadHash(); err != nil {
			return nil, errors.Wrapf(err, "commitment %d", i)
		}
	}
	if j.OnetimePubKey, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "onetimePubKey")
	}
	if j.RandomSeed, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "randomSeed")
	}
	for i := range j.Macs {
		if j.Macs[i], err = c.ReadHash(); err != nil {
			return nil, errors.Wrapf(err, "mac %d", i)
		}
	}

	proofLen := PHGRProofSize
	if useGroth {
		proofLen = GrothProofSize
	}
	proof, err := c.ReadBytes(proofLen)
	if err != nil {
		return nil, errors.Wrap(err, "proof")
	}
	j.Proof = append([]byte(nil), proof...)

	for i := range j.Ciphertexts {
		ct, err := c.ReadBytes(601)
		if err != nil {
			return nil, errors.Wrapf(err, "ciphertext %d", i)
		}
		copy(j.Ciphertexts[i][:], ct)
	}

	return j, nil
}

func encodeJoinSplitDescription(e *primitives.Encoder, j *JoinSplitDescription) {
	e.WriteUint64(uint64(j.VpubOldZat))
	e.WriteUint64(uint64(j.VpubNewZat))
	e.WriteHash(j.Anchor)
	for _, n := range j.Nullifiers {
		e.WriteHash(n)
	}
	for _, cm := range j.Commitments {
		e.WriteHash(cm)
	}
	e.WriteHash(j.OnetimePubKey)
	e.WriteHash(j.RandomSeed)
	for _, m := range j.Macs {
		e.WriteHash(m)
	}
	e.WriteBytes(j.Proof)
	for _, ct := range j.Ciphertexts {
		e.WriteBytes(ct[:])
	}
}
