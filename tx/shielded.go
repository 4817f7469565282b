package tx

import (
	"github.com/pkg/errors"

	"zcash-block/primitives"
)

// SpendDescription is a Sapling Spend Description (Zcash protocol spec
// §7.3): a shielded-input commitment, nullifier, re-randomized spend
// authority key, Groth16 proof, and the signature over it.
type SpendDescription struct {
	CV           primitives.Hash
	Anchor       primitives.Hash
	Nullifier    primitives.Hash
	RK           primitives.Hash
	Proof        [192]byte
	SpendAuthSig [64]byte
}

func decodeSpendDescription(c *primitives.Cursor) (*SpendDescription, error) {
	s := &SpendDescription{}
	var err error
	if s.CV, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "cv")
	}
	if s.Anchor, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "anchor")
	}
	if s.Nullifier, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "nullifier")
	}
	if s.RK, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "rk")
	}
	proof, err := c.ReadBytes(192)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof")
	}
	copy(s.Proof[:], proof)
	sig, err := c.ReadBytes(64)
	if err != nil {
		return nil, errors.Wrap(err, "spendAuthSig")
	}
	copy(s.SpendAuthSig[:], sig)
	return s, nil
}

func encodeSpendDescription(e *primitives.Encoder, s *SpendDescription) {
	e.WriteHash(s.CV)
	e.WriteHash(s.Anchor)
	e.WriteHash(s.Nullifier)
	e.WriteHash(s.RK)
	e.WriteBytes(s.Proof[:])
	e.WriteBytes(s.SpendAuthSig[:])
}

// OutputDescription is a Sapling Output Description (Zcash protocol spec
// §7.4): a shielded-output commitment, ephemeral key, encrypted note
// payloads, and a Groth16 proof.
type OutputDescription struct {
	CV            primitives.Hash
	CMU           primitives.Hash
	EphemeralKey  primitives.Hash
	EncCiphertext [580]byte
	OutCiphertext [80]byte
	Proof         [192]byte
}

func decodeOutputDescription(c *primitives.Cursor) (*OutputDescription, error) {
	o := &OutputDescription{}
	var err error
	if o.CV, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "cv")
	}
	if o.CMU, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "cmu")
	}
	if o.EphemeralKey, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "ephemeralKey")
	}
	enc, err := c.ReadBytes(580)
	if err != nil {
		return nil, errors.Wrap(err, "encCiphertext")
	}
	copy(o.EncCiphertext[:], enc)
	out, err := c.ReadBytes(80)
	if err != nil {
		return nil, errors.Wrap(err, "outCiphertext")
	}
	copy(o.OutCiphertext[:], out)
	proof, err := c.ReadBytes(192)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof")
	}
	copy(o.Proof[:], proof)
	return o, nil
}

func encodeOutputDescription(e *primitives.Encoder, o *OutputDescription) {
	e.WriteHash(o.CV)
	e.WriteHash(o.CMU)
	e.WriteHash(o.EphemeralKey)
	e.WriteBytes(o.EncCiphertext[:])
	e.WriteBytes(o.OutCiphertext[:])
	e.WriteBytes(o.Proof[:])
}
