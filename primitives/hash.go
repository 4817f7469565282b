package primitives

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// Hash is a 32-byte content identifier carried on the wire in the order
// produced by hashing, and displayed reversed (big-endian-looking hex),
// matching Bitcoin/Zcash convention. chainhash.Hash already implements
// exactly this convention (String reverses; the wire encoding doesn't),
// so it's reused directly rather than reimplemented.
type Hash = chainhash.Hash

// DoubleSHA256 computes SHA-256d: sha256(sha256(x)).
func DoubleSHA256(data []byte) Hash {
	return chainhash.DoubleHashH(data)
}

// HashFromHex parses a display-form (byte-reversed) hex hash string, as
// found in porcelain, into wire order.
func HashFromHex(s string) (Hash, error) {
	if len(s) != 64 {
		return Hash{}, errors.Errorf("hash hex must be 64 characters, got %d", len(s))
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return Hash{}, errors.Wrap(err, "invalid hash hex")
	}
	return *h, nil
}

// ToHex renders a Hash in display (byte-reversed) form.
func ToHex(h Hash) string {
	return h.String()
}

// ReverseBytes returns a newly allocated, byte-order-reversed copy of b.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
