package script

import (
	"github.com/btcsuite/btcd/btcutil/base58"

	"zcash-block/primitives"
)

// Zcash transparent address version prefixes (mainnet), each two bytes
// rather than Bitcoin's one — spec.md §4.6. P2PK scripts are not
// classified, so P2PK outputs carry no address.
var (
	PrefixP2PKH = [2]byte{0x1c, 0xb8}
	PrefixP2SH  = [2]byte{0x1c, 0xbd}
)

// EncodeAddress base58check-encodes a 20-byte hash under the given
// two-byte version prefix: prefix || hash160, followed by a 4-byte
// double-SHA-256 checksum of that payload, base58-encoded.
func EncodeAddress(prefix [2]byte, hash160 [20]byte) string {
	payload := make([]byte, 0, 2+20+4)
	payload = append(payload, prefix[:]...)
	payload = append(payload, hash160[:]...)
	checksum := primitives.DoubleSHA256(payload)
	payload = append(payload, checksum[:4]...)
	return base58.Encode(payload)
}

// AddressesForOutput returns the destination addresses an output script
// carries, alongside its reqSigs count, for the script classifications
// that have one (P2PKH, P2SH). ok is false for OP_RETURN/unknown
// scripts, which carry no addresses.
func AddressesForOutput(scriptPubKey []byte) (addresses []string, reqSigs int, ok bool) {
	hash, found := ScriptHash(scriptPubKey)
	if !found {
		return nil, 0, false
	}
	switch ClassifyOutput(scriptPubKey) {
	case TypeP2PKH:
		return []string{EncodeAddress(PrefixP2PKH, hash)}, 1, true
	case TypeP2SH:
		return []string{EncodeAddress(PrefixP2SH, hash)}, 1, true
	default:
		return nil, 0, false
	}
}
