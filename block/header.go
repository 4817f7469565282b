// Package block implements the Zcash block schema: the fixed-size header
// (version, chain-linkage hashes, Sapling commitment root, time, target
// bits, Equihash nonce and solution) and the length-prefixed transaction
// vector that follows it, with hash and size capture over the exact wire
// bytes.
package block

import (
	"math"

	"github.com/pkg/errors"

	"zcash-block/primitives"
)

// HEADER_BYTES is the exact encoded size of a Zcash block header,
// including the CompactSize-prefixed Equihash solution:
// 4 (version) + 32*3 (hashes) + 4 (time) + 4 (bits) + 32 (nonce) +
// 3 (CompactSize prefix for a 1344-byte solution) + 1344 (solution).
const HEADER_BYTES = 1487

// SolutionSize is the byte width of an Equihash solution at current
// Zcash network parameters.
const SolutionSize = 1344

// genesisBits is the genesis-block target (0x1f07ffff), used as the
// difficulty-1 reference point for Header.Difficulty.
const genesisBits uint32 = 0x1f07ffff

// Header is a Zcash block header as defined by the Zcash protocol spec.
type Header struct {
	Version              int32
	PreviousBlockHash    primitives.Hash
	MerkleRoot           primitives.Hash
	FinalSaplingRoot     primitives.Hash
	Time                 uint32
	Bits                 uint32
	Nonce                [32]byte
	Solution             []byte // always SolutionSize bytes at current parameters

	rawBytes []byte // exactly HEADER_BYTES
	hash     *primitives.Hash
}

// DecodeHeader parses a standalone HEADER_BYTES-length block header. If
// strict, trailing bytes after the header are a decode error.
func DecodeHeader(data []byte, strict bool) (*Header, error) {
	c := primitives.NewCursor(data)
	h, err := decodeHeaderFromCursor(c)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := c.Finish(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func decodeHeaderFromCursor(c *primitives.Cursor) (*Header, error) {
	start := c.Bookmark()
	h := &Header{}
	var err error

	if h.Version, err = c.ReadInt32(); err != nil {
		return nil, errors.Wrap(err, "version")
	}
	if h.PreviousBlockHash, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "previousblockhash")
	}
	if h.MerkleRoot, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "merkleroot")
	}
	if h.FinalSaplingRoot, err = c.ReadHash(); err != nil {
		return nil, errors.Wrap(err, "finalsaplingroot")
	}
	if h.Time, err = c.ReadUint32(); err != nil {
		return nil, errors.Wrap(err, "time")
	}
	if h.Bits, err = c.ReadUint32(); err != nil {
		return nil, errors.Wrap(err, "bits")
	}
	nonce, err := c.ReadBytes(32)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	copy(h.Nonce[:], nonce)

	solution, err := c.ReadVarBytes()
	if err != nil {
		return nil, errors.Wrap(err, "solution")
	}
	if len(solution) != SolutionSize {
		return nil, errors.Errorf("solution length is %d, expected %d", len(solution), SolutionSize)
	}
	h.Solution = append([]byte(nil), solution...)

	span := c.Slice(start)
	if len(span) != HEADER_BYTES {
		return nil, errors.Errorf("header span is %d bytes, expected %d", len(span), HEADER_BYTES)
	}
	h.rawBytes = span
	hash := primitives.DoubleSHA256(span)
	h.hash = &hash

	return h, nil
}

// Encode re-serializes the header to its exact HEADER_BYTES wire form.
func (h *Header) Encode() []byte {
	e := primitives.NewEncoder()
	encodeHeaderInto(e, h)
	return e.Bytes()
}

func encodeHeaderInto(e *primitives.Encoder, h *Header) {
	e.WriteInt32(h.Version)
	e.WriteHash(h.PreviousBlockHash)
	e.WriteHash(h.MerkleRoot)
	e.WriteHash(h.FinalSaplingRoot)
	e.WriteUint32(h.Time)
	e.WriteUint32(h.Bits)
	e.WriteBytes(h.Nonce[:])
	e.WriteVarBytes(h.Solution)
}

// Hash returns the double-SHA-256 of the exact header bytes.
func (h *Header) Hash() primitives.Hash {
	if h.hash == nil {
		hash := primitives.DoubleSHA256(h.Encode())
		h.hash = &hash
	}
	return *h.hash
}

// Difficulty derives a display-only difficulty ratio from Bits, relative
// to the genesis target. It is not part of the byte-wise round trip and
// is not consensus logic (spec.md §1, §4.3).
func (h *Header) Difficulty() float64 {
	return targetDifficulty(genesisBits) / targetDifficulty(h.Bits)
}

func targetDifficulty(bits uint32) float64 {
	mantissa := float64(bits & 0xFFFFFF)
	exponent := int(bits>>24) - 3
	return mantissa * math.Pow(2, float64(8*exponent))
}

// Finalize recomputes rawBytes and the cached hash from the header's
// current field values. Used after constructing a Header from porcelain.
func (h *Header) Finalize() {
	h.rawBytes = h.Encode()
	hash := primitives.DoubleSHA256(h.rawBytes)
	h.hash = &hash
}
