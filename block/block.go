package block

import (
	"github.com/pkg/errors"

	"zcash-block/primitives"
	"zcash-block/tx"
)

// Block is a full Zcash block: its header plus the transaction vector
// that follows it on the wire.
type Block struct {
	*Header
	Tx []*tx.Transaction // nil for a header-only decode

	size int
}

// Decode parses a full block (header plus transaction vector). If strict,
// trailing bytes after the last transaction are a decode error.
func Decode(data []byte, strict bool) (*Block, error) {
	c := primitives.NewCursor(data)
	start := c.Bookmark()

	header, err := decodeHeaderFromCursor(c)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}

	txs, err := primitives.ReadVector(c, tx.DecodeFromCursor)
	if err != nil {
		return nil, errors.Wrap(err, "vtx")
	}

	b := &Block{Header: header, Tx: txs, size: len(c.Slice(start))}

	if strict {
		if err := c.Finish(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// DecodeHeaderOnly parses just the HEADER_BYTES header, leaving Tx nil and
// Size absent. If strict, any byte beyond the header is a decode error.
func DecodeHeaderOnly(data []byte, strict bool) (*Block, error) {
	h, err := DecodeHeader(data, strict)
	if err != nil {
		return nil, err
	}
	return &Block{Header: h}, nil
}

// Encode re-serializes the block. If Tx is nil (a header-only Block), only
// the header is written.
func (b *Block) Encode() []byte {
	e := primitives.NewEncoder()
	encodeHeaderInto(e, b.Header)
	if b.Tx != nil {
		primitives.WriteVector(e, b.Tx, func(e *primitives.Encoder, t *tx.Transaction) {
			e.WriteBytes(t.Encode())
		})
	}
	return e.Bytes()
}

// Size returns the exact encoded byte length of the full block, or 0 if
// this Block was produced by DecodeHeaderOnly.
func (b *Block) Size() int {
	return b.size
}

// CalculateMerkleRoot recomputes the merkle root over this block's
// transaction txids, independent of the header's stored MerkleRoot field.
// It returns an error if Tx is nil (header-only) or empty.
func (b *Block) CalculateMerkleRoot() (primitives.Hash, error) {
	if len(b.Tx) == 0 {
		return primitives.Hash{}, errors.New("block has no transactions to root")
	}
	leaves := make([]primitives.Hash, len(b.Tx))
	for i, t := range b.Tx {
		leaves[i] = t.TxID()
	}
	return primitives.MerkleRoot(leaves)
}

// Finalize recomputes the header's cached hash and, if Tx is non-nil, the
// block's size from current field values. Used after constructing a Block
// from porcelain.
func (b *Block) Finalize() {
	b.Header.Finalize()
	if b.Tx != nil {
		b.size = len(b.Encode())
	}
}
