package porcelain

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"zcash-block/block"
	"zcash-block/primitives"
	"zcash-block/tx"
)

// BlockMode selects how much of a block's transaction data ToPorcelain
// includes (spec.md §4.6).
type BlockMode string

const (
	ModeDefault BlockMode = ""
	ModeMin     BlockMode = "min"
	ModeHeader  BlockMode = "header"
)

// BlockToPorcelain renders b as a value-tree mirroring the reference RPC
// getblock output. In ModeHeader, tx and size are omitted; in ModeMin, tx
// is a list of txid hex strings; otherwise tx is fully expanded
// transaction porcelain.
func BlockToPorcelain(b *block.Block, mode BlockMode) V {
	v := V{
		"hash":             primitives.ToHex(b.Hash()),
		"version":          b.Version,
		"merkleroot":       primitives.ToHex(b.MerkleRoot),
		"finalsaplingroot": primitives.ToHex(b.FinalSaplingRoot),
		"time":             b.Time,
		"bits":             fmt.Sprintf("%x", b.Bits),
		"difficulty":       b.Difficulty(),
		"nonce":            hex.EncodeToString(b.Nonce[:]),
		"solution":         hex.EncodeToString(b.Solution),
	}
	if b.PreviousBlockHash != (primitives.Hash{}) {
		v["previousblockhash"] = primitives.ToHex(b.PreviousBlockHash)
	}

	switch mode {
	case ModeHeader:
		// tx and size are absent.
	case ModeMin:
		txids := make([]string, len(b.Tx))
		for i, t := range b.Tx {
			txids[i] = primitives.ToHex(t.TxID())
		}
		v["tx"] = txids
		v["size"] = b.Size()
	default:
		txs := make([]V, len(b.Tx))
		for i, t := range b.Tx {
			txs[i] = TransactionToPorcelain(t)
		}
		v["tx"] = txs
		v["size"] = b.Size()
	}

	return v
}

// BlockFromPorcelain validates and reconstructs a Block from a value-tree
// produced by BlockToPorcelain, recomputing hash (and, when tx is
// present, size). Chain-context fields (anchor, confirmations, height,
// mediantime, nextblockhash, chainwork, chainhistoryroot, valuePools)
// aren't required and are ignored if present.
func BlockFromPorcelain(v V) (*block.Block, error) {
	h := &block.Header{}

	version, err := requireNumber(v, "version")
	if err != nil {
		return nil, err
	}
	h.Version = int32(version)

	if prev, ok := optionalString(v, "previousblockhash"); ok {
		hash, err := primitives.HashFromHex(prev)
		if err != nil {
			return nil, errors.Wrap(err, "previousblockhash")
		}
		h.PreviousBlockHash = hash
	}

	if h.MerkleRoot, err = requireHash(v, "merkleroot"); err != nil {
		return nil, err
	}
	if h.FinalSaplingRoot, err = requireHash(v, "finalsaplingroot"); err != nil {
		return nil, err
	}
	if h.Time, err = requireUint32(v, "time"); err != nil {
		return nil, err
	}

	bitsHex, err := requireString(v, "bits")
	if err != nil {
		return nil, err
	}
	var bits uint32
	if _, err := fmt.Sscanf(bitsHex, "%x", &bits); err != nil {
		return nil, errors.Wrap(err, "bits")
	}
	h.Bits = bits

	nonce, err := requireHexBytes(v, "nonce", 32)
	if err != nil {
		return nil, err
	}
	copy(h.Nonce[:], nonce)

	solution, err := requireHexBytes(v, "solution", block.SolutionSize)
	if err != nil {
		return nil, err
	}
	h.Solution = solution

	h.Finalize()
	b := &block.Block{Header: h}

	rawTx, hasTx := v["tx"]
	if !hasTx {
		return b, nil
	}
	var items []interface{}
	switch list := rawTx.(type) {
	case []interface{}:
		items = list
	case []V:
		items = make([]interface{}, len(list))
		for i, entry := range list {
			items[i] = entry
		}
	default:
		return nil, errors.New(`field "tx" must be a list`)
	}
	if len(items) > 0 {
		if _, isString := items[0].(string); isString {
			return nil, errors.New(`cannot reconstruct a block from "min"-mode porcelain: tx entries are txids, not transactions`)
		}
	}
	txs := make([]*tx.Transaction, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf(`tx[%d] must be an object`, i)
		}
		t, err := TransactionFromPorcelain(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "tx[%d]", i)
		}
		txs[i] = t
	}
	b.Tx = txs
	b.Finalize()
	return b, nil
}
