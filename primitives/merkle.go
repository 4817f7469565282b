package primitives

import "github.com/pkg/errors"

// MerkleRoot computes the Bitcoin-style Merkle root over leaves (e.g.
// transaction ids in block order): pair adjacent leaves, duplicating the
// last one when a layer has an odd count, concatenate each pair and
// double-SHA-256 it to produce the next layer, repeating until one hash
// remains. Fails on an empty leaf set.
func MerkleRoot(leaves []Hash) (Hash, error) {
	if len(leaves) == 0 {
		return Hash{}, errors.New("cannot compute merkle root of an empty leaf set")
	}
	layer := make([]Hash, len(leaves))
	copy(layer, leaves)
	for len(layer) > 1 {
		layer = merkleLayerUp(layer)
	}
	return layer[0], nil
}

func merkleLayerUp(layer []Hash) []Hash {
	next := make([]Hash, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		left := layer[i]
		right := left
		if i+1 < len(layer) {
			right = layer[i+1]
		}
		next = append(next, hashPair(left, right))
	}
	return next
}

func hashPair(left, right Hash) Hash {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return DoubleSHA256(buf)
}

// MerklePath returns the sibling hashes and left/right flags needed to
// verify that leaves[index] is included under the root produced by
// MerkleRoot(leaves), alongside the layer-by-layer doubled-last-node
// rule. ok is false if index is out of range.
func MerklePath(leaves []Hash, index int) (siblings []Hash, isRight []bool, ok bool) {
	if index < 0 || index >= len(leaves) {
		return nil, nil, false
	}
	layer := make([]Hash, len(leaves))
	copy(layer, leaves)
	pos := index
	for len(layer) > 1 {
		var siblingPos int
		var right bool
		if pos%2 == 0 {
			siblingPos = pos + 1
			if siblingPos >= len(layer) {
				siblingPos = pos // duplicated last node
			}
			right = false
		} else {
			siblingPos = pos - 1
			right = true
		}
		siblings = append(siblings, layer[siblingPos])
		isRight = append(isRight, right)
		layer = merkleLayerUp(layer)
		pos /= 2
	}
	return siblings, isRight, true
}
