package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(b byte) Hash {
	var h Hash
	h[0] = b
	return h
}

func TestMerkleRootSingleLeaf(t *testing.T) {
	l := leaf(1)
	root, err := MerkleRoot([]Hash{l})
	require.NoError(t, err)
	assert.Equal(t, l, root)
}

func TestMerkleRootEmptyFails(t *testing.T) {
	_, err := MerkleRoot(nil)
	assert.Error(t, err)
}

func TestMerkleRootDuplicatesOddLastNode(t *testing.T) {
	leaves := []Hash{leaf(1), leaf(2), leaf(3)}
	// layer1: h(1,2), h(3,3)  -> layer2: h(h(1,2), h(3,3))
	want := hashPair(hashPair(leaves[0], leaves[1]), hashPair(leaves[2], leaves[2]))
	got, err := MerkleRoot(leaves)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMerklePathVerifies(t *testing.T) {
	leaves := []Hash{leaf(1), leaf(2), leaf(3), leaf(4), leaf(5)}
	root, err := MerkleRoot(leaves)
	require.NoError(t, err)

	for i := range leaves {
		siblings, isRight, ok := MerklePath(leaves, i)
		require.True(t, ok)
		cur := leaves[i]
		for j, sib := range siblings {
			if isRight[j] {
				cur = hashPair(sib, cur)
			} else {
				cur = hashPair(cur, sib)
			}
		}
		assert.Equal(t, root, cur, "path for leaf %d did not reconstruct root", i)
	}
}

func TestMerklePathOutOfRange(t *testing.T) {
	_, _, ok := MerklePath([]Hash{leaf(1)}, 5)
	assert.False(t, ok)
}
