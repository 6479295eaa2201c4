package huffman

import (
	"math/rand"
	"testing"
)

func TestStaticHuffmanSimple(t *testing.T) {
	h := NewStaticHuffman(12)
	weights := []WeightType{1, 3, 0, 10, 9, 8, 6, 0, 7, 5, 4, 2}
	c := h.BuildFromWeights(weights)
	validatePrefixCode(t, c)
}

func TestStaticHuffmanSingleSymbol(t *testing.T) {
	h := NewStaticHuffman(2)
	weights := []WeightType{0, 1}
	c := h.BuildFromWeights(weights)
	validatePrefixCode(t, c)
}

func TestStaticHuffmanMergesLeafNodesFirst(t *testing.T) {
	h := NewStaticHuffman(6)
	weights := []WeightType{2, 2, 2, 2, 4, 4}
	c := h.BuildFromWeights(weights)
	validatePrefixCode(t, c)

	// With weights 1, 1, 2, 2 the first merge makes an internal node of
	// weight 2; merging the two weight-2 leaves before it keeps every code
	// at length 2, where merging the internal node first would reach 3.
	flat := NewStaticHuffman(4).BuildFromWeights([]WeightType{1, 1, 2, 2})
	validatePrefixCode(t, flat)
	if maxLength := len(flat.Lengths) - 1; maxLength != 2 {
		t.Fatalf("max code length = %d, want 2", maxLength)
	}
}

func TestStaticHuffmanRandom(t *testing.T) {
	h := NewStaticHuffman(256)
	for s := int64(0); s < 100; s++ {
		rng := rand.New(rand.NewSource(s))
		weights := make([]WeightType, 256)
		for i := range weights {
			weights[i] = WeightType(rng.Uint32() / 1000)
		}
		// Ensure at least one non-zero weight so the builder has a tree to build.
		weights[0]++
		c := h.BuildFromWeights(weights)
		validatePrefixCode(t, c)
	}
}
