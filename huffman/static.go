package huffman

// WeightType is the symbol-frequency type fed into the static builder.
type WeightType = uint32

// heapNode is a (weight, symbol) pair used while building the tree. weight
// is the raw symbol weight shifted left by one, with the low bit set for
// internal nodes — this makes leaf nodes sort before internal nodes of
// equal raw weight, which keeps the tree shape deterministic.
type heapNode struct {
	weight WeightType
	symbol SymbolType
}

// parentLink records the parent and tree depth ("level") of a node, indexed
// by node id (leaf symbols first, then internal nodes).
type parentLink struct {
	parent SymbolType
	level  uint8
}

// heapifyUp restores heap order after replacing the element at pos with a
// smaller one (sift-up).
func heapifyUp(heap []heapNode, pos int) {
	origNode := heap[pos]
	weight := origNode.weight

	for pos > 0 {
		parent := (pos - 1) / 2
		if heap[parent].weight <= weight {
			break
		}
		heap[pos] = heap[parent]
		pos = parent
	}
	heap[pos] = origNode
}

// heapifyDown inserts insertNode into a heap of the given size, starting
// from the root (sift-down).
func heapifyDown(heap []heapNode, size int, insertNode heapNode) {
	pos := 0
	for {
		left := pos*2 + 1
		right := left + 1

		var smaller int
		if right < size {
			if heap[left].weight <= heap[right].weight {
				smaller = left
			} else {
				smaller = right
			}
		} else if left < size {
			smaller = left
		} else {
			break
		}

		if insertNode.weight <= heap[smaller].weight {
			break
		}
		heap[pos] = heap[smaller]
		pos = smaller
	}
	heap[pos] = insertNode
}

// StaticHuffman builds canonical Huffman codes for a fixed alphabet from a
// two-pass symbol-weight histogram.
type StaticHuffman struct {
	numSymbols SymbolType
}

// NewStaticHuffman returns a builder for an alphabet of numSymbols symbols.
func NewStaticHuffman(numSymbols SymbolType) *StaticHuffman {
	return &StaticHuffman{numSymbols: numSymbols}
}

// BuildFromWeights builds the Huffman tree over weights (indexed by symbol,
// len(weights) must equal numSymbols) and returns the resulting canonical
// PrefixCode. Zero-weight symbols are excluded from the tree entirely.
func (h *StaticHuffman) BuildFromWeights(weights []WeightType) *PrefixCode {
	if len(weights) != int(h.numSymbols) {
		panic("huffman: weights length does not match alphabet size")
	}

	table := make([]heapNode, 0, h.numSymbols)
	symbols := make([]SymbolType, 0, h.numSymbols)

	for i := SymbolType(0); i < h.numSymbols; i++ {
		if weights[i] > 0 {
			table = append(table, heapNode{weight: weights[i] << 1, symbol: SymbolType(len(symbols))})
			symbols = append(symbols, i)
		}
	}

	symbolSize := len(table)
	if symbolSize == 0 {
		panic("huffman: no symbols with non-zero weight")
	}

	for i := 1; i < symbolSize; i++ {
		heapifyUp(table, i)
	}

	parents := make([]parentLink, symbolSize*2)
	parentIndex := SymbolType(symbolSize)

	const mask = WeightType(^WeightType(1))

	size := symbolSize
	for size >= 2 {
		size--
		left := table[0]
		lastNode := table[size]
		heapifyDown(table, size, lastNode)
		right := table[0]

		parentWeight := (left.weight & mask) + (right.weight | 1)
		parentNode := heapNode{weight: parentWeight, symbol: parentIndex}
		parents[left.symbol].parent = parentIndex
		parents[right.symbol].parent = parentIndex
		parentIndex++

		heapifyDown(table, size, parentNode)
	}

	for i := symbolSize * 2 - 3; i >= symbolSize; i-- {
		parent := parents[i].parent
		parents[i].level = parents[parent].level + 1
	}

	lengths := [][]SymbolType{{}}
	for i := 0; i < symbolSize; i++ {
		parent := parents[i].parent
		level := int(parents[parent].level) + 1
		for level >= len(lengths) {
			lengths = append(lengths, nil)
		}
		lengths[level] = append(lengths[level], symbols[i])
	}

	return NewPrefixCode(h.numSymbols, lengths)
}
