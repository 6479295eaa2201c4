package huffman

import (
	"huffc/internal/debuglog"

	"huffc/bitstream"
)

var dynamicLog = debuglog.New("DynamicHuffman")

// resetWeight is the root weight that triggers a full tree reset, chosen so
// that incrementing by 2 can never overflow WeightType before the check
// fires.
const resetWeight = WeightType(0xFFFFFFFF) - 2

// nytSymbol is the child value that marks a leaf as the NYT (Not Yet
// Transmitted) leaf; real symbol leaves store symbol+1 instead.
const nytSymbol = SymbolType(0)

// dynamicNode is one entry in the flat, weight-sorted node array described
// in DynamicHuffman's doc comment.
type dynamicNode struct {
	// weight's low bit distinguishes leaf (0) from internal (1) nodes of
	// equal raw weight, so internal nodes sort after leaves of the same
	// weight and (weight >> 1) is the node's true Huffman weight.
	weight WeightType
	parent SymbolType
	child  SymbolType
}

// DynamicHuffman is a single-pass adaptive Huffman coder following Vitter's
// algorithm (the Faller-Gallager-Knuth family): the tree is rebuilt
// incrementally as each symbol is coded, so encoder and decoder stay in
// sync without ever transmitting a coding table.
//
// nodes[0] is the "no parent" sentinel; nodes[1:numSymbols+1] are the
// symbol nodes, one per alphabet symbol (symbol s at index s+1), whose
// parent holds the symbol's leaf id or 0 if the symbol is unseen;
// nodes[numSymbols+1:] are the leaf and internal tree nodes in
// non-increasing weight order, with the root first and the NYT leaf last.
type DynamicHuffman struct {
	nodes      []dynamicNode
	numSymbols SymbolType
	symbolBits uint32
}

// NewDynamicHuffman creates a tree over an alphabet of numSymbols symbols,
// initially containing only the NYT escape.
func NewDynamicHuffman(numSymbols SymbolType) *DynamicHuffman {
	if numSymbols == 0 {
		panic("huffman: dynamic alphabet must be non-empty")
	}

	var symbolBits uint32
	for (SymbolType(1) << symbolBits) < numSymbols {
		symbolBits++
	}

	h := &DynamicHuffman{numSymbols: numSymbols, symbolBits: symbolBits}
	h.initializeNodes()
	return h
}

func (h *DynamicHuffman) rootNodeID() SymbolType {
	return h.numSymbols + 1
}

func (h *DynamicHuffman) initializeNodes() {
	h.nodes = make([]dynamicNode, h.numSymbols+1, int(h.numSymbols)*3+2)
	for i := range h.nodes {
		// Max weight so the backward scans in slideAndIncrement always stop
		// before reaching the sentinel and symbol-node placeholders.
		h.nodes[i] = dynamicNode{weight: ^WeightType(0)}
	}
	h.nodes = append(h.nodes, dynamicNode{weight: 0, parent: 0, child: nytSymbol})
}

// resetIfNecessary clears and rebuilds the tree from scratch once the root
// weight risks overflowing WeightType.
func (h *DynamicHuffman) resetIfNecessary() {
	if h.nodes[h.rootNodeID()].weight > resetWeight {
		h.initializeNodes()
	}
}

// Encode writes symbol to bw and updates the tree.
func (h *DynamicHuffman) Encode(symbol SymbolType, bw *bitstream.Writer) {
	if symbol >= h.numSymbols {
		panic("huffman: symbol out of range")
	}
	dynamicLog.Printf("Encode: %d", symbol)

	nodeID := h.nodes[symbol+1].parent
	if nodeID != 0 {
		h.outputCode(nodeID, bw)
		h.slideAndIncrementLoop(nodeID)
	} else {
		nytID := SymbolType(len(h.nodes) - 1)
		if nytID == h.rootNodeID() {
			h.outputRawSymbol(symbol, bw)
		} else {
			h.outputCode(nytID, bw)
			h.outputRawSymbol(symbol, bw)
		}
		h.addNewSymbol(symbol)
	}

	h.resetIfNecessary()
}

// Decode reads one symbol from br and updates the tree.
func (h *DynamicHuffman) Decode(br *bitstream.Reader) SymbolType {
	if br.BitsAvail() < 16 {
		br.FillData()
	}
	data := br.Peek()
	bitsAvail := br.BitsAvail()

	var bitsConsumed uint32
	nodeID := h.rootNodeID()
	var childID SymbolType

	for {
		childID = h.nodes[nodeID].child
		if childID <= h.numSymbols {
			break
		}

		msb := SymbolType(data >> 63)
		nodeID = childID + msb
		data <<= 1

		bitsConsumed++
		if bitsConsumed == bitsAvail {
			br.Consume(bitsAvail)
			br.FillData()
			data = br.Peek()
			bitsConsumed = 0
			bitsAvail = br.BitsAvail()
		}
	}
	br.Consume(bitsConsumed)

	if childID == nytSymbol {
		newSymbol := SymbolType(br.ReadBits(h.symbolBits))
		h.addNewSymbol(newSymbol)
		h.resetIfNecessary()
		return newSymbol
	}

	h.slideAndIncrementLoop(nodeID)
	h.resetIfNecessary()
	return childID - 1
}

// addNewSymbol splits the current NYT node into an internal node with two
// children: the new symbol's leaf, and a fresh NYT.
func (h *DynamicHuffman) addNewSymbol(symbol SymbolType) {
	nytID := SymbolType(len(h.nodes) - 1)
	h.nodes[nytID].weight = 1
	h.nodes[nytID].child = nytID + 1

	h.nodes = append(h.nodes, dynamicNode{weight: 2, parent: nytID, child: symbol + 1})
	h.nodes[symbol+1].parent = nytID + 1

	h.nodes = append(h.nodes, dynamicNode{weight: 0, parent: nytID, child: nytSymbol})

	h.slideAndIncrementLoop(nytID)
}

// slideAndIncrementLoop walks from nodeID up to the root, incrementing
// weights and re-sorting as needed along the way.
func (h *DynamicHuffman) slideAndIncrementLoop(nodeID SymbolType) {
	for nodeID != 0 {
		nodeID = h.slideAndIncrement(nodeID)
	}
}

// slideAndIncrement increments the weight of nodeID, sliding it (and its
// subtree) left past any node of equal or lesser weight to preserve the
// sibling property, and returns the parent that must be updated next.
func (h *DynamicHuffman) slideAndIncrement(nodeID SymbolType) SymbolType {
	weight := h.nodes[nodeID].weight
	h.nodes[nodeID].weight += 2
	parentID := h.nodes[nodeID].parent

	prevID := nodeID - 1
	prevWeight := h.nodes[prevID].weight
	if prevWeight >= weight+2 || prevID == parentID {
		return parentID
	}

	for prevWeight == weight {
		prevID--
		prevWeight = h.nodes[prevID].weight
	}
	prevID++

	if prevID < nodeID {
		if !(parentID < prevID) {
			panic("huffman: slide_and_increment invariant violated")
		}
		h.swapSubtrees(nodeID, prevID)
		nodeID = prevID
		parentID = h.nodes[nodeID].parent
	}

	targetWeight := weight + 2
	for prevWeight < targetWeight {
		prevID--
		prevWeight = h.nodes[prevID].weight
	}
	prevID++

	if prevID < nodeID {
		if !(h.nodes[nodeID].parent < prevID) {
			panic("huffman: slide_and_increment invariant violated")
		}
		h.swapSubtrees(nodeID, prevID)
		nodeID = prevID
	}

	if weight&1 == 1 {
		return parentID
	}
	return h.nodes[nodeID].parent
}

// swapSubtrees exchanges the weight/child of two nodes (but not their
// parent slots), fixing up the children's parent pointers to match.
func (h *DynamicHuffman) swapSubtrees(node1ID, node2ID SymbolType) {
	dynamicLog.Printf("Swap symbols: %d <-> %d", node1ID, node2ID)

	node1Copy := h.nodes[node1ID]
	node2Copy := h.nodes[node2ID]

	update := func(nodeID SymbolType, from dynamicNode) {
		node := &h.nodes[nodeID]
		node.weight = from.weight
		node.child = from.child
		h.nodes[from.child].parent = nodeID
		if from.child > h.numSymbols {
			h.nodes[from.child+1].parent = nodeID
		}
	}
	update(node1ID, node2Copy)
	update(node2ID, node1Copy)
}

// outputCode writes the path from nodeID's parent up to the root as a bit
// string (1 for a right child, 0 for a left child), with the deepest node's
// bit least significant and so written last — i.e. in root-to-leaf reading
// order.
func (h *DynamicHuffman) outputCode(nodeID SymbolType, bw *bitstream.Writer) {
	var code uint64
	var bit uint64 = 1
	var length uint32
	parentID := h.nodes[nodeID].parent

	for {
		parentNode := h.nodes[parentID]
		if parentNode.child != nodeID {
			code |= bit
		}
		length++

		nodeID = parentID
		parentID = parentNode.parent
		if parentID == 0 {
			break
		}
		bit <<= 1

		if length == 64 {
			bw.WriteBits(code, length)
			code = 0
			bit = 1
			length = 0
		}
	}
	bw.WriteBits(code, length)
}

func (h *DynamicHuffman) outputRawSymbol(symbol SymbolType, bw *bitstream.Writer) {
	dynamicLog.Printf("Output raw symbol: %d", symbol)
	bw.WriteBits(uint64(symbol), h.symbolBits)
}

// Validate checks every tree invariant from the root down, and that the
// tail of the node array is sorted in descending weight order. It is meant
// for use in tests, not on any hot path.
func (h *DynamicHuffman) Validate() {
	h.validateNode(h.rootNodeID())

	for i := int(h.rootNodeID()); i < len(h.nodes)-2; i++ {
		if h.nodes[i].weight < h.nodes[i+1].weight {
			panic("huffman: dynamic tree nodes out of weight order")
		}
	}
}

func (h *DynamicHuffman) validateNode(nodeID SymbolType) {
	if nodeID <= h.numSymbols {
		panic("huffman: validate_node called on a non-tree node")
	}

	node := h.nodes[nodeID]
	childID := node.child

	if nodeID == SymbolType(len(h.nodes)-1) {
		if childID != nytSymbol || node.weight != 0 {
			panic("huffman: NYT node invariant violated")
		}
		return
	}

	leftChild := h.nodes[childID]
	if leftChild.parent != nodeID {
		panic("huffman: left child parent pointer mismatch")
	}

	if childID > h.numSymbols {
		if node.weight&1 != 1 {
			panic("huffman: internal node weight parity violated")
		}
		rightChild := h.nodes[childID+1]
		if rightChild.parent != nodeID {
			panic("huffman: right child parent pointer mismatch")
		}
		if node.weight != (((leftChild.weight>>1)+(rightChild.weight>>1))<<1)+1 {
			panic("huffman: internal node weight does not sum children")
		}
		h.validateNode(childID)
		h.validateNode(childID + 1)
	} else {
		if node.weight&1 != 0 {
			panic("huffman: leaf node weight parity violated")
		}
		if leftChild.weight != ^WeightType(0) || leftChild.child != nytSymbol {
			panic("huffman: leaf symbol placeholder corrupted")
		}
	}
}
