// Package huffman implements canonical prefix codes and two Huffman tree
// builders: a static (two-pass, weight-driven) builder and a dynamic
// (single-pass, Vitter-style adaptive) tree.
package huffman

import (
	"errors"

	"huffc/bitstream"
)

// SymbolType is the type of the symbols carried by a PrefixCode.
type SymbolType = uint16

// CodeType is the type of an assigned canonical code word; it bounds the
// maximum representable code length.
type CodeType = uint32

// PrefixCodeMaxBits is the longest code length this package supports.
const PrefixCodeMaxBits = 32

// symbolTypeBits is the bit width written to the wire for a SymbolType
// value (num_symbols, bucket sizes, and symbols themselves).
const symbolTypeBits = 16

// ErrMalformedTable is returned when a serialized coding table fails to
// parse: out-of-order lengths, a length exceeding PrefixCodeMaxBits, or a
// read error while parsing.
var ErrMalformedTable = errors.New("huffman: malformed coding table")

// PrefixCode is the canonical representation of a prefix code: symbols are
// bucketed by code length, and within a bucket their order determines the
// canonical code assignment (sequential codes, left-shifted between
// lengths). Lengths[0] is always empty.
type PrefixCode struct {
	NumSymbols SymbolType
	Lengths    [][]SymbolType
}

// NewPrefixCode builds a PrefixCode from a set of symbols already bucketed
// by code length.
func NewPrefixCode(numSymbols SymbolType, lengths [][]SymbolType) *PrefixCode {
	if len(lengths) > PrefixCodeMaxBits+1 {
		panic("huffman: code length bucket count exceeds PrefixCodeMaxBits")
	}
	return &PrefixCode{NumSymbols: numSymbols, Lengths: lengths}
}

// ApplyMaxLengthLimit adjusts code lengths so that the maximum length is at
// most maxLength, while preserving Kraft equality. It first collapses every
// symbol deeper than maxLength up to maxLength, then pushes symbols at
// shallower levels down to absorb the resulting Kraft surplus.
func (c *PrefixCode) ApplyMaxLengthLimit(maxLength int) {
	if maxLength >= len(c.Lengths)-1 {
		return
	}

	// Count the extra weight due to moving the longest symbols up to maxLength.
	var delta int
	for level := maxLength + 1; level < len(c.Lengths); level++ {
		delta += c.weightDelta(len(c.Lengths[level]), maxLength, level)

		c.Lengths[maxLength] = append(c.Lengths[maxLength], c.Lengths[level]...)
		c.Lengths[level] = nil
	}

	deltaToAdjust := delta
	c.adjust(maxLength-1, maxLength, 0, &deltaToAdjust)
	if deltaToAdjust != 0 {
		panic("huffman: apply_max_length_limit failed to balance Kraft surplus")
	}

	c.Lengths = c.Lengths[:maxLength+1]
}

// weightDelta is the Kraft-weight change (in units of the deepest original
// level's leaf weight) of moving num symbols from level `higher` (shorter
// code) down to level `lower` (longer code).
func (c *PrefixCode) weightDelta(num, higher, lower int) int {
	longest := len(c.Lengths) - 1
	return (num << (longest - higher)) - (num << (longest - lower))
}

// adjust recursively finds the shallowest level that must give up symbols to
// absorb delta, then pushes symbols down one level at a time from there.
func (c *PrefixCode) adjust(level, maxLength, totalAdjust int, delta *int) {
	numSymbols := len(c.Lengths[level])

	maxAdjust := c.weightDelta(numSymbols, level, maxLength)
	newTotalAdjust := totalAdjust + maxAdjust
	if newTotalAdjust < *delta {
		if level <= 0 {
			panic("huffman: max length limit is infeasible for this alphabet")
		}
		c.adjust(level-1, maxLength, newTotalAdjust, delta)
	}

	if *delta > 0 {
		adjustment := c.weightDelta(1, level, level+1)
		for *delta > totalAdjust && len(c.Lengths[level]) > 0 {
			last := len(c.Lengths[level]) - 1
			symbol := c.Lengths[level][last]
			c.Lengths[level] = c.Lengths[level][:last]
			c.Lengths[level+1] = append(c.Lengths[level+1], symbol)
			*delta -= adjustment
		}
	}
}

// EncoderEntry is a symbol's canonical code (meaningful bits in the low
// Length positions) and its bit length.
type EncoderEntry struct {
	Code   CodeType
	Length uint8
}

// GenerateEncoderTable returns, indexed by symbol, the canonical code and
// length for every symbol in the alphabet.
func (c *PrefixCode) GenerateEncoderTable() []EncoderEntry {
	table := make([]EncoderEntry, c.NumSymbols)
	var code CodeType
	for length := 1; length < len(c.Lengths); length++ {
		for _, symbol := range c.Lengths[length] {
			table[symbol] = EncoderEntry{Code: code, Length: uint8(length)}
			code++
		}
		code <<= 1
	}
	return table
}

// EncodeCodingTable serializes the code lengths table (num_symbols, then
// each non-empty (length, count, symbols...) bucket in ascending length
// order, then a zero terminator) so a decoder can reconstruct it.
func (c *PrefixCode) EncodeCodingTable(bw *bitstream.Writer) {
	bw.WriteBits(uint64(c.NumSymbols), symbolTypeBits)

	for length := 1; length < len(c.Lengths); length++ {
		symbols := c.Lengths[length]
		if len(symbols) == 0 {
			continue
		}
		bw.WriteBits(uint64(length), 32)
		bw.WriteBits(uint64(len(symbols)), symbolTypeBits)
		for _, symbol := range symbols {
			bw.WriteBits(uint64(symbol), symbolTypeBits)
		}
	}
	bw.WriteBits(0, 32)
}

// DecodeCodingTable deserializes a coding table written by EncodeCodingTable.
func DecodeCodingTable(br *bitstream.Reader) (*PrefixCode, error) {
	lengths := [][]SymbolType{{}}
	numSymbols := SymbolType(br.ReadBits(symbolTypeBits))

	for {
		length := int(br.ReadBits(32))
		if length == 0 {
			break
		}
		if length < len(lengths) || length > PrefixCodeMaxBits {
			return nil, ErrMalformedTable
		}
		for length > len(lengths) {
			lengths = append(lengths, []SymbolType{})
		}

		num := int(br.ReadBits(symbolTypeBits))
		symbols := make([]SymbolType, num)
		for i := range symbols {
			symbols[i] = SymbolType(br.ReadBits(symbolTypeBits))
		}
		lengths = append(lengths, symbols)
	}

	if br.NumReadErrors() > 0 {
		return nil, ErrMalformedTable
	}
	return &PrefixCode{NumSymbols: numSymbols, Lengths: lengths}, nil
}

// CodeLengths returns, indexed by symbol, the code length assigned to it.
func (c *PrefixCode) CodeLengths() []uint8 {
	out := make([]uint8, c.NumSymbols)
	for length, symbols := range c.Lengths {
		for _, symbol := range symbols {
			out[symbol] = uint8(length)
		}
	}
	return out
}
