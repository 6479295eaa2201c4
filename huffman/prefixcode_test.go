package huffman

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"huffc/bitstream"
)

// validatePrefixCode checks the Kraft equality invariant and that every
// symbol appears in exactly one length bucket.
func validatePrefixCode(t *testing.T, c *PrefixCode) {
	t.Helper()
	require.Empty(t, c.Lengths[0])

	var sum uint64
	weight := uint64(1) << 62
	seen := make(map[SymbolType]bool)
	numSymbols := 0

	for i := 1; i < len(c.Lengths); i++ {
		sum += uint64(len(c.Lengths[i])) * weight
		weight >>= 1
		numSymbols += len(c.Lengths[i])

		for _, symbol := range c.Lengths[i] {
			require.False(t, seen[symbol], "duplicate symbol %d", symbol)
			seen[symbol] = true
		}
	}

	if numSymbols == 1 {
		require.EqualValues(t, uint64(1)<<62, sum)
	} else {
		require.EqualValues(t, uint64(1)<<63, sum)
	}
}

func cloneLengths(lengths [][]SymbolType) [][]SymbolType {
	out := make([][]SymbolType, len(lengths))
	for i, bucket := range lengths {
		out[i] = append([]SymbolType(nil), bucket...)
	}
	return out
}

func TestApplyMaxLengthLimit(t *testing.T) {
	run := func(numSymbols SymbolType, lengths [][]SymbolType, maxLengths []int) {
		for _, maxLength := range maxLengths {
			c := NewPrefixCode(numSymbols, cloneLengths(lengths))
			validatePrefixCode(t, c)
			c.ApplyMaxLengthLimit(maxLength)
			require.LessOrEqual(t, len(c.Lengths), maxLength+1)
			validatePrefixCode(t, c)
		}
	}

	run(4, [][]SymbolType{{}, {0}, {1}, {2, 3}}, []int{2, 3, 4})

	run(6, [][]SymbolType{{}, {0}, {1}, {2}, {3}, {4, 5}}, []int{3, 4, 5})

	run(6, [][]SymbolType{{}, {0}, {1}, {}, {2, 3, 4, 5}}, []int{3, 4})

	run(26, [][]SymbolType{
		{}, {0}, {}, {1}, {}, {},
		{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25},
	}, []int{5, 6})

	run(7, [][]SymbolType{{}, {0}, {1}, {2}, {3}, {4}, {5, 6}}, []int{3})

	symbols1to32 := make([]SymbolType, 32)
	for i := range symbols1to32 {
		symbols1to32[i] = SymbolType(i + 1)
	}
	run(34, [][]SymbolType{{}, {0}, {}, {}, {}, {}, symbols1to32}, []int{6})
}

func TestGenerateEncoderTable(t *testing.T) {
	run := func(c *PrefixCode, expected []EncoderEntry) {
		validatePrefixCode(t, c)
		codes := c.GenerateEncoderTable()
		for i := SymbolType(0); i < c.NumSymbols; i++ {
			require.Equal(t, expected[i], codes[i])
		}
	}

	run(NewPrefixCode(1, [][]SymbolType{{}, {0}}), []EncoderEntry{{Code: 0b00, Length: 1}})

	run(NewPrefixCode(4, [][]SymbolType{{}, {}, {0, 1, 2, 3}}), []EncoderEntry{
		{Code: 0b00, Length: 2}, {Code: 0b01, Length: 2}, {Code: 0b10, Length: 2}, {Code: 0b11, Length: 2},
	})

	run(NewPrefixCode(3, [][]SymbolType{{}, {0}, {1, 2}}), []EncoderEntry{
		{Code: 0b0, Length: 1}, {Code: 0b10, Length: 2}, {Code: 0b11, Length: 2},
	})

	run(NewPrefixCode(6, [][]SymbolType{{}, {0}, {1}, {}, {2, 3, 4, 5}}), []EncoderEntry{
		{Code: 0b0, Length: 1}, {Code: 0b10, Length: 2},
		{Code: 0b1100, Length: 4}, {Code: 0b1101, Length: 4}, {Code: 0b1110, Length: 4}, {Code: 0b1111, Length: 4},
	})
}

// createPrefixTable builds a PrefixCode from a list of bucket sizes per
// length, assigning symbols 0, 1, 2, ... in order across buckets.
func createPrefixTable(data []int) *PrefixCode {
	var symbol SymbolType
	lengths := make([][]SymbolType, 0, len(data))
	for _, numSymbols := range data {
		bucket := make([]SymbolType, numSymbols)
		for i := range bucket {
			bucket[i] = symbol
			symbol++
		}
		lengths = append(lengths, bucket)
	}
	return NewPrefixCode(symbol, lengths)
}

func TestGenerateDecoder(t *testing.T) {
	c1 := NewPrefixCode(6, [][]SymbolType{{}, {0}, {1}, {}, {2, 3, 4, 5}})
	validatePrefixCode(t, c1)
	c1.GenerateDecoder()

	c2 := createPrefixTable([]int{0, 0, 0, 2, 6, 4, 12, 4, 1, 5, 10, 11, 7, 2, 4, 4, 5, 3, 2, 5, 4, 1, 4, 4})
	validatePrefixCode(t, c2)
	c2.GenerateDecoder()
}

func TestEncodeDecodePrefixCode(t *testing.T) {
	c := createPrefixTable([]int{0, 0, 0, 2, 6, 4, 12, 4, 1, 5, 10, 11, 7, 2, 4, 4, 5, 3, 2, 5, 4, 1, 4, 4})
	validatePrefixCode(t, c)

	var buf bytes.Buffer
	bw := bitstream.NewWriter(&buf)
	c.EncodeCodingTable(bw)
	bw.Finish()

	br := bitstream.NewReader(bytes.NewReader(buf.Bytes()))
	decoded, err := DecodeCodingTable(br)
	require.NoError(t, err)

	require.Equal(t, c.NumSymbols, decoded.NumSymbols)
	require.Equal(t, c.Lengths, decoded.Lengths)
}

func TestEncodeDecodeSymbols(t *testing.T) {
	c := NewPrefixCode(11, [][]SymbolType{
		{}, {0}, {1}, {}, {2, 3, 4}, {5}, {6}, {7}, {8}, {9, 10},
	})
	input := []SymbolType{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	var buf bytes.Buffer
	bw := bitstream.NewWriter(&buf)

	encoderTable := c.GenerateEncoderTable()
	for _, symbol := range input {
		entry := encoderTable[symbol]
		bw.WriteBits(uint64(entry.Code), uint32(entry.Length))
	}
	bw.Finish()
	require.Equal(t, 0, bw.NumWriteErrors())

	br := bitstream.NewReader(bytes.NewReader(buf.Bytes()))
	decoder := c.GenerateDecoder()
	for _, want := range input {
		require.Equal(t, want, decoder.Decode(br))
	}
}
