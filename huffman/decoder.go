package huffman

import "huffc/bitstream"

// decodeTableBits is the size (in bits) of the primary decode lookup table.
const decodeTableBits = 6

// maxSecondaryTableBits bounds the size of the secondary decode lookup table.
const maxSecondaryTableBits = 4

// slowDecodeSymbol marks a primary/secondary table slot whose code is longer
// than decodeTableBits+secondaryTableBits bits and must fall back to a
// linear scan of slowDecodeTable.
const slowDecodeSymbol = SymbolType(0xFFFF)

// slowDecodeEntry covers every symbol whose code length is exactly Length,
// for lengths beyond what the two-level table reaches.
type slowDecodeEntry struct {
	length  uint32
	base    uint64
	symbols []SymbolType
}

// Decoder decodes symbols encoded with the canonical code described by the
// PrefixCode it was built from.
type Decoder struct {
	numSymbols         SymbolType
	secondaryTableBits uint32
	codeTable          []SymbolType
	codeLengths        []uint8
	slowDecodeTable    []slowDecodeEntry
}

// GenerateDecoder builds a multi-level lookup-table decoder for c.
func (c *PrefixCode) GenerateDecoder() *Decoder {
	codeTable := make([]SymbolType, 0, 1<<decodeTableBits)

	primaryLevels := uint32(decodeTableBits + 1)
	if uint32(len(c.Lengths)) < primaryLevels {
		primaryLevels = uint32(len(c.Lengths))
	}
	for length := uint32(1); length < primaryLevels; length++ {
		symbols := c.Lengths[length]
		if len(symbols) == 0 {
			continue
		}
		multiples := 1 << (decodeTableBits - length)
		for _, symbol := range symbols {
			for i := 0; i < multiples; i++ {
				codeTable = append(codeTable, symbol)
			}
		}
	}

	var secondaryTableBits uint32
	var slowDecodeTable []slowDecodeEntry

	if uint32(len(c.Lengths)) > decodeTableBits {
		pos := len(codeTable)
		codeTable = growTo(codeTable, 1<<decodeTableBits)

		secondaryTableBits = uint32(len(c.Lengths)) - 1 - decodeTableBits
		if secondaryTableBits > maxSecondaryTableBits {
			secondaryTableBits = maxSecondaryTableBits
		}

		secPos := 0
		secTableMask := (1 << secondaryTableBits) - 1

		for length := uint32(decodeTableBits + 1); length <= decodeTableBits+secondaryTableBits; length++ {
			if int(length) >= len(c.Lengths) {
				break
			}
			symbols := c.Lengths[length]
			if len(symbols) == 0 {
				continue
			}
			multiples := 1 << (decodeTableBits + secondaryTableBits - length)

			for _, symbol := range symbols {
				if secPos&secTableMask == 0 {
					codeTable[pos] = c.NumSymbols + SymbolType(len(codeTable))
					pos++
					secPos = 0
				}
				for i := 0; i < multiples; i++ {
					codeTable = append(codeTable, symbol)
				}
				secPos += multiples
			}
		}

		if uint32(len(c.Lengths)) > decodeTableBits+secondaryTableBits+1 {
			if secPos > 0 {
				codeTable = growToWith(codeTable, len(codeTable)+(1<<secondaryTableBits)-secPos, slowDecodeSymbol)
			}

			if pos < 1<<decodeTableBits {
				for pos < 1<<decodeTableBits {
					codeTable[pos] = c.NumSymbols + SymbolType(len(codeTable))
					pos++
				}
				codeTable = growToWith(codeTable, len(codeTable)+(1<<secondaryTableBits), slowDecodeSymbol)
			}

			var code uint64
			for length := 1; length < len(c.Lengths); length++ {
				n := len(c.Lengths[length])
				if n > 0 && uint32(length) > decodeTableBits+secondaryTableBits {
					slowDecodeTable = append(slowDecodeTable, slowDecodeEntry{
						length:  uint32(length),
						base:    code,
						symbols: append([]SymbolType(nil), c.Lengths[length]...),
					})
				}
				code = (code + uint64(n)) << 1
			}
		}
	}

	return &Decoder{
		numSymbols:         c.NumSymbols,
		secondaryTableBits: secondaryTableBits,
		codeTable:          codeTable,
		codeLengths:        c.CodeLengths(),
		slowDecodeTable:    slowDecodeTable,
	}
}

func growTo(s []SymbolType, n int) []SymbolType {
	for len(s) < n {
		s = append(s, 0)
	}
	return s
}

func growToWith(s []SymbolType, n int, v SymbolType) []SymbolType {
	for len(s) < n {
		s = append(s, v)
	}
	return s
}

// Decode reads one symbol from br using the two-level table, falling back
// to a linear scan for codes longer than the table reaches.
func (d *Decoder) Decode(br *bitstream.Reader) SymbolType {
	if br.BitsAvail() < PrefixCodeMaxBits {
		br.FillData()
	}
	peek := br.Peek()

	symbol := d.codeTable[peek>>(64-decodeTableBits)]
	if symbol < d.numSymbols {
		br.Consume(uint32(d.codeLengths[symbol]))
		return symbol
	}

	secondaryIndex := (peek << decodeTableBits) >> (64 - d.secondaryTableBits)
	symbol = d.codeTable[uint32(symbol-d.numSymbols)+uint32(secondaryIndex)]
	if symbol < d.numSymbols {
		br.Consume(uint32(d.codeLengths[symbol]))
		return symbol
	}

	for _, e := range d.slowDecodeTable {
		shifted := peek >> (64 - e.length)
		delta := shifted - e.base
		if delta < uint64(len(e.symbols)) {
			br.Consume(e.length)
			return e.symbols[delta]
		}
	}
	panic("huffman: decode table built incorrectly")
}
