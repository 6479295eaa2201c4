// Package codec implements the two compression pipelines (static and
// adaptive Huffman) that stitch the bitstream and huffman packages to a
// source.Source / source.Sink pair.
package codec

import (
	"fmt"
	"io"

	"huffc/bitstream"
	"huffc/huffman"
	"huffc/source"
)

const readBufferSize = 8 * 1024

// Result reports how many bytes an encode or decode step moved.
type Result struct {
	BytesRead    int
	BytesWritten int
}

func (r Result) String() string {
	return fmt.Sprintf("%d bytes read, %d bytes written", r.BytesRead, r.BytesWritten)
}

// Encoder compresses a Source into a Sink.
type Encoder interface {
	Encode(input source.Source, output source.Sink) (Result, error)
}

// Decoder decompresses a Source into a Sink.
type Decoder interface {
	Decode(input source.Source, output source.Sink) (Result, error)
}

// StaticCodec is the two-pass canonical-Huffman codec over the 256-byte
// alphabet: it histograms the input, builds an optimal prefix code, writes
// a self-describing header, then emits code words.
type StaticCodec struct{}

// NewStaticEncoder returns an Encoder for the static codec.
func NewStaticEncoder() *StaticCodec { return &StaticCodec{} }

// NewStaticDecoder returns a Decoder for the static codec.
func NewStaticDecoder() *StaticCodec { return &StaticCodec{} }

const staticNumSymbols = huffman.SymbolType(256)

// Encode implements Encoder.
func (c *StaticCodec) Encode(input source.Source, output source.Sink) (Result, error) {
	r, err := input.Reader()
	if err != nil {
		return Result{}, err
	}
	w, err := output.Writer()
	if err != nil {
		return Result{}, err
	}

	inputLength, err := input.Len()
	if err != nil {
		return Result{}, err
	}
	frequencies, err := input.Frequencies()
	if err != nil {
		return Result{}, err
	}

	weights := make([]huffman.WeightType, staticNumSymbols)
	for i := range weights {
		weights[i] = frequencies[i]
	}

	prefixCode := huffman.NewStaticHuffman(staticNumSymbols).BuildFromWeights(weights)
	prefixCode.ApplyMaxLengthLimit(huffman.PrefixCodeMaxBits)
	encoderTable := prefixCode.GenerateEncoderTable()

	bw := bitstream.NewWriter(w)
	bw.WriteBits(uint64(inputLength), 64)
	prefixCode.EncodeCodingTable(bw)

	var buf [readBufferSize]byte
	var bytesRead int
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			bytesRead += n
			for _, symbol := range buf[:n] {
				entry := encoderTable[symbol]
				bw.WriteBits(uint64(entry.Code), uint32(entry.Length))
			}
		}
		if err != nil {
			if err != io.EOF {
				return Result{}, err
			}
			break
		}
	}

	bytesWritten := bw.Finish()
	return Result{BytesRead: bytesRead, BytesWritten: bytesWritten}, nil
}

// Decode implements Decoder.
func (c *StaticCodec) Decode(input source.Source, output source.Sink) (Result, error) {
	r, err := input.Reader()
	if err != nil {
		return Result{}, err
	}
	w, err := output.Writer()
	if err != nil {
		return Result{}, err
	}

	br := bitstream.NewReader(r)
	inputLength := br.ReadBits(64)

	prefixCode, err := huffman.DecodeCodingTable(br)
	if err != nil {
		return Result{}, fmt.Errorf("codec: static decode: %w", err)
	}
	decoder := prefixCode.GenerateDecoder()

	var buf [readBufferSize]byte
	bufPos := 0
	var bytesWritten int

	for i := uint64(0); i < inputLength; i++ {
		symbol := decoder.Decode(br)
		buf[bufPos] = byte(symbol)
		bufPos++
		if bufPos == readBufferSize {
			if _, err := w.Write(buf[:]); err != nil {
				return Result{}, err
			}
			bufPos = 0
			bytesWritten += readBufferSize
		}
	}

	bytesRead := br.Finish()
	if bufPos > 0 {
		if _, err := w.Write(buf[:bufPos]); err != nil {
			return Result{}, err
		}
		bytesWritten += bufPos
	}

	return Result{BytesRead: bytesRead, BytesWritten: bytesWritten}, nil
}

// adaptiveNumSymbols is the 256-byte alphabet plus a 257th end-of-stream
// marker.
const adaptiveNumSymbols = huffman.SymbolType(257)
const adaptiveEOS = huffman.SymbolType(256)

// AdaptiveCodec is the single-pass Vitter-style adaptive Huffman codec: no
// header, the tree is rebuilt identically by encoder and decoder as each
// symbol streams past.
type AdaptiveCodec struct {
	huffman *huffman.DynamicHuffman
}

// NewAdaptiveEncoder returns an Encoder for the adaptive codec.
func NewAdaptiveEncoder() *AdaptiveCodec {
	return &AdaptiveCodec{huffman: huffman.NewDynamicHuffman(adaptiveNumSymbols)}
}

// NewAdaptiveDecoder returns a Decoder for the adaptive codec.
func NewAdaptiveDecoder() *AdaptiveCodec {
	return &AdaptiveCodec{huffman: huffman.NewDynamicHuffman(adaptiveNumSymbols)}
}

// Encode implements Encoder.
func (c *AdaptiveCodec) Encode(input source.Source, output source.Sink) (Result, error) {
	r, err := input.Reader()
	if err != nil {
		return Result{}, err
	}
	w, err := output.Writer()
	if err != nil {
		return Result{}, err
	}

	bw := bitstream.NewWriter(w)

	var buf [readBufferSize]byte
	var bytesRead int
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			bytesRead += n
			for _, b := range buf[:n] {
				c.huffman.Encode(huffman.SymbolType(b), bw)
			}
		}
		if err != nil {
			if err != io.EOF {
				return Result{}, err
			}
			break
		}
	}

	c.huffman.Encode(adaptiveEOS, bw)
	bytesWritten := bw.Finish()
	return Result{BytesRead: bytesRead, BytesWritten: bytesWritten}, nil
}

// Decode implements Decoder.
func (c *AdaptiveCodec) Decode(input source.Source, output source.Sink) (Result, error) {
	r, err := input.Reader()
	if err != nil {
		return Result{}, err
	}
	w, err := output.Writer()
	if err != nil {
		return Result{}, err
	}

	br := bitstream.NewReader(r)

	var buf [readBufferSize]byte
	bufPos := 0
	var bytesWritten int

	for {
		symbol := c.huffman.Decode(br)
		if symbol == adaptiveEOS {
			break
		}
		buf[bufPos] = byte(symbol)
		bufPos++
		if bufPos == readBufferSize {
			if _, err := w.Write(buf[:]); err != nil {
				return Result{}, err
			}
			bufPos = 0
			bytesWritten += readBufferSize
		}
	}

	bytesRead := br.Finish()
	if bufPos > 0 {
		if _, err := w.Write(buf[:bufPos]); err != nil {
			return Result{}, err
		}
		bytesWritten += bufPos
	}

	return Result{BytesRead: bytesRead, BytesWritten: bytesWritten}, nil
}
