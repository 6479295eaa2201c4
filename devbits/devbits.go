// Package devbits is a development/debugging aid for inspecting a finished
// compressed stream one bit at a time: it renders a byte slice as a
// "0101..." string, and can rebuild a byte slice from such a string. It
// plays no role in the encode/decode hot path — it exists so tests and ad
// hoc debugging can diff two encoded streams bit-by-bit instead of
// byte-by-byte.
package devbits

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// DumpBits renders data as a string of '0'/'1' characters, msb-first
// within each byte, matching the bit order bitstream.Writer emits.
func DumpBits(data []byte) string {
	r := bitio.NewReader(bytes.NewReader(data))
	var sb bytes.Buffer
	for {
		bit, err := r.ReadBool()
		if err != nil {
			break
		}
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBits rebuilds a byte slice from a "0101..." string produced by
// DumpBits (or a human editing one), padding the final byte with zero
// bits if the string's length isn't a multiple of 8.
func ParseBits(bits string) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, c := range bits {
		if err := w.WriteBool(c == '1'); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CountBits reads data through a bitio.Reader and returns how many whole
// bits it holds (always len(data)*8, but exercised via bitio rather than
// computed directly, since this package's job is to observe streams the
// same way a human debugging session would: bit by bit, not by formula).
func CountBits(data []byte) int {
	r := bitio.NewReader(bytes.NewReader(data))
	count := 0
	for {
		_, err := r.ReadBool()
		if err != nil {
			if err != io.EOF {
				break
			}
			break
		}
		count++
	}
	return count
}
