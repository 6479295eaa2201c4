package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"huffc/source"
)

// TestTesterRunAll drives the same memory+file round trip cmd/huffc runs
// at startup, through the one shared implementation in tester.go.
func TestTesterRunAll(t *testing.T) {
	NewTester().RunAll(t)
}

// TestFactoriesCompressRepetitivePattern checks each registered codec
// actually shrinks a repetitive input, a property RunAll's plain
// round-trip comparison doesn't assert on its own.
func TestFactoriesCompressRepetitivePattern(t *testing.T) {
	tester := NewTester()
	input := testerPatternBytes(1000)

	for _, factory := range tester.Factories() {
		t.Run(factory.Name, func(t *testing.T) {
			src := source.NewMemorySource(input)
			sink := source.NewMemorySink()

			encoder := factory.NewEncoder()
			_, err := encoder.Encode(src, sink)
			require.NoError(t, err)

			encoded := sink.TakeBytes()
			require.Less(t, len(encoded), len(input), "expected compression on a repetitive pattern")
		})
	}
}

// The static codec's tree builder requires at least one non-zero-weight
// symbol (mirroring the original source's own build_from_weights assert),
// so only the adaptive codec is exercised on empty input: it degrades
// gracefully to just the end-of-stream marker.
func TestAdaptiveCodecEmptyInput(t *testing.T) {
	src := source.NewMemorySource(nil)
	sink := source.NewMemorySink()

	encoder := NewAdaptiveEncoder()
	_, err := encoder.Encode(src, sink)
	require.NoError(t, err)

	decodeSrc := source.NewMemorySource(sink.TakeBytes())
	decodeSink := source.NewMemorySink()
	decoder := NewAdaptiveDecoder()
	_, err = decoder.Decode(decodeSrc, decodeSink)
	require.NoError(t, err)

	require.Empty(t, decodeSink.TakeBytes())
}
