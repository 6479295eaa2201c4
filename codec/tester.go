package codec

import (
	"fmt"
	"os"
	"path/filepath"

	"huffc/source"
)

// Method identifies a registered compression method by name.
type Method int

const (
	// MethodDynamicHuffman is the single-pass adaptive (Vitter) codec.
	MethodDynamicHuffman Method = iota
	// MethodStaticHuffman is the two-pass canonical codec.
	MethodStaticHuffman
)

// Factory pairs a method's encoder/decoder constructors under one name.
type Factory struct {
	Name       string
	Method     Method
	NewEncoder func() Encoder
	NewDecoder func() Decoder
}

var factories = []Factory{
	{
		Name:       "DynamicHuffman",
		Method:     MethodDynamicHuffman,
		NewEncoder: func() Encoder { return NewAdaptiveEncoder() },
		NewDecoder: func() Decoder { return NewAdaptiveDecoder() },
	},
	{
		Name:       "StaticHuffman",
		Method:     MethodStaticHuffman,
		NewEncoder: func() Encoder { return NewStaticEncoder() },
		NewDecoder: func() Decoder { return NewStaticDecoder() },
	},
}

// Tester exposes every registered compression method for round-trip
// exercises, so a caller (tests or cmd/huffc) can iterate over codecs
// without naming each one.
type Tester struct{}

// NewTester returns a Tester over the built-in codec registry.
func NewTester() *Tester {
	return &Tester{}
}

// Factories returns every registered codec factory.
func (t *Tester) Factories() []Factory {
	return factories
}

// Factory returns the registered factory for method, panicking if it is
// not registered — mirroring the original tester's "no such method" panic,
// a programming error rather than a recoverable condition.
func (t *Tester) Factory(method Method) Factory {
	for _, f := range factories {
		if f.Method == method {
			return f
		}
	}
	panic("codec: unregistered compression method")
}

// TestReporter is the minimal subset of *testing.T that RunAll needs to
// report a failed round trip, so the same round-trip logic can drive both
// the package's own tests and cmd/huffc's self-test harness.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

func testerPatternBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte((i % 32) + 32)
	}
	return data
}

// RunAll round-trips a deterministic pattern through every registered
// codec, once via in-memory Source/Sink and once via temporary files,
// reporting through r on any mismatch — grounded on the original source's
// Tester::run, which does the same pair of round trips per method.
func (t *Tester) RunAll(r TestReporter) {
	r.Helper()

	input := testerPatternBytes(1000)
	dir, err := os.MkdirTemp("", "huffc-tester")
	if err != nil {
		r.Fatalf("codec: tester: creating temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	for _, factory := range t.Factories() {
		fmt.Printf("%s:\n", factory.Name)
		t.runMemoryRoundTrip(r, factory, input)
		t.runFileRoundTrip(r, factory, dir, input)
		fmt.Println()
	}
}

func (t *Tester) runMemoryRoundTrip(r TestReporter, factory Factory, input []byte) {
	r.Helper()

	src := source.NewMemorySource(input)
	sink := source.NewMemorySink()

	encoder := factory.NewEncoder()
	encodeResult, err := encoder.Encode(src, sink)
	if err != nil {
		r.Fatalf("%s: memory encode: %v", factory.Name, err)
		return
	}
	fmt.Printf("  %s memory encode: %s\n", factory.Name, encodeResult)

	encoded := sink.TakeBytes()
	decodeSrc := source.NewMemorySource(encoded)
	decodeSink := source.NewMemorySink()

	decoder := factory.NewDecoder()
	decodeResult, err := decoder.Decode(decodeSrc, decodeSink)
	if err != nil {
		r.Fatalf("%s: memory decode: %v", factory.Name, err)
		return
	}
	fmt.Printf("  %s memory decode: %s\n", factory.Name, decodeResult)

	decoded := decodeSink.TakeBytes()
	if len(decoded) != len(input) {
		r.Fatalf("%s: memory round trip length mismatch: got %d want %d", factory.Name, len(decoded), len(input))
		return
	}
	for i := range input {
		if decoded[i] != input[i] {
			r.Fatalf("%s: memory round trip mismatch at byte %d", factory.Name, i)
			return
		}
	}
}

func (t *Tester) runFileRoundTrip(r TestReporter, factory Factory, dir string, input []byte) {
	r.Helper()

	inPath := filepath.Join(dir, factory.Name+".in")
	encPath := filepath.Join(dir, factory.Name+".enc")
	decPath := filepath.Join(dir, factory.Name+".dec")

	if err := os.WriteFile(inPath, input, 0o644); err != nil {
		r.Fatalf("%s: writing input file: %v", factory.Name, err)
		return
	}

	encoder := factory.NewEncoder()
	encodeResult, err := encoder.Encode(source.NewFileSource(inPath), source.NewFileSink(encPath))
	if err != nil {
		r.Fatalf("%s: file encode: %v", factory.Name, err)
		return
	}
	fmt.Printf("  %s file encode: %s\n", factory.Name, encodeResult)

	decoder := factory.NewDecoder()
	decodeResult, err := decoder.Decode(source.NewFileSource(encPath), source.NewFileSink(decPath))
	if err != nil {
		r.Fatalf("%s: file decode: %v", factory.Name, err)
		return
	}
	fmt.Printf("  %s file decode: %s\n", factory.Name, decodeResult)

	inputData, err := os.ReadFile(inPath)
	if err != nil {
		r.Fatalf("%s: reading back input file: %v", factory.Name, err)
		return
	}
	decodedData, err := os.ReadFile(decPath)
	if err != nil {
		r.Fatalf("%s: reading back decoded file: %v", factory.Name, err)
		return
	}
	if len(inputData) != len(decodedData) {
		r.Fatalf("%s: file round trip length mismatch", factory.Name)
		return
	}
	for i := range inputData {
		if inputData[i] != decodedData[i] {
			r.Fatalf("%s: file round trip mismatch at byte %d", factory.Name, i)
			return
		}
	}
}
