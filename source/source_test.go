package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySourceFrequencies(t *testing.T) {
	s := NewMemorySource([]byte{0, 0, 1, 1, 1, 255})
	freq, err := s.Frequencies()
	require.NoError(t, err)
	require.EqualValues(t, 2, freq[0])
	require.EqualValues(t, 3, freq[1])
	require.EqualValues(t, 1, freq[255])
	require.EqualValues(t, 0, freq[2])

	n, err := s.Len()
	require.NoError(t, err)
	require.EqualValues(t, 6, n)
}

func TestMemorySinkTakeBytes(t *testing.T) {
	sink := NewMemorySink()
	w, err := sink.Writer()
	require.NoError(t, err)

	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), sink.TakeBytes())
}

func TestFileSourceAndSink(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in")
	outPath := filepath.Join(dir, "out")

	require.NoError(t, os.WriteFile(inPath, []byte("abcabcabc"), 0o644))

	src := NewFileSource(inPath)
	n, err := src.Len()
	require.NoError(t, err)
	require.EqualValues(t, 9, n)

	freq, err := src.Frequencies()
	require.NoError(t, err)
	require.EqualValues(t, 3, freq['a'])
	require.EqualValues(t, 3, freq['b'])
	require.EqualValues(t, 3, freq['c'])

	r, err := src.Reader()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "abcabcabc", string(data))

	sink := NewFileSink(outPath)
	w, err := sink.Writer()
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, data, written)
}
