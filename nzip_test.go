package nzip

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x41},
		[]byte("abcdefgh"),
		bytes.Repeat([]byte{0x00}, 300),
		{0x01, 0x02, 0x01, 0x02, 0x01, 0x02, 0x01, 0x02},
		bytes.Repeat([]byte("mississippi river "), 80),
	}
	for _, in := range inputs {
		compressed, err := Compress(in)
		require.NoError(t, err)

		decompressed, err := Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, in, decompressed)
	}
}

func TestCompressDecompressWithHuffmanLengthCoding(t *testing.T) {
	input := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 40)

	compressed, err := Compress(input, WithHuffmanLengthCoding())
	require.NoError(t, err)

	decompressed, err := Decompress(compressed, WithHuffmanLengthCoding())
	require.NoError(t, err)
	require.Equal(t, input, decompressed)
}

func TestHuffmanLengthCodingWithNoReferences(t *testing.T) {
	input := []byte("xyz")

	compressed, err := Compress(input, WithHuffmanLengthCoding())
	require.NoError(t, err)

	decompressed, err := Decompress(compressed, WithHuffmanLengthCoding())
	require.NoError(t, err)
	require.Equal(t, input, decompressed)
}

func TestWithObserverReceivesCompletion(t *testing.T) {
	input := make([]byte, 10000)
	rand.New(rand.NewSource(1)).Read(input)

	sawFinal := false
	_, err := Compress(input, WithObserver(func(percent int) {
		if percent == 100 {
			sawFinal = true
		}
	}))
	require.NoError(t, err)
	require.True(t, sawFinal)
}

func TestDecompressRejectsCorruptStream(t *testing.T) {
	_, err := Decompress([]byte{0b11000000})
	require.Error(t, err)
}

func TestInflationBound(t *testing.T) {
	input := []byte("no repeats here at all 0123456789")
	compressed, err := Compress(input)
	require.NoError(t, err)
	require.LessOrEqual(t, len(compressed), len(input)+2)
}
