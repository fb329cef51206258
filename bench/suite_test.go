package bench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuiteRoundTripsEveryCodec(t *testing.T) {
	corpus := []Entry{
		{Name: "repetitive", Data: bytes.Repeat([]byte("the quick brown fox "), 200)},
		{Name: "empty", Data: nil},
		{Name: "short", Data: []byte("hi")},
	}

	results, err := Suite(corpus, DefaultCodecs())
	require.NoError(t, err)
	require.Len(t, results, len(corpus)*len(DefaultCodecs()))

	for _, r := range results {
		require.True(t, r.RoundTripOK, "codec %s failed to round-trip", r.Codec)
	}
}

func TestFingerprintStable(t *testing.T) {
	data := []byte("fingerprint me")
	require.Equal(t, Fingerprint(data), Fingerprint(append([]byte{}, data...)))
}

func TestCompressionStatsRatio(t *testing.T) {
	s := CompressionStats{OriginalSize: 100, CompressedSize: 40}
	require.InDelta(t, 0.4, s.Ratio(), 0.0001)
	require.InDelta(t, 60.0, s.SpaceSavings(), 0.0001)
}
