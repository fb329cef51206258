package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{LookAhead: 259, Search: 65537, MinLen: 4}
}

func TestLongestMatchFindsRepeat(t *testing.T) {
	data := []byte("abcdabcdabcd")
	m := Build(data, defaultParams())

	length, distance := m.LongestMatch(4)
	require.GreaterOrEqual(t, length, 4)
	require.Equal(t, 4, distance)
	for i := 0; i < length; i++ {
		require.Equal(t, data[4+i], data[4-distance+i])
	}
}

func TestLongestMatchNoCandidateBelowMinLen(t *testing.T) {
	data := []byte("abcxyz")
	m := Build(data, defaultParams())
	length, distance := m.LongestMatch(3)
	require.Equal(t, 0, length)
	require.Equal(t, 0, distance)
}

func TestLongestMatchRespectsWindow(t *testing.T) {
	data := append([]byte("REPEAT"), make([]byte, 20)...)
	copy(data[20:], "REPEAT")
	m := Build(data, Params{LookAhead: 259, Search: 10, MinLen: 4})
	length, _ := m.LongestMatch(20)
	require.Equal(t, 0, length, "match source is outside the search window")
}

func TestLongestMatchCapsAtLookAhead(t *testing.T) {
	run := make([]byte, 600)
	for i := range run {
		run[i] = 'x'
	}
	m := Build(run, Params{LookAhead: 259, Search: 65537, MinLen: 4})
	length, distance := m.LongestMatch(1)
	require.Equal(t, 259, length)
	require.Equal(t, 1, distance)
}

func TestLongestMatchOverlapping(t *testing.T) {
	data := []byte{0x01, 0x02, 0x01, 0x02, 0x01, 0x02, 0x01, 0x02}
	m := Build(data, defaultParams())
	length, distance := m.LongestMatch(2)
	require.GreaterOrEqual(t, length, 4)
	require.Equal(t, 2, distance)
}

func TestCorrectnessOnRandomishInput(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog the quick brown fox")
	m := Build(data, defaultParams())
	for pos := 0; pos < len(data); pos++ {
		length, distance := m.LongestMatch(pos)
		if length == 0 {
			continue
		}
		require.GreaterOrEqual(t, distance, 1)
		for i := 0; i < length; i++ {
			require.Equal(t, data[pos+i], data[pos-distance+i], "pos=%d i=%d", pos, i)
		}
	}
}
