package huffman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyAlphabet(t *testing.T) {
	_, err := Build(map[int]int{})
	require.ErrorIs(t, err, ErrEmptyAlphabet)
}

func TestSingleSymbolGetsOneBitCode(t *testing.T) {
	tree, err := Build(map[int]int{0x20: 7})
	require.NoError(t, err)

	code, ok := tree.Lookup(0x20)
	require.True(t, ok)
	require.Equal(t, 1, code.Length)
}

func TestPrefixFreeness(t *testing.T) {
	freqs := map[int]int{
		4:  50,
		5:  20,
		6:  15,
		7:  10,
		8:  3,
		9:  1,
		10: 1,
	}
	tree, err := Build(freqs)
	require.NoError(t, err)

	type entry struct {
		symbol int
		code   Code
	}
	var all []entry
	for s := range freqs {
		c, ok := tree.Lookup(s)
		require.True(t, ok)
		all = append(all, entry{s, c})
	}

	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			require.False(t, isPrefixOf(all[i].code, all[j].code),
				"code for symbol %d is a prefix of code for symbol %d", all[i].symbol, all[j].symbol)
		}
	}
}

func isPrefixOf(a, b Code) bool {
	if a.Length >= b.Length {
		return false
	}
	shift := uint(b.Length - a.Length)
	return (b.Bits >> shift) == a.Bits
}

func TestDeterministicAcrossBuilds(t *testing.T) {
	freqs := map[int]int{1: 5, 2: 5, 3: 1, 4: 1, 5: 9}
	t1, err := Build(freqs)
	require.NoError(t, err)
	t2, err := Build(freqs)
	require.NoError(t, err)

	for s := range freqs {
		c1, _ := t1.Lookup(s)
		c2, _ := t2.Lookup(s)
		require.Equal(t, c1, c2, "symbol %d must get the same code across builds", s)
	}
}

func TestFrequenciesRoundTrip(t *testing.T) {
	freqs := map[int]int{10: 3, 20: 7}
	tree, err := Build(freqs)
	require.NoError(t, err)
	require.Equal(t, freqs, tree.Frequencies())
}
