package lz77

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/231RDB053/nzip-java/internal/bitcarry"
	"github.com/231RDB053/nzip-java/internal/huffman"
	"github.com/231RDB053/nzip-java/internal/matcher"
	"github.com/231RDB053/nzip-java/internal/progress"
)

// MaxFrequencyBitsLength is the width of the header field that states
// how many bits each transmitted frequency occupies. 5 bits lets the
// header encode frequencies up to 2^31-1, comfortably above anything a
// single compress call produces.
const MaxFrequencyBitsLength = 5

// headerFreqCountSize is the header's freq_count-1 field width.
const headerFreqCountSize = 8

// headerSymbolSize is the header's per-entry symbol field width.
// Transmitting refLen = length - MinLen rather than the raw match
// length keeps every symbol within [0, 255] exactly, so one byte per
// entry is always enough.
const headerSymbolSize = 8

// EncodeHuffmanLengths is an alternative encoding mode: like Encode,
// but the match-length field of every reference token is replaced by a
// canonical Huffman code built over the lengths actually used, with the
// frequency table transmitted in a header right after the compression
// flag so DecodeHuffmanLengths can rebuild the identical tree. Non-reference tokens
// (literals, the distance field) are unchanged from Encode's grammar.
func EncodeHuffmanLengths(input []byte, observe progress.Func) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	if observe == nil {
		observe = progress.Noop
	}

	m := matcher.Build(input, matcher.Params{LookAhead: LookAhead, Search: Search, MinLen: MinLen})

	type token struct {
		pos, length, distance int // distance == 0 marks a literal
	}
	var tokens []token
	freqs := map[int]int{}

	n := len(input)
	for pos := 0; pos < n; {
		if n-pos >= MinLen {
			if length, distance := m.LongestMatch(pos); length >= MinLen {
				tokens = append(tokens, token{pos, length, distance})
				freqs[length-MinLen]++
				pos += length
				continue
			}
		}
		tokens = append(tokens, token{pos, 1, 0})
		pos++
	}

	carry := bitcarry.New()
	_ = carry.PushBits(1, 1)

	var tree *huffman.Tree
	if len(freqs) > 0 {
		var err error
		tree, err = huffman.Build(freqs)
		if err != nil {
			return nil, errors.Wrap(err, "lz77: building length-alphabet tree")
		}
		writeLengthHeader(carry, tree)
	} else {
		// No reference tokens (e.g. input shorter than MinLen, or no
		// repeats found): no tree needed.
		_ = carry.PushBits(0, MaxFrequencyBitsLength)
		_ = carry.PushBits(0, headerFreqCountSize)
	}

	for i, tok := range tokens {
		if tok.distance == 0 {
			writeLiteral(carry, input[tok.pos])
		} else {
			writeHuffmanReference(carry, tree, tok.length, tok.distance)
		}
		observe(progress.Scale(0, 100, float64(i+1)/float64(len(tokens))))
	}

	if carry.AvailableBits() > 8*n {
		carry.Clear()
		_ = carry.PushBits(0, 1)
		_ = carry.PushBytes(input)
	}

	observe(100)
	return carry.GetBytes(true), nil
}

func writeLengthHeader(carry *bitcarry.Carry, tree *huffman.Tree) {
	freqs := tree.Frequencies()
	maxFreq := 0
	for _, f := range freqs {
		if f > maxFreq {
			maxFreq = f
		}
	}
	maxFreqBits := bitsNeeded(maxFreq)

	_ = carry.PushBits(uint64(maxFreqBits), MaxFrequencyBitsLength)
	_ = carry.PushBits(uint64(len(freqs)-1), headerFreqCountSize)

	symbols := make([]int, 0, len(freqs))
	for s := range freqs {
		symbols = append(symbols, s)
	}
	sort.Ints(symbols)
	for _, s := range symbols {
		_ = carry.PushBits(uint64(s), headerSymbolSize)
		_ = carry.PushBits(uint64(freqs[s]), maxFreqBits)
	}
}

func readLengthHeader(carry *bitcarry.Carry) (*huffman.Tree, error) {
	maxFreqBitsVal, err := carry.ConsumeBits(MaxFrequencyBitsLength)
	if err != nil {
		return nil, wrapUnderflow(err)
	}
	maxFreqBits := int(maxFreqBitsVal)

	countMinusOne, err := carry.ConsumeBits(headerFreqCountSize)
	if err != nil {
		return nil, wrapUnderflow(err)
	}
	if maxFreqBits == 0 {
		// Sentinel for "no reference tokens were encoded, no tree was
		// built": a real tree always has at least one symbol with a
		// strictly positive frequency, so bitsNeeded never returns 0.
		return nil, nil
	}
	count := int(countMinusOne) + 1

	freqs := make(map[int]int, count)
	for i := 0; i < count; i++ {
		symbol, err := carry.ConsumeBits(headerSymbolSize)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		freq, err := carry.ConsumeBits(maxFreqBits)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		freqs[int(symbol)] = int(freq)
	}
	if len(freqs) == 0 {
		return nil, nil
	}
	tree, err := huffman.Build(freqs)
	if err != nil {
		return nil, errors.Wrap(err, "lz77: rebuilding length-alphabet tree")
	}
	return tree, nil
}

func writeHuffmanReference(carry *bitcarry.Carry, tree *huffman.Tree, length, distance int) {
	_ = carry.PushBits(0b10, 2)

	code, ok := tree.Lookup(length - MinLen)
	if !ok {
		// Cannot happen: every emitted length was counted into freqs
		// before the tree was built.
		panic("lz77: length missing from huffman tree")
	}
	_ = carry.PushBits(code.Bits, code.Length)

	offset := distance - MinDist
	longDist := offset > smallDistLimit
	_ = carry.PushBits(boolBit(longDist), 1)
	if longDist {
		_ = carry.PushBits(uint64(offset), refDistanceSize)
	} else {
		_ = carry.PushBits(uint64(offset), refSmallDistSize)
	}
}

func decodeHuffmanSymbol(tree *huffman.Tree, carry *bitcarry.Carry) (int, error) {
	idx := tree.Root()
	for !tree.IsLeaf(idx) {
		bit, err := carry.ConsumeBits(1)
		if err != nil {
			return 0, wrapUnderflow(err)
		}
		left, right := tree.Child(idx)
		if bit == 0 {
			idx = left
		} else {
			idx = right
		}
	}
	return tree.Symbol(idx), nil
}

func bitsNeeded(v int) int {
	if v == 0 {
		return 1
	}
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// DecodeHuffmanLengths reverses EncodeHuffmanLengths.
func DecodeHuffmanLengths(input []byte, observe progress.Func) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	if observe == nil {
		observe = progress.Noop
	}

	carry := bitcarry.FromBytes(input)
	flag, err := carry.ConsumeBits(1)
	if err != nil {
		return nil, wrapUnderflow(err)
	}
	if flag == 0 {
		var out []byte
		for carry.AvailableBits() >= 8 {
			b, err := carry.ConsumeBits(8)
			if err != nil {
				return nil, wrapUnderflow(err)
			}
			out = append(out, byte(b))
		}
		observe(100)
		return out, nil
	}

	tree, err := readLengthHeader(carry)
	if err != nil {
		return nil, err
	}

	var out []byte
	for carry.AvailableBits() >= 1 {
		tag0, err := carry.PeekBits(1)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		if tag0 == 0 {
			if carry.AvailableBits() < 8 {
				break
			}
			b, err := carry.ConsumeBits(8)
			if err != nil {
				return nil, wrapUnderflow(err)
			}
			out = append(out, byte(b))
			continue
		}
		if _, err := carry.ConsumeBits(1); err != nil {
			return nil, wrapUnderflow(err)
		}
		tag1, err := carry.PeekBits(1)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		if tag1 == 1 {
			b, err := carry.ConsumeBits(8)
			if err != nil {
				return nil, wrapUnderflow(err)
			}
			out = append(out, byte(b))
			continue
		}
		if _, err := carry.ConsumeBits(1); err != nil {
			return nil, wrapUnderflow(err)
		}

		if tree == nil {
			return nil, errors.Wrap(ErrCorruptStream, "reference token with no length tree")
		}
		refLen, err := decodeHuffmanSymbol(tree, carry)
		if err != nil {
			return nil, err
		}
		length := refLen + MinLen

		mD, err := carry.ConsumeBits(1)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		distWidth := refSmallDistSize
		if mD == 1 {
			distWidth = refDistanceSize
		}
		offsetVal, err := carry.ConsumeBits(distWidth)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		distance := int(offsetVal) + MinDist

		if distance > len(out) {
			return nil, errors.Wrapf(ErrCorruptStream, "distance %d exceeds decoded length %d", distance, len(out))
		}
		start := len(out) - distance
		for i := 0; i < length; i++ {
			out = append(out, out[start+i])
		}
	}

	observe(100)
	return out, nil
}
