package lz77

import (
	"github.com/231RDB053/nzip-java/internal/bitcarry"
	"github.com/231RDB053/nzip-java/internal/matcher"
	"github.com/231RDB053/nzip-java/internal/progress"
)

// Encode compresses input into a leading compression flag followed by
// either the token stream or, when compression would inflate the
// input, a raw-storage fallback (flag bit 0 + the input bytes,
// bit-packed but otherwise untouched). Empty input returns an empty
// slice with no flag bit.
func Encode(input []byte, observe progress.Func) []byte {
	if len(input) == 0 {
		return nil
	}
	if observe == nil {
		observe = progress.Noop
	}

	carry := bitcarry.New()
	_ = carry.PushBits(1, 1) // compression flag: compressed

	m := matcher.Build(input, matcher.Params{LookAhead: LookAhead, Search: Search, MinLen: MinLen})

	pos := 0
	n := len(input)
	for pos < n {
		if n-pos >= MinLen {
			if length, distance := m.LongestMatch(pos); length >= MinLen {
				writeReference(carry, pos, length, distance)
				pos += length
				observe(progress.Scale(0, 100, float64(pos)/float64(n)))
				continue
			}
		}
		writeLiteral(carry, input[pos])
		pos++
		observe(progress.Scale(0, 100, float64(pos)/float64(n)))
	}

	if carry.AvailableBits() > 8*n {
		carry.Clear()
		_ = carry.PushBits(0, 1) // compression flag: raw
		_ = carry.PushBytes(input)
	}

	observe(100)
	return carry.GetBytes(true)
}

func writeLiteral(carry *bitcarry.Carry, b byte) {
	if isLeadingOne(b) {
		_ = carry.PushBits(1, 1) // explicit tag bit; the byte's own top bit follows and is re-read as part of it
	}
	_ = carry.PushBits(uint64(b), 8)
}

func writeReference(carry *bitcarry.Carry, pos, length, distance int) {
	_ = carry.PushBits(0b10, 2)

	refLen := length - MinLen
	longLen := refLen > smallLengthLimit
	_ = carry.PushBits(boolBit(longLen), 1)
	if longLen {
		_ = carry.PushBits(uint64(refLen), refLengthSize)
	} else {
		_ = carry.PushBits(uint64(refLen), refSmallLengthSize)
	}

	offset := distance - MinDist
	longDist := offset > smallDistLimit
	_ = carry.PushBits(boolBit(longDist), 1)
	if longDist {
		_ = carry.PushBits(uint64(offset), refDistanceSize)
	} else {
		_ = carry.PushBits(uint64(offset), refSmallDistSize)
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
