package lz77

import (
	"github.com/pkg/errors"

	"github.com/231RDB053/nzip-java/internal/bitcarry"
	"github.com/231RDB053/nzip-java/internal/progress"
)

// Decode reverses Encode, reading the compression flag and then either
// the raw payload or the literal/reference token stream. Decode returns
// ErrCorruptStream for a reference whose distance points before the
// start of the decoded output, or for a bit stream that underflows
// mid-token.
func Decode(input []byte, observe progress.Func) ([]byte, error) {
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

	var out []byte
	if flag == 0 {
		for carry.AvailableBits() >= 8 {
			b, err := carry.ConsumeBits(8)
			if err != nil {
				return nil, wrapUnderflow(err)
			}
			out = append(out, byte(b))
			observe(progress.Scale(0, 100, doneFraction(carry, input)))
		}
		observe(100)
		return out, nil
	}

	for carry.AvailableBits() >= 1 {
		tag0, err := carry.PeekBits(1)
		if err != nil {
			return nil, wrapUnderflow(err)
		}
		if tag0 == 0 {
			if carry.AvailableBits() < 8 {
				break // trailing flush padding, not a real literal
			}
			b, err := carry.ConsumeBits(8)
			if err != nil {
				return nil, wrapUnderflow(err)
			}
			out = append(out, byte(b))
			observe(progress.Scale(0, 100, doneFraction(carry, input)))
			continue
		}
		if _, err := carry.ConsumeBits(1); err != nil { // consume tag0=1
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
			observe(progress.Scale(0, 100, doneFraction(carry, input)))
			continue
		}
		if _, err := carry.ConsumeBits(1); err != nil { // consume tag1=0
			return nil, wrapUnderflow(err)
		}

		length, distance, err := readReference(carry)
		if err != nil {
			return nil, err
		}
		if distance > len(out) {
			return nil, errors.Wrapf(ErrCorruptStream, "distance %d exceeds decoded length %d", distance, len(out))
		}
		start := len(out) - distance
		for i := 0; i < length; i++ {
			out = append(out, out[start+i])
		}
		observe(progress.Scale(0, 100, doneFraction(carry, input)))
	}

	observe(100)
	return out, nil
}

func readReference(carry *bitcarry.Carry) (length, distance int, err error) {
	mL, err := carry.ConsumeBits(1)
	if err != nil {
		return 0, 0, wrapUnderflow(err)
	}
	lenWidth := refSmallLengthSize
	if mL == 1 {
		lenWidth = refLengthSize
	}
	refLen, err := carry.ConsumeBits(lenWidth)
	if err != nil {
		return 0, 0, wrapUnderflow(err)
	}

	mD, err := carry.ConsumeBits(1)
	if err != nil {
		return 0, 0, wrapUnderflow(err)
	}
	distWidth := refSmallDistSize
	if mD == 1 {
		distWidth = refDistanceSize
	}
	offset, err := carry.ConsumeBits(distWidth)
	if err != nil {
		return 0, 0, wrapUnderflow(err)
	}

	return int(refLen) + MinLen, int(offset) + MinDist, nil
}

func doneFraction(carry *bitcarry.Carry, input []byte) float64 {
	total := len(input) * 8
	if total == 0 {
		return 1
	}
	remaining := carry.AvailableBits()
	return float64(total-remaining) / float64(total)
}
