// Package lz77 implements a sliding-window LZ77 coder: an
// implicit-leading-bit literal tag and a dual-width length/distance
// reference encoding, packed through internal/bitcarry and searched
// through internal/matcher. Encode/Decode operate on whole in-memory
// buffers rather than streams, so callers pay no framing overhead for
// a single compress-then-decompress round trip.
package lz77

import "github.com/pkg/errors"

// Bit-width constants for the reference token's length and distance
// fields.
const (
	refLengthSize      = 8  // L
	refSmallLengthSize = 4  // REF_SMALL_LEN
	refDistanceSize    = 16 // D
	refSmallDistSize   = 10 // REF_SMALL_DIST

	MinLen  = 4 // MIN_LEN
	MinDist = 1 // MIN_DIST

	// LookAhead = (1<<refLengthSize)-1+MinLen = 259.
	LookAhead = (1 << refLengthSize) - 1 + MinLen
	// Search = (1<<refDistanceSize)+MinDist = 65537.
	Search = (1 << refDistanceSize) + MinDist

	smallLengthLimit = (1 << refSmallLengthSize) - 1   // 15
	smallDistLimit   = (1 << refSmallDistSize) - 1     // 1023
)

// ErrCorruptStream is returned by Decode when a token is semantically
// invalid: a reference copying from before the start of the decoded
// output, or a bit stream that runs out mid-token.
var ErrCorruptStream = errors.New("lz77: corrupt stream")

func isLeadingOne(b byte) bool {
	return b&0x80 != 0
}

// wrapUnderflow lifts a bitcarry underflow/width error into
// ErrCorruptStream, since from Decode's perspective a bit stream that
// runs dry mid-token is just another form of a malformed stream.
func wrapUnderflow(cause error) error {
	return errors.Wrapf(ErrCorruptStream, "unexpected end of stream: %v", cause)
}
