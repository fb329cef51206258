// Package nzip exposes two pure, synchronous entry points, Compress and
// Decompress, each taking an in-memory byte buffer and returning one.
// Everything below this layer (bit packing, suffix-array matching,
// Huffman coding, the token grammar) lives under internal/ and lz77/;
// this file only wires those pieces together and applies the options a
// caller passed.
package nzip

import (
	"github.com/231RDB053/nzip-java/internal/progress"
	"github.com/231RDB053/nzip-java/lz77"
)

// Sentinel errors re-exported from the packages that actually detect
// them, so callers can errors.Is against a single stable set of names
// without reaching into internal/.
var (
	ErrCorruptStream = lz77.ErrCorruptStream
)

// config collects the options a caller can pass to Compress/Decompress.
type config struct {
	observe        progress.Func
	huffmanLengths bool
}

// Option configures a single Compress or Decompress call.
type Option func(*config)

// WithObserver registers a progress callback invoked synchronously from
// the encoding/decoding loop with a best-effort, monotonically
// non-decreasing percentage in [0, 100]. Only the last WithObserver in
// a call wins; compose multiple callbacks with internal/progress.Compose
// before passing them in if more than one needs to observe the same run.
func WithObserver(fn progress.Func) Option {
	return func(c *config) { c.observe = fn }
}

// WithHuffmanLengthCoding switches both Compress and Decompress to an
// alternative mode where reference-token match lengths are
// Huffman-coded against a frequency table transmitted in a header,
// instead of the fixed 4/8-bit fields the default mode uses. Both
// sides of a round trip must agree on this option.
func WithHuffmanLengthCoding() Option {
	return func(c *config) { c.huffmanLengths = true }
}

func newConfig(opts []Option) *config {
	c := &config{observe: progress.Noop}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress encodes input into nzip's self-defined bit layout, applying
// the sliding-window LZ77 coder and, when the input would otherwise
// inflate, falling back to raw storage. Compress never returns an
// error: empty input yields empty output, and inflation is handled
// silently by the fallback path.
func Compress(input []byte, opts ...Option) ([]byte, error) {
	c := newConfig(opts)
	if c.huffmanLengths {
		return lz77.EncodeHuffmanLengths(input, c.observe)
	}
	return lz77.Encode(input, c.observe), nil
}

// Decompress reverses Compress. It returns ErrCorruptStream if input is
// not a well-formed nzip bit stream: a reference pointing before the
// start of the decoded output, or a stream that runs out mid-token.
func Decompress(input []byte, opts ...Option) ([]byte, error) {
	c := newConfig(opts)
	if c.huffmanLengths {
		return lz77.DecodeHuffmanLengths(input, c.observe)
	}
	return lz77.Decode(input, c.observe)
}
