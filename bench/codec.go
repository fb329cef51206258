// Package bench is a corpus-driven comparison harness that runs the
// same input through nzip and through a handful of well-known
// ecosystem codecs, reporting side-by-side size/ratio stats. It never
// claims wire compatibility with any of them, since nzip's bitstream
// stays self-defined; this package only measures.
package bench

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/231RDB053/nzip-java/internal/progress"
	"github.com/231RDB053/nzip-java/lz77"
)

// Codec compresses and decompresses whole buffers.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// NzipCodec adapts this repository's own codec to the Codec interface
// so it can run through the same harness as its ecosystem peers.
type NzipCodec struct{}

func (NzipCodec) Name() string { return "nzip" }
func (NzipCodec) Compress(data []byte) ([]byte, error) {
	return lz77.Encode(data, progress.Noop), nil
}
func (NzipCodec) Decompress(data []byte) ([]byte, error) {
	return lz77.Decode(data, progress.Noop)
}

// SnappyCodec wraps github.com/golang/snappy.
type SnappyCodec struct{}

func (SnappyCodec) Name() string { return "snappy" }
func (SnappyCodec) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}
func (SnappyCodec) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// LZ4Codec wraps github.com/pierrec/lz4/v4's block API.
type LZ4Codec struct{}

func (LZ4Codec) Name() string { return "lz4" }
func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, errors.Wrap(err, "bench: lz4 compress")
	}
	if n == 0 {
		// Incompressible input: lz4 leaves dst empty rather than
		// inflating; store raw with a length prefix-free convention
		// the matching Decompress below understands.
		return append([]byte{0}, data...), nil
	}
	return append([]byte{1}, dst[:n]...), nil
}
func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	stored, payload := data[0], data[1:]
	if stored == 0 {
		return payload, nil
	}
	bufSize := len(payload) * 4
	const maxSize = 128 * 1024 * 1024
	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(payload, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}
			return nil, errors.Wrap(err, "bench: lz4 decompress")
		}
		return buf[:n], nil
	}
	return nil, errors.Wrap(lz4.ErrInvalidSourceShortBuffer, "bench: lz4 decompress")
}

// FlateCodec wraps github.com/klauspost/compress/flate, a drop-in
// replacement for the stdlib flate codec it shadows.
type FlateCodec struct{ Level int }

func (FlateCodec) Name() string { return "flate" }
func (f FlateCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	level := f.Level
	if level == 0 {
		level = flate.DefaultCompression
	}
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, errors.Wrap(err, "bench: flate writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "bench: flate write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "bench: flate close")
	}
	return buf.Bytes(), nil
}
func (FlateCodec) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "bench: flate read")
	}
	return out, nil
}

// BrotliCodec wraps github.com/andybalholm/brotli.
type BrotliCodec struct{ Quality int }

func (BrotliCodec) Name() string { return "brotli" }
func (b BrotliCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	quality := b.Quality
	if quality == 0 {
		quality = brotli.DefaultCompression
	}
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "bench: brotli write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "bench: brotli close")
	}
	return buf.Bytes(), nil
}
func (BrotliCodec) Decompress(data []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "bench: brotli read")
	}
	return out, nil
}

// DefaultCodecs is the set bench.Suite compares against by default:
// nzip, a rolling-hash baseline, and four well-known ecosystem codecs.
func DefaultCodecs() []Codec {
	return []Codec{
		NzipCodec{},
		RollingHashCodec{},
		SnappyCodec{},
		LZ4Codec{},
		FlateCodec{},
		BrotliCodec{},
	}
}
