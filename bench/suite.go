package bench

import (
	"time"

	"github.com/apex/log"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// CompressionStats reports the outcome of running one Codec over one
// corpus entry.
type CompressionStats struct {
	Codec               string
	OriginalSize        int64
	CompressedSize      int64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
	RoundTripOK         bool
}

// Ratio returns CompressedSize/OriginalSize; values below 1.0 indicate
// successful compression.
func (s CompressionStats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage, at most 100;
// it is negative when the compressed output is larger than the input.
func (s CompressionStats) SpaceSavings() float64 {
	return (1 - s.Ratio()) * 100
}

// Entry is one named corpus item to run every codec over.
type Entry struct {
	Name string
	Data []byte
}

// Fingerprint returns a stable xxhash of data. Suite uses it to assert
// round-trip equality by comparing hashes rather than the bytes
// themselves; nothing is cached across Suite runs.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Suite runs every codec over every corpus entry and returns one
// CompressionStats per (codec, entry) pair. It logs a one-line summary
// per pair via apex/log.
func Suite(corpus []Entry, codecs []Codec) ([]CompressionStats, error) {
	var results []CompressionStats
	for _, entry := range corpus {
		wantHash := Fingerprint(entry.Data)
		for _, codec := range codecs {
			stats, err := runOne(codec, entry, wantHash)
			if err != nil {
				return nil, errors.Wrapf(err, "bench: codec %s on entry %s", codec.Name(), entry.Name)
			}
			log.WithFields(log.Fields{
				"codec":       stats.Codec,
				"entry":       entry.Name,
				"original":    stats.OriginalSize,
				"compressed":  stats.CompressedSize,
				"ratio":       stats.Ratio(),
				"roundTripOK": stats.RoundTripOK,
			}).Info("bench: codec run complete")
			results = append(results, stats)
		}
	}
	return results, nil
}

func runOne(codec Codec, entry Entry, wantHash uint64) (CompressionStats, error) {
	start := time.Now()
	compressed, err := codec.Compress(entry.Data)
	compressTime := time.Since(start)
	if err != nil {
		return CompressionStats{}, err
	}

	start = time.Now()
	decompressed, err := codec.Decompress(compressed)
	decompressTime := time.Since(start)
	if err != nil {
		return CompressionStats{}, err
	}

	return CompressionStats{
		Codec:               codec.Name(),
		OriginalSize:        int64(len(entry.Data)),
		CompressedSize:      int64(len(compressed)),
		CompressionTimeNs:   compressTime.Nanoseconds(),
		DecompressionTimeNs: decompressTime.Nanoseconds(),
		RoundTripOK:         Fingerprint(decompressed) == wantHash,
	}, nil
}
