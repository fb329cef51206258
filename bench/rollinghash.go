package bench

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var errRollingHashCorrupt = errors.New("bench: rolling-hash stream is malformed")

// RollingHashCodec is a baseline bench.Suite compares nzip against: a
// sliding-window compressor that finds matches with a hash table keyed
// by a short rolling fingerprint rather than nzip's suffix array. Where
// nzip builds one search structure over the whole input up front and
// answers point queries against it, this baseline populates its table
// incrementally as it scans, trading a weaker (shorter-reach, greedy)
// match search for an O(1) amortized lookup per position. Comparing the
// two match-finding strategies on the same corpus is the point of
// keeping it here.
//
// The wire format is its own: a sequence of (tag, ...) tokens, tag 0 for
// a literal run (a uvarint length followed by that many raw bytes) and
// tag 1 for a copy (a uvarint length then a uvarint backward distance).
// It is unrelated to nzip's bit-packed token grammar and to any other
// codec this package benchmarks.
type RollingHashCodec struct{}

func (RollingHashCodec) Name() string { return "rollinghash" }

const (
	rhHashLen    = 4       // bytes folded into each fingerprint
	rhMinMatch   = 4       // shortest copy worth emitting
	rhMaxMatch   = 1 << 16 // longest copy a single token can encode efficiently
	rhWindowSize = 1 << 16 // furthest back a copy's source may start
	rhTableBits  = 15      // log2 of the fingerprint table size

	rhTableSize = 1 << rhTableBits
)

// rollingFingerprint hashes a short fixed-length window with FNV-1a.
// Unlike a true incremental rolling hash, this recomputes the window
// from scratch at every candidate position; for rhHashLen this small
// the cost is negligible and the table's collision behavior is the
// well-understood FNV distribution rather than a bespoke multiplier.
func rollingFingerprint(window []byte) uint32 {
	var h uint32 = 2166136261
	for _, b := range window {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}

func (RollingHashCodec) Compress(data []byte) ([]byte, error) {
	n := len(data)
	out := make([]byte, 0, n/2+16)
	var scratch [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		l := binary.PutUvarint(scratch[:], v)
		out = append(out, scratch[:l]...)
	}

	var table [rhTableSize]int32 // 0 means unoccupied; stored position+1
	litStart := 0
	flushLiteral := func(end int) {
		if end <= litStart {
			return
		}
		out = append(out, 0)
		putUvarint(uint64(end - litStart))
		out = append(out, data[litStart:end]...)
	}

	pos := 0
	for pos+rhHashLen <= n {
		slot := rollingFingerprint(data[pos:pos+rhHashLen]) & (rhTableSize - 1)
		candidate := int(table[slot]) - 1
		table[slot] = int32(pos + 1)

		if candidate >= 0 && pos-candidate <= rhWindowSize {
			length := matchLength(data, candidate, pos, n, rhMaxMatch)
			if length >= rhMinMatch {
				flushLiteral(pos)
				out = append(out, 1)
				putUvarint(uint64(length))
				putUvarint(uint64(pos - candidate))
				pos += length
				litStart = pos
				continue
			}
		}
		pos++
	}
	flushLiteral(n)
	return out, nil
}

func matchLength(data []byte, a, b, n, max int) int {
	length := 0
	for b+length < n && length < max && data[a+length] == data[b+length] {
		length++
	}
	return length
}

func (RollingHashCodec) Decompress(data []byte) ([]byte, error) {
	var out []byte
	pos := 0
	for pos < len(data) {
		tag := data[pos]
		pos++
		switch tag {
		case 0:
			length, adv := binary.Uvarint(data[pos:])
			if adv <= 0 {
				return nil, errRollingHashCorrupt
			}
			pos += adv
			end := pos + int(length)
			if end > len(data) {
				return nil, errRollingHashCorrupt
			}
			out = append(out, data[pos:end]...)
			pos = end
		case 1:
			length, adv := binary.Uvarint(data[pos:])
			if adv <= 0 {
				return nil, errRollingHashCorrupt
			}
			pos += adv
			distance, adv := binary.Uvarint(data[pos:])
			if adv <= 0 {
				return nil, errRollingHashCorrupt
			}
			pos += adv
			if distance == 0 || int(distance) > len(out) {
				return nil, errRollingHashCorrupt
			}
			start := len(out) - int(distance)
			for i := 0; i < int(length); i++ {
				out = append(out, out[start+i])
			}
		default:
			return nil, errRollingHashCorrupt
		}
	}
	return out, nil
}
