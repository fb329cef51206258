// Package progress carries the observer plumbing Encode/Decode use: a
// single best-effort callback invoked synchronously from the
// encoding/decoding loop, reporting a monotonically non-decreasing
// percentage. The core never fans out to multiple observers itself; a
// caller wanting several composes them into one Func first.
package progress

// Func is invoked with a percentage in [0, 100]. Implementations must
// not mutate the buffer being encoded/decoded or call back into the
// codec.
type Func func(percent int)

// Noop never reports anything; it is the default observer.
func Noop(int) {}

// Compose returns a Func that calls each fn in order. Use it when more
// than one observer needs to see the same stream of updates.
func Compose(fns ...Func) Func {
	live := make([]Func, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			live = append(live, fn)
		}
	}
	return func(percent int) {
		for _, fn := range live {
			fn(percent)
		}
	}
}

// Scale maps a fraction in [0,1] to an integer percent within [lo, hi].
func Scale(lo, hi int, fraction float64) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return lo + int(fraction*float64(hi-lo))
}
