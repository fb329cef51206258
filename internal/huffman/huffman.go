// Package huffman builds canonical-ish prefix codes over an integer
// alphabet using a binary-heap tree merge. Nodes live in a flat arena
// addressed by index rather than as pointer-linked structs, so a Tree
// is trivially copyable and has no cyclic ownership to worry about.
package huffman

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"
)

// ErrEmptyAlphabet is returned by Build when the frequency map has zero
// symbols.
var ErrEmptyAlphabet = errors.New("huffman: empty alphabet")

const noChild = -1

// node is an arena entry: a leaf if left/right are both noChild.
type node struct {
	symbol    int
	frequency int
	left      int
	right     int
}

func (n node) isLeaf() bool { return n.left == noChild && n.right == noChild }

// Code is a leaf's assigned path: the low Length bits of Bits, read
// MSB-first, left=0, right=1.
type Code struct {
	Bits   uint64
	Length int
}

// Tree is a built Huffman tree plus its per-symbol code table.
type Tree struct {
	nodes  []node
	root   int
	codes  map[int]Code
	freqs  map[int]int
}

// Build constructs a Tree from a symbol->frequency map. Frequencies must
// be strictly positive; Build does not validate that (callers only ever
// derive frequencies by counting occurrences, which cannot be
// non-positive). If exactly one symbol is present, a synthetic leaf with
// symbol 0 and frequency 1 is added so the tree has at least two leaves
// and every real symbol gets a non-empty code.
func Build(freqs map[int]int) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyAlphabet
	}

	symbols := make([]int, 0, len(freqs))
	for s := range freqs {
		symbols = append(symbols, s)
	}
	sort.Ints(symbols) // deterministic insertion order into the heap

	t := &Tree{
		codes: make(map[int]Code, len(freqs)),
		freqs: make(map[int]int, len(freqs)),
	}
	for _, s := range symbols {
		t.freqs[s] = freqs[s]
	}

	pq := make(priorityQueue, 0, len(symbols)+1)
	for _, s := range symbols {
		idx := t.addNode(node{symbol: s, frequency: freqs[s], left: noChild, right: noChild})
		heap.Push(&pq, pqItem{freq: freqs[s], symbol: s, node: idx})
	}
	if len(symbols) == 1 {
		idx := t.addNode(node{symbol: 0, frequency: 1, left: noChild, right: noChild})
		heap.Push(&pq, pqItem{freq: 1, symbol: 0, node: idx})
	}

	for pq.Len() > 1 {
		left := heap.Pop(&pq).(pqItem)
		right := heap.Pop(&pq).(pqItem)
		freq := left.freq + right.freq
		idx := t.addNode(node{symbol: 0, frequency: freq, left: left.node, right: right.node})
		heap.Push(&pq, pqItem{freq: freq, symbol: 0, node: idx})
	}
	root := heap.Pop(&pq).(pqItem)
	t.root = root.node

	t.assignCodes(t.root, 0, 0)
	return t, nil
}

func (t *Tree) addNode(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree) assignCodes(idx int, bits uint64, length int) {
	n := t.nodes[idx]
	if n.isLeaf() {
		if length == 0 {
			// Single-node tree edge case cannot occur: Build always
			// merges at least two leaves before returning a root.
			length = 1
		}
		t.codes[n.symbol] = Code{Bits: bits, Length: length}
		return
	}
	t.assignCodes(n.left, bits<<1, length+1)
	t.assignCodes(n.right, (bits<<1)|1, length+1)
}

// Lookup returns the code assigned to symbol and whether it exists.
func (t *Tree) Lookup(symbol int) (Code, bool) {
	c, ok := t.codes[symbol]
	return c, ok
}

// Root returns the arena index of the root node, for traversal by
// callers that want to walk the tree directly (e.g. a decoder
// reconstructing the tree from a transmitted frequency table).
func (t *Tree) Root() int { return t.root }

// Frequencies returns the frequency map the tree was built from.
func (t *Tree) Frequencies() map[int]int {
	out := make(map[int]int, len(t.freqs))
	for k, v := range t.freqs {
		out[k] = v
	}
	return out
}

// Child returns the left/right children of the node at idx, or
// (noChild, noChild) if idx is a leaf.
func (t *Tree) Child(idx int) (left, right int) {
	n := t.nodes[idx]
	return n.left, n.right
}

// Symbol returns the symbol stored at a leaf node index.
func (t *Tree) Symbol(idx int) int { return t.nodes[idx].symbol }

// IsLeaf reports whether idx addresses a leaf node.
func (t *Tree) IsLeaf(idx int) bool { return t.nodes[idx].isLeaf() }

// pqItem is a min-heap element ordered by (frequency, symbol) ascending.
// Ties among internal nodes (symbol 0) fall back to whatever order
// container/heap happens to pop them in; that's fine here because
// Build always runs against the identical frequency map on encode and
// decode, so any tie-break it settles on is reproduced exactly.
type pqItem struct {
	freq   int
	symbol int
	node   int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].freq != pq[j].freq {
		return pq[i].freq < pq[j].freq
	}
	return pq[i].symbol < pq[j].symbol
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(pqItem))
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
