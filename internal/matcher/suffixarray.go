// Package matcher is a sliding-window match finder: a suffix array
// built once over the whole input, used to answer "longest match at
// position p at a distance below SEARCH" queries by walking outward
// in rank-space from p's suffix and tracking the running minimum LCP in
// each direction. It builds one search structure over the input up
// front and then answers repeated point queries against it, the same
// shape a rolling-hash-and-table matcher uses, but backed by a suffix
// array and LCP array instead of a hash table.
package matcher

import "sort"

// Params bounds a query: LookAhead caps returned match length, Search
// bounds how far back a match source may start, and MinLen is the
// shortest match worth reporting.
type Params struct {
	LookAhead int
	Search    int
	MinLen    int
}

// Matcher answers LongestMatch queries against a fixed input buffer.
type Matcher struct {
	data   []byte
	params Params

	sa   []int32 // suffix array: sa[r] = starting index of the suffix ranked r
	rank []int32 // inverse of sa: rank[i] = r such that sa[r] == i
	lcp  []int32 // lcp[r] = length of common prefix between suffixes ranked r-1 and r; lcp[0] is unused
}

// Build constructs the suffix array, rank array, and LCP array for data.
// Construction is O(n log n) via prefix doubling, then Kasai's algorithm
// derives the LCP array in O(n).
func Build(data []byte, params Params) *Matcher {
	m := &Matcher{data: data, params: params}
	n := len(data)
	if n == 0 {
		return m
	}
	m.sa = buildSuffixArray(data)
	m.rank = make([]int32, n)
	for r, i := range m.sa {
		m.rank[i] = int32(r)
	}
	m.lcp = kasaiLCP(data, m.sa, m.rank)
	return m
}

// LongestMatch returns the longest match of data[pos:] against
// data[pos-Search+1:pos], so the returned distance is always below
// Search, capped at LookAhead and at len(data)-pos. It
// returns (0, 0) if no candidate reaches MinLen. Ties among equally
// long candidates favor the smallest distance, since that minimises the
// bit cost of the distance field in the LZ77 encoding.
func (m *Matcher) LongestMatch(pos int) (length, distance int) {
	n := len(m.data)
	if pos < 0 || pos >= n || len(m.sa) == 0 {
		return 0, 0
	}
	maxLen := m.params.LookAhead
	if rem := n - pos; rem < maxLen {
		maxLen = rem
	}
	if maxLen < m.params.MinLen {
		return 0, 0
	}
	windowStart := pos - m.params.Search + 1
	r := int(m.rank[pos])

	bestLen, bestDist := 0, 0
	consider := func(i int, lcpBound int) {
		if i < windowStart || i >= pos {
			return
		}
		l := lcpBound
		if l > maxLen {
			l = maxLen
		}
		if l < m.params.MinLen {
			return
		}
		dist := pos - i
		if l > bestLen || (l == bestLen && dist < bestDist) {
			bestLen, bestDist = l, dist
		}
	}

	runningMin := int(1 << 30)
	for k := r - 1; k >= 0; k-- {
		if int(m.lcp[k+1]) < runningMin {
			runningMin = int(m.lcp[k+1])
		}
		if runningMin < m.params.MinLen {
			break
		}
		consider(int(m.sa[k]), runningMin)
	}

	runningMin = int(1 << 30)
	for k := r + 1; k < len(m.sa); k++ {
		if int(m.lcp[k]) < runningMin {
			runningMin = int(m.lcp[k])
		}
		if runningMin < m.params.MinLen {
			break
		}
		consider(int(m.sa[k]), runningMin)
	}

	return bestLen, bestDist
}

// buildSuffixArray constructs the suffix array of data using prefix
// doubling: ranks are refined by comparing increasingly long prefixes
// until every suffix has a unique rank or the doubled length exceeds
// len(data).
func buildSuffixArray(data []byte) []int32 {
	n := len(data)
	sa := make([]int32, n)
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int(data[i])
	}

	tmp := make([]int, n)
	for k := 1; k < n; k *= 2 {
		cmpRank := func(i int) int {
			if i+k < n {
				return rank[i+k] + 1
			}
			return 0
		}
		sort.Slice(sa, func(a, b int) bool {
			ia, ib := int(sa[a]), int(sa[b])
			if rank[ia] != rank[ib] {
				return rank[ia] < rank[ib]
			}
			return cmpRank(ia) < cmpRank(ib)
		})

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			prev, cur := int(sa[i-1]), int(sa[i])
			same := rank[prev] == rank[cur] && cmpRank(prev) == cmpRank(cur)
			if same {
				tmp[cur] = tmp[prev]
			} else {
				tmp[cur] = tmp[prev] + 1
			}
		}
		copy(rank, tmp)
		if rank[sa[n-1]] == n-1 {
			break
		}
	}
	return sa
}

// kasaiLCP computes the LCP array in O(n) given the suffix array and its
// inverse rank array.
func kasaiLCP(data []byte, sa, rank []int32) []int32 {
	n := len(data)
	lcp := make([]int32, n)
	h := 0
	for i := 0; i < n; i++ {
		r := int(rank[i])
		if r == 0 {
			h = 0
			continue
		}
		j := int(sa[r-1])
		if h > 0 {
			h--
		}
		for i+h < n && j+h < n && data[i+h] == data[j+h] {
			h++
		}
		lcp[r] = int32(h)
	}
	return lcp
}
