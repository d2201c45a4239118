// Package sa builds a suffix array over the vocabulary's sentinel-joined
// term buffer and answers prefix-range queries over it.
package sa

import (
	"sort"

	"github.com/staticdex/staticdex/internal/verify"
	"github.com/staticdex/staticdex/pkg/codec"
	"github.com/staticdex/staticdex/pkg/vocab"
)

// SuffixArray is a sorted array of starting offsets into a vocabulary's
// SentinelJoin buffer, one entry per suffix, plus the LCP array relative
// to that sort.
type SuffixArray struct {
	buf []byte
	sa  []int32
	lcp []int32
}

// Build constructs a SuffixArray over v's sentinel-joined buffer using a
// rank-doubling sort (Manber-Myers style): a comparison sort per doubling
// round, O(n log^2 n) comparisons in all.
func Build(v *vocab.Vocabulary) *SuffixArray {
	buf := v.SentinelJoin()
	n := len(buf)

	sa := make([]int32, n)
	rank := make([]int32, n)
	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int32(buf[i])
	}

	tmp := make([]int32, n)
	if n > 1 {
		for k := 1; ; k *= 2 {
			keyOf := func(i int32) (int32, int32) {
				r1 := rank[i]
				r2 := int32(-1)
				if int(i)+k < n {
					r2 = rank[i+int32(k)]
				}
				return r1, r2
			}
			sort.Slice(sa, func(i, j int) bool {
				a1, a2 := keyOf(sa[i])
				b1, b2 := keyOf(sa[j])
				if a1 != b1 {
					return a1 < b1
				}
				return a2 < b2
			})

			tmp[sa[0]] = 0
			for i := 1; i < n; i++ {
				tmp[sa[i]] = tmp[sa[i-1]]
				a1, a2 := keyOf(sa[i-1])
				b1, b2 := keyOf(sa[i])
				if a1 != b1 || a2 != b2 {
					tmp[sa[i]]++
				}
			}
			copy(rank, tmp)

			if int(rank[sa[n-1]]) == n-1 || k >= n {
				break
			}
		}
	}

	lcp := kasai(buf, sa, rank)

	verify.Assert(len(sa) == n, "suffix array length %d does not match buffer length %d", len(sa), n)
	for i := 1; i < n; i++ {
		verify.Assert(compareSuffixToPrefix(buf[sa[i-1]:], buf[sa[i]:]) <= 0, "suffix array out of order at position %d", i)
	}

	return &SuffixArray{buf: buf, sa: sa, lcp: lcp}
}

// kasai computes the LCP array in O(n) given the suffix array and its rank
// (inverse permutation).
func kasai(buf []byte, sa, rank []int32) []int32 {
	n := len(buf)
	lcp := make([]int32, n)
	if n == 0 {
		return lcp
	}

	h := int32(0)
	for i := 0; i < n; i++ {
		if rank[i] == 0 {
			h = 0
			continue
		}
		j := sa[rank[i]-1]
		for int(i)+int(h) < n && int(j)+int(h) < n && buf[int(i)+int(h)] == buf[int(j)+int(h)] {
			h++
		}
		lcp[rank[i]] = h
		if h > 0 {
			h--
		}
	}
	return lcp
}

// Len returns the number of suffixes (equal to the sentinel-joined buffer
// length).
func (s *SuffixArray) Len() int {
	return len(s.sa)
}

// At returns the starting byte offset of the i'th suffix in sorted order.
func (s *SuffixArray) At(i int) int {
	return int(s.sa[i])
}

// LCP returns the longest-common-prefix length between the i'th and
// (i-1)'th suffixes in sorted order; LCP(0) is always 0.
func (s *SuffixArray) LCP(i int) int {
	return int(s.lcp[i])
}

// suffixAt returns the suffix (as a byte slice view) starting at sa[i].
func (s *SuffixArray) suffixAt(i int) []byte {
	return s.buf[s.sa[i]:]
}

// hasPrefix reports whether suffix starts with prefix.
func hasPrefix(suffix, prefix []byte) bool {
	if len(prefix) > len(suffix) {
		return false
	}
	for i := range prefix {
		if suffix[i] != prefix[i] {
			return false
		}
	}
	return true
}

// compareSuffixToPrefix orders a suffix against a query prefix for binary
// search: returns <0, 0 or >0 according to whether suffix sorts before,
// within (has prefix) or after the prefix's range.
func compareSuffixToPrefix(suffix, prefix []byte) int {
	n := len(prefix)
	if len(suffix) < n {
		n = len(suffix)
	}
	for i := 0; i < n; i++ {
		if suffix[i] != prefix[i] {
			if suffix[i] < prefix[i] {
				return -1
			}
			return 1
		}
	}
	if len(suffix) < len(prefix) {
		return -1
	}
	return 0
}

// PrefixRange returns [lo, hi) over the suffix array such that every
// suffix in that range starts with prefix, via two binary searches.
func (s *SuffixArray) PrefixRange(prefix string) (lo, hi int) {
	p := []byte(prefix)
	n := s.Len()

	lo = sort.Search(n, func(i int) bool {
		return compareSuffixToPrefix(s.suffixAt(i), p) >= 0
	})

	hi = sort.Search(n, func(i int) bool {
		return compareSuffixToPrefix(s.suffixAt(i), p) > 0
	})

	return lo, hi
}

// HasPrefix reports whether suffix at sa index i starts with prefix.
// Exposed for differential testing against the naive oracle.
func (s *SuffixArray) HasPrefix(i int, prefix string) bool {
	return hasPrefix(s.suffixAt(i), []byte(prefix))
}

// Encode serializes the sa and lcp permutations to the container's
// suffix_array section bytes. The sentinel-joined buffer itself is not
// stored; it is cheaply rebuilt from the vocabulary section at load time.
func (s *SuffixArray) Encode() []byte {
	var buf []byte
	buf = codec.EncodeVarint(buf, uint64(len(s.sa)))
	for _, v := range s.sa {
		buf = codec.EncodeVarint(buf, uint64(v))
	}
	for _, v := range s.lcp {
		buf = codec.EncodeVarint(buf, uint64(v))
	}
	return buf
}

// Decode reconstructs a SuffixArray from its encoded section bytes, given
// the vocabulary's sentinel-joined buffer it was built over.
func Decode(data []byte, joinedBuf []byte) (*SuffixArray, error) {
	n, consumed, err := codec.DecodeVarint(data)
	if err != nil {
		return nil, err
	}
	off := consumed

	saArr := make([]int32, n)
	for i := uint64(0); i < n; i++ {
		v, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c
		saArr[i] = int32(v)
	}

	lcpArr := make([]int32, n)
	for i := uint64(0); i < n; i++ {
		v, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c
		lcpArr[i] = int32(v)
	}

	return &SuffixArray{buf: joinedBuf, sa: saArr, lcp: lcpArr}, nil
}
