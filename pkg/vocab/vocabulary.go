package vocab

import (
	"sort"

	"github.com/staticdex/staticdex/pkg/codec"
)

// TermStarts returns the starting byte offset of each term within the
// buffer produced by SentinelJoin.
func (v *Vocabulary) TermStarts() []int {
	starts := make([]int, len(v.Terms))
	off := 0
	for i, t := range v.Terms {
		starts[i] = off
		off += len(t) + 1 // +1 for the sentinel byte
	}
	return starts
}

// ResolveOffset maps a byte offset into the SentinelJoin buffer back to
// the (term_idx, offset_within_term) it belongs to, given that buffer's
// TermStarts. Used to translate suffix-array hits back into vocabulary
// terms for prefix search.
func ResolveOffset(starts []int, bufOffset int) (termIdx, offsetWithinTerm int) {
	i := sort.SearchInts(starts, bufOffset+1) - 1
	if i < 0 {
		i = 0
	}
	return i, bufOffset - starts[i]
}

// Vocabulary is the lexicographically sorted, deduplicated sequence of
// terms extracted from a corpus, addressed by dense term index.
type Vocabulary struct {
	Terms []string
}

// Build sorts and deduplicates terms into a Vocabulary.
func Build(terms []string) *Vocabulary {
	uniq := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		uniq[t] = struct{}{}
	}

	sorted := make([]string, 0, len(uniq))
	for t := range uniq {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	return &Vocabulary{Terms: sorted}
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.Terms)
}

// IndexOf returns the dense term index of term, or -1 if absent.
func (v *Vocabulary) IndexOf(term string) int {
	i := sort.SearchStrings(v.Terms, term)
	if i < len(v.Terms) && v.Terms[i] == term {
		return i
	}
	return -1
}

// Encode front-codes the vocabulary into the container's vocabulary
// section bytes.
func (v *Vocabulary) Encode() []byte {
	return codec.EncodeFrontCoded(nil, v.Terms)
}

// Decode reconstructs a Vocabulary from its encoded section bytes.
func Decode(data []byte) (*Vocabulary, error) {
	terms, _, err := codec.DecodeFrontCoded(data)
	if err != nil {
		return nil, err
	}
	return &Vocabulary{Terms: terms}, nil
}

// Sentinel is the byte appended after every term in SentinelJoin. It sorts
// strictly below any ASCII letter or digit, which is all PrefixRange needs
// to keep term boundaries from leaking into neighboring suffixes: any two
// suffixes starting at a sentinel byte are still ordered by whatever
// (necessarily different) term content follows it.
const Sentinel = 0x00

// SentinelJoin concatenates the vocabulary's terms, each followed by
// Sentinel, for suffix-array construction as described for C4.
func (v *Vocabulary) SentinelJoin() []byte {
	var buf []byte
	for _, t := range v.Terms {
		buf = append(buf, t...)
		buf = append(buf, Sentinel)
	}
	return buf
}
