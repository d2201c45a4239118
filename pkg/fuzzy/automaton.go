// Package fuzzy implements bounded edit-distance matching against the
// vocabulary: a bit-parallel automaton (Myers'/Navarro-style NFA
// simulated with bitmasks) realizing the same external contract as a
// Levenshtein DFA without a parametric-state table generator.
package fuzzy

// MaxSupportedDistance is the largest edit distance the automaton
// accepts, matching the two precomputed DFAs of spec.md §4.7 (distance 1
// and distance 2).
const MaxSupportedDistance = 2

// Automaton is instantiated once per query and then scanned against every
// vocabulary term.
type Automaton struct {
	query    []rune
	maxDist  int
	peq      map[rune]uint64 // per-character bitmask, bit i set if query[i] == char
}

// New instantiates an automaton for query with the given maximum edit
// distance (1 or 2). No per-term construction happens after this point;
// Match is a pure table/bitmask scan.
func New(query string, maxDistance int) *Automaton {
	if maxDistance > MaxSupportedDistance {
		maxDistance = MaxSupportedDistance
	}
	runes := []rune(query)

	peq := make(map[rune]uint64, len(runes))
	for i, r := range runes {
		peq[r] |= 1 << uint(i)
	}

	return &Automaton{query: runes, maxDist: maxDistance, peq: peq}
}

// eqMask returns the bitmask for character c: bit i set where query[i]==c.
func (a *Automaton) eqMask(c rune) uint64 {
	return a.peq[c]
}

// Match runs Myers' bit-vector algorithm (bounded to len(query) <= 63) to
// compute the edit distance between the automaton's query and term, or
// reports no match if that distance exceeds maxDist. It returns
// (distance, true) when term is within maxDist and not an exact match, or
// (0, false) otherwise -- distance 0 (exact matches) are deliberately
// excluded, since T1 is exact match's job.
func (a *Automaton) Match(term string) (distance int, ok bool) {
	m := len(a.query)
	if m == 0 || m > 63 {
		return 0, false
	}

	// Cheap length-difference pre-filter: |len(query)-len(term)| is a lower
	// bound on edit distance.
	termRunes := []rune(term)
	n := len(termRunes)
	if abs(n-m) > a.maxDist {
		return 0, false
	}

	// Myers' algorithm: Pv/Mv track which bits of the last column could
	// still grow/shrink; score is the running edit distance at column j.
	var pv uint64 = ^uint64(0)
	var mv uint64
	score := m
	last := uint64(1) << uint(m-1)

	for _, c := range termRunes {
		eq := a.eqMask(c)
		xv := eq | mv
		xh := (((eq & pv) + pv) ^ pv) | eq
		ph := mv | ^(xh | pv)
		mh := pv & xh

		if ph&last != 0 {
			score++
		} else if mh&last != 0 {
			score--
		}

		ph <<= 1
		ph |= 1
		mh <<= 1

		pv = mh | ^(xv | ph)
		mv = ph & xv
	}

	if score <= a.maxDist && score > 0 {
		return score, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
