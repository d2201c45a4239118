package fuzzy

import "github.com/staticdex/staticdex/pkg/vocab"

// Match is one vocabulary term the automaton accepted within its bound.
type Match struct {
	TermIdx  int
	Distance int
}

// Scan feeds every vocabulary term into a, emitting (term_idx, distance)
// for terms within a's max distance, excluding exact matches.
func Scan(a *Automaton, v *vocab.Vocabulary) []Match {
	var out []Match
	for i, term := range v.Terms {
		if d, ok := a.Match(term); ok {
			out = append(out, Match{TermIdx: i, Distance: d})
		}
	}
	return out
}
