package searchidx

import "sort"

// TermFrequency pairs a vocabulary term with its document frequency: the
// number of distinct documents containing at least one occurrence.
type TermFrequency struct {
	Term    string
	DocFreq int
}

// TopTermsByDocFreq returns up to n vocabulary terms ranked by document
// frequency descending, ties broken by term for a deterministic order.
func (s *Searcher) TopTermsByDocFreq(n int) ([]TermFrequency, error) {
	terms := s.vocab.Terms
	freqs := make([]TermFrequency, 0, len(terms))

	for i, term := range terms {
		list, err := s.engine.Postings.Term(i)
		if err != nil {
			return nil, err
		}

		seen := make(map[int]bool)
		for _, p := range list.Postings {
			seen[p.DocID] = true
		}
		freqs = append(freqs, TermFrequency{Term: term, DocFreq: len(seen)})
	}

	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].DocFreq != freqs[j].DocFreq {
			return freqs[i].DocFreq > freqs[j].DocFreq
		}
		return freqs[i].Term < freqs[j].Term
	})

	if n >= 0 && n < len(freqs) {
		freqs = freqs[:n]
	}
	return freqs, nil
}
