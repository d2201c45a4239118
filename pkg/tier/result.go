// Package tier implements the three-tier search engine: exact, prefix and
// fuzzy matching over a vocabulary-backed inverted index, with per-term
// exclusion, multi-term AND and streaming batch emission.
package tier

import "github.com/staticdex/staticdex/pkg/scoring"

// Result is one ranked document match, carrying enough metadata to
// survive independently of the index that produced it.
type Result struct {
	DocID     int
	Score     int
	SectionIdx int
	MatchType scoring.MatchType
	Tier      scoring.Tier
}

// byResult orders results by score descending, then doc_id ascending for
// stability, as required by §5's ordering guarantee.
type byResult []Result

func (b byResult) Len() int      { return len(b) }
func (b byResult) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b byResult) Less(i, j int) bool {
	if b[i].Score != b[j].Score {
		return b[i].Score > b[j].Score
	}
	return b[i].DocID < b[j].DocID
}
