package searchidx

import "github.com/staticdex/staticdex/pkg/scoring"

// Result is one ranked hit returned from a query: document metadata,
// score, and the section it matched in. Slug/Title/Excerpt/Href/SectionID
// are small copies so a Result survives Searcher.Free, per §5's memory
// discipline.
type Result struct {
	DocID     int
	Slug      string
	Title     string
	Excerpt   string
	Href      string
	Score     int
	SectionID string // empty if the match fell outside any named section
	MatchType scoring.MatchType
}
