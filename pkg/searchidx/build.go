// Package searchidx assembles the decoded per-concern packages (vocab,
// sa, postings, boundary, scoring) into the aggregate SearchIndex, and
// provides the binary encode/decode and read-only query surface over it.
package searchidx

import (
	"github.com/staticdex/staticdex/internal/corpus"
	"github.com/staticdex/staticdex/internal/verify"
	"github.com/staticdex/staticdex/pkg/boundary"
	"github.com/staticdex/staticdex/pkg/fuzzy"
	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/sa"
	"github.com/staticdex/staticdex/pkg/scoring"
	"github.com/staticdex/staticdex/pkg/vocab"
)

// DefaultMaxQueryLen bounds query length in runes when a BuildOptions
// leaves MaxQueryLen unset.
const DefaultMaxQueryLen = 256

// DefaultPostingCacheSize is the number of decoded posting lists the
// Searcher's LRU keeps warm when a BuildOptions leaves it unset.
const DefaultPostingCacheSize = 512

// BuildOptions configures tokenization and query limits for Build.
type BuildOptions struct {
	Mode              vocab.Mode
	Fold              vocab.CaseFold
	MaxQueryLen       int
	MaxDistance       int
	ParallelFuzzyScan bool
	PostingCacheSize  int
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.MaxQueryLen <= 0 {
		o.MaxQueryLen = DefaultMaxQueryLen
	}
	if o.MaxDistance <= 0 {
		o.MaxDistance = fuzzy.MaxSupportedDistance
	}
	if o.PostingCacheSize <= 0 {
		o.PostingCacheSize = DefaultPostingCacheSize
	}
	return o
}

// SearchIndex is the in-memory aggregate built from a corpus: vocabulary,
// suffix array, inverted index and document metadata, plus the options
// it was built with. Encode does not write Opts into the container; a
// Searcher takes its query options from OpenWithOptions.
type SearchIndex struct {
	Documents []corpus.Document
	Sections  []string
	Vocab     *vocab.Vocabulary
	SA        *sa.SuffixArray
	Postings  *postings.Index
	Opts      BuildOptions
}

// Build tokenizes every document's text, attributes each token occurrence
// to its field boundary, and assembles the vocabulary, suffix array and
// inverted index. Build is a single batch transformation; the result is
// immutable.
func Build(c *corpus.Corpus, opts BuildOptions) (*SearchIndex, error) {
	opts = opts.withDefaults()

	type occurrence struct {
		docID  int
		term   string
		offset int
	}

	var allTerms []string
	var occs []occurrence
	textLens := make(map[int]int, len(c.Documents))

	for _, doc := range c.Documents {
		textLens[doc.DocID] = len(doc.Text)
		for _, tok := range vocab.Tokenize(doc.Text, opts.Mode, opts.Fold) {
			allTerms = append(allTerms, tok.Term)
			occs = append(occs, occurrence{docID: doc.DocID, term: tok.Term, offset: tok.Offset})
		}
	}

	v := vocab.Build(allTerms)
	idx := postings.NewIndex(v.Len())

	for _, o := range occs {
		termIdx := v.IndexOf(o.term)
		if termIdx < 0 {
			continue
		}

		ft := scoring.FieldContent
		headingLevel := 0
		sectionIdx := -1
		if b, ok := c.Boundary.Locate(o.docID, o.offset); ok {
			ft = scoringFieldType(b.FieldType)
			headingLevel = b.HeadingLevel
			sectionIdx = b.SectionIdx
		}

		p := postings.Posting{
			DocID:            o.docID,
			Offset:           o.offset,
			FieldType:        ft,
			HeadingLevel:     headingLevel,
			SectionIdx:       sectionIdx,
			PrecomputedScore: scoring.PostingScore(ft, o.offset, textLens[o.docID]),
		}
		verify.Assert(postings.WellFormed(p, len(c.Documents), textLens[o.docID], len(o.term)),
			"ill-formed posting for doc %d at offset %d", o.docID, o.offset)
		idx.Add(termIdx, p)
	}

	return &SearchIndex{
		Documents: c.Documents,
		Sections:  c.Sections,
		Vocab:     v,
		SA:        sa.Build(v),
		Postings:  idx,
		Opts:      opts,
	}, nil
}

// scoringFieldType converts a boundary.FieldType into scoring's parallel
// enum; the two packages keep distinct types so scoring stays a leaf
// package with no dependency on the corpus model.
func scoringFieldType(ft boundary.FieldType) scoring.FieldType {
	switch ft {
	case boundary.FieldTitle:
		return scoring.FieldTitle
	case boundary.FieldHeading:
		return scoring.FieldHeading
	default:
		return scoring.FieldContent
	}
}
