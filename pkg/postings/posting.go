// Package postings implements the inverted index: per-term posting lists,
// block-delta compression and the skip layer used to accelerate
// multi-term intersection.
package postings

import "github.com/staticdex/staticdex/pkg/scoring"

// BlockSize is the default number of postings per compressed block.
const BlockSize = 64

// Posting is a single occurrence of a term in a document.
type Posting struct {
	DocID            int
	Offset           int
	FieldType        scoring.FieldType
	HeadingLevel     int
	SectionIdx       int // -1 if the posting falls outside any section
	PrecomputedScore int
}

// WellFormed reports whether p is a valid posting against a corpus with
// nDocs documents and the given per-document text length, per §3's
// "well-formed iff doc_id < n_docs and offset + term_len <= len(text)".
func WellFormed(p Posting, nDocs int, docTextLen int, termLen int) bool {
	if p.DocID < 0 || p.DocID >= nDocs {
		return false
	}
	return p.Offset+termLen <= docTextLen
}
