// Package boundary implements field/section attribution: locating which
// field type, heading level and section a document byte offset falls in.
package boundary

import (
	"sort"

	"github.com/staticdex/staticdex/internal/verify"
)

// FieldType classifies the kind of text a FieldBoundary covers.
type FieldType int

const (
	FieldContent FieldType = iota
	FieldHeading
	FieldTitle
)

// FieldBoundary is one labeled byte range of a document's text.
type FieldBoundary struct {
	DocID        int
	Start        int
	End          int
	FieldType    FieldType
	HeadingLevel int // 0..5, meaningful only when FieldType == FieldHeading
	SectionIdx   int // index into the section table, or -1 if none
}

// Table is the sorted boundary list for a whole corpus, ordered by
// (doc_id, start) as required by §4.6.
type Table struct {
	boundaries []FieldBoundary
}

// NewTable builds a Table from boundaries, sorting them by (doc_id, start).
// The caller is responsible for the non-overlap invariant; Validate checks it.
func NewTable(boundaries []FieldBoundary) *Table {
	sorted := make([]FieldBoundary, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DocID != sorted[j].DocID {
			return sorted[i].DocID < sorted[j].DocID
		}
		return sorted[i].Start < sorted[j].Start
	})
	return &Table{boundaries: sorted}
}

// Len returns the number of boundaries.
func (t *Table) Len() int {
	return len(t.boundaries)
}

// At returns the i'th boundary in sorted order.
func (t *Table) At(i int) FieldBoundary {
	return t.boundaries[i]
}

// Locate finds the boundary containing (docID, offset) via a two-step
// search: a partition point where doc_id >= docID, then a linear scan
// forward until a boundary with start <= offset < end and matching doc_id
// is found. Returns ok=false if no boundary contains the offset.
func (t *Table) Locate(docID, offset int) (FieldBoundary, bool) {
	start := sort.Search(len(t.boundaries), func(i int) bool {
		return t.boundaries[i].DocID >= docID
	})

	for i := start; i < len(t.boundaries); i++ {
		b := t.boundaries[i]
		if b.DocID != docID {
			break
		}
		if b.Start <= offset && offset < b.End {
			verify.Assert(b.DocID == docID, "Locate returned a boundary for the wrong document")
			return b, true
		}
	}
	return FieldBoundary{}, false
}

// Validate checks the invariants of §3: start < end <= doc text length,
// sorted order, and section non-overlap (two boundaries of the same
// document with distinct non-null section indices must not overlap).
// textLens maps doc_id to the length of that document's text.
func Validate(boundaries []FieldBoundary, textLens map[int]int) error {
	for _, b := range boundaries {
		if b.Start >= b.End {
			return errBadBoundary(b, "start must be < end")
		}
		if n, ok := textLens[b.DocID]; ok && b.End > n {
			return errBadBoundary(b, "end exceeds document text length")
		}
	}

	byDoc := make(map[int][]FieldBoundary)
	for _, b := range boundaries {
		byDoc[b.DocID] = append(byDoc[b.DocID], b)
	}

	for _, bs := range byDoc {
		sort.Slice(bs, func(i, j int) bool { return bs[i].Start < bs[j].Start })
		for i := 0; i < len(bs); i++ {
			for j := i + 1; j < len(bs); j++ {
				a, b := bs[i], bs[j]
				if a.SectionIdx < 0 || b.SectionIdx < 0 {
					continue
				}
				if a.SectionIdx == b.SectionIdx {
					continue
				}
				if overlaps(a, b) {
					return errBadBoundary(b, "overlapping sections with distinct section ids")
				}
			}
		}
	}
	return nil
}

func overlaps(a, b FieldBoundary) bool {
	return a.Start < b.End && b.Start < a.End
}
