package postings

import "sort"

// IntersectLists returns the doc_ids present in every list, driving the
// scan off the shortest list and testing membership in the rest via
// SkipTo, so only the driver list's blocks are read sequentially; the
// others are probed block-by-block through their skip layer instead of
// being hashed into a full doc_id set up front.
func IntersectLists(lists []*List) []int {
	if len(lists) == 0 {
		return nil
	}

	driver := lists[0]
	for _, l := range lists[1:] {
		if len(l.Postings) < len(driver.Postings) {
			driver = l
		}
	}

	var out []int
	for i, p := range driver.Postings {
		docID := p.DocID
		if i > 0 && driver.Postings[i-1].DocID == docID {
			continue
		}

		inAll := true
		for _, l := range lists {
			if l == driver {
				continue
			}
			pos := l.SkipTo(docID)
			if pos >= len(l.Postings) || l.Postings[pos].DocID != docID {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, docID)
		}
	}
	return out
}

// SkipTo returns the index of the first posting whose doc_id is >= target,
// using the skip layer to jump directly to the containing block before
// scanning linearly within it.
func (l *List) SkipTo(target int) int {
	blockIdx := sort.Search(len(l.Skips), func(i int) bool {
		return l.Skips[i].FirstDocID >= target
	}) - 1
	if blockIdx < 0 {
		blockIdx = 0
	}

	start := 0
	if blockIdx < len(l.Skips) {
		start = blockPostingIndex(l, blockIdx)
	}

	for i := start; i < len(l.Postings); i++ {
		if l.Postings[i].DocID >= target {
			return i
		}
	}
	return len(l.Postings)
}

// blockPostingIndex returns the posting index corresponding to skip entry
// blockIdx, i.e. blockIdx * BlockSize (skip entries are emitted one per
// block, in order).
func blockPostingIndex(l *List, blockIdx int) int {
	idx := blockIdx * BlockSize
	if idx > len(l.Postings) {
		return len(l.Postings)
	}
	return idx
}
