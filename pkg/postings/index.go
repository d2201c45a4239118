package postings

import "github.com/staticdex/staticdex/pkg/codec"

// Index is the full inverted index: one posting list per vocabulary term,
// addressed by dense term index.
type Index struct {
	// Lists[i] holds the postings for vocabulary term i, sorted by
	// (doc_id, offset). A term with no occurrences has an empty list.
	Lists [][]Posting
}

// NewIndex creates an empty index sized for vocabSize terms.
func NewIndex(vocabSize int) *Index {
	return &Index{Lists: make([][]Posting, vocabSize)}
}

// Add appends a posting to termIdx's list. Callers must add postings for a
// given term in (doc_id, offset) order; Build in pkg/searchidx guarantees
// this by processing documents and tokens in order.
func (idx *Index) Add(termIdx int, p Posting) {
	idx.Lists[termIdx] = append(idx.Lists[termIdx], p)
}

// Encode serializes the index into the container's postings and
// skip_lists sections. The postings section is a term-indexed table of
// offsets followed by the concatenated per-term encoded blocks; the
// skip_lists section mirrors that layout with each term's skip entries.
func (idx *Index) Encode() (postingsSection, skipListsSection []byte) {
	n := len(idx.Lists)

	var postingsBody []byte
	postingLens := make([]int, n)
	skipBodies := make([][]byte, n)

	for i, postings := range idx.Lists {
		blob := Encode(postings)
		postingLens[i] = len(blob)
		postingsBody = append(postingsBody, blob...)

		skipBodies[i] = encodeSkips(postings)
	}

	var postingsOut []byte
	postingsOut = codec.EncodeVarint(postingsOut, uint64(n))
	for _, l := range postingLens {
		postingsOut = codec.EncodeVarint(postingsOut, uint64(l))
	}
	postingsOut = append(postingsOut, postingsBody...)

	var skipOut []byte
	skipOut = codec.EncodeVarint(skipOut, uint64(n))
	for _, sb := range skipBodies {
		skipOut = codec.EncodeVarint(skipOut, uint64(len(sb)))
	}
	for _, sb := range skipBodies {
		skipOut = append(skipOut, sb...)
	}

	return postingsOut, skipOut
}

// encodeSkips computes the block-head skip entries for postings and
// serializes them as a flat varint list: count, then (first_doc_id,
// block_start) pairs as emitted by Encode's block boundaries.
func encodeSkips(postings []Posting) []byte {
	list, err := Decode(Encode(postings))
	if err != nil {
		// Encode/Decode of freshly-built postings never fails; a failure
		// here would indicate a codec bug, not bad input.
		return nil
	}

	var buf []byte
	buf = codec.EncodeVarint(buf, uint64(len(list.Skips)))
	for _, s := range list.Skips {
		buf = codec.EncodeVarint(buf, uint64(s.FirstDocID))
		buf = codec.EncodeVarint(buf, uint64(s.BlockStart))
	}
	return buf
}

// DecodedIndex holds the term posting-list byte ranges of the postings
// section, plus each term's pre-computed skip layer from the skip_lists
// section, as built by DecodeIndex. Lists are decoded lazily by Term.
type DecodedIndex struct {
	blobs [][]byte
	skips [][]SkipEntry
}

// decodeBlobTable parses a section laid out as: varint count, then that
// many varint lengths, then the concatenated byte ranges themselves. Both
// the postings and skip_lists sections use this layout.
func decodeBlobTable(section []byte) ([][]byte, error) {
	n, consumed, err := codec.DecodeVarint(section)
	if err != nil {
		return nil, err
	}
	off := consumed

	lens := make([]int, n)
	for i := uint64(0); i < n; i++ {
		l, c, err := codec.DecodeVarint(section[off:])
		if err != nil {
			return nil, err
		}
		off += c
		lens[i] = int(l)
	}

	blobs := make([][]byte, n)
	for i := uint64(0); i < n; i++ {
		l := lens[i]
		blobs[i] = section[off : off+l]
		off += l
	}

	return blobs, nil
}

// decodeSkipEntries parses one term's skip body as emitted by encodeSkips:
// a varint count followed by (first_doc_id, block_start) varint pairs.
func decodeSkipEntries(data []byte) ([]SkipEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	n, consumed, err := codec.DecodeVarint(data)
	if err != nil {
		return nil, err
	}
	off := consumed

	out := make([]SkipEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		firstDocID, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		blockStart, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		out = append(out, SkipEntry{FirstDocID: int(firstDocID), BlockStart: int(blockStart)})
	}
	return out, nil
}

// DecodeIndex parses the postings section's offset table, slicing out
// each term's encoded block without decoding it yet, and the skip_lists
// section's parallel table of pre-computed skip entries.
func DecodeIndex(postingsSection, skipListsSection []byte) (*DecodedIndex, error) {
	blobs, err := decodeBlobTable(postingsSection)
	if err != nil {
		return nil, err
	}

	skipBlobs, err := decodeBlobTable(skipListsSection)
	if err != nil {
		return nil, err
	}

	skips := make([][]SkipEntry, len(skipBlobs))
	for i, sb := range skipBlobs {
		s, err := decodeSkipEntries(sb)
		if err != nil {
			return nil, err
		}
		skips[i] = s
	}

	return &DecodedIndex{blobs: blobs, skips: skips}, nil
}

// Term decodes the posting list for term index i, attaching the skip
// layer read from the skip_lists section rather than the one Decode
// recomputes from the block boundaries, since the container's skip_lists
// section is the format's canonical copy.
func (d *DecodedIndex) Term(i int) (*List, error) {
	if i < 0 || i >= len(d.blobs) {
		return &List{}, nil
	}
	list, err := Decode(d.blobs[i])
	if err != nil {
		return nil, err
	}
	if i < len(d.skips) && d.skips[i] != nil {
		list.Skips = d.skips[i]
	}
	return list, nil
}

// NumTerms returns the number of terms the index was built for.
func (d *DecodedIndex) NumTerms() int {
	return len(d.blobs)
}
