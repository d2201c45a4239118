package postings

import (
	"github.com/staticdex/staticdex/pkg/codec"
	"github.com/staticdex/staticdex/pkg/scoring"
)

func scoringFieldType(b int) scoring.FieldType {
	return scoring.FieldType(b)
}

// SkipEntry indexes the first posting of a block: its doc_id and the byte
// offset of the block's start within the encoded list, enabling a binary
// search to skip directly to the block that might contain a target doc_id.
type SkipEntry struct {
	FirstDocID int
	BlockStart int
}

// List is a decoded posting list for one term, sorted by (doc_id, offset).
type List struct {
	Postings []Posting
	Skips    []SkipEntry
}

// fieldBits packs FieldType (2 bits) and HeadingLevel (3 bits) into one byte.
func fieldBits(ft int, headingLevel int) byte {
	return byte(ft&0x3) | byte((headingLevel&0x7)<<2)
}

func unpackFieldBits(b byte) (ft int, headingLevel int) {
	return int(b & 0x3), int((b >> 2) & 0x7)
}

// Encode compresses postings into blocks of ~BlockSize entries: each
// block's first posting is absolute, subsequent doc_ids are deltas and
// the offset stream restarts at every new doc_id (i.e. is itself a delta
// from the previous offset within the same doc_id, or absolute at a
// doc_id boundary).
func Encode(postings []Posting) []byte {
	var buf []byte
	buf = codec.EncodeVarint(buf, uint64(len(postings)))

	var prevDocID int = -1
	var prevOffset int
	for i, p := range postings {
		if i%BlockSize == 0 {
			// Block boundary: emit doc_id absolute regardless of delta state.
			buf = codec.EncodeVarint(buf, uint64(p.DocID))
			prevDocID = p.DocID
			buf = codec.EncodeVarint(buf, uint64(p.Offset))
			prevOffset = p.Offset
		} else if p.DocID != prevDocID {
			buf = codec.EncodeVarint(buf, uint64(p.DocID-prevDocID))
			prevDocID = p.DocID
			buf = codec.EncodeVarint(buf, uint64(p.Offset))
			prevOffset = p.Offset
		} else {
			// Same doc_id as previous posting within the block: signal with a
			// zero doc_id-delta, then an offset delta.
			buf = codec.EncodeVarint(buf, 0)
			buf = codec.EncodeVarint(buf, uint64(p.Offset-prevOffset))
			prevOffset = p.Offset
		}

		buf = append(buf, fieldBits(int(p.FieldType), p.HeadingLevel))
		buf = codec.EncodeVarint(buf, uint64(sectionCode(p.SectionIdx)))
		buf = codec.EncodeVarint(buf, uint64(p.PrecomputedScore))
	}

	return buf
}

// sectionCode maps -1 (no section) to 0 and any section index s>=0 to s+1,
// so the varint-coded sentinel never collides with a real index.
func sectionCode(sectionIdx int) int {
	if sectionIdx < 0 {
		return 0
	}
	return sectionIdx + 1
}

func sectionFromCode(code int) int {
	if code == 0 {
		return -1
	}
	return code - 1
}

// Decode reconstructs a List, including the skip layer, from encoded
// posting-list bytes.
func Decode(data []byte) (*List, error) {
	n, consumed, err := codec.DecodeVarint(data)
	if err != nil {
		return nil, err
	}
	off := consumed

	list := &List{Postings: make([]Posting, 0, n)}

	var docID, offsetVal int
	for i := uint64(0); i < n; i++ {
		blockStart := off
		isBlockHead := int(i)%BlockSize == 0

		docDelta, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		offsetField, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		newDocBoundary := isBlockHead || docDelta != 0
		if isBlockHead {
			docID = int(docDelta)
		} else if docDelta != 0 {
			docID += int(docDelta)
		}
		if newDocBoundary {
			offsetVal = int(offsetField)
		} else {
			offsetVal += int(offsetField)
		}

		fb := data[off]
		off++
		ft, headingLevel := unpackFieldBits(fb)

		sectionCodeVal, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		score, c, err := codec.DecodeVarint(data[off:])
		if err != nil {
			return nil, err
		}
		off += c

		p := Posting{
			DocID:            docID,
			Offset:           offsetVal,
			FieldType:        scoringFieldType(ft),
			HeadingLevel:     headingLevel,
			SectionIdx:       sectionFromCode(int(sectionCodeVal)),
			PrecomputedScore: int(score),
		}
		list.Postings = append(list.Postings, p)

		if isBlockHead {
			list.Skips = append(list.Skips, SkipEntry{FirstDocID: docID, BlockStart: blockStart})
		}
	}

	return list, nil
}
