// Package container implements the binary index format: a versioned
// header, nine dependency-ordered sections and a CRC-guarded footer.
package container

import (
	"github.com/staticdex/staticdex/internal/errors"
	"github.com/staticdex/staticdex/pkg/codec"
)

// Magic is the 4-byte ASCII tag at the start of every container.
var Magic = [4]byte{'S', 'D', 'X', '1'}

// reversedMagic is Magic written back-to-front, used as the footer tag.
var reversedMagic = [4]byte{Magic[3], Magic[2], Magic[1], Magic[0]}

// Version is the current container format version. The loader refuses any
// other value.
const Version uint8 = 1

// HeaderSize is the fixed size in bytes of the container header.
const HeaderSize = 52

// Section identifies one of the nine on-disk sections, in the fixed order
// they are written after the header.
type Section int

const (
	SectionEmbeddedRuntime Section = iota
	SectionVocabulary
	SectionDictTables
	SectionPostings
	SectionSuffixArray
	SectionDocs
	SectionSectionTable
	SectionSkipLists
	SectionLevDFA
	sectionCount
)

// Header is the fixed 52-byte prefix of a container.
type Header struct {
	Version   uint8
	DocCount  uint32
	TermCount uint32

	// Lengths, in header field order (not section write order): vocabulary,
	// suffix_array, postings, skip_lists, section_table, lev_dfa, docs,
	// embedded_runtime, dict_tables.
	VocabLen           uint32
	SuffixArrayLen     uint32
	PostingsLen        uint32
	SkipListsLen       uint32
	SectionTableLen    uint32
	LevDFALen          uint32
	DocsLen            uint32
	EmbeddedRuntimeLen uint32
	DictTablesLen      uint32
}

// Sections holds the encoded bytes of every section, indexed by Section.
type Sections struct {
	EmbeddedRuntime []byte
	Vocabulary      []byte
	DictTables      []byte
	Postings        []byte
	SuffixArray     []byte
	Docs            []byte
	SectionTable    []byte
	SkipLists       []byte
	LevDFA          []byte
}

func (s *Sections) lenOf(sec Section) uint32 {
	switch sec {
	case SectionEmbeddedRuntime:
		return uint32(len(s.EmbeddedRuntime))
	case SectionVocabulary:
		return uint32(len(s.Vocabulary))
	case SectionDictTables:
		return uint32(len(s.DictTables))
	case SectionPostings:
		return uint32(len(s.Postings))
	case SectionSuffixArray:
		return uint32(len(s.SuffixArray))
	case SectionDocs:
		return uint32(len(s.Docs))
	case SectionSectionTable:
		return uint32(len(s.SectionTable))
	case SectionSkipLists:
		return uint32(len(s.SkipLists))
	case SectionLevDFA:
		return uint32(len(s.LevDFA))
	default:
		return 0
	}
}

// writeOrder is the disk order of sections, matching §4.2: header →
// embedded_runtime → vocabulary → dict_tables → postings → suffix_array →
// docs → section_table → skip_lists → lev_dfa → footer.
var writeOrder = []Section{
	SectionEmbeddedRuntime,
	SectionVocabulary,
	SectionDictTables,
	SectionPostings,
	SectionSuffixArray,
	SectionDocs,
	SectionSectionTable,
	SectionSkipLists,
	SectionLevDFA,
}

func (s *Sections) bytesOf(sec Section) []byte {
	switch sec {
	case SectionEmbeddedRuntime:
		return s.EmbeddedRuntime
	case SectionVocabulary:
		return s.Vocabulary
	case SectionDictTables:
		return s.DictTables
	case SectionPostings:
		return s.Postings
	case SectionSuffixArray:
		return s.SuffixArray
	case SectionDocs:
		return s.Docs
	case SectionSectionTable:
		return s.SectionTable
	case SectionSkipLists:
		return s.SkipLists
	case SectionLevDFA:
		return s.LevDFA
	default:
		return nil
	}
}

// Write encodes header, sections and footer into a single byte slice.
func Write(docCount, termCount uint32, s *Sections) []byte {
	h := Header{
		Version:            Version,
		DocCount:           docCount,
		TermCount:          termCount,
		VocabLen:           s.lenOf(SectionVocabulary),
		SuffixArrayLen:     s.lenOf(SectionSuffixArray),
		PostingsLen:        s.lenOf(SectionPostings),
		SkipListsLen:       s.lenOf(SectionSkipLists),
		SectionTableLen:    s.lenOf(SectionSectionTable),
		LevDFALen:          s.lenOf(SectionLevDFA),
		DocsLen:            s.lenOf(SectionDocs),
		EmbeddedRuntimeLen: s.lenOf(SectionEmbeddedRuntime),
		DictTablesLen:      s.lenOf(SectionDictTables),
	}

	buf := make([]byte, 0, HeaderSize+totalSectionBytes(s)+8)
	buf = appendHeader(buf, h)
	for _, sec := range writeOrder {
		buf = append(buf, s.bytesOf(sec)...)
	}

	crc := codec.CRC32(buf)
	buf = codec.PutUint32LE(buf, crc)
	buf = append(buf, reversedMagic[:]...)
	return buf
}

func totalSectionBytes(s *Sections) int {
	n := 0
	for _, sec := range writeOrder {
		n += len(s.bytesOf(sec))
	}
	return n
}

func appendHeader(buf []byte, h Header) []byte {
	buf = append(buf, Magic[:]...)
	buf = append(buf, h.Version, 0) // reserved byte
	buf = codec.PutUint32LE(buf, h.DocCount)
	buf = codec.PutUint32LE(buf, h.TermCount)
	buf = codec.PutUint32LE(buf, h.VocabLen)
	buf = codec.PutUint32LE(buf, h.SuffixArrayLen)
	buf = codec.PutUint32LE(buf, h.PostingsLen)
	buf = codec.PutUint32LE(buf, h.SkipListsLen)
	buf = codec.PutUint32LE(buf, h.SectionTableLen)
	buf = codec.PutUint32LE(buf, h.LevDFALen)
	buf = codec.PutUint32LE(buf, h.DocsLen)
	buf = codec.PutUint32LE(buf, h.EmbeddedRuntimeLen)
	buf = codec.PutUint32LE(buf, h.DictTablesLen)
	buf = append(buf, 0, 0) // reserved
	return buf
}

// Read validates and decodes a container, returning the header and the
// section byte ranges (views into data, not copies).
func Read(data []byte) (Header, *Sections, error) {
	if len(data) < HeaderSize+8 {
		return Header{}, nil, errors.FormatError(errors.ErrCodeTruncated, "container shorter than header+footer", nil)
	}

	if string(data[0:4]) != string(Magic[:]) {
		return Header{}, nil, errors.FormatError(errors.ErrCodeBadMagic, "bad magic bytes", nil)
	}

	version := data[4]
	if version != Version {
		return Header{}, nil, errors.FormatError(errors.ErrCodeBadVersion, "unsupported container version", nil).
			WithDetail("version", itoa(int(version)))
	}

	h := Header{
		Version:            version,
		DocCount:           codec.Uint32LE(data[6:10]),
		TermCount:          codec.Uint32LE(data[10:14]),
		VocabLen:           codec.Uint32LE(data[14:18]),
		SuffixArrayLen:     codec.Uint32LE(data[18:22]),
		PostingsLen:        codec.Uint32LE(data[22:26]),
		SkipListsLen:       codec.Uint32LE(data[26:30]),
		SectionTableLen:    codec.Uint32LE(data[30:34]),
		LevDFALen:          codec.Uint32LE(data[34:38]),
		DocsLen:            codec.Uint32LE(data[38:42]),
		EmbeddedRuntimeLen: codec.Uint32LE(data[42:46]),
		DictTablesLen:      codec.Uint32LE(data[46:50]),
	}

	footerStart := len(data) - 8
	body := data[:footerStart]

	lengths := map[Section]uint32{
		SectionEmbeddedRuntime: h.EmbeddedRuntimeLen,
		SectionVocabulary:      h.VocabLen,
		SectionDictTables:      h.DictTablesLen,
		SectionPostings:        h.PostingsLen,
		SectionSuffixArray:     h.SuffixArrayLen,
		SectionDocs:            h.DocsLen,
		SectionSectionTable:    h.SectionTableLen,
		SectionSkipLists:       h.SkipListsLen,
		SectionLevDFA:          h.LevDFALen,
	}

	var total uint64
	for _, sec := range writeOrder {
		total += uint64(lengths[sec])
	}
	if uint64(HeaderSize)+total != uint64(footerStart) {
		return Header{}, nil, errors.FormatError(errors.ErrCodeBadSectionLength, "section lengths do not match container size", nil)
	}

	wantCRC := codec.CRC32(body)
	gotCRC := codec.Uint32LE(data[footerStart : footerStart+4])
	if wantCRC != gotCRC {
		return Header{}, nil, errors.FormatError(errors.ErrCodeBadCRC, "checksum mismatch", nil)
	}

	tag := data[footerStart+4 : footerStart+8]
	if string(tag) != string(reversedMagic[:]) {
		return Header{}, nil, errors.FormatError(errors.ErrCodeBadFooter, "bad footer tag", nil)
	}

	sections := &Sections{}
	off := HeaderSize
	for _, sec := range writeOrder {
		n := int(lengths[sec])
		slice := data[off : off+n]
		off += n
		switch sec {
		case SectionEmbeddedRuntime:
			sections.EmbeddedRuntime = slice
		case SectionVocabulary:
			sections.Vocabulary = slice
		case SectionDictTables:
			sections.DictTables = slice
		case SectionPostings:
			sections.Postings = slice
		case SectionSuffixArray:
			sections.SuffixArray = slice
		case SectionDocs:
			sections.Docs = slice
		case SectionSectionTable:
			sections.SectionTable = slice
		case SectionSkipLists:
			sections.SkipLists = slice
		case SectionLevDFA:
			sections.LevDFA = slice
		}
	}

	return h, sections, nil
}

// StripEmbeddedRuntime rewrites a container with its embedded_runtime
// section removed: the length is zeroed, CRC recomputed and the footer
// replaced, exactly as required by the "reconstruction" rule of the
// container format.
func StripEmbeddedRuntime(data []byte) ([]byte, error) {
	h, s, err := Read(data)
	if err != nil {
		return nil, err
	}
	s.EmbeddedRuntime = nil
	return Write(h.DocCount, h.TermCount, s), nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
