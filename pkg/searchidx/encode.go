package searchidx

import (
	"github.com/staticdex/staticdex/internal/corpus"
	"github.com/staticdex/staticdex/internal/errors"
	"github.com/staticdex/staticdex/pkg/codec"
	"github.com/staticdex/staticdex/pkg/container"
)

// Encode serializes idx into a container byte slice per C2. The
// dict_tables, lev_dfa and embedded_runtime sections are written empty:
// this build has no dictionary-extension tables, persists no parametric
// fuzzy-matcher DFA (C7 builds its automaton from the query at search
// time instead), and embeds no loader runtime (out of scope per the
// WASM-loader non-goal). See DESIGN.md for the full justification.
func Encode(idx *SearchIndex) ([]byte, error) {
	postingsSection, skipListsSection := idx.Postings.Encode()

	sections := &container.Sections{
		Vocabulary:   idx.Vocab.Encode(),
		SuffixArray:  idx.SA.Encode(),
		Postings:     postingsSection,
		SkipLists:    skipListsSection,
		SectionTable: codec.EncodeFrontCoded(nil, idx.Sections),
		Docs:         encodeDocs(idx.Documents),
	}

	return container.Write(uint32(len(idx.Documents)), uint32(idx.Vocab.Len()), sections), nil
}

// encodeDocs serializes document metadata: count, then per document the
// slug/title/excerpt/href/type/category strings and raw text, each
// varint-length-prefixed.
func encodeDocs(docs []corpus.Document) []byte {
	var buf []byte
	buf = codec.EncodeVarint(buf, uint64(len(docs)))
	for _, d := range docs {
		buf = putString(buf, d.Slug)
		buf = putString(buf, d.Title)
		buf = putString(buf, d.Excerpt)
		buf = putString(buf, d.Href)
		buf = putString(buf, d.Type)
		buf = putString(buf, d.Category)
		buf = putString(buf, d.Text)
	}
	return buf
}

func decodeDocs(data []byte) ([]corpus.Document, error) {
	n, off, err := codec.DecodeVarint(data)
	if err != nil {
		return nil, err
	}

	docs := make([]corpus.Document, 0, n)
	for i := uint64(0); i < n; i++ {
		var fields [7]string
		for j := range fields {
			s, c, err := getString(data[off:])
			if err != nil {
				return nil, err
			}
			fields[j] = s
			off += c
		}
		docs = append(docs, corpus.Document{
			DocID:    int(i),
			Slug:     fields[0],
			Title:    fields[1],
			Excerpt:  fields[2],
			Href:     fields[3],
			Type:     fields[4],
			Category: fields[5],
			Text:     fields[6],
		})
	}
	return docs, nil
}

func putString(buf []byte, s string) []byte {
	buf = codec.EncodeVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func getString(data []byte) (string, int, error) {
	n, consumed, err := codec.DecodeVarint(data)
	if err != nil {
		return "", 0, err
	}
	total := consumed + int(n)
	if total > len(data) {
		return "", 0, errors.FormatError(errors.ErrCodeTruncated, "document string runs past section end", nil)
	}
	return string(data[consumed:total]), total, nil
}
