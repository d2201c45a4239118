package searchidx

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/staticdex/staticdex/internal/corpus"
	"github.com/staticdex/staticdex/pkg/codec"
	"github.com/staticdex/staticdex/pkg/container"
	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/sa"
	"github.com/staticdex/staticdex/pkg/tier"
	"github.com/staticdex/staticdex/pkg/vocab"
)

// Searcher is a read-only query object over a decoded container. Any
// number of concurrent queries may share one Searcher; query state lives
// on the caller's stack.
type Searcher struct {
	documents []corpus.Document
	sections  []string
	vocab     *vocab.Vocabulary
	engine    *tier.Engine
}

// Open validates and decodes a container into a Searcher using default
// query limits.
func Open(data []byte) (*Searcher, error) {
	return OpenWithOptions(data, BuildOptions{})
}

// OpenWithOptions is Open with caller-chosen query limits and posting
// cache size.
func OpenWithOptions(data []byte, opts BuildOptions) (*Searcher, error) {
	opts = opts.withDefaults()

	_, sections, err := container.Read(data)
	if err != nil {
		return nil, err
	}

	v, err := vocab.Decode(sections.Vocabulary)
	if err != nil {
		return nil, err
	}

	suffixArray, err := sa.Decode(sections.SuffixArray, v.SentinelJoin())
	if err != nil {
		return nil, err
	}

	decodedIdx, err := postings.DecodeIndex(sections.Postings, sections.SkipLists)
	if err != nil {
		return nil, err
	}

	sectionNames, _, err := codec.DecodeFrontCoded(sections.SectionTable)
	if err != nil {
		return nil, err
	}

	docs, err := decodeDocs(sections.Docs)
	if err != nil {
		return nil, err
	}

	cached, err := newCachedPostings(decodedIdx, opts.PostingCacheSize)
	if err != nil {
		return nil, err
	}

	engine := &tier.Engine{
		Vocab:             v,
		TermStarts:        v.TermStarts(),
		SA:                suffixArray,
		Postings:          cached,
		MaxQueryLen:       opts.MaxQueryLen,
		MaxDistance:       opts.MaxDistance,
		ParallelFuzzyScan: opts.ParallelFuzzyScan,
	}

	return &Searcher{
		documents: docs,
		sections:  sectionNames,
		vocab:     v,
		engine:    engine,
	}, nil
}

// DocCount returns the number of documents in the index.
func (s *Searcher) DocCount() int {
	return len(s.documents)
}

// VocabSize returns the number of distinct terms in the vocabulary.
func (s *Searcher) VocabSize() int {
	return s.vocab.Len()
}

// SearchSync runs a query to completion and returns the ranked,
// deduplicated, limit-trimmed result list.
func (s *Searcher) SearchSync(ctx context.Context, query string, limit int) ([]Result, error) {
	raw, err := s.engine.SearchSync(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return s.toResults(raw), nil
}

// Search runs the cooperative tier state machine, invoking onUpdate with
// the cumulative result list after each tier and onFinish once at the
// end, unless ctx is cancelled first, in which case onFinish is never
// called.
func (s *Searcher) Search(ctx context.Context, query string, limit int, onUpdate func([]Result), onFinish func()) error {
	return s.engine.Search(ctx, query, limit, func(batch []tier.Result) {
		onUpdate(s.toResults(batch))
	}, onFinish)
}

// Free releases the Searcher's decoded buffers. The Searcher must not be
// used afterward.
func (s *Searcher) Free() {
	s.documents = nil
	s.sections = nil
	s.vocab = nil
	s.engine = nil
}

func (s *Searcher) toResults(raw []tier.Result) []Result {
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		var doc corpus.Document
		if r.DocID >= 0 && r.DocID < len(s.documents) {
			doc = s.documents[r.DocID]
		}
		sectionID := ""
		if r.SectionIdx >= 0 && r.SectionIdx < len(s.sections) {
			sectionID = s.sections[r.SectionIdx]
		}
		out = append(out, Result{
			DocID:     r.DocID,
			Slug:      doc.Slug,
			Title:     doc.Title,
			Excerpt:   doc.Excerpt,
			Href:      doc.Href,
			Score:     r.Score,
			SectionID: sectionID,
			MatchType: r.MatchType,
		})
	}
	return out
}

// cachedPostings wraps a DecodedIndex with a bounded LRU of decoded
// posting lists. This is purely a performance cache: a miss re-decodes
// the block identically, so nothing about query correctness depends on
// what the cache holds.
type cachedPostings struct {
	inner *postings.DecodedIndex
	cache *lru.Cache[int, *postings.List]
}

func newCachedPostings(inner *postings.DecodedIndex, size int) (*cachedPostings, error) {
	cache, err := lru.New[int, *postings.List](size)
	if err != nil {
		return nil, err
	}
	return &cachedPostings{inner: inner, cache: cache}, nil
}

func (c *cachedPostings) Term(termIdx int) (*postings.List, error) {
	if list, ok := c.cache.Get(termIdx); ok {
		return list, nil
	}
	list, err := c.inner.Term(termIdx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(termIdx, list)
	return list, nil
}

func (c *cachedPostings) NumTerms() int {
	return c.inner.NumTerms()
}
