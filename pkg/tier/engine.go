package tier

import (
	"context"
	"sort"

	"github.com/staticdex/staticdex/internal/errors"
	"github.com/staticdex/staticdex/pkg/fuzzy"
	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/scoring"
	"github.com/staticdex/staticdex/pkg/vocab"
)

// PostingsSource decodes a term's posting list on demand. Satisfied by
// *postings.DecodedIndex.
type PostingsSource interface {
	Term(termIdx int) (*postings.List, error)
	NumTerms() int
}

// PrefixRanger answers suffix-array prefix queries. Satisfied by
// *sa.SuffixArray.
type PrefixRanger interface {
	PrefixRange(prefix string) (lo, hi int)
	At(i int) int
}

// Engine runs queries against a read-only, fully decoded search index.
// An Engine is safe for concurrent use by any number of queries; all
// query state lives on the stack of the call that runs it.
type Engine struct {
	Vocab       *vocab.Vocabulary
	TermStarts  []int
	SA          PrefixRanger
	Postings    PostingsSource
	MaxQueryLen int
	MaxDistance int

	// ParallelFuzzyScan enables the data-parallel T3 profile of §5.
	ParallelFuzzyScan bool
}

// match is one term's resolved hit for a document: the posting it came
// from, which tier produced it and (for T3) the edit distance.
type match struct {
	posting  postings.Posting
	tier     scoring.Tier
	distance int
}

func matchType(p postings.Posting) scoring.MatchType {
	return scoring.MatchTypeFromHeadingLevel(p.FieldType, p.HeadingLevel)
}

// bestPerDocByMatchType reduces a posting list to one posting per doc_id,
// preferring the better (match_type, -score) key of §4.8's section
// selection rule rather than raw score alone -- a title hit outranks a
// higher-scoring content hit in the same document.
func bestPerDocByMatchType(list []postings.Posting) map[int]postings.Posting {
	best := make(map[int]postings.Posting, len(list))
	for _, p := range list {
		cur, ok := best[p.DocID]
		if !ok || better(matchType(p), p.PrecomputedScore, matchType(cur), cur.PrecomputedScore) {
			best[p.DocID] = p
		}
	}
	return best
}

func (m match) finalScore() int {
	return scoring.FinalScore(m.posting.PrecomputedScore, m.tier, m.distance, matchType(m.posting))
}

// termTiers holds one query term's per-tier match maps, keyed by doc_id.
type termTiers struct {
	t1 map[int]match
	t2 map[int]match
	t3 map[int]match

	// t1List is the term's raw exact-match posting list, kept alongside
	// t1 so the batch-1 AND can drive its intersection off the skip
	// layer instead of re-hashing t1's already-built doc_id set.
	t1List *postings.List
}

// SearchSync runs Init -> RunT1 -> RunT2 -> RunT3 -> Done without
// suspension, returning the concatenated, limit-trimmed final result.
func (e *Engine) SearchSync(ctx context.Context, query string, limit int) ([]Result, error) {
	var final []Result
	err := e.Search(ctx, query, limit, func(batch []Result) {
		final = batch
	}, func() {})
	return final, err
}

// Search runs the cooperative state machine of §4.8/§5: Init, RunT1,
// EmitT1, RunT2, EmitT2, RunT3, EmitT3, Done. onUpdate is invoked with the
// cumulative result list after each tier; onFinish once at the end unless
// the context is cancelled first, in which case it is never called.
func (e *Engine) Search(ctx context.Context, query string, limit int, onUpdate func([]Result), onFinish func()) error {
	terms := queryTerms(query)

	if len([]rune(query)) > e.MaxQueryLen {
		return errors.QueryError(errors.ErrCodeQueryTooLong, "query exceeds maximum length", nil)
	}
	if len(terms) == 0 {
		onUpdate(nil)
		onFinish()
		return nil
	}

	perTerm := make([]*termTiers, len(terms))
	for i, t := range terms {
		perTerm[i] = &termTiers{t1: map[int]match{}, t2: map[int]match{}, t3: map[int]match{}}
		if err := e.runT1(terms[i], perTerm[i]); err != nil {
			return err
		}
		_ = t
	}

	emitted := make(map[int]bool)
	var cumulative []Result

	batch1 := e.and(perTerm, 1, emitted)
	cumulative = append(cumulative, batch1...)
	onUpdate(append([]Result(nil), cumulative...))

	if ctx.Err() != nil {
		return nil
	}

	for i := range terms {
		e.runT2(terms[i], perTerm[i])
	}
	batch2 := e.and(perTerm, 2, emitted)
	cumulative = append(cumulative, batch2...)
	onUpdate(append([]Result(nil), cumulative...))

	if ctx.Err() != nil {
		return nil
	}

	for i := range terms {
		e.runT3(ctx, terms[i], perTerm[i])
		if ctx.Err() != nil {
			return nil
		}
	}
	batch3 := e.and(perTerm, 3, emitted)
	cumulative = append(cumulative, batch3...)

	if limit > 0 && len(cumulative) > limit {
		cumulative = cumulative[:limit]
	}
	onUpdate(cumulative)
	onFinish()
	return nil
}

func queryTerms(query string) []string {
	tokens := vocab.Tokenize(query, vocab.ModeProse, vocab.FoldLower)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Term)
	}
	return out
}

func (e *Engine) runT1(term string, tt *termTiers) error {
	idx := e.Vocab.IndexOf(term)
	if idx < 0 {
		return nil
	}
	list, err := e.Postings.Term(idx)
	if err != nil {
		return err
	}
	tt.t1List = list
	for docID, p := range bestPerDocByMatchType(list.Postings) {
		tt.t1[docID] = match{posting: p, tier: scoring.TierExact}
	}
	return nil
}

func (e *Engine) runT2(term string, tt *termTiers) {
	lo, hi := e.SA.PrefixRange(term)
	seenTerms := map[int]bool{}

	for i := lo; i < hi; i++ {
		bufOffset := e.SA.At(i)
		termIdx, within := vocab.ResolveOffset(e.TermStarts, bufOffset)
		if within != 0 || seenTerms[termIdx] {
			continue
		}
		seenTerms[termIdx] = true

		list, err := e.Postings.Term(termIdx)
		if err != nil || list == nil {
			continue
		}
		for docID, p := range bestPerDocByMatchType(list.Postings) {
			if _, excluded := tt.t1[docID]; excluded {
				continue
			}
			if cur, ok := tt.t2[docID]; !ok || p.PrecomputedScore > cur.posting.PrecomputedScore {
				tt.t2[docID] = match{posting: p, tier: scoring.TierPrefix}
			}
		}
	}
}

func (e *Engine) runT3(ctx context.Context, term string, tt *termTiers) {
	a := fuzzy.New(term, e.MaxDistance)

	processMatch := func(fm fuzzy.Match) {
		list, err := e.Postings.Term(fm.TermIdx)
		if err != nil || list == nil {
			return
		}
		for docID, p := range bestPerDocByMatchType(list.Postings) {
			if _, excluded := tt.t1[docID]; excluded {
				continue
			}
			if _, excluded := tt.t2[docID]; excluded {
				continue
			}
			cur, ok := tt.t3[docID]
			if !ok || fm.Distance < cur.distance ||
				(fm.Distance == cur.distance && p.PrecomputedScore > cur.posting.PrecomputedScore) {
				tt.t3[docID] = match{posting: p, tier: scoring.TierFuzzy, distance: fm.Distance}
			}
		}
	}

	if e.ParallelFuzzyScan {
		e.runT3Parallel(ctx, a, processMatch)
		return
	}

	const blockSize = 4096
	n := e.Vocab.Len()
	for start := 0; start < n; start += blockSize {
		if ctx.Err() != nil {
			return
		}
		end := start + blockSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			if d, ok := a.Match(e.Vocab.Terms[i]); ok {
				processMatch(fuzzy.Match{TermIdx: i, Distance: d})
			}
		}
	}
}

// and computes the multi-term AND of §4.8 for batch n, using each term's
// cumulative tier-<=n match map, emitting only doc_ids not already in
// emitted, and marking them emitted before returning.
func (e *Engine) and(perTerm []*termTiers, n int, emitted map[int]bool) []Result {
	cumMaps := make([]map[int]match, len(perTerm))
	for i, tt := range perTerm {
		m := map[int]match{}
		for k, v := range tt.t1 {
			m[k] = v
		}
		if n >= 2 {
			for k, v := range tt.t2 {
				m[k] = v
			}
		}
		if n >= 3 {
			for k, v := range tt.t3 {
				m[k] = v
			}
		}
		cumMaps[i] = m
	}

	docIDs := e.andDocIDs(perTerm, cumMaps, n)

	var out []Result
	for _, docID := range docIDs {
		if emitted[docID] {
			continue
		}
		emitted[docID] = true

		total := 0
		bestKeyTier := scoring.MatchContent
		bestScore := -1
		bestSection := -1
		bestTier := scoring.TierFuzzy

		for _, m := range cumMaps {
			mm := m[docID]
			total += mm.finalScore()
			mt := matchType(mm.posting)
			if better(mt, mm.finalScore(), bestKeyTier, bestScore) {
				bestKeyTier = mt
				bestScore = mm.finalScore()
				bestSection = mm.posting.SectionIdx
				bestTier = mm.tier
			}
		}

		out = append(out, Result{
			DocID:      docID,
			Score:      total,
			SectionIdx: bestSection,
			MatchType:  bestKeyTier,
			Tier:       bestTier,
		})
	}

	sort.Sort(byResult(out))
	return out
}

// andDocIDs computes batch n's candidate doc_ids. Batch 1 (exact matches
// only) drives the intersection off each term's raw posting list via
// SkipTo rather than its match map, since every other tier accumulates
// postings from multiple vocabulary terms and has no single sorted list
// to skip against.
func (e *Engine) andDocIDs(perTerm []*termTiers, cumMaps []map[int]match, n int) []int {
	if n == 1 {
		lists := make([]*postings.List, len(perTerm))
		for i, tt := range perTerm {
			if tt.t1List == nil {
				return intersectMatchKeys(cumMaps)
			}
			lists[i] = tt.t1List
		}
		return postings.IntersectLists(lists)
	}
	return intersectMatchKeys(cumMaps)
}

// better reports whether (mt, score) ranks ahead of (curMT, curScore) by
// the lexicographic key (match_type, -score) of §4.8's section selection.
func better(mt scoring.MatchType, score int, curMT scoring.MatchType, curScore int) bool {
	if curScore < 0 {
		return true
	}
	if mt != curMT {
		return mt < curMT
	}
	return score > curScore
}

func intersectMatchKeys(maps []map[int]match) []int {
	if len(maps) == 0 {
		return nil
	}
	smallest := maps[0]
	for _, m := range maps[1:] {
		if len(m) < len(smallest) {
			smallest = m
		}
	}

	var out []int
	for docID := range smallest {
		inAll := true
		for _, m := range maps {
			if _, ok := m[docID]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, docID)
		}
	}
	sort.Ints(out)
	return out
}
