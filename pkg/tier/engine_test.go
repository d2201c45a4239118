package tier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/sa"
	"github.com/staticdex/staticdex/pkg/scoring"
	"github.com/staticdex/staticdex/pkg/tier"
	"github.com/staticdex/staticdex/pkg/vocab"
)

// buildEngine is a small test fixture: a hand-built vocabulary, suffix
// array and posting index over a few terms, wired into an Engine.
func buildEngine(t *testing.T, termPostings map[string][]postings.Posting) (*tier.Engine, *vocab.Vocabulary) {
	t.Helper()

	var terms []string
	for term := range termPostings {
		terms = append(terms, term)
	}
	v := vocab.Build(terms)
	built := sa.Build(v)

	idx := postings.NewIndex(v.Len())
	for term, plist := range termPostings {
		ti := v.IndexOf(term)
		require.GreaterOrEqual(t, ti, 0)
		for _, p := range plist {
			idx.Add(ti, p)
		}
	}

	postingsSection, skipListsSection := idx.Encode()
	decoded, err := postings.DecodeIndex(postingsSection, skipListsSection)
	require.NoError(t, err)

	return &tier.Engine{
		Vocab:       v,
		TermStarts:  v.TermStarts(),
		SA:          built,
		Postings:    decoded,
		MaxQueryLen: 256,
		MaxDistance: 2,
	}, v
}

func titlePosting(docID int) postings.Posting {
	return postings.Posting{DocID: docID, Offset: 0, FieldType: scoring.FieldTitle, SectionIdx: -1, PrecomputedScore: scoring.PostingScore(scoring.FieldTitle, 0, 20)}
}

func contentPosting(docID, offset int) postings.Posting {
	return postings.Posting{DocID: docID, Offset: offset, FieldType: scoring.FieldContent, SectionIdx: -1, PrecomputedScore: scoring.PostingScore(scoring.FieldContent, offset, 200)}
}

func TestSearchSync_ExactMatch(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{
		"tensor": {titlePosting(0)},
		"cuda":   {contentPosting(1, 10)},
	})

	results, err := e.SearchSync(context.Background(), "tensor", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].DocID)
	assert.Equal(t, scoring.TierExact, results[0].Tier)
}

func TestSearchSync_PrefixMatchExcludesExactTierDocs(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{
		"tensor":  {titlePosting(0)},
		"tensors": {contentPosting(1, 5)},
	})

	results, err := e.SearchSync(context.Background(), "tensor", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byDoc := map[int]int{}
	for _, r := range results {
		byDoc[r.DocID] = int(r.Tier)
	}
	assert.Equal(t, int(scoring.TierExact), byDoc[0])
	assert.Equal(t, int(scoring.TierPrefix), byDoc[1])
}

func TestSearchSync_FuzzyMatch(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{
		"kernel": {contentPosting(2, 0)},
	})

	results, err := e.SearchSync(context.Background(), "kernal", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].DocID)
	assert.Equal(t, scoring.TierFuzzy, results[0].Tier)
}

func TestSearchSync_EmptyQueryReturnsEmptyNoError(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{"tensor": {titlePosting(0)}})
	results, err := e.SearchSync(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSync_QueryTooLong(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{"tensor": {titlePosting(0)}})
	e.MaxQueryLen = 3
	_, err := e.SearchSync(context.Background(), "tensor", 10)
	assert.Error(t, err)
}

func TestSearchSync_MultiTermAND(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{
		"tensor": {titlePosting(0), titlePosting(1)},
		"cuda":   {contentPosting(0, 50)},
	})

	results, err := e.SearchSync(context.Background(), "tensor cuda", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].DocID, "doc 1 lacks cuda and must be excluded by AND")
}

func TestSearchSync_DeepLinkPrefersTitleOverContent(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{
		"tensor": {
			{DocID: 0, Offset: 0, FieldType: scoring.FieldTitle, SectionIdx: -1, PrecomputedScore: scoring.PostingScore(scoring.FieldTitle, 0, 20)},
			{DocID: 0, Offset: 100, FieldType: scoring.FieldContent, SectionIdx: 3, PrecomputedScore: scoring.PostingScore(scoring.FieldContent, 100, 500)},
		},
	})

	results, err := e.SearchSync(context.Background(), "tensor", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, scoring.MatchTitle, results[0].MatchType)
	assert.Equal(t, -1, results[0].SectionIdx)
}

func TestSearch_ResultsCancelledMidQueryNeverCallsFinish(t *testing.T) {
	e, _ := buildEngine(t, map[string][]postings.Posting{"tensor": {titlePosting(0)}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finishCalled := false
	err := e.Search(ctx, "tensor", 10, func([]tier.Result) {}, func() { finishCalled = true })
	require.NoError(t, err)
	assert.False(t, finishCalled)
}
