package postings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/scoring"
)

func TestIndex_EncodeDecode_RoundTrip(t *testing.T) {
	idx := postings.NewIndex(3)
	idx.Add(0, postings.Posting{DocID: 0, Offset: 0, FieldType: scoring.FieldTitle, SectionIdx: -1, PrecomputedScore: 1005})
	idx.Add(0, postings.Posting{DocID: 1, Offset: 4, FieldType: scoring.FieldContent, SectionIdx: -1, PrecomputedScore: 14})
	idx.Add(2, postings.Posting{DocID: 1, Offset: 8, FieldType: scoring.FieldHeading, HeadingLevel: 1, SectionIdx: 0, PrecomputedScore: 103})

	postingsSection, skipListsSection := idx.Encode()

	decoded, err := postings.DecodeIndex(postingsSection, skipListsSection)
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.NumTerms())

	list0, err := decoded.Term(0)
	require.NoError(t, err)
	assert.Equal(t, idx.Lists[0], list0.Postings)

	list1, err := decoded.Term(1)
	require.NoError(t, err)
	assert.Empty(t, list1.Postings)

	list2, err := decoded.Term(2)
	require.NoError(t, err)
	assert.Equal(t, idx.Lists[2], list2.Postings)
}

func TestIndex_Term_OutOfRangeReturnsEmpty(t *testing.T) {
	idx := postings.NewIndex(1)
	postingsSection, skipListsSection := idx.Encode()
	decoded, err := postings.DecodeIndex(postingsSection, skipListsSection)
	require.NoError(t, err)

	list, err := decoded.Term(99)
	require.NoError(t, err)
	assert.Empty(t, list.Postings)
}
