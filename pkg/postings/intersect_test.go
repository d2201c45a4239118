package postings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/pkg/postings"
	"github.com/staticdex/staticdex/pkg/scoring"
)

func listOf(t *testing.T, docIDs ...int) *postings.List {
	t.Helper()
	var ps []postings.Posting
	for _, id := range docIDs {
		ps = append(ps, postings.Posting{DocID: id, FieldType: scoring.FieldContent})
	}
	data := postings.Encode(ps)
	list, err := postings.Decode(data)
	require.NoError(t, err)
	return list
}

func TestIntersectLists_AndSemantics(t *testing.T) {
	a := listOf(t, 0, 1, 2)
	b := listOf(t, 1, 2, 3)
	c := listOf(t, 1, 4)

	got := postings.IntersectLists([]*postings.List{a, b, c})
	assert.Equal(t, []int{1}, got)
}

func TestIntersectLists_EmptyInput(t *testing.T) {
	assert.Nil(t, postings.IntersectLists(nil))
}

func TestIntersectLists_DriverHasDuplicateDocIDs(t *testing.T) {
	// b is no shorter than a, so a (with its repeated doc 5) is the driver.
	a := &postings.List{Postings: []postings.Posting{{DocID: 5}, {DocID: 5}, {DocID: 9}}}
	b := listOf(t, 5, 9, 12)

	got := postings.IntersectLists([]*postings.List{a, b})
	assert.Equal(t, []int{5, 9}, got)
}

func TestIntersectLists_UsesShortestListAsDriverAcrossLargeBlocks(t *testing.T) {
	var many []postings.Posting
	for i := 0; i < postings.BlockSize*3; i++ {
		many = append(many, postings.Posting{DocID: i})
	}
	data := postings.Encode(many)
	big, err := postings.Decode(data)
	require.NoError(t, err)

	small := listOf(t, 5, postings.BlockSize+2, postings.BlockSize*2+7)

	got := postings.IntersectLists([]*postings.List{big, small})
	assert.Equal(t, []int{5, postings.BlockSize + 2, postings.BlockSize*2 + 7}, got)
}

func TestSkipTo_FindsFirstPostingAtOrAfterTarget(t *testing.T) {
	var many []postings.Posting
	for i := 0; i < postings.BlockSize*2+10; i++ {
		many = append(many, postings.Posting{DocID: i * 2, FieldType: scoring.FieldContent})
	}
	data := postings.Encode(many)
	list, err := postings.Decode(data)
	assert.NoError(t, err)

	idx := list.SkipTo(100)
	assert.GreaterOrEqual(t, list.Postings[idx].DocID, 100)
	if idx > 0 {
		assert.Less(t, list.Postings[idx-1].DocID, 100)
	}
}

func TestSkipTo_PastEnd(t *testing.T) {
	list := &postings.List{Postings: []postings.Posting{{DocID: 1}, {DocID: 2}}}
	idx := list.SkipTo(100)
	assert.Equal(t, 2, idx)
}
