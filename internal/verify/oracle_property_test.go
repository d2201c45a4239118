package verify_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/internal/verify"
	"github.com/staticdex/staticdex/pkg/boundary"
	"github.com/staticdex/staticdex/pkg/fuzzy"
	"github.com/staticdex/staticdex/pkg/sa"
	"github.com/staticdex/staticdex/pkg/vocab"
)

const randSeed = 1337

func randTerm(r *rand.Rand, maxLen int) string {
	alphabet := "abcdefghijklmnopqrstuvwxyz"
	n := 1 + r.Intn(maxLen)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}

func TestProperty_SuffixArrayMatchesNaiveOracle(t *testing.T) {
	r := rand.New(rand.NewSource(randSeed))

	for trial := 0; trial < 30; trial++ {
		var terms []string
		for i := 0; i < 1+r.Intn(20); i++ {
			terms = append(terms, randTerm(r, 8))
		}

		v := vocab.Build(terms)
		buf := v.SentinelJoin()

		want := verify.NaiveSuffixArray(buf)
		got := sa.Build(v)

		require.Equal(t, len(want), got.Len())
		for i := 0; i < got.Len(); i++ {
			assert.Equal(t, want[i], got.At(i), "trial %d: mismatch at sorted position %d", trial, i)
		}
	}
}

func TestProperty_FuzzyDistanceMatchesNaiveOracle(t *testing.T) {
	r := rand.New(rand.NewSource(randSeed))

	for trial := 0; trial < 50; trial++ {
		query := randTerm(r, 10)
		term := randTerm(r, 10)

		a := fuzzy.New(query, fuzzy.MaxSupportedDistance)
		gotDist, ok := a.Match(term)

		want := verify.NaiveEditDistance(query, term)

		if want == 0 || want > fuzzy.MaxSupportedDistance {
			assert.False(t, ok, "trial %d: query=%q term=%q oracle distance=%d should not match", trial, query, term, want)
			continue
		}
		require.True(t, ok, "trial %d: query=%q term=%q oracle distance=%d should match", trial, query, term, want)
		assert.Equal(t, want, gotDist, "trial %d: query=%q term=%q", trial, query, term)
	}
}

func TestProperty_FieldBoundaryLocateMatchesNaiveOracle(t *testing.T) {
	r := rand.New(rand.NewSource(randSeed))

	for trial := 0; trial < 30; trial++ {
		nDocs := 1 + r.Intn(3)
		var fbs []boundary.FieldBoundary
		var likes []verify.FieldBoundaryLike
		textLens := map[int]int{}

		for doc := 0; doc < nDocs; doc++ {
			n := 20 + r.Intn(80)
			textLens[doc] = n
			pos := 0
			for pos < n-1 {
				end := pos + 1 + r.Intn(5)
				if end > n {
					end = n
				}
				fbs = append(fbs, boundary.FieldBoundary{DocID: doc, Start: pos, End: end, FieldType: boundary.FieldContent, SectionIdx: -1})
				likes = append(likes, verify.FieldBoundaryLike{DocID: doc, Start: pos, End: end})
				pos = end
			}
		}

		table := boundary.NewTable(fbs)

		for i := 0; i < 20; i++ {
			doc := r.Intn(nDocs)
			offset := r.Intn(textLens[doc])

			_, gotOK := table.Locate(doc, offset)
			_, wantOK := verify.NaiveFieldBoundaryLookup(likes, doc, offset)
			assert.Equal(t, wantOK, gotOK, "trial %d: doc=%d offset=%d", trial, doc, offset)
		}
	}
}
