// Copyright 2024 The Ferret Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/docset"
	"github.com/ferret-search/ferret/postings"
	"github.com/ferret-search/ferret/scoring"
)

func buildPostings(t *testing.T, docs []docset.DocID, freqs []uint32) *postings.List {
	t.Helper()
	w := postings.NewWriter(true)
	for i, d := range docs {
		require.NoError(t, w.Add(d, freqs[i]))
	}
	return postings.Open(w.Bytes(), true, nil)
}

func drain(t *testing.T, s scoring.Scorer) ([]docset.DocID, []float32) {
	t.Helper()
	var docs []docset.DocID
	var scores []float32
	for s.Advance() {
		docs = append(docs, s.Doc())
		scores = append(scores, s.Score())
	}
	return docs, scores
}

func TestTermScorerTFIDF(t *testing.T) {
	list := buildPostings(t, []docset.DocID{1, 3}, []uint32{2, 5})
	ts := scoring.NewTermScorer(list, 10, 2)

	require.True(t, ts.Advance())
	require.Equal(t, docset.DocID(1), ts.Doc())
	wantIDF := 1.2992829841302609 // log(11/3)
	require.InDelta(t, 2*wantIDF, float64(ts.Score()), 1e-6)

	require.True(t, ts.Advance())
	require.Equal(t, docset.DocID(3), ts.Doc())
	require.InDelta(t, 5*wantIDF, float64(ts.Score()), 1e-6)

	require.False(t, ts.Advance())
}

func TestScoreCombinerPolicies(t *testing.T) {
	sum := scoring.NewScoreCombiner(scoring.SumPolicy)
	require.Equal(t, float32(3), sum.Combine([]float32{1, 2}, 2))

	sqrt := scoring.NewScoreCombiner(scoring.SumSqrtPolicy)
	require.InDelta(t, 2.8284271247461903, float64(sqrt.Combine([]float32{2, 2}, 2)), 1e-6)

	coord := scoring.NewScoreCombiner(scoring.CoordinationPolicy)
	require.InDelta(t, float64(6), float64(coord.Combine([]float32{4, 2}, 2)), 1e-6)
	require.InDelta(t, float64(2), float64(coord.Combine([]float32{4}, 2)), 1e-6)
}

func TestIntersectionScorerRecomputesScore(t *testing.T) {
	a := scoring.NewTermScorer(buildPostings(t, []docset.DocID{1, 2, 5}, []uint32{1, 1, 1}), 10, 3)
	b := scoring.NewTermScorer(buildPostings(t, []docset.DocID{2, 5, 9}, []uint32{1, 1, 1}), 10, 3)

	combiner := scoring.CombinerForOccur(scoring.Must, 2)
	is := scoring.NewIntersectionScorer([]scoring.Scorer{a, b}, combiner)

	docs, scores := drain(t, is)
	require.Equal(t, []docset.DocID{2, 5}, docs)
	for _, sc := range scores {
		require.Greater(t, sc, float32(0))
	}
}

func TestUnionScorerPartialCoordination(t *testing.T) {
	a := scoring.NewTermScorer(buildPostings(t, []docset.DocID{1, 3}, []uint32{1, 1}), 10, 2)
	b := scoring.NewTermScorer(buildPostings(t, []docset.DocID{3, 4}, []uint32{1, 1}), 10, 2)

	combiner := scoring.NewScoreCombiner(scoring.SumPolicy)
	us := scoring.NewUnionScorer([]scoring.Scorer{a, b}, combiner)

	docs, scores := drain(t, us)
	require.Equal(t, []docset.DocID{1, 3, 4}, docs)
	// doc 3 is matched by both children; its score should exceed either
	// single-child doc's score since both contribute.
	require.Greater(t, scores[1], scores[0])
	require.Greater(t, scores[1], scores[2])
}

func TestDifferenceScorerVerbatimScore(t *testing.T) {
	left := scoring.NewTermScorer(buildPostings(t, []docset.DocID{1, 2, 3}, []uint32{4, 4, 4}), 10, 3)
	right := postings.Open(func() []byte {
		w := postings.NewWriter(false)
		require.NoError(t, w.Add(2, 0))
		return w.Bytes()
	}(), false, nil)

	ds := scoring.NewDifferenceScorer(left, right)
	docs, scores := drain(t, ds)
	require.Equal(t, []docset.DocID{1, 3}, docs)
	require.Equal(t, scores[0], scores[1])
}

func TestBooleanQueryMustShouldMustNot(t *testing.T) {
	must := scoring.NewTermScorer(buildPostings(t, []docset.DocID{1, 2, 3, 4}, []uint32{1, 1, 1, 1}), 10, 4)
	should := scoring.NewTermScorer(buildPostings(t, []docset.DocID{2, 4}, []uint32{3, 3}), 10, 2)
	mustNot := scoring.NewTermScorer(buildPostings(t, []docset.DocID{3}, []uint32{1}), 10, 1)

	bq, err := scoring.NewBooleanQuery([]scoring.Clause{
		{Occur: scoring.Must, Scorer: must},
		{Occur: scoring.Should, Scorer: should},
		{Occur: scoring.MustNot, Scorer: mustNot},
	})
	require.NoError(t, err)

	docs, scores := drain(t, bq)
	require.Equal(t, []docset.DocID{1, 2, 4}, docs)
	// docs 2 and 4 also matched the Should clause, so they outscore doc 1.
	require.Greater(t, scores[1], scores[0])
	require.Greater(t, scores[2], scores[0])
}

func TestBooleanQueryShouldOnlyRequiresAtLeastOneMatch(t *testing.T) {
	s1 := scoring.NewTermScorer(buildPostings(t, []docset.DocID{1, 2}, []uint32{1, 1}), 10, 2)
	s2 := scoring.NewTermScorer(buildPostings(t, []docset.DocID{2, 3}, []uint32{1, 1}), 10, 2)

	bq, err := scoring.NewBooleanQuery([]scoring.Clause{
		{Occur: scoring.Should, Scorer: s1},
		{Occur: scoring.Should, Scorer: s2},
	})
	require.NoError(t, err)

	docs, _ := drain(t, bq)
	require.Equal(t, []docset.DocID{1, 2, 3}, docs)
}

func TestBooleanQueryRejectsEmpty(t *testing.T) {
	_, err := scoring.NewBooleanQuery(nil)
	require.ErrorIs(t, err, scoring.ErrEmptyBooleanQuery)
}
