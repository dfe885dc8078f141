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

package docset_test

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/docset"
)

func drain(t *testing.T, ds docset.DocSet) []docset.DocID {
	t.Helper()
	var out []docset.DocID
	for ds.Advance() {
		out = append(out, ds.Doc())
	}
	return out
}

// E3: left=[1,3,9], right=[3,4,9,18].
func TestUnionAndUnionAll(t *testing.T) {
	left := []docset.DocID{1, 3, 9}
	right := []docset.DocID{3, 4, 9, 18}

	u := docset.NewUnion([]docset.DocSet{
		docset.FromSlice(left),
		docset.FromSlice(right),
	})
	require.Equal(t, []docset.DocID{1, 3, 4, 9, 18}, drain(t, u))

	ua := docset.NewUnionAll([]docset.DocSet{
		docset.FromSlice(left),
		docset.FromSlice(right),
	})
	require.Equal(t, []docset.DocID{1, 3, 3, 4, 9, 9, 18}, drain(t, ua))
}

func TestUnionEmpty(t *testing.T) {
	u := docset.NewUnion([]docset.DocSet{
		docset.FromSlice(nil),
		docset.FromSlice([]docset.DocID{5}),
	})
	require.Equal(t, []docset.DocID{5}, drain(t, u))
}

func TestUnionSkipNext(t *testing.T) {
	u := docset.NewUnion([]docset.DocSet{
		docset.FromSlice([]docset.DocID{1, 3, 9}),
		docset.FromSlice([]docset.DocID{3, 4, 9, 18}),
	})
	require.Equal(t, docset.OverStep, u.SkipNext(5))
	require.Equal(t, docset.DocID(9), u.Doc())
	require.True(t, u.Advance())
	require.Equal(t, docset.DocID(18), u.Doc())
	require.False(t, u.Advance())
}

// E4: left=[1,3,7,8,10,13], right=[7,8,10,12,14,15,20];
// SkipNext(8) on the difference lands OverStep at doc 13, then is exhausted.
func TestDifference(t *testing.T) {
	left := docset.FromSlice([]docset.DocID{1, 3, 7, 8, 10, 13})
	right := docset.FromSlice([]docset.DocID{7, 8, 10, 12, 14, 15, 20})
	d := docset.NewDifference(left, right)

	require.True(t, d.Advance())
	require.Equal(t, docset.DocID(1), d.Doc())
	require.True(t, d.Advance())
	require.Equal(t, docset.DocID(3), d.Doc())

	res := d.SkipNext(8)
	require.Equal(t, docset.OverStep, res)
	require.Equal(t, docset.DocID(13), d.Doc())

	require.False(t, d.Advance())
}

func TestDifferenceNoOverlap(t *testing.T) {
	d := docset.NewDifference(
		docset.FromSlice([]docset.DocID{1, 2, 3}),
		docset.FromSlice([]docset.DocID{10, 20}),
	)
	require.Equal(t, []docset.DocID{1, 2, 3}, drain(t, d))
}

func TestIntersection(t *testing.T) {
	i := docset.NewIntersection([]docset.DocSet{
		docset.FromSlice([]docset.DocID{1, 2, 3, 5, 8, 13}),
		docset.FromSlice([]docset.DocID{2, 3, 5, 7, 13}),
		docset.FromSlice([]docset.DocID{0, 3, 5, 13, 21}),
	})
	require.Equal(t, []docset.DocID{3, 5, 13}, drain(t, i))
}

func TestIntersectionSkipNext(t *testing.T) {
	i := docset.NewIntersection([]docset.DocSet{
		docset.FromSlice([]docset.DocID{1, 4, 9, 16}),
		docset.FromSlice([]docset.DocID{4, 9, 16, 25}),
	})
	require.Equal(t, docset.Reached, i.SkipNext(9))
	require.Equal(t, docset.DocID(9), i.Doc())
	require.True(t, i.Advance())
	require.Equal(t, docset.DocID(16), i.Doc())
}

func TestFromBitmap(t *testing.T) {
	b := roaring.New()
	b.AddMany([]uint32{2, 4, 6, 1000})
	ds := docset.FromBitmap(b)
	require.Equal(t, []docset.DocID{2, 4, 6, 1000}, drain(t, ds))
}
