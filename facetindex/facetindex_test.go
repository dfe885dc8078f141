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

package facetindex_test

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/facet"
	"github.com/ferret-search/ferret/facetindex"
	"github.com/ferret-search/ferret/fastfield"
)

// buildSegment indexes docFacets (the literal facet value(s) assigned to
// each document) into a facet dictionary and an ordinal fast field, ready
// for a Collector. Unlike the inverted-index path (which tokenizes a
// facet into its ancestor chain via facet.Tokenize), the facet counter's
// dictionary holds only the literal values documents were tagged with;
// ancestor roll-up is computed from those values directly.
func buildSegment(t *testing.T, docFacets []facet.Facet) (*facetindex.Dictionary, *fastfield.MultiReader) {
	t.Helper()

	distinct := map[string][]byte{}
	for _, f := range docFacets {
		distinct[string(f.Encoded())] = f.Encoded()
	}
	keys := make([][]byte, 0, len(distinct))
	for _, enc := range distinct {
		keys = append(keys, enc)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	dw := facetindex.NewDictionaryWriter(1 << 16)
	for _, enc := range keys {
		_, err := dw.Insert(facet.FromEncoded(enc))
		require.NoError(t, err)
	}
	dictBytes, err := dw.Finish()
	require.NoError(t, err)
	dict, err := facetindex.OpenDictionary(dictBytes)
	require.NoError(t, err)

	mw := fastfield.NewMultiWriter()
	for _, f := range docFacets {
		ord, ok, err := dict.Ordinal(f)
		require.NoError(t, err)
		require.True(t, ok)
		mw.AddDocument([]uint64{ord})
	}
	var buf bytes.Buffer
	require.NoError(t, mw.Serialize(&buf))
	ordReader, err := fastfield.OpenMultiReader(buf.Bytes())
	require.NoError(t, err)

	return dict, ordReader
}

// TestFacetEnumeration is spec scenario E1.
func TestFacetEnumeration(t *testing.T) {
	var docFacets []facet.Facet
	for top := 0; top < 3; top++ {
		for mid := 0; mid < 4; mid++ {
			for leaf := 0; leaf < 5; leaf++ {
				f := facet.FromPath(fmt.Sprintf("top%d", top), fmt.Sprintf("mid%d", mid), fmt.Sprintf("leaf%d", leaf))
				for i := 0; i < 10; i++ {
					docFacets = append(docFacets, f)
				}
			}
		}
	}
	require.Len(t, docFacets, 60*10)

	dict, ordReader := buildSegment(t, docFacets)

	c := facetindex.NewCollector()
	c.SetSegment(dict, ordReader)
	for doc := 0; doc < ordReader.NumDocs(); doc++ {
		c.Collect(doc)
	}
	counts := c.Harvest()

	all, err := counts.Iter()
	require.NoError(t, err)
	require.Len(t, all, 60)
	for i := 1; i < len(all); i++ {
		require.True(t, bytes.Compare(all[i-1].Facet.Encoded(), all[i].Facet.Encoded()) < 0)
	}
	for _, fc := range all {
		require.Equal(t, uint64(10), fc.Count, fc.Facet.String())
	}

	scoped := counts.Root(facet.FromPath("top1")).Iter
	under1, err := scoped()
	require.NoError(t, err)
	require.Len(t, under1, 20)

	depth1, err := counts.WithDepth(1)
	require.NoError(t, err)
	require.Len(t, depth1, 3)
	want := map[string]uint64{"/top0": 200, "/top1": 200, "/top2": 200}
	for _, fc := range depth1 {
		require.Equal(t, want[fc.Facet.String()], fc.Count, fc.Facet.String())
	}
}

func TestFacetCountsRootScoping(t *testing.T) {
	docFacets := []facet.Facet{
		facet.FromPath("a", "b"),
		facet.FromPath("a", "b"),
		facet.FromPath("a", "c"),
		facet.FromPath("z"),
	}
	dict, ordReader := buildSegment(t, docFacets)

	c := facetindex.NewCollector()
	c.SetSegment(dict, ordReader)
	for doc := 0; doc < ordReader.NumDocs(); doc++ {
		c.Collect(doc)
	}
	counts := c.Harvest()

	underA, err := counts.Root(facet.FromPath("a")).Iter()
	require.NoError(t, err)
	require.Len(t, underA, 2)
	var total uint64
	for _, fc := range underA {
		total += fc.Count
	}
	require.Equal(t, uint64(3), total)

	depth1, err := counts.WithDepth(1)
	require.NoError(t, err)
	want := map[string]uint64{"/a": 3, "/z": 1}
	require.Len(t, depth1, len(want))
	for _, fc := range depth1 {
		require.Equal(t, want[fc.Facet.String()], fc.Count, fc.Facet.String())
	}
}

// TestFacetCountsMultiSegment checks that counts for the same facet value
// across two segments are summed.
func TestFacetCountsMultiSegment(t *testing.T) {
	seg1Facets := []facet.Facet{facet.FromPath("x"), facet.FromPath("x"), facet.FromPath("y")}
	seg2Facets := []facet.Facet{facet.FromPath("x"), facet.FromPath("y"), facet.FromPath("y")}

	dict1, or1 := buildSegment(t, seg1Facets)
	dict2, or2 := buildSegment(t, seg2Facets)

	c := facetindex.NewCollector()
	c.SetSegment(dict1, or1)
	for doc := 0; doc < or1.NumDocs(); doc++ {
		c.Collect(doc)
	}
	c.SetSegment(dict2, or2)
	for doc := 0; doc < or2.NumDocs(); doc++ {
		c.Collect(doc)
	}
	counts := c.Harvest()

	all, err := counts.Iter()
	require.NoError(t, err)
	require.Len(t, all, 2)
	got := map[string]uint64{}
	for _, fc := range all {
		got[fc.Facet.String()] = fc.Count
	}
	require.Equal(t, uint64(3), got["/x"])
	require.Equal(t, uint64(3), got["/y"])
}
