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

package facetindex

import (
	"bytes"
	"container/heap"

	"github.com/ferret-search/ferret/facet"
	"github.com/ferret-search/ferret/fastfield"
	"github.com/ferret-search/ferret/fst"
)

// SegmentCounts is one segment's per-ordinal occurrence counters, sized to
// that segment's facet dictionary.
type SegmentCounts struct {
	dict   *Dictionary
	counts []uint64
}

// Collector accumulates per-document facet ordinal occurrences into
// per-segment counters. Grounded on
// original_source/src/collector/facet_collector.rs's set_segment/collect:
// the collector owns one per-segment workspace (dictionary + counters +
// the fast field reader) at a time, matching this module's note on
// interior mutability — no cross-borrowing between segment and collector.
//
// The ordinal fast field holds the literal facet value(s) a document was
// directly tagged with — it is multi-valued only because one document can
// carry several distinct facet fields (e.g. /lang/en and
// /category/fiction), not because of ancestor expansion. Ancestor roll-up
// (with_depth) is computed on the fly from a leaf value's own encoded
// bytes, matching facet_collector.rs's docs ("deeper facets will all be
// accumulated in their parents count") without requiring the dictionary
// to carry a separate entry per ancestor. facet.Tokenize's ancestor
// expansion is used by the inverted-index indexing path (segment package)
// for prefix/ancestor term queries, a distinct consumer of Facet from this
// one.
type Collector struct {
	segments  []*SegmentCounts
	cur       *SegmentCounts
	curReader *fastfield.MultiReader
	scratch   []uint64
}

// NewCollector returns an empty collector, ready to visit segments in turn.
func NewCollector() *Collector {
	return &Collector{}
}

// SetSegment switches collection to a new segment's facet dictionary and
// ordinal fast field, starting its counters at zero.
func (c *Collector) SetSegment(dict *Dictionary, ordinals *fastfield.MultiReader) {
	sc := &SegmentCounts{dict: dict, counts: make([]uint64, dict.NumFacets())}
	c.segments = append(c.segments, sc)
	c.cur = sc
	c.curReader = ordinals
}

// Collect records doc's facet ordinals (the literal facet value(s) it was
// tagged with) against the current segment.
func (c *Collector) Collect(doc int) {
	c.scratch = c.curReader.Values(doc, c.scratch[:0])
	for _, ord := range c.scratch {
		c.cur.counts[ord]++
	}
}

// Harvest finalizes collection into a queryable Counts, rooted at the
// facet tree's root. Grounded on facet_collector.rs's harvest()/facets().
func (c *Collector) Harvest() *Counts {
	return &Counts{segments: c.segments, root: facet.Root()}
}

// FacetCount pairs a facet value with its aggregated document count.
type FacetCount struct {
	Facet facet.Facet
	Count uint64
}

// Counts is a finalized, queryable view over one or more segments' facet
// counters.
type Counts struct {
	segments []*SegmentCounts
	root     facet.Facet
}

// Root returns a view scoped to only root's subtree, matching
// facet_collector.rs's FacetCounts::root() scoping.
func (fc *Counts) Root(root facet.Facet) *Counts {
	return &Counts{segments: fc.segments, root: root}
}

// Iter returns every (facet, count) pair with a nonzero count under fc's
// root, in ascending lexicographic order. Grounded on
// facet_collector.rs's FacetIterator: a lexicographic merge of every
// segment's facet dictionary stream, summing counts for shared keys.
func (fc *Counts) Iter() ([]FacetCount, error) {
	return fc.merge()
}

// WithDepth aggregates fc's entries by their ancestor at root.depth+delta
// levels, summing every descendant's count into that ancestor's bucket.
// Grounded on facet_collector.rs's FacetIteratorWithDepth cooperative
// state machine (current_facet, accumulator) over the merged stream.
func (fc *Counts) WithDepth(delta int) ([]FacetCount, error) {
	targetDepth := facet.Depth(fc.root.Encoded()) + delta
	raw, err := fc.merge()
	if err != nil {
		return nil, err
	}

	var out []FacetCount
	var curAncestor facet.Facet
	var curCount uint64
	haveCur := false
	for _, entry := range raw {
		anc := ancestorAtDepth(entry.Facet, targetDepth)
		if haveCur && bytes.Equal(anc.Encoded(), curAncestor.Encoded()) {
			curCount += entry.Count
			continue
		}
		if haveCur {
			out = append(out, FacetCount{Facet: curAncestor, Count: curCount})
		}
		curAncestor, curCount, haveCur = anc, entry.Count, true
	}
	if haveCur {
		out = append(out, FacetCount{Facet: curAncestor, Count: curCount})
	}
	return out, nil
}

// ancestorAtDepth returns f's prefix at the given step count, or f itself
// if it has fewer steps than depth.
func ancestorAtDepth(f facet.Facet, depth int) facet.Facet {
	if depth <= 0 {
		return facet.Root()
	}
	steps := f.Steps()
	if depth >= len(steps) {
		return f
	}
	return facet.FromPath(steps[:depth]...)
}

type facetHeapItem struct {
	key    []byte
	segIdx int
}

type facetHeap []facetHeapItem

func (h facetHeap) Len() int            { return len(h) }
func (h facetHeap) Less(i, j int) bool  { return bytes.Compare(h[i].key, h[j].key) < 0 }
func (h facetHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *facetHeap) Push(x interface{}) { *h = append(*h, x.(facetHeapItem)) }
func (h *facetHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// merge performs the cross-segment lexicographic merge shared by Iter and
// WithDepth, bounded to fc.root's subtree when root is non-root. Mirrors
// the min-heap k-way merge termdict.Merger uses across term dictionaries,
// specialized to sum counts instead of collecting per-segment elements.
func (fc *Counts) merge() ([]FacetCount, error) {
	var geKey, ltKey []byte
	rootEncoded := fc.root.Encoded()
	if len(rootEncoded) > 0 {
		geKey = rootEncoded
		ltKey = upperBound(rootEncoded)
	}

	streams := make([]*streamCursor, len(fc.segments))
	h := &facetHeap{}
	for i, seg := range fc.segments {
		s, err := seg.dict.Stream(geKey, ltKey)
		if err != nil {
			return nil, err
		}
		streams[i] = &streamCursor{stream: s, seg: seg}
		if s.Advance() {
			heap.Push(h, facetHeapItem{key: append([]byte(nil), s.Key()...), segIdx: i})
		} else if err := s.Err(); err != nil {
			return nil, err
		}
	}

	var out []FacetCount
	for h.Len() > 0 {
		item := heap.Pop(h).(facetHeapItem)
		key := item.key
		var total uint64
		for {
			cur := streams[item.segIdx]
			ord := cur.seg.dict.ordinalAt(cur.stream.ValueOffset())
			total += cur.seg.counts[ord]
			if cur.stream.Advance() {
				heap.Push(h, facetHeapItem{key: append([]byte(nil), cur.stream.Key()...), segIdx: item.segIdx})
			} else if err := cur.stream.Err(); err != nil {
				return nil, err
			}
			if h.Len() == 0 || !bytes.Equal((*h)[0].key, key) {
				break
			}
			item = heap.Pop(h).(facetHeapItem)
		}
		if total > 0 {
			out = append(out, FacetCount{Facet: facet.FromEncoded(key), Count: total})
		}
	}
	return out, nil
}

type streamCursor struct {
	stream *fst.Streamer
	seg    *SegmentCounts
}

// upperBound returns the lexicographically smallest byte string strictly
// greater than every string with prefix, i.e. the standard exclusive upper
// bound for a prefix range scan; nil (unbounded) if prefix is all 0xFF.
func upperBound(prefix []byte) []byte {
	b := append([]byte(nil), prefix...)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xFF {
			b[i]++
			return b[:i+1]
		}
	}
	return nil
}
