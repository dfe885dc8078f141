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

package termdict

import (
	"bytes"
	"container/heap"
)

// Merger performs a k-way merge over several segments' term streams,
// grouping entries that share a term so a segment-merge pass can combine
// their postings. Grounded on spec.md §4.3's term merger, using the same
// container/heap min-heap idiom as docset.UnionAll, keyed on (term,
// segment ordinal).
type Merger struct {
	streams []*RangeStreamer
	heap    mergeHeap
	started bool

	curTerm  []byte
	curElems []MergeElem
}

// MergeElem identifies one segment's contribution to the current merged
// term.
type MergeElem struct {
	SegmentOrd int
	Info       TermInfo
}

type mergeHeapItem struct {
	term []byte
	ord  int
}

type mergeHeap []mergeHeapItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if c := bytes.Compare(h[i].term, h[j].term); c != 0 {
		return c < 0
	}
	return h[i].ord < h[j].ord
}
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeHeapItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewMerger builds a merger over one RangeStreamer per contributing
// segment, in segment order.
func NewMerger(streams []*RangeStreamer) *Merger {
	return &Merger{streams: streams}
}

func (m *Merger) seed() {
	m.heap = make(mergeHeap, 0, len(m.streams))
	for i, s := range m.streams {
		if s.Advance() {
			m.heap = append(m.heap, mergeHeapItem{term: append([]byte(nil), s.Term()...), ord: i})
		}
	}
	heap.Init(&m.heap)
	m.started = true
}

// Advance groups every stream currently positioned on the lexicographically
// smallest term across all segments, decodes their TermInfo, and exposes
// them via Term/Elems. Returns false once every stream is exhausted.
func (m *Merger) Advance() bool {
	if !m.started {
		m.seed()
	}
	if len(m.heap) == 0 {
		return false
	}

	m.curTerm = append(m.curTerm[:0], m.heap[0].term...)
	m.curElems = m.curElems[:0]

	for len(m.heap) > 0 && bytes.Equal(m.heap[0].term, m.curTerm) {
		item := heap.Pop(&m.heap).(mergeHeapItem)
		s := m.streams[item.ord]
		ti, err := s.TermInfo()
		if err == nil {
			m.curElems = append(m.curElems, MergeElem{SegmentOrd: item.ord, Info: ti})
		}
		if s.Advance() {
			heap.Push(&m.heap, mergeHeapItem{term: append([]byte(nil), s.Term()...), ord: item.ord})
		}
	}
	return true
}

// Term returns the current merged term.
func (m *Merger) Term() []byte {
	return m.curTerm
}

// Elems returns every segment's contribution to the current term, ordered
// by segment ordinal.
func (m *Merger) Elems() []MergeElem {
	return m.curElems
}
