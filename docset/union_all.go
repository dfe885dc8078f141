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

package docset

import "container/heap"

// heapItem pairs a document with the index of the doc set it came from.
// docHeap's Less orders by ascending doc, and container/heap keeps the
// Less-minimum at the root, so the heap yields the smallest document first.
type heapItem struct {
	doc DocID
	ord int
}

type docHeap []heapItem

func (h docHeap) Len() int            { return len(h) }
func (h docHeap) Less(i, j int) bool  { return h[i].doc < h[j].doc }
func (h docHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *docHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *docHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// UnionAll merges 2+ doc sets, emitting every document from every child in
// ascending order, WITHOUT deduplication: a document present in two
// children is emitted twice. Union (in union.go) wraps this to dedup.
//
// Grounded on original_source/src/postings/union_all.rs.
type UnionAll struct {
	children []DocSet
	queue    docHeap
	doc      DocID
	started  bool
	finished bool
}

// NewUnionAll requires at least two doc sets, matching the original's
// assertion that a union of fewer than two docsets is a meaningless
// construction (callers should pass the lone doc set through directly).
func NewUnionAll(children []DocSet) *UnionAll {
	if len(children) < 2 {
		panic("docset: UnionAll requires at least two children")
	}
	return &UnionAll{children: children}
}

func (u *UnionAll) seed() {
	u.queue = make(docHeap, 0, len(u.children))
	for i, c := range u.children {
		if c.Advance() {
			u.queue = append(u.queue, heapItem{doc: c.Doc(), ord: i})
		}
	}
	heap.Init(&u.queue)
	u.started = true
}

// advanceHead pops the smallest-doc child, advances it, and re-inserts it
// into the heap (or drops it if exhausted).
func (u *UnionAll) advanceHead() bool {
	if len(u.queue) == 0 {
		u.finished = true
		return false
	}
	top := u.queue[0]
	u.doc = top.doc
	child := u.children[top.ord]
	if child.Advance() {
		u.queue[0] = heapItem{doc: child.Doc(), ord: top.ord}
		heap.Fix(&u.queue, 0)
	} else {
		heap.Pop(&u.queue)
	}
	return true
}

func (u *UnionAll) Advance() bool {
	if u.finished {
		return false
	}
	if !u.started {
		u.seed()
	}
	return u.advanceHead()
}

func (u *UnionAll) Doc() DocID {
	if u.finished {
		return MaxDoc
	}
	return u.doc
}

func (u *UnionAll) SizeHint() int {
	total := 0
	for _, c := range u.children {
		total += c.SizeHint()
	}
	return total
}

// SkipNext rebuilds the heap by classifying each still-live entry against
// target: entries already past it are untouched, entries sitting on it are
// marked found, and entries behind it are skipped forward. The smallest
// surviving entry is then consumed as the new current document, exactly as
// Advance would: that is target itself (Reached) when some entry landed on
// it, otherwise the first document past target (OverStep).
func (u *UnionAll) SkipNext(target DocID) SkipResult {
	if u.finished {
		return End
	}
	if !u.started {
		u.seed()
	}
	found := false
	next := make(docHeap, 0, len(u.queue))
	for _, item := range u.queue {
		switch {
		case item.doc == target:
			found = true
			next = append(next, item)
		case item.doc > target:
			next = append(next, item)
		default:
			child := u.children[item.ord]
			switch child.SkipNext(target) {
			case Reached:
				found = true
				next = append(next, heapItem{doc: target, ord: item.ord})
			case OverStep:
				next = append(next, heapItem{doc: child.Doc(), ord: item.ord})
			case End:
				// drop; this child is exhausted.
			}
		}
	}
	u.queue = next
	heap.Init(&u.queue)
	if !u.advanceHead() {
		return End
	}
	if found {
		return Reached
	}
	return OverStep
}
