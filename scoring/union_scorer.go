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

package scoring

import (
	"container/heap"

	"github.com/ferret-search/ferret/docset"
)

// unionHeapItem pairs a document with the index of the scorer it came
// from, mirroring docset.UnionAll's heapItem. UnionScorer can't reuse
// docset.Union/UnionAll directly because those hide which children landed
// on the current document — exactly what a score combiner needs to know.
type unionHeapItem struct {
	doc docset.DocID
	ord int
}

type unionHeap []unionHeapItem

func (h unionHeap) Len() int            { return len(h) }
func (h unionHeap) Less(i, j int) bool  { return h[i].doc < h[j].doc }
func (h unionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *unionHeap) Push(x interface{}) { *h = append(*h, x.(unionHeapItem)) }
func (h *unionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// UnionScorer emits every document matched by at least one child scorer,
// deduplicated, and scores it by combining only the children that
// actually matched that document (the partial-coordination case spec §4.8
// describes). Grounded structurally on docset.UnionAll's min-heap merge,
// specialized to also collect per-child scores at the shared document.
type UnionScorer struct {
	children []Scorer
	queue    unionHeap
	doc      docset.DocID
	started  bool
	finished bool
	combiner ScoreCombiner
	score    float32
	scratch  []float32
}

// NewUnionScorer requires at least two children.
func NewUnionScorer(children []Scorer, combiner ScoreCombiner) *UnionScorer {
	if len(children) < 2 {
		panic("scoring: UnionScorer requires at least two children")
	}
	return &UnionScorer{children: children, combiner: combiner}
}

func (u *UnionScorer) seed() {
	u.queue = make(unionHeap, 0, len(u.children))
	for i, c := range u.children {
		if c.Advance() {
			u.queue = append(u.queue, unionHeapItem{doc: c.Doc(), ord: i})
		}
	}
	heap.Init(&u.queue)
	u.started = true
}

// settle pops every heap entry sitting on the current minimum document,
// folds their scores through the combiner, and advances each of them to
// their next document before returning.
func (u *UnionScorer) settle() bool {
	if len(u.queue) == 0 {
		u.finished = true
		return false
	}
	min := u.queue[0].doc
	u.scratch = u.scratch[:0]
	for len(u.queue) > 0 && u.queue[0].doc == min {
		item := heap.Pop(&u.queue).(unionHeapItem)
		child := u.children[item.ord]
		u.scratch = append(u.scratch, child.Score())
		if child.Advance() {
			heap.Push(&u.queue, unionHeapItem{doc: child.Doc(), ord: item.ord})
		}
	}
	u.doc = min
	u.score = u.combiner.Combine(u.scratch, len(u.children))
	return true
}

func (u *UnionScorer) Advance() bool {
	if u.finished {
		return false
	}
	if !u.started {
		u.seed()
	}
	return u.settle()
}

func (u *UnionScorer) Doc() docset.DocID {
	if u.finished {
		return docset.MaxDoc
	}
	return u.doc
}

// Score returns the combined score of every child currently sitting on
// Doc(), computed by the most recent Advance/SkipNext.
func (u *UnionScorer) Score() float32 {
	return u.score
}

func (u *UnionScorer) SizeHint() int {
	total := 0
	for _, c := range u.children {
		total += c.SizeHint()
	}
	return total
}

// SkipNext rebuilds the heap against target, exactly as docset.UnionAll
// does, then settles (recomputing the combined score), satisfying spec
// §4.8's "after a Reached skip_next" recomputation requirement.
func (u *UnionScorer) SkipNext(target docset.DocID) docset.SkipResult {
	if u.finished {
		return docset.End
	}
	if !u.started {
		u.seed()
	}
	next := make(unionHeap, 0, len(u.queue))
	for _, item := range u.queue {
		switch {
		case item.doc >= target:
			next = append(next, item)
		default:
			child := u.children[item.ord]
			switch child.SkipNext(target) {
			case docset.Reached:
				next = append(next, unionHeapItem{doc: target, ord: item.ord})
			case docset.OverStep:
				next = append(next, unionHeapItem{doc: child.Doc(), ord: item.ord})
			case docset.End:
			}
		}
	}
	u.queue = next
	heap.Init(&u.queue)
	if !u.settle() {
		return docset.End
	}
	if u.doc == target {
		return docset.Reached
	}
	return docset.OverStep
}
