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

// Intersection emits only documents present in every child doc set.
// Implemented as a repeated skip-to-max driven by the first child (children
// are used in the order given, not reordered by size), the same alignment
// strategy bluge's conjunction searcher and
// weaviate/engine's multi-term merge use.
type Intersection struct {
	children []DocSet
	doc      DocID
	started  bool
	finished bool
}

// NewIntersection requires at least two children.
func NewIntersection(children []DocSet) *Intersection {
	if len(children) < 2 {
		panic("docset: Intersection requires at least two children")
	}
	return &Intersection{children: children}
}

func (i *Intersection) Advance() bool {
	if i.finished {
		return false
	}
	if !i.started {
		i.started = true
		for _, c := range i.children {
			if !c.Advance() {
				i.finished = true
				return false
			}
		}
	} else {
		if !i.children[0].Advance() {
			i.finished = true
			return false
		}
	}
	return i.align()
}

// align repeatedly skips every child forward until they all land on the
// same document, or one is exhausted.
func (i *Intersection) align() bool {
	candidate := i.children[0].Doc()
	for {
		agree := true
		for _, c := range i.children[1:] {
			if c.Doc() == candidate {
				continue
			}
			agree = false
			if c.Doc() > candidate {
				// c is already past candidate; skipping it would drop its
				// current document, so raise candidate to it instead.
				candidate = c.Doc()
				continue
			}
			res := c.SkipNext(candidate)
			switch res {
			case Reached:
				continue
			case OverStep:
				candidate = c.Doc()
			case End:
				i.finished = true
				return false
			}
		}
		if agree {
			i.doc = candidate
			return true
		}
		// candidate moved; realign the first child (and implicitly
		// everyone already checked against the old candidate) to it.
		if i.children[0].Doc() != candidate {
			switch i.children[0].SkipNext(candidate) {
			case Reached:
			case OverStep:
				candidate = i.children[0].Doc()
			case End:
				i.finished = true
				return false
			}
		}
	}
}

func (i *Intersection) Doc() DocID {
	if i.finished {
		return MaxDoc
	}
	return i.doc
}

func (i *Intersection) SizeHint() int {
	min := -1
	for _, c := range i.children {
		h := c.SizeHint()
		if min == -1 || h < min {
			min = h
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

func (i *Intersection) SkipNext(target DocID) SkipResult {
	if i.finished {
		return End
	}
	if !i.started {
		i.started = true
		for _, c := range i.children {
			if !c.Advance() {
				i.finished = true
				return End
			}
		}
	}
	for _, c := range i.children {
		if c.Doc() >= target {
			continue
		}
		if c.SkipNext(target) == End {
			i.finished = true
			return End
		}
	}
	if !i.align() {
		return End
	}
	if i.doc == target {
		return Reached
	}
	return OverStep
}
