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

// Package docset provides the abstract ordered document-id iterator every
// query-time combinator (union, intersection, difference) is built on, plus
// the combinators themselves.
package docset

import (
	"math"

	"github.com/RoaringBitmap/roaring"
)

// DocID is a segment-local document ordinal.
type DocID = uint32

// MaxDoc marks "no more documents"; no real segment reaches it.
const MaxDoc DocID = math.MaxUint32

// SkipResult reports the outcome of SkipNext against a requested target.
type SkipResult int

const (
	// Reached means the doc set now sits exactly on target.
	Reached SkipResult = iota
	// OverStep means target doesn't exist in the set; the doc set now sits
	// on the smallest document strictly greater than target.
	OverStep
	// End means there is no document at or beyond target.
	End
)

// DocSet is an ordered, forward-only iterator over document ids. It starts
// in a "before the first document" state: callers must call Advance before
// the first call to Doc.
type DocSet interface {
	// Advance moves to the next document in ascending order, returning
	// false once the set is exhausted. Never fails: an exhausted DocSet
	// simply reports false forever after.
	Advance() bool

	// Doc returns the current document. Only valid after Advance returned
	// true.
	Doc() DocID

	// SkipNext advances to target, or the first document after it, or
	// exhausts the set trying. target must be >= the current Doc().
	SkipNext(target DocID) SkipResult

	// SizeHint estimates the number of remaining documents, for query
	// planning; it is never used for correctness.
	SizeHint() int
}

// sliceDocSet is the simplest possible DocSet, backed by a sorted slice of
// document ids. It grounds the combinator tests below and doubles as a
// minimal in-memory posting list for callers assembling a DocSet by hand.
type sliceDocSet struct {
	docs []DocID
	pos  int // index of current doc, or -1 before the first Advance
}

// FromSlice builds a DocSet over an already-sorted, duplicate-free slice of
// document ids.
func FromSlice(docs []DocID) DocSet {
	return &sliceDocSet{docs: docs, pos: -1}
}

func (s *sliceDocSet) Advance() bool {
	if s.pos+1 >= len(s.docs) {
		s.pos = len(s.docs)
		return false
	}
	s.pos++
	return true
}

func (s *sliceDocSet) Doc() DocID {
	if s.pos < 0 || s.pos >= len(s.docs) {
		return MaxDoc
	}
	return s.docs[s.pos]
}

func (s *sliceDocSet) SizeHint() int {
	if s.pos >= len(s.docs) {
		return 0
	}
	return len(s.docs) - s.pos
}

func (s *sliceDocSet) SkipNext(target DocID) SkipResult {
	for {
		if !s.Advance() {
			return End
		}
		d := s.Doc()
		if d == target {
			return Reached
		}
		if d > target {
			return OverStep
		}
	}
}

// bitmapDocSet adapts a *roaring.Bitmap into a DocSet, grounded on ice's
// threading of a *roaring.Bitmap through Dictionary.PostingsList as an
// "except" exclusion set; here it is used directly as an inclusion set
// (e.g. a field's delete bitset, or a pre-computed filter).
type bitmapDocSet struct {
	it      roaring.IntPeekable
	current DocID
	valid   bool
}

// FromBitmap iterates the set bits of b in ascending order.
func FromBitmap(b *roaring.Bitmap) DocSet {
	return &bitmapDocSet{it: b.Iterator()}
}

func (b *bitmapDocSet) Advance() bool {
	if !b.it.HasNext() {
		b.valid = false
		return false
	}
	b.current = b.it.Next()
	b.valid = true
	return true
}

func (b *bitmapDocSet) Doc() DocID {
	if !b.valid {
		return MaxDoc
	}
	return b.current
}

func (b *bitmapDocSet) SizeHint() int {
	return 0
}

func (b *bitmapDocSet) SkipNext(target DocID) SkipResult {
	b.it.AdvanceIfNeeded(target)
	if !b.it.HasNext() {
		b.valid = false
		return End
	}
	b.current = b.it.Next()
	b.valid = true
	if b.current == target {
		return Reached
	}
	return OverStep
}
