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

package postings

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/ferret-search/ferret/common"
	"github.com/ferret-search/ferret/termdict"
)

// Option selects how much per-document detail a posting list exposes.
// A field's indexed Option is its ceiling (fixed at segment-build time); a
// query's requested Option narrows that down further. Mirrors spec.md
// §4.9 step 2's three-way rule.
type Option int

const (
	// OptionBasic carries doc ids only.
	OptionBasic Option = iota
	// OptionFreq additionally carries a per-document term frequency.
	OptionFreq
	// OptionPositions additionally carries per-document token positions.
	OptionPositions
)

// InvertedIndexReader binds a field's term dictionary to the raw postings
// (and, if the field indexes them, positions) bytes that dictionary's
// TermInfo offsets point into, giving callers a term -> DocSet lookup.
// Grounded on ice/dict.go's Dictionary.PostingsList.
type InvertedIndexReader struct {
	dict      *termdict.Dictionary
	postings  []byte
	positions []byte
	indexed   Option
}

// NewInvertedIndexReader wraps dict and the postings/positions bytes it
// references. indexed is the field's own indexed option (its ceiling);
// positionsData may be nil if indexed < OptionPositions.
func NewInvertedIndexReader(dict *termdict.Dictionary, postingsData, positionsData []byte, indexed Option) *InvertedIndexReader {
	return &InvertedIndexReader{dict: dict, postings: postingsData, positions: positionsData, indexed: indexed}
}

// Postings returns term's posting list, or (nil, false, nil) if the term
// does not occur in this segment. except, if non-nil, is subtracted from
// the result (a delete bitset). requested applies spec.md §4.9 step 2's
// three-way rule against the field's indexed option: indexed basic never
// reads freq; requested basic skips freq even if indexed; otherwise freq
// is read. Positions are attached only when both indexed and requested
// are OptionPositions.
func (r *InvertedIndexReader) Postings(term []byte, requested Option, except *roaring.Bitmap) (*List, bool, error) {
	ti, ok, err := r.dict.Get(term)
	if err != nil || !ok {
		return nil, false, err
	}
	start := int(ti.PostingsOffset)
	end := start + int(ti.PostingsLen)
	if start < 0 || end > len(r.postings) || start > end {
		return nil, false, common.Corruptf("postings: term info offsets out of range")
	}

	storedFreq := r.indexed != OptionBasic
	exposeFreq := storedFreq && requested != OptionBasic
	list := OpenWithFreqOptions(r.postings[start:end], storedFreq, exposeFreq, except)

	if requested == OptionPositions && r.indexed == OptionPositions {
		list.AttachPositions(NewPositionsStream(r.positions, ti.PositionsOffset, ti.PositionsLen, ti.PositionsInnerOffset))
	}

	return list, true, nil
}

// DocFreq returns term's document frequency without materializing its
// posting list.
func (r *InvertedIndexReader) DocFreq(term []byte) (uint32, error) {
	ti, ok, err := r.dict.Get(term)
	if err != nil || !ok {
		return 0, err
	}
	return ti.DocFreq, nil
}
