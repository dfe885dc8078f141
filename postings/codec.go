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

// Package postings implements the per-term posting list codec (spec.md §6:
// variable-byte compressed doc-gap/term-frequency records) and the
// inverted index reader that binds a term dictionary to those posting
// lists.
//
// Grounded on weaviate/encoders/encoders.go's delta-varint integer coding
// idiom and weaviate/storage/storage.go's per-term block layout, combined
// with ice/dict.go's PostingsList(term, except, prealloc) signature.
package postings

import (
	"bytes"
	"io"

	"github.com/RoaringBitmap/roaring"

	"github.com/ferret-search/ferret/common"
	"github.com/ferret-search/ferret/docset"
)

// Writer accumulates one term's postings: documents must be added in
// strictly increasing order, matching an inverted index's natural
// construction order.
type Writer struct {
	buf      bytes.Buffer
	lastDoc  docset.DocID
	hasLast  bool
	docFreq  uint32
	withFreq bool
}

// NewWriter returns a posting list writer. withFreq controls whether a
// per-document term frequency is stored alongside the doc gap.
func NewWriter(withFreq bool) *Writer {
	return &Writer{withFreq: withFreq}
}

// Add appends doc (and its term frequency, if withFreq) to the list.
func (w *Writer) Add(doc docset.DocID, termFreq uint32) error {
	if w.hasLast && doc <= w.lastDoc {
		panic("postings: documents must be added in strictly increasing order")
	}
	gap := doc
	if w.hasLast {
		gap = doc - w.lastDoc - 1
	}
	if err := common.WriteUvarint(&w.buf, uint64(gap)); err != nil {
		return err
	}
	if w.withFreq {
		if err := common.WriteUvarint(&w.buf, uint64(termFreq)); err != nil {
			return err
		}
	}
	w.lastDoc = doc
	w.hasLast = true
	w.docFreq++
	return nil
}

// DocFreq returns the number of documents added so far.
func (w *Writer) DocFreq() uint32 {
	return w.docFreq
}

// Bytes returns the encoded posting list (without any length prefix; the
// caller, typically a segment writer, records offset/length in the term
// dictionary's TermInfo).
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteTo streams the encoded posting list to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.buf.Bytes())
	return int64(n), err
}

// List is a decoded, read-only view over one term's encoded postings,
// implementing docset.DocSet directly so it can be combined with Union,
// Intersection, and Difference the same way any other DocSet can.
type List struct {
	data      []byte
	withFreq  bool // disk format: a per-document freq varint follows each gap
	maskFreq  bool // parse and skip the freq varint, but report TermFreq() as 1
	pos       int
	doc       docset.DocID
	freq      uint32
	hasDoc    bool
	except    *roaring.Bitmap
	positions *PositionsStream
	curPos    []uint32
}

// Open decodes a posting list previously produced by Writer. except, if
// non-nil, is a delete bitset: documents present in it are skipped
// transparently, matching ice's except *roaring.Bitmap parameter.
func Open(data []byte, withFreq bool, except *roaring.Bitmap) *List {
	return &List{data: data, withFreq: withFreq, except: except}
}

// OpenWithFreqOptions decodes a posting list whose on-disk format stores a
// per-document freq varint iff storedFreq (this must match how the list
// was written — it is a property of the bytes, not of the caller's
// preference). exposeFreq controls whether TermFreq() reports the parsed
// value or always reports 1, letting a caller skip past stored freq data
// it decided not to use (spec.md §4.9 step 2's "requested basic → skip
// freq even if indexed").
func OpenWithFreqOptions(data []byte, storedFreq, exposeFreq bool, except *roaring.Bitmap) *List {
	return &List{data: data, withFreq: storedFreq, maskFreq: storedFreq && !exposeFreq, except: except}
}

// AttachPositions arranges for every subsequent Advance to also read that
// document's position list from s, keeping the shared positions stream in
// lockstep with this list's own doc/freq stream. Must be called before the
// first Advance.
func (l *List) AttachPositions(s *PositionsStream) {
	l.positions = s
}

func (l *List) Advance() bool {
	for {
		if l.pos >= len(l.data) {
			l.hasDoc = false
			return false
		}
		gap, n, err := common.Uvarint(l.data, l.pos)
		if err != nil {
			l.hasDoc = false
			return false
		}
		l.pos += n
		if !l.hasDoc {
			l.doc = docset.DocID(gap)
		} else {
			l.doc = l.doc + docset.DocID(gap) + 1
		}
		l.hasDoc = true
		if l.withFreq {
			freq, n2, err := common.Uvarint(l.data, l.pos)
			if err != nil {
				l.hasDoc = false
				return false
			}
			l.pos += n2
			l.freq = uint32(freq)
		} else {
			l.freq = 1
		}
		if l.positions != nil {
			// Always consumed, even for a doc the except bitset will
			// filter below, so the shared stream stays aligned with the
			// next live document.
			curPos, err := l.positions.Next(l.freq, l.curPos)
			if err != nil {
				l.hasDoc = false
				return false
			}
			l.curPos = curPos
		}
		if l.except != nil && l.except.Contains(l.doc) {
			continue
		}
		return true
	}
}

func (l *List) Doc() docset.DocID {
	if !l.hasDoc {
		return docset.MaxDoc
	}
	return l.doc
}

// TermFreq returns the current document's term frequency (1 if the list
// does not store frequencies).
func (l *List) TermFreq() uint32 {
	if l.maskFreq {
		return 1
	}
	return l.freq
}

// Positions returns the current document's token positions, if this List
// had a PositionsStream attached; nil otherwise.
func (l *List) Positions() []uint32 {
	return l.curPos
}

func (l *List) SizeHint() int {
	return len(l.data) / 2
}

func (l *List) SkipNext(target docset.DocID) docset.SkipResult {
	for {
		if !l.Advance() {
			return docset.End
		}
		if l.doc == target {
			return docset.Reached
		}
		if l.doc > target {
			return docset.OverStep
		}
	}
}
