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
	"bytes"
	"io"

	"github.com/ferret-search/ferret/common"
)

// PositionsWriter accumulates one field's positions blob: for each term in
// turn, its occurrences across every document it appears in, vint-delta
// encoded with the delta resetting to the position itself at the start of
// each document. Matches spec.md §6's "Positions file: shared stream of
// vint-encoded position deltas, indexed by (positions_offset,
// positions_inner_offset) per TermInfo."
type PositionsWriter struct {
	buf bytes.Buffer
}

// NewPositionsWriter returns an empty positions blob writer.
func NewPositionsWriter() *PositionsWriter {
	return &PositionsWriter{}
}

// AddTerm appends one term's position lists — one []uint32 per document,
// in the same doc order as the paired postings.Writer calls — and returns
// the (offset, length) span to record in that term's TermInfo.
func (w *PositionsWriter) AddTerm(perDoc [][]uint32) (offset, length uint64, err error) {
	offset = uint64(w.buf.Len())
	for _, positions := range perDoc {
		var prev uint32
		for _, p := range positions {
			if err := common.WriteUvarint(&w.buf, uint64(p-prev)); err != nil {
				return 0, 0, err
			}
			prev = p
		}
	}
	length = uint64(w.buf.Len()) - offset
	return offset, length, nil
}

// Bytes returns the encoded positions blob.
func (w *PositionsWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteTo streams the encoded positions blob to out.
func (w *PositionsWriter) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.buf.Bytes())
	return int64(n), err
}

// PositionsStream replays one term's position lists in document order,
// consumed in lockstep with that term's List.Advance() calls (one Next per
// document, including documents a delete bitset later filters out, so the
// shared stream's cursor never falls out of alignment). Grounded on
// spec.md §4.9 step 3: "wrap a position stream at
// positions_source[term_info.positions_offset..] advanced by
// term_info.positions_inner_offset."
type PositionsStream struct {
	data []byte
	off  int
}

// NewPositionsStream opens the span described by a TermInfo's
// PositionsOffset/PositionsLen/PositionsInnerOffset. This writer always
// gives each term an exclusive span of its own and so always records
// PositionsInnerOffset as 0; a reader honors a nonzero value regardless,
// so the field stays meaningful if a future writer ever packs several
// terms into one shared span.
func NewPositionsStream(positionsSource []byte, offset, length, innerOffset uint64) *PositionsStream {
	start := int(offset + innerOffset)
	end := int(offset + length)
	if start > end {
		start = end
	}
	if end > len(positionsSource) {
		end = len(positionsSource)
	}
	if start > end {
		start = end
	}
	return &PositionsStream{data: positionsSource[start:end]}
}

// Next decodes the next count position deltas (one document's worth) and
// returns their absolute positions, reusing dst's backing array.
func (s *PositionsStream) Next(count uint32, dst []uint32) ([]uint32, error) {
	dst = dst[:0]
	var prev uint32
	for i := uint32(0); i < count; i++ {
		delta, n, err := common.Uvarint(s.data, s.off)
		if err != nil {
			return nil, err
		}
		s.off += n
		prev += uint32(delta)
		dst = append(dst, prev)
	}
	return dst, nil
}
