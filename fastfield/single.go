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

package fastfield

import (
	"io"

	"github.com/ferret-search/ferret/common"
)

// Writer accumulates one u64 per document and serializes them as a single
// packed bit-width column: a header of (numDocs uint32, min uint64, bitWidth
// byte) followed by ceil(numDocs*bitWidth/8) packed bytes, each value
// stored as (v - min).
type Writer struct {
	values []uint64
}

// NewWriter returns an empty single-valued column writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Add appends the value for the next document, in document order.
func (w *Writer) Add(v uint64) {
	w.values = append(w.values, v)
}

// Serialize writes the column to out.
func (w *Writer) Serialize(out io.Writer) error {
	var min, max uint64
	if len(w.values) > 0 {
		min, max = w.values[0], w.values[0]
		for _, v := range w.values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	width := common.BitsRequired(max - min)

	if err := common.WriteU32(out, uint32(len(w.values))); err != nil {
		return err
	}
	if err := common.WriteU64(out, min); err != nil {
		return err
	}
	if _, err := out.Write([]byte{width}); err != nil {
		return err
	}

	bw := &bitWriter{}
	for _, v := range w.values {
		bw.putBits(v-min, width)
	}
	_, err := out.Write(bw.finish())
	return err
}

// Reader provides random-access reads over a serialized single-valued
// column.
type Reader struct {
	data     []byte
	numDocs  int
	min      uint64
	bitWidth uint8
}

// OpenReader parses a column previously produced by Writer.Serialize.
func OpenReader(data []byte) (*Reader, error) {
	if len(data) < 13 {
		return nil, common.Corruptf("fastfield: column header truncated (len %d)", len(data))
	}
	numDocs, err := common.ReadU32(data, 0)
	if err != nil {
		return nil, err
	}
	min, err := common.ReadU64(data, 4)
	if err != nil {
		return nil, err
	}
	width := data[12]
	return &Reader{
		data:     data[13:],
		numDocs:  int(numDocs),
		min:      min,
		bitWidth: width,
	}, nil
}

// NumDocs returns the number of documents stored in the column.
func (r *Reader) NumDocs() int {
	return r.numDocs
}

// Get returns the value stored for doc.
func (r *Reader) Get(doc int) uint64 {
	return r.min + getBits(r.data, doc, r.bitWidth)
}
