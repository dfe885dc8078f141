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

// MultiWriter builds a multi-valued column (e.g. facet ordinals per
// document) as a pair of single-valued columns: idx holds, for each
// document, the starting offset of its values inside vals, with a final
// sentinel entry holding the total value count.
type MultiWriter struct {
	idx  *Writer
	vals *Writer
}

// NewMultiWriter returns an empty multi-valued column writer.
func NewMultiWriter() *MultiWriter {
	return &MultiWriter{idx: NewWriter(), vals: NewWriter()}
}

// AddDocument appends the (possibly empty) set of values for the next
// document, in document order.
func (w *MultiWriter) AddDocument(values []uint64) {
	w.idx.Add(uint64(len(w.vals.values)))
	for _, v := range values {
		w.vals.Add(v)
	}
}

// Serialize writes a (idxLen uint32, idx column, vals column) triple: idx
// has numDocs+1 entries (the sentinel closes the final document's range).
func (w *MultiWriter) Serialize(out io.Writer) error {
	w.idx.Add(uint64(len(w.vals.values)))

	var idxBuf, valsBuf writeCounterBuf
	if err := w.idx.Serialize(&idxBuf); err != nil {
		return err
	}
	if err := w.vals.Serialize(&valsBuf); err != nil {
		return err
	}
	if err := common.WriteU32(out, uint32(len(idxBuf.b))); err != nil {
		return err
	}
	if _, err := out.Write(idxBuf.b); err != nil {
		return err
	}
	_, err := out.Write(valsBuf.b)
	return err
}

type writeCounterBuf struct{ b []byte }

func (w *writeCounterBuf) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// MultiReader provides random-access reads over a serialized multi-valued
// column.
type MultiReader struct {
	idx  *Reader
	vals *Reader
}

// OpenMultiReader parses a column previously produced by
// MultiWriter.Serialize.
func OpenMultiReader(data []byte) (*MultiReader, error) {
	idxLen, err := common.ReadU32(data, 0)
	if err != nil {
		return nil, err
	}
	idxBytes := data[4 : 4+idxLen]
	valsBytes := data[4+idxLen:]

	idx, err := OpenReader(idxBytes)
	if err != nil {
		return nil, err
	}
	vals, err := OpenReader(valsBytes)
	if err != nil {
		return nil, err
	}
	return &MultiReader{idx: idx, vals: vals}, nil
}

// NumDocs returns the number of documents in the column (the idx column
// carries one extra sentinel entry that is not a document).
func (r *MultiReader) NumDocs() int {
	return r.idx.NumDocs() - 1
}

// Values appends doc's values to dst and returns the extended slice,
// letting callers reuse a scratch buffer across documents.
func (r *MultiReader) Values(doc int, dst []uint64) []uint64 {
	start := r.idx.Get(doc)
	end := r.idx.Get(doc + 1)
	for i := start; i < end; i++ {
		dst = append(dst, r.vals.Get(int(i)))
	}
	return dst
}

// NumValues reports how many values doc holds without materializing them.
func (r *MultiReader) NumValues(doc int) int {
	return int(r.idx.Get(doc+1) - r.idx.Get(doc))
}
