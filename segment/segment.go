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

package segment

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/ferret-search/ferret/docset"
	"github.com/ferret-search/ferret/postings"
	"github.com/ferret-search/ferret/schema"
)

// FieldData holds one field's serialized on-disk pieces, standing in for
// the separate memory-mapped files spec §6 describes (term dictionary,
// postings, fast-field column, facet dictionary, facet ordinal column).
type FieldData struct {
	dict      []byte // term dictionary file (nil if the field has no inverted index)
	postings  []byte
	positions []byte // positions blob (nil unless the field indexes IndexPositions)
	indexed   postings.Option
	fastField []byte // single-valued fast-field column (Integer fields with FastField set)
	facetDict []byte // facetindex dictionary file (Facet fields)
	facetOrds []byte // facetindex multi-valued ordinal column (Facet fields)
}

// Segment is an immutable, in-memory bundle of one segment's files, per
// spec §3's Segment entity: "a term dictionary per indexed field; a
// postings blob per indexed field; per fast-field columns; for each facet
// field a (facet dictionary, multi-valued ordinal column) pair; a delete
// bitset; and a document store." Directory/mmap I/O is out of this
// library's scope (spec §1); a Segment's byte slices are what a real
// deployment would instead keep as memory-mapped file ranges.
type Segment struct {
	sch        *schema.Schema
	numDocs    uint32
	fields     map[uint32]*FieldData
	storeData  []byte
	deleteBits *roaring.Bitmap
}

// NumDocs returns the number of documents ever added to this segment,
// including deleted ones (deletion is a soft bitset mark, not a
// compaction — spec §1 excludes segment merging from this library's
// scope).
func (s *Segment) NumDocs() uint32 {
	return s.numDocs
}

// Delete marks doc as deleted. Grounded on ice's delete-bitset threading
// through Dictionary.PostingsList's except parameter.
func (s *Segment) Delete(doc docset.DocID) {
	s.deleteBits.Add(doc)
}

// IsDeleted reports whether doc has been marked deleted.
func (s *Segment) IsDeleted(doc docset.DocID) bool {
	return s.deleteBits.Contains(doc)
}

// DeleteBitset returns the segment's delete bitset, for callers assembling
// their own postings reads (e.g. via InvertedIndexReader.Postings).
func (s *Segment) DeleteBitset() *roaring.Bitmap {
	return s.deleteBits
}
