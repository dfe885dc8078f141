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
	"fmt"

	"github.com/ferret-search/ferret/docset"
	"github.com/ferret-search/ferret/facetindex"
	"github.com/ferret-search/ferret/fastfield"
	"github.com/ferret-search/ferret/postings"
	"github.com/ferret-search/ferret/schema"
	"github.com/ferret-search/ferret/store"
	"github.com/ferret-search/ferret/termdict"
)

// FacetFieldReader binds one facet field's dictionary to its per-document
// ordinal column, the pair spec §4.5 calls the facet reader.
type FacetFieldReader struct {
	dict *facetindex.Dictionary
	ords *fastfield.MultiReader
}

// Dictionary returns the field's facet value <-> ordinal dictionary.
func (f *FacetFieldReader) Dictionary() *facetindex.Dictionary {
	return f.dict
}

// DocOrdinals appends doc's literal facet ordinal(s) to dst and returns the
// extended slice.
func (f *FacetFieldReader) DocOrdinals(doc int, dst []uint64) []uint64 {
	return f.ords.Values(doc, dst)
}

// Ordinals returns the per-document ordinal column directly, for callers
// wiring up their own facetindex.Collector across segments.
func (f *FacetFieldReader) Ordinals() *fastfield.MultiReader {
	return f.ords
}

// Reader opens a Segment's serialized field data back into the typed
// readers queries need: an InvertedIndexReader per indexed Text/Integer/
// Facet field, a fastfield.Reader per fast Integer field, a
// FacetFieldReader per Facet field, and the document store. Grounded on
// blugelabs/ice's segment.go, which performs the same per-field binding
// of a term dictionary to its postings bytes at segment-open time.
type Reader struct {
	seg   *Segment
	store *store.Reader

	inverted map[uint32]*postings.InvertedIndexReader
	fast     map[uint32]*fastfield.Reader
	facets   map[uint32]*FacetFieldReader
}

// Open binds seg's byte blobs into live readers.
func Open(seg *Segment) (*Reader, error) {
	sr, err := store.Open(seg.storeData)
	if err != nil {
		return nil, fmt.Errorf("segment: opening document store: %w", err)
	}

	r := &Reader{
		seg:      seg,
		store:    sr,
		inverted: map[uint32]*postings.InvertedIndexReader{},
		fast:     map[uint32]*fastfield.Reader{},
		facets:   map[uint32]*FacetFieldReader{},
	}

	for fieldID, fd := range seg.fields {
		if fd.dict != nil {
			dict, err := termdict.Open(fd.dict)
			if err != nil {
				return nil, fmt.Errorf("segment: opening term dictionary for field %d: %w", fieldID, err)
			}
			r.inverted[fieldID] = postings.NewInvertedIndexReader(dict, fd.postings, fd.positions, fd.indexed)
		}
		if fd.fastField != nil {
			ff, err := fastfield.OpenReader(fd.fastField)
			if err != nil {
				return nil, fmt.Errorf("segment: opening fast field %d: %w", fieldID, err)
			}
			r.fast[fieldID] = ff
		}
		if fd.facetDict != nil {
			fdict, err := facetindex.OpenDictionary(fd.facetDict)
			if err != nil {
				return nil, fmt.Errorf("segment: opening facet dictionary for field %d: %w", fieldID, err)
			}
			ords, err := fastfield.OpenMultiReader(fd.facetOrds)
			if err != nil {
				return nil, fmt.Errorf("segment: opening facet ordinal column for field %d: %w", fieldID, err)
			}
			r.facets[fieldID] = &FacetFieldReader{dict: fdict, ords: ords}
		}
	}

	return r, nil
}

// NumDocs returns the number of documents ever added to the segment,
// including deleted ones.
func (r *Reader) NumDocs() uint32 {
	return r.seg.numDocs
}

// IsDeleted reports whether doc is marked deleted.
func (r *Reader) IsDeleted(doc docset.DocID) bool {
	return r.seg.IsDeleted(doc)
}

// Document retrieves and decodes doc's stored field values.
func (r *Reader) Document(doc docset.DocID) (*schema.Document, error) {
	raw, err := r.store.Get(uint32(doc))
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw, r.seg.sch)
}

func (r *Reader) fieldByName(name string) (schema.Field, error) {
	f, ok := r.seg.sch.Field(name)
	if !ok {
		return schema.Field{}, fmt.Errorf("segment: unknown field %q", name)
	}
	return f, nil
}

// InvertedIndex returns the named field's term dictionary/postings reader.
func (r *Reader) InvertedIndex(fieldName string) (*postings.InvertedIndexReader, error) {
	f, err := r.fieldByName(fieldName)
	if err != nil {
		return nil, err
	}
	ir, ok := r.inverted[f.ID]
	if !ok {
		return nil, fmt.Errorf("segment: field %q has no inverted index", fieldName)
	}
	return ir, nil
}

// Postings returns term's posting list for fieldName, with this segment's
// delete bitset already applied. requested applies spec.md §4.9 step 2's
// indexed/requested option matrix against the field's own indexed tier.
func (r *Reader) Postings(fieldName string, term []byte, requested postings.Option) (*postings.List, bool, error) {
	ir, err := r.InvertedIndex(fieldName)
	if err != nil {
		return nil, false, err
	}
	return ir.Postings(term, requested, r.seg.deleteBits)
}

// FastField returns the named Integer field's fast-field column reader.
func (r *Reader) FastField(fieldName string) (*fastfield.Reader, error) {
	f, err := r.fieldByName(fieldName)
	if err != nil {
		return nil, err
	}
	ff, ok := r.fast[f.ID]
	if !ok {
		return nil, fmt.Errorf("segment: field %q has no fast field", fieldName)
	}
	return ff, nil
}

// FacetReader returns the named Facet field's dictionary/ordinal pair.
func (r *Reader) FacetReader(fieldName string) (*FacetFieldReader, error) {
	f, err := r.fieldByName(fieldName)
	if err != nil {
		return nil, err
	}
	fr, ok := r.facets[f.ID]
	if !ok {
		return nil, fmt.Errorf("segment: field %q has no facet reader", fieldName)
	}
	return fr, nil
}
