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

// Package facetindex implements the facet reader and collector of
// spec.md's facet module: a per-segment dictionary mapping facet values to
// dense ordinals, a multi-valued fast field recording the ordinals of the
// literal facet value(s) each document was tagged with (ancestors are not
// expanded into it), and the Collector/Counts pair that aggregates counts
// across segments.
//
// Grounded on _examples/original_source/src/collector/facet_collector.rs
// (finalize_segment/set_segment/collect/harvest/facets()/FacetIterator/
// FacetIteratorWithDepth), reusing this module's fst cascade dictionary
// and fastfield multi-valued column as its storage.
package facetindex

import (
	"github.com/ferret-search/ferret/facet"
	"github.com/ferret-search/ferret/fst"
)

// DictionaryWriter assigns each distinct facet value inserted a dense,
// increasing ordinal (0, 1, 2, ...), matching insertion order. Facets must
// be inserted in sorted order, like any other fst.Writer key.
type DictionaryWriter struct {
	inner *fst.Writer
	next  uint64
}

// NewDictionaryWriter returns an empty facet dictionary writer.
func NewDictionaryWriter(blockSize int) *DictionaryWriter {
	return &DictionaryWriter{inner: fst.NewWriter(blockSize, nil)}
}

// Insert records f and returns its assigned ordinal.
func (w *DictionaryWriter) Insert(f facet.Facet) (uint64, error) {
	ord := w.next
	w.next++
	var buf [8]byte
	putU64(buf[:], ord)
	if err := w.inner.Insert(f.Encoded(), buf[:]); err != nil {
		return 0, err
	}
	return ord, nil
}

// Finish materializes the dictionary file.
func (w *DictionaryWriter) Finish() ([]byte, error) {
	return w.inner.Finish()
}

// Dictionary is a read-only facet dictionary: facet value <-> ordinal in
// both directions.
type Dictionary struct {
	fstDict    *fst.Dictionary
	ordToFacet []facet.Facet
}

// OpenDictionary parses a dictionary file produced by DictionaryWriter, and
// builds the ordinal -> facet reverse index (ordinals are assigned in
// sorted-key order, which is exactly the order a full stream yields them).
func OpenDictionary(data []byte) (*Dictionary, error) {
	fd, err := fst.Open(data)
	if err != nil {
		return nil, err
	}
	d := &Dictionary{fstDict: fd}
	if fd.IsEmpty() {
		return d, nil
	}
	s, err := fd.Stream(nil, nil)
	if err != nil {
		return nil, err
	}
	for s.Advance() {
		d.ordToFacet = append(d.ordToFacet, facet.FromEncoded(s.Key()))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// NumFacets returns the number of distinct facet values in the dictionary.
func (d *Dictionary) NumFacets() int {
	return len(d.ordToFacet)
}

// Ordinal looks up f's assigned ordinal.
func (d *Dictionary) Ordinal(f facet.Facet) (uint64, bool, error) {
	raw, ok, err := d.fstDict.Get(f.Encoded())
	if err != nil || !ok {
		return 0, false, err
	}
	return getU64(raw), true, nil
}

// Facet returns the facet value assigned to ord.
func (d *Dictionary) Facet(ord uint64) facet.Facet {
	return d.ordToFacet[ord]
}

// Stream iterates the dictionary's facet values in ordinal (= sorted key)
// order, optionally bounded to [geKey, ltKey), for merging across segments.
func (d *Dictionary) Stream(geKey, ltKey []byte) (*fst.Streamer, error) {
	return d.fstDict.Stream(geKey, ltKey)
}

// ordinalAt decodes the ordinal stored at a stream entry's value offset.
func (d *Dictionary) ordinalAt(offset uint64) uint64 {
	return getU64(d.fstDict.ValueAt(offset))
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
