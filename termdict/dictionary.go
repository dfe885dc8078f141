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

package termdict

import (
	"go.uber.org/zap"

	"github.com/ferret-search/ferret/fst"
)

// Writer builds a term dictionary: a thin, typed layer over fst.Writer
// that encodes each TermInfo before inserting it.
type Writer struct {
	inner *fst.Writer
}

// NewWriter returns a term dictionary writer using blockSize as the cascade
// FST's per-block budget.
func NewWriter(blockSize int, logger *zap.Logger) *Writer {
	return &Writer{inner: fst.NewWriter(blockSize, logger)}
}

// Insert adds term -> info. Terms must be inserted in strictly increasing
// lexicographic order.
func (w *Writer) Insert(term []byte, info TermInfo) error {
	return w.inner.Insert(term, info.Encode(nil))
}

// Finish materializes the dictionary file.
func (w *Writer) Finish() ([]byte, error) {
	return w.inner.Finish()
}

// Dictionary is a read-only typed term dictionary.
type Dictionary struct {
	inner *fst.Dictionary
}

// Open parses a term dictionary file produced by Writer.Finish.
func Open(data []byte) (*Dictionary, error) {
	inner, err := fst.Open(data)
	if err != nil {
		return nil, err
	}
	return &Dictionary{inner: inner}, nil
}

// Get looks up term, decoding its TermInfo if present.
func (d *Dictionary) Get(term []byte) (TermInfo, bool, error) {
	raw, ok, err := d.inner.Get(term)
	if err != nil || !ok {
		return TermInfo{}, false, err
	}
	ti, err := DecodeTermInfo(raw)
	return ti, err == nil, err
}

// Range streams every (term, TermInfo) pair with term in [geTerm, ltTerm).
func (d *Dictionary) Range(geTerm, ltTerm []byte) (*RangeStreamer, error) {
	s, err := d.inner.Stream(geTerm, ltTerm)
	if err != nil {
		return nil, err
	}
	return &RangeStreamer{s: s, dict: d}, nil
}

// RangeStreamer iterates a Dictionary's entries in ascending term order.
type RangeStreamer struct {
	s    *fst.Streamer
	dict *Dictionary
}

// Advance moves to the next entry.
func (r *RangeStreamer) Advance() bool {
	return r.s.Advance()
}

// Term returns the current entry's term.
func (r *RangeStreamer) Term() []byte {
	return r.s.Key()
}

// TermInfo decodes the current entry's value.
func (r *RangeStreamer) TermInfo() (TermInfo, error) {
	offset := r.s.ValueOffset()
	return DecodeTermInfo(r.dict.inner.ValueAt(offset))
}
