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

package store

import (
	"github.com/klauspost/compress/zstd"

	"github.com/ferret-search/ferret/common"
)

// Reader provides random-access document retrieval over a store file
// produced by Writer.
type Reader struct {
	data     []byte
	skip     *skipList
	docCount uint32
	dec      *zstd.Decoder

	// decompressed-block cache, so sequential reads within one block
	// don't re-inflate it every time.
	cachedBlockOffset uint64
	cachedBlockValid  bool
	cachedDocs        [][]byte
}

// Open parses a store file.
func Open(data []byte) (*Reader, error) {
	if len(data) < 12 {
		return nil, common.Corruptf("store: file too small for footer (len %d)", len(data))
	}
	n := len(data)
	skipListOffset, err := common.ReadU64(data, n-12)
	if err != nil {
		return nil, err
	}
	docCount, err := common.ReadU32(data, n-4)
	if err != nil {
		return nil, err
	}
	sl, err := readSkipList(data, int(skipListOffset))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Reader{data: data, skip: sl, docCount: docCount, dec: dec}, nil
}

// NumDocs returns the number of documents stored.
func (r *Reader) NumDocs() uint32 {
	return r.docCount
}

// Get retrieves the raw bytes previously passed to Writer.Add for doc.
func (r *Reader) Get(doc uint32) ([]byte, error) {
	if doc >= r.docCount {
		return nil, common.Corruptf("store: doc %d out of range (count %d)", doc, r.docCount)
	}
	blockOffset, firstDoc, ok := r.locateBlock(doc)
	if !ok {
		return nil, common.Corruptf("store: no block found for doc %d", doc)
	}
	if !r.cachedBlockValid || r.cachedBlockOffset != blockOffset {
		docs, err := r.decodeBlock(blockOffset)
		if err != nil {
			return nil, err
		}
		r.cachedBlockOffset = blockOffset
		r.cachedBlockValid = true
		r.cachedDocs = docs
	}
	idx := int(doc - firstDoc)
	if idx < 0 || idx >= len(r.cachedDocs) {
		return nil, common.Corruptf("store: doc %d not found in its block", doc)
	}
	return r.cachedDocs[idx], nil
}

func (r *Reader) locateBlock(doc uint32) (offset uint64, firstDoc uint32, ok bool) {
	return r.skip.blockFor(doc)
}

func (r *Reader) decodeBlock(offset uint64) ([][]byte, error) {
	ln, err := common.ReadU32(r.data, int(offset))
	if err != nil {
		return nil, err
	}
	start := int(offset) + 4
	end := start + int(ln)
	if end > len(r.data) {
		return nil, common.Corruptf("store: block at offset %d overruns file", offset)
	}
	raw, err := r.dec.DecodeAll(r.data[start:end], nil)
	if err != nil {
		return nil, err
	}

	var docs [][]byte
	pos := 0
	for pos < len(raw) {
		l, n, err := common.Uvarint(raw, pos)
		if err != nil {
			return nil, err
		}
		pos += n
		docs = append(docs, raw[pos:pos+int(l)])
		pos += int(l)
	}
	return docs, nil
}
