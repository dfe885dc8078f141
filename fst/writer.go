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

// Package fst implements the cascaded block FST dictionary described in
// spec.md §4.1: a sequence of value blobs, followed by a cascade of
// size-bounded vellum FST blocks, followed by a (top_fst_offset, depth)
// footer. It is the structure every typed dictionary (term dictionary,
// facet dictionary) in this module is built on.
//
// Grounded on _examples/heroiclabs-nakama/vendor/github.com/blugelabs/ice's
// Dictionary, which wraps exactly one level of *vellum.FST the same way;
// here we generalize to a cascade of such blocks so the dictionary scales
// past a single practical FST size, per spec.md's build protocol.
package fst

import (
	"bytes"

	"github.com/blevesearch/vellum"
	"go.uber.org/zap"

	"github.com/ferret-search/ferret/common"
)

// DefaultBlockSize bounds the approximate size of each FST block before the
// writer starts a new one and propagates a pointer to it up a level.
const DefaultBlockSize = 2 << 20 // 2MiB, matching spec.md's "~2MiB" guidance

type entry struct {
	key   []byte
	value uint64
}

// Writer builds a cascaded FST dictionary. Keys must be inserted in
// strictly increasing lexicographic order; Insert panics otherwise,
// matching vellum's own builder panic on out-of-order inserts.
type Writer struct {
	blockSize int
	logger    *zap.Logger

	values  bytes.Buffer
	entries []entry

	lastKey    []byte
	lastKeySet bool
}

// NewWriter returns a cascade writer using blockSize as the approximate
// per-block byte budget. A nil logger defaults to a no-op logger, matching
// the teacher's optional-logger convention.
func NewWriter(blockSize int, logger *zap.Logger) *Writer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{blockSize: blockSize, logger: logger}
}

// Insert adds key -> value (an opaque, typed value blob), recording its
// offset in the leaf dictionary. Keys must be strictly increasing.
func (w *Writer) Insert(key []byte, value []byte) error {
	if w.lastKeySet && bytes.Compare(key, w.lastKey) <= 0 {
		panic("fst: keys must be inserted in strictly increasing order")
	}
	offset := uint64(w.values.Len())
	if _, err := w.values.Write(value); err != nil {
		return err
	}
	w.lastKey = append(w.lastKey[:0], key...)
	w.lastKeySet = true
	w.entries = append(w.entries, entry{key: append([]byte(nil), key...), value: offset})
	return nil
}

// Finish materializes the cascade and returns the complete file bytes: the
// value blob section, then the FST block section (each block length-
// prefixed), then the (top_fst_offset, depth) footer.
//
// The cascade is built in a single batch pass over the buffered (key,
// value) pairs rather than incrementally flushed during Insert — see
// DESIGN.md's "Cascade construction strategy" entry. Every inner level maps
// each child block's last key to that block's offset.
func (w *Writer) Finish() ([]byte, error) {
	blocksStart := uint64(w.values.Len())

	var blocks bytes.Buffer
	var topOffset uint64
	var depth uint8

	cur := w.entries
	for len(cur) > 0 {
		depth++
		chunks := partition(cur, w.blockSize)
		offsets := make([]uint64, len(chunks))
		for i, chunk := range chunks {
			fstBytes, err := buildBlock(chunk)
			if err != nil {
				return nil, err
			}
			off := blocksStart + uint64(blocks.Len())
			if err := common.WriteU32(&blocks, uint32(len(fstBytes))); err != nil {
				return nil, err
			}
			if _, err := blocks.Write(fstBytes); err != nil {
				return nil, err
			}
			offsets[i] = off
		}

		if len(chunks) == 1 {
			topOffset = offsets[0]
			break
		}

		// Each parent entry is keyed by its child block's last key, so the
		// smallest parent key >= k (the ge(k) lookup) names the only block
		// whose key range can hold k.
		parent := make([]entry, len(chunks))
		for i, chunk := range chunks {
			parent[i] = entry{key: chunk[len(chunk)-1].key, value: offsets[i]}
		}
		cur = parent
	}

	w.logger.Debug("fst: finished cascade",
		zap.Int("entries", len(w.entries)),
		zap.Uint8("depth", depth),
		zap.Int("blockBytes", blocks.Len()))

	var out bytes.Buffer
	out.Write(w.values.Bytes())
	out.Write(blocks.Bytes())
	if err := common.WriteU64(&out, topOffset); err != nil {
		return nil, err
	}
	out.WriteByte(byte(depth))
	return out.Bytes(), nil
}

// partition splits entries into chunks whose approximate serialized size
// (key length + 8-byte value) does not exceed blockSize, except that a
// single oversized entry still gets its own chunk.
func partition(entries []entry, blockSize int) [][]entry {
	var chunks [][]entry
	i := 0
	for i < len(entries) {
		size := 0
		j := i
		for j < len(entries) {
			size += len(entries[j].key) + 8
			j++
			if size >= blockSize {
				break
			}
		}
		chunks = append(chunks, entries[i:j])
		i = j
	}
	return chunks
}

func buildBlock(chunk []entry) ([]byte, error) {
	var buf bytes.Buffer
	b, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range chunk {
		if err := b.Insert(e.key, e.value); err != nil {
			return nil, err
		}
	}
	if err := b.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
