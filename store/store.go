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

// Package store implements the document store of spec.md §4.10: a
// block-compressed, skip-list-indexed container for the original
// (uncompressed) document bytes a segment stores for later retrieval.
//
// Grounded on original_source/src/store/writer.rs's 16KiB block threshold
// and length-prefixed record layout, using
// github.com/klauspost/compress (zstd) as the block compressor — the same
// codec ice's docvalues.go and documentcoder.go use for chunked document
// and doc-value data, in place of the original's lz4 (absent from the
// teacher's dependency graph).
package store

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/ferret-search/ferret/common"
)

// BlockSize is the uncompressed size threshold that triggers flushing the
// current block, matching original_source's BLOCK_SIZE = 16_384.
const BlockSize = 16 * 1024

// Writer accumulates documents and flushes them as zstd-compressed,
// skip-indexed blocks.
type Writer struct {
	out    *common.CountingWriter
	logger *zap.Logger
	enc    *zstd.Encoder

	currentBlock bytes.Buffer
	firstDocInBlock uint32
	docCount        uint32

	skip skipListBuilder
}

// NewWriter wraps out, writing compressed blocks to it as documents
// accumulate. A nil logger defaults to zap.NewNop().
func NewWriter(out *common.CountingWriter, logger *zap.Logger) (*Writer, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{out: out, logger: logger, enc: enc}, nil
}

// Add appends one document's raw, already-serialized bytes (e.g. the
// caller's own field encoding) to the store.
func (w *Writer) Add(docBytes []byte) error {
	if w.currentBlock.Len() == 0 {
		w.firstDocInBlock = w.docCount
	}
	if err := common.WriteUvarint(&w.currentBlock, uint64(len(docBytes))); err != nil {
		return err
	}
	if _, err := w.currentBlock.Write(docBytes); err != nil {
		return err
	}
	w.docCount++
	if w.currentBlock.Len() >= BlockSize {
		return w.flushBlock()
	}
	return nil
}

func (w *Writer) flushBlock() error {
	if w.currentBlock.Len() == 0 {
		return nil
	}
	blockStartOffset := uint64(w.out.BytesWritten())
	compressed := w.enc.EncodeAll(w.currentBlock.Bytes(), nil)
	if err := common.WriteU32(w.out, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.out.Write(compressed); err != nil {
		return err
	}
	w.skip.add(w.firstDocInBlock, blockStartOffset)
	w.logger.Debug("store: flushed block",
		zap.Uint32("firstDoc", w.firstDocInBlock),
		zap.Int("rawBytes", w.currentBlock.Len()),
		zap.Int("compressedBytes", len(compressed)))
	w.currentBlock.Reset()
	return nil
}

// Finish flushes any pending block and writes the skip-list index and
// footer (skipListOffset uint64, docCount uint32), returning the total
// number of documents written.
func (w *Writer) Finish() (uint32, error) {
	if err := w.flushBlock(); err != nil {
		return 0, err
	}
	skipListOffset := uint64(w.out.BytesWritten())
	if err := w.skip.writeTo(w.out); err != nil {
		return 0, err
	}
	if err := common.WriteU64(w.out, skipListOffset); err != nil {
		return 0, err
	}
	if err := common.WriteU32(w.out, w.docCount); err != nil {
		return 0, err
	}
	return w.docCount, w.enc.Close()
}
