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

package fst

import (
	"github.com/blevesearch/vellum"

	"github.com/ferret-search/ferret/common"
)

// Dictionary is a read-only view over a cascaded FST file produced by
// Writer.Finish. Grounded on ice's Dictionary, generalized to descend
// through the cascade's inner levels before reaching the leaf FST.
type Dictionary struct {
	data         []byte
	topFstOffset uint64
	depth        uint8
}

// Open parses the footer of data and returns a ready-to-query Dictionary.
func Open(data []byte) (*Dictionary, error) {
	if len(data) < 9 {
		return nil, common.Corruptf("fst: file too small for footer (len %d)", len(data))
	}
	n := len(data)
	topOffset, err := common.ReadU64(data, n-9)
	if err != nil {
		return nil, err
	}
	depth := data[n-1]
	return &Dictionary{data: data, topFstOffset: topOffset, depth: depth}, nil
}

// IsEmpty reports whether the dictionary holds zero entries.
func (d *Dictionary) IsEmpty() bool {
	return d.depth == 0
}

func (d *Dictionary) readBlock(offset uint64) ([]byte, error) {
	ln, err := common.ReadU32(d.data, int(offset))
	if err != nil {
		return nil, err
	}
	start := int(offset) + 4
	end := start + int(ln)
	if end > len(d.data) {
		return nil, common.Corruptf("fst: block at offset %d overruns file", offset)
	}
	return d.data[start:end], nil
}

// Get looks up key, following the lookup protocol of spec.md §4.1: a
// range query ge(k) at each inner level locates the child block, and a
// direct get(k) at the leaf yields the value's byte offset, from which the
// caller-interpreted value blob is sliced.
func (d *Dictionary) Get(key []byte) ([]byte, bool, error) {
	if d.depth == 0 {
		return nil, false, nil
	}

	offset := d.topFstOffset
	for level := int(d.depth); level > 1; level-- {
		blockBytes, err := d.readBlock(offset)
		if err != nil {
			return nil, false, err
		}
		blockFst, err := vellum.Load(blockBytes)
		if err != nil {
			return nil, false, err
		}
		itr, err := blockFst.Iterator(key, nil)
		if err == vellum.ErrIteratorDone {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		_, val := itr.Current()
		offset = val
	}

	blockBytes, err := d.readBlock(offset)
	if err != nil {
		return nil, false, err
	}
	leafFst, err := vellum.Load(blockBytes)
	if err != nil {
		return nil, false, err
	}
	valueOffset, exists, err := leafFst.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}
	return d.data[valueOffset:], true, nil
}

// Contains reports whether key exists, without returning its value.
func (d *Dictionary) Contains(key []byte) (bool, error) {
	_, ok, err := d.Get(key)
	return ok, err
}

// ValueAt slices the value blob section starting at offset, for callers
// (such as a Streamer consumer) that hold a raw value offset from a range
// scan rather than a key to Get.
func (d *Dictionary) ValueAt(offset uint64) []byte {
	return d.data[offset:]
}
