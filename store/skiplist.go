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
	"io"
	"sort"

	"github.com/ferret-search/ferret/common"
)

// blockEntry records where one compressed block starts and which document
// it begins with, letting a reader binary-search to the containing block
// instead of scanning sequentially. Grounded on
// original_source/src/store/writer.rs's SkipListBuilder<u64> usage.
type blockEntry struct {
	firstDoc uint32
	offset   uint64
}

type skipListBuilder struct {
	entries []blockEntry
}

func (b *skipListBuilder) add(firstDoc uint32, offset uint64) {
	b.entries = append(b.entries, blockEntry{firstDoc: firstDoc, offset: offset})
}

// writeTo serializes the skip list as (count uint32) followed by
// delta-varint-coded (firstDoc, offset) pairs.
func (b *skipListBuilder) writeTo(w io.Writer) error {
	if err := common.WriteU32(w, uint32(len(b.entries))); err != nil {
		return err
	}
	var prevDoc uint32
	var prevOffset uint64
	for _, e := range b.entries {
		if err := common.WriteUvarint(w, uint64(e.firstDoc-prevDoc)); err != nil {
			return err
		}
		if err := common.WriteUvarint(w, e.offset-prevOffset); err != nil {
			return err
		}
		prevDoc = e.firstDoc
		prevOffset = e.offset
	}
	return nil
}

type skipList struct {
	entries []blockEntry
}

func readSkipList(data []byte, off int) (*skipList, error) {
	count, err := common.ReadU32(data, off)
	if err != nil {
		return nil, err
	}
	pos := off + 4
	entries := make([]blockEntry, count)
	var prevDoc uint32
	var prevOffset uint64
	for i := 0; i < int(count); i++ {
		docDelta, n, err := common.Uvarint(data, pos)
		if err != nil {
			return nil, err
		}
		pos += n
		offDelta, n2, err := common.Uvarint(data, pos)
		if err != nil {
			return nil, err
		}
		pos += n2
		prevDoc += uint32(docDelta)
		prevOffset += offDelta
		entries[i] = blockEntry{firstDoc: prevDoc, offset: prevOffset}
	}
	return &skipList{entries: entries}, nil
}

// blockFor returns the offset and first document id of the block that
// contains doc: the entry with the largest firstDoc <= doc.
func (s *skipList) blockFor(doc uint32) (offset uint64, firstDoc uint32, ok bool) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].firstDoc > doc
	})
	if i == 0 {
		return 0, 0, false
	}
	e := s.entries[i-1]
	return e.offset, e.firstDoc, true
}
