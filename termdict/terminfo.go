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

// Package termdict implements the typed, FST-backed term dictionary of
// spec.md §4.2: terms map to a fixed-layout TermInfo record describing
// where the term's posting list (and, if present, its positions) live in
// the inverted index.
package termdict

import (
	"github.com/ferret-search/ferret/common"
)

// TermInfo is the fixed-layout value blob stored for every term: a
// BinarySerializable record of document frequency plus the byte ranges of
// the term's postings and, if the field indexes them, positions. Mirrors
// spec.md §3's `{doc_freq, postings_offset, positions_offset,
// positions_inner_offset}` record, with PostingsLen/PositionsLen added so
// a reader can slice a term's span directly out of the shared postings/
// positions blobs without a following term's offset to bound it against.
// 44 bytes on the wire.
type TermInfo struct {
	DocFreq              uint32
	PostingsOffset       uint64
	PostingsLen          uint64
	PositionsOffset      uint64
	PositionsLen         uint64
	PositionsInnerOffset uint64
}

// EncodedLen is TermInfo's fixed wire size.
const EncodedLen = 4 + 8 + 8 + 8 + 8 + 8

// Encode appends the fixed-layout encoding of ti to dst and returns the
// extended slice.
func (ti TermInfo) Encode(dst []byte) []byte {
	var buf [EncodedLen]byte
	putU32(buf[0:4], ti.DocFreq)
	putU64(buf[4:12], ti.PostingsOffset)
	putU64(buf[12:20], ti.PostingsLen)
	putU64(buf[20:28], ti.PositionsOffset)
	putU64(buf[28:36], ti.PositionsLen)
	putU64(buf[36:44], ti.PositionsInnerOffset)
	return append(dst, buf[:]...)
}

// DecodeTermInfo reads a fixed-layout TermInfo from the front of b.
func DecodeTermInfo(b []byte) (TermInfo, error) {
	if len(b) < EncodedLen {
		return TermInfo{}, common.Corruptf("termdict: TermInfo truncated (len %d)", len(b))
	}
	return TermInfo{
		DocFreq:              getU32(b[0:4]),
		PostingsOffset:       getU64(b[4:12]),
		PostingsLen:          getU64(b[12:20]),
		PositionsOffset:      getU64(b[20:28]),
		PositionsLen:         getU64(b[28:36]),
		PositionsInnerOffset: getU64(b[36:44]),
	}, nil
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
