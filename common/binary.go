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

package common

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DocID identifies a document by its local, segment-relative ordinal.
type DocID = uint32

// ErrCorruption is wrapped by any decode path that finds a structurally
// invalid byte layout (bad magic, truncated buffer, out-of-range offset).
// It is a sentinel so callers can distinguish a corrupt file from a
// not-found lookup with errors.Is.
var ErrCorruption = fmt.Errorf("ferret: corrupted data")

// Corruptf wraps ErrCorruption with additional context, the way ice's
// read.go and segment.go report malformed segment files.
func Corruptf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCorruption)...)
}

// WriteU32 writes v as 4 little-endian bytes.
func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteU64 writes v as 8 little-endian bytes.
func WriteU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteUvarint writes v using the standard LEB128 varint encoding, matching
// the encoding ice uses for chunk headers (binary.PutUvarint).
func WriteUvarint(w io.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

// ReadU32 reads 4 little-endian bytes from b at offset off.
func ReadU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, Corruptf("ReadU32: offset %d out of range (len %d)", off, len(b))
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

// ReadU64 reads 8 little-endian bytes from b at offset off.
func ReadU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, Corruptf("ReadU64: offset %d out of range (len %d)", off, len(b))
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), nil
}

// Uvarint decodes a varint starting at offset off, returning the value and
// the number of bytes consumed.
func Uvarint(b []byte, off int) (uint64, int, error) {
	if off < 0 || off > len(b) {
		return 0, 0, Corruptf("Uvarint: offset %d out of range (len %d)", off, len(b))
	}
	v, n := binary.Uvarint(b[off:])
	if n <= 0 {
		return 0, 0, Corruptf("Uvarint: malformed varint at offset %d", off)
	}
	return v, n, nil
}

// BitsRequired returns the number of bits needed to represent v (0 for v==0).
func BitsRequired(v uint64) uint8 {
	var n uint8
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
