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

// Package common holds the small, shared primitives every other ferret
// package builds on: a byte-counting writer and the fixed-width / varint
// codec helpers used by every on-disk format in this module.
package common

import "io"

// CountingWriter wraps an io.Writer and tracks the number of bytes actually
// written to it, so callers can record byte offsets as they stream a file
// out without a separate seek-based accounting pass.
type CountingWriter struct {
	w            io.Writer
	bytesWritten int64
}

// NewCountingWriter wraps w.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{w: w}
}

// Write implements io.Writer, forwarding to the underlying writer and
// counting only the bytes it reports as actually written.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.bytesWritten += int64(n)
	return n, err
}

// BytesWritten returns the total number of bytes written so far.
func (cw *CountingWriter) BytesWritten() int64 {
	return cw.bytesWritten
}
