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

// Package facet implements the hierarchical facet value: its byte encoding,
// its human-readable string grammar, and the tokenizer that expands a facet
// into the ancestor-ordinal prefixes the indexing path writes.
//
// Grounded on _examples/original_source/src/schema/facet.rs.
package facet

import (
	"strings"
)

const (
	sepByte    byte = 0x1F // separates path steps in the encoded form
	slashByte  byte = '/'
	escapeByte byte = '\\'
)

// Facet is a hierarchical value such as /electronics/laptops/gaming, stored
// internally with sepByte written before every step, including the first
// (so /top/a/b is encoded as "\x1ftop\x1fa\x1fb"). The zero value is the
// root facet (no steps, empty encoding).
type Facet struct {
	encoded []byte
}

// Root returns the top-level facet, the common ancestor of every facet.
func Root() Facet {
	return Facet{}
}

// IsRoot reports whether f is the root facet.
func (f Facet) IsRoot() bool {
	return len(f.encoded) == 0
}

// FromPath builds a facet from its literal path steps, e.g.
// FromPath("electronics", "laptops"). A step containing sepByte is a logic
// error: callers must not construct facets out of raw, un-escaped bytes.
func FromPath(steps ...string) Facet {
	if len(steps) == 0 {
		return Root()
	}
	var b strings.Builder
	for _, s := range steps {
		if strings.IndexByte(s, sepByte) >= 0 {
			panic("facet: path step contains the reserved unit separator byte")
		}
		if strings.IndexByte(s, 0) >= 0 {
			panic("facet: path step contains a NUL byte")
		}
		b.WriteByte(sepByte)
		b.WriteString(s)
	}
	return Facet{encoded: []byte(b.String())}
}

// FromEncoded wraps an already-encoded byte sequence (e.g. read back from a
// term dictionary) as a Facet. The bytes are copied as they are, without
// any validation.
func FromEncoded(b []byte) Facet {
	return Facet{encoded: append([]byte(nil), b...)}
}

// Encoded returns the raw byte encoding (sepByte before each step),
// suitable for use as a term-dictionary key.
func (f Facet) Encoded() []byte {
	return f.encoded
}

// Parse decodes the human-readable slash-separated string form, honoring
// backslash-escaped slashes and backslashes within a step (e.g.
// "/a/b\\/c" is the two steps "a" and "b/c").
func Parse(s string) (Facet, error) {
	if s == "" || s == "/" {
		return Root(), nil
	}
	s = strings.TrimPrefix(s, "/")

	var steps []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == escapeByte:
			escaped = true
		case c == slashByte:
			steps = append(steps, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	steps = append(steps, cur.String())
	return FromPath(steps...), nil
}

// Steps splits the encoded form back into its literal path steps.
func (f Facet) Steps() []string {
	if f.IsRoot() {
		return nil
	}
	parts := strings.Split(string(f.encoded[1:]), string(sepByte))
	return parts
}

// String renders the human-readable form, re-escaping any literal slash or
// backslash within a step. Grounded on facet.rs's Display impl.
func (f Facet) String() string {
	if f.IsRoot() {
		return "/"
	}
	var b strings.Builder
	for _, step := range f.Steps() {
		b.WriteByte('/')
		for i := 0; i < len(step); i++ {
			c := step[i]
			if c == slashByte || c == escapeByte {
				b.WriteByte(escapeByte)
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// GoString renders the Facet(/a/b/c) debug form, matching facet.rs's Debug
// impl.
func (f Facet) GoString() string {
	return "Facet(" + f.String() + ")"
}

// Depth counts the number of path steps, i.e. the number of sepByte bytes
// in the encoding (spec.md's explicit definition; zero for the root).
func Depth(encoded []byte) int {
	n := 0
	for _, b := range encoded {
		if b == sepByte {
			n++
		}
	}
	return n
}

// Prefixes returns every ancestor of f, root first, ending with f itself.
// Grounded on facet.rs's prefixes(): splits the encoded bytes at each
// sepByte boundary and emits every resulting prefix plus the full value.
func (f Facet) Prefixes() []Facet {
	prefixes := []Facet{Root()}
	for i, b := range f.encoded {
		if b == sepByte && i > 0 {
			prefixes = append(prefixes, Facet{encoded: append([]byte(nil), f.encoded[:i]...)})
		}
	}
	if !f.IsRoot() {
		prefixes = append(prefixes, Facet{encoded: append([]byte(nil), f.encoded...)})
	}
	return prefixes
}

// IsChildOf reports whether f is a direct child of parent (one step below).
func (f Facet) IsChildOf(parent Facet) bool {
	if !strings.HasPrefix(string(f.encoded), string(parent.encoded)) {
		return false
	}
	rest := f.encoded[len(parent.encoded):]
	if len(rest) == 0 || rest[0] != sepByte {
		return false
	}
	return Depth(rest) == 1
}
