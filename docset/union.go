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

package docset

// Union wraps UnionAll and deduplicates: a document shared by several
// children is emitted exactly once. Grounded on
// original_source/src/postings/union.rs.
type Union struct {
	inner   *UnionAll
	current DocID
	valid   bool
}

// NewUnion builds the deduplicated union of two or more doc sets. Passing a
// single doc set is a caller error (there is nothing to union); pass it
// through unchanged instead.
func NewUnion(children []DocSet) *Union {
	return &Union{inner: NewUnionAll(children)}
}

func (u *Union) Advance() bool {
	if !u.inner.Advance() {
		u.valid = false
		return false
	}
	doc := u.inner.Doc()
	if u.valid && doc == u.current {
		// Skip past any further duplicates of the document we just
		// returned, by requesting the union's next distinct value.
		if u.inner.SkipNext(u.current+1) == End {
			u.valid = false
			return false
		}
		doc = u.inner.Doc()
	}
	u.current = doc
	u.valid = true
	return true
}

func (u *Union) Doc() DocID {
	if !u.valid {
		return MaxDoc
	}
	return u.current
}

func (u *Union) SizeHint() int {
	return u.inner.SizeHint()
}

func (u *Union) SkipNext(target DocID) SkipResult {
	res := u.inner.SkipNext(target)
	if res == End {
		u.valid = false
		return End
	}
	u.current = u.inner.Doc()
	u.valid = true
	return res
}
