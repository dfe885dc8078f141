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

// Difference emits every document from left that does not also appear in
// right. Grounded on original_source/src/postings/difference.rs, including
// its E4 skip_next fixture.
type Difference struct {
	left, right  DocSet
	rightValid   bool
	rightStarted bool
}

// NewDifference builds left minus right.
func NewDifference(left, right DocSet) *Difference {
	return &Difference{left: left, right: right}
}

func (d *Difference) ensureRightStarted() {
	if !d.rightStarted {
		d.rightValid = d.right.Advance()
		d.rightStarted = true
	}
}

func (d *Difference) Advance() bool {
	d.ensureRightStarted()
	for {
		if !d.left.Advance() {
			return false
		}
		if !d.rightValid || d.left.Doc() < d.right.Doc() {
			return true
		}
		if d.left.Doc() == d.right.Doc() {
			continue
		}
		// left.Doc() > right.Doc(): catch right up.
		switch d.right.SkipNext(d.left.Doc()) {
		case Reached:
			continue
		case OverStep:
			return true
		case End:
			d.rightValid = false
			return true
		}
	}
}

func (d *Difference) Doc() DocID {
	return d.left.Doc()
}

func (d *Difference) SizeHint() int {
	return d.left.SizeHint()
}

func (d *Difference) SkipNext(target DocID) SkipResult {
	d.ensureRightStarted()
	res := d.left.SkipNext(target)
	if res == End {
		return End
	}
	for d.rightValid && d.right.Doc() < d.left.Doc() {
		if d.right.SkipNext(d.left.Doc()) == End {
			d.rightValid = false
		}
	}
	if d.rightValid && d.right.Doc() == d.left.Doc() {
		// The landed-on document is excluded; move left forward again.
		if !d.Advance() {
			return End
		}
		if d.left.Doc() == target {
			return Reached
		}
		return OverStep
	}
	return res
}
