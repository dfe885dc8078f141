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

package facet

// Tokenize expands a facet value into every non-root ancestor postings
// term a document must be indexed under, so that a query for /electronics
// matches a document filed under /electronics/laptops/gaming. The root
// facet itself carries no discriminating information and is never emitted
// (e.g. encoded "\x1ftop\x1fa\x1fb" yields exactly the three tokens /top,
// /top/a, /top/a/b).
//
// This is the inverted-index path only, called once per facet value by
// the segment writer when building that field's postings. The facet
// counter (package facetindex) is a separate consumer of Facet that never
// calls Tokenize: its dictionary is seeded from Facet.Prefixes directly
// (so ancestor prefixes still get dictionary entries, satisfying the
// ordinal-space description in spec), but a document's Collect call only
// ever increments the literal leaf ordinal it was tagged with. See
// DESIGN.md resolutions 4 and 4b.
func Tokenize(f Facet) [][]byte {
	prefixes := f.Prefixes()
	if len(prefixes) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(prefixes)-1)
	for _, p := range prefixes {
		if p.IsRoot() {
			continue
		}
		out = append(out, p.Encoded())
	}
	return out
}
