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

package scoring

import "github.com/ferret-search/ferret/docset"

// DifferenceScorer emits left's documents excluding right's, wrapping
// docset.Difference for the alignment algorithm. Per spec §4.8,
// "Difference scorer returns the left score verbatim" — right's
// documents are exclusion-only and never contribute a score.
type DifferenceScorer struct {
	left  Scorer
	inner *docset.Difference
}

// NewDifferenceScorer builds left minus right.
func NewDifferenceScorer(left Scorer, right docset.DocSet) *DifferenceScorer {
	return &DifferenceScorer{left: left, inner: docset.NewDifference(left, right)}
}

func (s *DifferenceScorer) Advance() bool       { return s.inner.Advance() }
func (s *DifferenceScorer) Doc() docset.DocID   { return s.inner.Doc() }
func (s *DifferenceScorer) SizeHint() int       { return s.inner.SizeHint() }
func (s *DifferenceScorer) SkipNext(target docset.DocID) docset.SkipResult {
	return s.inner.SkipNext(target)
}

// Score returns left's score for the current document, verbatim.
func (s *DifferenceScorer) Score() float32 { return s.left.Score() }
