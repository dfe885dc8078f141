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

import (
	"github.com/ferret-search/ferret/docset"
)

// IntersectionScorer emits only documents every child scorer matches,
// wrapping docset.Intersection for the alignment algorithm and computing
// its combined score from the children's current scores on every Score
// call, per spec §4.8 ("Intersection and
// union scorers recompute the combined score whenever the underlying doc
// changes"). Since every child always contributes at the intersection's
// current document (that's what intersection means), the combined score
// is simply every child's score folded through combiner.
type IntersectionScorer struct {
	children []Scorer
	inner    *docset.Intersection
	combiner ScoreCombiner
	scratch  []float32
}

// NewIntersectionScorer requires at least two children.
func NewIntersectionScorer(children []Scorer, combiner ScoreCombiner) *IntersectionScorer {
	sets := make([]docset.DocSet, len(children))
	for i, c := range children {
		sets[i] = c
	}
	return &IntersectionScorer{
		children: children,
		inner:    docset.NewIntersection(sets),
		combiner: combiner,
		scratch:  make([]float32, len(children)),
	}
}

func (s *IntersectionScorer) Advance() bool { return s.inner.Advance() }
func (s *IntersectionScorer) Doc() docset.DocID { return s.inner.Doc() }
func (s *IntersectionScorer) SizeHint() int { return s.inner.SizeHint() }
func (s *IntersectionScorer) SkipNext(target docset.DocID) docset.SkipResult {
	return s.inner.SkipNext(target)
}

// Score folds every child's score for the current document.
func (s *IntersectionScorer) Score() float32 {
	for i, c := range s.children {
		s.scratch[i] = c.Score()
	}
	return s.combiner.Combine(s.scratch, len(s.children))
}
