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
	"errors"

	"github.com/ferret-search/ferret/docset"
)

// Occur selects how a BooleanQuery clause constrains the result set, the
// occur/subquery pairing spec §4.8 describes.
type Occur int

const (
	// Must requires every Must-occurring clause to match; Must clauses are
	// intersected.
	Must Occur = iota
	// Should is optional: it contributes to score when it matches, and
	// (only in the absence of any Must clause) at least one Should clause
	// must match for a document to appear at all.
	Should
	// MustNot excludes documents any MustNot clause matches.
	MustNot
)

// Clause pairs a sub-scorer with how it constrains the query.
type Clause struct {
	Occur  Occur
	Scorer Scorer
}

// ErrEmptyBooleanQuery is returned when a BooleanQuery has no Must and no
// Should clauses (no clauses at all, or MustNot clauses only), which
// matches nothing by construction.
var ErrEmptyBooleanQuery = errors.New("scoring: boolean query has no clauses")

// NewBooleanQuery assembles clauses into a single Scorer, per spec §4.8:
// "a plan that is (intersection of Must-scorers) combined with (union of
// Should-scorers) minus (union of MustNot-scorers), with all branches
// optional." The resolved Open Question (spec §9 / DESIGN.md #3): when
// there are no Must clauses, at least one Should clause must match — the
// Should union becomes the required set instead of a pure score booster.
func NewBooleanQuery(clauses []Clause) (Scorer, error) {
	var musts, shoulds, mustNots []Scorer
	for _, c := range clauses {
		switch c.Occur {
		case Must:
			musts = append(musts, c.Scorer)
		case Should:
			shoulds = append(shoulds, c.Scorer)
		case MustNot:
			mustNots = append(mustNots, c.Scorer)
		}
	}
	if len(musts) == 0 && len(shoulds) == 0 {
		return nil, ErrEmptyBooleanQuery
	}

	var required Scorer
	var optional Scorer

	if len(musts) > 0 {
		required = combineAll(musts, Must)
		if len(shoulds) > 0 {
			optional = combineAll(shoulds, Should)
		}
	} else {
		// No Must clauses: the Should union itself becomes required, so
		// every result matches at least one Should clause.
		required = combineAll(shoulds, Should)
	}

	combined := Scorer(&requiredOptionalScorer{
		required: required,
		optional: optional,
		combiner: NewScoreCombiner(SumPolicy),
	})

	if len(mustNots) == 0 {
		return combined, nil
	}
	excluded := combineAll(mustNots, Should) // dedup union; scores discarded
	return NewDifferenceScorer(combined, excluded), nil
}

// combineAll folds a non-empty slice of same-occur scorers into one,
// skipping the combinator entirely when there's only one.
func combineAll(scorers []Scorer, occur Occur) Scorer {
	if len(scorers) == 1 {
		return scorers[0]
	}
	combiner := CombinerForOccur(occur, len(scorers))
	switch occur {
	case Must:
		return NewIntersectionScorer(scorers, combiner)
	default:
		return NewUnionScorer(scorers, combiner)
	}
}

// requiredOptionalScorer iterates over required's documents, folding in
// optional's score whenever optional also matches the current document.
// Grounded on the Lucene/tantivy "required + optional" scorer shape that
// backs a BooleanQuery with both Must and Should clauses: Should clauses
// never narrow or widen the result set once a Must clause exists, they
// only add to the score.
type requiredOptionalScorer struct {
	required      Scorer
	optional      Scorer
	optionalValid bool
	optionalBegun bool
	combiner      ScoreCombiner
	scratch       []float32
}

func (s *requiredOptionalScorer) Advance() bool {
	if !s.required.Advance() {
		return false
	}
	return true
}

func (s *requiredOptionalScorer) Doc() docset.DocID { return s.required.Doc() }
func (s *requiredOptionalScorer) SizeHint() int     { return s.required.SizeHint() }

func (s *requiredOptionalScorer) SkipNext(target docset.DocID) docset.SkipResult {
	return s.required.SkipNext(target)
}

// Score aligns optional to the current document on demand and folds both
// contributions.
func (s *requiredOptionalScorer) Score() float32 {
	s.scratch = s.scratch[:0]
	s.scratch = append(s.scratch, s.required.Score())
	if s.optional != nil {
		doc := s.required.Doc()
		if !s.optionalBegun {
			s.optionalValid = s.optional.Advance()
			s.optionalBegun = true
		}
		if s.optionalValid && s.optional.Doc() < doc {
			if s.optional.SkipNext(doc) == docset.End {
				s.optionalValid = false
			}
		}
		if s.optionalValid && s.optional.Doc() == doc {
			s.scratch = append(s.scratch, s.optional.Score())
		}
	}
	return s.combiner.Combine(s.scratch, len(s.scratch))
}
