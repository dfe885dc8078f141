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

// Package scoring implements the Scorer layer of spec.md §4.8: a DocSet
// that also exposes a relevance score, combinator scorers that recompute
// their combined score as the underlying doc changes, and the
// BooleanQuery clause assembler.
//
// Grounded conceptually on
// _examples/salvatore-campagna-go-playground/weaviate/engine/engine.go's
// inline TF-IDF scoring and heap-based multi-term merge; the package
// itself builds on this module's own docset combinators rather than
// weaviate's posting-block heap, since the DocSet abstraction already
// supplies the alignment machinery a scorer needs.
package scoring

import "math"

// CombinerPolicy selects how a combinator scorer folds its children's
// individual scores into one, per spec §4.8: "ScoreCombiner configurable
// per operator: sum, or sum/sqrt(n), or coordination-scaled sum".
type CombinerPolicy int

const (
	// SumPolicy adds every contributing child's score verbatim.
	SumPolicy CombinerPolicy = iota
	// SumSqrtPolicy divides the sum by sqrt(number of contributors),
	// dampening the advantage of matching many clauses over matching one
	// well.
	SumSqrtPolicy
	// CoordinationPolicy scales the sum by the fraction of possible
	// clauses that matched (the "coordination" of the match).
	CoordinationPolicy
)

// ScoreCombiner folds a set of per-child scores for one document into a
// single score.
type ScoreCombiner struct {
	policy CombinerPolicy
}

// NewScoreCombiner wraps an explicit policy.
func NewScoreCombiner(policy CombinerPolicy) ScoreCombiner {
	return ScoreCombiner{policy: policy}
}

// CombinerForOccur picks a combiner policy "by number of child scorers and
// operator kind", per spec §4.8: a single child never needs dampening; a
// Should clause, where partial coordination is meaningful signal, is
// coordination-scaled; a Must clause (every child always contributes,
// since intersection requires it) uses sum/sqrt(n) so clause count alone
// doesn't dominate the ranking.
func CombinerForOccur(occur Occur, numChildren int) ScoreCombiner {
	switch {
	case numChildren <= 1:
		return ScoreCombiner{policy: SumPolicy}
	case occur == Should:
		return ScoreCombiner{policy: CoordinationPolicy}
	default:
		return ScoreCombiner{policy: SumSqrtPolicy}
	}
}

// Combine folds scores (the contributing children's individual scores for
// the current document) into one. maxPossible is the total number of
// children the combinator owns, used by CoordinationPolicy.
func (c ScoreCombiner) Combine(scores []float32, maxPossible int) float32 {
	if len(scores) == 0 {
		return 0
	}
	var sum float32
	for _, s := range scores {
		sum += s
	}
	switch c.policy {
	case SumSqrtPolicy:
		return sum / float32(math.Sqrt(float64(len(scores))))
	case CoordinationPolicy:
		if maxPossible == 0 {
			return sum
		}
		return sum * (float32(len(scores)) / float32(maxPossible))
	default:
		return sum
	}
}
