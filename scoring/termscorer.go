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
	"math"

	"github.com/ferret-search/ferret/docset"
	"github.com/ferret-search/ferret/postings"
)

// TermScorer wraps a single term's posting list and assigns every matching
// document a TF-IDF score. Grounded on
// _examples/salvatore-campagna-go-playground/weaviate/engine/engine.go's
// inline scoring formula:
//
//	termFrequency * log((totalDocs+1) / (docFreq+1))
//
// the classic smoothed inverse document frequency weighting, computed once
// per term rather than per document since totalDocs and docFreq are both
// term-scoped constants.
type TermScorer struct {
	list *postings.List
	idf  float64
}

// NewTermScorer builds a scorer over list, a term appearing in docFreq of
// totalDocs documents.
func NewTermScorer(list *postings.List, totalDocs, docFreq uint32) *TermScorer {
	idf := math.Log(float64(totalDocs+1) / float64(docFreq+1))
	return &TermScorer{list: list, idf: idf}
}

func (s *TermScorer) Advance() bool                         { return s.list.Advance() }
func (s *TermScorer) Doc() docset.DocID                     { return s.list.Doc() }
func (s *TermScorer) SizeHint() int                         { return s.list.SizeHint() }
func (s *TermScorer) SkipNext(target docset.DocID) docset.SkipResult { return s.list.SkipNext(target) }

// Score returns the TF-IDF weight of the current document.
func (s *TermScorer) Score() float32 {
	return float32(float64(s.list.TermFreq()) * s.idf)
}
