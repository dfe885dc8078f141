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

package schema

import "github.com/ferret-search/ferret/facet"

// TextValue is one text field's already-tokenized contribution to a
// document; tokenization itself is the caller's job (see package doc).
type TextValue struct {
	Field  Field
	Tokens []string
}

// IntegerValue is one integer field's value.
type IntegerValue struct {
	Field Field
	Value uint64
}

// FacetValue is one facet field's value. A field may carry more than one
// facet tag on the same document (e.g. two categories in one field), so a
// Document holds a slice of these per document, not a map.
type FacetValue struct {
	Field Field
	Facet facet.Facet
}

// Document is an unindexed, in-memory bag of typed field values ready to
// be handed to segment.Writer.AddDocument.
type Document struct {
	Text    []TextValue
	Integer []IntegerValue
	Facets  []FacetValue
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddText appends a text field value. f.Kind must be Text.
func (d *Document) AddText(f Field, tokens ...string) *Document {
	d.Text = append(d.Text, TextValue{Field: f, Tokens: tokens})
	return d
}

// AddInteger appends an integer field value. f.Kind must be Integer.
func (d *Document) AddInteger(f Field, v uint64) *Document {
	d.Integer = append(d.Integer, IntegerValue{Field: f, Value: v})
	return d
}

// AddFacet appends a facet field value. f.Kind must be Facet.
func (d *Document) AddFacet(f Field, fv facet.Facet) *Document {
	d.Facets = append(d.Facets, FacetValue{Field: f, Facet: fv})
	return d
}
