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

package segment

import (
	"bytes"

	"github.com/ferret-search/ferret/common"
	"github.com/ferret-search/ferret/facet"
	"github.com/ferret-search/ferret/schema"
)

// encodeDocument serializes doc to the opaque record bytes store.Writer
// treats as a black box (spec §4.10: "the caller's own field encoding").
// A simple length-prefixed layout, grounded on the fixed-layout/uvarint
// conventions package common already establishes for this module.
func encodeDocument(doc *schema.Document) []byte {
	var buf bytes.Buffer

	common.WriteU32(&buf, uint32(len(doc.Text)))
	for _, tv := range doc.Text {
		common.WriteU32(&buf, tv.Field.ID)
		common.WriteU32(&buf, uint32(len(tv.Tokens)))
		for _, tok := range tv.Tokens {
			common.WriteUvarint(&buf, uint64(len(tok)))
			buf.WriteString(tok)
		}
	}

	common.WriteU32(&buf, uint32(len(doc.Integer)))
	for _, iv := range doc.Integer {
		common.WriteU32(&buf, iv.Field.ID)
		common.WriteU64(&buf, iv.Value)
	}

	common.WriteU32(&buf, uint32(len(doc.Facets)))
	for _, fv := range doc.Facets {
		common.WriteU32(&buf, fv.Field.ID)
		enc := fv.Facet.Encoded()
		common.WriteUvarint(&buf, uint64(len(enc)))
		buf.Write(enc)
	}

	return buf.Bytes()
}

// decodeDocument is encodeDocument's inverse, resolving field ids back to
// schema.Field values via sch.
func decodeDocument(data []byte, sch *schema.Schema) (*schema.Document, error) {
	doc := schema.NewDocument()
	off := 0

	numText, err := common.ReadU32(data, off)
	if err != nil {
		return nil, err
	}
	off += 4
	for i := uint32(0); i < numText; i++ {
		fieldID, err := common.ReadU32(data, off)
		if err != nil {
			return nil, err
		}
		off += 4
		f, ok := sch.FieldByID(fieldID)
		if !ok {
			return nil, common.Corruptf("segment: document references unknown field %d", fieldID)
		}
		numTokens, err := common.ReadU32(data, off)
		if err != nil {
			return nil, err
		}
		off += 4
		tokens := make([]string, numTokens)
		for j := uint32(0); j < numTokens; j++ {
			n, adv, err := common.Uvarint(data, off)
			if err != nil {
				return nil, err
			}
			off += adv
			if off+int(n) > len(data) {
				return nil, common.Corruptf("segment: document token truncated")
			}
			tokens[j] = string(data[off : off+int(n)])
			off += int(n)
		}
		doc.AddText(f, tokens...)
	}

	numInt, err := common.ReadU32(data, off)
	if err != nil {
		return nil, err
	}
	off += 4
	for i := uint32(0); i < numInt; i++ {
		fieldID, err := common.ReadU32(data, off)
		if err != nil {
			return nil, err
		}
		off += 4
		f, ok := sch.FieldByID(fieldID)
		if !ok {
			return nil, common.Corruptf("segment: document references unknown field %d", fieldID)
		}
		v, err := common.ReadU64(data, off)
		if err != nil {
			return nil, err
		}
		off += 8
		doc.AddInteger(f, v)
	}

	numFacet, err := common.ReadU32(data, off)
	if err != nil {
		return nil, err
	}
	off += 4
	for i := uint32(0); i < numFacet; i++ {
		fieldID, err := common.ReadU32(data, off)
		if err != nil {
			return nil, err
		}
		off += 4
		f, ok := sch.FieldByID(fieldID)
		if !ok {
			return nil, common.Corruptf("segment: document references unknown field %d", fieldID)
		}
		n, adv, err := common.Uvarint(data, off)
		if err != nil {
			return nil, err
		}
		off += adv
		if off+int(n) > len(data) {
			return nil, common.Corruptf("segment: document facet bytes truncated")
		}
		doc.AddFacet(f, facet.FromEncoded(data[off:off+int(n)]))
		off += int(n)
	}

	return doc, nil
}
