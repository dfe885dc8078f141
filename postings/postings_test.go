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

package postings_test

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/docset"
	"github.com/ferret-search/ferret/postings"
	"github.com/ferret-search/ferret/termdict"
)

func TestPostingsRoundTrip(t *testing.T) {
	w := postings.NewWriter(true)
	docs := []docset.DocID{1, 3, 4, 9, 20}
	freqs := []uint32{1, 2, 1, 5, 3}
	for i, d := range docs {
		require.NoError(t, w.Add(d, freqs[i]))
	}
	require.Equal(t, uint32(len(docs)), w.DocFreq())

	l := postings.Open(w.Bytes(), true, nil)
	var gotDocs []docset.DocID
	var gotFreqs []uint32
	for l.Advance() {
		gotDocs = append(gotDocs, l.Doc())
		gotFreqs = append(gotFreqs, l.TermFreq())
	}
	require.Equal(t, docs, gotDocs)
	require.Equal(t, freqs, gotFreqs)
}

func TestPostingsWithDeleteBitmap(t *testing.T) {
	w := postings.NewWriter(false)
	for _, d := range []docset.DocID{1, 2, 3, 4, 5} {
		require.NoError(t, w.Add(d, 1))
	}
	except := roaring.New()
	except.AddMany([]uint32{2, 4})

	l := postings.Open(w.Bytes(), false, except)
	var got []docset.DocID
	for l.Advance() {
		got = append(got, l.Doc())
	}
	require.Equal(t, []docset.DocID{1, 3, 5}, got)
}

func TestInvertedIndexReader(t *testing.T) {
	var postingsBuf []byte
	dw := termdict.NewWriter(0, nil)

	addTerm := func(term string, docs []docset.DocID) {
		pw := postings.NewWriter(true)
		for _, d := range docs {
			require.NoError(t, pw.Add(d, 1))
		}
		offset := uint64(len(postingsBuf))
		postingsBuf = append(postingsBuf, pw.Bytes()...)
		require.NoError(t, dw.Insert([]byte(term), termdict.TermInfo{
			DocFreq:        pw.DocFreq(),
			PostingsOffset: offset,
			PostingsLen:    uint64(len(pw.Bytes())),
		}))
	}

	addTerm("alpha", []docset.DocID{1, 2, 3})
	addTerm("beta", []docset.DocID{2, 4})

	data, err := dw.Finish()
	require.NoError(t, err)
	dict, err := termdict.Open(data)
	require.NoError(t, err)

	reader := postings.NewInvertedIndexReader(dict, postingsBuf, nil, postings.OptionFreq)

	list, ok, err := reader.Postings([]byte("alpha"), postings.OptionFreq, nil)
	require.NoError(t, err)
	require.True(t, ok)
	var got []docset.DocID
	for list.Advance() {
		got = append(got, list.Doc())
	}
	require.Equal(t, []docset.DocID{1, 2, 3}, got)

	_, ok, err = reader.Postings([]byte("missing"), postings.OptionFreq, nil)
	require.NoError(t, err)
	require.False(t, ok)

	freq, err := reader.DocFreq([]byte("beta"))
	require.NoError(t, err)
	require.Equal(t, uint32(2), freq)
}

func TestInvertedIndexReaderOptionMatrix(t *testing.T) {
	pw := postings.NewWriter(true)
	for _, d := range []docset.DocID{1, 2} {
		require.NoError(t, pw.Add(d, 7))
	}
	dw := termdict.NewWriter(0, nil)
	require.NoError(t, dw.Insert([]byte("term"), termdict.TermInfo{
		DocFreq:        pw.DocFreq(),
		PostingsOffset: 0,
		PostingsLen:    uint64(len(pw.Bytes())),
	}))
	data, err := dw.Finish()
	require.NoError(t, err)
	dict, err := termdict.Open(data)
	require.NoError(t, err)

	// Field indexes freq, but the query only requests basic: freq must be
	// skipped even though the field could supply it.
	reader := postings.NewInvertedIndexReader(dict, pw.Bytes(), nil, postings.OptionFreq)
	list, ok, err := reader.Postings([]byte("term"), postings.OptionBasic, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, list.Advance())
	require.Equal(t, uint32(1), list.TermFreq())

	// Field indexes only basic: freq must never be read, even if the
	// query asks for it.
	basicPW := postings.NewWriter(false)
	for _, d := range []docset.DocID{1, 2} {
		require.NoError(t, basicPW.Add(d, 1))
	}
	basicDW := termdict.NewWriter(0, nil)
	require.NoError(t, basicDW.Insert([]byte("term"), termdict.TermInfo{
		DocFreq:     basicPW.DocFreq(),
		PostingsLen: uint64(len(basicPW.Bytes())),
	}))
	basicData, err := basicDW.Finish()
	require.NoError(t, err)
	basicDict, err := termdict.Open(basicData)
	require.NoError(t, err)

	basicReader := postings.NewInvertedIndexReader(basicDict, basicPW.Bytes(), nil, postings.OptionBasic)
	basicList, ok, err := basicReader.Postings([]byte("term"), postings.OptionPositions, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, basicList.Advance())
	require.Equal(t, uint32(1), basicList.TermFreq())
}

func TestInvertedIndexReaderPositions(t *testing.T) {
	pw := postings.NewWriter(true)
	require.NoError(t, pw.Add(1, 2))
	require.NoError(t, pw.Add(2, 3))

	posW := postings.NewPositionsWriter()
	offset, length, err := posW.AddTerm([][]uint32{{0, 5}, {1, 2, 9}})
	require.NoError(t, err)

	dw := termdict.NewWriter(0, nil)
	require.NoError(t, dw.Insert([]byte("term"), termdict.TermInfo{
		DocFreq:         pw.DocFreq(),
		PostingsLen:     uint64(len(pw.Bytes())),
		PositionsOffset: offset,
		PositionsLen:    length,
	}))
	data, err := dw.Finish()
	require.NoError(t, err)
	dict, err := termdict.Open(data)
	require.NoError(t, err)

	reader := postings.NewInvertedIndexReader(dict, pw.Bytes(), posW.Bytes(), postings.OptionPositions)
	list, ok, err := reader.Postings([]byte("term"), postings.OptionPositions, nil)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, list.Advance())
	require.Equal(t, []uint32{0, 5}, list.Positions())
	require.True(t, list.Advance())
	require.Equal(t, []uint32{1, 2, 9}, list.Positions())
	require.False(t, list.Advance())
}
