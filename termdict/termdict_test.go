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

package termdict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/termdict"
)

func buildDict(t *testing.T, terms []string, freqs []uint32) *termdict.Dictionary {
	t.Helper()
	w := termdict.NewWriter(0, nil)
	for i, term := range terms {
		require.NoError(t, w.Insert([]byte(term), termdict.TermInfo{
			DocFreq:        freqs[i],
			PostingsOffset: uint64(i * 100),
			PostingsLen:    10,
		}))
	}
	data, err := w.Finish()
	require.NoError(t, err)
	d, err := termdict.Open(data)
	require.NoError(t, err)
	return d
}

func TestTermInfoRoundTrip(t *testing.T) {
	d := buildDict(t, []string{"apple", "banana", "cherry"}, []uint32{3, 7, 1})

	ti, ok, err := d.Get([]byte("banana"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(7), ti.DocFreq)
	require.Equal(t, uint64(100), ti.PostingsOffset)

	_, ok, err = d.Get([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRangeStream(t *testing.T) {
	d := buildDict(t, []string{"a", "b", "c", "d"}, []uint32{1, 2, 3, 4})
	r, err := d.Range(nil, nil)
	require.NoError(t, err)

	var terms []string
	for r.Advance() {
		terms = append(terms, string(r.Term()))
	}
	require.Equal(t, []string{"a", "b", "c", "d"}, terms)
}

func TestMerger(t *testing.T) {
	d1 := buildDict(t, []string{"apple", "cherry"}, []uint32{2, 1})
	d2 := buildDict(t, []string{"banana", "cherry", "date"}, []uint32{5, 3, 9})

	r1, err := d1.Range(nil, nil)
	require.NoError(t, err)
	r2, err := d2.Range(nil, nil)
	require.NoError(t, err)

	m := termdict.NewMerger([]*termdict.RangeStreamer{r1, r2})

	var merged []string
	docFreqSum := map[string]uint32{}
	for m.Advance() {
		term := string(m.Term())
		merged = append(merged, term)
		var sum uint32
		for _, e := range m.Elems() {
			sum += e.Info.DocFreq
		}
		docFreqSum[term] = sum
	}

	require.Equal(t, []string{"apple", "banana", "cherry", "date"}, merged)
	require.Equal(t, uint32(2), docFreqSum["apple"])
	require.Equal(t, uint32(5), docFreqSum["banana"])
	require.Equal(t, uint32(4), docFreqSum["cherry"]) // 1 + 3, merged from both segments
	require.Equal(t, uint32(9), docFreqSum["date"])
}
