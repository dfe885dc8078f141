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

package fst_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/fst"
)

func buildDictionary(t *testing.T, blockSize int, keys []string, values []string) *fst.Dictionary {
	t.Helper()
	w := fst.NewWriter(blockSize, nil)
	for i, k := range keys {
		require.NoError(t, w.Insert([]byte(k), []byte(values[i])))
	}
	data, err := w.Finish()
	require.NoError(t, err)
	d, err := fst.Open(data)
	require.NoError(t, err)
	return d
}

func TestEmptyDictionary(t *testing.T) {
	w := fst.NewWriter(0, nil)
	data, err := w.Finish()
	require.NoError(t, err)
	d, err := fst.Open(data)
	require.NoError(t, err)
	require.True(t, d.IsEmpty())
	_, ok, err := d.Get([]byte("anything"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetRoundTrip(t *testing.T) {
	keys := []string{"apple", "banana", "cherry", "date", "fig", "grape"}
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = fmt.Sprintf("value-of-%s", k)
	}
	d := buildDictionary(t, fst.DefaultBlockSize, keys, values)

	for i, k := range keys {
		v, ok, err := d.Get([]byte(k))
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, len(v) >= len(values[i]))
		require.Equal(t, values[i], string(v[:len(values[i])]))
	}

	_, ok, err := d.Get([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

// TestCascade forces many small blocks by using a tiny block size, so the
// writer must build multiple cascade levels, exercising the ge(k)-descent
// lookup protocol end to end.
func TestCascade(t *testing.T) {
	const n = 500
	keys := make([]string, n)
	values := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("key-%04d", i)
		values[i] = fmt.Sprintf("val-%04d", i)
	}
	d := buildDictionary(t, 64, keys, values)

	for i := 0; i < n; i++ {
		v, ok, err := d.Get([]byte(keys[i]))
		require.NoErrorf(t, err, "key %s", keys[i])
		require.Truef(t, ok, "key %s", keys[i])
		require.Equal(t, values[i], string(v[:len(values[i])]))
	}
}

func TestStreamFullRange(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	values := []string{"1", "2", "3", "4", "5"}
	d := buildDictionary(t, 32, keys, values)

	s, err := d.Stream(nil, nil)
	require.NoError(t, err)
	var got []string
	for s.Advance() {
		got = append(got, string(s.Key()))
	}
	require.NoError(t, s.Err())
	require.Equal(t, keys, got)
}

func TestStreamRangeBound(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	values := []string{"1", "2", "3", "4", "5"}
	d := buildDictionary(t, 32, keys, values)

	s, err := d.Stream([]byte("b"), []byte("e"))
	require.NoError(t, err)
	var got []string
	for s.Advance() {
		got = append(got, string(s.Key()))
	}
	require.Equal(t, []string{"b", "c", "d"}, got)
}

func TestInsertOutOfOrderPanics(t *testing.T) {
	w := fst.NewWriter(0, nil)
	require.NoError(t, w.Insert([]byte("b"), []byte("1")))
	require.Panics(t, func() {
		_ = w.Insert([]byte("a"), []byte("2"))
	})
}
