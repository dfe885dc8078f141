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

package store_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferret-search/ferret/common"
	"github.com/ferret-search/ferret/store"
)

func TestStoreRoundTripSmall(t *testing.T) {
	var buf bytes.Buffer
	w, err := store.NewWriter(common.NewCountingWriter(&buf), nil)
	require.NoError(t, err)

	docs := [][]byte{
		[]byte("first document"),
		[]byte("second, a little longer document"),
		[]byte("third"),
	}
	for _, d := range docs {
		require.NoError(t, w.Add(d))
	}
	count, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, uint32(len(docs)), count)

	r, err := store.Open(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(len(docs)), r.NumDocs())
	for i, want := range docs {
		got, err := r.Get(uint32(i))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// TestStoreMultiBlock forces several block flushes by writing documents
// that together fill the block size several times over (about ten per
// 16 KiB block), exercising the skip list.
func TestStoreMultiBlock(t *testing.T) {
	var buf bytes.Buffer
	w, err := store.NewWriter(common.NewCountingWriter(&buf), nil)
	require.NoError(t, err)

	const n = 50
	docs := make([][]byte, n)
	for i := 0; i < n; i++ {
		docs[i] = bytes.Repeat([]byte(fmt.Sprintf("doc-%03d-", i)), 200) // 1.6KB each
		require.NoError(t, w.Add(docs[i]))
	}
	_, err = w.Finish()
	require.NoError(t, err)

	r, err := store.Open(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(n), r.NumDocs())

	// Read out of order to exercise block-cache invalidation too.
	for _, i := range []int{0, n - 1, n / 2, 1, n - 2} {
		got, err := r.Get(uint32(i))
		require.NoError(t, err)
		require.Equal(t, docs[i], got)
	}
}

func TestStoreEmpty(t *testing.T) {
	var buf bytes.Buffer
	w, err := store.NewWriter(common.NewCountingWriter(&buf), nil)
	require.NoError(t, err)
	count, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, uint32(0), count)

	r, err := store.Open(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(0), r.NumDocs())
}
