// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package treemap

import (
	"testing"

	"github.com/cockroachdb/collections/pkg/ordered"
	"github.com/google/btree"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestSetAgainstBTree cross-checks the red-black set against an
// independent ordered-container implementation under a random workload.
func TestSetAgainstBTree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s, err := NewSet[int](ordered.Compare[int])
	require.NoError(t, err)
	oracle := btree.New(8)

	const ops = 20000
	for i := 0; i < ops; i++ {
		k := int(rng.Int31n(1000))
		switch rng.Int31n(4) {
		case 0, 1:
			added, err := s.Add(k)
			require.NoError(t, err)
			require.Equal(t, oracle.ReplaceOrInsert(btree.Int(k)) == nil, added)
		case 2:
			removed, err := s.Remove(k)
			require.NoError(t, err)
			require.Equal(t, oracle.Delete(btree.Int(k)) != nil, removed)
		case 3:
			require.Equal(t, oracle.Has(btree.Int(k)), s.Contains(k))
		}
	}
	require.Equal(t, oracle.Len(), s.Len())

	var want []int
	oracle.Ascend(func(item btree.Item) bool {
		want = append(want, int(item.(btree.Int)))
		return true
	})
	var got []int
	s.Range(func(k int) bool {
		got = append(got, k)
		return true
	})
	require.Equal(t, want, got)

	if oracle.Len() > 0 {
		k, ok := s.First()
		require.True(t, ok)
		require.Equal(t, int(oracle.Min().(btree.Int)), k)
		k, ok = s.Last()
		require.True(t, ok)
		require.Equal(t, int(oracle.Max().(btree.Int)), k)
	}
}
