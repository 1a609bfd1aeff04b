// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package hashmap

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/hasher"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newStringMap(t testing.TB, opts ...Option[string, int]) *Map[string, int] {
	m, err := New[string, int](hasher.OfString(), opts...)
	require.NoError(t, err)
	return m
}

func TestMapPutGetRemove(t *testing.T) {
	m := newStringMap(t)

	_, ok := m.Get("a")
	require.False(t, ok)
	require.False(t, m.ContainsKey("a"))

	prev, replaced := m.Put("a", 1)
	require.False(t, replaced)
	require.Zero(t, prev)
	require.Equal(t, 1, m.Len())

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	prev, replaced = m.Put("a", 3)
	require.True(t, replaced)
	require.Equal(t, 1, prev)
	require.Equal(t, 1, m.Len())

	v, ok = m.Remove("a")
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 0, m.Len())
	_, ok = m.Remove("a")
	require.False(t, ok)
}

func TestMapOverwriteScenario(t *testing.T) {
	m := newStringMap(t)
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("a", 3)
	require.Equal(t, 2, m.Len())
	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

// TestMapSizeMatchesDistinctKeys drives a random put/remove sequence
// against the built-in map as an oracle: Len always equals the number
// of distinct keys present.
func TestMapSizeMatchesDistinctKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := newStringMap(t)
	oracle := map[string]int{}
	for i := 0; i < 20000; i++ {
		k := fmt.Sprintf("key-%d", rng.Intn(500))
		if rng.Intn(3) < 2 {
			_, replaced := m.Put(k, i)
			_, had := oracle[k]
			require.Equal(t, had, replaced)
			oracle[k] = i
		} else {
			v, ok := m.Remove(k)
			want, had := oracle[k]
			require.Equal(t, had, ok)
			if had {
				require.Equal(t, want, v)
			}
			delete(oracle, k)
		}
		require.Equal(t, len(oracle), m.Len())
	}
	// Everything the oracle holds is retrievable.
	for k, want := range oracle {
		v, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

func TestMapGrowth(t *testing.T) {
	m := newStringMap(t)
	const n = 10000
	for i := 0; i < n; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, n, m.Len())
	// Bucket count stays a power of two and occupancy stays under the
	// load factor.
	require.Equal(t, 0, len(m.buckets)&(len(m.buckets)-1))
	require.LessOrEqual(t, float64(m.Len()), m.loadFactor*float64(len(m.buckets)))
	for i := 0; i < n; i++ {
		v, ok := m.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestMapWithCapacityDoesNotResize(t *testing.T) {
	m := newStringMap(t, WithCapacity[string, int](1000))
	buckets := len(m.buckets)
	for i := 0; i < 1000; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, buckets, len(m.buckets))
}

func TestMapValidation(t *testing.T) {
	_, err := New[string, int](hasher.Hasher[string]{})
	require.Error(t, err)
	_, err = New[string, int](hasher.OfString(), WithLoadFactor[string, int](0))
	require.Error(t, err)
	_, err = New[string, int](hasher.OfString(), WithLoadFactor[string, int](1.5))
	require.Error(t, err)
	_, err = New[string, int](hasher.OfString(), WithCapacity[string, int](-1))
	require.Error(t, err)
}

func TestMapClear(t *testing.T) {
	m := newStringMap(t)
	m.Put("a", 1)
	m.Put("b", 2)
	m.Clear()
	require.Equal(t, 0, m.Len())
	_, ok := m.Get("a")
	require.False(t, ok)
	m.Put("a", 1)
	require.Equal(t, 1, m.Len())
}

func TestMapClearEmptyKeepsIteratorsValid(t *testing.T) {
	m := newStringMap(t)
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iter()
	require.True(t, it.Next())
	m.Clear() // removes entries: structural
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))

	it = m.Iter()
	m.Clear() // already empty: not structural
	require.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestMapIter(t *testing.T) {
	m := newStringMap(t)
	want := map[string]int{}
	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("k%d", i)
		m.Put(k, i)
		want[k] = i
	}

	got := map[string]int{}
	it := m.Iter()
	for it.Next() {
		k, v := it.Cur()
		got[k] = v
	}
	require.NoError(t, it.Err())
	require.Equal(t, want, got)
}

// TestMapIterOrderStableBetweenMutations checks that two iterations
// with no intervening structural mutation produce the same order.
// Value replacement is not structural, so it must not disturb order.
func TestMapIterOrderStableBetweenMutations(t *testing.T) {
	m := newStringMap(t)
	for i := 0; i < 100; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}

	order := func() []string {
		var keys []string
		it := m.Iter()
		for it.Next() {
			k, _ := it.Cur()
			keys = append(keys, k)
		}
		require.NoError(t, it.Err())
		return keys
	}

	first := order()
	m.Put("k5", -1) // replacement
	require.Equal(t, first, order())
}

func TestMapIterFailFast(t *testing.T) {
	m := newStringMap(t)
	m.Put("a", 1)
	m.Put("b", 2)

	// Structural mutation trips the iterator.
	it := m.Iter()
	require.True(t, it.Next())
	m.Put("c", 3)
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))
	require.Equal(t, fault.Defect, fault.ClassOf(it.Err()))

	// Removal trips it too.
	it = m.Iter()
	require.True(t, it.Next())
	m.Remove("c")
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))

	// Replacement does not.
	it = m.Iter()
	require.True(t, it.Next())
	m.Put("a", 100)
	require.True(t, it.Next())
	require.NoError(t, it.Err())
}

func TestMapIterRemove(t *testing.T) {
	m := newStringMap(t)
	for i := 0; i < 100; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}

	// Remove every odd value through the iterator.
	it := m.Iter()
	for it.Next() {
		if _, v := it.Cur(); v%2 == 1 {
			require.NoError(t, it.Remove())
		}
	}
	require.NoError(t, it.Err())
	require.Equal(t, 50, m.Len())
	for i := 0; i < 100; i++ {
		_, ok := m.Get(fmt.Sprintf("k%d", i))
		require.Equal(t, i%2 == 0, ok, "key k%d", i)
	}
}

func BenchmarkMapPut(b *testing.B) {
	m := newStringMap(b)
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Put(keys[i%len(keys)], i)
	}
}

func BenchmarkMapGet(b *testing.B) {
	m := newStringMap(b)
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		m.Put(keys[i], i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(keys[i%len(keys)])
	}
}
