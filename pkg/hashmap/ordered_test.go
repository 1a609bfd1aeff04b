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
)

func orderedKeys[K, V any](m *OrderedMap[K, V]) []K {
	var keys []K
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func TestOrderedMapInsertionOrder(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString())
	require.NoError(t, err)

	m.Put("c", 3)
	m.Put("a", 1)
	m.Put("b", 2)
	require.Equal(t, []string{"c", "a", "b"}, orderedKeys(m))

	// Replacing a value keeps the entry where it is.
	m.Put("c", 30)
	require.Equal(t, []string{"c", "a", "b"}, orderedKeys(m))
	v, ok := m.Get("c")
	require.True(t, ok)
	require.Equal(t, 30, v)

	// Removing and re-inserting moves it to the back.
	m.Remove("c")
	m.Put("c", 3)
	require.Equal(t, []string{"a", "b", "c"}, orderedKeys(m))
}

func TestOrderedMapAccessOrder(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString(), WithAccessOrder[string, int]())
	require.NoError(t, err)

	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	// A hit moves the entry to the back of the order.
	_, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, []string{"b", "c", "a"}, orderedKeys(m))

	// A miss does not disturb the order.
	_, ok = m.Get("zzz")
	require.False(t, ok)
	require.Equal(t, []string{"b", "c", "a"}, orderedKeys(m))

	// ContainsKey never reorders.
	require.True(t, m.ContainsKey("b"))
	require.Equal(t, []string{"b", "c", "a"}, orderedKeys(m))

	// Replacement via Put keeps the entry where it is even in access
	// order; only lookups count as accesses.
	m.Put("b", 20)
	require.Equal(t, []string{"b", "c", "a"}, orderedKeys(m))
}

func TestOrderedMapFirstLast(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString())
	require.NoError(t, err)

	_, _, ok := m.First()
	require.False(t, ok)
	_, _, ok = m.Last()
	require.False(t, ok)

	m.Put("a", 1)
	m.Put("b", 2)

	k, v, ok := m.First()
	require.True(t, ok)
	require.Equal(t, "a", k)
	require.Equal(t, 1, v)

	k, v, ok = m.Last()
	require.True(t, ok)
	require.Equal(t, "b", k)
	require.Equal(t, 2, v)
}

// TestOrderedMapLRUEviction exercises the caller-driven eviction loop an
// access-ordered map is meant for: keep the four most recently used keys.
func TestOrderedMapLRUEviction(t *testing.T) {
	const capacity = 4
	m, err := NewOrdered[int, int](hasher.OfInt(), WithAccessOrder[int, int]())
	require.NoError(t, err)

	touch := func(k int) {
		if _, ok := m.Get(k); !ok {
			m.Put(k, k)
			for m.Len() > capacity {
				m.RemoveFirst()
			}
		}
	}

	for k := 0; k < 8; k++ {
		touch(k)
	}
	// 0..3 were evicted in insertion order.
	require.Equal(t, []int{4, 5, 6, 7}, orderedKeys(m))

	touch(4) // refresh
	touch(8) // evicts 5, the least recently used
	require.Equal(t, []int{6, 7, 4, 8}, orderedKeys(m))
	require.False(t, m.ContainsKey(5))
}

func TestOrderedMapOrderSurvivesGrowth(t *testing.T) {
	m, err := NewOrdered[int, int](hasher.OfInt())
	require.NoError(t, err)
	const n = 1000
	for i := 0; i < n; i++ {
		m.Put(i, i)
	}
	keys := orderedKeys(m)
	require.Len(t, keys, n)
	for i, k := range keys {
		require.Equal(t, i, k)
	}
}

func TestOrderedMapIter(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString())
	require.NoError(t, err)
	m.Put("x", 1)
	m.Put("y", 2)
	m.Put("z", 3)

	var got []string
	it := m.Iter()
	for it.Next() {
		k, v := it.Cur()
		got = append(got, fmt.Sprintf("%s=%d", k, v))
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{"x=1", "y=2", "z=3"}, got)
}

func TestOrderedMapIterFailFast(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString())
	require.NoError(t, err)
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iter()
	require.True(t, it.Next())
	m.Put("c", 3)
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))

	// Value replacement is not a structural change.
	it = m.Iter()
	require.True(t, it.Next())
	m.Put("a", 10)
	require.True(t, it.Next())
	require.NoError(t, it.Err())
}

func TestOrderedMapAccessOrderGetTripsIterators(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString(), WithAccessOrder[string, int]())
	require.NoError(t, err)
	m.Put("a", 1)
	m.Put("b", 2)

	// In access order a successful Get reorders the entries, which
	// invalidates in-flight iterators.
	it := m.Iter()
	require.True(t, it.Next())
	m.Get("a")
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))

	// A miss leaves them valid.
	it = m.Iter()
	require.True(t, it.Next())
	m.Get("zzz")
	require.True(t, it.Next())
	require.NoError(t, it.Err())
}

func TestOrderedMapClearEmptyKeepsIteratorsValid(t *testing.T) {
	m, err := NewOrdered[string, int](hasher.OfString())
	require.NoError(t, err)

	it := m.Iter()
	m.Clear() // already empty: not structural
	require.False(t, it.Next())
	require.NoError(t, it.Err())

	m.Put("a", 1)
	it = m.Iter()
	require.True(t, it.Next())
	m.Clear()
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))
}

func TestOrderedMapIterRemove(t *testing.T) {
	m, err := NewOrdered[int, int](hasher.OfInt())
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		m.Put(i, i)
	}

	it := m.Iter()
	for it.Next() {
		k, _ := it.Cur()
		if k%2 == 0 {
			require.NoError(t, it.Remove())
		}
	}
	require.NoError(t, it.Err())
	require.Equal(t, []int{1, 3, 5}, orderedKeys(m))

	// Remove without a preceding Next is misuse.
	it = m.Iter()
	require.Error(t, it.Remove())
}
