// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package vector

import (
	"testing"

	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBasic(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	require.Equal(t, 0, v.Len())

	for i := 0; i < 100; i++ {
		require.NoError(t, v.Append(i))
	}
	require.Equal(t, 100, v.Len())
	for i := 0; i < 100; i++ {
		require.Equal(t, i, v.Get(i))
	}

	v.Set(10, -1)
	require.Equal(t, -1, v.Get(10))

	require.Equal(t, -1, v.RemoveAt(10))
	require.Equal(t, 99, v.Len())
	require.Equal(t, 11, v.Get(10))

	require.NoError(t, v.Insert(0, 1000))
	require.Equal(t, 1000, v.Get(0))
	require.Equal(t, 0, v.Get(1))
	require.Equal(t, 100, v.Len())
}

func TestVectorStack(t *testing.T) {
	v, err := New[string]()
	require.NoError(t, err)

	_, ok := v.Pop()
	require.False(t, ok)
	_, ok = v.Peek()
	require.False(t, ok)

	require.NoError(t, v.Push("a"))
	require.NoError(t, v.Push("b"))
	top, ok := v.Peek()
	require.True(t, ok)
	require.Equal(t, "b", top)

	got, ok := v.Pop()
	require.True(t, ok)
	require.Equal(t, "b", got)
	got, ok = v.Pop()
	require.True(t, ok)
	require.Equal(t, "a", got)
	_, ok = v.Pop()
	require.False(t, ok)
}

func TestVectorBounded(t *testing.T) {
	v, err := New[int](WithMaxLen[int](2))
	require.NoError(t, err)
	require.NoError(t, v.Append(1))
	require.NoError(t, v.Append(2))

	err = v.Append(3)
	require.True(t, fault.Is(err, fault.CapacityOverflow))
	err = v.Insert(0, 3)
	require.True(t, fault.Is(err, fault.CapacityOverflow))

	// Removal frees a slot.
	v.RemoveAt(0)
	require.NoError(t, v.Append(3))
}

func TestVectorOptionValidation(t *testing.T) {
	_, err := New[int](WithMaxLen[int](0))
	require.Error(t, err)
	_, err = New[int](WithCapacity[int](-1))
	require.Error(t, err)

	v, err := New[int](WithCapacity[int](64))
	require.NoError(t, err)
	require.Equal(t, 64, v.Cap())
}

func TestVectorIndexPanics(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, v.Append(1))
	require.Panics(t, func() { v.Get(1) })
	require.Panics(t, func() { v.Set(-1, 0) })
	require.Panics(t, func() { v.RemoveAt(5) })
	require.Panics(t, func() { _ = v.Insert(2, 0) })
}

func TestVectorIter(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, v.Append(i))
	}

	var got []int
	it := v.Iter()
	for it.Next() {
		got = append(got, it.Cur())
	}
	require.NoError(t, it.Err())
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestVectorIterFailFast(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, v.Append(i))
	}

	it := v.Iter()
	require.True(t, it.Next())
	require.NoError(t, v.Append(5))
	require.False(t, it.Next())
	require.True(t, fault.Is(it.Err(), fault.ConcurrentModification))
	require.Equal(t, fault.Defect, fault.ClassOf(it.Err()))

	// Value replacement is not structural.
	it = v.Iter()
	require.True(t, it.Next())
	v.Set(0, 100)
	require.True(t, it.Next())
	require.NoError(t, it.Err())
}

func TestVectorIterRemove(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		require.NoError(t, v.Append(i))
	}

	// Remove the even elements through the iterator.
	it := v.Iter()
	for it.Next() {
		if it.Cur()%2 == 0 {
			require.NoError(t, it.Remove())
		}
	}
	require.NoError(t, it.Err())

	var got []int
	v.Range(func(_ int, e int) bool {
		got = append(got, e)
		return true
	})
	assert.Equal(t, []int{1, 3, 5}, got)
}

func TestVectorClone(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, v.Append(1))
	require.NoError(t, v.Append(2))

	c := v.Clone()
	require.NoError(t, c.Append(3))
	require.Equal(t, 2, v.Len())
	require.Equal(t, 3, c.Len())
	v.Set(0, -1)
	require.Equal(t, 1, c.Get(0))
}
