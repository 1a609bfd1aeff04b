// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package treemap

import "github.com/cockroachdb/collections/pkg/ordered"

// Set is a comparator-ordered set over the same red-black tree as Map.
// Not safe for concurrent use.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet creates an empty Set ordered by cmp.
func NewSet[K any](cmp ordered.Comparator[K]) (*Set[K], error) {
	m, err := New[K, struct{}](cmp)
	if err != nil {
		return nil, err
	}
	return &Set[K]{m: m}, nil
}

// Len returns the number of elements.
func (s *Set[K]) Len() int { return s.m.Len() }

// Add inserts key and reports whether it was absent.
func (s *Set[K]) Add(key K) (bool, error) {
	_, replaced, err := s.m.Put(key, struct{}{})
	return !replaced, err
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool { return s.m.ContainsKey(key) }

// Remove deletes key and reports whether it was present.
func (s *Set[K]) Remove(key K) (bool, error) {
	_, ok, err := s.m.Remove(key)
	return ok, err
}

// First returns the smallest element.
func (s *Set[K]) First() (K, bool) { return keyOf(s.m.First()) }

// Last returns the largest element.
func (s *Set[K]) Last() (K, bool) { return keyOf(s.m.Last()) }

// Floor returns the largest element <= key.
func (s *Set[K]) Floor(key K) (K, bool) { return keyOf(s.m.Floor(key)) }

// Ceiling returns the smallest element >= key.
func (s *Set[K]) Ceiling(key K) (K, bool) { return keyOf(s.m.Ceiling(key)) }

// Lower returns the largest element < key.
func (s *Set[K]) Lower(key K) (K, bool) { return keyOf(s.m.Lower(key)) }

// Higher returns the smallest element > key.
func (s *Set[K]) Higher(key K) (K, bool) { return keyOf(s.m.Higher(key)) }

func keyOf[K any](k K, _ struct{}, ok bool) (K, bool) { return k, ok }

// Range calls fn for each element in order until fn returns false.
func (s *Set[K]) Range(fn func(key K) bool) {
	s.m.Range(func(k K, _ struct{}) bool { return fn(k) })
}

// Iter returns a fail-fast iterator in increasing order.
func (s *Set[K]) Iter() *SetIter[K] {
	return &SetIter[K]{it: s.m.Iter()}
}

// SetIter iterates a Set in increasing order.
type SetIter[K any] struct {
	it *Iter[K, struct{}]
}

// Next advances to the next element, returning false at the end or on a
// detected concurrent modification.
func (it *SetIter[K]) Next() bool { return it.it.Next() }

// Cur returns the element the iterator is positioned on.
func (it *SetIter[K]) Cur() K {
	k, _ := it.it.Cur()
	return k
}

// Remove removes the element the iterator is positioned on.
func (it *SetIter[K]) Remove() error { return it.it.Remove() }

// Err returns the fault that stopped iteration, if any.
func (it *SetIter[K]) Err() error { return it.it.Err() }
