// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package hashmap

import (
	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/hasher"
)

// Set is a hash set over the same chained table as Map. Not safe for
// concurrent use.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet creates an empty Set using the supplied Hasher.
func NewSet[K any](h hasher.Hasher[K], opts ...Option[K, struct{}]) (*Set[K], error) {
	m, err := New[K, struct{}](h, opts...)
	if err != nil {
		return nil, err
	}
	return &Set[K]{m: m}, nil
}

// Len returns the number of elements.
func (s *Set[K]) Len() int { return s.m.Len() }

// Add inserts key and reports whether it was absent.
func (s *Set[K]) Add(key K) bool {
	_, replaced := s.m.Put(key, struct{}{})
	return !replaced
}

// AddStrict inserts key, failing with a duplicate-key fault if it is
// already present.
func (s *Set[K]) AddStrict(key K) error {
	if !s.Add(key) {
		return fault.Newf(fault.DuplicateKey, "key already present")
	}
	return nil
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool { return s.m.ContainsKey(key) }

// Remove deletes key and reports whether it was present.
func (s *Set[K]) Remove(key K) bool {
	_, ok := s.m.Remove(key)
	return ok
}

// Clear removes all elements.
func (s *Set[K]) Clear() { s.m.Clear() }

// Range calls fn for each element until fn returns false. The set must
// not be structurally mutated during Range.
func (s *Set[K]) Range(fn func(key K) bool) {
	s.m.Range(func(k K, _ struct{}) bool { return fn(k) })
}

// Iter returns a fail-fast iterator over the set's elements, in
// unspecified order.
func (s *Set[K]) Iter() *SetIter[K] {
	return &SetIter[K]{it: s.m.Iter()}
}

// SetIter iterates a Set.
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
