// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package vector provides a growable contiguous sequence with O(1)
// random access, amortized O(1) append, and fail-fast iteration. It is
// the array-backed base for stack and list usage.
package vector

import (
	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/iterutil"
	"github.com/cockroachdb/errors"
)

// Vector is a dynamic array. Use New to create one. Not safe for
// concurrent use.
type Vector[T any] struct {
	elems  []T
	maxLen int // 0 means unbounded
	gen    iterutil.Gen
}

// Option configures a Vector.
type Option[T any] func(*Vector[T]) error

// WithCapacity pre-allocates storage for n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(v *Vector[T]) error {
		if n < 0 {
			return errors.AssertionFailedf("negative capacity %d", n)
		}
		v.elems = make([]T, 0, n)
		return nil
	}
}

// WithMaxLen bounds the vector at n elements. Inserting into a full
// bounded vector fails with a capacity-overflow fault.
func WithMaxLen[T any](n int) Option[T] {
	return func(v *Vector[T]) error {
		if n <= 0 {
			return errors.AssertionFailedf("non-positive max length %d", n)
		}
		v.maxLen = n
		return nil
	}
}

// New creates an empty Vector.
func New[T any](opts ...Option[T]) (*Vector[T], error) {
	v := &Vector[T]{}
	for _, o := range opts {
		if err := o(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.elems) }

// Cap returns the capacity of the underlying storage.
func (v *Vector[T]) Cap() int { return cap(v.elems) }

// Get returns the element at position i. It panics if i is out of
// bounds, like indexing a slice.
func (v *Vector[T]) Get(i int) T {
	return v.elems[i]
}

// Set replaces the element at position i. Replacement is not a
// structural mutation; live iterators are unaffected. It panics if i is
// out of bounds.
func (v *Vector[T]) Set(i int, elem T) {
	v.elems[i] = elem
}

func (v *Vector[T]) full() bool {
	return v.maxLen > 0 && len(v.elems) >= v.maxLen
}

// Append adds an element at the end. Growth doubles the underlying
// storage, so a sequence of appends is amortized O(1).
func (v *Vector[T]) Append(elem T) error {
	if v.full() {
		return fault.Newf(fault.CapacityOverflow, "vector is at its bound of %d", v.maxLen)
	}
	v.elems = append(v.elems, elem)
	v.gen.Bump()
	return nil
}

// Insert adds an element at position i, shifting subsequent elements.
// i may equal Len(), which is equivalent to Append. O(n).
func (v *Vector[T]) Insert(i int, elem T) error {
	if i < 0 || i > len(v.elems) {
		panic("index out of bounds")
	}
	if v.full() {
		return fault.Newf(fault.CapacityOverflow, "vector is at its bound of %d", v.maxLen)
	}
	var zero T
	v.elems = append(v.elems, zero)
	copy(v.elems[i+1:], v.elems[i:])
	v.elems[i] = elem
	v.gen.Bump()
	return nil
}

// RemoveAt removes and returns the element at position i, shifting
// subsequent elements back. It panics if i is out of bounds. O(n).
func (v *Vector[T]) RemoveAt(i int) T {
	elem := v.elems[i]
	v.removeAt(i)
	return elem
}

func (v *Vector[T]) removeAt(i int) {
	copy(v.elems[i:], v.elems[i+1:])
	var zero T
	v.elems[len(v.elems)-1] = zero
	v.elems = v.elems[:len(v.elems)-1]
	v.gen.Bump()
}

// Push appends an element, using the vector as a stack.
func (v *Vector[T]) Push(elem T) error { return v.Append(elem) }

// Pop removes and returns the last element. The second return value is
// false if the vector is empty.
func (v *Vector[T]) Pop() (T, bool) {
	if len(v.elems) == 0 {
		var zero T
		return zero, false
	}
	return v.RemoveAt(len(v.elems) - 1), true
}

// Peek returns the last element without removing it.
func (v *Vector[T]) Peek() (T, bool) {
	if len(v.elems) == 0 {
		var zero T
		return zero, false
	}
	return v.elems[len(v.elems)-1], true
}

// Clear removes all elements, retaining capacity.
func (v *Vector[T]) Clear() {
	if len(v.elems) == 0 {
		return
	}
	var zero T
	for i := range v.elems {
		v.elems[i] = zero
	}
	v.elems = v.elems[:0]
	v.gen.Bump()
}

// Clone returns a copy sharing no storage with v. The clone starts with
// a fresh iteration generation.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{maxLen: v.maxLen}
	c.elems = append(c.elems, v.elems...)
	return c
}

// Range calls fn for each element in order until fn returns false. The
// vector must not be structurally mutated during Range.
func (v *Vector[T]) Range(fn func(i int, elem T) bool) {
	for i, e := range v.elems {
		if !fn(i, e) {
			return
		}
	}
}

// Iter returns a fail-fast iterator positioned before the first
// element.
func (v *Vector[T]) Iter() *Iter[T] {
	return &Iter[T]{v: v, pos: -1, snap: v.gen.Snap()}
}

// Iter iterates a Vector in index order. Use as:
//
//	it := v.Iter()
//	for it.Next() {
//		_ = it.Cur()
//	}
//	if err := it.Err(); err != nil { ... }
type Iter[T any] struct {
	v         *Vector[T]
	pos       int
	canRemove bool
	snap      iterutil.Snap
	err       error
}

// Next advances to the next element. It returns false at the end of the
// sequence or when the vector was structurally mutated since the
// iterator was created; Err distinguishes the two.
func (it *Iter[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.err = it.snap.Check(); it.err != nil {
		return false
	}
	if it.pos+1 >= len(it.v.elems) {
		return false
	}
	it.pos++
	it.canRemove = true
	return true
}

// Cur returns the element the iterator is positioned on. Only valid
// after a Next that returned true.
func (it *Iter[T]) Cur() T { return it.v.elems[it.pos] }

// Remove removes the element the iterator is positioned on. The
// iterator remains valid and continues with the following element.
func (it *Iter[T]) Remove() error {
	if it.err != nil {
		return it.err
	}
	if it.err = it.snap.Check(); it.err != nil {
		return it.err
	}
	if !it.canRemove {
		return errors.AssertionFailedf("Remove without a preceding Next")
	}
	it.canRemove = false
	it.v.removeAt(it.pos)
	it.pos--
	it.snap.Resync()
	return nil
}

// Err returns the fault that stopped iteration, if any.
func (it *Iter[T]) Err() error { return it.err }
