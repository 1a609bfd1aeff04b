// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package ring provides a double-ended queue maintained over a ring
// buffer.
package ring

import (
	"github.com/cockroachdb/collections/pkg/iterutil"
)

// Buffer is a deque maintained over a ring buffer.
//
// Note: it is backed by a slice (unlike container/ring which is backed
// by a linked list). Push and pop at either end are amortized O(1); the
// buffer grows by doubling reallocation, recentering the indices. Not
// safe for concurrent use.
type Buffer[T any] struct {
	buffer []T
	head   int // the index of the front of the buffer
	tail   int // the index of the first position after the end of the buffer

	// Indicates whether the buffer is empty. Necessary to distinguish
	// between an empty buffer and a buffer that uses all of its capacity.
	nonEmpty bool

	gen iterutil.Gen
}

// Len returns the number of elements in the Buffer.
func (r *Buffer[T]) Len() int {
	if !r.nonEmpty {
		return 0
	}
	if r.head < r.tail {
		return r.tail - r.head
	} else if r.head == r.tail {
		return cap(r.buffer)
	} else {
		return cap(r.buffer) + r.tail - r.head
	}
}

// Cap returns the capacity of the Buffer.
func (r *Buffer[T]) Cap() int {
	return cap(r.buffer)
}

// Get returns the element at position pos in the Buffer (zero-based
// from the front). It panics if pos is out of bounds.
func (r *Buffer[T]) Get(pos int) T {
	if !r.nonEmpty || pos < 0 || pos >= r.Len() {
		panic("index out of bounds")
	}
	return r.buffer[(pos+r.head)%cap(r.buffer)]
}

// GetFirst returns the element at the front of the Buffer. It panics if
// the Buffer is empty; see PeekFirst for the non-panicking variant.
func (r *Buffer[T]) GetFirst() T {
	if !r.nonEmpty {
		panic("getting first from empty ring buffer")
	}
	return r.buffer[r.head]
}

// GetLast returns the element at the end of the Buffer. It panics if
// the Buffer is empty; see PeekLast for the non-panicking variant.
func (r *Buffer[T]) GetLast() T {
	if !r.nonEmpty {
		panic("getting last from empty ring buffer")
	}
	return r.buffer[(cap(r.buffer)+r.tail-1)%cap(r.buffer)]
}

// PeekFirst returns the element at the front of the Buffer, with false
// if the Buffer is empty.
func (r *Buffer[T]) PeekFirst() (T, bool) {
	if !r.nonEmpty {
		var zero T
		return zero, false
	}
	return r.buffer[r.head], true
}

// PeekLast returns the element at the end of the Buffer, with false if
// the Buffer is empty.
func (r *Buffer[T]) PeekLast() (T, bool) {
	if !r.nonEmpty {
		var zero T
		return zero, false
	}
	return r.buffer[(cap(r.buffer)+r.tail-1)%cap(r.buffer)], true
}

// grow reallocates the buffer to capacity n and recenters the elements
// at the front. The buffer need not be full: Reserve grows partially
// full (or emptied) buffers too.
func (r *Buffer[T]) grow(n int) {
	newBuffer := make([]T, n)
	length := r.Len()
	if r.nonEmpty {
		if r.head < r.tail {
			copy(newBuffer, r.buffer[r.head:r.tail])
		} else {
			copied := copy(newBuffer, r.buffer[r.head:])
			copy(newBuffer[copied:], r.buffer[:r.tail])
		}
	}
	r.head = 0
	r.tail = length % n
	r.buffer = newBuffer
}

func (r *Buffer[T]) maybeGrow() {
	if r.Len() != cap(r.buffer) {
		return
	}
	n := 2 * cap(r.buffer)
	if n == 0 {
		n = 1
	}
	r.grow(n)
}

// AddFirst adds element to the front of the Buffer and doubles its
// underlying slice if necessary.
func (r *Buffer[T]) AddFirst(element T) {
	r.maybeGrow()
	r.head = (cap(r.buffer) + r.head - 1) % cap(r.buffer)
	r.buffer[r.head] = element
	r.nonEmpty = true
	r.gen.Bump()
}

// AddLast adds element to the end of the Buffer and doubles its
// underlying slice if necessary.
func (r *Buffer[T]) AddLast(element T) {
	r.maybeGrow()
	r.buffer[r.tail] = element
	r.tail = (r.tail + 1) % cap(r.buffer)
	r.nonEmpty = true
	r.gen.Bump()
}

// RemoveFirst removes a single element from the front of the Buffer. It
// panics if the Buffer is empty; see PopFirst for the non-panicking
// variant.
func (r *Buffer[T]) RemoveFirst() {
	if r.Len() == 0 {
		panic("removing first from empty ring buffer")
	}
	var zero T
	r.buffer[r.head] = zero
	r.head = (r.head + 1) % cap(r.buffer)
	if r.head == r.tail {
		r.nonEmpty = false
	}
	r.gen.Bump()
}

// RemoveLast removes a single element from the end of the Buffer. It
// panics if the Buffer is empty; see PopLast for the non-panicking
// variant.
func (r *Buffer[T]) RemoveLast() {
	if r.Len() == 0 {
		panic("removing last from empty ring buffer")
	}
	lastPos := (cap(r.buffer) + r.tail - 1) % cap(r.buffer)
	var zero T
	r.buffer[lastPos] = zero
	r.tail = lastPos
	if r.tail == r.head {
		r.nonEmpty = false
	}
	r.gen.Bump()
}

// PopFirst removes and returns the element at the front of the Buffer,
// with false if the Buffer is empty.
func (r *Buffer[T]) PopFirst() (T, bool) {
	e, ok := r.PeekFirst()
	if ok {
		r.RemoveFirst()
	}
	return e, ok
}

// PopLast removes and returns the element at the end of the Buffer,
// with false if the Buffer is empty.
func (r *Buffer[T]) PopLast() (T, bool) {
	e, ok := r.PeekLast()
	if ok {
		r.RemoveLast()
	}
	return e, ok
}

// Reserve reserves the provided number of elements in the Buffer. It is
// an error to reserve a size less than the Buffer's current length.
func (r *Buffer[T]) Reserve(n int) {
	if n < r.Len() {
		panic("reserving fewer elements than current length")
	} else if n > cap(r.buffer) {
		r.grow(n)
	}
}

// Reset makes Buffer treat its underlying memory as if it were empty.
// This allows for reusing the same memory again without explicitly
// removing old elements.
func (r *Buffer[T]) Reset() {
	r.head = 0
	r.tail = 0
	r.nonEmpty = false
	r.gen.Bump()
}

// Iter returns a fail-fast iterator over the Buffer from front to back.
func (r *Buffer[T]) Iter() *Iter[T] {
	return &Iter[T]{r: r, pos: -1, snap: r.gen.Snap()}
}

// Iter iterates a Buffer from front to back. Structural mutation of the
// Buffer while the iterator is live surfaces as a fault from Err.
type Iter[T any] struct {
	r    *Buffer[T]
	pos  int
	snap iterutil.Snap
	err  error
}

// Next advances to the next element, returning false at the end or on a
// detected concurrent modification.
func (it *Iter[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.err = it.snap.Check(); it.err != nil {
		return false
	}
	if it.pos+1 >= it.r.Len() {
		return false
	}
	it.pos++
	return true
}

// Cur returns the element the iterator is positioned on.
func (it *Iter[T]) Cur() T { return it.r.Get(it.pos) }

// Err returns the fault that stopped iteration, if any.
func (it *Iter[T]) Err() error { return it.err }
