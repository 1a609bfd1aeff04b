// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package heap provides an array-backed binary-heap priority queue keyed
// by a caller-supplied comparator.
package heap

import (
	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/iterutil"
	"github.com/cockroachdb/collections/pkg/ordered"
	"github.com/cockroachdb/errors"
)

// PriorityQueue is a min-heap over the order defined by its comparator:
// Poll returns the minimum remaining element. Ties between equal
// elements break in an arbitrary but stable-within-call order; no order
// is guaranteed across equal-priority elements. Not safe for concurrent
// use.
type PriorityQueue[T any] struct {
	elems  []T
	cmp    ordered.Comparator[T]
	maxLen int // 0 means unbounded
	gen    iterutil.Gen
}

// Option configures a PriorityQueue.
type Option[T any] func(*PriorityQueue[T]) error

// WithCapacity pre-allocates storage for n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(q *PriorityQueue[T]) error {
		if n < 0 {
			return errors.AssertionFailedf("negative capacity %d", n)
		}
		q.elems = make([]T, 0, n)
		return nil
	}
}

// WithMaxLen bounds the queue at n elements. Offering to a full bounded
// queue fails with a capacity-overflow fault.
func WithMaxLen[T any](n int) Option[T] {
	return func(q *PriorityQueue[T]) error {
		if n <= 0 {
			return errors.AssertionFailedf("non-positive max length %d", n)
		}
		q.maxLen = n
		return nil
	}
}

// New creates an empty PriorityQueue ordered by cmp.
func New[T any](cmp ordered.Comparator[T], opts ...Option[T]) (*PriorityQueue[T], error) {
	if cmp == nil {
		return nil, errors.AssertionFailedf("nil comparator")
	}
	q := &PriorityQueue[T]{cmp: cmp}
	for _, o := range opts {
		if err := o(q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Len returns the number of elements.
func (q *PriorityQueue[T]) Len() int { return len(q.elems) }

// Offer inserts an element. O(log n).
func (q *PriorityQueue[T]) Offer(elem T) error {
	if q.maxLen > 0 && len(q.elems) >= q.maxLen {
		return fault.Newf(fault.CapacityOverflow, "priority queue is at its bound of %d", q.maxLen)
	}
	q.elems = append(q.elems, elem)
	q.siftUp(len(q.elems) - 1)
	q.gen.Bump()
	return nil
}

// Peek returns the minimum element without removing it, with false if
// the queue is empty. O(1).
func (q *PriorityQueue[T]) Peek() (T, bool) {
	if len(q.elems) == 0 {
		var zero T
		return zero, false
	}
	return q.elems[0], true
}

// Poll removes and returns the minimum element, with false if the queue
// is empty. O(log n).
func (q *PriorityQueue[T]) Poll() (T, bool) {
	if len(q.elems) == 0 {
		var zero T
		return zero, false
	}
	min := q.elems[0]
	last := len(q.elems) - 1
	q.elems[0] = q.elems[last]
	var zero T
	q.elems[last] = zero
	q.elems = q.elems[:last]
	if last > 0 {
		q.siftDown(0)
	}
	q.gen.Bump()
	return min, true
}

// Clear removes all elements, retaining capacity.
func (q *PriorityQueue[T]) Clear() {
	if len(q.elems) == 0 {
		return
	}
	var zero T
	for i := range q.elems {
		q.elems[i] = zero
	}
	q.elems = q.elems[:0]
	q.gen.Bump()
}

// Children of i sit at 2i+1 and 2i+2; the parent of i at (i-1)/2. The
// heap invariant is parent <= both children per the comparator.

func (q *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if q.cmp(q.elems[i], q.elems[parent]) >= 0 {
			return
		}
		q.elems[i], q.elems[parent] = q.elems[parent], q.elems[i]
		i = parent
	}
}

func (q *PriorityQueue[T]) siftDown(i int) {
	n := len(q.elems)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && q.cmp(q.elems[left], q.elems[smallest]) < 0 {
			smallest = left
		}
		if right < n && q.cmp(q.elems[right], q.elems[smallest]) < 0 {
			smallest = right
		}
		if smallest == i {
			return
		}
		q.elems[i], q.elems[smallest] = q.elems[smallest], q.elems[i]
		i = smallest
	}
}

// Iter returns a fail-fast iterator over the backing array. Iteration
// order is heap order, not priority order; drain with Poll to consume
// elements by priority.
func (q *PriorityQueue[T]) Iter() *Iter[T] {
	return &Iter[T]{q: q, pos: -1, snap: q.gen.Snap()}
}

// Iter iterates a PriorityQueue's backing array.
type Iter[T any] struct {
	q    *PriorityQueue[T]
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
	if it.pos+1 >= len(it.q.elems) {
		return false
	}
	it.pos++
	return true
}

// Cur returns the element the iterator is positioned on.
func (it *Iter[T]) Cur() T { return it.q.elems[it.pos] }

// Err returns the fault that stopped iteration, if any.
func (it *Iter[T]) Err() error { return it.err }
