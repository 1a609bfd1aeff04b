// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package hashmap

import (
	"github.com/cockroachdb/collections/pkg/hasher"
	"github.com/cockroachdb/collections/pkg/iterutil"
	"github.com/cockroachdb/errors"
)

type oentry[K, V any] struct {
	hash  uint64
	key   K
	value V
	next  *oentry[K, V] // bucket chain
	// Order-list links. Every live entry is threaded on the list;
	// the bucket array and the list are updated together, so no
	// caller ever observes one without the other.
	before, after *oentry[K, V]
}

// OrderedMap is a chained hash table whose entries are additionally
// threaded on a doubly linked order list. In the default
// insertion-order mode, new entries append to the list tail and
// replacement leaves position untouched. In access-order mode, every
// successful Get also moves the accessed entry to the tail, which makes
// the list head the least-recently-used entry.
//
// Iteration always walks the order list, never the bucket array.
// Eviction is deliberately not built in; a caller-driven LRU policy is
// a loop over First/RemoveFirst after Put.
//
// Not safe for concurrent use.
type OrderedMap[K, V any] struct {
	h           hasher.Hasher[K]
	buckets     []*oentry[K, V]
	head, tail  *oentry[K, V]
	length      int
	loadFactor  float64
	accessOrder bool
	gen         iterutil.Gen
}

// OrderedOption configures an OrderedMap.
type OrderedOption[K, V any] func(*OrderedMap[K, V]) error

// WithAccessOrder switches the order list from insertion order to
// access order.
func WithAccessOrder[K, V any]() OrderedOption[K, V] {
	return func(m *OrderedMap[K, V]) error {
		m.accessOrder = true
		return nil
	}
}

// WithOrderedCapacity sizes the table to hold n entries without
// resizing.
func WithOrderedCapacity[K, V any](n int) OrderedOption[K, V] {
	return func(m *OrderedMap[K, V]) error {
		if n < 0 {
			return errors.AssertionFailedf("negative capacity %d", n)
		}
		m.buckets = make([]*oentry[K, V], bucketsFor(n, m.loadFactor))
		return nil
	}
}

// NewOrdered creates an empty OrderedMap using the supplied Hasher.
func NewOrdered[K, V any](
	h hasher.Hasher[K], opts ...OrderedOption[K, V],
) (*OrderedMap[K, V], error) {
	if !h.Valid() {
		return nil, errors.AssertionFailedf("hasher must supply both Hash and Equal")
	}
	m := &OrderedMap[K, V]{
		h:          h,
		loadFactor: defaultLoadFactor,
	}
	m.buckets = make([]*oentry[K, V], defaultBucketCount)
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return m.length }

func (m *OrderedMap[K, V]) mask() uint64 { return uint64(len(m.buckets) - 1) }

func (m *OrderedMap[K, V]) find(hash uint64, key K) *oentry[K, V] {
	for e := m.buckets[hash&m.mask()]; e != nil; e = e.next {
		if e.hash == hash && m.h.Equal(e.key, key) {
			return e
		}
	}
	return nil
}

// linkTail appends e to the order list.
func (m *OrderedMap[K, V]) linkTail(e *oentry[K, V]) {
	e.before, e.after = m.tail, nil
	if m.tail == nil {
		m.head = e
	} else {
		m.tail.after = e
	}
	m.tail = e
}

// unlink removes e from the order list.
func (m *OrderedMap[K, V]) unlink(e *oentry[K, V]) {
	if e.before == nil {
		m.head = e.after
	} else {
		e.before.after = e.after
	}
	if e.after == nil {
		m.tail = e.before
	} else {
		e.after.before = e.before
	}
	e.before, e.after = nil, nil
}

// Get returns the value stored under key, with false on a miss. In
// access-order mode a hit moves the entry to the order-list tail; the
// reordering counts as a structural mutation for live iterators, which
// would otherwise walk a list that changed under them.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	e := m.find(m.h.Hash(key), key)
	if e == nil {
		var zero V
		return zero, false
	}
	if m.accessOrder && e != m.tail {
		m.unlink(e)
		m.linkTail(e)
		m.gen.Bump()
	}
	return e.value, true
}

// ContainsKey reports whether key is present. It never reorders, even
// in access-order mode.
func (m *OrderedMap[K, V]) ContainsKey(key K) bool {
	return m.find(m.h.Hash(key), key) != nil
}

// Put stores value under key and returns the previously stored value,
// if any. A new entry appends to the order-list tail; replacing an
// existing key's value leaves its position untouched in both modes and
// is not a structural mutation.
func (m *OrderedMap[K, V]) Put(key K, value V) (prev V, replaced bool) {
	hash := m.h.Hash(key)
	if e := m.find(hash, key); e != nil {
		prev, e.value = e.value, value
		return prev, true
	}
	if float64(m.length+1) > m.loadFactor*float64(len(m.buckets)) {
		m.grow()
	}
	i := hash & m.mask()
	e := &oentry[K, V]{hash: hash, key: key, value: value, next: m.buckets[i]}
	m.buckets[i] = e
	m.linkTail(e)
	m.length++
	m.gen.Bump()
	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held, with false on a
// miss.
func (m *OrderedMap[K, V]) Remove(key K) (V, bool) {
	hash := m.h.Hash(key)
	i := hash & m.mask()
	for p := &m.buckets[i]; *p != nil; p = &(*p).next {
		e := *p
		if e.hash == hash && m.h.Equal(e.key, key) {
			*p = e.next
			m.unlink(e)
			m.length--
			m.gen.Bump()
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// First returns the entry at the head of the order list: the oldest
// insertion, or in access-order mode the least recently used entry.
func (m *OrderedMap[K, V]) First() (K, V, bool) {
	if m.head == nil {
		var k K
		var v V
		return k, v, false
	}
	return m.head.key, m.head.value, true
}

// Last returns the entry at the tail of the order list.
func (m *OrderedMap[K, V]) Last() (K, V, bool) {
	if m.tail == nil {
		var k K
		var v V
		return k, v, false
	}
	return m.tail.key, m.tail.value, true
}

// RemoveFirst removes and returns the head entry. It is the building
// block for caller-driven eviction.
func (m *OrderedMap[K, V]) RemoveFirst() (K, V, bool) {
	if m.head == nil {
		var k K
		var v V
		return k, v, false
	}
	k := m.head.key
	v, _ := m.Remove(k)
	return k, v, true
}

// Clear removes all entries, retaining the bucket array. Clearing an
// already-empty map is not a structural mutation.
func (m *OrderedMap[K, V]) Clear() {
	if m.length == 0 {
		return
	}
	for i := range m.buckets {
		m.buckets[i] = nil
	}
	m.head, m.tail = nil, nil
	m.length = 0
	m.gen.Bump()
}

// grow doubles the bucket array and rehashes every entry into it. The
// order list is untouched; bucket-chain order is irrelevant here since
// iteration never walks the buckets.
func (m *OrderedMap[K, V]) grow() {
	m.buckets = make([]*oentry[K, V], 2*len(m.buckets))
	mask := m.mask()
	for e := m.head; e != nil; e = e.after {
		i := e.hash & mask
		e.next = m.buckets[i]
		m.buckets[i] = e
	}
}

// Range calls fn for each entry in order-list order until fn returns
// false. The map must not be structurally mutated during Range (in
// access-order mode that includes Get).
func (m *OrderedMap[K, V]) Range(fn func(key K, value V) bool) {
	for e := m.head; e != nil; e = e.after {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Iter returns a fail-fast iterator that walks the order list from
// head to tail.
func (m *OrderedMap[K, V]) Iter() *OrderedIter[K, V] {
	return &OrderedIter[K, V]{m: m, nextE: m.head, snap: m.gen.Snap()}
}

// OrderedIter iterates an OrderedMap in order-list order.
type OrderedIter[K, V any] struct {
	m     *OrderedMap[K, V]
	cur   *oentry[K, V]
	nextE *oentry[K, V]
	snap  iterutil.Snap
	err   error
}

// Next advances to the next entry, returning false at the end or on a
// detected concurrent modification.
func (it *OrderedIter[K, V]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.err = it.snap.Check(); it.err != nil {
		return false
	}
	if it.nextE == nil {
		return false
	}
	it.cur = it.nextE
	it.nextE = it.cur.after
	return true
}

// Cur returns the entry the iterator is positioned on.
func (it *OrderedIter[K, V]) Cur() (K, V) { return it.cur.key, it.cur.value }

// Remove removes the entry the iterator is positioned on. The iterator
// remains valid and continues with the following entry.
func (it *OrderedIter[K, V]) Remove() error {
	if it.err != nil {
		return it.err
	}
	if it.err = it.snap.Check(); it.err != nil {
		return it.err
	}
	if it.cur == nil {
		return errors.AssertionFailedf("Remove without a preceding Next")
	}
	it.m.Remove(it.cur.key)
	it.cur = nil
	it.snap.Resync()
	return nil
}

// Err returns the fault that stopped iteration, if any.
func (it *OrderedIter[K, V]) Err() error { return it.err }
