// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package hashmap provides chained hash tables keyed by a caller-supplied
// hash-and-equality capability: a plain Map and Set, and an OrderedMap
// that additionally threads its entries on an insertion-order or
// access-order list.
//
// Average-case complexity of the point operations is O(1); the worst
// case under pathological hashing is O(n) and is not defended against
// (hash-flood resistance is out of scope). None of the types are safe
// for concurrent use.
package hashmap

import (
	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/hasher"
	"github.com/cockroachdb/collections/pkg/iterutil"
	"github.com/cockroachdb/errors"
)

const (
	defaultBucketCount = 16
	defaultLoadFactor  = 0.75
)

type entry[K, V any] struct {
	hash  uint64
	key   K
	value V
	next  *entry[K, V]
}

// Map is a chained hash table. The bucket count is always a power of
// two so the bucket index is a cheap mask of the hash. When occupancy
// crosses the load factor the bucket array doubles and every entry is
// rehashed into it.
//
// Iteration order is unspecified but stable between structural
// mutations. A resize may reorder iteration even though the entry set
// is unchanged from the caller's point of view; no stability across
// resizes is guaranteed.
type Map[K, V any] struct {
	h          hasher.Hasher[K]
	buckets    []*entry[K, V]
	length     int
	loadFactor float64
	gen        iterutil.Gen
}

// Option configures a Map.
type Option[K, V any] func(*Map[K, V]) error

// WithCapacity sizes the table to hold n entries without resizing.
func WithCapacity[K, V any](n int) Option[K, V] {
	return func(m *Map[K, V]) error {
		if n < 0 {
			return errors.AssertionFailedf("negative capacity %d", n)
		}
		m.buckets = make([]*entry[K, V], bucketsFor(n, m.loadFactor))
		return nil
	}
}

// WithLoadFactor sets the occupancy/capacity ratio that triggers a
// resize. The default is 0.75. When combined with WithCapacity, pass
// WithLoadFactor first so the capacity is sized under the right factor.
func WithLoadFactor[K, V any](f float64) Option[K, V] {
	return func(m *Map[K, V]) error {
		if f <= 0 || f > 1 {
			return errors.AssertionFailedf("load factor %f out of range (0, 1]", f)
		}
		m.loadFactor = f
		return nil
	}
}

// bucketsFor returns the smallest power-of-two bucket count that holds
// n entries under load factor f.
func bucketsFor(n int, f float64) int {
	b := defaultBucketCount
	for float64(n) > f*float64(b) {
		b *= 2
	}
	return b
}

// New creates an empty Map using the supplied Hasher.
func New[K, V any](h hasher.Hasher[K], opts ...Option[K, V]) (*Map[K, V], error) {
	if !h.Valid() {
		return nil, errors.AssertionFailedf("hasher must supply both Hash and Equal")
	}
	m := &Map[K, V]{
		h:          h,
		loadFactor: defaultLoadFactor,
	}
	m.buckets = make([]*entry[K, V], defaultBucketCount)
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.length }

func (m *Map[K, V]) mask() uint64 { return uint64(len(m.buckets) - 1) }

func (m *Map[K, V]) find(hash uint64, key K) *entry[K, V] {
	for e := m.buckets[hash&m.mask()]; e != nil; e = e.next {
		if e.hash == hash && m.h.Equal(e.key, key) {
			return e
		}
	}
	return nil
}

// Get returns the value stored under key, with false on a miss.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if e := m.find(m.h.Hash(key), key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.find(m.h.Hash(key), key) != nil
}

// Put stores value under key and returns the previously stored value,
// if any. Replacing an existing key's value is not a structural
// mutation; live iterators are unaffected.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool) {
	hash := m.h.Hash(key)
	if e := m.find(hash, key); e != nil {
		prev, e.value = e.value, value
		return prev, true
	}
	if float64(m.length+1) > m.loadFactor*float64(len(m.buckets)) {
		m.grow()
	}
	i := hash & m.mask()
	m.buckets[i] = &entry[K, V]{hash: hash, key: key, value: value, next: m.buckets[i]}
	m.length++
	m.gen.Bump()
	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held, with false on a
// miss.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	hash := m.h.Hash(key)
	i := hash & m.mask()
	for p := &m.buckets[i]; *p != nil; p = &(*p).next {
		e := *p
		if e.hash == hash && m.h.Equal(e.key, key) {
			*p = e.next
			m.length--
			m.gen.Bump()
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Clear removes all entries, retaining the bucket array. Clearing an
// already-empty map is not a structural mutation.
func (m *Map[K, V]) Clear() {
	if m.length == 0 {
		return
	}
	for i := range m.buckets {
		m.buckets[i] = nil
	}
	m.length = 0
	m.gen.Bump()
}

// grow doubles the bucket array and rehashes every entry. Each chain
// splits into a low and a high chain; relative order within each split
// is preserved, though callers cannot rely on any order surviving a
// resize.
func (m *Map[K, V]) grow() {
	old := m.buckets
	m.buckets = make([]*entry[K, V], 2*len(old))
	mask := m.mask()
	for _, e := range old {
		var loHead, loTail, hiHead, hiTail *entry[K, V]
		for ; e != nil; e = e.next {
			// The entry stays in the low half iff the newly
			// significant hash bit is zero.
			if e.hash&uint64(len(old)) == 0 {
				if loTail == nil {
					loHead = e
				} else {
					loTail.next = e
				}
				loTail = e
			} else {
				if hiTail == nil {
					hiHead = e
				} else {
					hiTail.next = e
				}
				hiTail = e
			}
		}
		if loTail != nil {
			loTail.next = nil
			m.buckets[loHead.hash&mask] = loHead
		}
		if hiTail != nil {
			hiTail.next = nil
			m.buckets[hiHead.hash&mask] = hiHead
		}
	}
}

// Range calls fn for each entry until fn returns false. The map must
// not be structurally mutated during Range; use Iter for fail-fast
// detection.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, e := range m.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Iter returns a fail-fast iterator over the map's entries, in
// unspecified order.
func (m *Map[K, V]) Iter() *Iter[K, V] {
	return &Iter[K, V]{m: m, bucket: -1, snap: m.gen.Snap()}
}

// Iter iterates a Map. Structural mutation of the map while the
// iterator is live surfaces as a fault from Err; removal through the
// iterator itself is allowed.
type Iter[K, V any] struct {
	m         *Map[K, V]
	bucket    int
	cur       *entry[K, V]
	canRemove bool
	snap      iterutil.Snap
	err       error
}

// Next advances to the next entry, returning false at the end or on a
// detected concurrent modification.
func (it *Iter[K, V]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.err = it.snap.Check(); it.err != nil {
		return false
	}
	if it.cur != nil {
		it.cur = it.cur.next
	}
	for it.cur == nil {
		it.bucket++
		if it.bucket >= len(it.m.buckets) {
			return false
		}
		it.cur = it.m.buckets[it.bucket]
	}
	it.canRemove = true
	return true
}

// Cur returns the entry the iterator is positioned on. Only valid
// after a Next that returned true; Remove invalidates the position
// until the next Next.
func (it *Iter[K, V]) Cur() (K, V) { return it.cur.key, it.cur.value }

// Remove removes the entry the iterator is positioned on. The iterator
// remains valid and continues with the following entry.
func (it *Iter[K, V]) Remove() error {
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
	// Reposition on the predecessor so the next Next lands on the
	// entry that followed the removed one.
	i := it.cur.hash & it.m.mask()
	var prev *entry[K, V]
	for e := it.m.buckets[i]; e != it.cur; e = e.next {
		prev = e
	}
	if _, ok := it.m.Remove(it.cur.key); !ok {
		return fault.Newf(fault.NotFound, "iterator entry vanished")
	}
	it.cur = prev
	if prev == nil {
		if rest := it.m.buckets[i]; rest != nil {
			// The removed entry led a non-empty bucket; a sentinel
			// makes the next Next start from the bucket's new head.
			it.cur = &entry[K, V]{next: rest}
		}
		// Otherwise the bucket is empty and Next moves on from
		// it.bucket, which still points at it.
	}
	it.snap.Resync()
	return nil
}

// Err returns the fault that stopped iteration, if any.
func (it *Iter[K, V]) Err() error { return it.err }
