// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package treemap provides a comparator-ordered map and set backed by a
// red-black tree: O(log n) point operations, ordered iteration, and
// nearest-key navigation (Floor, Ceiling, Higher, Lower).
//
// The red-black invariants bound the height: the root is black, no red
// node has a red child, and every path from a node to a descendant leaf
// passes through the same number of black nodes.
package treemap

import (
	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/collections/pkg/iterutil"
	"github.com/cockroachdb/collections/pkg/ordered"
	"github.com/cockroachdb/errors"
)

type node[K, V any] struct {
	key                 K
	value               V
	left, right, parent *node[K, V]
	red                 bool
}

// Map is a red-black tree map. Use New to create one. Not safe for
// concurrent use.
//
// The comparator must define a strict total order consistent with
// itself across calls. The write paths verify antisymmetry of each
// comparison they perform and report a violation as a
// comparator-contract defect instead of corrupting the tree silently;
// violations that happen to keep every observed comparison
// antisymmetric are not detectable.
type Map[K, V any] struct {
	root   *node[K, V]
	length int
	cmp    ordered.Comparator[K]
	gen    iterutil.Gen
}

// New creates an empty Map ordered by cmp.
func New[K, V any](cmp ordered.Comparator[K]) (*Map[K, V], error) {
	if cmp == nil {
		return nil, errors.AssertionFailedf("nil comparator")
	}
	return &Map[K, V]{cmp: cmp}, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.length }

// checkedCmp compares on a write path, verifying the comparator's
// antisymmetry for the pair.
func (m *Map[K, V]) checkedCmp(a, b K) (int, error) {
	if !ordered.ConsistentAt(m.cmp, a, b) {
		return 0, fault.Newf(fault.ComparatorContract,
			"comparator returned asymmetric results for a key pair")
	}
	return m.cmp(a, b), nil
}

// Get returns the value stored under key, with false on a miss.
func (m *Map[K, V]) Get(key K) (V, bool) {
	n := m.root
	for n != nil {
		c := m.cmp(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put stores value under key and returns the previously stored value,
// if any. O(log n). A comparator-contract violation detected during the
// descent is returned as a defect and leaves the tree unchanged.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool, err error) {
	var parent *node[K, V]
	pos := &m.root
	for *pos != nil {
		parent = *pos
		c, err := m.checkedCmp(key, parent.key)
		if err != nil {
			var zero V
			return zero, false, err
		}
		switch {
		case c < 0:
			pos = &parent.left
		case c > 0:
			pos = &parent.right
		default:
			prev, parent.value = parent.value, value
			// Value replacement is not a structural mutation.
			return prev, true, nil
		}
	}
	n := &node[K, V]{key: key, value: value, parent: parent, red: true}
	*pos = n
	m.insertFixup(n)
	m.length++
	m.gen.Bump()
	var zero V
	return zero, false, nil
}

// Remove deletes key and returns the value it held, with false on a
// miss. O(log n).
func (m *Map[K, V]) Remove(key K) (V, bool, error) {
	n := m.root
	for n != nil {
		c, err := m.checkedCmp(key, n.key)
		if err != nil {
			var zero V
			return zero, false, err
		}
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			v := n.value
			m.deleteNode(n)
			m.length--
			m.gen.Bump()
			return v, true, nil
		}
	}
	var zero V
	return zero, false, nil
}

// First returns the smallest entry.
func (m *Map[K, V]) First() (K, V, bool) {
	return entryOf(minNode(m.root))
}

// Last returns the largest entry.
func (m *Map[K, V]) Last() (K, V, bool) {
	n := m.root
	for n != nil && n.right != nil {
		n = n.right
	}
	return entryOf(n)
}

// Floor returns the largest entry whose key is <= key.
func (m *Map[K, V]) Floor(key K) (K, V, bool) {
	return entryOf(m.seek(key, true, true))
}

// Ceiling returns the smallest entry whose key is >= key.
func (m *Map[K, V]) Ceiling(key K) (K, V, bool) {
	return entryOf(m.seek(key, false, true))
}

// Lower returns the largest entry whose key is < key.
func (m *Map[K, V]) Lower(key K) (K, V, bool) {
	return entryOf(m.seek(key, true, false))
}

// Higher returns the smallest entry whose key is > key.
func (m *Map[K, V]) Higher(key K) (K, V, bool) {
	return entryOf(m.seek(key, false, false))
}

// seek finds the nearest node below (or above) key, optionally
// accepting equality.
func (m *Map[K, V]) seek(key K, below, inclusive bool) *node[K, V] {
	var candidate *node[K, V]
	n := m.root
	for n != nil {
		c := m.cmp(key, n.key)
		if c == 0 && inclusive {
			return n
		}
		if below {
			if c > 0 {
				candidate = n
				n = n.right
			} else {
				n = n.left
			}
		} else {
			if c < 0 {
				candidate = n
				n = n.left
			} else {
				n = n.right
			}
		}
	}
	return candidate
}

func entryOf[K, V any](n *node[K, V]) (K, V, bool) {
	if n == nil {
		var k K
		var v V
		return k, v, false
	}
	return n.key, n.value, true
}

func minNode[K, V any](n *node[K, V]) *node[K, V] {
	for n != nil && n.left != nil {
		n = n.left
	}
	return n
}

func successor[K, V any](n *node[K, V]) *node[K, V] {
	if n.right != nil {
		return minNode(n.right)
	}
	p := n.parent
	for p != nil && n == p.right {
		n, p = p, p.parent
	}
	return p
}

func isRed[K, V any](n *node[K, V]) bool { return n != nil && n.red }

func (m *Map[K, V]) rotateLeft(x *node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		m.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (m *Map[K, V]) rotateRight(x *node[K, V]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		m.root = y
	case x == x.parent.right:
		x.parent.right = y
	default:
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (m *Map[K, V]) insertFixup(z *node[K, V]) {
	for isRed(z.parent) {
		g := z.parent.parent
		if z.parent == g.left {
			if uncle := g.right; isRed(uncle) {
				z.parent.red = false
				uncle.red = false
				g.red = true
				z = g
				continue
			}
			if z == z.parent.right {
				z = z.parent
				m.rotateLeft(z)
			}
			z.parent.red = false
			g.red = true
			m.rotateRight(g)
		} else {
			if uncle := g.left; isRed(uncle) {
				z.parent.red = false
				uncle.red = false
				g.red = true
				z = g
				continue
			}
			if z == z.parent.left {
				z = z.parent
				m.rotateRight(z)
			}
			z.parent.red = false
			g.red = true
			m.rotateLeft(g)
		}
	}
	m.root.red = false
}

// deleteNode removes z from the tree, rebalancing as needed.
func (m *Map[K, V]) deleteNode(z *node[K, V]) {
	y := z
	if z.left != nil && z.right != nil {
		// Two children: splice out the in-order successor after
		// moving its entry into z.
		y = minNode(z.right)
	}
	x := y.left
	if x == nil {
		x = y.right
	}
	parent := y.parent
	if x != nil {
		x.parent = parent
	}
	switch {
	case parent == nil:
		m.root = x
	case y == parent.left:
		parent.left = x
	default:
		parent.right = x
	}
	if y != z {
		z.key, z.value = y.key, y.value
	}
	if !y.red {
		m.deleteFixup(x, parent)
	}
}

// deleteFixup restores the red-black invariants after removing a black
// node. x is the (possibly nil) node carrying the extra blackness;
// parent is its parent, tracked separately because x may be nil.
func (m *Map[K, V]) deleteFixup(x *node[K, V], parent *node[K, V]) {
	for x != m.root && !isRed(x) {
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.red = false
				parent.red = true
				m.rotateLeft(parent)
				w = parent.right
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.red = true
				x = parent
				parent = x.parent
				continue
			}
			if !isRed(w.right) {
				w.left.red = false
				w.red = true
				m.rotateRight(w)
				w = parent.right
			}
			w.red = parent.red
			parent.red = false
			w.right.red = false
			m.rotateLeft(parent)
			x = m.root
			parent = nil
		} else {
			w := parent.left
			if isRed(w) {
				w.red = false
				parent.red = true
				m.rotateRight(parent)
				w = parent.left
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.red = true
				x = parent
				parent = x.parent
				continue
			}
			if !isRed(w.left) {
				w.right.red = false
				w.red = true
				m.rotateLeft(w)
				w = parent.left
			}
			w.red = parent.red
			parent.red = false
			w.left.red = false
			m.rotateRight(parent)
			x = m.root
			parent = nil
		}
	}
	if x != nil {
		x.red = false
	}
}

// Range calls fn for each entry in key order until fn returns false.
// The map must not be structurally mutated during Range; use Iter for
// fail-fast detection.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for n := minNode(m.root); n != nil; n = successor(n) {
		if !fn(n.key, n.value) {
			return
		}
	}
}

// Iter returns a fail-fast iterator that produces entries in strictly
// increasing key order.
func (m *Map[K, V]) Iter() *Iter[K, V] {
	return &Iter[K, V]{m: m, snap: m.gen.Snap()}
}

// Iter iterates a Map in key order.
type Iter[K, V any] struct {
	m       *Map[K, V]
	cur     *node[K, V]
	started bool
	// After an iterator-driven removal the tree may have been
	// restructured, so the iterator re-seeks the next key instead of
	// following stale pointers.
	resumeAfter *K
	snap        iterutil.Snap
	err         error
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
	switch {
	case it.resumeAfter != nil:
		it.cur = it.m.seek(*it.resumeAfter, false, false)
		it.resumeAfter = nil
	case !it.started:
		it.cur = minNode(it.m.root)
		it.started = true
	case it.cur != nil:
		it.cur = successor(it.cur)
	}
	return it.cur != nil
}

// Cur returns the entry the iterator is positioned on.
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
	if it.cur == nil {
		return errors.AssertionFailedf("Remove without a preceding Next")
	}
	key := it.cur.key
	if _, _, err := it.m.Remove(key); err != nil {
		return err
	}
	it.resumeAfter = &key
	it.cur = nil
	it.snap.Resync()
	return nil
}

// Err returns the fault that stopped iteration, if any.
func (it *Iter[K, V]) Err() error { return it.err }
