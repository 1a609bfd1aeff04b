// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package ordered defines the total-order capability consumed by the
// comparator-keyed containers in this repository.
//
// A Comparator must define a strict total order that is consistent with
// itself across calls: for all a and b, the signs of cmp(a, b) and
// cmp(b, a) are opposite (or both zero), and the order never changes for
// the lifetime of a container built on it. Containers report detectable
// violations as comparator-contract defects rather than tolerating them.
package ordered

import "cmp"

// Comparator compares two values. It returns a negative number if a sorts
// before b, zero if they are equal, and a positive number if a sorts
// after b.
type Comparator[K any] func(a, b K) int

// Compare is the natural-order Comparator for ordered types.
func Compare[K cmp.Ordered](a, b K) int {
	return cmp.Compare(a, b)
}

// Reverse returns a Comparator that inverts the order defined by c.
func Reverse[K any](c Comparator[K]) Comparator[K] {
	return func(a, b K) int { return c(b, a) }
}

// On derives a Comparator for T from a Comparator over a key extracted
// from T. The extraction function must be pure: extracting the same T
// twice must yield keys that compare equal.
func On[T, K any](c Comparator[K], key func(T) K) Comparator[T] {
	return func(a, b T) int { return c(key(a), key(b)) }
}

// ConsistentAt reports whether c behaves antisymmetrically for the given
// pair, i.e. whether the signs of c(a, b) and c(b, a) are compatible.
// Containers use it on their write paths to surface broken comparators.
func ConsistentAt[K any](c Comparator[K], a, b K) bool {
	x, y := c(a, b), c(b, a)
	switch {
	case x == 0:
		return y == 0
	case x < 0:
		return y > 0
	default:
		return y < 0
	}
}
