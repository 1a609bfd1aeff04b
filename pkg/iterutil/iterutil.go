// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package iterutil provides the generation counter behind fail-fast
// iteration. Every mutable container embeds a Gen and bumps it on each
// structural mutation (add or remove, not value replacement). Iterators
// take a Snap at creation and check it before producing each element; a
// mismatch means the container was mutated out from under the iterator
// and is reported as a concurrent-modification defect instead of
// continuing with stale state.
package iterutil

import "github.com/cockroachdb/collections/pkg/fault"

// Gen is a container's structural-mutation generation counter. The zero
// value is ready to use. Not safe for concurrent use, like the
// containers it guards.
type Gen struct {
	n uint64
}

// Bump records a structural mutation.
func (g *Gen) Bump() { g.n++ }

// Snap captures the current generation for an iterator.
func (g *Gen) Snap() Snap { return Snap{gen: g, seen: g.n} }

// Snap is an iterator's view of a container's generation.
type Snap struct {
	gen  *Gen
	seen uint64
}

// Check returns a concurrent-modification fault if the container has
// seen a structural mutation since the snapshot was taken (or last
// resynced).
func (s *Snap) Check() error {
	if s.gen.n != s.seen {
		return fault.Newf(fault.ConcurrentModification,
			"container modified during iteration (generation %d, iterator at %d)",
			s.gen.n, s.seen)
	}
	return nil
}

// Resync re-captures the generation. Iterator-driven removal mutates
// the container through the iterator itself and resyncs so the removal
// is not misreported as concurrent.
func (s *Snap) Resync() { s.seen = s.gen.n }
