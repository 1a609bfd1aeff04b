// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package hasher defines the hash-and-equality capability consumed by the
// hash-keyed containers in this repository.
//
// The user is responsible for the following:
//   - Equal(a, b) implies Hash(a) == Hash(b).
//   - Equal(a, a) must hold for all a. Be careful around NaN float
//     values; Go's built-in map has special cases for them, a Hasher
//     does not.
//   - If a stored key contains references (pointers, slices, maps),
//     mutating the referenced data in a way that affects the result of
//     Hash or Equal while the key is stored results in undefined
//     behavior.
//   - For good performance, Hash should distribute uniformly across the
//     entire 64 bits of its result.
package hasher

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher supplies the hash and equality functions for a key type. Both
// fields must be non-nil.
type Hasher[K any] struct {
	Hash  func(K) uint64
	Equal func(K, K) bool
}

// Valid reports whether both capability functions are set.
func (h Hasher[K]) Valid() bool {
	return h.Hash != nil && h.Equal != nil
}

// seed is the per-process seed used by the maphash-backed constructors.
// Hash values are not stable across processes; nothing in this
// repository persists them.
var seed = maphash.MakeSeed()

// OfString returns a Hasher for strings backed by the runtime's string
// hash with a per-process random seed.
func OfString() Hasher[string] {
	return Hasher[string]{
		Hash:  func(s string) uint64 { return maphash.String(seed, s) },
		Equal: func(a, b string) bool { return a == b },
	}
}

// OfBytes returns a Hasher for byte slices. Byte slices compare by
// content. The usual aliasing caveat applies: mutating a stored key's
// bytes is undefined behavior.
func OfBytes() Hasher[[]byte] {
	return Hasher[[]byte]{
		Hash: func(b []byte) uint64 { return maphash.Bytes(seed, b) },
		Equal: func(a, b []byte) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
	}
}

// FixedString returns a string Hasher whose values are stable across
// processes (xxhash, unseeded). Prefer OfString unless determinism
// matters; a fixed hash function is open to hash flooding, which this
// package does not defend against.
func FixedString() Hasher[string] {
	return Hasher[string]{
		Hash:  xxhash.Sum64String,
		Equal: func(a, b string) bool { return a == b },
	}
}

// FixedBytes is the deterministic counterpart of OfBytes.
func FixedBytes() Hasher[[]byte] {
	h := OfBytes()
	h.Hash = xxhash.Sum64
	return h
}

// OfUint64 returns a Hasher for uint64 keys using a 64-bit finalizer to
// spread low-entropy inputs across the full hash range.
func OfUint64() Hasher[uint64] {
	return Hasher[uint64]{
		Hash:  mix64,
		Equal: func(a, b uint64) bool { return a == b },
	}
}

// OfInt returns a Hasher for int keys.
func OfInt() Hasher[int] {
	return Hasher[int]{
		Hash:  func(i int) uint64 { return mix64(uint64(i)) },
		Equal: func(a, b int) bool { return a == b },
	}
}

// On derives a Hasher for T from a Hasher over a key extracted from T.
// The extraction function must be pure.
func On[T, K any](h Hasher[K], key func(T) K) Hasher[T] {
	return Hasher[T]{
		Hash:  func(t T) uint64 { return h.Hash(key(t)) },
		Equal: func(a, b T) bool { return h.Equal(key(a), key(b)) },
	}
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
