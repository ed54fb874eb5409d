// SPDX-License-Identifier: MIT
// Package kent - deterministic RNG helpers shared by the samplers, the
// mixture initialiser and the experiment harness.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use DeriveRand to create independent streams for parallel workers or trials.

package kent

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed == 0 or a nil *rand.Rand.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand.
// Policy: seed == 0 ⇒ DefaultSeed; otherwise the provided seed verbatim.
func NewRand(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = DefaultSeed
	}

	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier with a
// SplitMix64-style finalizer so that neighbouring streams are uncorrelated.
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRand creates an independent deterministic stream from base and a
// stream identifier. base == nil uses DefaultSeed as the parent; otherwise
// base.Int63() is consumed once, so repeated derivations differ even for the
// same stream id.
//
// Call during setup, not in hot loops.
func DeriveRand(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = DefaultSeed
	} else {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

func orDefault(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return NewRand(0)
	}

	return rng
}
