// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package group

import "sync"

// MaxGenerators bounds the Hi generator table, matching the largest m*n the
// Grootle proof system is specified to support (GROOTLE_MAX_MN).
const MaxGenerators = 128

// GroupContext holds the fixed, deterministically-derived generator set
// shared by every proof in the system: the Hi table used for Pedersen
// vector commitments, and the U/X generators used by the composition
// proof's key-image and auxiliary terms.
type GroupContext struct {
	G  Point
	H  Point
	Hi [MaxGenerators]Point
	U  Point
	X  Point
}

var (
	gensOnce sync.Once
	gens     *GroupContext
)

// Gens returns the package-wide generator set, deriving it on first call
// and caching it thereafter. Concurrent callers block on the same
// derivation rather than racing, following the one-time-mutex-guarded
// init pattern used for generator setup in the original mock-tx prover.
func Gens() *GroupContext {
	gensOnce.Do(func() {
		ctx := &GroupContext{
			G: BasePoint(),
			H: HashToPoint("seraphis H", 0),
			U: HashToPoint("seraphis U", 0),
			X: HashToPoint("seraphis X", 0),
		}
		for i := 0; i < MaxGenerators; i++ {
			ctx.Hi[i] = HashToPoint("grootle Hi", i)
		}
		gens = ctx
	})
	return gens
}
