// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

// ContiguityMarker names the scanner's last-known-good position in the
// chain: a height and, usually, the block id observed there. BlockID is
// nil when the marker does not carry a specific block id (e.g. the
// store's bootstrap position before any block has been scanned).
type ContiguityMarker struct {
	Height  uint64
	BlockID *[32]byte
}

// Contiguous reports whether two markers agree on the chain's shape at
// their overlap, per spec.md §4.4: contiguous iff (a) at least one has no
// block id and its height is at least the other's, or (b) both are at the
// same height and either carries no block id or their block ids match.
func Contiguous(a, b ContiguityMarker) bool {
	if a.BlockID == nil && a.Height >= b.Height {
		return true
	}
	if b.BlockID == nil && b.Height >= a.Height {
		return true
	}
	if a.Height == b.Height {
		if a.BlockID == nil || b.BlockID == nil {
			return true
		}
		return *a.BlockID == *b.BlockID
	}
	return false
}
