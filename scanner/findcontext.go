// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

// FindContextLedger supplies onchain and unconfirmed chunks from an
// untrusted ledger feed.
type FindContextLedger interface {
	// TryGetOnchainChunk returns a chunk starting at prefixHeight+1,
	// containing at most maxSize blocks. A chunk with zero blocks signals
	// the top of the chain has been reached.
	TryGetOnchainChunk(prefixHeight uint64, maxSize int) (ChunkLedger, error)

	// TryGetUnconfirmedChunk returns the current mempool snapshot as a
	// single non-ledger chunk.
	TryGetUnconfirmedChunk() (ChunkNonLedger, error)
}

// FindContextOffchain supplies the wallet's own offchain (not-yet-
// broadcast) enote state.
type FindContextOffchain interface {
	TryGetOffchainChunk() (ChunkNonLedger, error)
}
