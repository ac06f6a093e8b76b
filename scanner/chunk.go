// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

import (
	"fmt"

	"github.com/luxfi/sp-crypto/enotestore"
)

// BasicRecord is one candidate enote a chunk reports: the scanner does not
// know whether it belongs to the wallet until a Decryptor says so. Payload
// carries whatever opaque enote material (legacy V1-V4 fields, ephemeral
// pubkey, etc.) the Decryptor implementation understands.
type BasicRecord struct {
	TxID        [32]byte
	EnoteIndex  uint32
	BlockHeight uint64
	Payload     any
}

// KeyImageContext is one key image a chunk reports as spent, alongside the
// tx and height it was spent in.
type KeyImageContext struct {
	KeyImage    enotestore.KeyImage
	TxID        [32]byte
	BlockHeight uint64
}

// ChunkLedger is a scan chunk covering a contiguous onchain block range.
type ChunkLedger struct {
	StartHeight         uint64
	EndHeight           uint64
	PrefixBlockID       [32]byte
	BlockIDs            [][32]byte
	BasicRecordsByTx    map[[32]byte][]BasicRecord
	ContextualKeyImages []KeyImageContext
}

// ChunkNonLedger is a scan chunk with no block range: used for unconfirmed
// (mempool) and offchain state.
type ChunkNonLedger struct {
	BasicRecordsByTx    map[[32]byte][]BasicRecord
	ContextualKeyImages []KeyImageContext
}

// validateLedgerChunk checks the semantic invariants spec.md §4.4 demands
// of a ledger chunk: every key-image set's tx_id is a key of
// BasicRecordsByTx, the block range is non-empty, and block_ids.len
// matches end-start.
func validateLedgerChunk(c ChunkLedger) error {
	if c.EndHeight <= c.StartHeight {
		return fmt.Errorf("%w: end height %d not after start height %d", ErrInvalidChunk, c.EndHeight, c.StartHeight)
	}
	if uint64(len(c.BlockIDs)) != c.EndHeight-c.StartHeight {
		return fmt.Errorf("%w: block id count %d does not match range [%d,%d)", ErrInvalidChunk, len(c.BlockIDs), c.StartHeight, c.EndHeight)
	}
	for _, ki := range c.ContextualKeyImages {
		if _, ok := c.BasicRecordsByTx[ki.TxID]; !ok {
			return fmt.Errorf("%w: key image set references unknown tx %x", ErrInvalidChunk, ki.TxID)
		}
		if ki.BlockHeight < c.StartHeight || ki.BlockHeight >= c.EndHeight {
			return fmt.Errorf("%w: key image height %d outside range [%d,%d)", ErrInvalidChunk, ki.BlockHeight, c.StartHeight, c.EndHeight)
		}
	}
	for txID, recs := range c.BasicRecordsByTx {
		for _, r := range recs {
			if r.TxID != txID {
				return fmt.Errorf("%w: basic record tx id %x does not match map key %x", ErrInvalidChunk, r.TxID, txID)
			}
			if r.BlockHeight < c.StartHeight || r.BlockHeight >= c.EndHeight {
				return fmt.Errorf("%w: basic record height %d outside range [%d,%d)", ErrInvalidChunk, r.BlockHeight, c.StartHeight, c.EndHeight)
			}
		}
	}
	return nil
}

func validateNonLedgerChunk(c ChunkNonLedger) error {
	for _, ki := range c.ContextualKeyImages {
		if _, ok := c.BasicRecordsByTx[ki.TxID]; !ok {
			return fmt.Errorf("%w: key image set references unknown tx %x", ErrInvalidChunk, ki.TxID)
		}
	}
	for txID, recs := range c.BasicRecordsByTx {
		for _, r := range recs {
			if r.TxID != txID {
				return fmt.Errorf("%w: basic record tx id %x does not match map key %x", ErrInvalidChunk, r.TxID, txID)
			}
		}
	}
	return nil
}
