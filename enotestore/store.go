// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package enotestore

import (
	"sync"

	"github.com/holiman/uint256"

	spgroup "github.com/luxfi/sp-crypto/group"
)

// KeyImage identifies an enote's linking tag, the stable key under which
// it is stored regardless of how many times it is rescanned.
type KeyImage [32]byte

// OriginContext records where and when an enote record was found.
type OriginContext struct {
	Status      OriginStatus
	BlockHeight uint64
	BlockID     [32]byte
	TxID        [32]byte
}

// SpentContext records where and when an enote's key image was observed
// spent, if ever.
type SpentContext struct {
	Status      SpentStatus
	BlockHeight uint64
	TxID        [32]byte
}

// ContextualEnoteRecord is one stored enote plus the scan-derived context
// around its origin and (if applicable) its spend.
type ContextualEnoteRecord struct {
	KeyImage   KeyImage
	OnetimeKey spgroup.Point
	Amount     uint64
	Origin     OriginContext
	Spent      SpentContext
}

// EnoteStore accumulates enote records across repeated scans, applying
// the monotone status lattice so a reorg or a later rescan can only ever
// raise a record's confidence, never spuriously lower it without an
// explicit clear.
type EnoteStore struct {
	mu            sync.RWMutex
	refreshHeight uint64
	records       map[KeyImage]*ContextualEnoteRecord
	blockIDs      []([32]byte) // blockIDs[i] is the id of block refreshHeight+i
}

// New returns an empty store rooted at refreshHeight: its block-id list
// starts at this height. Record heights are not checked against it.
func New(refreshHeight uint64) *EnoteStore {
	return &EnoteStore{
		refreshHeight: refreshHeight,
		records:       make(map[KeyImage]*ContextualEnoteRecord),
	}
}

// AddRecord inserts or refreshes a record. If a record already exists for
// this key image, origin and spent contexts are each updated only if the
// new context is at least as strong as the stored one, matching the
// store's monotone-status contract.
func (s *EnoteStore) AddRecord(rec ContextualEnoteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rec.KeyImage]
	if !ok {
		copied := rec
		s.records[rec.KeyImage] = &copied
		return
	}
	if rec.Origin.Status.Stronger(existing.Origin.Status) {
		existing.Origin = rec.Origin
		existing.OnetimeKey = rec.OnetimeKey
		existing.Amount = rec.Amount
	}
	if rec.Spent.Status.Stronger(existing.Spent.Status) {
		existing.Spent = rec.Spent
	}
}

// UpdateSpentContext raises a stored record's spent status if the given
// context is stronger than what is already recorded. No-op if the key
// image is not stored.
func (s *EnoteStore) UpdateSpentContext(ki KeyImage, spent SpentContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[ki]
	if !ok {
		return
	}
	if spent.Status.Stronger(rec.Spent.Status) {
		rec.Spent = spent
	}
}

// HasKeyImage reports whether any stored record carries the given key
// image, regardless of its status.
func (s *EnoteStore) HasKeyImage(ki KeyImage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[ki]
	return ok
}

// ClearOriginStatus removes every record whose origin status exactly
// matches the given status, used to drop stale unconfirmed/offchain
// records before a fresh scan pass repopulates them.
func (s *EnoteStore) ClearOriginStatus(status OriginStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ki, rec := range s.records {
		if rec.Origin.Status == status {
			delete(s.records, ki)
		}
	}
}

// ClearSpentStatus resets the spent context of every record whose spent
// status exactly matches the given status back to unspent.
func (s *EnoteStore) ClearSpentStatus(status SpentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.Spent.Status == status {
			rec.Spent = SpentContext{}
		}
	}
}

// ClearOnchainFromHeight drops every onchain-origin record at or above
// fromHeight and truncates the recorded block-id list to match, the
// reorg-recovery operation the scanner calls before reapplying a
// replacement chunk.
func (s *EnoteStore) ClearOnchainFromHeight(fromHeight uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ki, rec := range s.records {
		if rec.Origin.Status == OriginOnchain && rec.Origin.BlockHeight >= fromHeight {
			delete(s.records, ki)
		}
	}
	if fromHeight >= s.refreshHeight && int(fromHeight-s.refreshHeight) < len(s.blockIDs) {
		s.blockIDs = s.blockIDs[:fromHeight-s.refreshHeight]
	}
}

// SetBlockIDsFromHeight overwrites the recorded block-id list starting at
// fromHeight, truncating anything previously recorded at or above it.
func (s *EnoteStore) SetBlockIDsFromHeight(fromHeight uint64, ids [][32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fromHeight < s.refreshHeight {
		return
	}
	offset := fromHeight - s.refreshHeight
	if int(offset) < len(s.blockIDs) {
		s.blockIDs = s.blockIDs[:offset]
	}
	for len(s.blockIDs) < int(offset) {
		s.blockIDs = append(s.blockIDs, [32]byte{})
	}
	s.blockIDs = append(s.blockIDs, ids...)
}

// TryGetBlockID returns the recorded block id at the given height, if any.
func (s *EnoteStore) TryGetBlockID(height uint64) ([32]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if height < s.refreshHeight {
		return [32]byte{}, false
	}
	offset := height - s.refreshHeight
	if int(offset) >= len(s.blockIDs) {
		return [32]byte{}, false
	}
	return s.blockIDs[offset], true
}

// RefreshHeight returns the height the store's block-id list starts at.
func (s *EnoteStore) RefreshHeight() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshHeight
}

// TopBlockHeight returns the highest height the store has recorded a
// block id for, or refreshHeight-1 if none (0 when refreshHeight is 0).
func (s *EnoteStore) TopBlockHeight() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.blockIDs) == 0 {
		if s.refreshHeight == 0 {
			return 0
		}
		return s.refreshHeight - 1
	}
	return s.refreshHeight + uint64(len(s.blockIDs)) - 1
}

// Balance sums the amount of every stored record whose origin and spent
// status are both in the given allow-sets (an empty spentStatuses treats
// every non-allowed spent state as excluding the record, i.e. only
// records with a spent status explicitly passed are counted as spent-but-
// included; callers typically pass {SpentUnspent} to get a "confirmed
// unspent balance"). Uses uint256 internally so a pathological number of
// max-amount enotes cannot silently overflow a uint64 accumulator.
func (s *EnoteStore) Balance(originStatuses map[OriginStatus]bool, spentStatuses map[SpentStatus]bool) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := uint256.NewInt(0)
	for _, rec := range s.records {
		if !originStatuses[rec.Origin.Status] {
			continue
		}
		if !spentStatuses[rec.Spent.Status] {
			continue
		}
		total.Add(total, uint256.NewInt(rec.Amount))
	}
	if !total.IsUint64() {
		return ^uint64(0)
	}
	return total.Uint64()
}

// Records returns a snapshot copy of every stored record.
func (s *EnoteStore) Records() []ContextualEnoteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ContextualEnoteRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}
