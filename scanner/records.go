// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

import (
	"github.com/luxfi/sp-crypto/enotestore"
	spgroup "github.com/luxfi/sp-crypto/group"
)

// processRecords implements spec.md §4.4's per-chunk record processing:
// mark spent, plain receive, then the self-send loop. Found records get
// originStatus, and key images seen spent get spentStatus; TxID is the
// map key, BlockHeight comes from each basic record, and the block id from
// blockIDForHeight when it is non-nil (zero otherwise).
func (s *Scanner) processRecords(
	basicRecordsByTx map[[32]byte][]BasicRecord,
	keyImages []KeyImageContext,
	originStatus enotestore.OriginStatus,
	spentStatus enotestore.SpentStatus,
	blockIDForHeight func(uint64) [32]byte,
) {
	spentByKeyImage := make(map[enotestore.KeyImage]KeyImageContext, len(keyImages))
	for _, ki := range keyImages {
		spentByKeyImage[ki.KeyImage] = ki
	}

	applySpent := func(ki enotestore.KeyImage) bool {
		kiCtx, ok := spentByKeyImage[ki]
		if !ok {
			return false
		}
		s.store.UpdateSpentContext(ki, enotestore.SpentContext{
			Status:      spentStatus,
			BlockHeight: kiCtx.BlockHeight,
			TxID:        kiCtx.TxID,
		})
		return true
	}

	// Step 1: mark spent for enotes the store already knows about. Any tx
	// that spends one of our known enotes is queued for a self-send
	// rescan, since a self-send output in that same tx cannot be found by
	// the plain receive pass below.
	selfSendQueue := make([]([32]byte), 0)
	queued := make(map[[32]byte]bool)
	enqueue := func(txID [32]byte) {
		if !queued[txID] {
			queued[txID] = true
			selfSendQueue = append(selfSendQueue, txID)
		}
	}

	for ki, kiCtx := range spentByKeyImage {
		if s.store.HasKeyImage(ki) {
			applySpent(ki)
			enqueue(kiCtx.TxID)
		}
	}

	addRecord := func(txID [32]byte, blockHeight uint64, dec DecryptedEnote) {
		onetimeKey, err := spgroup.PointFromBytes(dec.OnetimeKey)
		if err != nil {
			s.logger.Warn("scanner: dropping record with malformed onetime key", "tx", txID, "err", err)
			return
		}
		var blockID [32]byte
		if blockIDForHeight != nil {
			blockID = blockIDForHeight(blockHeight)
		}
		s.store.AddRecord(enotestore.ContextualEnoteRecord{
			KeyImage:   dec.KeyImage,
			OnetimeKey: onetimeKey,
			Amount:     dec.Amount,
			Origin: enotestore.OriginContext{
				Status:      originStatus,
				BlockHeight: blockHeight,
				BlockID:     blockID,
				TxID:        txID,
			},
		})
		if applySpent(dec.KeyImage) {
			enqueue(spentByKeyImage[dec.KeyImage].TxID)
		}
	}

	// Step 2: plain receive pass over every tx in the chunk.
	for txID, recs := range basicRecordsByTx {
		for _, rec := range recs {
			dec, ok := s.decryptor.TryDecryptPlain(rec)
			if !ok {
				continue
			}
			addRecord(txID, rec.BlockHeight, dec)
		}
	}

	// Step 3: self-send loop. A self-send receive discovered here may
	// itself be spent in this same chunk, which queues another tx for
	// rescan; hence the loop continues until the queue drains.
	selfSendScanned := make(map[[32]byte]bool)
	for len(selfSendQueue) > 0 {
		txID := selfSendQueue[0]
		selfSendQueue = selfSendQueue[1:]
		if selfSendScanned[txID] {
			continue
		}
		selfSendScanned[txID] = true
		for _, rec := range basicRecordsByTx[txID] {
			dec, ok := s.decryptor.TryDecryptSelfSend(rec)
			if !ok {
				continue
			}
			addRecord(txID, rec.BlockHeight, dec)
		}
	}
}
