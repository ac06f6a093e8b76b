// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

import (
	"context"
	"fmt"

	log "github.com/luxfi/log"

	"github.com/luxfi/sp-crypto/enotestore"
)

// Config bounds a Scanner's behavior: the height at or below which a
// contiguity break forces a full rescan rather than a partial one
// (FirstContiguityHeight), the restart pushback step (ReorgAvoidanceDepth),
// how many partial-scan retries a single refresh tolerates before giving
// up, and the chunk size hint passed to the ledger find context. Restart
// heights never go below the store's refresh height.
type Config struct {
	FirstContiguityHeight  uint64
	ReorgAvoidanceDepth    uint64
	MaxPartialscanAttempts int
	MaxChunkSize           int
}

// ScanStatus is the terminal outcome of a Refresh call.
type ScanStatus int

const (
	StatusDone ScanStatus = iota
	StatusFail
)

func (s ScanStatus) String() string {
	switch s {
	case StatusDone:
		return "DONE"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Scanner drives the two-pass (onchain + unconfirmed) scan state machine
// described in spec.md §4.4, folding chunks from a FindContext into an
// EnoteStore under the monotone status lattice.
type Scanner struct {
	store     *enotestore.EnoteStore
	decryptor Decryptor
	ledger    FindContextLedger
	offchain  FindContextOffchain
	cfg       Config
	logger    log.Logger
}

// New builds a Scanner. logger may be nil, in which case a default
// info-level test logger is used.
func New(store *enotestore.EnoteStore, decryptor Decryptor, ledger FindContextLedger, offchain FindContextOffchain, cfg Config, logger log.Logger) *Scanner {
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = 1000
	}
	return &Scanner{
		store:     store,
		decryptor: decryptor,
		ledger:    ledger,
		offchain:  offchain,
		cfg:       cfg,
		logger:    logger,
	}
}

// currentMarker reads the store's current alignment position.
func (s *Scanner) currentMarker() ContiguityMarker {
	return s.markerAtHeight(s.store.TopBlockHeight())
}

func (s *Scanner) markerAtHeight(height uint64) ContiguityMarker {
	if id, ok := s.store.TryGetBlockID(height); ok {
		idCopy := id
		return ContiguityMarker{Height: height, BlockID: &idCopy}
	}
	return ContiguityMarker{Height: height}
}

func pow10(k int) uint64 {
	v := uint64(1)
	for i := 0; i < k; i++ {
		v *= 10
	}
	return v
}

type passKind int

const (
	passDone passKind = iota
	passNeedFullscan
	passNeedPartialscan
)

type passOutcome struct {
	kind        passKind
	marker      ContiguityMarker
	breakHeight uint64
}

// onchainPass implements the onchain pass of spec.md §4.4: request chunks
// from marker.Height+1 onward, processing each contiguous chunk into the
// store, until a zero-block chunk (top of chain) or a contiguity break is
// observed.
func (s *Scanner) onchainPass(ctx context.Context, marker ContiguityMarker) (passOutcome, error) {
	for {
		select {
		case <-ctx.Done():
			return passOutcome{}, ErrScanAborted
		default:
		}

		chunk, err := s.ledger.TryGetOnchainChunk(marker.Height, s.cfg.MaxChunkSize)
		if err != nil {
			return passOutcome{}, err
		}
		if chunk.StartHeight != marker.Height+1 {
			return passOutcome{}, fmt.Errorf("%w: chunk start %d does not follow marker height %d", ErrInvalidChunk, chunk.StartHeight, marker.Height)
		}

		// The prefix check must happen before the zero-block short
		// circuit: a chain that hasn't grown can still have reorged its
		// tip, and the full node's reported prefix id is the only signal
		// of that when no new blocks accompany it.
		prefixBlockID := chunk.PrefixBlockID
		prefixMarker := ContiguityMarker{Height: chunk.StartHeight - 1, BlockID: &prefixBlockID}
		if !Contiguous(marker, prefixMarker) {
			breakHeight := chunk.StartHeight - 1
			if breakHeight <= s.cfg.FirstContiguityHeight {
				s.logger.Warn("scanner: contiguity lost at or below first-contiguity height", "break_height", breakHeight)
				return passOutcome{kind: passNeedFullscan, marker: marker, breakHeight: breakHeight}, nil
			}
			s.logger.Warn("scanner: contiguity lost within current refresh", "break_height", breakHeight)
			return passOutcome{kind: passNeedPartialscan, marker: marker, breakHeight: breakHeight}, nil
		}

		if len(chunk.BlockIDs) == 0 {
			return passOutcome{kind: passDone, marker: marker}, nil
		}
		if err := validateLedgerChunk(chunk); err != nil {
			return passOutcome{}, err
		}

		// Post-processing per spec.md §4.4: an onchain chunk supersedes any
		// UNCONFIRMED records entirely, not just those in its own range,
		// since a tx that was unconfirmed is now either confirmed here or
		// gone.
		s.store.ClearOnchainFromHeight(chunk.StartHeight)
		s.store.ClearOriginStatus(enotestore.OriginUnconfirmed)
		s.store.ClearSpentStatus(enotestore.SpentUnconfirmed)
		blockIDForHeight := func(height uint64) [32]byte {
			if height < chunk.StartHeight || height >= chunk.EndHeight {
				return [32]byte{}
			}
			return chunk.BlockIDs[height-chunk.StartHeight]
		}
		s.processRecords(chunk.BasicRecordsByTx, chunk.ContextualKeyImages, enotestore.OriginOnchain, enotestore.SpentOnchain, blockIDForHeight)
		s.store.SetBlockIDsFromHeight(chunk.StartHeight, chunk.BlockIDs)

		last := chunk.BlockIDs[len(chunk.BlockIDs)-1]
		marker = ContiguityMarker{Height: chunk.EndHeight - 1, BlockID: &last}
	}
}

// unconfirmedPass applies the mempool's single non-ledger chunk, first
// dropping any previously recorded unconfirmed state (it is entirely
// superseded by this refresh's snapshot).
func (s *Scanner) unconfirmedPass(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrScanAborted
	default:
	}
	chunk, err := s.ledger.TryGetUnconfirmedChunk()
	if err != nil {
		return err
	}
	if err := validateNonLedgerChunk(chunk); err != nil {
		return err
	}
	s.store.ClearOriginStatus(enotestore.OriginUnconfirmed)
	s.store.ClearSpentStatus(enotestore.SpentUnconfirmed)
	s.processRecords(chunk.BasicRecordsByTx, chunk.ContextualKeyImages, enotestore.OriginUnconfirmed, enotestore.SpentUnconfirmed, nil)
	return nil
}

// Refresh runs the full onchain -> unconfirmed -> onchain-follow-up
// sequence, handling NEED_FULLSCAN and NEED_PARTIALSCAN signals until the
// refresh reaches DONE or exhausts its partial-scan retry budget.
func (s *Scanner) Refresh(ctx context.Context) (ScanStatus, error) {
	base := s.currentMarker()
	marker := base
	partialAttempts := 0
	fullscanAttempts := 0
	unconfirmedDone := false

	for {
		select {
		case <-ctx.Done():
			return StatusFail, ErrScanAborted
		default:
		}

		outcome, err := s.onchainPass(ctx, marker)
		if err != nil {
			return StatusFail, err
		}

		switch outcome.kind {
		case passNeedFullscan:
			fullscanAttempts++
			pushback := pow10(fullscanAttempts-1) * s.cfg.ReorgAvoidanceDepth
			restart := uint64(0)
			if base.Height > pushback {
				restart = base.Height - pushback
			}
			if restart < s.store.RefreshHeight() {
				restart = s.store.RefreshHeight()
			}
			s.logger.Warn("scanner: restarting full scan", "attempt", fullscanAttempts, "restart_height", restart)
			marker = s.markerAtHeight(restart)
			unconfirmedDone = false
			continue

		case passNeedPartialscan:
			partialAttempts++
			if partialAttempts > s.cfg.MaxPartialscanAttempts {
				s.logger.Warn("scanner: partial-scan retry limit exceeded", "attempts", partialAttempts)
				return StatusFail, ErrScanMaxRetries
			}
			// Roll the marker back a short distance (unlike the full
			// scan's exponential backoff) so the retry can pick up a
			// replacement for whatever block triggered the break.
			rewind := s.cfg.ReorgAvoidanceDepth
			if rewind == 0 {
				rewind = 1
			}
			restart := uint64(0)
			if outcome.marker.Height > rewind {
				restart = outcome.marker.Height - rewind
			}
			if restart < s.store.RefreshHeight() {
				restart = s.store.RefreshHeight()
			}
			s.logger.Warn("scanner: retrying partial scan", "attempt", partialAttempts, "restart_height", restart)
			marker = s.markerAtHeight(restart)
			continue

		case passDone:
			if !unconfirmedDone {
				if err := s.unconfirmedPass(ctx); err != nil {
					return StatusFail, err
				}
				unconfirmedDone = true
				marker = outcome.marker
				continue // onchain follow-up pass
			}
			s.logger.Info("scanner: refresh complete", "height", outcome.marker.Height)
			return StatusDone, nil
		}
	}
}

// OffchainRefresh applies the wallet's own offchain state as a single
// non-ledger chunk, scoped to OFFCHAIN / SPENT_OFFCHAIN only.
func (s *Scanner) OffchainRefresh(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrScanAborted
	default:
	}
	chunk, err := s.offchain.TryGetOffchainChunk()
	if err != nil {
		return err
	}
	if err := validateNonLedgerChunk(chunk); err != nil {
		return err
	}
	s.store.ClearOriginStatus(enotestore.OriginOffchain)
	s.store.ClearSpentStatus(enotestore.SpentOffchain)
	s.processRecords(chunk.BasicRecordsByTx, chunk.ContextualKeyImages, enotestore.OriginOffchain, enotestore.SpentOffchain, nil)
	return nil
}
