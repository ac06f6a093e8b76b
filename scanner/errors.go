// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scanner implements the two-pass blockchain scanning state
// machine: it consumes find-context chunks (onchain, unconfirmed,
// offchain) and folds them into an enotestore.EnoteStore under the
// monotone status lattice, detecting and recovering from reorgs via
// full- and partial-rescan signals.
package scanner

import "errors"

var (
	// ErrScanAborted is returned when the caller's context is cancelled
	// mid-refresh.
	ErrScanAborted = errors.New("scanner: scan aborted")

	// ErrScanMaxRetries is returned when partial-scan retries exceed the
	// configured maximum without the chain settling into a contiguous
	// view.
	ErrScanMaxRetries = errors.New("scanner: partial-scan retry limit exceeded")

	// ErrInvalidChunk is returned when a chunk fails the scanner's
	// semantic validation (bad height range, dangling key-image tx_id,
	// mismatched block-id length).
	ErrInvalidChunk = errors.New("scanner: chunk failed semantic validation")
)
