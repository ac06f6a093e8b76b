// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package inputselection implements the fee-aware greedy input selection
// algorithm: given a spendable set of enotes and a target output amount,
// incrementally select inputs until their sum covers the output amount
// plus the fee that input count requires, accounting for the extra
// output (and its own fee contribution) a nonzero change amount adds.
package inputselection

import "errors"

var (
	// ErrInsufficientFunds is returned when no subset of the available
	// inputs covers the requested amount plus its required fee, including
	// the case where the only shortfall is the zero-change edge case (the
	// greedy search does not fall back to an exhaustive subset search).
	ErrInsufficientFunds = errors.New("inputselection: insufficient funds to cover amount and fee")

	// ErrSelectorExhausted is returned when selection reaches its iteration
	// cap without a solution. A selector that simply runs out of candidates
	// yields ErrInsufficientFunds (or ErrNoCandidates if it offered none).
	ErrSelectorExhausted = errors.New("inputselection: input selector exhausted its candidates")

	// ErrNoCandidates is returned when selection is attempted with no
	// candidate inputs available at all.
	ErrNoCandidates = errors.New("inputselection: no candidate inputs available")
)
