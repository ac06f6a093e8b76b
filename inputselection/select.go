// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inputselection

import (
	"github.com/holiman/uint256"

	"github.com/luxfi/sp-crypto/fee"
)

// CandidateInput is one spendable enote as the selector sees it: only the
// amount and an opaque identifier matter to the selection algorithm.
type CandidateInput struct {
	ID     [32]byte
	Amount uint64
}

// InputSelector supplies candidate inputs to the selection algorithm in
// the order it wants them tried, letting callers plug in different
// selection heuristics (largest-first, oldest-first, random) without
// touching the fee-aware core loop.
type InputSelector interface {
	// Next returns the next candidate to try, or ok=false once exhausted.
	Next() (CandidateInput, bool)
}

// SliceSelector is an InputSelector over a pre-ordered slice.
type SliceSelector struct {
	inputs []CandidateInput
	pos    int
}

// NewSliceSelector returns a selector that yields inputs in the given
// order.
func NewSliceSelector(inputs []CandidateInput) *SliceSelector {
	return &SliceSelector{inputs: inputs}
}

// Next implements InputSelector.
func (s *SliceSelector) Next() (CandidateInput, bool) {
	if s.pos >= len(s.inputs) {
		return CandidateInput{}, false
	}
	c := s.inputs[s.pos]
	s.pos++
	return c, true
}

// Config bounds the selection algorithm: how many outputs the transaction
// will have without counting change, and the dust threshold below which a
// would-be change amount is folded into the fee instead of creating an
// extra output.
type Config struct {
	Calculator       fee.FeeCalculator
	NumNonChangeOuts int
	DustThreshold    uint64
}

// Result is a successful selection: the chosen inputs, the fee they must
// pay, and the change amount (zero if change was folded into the fee).
type Result struct {
	Selected []CandidateInput
	Fee      uint64
	Change   uint64
}

// Select runs the fee-aware greedy algorithm: it asks selector for
// candidates one at a time, in the order the selector yields them, adding
// each to the working set until the set's sum covers targetAmount plus
// the fee that input count (and output count) requires.
//
// After reaching a covering sum, the algorithm checks whether the
// leftover (the provisional change) is at least cfg.DustThreshold; if it
// is, one more output (the change) is added to the output count and the
// fee is recomputed accordingly, which may require further inputs. If the
// leftover is zero or below the dust threshold, it is folded into the fee
// instead (no change output). When the leftover is at least the dust
// threshold but the change output's extra fee is not covered and the
// selector has no more candidates, the greedy search returns
// ErrInsufficientFunds, even though the selected inputs would have covered
// a transaction without change; it does not fall back to an exhaustive
// subset search.
func Select(selector InputSelector, targetAmount uint64, cfg Config) (*Result, error) {
	var chosen []CandidateInput
	sum := uint256.NewInt(0)
	target := uint256.NewInt(targetAmount)

	any := false
	const maxIterations = 1 << 20
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return nil, ErrSelectorExhausted
		}
		numOutputsNoChange := cfg.NumNonChangeOuts
		feeNoChange, err := cfg.Calculator.Fee(len(chosen), numOutputsNoChange, 0)
		if err != nil {
			return nil, err
		}
		requiredNoChange := new(uint256.Int).Add(target, feeNoChange)

		if sum.Cmp(requiredNoChange) >= 0 {
			leftover := new(uint256.Int).Sub(sum, requiredNoChange)
			if leftover.IsZero() || leftover.LtUint64(cfg.DustThreshold) {
				return &Result{Selected: chosen, Fee: feeNoChange.Uint64() + leftover.Uint64(), Change: 0}, nil
			}

			feeWithChange, err := cfg.Calculator.Fee(len(chosen), numOutputsNoChange+1, 0)
			if err != nil {
				return nil, err
			}
			requiredWithChange := new(uint256.Int).Add(target, feeWithChange)
			if sum.Cmp(requiredWithChange) >= 0 {
				change := new(uint256.Int).Sub(sum, requiredWithChange)
				return &Result{Selected: chosen, Fee: feeWithChange.Uint64(), Change: change.Uint64()}, nil
			}
			// The extra change output's fee pushed the requirement above
			// what's selected so far; keep selecting more inputs below.
		}

		cand, ok := selector.Next()
		if !ok {
			if !any {
				return nil, ErrNoCandidates
			}
			return nil, ErrInsufficientFunds
		}
		any = true
		chosen = append(chosen, cand)
		sum.Add(sum, uint256.NewInt(cand.Amount))
	}
}
