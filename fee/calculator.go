// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fee

import "github.com/holiman/uint256"

// LinearFeeCalculator is a mock fee model: a fixed base fee plus a
// per-input and per-output weight times a fee-per-weight-unit rate,
// grounded on tx_fee_calculator_mocks.h's linear "fee = rate * weight"
// mock used throughout the original's unit tests.
type LinearFeeCalculator struct {
	FeePerWeight  uint64
	BaseWeight    uint64
	InputWeight   uint64
	OutputWeight  uint64
	ExtraByteCost uint64
}

// NewLinearFeeCalculator returns a calculator charging feePerWeight per
// weight unit, where a transaction's weight is baseWeight plus
// numInputs*inputWeight plus numOutputs*outputWeight plus
// extraBytes*ExtraByteCost. ExtraByteCost is left at zero here, so extra
// bytes add no weight unless the caller sets that field.
func NewLinearFeeCalculator(feePerWeight, baseWeight, inputWeight, outputWeight uint64) *LinearFeeCalculator {
	return &LinearFeeCalculator{
		FeePerWeight: feePerWeight,
		BaseWeight:   baseWeight,
		InputWeight:  inputWeight,
		OutputWeight: outputWeight,
	}
}

// Fee implements FeeCalculator.
func (c *LinearFeeCalculator) Fee(numInputs, numOutputs int, extraBytes int) (*uint256.Int, error) {
	weight := uint256.NewInt(c.BaseWeight)
	weight.Add(weight, uint256.NewInt(uint64(numInputs)*c.InputWeight))
	weight.Add(weight, uint256.NewInt(uint64(numOutputs)*c.OutputWeight))
	weight.Add(weight, uint256.NewInt(uint64(extraBytes)*c.ExtraByteCost))

	total := new(uint256.Int).Mul(weight, uint256.NewInt(c.FeePerWeight))
	return total, nil
}
