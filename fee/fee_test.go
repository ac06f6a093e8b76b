// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fee

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscretizedFeeRoundTrip(t *testing.T) {
	raw := feeLevelTable[5]
	f, err := NewDiscretizedFee(raw)
	require.NoError(t, err)

	got, err := f.TryGetFeeValue()
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestDiscretizedFeeRejectsArbitraryValue(t *testing.T) {
	_, err := NewDiscretizedFee(1234567891)
	require.ErrorIs(t, err, ErrNoFeeLevel)
}

func TestDiscretizedFeeTableMonotone(t *testing.T) {
	for i := 1; i < numFeeLevels; i++ {
		require.Greater(t, feeLevelTable[i], feeLevelTable[i-1])
	}
}

func TestNearestLevelAtLeast(t *testing.T) {
	f, err := NearestLevelAtLeast(feeLevelTable[3] - 1)
	require.NoError(t, err)
	val, err := f.TryGetFeeValue()
	require.NoError(t, err)
	require.Equal(t, feeLevelTable[3], val)
}

func TestLevelOutOfRange(t *testing.T) {
	f := DiscretizedFeeFromLevel(255)
	_, err := f.TryGetFeeValue()
	require.ErrorIs(t, err, ErrLevelOutOfRange)
}

func TestLinearFeeCalculator(t *testing.T) {
	calc := NewLinearFeeCalculator(10, 100, 20, 30)
	total, err := calc.Fee(2, 3, 0)
	require.NoError(t, err)
	// weight = 100 + 2*20 + 3*30 = 230; fee = 230*10 = 2300
	require.Equal(t, uint64(2300), total.Uint64())
}
