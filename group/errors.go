// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package group

import "errors"

// ErrScalarInversion is returned when inverting the zero scalar.
var ErrScalarInversion = errors.New("group: cannot invert zero scalar")

// ErrBadDecomposition is returned by Decompose on malformed parameters.
var ErrBadDecomposition = errors.New("group: base must be > 1 and base^size must be >= val")

// ErrBadConvolution is returned by Convolve when operand x is shorter than m.
var ErrBadConvolution = errors.New("group: convolution operand x is shorter than m")

// ErrBadMatrixSize is returned by ComMatrix on malformed matrix dimensions.
var ErrBadMatrixSize = errors.New("group: matrix commitment size exceeds generator table or rows are ragged")

// ErrMismatchedLengths is returned by MSM-style helpers when point/scalar
// vectors disagree in length.
var ErrMismatchedLengths = errors.New("group: point and scalar vectors have different lengths")

// ErrEncoding is returned when a canonical 32-byte point or scalar encoding
// fails to parse.
var ErrEncoding = errors.New("group: invalid canonical encoding")
