// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curvecycle specifies an injectable two-curve hash-chain
// interface for building accumulator paths for enotes, independent of any
// concrete curve pair. This package defines only the contract plus a
// non-cryptographic mock for tests; the scanner package does not use it.
package curvecycle

import "errors"

// ErrChainEmpty is returned by Trim when called on an already-empty chain.
var ErrChainEmpty = errors.New("curvecycle: cannot trim an empty hash chain")

// ErrDecodeFailed is returned when a scalar's byte encoding cannot be
// parsed back by the curve that produced it.
var ErrDecodeFailed = errors.New("curvecycle: failed to decode scalar encoding")

// Curve is one leg of a two-curve cycle: it hashes points of its own
// curve into scalars of its cycle partner, and grows/trims an append-only
// chain of such hashes. Two Curve implementations whose scalar field is
// the other's point-coordinate field form a cycle.
type Curve interface {
	// Name identifies the curve for logging and error messages.
	Name() string

	// HashInitPoint returns the fixed starting point the chain begins
	// from before any leaves are added.
	HashInitPoint() []byte

	// PointToCycleScalar maps an encoded point of this curve to a scalar
	// of the cycle partner curve, the operation used to fold one curve's
	// commitments into the other's hash chain.
	PointToCycleScalar(point []byte) ([]byte, error)

	// HashGrow appends a new leaf hash to the chain given the previous
	// chain hash and the new leaf's child hashes.
	HashGrow(prevHash []byte, childOffset int, children [][]byte) ([]byte, error)

	// HashTrim removes the most recently added leaf, returning the chain
	// hash as it was before that leaf was grown.
	HashTrim(lastHash []byte, childOffset int, children [][]byte) ([]byte, error)

	// ZeroScalar returns the additive identity of this curve's scalar
	// field, encoded the same way HashGrow/HashTrim hashes are encoded.
	ZeroScalar() []byte
}

// Pair bundles the two legs of a cycle. No other package in this module
// takes a Pair; the scanner is not given one.
type Pair struct {
	A Curve
	B Curve
}
