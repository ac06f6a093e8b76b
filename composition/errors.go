// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package composition implements the Seraphis composition proof: a sigma
// protocol proving knowledge of an address's spend authority and deriving
// its linking tag (key image) in the same proof, plus a multi-party
// extension letting a threshold of co-signers jointly produce one proof.
package composition

import "errors"

var (
	// ErrMalformedKeys is returned when a base key is the identity, or a
	// required-nonzero scalar (y or z) is zero.
	ErrMalformedKeys = errors.New("composition: malformed base keys or scalars")

	// ErrBadChallenge is returned when the Fiat-Shamir challenge collapses
	// to zero, which would let a forger skip binding to the statement.
	ErrBadChallenge = errors.New("composition: challenge reduced to zero")

	// ErrVerifyFailed is returned when a structurally valid proof fails the
	// challenge-recomputation check.
	ErrVerifyFailed = errors.New("composition: verification failed")

	// ErrAggregationMismatch is returned when multisig partial responses
	// disagree on signer set, proposal, or challenge.
	ErrAggregationMismatch = errors.New("composition: multisig partial responses do not aggregate")
)
