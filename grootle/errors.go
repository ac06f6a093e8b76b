// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package grootle implements the Grootle one-of-many membership argument:
// a proof that a prover knows the opening of one row of a reference matrix
// of n^m rows, without revealing which row. Both the "large" variant (one
// response per matrix column) and the "concise" variant (columns aggregated
// into one, optionally binding linking tags into the aggregation) are
// provided, along with Pippenger-batched multi-proof verification.
package grootle

import "errors"

var (
	// ErrBadParams is returned when n, m or the reference set size violate
	// the proof system's structural bounds.
	ErrBadParams = errors.New("grootle: n and m must each exceed 1 and m*n must not exceed the generator table")

	// ErrSignerNotInSet is returned by the prover when the claimed signing
	// index does not open the offset commitment it is proving membership of.
	ErrSignerNotInSet = errors.New("grootle: signing index does not open to the given private key")

	// ErrMalformedProof is returned by the verifier when a proof component
	// fails a structural sanity check (zero where nonzero is required, or a
	// challenge that reduces to zero).
	ErrMalformedProof = errors.New("grootle: malformed proof")

	// ErrVerifyFailed is returned when a structurally valid proof fails the
	// final Pippenger identity check.
	ErrVerifyFailed = errors.New("grootle: verification failed")

	// ErrBatchSizeMismatch is returned when a batch verification call
	// receives mismatched-length proof/reference-set/message slices.
	ErrBatchSizeMismatch = errors.New("grootle: batch verification received mismatched input lengths")
)
