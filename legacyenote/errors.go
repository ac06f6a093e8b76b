// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package legacyenote implements the pre-Seraphis (legacy RingCT) enote
// derivation and amount-recovery routines the scanner's plain and
// self-send passes drive against the view key: sender-receiver secret
// derivation, view tags, subaddress spend keys, onetime addresses, key
// images, and the V1-V4 amount-encoding schemes.
package legacyenote

import "errors"

// ErrViewTagMismatch is returned by amount recovery when a stored view tag
// does not match the tag recomputed from the claimed derivation, meaning
// the enote almost certainly does not belong to the scanning wallet.
var ErrViewTagMismatch = errors.New("legacyenote: view tag mismatch")

// ErrAmountCommitmentMismatch is returned when a recovered amount and mask
// do not reproduce the enote's committed amount commitment.
var ErrAmountCommitmentMismatch = errors.New("legacyenote: recovered amount does not match commitment")

// ErrUnknownVersion is returned for an enote version outside V1-V4.
var ErrUnknownVersion = errors.New("legacyenote: unknown enote version")
