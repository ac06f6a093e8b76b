// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package legacyenote

import (
	spgroup "github.com/luxfi/sp-crypto/group"
)

// EnoteVersion identifies which legacy amount-encoding scheme an enote
// uses. V1 is additive scalar masking; V2 introduced XOR masking; V3 is
// V2's XOR masking plus a recomputed-commitment sanity check against the
// enote's stored amount commitment; V4 additionally carries a view tag
// that must be checked before amount recovery is attempted at all.
type EnoteVersion int

const (
	V1 EnoteVersion = iota + 1
	V2
	V3
	V4
)

// LegacyEnote carries the fields recovery needs across all four versions;
// fields unused by a given version may be left zero.
type LegacyEnote struct {
	Version              EnoteVersion
	OnetimeAddress       spgroup.Point
	AmountCommitment     spgroup.Point
	EncodedAmountV1      EncodedAmountV1
	EncodedAmountV2      uint64
	ViewTag              byte
	EnoteEphemeralPubkey spgroup.Point
}

// RecoveredAmount is the result of a successful amount recovery: the
// plaintext amount and the Pedersen blinding factor needed to later prove
// knowledge of the commitment opening.
type RecoveredAmount struct {
	Amount         uint64
	BlindingFactor spgroup.Scalar
}

// RecoverAmount attempts to recover the plaintext amount of a legacy
// enote against the scanning wallet's view private key, dispatching on the
// enote's version. txOutputIndex is the enote's position within its
// transaction.
func RecoverAmount(enote LegacyEnote, viewPrivkey spgroup.Scalar, txOutputIndex uint64) (*RecoveredAmount, error) {
	derivation := Derivation(enote.EnoteEphemeralPubkey, viewPrivkey)

	if enote.Version == V4 {
		if !TryCheckViewTag(derivation, txOutputIndex, enote.ViewTag) {
			return nil, ErrViewTagMismatch
		}
	}

	secret := SenderReceiverSecret(derivation, txOutputIndex)

	switch enote.Version {
	case V1:
		blinding, amount := DecodeAmountV1(secret, enote.EncodedAmountV1)
		return &RecoveredAmount{Amount: scalarToUint64(amount), BlindingFactor: blinding}, nil

	case V2:
		amount := DecodeAmountV2(secret, enote.EncodedAmountV2)
		blinding := AmountBlindingFactorV2(secret)
		return &RecoveredAmount{Amount: amount, BlindingFactor: blinding}, nil

	case V3, V4:
		amount := DecodeAmountV2(secret, enote.EncodedAmountV2)
		blinding := AmountBlindingFactorV2(secret)
		gens := spgroup.Gens()
		recommitted := gens.H.Mul(blinding).Add(gens.G.Mul(spgroup.ScalarFromUint64(amount)))
		if !recommitted.Equal(enote.AmountCommitment) {
			return nil, ErrAmountCommitmentMismatch
		}
		return &RecoveredAmount{Amount: amount, BlindingFactor: blinding}, nil

	default:
		return nil, ErrUnknownVersion
	}
}

// scalarToUint64 extracts the low 8 bytes of a scalar's canonical
// little-endian encoding. V1 amounts are encoded as full scalars but are
// only ever populated with values that fit in 64 bits.
func scalarToUint64(s spgroup.Scalar) uint64 {
	enc := s.Bytes()
	var v uint64
	for i := 7; i >= 0; i-- {
		v = (v << 8) | uint64(enc[i])
	}
	return v
}
