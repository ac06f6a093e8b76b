// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package legacyenote

import (
	"testing"

	"github.com/stretchr/testify/require"

	spgroup "github.com/luxfi/sp-crypto/group"
)

func TestSubaddressSpendkeyDeterministic(t *testing.T) {
	base := spgroup.BasePoint().Mul(spgroup.RandomScalar())
	viewPriv := spgroup.RandomScalar()
	a := SubaddressSpendkey(base, viewPriv, 0, 1)
	b := SubaddressSpendkey(base, viewPriv, 0, 1)
	require.True(t, a.Equal(b))

	c := SubaddressSpendkey(base, viewPriv, 0, 2)
	require.False(t, a.Equal(c))
}

func TestOnetimeAddressAndKeyImageRoundTrip(t *testing.T) {
	spendPriv := spgroup.RandomScalar()
	viewPriv := spgroup.RandomScalar()
	destSpend := spgroup.MulBase(spendPriv)
	destView := spgroup.MulBase(viewPriv)

	ephemeralPriv := spgroup.RandomScalar()
	derivationSender := Derivation(destView, ephemeralPriv)
	onetime := OnetimeAddress(destSpend, derivationSender, 7)

	ephemeralPub := spgroup.MulBase(ephemeralPriv)
	derivationReceiver := Derivation(ephemeralPub, viewPriv)
	require.True(t, derivationSender.Equal(derivationReceiver))

	enoteViewPriv := EnoteViewPrivkey(derivationReceiver, 7, nil)
	require.True(t, onetime.Equal(spgroup.MulBase(enoteViewPriv).Add(destSpend)))

	ki1 := KeyImage(enoteViewPriv, spendPriv, onetime)
	ki2 := KeyImage(enoteViewPriv, spendPriv, onetime)
	require.True(t, ki1.Equal(ki2))
	require.False(t, ki1.IsIdentity())
}

func TestViewTagMatchesAcrossSenderAndReceiver(t *testing.T) {
	viewPriv := spgroup.RandomScalar()
	destView := spgroup.MulBase(viewPriv)
	ephemeralPriv := spgroup.RandomScalar()
	ephemeralPub := spgroup.MulBase(ephemeralPriv)

	senderDerivation := Derivation(destView, ephemeralPriv)
	receiverDerivation := Derivation(ephemeralPub, viewPriv)

	tag := ViewTag(senderDerivation, 3)
	require.True(t, TryCheckViewTag(receiverDerivation, 3, tag))
	require.False(t, TryCheckViewTag(receiverDerivation, 4, tag))
}

func TestAmountV2RoundTrip(t *testing.T) {
	secret := spgroup.RandomScalar()
	encoded := EncodeAmountV2(secret, 12345)
	decoded := DecodeAmountV2(secret, encoded)
	require.Equal(t, uint64(12345), decoded)
}

func TestAmountV1RoundTrip(t *testing.T) {
	secret := spgroup.RandomScalar()
	mask := spgroup.RandomScalar()
	encoded := EncodeAmountV1(secret, mask, 98765)
	blinding, amount := DecodeAmountV1(secret, encoded)
	require.True(t, blinding.Equal(mask))
	require.True(t, amount.Equal(spgroup.ScalarFromUint64(98765)))
}

func TestRecoverAmountV2(t *testing.T) {
	viewPriv := spgroup.RandomScalar()
	destView := spgroup.MulBase(viewPriv)
	ephemeralPriv := spgroup.RandomScalar()
	ephemeralPub := spgroup.MulBase(ephemeralPriv)

	derivation := Derivation(destView, ephemeralPriv)
	secret := SenderReceiverSecret(derivation, 0)
	encodedAmount := EncodeAmountV2(secret, 5000)

	enote := LegacyEnote{
		Version:              V2,
		EncodedAmountV2:      encodedAmount,
		EnoteEphemeralPubkey: ephemeralPub,
	}
	recovered, err := RecoverAmount(enote, viewPriv, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), recovered.Amount)
}

func TestRecoverAmountV4RejectsWrongViewTag(t *testing.T) {
	viewPriv := spgroup.RandomScalar()
	destView := spgroup.MulBase(viewPriv)
	ephemeralPriv := spgroup.RandomScalar()
	ephemeralPub := spgroup.MulBase(ephemeralPriv)

	enote := LegacyEnote{
		Version:              V4,
		EnoteEphemeralPubkey: ephemeralPub,
		ViewTag:              0xFF,
	}
	_, err := RecoverAmount(enote, viewPriv, 0)
	require.ErrorIs(t, err, ErrViewTagMismatch)
	_ = destView
}

func TestRecoverAmountV3ChecksCommitment(t *testing.T) {
	viewPriv := spgroup.RandomScalar()
	destView := spgroup.MulBase(viewPriv)
	ephemeralPriv := spgroup.RandomScalar()
	ephemeralPub := spgroup.MulBase(ephemeralPriv)

	derivation := Derivation(destView, ephemeralPriv)
	secret := SenderReceiverSecret(derivation, 2)
	encodedAmount := EncodeAmountV2(secret, 77)
	blinding := AmountBlindingFactorV2(secret)
	gens := spgroup.Gens()
	commitment := gens.H.Mul(blinding).Add(gens.G.Mul(spgroup.ScalarFromUint64(77)))

	enote := LegacyEnote{
		Version:              V3,
		EncodedAmountV2:      encodedAmount,
		EnoteEphemeralPubkey: ephemeralPub,
		AmountCommitment:     commitment,
	}
	recovered, err := RecoverAmount(enote, viewPriv, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(77), recovered.Amount)

	enote.AmountCommitment = spgroup.BasePoint().Mul(spgroup.RandomScalar())
	_, err = RecoverAmount(enote, viewPriv, 2)
	require.ErrorIs(t, err, ErrAmountCommitmentMismatch)
}
