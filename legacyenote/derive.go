// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package legacyenote

import (
	"crypto/sha256"
	"encoding/binary"

	spgroup "github.com/luxfi/sp-crypto/group"
)

// SenderReceiverSecret computes Hn(r*K^v, t): the shared secret a legacy
// enote's sender and its recipient's view key both derive, from the
// Diffie-Hellman point baseKey*dhPrivkey and the output index t.
func SenderReceiverSecret(derivation spgroup.Point, txOutputIndex uint64) spgroup.Scalar {
	b := derivation.Bytes()
	return spgroup.HashToScalar([]byte("derivation_to_scalar"), b[:], u64le(txOutputIndex))
}

// Derivation computes the Diffie-Hellman point r*K^v (or k^v*R) shared
// between an ephemeral key and a long-term key.
func Derivation(baseKey spgroup.Point, privkey spgroup.Scalar) spgroup.Point {
	return baseKey.Mul(privkey)
}

// SubaddressModifier computes Hn(k^v || index_major || index_minor), the
// per-subaddress offset folded into the base spend key.
func SubaddressModifier(viewPrivkey spgroup.Scalar, major, minor uint32) spgroup.Scalar {
	v := viewPrivkey.Bytes()
	return spgroup.HashToScalar([]byte("SubAddr"), v[:], u32le(major), u32le(minor))
}

// SubaddressSpendkey computes K^{s,i} = Hn(k^v,i)*G + K^s.
func SubaddressSpendkey(baseSpendkey spgroup.Point, viewPrivkey spgroup.Scalar, major, minor uint32) spgroup.Point {
	modifier := SubaddressModifier(viewPrivkey, major, minor)
	return baseSpendkey.Add(spgroup.MulBase(modifier))
}

// EnoteViewPrivkey computes Hn(r K^v, t), optionally offset by a
// subaddress modifier when the destination is a subaddress.
func EnoteViewPrivkey(derivation spgroup.Point, txOutputIndex uint64, subaddressModifier *spgroup.Scalar) spgroup.Scalar {
	s := SenderReceiverSecret(derivation, txOutputIndex)
	if subaddressModifier != nil {
		s = s.Add(*subaddressModifier)
	}
	return s
}

// OnetimeAddress computes K^o = Hn(r K^v, t)*G + K^s for a plain
// (non-subaddress) destination.
func OnetimeAddress(destSpendkey spgroup.Point, derivation spgroup.Point, txOutputIndex uint64) spgroup.Point {
	secret := SenderReceiverSecret(derivation, txOutputIndex)
	return destSpendkey.Add(spgroup.MulBase(secret))
}

// KeyImage computes KI = (k^v_enote + k^s)*Hp(K^o), the linking tag for a
// legacy onetime address the wallet controls.
func KeyImage(enoteViewPrivkey, spendPrivkey spgroup.Scalar, onetimeAddress spgroup.Point) spgroup.Point {
	hp := hashToPointFromOnetime(onetimeAddress)
	x := enoteViewPrivkey.Add(spendPrivkey)
	return hp.Mul(x)
}

func hashToPointFromOnetime(onetime spgroup.Point) spgroup.Point {
	b := onetime.Bytes()
	return spgroup.HashToPoint("legacy key image Hp", int(binary.LittleEndian.Uint32(b[:4])))
}

// ViewTag computes the one-byte view tag H_1("view_tag", r K^v, t) used
// to cheaply reject most non-owned outputs before doing full scalar
// derivation.
func ViewTag(derivation spgroup.Point, txOutputIndex uint64) byte {
	b := derivation.Bytes()
	s := spgroup.HashToScalar([]byte("view_tag"), b[:], u64le(txOutputIndex))
	enc := s.Bytes()
	return enc[0]
}

// TryCheckViewTag reports whether a claimed view tag matches the one
// recomputed from the derivation and output index, letting a scanner
// short-circuit full amount recovery for outputs that are very unlikely
// to belong to the scanning wallet.
func TryCheckViewTag(derivation spgroup.Point, txOutputIndex uint64, claimed byte) bool {
	return ViewTag(derivation, txOutputIndex) == claimed
}

// AmountBlindingFactorV2 computes Hn("commitment_mask", Hn(r K^v, t)), the
// Pedersen commitment mask for V2+ legacy enotes.
func AmountBlindingFactorV2(senderReceiverSecret spgroup.Scalar) spgroup.Scalar {
	s := senderReceiverSecret.Bytes()
	return spgroup.HashToScalar([]byte("commitment_mask"), s[:])
}

// AmountEncodingFactorV2 computes H32("amount", Hn(r K^v, t)) as a raw
// 32-byte XOR pad, matching the original's un-reduced cn_fast_hash output
// (this value masks an amount by XOR, not by scalar arithmetic, so it is
// deliberately not reduced into the scalar field).
func AmountEncodingFactorV2(senderReceiverSecret spgroup.Scalar) [32]byte {
	s := senderReceiverSecret.Bytes()
	data := append([]byte("amount"), s[:]...)
	return sha256.Sum256(data)
}

func xorAmount(amount uint64, factor [32]byte) uint64 {
	mask := binary.LittleEndian.Uint64(factor[:8])
	return amount ^ mask
}

// EncodeAmountV2 XOR-masks a plaintext amount for wire storage.
func EncodeAmountV2(senderReceiverSecret spgroup.Scalar, amount uint64) uint64 {
	factor := AmountEncodingFactorV2(senderReceiverSecret)
	return xorAmount(amount, factor)
}

// DecodeAmountV2 recovers a plaintext amount from its V2-encoded form; XOR
// is its own inverse so this is the same operation as EncodeAmountV2.
func DecodeAmountV2(senderReceiverSecret spgroup.Scalar, encodedAmount uint64) uint64 {
	return EncodeAmountV2(senderReceiverSecret, encodedAmount)
}

// EncodedAmountV1 is the earliest legacy scheme: both the commitment mask
// and the amount are additively masked in the scalar field rather than
// XORed, recovered by subtracting the same derived factors back out.
type EncodedAmountV1 struct {
	BlindingFactor spgroup.Scalar
	Amount         spgroup.Scalar
}

// EncodeAmountV1 additively masks amountMask and amount using two
// successive hash derivations of the sender-receiver secret.
func EncodeAmountV1(senderReceiverSecret spgroup.Scalar, amountMask spgroup.Scalar, amount uint64) EncodedAmountV1 {
	s := senderReceiverSecret.Bytes()
	maskFactor := spgroup.HashToScalar(s[:])
	encodedMask := amountMask.Add(maskFactor)

	mf := maskFactor.Bytes()
	amountFactor := spgroup.HashToScalar(mf[:])
	encodedAmount := spgroup.ScalarFromUint64(amount).Add(amountFactor)

	return EncodedAmountV1{BlindingFactor: encodedMask, Amount: encodedAmount}
}

// DecodeAmountV1 recovers the plaintext blinding factor and amount from a
// V1-encoded pair.
func DecodeAmountV1(senderReceiverSecret spgroup.Scalar, encoded EncodedAmountV1) (blindingFactor spgroup.Scalar, amount spgroup.Scalar) {
	s := senderReceiverSecret.Bytes()
	maskFactor := spgroup.HashToScalar(s[:])
	blindingFactor = encoded.BlindingFactor.Sub(maskFactor)

	mf := maskFactor.Bytes()
	amountFactor := spgroup.HashToScalar(mf[:])
	amount = encoded.Amount.Sub(amountFactor)
	return blindingFactor, amount
}

func u64le(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func u32le(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}
