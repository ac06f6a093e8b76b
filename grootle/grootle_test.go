// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grootle

import (
	"testing"

	"github.com/stretchr/testify/require"
	spgroup "github.com/luxfi/sp-crypto/group"
)

func buildRefSet(t *testing.T, n, m, numKeys, signerIdx int) ([][]spgroup.Point, []spgroup.Point, []spgroup.Scalar) {
	t.Helper()
	size := 1
	for i := 0; i < m; i++ {
		size *= n
	}
	offsets := make([]spgroup.Point, numKeys)
	for alpha := range offsets {
		offsets[alpha] = spgroup.BasePoint().Mul(spgroup.RandomScalar())
	}
	privkeys := make([]spgroup.Scalar, numKeys)
	for alpha := range privkeys {
		privkeys[alpha] = spgroup.RandomScalar()
	}
	refSet := make([][]spgroup.Point, size)
	for k := 0; k < size; k++ {
		refSet[k] = make([]spgroup.Point, numKeys)
		for alpha := 0; alpha < numKeys; alpha++ {
			if k == signerIdx {
				refSet[k][alpha] = offsets[alpha].Add(spgroup.MulBase(privkeys[alpha]))
			} else {
				refSet[k][alpha] = spgroup.BasePoint().Mul(spgroup.RandomScalar())
			}
		}
	}
	return refSet, offsets, privkeys
}

func TestLargeProveVerifyRoundTrip(t *testing.T) {
	n, m, numKeys := 2, 3, 2
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 3)

	proof, err := Prove(refSet, 3, offsets, privkeys, n, m, []byte("message"))
	require.NoError(t, err)

	ok, err := Verify(refSet, VerifyInput{Proof: proof, Offsets: offsets, Message: []byte("message")}, n, m)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLargeProveRejectsWrongSigner(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 2)

	_, err := Prove(refSet, 1, offsets, privkeys, n, m, []byte("msg"))
	require.ErrorIs(t, err, ErrSignerNotInSet)
}

func TestLargeVerifyRejectsWrongMessage(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 5)

	proof, err := Prove(refSet, 5, offsets, privkeys, n, m, []byte("real message"))
	require.NoError(t, err)

	ok, err := Verify(refSet, VerifyInput{Proof: proof, Offsets: offsets, Message: []byte("forged message")}, n, m)
	require.Error(t, err)
	require.False(t, ok)
}

func TestLargeBatchVerifyMultipleProofs(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets1, privkeys1 := buildRefSet(t, n, m, numKeys, 0)
	_, offsets2, privkeys2 := buildRefSet(t, n, m, numKeys, 4)

	// Both proofs must be made over the same final reference set, since the
	// challenge binds the whole matrix.
	refSet2 := make([][]spgroup.Point, len(refSet))
	copy(refSet2, refSet)
	for alpha := 0; alpha < numKeys; alpha++ {
		refSet2[4][alpha] = offsets2[alpha].Add(spgroup.MulBase(privkeys2[alpha]))
	}
	proof1, err := Prove(refSet2, 0, offsets1, privkeys1, n, m, []byte("a"))
	require.NoError(t, err)
	proof2, err := Prove(refSet2, 4, offsets2, privkeys2, n, m, []byte("b"))
	require.NoError(t, err)

	ok, err := BatchVerify(refSet2, []VerifyInput{
		{Proof: proof1, Offsets: offsets1, Message: []byte("a")},
		{Proof: proof2, Offsets: offsets2, Message: []byte("b")},
	}, n, m)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLargeVerifyRejectsZeroFComponent(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 3)

	proof, err := Prove(refSet, 3, offsets, privkeys, n, m, []byte("msg"))
	require.NoError(t, err)

	proof.F[0][0] = spgroup.ZeroScalar()
	ok, err := Verify(refSet, VerifyInput{Proof: proof, Offsets: offsets, Message: []byte("msg")}, n, m)
	require.ErrorIs(t, err, ErrMalformedProof)
	require.False(t, ok)
}

func TestLargeVerifyRejectsIdentityComponent(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 3)

	proof, err := Prove(refSet, 3, offsets, privkeys, n, m, []byte("msg"))
	require.NoError(t, err)

	proof.B = spgroup.IdentityPoint()
	ok, err := Verify(refSet, VerifyInput{Proof: proof, Offsets: offsets, Message: []byte("msg")}, n, m)
	require.ErrorIs(t, err, ErrMalformedProof)
	require.False(t, ok)
}

func TestProveRejectsBadParams(t *testing.T) {
	_, err := Prove(nil, 0, nil, nil, 1, 3, nil)
	require.ErrorIs(t, err, ErrBadParams)
	_, err = Prove(nil, 0, nil, nil, 2, 1, nil)
	require.ErrorIs(t, err, ErrBadParams)
}

func TestConciseProveVerifyRoundTrip(t *testing.T) {
	n, m, numKeys := 2, 3, 2
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 6)

	opts := ConciseOptions{WithLinkingTagComponents: false}
	proof, err := ConciseProve(refSet, 6, offsets, privkeys, nil, n, m, []byte("msg"), opts)
	require.NoError(t, err)

	ok, err := ConciseVerify(refSet, proof, offsets, nil, n, m, []byte("msg"), opts)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestConciseProveVerifyWithLinkingTags(t *testing.T) {
	n, m, numKeys := 2, 3, 1
	refSet, offsets, privkeys := buildRefSet(t, n, m, numKeys, 1)
	linkingTags := []spgroup.Point{spgroup.BasePoint().Mul(privkeys[0])}

	opts := ConciseOptions{WithLinkingTagComponents: true}
	proof, err := ConciseProve(refSet, 1, offsets, privkeys, linkingTags, n, m, []byte("msg"), opts)
	require.NoError(t, err)

	ok, err := ConciseVerify(refSet, proof, offsets, linkingTags, n, m, []byte("msg"), opts)
	require.NoError(t, err)
	require.True(t, ok)

	otherTags := []spgroup.Point{spgroup.BasePoint().Mul(spgroup.RandomScalar())}
	ok, err = ConciseVerify(refSet, proof, offsets, otherTags, n, m, []byte("msg"), opts)
	require.Error(t, err)
	require.False(t, ok)
}
