// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package composition

import (
	"testing"

	"github.com/luxfi/threshold/pkg/party"
	"github.com/stretchr/testify/require"

	spgroup "github.com/luxfi/sp-crypto/group"
)

func buildKeys(n int) ([]spgroup.Point, []spgroup.Scalar, []spgroup.Scalar, []spgroup.Scalar) {
	gens := spgroup.Gens()
	k := make([]spgroup.Point, n)
	x := make([]spgroup.Scalar, n)
	y := make([]spgroup.Scalar, n)
	z := make([]spgroup.Scalar, n)
	for i := 0; i < n; i++ {
		x[i] = spgroup.RandomScalar()
		y[i] = spgroup.RandomScalar()
		z[i] = spgroup.RandomScalar()
		k[i] = gens.G.Mul(x[i]).Add(gens.X.Mul(y[i])).Add(gens.U.Mul(z[i]))
	}
	return k, x, y, z
}

func TestProveVerifyRoundTrip(t *testing.T) {
	k, x, y, z := buildKeys(3)
	proof, err := Prove(k, x, y, z, []byte("msg"))
	require.NoError(t, err)

	ok, err := Verify(proof, k, []byte("msg"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	k, x, y, z := buildKeys(1)
	proof, err := Prove(k, x, y, z, []byte("real"))
	require.NoError(t, err)

	ok, err := Verify(proof, k, []byte("forged"))
	require.Error(t, err)
	require.False(t, ok)
}

func TestProveRejectsZeroY(t *testing.T) {
	k, x, y, z := buildKeys(1)
	y[0] = spgroup.ZeroScalar()
	_, err := Prove(k, x, y, z, []byte("msg"))
	require.ErrorIs(t, err, ErrMalformedKeys)
}

func TestProveRejectsIdentityKey(t *testing.T) {
	k, x, y, z := buildKeys(1)
	k[0] = spgroup.IdentityPoint()
	_, err := Prove(k, x, y, z, []byte("msg"))
	require.ErrorIs(t, err, ErrMalformedKeys)
}

func TestMultisigTwoOfTwoRoundTrip(t *testing.T) {
	n := 1
	gens := spgroup.Gens()

	xTotal := spgroup.RandomScalar()
	y := spgroup.RandomScalar()
	z := spgroup.RandomScalar()
	k := []spgroup.Point{gens.G.Mul(xTotal).Add(gens.X.Mul(y)).Add(gens.U.Mul(z))}

	x1 := spgroup.RandomScalar()
	x2 := xTotal.Sub(x1)

	yInv, err := y.Invert()
	require.NoError(t, err)

	proposal := &Proposal{K: k, Message: []byte("multisig message")}

	signer1 := party.ID("alice")
	signer2 := party.ID("bob")
	state1, commit1 := Init(signer1, proposal)
	state2, commit2 := Init(signer2, proposal)

	alphaAPub, alphaBPub, alphaIPub, err := AggregateNonceCommitments([]*NonceCommitment{commit1, commit2}, n)
	require.NoError(t, err)

	kt1 := []spgroup.Point{k[0].Mul(yInv)}
	ki := []spgroup.Point{gens.U.Mul(z.Mul(yInv))}

	muA, muB, c, err := JointChallenge(proposal, kt1, ki, alphaAPub, alphaBPub, alphaIPub)
	require.NoError(t, err)

	partial1, err := PartialRespond(state1, muA, muB, c,
		[]spgroup.Scalar{x1}, []spgroup.Scalar{yInv}, []spgroup.Scalar{spgroup.ZeroScalar()})
	require.NoError(t, err)
	partial2, err := PartialRespond(state2, muA, muB, c,
		[]spgroup.Scalar{x2}, []spgroup.Scalar{spgroup.ZeroScalar()}, []spgroup.Scalar{z})
	require.NoError(t, err)

	proof, err := Aggregate([]*PartialResponse{partial1, partial2}, c, kt1, ki)
	require.NoError(t, err)

	ok, err := Verify(proof, k, []byte("multisig message"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAggregateRejectsDuplicateSigner(t *testing.T) {
	k, _, _, _ := buildKeys(1)
	p := &PartialResponse{Signer: party.ID("alice"), Ra: spgroup.RandomScalar(), Rb: spgroup.RandomScalar(), Ri: []spgroup.Scalar{spgroup.RandomScalar()}}
	_, err := Aggregate([]*PartialResponse{p, p}, spgroup.RandomScalar(), k, k)
	require.ErrorIs(t, err, ErrAggregationMismatch)
}
