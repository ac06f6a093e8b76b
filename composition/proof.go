// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package composition

import (
	spgroup "github.com/luxfi/sp-crypto/group"
)

// Proof is a composition proof over one or more base keys K: it proves
// knowledge of x_i, y_i, z_i such that K_i = x_i*G + y_i*X + z_i*U for each
// i, and binds each key's linking tag KI_i = (z_i/y_i)*U into the same
// challenge.
type Proof struct {
	Kt1 []spgroup.Point
	KI  []spgroup.Point
	C   spgroup.Scalar
	Ra  spgroup.Scalar
	Rb  spgroup.Scalar
	Ri  []spgroup.Scalar
}

func transcriptInit() []byte {
	h := spgroup.HashToScalar([]byte("sp_composition_proof_transcript")).Bytes()
	return h[:]
}

func baseAggregationCoefficientA(message []byte, kt1, ki []spgroup.Point) (spgroup.Scalar, error) {
	buf := transcriptInit()
	buf = append(buf, message...)
	buf = append(buf, pointsBytes(kt1)...)
	buf = append(buf, pointsBytes(ki)...)
	mu := spgroup.HashToScalar(buf)
	if mu.IsZero() {
		return spgroup.Scalar{}, ErrBadChallenge
	}
	return mu, nil
}

func baseAggregationCoefficientB(muA spgroup.Scalar) spgroup.Scalar {
	b := muA.Bytes()
	return spgroup.HashToScalar(b[:])
}

func challengeMessage(muB spgroup.Scalar, k []spgroup.Point) []byte {
	b := muB.Bytes()
	buf := append([]byte{}, b[:]...)
	buf = append(buf, pointsBytes(k)...)
	return buf
}

func computeChallenge(m []byte, kt2ProofKey, kiProofKey spgroup.Point, kt1ProofKeys []spgroup.Point) (spgroup.Scalar, error) {
	buf := append([]byte{}, m...)
	a := kt2ProofKey.Bytes()
	b := kiProofKey.Bytes()
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	buf = append(buf, pointsBytes(kt1ProofKeys)...)
	c := spgroup.HashToScalar(buf)
	if c.IsZero() {
		return spgroup.Scalar{}, ErrBadChallenge
	}
	return c, nil
}

func pointsBytes(pts []spgroup.Point) []byte {
	buf := make([]byte, 0, 32*len(pts))
	for _, p := range pts {
		b := p.Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

// Prove builds a composition proof over base keys K, where K[i] =
// x[i]*G + y[i]*X + z[i]*U. y[i] and z[i] must be nonzero (they are
// inverted); x[i] may be zero.
func Prove(k []spgroup.Point, x, y, z []spgroup.Scalar, message []byte) (*Proof, error) {
	n := len(k)
	if n == 0 || len(x) != n || len(y) != n || len(z) != n {
		return nil, ErrMalformedKeys
	}
	gens := spgroup.Gens()
	for i := 0; i < n; i++ {
		if k[i].IsIdentity() || y[i].IsZero() || z[i].IsZero() {
			return nil, ErrMalformedKeys
		}
	}

	invY := make([]spgroup.Scalar, n)
	kt1 := make([]spgroup.Point, n)
	ki := make([]spgroup.Point, n)
	for i := 0; i < n; i++ {
		iv, err := y[i].Invert()
		if err != nil {
			return nil, ErrMalformedKeys
		}
		invY[i] = iv
		kt1[i] = k[i].Mul(iv)
		ki[i] = gens.U.Mul(z[i].Mul(iv))
	}

	alphaA := spgroup.RandomScalar()
	alphaB := spgroup.RandomScalar()
	alphaI := make([]spgroup.Scalar, n)
	alphaIPub := make([]spgroup.Point, n)
	for i := 0; i < n; i++ {
		alphaI[i] = spgroup.RandomScalar()
		alphaIPub[i] = k[i].Mul(alphaI[i])
	}
	alphaAPub := gens.G.Mul(alphaA)
	alphaBPub := gens.U.Mul(alphaB)

	muA, err := baseAggregationCoefficientA(message, kt1, ki)
	if err != nil {
		return nil, err
	}
	muAPows := spgroup.PowersOfScalar(muA, n, false)
	muB := baseAggregationCoefficientB(muA)
	muBPows := spgroup.PowersOfScalar(muB, n, false)

	m := challengeMessage(muB, k)
	c, err := computeChallenge(m, alphaAPub, alphaBPub, alphaIPub)
	if err != nil {
		return nil, err
	}

	sumA := spgroup.ZeroScalar()
	sumB := spgroup.ZeroScalar()
	for i := 0; i < n; i++ {
		sumA = sumA.Add(muAPows[i].Mul(x[i]).Mul(invY[i]))
		sumB = sumB.Add(muBPows[i].Mul(z[i]).Mul(invY[i]))
	}
	ra := alphaA.Sub(c.Mul(sumA))
	rb := alphaB.Sub(c.Mul(sumB))
	ri := make([]spgroup.Scalar, n)
	for i := 0; i < n; i++ {
		ri[i] = alphaI[i].Sub(c.Mul(invY[i]))
	}

	return &Proof{Kt1: kt1, KI: ki, C: c, Ra: ra, Rb: rb, Ri: ri}, nil
}

// Verify checks a composition proof against base keys k and the message;
// the linking tags it checks are the ones carried in proof.KI.
func Verify(proof *Proof, k []spgroup.Point, message []byte) (bool, error) {
	if proof == nil {
		return false, ErrMalformedKeys
	}
	n := len(k)
	if n == 0 || len(proof.Kt1) != n || len(proof.KI) != n || len(proof.Ri) != n {
		return false, ErrMalformedKeys
	}
	if proof.Ra.IsZero() {
		return false, ErrMalformedKeys
	}
	for i := 0; i < n; i++ {
		if proof.Ri[i].IsZero() || proof.KI[i].IsIdentity() || proof.Kt1[i].IsIdentity() {
			return false, ErrMalformedKeys
		}
	}

	gens := spgroup.Gens()
	muA, err := baseAggregationCoefficientA(message, proof.Kt1, proof.KI)
	if err != nil {
		return false, err
	}
	muAPows := spgroup.PowersOfScalar(muA, n, false)
	muB := baseAggregationCoefficientB(muA)
	muBPows := spgroup.PowersOfScalar(muB, n, false)
	m := challengeMessage(muB, k)

	kt2Terms := make([]spgroup.MultiExpTerm, 0, n+1)
	for i := 0; i < n; i++ {
		kt2 := proof.Kt1[i].Sub(proof.KI[i]).Sub(gens.X)
		kt2Terms = append(kt2Terms, spgroup.MultiExpTerm{Scalar: proof.C.Mul(muAPows[i]), Point: kt2})
	}
	kt2Terms = append(kt2Terms, spgroup.MultiExpTerm{Scalar: proof.Ra, Point: gens.G})
	challengePartA := spgroup.MultiExp(kt2Terms)

	kiTerms := make([]spgroup.MultiExpTerm, 0, n+1)
	for i := 0; i < n; i++ {
		kiTerms = append(kiTerms, spgroup.MultiExpTerm{Scalar: proof.C.Mul(muBPows[i]), Point: proof.KI[i]})
	}
	kiTerms = append(kiTerms, spgroup.MultiExpTerm{Scalar: proof.Rb, Point: gens.U})
	challengePartB := spgroup.MultiExp(kiTerms)

	challengePartsI := make([]spgroup.Point, n)
	for i := 0; i < n; i++ {
		terms := []spgroup.MultiExpTerm{
			{Scalar: proof.Ri[i], Point: k[i]},
			{Scalar: proof.C, Point: proof.Kt1[i]},
		}
		challengePartsI[i] = spgroup.MultiExp(terms)
	}

	nom, err := computeChallenge(m, challengePartA, challengePartB, challengePartsI)
	if err != nil {
		return false, ErrVerifyFailed
	}
	if !nom.Equal(proof.C) {
		return false, ErrVerifyFailed
	}
	return true, nil
}
