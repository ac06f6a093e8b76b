// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grootle

import (
	spgroup "github.com/luxfi/sp-crypto/group"
)

// ConciseOptions controls the concise-variant's optional binding of linking
// tag (key image) components into the proof's transcript and response.
// Corresponds to the grootle_concise.cpp vs grootle_concise_temp.cpp
// divergence: when true, the per-key linking tags are folded into the
// aggregation coefficient and the final response so a verifier cannot
// accept the proof against a different set of linking tags than the one it
// was produced for.
type ConciseOptions struct {
	WithLinkingTagComponents bool
}

// ConciseProof is the concise-variant Grootle proof: it aggregates the
// numKeys parallel reference columns into a single column via a
// Fiat-Shamir aggregation coefficient mu, so the proof carries one z
// response instead of one per column.
type ConciseProof struct {
	A, B, C, D spgroup.Point
	X          []spgroup.Point // one per j in [0,m)
	F          [][]spgroup.Scalar
	ZA, ZC     spgroup.Scalar
	Z          spgroup.Scalar
}

func aggregationCoefficient(message []byte, refSet [][]spgroup.Point, offsets []spgroup.Point, linkingTags []spgroup.Point, opts ConciseOptions) spgroup.Scalar {
	buf := []byte("grootle concise aggregation")
	buf = append(buf, message...)
	buf = append(buf, matrixBytes(refSet)...)
	buf = append(buf, pointsBytes(offsets)...)
	if opts.WithLinkingTagComponents {
		buf = append(buf, pointsBytes(linkingTags)...)
	}
	return spgroup.HashToScalar(buf)
}

func aggregatedColumn(refSet [][]spgroup.Point, offsets []spgroup.Point, mu spgroup.Scalar) [][]spgroup.Point {
	numKeys := len(offsets)
	muPows := spgroup.PowersOfScalar(mu, numKeys, false)
	out := make([][]spgroup.Point, len(refSet))
	for k := range refSet {
		terms := make([]spgroup.MultiExpTerm, numKeys)
		for alpha := 0; alpha < numKeys; alpha++ {
			terms[alpha] = spgroup.MultiExpTerm{Scalar: muPows[alpha], Point: refSet[k][alpha].Sub(offsets[alpha])}
		}
		out[k] = []spgroup.Point{spgroup.MultiExp(terms)}
	}
	return out
}

// ConciseProve builds a concise-variant proof for a single aggregated
// reference column, combining numKeys parallel columns via mu. privkeys
// must satisfy refSet[l][alpha]-offsets[alpha] = privkeys[alpha]*G for
// every alpha. linkingTags is optional per-key-image context bound into
// the transcript when opts.WithLinkingTagComponents is set.
func ConciseProve(refSet [][]spgroup.Point, l int, offsets []spgroup.Point, privkeys []spgroup.Scalar, linkingTags []spgroup.Point, n, m int, message []byte, opts ConciseOptions) (*ConciseProof, error) {
	if n <= 1 || m <= 1 || m*n > spgroup.MaxGenerators {
		return nil, ErrBadParams
	}
	size := 1
	for i := 0; i < m; i++ {
		size *= n
	}
	numKeys := len(privkeys)
	if len(refSet) != size || l < 0 || l >= size || numKeys == 0 || len(offsets) != numKeys {
		return nil, ErrBadParams
	}
	if opts.WithLinkingTagComponents && len(linkingTags) != numKeys {
		return nil, ErrBadParams
	}
	for alpha := 0; alpha < numKeys; alpha++ {
		opened := refSet[l][alpha].Sub(offsets[alpha])
		if !opened.Equal(spgroup.MulBase(privkeys[alpha])) {
			return nil, ErrSignerNotInSet
		}
	}

	mu := aggregationCoefficient(message, refSet, offsets, linkingTags, opts)
	muPows := spgroup.PowersOfScalar(mu, numKeys, false)
	aggCol := aggregatedColumn(refSet, offsets, mu)
	aggPriv := spgroup.ZeroScalar()
	for alpha := 0; alpha < numKeys; alpha++ {
		aggPriv = aggPriv.Add(muPows[alpha].Mul(privkeys[alpha]))
	}

	// The aggregated problem is now exactly a large-variant proof with
	// numKeys collapsed to 1; reuse its internals via a throwaway offsets
	// vector of the identity (the aggregation already folded offsets in).
	identityOffset := []spgroup.Point{spgroup.IdentityPoint()}
	large, err := Prove(aggCol, l, identityOffset, []spgroup.Scalar{aggPriv}, n, m, message)
	if err != nil {
		return nil, err
	}
	x := make([]spgroup.Point, m)
	for j := 0; j < m; j++ {
		x[j] = large.X[0][j]
	}
	return &ConciseProof{A: large.A, B: large.B, C: large.C, D: large.D, X: x, F: large.F, ZA: large.ZA, ZC: large.ZC, Z: large.Z[0]}, nil
}

// ConciseVerify checks a concise-variant proof against the shared
// reference set and the same offsets/linkingTags/opts used to produce it.
func ConciseVerify(refSet [][]spgroup.Point, proof *ConciseProof, offsets []spgroup.Point, linkingTags []spgroup.Point, n, m int, message []byte, opts ConciseOptions) (bool, error) {
	if proof == nil {
		return false, ErrMalformedProof
	}
	numKeys := len(offsets)
	if opts.WithLinkingTagComponents && len(linkingTags) != numKeys {
		return false, ErrBadParams
	}
	mu := aggregationCoefficient(message, refSet, offsets, linkingTags, opts)
	aggCol := aggregatedColumn(refSet, offsets, mu)

	x := make([][]spgroup.Point, 1)
	x[0] = proof.X
	large := &Proof{A: proof.A, B: proof.B, C: proof.C, D: proof.D, X: x, F: proof.F, ZA: proof.ZA, ZC: proof.ZC, Z: []spgroup.Scalar{proof.Z}}
	identityOffset := []spgroup.Point{spgroup.IdentityPoint()}
	return BatchVerify(aggCol, []VerifyInput{{Proof: large, Offsets: identityOffset, Message: message}}, n, m)
}
