// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package composition

import (
	"sort"

	"github.com/luxfi/threshold/pkg/party"

	spgroup "github.com/luxfi/sp-crypto/group"
)

// Proposal fixes the statement a group of co-signers jointly proves: the
// base keys K and the message. The linking tags the final proof binds are
// not part of it; they are passed to JointChallenge and Aggregate. Every
// participant must agree on the same Proposal before starting a signing
// round.
type Proposal struct {
	K       []spgroup.Point
	Message []byte
}

// NonceCommitment is one participant's round-1 contribution: the public
// components of its locally-sampled nonces, to be summed across all
// signers before the challenge can be computed.
type NonceCommitment struct {
	Signer    party.ID
	AlphaAPub spgroup.Point
	AlphaBPub spgroup.Point
	AlphaIPub []spgroup.Point
}

// SignerState holds one participant's private nonces between Init and
// PartialResponse; it must not be reused across signing attempts.
type SignerState struct {
	Signer party.ID
	AlphaA spgroup.Scalar
	AlphaB spgroup.Scalar
	AlphaI []spgroup.Scalar
}

// PartialResponse is one participant's round-3 contribution.
type PartialResponse struct {
	Signer party.ID
	Ra     spgroup.Scalar
	Rb     spgroup.Scalar
	Ri     []spgroup.Scalar
}

// Init samples this participant's nonces for the given proposal and
// returns its private state and the public commitment to broadcast.
func Init(id party.ID, proposal *Proposal) (*SignerState, *NonceCommitment) {
	gens := spgroup.Gens()
	n := len(proposal.K)
	alphaA := spgroup.RandomScalar()
	alphaB := spgroup.RandomScalar()
	alphaI := make([]spgroup.Scalar, n)
	alphaIPub := make([]spgroup.Point, n)
	for i := 0; i < n; i++ {
		alphaI[i] = spgroup.RandomScalar()
		alphaIPub[i] = proposal.K[i].Mul(alphaI[i])
	}
	state := &SignerState{Signer: id, AlphaA: alphaA, AlphaB: alphaB, AlphaI: alphaI}
	commitment := &NonceCommitment{
		Signer:    id,
		AlphaAPub: gens.G.Mul(alphaA),
		AlphaBPub: gens.U.Mul(alphaB),
		AlphaIPub: alphaIPub,
	}
	return state, commitment
}

func sortedCommitments(commitments []*NonceCommitment) []*NonceCommitment {
	out := append([]*NonceCommitment{}, commitments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Signer < out[j].Signer })
	return out
}

// AggregateNonceCommitments sums every participant's round-1 commitment
// into the joint nonce public keys used to compute the shared challenge.
func AggregateNonceCommitments(commitments []*NonceCommitment, n int) (spgroup.Point, spgroup.Point, []spgroup.Point, error) {
	if len(commitments) == 0 {
		return spgroup.Point{}, spgroup.Point{}, nil, ErrAggregationMismatch
	}
	seen := make(map[party.ID]bool, len(commitments))
	alphaAPub := spgroup.IdentityPoint()
	alphaBPub := spgroup.IdentityPoint()
	alphaIPub := make([]spgroup.Point, n)
	for i := range alphaIPub {
		alphaIPub[i] = spgroup.IdentityPoint()
	}
	for _, c := range commitments {
		if seen[c.Signer] {
			return spgroup.Point{}, spgroup.Point{}, nil, ErrAggregationMismatch
		}
		seen[c.Signer] = true
		if len(c.AlphaIPub) != n {
			return spgroup.Point{}, spgroup.Point{}, nil, ErrAggregationMismatch
		}
		alphaAPub = alphaAPub.Add(c.AlphaAPub)
		alphaBPub = alphaBPub.Add(c.AlphaBPub)
		for i := 0; i < n; i++ {
			alphaIPub[i] = alphaIPub[i].Add(c.AlphaIPub[i])
		}
	}
	return alphaAPub, alphaBPub, alphaIPub, nil
}

// JointChallenge computes the shared Fiat-Shamir aggregation coefficients
// and challenge from the proposal's message and keys, the linking tags ki,
// the masked proof keys Kt1, and the aggregated round-1 nonce commitments.
// kt1 and ki are computed by the proposer from the shared y_i/z_i the
// group collectively controls, and must be identical across all signers.
func JointChallenge(proposal *Proposal, kt1, ki []spgroup.Point, alphaAPub, alphaBPub spgroup.Point, alphaIPub []spgroup.Point) (muA, muB, c spgroup.Scalar, err error) {
	muA, err = baseAggregationCoefficientA(proposal.Message, kt1, ki)
	if err != nil {
		return spgroup.Scalar{}, spgroup.Scalar{}, spgroup.Scalar{}, err
	}
	muB = baseAggregationCoefficientB(muA)
	m := challengeMessage(muB, proposal.K)
	c, err = computeChallenge(m, alphaAPub, alphaBPub, alphaIPub)
	if err != nil {
		return spgroup.Scalar{}, spgroup.Scalar{}, spgroup.Scalar{}, err
	}
	return muA, muB, c, nil
}

// PartialRespond computes one participant's response shares given the
// joint challenge and its share of the x/y/z openings for each key (a
// signer holding no share of key i passes a zero x/y/z share for that
// index, per the additive secret-sharing convention used across the
// group).
func PartialRespond(state *SignerState, muA, muB, c spgroup.Scalar, xShare, yInvShare, zShare []spgroup.Scalar) (*PartialResponse, error) {
	n := len(state.AlphaI)
	if len(xShare) != n || len(yInvShare) != n || len(zShare) != n {
		return nil, ErrAggregationMismatch
	}
	muAPows := spgroup.PowersOfScalar(muA, n, false)
	muBPows := spgroup.PowersOfScalar(muB, n, false)

	sumA := spgroup.ZeroScalar()
	sumB := spgroup.ZeroScalar()
	for i := 0; i < n; i++ {
		sumA = sumA.Add(muAPows[i].Mul(xShare[i]).Mul(yInvShare[i]))
		sumB = sumB.Add(muBPows[i].Mul(zShare[i]).Mul(yInvShare[i]))
	}
	ra := state.AlphaA.Sub(c.Mul(sumA))
	rb := state.AlphaB.Sub(c.Mul(sumB))
	ri := make([]spgroup.Scalar, n)
	for i := 0; i < n; i++ {
		ri[i] = state.AlphaI[i].Sub(c.Mul(yInvShare[i]))
	}
	return &PartialResponse{Signer: state.Signer, Ra: ra, Rb: rb, Ri: ri}, nil
}

// Aggregate sums partial responses from every co-signer into a complete
// composition proof. Every partial must come from a distinct signer and
// carry a response vector of the same length.
func Aggregate(partials []*PartialResponse, c spgroup.Scalar, kt1, ki []spgroup.Point) (*Proof, error) {
	if len(partials) == 0 {
		return nil, ErrAggregationMismatch
	}
	n := len(kt1)
	if len(ki) != n {
		return nil, ErrAggregationMismatch
	}
	seen := make(map[party.ID]bool, len(partials))
	ra := spgroup.ZeroScalar()
	rb := spgroup.ZeroScalar()
	ri := make([]spgroup.Scalar, n)
	for i := range ri {
		ri[i] = spgroup.ZeroScalar()
	}
	for _, p := range sortedPartials(partials) {
		if seen[p.Signer] {
			return nil, ErrAggregationMismatch
		}
		seen[p.Signer] = true
		if len(p.Ri) != n {
			return nil, ErrAggregationMismatch
		}
		ra = ra.Add(p.Ra)
		rb = rb.Add(p.Rb)
		for i := 0; i < n; i++ {
			ri[i] = ri[i].Add(p.Ri[i])
		}
	}
	return &Proof{Kt1: kt1, KI: ki, C: c, Ra: ra, Rb: rb, Ri: ri}, nil
}

func sortedPartials(partials []*PartialResponse) []*PartialResponse {
	out := append([]*PartialResponse{}, partials...)
	sort.Slice(out, func(i, j int) bool { return out[i].Signer < out[j].Signer })
	return out
}
