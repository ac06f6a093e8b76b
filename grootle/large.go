// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grootle

import (
	spgroup "github.com/luxfi/sp-crypto/group"
)

// minSmallWeightingBytes bounds the entropy of the per-proof small-weight
// batch-verification randomizers. Preserved from the original mock-tx
// prover/verifier as an asserted-but-undocumented heuristic; not re-derived
// here.
const minSmallWeightingBytes = 3

// Proof is a large-variant Grootle membership proof: a proof that the
// prover knows an opening of one row of an n^m-row, numKeys-column
// reference matrix, without revealing which row.
type Proof struct {
	A, B, C, D spgroup.Point
	X          [][]spgroup.Point // [alpha][j], j in [0,m)
	F          [][]spgroup.Scalar // [j][i-1], i in [1,n)
	ZA, ZC     spgroup.Scalar
	Z          []spgroup.Scalar // per key alpha
}

// Prove builds a large-variant Grootle proof that privkeys[alpha] opens
// M[l][alpha] - offsets[alpha] = privkeys[alpha]*G for every alpha, without
// revealing l. n and m fix the reference set shape: the matrix M must have
// exactly n^m rows.
func Prove(refSet [][]spgroup.Point, l int, offsets []spgroup.Point, privkeys []spgroup.Scalar, n, m int, message []byte) (*Proof, error) {
	if n <= 1 || m <= 1 || m*n > spgroup.MaxGenerators {
		return nil, ErrBadParams
	}
	size := 1
	for i := 0; i < m; i++ {
		size *= n
	}
	if len(refSet) != size || l < 0 || l >= size {
		return nil, ErrBadParams
	}
	numKeys := len(privkeys)
	if numKeys == 0 || len(offsets) != numKeys {
		return nil, ErrBadParams
	}
	for k := range refSet {
		if len(refSet[k]) != numKeys {
			return nil, ErrBadParams
		}
	}
	for alpha := 0; alpha < numKeys; alpha++ {
		opened := refSet[l][alpha].Sub(offsets[alpha])
		if !opened.Equal(spgroup.MulBase(privkeys[alpha])) {
			return nil, ErrSignerNotInSet
		}
	}

	gens := spgroup.Gens()
	decompL, err := spgroup.Decompose(l, n, m)
	if err != nil {
		return nil, ErrBadParams
	}

	// Commitment-to-zero matrix a[j][i], zero-sum per row.
	a := make([][]spgroup.Scalar, m)
	sigma := make([][]spgroup.Scalar, m)
	aSigma := make([][]spgroup.Scalar, m)
	aSq := make([][]spgroup.Scalar, m)
	for j := 0; j < m; j++ {
		a[j] = make([]spgroup.Scalar, n)
		sigma[j] = make([]spgroup.Scalar, n)
		aSigma[j] = make([]spgroup.Scalar, n)
		aSq[j] = make([]spgroup.Scalar, n)

		sum := spgroup.ZeroScalar()
		for i := 1; i < n; i++ {
			a[j][i] = spgroup.RandomScalar()
			sum = sum.Add(a[j][i])
		}
		a[j][0] = sum.Neg()

		for i := 0; i < n; i++ {
			sigma[j][i] = spgroup.KroneckerDelta(decompL[j], i)
			twoSigma := sigma[j][i].Add(sigma[j][i])
			oneMinusTwoSigma := spgroup.OneScalar().Sub(twoSigma)
			aSigma[j][i] = a[j][i].Mul(oneMinusTwoSigma)
			aSq[j][i] = a[j][i].Mul(a[j][i]).Neg()
		}
	}

	rA, rB, rC, rD := spgroup.RandomScalar(), spgroup.RandomScalar(), spgroup.RandomScalar(), spgroup.RandomScalar()

	aTerms, err := spgroup.ComMatrix(a, gens, rA)
	if err != nil {
		return nil, err
	}
	bTerms, err := spgroup.ComMatrix(sigma, gens, rB)
	if err != nil {
		return nil, err
	}
	cTerms, err := spgroup.ComMatrix(aSigma, gens, rC)
	if err != nil {
		return nil, err
	}
	dTerms, err := spgroup.ComMatrix(aSq, gens, rD)
	if err != nil {
		return nil, err
	}
	commitA := spgroup.MultiExp(aTerms).DivEight()
	commitB := spgroup.MultiExp(bTerms).DivEight()
	commitC := spgroup.MultiExp(cTerms).DivEight()
	commitD := spgroup.MultiExp(dTerms).DivEight()

	// p[k] := coefficients of the degree-m polynomial
	// prod_{j=0}^{m-1} (sigma[j][decomp_k[j]]*X + a[j][decomp_k[j]]).
	p := make([][]spgroup.Scalar, size)
	for k := 0; k < size; k++ {
		decompK, err := spgroup.Decompose(k, n, m)
		if err != nil {
			return nil, err
		}
		coeffs := []spgroup.Scalar{a[0][decompK[0]], spgroup.KroneckerDelta(decompL[0], decompK[0])}
		for j := 1; j < m; j++ {
			coeffs, err = spgroup.Convolve(coeffs, [2]spgroup.Scalar{a[j][decompK[j]], spgroup.KroneckerDelta(decompL[j], decompK[j])}, len(coeffs))
			if err != nil {
				return nil, err
			}
		}
		p[k] = coeffs
	}

	rho := make([][]spgroup.Scalar, numKeys)
	for alpha := range rho {
		rho[alpha] = make([]spgroup.Scalar, m)
		for j := range rho[alpha] {
			rho[alpha][j] = spgroup.RandomScalar()
		}
	}

	x := make([][]spgroup.Point, numKeys)
	for alpha := 0; alpha < numKeys; alpha++ {
		x[alpha] = make([]spgroup.Point, m)
		for j := 0; j < m; j++ {
			terms := make([]spgroup.MultiExpTerm, 0, size+1)
			terms = append(terms, spgroup.MultiExpTerm{Scalar: rho[alpha][j], Point: gens.G})
			for k := 0; k < size; k++ {
				coeff := spgroup.ZeroScalar()
				if j < len(p[k]) {
					coeff = p[k][j]
				}
				terms = append(terms, spgroup.MultiExpTerm{Scalar: coeff, Point: refSet[k][alpha].Sub(offsets[alpha])})
			}
			x[alpha][j] = spgroup.MultiExp(terms).DivEight()
		}
	}

	xi, err := computeChallenge(message, refSet, offsets, commitA, commitB, commitC, commitD, x)
	if err != nil {
		return nil, err
	}
	xiPows := spgroup.PowersOfScalar(xi, m, false)

	f := make([][]spgroup.Scalar, m)
	for j := 0; j < m; j++ {
		f[j] = make([]spgroup.Scalar, n-1)
		for i := 1; i < n; i++ {
			f[j][i-1] = sigma[j][i].Mul(xi).Add(a[j][i])
		}
	}

	zA := rB.Mul(xi).Add(rA)
	zC := rC.Mul(xi).Add(rD)

	z := make([]spgroup.Scalar, numKeys)
	xiM := xiPows[m-1].Mul(xi)
	for alpha := 0; alpha < numKeys; alpha++ {
		sum := spgroup.ZeroScalar()
		for j := 0; j < m; j++ {
			sum = sum.Add(rho[alpha][j].Mul(xiPows[j]))
		}
		z[alpha] = privkeys[alpha].Mul(xiM).Sub(sum)
	}

	return &Proof{A: commitA, B: commitB, C: commitC, D: commitD, X: x, F: f, ZA: zA, ZC: zC, Z: z}, nil
}

// VerifyInput is one proof and the offsets/message it was produced against;
// BatchVerify checks many of these against a single shared reference set.
type VerifyInput struct {
	Proof   *Proof
	Offsets []spgroup.Point
	Message []byte
}

// Verify checks a single proof against the shared reference set.
func Verify(refSet [][]spgroup.Point, in VerifyInput, n, m int) (bool, error) {
	return BatchVerify(refSet, []VerifyInput{in}, n, m)
}

// BatchVerify checks many proofs against a single shared reference set
// using a Pippenger-batched aggregated multi-exponentiation: every proof's
// verification equation is combined into one large multi-exponentiation
// with independently random per-proof weights, and the whole batch passes
// iff the aggregate reduces to the group identity.
func BatchVerify(refSet [][]spgroup.Point, inputs []VerifyInput, n, m int) (bool, error) {
	if n <= 1 || m <= 1 || m*n > spgroup.MaxGenerators {
		return false, ErrBadParams
	}
	size := 1
	for i := 0; i < m; i++ {
		size *= n
	}
	if len(refSet) != size {
		return false, ErrBatchSizeMismatch
	}
	if len(inputs) == 0 {
		return false, ErrBatchSizeMismatch
	}
	numKeys := len(inputs[0].Offsets)
	for k := range refSet {
		if len(refSet[k]) != numKeys {
			return false, ErrBatchSizeMismatch
		}
	}
	for _, in := range inputs {
		if err := sanityCheckProof(in.Proof, n, m, numKeys); err != nil {
			return false, err
		}
		if len(in.Offsets) != numKeys {
			return false, ErrBatchSizeMismatch
		}
	}

	gens := spgroup.Gens()

	// Small-weight vector aggregating the numKeys parallel columns of the
	// reference matrix into one column per proof.
	sw := make([]spgroup.Scalar, numKeys)
	sw[0] = spgroup.OneScalar()
	for alpha := 1; alpha < numKeys; alpha++ {
		sw[alpha] = spgroup.SmallScalar(minSmallWeightingBytes)
	}

	var allTerms []spgroup.MultiExpTerm

	// Hi-generator and G-generator accumulators, shared across the batch
	// since every proof references the same generator table.
	hiAcc := make([]spgroup.Scalar, m*n)
	gAcc := spgroup.ZeroScalar()

	for _, in := range inputs {
		proof := in.Proof
		xi, err := computeChallenge(in.Message, refSet, in.Offsets, proof.A, proof.B, proof.C, proof.D, proof.X)
		if err != nil {
			return false, err
		}
		xiPows := spgroup.PowersOfScalar(xi, m, false)

		w1 := spgroup.RandomScalar()
		w2 := spgroup.RandomScalar()
		w3 := spgroup.RandomScalar()

		f := make([][]spgroup.Scalar, m)
		for j := 0; j < m; j++ {
			f[j] = make([]spgroup.Scalar, n)
			sum := spgroup.ZeroScalar()
			for i := 1; i < n; i++ {
				f[j][i] = proof.F[j][i-1]
				sum = sum.Add(f[j][i])
			}
			f[j][0] = xi.Sub(sum)
			if f[j][0].IsZero() {
				return false, ErrMalformedProof
			}
		}

		for j := 0; j < m; j++ {
			for i := 0; i < n; i++ {
				term := w1.Mul(f[j][i]).
					Add(w2.Mul(xi).Mul(f[j][i])).
					Sub(w2.Mul(f[j][i]).Mul(f[j][i]))
				hiAcc[j*n+i] = hiAcc[j*n+i].Add(term)
			}
		}
		gAcc = gAcc.Add(w1.Mul(proof.ZA)).Add(w2.Mul(proof.ZC))

		a8 := proof.A.MulEight()
		b8 := proof.B.MulEight()
		c8 := proof.C.MulEight()
		d8 := proof.D.MulEight()
		allTerms = append(allTerms,
			spgroup.MultiExpTerm{Scalar: w1.Neg(), Point: a8},
			spgroup.MultiExpTerm{Scalar: w1.Neg().Mul(xi), Point: b8},
			spgroup.MultiExpTerm{Scalar: w2.Neg(), Point: d8},
			spgroup.MultiExpTerm{Scalar: w2.Neg().Mul(xi), Point: c8},
		)

		for k := 0; k < size; k++ {
			decompK, err := spgroup.Decompose(k, n, m)
			if err != nil {
				return false, err
			}
			t := spgroup.OneScalar()
			for j := 0; j < m; j++ {
				t = t.Mul(f[j][decompK[j]])
			}
			weighted := w3.Mul(t)
			for alpha := 0; alpha < numKeys; alpha++ {
				allTerms = append(allTerms, spgroup.MultiExpTerm{
					Scalar: weighted.Mul(sw[alpha]),
					Point:  refSet[k][alpha],
				})
				allTerms = append(allTerms, spgroup.MultiExpTerm{
					Scalar: weighted.Mul(sw[alpha]).Neg(),
					Point:  in.Offsets[alpha],
				})
			}
		}

		for alpha := 0; alpha < numKeys; alpha++ {
			wsw := w3.Neg().Mul(sw[alpha])
			for j := 0; j < m; j++ {
				x8 := proof.X[alpha][j].MulEight()
				allTerms = append(allTerms, spgroup.MultiExpTerm{Scalar: wsw.Mul(xiPows[j]), Point: x8})
			}
			gAcc = gAcc.Sub(w3.Mul(sw[alpha]).Mul(proof.Z[alpha]))
		}
	}

	for idx, s := range hiAcc {
		allTerms = append(allTerms, spgroup.MultiExpTerm{Scalar: s, Point: gens.Hi[idx]})
	}
	allTerms = append(allTerms, spgroup.MultiExpTerm{Scalar: gAcc, Point: gens.G})

	ok, err := spgroup.PippengerCheckIdentity(allTerms)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrVerifyFailed
	}
	return true, nil
}

// sanityCheckProof rejects structurally malformed proofs and the degenerate
// component values the spec's sanity checks call out: a zero f[j][i] or an
// identity-element A/B/C/D/X would let a forger sidestep the aggregated
// verification equation entirely, so these are checked directly rather than
// relying on the main equation to coincidentally fail.
func sanityCheckProof(p *Proof, n, m, numKeys int) error {
	if p == nil {
		return ErrMalformedProof
	}
	if len(p.F) != m || len(p.X) != numKeys || len(p.Z) != numKeys {
		return ErrMalformedProof
	}
	if p.A.IsIdentity() || p.B.IsIdentity() || p.C.IsIdentity() || p.D.IsIdentity() {
		return ErrMalformedProof
	}
	for j := 0; j < m; j++ {
		if len(p.F[j]) != n-1 {
			return ErrMalformedProof
		}
		for i := 0; i < n-1; i++ {
			if p.F[j][i].IsZero() {
				return ErrMalformedProof
			}
		}
	}
	for alpha := 0; alpha < numKeys; alpha++ {
		if len(p.X[alpha]) != m {
			return ErrMalformedProof
		}
		for j := 0; j < m; j++ {
			if p.X[alpha][j].IsIdentity() {
				return ErrMalformedProof
			}
		}
		if p.Z[alpha].IsZero() {
			return ErrMalformedProof
		}
	}
	if p.ZA.IsZero() || p.ZC.IsZero() {
		return ErrMalformedProof
	}
	return nil
}
