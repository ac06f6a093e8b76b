// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package group

// MultiExpTerm is one (scalar, point) pair contributed to a multi-scalar
// multiplication.
type MultiExpTerm struct {
	Scalar Scalar
	Point  Point
}

// MultiExp computes sum_i(scalars[i]*points[i]) using the naive
// double-and-add Horner-free accumulation: a 1*P term short-circuits to a
// plain addition, mirroring the original multiExp_p3's fast path for
// identity scalars.
func MultiExp(terms []MultiExpTerm) Point {
	acc := IdentityPoint()
	one := OneScalar()
	for _, t := range terms {
		if t.Point.IsIdentity() || t.Scalar.IsZero() {
			continue
		}
		if t.Scalar.Equal(one) {
			acc = acc.Add(t.Point)
			continue
		}
		acc = acc.Add(t.Point.Mul(t.Scalar))
	}
	return acc
}

// ComMatrix builds the m*n+1 term Pedersen vector-commitment multi-exp
// data for a size-n, depth-m matrix: term (j,i) pairs data[j][i] with
// Hi[j*n+i], plus a trailing {x, G} mask term.
func ComMatrix(data [][]Scalar, gens *GroupContext, mask Scalar) ([]MultiExpTerm, error) {
	m := len(data)
	if m == 0 {
		return nil, ErrBadMatrixSize
	}
	n := len(data[0])
	if n == 0 || m*n > MaxGenerators {
		return nil, ErrBadMatrixSize
	}
	terms := make([]MultiExpTerm, 0, m*n+1)
	for j := 0; j < m; j++ {
		if len(data[j]) != n {
			return nil, ErrBadMatrixSize
		}
		for i := 0; i < n; i++ {
			terms = append(terms, MultiExpTerm{Scalar: data[j][i], Point: gens.Hi[j*n+i]})
		}
	}
	terms = append(terms, MultiExpTerm{Scalar: mask, Point: gens.G})
	return terms, nil
}

// Straus evaluates a multi-scalar multiplication via ComMatrix's term
// layout. It is named for the original codebase's straus() MSM helper;
// this implementation shares MultiExp's naive accumulator since the
// windowed variant lives in Pippenger for the batch-verification path
// where it earns its complexity.
func Straus(terms []MultiExpTerm) Point {
	return MultiExp(terms)
}
