// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package group implements deterministic scalar and point arithmetic over
// the prime-order Ristretto255 group (an Ed25519-like prime-order elliptic
// curve group), plus the multi-scalar-multiplication and Pippenger batch
// machinery the proof verifiers build on.
package group

import (
	"crypto/rand"
	"crypto/sha512"
	"math/big"

	cgroup "github.com/cloudflare/circl/group"
)

var ristretto = cgroup.Ristretto255

// ristrettoOrder is the prime order l of the Ristretto255 scalar field,
// 2^252 + 27742317777372353535851937790883648493.
var ristrettoOrder, _ = new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

// Scalar is an element of the scalar field modulo the group order.
type Scalar struct {
	inner cgroup.Scalar
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{inner: ristretto.NewScalar()}
}

// OneScalar returns the multiplicative identity.
func OneScalar() Scalar {
	s := ristretto.NewScalar()
	s.SetUint64(1)
	return Scalar{inner: s}
}

// MinusOneScalar returns the group order minus one (i.e. -1 mod l).
func MinusOneScalar() Scalar {
	return ZeroScalar().Sub(OneScalar())
}

// ScalarFromUint64 lifts a uint64 into the scalar field.
func ScalarFromUint64(v uint64) Scalar {
	s := ristretto.NewScalar()
	s.SetUint64(v)
	return Scalar{inner: s}
}

// RandomScalar draws a uniformly random scalar using crypto/rand.
func RandomScalar() Scalar {
	s := ristretto.RandomNonZeroScalar(rand.Reader)
	return Scalar{inner: s}
}

// SmallScalar draws a nonzero scalar whose canonical encoding is zero above
// sizeBytes, i.e. an integer in [1, 256^sizeBytes). Used only for the
// "small weight" batch-verification randomizers; not fit for secrets.
func SmallScalar(sizeBytes int) Scalar {
	if sizeBytes <= 0 {
		return ZeroScalar()
	}
	if sizeBytes > 32 {
		sizeBytes = 32
	}
	for {
		full := RandomScalar()
		enc, err := full.inner.MarshalBinary()
		if err != nil {
			continue
		}
		for i := sizeBytes; i < len(enc); i++ {
			enc[i] = 0
		}
		var s Scalar
		s.inner = ristretto.NewScalar()
		if err := s.inner.UnmarshalBinary(enc); err != nil {
			continue
		}
		if !s.IsZero() {
			return s
		}
	}
}

// Add returns s + other.
func (s Scalar) Add(other Scalar) Scalar {
	r := ristretto.NewScalar()
	r.Add(s.inner, other.inner)
	return Scalar{inner: r}
}

// Sub returns s - other.
func (s Scalar) Sub(other Scalar) Scalar {
	r := ristretto.NewScalar()
	r.Sub(s.inner, other.inner)
	return Scalar{inner: r}
}

// Mul returns s * other.
func (s Scalar) Mul(other Scalar) Scalar {
	r := ristretto.NewScalar()
	r.Mul(s.inner, other.inner)
	return Scalar{inner: r}
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	r := ristretto.NewScalar()
	r.Neg(s.inner)
	return Scalar{inner: r}
}

// Invert returns 1/s mod l. Fails with ErrScalarInversion if s is zero.
func (s Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return Scalar{}, ErrScalarInversion
	}
	r := ristretto.NewScalar()
	r.Inv(s.inner)
	return Scalar{inner: r}, nil
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	if s.inner == nil {
		return true
	}
	return s.inner.IsZero()
}

// Equal reports whether s and other represent the same scalar.
func (s Scalar) Equal(other Scalar) bool {
	if s.inner == nil || other.inner == nil {
		return s.IsZero() && other.IsZero()
	}
	return s.inner.IsEqual(other.inner)
}

// Bytes returns the canonical 32-byte little-endian reduced encoding.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	if s.inner == nil {
		return out
	}
	enc, err := s.inner.MarshalBinary()
	if err == nil {
		copy(out[:], enc)
	}
	return out
}

// ScalarFromBytes reduces a 32-byte little-endian encoding modulo l.
func ScalarFromBytes(b [32]byte) (Scalar, error) {
	s := ristretto.NewScalar()
	if err := s.UnmarshalBinary(b[:]); err != nil {
		return Scalar{}, ErrEncoding
	}
	return Scalar{inner: s}, nil
}

// PowersOfScalar returns (negate?-1:1)*[s^0, s^1, ..., s^(n-1)].
func PowersOfScalar(s Scalar, n int, negate bool) []Scalar {
	if n <= 0 {
		return nil
	}
	pows := make([]Scalar, n)
	if negate {
		pows[0] = MinusOneScalar()
	} else {
		pows[0] = OneScalar()
	}
	for i := 1; i < n; i++ {
		pows[i] = pows[i-1].Mul(s)
	}
	return pows
}

// Decompose writes val in base 'base' as 'size' little-endian digits.
// Precondition: base > 1 and base^size >= val (callers must guarantee the
// decomposition does not truncate).
func Decompose(val, base, size int) ([]int, error) {
	if base <= 1 || size <= 0 {
		return nil, ErrBadDecomposition
	}
	digits := make([]int, size)
	remaining := val
	slot := 1
	for i := 0; i < size-1; i++ {
		slot *= base
	}
	for i := size - 1; i >= 0; i-- {
		digits[i] = remaining / slot
		remaining -= slot * digits[i]
		if slot > 1 {
			slot /= base
		}
	}
	return digits, nil
}

// Convolve computes a degree-m convolution of x[0..m) with the degree-one
// polynomial y = (y[0], y[1]):
//
//	result[i+j] += x[i]*y[j]  for i in [0,m), j in {0,1}
//
// producing a result of length m+1.
func Convolve(x []Scalar, y [2]Scalar, m int) ([]Scalar, error) {
	if len(x) < m {
		return nil, ErrBadConvolution
	}
	result := make([]Scalar, m+1)
	for i := range result {
		result[i] = ZeroScalar()
	}
	for i := 0; i < m; i++ {
		for j := 0; j < 2; j++ {
			result[i+j] = result[i+j].Add(x[i].Mul(y[j]))
		}
	}
	return result, nil
}

// HashToScalar derives a scalar deterministically from arbitrary-length
// transcript bytes: SHA-512 the input, then reduce the 512-bit digest
// modulo the group order, matching the original mock-tx's
// hash_to_scalar/"challenge" construction (a wide hash reduced into the
// scalar field) rather than truncating to 256 bits first.
func HashToScalar(data ...[]byte) Scalar {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	digest := h.Sum(nil)

	// digest is produced big-endian by the hash; interpret it as a big
	// integer, reduce mod l, then encode little-endian to match the
	// group's canonical scalar byte order.
	v := new(big.Int).SetBytes(digest)
	v.Mod(v, ristrettoOrder)

	be := v.Bytes()
	var buf [32]byte
	for i, b := range be {
		buf[len(be)-1-i] = b
	}

	s, err := ScalarFromBytes(buf)
	if err != nil {
		// v is already reduced mod l by construction; a canonical encoding
		// failure here means the group's byte order assumption above is
		// wrong, which is a programmer error, not a runtime condition.
		panic("group: HashToScalar produced a non-canonical encoding: " + err.Error())
	}
	return s
}

// KroneckerDelta returns ONE if x == y, else ZERO.
func KroneckerDelta(x, y int) Scalar {
	if x == y {
		return OneScalar()
	}
	return ZeroScalar()
}
