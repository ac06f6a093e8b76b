// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mock provides a test-only curvecycle.Pair built on two
// independent gnark-crypto curves (BN254 and BLS12-381). The two curves'
// scalar fields are unrelated, so this is not a cryptographically faithful
// Selene/Helios 2-cycle; it exists solely to exercise the curvecycle.Curve
// contract end-to-end in tests. HashTrim here is a separate domain-separated
// hash of its inputs: it does not give back the hash a chain had before
// HashGrow.
package mock

import (
	"crypto/sha256"

	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/luxfi/sp-crypto/curvecycle"
)

// NewPair returns a Pair of independent mock curves.
func NewPair() curvecycle.Pair {
	return curvecycle.Pair{A: bn254Curve{}, B: bls12381Curve{}}
}

func growHash(domain string, prevHash []byte, childOffset int, children [][]byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write(prevHash)
	var offBuf [8]byte
	offBuf[0] = byte(childOffset)
	h.Write(offBuf[:])
	for _, c := range children {
		h.Write(c)
	}
	return h.Sum(nil)
}

type bn254Curve struct{}

func (bn254Curve) Name() string { return "bn254-mock" }

func (bn254Curve) HashInitPoint() []byte {
	return growHash("curvecycle-bn254-init", nil, 0, nil)
}

func (bn254Curve) PointToCycleScalar(point []byte) ([]byte, error) {
	sum := sha256.Sum256(append([]byte("bn254->bls12381"), point...))
	var e bls12381fr.Element
	e.SetBytes(sum[:])
	out := e.Bytes()
	return out[:], nil
}

func (bn254Curve) HashGrow(prevHash []byte, childOffset int, children [][]byte) ([]byte, error) {
	digest := growHash("curvecycle-bn254-grow", prevHash, childOffset, children)
	var e bn254fr.Element
	e.SetBytes(digest)
	out := e.Bytes()
	return out[:], nil
}

func (bn254Curve) HashTrim(lastHash []byte, childOffset int, children [][]byte) ([]byte, error) {
	if lastHash == nil {
		return nil, curvecycle.ErrChainEmpty
	}
	digest := growHash("curvecycle-bn254-trim", lastHash, childOffset, children)
	var e bn254fr.Element
	e.SetBytes(digest)
	out := e.Bytes()
	return out[:], nil
}

func (bn254Curve) ZeroScalar() []byte {
	var e bn254fr.Element
	out := e.Bytes()
	return out[:]
}

type bls12381Curve struct{}

func (bls12381Curve) Name() string { return "bls12-381-mock" }

func (bls12381Curve) HashInitPoint() []byte {
	return growHash("curvecycle-bls12381-init", nil, 0, nil)
}

func (bls12381Curve) PointToCycleScalar(point []byte) ([]byte, error) {
	sum := sha256.Sum256(append([]byte("bls12381->bn254"), point...))
	var e bn254fr.Element
	e.SetBytes(sum[:])
	out := e.Bytes()
	return out[:], nil
}

func (bls12381Curve) HashGrow(prevHash []byte, childOffset int, children [][]byte) ([]byte, error) {
	digest := growHash("curvecycle-bls12381-grow", prevHash, childOffset, children)
	var e bls12381fr.Element
	e.SetBytes(digest)
	out := e.Bytes()
	return out[:], nil
}

func (bls12381Curve) HashTrim(lastHash []byte, childOffset int, children [][]byte) ([]byte, error) {
	if lastHash == nil {
		return nil, curvecycle.ErrChainEmpty
	}
	digest := growHash("curvecycle-bls12381-trim", lastHash, childOffset, children)
	var e bls12381fr.Element
	e.SetBytes(digest)
	out := e.Bytes()
	return out[:], nil
}

func (bls12381Curve) ZeroScalar() []byte {
	var e bls12381fr.Element
	out := e.Bytes()
	return out[:]
}
