// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grootle

import (
	"encoding/binary"

	spgroup "github.com/luxfi/sp-crypto/group"
)

// transcriptSalt fixes the domain-separator for the large-variant
// transcript, mirroring grootle.cpp's transcript_init("grootle transcript").
var transcriptSalt = spgroup.HashToScalar([]byte("grootle transcript")).Bytes()

func pointsBytes(pts []spgroup.Point) []byte {
	buf := make([]byte, 0, 32*len(pts))
	for _, p := range pts {
		b := p.Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

func matrixBytes(pts [][]spgroup.Point) []byte {
	var buf []byte
	for _, row := range pts {
		buf = append(buf, pointsBytes(row)...)
	}
	return buf
}

func scalarsBytes(ss []spgroup.Scalar) []byte {
	buf := make([]byte, 0, 32*len(ss))
	for _, s := range ss {
		b := s.Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

func u64Bytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// computeChallenge builds the large-variant Fiat-Shamir challenge from the
// message, the reference matrix M, the per-column commitment offsets, and the
// proof's A/B/C/D commitments and X matrix, following grootle.cpp's
// compute_challenge exactly: transcript salt, message, M (row-major),
// offsets, A, B, C, D, then X[alpha][j] in row-major order.
func computeChallenge(message []byte, m [][]spgroup.Point, offsets []spgroup.Point, a, b, c, d spgroup.Point, x [][]spgroup.Point) (spgroup.Scalar, error) {
	buf := append([]byte{}, transcriptSalt[:]...)
	buf = append(buf, message...)
	buf = append(buf, matrixBytes(m)...)
	buf = append(buf, pointsBytes(offsets)...)
	ab := a.Bytes()
	bb := b.Bytes()
	cb := c.Bytes()
	db := d.Bytes()
	buf = append(buf, ab[:]...)
	buf = append(buf, bb[:]...)
	buf = append(buf, cb[:]...)
	buf = append(buf, db[:]...)
	buf = append(buf, matrixBytes(x)...)

	ch := spgroup.HashToScalar(buf)
	if ch.IsZero() {
		return spgroup.Scalar{}, ErrMalformedProof
	}
	return ch, nil
}
