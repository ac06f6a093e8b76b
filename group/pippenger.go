// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package group

// pippengerWindowBits is the bucket window width. 8 bits gives 256
// buckets per window, a reasonable default for the proof sizes this
// package verifies (tens to low hundreds of terms per batch).
const pippengerWindowBits = 8

// Pippenger evaluates sum_i(scalars[i]*points[i]) with Pippenger's
// windowed-bucket algorithm, and is the routine the batch verifiers use to
// check that a large aggregated multi-exponentiation reduces to the
// identity. Each term pairs its own scalar and point, so there is no length
// mismatch to report; the returned error is always nil.
func Pippenger(terms []MultiExpTerm) (Point, error) {
	if len(terms) == 0 {
		return IdentityPoint(), nil
	}

	const windowBits = pippengerWindowBits
	const numBuckets = 1 << windowBits
	const totalBits = 256

	result := IdentityPoint()
	for startBit := totalBits - windowBits; startBit >= 0; startBit -= windowBits {
		for i := 0; i < windowBits; i++ {
			result = result.Add(result)
		}

		buckets := make([]Point, numBuckets)
		for i := range buckets {
			buckets[i] = IdentityPoint()
		}

		for _, t := range terms {
			if t.Point.IsIdentity() || t.Scalar.IsZero() {
				continue
			}
			window := scalarWindow(t.Scalar, startBit, windowBits)
			if window == 0 {
				continue
			}
			buckets[window] = buckets[window].Add(t.Point)
		}

		windowSum := IdentityPoint()
		running := IdentityPoint()
		for b := numBuckets - 1; b > 0; b-- {
			running = running.Add(buckets[b])
			windowSum = windowSum.Add(running)
		}
		result = result.Add(windowSum)
	}

	return result, nil
}

// PippengerCheckIdentity evaluates the aggregated multi-exponentiation and
// reports whether it collapses to the identity, the form every batch
// verifier in this package reduces its final check to.
func PippengerCheckIdentity(terms []MultiExpTerm) (bool, error) {
	p, err := Pippenger(terms)
	if err != nil {
		return false, err
	}
	return p.IsIdentity(), nil
}

// scalarWindow extracts the windowBits-wide digit of s starting at bit
// offset startBit (little-endian bit numbering over the canonical
// encoding).
func scalarWindow(s Scalar, startBit, windowBits int) int {
	enc := s.Bytes()
	val := 0
	for i := 0; i < windowBits; i++ {
		bitPos := startBit + i
		byteIdx := bitPos / 8
		bitIdx := uint(bitPos % 8)
		if byteIdx >= len(enc) {
			continue
		}
		bit := (enc[byteIdx] >> bitIdx) & 1
		val |= int(bit) << uint(i)
	}
	return val
}
