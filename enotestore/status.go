// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package enotestore implements the contextual enote record store a
// wallet accumulates scan results into: enotes keyed by their linking tag
// (key image), each carrying a monotone origin/spent status and the
// chain context it was last observed in.
package enotestore

// OriginStatus places an enote's observed context on a monotone lattice:
// an enote can only move from a weaker status to a stronger one as it is
// reobserved in a more authoritative context.
type OriginStatus int

const (
	OriginOffchain OriginStatus = iota
	OriginUnconfirmed
	OriginOnchain
)

// rank orders statuses for the "only move forward" update rule.
func (s OriginStatus) rank() int { return int(s) }

// Stronger reports whether s is at least as authoritative as other.
func (s OriginStatus) Stronger(other OriginStatus) bool { return s.rank() >= other.rank() }

// SpentStatus places an enote's observed spend context on the same kind
// of monotone lattice as OriginStatus.
type SpentStatus int

const (
	SpentUnspent SpentStatus = iota
	SpentOffchain
	SpentUnconfirmed
	SpentOnchain
)

func (s SpentStatus) rank() int { return int(s) }

// Stronger reports whether s is at least as authoritative as other.
func (s SpentStatus) Stronger(other SpentStatus) bool { return s.rank() >= other.rank() }
