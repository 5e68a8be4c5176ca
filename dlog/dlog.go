// Package dlog solves the discrete logarithm problem in (Z/nZ)*: given
// g, h and n, find x such that g^x = h (mod n), together with the period
// p (the order of g) over which x is only determined modulo p.
//
// The solver factors the group order via Pohlig-Hellman into its
// prime-power components and solves each component with Pollard's rho
// for logarithms, recombining the partial results with the Chinese
// Remainder Theorem. Every prime factor of the order of g is required to
// fit in a uint64; groups with a larger prime-order factor are rejected
// rather than left to spin indefinitely.
package dlog

import (
	"errors"
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)

	// ErrNoSolution is returned when h is not in the cyclic subgroup
	// generated by g, so no x satisfies g^x = h (mod n).
	ErrNoSolution = errors.New("dlog: no x satisfies g^x = h (mod n)")

	// ErrOrderFactorTooLarge is returned when the order of g has a prime
	// factor that does not fit in a uint64, putting Pollard's rho for
	// logarithms out of practical reach.
	ErrOrderFactorTooLarge = errors.New("dlog: order of g has a prime factor too large for discrete log search")
)

// Result carries the solution exponent together with the period over
// which it is determined: any x + k*Period for integer k is also a
// valid solution.
type Result struct {
	Exponent *big.Int
	Period   *big.Int
}
