package ntutil

import (
	"math/big"

	"github.com/blck-snwmn/numtheory/montgomery"
)

// mrWitnesses is a fixed deterministic witness set for the Miller-Rabin
// test. The first twelve primes are deterministic for every n below
// 318,665,857,834,031,151,167,461 (~2^78), comfortably covering every
// 64-bit candidate the design calls for.
var mrWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

var one = big.NewInt(1)

// IsPrime runs a Miller-Rabin primality test against the fixed witness
// set above. It is exact (not merely probabilistic) for any n that fits
// the 64-bit precondition the rest of this module assumes; for larger n
// it remains an extremely strong probabilistic test, which is the only
// guarantee the factorization driver needs to decide when to stop
// recursing.
//
// The squarings inside each round run through a montgomery.Context
// rather than plain big.Int.Mul/Mod, the same REDC engine the ECM ladder
// and Pohlig-Hellman's powEngine use, so this is the third independent
// caller exercising it.
func IsPrime(n *big.Int) bool {
	if n.Sign() <= 0 {
		return false
	}
	if n.Cmp(big.NewInt(3)) <= 0 {
		return n.Cmp(big.NewInt(1)) > 0
	}
	if n.Bit(0) == 0 {
		return false
	}

	ctx, err := montgomery.New(n)
	if err != nil {
		// Unreachable: n is odd and > 3 here. Kept as a defensive
		// fallback rather than a panic.
		return isPrimePlain(n)
	}

	// n - 1 = d * 2^s, d odd. ctx.Decrement(0) gives the Montgomery form
	// of n-1 directly: 0 is its own Montgomery representation, so this
	// skips a separate ToMontgomery(n-1) conversion.
	nMinus1Bar := ctx.Decrement(big.NewInt(0))
	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	for _, w := range mrWitnesses {
		a := big.NewInt(w)
		if a.Cmp(n) >= 0 {
			continue
		}
		if !millerRabinRound(ctx, nMinus1Bar, a, d, s) {
			return false
		}
	}
	return true
}

// millerRabinRound reports whether n passes one Miller-Rabin round with
// base a, given the odd part d and exponent s of n-1 = d*2^s. It runs
// entirely in ctx's Montgomery domain via MontPow and ctx.Equal.
func millerRabinRound(ctx *montgomery.Context, nMinus1Bar *big.Int, a, d *big.Int, s int) bool {
	aBar := ctx.ToMontgomery(a)
	x := MontPow(ctx, aBar, d)
	if ctx.Equal(x, ctx.One()) || ctx.Equal(x, nMinus1Bar) {
		return true
	}
	for i := 0; i < s-1; i++ {
		x = ctx.Square(x)
		if ctx.Equal(x, nMinus1Bar) {
			return true
		}
	}
	return false
}

// isPrimePlain is the plain big.Int fallback for the unreachable case
// where montgomery.New rejects a modulus IsPrime has already confirmed
// odd and >= 5.
func isPrimePlain(n *big.Int) bool {
	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	for _, w := range mrWitnesses {
		a := big.NewInt(w)
		if a.Cmp(n) >= 0 {
			continue
		}
		x := new(big.Int).Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}
		passed := false
		for i := 0; i < s-1; i++ {
			x.Mul(x, x)
			x.Mod(x, n)
			if x.Cmp(nMinus1) == 0 {
				passed = true
				break
			}
		}
		if !passed {
			return false
		}
	}
	return true
}
