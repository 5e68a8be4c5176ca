package ntutil

import (
	"math/big"

	"github.com/blck-snwmn/numtheory/montgomery"
)

// MontPow computes baseBar^exp in Montgomery form using left-to-right
// binary exponentiation, built entirely from ctx.Square and ctx.Mul. The
// result stays in the relaxed [0, 2n) range the Context guarantees for
// every arithmetic primitive.
func MontPow(ctx *montgomery.Context, baseBar *big.Int, exp *big.Int) *big.Int {
	if exp.Sign() == 0 {
		return ctx.One()
	}

	result := ctx.One()
	base := new(big.Int).Set(baseBar)

	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = ctx.Square(result)
		if exp.Bit(i) == 1 {
			result = ctx.Mul(result, base)
		}
	}
	return result
}

// MontOrderDivides reports whether baseBar^exp is congruent to the
// Montgomery form of 1, i.e. whether ord(base) | exp.
func MontOrderDivides(ctx *montgomery.Context, baseBar *big.Int, exp *big.Int) bool {
	return ctx.Equal(MontPow(ctx, baseBar, exp), ctx.One())
}
