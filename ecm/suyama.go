package ecm

import (
	"errors"
	"math/big"
	"math/rand"

	"github.com/blck-snwmn/numtheory/montgomery"
)

// suyamaCurve draws a random sigma in [6, n-1] and derives the
// corresponding Montgomery curve parameter A24 and starting point (X:Z),
// following Suyama's parameterization:
//
//	u = sigma^2 - 5, v = 4*sigma
//	X = u^3, Z = v^3
//	A24 = (((v-u)^3 * (3u+v)) / (4*u^3*v) + 2) / 4
//
// Every step past the initial conversion of sigma runs inside ctx's
// Montgomery domain — including the three cubings and the division, which
// reuse the same Cube/Invert the stage-1/stage-2 ladder drives for its own
// arithmetic — so a24, x and z come back already in Montgomery form,
// ready for the ladder without a separate ToMontgomery pass. It returns
// (nil, nil, nil, factor) if a division required during setup reveals a
// nontrivial factor of n directly (via InvertInto's NotInvertibleError),
// and retries internally (drawing a new sigma) on a fully degenerate
// divisor (gcd == n, carrying no new information).
func suyamaCurve(ctx *montgomery.Context, rng *rand.Rand) (a24, x, z, factor *big.Int) {
	n := ctx.N()

	fourBar := ctx.ToMontgomery(big.NewInt(4))
	fiveBar := ctx.ToMontgomery(big.NewInt(5))
	threeBar := ctx.ToMontgomery(big.NewInt(3))

	fourInv, err := ctx.Invert(fourBar)
	if err != nil {
		// n is required odd everywhere in this module, so gcd(4,n)
		// degenerating is unreachable; treated defensively anyway.
		if g, ok := asNontrivialGCD(err); ok {
			return nil, nil, nil, g
		}
		return nil, nil, nil, nil
	}

	for {
		sigma := randomInRange(rng, 6, n)
		sigmaBar := ctx.ToMontgomery(sigma)

		uBar := ctx.Sub(ctx.Square(sigmaBar), fiveBar)
		vBar := ctx.Mul(sigmaBar, fourBar)

		uCubedBar := ctx.Cube(uBar)
		vCubedBar := ctx.Cube(vBar)

		vMinusUBar := ctx.Sub(vBar, uBar)
		vMinusUCubedBar := ctx.Cube(vMinusUBar)

		threeUPlusVBar := ctx.Add(ctx.Mul(uBar, threeBar), vBar)

		numeratorBar := ctx.Mul(vMinusUCubedBar, threeUPlusVBar)
		denomBar := ctx.Mul(ctx.Mul(fourBar, uCubedBar), vBar)

		denomInvBar, err := ctx.Invert(denomBar)
		if err != nil {
			g, ok := asNontrivialGCD(err)
			if !ok {
				continue
			}
			if g.Cmp(n) == 0 {
				continue
			}
			return nil, nil, nil, g
		}

		ratioBar := ctx.Mul(numeratorBar, denomInvBar)
		ratioBar = ctx.Increment(ctx.Increment(ratioBar))

		a24Bar := ctx.Mul(ratioBar, fourInv)

		return a24Bar, uCubedBar, vCubedBar, nil
	}
}

// asNontrivialGCD unwraps a *montgomery.NotInvertibleError into the gcd it
// carries. ok is false only in the unreachable case of some other error
// shape, which the caller treats as a signal to retry with a fresh sigma.
func asNontrivialGCD(err error) (g *big.Int, ok bool) {
	var niErr *montgomery.NotInvertibleError
	if errors.As(err, &niErr) {
		return niErr.GCD, true
	}
	return nil, false
}

// randomInRange draws a uniform value in [lo, n).
func randomInRange(rng *rand.Rand, lo int64, n *big.Int) *big.Int {
	span := new(big.Int).Sub(n, big.NewInt(lo))
	v := new(big.Int).Rand(rng, span)
	return v.Add(v, big.NewInt(lo))
}
