// Package pollard implements Brent's cycle-detection variant of Pollard's
// rho algorithm for finding a nontrivial factor of a composite integer,
// built on top of the montgomery package for the repeated modular
// squarings the random walk performs.
package pollard

import (
	"math/big"
	"math/rand"

	"github.com/blck-snwmn/numtheory/montgomery"
)

const (
	// batchSize is the number of walk steps between batched-gcd checks
	// (the "every m = 128 steps" checkpoint from the design).
	batchSize = 128

	// maxRaceLength bounds the Brent race length r; once r exceeds this,
	// the attempt is reported as a failure.
	maxRaceLength = 1 << 18

	// maxRestarts bounds how many times a single Factor call will
	// silently restart with a fresh seed after a degenerate gcd == n.
	maxRestarts = 8
)

var one = big.NewInt(1)

// Rho holds the PRNG state used to draw the random walk's starting point
// x0 and increment c. It is not safe for concurrent use; callers running
// factorizations on multiple goroutines should construct one Rho per
// goroutine.
type Rho struct {
	rng *rand.Rand
}

// New builds a Rho seeded for reproducibility. Any two Rho values built
// from the same seed draw the same sequence of walks.
func New(seed int64) *Rho {
	return &Rho{rng: rand.New(rand.NewSource(seed))}
}

type outcome int

const (
	outcomeFound outcome = iota
	outcomeDegenerate
	outcomeBoundExceeded
)

// Factor searches for a nontrivial factor of the odd composite n using
// Brent's variant of Pollard's rho. It returns (factor, true) on success
// and (nil, false) if the race length bound is exceeded without ever
// finding one — the caller (the factorization driver) is expected to
// fall back to ECM after a handful of such failures.
func (r *Rho) Factor(n *big.Int) (*big.Int, bool) {
	for restart := 0; restart < maxRestarts; restart++ {
		factor, how := r.attempt(n)
		switch how {
		case outcomeFound:
			return factor, true
		case outcomeDegenerate:
			continue // gcd == n: the walk collapsed, retry with a fresh seed
		case outcomeBoundExceeded:
			return nil, false
		}
	}
	return nil, false
}

// attempt runs a single Brent race, from a freshly drawn seed, up to
// maxRaceLength.
func (r *Rho) attempt(n *big.Int) (*big.Int, outcome) {
	ctx, err := montgomery.New(n)
	if err != nil {
		// n is guaranteed odd by the caller (trial division already
		// stripped the factor of two); surface as a bound failure so
		// the driver escalates rather than panicking.
		return nil, outcomeBoundExceeded
	}

	x0 := randomNonzeroResidue(r.rng, n)
	c := randomNonzeroResidue(r.rng, n)
	cBar := ctx.ToMontgomery(c)

	step := func(xBar *big.Int) *big.Int {
		return ctx.Add(ctx.Square(xBar), cBar)
	}

	y := ctx.ToMontgomery(x0) // tortoise, fixed for the whole race
	x := new(big.Int).Set(y) // hare

	for raceLen := 1; raceLen <= maxRaceLength; raceLen *= 2 {
		q := ctx.One()
		for i := 0; i < raceLen; i++ {
			x = step(x)
			q = ctx.Mul(q, ctx.Sub(x, y))

			if (i+1)%batchSize == 0 || i == raceLen-1 {
				g := new(big.Int).GCD(nil, nil, ctx.FromMontgomery(q), n)
				switch {
				case g.Cmp(one) == 0:
					// keep walking
				case g.Cmp(n) == 0:
					return nil, outcomeDegenerate
				default:
					return g, outcomeFound
				}
				q = ctx.One()
			}
		}
		y = new(big.Int).Set(x)
	}
	return nil, outcomeBoundExceeded
}

// randomNonzeroResidue draws a uniform value in [1, n).
func randomNonzeroResidue(rng *rand.Rand, n *big.Int) *big.Int {
	nMinus1 := new(big.Int).Sub(n, one)
	v := new(big.Int).Rand(rng, nMinus1)
	return v.Add(v, one)
}
