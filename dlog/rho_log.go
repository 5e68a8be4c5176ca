package dlog

import (
	"fmt"
	"math/big"
	"math/rand"
)

// maxRhoLogRestarts bounds how many times rhoForLogs reseeds its walk
// after hitting a degenerate (non-invertible) collision.
const maxRhoLogRestarts = 8

var three = big.NewInt(3)

// partitionClass buckets a residue into one of three classes using its
// value mod 3, the cheap surjective partition Brent/Pollard's walk needs.
func partitionClass(x *big.Int) int {
	return int(new(big.Int).Mod(x, three).Int64())
}

// walkStep advances one (X, a, b) triple of the Pollard-rho walk in the
// cyclic group generated by base, where target = base^b0 * ... is tracked
// alongside it so that a collision yields a linear relation in the
// unknown discrete log.
func walkStep(x, a, b, base, target, n, q *big.Int) (*big.Int, *big.Int, *big.Int) {
	switch partitionClass(x) {
	case 0:
		nx := new(big.Int).Mul(x, base)
		nx.Mod(nx, n)
		na := new(big.Int).Add(a, one)
		na.Mod(na, q)
		return nx, na, b
	case 1:
		nx := new(big.Int).Mul(x, target)
		nx.Mod(nx, n)
		nb := new(big.Int).Add(b, one)
		nb.Mod(nb, q)
		return nx, a, nb
	default:
		nx := new(big.Int).Mul(x, x)
		nx.Mod(nx, n)
		na := new(big.Int).Mul(a, two)
		na.Mod(na, q)
		nb := new(big.Int).Mul(b, two)
		nb.Mod(nb, q)
		return nx, na, nb
	}
}

// stepBound returns a generous-but-finite cap on how many walk steps
// rhoForLogs will take before giving up and reseeding, scaled to the
// birthday-paradox collision time of a group of order q.
func stepBound(q *big.Int) int64 {
	sqrt := new(big.Int).Sqrt(q)
	bound := 4*sqrt.Int64() + 1000
	const maxBound = 50_000_000
	if bound > maxBound || bound < 0 {
		return maxBound
	}
	return bound
}

// rhoForLogs solves base^x = target (mod n) for x in [0, q), assuming
// base generates a cyclic subgroup of exact prime order q. It implements
// the Pollard-rho walk over the three-way additive/multiplicative
// partition described for discrete logarithms: two pebbles race through
// the same pseudorandom walk at speeds 1 and 2, and a collision between
// them yields a linear congruence in x that is solved modulo q once the
// coefficient on x is invertible. Orders q of at most 1000 are solved by
// exhaustive search instead of the walk.
func rhoForLogs(base, target *big.Int, q *big.Int, n *big.Int, rng *rand.Rand) (*big.Int, error) {
	if q.Cmp(one) == 0 {
		return big.NewInt(0), nil
	}

	// Small subgroups are searched exhaustively: the mod-3 partition can put
	// every element of a tiny subgroup in one class (1 and 16, the order-2
	// subgroup mod 17, are both 1 mod 3), and the walk then never yields an
	// invertible collision.
	const exhaustiveLimit = 1000
	if q.Cmp(big.NewInt(exhaustiveLimit)) <= 0 {
		cur := big.NewInt(1)
		for x := int64(0); x < q.Int64(); x++ {
			if cur.Cmp(target) == 0 {
				return big.NewInt(x), nil
			}
			cur.Mul(cur, base)
			cur.Mod(cur, n)
		}
		return nil, fmt.Errorf("dlog: target is not a power of base in subgroup of order %s", q)
	}

	bound := stepBound(q)

	for attempt := 0; attempt < maxRhoLogRestarts; attempt++ {
		a0 := randomBigIntMod(rng, q)
		b0 := randomBigIntMod(rng, q)

		start := new(big.Int).Exp(base, a0, n)
		tb := new(big.Int).Exp(target, b0, n)
		start.Mul(start, tb)
		start.Mod(start, n)

		xt, at, bt := new(big.Int).Set(start), new(big.Int).Set(a0), new(big.Int).Set(b0)
		xh, ah, bh := new(big.Int).Set(start), new(big.Int).Set(a0), new(big.Int).Set(b0)

		for step := int64(0); step < bound; step++ {
			xt, at, bt = walkStep(xt, at, bt, base, target, n, q)
			xh, ah, bh = walkStep(xh, ah, bh, base, target, n, q)
			xh, ah, bh = walkStep(xh, ah, bh, base, target, n, q)

			if xt.Cmp(xh) != 0 {
				continue
			}

			bDiff := new(big.Int).Sub(bh, bt)
			bDiff.Mod(bDiff, q)
			if bDiff.Sign() == 0 {
				break // degenerate collision carries no information; reseed
			}

			bInv := new(big.Int).ModInverse(bDiff, q)
			if bInv == nil {
				break // q is expected prime, so this should not happen; reseed defensively
			}

			aDiff := new(big.Int).Sub(at, ah)
			aDiff.Mod(aDiff, q)

			x := new(big.Int).Mul(aDiff, bInv)
			x.Mod(x, q)
			return x, nil
		}
	}

	return nil, fmt.Errorf("dlog: pollard rho for logarithms did not converge for subgroup order %s", q)
}

func randomBigIntMod(rng *rand.Rand, mod *big.Int) *big.Int {
	if mod.Cmp(one) <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Rand(rng, mod)
}
