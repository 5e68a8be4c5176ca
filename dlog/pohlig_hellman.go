package dlog

import (
	"math/big"
	"math/rand"

	"github.com/blck-snwmn/numtheory/factor"
	"github.com/blck-snwmn/numtheory/internal/sortutil"
)

// defaultSeed seeds the PRNG Solve uses internally for Pollard's rho for
// logarithms. Callers who need a reproducible but distinct draw sequence
// should use SolveWithSeed.
const defaultSeed = 1

// Solve finds x such that g^x = h (mod n), returning ErrNoSolution if h
// is outside the cyclic subgroup generated by g. Solve(g, h, n) is
// equivalent to SolveWithSeed(g, h, n, defaultSeed).
func Solve(g, h, n *big.Int) (*Result, error) {
	return SolveWithSeed(g, h, n, defaultSeed)
}

// SolveWithSeed behaves like Solve but seeds the internal Pollard-rho
// walks from seed, for reproducible runs.
func SolveWithSeed(g, h, n *big.Int, seed int64) (*Result, error) {
	phi, err := eulerPhi(n)
	if err != nil {
		return nil, err
	}

	phiFactors, err := factor.Factorize(phi)
	if err != nil {
		return nil, err
	}

	pe := newPowEngine(n)

	order, orderFactors := groupOrder(pe, g, phiFactors)

	if !pe.equalsOne(pe.pow(h, order)) {
		return nil, ErrNoSolution
	}

	rng := rand.New(rand.NewSource(seed))

	type congruence struct {
		primeU64 uint64
		modulus  *big.Int
		residue  *big.Int
	}
	var congruences []congruence

	for _, qf := range orderFactors {
		if !qf.Prime.IsUint64() {
			return nil, ErrOrderFactorTooLarge
		}

		qPowF := new(big.Int).Exp(qf.Prime, big.NewInt(int64(qf.Exponent)), nil)
		cofactor := new(big.Int).Div(order, qPowF)

		gi := pe.pow(g, cofactor)
		hi := pe.pow(h, cofactor)

		xi, err := solvePrimePower(pe, gi, hi, qf.Prime, int(qf.Exponent), rng)
		if err != nil {
			return nil, err
		}

		congruences = append(congruences, congruence{
			primeU64: qf.Prime.Uint64(),
			modulus:  qPowF,
			residue:  xi,
		})
	}

	if len(congruences) == 0 {
		// order == 1: g is the identity, so x = 0 works for any h == 1,
		// and the equalsOne(h^order) check above already guarantees h == 1.
		return &Result{Exponent: big.NewInt(0), Period: big.NewInt(1)}, nil
	}

	sortutil.SortByKey(congruences, func(c congruence) uint64 { return c.primeU64 })

	x, m := congruences[0].residue, congruences[0].modulus
	for _, c := range congruences[1:] {
		x, m = crtPair(x, m, c.residue, c.modulus)
	}

	return &Result{Exponent: x, Period: m}, nil
}

// eulerPhi computes phi(n) from the prime factorization of n.
func eulerPhi(n *big.Int) (*big.Int, error) {
	factors, err := factor.Factorize(n)
	if err != nil {
		return nil, err
	}

	phi := big.NewInt(1)
	for _, f := range factors {
		if f.Exponent == 1 {
			phi.Mul(phi, new(big.Int).Sub(f.Prime, one))
		} else {
			pm1 := new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent-1)), nil)
			term := new(big.Int).Mul(pm1, new(big.Int).Sub(f.Prime, one))
			phi.Mul(phi, term)
		}
	}
	return phi, nil
}

// groupOrder computes ord_n(g), the order of g in (Z/nZ)*, by starting
// from phi(n) and repeatedly stripping each prime factor of phi while g
// raised to the reduced exponent is still 1 — the standard order-finding
// reduction that underlies Pohlig-Hellman. It returns the order together
// with its own prime-power factorization (a subset of phi's, with
// possibly-reduced exponents).
func groupOrder(pe *powEngine, g *big.Int, phiFactors []factor.PrimePower) (*big.Int, []factor.PrimePower) {
	d := new(big.Int)
	// Start from phi itself.
	d.SetInt64(1)
	for _, f := range phiFactors {
		pw := new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent)), nil)
		d.Mul(d, pw)
	}

	exponents := make([]uint32, len(phiFactors))
	for i, f := range phiFactors {
		exponents[i] = f.Exponent
	}

	for i, f := range phiFactors {
		for exponents[i] > 0 {
			candidate := new(big.Int).Div(d, f.Prime)
			if pe.equalsOne(pe.pow(g, candidate)) {
				d = candidate
				exponents[i]--
				continue
			}
			break
		}
	}

	var orderFactors []factor.PrimePower
	for i, f := range phiFactors {
		if exponents[i] > 0 {
			orderFactors = append(orderFactors, factor.PrimePower{Prime: f.Prime, Exponent: exponents[i]})
		}
	}
	return d, orderFactors
}

// solvePrimePower solves gi^x = hi (mod n) where gi is known to have
// exact order q^f, by lifting x one base-q digit at a time: at each
// level j, the residual hi*gi^-x is raised to the power that collapses
// it into the fixed order-q subgroup generated by gi^(q^(f-1)), where
// Pollard's rho for logarithms recovers the next digit.
func solvePrimePower(pe *powEngine, gi, hi, q *big.Int, f int, rng *rand.Rand) (*big.Int, error) {
	n := pe.n
	qPowFm1 := new(big.Int).Exp(q, big.NewInt(int64(f-1)), nil)
	gammaBase := pe.pow(gi, qPowFm1)

	giInv := new(big.Int).ModInverse(gi, n)

	x := big.NewInt(0)
	qPow := big.NewInt(1)

	for j := 0; j < f; j++ {
		giInvX := pe.pow(giInv, x)
		residual := new(big.Int).Mul(hi, giInvX)
		residual.Mod(residual, n)

		exp := new(big.Int).Exp(q, big.NewInt(int64(f-1-j)), nil)
		gammaJ := pe.pow(residual, exp)

		aj, err := rhoForLogs(gammaBase, gammaJ, q, n, rng)
		if err != nil {
			return nil, err
		}

		term := new(big.Int).Mul(aj, qPow)
		x.Add(x, term)
		qPow.Mul(qPow, q)
	}

	return x, nil
}

// crtPair combines x ≡ x1 (mod m1), x ≡ x2 (mod m2) into a single
// congruence mod m1*m2, assuming gcd(m1, m2) = 1.
func crtPair(x1, m1, x2, m2 *big.Int) (*big.Int, *big.Int) {
	m1Inv := new(big.Int).ModInverse(m1, m2)
	t := new(big.Int).Sub(x2, x1)
	t.Mul(t, m1Inv)
	t.Mod(t, m2)

	x := new(big.Int).Mul(t, m1)
	x.Add(x, x1)

	m := new(big.Int).Mul(m1, m2)
	x.Mod(x, m)
	return x, m
}
