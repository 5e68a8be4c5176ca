package factor

import (
	"math/big"
	"sort"

	"github.com/blck-snwmn/numtheory/ecm"
	"github.com/blck-snwmn/numtheory/ntutil"
	"github.com/blck-snwmn/numtheory/pollard"
)

// rhoAttemptsPerCofactor bounds how many fresh Pollard's-rho runs the
// driver tries on a cofactor before escalating to ECM.
const rhoAttemptsPerCofactor = 3

// defaultSeed is the PRNG seed Factorize uses. Callers who need a
// reproducible but distinct draw sequence should use FactorizeWithSeed.
const defaultSeed = 1

var one = big.NewInt(1)

// Factorize returns the complete prime factorization of n as an
// ascending-by-prime sequence of (prime, exponent) pairs, using trial
// division, Pollard's rho and ECM in sequence on every composite
// cofactor the driver encounters.
//
// Factorize(1) returns (nil, nil). If ECM exhausts its curve budget on
// some residual composite without ever splitting it, Factorize returns
// the primes it did manage to extract together with a non-nil
// *IncompleteError wrapping every such residual cofactor, rather than silently
// reporting a wrong "complete" factorization.
func Factorize(n *big.Int) ([]PrimePower, error) {
	return FactorizeWithSeed(n, defaultSeed)
}

// FactorizeWithSeed behaves like Factorize but seeds Pollard's rho and
// ECM from seed, for reproducible runs.
func FactorizeWithSeed(n *big.Int, seed int64) ([]PrimePower, error) {
	if n.Cmp(one) == 0 {
		return nil, nil
	}

	trialPowers, cofactor := trialDivide(n)

	rho := pollard.New(seed)
	ecmEngine := ecm.NewEngine(seed)

	stack := []*big.Int{}
	if cofactor.Cmp(one) > 0 {
		stack = append(stack, cofactor)
	}

	var found []PrimePower
	var residuals []*big.Int

	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if m.Cmp(one) == 0 {
			continue
		}
		if ntutil.IsPrime(m) {
			found = append(found, PrimePower{Prime: new(big.Int).Set(m), Exponent: 1})
			continue
		}

		d, ok := findNontrivialFactor(rho, ecmEngine, m)
		if !ok {
			residuals = append(residuals, m)
			continue
		}

		other := new(big.Int).Quo(m, d)
		stack = append(stack, d, other)
	}

	merged := mergeFactors(append(trialPowers, found...))

	if len(residuals) > 0 {
		return merged, &IncompleteError{Found: merged, Residuals: residuals}
	}
	return merged, nil
}

// findNontrivialFactor tries Pollard's rho up to rhoAttemptsPerCofactor
// times, then falls back to both ECM passes.
func findNontrivialFactor(rho *pollard.Rho, e *ecm.Engine, m *big.Int) (*big.Int, bool) {
	for i := 0; i < rhoAttemptsPerCofactor; i++ {
		if d, ok := rho.Factor(m); ok {
			return d, true
		}
	}
	return e.Factor(m)
}

// mergeFactors collapses duplicate primes (the work stack yields one entry
// per prime occurrence, so a prime above the trial-division bound that
// divides n more than once appears more than once; trial division's primes
// never overlap the driver's) and sorts the result ascending by prime value.
func mergeFactors(powers []PrimePower) []PrimePower {
	if len(powers) == 0 {
		return nil
	}

	byPrime := make(map[string]*PrimePower, len(powers))
	var order []string
	for _, pw := range powers {
		key := pw.Prime.String()
		if existing, ok := byPrime[key]; ok {
			existing.Exponent += pw.Exponent
			continue
		}
		cp := pw
		byPrime[key] = &cp
		order = append(order, key)
	}

	merged := make([]PrimePower, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byPrime[key])
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Prime.Cmp(merged[j].Prime) < 0
	})
	return merged
}
