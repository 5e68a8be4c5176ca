package factor

import (
	"math/big"

	"github.com/blck-snwmn/numtheory/ntutil"
)

// trialDivide strips every prime factor up to ntutil.TrialDivisionLimit
// from n, returning the collected (prime, exponent) pairs and the
// cofactor left over (1 if n was fully smooth over the trial-division
// bound).
func trialDivide(n *big.Int) ([]PrimePower, *big.Int) {
	n = new(big.Int).Set(n)
	var powers []PrimePower

	zero := big.NewInt(0)
	for _, pr := range ntutil.PrimesUpTo(ntutil.TrialDivisionLimit) {
		p := big.NewInt(int64(pr))
		if p.Cmp(n) > 0 {
			break
		}
		var exponent uint32
		q, r := new(big.Int), new(big.Int)
		for {
			q.QuoRem(n, p, r)
			if r.Cmp(zero) != 0 {
				break
			}
			n.Set(q)
			exponent++
		}
		if exponent > 0 {
			powers = append(powers, PrimePower{Prime: p, Exponent: exponent})
		}
	}
	return powers, n
}
