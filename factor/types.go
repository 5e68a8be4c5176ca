// Package factor implements complete prime factorization of an arbitrary
// positive integer: staged trial division, Brent-variant Pollard's rho,
// and two-phase Lenstra ECM, orchestrated by a driver that recursively
// factors composite cofactors until only primes remain.
package factor

import (
	"fmt"
	"math/big"
	"strings"
)

// PrimePower is one (prime, exponent) term of a factorization.
type PrimePower struct {
	Prime    *big.Int
	Exponent uint32
}

// IncompleteError is returned by Factorize when the ECM budget is
// exhausted on one or more residual composite cofactors without
// splitting them further. It carries both the primes already extracted
// and every unfactored residual (the work stack can hold more than one
// composite at a time, and each is tried independently), so a caller can
// still make use of partial progress instead of only seeing a failure.
type IncompleteError struct {
	Found     []PrimePower
	Residuals []*big.Int
}

func (e *IncompleteError) Error() string {
	parts := make([]string, len(e.Residuals))
	for i, r := range e.Residuals {
		parts[i] = r.String()
	}
	return fmt.Sprintf("factor: exhausted factorization budget with residual cofactor(s) %s unfactored", strings.Join(parts, ", "))
}
