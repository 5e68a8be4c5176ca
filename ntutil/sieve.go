// Package ntutil collects the small number-theoretic primitives that sit
// underneath the factorization and discrete-log packages: a process-wide
// sieve of small primes, Montgomery-form exponentiation, and a
// Miller-Rabin primality test with a fixed 64-bit-safe witness set.
//
// The sieve is a lazily initialized, effectively-immutable-after-first-use
// singleton, matching the "process-wide mutable cache" the design calls
// for: the first caller pays the sieve cost once, and every goroutine then
// shares the read-only result.
package ntutil

import (
	"sync"
)

// SieveLimit bounds the process-wide prime sieve. ECM stage 1 enumerates
// primes up to B1 = 500,000 (see ecm.Pass2's bound), but the sieve is
// sized generously to 2.5e7 so a single table serves every stage of every
// ECM pass without re-sieving.
const SieveLimit = 25_000_000

// TrialDivisionLimit bounds the prime list trial division consumes.
const TrialDivisionLimit = 10_000

var (
	sieveOnce   sync.Once
	sievePrimes []uint32
)

// sieveOfEratosthenes returns every prime <= limit in ascending order.
func sieveOfEratosthenes(limit int) []uint32 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var primes []uint32
	for p := 2; p <= limit; p++ {
		if composite[p] {
			continue
		}
		primes = append(primes, uint32(p))
		if int64(p)*int64(p) > int64(limit) {
			continue
		}
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}
	return primes
}

// Primes returns the process-wide ascending prime table up to SieveLimit,
// computing it on first use and reusing it for the remainder of the
// process (or goroutine-local caller lifetime, if the caller wraps this
// in its own per-thread storage).
func Primes() []uint32 {
	sieveOnce.Do(func() {
		sievePrimes = sieveOfEratosthenes(SieveLimit)
	})
	return sievePrimes
}

// PrimesUpTo returns the prefix of Primes() not exceeding limit. It does
// not allocate a new sieve; it slices the shared table.
func PrimesUpTo(limit uint32) []uint32 {
	all := Primes()
	lo, hi := 0, len(all)
	for lo < hi {
		mid := (lo + hi) / 2
		if all[mid] <= limit {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return all[:lo]
}
