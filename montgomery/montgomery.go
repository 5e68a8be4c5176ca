// Package montgomery implements Montgomery modular multiplication over an
// arbitrary odd modulus, the arithmetic substrate shared by the
// factorization and discrete-log packages in this module.
//
// A Context is bound to a single odd modulus N and holds both the
// precomputed constants (R, N', R mod N, R² mod N, R³ mod N) and the
// scratch accumulators REDC needs on every call. Values produced by a
// Context are "Montgomery values": residues of x·R mod N, relaxed to the
// range [0, 2N) rather than the canonical [0, N) — this trades one
// conditional subtraction per REDC call for a wider residue range, which
// every arithmetic method here is written to tolerate.
package montgomery

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

// ErrEvenModulus is returned by New when the modulus is even. Montgomery
// reduction requires N to be odd so that N is invertible modulo any power
// of two.
var ErrEvenModulus = errors.New("montgomery: modulus must be odd")

// ErrModulusTooSmall is returned by New when N < 3.
var ErrModulusTooSmall = errors.New("montgomery: modulus must be >= 3")

// ErrNotInvertible is returned by Invert when the argument shares a
// nontrivial factor with the modulus. Outside of ECM's curve-recovery
// path this is a fatal precondition violation; ECM instead retrieves the
// gcd from the error and treats it as a found factor.
var ErrNotInvertible = errors.New("montgomery: value not invertible modulo N")

// wordBits is the machine word width R is expressed as a multiple of.
const wordBits = bits.UintSize

// NotInvertibleError carries the gcd(x mod N, N) computed while failing to
// invert x, so that callers such as ECM can recover the factor directly
// instead of recomputing it.
type NotInvertibleError struct {
	GCD *big.Int
}

func (e *NotInvertibleError) Error() string {
	return fmt.Sprintf("montgomery: gcd(x, n) = %s is not 1", e.GCD.String())
}

func (e *NotInvertibleError) Unwrap() error { return ErrNotInvertible }

// Context holds the modulus-bound Montgomery constants and the scratch
// accumulators reused across calls. A Context must not be shared between
// moduli, and per the concurrency model it is not safe for concurrent use
// from multiple goroutines: callers running factorizations in parallel
// must construct one Context per goroutine.
type Context struct {
	n  *big.Int // odd modulus
	n2 *big.Int // 2n

	rBits int      // bit length of R, a multiple of wordBits
	r     *big.Int // 2^rBits
	mask  *big.Int // r - 1, used to take "mod r" as a bitmask

	nInv *big.Int // -n^-1 mod r

	rModN    *big.Int // R mod N == Montgomery form of 1
	rSqModN  *big.Int // R^2 mod N
	rCubModN *big.Int // R^3 mod N

	// scratch, reused by REDC so that steady-state calls do not allocate.
	tScratch  *big.Int
	mScratch  *big.Int
	uScratch  *big.Int
	sqScratch *big.Int // holds CubeInto's intermediate square
}

// New builds a Context for the odd modulus n, n >= 3. R is chosen as the
// smallest power of two, expressed as a multiple of the machine word
// width, strictly greater than 4n; this is the only place a non-power-of-
// two division is ever performed (to compute R mod N, R² mod N and R³ mod
// N via the underlying big.Int backend).
func New(n *big.Int) (*Context, error) {
	if n.Bit(0) == 0 {
		return nil, ErrEvenModulus
	}
	if n.Cmp(big.NewInt(3)) < 0 {
		return nil, ErrModulusTooSmall
	}

	// r_bit_length = ceil(log2(4n+1)) rounded up to a multiple of wordBits.
	fourN := new(big.Int).Lsh(n, 2)
	rBits := fourN.BitLen()
	if rem := rBits % wordBits; rem != 0 {
		rBits += wordBits - rem
	}

	r := new(big.Int).Lsh(big.NewInt(1), uint(rBits))
	mask := new(big.Int).Sub(r, big.NewInt(1))

	// n_inv = (-n)^-1 mod r, which exists because n is odd and r is a
	// power of two.
	negN := new(big.Int).Neg(n)
	negN.Mod(negN, r)
	nInv := new(big.Int).ModInverse(negN, r)
	if nInv == nil {
		// Unreachable for odd n, kept as a defensive invariant check.
		return nil, ErrEvenModulus
	}

	rModN := new(big.Int).Mod(r, n)

	rSq := new(big.Int).Mul(rModN, rModN)
	rSq.Mod(rSq, n)

	rCub := new(big.Int).Mul(rSq, rModN)
	rCub.Mod(rCub, n)

	return &Context{
		n:        new(big.Int).Set(n),
		n2:       new(big.Int).Lsh(n, 1),
		rBits:    rBits,
		r:        r,
		mask:     mask,
		nInv:     nInv,
		rModN:    rModN,
		rSqModN:  rSq,
		rCubModN: rCub,
		tScratch:  new(big.Int),
		mScratch:  new(big.Int),
		uScratch:  new(big.Int),
		sqScratch: new(big.Int),
	}, nil
}

// N returns the modulus the Context was built for.
func (c *Context) N() *big.Int { return new(big.Int).Set(c.n) }

// One returns the Montgomery form of 1, i.e. R mod N.
func (c *Context) One() *big.Int { return new(big.Int).Set(c.rModN) }

// redcInto performs Montgomery reduction T·R^-1 mod N for 0 <= T < N·R,
// writing the result — a value in [0, 2N) — into dst and returning it.
// No conditional subtraction is applied: t = (T + m·N) / R < T/R + N, so
// t lands below 2N whenever T < N·R, and the choice of R > 4N puts every
// product of two values in [0, 2N) (at most (2N)² < N·R) in that range.
// t may alias dst; every read of t happens before dst is written.
func (c *Context) redcInto(dst, t *big.Int) *big.Int {
	// m = (T * n_inv) mod r, taken as the low rBits bits.
	c.mScratch.Mul(t, c.nInv)
	c.mScratch.And(c.mScratch, c.mask)

	// t = (T + m*N) >> rBits
	c.tScratch.Mul(c.mScratch, c.n)
	c.tScratch.Add(c.tScratch, t)
	c.tScratch.Rsh(c.tScratch, uint(c.rBits))

	dst.Set(c.tScratch)
	return dst
}

// redc is redcInto with a freshly allocated destination, for callers that
// need an independent result rather than a caller-owned accumulator.
func (c *Context) redc(t *big.Int) *big.Int {
	return c.redcInto(new(big.Int), t)
}

// ToMontgomery converts the canonical residue x, 0 <= x < N, to its
// Montgomery form.
func (c *Context) ToMontgomery(x *big.Int) *big.Int {
	c.uScratch.Mul(x, c.rSqModN)
	return c.redc(c.uScratch)
}

// FromMontgomery converts a Montgomery value back to the canonical range
// [0, N).
func (c *Context) FromMontgomery(xBar *big.Int) *big.Int {
	v := c.redc(xBar)
	if v.Cmp(c.n) >= 0 {
		v.Sub(v, c.n)
	}
	return v
}

// Add returns a + b in Montgomery form, for a, b in [0, 2N).
func (c *Context) Add(a, b *big.Int) *big.Int {
	return c.AddInto(new(big.Int), a, b)
}

// Sub returns a - b in Montgomery form, for a, b in [0, 2N).
func (c *Context) Sub(a, b *big.Int) *big.Int {
	return c.SubInto(new(big.Int), a, b)
}

// Mul returns a*b in Montgomery form via REDC.
func (c *Context) Mul(a, b *big.Int) *big.Int {
	return c.MulInto(new(big.Int), a, b)
}

// Square returns a² in Montgomery form.
func (c *Context) Square(a *big.Int) *big.Int {
	return c.SquareInto(new(big.Int), a)
}

// Cube returns a³ in Montgomery form.
func (c *Context) Cube(a *big.Int) *big.Int {
	return c.CubeInto(new(big.Int), a)
}

// Increment returns a + 1 (the Montgomery form of 1, R mod N).
func (c *Context) Increment(a *big.Int) *big.Int {
	return c.IncrementInto(new(big.Int), a)
}

// Decrement returns a - 1.
func (c *Context) Decrement(a *big.Int) *big.Int {
	return c.DecrementInto(new(big.Int), a)
}

// Equal reports whether two Montgomery values, each held in [0, 2N),
// represent the same residue class: their difference is 0 or ±N.
func (c *Context) Equal(a, b *big.Int) bool {
	d := new(big.Int).Sub(a, b)
	d.Abs(d)
	return d.Sign() == 0 || d.Cmp(c.n) == 0
}

// Invert returns x^-1 in Montgomery form given x̄ = x·R mod N. It fails
// with a *NotInvertibleError (wrapping ErrNotInvertible) carrying
// gcd(x mod N, N) iff that gcd is not 1. ECM treats that failure as an
// expected, recoverable factor-found signal; every other caller should
// treat it as fatal.
func (c *Context) Invert(xBar *big.Int) (*big.Int, error) {
	return c.InvertInto(new(big.Int), xBar)
}

// AddInto, SubInto, MulInto, SquareInto, CubeInto, IncrementInto,
// DecrementInto and InvertInto are the mutating counterparts of the
// methods above: each writes its result into a caller-supplied dst
// (which may alias any of its other *big.Int arguments) and returns dst,
// so that a caller running a tight loop of Montgomery arithmetic — the
// Pollard-rho race and the ECM ladder both do — performs no allocation
// beyond what GCD/ModInverse themselves require in InvertInto. dst must
// not alias any of the Context's own scratch fields.
func (c *Context) AddInto(dst, a, b *big.Int) *big.Int {
	dst.Add(a, b)
	if dst.Cmp(c.n2) >= 0 {
		dst.Sub(dst, c.n2)
	}
	return dst
}

func (c *Context) SubInto(dst, a, b *big.Int) *big.Int {
	dst.Sub(a, b)
	if dst.Sign() < 0 {
		dst.Add(dst, c.n2)
	}
	return dst
}

func (c *Context) MulInto(dst, a, b *big.Int) *big.Int {
	c.uScratch.Mul(a, b)
	return c.redcInto(dst, c.uScratch)
}

func (c *Context) SquareInto(dst, a *big.Int) *big.Int {
	return c.MulInto(dst, a, a)
}

// CubeInto writes a³ into dst. It uses c.sqScratch to hold the
// intermediate square, so it is safe to call with dst aliasing a.
func (c *Context) CubeInto(dst, a *big.Int) *big.Int {
	c.SquareInto(c.sqScratch, a)
	return c.MulInto(dst, c.sqScratch, a)
}

func (c *Context) IncrementInto(dst, a *big.Int) *big.Int {
	return c.AddInto(dst, a, c.rModN)
}

func (c *Context) DecrementInto(dst, a *big.Int) *big.Int {
	return c.SubInto(dst, a, c.rModN)
}

// InvertInto writes x^-1 into dst given x̄ = x·R mod N, returning the
// same *NotInvertibleError as Invert on failure. The GCD and ModInverse
// computation still allocate their own temporaries — math/big has no
// in-place form for either — so this only saves the final REDC
// allocation; Invert is not meant to be called from a per-iteration hot
// loop the way Mul/Square are.
func (c *Context) InvertInto(dst, xBar *big.Int) (*big.Int, error) {
	// gcd(x̄, N) == gcd(x, N) because R is coprime to N.
	g := new(big.Int).GCD(nil, nil, xBar, c.n)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, &NotInvertibleError{GCD: g}
	}

	// y = (x·R)^-1 mod N, so REDC(y·R³) = x^-1·R, the Montgomery form of x^-1.
	y := new(big.Int).ModInverse(xBar, c.n)
	c.uScratch.Mul(y, c.rCubModN)
	return c.redcInto(dst, c.uScratch), nil
}
