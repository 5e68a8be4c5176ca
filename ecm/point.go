// Package ecm implements Lenstra's elliptic curve factorization method
// over Montgomery curves, using Suyama's parameterization to pick curves
// and a two-phase (stage 1 / stage 2) search for a curve order divisible
// only by small primes.
package ecm

import (
	"math/big"

	"github.com/blck-snwmn/numtheory/montgomery"
)

// Point is a projective Montgomery-curve point (X:Z) over Z/nZ, held as
// Montgomery-form values with respect to the Context that produced them.
// Y is never tracked — every operation here only needs the x-coordinate.
// Z == 0 (in canonical form) represents the point at infinity.
type Point struct {
	X, Z *big.Int
}

// ladderScratch holds every temporary Montgomery value the ladder's
// per-bit doubling and addition need, allocated once per ladder call and
// reused across every bit of the scalar — the loop that dominates ECM's
// running time, at up to hundreds of curves per pass and thousands of
// bits per curve.
type ladderScratch struct {
	t1, t2, t3, t4, t5, t6, sum, diff, inner *big.Int
}

func newLadderScratch() *ladderScratch {
	return &ladderScratch{
		t1: new(big.Int), t2: new(big.Int), t3: new(big.Int), t4: new(big.Int),
		t5: new(big.Int), t6: new(big.Int), sum: new(big.Int), diff: new(big.Int),
		inner: new(big.Int),
	}
}

// xDBLInto writes 2P into (dstX, dstZ) given P = (px, pz) and curve
// parameter a24 = (A+2)/4, using s for every intermediate value. dstX and
// dstZ may alias px and pz for an in-place doubling: every read of px/pz
// happens before either destination is written.
func xDBLInto(ctx *montgomery.Context, a24, dstX, dstZ, px, pz *big.Int, s *ladderScratch) {
	ctx.AddInto(s.t1, px, pz)
	ctx.SquareInto(s.t1, s.t1)
	ctx.SubInto(s.t2, px, pz)
	ctx.SquareInto(s.t2, s.t2)
	ctx.MulInto(dstX, s.t1, s.t2)
	ctx.SubInto(s.t3, s.t1, s.t2)
	ctx.MulInto(s.inner, a24, s.t3)
	ctx.AddInto(s.inner, s.t2, s.inner)
	ctx.MulInto(dstZ, s.t3, s.inner)
}

// xADDInto writes P+Q into (dstX, dstZ) given P = (px, pz), Q = (qx, qz)
// and the already-known difference P-Q = (baseX, baseZ), using the
// standard differential addition formula for Montgomery curves. dstX and
// dstZ may alias px/pz or qx/qz (but never baseX/baseZ, which must stay
// fixed across an entire ladder run) for an in-place update.
func xADDInto(ctx *montgomery.Context, dstX, dstZ, px, pz, qx, qz, baseX, baseZ *big.Int, s *ladderScratch) {
	ctx.AddInto(s.t1, px, pz)
	ctx.SubInto(s.t2, px, pz)
	ctx.AddInto(s.t3, qx, qz)
	ctx.SubInto(s.t4, qx, qz)

	ctx.MulInto(s.t5, s.t1, s.t4)
	ctx.MulInto(s.t6, s.t2, s.t3)

	ctx.AddInto(s.sum, s.t5, s.t6)
	ctx.SquareInto(s.sum, s.sum)
	ctx.SubInto(s.diff, s.t5, s.t6)
	ctx.SquareInto(s.diff, s.diff)

	ctx.MulInto(dstX, s.sum, baseZ)
	ctx.MulInto(dstZ, s.diff, baseX)
}

// xDBL computes 2P on the curve with parameter A24 = (A+2)/4.
func xDBL(ctx *montgomery.Context, a24 *big.Int, p Point) Point {
	x, z := new(big.Int), new(big.Int)
	xDBLInto(ctx, a24, x, z, p.X, p.Z, newLadderScratch())
	return Point{X: x, Z: z}
}

// xADD computes P+Q given the already-known difference pMinusQ = P-Q,
// using the standard differential addition formula for Montgomery
// curves.
func xADD(ctx *montgomery.Context, p, q, pMinusQ Point) Point {
	x, z := new(big.Int), new(big.Int)
	xADDInto(ctx, x, z, p.X, p.Z, q.X, q.Z, pMinusQ.X, pMinusQ.Z, newLadderScratch())
	return Point{X: x, Z: z}
}

// ladder computes k*P via the Montgomery ladder: k doublings/additions
// that never touch the Y-coordinate, maintaining the invariant that the
// running pair (R0, R1) always differs by exactly P. The running points
// and every intermediate are mutated in place through a single shared
// ladderScratch, so a ladder call allocates only its four running-point
// coordinates and its scratch set — not once per bit.
func ladder(ctx *montgomery.Context, a24 *big.Int, p Point, k *big.Int) Point {
	if k.Sign() == 0 {
		return Point{X: ctx.One(), Z: big.NewInt(0)}
	}

	s := newLadderScratch()

	r0X, r0Z := new(big.Int).Set(p.X), new(big.Int).Set(p.Z)
	r1X, r1Z := new(big.Int), new(big.Int)
	xDBLInto(ctx, a24, r1X, r1Z, p.X, p.Z, s)

	for i := k.BitLen() - 2; i >= 0; i-- {
		if k.Bit(i) == 0 {
			xADDInto(ctx, r1X, r1Z, r0X, r0Z, r1X, r1Z, p.X, p.Z, s)
			xDBLInto(ctx, a24, r0X, r0Z, r0X, r0Z, s)
		} else {
			xADDInto(ctx, r0X, r0Z, r0X, r0Z, r1X, r1Z, p.X, p.Z, s)
			xDBLInto(ctx, a24, r1X, r1Z, r1X, r1Z, s)
		}
	}
	return Point{X: r0X, Z: r0Z}
}
