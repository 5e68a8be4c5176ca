package ecm

import (
	"math/big"
	"math/rand"

	"github.com/blck-snwmn/numtheory/montgomery"
	"github.com/blck-snwmn/numtheory/ntutil"
)

// Pass bundles the fixed parameters of one ECM pass: how many curves to
// try, and the stage-1/stage-2 smoothness bounds.
type Pass struct {
	Curves int
	B1     int64
	B2     int64
}

// Pass1 and Pass2 are the two fixed-parameter passes the factorization
// driver runs in sequence.
var (
	Pass1 = Pass{Curves: 200, B1: 50_000, B2: 2_500_000}
	Pass2 = Pass{Curves: 200, B1: 500_000, B2: 25_000_000}
)

// babyResidues are the four offsets, coprime to the wheel D=30, that
// every prime q > 5 lands on when expressed as the nearest multiple of
// 30 plus or minus a small remainder.
var babyResidues = []int64{1, 7, 11, 13}

const stage2Wheel = 30

// Engine runs ECM, reusing its PRNG across every call, curve and pass; the
// modulus is given per Factor call, the prime table is the shared ntutil
// sieve, and each ladder call allocates its own scratch. Per the
// concurrency model, an Engine is not safe for concurrent use; callers
// factorizing on multiple goroutines should construct one Engine per
// goroutine.
type Engine struct {
	rng *rand.Rand
}

// NewEngine builds an Engine seeded for reproducibility.
func NewEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// Factor runs both fixed ECM passes against n in sequence, trying up to
// Curves curves per pass. It returns (factor, true) as soon as any curve
// in either pass reveals a nontrivial factor, and (nil, false) if both
// passes exhaust their curve budgets.
func (e *Engine) Factor(n *big.Int) (*big.Int, bool) {
	for _, pass := range []Pass{Pass1, Pass2} {
		if f, ok := e.runPass(n, pass); ok {
			return f, true
		}
	}
	return nil, false
}

func (e *Engine) runPass(n *big.Int, pass Pass) (*big.Int, bool) {
	ctx, err := montgomery.New(n)
	if err != nil {
		return nil, false
	}

	stage1Primes := ntutil.PrimesUpTo(uint32(pass.B1))

	for curve := 0; curve < pass.Curves; curve++ {
		a24, xBar, zBar, factor := suyamaCurve(ctx, e.rng)
		if factor != nil {
			if factor.Cmp(n) != 0 && factor.Sign() != 0 {
				return factor, true
			}
			continue
		}

		p := Point{X: xBar, Z: zBar}

		p, factor = stage1(ctx, a24, p, stage1Primes, pass.B1)
		if factor != nil {
			if factor.Cmp(n) == 0 {
				continue // curve failed in stage 1, try another
			}
			return factor, true
		}

		factor = stage2(ctx, a24, p, pass.B1, pass.B2)
		if factor != nil {
			if factor.Cmp(n) == 0 {
				continue // curve failed in stage 2, try another
			}
			return factor, true
		}
	}
	return nil, false
}

// stage1 raises P to the product of every prime power p^e <= B1, via the
// ladder, and reports the gcd(Z, n) found afterwards. A nil factor means
// stage 1 passed cleanly (gcd == 1) and P is ready for stage 2.
func stage1(ctx *montgomery.Context, a24 *big.Int, p Point, primes []uint32, b1 int64) (Point, *big.Int) {
	for _, prime := range primes {
		pw := int64(prime)
		e := pw
		for e*int64(prime) <= b1 {
			e *= int64(prime)
		}
		p = ladder(ctx, a24, p, big.NewInt(e))
	}

	g := new(big.Int).GCD(nil, nil, ctx.FromMontgomery(p.Z), ctx.N())
	if g.Cmp(big.NewInt(1)) == 0 {
		return p, nil
	}
	return p, g
}

// stage2 extends the search to primes in (B1, B2] using the standard
// baby-step/giant-step continuation with wheel D=30: for each candidate
// prime q, q is expressed as m*D ± j with j one of the four residues
// coprime to 30, and the accumulator gathers
// (X_{m*D*P} * Z_{j*P} - X_{j*P} * Z_{m*D*P}), which vanishes modulo any
// prime p for which ord_p(P) | q.
func stage2(ctx *montgomery.Context, a24 *big.Int, p Point, b1, b2 int64) *big.Int {
	n := ctx.N()
	const d = stage2Wheel

	baby := make(map[int64]Point, len(babyResidues))
	for _, j := range babyResidues {
		baby[j] = ladder(ctx, a24, p, big.NewInt(j))
	}
	dp := ladder(ctx, a24, p, big.NewInt(d))

	buckets := bucketPrimesByGiantStep(b1, b2, d)
	if len(buckets) == 0 {
		return nil
	}

	mStart := buckets[0].m
	sPrev := ladder(ctx, a24, p, big.NewInt((mStart-1)*d))
	sCur := ladder(ctx, a24, p, big.NewInt(mStart*d))

	acc := ctx.One()
	checkEvery := 64
	sinceCheck := 0

	checkAndReset := func() *big.Int {
		g := new(big.Int).GCD(nil, nil, ctx.FromMontgomery(acc), n)
		acc = ctx.One()
		sinceCheck = 0
		if g.Cmp(big.NewInt(1)) != 0 {
			return g
		}
		return nil
	}

	for _, bucket := range buckets {
		for bucket.m > mStart {
			sNext := xADD(ctx, sCur, dp, sPrev)
			sPrev, sCur = sCur, sNext
			mStart++
		}

		for _, j := range bucket.offsets {
			t := baby[j]
			term := ctx.Sub(ctx.Mul(sCur.X, t.Z), ctx.Mul(t.X, sCur.Z))
			acc = ctx.Mul(acc, term)
			sinceCheck++
		}

		if sinceCheck >= checkEvery {
			if g := checkAndReset(); g != nil {
				return g
			}
		}
	}

	return checkAndReset()
}

// giantStepBucket groups the offsets of the primes assigned to giant step
// m. A bucket exists only for an m with at least one prime, and holds at
// most eight offsets (the four residues on either side of m*D).
type giantStepBucket struct {
	m       int64
	offsets []int64
}

// bucketPrimesByGiantStep enumerates every prime in (b1, b2], assigns
// each to its nearest multiple of d (and the corresponding offset), and
// returns the buckets sorted ascending by giant step.
func bucketPrimesByGiantStep(b1, b2 int64, d int64) []giantStepBucket {
	primes := ntutil.PrimesUpTo(uint32(b2))

	byM := make(map[int64][]int64)
	order := make([]int64, 0)

	for _, pr := range primes {
		q := int64(pr)
		if q <= b1 {
			continue
		}
		if q > b2 {
			break
		}
		m := (q + d/2) / d
		j := q - m*d
		if j < 0 {
			j = -j
		}
		if _, ok := byM[m]; !ok {
			order = append(order, m)
		}
		byM[m] = append(byM[m], j)
	}

	buckets := make([]giantStepBucket, len(order))
	for i, m := range order {
		buckets[i] = giantStepBucket{m: m, offsets: byM[m]}
	}
	return buckets
}
