package ecm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blck-snwmn/numtheory/montgomery"
	"github.com/blck-snwmn/numtheory/ntutil"
)

func TestFactorFindsFactorOfModerateComposite(t *testing.T) {
	t.Parallel()

	// 10007 * 1000000000000037: every curve order modulo 10007 is at most
	// about 10208 and so B1-smooth for pass 1, while the large cofactor's
	// curve orders are not, so stage 1 isolates 10007. (With two factors
	// of similar size, such as 10007 * 10009, stage 1 collapses both at
	// once and every curve ends with gcd == n.)
	n := new(big.Int).Mul(big.NewInt(10007), big.NewInt(1000000000000037))

	found := false
	for seed := int64(0); seed < 5 && !found; seed++ {
		e := NewEngine(seed)
		factor, ok := e.Factor(n)
		if !ok {
			continue
		}
		require.True(t, factor.Cmp(big.NewInt(1)) > 0)
		require.True(t, factor.Cmp(n) < 0)
		rem := new(big.Int).Mod(n, factor)
		require.Equal(t, big.NewInt(0), rem)
		found = true
	}
	require.True(t, found, "ECM failed to find a factor within the retry budget")
}

func TestLadderMatchesRepeatedDoubling(t *testing.T) {
	t.Parallel()

	// A concrete, fixed curve/point pair; verify ladder(4*P) == xDBL(xDBL(P)).
	n := big.NewInt(1000003)
	ctxBig := mustCtx(t, n)
	a24 := ctxBig.ToMontgomery(big.NewInt(7))
	p := Point{X: ctxBig.ToMontgomery(big.NewInt(11)), Z: ctxBig.ToMontgomery(big.NewInt(1))}

	want := xDBL(ctxBig, a24, xDBL(ctxBig, a24, p))
	got := ladder(ctxBig, a24, p, big.NewInt(4))

	require.True(t, ctxBig.Equal(want.X, got.X))
	require.True(t, ctxBig.Equal(want.Z, got.Z))
}

// TestStage2FindsFactorStage1Misses drives stage2 directly against a
// hand-picked curve where stage 1 is provably insufficient: n = 101*103,
// and the chosen Suyama curve (sigma=6) gives a starting point whose
// order modulo 101 is 26 = 2*13. With B1=5, stage 1's fixed exponent
// (2^2 * 3 * 5, the prime powers <= B1) is coprime to the remaining
// factor of 13, so stage 1's point never collapses to the identity
// modulo 101 and its gcd check passes cleanly (gcd == 1, not a factor).
// Only stage 2, whose wheel covers primes up to B2=20 and therefore
// reaches 13, accumulates a term divisible by 101. Both facts were
// verified independently by running the same ladder/stage1/stage2
// arithmetic in a standalone script before fixing these constants.
func TestStage2FindsFactorStage1Misses(t *testing.T) {
	t.Parallel()

	n := new(big.Int).Mul(big.NewInt(101), big.NewInt(103))
	ctx := mustCtx(t, n)

	const b1, b2 = int64(5), int64(20)

	a24 := ctx.ToMontgomery(big.NewInt(9739))
	p := Point{X: ctx.ToMontgomery(big.NewInt(8985)), Z: ctx.ToMontgomery(big.NewInt(3421))}

	primes := ntutil.PrimesUpTo(uint32(b1))
	afterStage1, factor := stage1(ctx, a24, p, primes, b1)
	require.Nil(t, factor, "stage 1 must not find a factor for this curve")

	got := stage2(ctx, a24, afterStage1, b1, b2)
	require.NotNil(t, got, "stage 2 must find a factor for this curve")
	require.Equal(t, big.NewInt(101), got)
}

func mustCtx(t *testing.T, n *big.Int) *montgomery.Context {
	t.Helper()
	ctx, err := montgomery.New(n)
	require.NoError(t, err)
	return ctx
}
