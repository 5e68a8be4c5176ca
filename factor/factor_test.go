package factor

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// bigIntComparer treats two *big.Int as equal when their values match,
// regardless of internal representation — go-cmp has no notion of
// math/big's Cmp method by default.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "failed to parse %q", s)
	return n
}

func pp(prime int64, exp uint32) PrimePower {
	return PrimePower{Prime: big.NewInt(prime), Exponent: exp}
}

func TestFactorizeSmallCases(t *testing.T) {
	t.Parallel()

	got, err := Factorize(big.NewInt(1))
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = Factorize(big.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, []PrimePower{pp(2, 1)}, got)

	got, err = Factorize(new(big.Int).Lsh(big.NewInt(1), 10))
	require.NoError(t, err)
	require.Equal(t, []PrimePower{pp(2, 10)}, got)
}

func TestFactorizeTwoMediumPrimes(t *testing.T) {
	t.Parallel()

	n := new(big.Int).Mul(big.NewInt(10007), big.NewInt(10009))
	got, err := Factorize(n)
	require.NoError(t, err)
	require.Equal(t, []PrimePower{pp(10007, 1), pp(10009, 1)}, got)
}

func TestFactorizeLargeScenario(t *testing.T) {
	t.Parallel()

	n := bigFromString(t, "1234567891011121314151617181920")
	got, err := Factorize(n)
	require.NoError(t, err)

	want := []PrimePower{
		pp(2, 5),
		pp(3, 1),
		pp(5, 1),
		pp(323339, 1),
		pp(3347983, 1),
		pp(2375923237887317, 1),
	}

	diff := cmp.Diff(want, got, bigIntComparer)
	require.Empty(t, diff)

	product := big.NewInt(1)
	for _, f := range got {
		pw := new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent)), nil)
		product.Mul(product, pw)
	}
	require.Equal(t, n, product)
}

func TestIncompleteErrorReportsEveryResidual(t *testing.T) {
	t.Parallel()

	err := &IncompleteError{
		Found:     []PrimePower{pp(2, 1)},
		Residuals: []*big.Int{big.NewInt(9973), big.NewInt(99991)},
	}

	msg := err.Error()
	require.Contains(t, msg, "9973")
	require.Contains(t, msg, "99991")
}

func TestFactorizeProductEqualsInput(t *testing.T) {
	t.Parallel()

	candidates := []int64{2 * 2 * 3, 97 * 89, 8051, 123456789}
	for _, c := range candidates {
		n := big.NewInt(c)
		got, err := Factorize(n)
		require.NoError(t, err)

		product := big.NewInt(1)
		for _, f := range got {
			require.True(t, f.Prime.ProbablyPrime(20), "%s should be prime", f.Prime)
			pw := new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent)), nil)
			product.Mul(product, pw)
		}
		require.Equal(t, n, product, "product of factors must equal %d", c)
	}
}
