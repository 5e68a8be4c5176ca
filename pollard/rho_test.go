package pollard

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactorFindsNontrivialFactor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int64
		p, q int64
	}{
		{n: 8051, p: 83, q: 97},
		{n: 10007 * 10009, p: 10007, q: 10009},
		{n: 1000003 * 1000033, p: 1000003, q: 1000033},
	}

	for _, tc := range cases {
		n := big.NewInt(tc.n)
		found := false
		for seed := int64(0); seed < 20 && !found; seed++ {
			r := New(seed)
			factor, ok := r.Factor(n)
			if !ok {
				continue
			}
			require.True(t, factor.Cmp(big.NewInt(1)) > 0)
			require.True(t, factor.Cmp(n) < 0)
			rem := new(big.Int).Mod(n, factor)
			require.Equal(t, big.NewInt(0), rem, "factor %s must divide %d", factor, tc.n)
			found = true
		}
		require.True(t, found, "no seed found a factor of %d within the retry budget", tc.n)
	}
}
