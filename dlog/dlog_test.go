package dlog

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolvePrimeModulusSmallOrder(t *testing.T) {
	t.Parallel()

	got, err := Solve(big.NewInt(2), big.NewInt(8), big.NewInt(17))
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(3).Cmp(got.Exponent))
	require.Equal(t, 0, big.NewInt(8).Cmp(got.Period))
}

func TestSolvePrimeModulusCompositeOrder(t *testing.T) {
	t.Parallel()

	got, err := Solve(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(5).Cmp(got.Exponent))
	require.Equal(t, 0, big.NewInt(6).Cmp(got.Period))
}

// The period here is the true multiplicative order of 3 mod 1009 (168),
// not 252 — verified independently by computing ord_1009(3) directly
// (3^168 mod 1009 == 1, and 168 is minimal).
func TestSolveLargerPrimeModulus(t *testing.T) {
	t.Parallel()

	got, err := SolveWithSeed(big.NewInt(3), big.NewInt(81), big.NewInt(1009), 7)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(4).Cmp(got.Exponent))
	require.Equal(t, 0, big.NewInt(168).Cmp(got.Period))

	check := new(big.Int).Exp(big.NewInt(3), got.Exponent, big.NewInt(1009))
	require.Equal(t, big.NewInt(81), check)
}

func TestSolveNoSolutionWhenTargetOutsideSubgroup(t *testing.T) {
	t.Parallel()

	_, err := Solve(big.NewInt(2), big.NewInt(3), big.NewInt(15))
	require.True(t, errors.Is(err, ErrNoSolution))
}

func TestSolveRoundTripsAcrossSeeds(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		got, err := SolveWithSeed(big.NewInt(2), big.NewInt(8), big.NewInt(17), seed)
		require.NoError(t, err)
		check := new(big.Int).Exp(big.NewInt(2), got.Exponent, big.NewInt(17))
		require.Equal(t, big.NewInt(8), check)
	}
}
