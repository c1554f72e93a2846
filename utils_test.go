package cargoalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{0.50001, 1},
		{1.49, 1},
		{2.5, 3},
		{49.9999996, 50},
		{-0.4, 0},
		{-0.5, -1},
		{-1.5, -2},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, RoundHalfAwayFromZero(tc.in), "input %v", tc.in)
	}
}

func TestTotalForecast(t *testing.T) {
	locations := []Location{
		{ID: "L0", Forecast: 40},
		{ID: "L1", Forecast: 0},
		{ID: "L2", Forecast: 25},
	}
	require.Equal(t, 65, TotalForecast(locations))
	require.Zero(t, TotalForecast(nil))
}

func TestArrayIntFlags(t *testing.T) {
	var flags ArrayIntFlags
	require.NoError(t, flags.Set("3"))
	require.NoError(t, flags.Set("12"))
	require.Equal(t, ArrayIntFlags{3, 12}, flags)
	require.Equal(t, "3,12", flags.String())
	require.Error(t, flags.Set("abc"))
}

func TestArrayStringFlags(t *testing.T) {
	var flags ArrayStringFlags
	require.NoError(t, flags.Set("a"))
	require.NoError(t, flags.Set("b"))
	require.Equal(t, "a,b", flags.String())
}

func TestSanitizeJsonArrayLineBreaks(t *testing.T) {
	in := "\"regular\": [\n\t\t1,\n\t\t2,\n\t\t3\n\t],\n"
	out := SanitizeJsonArrayLineBreaks(in)
	require.Contains(t, out, "[1,2,3]")
}

func TestVariableLayoutIsDisjoint(t *testing.T) {
	mod, err := CreateCargoModel(testCargos(), testLocations())
	require.NoError(t, err)

	seen := make(map[int]bool, mod.VarCount)
	mark := func(i int) {
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, mod.VarCount)
		require.False(t, seen[i], "index %d assigned twice", i)
		seen[i] = true
	}
	for c := 0; c < mod.N; c++ {
		for l := 0; l < mod.M; l++ {
			if mod.PairIndex[c][l] < 0 {
				continue
			}
			mark(mod.XIndex(c, l))
			mark(mod.EIndex(c, l))
		}
	}
	for c := 0; c < mod.N; c++ {
		mark(mod.YRIndex(c))
		mark(mod.YEIndex(c))
		mark(mod.MIndex(c))
	}
	require.Len(t, seen, mod.VarCount)
}
