package cargoalloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// enumSolver exhaustively searches tiny models for the optimal integer
// assignment. It implements Solver so the interpreter can be exercised
// end to end without a licensed MILP engine in the test environment.
type enumSolver struct{}

func (enumSolver) Solve(mod *CargoModel, _ float64) (SolveResult, error) {
	type pairKey struct{ c, l int }
	pairs := make([]pairKey, mod.PairCount)
	for c := 0; c < mod.N; c++ {
		for l := 0; l < mod.M; l++ {
			if p := mod.PairIndex[c][l]; p >= 0 {
				pairs[p] = pairKey{c, l}
			}
		}
	}

	bestObj := math.Inf(1)
	var best []float64
	x := make([]int, mod.PairCount)
	e := make([]int, mod.PairCount)

	evaluate := func() {
		served := make([]int, mod.M)
		for p := 0; p < mod.PairCount; p++ {
			served[pairs[p].l] += x[p] + e[p]
		}
		for l := 0; l < mod.M; l++ {
			if served[l] != mod.Locations[l].Forecast {
				return
			}
		}
		for p := 0; p < mod.PairCount; p++ {
			limit := mod.Cargos[pairs[p].c].CoverageRate * float64(mod.Locations[pairs[p].l].Forecast)
			if float64(x[p]+e[p]) > limit+1e-9 {
				return
			}
		}
		vals := make([]float64, mod.VarCount)
		for p := 0; p < mod.PairCount; p++ {
			vals[mod.XStart+p] = float64(x[p])
			vals[mod.EStart+p] = float64(e[p])
		}
		obj := 0.0
		for c := 0; c < mod.N; c++ {
			yR, yE := 0, 0
			for l := 0; l < mod.M; l++ {
				if p := mod.PairIndex[c][l]; p >= 0 {
					yR += x[p]
					yE += e[p]
				}
			}
			if yR > mod.Cargos[c].MaxCapacity || yE > mod.Cargos[c].ExcessCapacity {
				return
			}
			shortfall := mod.Cargos[c].MinCapacity - yR - yE
			if shortfall < 0 {
				shortfall = 0
			}
			vals[mod.YRIndex(c)] = float64(yR)
			vals[mod.YEIndex(c)] = float64(yE)
			vals[mod.MIndex(c)] = float64(shortfall)
			obj += mod.Cargos[c].RegularCost*float64(yR) + mod.Cargos[c].ExcessCost*float64(yE) + mod.Cargos[c].DemurrageCost*float64(shortfall)
		}
		if obj < bestObj {
			bestObj = obj
			best = vals
		}
	}

	var rec func(p int)
	rec = func(p int) {
		if p == mod.PairCount {
			evaluate()
			return
		}
		f := mod.Locations[pairs[p].l].Forecast
		for xi := 0; xi <= f; xi++ {
			x[p] = xi
			for ei := 0; xi+ei <= f; ei++ {
				e[p] = ei
				rec(p + 1)
			}
		}
	}
	rec(0)

	if best == nil {
		return SolveResult{Status: StatusInfeasible}, nil
	}
	return SolveResult{Status: StatusOptimal, Obj: bestObj, Values: best}, nil
}

func singleCarrierModel(t *testing.T, forecast int) CargoModel {
	t.Helper()
	cargos := []Cargo{{ID: "A", MinCapacity: 10, MaxCapacity: 100, ExcessCapacity: 20, RegularCost: 3, ExcessCost: 5, DemurrageCost: 50, CoverageRate: 1.0}}
	locations := []Location{{ID: "L", Forecast: forecast, Eligible: []string{"A"}}}
	mod, err := CreateCargoModel(cargos, locations)
	require.NoError(t, err)
	return mod
}

func TestSingleCarrierRegularScenario(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	sol := ExtractAllocation(&mod, res)
	require.True(t, sol.Optimal)
	require.True(t, sol.Feasible)
	require.InDelta(t, 150.0, sol.Obj, 1e-9)
	require.Equal(t, 50, sol.Carriers[0].Regular)
	require.Equal(t, 0, sol.Carriers[0].Excess)
	require.Equal(t, 0, sol.Carriers[0].Shortfall)
	require.Equal(t, 50, sol.Carriers[0].Assigned)
	require.Equal(t, 50, sol.TotalForecast)
	require.Empty(t, sol.Warnings)

	valid, comment := CheckAllocationValidity(&mod, &sol)
	require.True(t, valid, comment)
}

func TestSingleCarrierShortfallScenario(t *testing.T) {
	mod := singleCarrierModel(t, 5)
	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	sol := ExtractAllocation(&mod, res)
	require.InDelta(t, 265.0, sol.Obj, 1e-9)
	require.Equal(t, 5, sol.Carriers[0].Regular)
	require.Equal(t, 0, sol.Carriers[0].Excess)
	require.Equal(t, 5, sol.Carriers[0].Shortfall)

	valid, comment := CheckAllocationValidity(&mod, &sol)
	require.True(t, valid, comment)
}

func TestZeroForecastAllZero(t *testing.T) {
	cargos := []Cargo{
		{ID: "A", MaxCapacity: 10, ExcessCapacity: 5, RegularCost: 3, ExcessCost: 5, DemurrageCost: 50, CoverageRate: 1.0},
		{ID: "B", MaxCapacity: 20, ExcessCapacity: 5, RegularCost: 2, ExcessCost: 9, DemurrageCost: 40, CoverageRate: 0.5},
	}
	locations := []Location{
		{ID: "L0", Forecast: 0, Eligible: []string{"A", "B"}},
		{ID: "L1", Forecast: 0, Eligible: []string{"A"}},
	}
	mod, err := CreateCargoModel(cargos, locations)
	require.NoError(t, err)

	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.Zero(t, res.Obj)
	for i, v := range res.Values {
		require.Zero(t, v, "variable %s", mod.VarNames[i])
	}

	sol := ExtractAllocation(&mod, res)
	require.Zero(t, sol.Obj)
	for c := range sol.Carriers {
		require.Zero(t, sol.Carriers[c].Assigned)
		require.Zero(t, sol.Carriers[c].Shortfall)
	}
}

func TestInfeasibleWhenForecastExceedsSupply(t *testing.T) {
	// Max+excess supply is 120, forecast 200: demurrage cannot create supply.
	mod := singleCarrierModel(t, 200)
	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, res.Status)

	sol := ExtractAllocation(&mod, res)
	require.False(t, sol.Feasible)
	require.False(t, sol.Optimal)
	require.Equal(t, STATUS_INFEASIBLE, sol.Status)
	require.Equal(t, "no feasible allocation", sol.Comment)
	require.Equal(t, 200, sol.TotalForecast)
	// Grids stay addressable even without a solution.
	require.Len(t, sol.Regular, 1)
	require.Len(t, sol.Regular[0], 1)
	require.Zero(t, sol.Regular[0][0])
}

func TestFeasibleStatusStillInterpreted(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)

	// A time-limited run returns the incumbent as Feasible; the report
	// must still be complete and constraint-valid.
	res.Status = StatusFeasible
	sol := ExtractAllocation(&mod, res)
	require.True(t, sol.Feasible)
	require.False(t, sol.Optimal)
	require.Equal(t, STATUS_FEASIBLE, sol.Status)
	require.Equal(t, 50, sol.Carriers[0].Assigned)

	valid, comment := CheckAllocationValidity(&mod, &sol)
	require.True(t, valid, comment)
}

func TestExtractAllocationRoundsSolverNoise(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	vals := make([]float64, mod.VarCount)
	vals[mod.XIndex(0, 0)] = 49.9999996
	vals[mod.EIndex(0, 0)] = 1e-7
	vals[mod.YRIndex(0)] = 50.0000004
	vals[mod.YEIndex(0)] = -1e-9
	vals[mod.MIndex(0)] = 0

	sol := ExtractAllocation(&mod, SolveResult{Status: StatusOptimal, Obj: 150.0000002, Values: vals})
	require.Equal(t, 50, sol.Regular[0][0])
	require.Zero(t, sol.Excess[0][0])
	require.Equal(t, 50, sol.Carriers[0].Regular)
	require.Empty(t, sol.Warnings)
}

func TestExtractAllocationNegativeRoundingWarning(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	vals := make([]float64, mod.VarCount)
	vals[mod.XIndex(0, 0)] = 50
	vals[mod.YRIndex(0)] = 50
	vals[mod.MIndex(0)] = -0.7

	sol := ExtractAllocation(&mod, SolveResult{Status: StatusOptimal, Obj: 100, Values: vals})
	require.Equal(t, -1, sol.Carriers[0].Shortfall, "negative values must surface, not be clamped")
	require.NotEmpty(t, sol.Warnings)
	found := false
	for _, w := range sol.Warnings {
		if w == "rounded negative value -1 for M_A" {
			found = true
		}
	}
	require.True(t, found, "warnings: %v", sol.Warnings)
}

func TestExtractAllocationObjectiveMismatchWarning(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	vals := make([]float64, mod.VarCount)
	vals[mod.XIndex(0, 0)] = 50
	vals[mod.YRIndex(0)] = 50

	sol := ExtractAllocation(&mod, SolveResult{Status: StatusOptimal, Obj: 999, Values: vals})
	require.InDelta(t, 999.0, sol.Obj, 1e-9)
	require.NotEmpty(t, sol.Warnings)
}

func TestIneligiblePairReportedAsZero(t *testing.T) {
	cargos := []Cargo{
		{ID: "A", MaxCapacity: 10, RegularCost: 1, ExcessCost: 2, CoverageRate: 1.0},
		{ID: "B", MaxCapacity: 10, RegularCost: 2, ExcessCost: 3, CoverageRate: 1.0},
	}
	locations := []Location{
		{ID: "L0", Forecast: 4, Eligible: []string{"A", "B"}},
		{ID: "L1", Forecast: 3, Eligible: []string{"B"}},
	}
	mod, err := CreateCargoModel(cargos, locations)
	require.NoError(t, err)

	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	sol := ExtractAllocation(&mod, res)
	require.Len(t, sol.Regular, 2)
	require.Len(t, sol.Regular[0], 2)
	require.Zero(t, sol.Regular[0][1], "ineligible pair must report the zero sentinel")
	require.Zero(t, sol.Excess[0][1])
	require.Equal(t, 3, sol.Regular[1][1]+sol.Excess[1][1])

	valid, comment := CheckAllocationValidity(&mod, &sol)
	require.True(t, valid, comment)
}

func TestCheckAllocationValidityFlagsViolations(t *testing.T) {
	mod := singleCarrierModel(t, 50)
	res, err := enumSolver{}.Solve(&mod, 1)
	require.NoError(t, err)
	sol := ExtractAllocation(&mod, res)

	sol.Regular[0][0] = 60 // now disagrees with the forecast and the totals
	valid, comment := CheckAllocationValidity(&mod, &sol)
	require.False(t, valid)
	require.NotEmpty(t, comment)
}
