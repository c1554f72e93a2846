package cargoalloc

import (
	"fmt"
	"math"
)

// ExtractAllocation turns a raw solve result into the domain-level
// allocation report. For non-success statuses it produces an explicit
// "no feasible allocation" report with zeroed grids; otherwise every
// variable value is rounded half-away-from-zero and aggregated per
// carrier and per (carrier, location) pair. Numeric oddities (negative
// roundings, an objective that disagrees with the recomputed cost) are
// reported as warnings, never silently fixed.
func ExtractAllocation(mod *CargoModel, res SolveResult) CargoSolution {
	sol := CargoSolution{
		Status:        res.Status.String(),
		Optimal:       res.Status == StatusOptimal,
		Feasible:      res.Status.HasSolution(),
		TotalForecast: TotalForecast(mod.Locations),
	}
	sol.Regular = make([][]int, mod.N)
	sol.Excess = make([][]int, mod.N)
	for c := 0; c < mod.N; c++ {
		sol.Regular[c] = make([]int, mod.M)
		sol.Excess[c] = make([]int, mod.M)
	}
	sol.Carriers = make([]CarrierAllocation, mod.N)
	for c := 0; c < mod.N; c++ {
		sol.Carriers[c].ID = mod.Cargos[c].ID
	}

	if !sol.Feasible {
		sol.Comment = "no feasible allocation"
		return sol
	}

	rounded := make([]int, mod.VarCount)
	for i := 0; i < mod.VarCount; i++ {
		rounded[i] = RoundHalfAwayFromZero(res.Values[i])
		if rounded[i] < 0 {
			warn := fmt.Sprintf("rounded negative value %d for %s", rounded[i], mod.VarNames[i])
			Log(1, warn)
			sol.Warnings = append(sol.Warnings, warn)
		}
	}

	for c := 0; c < mod.N; c++ {
		for l := 0; l < mod.M; l++ {
			if mod.PairIndex[c][l] < 0 {
				continue
			}
			sol.Regular[c][l] = rounded[mod.XIndex(c, l)]
			sol.Excess[c][l] = rounded[mod.EIndex(c, l)]
		}
	}

	recomputed := 0.0
	for c := 0; c < mod.N; c++ {
		yR := rounded[mod.YRIndex(c)]
		yE := rounded[mod.YEIndex(c)]
		m := rounded[mod.MIndex(c)]
		sol.Carriers[c].Regular = yR
		sol.Carriers[c].Excess = yE
		sol.Carriers[c].Assigned = yR + yE
		sol.Carriers[c].Shortfall = m
		recomputed += mod.Cargos[c].RegularCost*float64(yR) + mod.Cargos[c].ExcessCost*float64(yE) + mod.Cargos[c].DemurrageCost*float64(m)
	}

	sol.Obj = res.Obj
	if math.Abs(recomputed-res.Obj) > 1e-4 {
		warn := fmt.Sprintf("objective %.6f does not match recomputed cost %.6f", res.Obj, recomputed)
		Log(1, warn)
		sol.Warnings = append(sol.Warnings, warn)
	}

	return sol
}

// CheckAllocationValidity recomputes every hard constraint from the
// reported grids and totals. Used after solving and by the analyzer to
// revalidate stored solutions.
func CheckAllocationValidity(mod *CargoModel, sol *CargoSolution) (bool, string) {
	valid := true
	comment := ""

	for l := 0; l < mod.M; l++ {
		served := 0
		for c := 0; c < mod.N; c++ {
			served += sol.Regular[c][l] + sol.Excess[c][l]
		}
		if served != mod.Locations[l].Forecast {
			comment += fmt.Sprintf("Location %s is served %d units but forecasts %d! ", mod.Locations[l].ID, served, mod.Locations[l].Forecast)
			valid = false
		}
	}

	for c := 0; c < mod.N; c++ {
		for l := 0; l < mod.M; l++ {
			pair := sol.Regular[c][l] + sol.Excess[c][l]
			if mod.PairIndex[c][l] < 0 {
				if pair != 0 {
					comment += fmt.Sprintf("Carrier %s serves %d units at %s without being eligible! ", mod.Cargos[c].ID, pair, mod.Locations[l].ID)
					valid = false
				}
				continue
			}
			limit := mod.Cargos[c].CoverageRate * float64(mod.Locations[l].Forecast)
			if float64(pair) > limit+1e-9 {
				comment += fmt.Sprintf("Carrier %s serves %d units at %s but is capped at %.2f! ", mod.Cargos[c].ID, pair, mod.Locations[l].ID, limit)
				valid = false
			}
		}
	}

	for c := 0; c < mod.N; c++ {
		regSum := 0
		excSum := 0
		for l := 0; l < mod.M; l++ {
			regSum += sol.Regular[c][l]
			excSum += sol.Excess[c][l]
		}
		alloc := sol.Carriers[c]
		if regSum != alloc.Regular || excSum != alloc.Excess {
			comment += fmt.Sprintf("Carrier %s totals (%d,%d) disagree with its grid sums (%d,%d)! ", alloc.ID, alloc.Regular, alloc.Excess, regSum, excSum)
			valid = false
		}
		if alloc.Regular > mod.Cargos[c].MaxCapacity {
			comment += fmt.Sprintf("Carrier %s is assigned %d regular units but max capacity is %d! ", alloc.ID, alloc.Regular, mod.Cargos[c].MaxCapacity)
			valid = false
		}
		if alloc.Excess > mod.Cargos[c].ExcessCapacity {
			comment += fmt.Sprintf("Carrier %s is assigned %d excess units but excess capacity is %d! ", alloc.ID, alloc.Excess, mod.Cargos[c].ExcessCapacity)
			valid = false
		}
		if alloc.Regular+alloc.Excess+alloc.Shortfall < mod.Cargos[c].MinCapacity {
			comment += fmt.Sprintf("Carrier %s covers %d units against a minimum of %d! ", alloc.ID, alloc.Regular+alloc.Excess+alloc.Shortfall, mod.Cargos[c].MinCapacity)
			valid = false
		}
	}

	return valid, comment
}
