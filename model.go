package cargoalloc

import (
	"fmt"
	"math"
)

// Constraint senses handed to the solver adapter.
const (
	LESS_EQUAL    int8 = '<'
	EQUAL         int8 = '='
	GREATER_EQUAL int8 = '>'
)

// Constr is one linear row: sum(Val[i] * var[Ind[i]]) Op RHS.
type Constr struct {
	Ind  []int32
	Val  []float64
	Op   int8
	RHS  float64
	Name string
}

// CargoModel is the fully built MILP instance for one allocation run.
// All decision variables are integers with lower bound 0 and the upper
// bound in VarUB. Variables only exist for eligible (carrier, location)
// pairs; PairIndex holds -1 for ineligible pairs. The model is built
// once by CreateCargoModel and not mutated afterwards.
//
// Variable layout (start offsets, as indices into the flat arrays):
//
//	X_c_l  regular units of carrier c at location l   [XStart, XStart+PairCount)
//	E_c_l  excess units of carrier c at location l    [EStart, EStart+PairCount)
//	YR_c   total regular units of carrier c           [YRStart, YRStart+N)
//	YE_c   total excess units of carrier c            [YEStart, YEStart+N)
//	M_c    shortfall below carrier c's minimum        [MStart, MStart+N)
type CargoModel struct {
	Cargos    []Cargo
	Locations []Location

	N int // number of carriers
	M int // number of locations

	PairIndex [][]int
	PairCount int

	XStart  int
	EStart  int
	YRStart int
	YEStart int
	MStart  int

	VarCount int
	VarNames []string
	VarUB    []float64

	Obj     []float64
	Constrs []Constr
}

// XIndex returns the variable index of X_c_l, or -1 if the pair is not eligible.
func (mod *CargoModel) XIndex(c, l int) int {
	p := mod.PairIndex[c][l]
	if p < 0 {
		return -1
	}
	return mod.XStart + p
}

// EIndex returns the variable index of E_c_l, or -1 if the pair is not eligible.
func (mod *CargoModel) EIndex(c, l int) int {
	p := mod.PairIndex[c][l]
	if p < 0 {
		return -1
	}
	return mod.EStart + p
}

func (mod *CargoModel) YRIndex(c int) int {
	return mod.YRStart + c
}

func (mod *CargoModel) YEIndex(c int) int {
	return mod.YEStart + c
}

func (mod *CargoModel) MIndex(c int) int {
	return mod.MStart + c
}

// CreateCargoModel builds the complete allocation MILP from the given
// carriers and locations. It fails only on configuration errors: empty
// input or a location whose eligible set names an unknown carrier.
// Structural infeasibility (e.g. minimum capacities exceeding total
// forecast) is left for the solver to report.
func CreateCargoModel(cargos []Cargo, locations []Location) (CargoModel, error) {
	N := len(cargos)
	M := len(locations)
	if N == 0 {
		return CargoModel{}, fmt.Errorf("cargoalloc: no carriers given")
	}
	if M == 0 {
		return CargoModel{}, fmt.Errorf("cargoalloc: no locations given")
	}

	cargoIdx := make(map[string]int, N)
	for c, cargo := range cargos {
		if _, ok := cargoIdx[cargo.ID]; ok {
			return CargoModel{}, fmt.Errorf("cargoalloc: duplicate carrier id %q", cargo.ID)
		}
		cargoIdx[cargo.ID] = c
	}

	pairIndex := make([][]int, N)
	for c := 0; c < N; c++ {
		pairIndex[c] = make([]int, M)
		for l := 0; l < M; l++ {
			pairIndex[c][l] = -1
		}
	}
	for l, loc := range locations {
		for _, id := range loc.Eligible {
			c, ok := cargoIdx[id]
			if !ok {
				return CargoModel{}, fmt.Errorf("cargoalloc: location %q lists unknown carrier %q", loc.ID, id)
			}
			pairIndex[c][l] = 0
		}
	}
	pairCount := 0
	for c := 0; c < N; c++ {
		for l := 0; l < M; l++ {
			if pairIndex[c][l] == 0 {
				pairIndex[c][l] = pairCount
				pairCount++
			}
		}
	}

	mod := CargoModel{
		Cargos:    cargos,
		Locations: locations,
		N:         N,
		M:         M,
		PairIndex: pairIndex,
		PairCount: pairCount,
	}
	buildVariables(&mod)
	buildObjective(&mod)
	buildConstraints(&mod)
	return mod, nil
}

func buildVariables(mod *CargoModel) {
	mod.XStart = 0
	mod.EStart = mod.XStart + mod.PairCount
	mod.YRStart = mod.EStart + mod.PairCount
	mod.YEStart = mod.YRStart + mod.N
	mod.MStart = mod.YEStart + mod.N
	mod.VarCount = 2*mod.PairCount + 3*mod.N

	mod.VarNames = make([]string, mod.VarCount)
	mod.VarUB = make([]float64, mod.VarCount)
	for i := 0; i < mod.VarCount; i++ {
		mod.VarUB[i] = float64(math.MaxInt32)
	}
	for c := 0; c < mod.N; c++ {
		for l := 0; l < mod.M; l++ {
			if mod.PairIndex[c][l] < 0 {
				continue
			}
			mod.VarNames[mod.XIndex(c, l)] = fmt.Sprintf("X_%s_%s", mod.Cargos[c].ID, mod.Locations[l].ID)
			mod.VarNames[mod.EIndex(c, l)] = fmt.Sprintf("E_%s_%s", mod.Cargos[c].ID, mod.Locations[l].ID)
		}
	}
	for c := 0; c < mod.N; c++ {
		mod.VarNames[mod.YRIndex(c)] = fmt.Sprintf("YR_%s", mod.Cargos[c].ID)
		mod.VarNames[mod.YEIndex(c)] = fmt.Sprintf("YE_%s", mod.Cargos[c].ID)
		mod.VarNames[mod.MIndex(c)] = fmt.Sprintf("M_%s", mod.Cargos[c].ID)
	}
}

func buildObjective(mod *CargoModel) {
	mod.Obj = make([]float64, mod.VarCount)
	for i := 0; i < mod.VarCount; i++ {
		mod.Obj[i] = 0.0 //need this because of some random values otherwise
	}
	for c := 0; c < mod.N; c++ {
		mod.Obj[mod.YRIndex(c)] = mod.Cargos[c].RegularCost
		mod.Obj[mod.YEIndex(c)] = mod.Cargos[c].ExcessCost
		mod.Obj[mod.MIndex(c)] = mod.Cargos[c].DemurrageCost
	}
}

func buildConstraints(mod *CargoModel) {
	//Add constraints (1) forcing each location's forecast to be met by its eligible carriers
	{
		Log(2, "Creating and setting constraints sum_c(X_cl + E_cl) = forecast_l (1)")
		for l := 0; l < mod.M; l++ {
			ind := make([]int32, 0)
			val := make([]float64, 0)
			for c := 0; c < mod.N; c++ {
				if mod.PairIndex[c][l] < 0 {
					continue
				}
				ind = append(ind, int32(mod.XIndex(c, l)))
				val = append(val, 1.0)
				ind = append(ind, int32(mod.EIndex(c, l)))
				val = append(val, 1.0)
			}
			mod.addConstr(ind, val, EQUAL, float64(mod.Locations[l].Forecast), fmt.Sprintf("forecast_%s", mod.Locations[l].ID))
		}
	}

	//Add constraints (2) linking the X variables to the per-carrier regular total YR
	{
		Log(2, "Creating and setting constraints sum_l(X_cl) = YR_c (2)")
		for c := 0; c < mod.N; c++ {
			ind := make([]int32, 0)
			val := make([]float64, 0)
			for l := 0; l < mod.M; l++ {
				if mod.PairIndex[c][l] < 0 {
					continue
				}
				ind = append(ind, int32(mod.XIndex(c, l)))
				val = append(val, 1.0)
			}
			ind = append(ind, int32(mod.YRIndex(c)))
			val = append(val, -1.0)
			mod.addConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("regagg_%s", mod.Cargos[c].ID))
		}
	}

	//Add constraints (3) linking the E variables to the per-carrier excess total YE
	{
		Log(2, "Creating and setting constraints sum_l(E_cl) = YE_c (3)")
		for c := 0; c < mod.N; c++ {
			ind := make([]int32, 0)
			val := make([]float64, 0)
			for l := 0; l < mod.M; l++ {
				if mod.PairIndex[c][l] < 0 {
					continue
				}
				ind = append(ind, int32(mod.EIndex(c, l)))
				val = append(val, 1.0)
			}
			ind = append(ind, int32(mod.YEIndex(c)))
			val = append(val, -1.0)
			mod.addConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("excagg_%s", mod.Cargos[c].ID))
		}
	}

	//Add constraints (4) capping each eligible pair at the carrier's coverage share of the forecast
	{
		Log(2, "Creating and setting constraints X_cl + E_cl <= rate_c * forecast_l (4)")
		for c := 0; c < mod.N; c++ {
			for l := 0; l < mod.M; l++ {
				if mod.PairIndex[c][l] < 0 {
					continue
				}
				ind := []int32{int32(mod.XIndex(c, l)), int32(mod.EIndex(c, l))}
				val := []float64{1.0, 1.0}
				rhs := mod.Cargos[c].CoverageRate * float64(mod.Locations[l].Forecast)
				mod.addConstr(ind, val, LESS_EQUAL, rhs, fmt.Sprintf("cover_%s_%s", mod.Cargos[c].ID, mod.Locations[l].ID))
			}
		}
	}

	//Add constraints (5) bounding each carrier's capacity tiers
	{
		Log(2, "Creating and setting constraints YR_c <= max_c, YR_c + YE_c + M_c >= min_c, YE_c <= excess_c (5)")
		for c := 0; c < mod.N; c++ {
			cargo := mod.Cargos[c]

			ind := []int32{int32(mod.YRIndex(c))}
			val := []float64{1.0}
			mod.addConstr(ind, val, LESS_EQUAL, float64(cargo.MaxCapacity), fmt.Sprintf("maxcap_%s", cargo.ID))

			ind = []int32{int32(mod.YRIndex(c)), int32(mod.YEIndex(c)), int32(mod.MIndex(c))}
			val = []float64{1.0, 1.0, 1.0}
			mod.addConstr(ind, val, GREATER_EQUAL, float64(cargo.MinCapacity), fmt.Sprintf("mincap_%s", cargo.ID))

			ind = []int32{int32(mod.YEIndex(c))}
			val = []float64{1.0}
			mod.addConstr(ind, val, LESS_EQUAL, float64(cargo.ExcessCapacity), fmt.Sprintf("exccap_%s", cargo.ID))
		}
	}
}

func (mod *CargoModel) addConstr(ind []int32, val []float64, op int8, rhs float64, name string) {
	Log(4, "Adding constraint %s with %d terms, op %c, rhs %.4f", name, len(ind), op, rhs)
	mod.Constrs = append(mod.Constrs, Constr{Ind: ind, Val: val, Op: op, RHS: rhs, Name: name})
}
